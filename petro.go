/*
 * petro.go, part of gopetro.
 *
 * Copyright 2025 The gopetro Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package petro

import (
	"strings"

	"gonum.org/v1/gonum/floats"
)

/**Note: Some functions here panic instead of returning errors. This is because they are "fundamental"
 * functions. I considered that if something goes wrong there, the program is way-most likely wrong and should
 * crash. Most panics are related to using the function on a nil object.**/

//Rock holds one equilibrium snapshot: the stable assemblage predicted by the
//minimizer at a given pressure, temperature and bulk composition.
//All composition vectors in a Rock (bulk, minerals, fluids) are indexed
//against the Elements slice, so index i means the same element everywhere.
type Rock struct {
	Temperature float64 `json:"temperature"` //degrees C
	Pressure    float64 `json:"pressure"`    //bar
	//The two input-file lines used for this snapshot, kept verbatim so the
	//result can be reproduced.
	TherinPT   string `json:"therin_pt"`
	TherinBulk string `json:"therin_bulk"`
	//The shared element index. Symbols as printed by the minimizer (upper case).
	Elements       []string  `json:"elements"`
	BulkMol        []float64 `json:"bulk_mol"`         //bulk composition, mol per element
	BulkMolPercent []float64 `json:"bulk_mol_percent"` //bulk composition, mol%
	GSystem        float64   `json:"g_system"`         //total Gibbs energy, J
	//GSystem divided by the total moles of input atoms. Unlike GSystem itself,
	//this doesn't depend on the absolute amounts given in the bulk.
	GPerMol    float64            `json:"g_per_mol"`
	Minerals   []*Mineral         `json:"minerals"`
	Fluids     []*Fluid           `json:"fluids"`
	Metastable []DeltaG           `json:"metastable"`         //Gibbs-energy distances above the stable plane
	ChemPot    map[string]float64 `json:"chem_pot,omitempty"` //chemical potentials of the components, J/mol
	Water      *WaterContent      `json:"water,omitempty"`
	//Totals of the solid part of the assemblage.
	SolidVol     float64 `json:"solid_vol"`     //ccm
	SolidWt      float64 `json:"solid_wt"`      //g
	SolidDensity float64 `json:"solid_density"` //g/ccm
}

//Mineral is a stable solid phase of an assemblage. The Name is the one the
//minimizer prints: it depends on the database and, for solution phases, on the
//dominant endmember, so the same physical mineral can appear under different
//names in different snapshots.
type Mineral struct {
	Name       string  `json:"name"`
	N          float64 `json:"n"`           //amount, mol
	MolarVol   float64 `json:"molar_vol"`   //ccm/mol
	Vol        float64 `json:"vol"`         //ccm
	VolPercent float64 `json:"vol_percent"` //vol% of the solids
	MolarWt    float64 `json:"molar_wt"`    //g/mol
	Wt         float64 `json:"wt"`          //g
	WtPercent  float64 `json:"wt_percent"`  //wt% of the solids
	Density    float64 `json:"density"`     //g/ccm
	//Composition as atoms per formula unit and as total element moles bound
	//in the phase, both indexed against the Rock's element list.
	APFU []float64 `json:"apfu"`
	Mol  []float64 `json:"mol"`
	//Endmember fractions and activities. Only solution phases have them.
	Endmembers []Endmember `json:"endmembers,omitempty"`
}

//Fluid is a stable fluid or gas phase. The minimizer prints no percent
//columns for fluids, so there are none here.
type Fluid struct {
	Name       string      `json:"name"`
	N          float64     `json:"n"`         //amount, mol
	MolarVol   float64     `json:"molar_vol"` //ccm/mol
	Vol        float64     `json:"vol"`       //ccm
	MolarWt    float64     `json:"molar_wt"`  //g/mol
	Wt         float64     `json:"wt"`        //g
	Density    float64     `json:"density"`   //g/ccm
	APFU       []float64   `json:"apfu"`
	Mol        []float64   `json:"mol"`
	Endmembers []Endmember `json:"endmembers,omitempty"`
}

//Endmember holds the mol fraction and activity of one endmember of a
//solution phase.
type Endmember struct {
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Activity float64 `json:"activity"`
	ActX     float64 `json:"act_x"`
}

//DeltaG is the Gibbs-energy distance of a metastable phase above the stable
//plane, in J. Small values flag phases that are almost stable.
type DeltaG struct {
	Name   string  `json:"name"`
	DeltaG float64 `json:"delta_g"`
}

//WaterContent is the H2O bookkeeping of an assemblage: how much water each
//phase binds, and the totals for the solids.
type WaterContent struct {
	Solids               []WaterEntry `json:"solids"`
	Fluids               []WaterEntry `json:"fluids"`
	TotalMol             float64      `json:"total_mol"`               //H2O bound in solids, mol
	TotalWt              float64      `json:"total_wt"`                //H2O bound in solids, g
	TotalWtPercentSolids float64      `json:"total_wt_percent_solids"` //wt% of the solids
}

//WaterEntry is the water content of a single phase. The last three fields
//are only printed for solids and stay zero for fluid entries.
type WaterEntry struct {
	Name              string  `json:"name"`
	N                 float64 `json:"n"`        //amount of the phase, mol
	PFU               float64 `json:"pfu"`      //H2O per formula unit
	Mol               float64 `json:"mol"`      //H2O, mol
	Wt                float64 `json:"wt"`       //H2O, g
	WtPercentPhase    float64 `json:"wt_percent_phase"`
	WtPercentSolids   float64 `json:"wt_percent_solids"`
	PercentSolidWater float64 `json:"percent_solid_water"`
}

/*****Rock methods*****/

//ElementIndex returns the position of the given element symbol in the Rock's
//element list, or -1 if the element is not in the system. The comparison is
//case-insensitive, as the minimizer prints symbols in upper case but users
//tend to write "Si" or "si".
func (R *Rock) ElementIndex(symbol string) int {
	symbol = strings.ToUpper(symbol)
	for i, v := range R.Elements {
		if v == symbol {
			return i
		}
	}
	return -1
}

//Mineral returns the stable mineral with the given name, or nil if the
//assemblage doesn't contain it.
func (R *Rock) Mineral(name string) *Mineral {
	for _, v := range R.Minerals {
		if v.Name == name {
			return v
		}
	}
	return nil
}

//Fluid returns the stable fluid with the given name, or nil if the
//assemblage doesn't contain it.
func (R *Rock) Fluid(name string) *Fluid {
	for _, v := range R.Fluids {
		if v.Name == name {
			return v
		}
	}
	return nil
}

//MineralNames returns the names of the stable minerals in the order the
//minimizer printed them.
func (R *Rock) MineralNames() []string {
	ret := make([]string, 0, len(R.Minerals))
	for _, v := range R.Minerals {
		ret = append(ret, v.Name)
	}
	return ret
}

//FluidNames returns the names of the stable fluids.
func (R *Rock) FluidNames() []string {
	ret := make([]string, 0, len(R.Fluids))
	for _, v := range R.Fluids {
		ret = append(ret, v.Name)
	}
	return ret
}

//Phases returns all stable phases of the Rock, minerals first, then fluids.
func (R *Rock) Phases() []Phase {
	ret := make([]Phase, 0, len(R.Minerals)+len(R.Fluids))
	for _, v := range R.Minerals {
		ret = append(ret, v)
	}
	for _, v := range R.Fluids {
		ret = append(ret, v)
	}
	return ret
}

//TotalMol returns the total moles of input atoms, i.e. the sum of the bulk
//composition. GPerMol times TotalMol recovers GSystem.
func (R *Rock) TotalMol() float64 {
	return floats.Sum(R.BulkMol)
}

//MetastableDeltaG returns the Gibbs-energy distance of the named metastable
//phase. The bool is false if the phase is not in the metastable table.
func (R *Rock) MetastableDeltaG(name string) (float64, bool) {
	for _, v := range R.Metastable {
		if v.Name == name {
			return v.DeltaG, true
		}
	}
	return 0, false
}

//CheckElements verifies that every composition vector of the Rock has the
//same length as its element list, which is what makes per-index comparisons
//across phases meaningful. It returns nil if the Rock is consistent.
func (R *Rock) CheckElements() error {
	n := len(R.Elements)
	if len(R.BulkMol) != n || len(R.BulkMolPercent) != n {
		return CError{"petro: bulk composition not indexed against the element list", []string{"CheckElements"}}
	}
	for _, v := range R.Minerals {
		if len(v.APFU) != n || len(v.Mol) != n {
			return CError{"petro: composition of " + v.Name + " not indexed against the element list", []string{"CheckElements"}}
		}
	}
	for _, v := range R.Fluids {
		if len(v.APFU) != n || len(v.Mol) != n {
			return CError{"petro: composition of " + v.Name + " not indexed against the element list", []string{"CheckElements"}}
		}
	}
	return nil
}

//Copy returns a deep copy of the Rock. The copy shares nothing with the
//original, so mutating one never affects the other.
func (R *Rock) Copy() *Rock {
	if R == nil {
		panic("Attempted to copy a nil Rock")
	}
	NewR := new(Rock)
	*NewR = *R
	NewR.Elements = append([]string{}, R.Elements...)
	NewR.BulkMol = append([]float64{}, R.BulkMol...)
	NewR.BulkMolPercent = append([]float64{}, R.BulkMolPercent...)
	NewR.Minerals = make([]*Mineral, 0, len(R.Minerals))
	for _, v := range R.Minerals {
		NewR.Minerals = append(NewR.Minerals, v.Copy())
	}
	NewR.Fluids = make([]*Fluid, 0, len(R.Fluids))
	for _, v := range R.Fluids {
		NewR.Fluids = append(NewR.Fluids, v.Copy())
	}
	NewR.Metastable = append([]DeltaG{}, R.Metastable...)
	if R.ChemPot != nil {
		NewR.ChemPot = make(map[string]float64, len(R.ChemPot))
		for k, v := range R.ChemPot {
			NewR.ChemPot[k] = v
		}
	}
	if R.Water != nil {
		w := *R.Water
		w.Solids = append([]WaterEntry{}, R.Water.Solids...)
		w.Fluids = append([]WaterEntry{}, R.Water.Fluids...)
		NewR.Water = &w
	}
	return NewR
}

/*****Mineral methods*****/

//Copy returns a deep copy of the Mineral.
func (M *Mineral) Copy() *Mineral {
	if M == nil {
		panic("Attempted to copy a nil Mineral")
	}
	NewM := new(Mineral)
	*NewM = *M
	NewM.APFU = append([]float64{}, M.APFU...)
	NewM.Mol = append([]float64{}, M.Mol...)
	NewM.Endmembers = append([]Endmember{}, M.Endmembers...)
	return NewM
}

//PhaseName returns the name of the mineral as printed by the minimizer.
func (M *Mineral) PhaseName() string { return M.Name }

//Moles returns the amount of the mineral in the assemblage, in mol.
func (M *Mineral) Moles() float64 { return M.N }

//CompositionAPFU returns the composition in atoms per formula unit.
func (M *Mineral) CompositionAPFU() []float64 { return M.APFU }

//CompositionMol returns the element moles bound in the mineral.
func (M *Mineral) CompositionMol() []float64 { return M.Mol }

//Endmember returns the endmember with the given name, or nil if the mineral
//has no such endmember (pure phases have none at all).
func (M *Mineral) Endmember(name string) *Endmember {
	for i := range M.Endmembers {
		if M.Endmembers[i].Name == name {
			return &M.Endmembers[i]
		}
	}
	return nil
}

/*****Fluid methods*****/

//Copy returns a deep copy of the Fluid.
func (F *Fluid) Copy() *Fluid {
	if F == nil {
		panic("Attempted to copy a nil Fluid")
	}
	NewF := new(Fluid)
	*NewF = *F
	NewF.APFU = append([]float64{}, F.APFU...)
	NewF.Mol = append([]float64{}, F.Mol...)
	NewF.Endmembers = append([]Endmember{}, F.Endmembers...)
	return NewF
}

//PhaseName returns the name of the fluid as printed by the minimizer.
func (F *Fluid) PhaseName() string { return F.Name }

//Moles returns the amount of the fluid in the assemblage, in mol.
func (F *Fluid) Moles() float64 { return F.N }

//CompositionAPFU returns the composition in atoms per formula unit.
func (F *Fluid) CompositionAPFU() []float64 { return F.APFU }

//CompositionMol returns the element moles bound in the fluid.
func (F *Fluid) CompositionMol() []float64 { return F.Mol }

//APFUOf returns the atoms per formula unit of the given element in the given
//phase, resolving the element through the Rock's element list.
func (R *Rock) APFUOf(ph Phase, symbol string) (float64, error) {
	i := R.ElementIndex(symbol)
	if i < 0 {
		return 0, CError{"petro: element " + symbol + " not in the system", []string{"APFUOf"}}
	}
	apfu := ph.CompositionAPFU()
	if i >= len(apfu) {
		return 0, CError{"petro: composition of " + ph.PhaseName() + " not indexed against the element list", []string{"APFUOf"}}
	}
	return apfu[i], nil
}

//MolOf returns the moles of the given element bound in the given phase,
//resolving the element through the Rock's element list.
func (R *Rock) MolOf(ph Phase, symbol string) (float64, error) {
	i := R.ElementIndex(symbol)
	if i < 0 {
		return 0, CError{"petro: element " + symbol + " not in the system", []string{"MolOf"}}
	}
	mol := ph.CompositionMol()
	if i >= len(mol) {
		return 0, CError{"petro: composition of " + ph.PhaseName() + " not indexed against the element list", []string{"MolOf"}}
	}
	return mol[i], nil
}

//BulkOf returns the moles of the given element in the bulk composition.
func (R *Rock) BulkOf(symbol string) (float64, error) {
	i := R.ElementIndex(symbol)
	if i < 0 {
		return 0, CError{"petro: element " + symbol + " not in the system", []string{"BulkOf"}}
	}
	if i >= len(R.BulkMol) {
		return 0, CError{"petro: bulk composition not indexed against the element list", []string{"BulkOf"}}
	}
	return R.BulkMol[i], nil
}
