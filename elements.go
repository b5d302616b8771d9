/*
 * elements.go, part of gopetro.
 *
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

import "strings"

//A map for assigning atomic weights (g/mol) to element symbols.
//Symbols are upper case, as the minimizer prints them.
//Values from the IUPAC/CIAAW 2021 standard atomic weights, abridged.
//Note that just the elements of common petrological interest are present.
var symbolWeight = map[string]float64{
	"H":  1.008,
	"C":  12.011,
	"O":  15.999,
	"F":  18.998,
	"NA": 22.990,
	"MG": 24.305,
	"AL": 26.982,
	"SI": 28.085,
	"P":  30.974,
	"S":  32.06,
	"CL": 35.45,
	"K":  39.098,
	"CA": 40.078,
	"TI": 47.867,
	"CR": 51.996,
	"MN": 54.938,
	"FE": 55.845,
	"NI": 58.693,
	"ZN": 65.38,
	"SR": 87.62,
	"ZR": 91.224,
	"BA": 137.327,
}

//Oxide describes one of the oxides rock analyses are reported in: its
//cation, the stoichiometry, and the molar weight of the oxide formula.
type Oxide struct {
	Cation  string
	NCation int
	NOxygen int
	Weight  float64 //g/mol
}

//A map with the rock-forming oxides, keyed by formula as written in
//analyses (upper case). Weights computed from the atomic weights above.
var oxideData = map[string]Oxide{
	"SIO2":  {"SI", 1, 2, 60.083},
	"TIO2":  {"TI", 1, 2, 79.865},
	"AL2O3": {"AL", 2, 3, 101.961},
	"CR2O3": {"CR", 2, 3, 151.989},
	"FE2O3": {"FE", 2, 3, 159.687},
	"FEO":   {"FE", 1, 1, 71.844},
	"MNO":   {"MN", 1, 1, 70.937},
	"MGO":   {"MG", 1, 1, 40.304},
	"NIO":   {"NI", 1, 1, 74.692},
	"ZNO":   {"ZN", 1, 1, 81.379},
	"CAO":   {"CA", 1, 1, 56.077},
	"NA2O":  {"NA", 2, 1, 61.979},
	"K2O":   {"K", 2, 1, 94.195},
	"P2O5":  {"P", 2, 5, 141.943},
	"H2O":   {"H", 2, 1, 18.015},
	"CO2":   {"C", 1, 2, 44.009},
	"SRO":   {"SR", 1, 1, 103.619},
	"BAO":   {"BA", 1, 1, 153.326},
	"ZRO2":  {"ZR", 1, 2, 123.222},
}

//AtomicWeight returns the atomic weight (g/mol) of the element with the
//given symbol. An error is returned for symbols not in the table.
func AtomicWeight(symbol string) (float64, error) {
	w, ok := symbolWeight[strings.ToUpper(symbol)]
	if !ok {
		return 0, CError{"petro: no atomic weight for element " + symbol, []string{"AtomicWeight"}}
	}
	return w, nil
}

//OxideInfo returns the stoichiometry and weight of the oxide with the given
//formula (e.g. "SiO2", "Al2O3"). An error is returned for formulas not in
//the table.
func OxideInfo(formula string) (Oxide, error) {
	o, ok := oxideData[strings.ToUpper(formula)]
	if !ok {
		return Oxide{}, CError{"petro: unknown oxide " + formula, []string{"OxideInfo"}}
	}
	return o, nil
}

//OxideWeight returns the molar weight (g/mol) of the oxide with the given
//formula.
func OxideWeight(formula string) (float64, error) {
	o, err := OxideInfo(formula)
	if err != nil {
		return 0, err
	}
	return o.Weight, nil
}

//PhaseWeight returns the weight (g) of one formula unit of a phase with the
//given composition, as the apfu-weighted sum of the atomic weights of the
//elements. Elements without a tabulated weight yield an error.
func PhaseWeight(elements []string, apfu []float64) (float64, error) {
	if len(elements) != len(apfu) {
		return 0, CError{"petro: composition not indexed against the element list", []string{"PhaseWeight"}}
	}
	w := 0.0
	for i, v := range elements {
		if apfu[i] == 0 {
			continue
		}
		aw, err := AtomicWeight(v)
		if err != nil {
			return 0, errDecorate(err, "PhaseWeight")
		}
		w += aw * apfu[i]
	}
	return w, nil
}
