/*
 * parse_test.go, part of gopetro.
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
 *
 */

package theriak

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
)

//TestReadMetapelite reads a full report of a garnet-bearing metapelite
//with a free fluid and checks every table against values worked out by
//hand from the same report.
func TestReadMetapelite(Te *testing.T) {
	rock, err := ReadOut("../test/metapelite.out", 6046, 417)
	if err != nil {
		Te.Fatal(err)
	}
	fmt.Println("metapelite report read!")
	wantElements := []string{"O", "AL", "CA", "FE", "H", "K", "MN", "MG", "NA", "SI", "TI"}
	if len(rock.Elements) != len(wantElements) {
		Te.Fatalf("got %d elements, want %d", len(rock.Elements), len(wantElements))
	}
	for i, v := range wantElements {
		if rock.Elements[i] != v {
			Te.Errorf("element %d: got %s, want %s", i, rock.Elements[i], v)
		}
	}
	wantMinerals := []string{"PLC1_abh", "WM02V_mu", "GTT01_gr", "BI05_ann", "CHL_daph", "q", "sph", "cz"}
	names := rock.MineralNames()
	if len(names) != len(wantMinerals) {
		Te.Fatalf("got minerals %v, want %v", names, wantMinerals)
	}
	for i, v := range wantMinerals {
		if names[i] != v {
			Te.Errorf("mineral %d: got %s, want %s", i, names[i], v)
		}
	}
	if err := rock.CheckElements(); err != nil {
		Te.Error(err)
	}

	bulk := []float64{245.71, 29.56, 2.87, 7.0, 100.0, 6.68, 0.14, 3.11, 4.86, 65.3, 0.94}
	if !floats.Equal(rock.BulkMol, bulk) {
		Te.Errorf("bulk: got %v, want %v", rock.BulkMol, bulk)
	}
	if s := floats.Sum(rock.BulkMolPercent); math.Abs(s-100) > 0.01 {
		Te.Errorf("bulk mol%% sums to %f", s)
	}
	if rock.GSystem != -60538974.45 {
		Te.Errorf("G(System): got %f", rock.GSystem)
	}
	if math.Abs(rock.GPerMol - -129864.586846) > 1e-5 {
		Te.Errorf("G per mol of input: got %f", rock.GPerMol)
	}

	bi := rock.Mineral("BI05_ann")
	if bi == nil {
		Te.Fatal("no BI05_ann in the assemblage")
	}
	apfu := []float64{12.0, 1.051688, 0.0, 1.92693, 2.0, 1.0, 0.026499, 0.941144, 0.0, 2.974156, 0.039792}
	if !floats.Equal(bi.APFU, apfu) {
		Te.Errorf("BI05_ann apfu: got %v, want %v", bi.APFU, apfu)
	}
	mol := []float64{4.418892, 0.387275, 0.0, 0.709575, 0.736482, 0.368241, 0.009758, 0.346568, 0.0, 1.095206, 0.014653}
	if !floats.Equal(bi.Mol, mol) {
		Te.Errorf("BI05_ann moles: got %v, want %v", bi.Mol, mol)
	}
	if bi.N != 0.3682 || bi.Vol != 56.1744 || bi.Density != 3.139094 {
		Te.Errorf("BI05_ann properties: N %f vol %f density %f", bi.N, bi.Vol, bi.Density)
	}
	if bi.MolarVol != 152.5480 || bi.MolarWt != 478.8624 || bi.Wt != 176.3368 {
		Te.Errorf("BI05_ann molar properties: %f %f %f", bi.MolarVol, bi.MolarWt, bi.Wt)
	}
	if bi.VolPercent != 2.2729 || bi.WtPercent != 2.5103 {
		Te.Errorf("BI05_ann percents: %f %f", bi.VolPercent, bi.WtPercent)
	}

	if rock.SolidVol != 2471.4548 || rock.SolidWt != 7024.6136 || rock.SolidDensity != 2.842299 {
		Te.Errorf("solid totals: %f %f %f", rock.SolidVol, rock.SolidWt, rock.SolidDensity)
	}

	if len(rock.Fluids) != 1 {
		Te.Fatalf("got %d fluids, want 1", len(rock.Fluids))
	}
	w := rock.Fluid("H2O")
	if w == nil {
		Te.Fatal("no H2O in the fluid assemblage")
	}
	if w.N != 35.8638 || w.MolarVol != 18.6578 || w.Vol != 669.138 {
		Te.Errorf("H2O volume properties: %f %f %f", w.N, w.MolarVol, w.Vol)
	}
	if w.MolarWt != 18.0153 || w.Wt != 646.0963 || w.Density != 0.965565 {
		Te.Errorf("H2O weight properties: %f %f %f", w.MolarWt, w.Wt, w.Density)
	}
	fluidAPFU := []float64{1, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0}
	if !floats.Equal(w.APFU, fluidAPFU) {
		Te.Errorf("H2O apfu: got %v", w.APFU)
	}

	//The feldspar is a ternary solution; the report carries its endmember
	//fractions and activities.
	plag := rock.Mineral("PLC1_abh")
	if plag == nil {
		Te.Fatal("no PLC1_abh in the assemblage")
	}
	if len(plag.Endmembers) != 3 {
		Te.Fatalf("PLC1_abh endmembers: got %v", plag.Endmembers)
	}
	ab := plag.Endmember("ab")
	if ab == nil || ab.X != 0.928450 || ab.Activity != 0.951400 || ab.ActX != 0.951400 {
		Te.Errorf("ab endmember: got %+v", ab)
	}
	if an := plag.Endmember("an"); an == nil || an.X != 0.066655 {
		Te.Errorf("an endmember: got %+v", an)
	}
	if q := rock.Mineral("q"); len(q.Endmembers) != 0 {
		Te.Errorf("quartz should have no endmembers, got %v", q.Endmembers)
	}

	if len(rock.Metastable) != 7 {
		Te.Fatalf("metastable: got %v", rock.Metastable)
	}
	if dg, ok := rock.MetastableDeltaG("ST_fst"); !ok || dg != 3019.92 {
		Te.Errorf("ST_fst deltaG: got %f, %v", dg, ok)
	}
	if dg, ok := rock.MetastableDeltaG("ky"); !ok || dg != 1201.30 {
		Te.Errorf("ky deltaG: got %f, %v", dg, ok)
	}

	if rock.Water == nil {
		Te.Fatal("no water bookkeeping parsed")
	}
	if len(rock.Water.Solids) != 4 || len(rock.Water.Fluids) != 1 {
		Te.Fatalf("water entries: %d solids, %d fluids", len(rock.Water.Solids), len(rock.Water.Fluids))
	}
	if rock.Water.TotalMol != 14.1362 || rock.Water.TotalWt != 254.6677 || rock.Water.TotalWtPercentSolids != 3.62536 {
		Te.Errorf("water totals: %f %f %f", rock.Water.TotalMol, rock.Water.TotalWt, rock.Water.TotalWtPercentSolids)
	}
	mu := rock.Water.Solids[0]
	if mu.Name != "WM02V_mu" || mu.Mol != 6.9877 || mu.PercentSolidWater != 49.4316 {
		Te.Errorf("white mica water: %+v", mu)
	}

	if len(rock.ChemPot) != 11 {
		Te.Errorf("chemical potentials: got %v", rock.ChemPot)
	}
	if rock.ChemPot["AL2O3"] != -1634123.45 || rock.ChemPot["SIO2"] != -908123.12 {
		Te.Errorf("chemical potentials: AL2O3 %f SIO2 %f", rock.ChemPot["AL2O3"], rock.ChemPot["SIO2"])
	}
}

//TestReadAndalusite covers the small-system shape of the report: few
//enough elements that no table row wraps, pure phases only, and no
//hydrous solids.
func TestReadAndalusite(Te *testing.T) {
	rock, err := ReadOut("../test/andalusite.out", 4000, 550)
	if err != nil {
		Te.Fatal(err)
	}
	if rock.GSystem != -20519354.34 {
		Te.Errorf("G(System): got %f", rock.GSystem)
	}
	wantElements := []string{"O", "AL", "H", "SI"}
	for i, v := range wantElements {
		if rock.Elements[i] != v {
			Te.Fatalf("elements: got %v", rock.Elements)
		}
	}
	if names := rock.MineralNames(); len(names) != 1 || names[0] != "and" {
		Te.Fatalf("minerals: got %v", names)
	}
	and := rock.Mineral("and")
	if !floats.Equal(and.APFU, []float64{5, 2, 0, 1}) {
		Te.Errorf("andalusite apfu: got %v", and.APFU)
	}
	if and.N != 1.0 || and.Vol != 51.53 || and.Density != 3.144693 {
		Te.Errorf("andalusite properties: %f %f %f", and.N, and.Vol, and.Density)
	}
	if names := rock.FluidNames(); len(names) != 1 || names[0] != "H2O" {
		Te.Fatalf("fluids: got %v", names)
	}
	w := rock.Fluid("H2O")
	if !floats.Equal(w.APFU, []float64{1, 0, 2, 0}) {
		Te.Errorf("H2O apfu: got %v", w.APFU)
	}
	if !floats.Equal(w.Mol, []float64{50, 0, 100, 0}) {
		Te.Errorf("H2O moles: got %v", w.Mol)
	}
	if len(and.Endmembers) != 0 {
		Te.Errorf("andalusite should have no endmembers, got %v", and.Endmembers)
	}
	if rock.Water == nil || len(rock.Water.Solids) != 0 || rock.Water.TotalMol != 0 {
		Te.Errorf("water bookkeeping: got %+v", rock.Water)
	}
	if dg, ok := rock.MetastableDeltaG("sill"); !ok || dg != 803.915 {
		Te.Errorf("sill deltaG: got %f, %v", dg, ok)
	}
	if rock.Pressure != 4000 || rock.Temperature != 550 {
		Te.Errorf("conditions: %f bar %f C", rock.Pressure, rock.Temperature)
	}
	//The per-phase element totals sum back to the input bulk within
	//roundoff.
	total := make([]float64, len(rock.Elements))
	for _, ph := range rock.Phases() {
		floats.Add(total, ph.CompositionMol())
	}
	for i := range total {
		if math.Abs(total[i]-rock.BulkMol[i]) > 1e-6 {
			Te.Errorf("mass balance off for %s: %f vs %f", rock.Elements[i], total[i], rock.BulkMol[i])
			break
		}
	}
}

//With no stable fluid the program prints neither the fluid table nor
//the H2O bookkeeping. Such a report is a valid result, not a parse
//error.
func TestParseAnhydrous(Te *testing.T) {
	data, err := os.ReadFile("../test/andalusite.out")
	if err != nil {
		Te.Fatal(err)
	}
	//Splice the fluid table and the H2O section out of the fixture,
	//keeping the blank lines and overline that decorate the mol% title.
	lines := strings.Split(string(data), "\n")
	fluid, title := -1, -1
	for i, v := range lines {
		if fluid < 0 && strings.HasPrefix(v, "  gases and fluids") {
			fluid = i
		}
		if strings.HasPrefix(v, " compositions of stable phases") {
			title = i
			break
		}
	}
	if fluid < 0 || title < fluid+4 {
		Te.Fatal("unexpected fixture layout")
	}
	dry := strings.Join(lines[:fluid], "\n") + "\n" + strings.Join(lines[title-3:], "\n")
	rock, err := Parse(dry, 4000, 550)
	if err != nil {
		Te.Fatal(err)
	}
	if len(rock.Fluids) != 0 || rock.Fluid("H2O") != nil {
		Te.Errorf("fluids in an anhydrous rock: %v", rock.FluidNames())
	}
	if rock.Water != nil {
		Te.Errorf("water bookkeeping in an anhydrous rock: %+v", rock.Water)
	}
	and := rock.Mineral("and")
	if and == nil {
		Te.Fatal("andalusite lost while dropping the fluid")
	}
	if !floats.Equal(and.APFU, []float64{5, 2, 0, 1}) {
		Te.Errorf("andalusite apfu: got %v", and.APFU)
	}
	if rock.SolidVol != 51.5300 || rock.SolidDensity != 3.144693 {
		Te.Errorf("solid totals: %f %f", rock.SolidVol, rock.SolidDensity)
	}
	if dg, ok := rock.MetastableDeltaG("sill"); !ok || dg != 803.915 {
		Te.Errorf("sill deltaG: got %f, %v", dg, ok)
	}
}

func TestParseTruncated(Te *testing.T) {
	data, err := os.ReadFile("../test/metapelite.out")
	if err != nil {
		Te.Fatal(err)
	}
	//Cut the report in the middle of the volumes table, as a crashed run
	//would leave it.
	text := string(data)
	cut := strings.Index(text, " volumes and densities")
	_, err = Parse(text[:cut], 6046, 417)
	if err == nil {
		Te.Fatal("a truncated report should not parse")
	}
	fmt.Println("truncated report refused with:", err)
}

//Mangled numbers (overflowed Fortran fields come out as asterisks) must
//surface as errors naming the column, wrapping the strconv failure.
func TestParseBadNumber(Te *testing.T) {
	data, err := os.ReadFile("../test/andalusite.out")
	if err != nil {
		Te.Fatal(err)
	}
	//The first occurrence is the andalusite density in the volumes table.
	bad := strings.Replace(string(data), "3.144693", "********", 1)
	_, err = Parse(bad, 4000, 550)
	if err == nil {
		Te.Fatal("a mangled density should not parse")
	}
	var nerr *strconv.NumError
	if !errors.As(err, &nerr) {
		Te.Errorf("want a strconv error in the chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "density") {
		Te.Errorf("the error does not name the bad column: %v", err)
	}
	fmt.Println("mangled report refused with:", err)
}

//A failed minimization still produces a full report, flagged by the
//activity-test marker. The rock must come back, together with the
//sentinel error.
func TestFailedMinimisationMarker(Te *testing.T) {
	data, err := os.ReadFile("../test/metapelite.out")
	if err != nil {
		Te.Fatal(err)
	}
	marked := strings.Replace(string(data), " exit THERIAK",
		" ** activity test: WM02V failed\n exit THERIAK", 1)
	name := filepath.Join(Te.TempDir(), "marked.out")
	if err := os.WriteFile(name, []byte(marked), 0644); err != nil {
		Te.Fatal(err)
	}
	rock, err := ReadOut(name, 6046, 417)
	if !errors.Is(err, ErrFailedMinimisation) {
		Te.Fatalf("expected the failed-minimisation sentinel, got %v", err)
	}
	if rock == nil || rock.GSystem != -60538974.45 {
		Te.Error("the flagged rock should still carry the parsed report")
	}
}
