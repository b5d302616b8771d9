/*
 * parse.go, part of gopetro.
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
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	petro "github.com/gopetro/gopetro"
	"gonum.org/v1/gonum/floats"
)

//The program separates its report into sections headed by fixed title
//lines. The parser locates a section by matching its title as a whole line,
//never by position, so extra output between sections is harmless.
const (
	keyBulk       = " composition:        N           N             mol%"
	keyConsidered = " considered phases:"
	keyAssemblage = " equilibrium assemblage:"
	keyPhaseTable = "         phase                   N         mol%                                   x              x         activity       act.(x)"
	keyVolume     = " volumes and densities of stable phases:"
	keyMolPercent = " compositions of stable phases [ mol% ]:"
	keyFluid      = "  gases and fluids       N       volume/mol  volume[ccm]               wt/mol       wt [g]              density [g/ccm]"
	keyWater      = " H2O content of stable phases:"
	keyElements   = " elements in stable phases:"
	keyAPFU       = " elements per formula unit:"
	keyActivities = " activities of all phases:"
	keyChemPot    = " chemical potentials of components:"
	keyExit       = " exit THERIAK"
)

//In the activities section, a line of 68 dashes separates the stable
//assemblage from the metastable phases.
const deltaGDelimiter = "--------------------------------------------------------------------"

//When the system has more elements than fit one table row, the program
//wraps composition rows onto continuation lines starting with 20 spaces.
const overflowIndent = "                    "

//findBlock returns the lines from the one equal to startKey up to (not
//including) the one equal to endKey, plus the residual starting at the end
//key, so the next search doesn't rescan what was already consumed.
//Section titles are underlined and preceded by two blank lines; if the end
//key is such a title (endSubtitle true), the block stops 3 lines earlier so
//it doesn't drag the decoration of the next section along.
func findBlock(lines []string, startKey, endKey string, endSubtitle bool) (block, residual []string, err error) {
	start := lineIndex(lines, startKey)
	if start < 0 {
		return nil, nil, fmt.Errorf("section %q not found in the report", strings.TrimSpace(startKey))
	}
	end := lineIndex(lines[start:], endKey)
	if end < 0 {
		return nil, nil, fmt.Errorf("section %q has no end marker %q", strings.TrimSpace(startKey), strings.TrimSpace(endKey))
	}
	end += start
	cut := end
	if endSubtitle {
		cut -= 3
		if cut < start {
			cut = start
		}
	}
	return lines[start:cut], lines[end:], nil
}

func lineIndex(lines []string, key string) int {
	for i, v := range lines {
		if v == key {
			return i
		}
	}
	return -1
}

//ReadOut parses the report stored in the given file, for a run at pressure
//p (bar) and temperature t (C). It is what Handle.Rock uses, and it also
//lets old output files be re-read without running the program again.
//A report with the failed-minimization marker gives back the rock together
//with an error wrapping ErrFailedMinimisation.
func ReadOut(filename string, p, t float64) (*petro.Rock, error) {
	errid := "theriak/ReadOut"
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	output := string(data)
	rock, err := Parse(output, p, t)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if failedMinimisation(output) {
		return rock, fmt.Errorf("%s: %w", errid, ErrFailedMinimisation)
	}
	return rock, nil
}

//Parse parses a report printed by the program for a run at pressure p
//(bar) and temperature t (C) into a petro.Rock. The element list is taken
//from the report itself and every composition vector of the rock is
//indexed against it.
func Parse(output string, p, t float64) (*petro.Rock, error) {
	errid := "theriak/Parse"
	lines := splitReport(output)

	blockBulk, rest, err := findBlock(lines, keyBulk, keyConsidered, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	blockGsys, rest, err := findBlock(rest, keyAssemblage, keyPhaseTable, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	blockPhases, rest, err := findBlock(rest, keyPhaseTable, keyVolume, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	//The fluid table sits between the volumes table and the end marker of
	//the volumes section, so the residual must not advance past it here.
	blockVolume, _, err := findBlock(rest, keyVolume, keyMolPercent, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	//No stable fluid, no fluid table. That is a perfectly fine result.
	blockFluid, fluidResidual, errFluid := findBlock(rest, keyFluid, keyWater, true)
	fluidsStable := errFluid == nil
	if fluidsStable {
		rest = fluidResidual
	} else {
		log.Printf("%s: WARNING: no fluid phase stable at %g bar, %g C; water-saturated conditions not fulfilled", errid, p, t)
	}
	//The water bookkeeping is also absent from reports on anhydrous systems.
	//Its section runs up to the mol% table, which precedes the elements one.
	blockWater, waterResidual, errWater := findBlock(rest, keyWater, keyMolPercent, true)
	if errWater == nil {
		rest = waterResidual
	}
	blockElements, rest, err := findBlock(rest, keyElements, keyAPFU, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	blockAPFU, rest, err := findBlock(rest, keyAPFU, keyActivities, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	blockDeltaG, rest, err := findBlock(rest, keyActivities, keyChemPot, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	//The chemical potentials close the report; tolerate both a proper exit
	//marker and a report that just ends.
	blockChemPot, _, errChemPot := findBlock(rest, keyChemPot, keyExit, false)
	if errChemPot != nil {
		if start := lineIndex(rest, keyChemPot); start >= 0 {
			blockChemPot = rest[start:]
		}
	}

	//With more elements than fit one row, every composition row carries a
	//continuation line; the last line of the apfu section is one of them.
	overflow := len(blockAPFU) > 0 && strings.HasPrefix(blockAPFU[len(blockAPFU)-1], overflowIndent)

	elements, err := elementList(blockElements, overflow)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}

	rock := &petro.Rock{
		Pressure:    p,
		Temperature: t,
		Elements:    elements,
	}
	if err := bulkComposition(rock, blockBulk); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if err := gSystem(rock, blockGsys); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if err := minerals(rock, blockVolume, blockElements, blockAPFU, overflow); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if fluidsStable {
		if err := fluids(rock, blockFluid, blockElements, blockAPFU, overflow); err != nil {
			return nil, fmt.Errorf("%s: %w", errid, err)
		}
	}
	if err := endmembers(rock, blockPhases); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if err := metastable(rock, blockDeltaG); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if errWater == nil {
		if err := waterContent(rock, blockWater); err != nil {
			return nil, fmt.Errorf("%s: %w", errid, err)
		}
	}
	if blockChemPot != nil {
		if err := chemPot(rock, blockChemPot); err != nil {
			return nil, fmt.Errorf("%s: %w", errid, err)
		}
	}
	rock.GPerMol = rock.GSystem / floats.Sum(rock.BulkMol)
	return rock, nil
}

//The program writes plain LF reports on unix and CRLF on Windows; strip
//the CR so line matching works on both.
func splitReport(output string) []string {
	lines := strings.Split(output, "\n")
	for i, v := range lines {
		lines[i] = strings.TrimRight(v, "\r")
	}
	return lines
}

//elementList reads the global element index from the header of the
//elements section: its 4th line, plus the 5th on overflow. The last entry
//is the program's internal electron-balance column "E", which is dropped,
//as it is from every composition vector.
func elementList(blockElements []string, overflow bool) ([]string, error) {
	if len(blockElements) < 5 {
		return nil, fmt.Errorf("elements section too short, %d lines", len(blockElements))
	}
	elements := strings.Fields(blockElements[3])
	if overflow {
		elements = append(elements, strings.Fields(blockElements[4])...)
	}
	if len(elements) < 2 {
		return nil, fmt.Errorf("no elements found in the elements section header")
	}
	return elements[:len(elements)-1], nil
}

//bulkComposition reads the bulk the program echoes back at the top of the
//report: one row per element, moles in the 3rd column and mol% in the 5th.
func bulkComposition(rock *petro.Rock, blockBulk []string) error {
	if len(blockBulk) < 4 {
		return fmt.Errorf("bulk section too short, %d lines", len(blockBulk))
	}
	rows := blockBulk[3:]
	n := make([]float64, 0, len(rows))
	percent := make([]float64, 0, len(rows))
	for _, row := range rows {
		f := strings.Fields(row)
		if len(f) < 5 {
			return fmt.Errorf("malformed bulk row %q", row)
		}
		v, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return fmt.Errorf("bad bulk amount in row %q: %w", row, err)
		}
		pc, err := strconv.ParseFloat(f[4], 64)
		if err != nil {
			return fmt.Errorf("bad bulk mol%% in row %q: %w", row, err)
		}
		n = append(n, v)
		percent = append(percent, pc)
	}
	if len(n) != len(rock.Elements) {
		return fmt.Errorf("bulk has %d elements but the element list has %d", len(n), len(rock.Elements))
	}
	rock.BulkMol = n
	rock.BulkMolPercent = percent
	return nil
}

//gSystem finds the total Gibbs energy in the assemblage section. The value
//follows the G(System) label; the exact line layout varies between builds
//of the program, so the label is searched rather than indexed.
func gSystem(rock *petro.Rock, blockGsys []string) error {
	for _, line := range blockGsys {
		if !strings.Contains(line, "G(System)") {
			continue
		}
		f := strings.Fields(line)
		for i, v := range f {
			if v != "G(System)" {
				continue
			}
			if i+1 >= len(f) {
				break
			}
			value := f[i+1]
			if (value == "=" || value == ":") && i+2 < len(f) {
				value = f[i+2]
			}
			g, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("bad G(System) value %q: %w", value, err)
			}
			rock.GSystem = g
			return nil
		}
	}
	return fmt.Errorf("no G(System) in the assemblage section")
}

//phaseRow returns the fields of the table row for the named phase, given
//the indentation its table uses. The name must be followed by a space so
//that a phase name that prefixes another can't steal its row.
func phaseRow(block []string, name, indent string) ([]string, int, error) {
	prefix := indent + name + " "
	for i, v := range block {
		if strings.HasPrefix(v, prefix) {
			return strings.Fields(v), i, nil
		}
	}
	return nil, -1, fmt.Errorf("phase %s not found in the section", name)
}

//composition extracts the per-element vector of the named phase from a
//composition section (apfu or element moles). Rows carry the phase name,
//one value per element and the trailing electron column; on overflow the
//continuation line is glued on before indexing.
func composition(block []string, name string, nElements int, overflow bool) ([]float64, error) {
	f, idx, err := phaseRow(block, name, " ")
	if err != nil {
		return nil, err
	}
	if overflow {
		if idx+1 >= len(block) {
			return nil, fmt.Errorf("composition of %s lacks its continuation line", name)
		}
		f = append(f, strings.Fields(block[idx+1])...)
	}
	if len(f) != nElements+2 {
		return nil, fmt.Errorf("composition of %s has %d values, want %d", name, len(f)-2, nElements)
	}
	f = f[1 : len(f)-1]
	vector := make([]float64, 0, len(f))
	for _, v := range f {
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("bad composition value %q for %s: %w", v, name, err)
		}
		vector = append(vector, value)
	}
	return vector, nil
}

//minerals reads the solid phases: names and physical properties from the
//volumes table, compositions from the element-moles and apfu sections, and
//the totals row of the solids.
func minerals(rock *petro.Rock, blockVolume, blockElements, blockAPFU []string, overflow bool) error {
	totalIdx := -1
	for i, v := range blockVolume {
		if strings.HasPrefix(v, "  total of solids") {
			totalIdx = i
			break
		}
	}
	if totalIdx < 0 {
		return fmt.Errorf("no totals row in the volumes section")
	}
	if totalIdx < 6 {
		return fmt.Errorf("volumes section too short, totals at line %d", totalIdx)
	}
	//Rows run from the 6th line down to the separator above the totals.
	for _, row := range blockVolume[5 : totalIdx-1] {
		f := strings.Fields(row)
		if len(f) < 11 {
			return fmt.Errorf("malformed volumes row %q", row)
		}
		m := &petro.Mineral{Name: f[0]}
		var err error
		if m.N, err = parseProp(f[1], "N", m.Name); err != nil {
			return err
		}
		if m.MolarVol, err = parseProp(f[2], "volume/mol", m.Name); err != nil {
			return err
		}
		if m.Vol, err = parseProp(f[3], "volume", m.Name); err != nil {
			return err
		}
		if m.VolPercent, err = parseProp(f[4], "vol%", m.Name); err != nil {
			return err
		}
		if m.MolarWt, err = parseProp(f[6], "wt/mol", m.Name); err != nil {
			return err
		}
		if m.Wt, err = parseProp(f[7], "wt", m.Name); err != nil {
			return err
		}
		if m.WtPercent, err = parseProp(f[8], "wt%", m.Name); err != nil {
			return err
		}
		if m.Density, err = parseProp(f[len(f)-1], "density", m.Name); err != nil {
			return err
		}
		if m.Mol, err = composition(blockElements, m.Name, len(rock.Elements), overflow); err != nil {
			return err
		}
		if m.APFU, err = composition(blockAPFU, m.Name, len(rock.Elements), overflow); err != nil {
			return err
		}
		rock.Minerals = append(rock.Minerals, m)
	}
	f := strings.Fields(blockVolume[totalIdx])
	if len(f) < 10 {
		return fmt.Errorf("malformed totals row %q", blockVolume[totalIdx])
	}
	var err error
	if rock.SolidVol, err = parseProp(f[3], "volume", "solids"); err != nil {
		return err
	}
	if rock.SolidWt, err = parseProp(f[6], "wt", "solids"); err != nil {
		return err
	}
	if rock.SolidDensity, err = parseProp(f[len(f)-1], "density", "solids"); err != nil {
		return err
	}
	return nil
}

func parseProp(s, prop, phase string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s value %q for %s: %w", prop, s, phase, err)
	}
	return v, nil
}

//fluids reads the gas and fluid phases. Their table has no percent
//columns, otherwise it mirrors the solids one, with rows from the 3rd line.
func fluids(rock *petro.Rock, blockFluid, blockElements, blockAPFU []string, overflow bool) error {
	if len(blockFluid) < 2 {
		return fmt.Errorf("fluids section too short, %d lines", len(blockFluid))
	}
	for _, row := range blockFluid[2:] {
		f := strings.Fields(row)
		if len(f) == 0 {
			continue
		}
		if len(f) < 7 {
			return fmt.Errorf("malformed fluids row %q", row)
		}
		fl := &petro.Fluid{Name: f[0]}
		var err error
		if fl.N, err = parseProp(f[1], "N", fl.Name); err != nil {
			return err
		}
		if fl.MolarVol, err = parseProp(f[2], "volume/mol", fl.Name); err != nil {
			return err
		}
		if fl.Vol, err = parseProp(f[3], "volume", fl.Name); err != nil {
			return err
		}
		if fl.MolarWt, err = parseProp(f[4], "wt/mol", fl.Name); err != nil {
			return err
		}
		if fl.Wt, err = parseProp(f[5], "wt", fl.Name); err != nil {
			return err
		}
		if fl.Density, err = parseProp(f[len(f)-1], "density", fl.Name); err != nil {
			return err
		}
		if fl.Mol, err = composition(blockElements, fl.Name, len(rock.Elements), overflow); err != nil {
			return err
		}
		if fl.APFU, err = composition(blockAPFU, fl.Name, len(rock.Elements), overflow); err != nil {
			return err
		}
		rock.Fluids = append(rock.Fluids, fl)
	}
	return nil
}

//endmembers reads the phase table of the assemblage section: phase rows
//sit at 2 spaces of indentation, and solution phases carry deeper-indented
//rows with the mol fraction and activity of each endmember. On a failed
//minimization the program marks activities with "**", which is stripped
//here; the failure itself is reported through ErrFailedMinimisation.
func endmembers(rock *petro.Rock, blockPhases []string) error {
	current := ""
	table := make(map[string][]petro.Endmember)
	for _, line := range blockPhases[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "  ") && line[2] != ' ' {
			f := strings.Fields(line)
			if strings.HasPrefix(f[0], "-") {
				continue
			}
			current = f[0]
			continue
		}
		if current == "" {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 5 {
			return fmt.Errorf("malformed endmember row %q", line)
		}
		em := petro.Endmember{Name: f[0]}
		var err error
		if em.X, err = parseProp(strings.TrimLeft(f[1], "*"), "x", f[0]); err != nil {
			return err
		}
		if em.Activity, err = parseProp(strings.TrimLeft(f[3], "*"), "activity", f[0]); err != nil {
			return err
		}
		if em.ActX, err = parseProp(strings.TrimLeft(f[4], "*"), "act.(x)", f[0]); err != nil {
			return err
		}
		table[current] = append(table[current], em)
	}
	for name, ems := range table {
		if m := rock.Mineral(name); m != nil {
			m.Endmembers = ems
			continue
		}
		if fl := rock.Fluid(name); fl != nil {
			fl.Endmembers = ems
		}
		//A name in the table that matches no stable phase would mean the
		//report is inconsistent, but it costs nothing to just skip it.
	}
	return nil
}

//metastable reads the Gibbs-energy distances of the phases above the
//stable plane. They sit below a 68-dash delimiter in the activities
//section; solution rows start with " S", pure-phase rows with " P", and
//the distance is the field after the zeroed moles column.
func metastable(rock *petro.Rock, blockDeltaG []string) error {
	if len(blockDeltaG) < 6 {
		return fmt.Errorf("activities section too short, %d lines", len(blockDeltaG))
	}
	rows := blockDeltaG[5:]
	delim := lineIndex(rows, deltaGDelimiter)
	if delim < 0 {
		return fmt.Errorf("no stable/metastable delimiter in the activities section")
	}
	for _, row := range rows[delim+1:] {
		if !strings.HasPrefix(row, " S") && !strings.HasPrefix(row, " P") {
			continue
		}
		f := strings.Fields(row)
		if len(f) < 4 {
			return fmt.Errorf("malformed metastable row %q", row)
		}
		zero := -1
		for i, v := range f {
			if v == "0.00000E+00" {
				zero = i
				break
			}
		}
		if zero < 0 || zero+1 >= len(f) {
			return fmt.Errorf("no deltaG value in metastable row %q", row)
		}
		dg, err := strconv.ParseFloat(f[zero+1], 64)
		if err != nil {
			return fmt.Errorf("bad deltaG value in row %q: %w", row, err)
		}
		rock.Metastable = append(rock.Metastable, petro.DeltaG{Name: f[2], DeltaG: dg})
	}
	return nil
}

//waterContent reads the H2O bookkeeping: how much water each solid binds,
//the totals for the solids, and the water in the fluids. Solid rows come
//first, the totals row switches the table to its fluids part.
func waterContent(rock *petro.Rock, blockWater []string) error {
	if len(blockWater) < 3 {
		return fmt.Errorf("water section too short, %d lines", len(blockWater))
	}
	w := &petro.WaterContent{}
	inFluids := false
	for _, line := range blockWater[2:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "  total H2O in solids") {
			f := strings.Fields(line)
			if len(f) < 8 {
				return fmt.Errorf("malformed water totals row %q", line)
			}
			var err error
			if w.TotalMol, err = parseProp(f[4], "H2O mol", "solids"); err != nil {
				return err
			}
			if w.TotalWt, err = parseProp(f[5], "H2O wt", "solids"); err != nil {
				return err
			}
			if w.TotalWtPercentSolids, err = parseProp(f[len(f)-1], "H2O wt%", "solids"); err != nil {
				return err
			}
			inFluids = true
			continue
		}
		if skipWaterRow(line) {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 5 {
			return fmt.Errorf("malformed water row %q", line)
		}
		entry := petro.WaterEntry{Name: f[0]}
		var err error
		if entry.N, err = parseProp(f[1], "N", f[0]); err != nil {
			return err
		}
		if entry.PFU, err = parseProp(f[2], "H2O pfu", f[0]); err != nil {
			return err
		}
		if entry.Mol, err = parseProp(f[3], "H2O mol", f[0]); err != nil {
			return err
		}
		if entry.Wt, err = parseProp(f[4], "H2O wt", f[0]); err != nil {
			return err
		}
		if inFluids {
			if len(f) < 7 {
				return fmt.Errorf("malformed water fluids row %q", line)
			}
			if entry.WtPercentPhase, err = parseProp(f[6], "H2O wt% of phase", f[0]); err != nil {
				return err
			}
			w.Fluids = append(w.Fluids, entry)
			continue
		}
		if len(f) < 9 {
			return fmt.Errorf("malformed water solids row %q", line)
		}
		if entry.WtPercentPhase, err = parseProp(f[6], "H2O wt% of phase", f[0]); err != nil {
			return err
		}
		if entry.WtPercentSolids, err = parseProp(f[7], "H2O wt% of solids", f[0]); err != nil {
			return err
		}
		if entry.PercentSolidWater, err = parseProp(f[8], "share of solid H2O", f[0]); err != nil {
			return err
		}
		w.Solids = append(w.Solids, entry)
	}
	rock.Water = w
	return nil
}

//Header, separator and column-label lines of the water section.
func skipWaterRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "|") {
		return true
	}
	if strings.Contains(line, "wt% of") || strings.Contains(line, "H2O[pfu]") {
		return true
	}
	if strings.HasPrefix(line, "  solid phases") || strings.HasPrefix(line, "  gases and fluids") {
		return true
	}
	return false
}

//chemPot reads the chemical potentials of the database components that
//close the report: one row per component, the value in the last column.
func chemPot(rock *petro.Rock, blockChemPot []string) error {
	pots := make(map[string]float64)
	for _, line := range blockChemPot[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "-") {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 2 {
			continue
		}
		if f[0] == "component" {
			continue
		}
		v, err := strconv.ParseFloat(f[len(f)-1], 64)
		if err != nil {
			continue
		}
		pots[f[0]] = v
	}
	if len(pots) > 0 {
		rock.ChemPot = pots
	}
	return nil
}
