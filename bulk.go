/*
 * bulk.go, part of gopetro.
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

package petro

import (
	"regexp"
	"strconv"
	"strings"
)

//Bulk is a bulk-rock composition in the element-amount form the minimizer
//takes as input, e.g. SI(68.2)TI(0.76)AL(25.18)H(100)O(?).
//If BalanceO is true, oxygen is not given explicitly and the minimizer
//computes it from the other elements, which is written O(?).
type Bulk struct {
	Elements []string
	Amounts  []float64 //mol, same order as Elements
	BalanceO bool
}

//NewBulk returns a new, empty bulk composition.
func NewBulk() *Bulk {
	return &Bulk{Elements: []string{}, Amounts: []float64{}}
}

//Add appends an element with the given amount (mol) to the bulk, or, if the
//element is already present, adds the amount to it. The symbol is stored
//upper case.
func (B *Bulk) Add(symbol string, amount float64) {
	symbol = strings.ToUpper(symbol)
	for i, v := range B.Elements {
		if v == symbol {
			B.Amounts[i] += amount
			return
		}
	}
	B.Elements = append(B.Elements, symbol)
	B.Amounts = append(B.Amounts, amount)
}

//Amount returns the amount of the given element in the bulk. The bool is
//false if the element is not present.
func (B *Bulk) Amount(symbol string) (float64, bool) {
	symbol = strings.ToUpper(symbol)
	for i, v := range B.Elements {
		if v == symbol {
			return B.Amounts[i], true
		}
	}
	return 0, false
}

//String writes the bulk in the minimizer's input format. Amounts are
//written with as few digits as possible, and O(?) goes last.
func (B *Bulk) String() string {
	var b strings.Builder
	for i, v := range B.Elements {
		b.WriteString(v)
		b.WriteString("(")
		b.WriteString(strconv.FormatFloat(B.Amounts[i], 'f', -1, 64))
		b.WriteString(")")
	}
	if B.BalanceO {
		b.WriteString("O(?)")
	}
	return b.String()
}

//Check returns an error if the bulk contains an element with a zero or
//negative amount. The minimizer silently drops such elements from the
//system, which shifts the element list all compositions are indexed
//against, so a bulk like this must not be used as input.
func (B *Bulk) Check() error {
	for i, v := range B.Elements {
		if B.Amounts[i] <= 0 {
			return CError{"petro: element " + v + " has a non-positive amount in the bulk", []string{"Bulk.Check"}}
		}
	}
	return nil
}

//ParseBulk parses a bulk string in the minimizer's input format,
//SYM(amount)SYM(amount)... The only amount that is not a number is "?",
//allowed for O only, which marks oxygen to be computed by the minimizer.
func ParseBulk(s string) (*Bulk, error) {
	b := NewBulk()
	i := 0
	for i < len(s) {
		j := i
		for j < len(s) && isSymbolChar(s[j]) {
			j++
		}
		if j == i {
			return nil, CError{"petro: expected an element symbol in bulk at position " + strconv.Itoa(i) + " of " + s, []string{"ParseBulk"}}
		}
		symbol := strings.ToUpper(s[i:j])
		if j >= len(s) || s[j] != '(' {
			return nil, CError{"petro: element " + symbol + " lacks an amount in bulk " + s, []string{"ParseBulk"}}
		}
		k := strings.IndexByte(s[j:], ')')
		if k < 0 {
			return nil, CError{"petro: unclosed amount for element " + symbol + " in bulk " + s, []string{"ParseBulk"}}
		}
		k += j
		inner := s[j+1 : k]
		if inner == "?" {
			if symbol != "O" {
				return nil, CError{"petro: only O can be left for the minimizer to compute, not " + symbol, []string{"ParseBulk"}}
			}
			b.BalanceO = true
		} else {
			amount, err := strconv.ParseFloat(inner, 64)
			if err != nil {
				return nil, CError{"petro: bad amount " + inner + " for element " + symbol + ": " + err.Error(), []string{"ParseBulk"}}
			}
			b.Add(symbol, amount)
		}
		i = k + 1
	}
	return b, nil
}

func isSymbolChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

var zeroParens = regexp.MustCompile(`\(0\)`)
var zeroDecimal = regexp.MustCompile(`0\.0+\)`)

//CheckBulk returns true if the given bulk string has a non-zero amount for
//every element in it. If not, the minimizer removes the element from the
//system, the element list shrinks, and indices into it are no longer valid
//across snapshots, so such a bulk should be rejected.
func CheckBulk(bulk string) bool {
	if zeroParens.MatchString(bulk) {
		return false
	}
	if zeroDecimal.MatchString(bulk) {
		return false
	}
	return true
}

//The order in which rock analyses conventionally list their oxides. Used so
//bulks built from analyses come out in a predictable order.
var analysisOrder = []string{"SIO2", "TIO2", "AL2O3", "CR2O3", "FE2O3", "FEO",
	"MNO", "MGO", "NIO", "ZNO", "CAO", "NA2O", "K2O", "P2O5", "SRO", "BAO",
	"ZRO2", "CO2", "H2O"}

//BulkFromOxides converts an oxide wt% analysis (the usual form rock
//compositions are published in) to a bulk in element moles per 100 g.
//Oxide formulas are the map keys (case doesn't matter); iron can be given as
//FEO, FE2O3 or both, the cations just add up. If hydrogen is positive, that
//many moles of H are added on top of any H2O of the analysis, which is the
//usual way to saturate a model in water. Oxygen is always left for the
//minimizer to compute, i.e. the bulk ends in O(?).
func BulkFromOxides(wt map[string]float64, hydrogen float64) (*Bulk, error) {
	b := NewBulk()
	seen := 0
	for _, formula := range analysisOrder {
		w, ok := lookupOxide(wt, formula)
		if !ok {
			continue
		}
		seen++
		if w < 0 {
			return nil, CError{"petro: negative wt% for oxide " + formula, []string{"BulkFromOxides"}}
		}
		if w == 0 {
			continue
		}
		ox := oxideData[formula]
		mol := w / ox.Weight
		b.Add(ox.Cation, mol*float64(ox.NCation))
	}
	if seen != len(wt) {
		for k := range wt {
			if _, err := OxideInfo(k); err != nil {
				return nil, errDecorate(err, "BulkFromOxides")
			}
		}
		//all keys known but more keys than formulas: the same oxide twice
		//in different case
		return nil, CError{"petro: the same oxide is given more than once", []string{"BulkFromOxides"}}
	}
	if hydrogen > 0 {
		b.Add("H", hydrogen)
	}
	b.BalanceO = true
	return b, nil
}

func lookupOxide(wt map[string]float64, formula string) (float64, bool) {
	for k, v := range wt {
		if strings.ToUpper(k) == formula {
			return v, true
		}
	}
	return 0, false
}
