/*
 * ratio_test.go, part of gopetro.
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
 */

package ratio

import (
	"fmt"
	"math"
	"testing"

	petro "github.com/gopetro/gopetro"
	"github.com/gopetro/gopetro/theriak"
)

//XMg of biotite, the bread and butter of metamorphic petrology.
func TestRatioPhase(Te *testing.T) {
	fmt.Println("ratio phase test!")
	rock, err := theriak.ReadOut("../test/metapelite.out", 6046, 417)
	if err != nil {
		Te.Fatal(err)
	}
	bi := rock.Mineral("BI05_ann")
	if bi == nil {
		Te.Fatal("no biotite in the test rock")
	}
	xmg, err := Compile("MG/(MG+FE)")
	if err != nil {
		Te.Fatal(err)
	}
	got, err := xmg.Phase(rock, bi)
	if err != nil {
		Te.Fatal(err)
	}
	mg, err := rock.APFUOf(bi, "MG")
	if err != nil {
		Te.Fatal(err)
	}
	fe, err := rock.APFUOf(bi, "FE")
	if err != nil {
		Te.Fatal(err)
	}
	want := mg / (mg + fe)
	if math.Abs(got-want) > 1e-12 {
		Te.Errorf("XMg of biotite: got %v, want %v", got, want)
	}
	//the same ratio is invariant under the apfu to mol scaling
	gotmol, err := xmg.PhaseMol(rock, bi)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(gotmol-want) > 1e-12 {
		Te.Errorf("XMg of biotite on mol vectors: got %v, want %v", gotmol, want)
	}
	//but the plain amounts are not
	si, err := Compile("SI")
	if err != nil {
		Te.Fatal(err)
	}
	apfu, err := si.Phase(rock, bi)
	if err != nil {
		Te.Fatal(err)
	}
	mol, err := si.PhaseMol(rock, bi)
	if err != nil {
		Te.Fatal(err)
	}
	if apfu == mol {
		Te.Errorf("SI per formula unit and total SI should differ: %v", apfu)
	}
}

//The phase properties N, VOL and DENSITY.
func TestRatioProperties(Te *testing.T) {
	rock, err := theriak.ReadOut("../test/metapelite.out", 6046, 417)
	if err != nil {
		Te.Fatal(err)
	}
	bi := rock.Mineral("BI05_ann")
	if bi == nil {
		Te.Fatal("no biotite in the test rock")
	}
	for _, v := range []struct {
		src  string
		want float64
	}{
		{"N", bi.N},
		{"VOL", bi.Vol},
		{"DENSITY", bi.Density},
	} {
		e, err := Compile(v.src)
		if err != nil {
			Te.Fatal(err)
		}
		got, err := e.Phase(rock, bi)
		if err != nil {
			Te.Fatal(err)
		}
		if got != v.want {
			Te.Errorf("%s of biotite: got %v, want %v", v.src, got, v.want)
		}
	}
}

func TestRatioBulk(Te *testing.T) {
	rock, err := theriak.ReadOut("../test/andalusite.out", 4000, 550)
	if err != nil {
		Te.Fatal(err)
	}
	asi, err := Compile("AL/SI")
	if err != nil {
		Te.Fatal(err)
	}
	got, err := asi.Bulk(rock)
	if err != nil {
		Te.Fatal(err)
	}
	if got != 2 {
		Te.Errorf("AL/SI of the Al2SiO5 bulk: got %v, want 2", got)
	}
	n, err := Compile("N")
	if err != nil {
		Te.Fatal(err)
	}
	total, err := n.Bulk(rock)
	if err != nil {
		Te.Fatal(err)
	}
	if total != rock.TotalMol() {
		Te.Errorf("N on the bulk: got %v, want %v", total, rock.TotalMol())
	}
}

//A ratio whose denominator vanishes must fail loudly, not return Inf.
func TestRatioDivisionByZero(Te *testing.T) {
	rock, err := theriak.ReadOut("../test/andalusite.out", 4000, 550)
	if err != nil {
		Te.Fatal(err)
	}
	and := rock.Mineral("and")
	if and == nil {
		Te.Fatal("no andalusite in the test rock")
	}
	//andalusite is anhydrous, so H is zero
	for _, src := range []string{"SI/H", "H/H"} {
		e, err := Compile(src)
		if err != nil {
			Te.Fatal(err)
		}
		if _, err := e.Phase(rock, and); err == nil {
			Te.Errorf("%s on an anhydrous phase should fail", src)
		}
	}
}

func TestRatioGuards(Te *testing.T) {
	if _, err := Compile("MG/("); err == nil {
		Te.Error("an unbalanced expression should be refused")
	}
	rock, err := theriak.ReadOut("../test/andalusite.out", 4000, 550)
	if err != nil {
		Te.Fatal(err)
	}
	and := rock.Mineral("and")
	zr, err := Compile("ZR/SI")
	if err != nil {
		Te.Fatal(err)
	}
	_, err = zr.Phase(rock, and)
	if err == nil {
		Te.Error("an element missing from the system should not evaluate")
	}
	perr, ok := err.(petro.Error)
	if !ok {
		Te.Fatal("ratio errors should fulfill petro.Error")
	}
	if deco := perr.Decorate("TestRatioGuards"); len(deco) != 2 {
		Te.Errorf("decoration did not accumulate: %v", deco)
	}
	if _, err := zr.Phase(nil, and); err == nil {
		Te.Error("a nil rock should be refused")
	}
	if _, err := zr.Bulk(nil); err == nil {
		Te.Error("a nil rock should be refused")
	}
}
