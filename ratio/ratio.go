/*
 * ratio.go, part of gopetro.
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

//Package ratio evaluates small arithmetic expressions over the
//composition of a rock or one of its phases: XMg as "MG/(MG+FE)",
//A/CNK as "AL/(CA+NA+K)" and so on. The identifiers of an expression
//are the element symbols of the rock, written in upper case as the
//minimizer prints them, plus the phase properties N (amount, mol),
//VOL (volume, ccm) and DENSITY (g/ccm). An element named N shadows
//the amount property.
package ratio

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	petro "github.com/gopetro/gopetro"
)

//Expr is a compiled compositional expression, ready to be evaluated
//on any number of rocks or phases.
type Expr struct {
	src string
	prg *vm.Program
}

//Compile compiles src into an expression. Identifiers are resolved
//at evaluation time, so the same expression serves rocks with
//different element lists.
func Compile(src string) (*Expr, error) {
	prg, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, Error{BadExpression + ": " + err.Error(), src, []string{"Compile"}, true}
	}
	return &Expr{src: src, prg: prg}, nil
}

//String returns the source of the expression.
func (E *Expr) String() string {
	return E.src
}

//Phase evaluates the expression on the apfu composition vector of ph,
//which must belong to rock so the element symbols can be resolved.
func (E *Expr) Phase(rock *petro.Rock, ph petro.Phase) (float64, error) {
	if rock == nil || ph == nil {
		return 0, Error{NilData, E.src, []string{"Phase"}, true}
	}
	return E.eval(rock, ph, ph.CompositionAPFU(), "Phase")
}

//PhaseMol is like Phase, but evaluates on the mol composition vector
//(apfu scaled by the amount of the phase).
func (E *Expr) PhaseMol(rock *petro.Rock, ph petro.Phase) (float64, error) {
	if rock == nil || ph == nil {
		return 0, Error{NilData, E.src, []string{"PhaseMol"}, true}
	}
	return E.eval(rock, ph, ph.CompositionMol(), "PhaseMol")
}

//Bulk evaluates the expression on the bulk composition of the rock, in
//mol per element. N is the total amount of phases, VOL and DENSITY
//those of the solid assemblage.
func (E *Expr) Bulk(rock *petro.Rock) (float64, error) {
	if rock == nil {
		return 0, Error{NilData, E.src, []string{"Bulk"}, true}
	}
	if len(rock.BulkMol) != len(rock.Elements) {
		return 0, Error{BadVector, E.src, []string{"Bulk"}, true}
	}
	env := make(map[string]interface{}, len(rock.Elements)+3)
	env["N"] = rock.TotalMol()
	env["VOL"] = rock.SolidVol
	env["DENSITY"] = rock.SolidDensity
	for i, el := range rock.Elements {
		env[el] = rock.BulkMol[i]
	}
	return E.run(env, "Bulk")
}

func (E *Expr) eval(rock *petro.Rock, ph petro.Phase, vec []float64, caller string) (float64, error) {
	if len(vec) != len(rock.Elements) {
		return 0, Error{BadVector, E.src, []string{caller}, true}
	}
	env := make(map[string]interface{}, len(rock.Elements)+3)
	env["N"] = ph.Moles()
	env["VOL"] = 0.0
	env["DENSITY"] = 0.0
	switch p := ph.(type) {
	case *petro.Mineral:
		env["VOL"] = p.Vol
		env["DENSITY"] = p.Density
	case *petro.Fluid:
		env["VOL"] = p.Vol
		env["DENSITY"] = p.Density
	}
	for i, el := range rock.Elements {
		env[el] = vec[i]
	}
	return E.run(env, caller)
}

func (E *Expr) run(env map[string]interface{}, caller string) (float64, error) {
	res, err := expr.Run(E.prg, env)
	if err != nil {
		return 0, Error{err.Error(), E.src, []string{caller}, true}
	}
	var x float64
	switch v := res.(type) {
	case float64:
		x = v
	case float32:
		x = float64(v)
	case int:
		x = float64(v)
	case int64:
		x = float64(v)
	case uint64:
		x = float64(v)
	default:
		return 0, Error{NotANumber, E.src, []string{caller}, true}
	}
	//a division by zero slipped through as Inf or NaN
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, Error{NotFinite, E.src, []string{caller}, true}
	}
	return x, nil
}

//Errors

//Error is the general structure for expression errors. It fulfills
//petro.Error.
type Error struct {
	message    string
	expression string //the source of the failing expression
	deco       []string
	critical   bool
}

func (err Error) Error() string {
	return fmt.Sprintf("ratio %q error: %s", err.expression, err.message)
}

//Decorate adds new information to the error
func (E Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since E.deco is a slice, and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//Expression returns the source of the expression the error comes from
func (err Error) Expression() string { return err.expression }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	BadExpression = "Cannot compile expression"
	NilData       = "Given nil rock or phase"
	BadVector     = "Composition vector not indexed against the element list"
	NotANumber    = "Expression did not evaluate to a number"
	NotFinite     = "Expression did not evaluate to a finite number"
)
