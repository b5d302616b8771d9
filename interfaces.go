/*
 * interfaces.go, part of gopetro.
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

// Phase is the common interface of the stable phases of a Rock (minerals and
// fluids), so code that only cares about amounts and compositions can treat
// them uniformly.
type Phase interface {

	//PhaseName returns the phase name as printed by the minimizer,
	//e.g. "BI05_ann" or "q". The names are database-dependent.
	PhaseName() string

	//Moles returns the amount of the phase in the assemblage, in mol.
	Moles() float64

	//CompositionAPFU returns the composition as atoms per formula unit,
	//indexed against the element list of the parent Rock.
	CompositionAPFU() []float64

	//CompositionMol returns the element moles bound in the phase,
	//indexed against the element list of the parent Rock.
	CompositionMol() []float64
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Decorate allows adding information when the error is passed up. Each call returns the current "decoration" slice of strings. If passed an empty string, it just returns the current value without adding anything.
	//The decorate slice should contain a list of functions in the calling stack, plus, for each function, any relevant information, or nothing. If information is to be added to an element of the slice, it should be in this format: "FunctionName: Extra info"
}

// CError is the concrete Error of this package. Other packages in the
// library define their own.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

// Decorate adds the dec string to the decoration slice of the error, unless dec is empty,
// and returns the resulting slice.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//errDecorate is a helper function that asserts that the error implements
//Error and decorates it with the caller's name before returning it.
//If used with an error that doesn't implement Error, it will cause a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}
