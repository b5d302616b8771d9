/*
 * conversion.go, part of gopetro.
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

//This provides useful conversion factors and other constants.
//The minimizer works in bar, degrees C, J, ccm and g.

//Conversions
const (
	KBar2Bar = 1000.0
	Bar2KBar = 1 / 1000.0
	GPa2Bar  = 10000.0
	Bar2GPa  = 1 / 10000.0
	MPa2Bar  = 10.0
	Bar2MPa  = 1 / 10.0
	KJ2J     = 1000.0
	J2KJ     = 1 / 1000.0
	Kcal2J   = 4184.0
	J2Kcal   = 1 / 4184.0
	CCM2M3   = 1e-06
	M32CCM   = 1e+06
)

//Others
const (
	CKOffset = 273.15   //T[K] = T[C] + CKOffset
	RGas     = 8.31446  //molar gas constant in J/(K*mol)
)
