/*
 * doc.go, part of gopetro.
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

/*Package petro is the main package of the goPetro library. It provides the data model
for equilibrium phase assemblages (rocks, minerals, fluids and their compositions)
and facilities to work with bulk-rock compositions, plus the element and oxide data
tables the rest of the library builds on.



	**goPetro Capabilities**


    Drives the Theriak-Domino Gibbs-energy minimization programs
	(which must be obtained independently from their distributors)
	as local subprocesses, writing the THERIN input file and reading
	back the text report (package theriak).

    Parses the report into Rock objects: stable minerals and fluids with
	their amounts, volumes, weights and densities, per-phase compositions
	both as atoms per formula unit and as element moles, endmember
	fractions and activities, Gibbs energy of the system, Gibbs-energy
	distances of metastable phases, chemical potentials, and the
	H2O bookkeeping of the assemblage.

    All composition vectors within a Rock are indexed against one shared
	element list, so values for the same element line up across bulk,
	minerals and fluids.

    Converts oxide wt% analyses (the usual form of published rock
	compositions) into element-mole bulks in the format the minimizer
	expects.

    Stores batches of results in compressed, streamable dataset files and
	reads them back (package rockset).

    Computes derived compositional quantities like XMg from small
	expressions compiled at run time (package ratio).

    Plots the evolution of modal composition and density along P-T paths
	(package petroplot).

The numerics of the minimization itself stay in Theriak-Domino; goPetro
only prepares its input and gives structure to its output.*/
package petro
