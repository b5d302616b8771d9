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
 *
 * */

//Package theriak drives the theriak program of the Theriak-Domino suite
//as a local subprocess: it writes the THERIN input file for a given
//pressure, temperature and bulk composition, runs the minimization, and
//parses the text report into petro.Rock objects. The suite itself must be
//obtained independently from its distributors.

package theriak
