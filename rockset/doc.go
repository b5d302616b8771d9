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
 */

//Package rockset implements a streaming container for sets of equilibrated
//rocks, such as the results of a P-T grid or path of minimisations. The
//aim is a format that stays easy to read and write from other languages
//and tools while keeping files small.
//
//A rockset file is a sequence of JSON documents, one per line. The
//first line holds the dataset metadata: date, author, the program and
//database that produced the rocks, and the element index shared by every
//composition vector in the set. Each following line is one rock. All
//rocks in a set are indexed against the metadata's element list, so a
//reader can slice any stored vector without per-rock bookkeeping.
//
//The file name extension selects the compression: ".zst" compresses with
//z-standard, ".gz" with gzip, and anything else is stored uncompressed.
package rockset
