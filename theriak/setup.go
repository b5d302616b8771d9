/*
 * setup.go, part of gopetro.
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
	"os"

	"github.com/goccy/go-yaml"
)

//Setup holds the installation-specific settings of a Theriak-Domino
//deployment. Scripts tend to run the same installation against many
//bulks and P-T grids, so these settings live in a small YAML file next
//to the data instead of being repeated in every program.
type Setup struct {
	//Path to the Programs directory of the Theriak-Domino installation.
	Programs string `yaml:"programs"`
	//Name of the thermodynamic database file, like "ds55HP1.txt". The
	//program looks it up relative to its working directory.
	Database string `yaml:"database"`
	//Version tag of the installed theriak, like "v28.05.2022". Carried
	//into the metadata of saved rock collections.
	Version string `yaml:"version"`
	//Directory where THERIN and the output files are written. Defaults
	//to the current directory.
	WorkDir string `yaml:"workdir"`
	Verbose bool   `yaml:"verbose"`
}

//ParseSetup reads a Setup from YAML text.
func ParseSetup(data []byte) (*Setup, error) {
	errid := "theriak/ParseSetup"
	s := new(Setup)
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if s.Programs == "" {
		return nil, fmt.Errorf("%s: the programs directory is not set", errid)
	}
	if s.Database == "" {
		return nil, fmt.Errorf("%s: the database is not set", errid)
	}
	return s, nil
}

//LoadSetup reads a Setup from the named YAML file.
func LoadSetup(filename string) (*Setup, error) {
	errid := "theriak/LoadSetup"
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	s, err := ParseSetup(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	return s, nil
}

//Handle builds a ready-to-use driver from the setup.
func (S *Setup) Handle() *Handle {
	h := NewHandle(S.Programs, S.Database, S.Version)
	if S.WorkDir != "" {
		h.SetWorkDir(S.WorkDir)
	}
	h.SetVerbose(S.Verbose)
	return h
}
