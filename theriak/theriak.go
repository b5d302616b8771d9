/*
 * theriak.go, part of gopetro.
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
//In order to use this package you need the Theriak-Domino programs, which
//must be obtained from their distributors. Please cite the Theriak-Domino
//references if you used the programs.

package theriak

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	petro "github.com/gopetro/gopetro"
)

//ErrFailedMinimisation flags a run whose report carries the activity-test
//marker the program prints when the minimization did not converge properly.
//The parsed rock is still returned along with it, as the numbers are often
//usable, but the caller should treat them with suspicion.
var ErrFailedMinimisation = errors.New("minimisation failed the activity test")

//A Minimiser can compute the equilibrium assemblage for a pressure,
//temperature and bulk composition. It is implemented by Handle; having the
//interface allows swapping the backing program without touching the calling
//code.
type Minimiser interface {

	//BuildInput writes whatever input files the program needs for one
	//minimization at pressure p (bar), temperature t (C) and the given
	//bulk composition.
	BuildInput(p, t float64, bulk string) error

	//Run runs the program for an input previously built. It waits or not
	//for the result depending on wait.
	Run(wait bool) (err error)

	//Rock parses the output of a previous run. It returns
	//ErrFailedMinimisation together with the parsed rock if the program
	//flagged the minimization as problematic.
	Rock() (*petro.Rock, error)
}

//Handle represents access to the theriak program. Its zero value is not
//usable, get one with NewHandle.
type Handle struct {
	command   string //path to the theriak executable
	programs  string //the Programs directory of the suite
	database  string //database file name, e.g. "ds55HP1.txt"
	version   string //version tag of the suite, kept for dataset metadata
	inputname string
	wrkdir    string
	verbose   bool
	force     bool //run even with a bulk that fails the corruption check
	//last P-T and the THERIN lines written for them, kept so the parsed
	//rock can be stamped for reproducibility.
	lastP, lastT float64
	therinPT     string
	therinBulk   string
	built        bool
}

//NewHandle initializes and returns a Handle for the theriak executable in
//the given Programs directory, using the given thermodynamic database.
//The version string is free-form; it only travels into result metadata.
func NewHandle(programs, database, version string) *Handle {
	run := new(Handle)
	run.programs = programs
	run.database = database
	run.version = version
	run.SetDefaults()
	return run
}

//Handle methods

//SetDefaults sets the executable path from the Programs directory and the
//default name for the output file.
func (O *Handle) SetDefaults() {
	O.command = filepath.Join(O.programs, "theriak")
	O.inputname = "theriak"
}

//Command returns the path and name of the theriak executable.
func (O *Handle) Command() string {
	return O.command
}

//SetCommand sets the path and name of the theriak executable, overriding
//the one derived from the Programs directory.
func (O *Handle) SetCommand(name string) {
	O.command = name
}

//SetName sets the base name for the output file, which will be name.out in
//the working directory.
func (O *Handle) SetName(name string) {
	O.inputname = name
}

//SetWorkDir sets the working directory for the runs. The THERIN file, the
//output file and, on Windows, the theriak.ini copy all live there.
func (O *Handle) SetWorkDir(d string) {
	O.wrkdir = d
}

//SetVerbose makes the Handle log warnings about suspicious inputs and
//results. Hard errors are returned either way.
func (O *Handle) SetVerbose(v bool) {
	O.verbose = v
}

//SetForce makes BuildInput accept a bulk that fails the corruption check.
//Only useful if you know the zero-amount element is harmless for your use.
func (O *Handle) SetForce(f bool) {
	O.force = f
}

//Database returns the name of the thermodynamic database in use.
func (O *Handle) Database() string {
	return O.database
}

//Version returns the version tag given for the suite.
func (O *Handle) Version() string {
	return O.version
}

//BuildInput writes the THERIN file for one minimization at pressure p
//(bar), temperature t (C) and the given bulk composition string, e.g.
//"AL(2)SI(1)H(100)O(?)". The program silently drops zero-amount elements
//from the system, which desynchronizes the element indexing across runs,
//so such bulks are refused unless SetForce was called.
func (O *Handle) BuildInput(p, t float64, bulk string) error {
	errid := "theriak/Handle.BuildInput"
	if !petro.CheckBulk(bulk) {
		if !O.force {
			return fmt.Errorf("%s: bulk %s has a zero-amount element, the program would drop it from the system", errid, bulk)
		}
		if O.verbose {
			log.Printf("%s: WARNING: bulk %s has a zero-amount element, the element list will not match other runs", errid, bulk)
		}
	}
	if err := O.ensureIni(); err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	O.therinPT = "    " + formatG(t) + "    " + formatG(p)
	O.therinBulk = "1   " + bulk + "    *"
	therin, err := os.Create(filepath.Join(O.wrkdir, "THERIN"))
	if err != nil {
		return fmt.Errorf("%s: Couldn't write the THERIN file: %w", errid, err)
	}
	defer therin.Close()
	therin.WriteString(O.therinPT)
	therin.WriteString("\n")
	_, err = therin.WriteString(O.therinBulk)
	if err != nil {
		return fmt.Errorf("%s: Couldn't write the THERIN file: %w", errid, err)
	}
	O.lastP = p
	O.lastT = t
	O.built = true
	return nil
}

//formatG writes a float the way the program reads it, with as few digits
//as possible (550 stays "550", not "550.000000").
func formatG(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

//On Windows the program insists on a theriak.ini file in the working
//directory. Copy it over from the Programs directory if it's not there.
func (O *Handle) ensureIni() error {
	if runtime.GOOS != "windows" {
		return nil
	}
	dst := filepath.Join(O.wrkdir, "theriak.ini")
	if _, err := os.Stat(dst); err == nil {
		return nil
	}
	src, err := os.Open(filepath.Join(O.programs, "theriak.ini"))
	if err != nil {
		return fmt.Errorf("couldn't find theriak.ini in the Programs directory: %w", err)
	}
	defer src.Close()
	ini, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer ini.Close()
	_, err = io.Copy(ini, src)
	return err
}

//Run runs the program on a previously built input. The program is
//interactive, so the database name and the answer declining a P-T table
//are piped to its standard input; the report it prints to standard output
//is captured into name.out in the working directory. If wait is false,
//Run returns right after starting the program.
func (O *Handle) Run(wait bool) (err error) {
	errid := "theriak/Handle.Run"
	if !O.built {
		return fmt.Errorf("%s: no input was built for this run", errid)
	}
	out, err := os.Create(filepath.Join(O.wrkdir, O.inputname+".out"))
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	defer out.Close()
	command := exec.Command(O.command)
	command.Dir = O.wrkdir
	command.Stdin = strings.NewReader(O.database + "\n" + "no\n")
	command.Stdout = out
	if wait {
		err = command.Run()
	} else {
		err = command.Start()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	return nil
}

//Rock parses the report of a previous run into a petro.Rock, stamped with
//the P-T and the THERIN lines of that run. If the report carries the
//activity-test marker of a failed minimization, the rock is returned
//together with an error wrapping ErrFailedMinimisation.
func (O *Handle) Rock() (*petro.Rock, error) {
	errid := "theriak/Handle.Rock"
	name := filepath.Join(O.wrkdir, O.inputname+".out")
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	output := string(data)
	rock, err := Parse(output, O.lastP, O.lastT)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	rock.TherinPT = O.therinPT
	rock.TherinBulk = O.therinBulk
	if failedMinimisation(output) {
		if O.verbose {
			log.Printf("%s: WARNING: the activity test flagged this minimization, THERIN was: %s / %s", errid, O.therinPT, O.therinBulk)
		}
		return rock, fmt.Errorf("%s: %w", errid, ErrFailedMinimisation)
	}
	return rock, nil
}

//Minimise builds the input, runs the program waiting for it, and parses
//the result, all in one call. This is the common way to use the package.
func (O *Handle) Minimise(p, t float64, bulk string) (*petro.Rock, error) {
	errid := "theriak/Handle.Minimise"
	if err := O.BuildInput(p, t, bulk); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	if err := O.Run(true); err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	return O.Rock()
}

//If and only if a minimization fails, the program marks the endmember
//activities with "**" and prints an "** activity test" section below the
//activities block. The substring is the only reliable failure signal the
//report offers.
func failedMinimisation(output string) bool {
	return strings.Contains(output, "activity test")
}
