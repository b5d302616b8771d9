/*
 * rockset.go, part of gopetro.
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

package rockset

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	petro "github.com/gopetro/gopetro"
	"github.com/klauspost/compress/zstd"
)

//Meta holds the attributes of a rock set. Elements is the global element
//index of the set: every composition vector in every stored rock is
//indexed against it.
type Meta struct {
	Date     string   `json:"date"`
	Author   string   `json:"author,omitempty"`
	Program  string   `json:"program,omitempty"`
	Version  string   `json:"version,omitempty"`
	Database string   `json:"database,omitempty"`
	Elements []string `json:"elements"`
}

//Write!
type Writer struct {
	f         *os.File
	h         io.WriteCloser //nil when the file is uncompressed
	enc       *json.Encoder
	meta      *Meta
	filename  string
	writeable bool
}

//NewWriter creates a rock-set file and writes the metadata line to it.
//The compression is chosen from the file name (see the package
//documentation). meta.Elements must be set, as it fixes the element index
//for every rock written to the set. If meta.Date is empty, the current
//date is used.
func NewWriter(name string, meta *Meta) (*Writer, error) {
	if meta == nil {
		return nil, Error{NilMeta, name, []string{"NewWriter"}, true}
	}
	if len(meta.Elements) == 0 {
		return nil, Error{NoElements, name, []string{"NewWriter"}, true}
	}
	if meta.Date == "" {
		meta.Date = time.Now().Format("2006-01-02")
	}
	W := new(Writer)
	W.filename = name
	var err error
	W.f, err = os.Create(name)
	if err != nil {
		return nil, Error{UnableToCreate + ": " + err.Error(), name, []string{"NewWriter"}, true}
	}
	var out io.Writer = W.f
	switch codec(name) {
	case "zst":
		zw, err := zstd.NewWriter(W.f)
		if err != nil {
			W.f.Close()
			return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
		}
		W.h = zw
		out = zw
	case "gz":
		gw := gzip.NewWriter(W.f)
		W.h = gw
		out = gw
	}
	W.enc = json.NewEncoder(out)
	W.meta = meta
	if err := W.enc.Encode(meta); err != nil {
		W.Close()
		return nil, Error{err.Error(), name, []string{"NewWriter"}, true}
	}
	W.writeable = true
	return W, nil
}

//codec returns the compression label for a file name, the lowercased
//text after the last dot.
func codec(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

//Meta returns the metadata of the set being written.
func (W *Writer) Meta() *Meta {
	return W.meta
}

//WriteRock appends one rock to the set. The rock's element list must
//equal the set's element index, element by element.
func (W *Writer) WriteRock(R *petro.Rock) error {
	if W == nil || !W.writeable {
		return Error{UnIniWrite, "", []string{"WriteRock"}, true}
	}
	if R == nil {
		return Error{NilRock, W.filename, []string{"WriteRock"}, true}
	}
	if !sameElements(W.meta.Elements, R.Elements) {
		return Error{ElementMismatch + ": set " + strings.Join(W.meta.Elements, " ") + ", rock " + strings.Join(R.Elements, " "), W.filename, []string{"WriteRock"}, true}
	}
	if err := W.enc.Encode(R); err != nil {
		return Error{err.Error(), W.filename, []string{"WriteRock"}, true}
	}
	return nil
}

//Close flushes the compressor, if any, and closes the file.
func (W *Writer) Close() error {
	if W == nil || W.f == nil {
		return nil
	}
	W.writeable = false
	if W.h != nil {
		if err := W.h.Close(); err != nil {
			W.f.Close()
			return Error{err.Error(), W.filename, []string{"Close"}, true}
		}
	}
	if err := W.f.Close(); err != nil {
		return Error{err.Error(), W.filename, []string{"Close"}, true}
	}
	W.f = nil
	return nil
}

func sameElements(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if b[i] != v {
			return false
		}
	}
	return true
}

//Read!
type Reader struct {
	f        *os.File
	h        io.ReadCloser //nil when the file is uncompressed
	buf      *bufio.Reader
	meta     *Meta
	filename string
	readable bool
}

//zstd's Decoder has a Close method with no error return, so it does not
//satisfy io.ReadCloser by itself.
type zstdq struct {
	closeq func()
	*zstd.Decoder
}

func (q *zstdq) Close() error {
	q.closeq()
	return nil
}

//NewReader opens a rock-set file and reads its metadata line. The
//compression is chosen from the file name, as for NewWriter.
func NewReader(name string) (*Reader, error) {
	R := new(Reader)
	R.filename = name
	var err error
	R.f, err = os.Open(name)
	if err != nil {
		return nil, Error{UnableToOpen + ": " + err.Error(), name, []string{"NewReader"}, true}
	}
	var in io.Reader = R.f
	switch codec(name) {
	case "zst":
		zr, err := zstd.NewReader(R.f)
		if err != nil {
			R.f.Close()
			return nil, Error{err.Error(), name, []string{"NewReader"}, true}
		}
		R.h = &zstdq{zr.Close, zr}
		in = zr
	case "gz":
		gr, err := gzip.NewReader(R.f)
		if err != nil {
			R.f.Close()
			return nil, Error{err.Error(), name, []string{"NewReader"}, true}
		}
		R.h = gr
		in = gr
	}
	R.buf = bufio.NewReader(in)
	line, err := R.line()
	if err != nil {
		R.Close()
		return nil, Error{WrongFormat + ": no metadata line", name, []string{"NewReader"}, true}
	}
	m := new(Meta)
	if err := json.Unmarshal(line, m); err != nil {
		R.Close()
		return nil, Error{WrongFormat + ": " + err.Error(), name, []string{"NewReader"}, true}
	}
	R.meta = m
	R.readable = true
	return R, nil
}

//Meta returns the metadata of the set.
func (R *Reader) Meta() *Meta {
	return R.meta
}

//line returns the next non-blank line of the set, or io.EOF when the
//set is exhausted.
func (R *Reader) line() ([]byte, error) {
	for {
		line, err := R.buf.ReadBytes('\n')
		line = []byte(strings.TrimSpace(string(line)))
		if err != nil {
			if err == io.EOF {
				if len(line) > 0 {
					//a final document without a trailing newline
					return line, nil
				}
				return nil, io.EOF
			}
			return nil, err
		}
		if len(line) > 0 {
			return line, nil
		}
	}
}

//Next returns the next rock of the set, or io.EOF when the set is
//exhausted.
func (R *Reader) Next() (*petro.Rock, error) {
	if R == nil || !R.readable {
		return nil, Error{UnIniRead, "", []string{"Next"}, true}
	}
	line, err := R.line()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, Error{err.Error(), R.filename, []string{"Next"}, true}
	}
	rock := new(petro.Rock)
	if err := json.Unmarshal(line, rock); err != nil {
		return nil, Error{WrongFormat + ": " + err.Error(), R.filename, []string{"Next"}, true}
	}
	return rock, nil
}

//Close closes the file.
func (R *Reader) Close() error {
	if R == nil || R.f == nil {
		return nil
	}
	R.readable = false
	if R.h != nil {
		if err := R.h.Close(); err != nil {
			R.f.Close()
			return Error{err.Error(), R.filename, []string{"Close"}, true}
		}
	}
	if err := R.f.Close(); err != nil {
		return Error{err.Error(), R.filename, []string{"Close"}, true}
	}
	R.f = nil
	return nil
}

//WriteFile writes a whole set of rocks to name in one call. If
//meta.Elements is empty, the element list of the first rock is taken as
//the element index of the set.
func WriteFile(name string, meta *Meta, rocks []*petro.Rock) error {
	if meta == nil {
		meta = new(Meta)
	}
	if len(meta.Elements) == 0 && len(rocks) > 0 && rocks[0] != nil {
		meta.Elements = append([]string{}, rocks[0].Elements...)
	}
	W, err := NewWriter(name, meta)
	if err != nil {
		return errDecorate(err, "WriteFile")
	}
	for _, v := range rocks {
		if err := W.WriteRock(v); err != nil {
			W.Close()
			return errDecorate(err, "WriteFile")
		}
	}
	if err := W.Close(); err != nil {
		return errDecorate(err, "WriteFile")
	}
	return nil
}

//ReadFile reads a whole set of rocks from name in one call.
func ReadFile(name string) (*Meta, []*petro.Rock, error) {
	R, err := NewReader(name)
	if err != nil {
		return nil, nil, errDecorate(err, "ReadFile")
	}
	defer R.Close()
	rocks := make([]*petro.Rock, 0, 8)
	for {
		rock, err := R.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, errDecorate(err, "ReadFile")
		}
		rocks = append(rocks, rock)
	}
	return R.Meta(), rocks, nil
}

//Errors

//errDecorate is a helper function that asserts that the error
//implements petro.Error and decorates the error with the caller's name
//before returning it. If used with another error type, it will panic.
func errDecorate(err error, caller string) error {
	err2 := err.(petro.Error)
	err2.Decorate(caller)
	return err2
}

//Error is the general structure for rock-set errors. It fulfills
//petro.Error.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("rockset file %s error: %s", err.filename, err.message)
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

//FileName returns the file to which the failing set was associated
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	UnIniRead       = "Reader uninitialized or closed"
	UnIniWrite      = "Writer uninitialized or closed"
	UnableToOpen    = "Unable to open file"
	UnableToCreate  = "Unable to create file"
	WrongFormat     = "Wrong format in the rockset file"
	NilMeta         = "Given nil metadata"
	NilRock         = "Given nil rock"
	NoElements      = "Metadata carries no element index"
	ElementMismatch = "Rock elements differ from the set element index"
)
