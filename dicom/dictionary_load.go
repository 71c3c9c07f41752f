// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dicom

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DictionaryPathEnv names the environment variable holding a list of external dictionary files,
// separated by the OS path list separator.
const DictionaryPathEnv = "DCMDICTPATH"

//go:embed dicom.dic
var builtinDictionary []byte

// DictionaryLineError describes a line of a dictionary source that could not be loaded
type DictionaryLineError struct {
	Source string
	Line   int
	Err    error
}

func (e *DictionaryLineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *DictionaryLineError) Unwrap() error {
	return e.Err
}

// Load adds the entries of a dictionary source to d. The source is line oriented with tab
// separated fields: tag, VR, name, VM and version. The VM and version fields are optional and
// lines starting with '#' are comments. For example:
//
//	(0010,0010)	PN	PatientName	1	DICOM
//	(6000-60FF,3000)	ox	OverlayData	1	DICOM
//	(0009,"GEMS_IDEN_01",01)	LO	FullFidelity	1	PrivateTag
//
// Malformed lines are skipped. The returned error joins one *DictionaryLineError per skipped line
// and is nil if every line was loaded.
func (d *Dictionary) Load(r io.Reader, source string) error {
	reader := csv.NewReader(r)
	reader.Comma = '\t'  // tab separated file
	reader.Comment = '#' // comments start with #
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true // private creators are quoted within the tag field
	reader.ReuseRecord = true

	var lineErrs []error
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var line int
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line
			}
			lineErrs = append(lineErrs, &DictionaryLineError{source, line, err})
			continue
		}
		line, _ := reader.FieldPos(0)
		if onlyWhitespace(row) {
			continue
		}

		entry, err := parseDictionaryLine(row)
		if err != nil {
			d.logger.Warn().Str("source", source).Int("line", line).Err(err).
				Msg("skipping dictionary line")
			lineErrs = append(lineErrs, &DictionaryLineError{source, line, err})
			continue
		}
		d.AddEntry(entry)
	}

	d.mu.Lock()
	d.loaded = len(lineErrs) == 0
	d.mu.Unlock()

	return errors.Join(lineErrs...)
}

// LoadFile adds the entries of the dictionary file at path to d
func (d *Dictionary) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening dictionary: %v", err)
	}
	defer f.Close()

	return d.Load(f, path)
}

// LoadBuiltin adds the entries of the data dictionary compiled into the package
func (d *Dictionary) LoadBuiltin() error {
	return d.Load(bytes.NewReader(builtinDictionary), "builtin")
}

// LoadExternal adds the entries of every file listed in the DCMDICTPATH environment variable.
// An unset or empty variable loads nothing.
func (d *Dictionary) LoadExternal() error {
	env := os.Getenv(DictionaryPathEnv)
	if env == "" {
		return nil
	}

	var errs []error
	for _, path := range filepath.SplitList(env) {
		if path == "" {
			continue
		}
		d.logger.Debug().Str("path", path).Msg("loading external dictionary")
		if err := d.LoadFile(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reload clears the dictionary and reloads the skeleton, then the built in and external
// dictionaries as requested.
func (d *Dictionary) Reload(builtin, external bool) error {
	d.mu.Lock()
	d.reset()
	d.loadSkeleton()
	d.mu.Unlock()

	var errs []error
	if builtin {
		errs = append(errs, d.LoadBuiltin())
	}
	if external {
		errs = append(errs, d.LoadExternal())
	}
	return errors.Join(errs...)
}

func onlyWhitespace(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseDictionaryLine(fields []string) (*DictEntry, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("too few fields: got %d, want at least 3", len(fields))
	}
	if len(fields) > 5 {
		return nil, fmt.Errorf("too many fields: got %d, want at most 5", len(fields))
	}

	e := &DictEntry{VMMin: 1, VMMax: 1, VMMultipleOf: 1, Version: "DICOM"}
	if len(fields) == 5 {
		e.Version = stripWhitespace(fields[4])
	}
	if len(fields) >= 4 {
		var err error
		e.VMMin, e.VMMax, e.VMMultipleOf, err = parseVMField(fields[3])
		if err != nil {
			return nil, err
		}
	}
	if err := parseTagField(fields[0], e); err != nil {
		return nil, err
	}

	vrName := stripWhitespace(fields[1])
	vr, ok := LookupVR(vrName)
	if !ok {
		return nil, fmt.Errorf("bad VR field: %q", vrName)
	}
	e.VR = vr
	e.Name = stripWhitespace(fields[2])

	return e, nil
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// parseVMField parses the value multiplicity notations "n", "3", "1-3", "1-n", "2n" and "2-2n"
func parseVMField(s string) (vmMin, vmMax, multipleOf int, err error) {
	s = strings.ToLower(stripWhitespace(s))
	if s == "n" {
		return 1, VariableVM, 1, nil
	}

	lo, hi, isRange := strings.Cut(s, "-")
	if !isRange {
		if n, ok := strings.CutSuffix(lo, "n"); ok {
			m, err := strconv.Atoi(n)
			if err != nil || m < 1 {
				return 0, 0, 0, fmt.Errorf("bad VM field: %q", s)
			}
			return m, VariableVM, m, nil
		}
		m, err := strconv.Atoi(lo)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("bad VM field: %q", s)
		}
		return m, m, 1, nil
	}

	vmMin, err = strconv.Atoi(lo)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad VM field: %q", s)
	}
	switch {
	case hi == "n":
		return vmMin, VariableVM, 1, nil
	case strings.HasSuffix(hi, "n"):
		m, err := strconv.Atoi(strings.TrimSuffix(hi, "n"))
		if err != nil || m < 1 {
			return 0, 0, 0, fmt.Errorf("bad VM field: %q", s)
		}
		return vmMin, VariableVM, m, nil
	}
	vmMax, err = strconv.Atoi(hi)
	if err != nil || vmMax < vmMin {
		return 0, 0, 0, fmt.Errorf("bad VM field: %q", s)
	}
	return vmMin, vmMax, 1, nil
}

// parseTagField parses "(gggg,eeee)", ranges such as "(6000-o-60FF,eeee)" and private entries
// "(gggg,"CREATOR",ee)" into e.
func parseTagField(s string, e *DictEntry) error {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") || !strings.Contains(s, ",") {
		return fmt.Errorf("bad tag field: %q", s)
	}
	inner := s[1 : len(s)-1]

	groupPart, rest, _ := strings.Cut(inner, ",")
	rest = strings.TrimLeft(rest, " \t")
	if strings.HasPrefix(rest, `"`) {
		end := strings.Index(rest[1:], `"`)
		if end < 0 {
			return fmt.Errorf("bad tag field, missing closing quotation mark: %q", s)
		}
		e.PrivateCreator = rest[1 : end+1]
		var ok bool
		if _, rest, ok = strings.Cut(rest[end+2:], ","); !ok {
			return fmt.Errorf("bad tag field, element part missing: %q", s)
		}
	}

	gl, gh, gr, err := parseTagPart(groupPart)
	if err != nil {
		return fmt.Errorf("bad tag field %q: %v", s, err)
	}
	el, eh, er, err := parseTagPart(rest)
	if err != nil {
		return fmt.Errorf("bad tag field %q: %v", s, err)
	}

	e.Tag, e.UpperTag = NewTag(gl, el), NewTag(gh, eh)
	e.GroupRestriction, e.ElementRestriction = gr, er
	return nil
}

// parseTagPart parses "gggg", "gggg-hhhh" (even numbers only) and "gggg-r-hhhh" where the
// restrictor r is one of o (odd), e (even) or u (unspecified).
func parseTagPart(s string) (lo, hi uint16, r RangeRestriction, err error) {
	s = stripWhitespace(s)
	parts := strings.Split(s, "-")
	parse := func(p string) (uint16, error) {
		n, err := strconv.ParseUint(p, 16, 16)
		return uint16(n), err
	}

	switch len(parts) {
	case 1:
		lo, err = parse(parts[0])
		return lo, lo, RangeUnspecified, err
	case 2:
		if lo, err = parse(parts[0]); err != nil {
			return 0, 0, 0, err
		}
		hi, err = parse(parts[1])
		return lo, hi, RangeEven, err
	case 3:
		switch strings.ToLower(parts[1]) {
		case "o":
			r = RangeOdd
		case "e":
			r = RangeEven
		case "u":
			r = RangeUnspecified
		default:
			return 0, 0, 0, fmt.Errorf("unknown range restrictor: %q", parts[1])
		}
		if lo, err = parse(parts[0]); err != nil {
			return 0, 0, 0, err
		}
		hi, err = parse(parts[2])
		return lo, hi, r, err
	}
	return 0, 0, 0, fmt.Errorf("bad tag part: %q", s)
}
