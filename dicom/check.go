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
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

// repertoire holds the pattern a single normalized value of a byte string VR must match. Empty
// values are always accepted.
var repertoire = map[*VR]*regexp.Regexp{
	AEVR: regexp.MustCompile(`^[\x20-\x5B\x5D-\x7E]*$`),
	ASVR: regexp.MustCompile(`^[0-9]{3}[DWMY]$`),
	CSVR: regexp.MustCompile(`^[A-Z0-9_ ]*$`),
	DAVR: regexp.MustCompile(`^[0-9]{8}$`),
	DSVR: regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`),
	DTVR: regexp.MustCompile(`^[0-9]{4}([0-9]{2}([0-9]{2}([0-9]{2}([0-9]{2}([0-9]{2}(\.[0-9]{1,6})?)?)?)?)?)?([+-][0-9]{4})?$`),
	ISVR: regexp.MustCompile(`^[+-]?[0-9]+$`),
	TMVR: regexp.MustCompile(`^[0-9]{2}([0-9]{2}([0-9]{2}(\.[0-9]{1,6})?)?)?$`),
	UIVR: regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`),
	URVR: regexp.MustCompile(`^[\x21-\x7E]*$`),
}

// CheckValue validates the value against the VM notation vm (for example "1", "1-n" or "2-2n")
// and against the length, padding and repertoire rules of its VR. An empty vm skips the VM check.
// Every violation is returned as a *ValueError, joined.
func (s *ByteString) CheckValue(vm string) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, &ValueError{VR: s.vr, Reason: fmt.Sprintf(format, args...)})
	}

	if vm != "" {
		if err := checkVM(s.VM(), vm); err != nil {
			fail("%v", err)
		}
	}

	nuls := 0
	for i := len(s.raw) - 1; i >= 0 && s.raw[i] == 0x00; i-- {
		nuls++
	}
	switch {
	case s.vr == UIVR && nuls > 1:
		fail("%d trailing NUL bytes, at most one is allowed", nuls)
	case s.vr != UIVR && nuls > 0:
		fail("%d trailing NUL bytes, %v is padded with spaces", nuls, s.vr)
	}

	for i, v := range s.Strings(true) {
		if s.vr.maxLength > 0 {
			n := len(v)
			if s.vr.IsCharacterSetAware() {
				if d, err := s.CharacterSet().Decode([]byte(v)); err == nil {
					n = utf8.RuneCountInString(d)
				}
			}
			if n > s.vr.maxLength {
				fail("value %d has length %d, maximum is %d", i, n, s.vr.maxLength)
			}
		}
		if v == "" {
			continue
		}
		if re, ok := repertoire[s.vr]; ok && !re.MatchString(v) {
			fail("value %d %q contains characters not allowed", i, v)
			continue
		}
		if s.vr.kind == byteStringVR && !isDefaultRepertoire(v) {
			fail("value %d %q is outside the default character repertoire", i, v)
		}
	}
	return errors.Join(errs...)
}

func isDefaultRepertoire(v string) bool {
	for i := 0; i < len(v); i++ {
		if v[i] < 0x20 || v[i] > 0x7E {
			return false
		}
	}
	return true
}

// CheckValue validates the number of values against the VM notation vm. Bytes following the last
// complete value are a violation.
func (n *Numbers[T]) CheckValue(vm string) error {
	var errs []error
	if len(n.trailing) > 0 {
		errs = append(errs, &ValueError{Reason: fmt.Sprintf(
			"%d bytes following the last value do not form a complete value", len(n.trailing))})
	}
	if vm != "" {
		if err := checkVM(n.VM(), vm); err != nil {
			errs = append(errs, &ValueError{Reason: err.Error()})
		}
	}
	return errors.Join(errs...)
}

func checkVM(got int, notation string) error {
	vmMin, vmMax, multipleOf, err := parseVMField(notation)
	if err != nil {
		return err
	}
	e := DictEntry{VMMin: vmMin, VMMax: vmMax, VMMultipleOf: multipleOf}
	if !e.AllowsVM(got) {
		return fmt.Errorf("value multiplicity %d does not match %s", got, e.VM())
	}
	return nil
}

// checkElement validates the value of elem against its dictionary entry. creator is the private
// creator of private elements.
func checkElement(elem *DataElement, dict *Dictionary, creator string) error {
	var vm string
	if e, ok := dict.FindEntry(elem.Tag, creator); ok && elem.VR.kind != bulkDataVR {
		// OB, OW and the other bulk VRs always have a VM of 1
		vm = e.VM()
	}

	var err error
	if v, ok := elem.ValueField.(interface{ CheckValue(string) error }); ok {
		err = v.CheckValue(vm)
	}
	if err == nil {
		return nil
	}

	// attach the tag and VR of the element to every violation
	var ves []error
	for _, e := range flattenErrors(err) {
		var ve *ValueError
		if errors.As(e, &ve) {
			ve.Tag = elem.Tag
			if ve.VR == nil {
				ve.VR = elem.VR
			}
		}
		ves = append(ves, e)
	}
	return errors.Join(ves...)
}

func flattenErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
