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
	"fmt"
	"strings"
)

// ByteString holds the raw bytes of a string VR value field. The bytes are kept exactly as read so
// that an unmodified value is written back unchanged. Values are addressed by index, splitting the
// raw bytes at the value delimiter according to the character set of the enclosing Data Set.
type ByteString struct {
	vr      *VR
	raw     []byte
	charset *CharacterSet

	// cached value multiplicity, valid while vmCharset matches charset
	vm        int
	vmValid   bool
	vmCharset *CharacterSet
}

// NewByteString returns a ByteString of the given VR holding the raw bytes b
func NewByteString(vr *VR, b []byte) *ByteString {
	return &ByteString{vr: vr, raw: b}
}

// NewStrings returns a ByteString holding the given values joined by the value delimiter
func NewStrings(vr *VR, values ...string) *ByteString {
	return NewByteString(vr, []byte(strings.Join(values, `\`)))
}

func (*ByteString) isValue() {}

// VR returns the VR of the value
func (s *ByteString) VR() *VR {
	return s.vr
}

// Bytes returns the raw bytes of the value field
func (s *ByteString) Bytes() []byte {
	return s.raw
}

// CharacterSet returns the character set the value is interpreted in
func (s *ByteString) CharacterSet() *CharacterSet {
	if s.charset == nil {
		return DefaultCharacterSet
	}
	return s.charset
}

// SetCharacterSet changes the character set used to split and decode the value. The raw bytes are
// unchanged.
func (s *ByteString) SetCharacterSet(cs *CharacterSet) {
	s.charset = cs
}

// PutString replaces the raw bytes of the value, interpreting them in cs
func (s *ByteString) PutString(raw []byte, cs *CharacterSet) {
	s.raw = raw
	s.charset = cs
	s.vmValid = false
}

// splitCharset returns the character set used to find value delimiters. Byte string VRs are
// restricted to the default repertoire and are always split at every backslash.
func (s *ByteString) splitCharset() *CharacterSet {
	if !s.vr.IsCharacterSetAware() {
		return DefaultCharacterSet
	}
	return s.CharacterSet()
}

// VM returns the number of values. An empty value has VM 0, a value of only padding has VM 1 and
// VRs that do not use the value delimiter (LT, ST, UT, UR) have VM 1 when non-empty.
func (s *ByteString) VM() int {
	cs := s.splitCharset()
	if s.vmValid && s.vmCharset == cs {
		return s.vm
	}
	if s.vr.delimited {
		s.vm = DetermineVM(s.raw, cs)
	} else if len(s.raw) > 0 {
		s.vm = 1
	} else {
		s.vm = 0
	}
	s.vmValid, s.vmCharset = true, cs
	return s.vm
}

// DetermineVM counts the values of the raw bytes b of a delimited string VR: one more than the
// number of value delimiters found by a character set aware walk, or 0 for empty input. The walk
// does not stop at embedded NUL bytes.
func DetermineVM(b []byte, cs *CharacterSet) int {
	if len(b) == 0 {
		return 0
	}
	return len(cs.delimiters(b)) + 1
}

// values returns the raw values
func (s *ByteString) values() [][]byte {
	if !s.vr.delimited {
		if len(s.raw) == 0 {
			return nil
		}
		return [][]byte{s.raw}
	}
	return s.splitCharset().split(s.raw)
}

// GetValueAt returns the raw bytes of value i. With normalize set, the padding of the VR is
// removed: a single trailing NUL for UI, trailing spaces for the unlimited text VRs and leading and
// trailing spaces otherwise.
func (s *ByteString) GetValueAt(i int, normalize bool) (string, error) {
	values := s.values()
	if i < 0 || i >= len(values) {
		return "", fmt.Errorf("getting value %d of %d: %w", i, len(values), ErrIndexOutOfRange)
	}
	v := values[i]
	if normalize {
		v = s.normalize(v)
	}
	return string(v), nil
}

func (s *ByteString) normalize(v []byte) []byte {
	switch {
	case s.vr == UIVR:
		v = bytes.TrimSuffix(v, []byte{0x00})
		return bytes.TrimRight(v, " ")
	case !s.vr.delimited:
		return bytes.TrimRight(v, " ")
	}
	return bytes.Trim(v, " ")
}

// Strings returns every value, optionally normalized
func (s *ByteString) Strings(normalize bool) []string {
	values := s.values()
	ret := make([]string, 0, len(values))
	for _, v := range values {
		if normalize {
			v = s.normalize(v)
		}
		ret = append(ret, string(v))
	}
	return ret
}

// String returns all values normalized and joined by the value delimiter
func (s *ByteString) String() string {
	return strings.Join(s.Strings(true), `\`)
}

// PutValueAt replaces value i with the raw bytes v. Putting beyond the last value appends empty
// values up to i.
func (s *ByteString) PutValueAt(i int, v string) error {
	if i < 0 {
		return fmt.Errorf("putting value %d: %w", i, ErrIndexOutOfRange)
	}
	if !s.vr.delimited {
		if i != 0 {
			return fmt.Errorf("putting value %d of %v which has a single value: %w", i, s.vr,
				ErrIndexOutOfRange)
		}
		s.PutString([]byte(v), s.charset)
		return nil
	}

	values := s.values()
	for len(values) <= i {
		values = append(values, nil)
	}
	values[i] = []byte(v)
	s.PutString(bytes.Join(values, []byte{backslash}), s.charset)
	return nil
}

// DecodedValueAt returns value i, normalized and decoded to UTF-8 according to the character set
func (s *ByteString) DecodedValueAt(i int) (string, error) {
	v, err := s.GetValueAt(i, true)
	if err != nil {
		return "", err
	}
	if !s.vr.IsCharacterSetAware() {
		return v, nil
	}
	return s.CharacterSet().Decode([]byte(v))
}

// DecodedString returns the whole value decoded to UTF-8 according to the character set
func (s *ByteString) DecodedString() (string, error) {
	if !s.vr.IsCharacterSetAware() {
		return s.String(), nil
	}
	return s.CharacterSet().Decode(s.normalize(s.raw))
}

// PutDecodedValueAt encodes the UTF-8 string v in the character set and puts it at index i
func (s *ByteString) PutDecodedValueAt(i int, v string) error {
	if !s.vr.IsCharacterSetAware() {
		return s.PutValueAt(i, v)
	}
	b, err := s.CharacterSet().Encode(v)
	if err != nil {
		return err
	}
	return s.PutValueAt(i, string(b))
}

// paddedLength returns the encoded length of the value field, including the padding byte
func (s *ByteString) paddedLength() int64 {
	l := int64(len(s.raw))
	if l%2 == 1 {
		l++
	}
	return l
}

// encode returns the value field padded to an even length
func (s *ByteString) encode() []byte {
	if len(s.raw)%2 == 0 {
		return s.raw
	}
	out := make([]byte, len(s.raw)+1)
	copy(out, s.raw)
	out[len(s.raw)] = s.vr.padding
	return out
}
