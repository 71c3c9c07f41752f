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
	"errors"
	"reflect"
	"testing"
)

func mustCharacterSet(t *testing.T, terms ...string) *CharacterSet {
	t.Helper()
	cs, err := NewCharacterSet(terms...)
	if err != nil {
		t.Fatalf("NewCharacterSet(%q) => %v", terms, err)
	}
	return cs
}

func TestDetermineVM(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"padding only", " ", 1},
		{"single", "ABC", 1},
		{"trailing delimiter", `1\2\3\`, 4},
		{"empty values", `\\`, 3},
		{"embedded NUL", "A\x00B\\C", 2},
		{"NUL around delimiter", "A\\\x00\\B", 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetermineVM([]byte(tc.in), DefaultCharacterSet); got != tc.want {
				t.Fatalf("DetermineVM(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestDetermineVM_CharacterSets(t *testing.T) {
	const name = "John\x83\x5cSmith"
	tests := []struct {
		terms []string
		in    string
		want  int
	}{
		// 0x5C is the trailing byte of a 2-byte GB18030 code point
		{[]string{"GB18030"}, name, 1},
		{[]string{"GBK"}, name, 1},
		{[]string{"ISO_IR 100"}, name, 2},
		{nil, name, 2},
		{[]string{"GB18030"}, "\x81\x30\x81\x5c\\B", 2},
		// 0x5C within a JIS X 0208 run is not a delimiter
		{[]string{"", "ISO 2022 IR 87"}, "\x1b$B\x30\x5c\x1b(B\\x", 2},
		{[]string{"ISO 2022 IR 13", "ISO 2022 IR 87"}, "\x1b(J\\\x1b(B\\", 2},
	}
	for _, tc := range tests {
		cs := mustCharacterSet(t, tc.terms...)
		if got := DetermineVM([]byte(tc.in), cs); got != tc.want {
			t.Fatalf("DetermineVM(%q) in %v = %d, want %d", tc.in, cs, got, tc.want)
		}
	}
}

func TestByteString_VM(t *testing.T) {
	tests := []struct {
		vr   *VR
		raw  string
		want int
	}{
		{CSVR, `A\B\C`, 3},
		{CSVR, "", 0},
		{LTVR, `text \ with backslash`, 1},
		{LTVR, "", 0},
		{URVR, `http://a\b`, 1},
		{UIVR, "1.2.3\x00", 1},
	}
	for _, tc := range tests {
		if got := NewByteString(tc.vr, []byte(tc.raw)).VM(); got != tc.want {
			t.Fatalf("%v %q VM = %d, want %d", tc.vr, tc.raw, got, tc.want)
		}
	}
}

func TestByteString_VMFollowsCharacterSet(t *testing.T) {
	s := NewByteString(PNVR, []byte("John\x83\x5cSmith"))
	if got := s.VM(); got != 2 {
		t.Fatalf("got VM %d, want 2", got)
	}
	s.SetCharacterSet(mustCharacterSet(t, "GB18030"))
	if got := s.VM(); got != 1 {
		t.Fatalf("got VM %d in GB18030, want 1", got)
	}

	// byte string VRs are always split at every backslash
	cs := NewByteString(CSVR, []byte("A\x83\x5cB"))
	cs.SetCharacterSet(mustCharacterSet(t, "GB18030"))
	if got := cs.VM(); got != 2 {
		t.Fatalf("got VM %d for CS, want 2", got)
	}
}

func TestByteString_GetValueAtFollowsCharacterSet(t *testing.T) {
	const raw = "John\\\x83\x5cSmith"
	tests := []struct {
		charset string
		want    []string
	}{
		{"GB18030", []string{"John", "\x83\x5cSmith"}},
		{"ISO_IR 100", []string{"John", "\x83", "Smith"}},
	}
	for _, tc := range tests {
		t.Run(tc.charset, func(t *testing.T) {
			s := NewByteString(PNVR, []byte(raw))
			s.SetCharacterSet(mustCharacterSet(t, tc.charset))
			if got := s.VM(); got != len(tc.want) {
				t.Fatalf("got VM %d, want %d", got, len(tc.want))
			}
			for i, want := range tc.want {
				got, err := s.GetValueAt(i, true)
				if err != nil {
					t.Fatalf("GetValueAt(%d, true) => %v", i, err)
				}
				if got != want {
					t.Fatalf("GetValueAt(%d, true) = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestByteString_GetValueAt(t *testing.T) {
	tests := []struct {
		vr        *VR
		raw       string
		i         int
		normalize bool
		want      string
	}{
		{CSVR, ` AB \CD`, 0, true, "AB"},
		{CSVR, ` AB \CD`, 0, false, " AB "},
		{CSVR, ` AB \CD`, 1, true, "CD"},
		{UIVR, "1.2.3\x00", 0, true, "1.2.3"},
		{UIVR, "1.2.3\x00", 0, false, "1.2.3\x00"},
		{LTVR, "  indented  ", 0, true, "  indented"},
		{PNVR, `Doe^John\Roe^Jane `, 1, true, "Roe^Jane"},
	}
	for _, tc := range tests {
		s := NewByteString(tc.vr, []byte(tc.raw))
		got, err := s.GetValueAt(tc.i, tc.normalize)
		if err != nil {
			t.Fatalf("GetValueAt(%d, %v) => %v", tc.i, tc.normalize, err)
		}
		if got != tc.want {
			t.Fatalf("got %q, want %q", got, tc.want)
		}
	}

	s := NewStrings(CSVR, "A", "B")
	for _, i := range []int{-1, 2} {
		if _, err := s.GetValueAt(i, true); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("GetValueAt(%d) => %v, want %v", i, err, ErrIndexOutOfRange)
		}
	}
}

func TestByteString_PutValueAt(t *testing.T) {
	s := NewStrings(LOVR, "One")
	if err := s.PutValueAt(4, "Four"); err != nil {
		t.Fatalf("PutValueAt(4) => %v", err)
	}
	if got := s.VM(); got != 5 {
		t.Fatalf("got VM %d, want 5", got)
	}
	want := []string{"One", "", "", "", "Four"}
	if got := s.Strings(false); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := string(s.Bytes()); got != `One\\\\Four` {
		t.Fatalf("got raw %q", got)
	}

	if err := s.PutValueAt(1, "Two"); err != nil {
		t.Fatalf("PutValueAt(1) => %v", err)
	}
	if got, _ := s.GetValueAt(1, true); got != "Two" {
		t.Fatalf("got %q, want %q", got, "Two")
	}
	if got := s.VM(); got != 5 {
		t.Fatalf("got VM %d after replacing a value, want 5", got)
	}
	if err := s.PutValueAt(-1, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("PutValueAt(-1) => %v, want %v", err, ErrIndexOutOfRange)
	}

	lt := NewStrings(LTVR, "text")
	if err := lt.PutValueAt(1, "more"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("PutValueAt(1) on LT => %v, want %v", err, ErrIndexOutOfRange)
	}
	if err := lt.PutValueAt(0, `a\b`); err != nil || lt.VM() != 1 {
		t.Fatalf("PutValueAt(0) on LT => %v, VM %d", err, lt.VM())
	}
}

func TestByteString_Decoded(t *testing.T) {
	s := NewByteString(PNVR, []byte("M\xfcller^Hans"))
	s.SetCharacterSet(mustCharacterSet(t, "ISO_IR 100"))
	got, err := s.DecodedValueAt(0)
	if err != nil {
		t.Fatalf("DecodedValueAt(0) => %v", err)
	}
	if got != "Müller^Hans" {
		t.Fatalf("got %q, want %q", got, "Müller^Hans")
	}

	if err := s.PutDecodedValueAt(1, "Jørgen"); err != nil {
		t.Fatalf("PutDecodedValueAt(1) => %v", err)
	}
	if want := []byte("M\xfcller^Hans\\J\xf8rgen"); !bytes.Equal(s.Bytes(), want) {
		t.Fatalf("got % X, want % X", s.Bytes(), want)
	}
	all, err := s.DecodedString()
	if err != nil || all != `Müller^Hans\Jørgen` {
		t.Fatalf("DecodedString() = %q, %v", all, err)
	}

	// byte string VRs are not decoded
	cs := NewByteString(CSVR, []byte("ORIGINAL"))
	if got, err := cs.DecodedValueAt(0); err != nil || got != "ORIGINAL" {
		t.Fatalf("DecodedValueAt(0) = %q, %v", got, err)
	}
}

func TestByteString_Encode(t *testing.T) {
	tests := []struct {
		vr   *VR
		raw  string
		want string
	}{
		{UIVR, "1.2.3", "1.2.3\x00"},
		{CSVR, "ABC", "ABC "},
		{PNVR, "Doe^John", "Doe^John"},
		{UTVR, "", ""},
	}
	for _, tc := range tests {
		s := NewByteString(tc.vr, []byte(tc.raw))
		if got := string(s.encode()); got != tc.want {
			t.Fatalf("got %q, want %q", got, tc.want)
		}
		if got := s.paddedLength(); got != int64(len(tc.want)) {
			t.Fatalf("got padded length %d, want %d", got, len(tc.want))
		}
	}
}
