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
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse_TransferSyntaxes(t *testing.T) {
	name := text("Doe^John")
	tests := []struct {
		name string
		in   []byte
	}{
		{"explicit little endian", part10(ExplicitVRLittleEndianUID, explicitElement(PatientNameTag, "PN", name))},
		{"implicit little endian", part10(ImplicitVRLittleEndianUID, implicitElement(PatientNameTag, name))},
		{
			"big endian",
			part10(ExplicitVRBigEndianUID, explicitHeader(binary.BigEndian, PatientNameTag, "PN", 8), name),
		},
		{
			"deflated",
			part10(DeflatedExplicitVRLittleEndianUID,
				deflate(t, explicitElement(PatientNameTag, "PN", name))),
		},
		{"unknown syntax", part10("1.2.3.4", explicitElement(PatientNameTag, "PN", name))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ds, err := Parse(bytes.NewReader(tc.in))
			if err != nil {
				t.Fatalf("Parse(_) => %v", err)
			}
			if got := mustString(t, ds, PatientNameTag); got != "Doe^John" {
				t.Fatalf("got %q, want %q", got, "Doe^John")
			}
			want := []DataElementTag{FileMetaInformationGroupLengthTag, TransferSyntaxUIDTag, PatientNameTag}
			if !reflect.DeepEqual(ds.SortedTags(), want) {
				t.Fatalf("got %v, want %v", ds.SortedTags(), want)
			}
		})
	}
}

func TestParse_InvalidHeader(t *testing.T) {
	valid := part10(ExplicitVRLittleEndianUID)
	badSignature := append([]byte{}, valid...)
	copy(badSignature[preambleLength:], "DICN")

	syntax := explicitElement(TransferSyntaxUIDTag, "UI", uid(ExplicitVRLittleEndianUID))
	noGroupLength := concat(make([]byte, preambleLength), []byte(magic), syntax)

	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"short preamble", make([]byte, 64)},
		{"bad signature", badSignature},
		{"missing group length", noGroupLength},
		{
			"missing transfer syntax",
			concat(make([]byte, preambleLength), []byte(magic),
				explicitElement(FileMetaInformationGroupLengthTag, "UL", le.AppendUint32(nil, 0))),
		},
		{
			"group length ending within an element",
			concat(make([]byte, preambleLength), []byte(magic),
				explicitElement(FileMetaInformationGroupLengthTag, "UL", le.AppendUint32(nil, 4)), syntax),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(bytes.NewReader(tc.in)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestParse_CorruptDataSet(t *testing.T) {
	in := part10(ExplicitVRLittleEndianUID,
		explicitElement(StudyDateTag, "DA", text("20200101")),
		explicitHeader(le, PatientNameTag, "PN", 10),
	)
	ds, err := Parse(bytes.NewReader(in))
	if !errors.Is(err, ErrCorruptStructure) {
		t.Fatalf("got error %v, want %v", err, ErrCorruptStructure)
	}
	if got := mustString(t, ds, StudyDateTag); got != "20200101" {
		t.Fatalf("got %q, want %q", got, "20200101")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dcm")
	in := part10(ExplicitVRLittleEndianUID, explicitElement(PatientIDTag, "LO", text("123")))
	if err := os.WriteFile(path, in, 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	ds, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile(%q) => %v", path, err)
	}
	if got := mustString(t, ds, PatientIDTag); got != "123" {
		t.Fatalf("got %q, want %q", got, "123")
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.dcm")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("got %v, want %v", err, os.ErrNotExist)
	}
}

func TestDataElementIterator(t *testing.T) {
	in := part10(ImplicitVRLittleEndianUID,
		implicitElement(StudyDateTag, text("20200101")),
		implicitElement(PatientNameTag, text("Doe^John")),
		implicitElement(RowsTag, us(4)),
	)
	iter, err := NewDataElementIterator(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("NewDataElementIterator(_) => %v", err)
	}
	if got := iter.TransferSyntax().UID; got != ImplicitVRLittleEndianUID {
		t.Fatalf("got syntax %v, want %v", got, ImplicitVRLittleEndianUID)
	}

	var got []DataElementTag
	for elem, err := iter.NextElement(); err != io.EOF; elem, err = iter.NextElement() {
		if err != nil {
			t.Fatalf("NextElement() => %v", err)
		}
		got = append(got, elem.Tag)
	}
	want := []DataElementTag{FileMetaInformationGroupLengthTag, TransferSyntaxUIDTag, StudyDateTag,
		PatientNameTag, RowsTag}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if _, err := iter.NextElement(); err != io.EOF {
		t.Fatalf("got %v after the last element, want %v", err, io.EOF)
	}
	if err := iter.Close(); err != nil {
		t.Fatalf("Close() => %v", err)
	}
}

func TestDataElementIterator_Close(t *testing.T) {
	r := bytes.NewReader(part10(DeflatedExplicitVRLittleEndianUID, deflate(t, concat(
		explicitElement(StudyDateTag, "DA", text("20200101")),
		explicitElement(PatientNameTag, "PN", text("Doe^John")),
	))))
	iter, err := NewDataElementIterator(r)
	if err != nil {
		t.Fatalf("NewDataElementIterator(_) => %v", err)
	}
	if _, err := iter.NextElement(); err != nil {
		t.Fatalf("NextElement() => %v", err)
	}
	if err := iter.Close(); err != nil {
		t.Fatalf("Close() => %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("got %d unread bytes after Close, want 0", r.Len())
	}

	iter, err = NewDataElementIterator(bytes.NewReader(part10(ExplicitVRLittleEndianUID,
		explicitHeader(le, PatientNameTag, "PN", 10))))
	if err != nil {
		t.Fatalf("NewDataElementIterator(_) => %v", err)
	}
	if err := iter.Close(); err == nil || !strings.Contains(err.Error(), "closing iterator") {
		t.Fatalf("got %v, want the parse error while closing", err)
	}
}
