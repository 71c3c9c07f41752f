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
	"compress/flate"
	"encoding/binary"
	"testing"
)

var le = binary.LittleEndian

// explicitHeader encodes the header of an explicit VR element. VR codes that are not standard VRs
// are given a 32-bit length, the way unknown VRs are read.
func explicitHeader(order binary.AppendByteOrder, tag DataElementTag, vr string, length uint32) []byte {
	b := order.AppendUint16(nil, tag.GroupNumber())
	b = order.AppendUint16(b, tag.ElementNumber())
	b = append(b, vr...)
	if v, ok := LookupVR(vr); ok && !v.IsPseudo() && !v.longLength {
		return order.AppendUint16(b, uint16(length))
	}
	b = append(b, 0, 0)
	return order.AppendUint32(b, length)
}

// explicitElement encodes an explicit VR little endian element
func explicitElement(tag DataElementTag, vr string, value []byte) []byte {
	return append(explicitHeader(le, tag, vr, uint32(len(value))), value...)
}

// implicitHeader encodes the header of an implicit VR little endian element, or of an item or
// delimitation item in any little endian syntax
func implicitHeader(tag DataElementTag, length uint32) []byte {
	b := le.AppendUint16(nil, tag.GroupNumber())
	b = le.AppendUint16(b, tag.ElementNumber())
	return le.AppendUint32(b, length)
}

func implicitElement(tag DataElementTag, value []byte) []byte {
	return append(implicitHeader(tag, uint32(len(value))), value...)
}

func itemDelimiter() []byte {
	return implicitHeader(ItemDelimitationItemTag, 0)
}

func sequenceDelimiter() []byte {
	return implicitHeader(SequenceDelimitationItemTag, 0)
}

// uid pads a UI value with NUL to an even length
func uid(s string) []byte {
	if len(s)%2 == 1 {
		return append([]byte(s), 0x00)
	}
	return []byte(s)
}

// text pads a string value with a space to an even length
func text(s string) []byte {
	if len(s)%2 == 1 {
		return append([]byte(s), ' ')
	}
	return []byte(s)
}

func us(v ...uint16) []byte {
	var b []byte
	for _, n := range v {
		b = le.AppendUint16(b, n)
	}
	return b
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// part10 returns a DICOM file with the given transfer syntax whose Data Set is made of body
func part10(syntaxUID string, body ...[]byte) []byte {
	syntax := explicitElement(TransferSyntaxUIDTag, "UI", uid(syntaxUID))
	groupLength := explicitElement(FileMetaInformationGroupLengthTag, "UL",
		le.AppendUint32(nil, uint32(len(syntax))))
	return concat(make([]byte, preambleLength), []byte(magic), groupLength, syntax, concat(body...))
}

func deflate(t *testing.T, b []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		t.Fatalf("flate.NewWriter: %v", err)
	}
	if _, err := w.Write(b); err != nil {
		t.Fatalf("deflating: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing deflater: %v", err)
	}
	return buf.Bytes()
}

func mustGet(t *testing.T, ds *DataSet, tag DataElementTag) *DataElement {
	t.Helper()
	e, ok := ds.Get(tag)
	if !ok {
		t.Fatalf("missing element %v in data set:\n%s", tag, ds.string(0))
	}
	return e
}

func mustString(t *testing.T, ds *DataSet, tag DataElementTag) string {
	t.Helper()
	s, err := mustGet(t, ds, tag).StringValue()
	if err != nil {
		t.Fatalf("%v.StringValue() => %v", tag, err)
	}
	return s
}

func mustSequence(t *testing.T, ds *DataSet, tag DataElementTag) *Sequence {
	t.Helper()
	seq, ok := mustGet(t, ds, tag).ValueField.(*Sequence)
	if !ok {
		t.Fatalf("%v is not a sequence: %T", tag, mustGet(t, ds, tag).ValueField)
	}
	return seq
}

func mustDataSet(t *testing.T, elements map[DataElementTag]any) *DataSet {
	t.Helper()
	ds, err := NewDataSet(elements)
	if err != nil {
		t.Fatalf("NewDataSet(_) => %v", err)
	}
	return ds
}
