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
	"reflect"
	"testing"
)

func TestVRMismatchPolicy_String(t *testing.T) {
	tests := []struct {
		policy VRMismatchPolicy
		want   string
	}{
		{PreferDataSetVR, "PreferDataSetVR"},
		{PreferDictionaryVR, "PreferDictionaryVR"},
		{PreferDictionaryVRForUN, "PreferDictionaryVRForUN"},
		{VRMismatchPolicy(7), "VRMismatchPolicy(7)"},
	}
	for _, tc := range tests {
		if got := tc.policy.String(); got != tc.want {
			t.Fatalf("got %q, want %q", got, tc.want)
		}
	}
}

func TestNewParseConfig(t *testing.T) {
	cfg := newParseConfig(nil)
	if cfg.dict != StandardDictionary() || cfg.policy != PreferDataSetVR || cfg.strict {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.syntax != nil || cfg.charset != nil || len(cfg.transforms) != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}

	dict := NewDictionary(cfg.logger)
	cs := mustCharacterSet(t, "ISO_IR 100")
	cfg = newParseConfig([]ParseOption{
		WithDictionary(dict),
		WithVRPolicy(PreferDictionaryVRForUN),
		WithCheckValues(true),
		WithCharacterSet(cs),
		WithTransferSyntax("1.2.3.4"),
		DropGroupLengths,
		DropBasicOffsetTable,
	})
	if cfg.dict != dict || cfg.policy != PreferDictionaryVRForUN || !cfg.strict || cfg.charset != cs {
		t.Fatalf("options not applied: %+v", cfg)
	}
	if cfg.syntax.UID != "1.2.3.4" || !cfg.syntax.Encapsulated || !cfg.syntax.ExplicitVR {
		t.Fatalf("got syntax %+v, want explicit VR encapsulated", cfg.syntax)
	}
	if len(cfg.transforms) != 2 {
		t.Fatalf("got %d transforms, want 2", len(cfg.transforms))
	}
}

func TestDropBasicOffsetTable(t *testing.T) {
	tests := []struct {
		name    string
		in      *DataElement
		want    *DataElement
		wantErr bool
	}{
		{
			name: "offset table",
			in:   &DataElement{PixelDataTag, OBVR, &PixelSequence{[][]byte{{0, 0, 0, 0}, {1, 2}}}, UndefinedLength},
			want: &DataElement{PixelDataTag, OBVR, &PixelSequence{[][]byte{{}, {1, 2}}}, UndefinedLength},
		},
		{
			name: "native pixel data",
			in:   &DataElement{PixelDataTag, OWVR, NewNumbers[uint16](1), 2},
			want: &DataElement{PixelDataTag, OWVR, NewNumbers[uint16](1), 2},
		},
		{
			name:    "no offset table item",
			in:      &DataElement{PixelDataTag, OBVR, &PixelSequence{}, UndefinedLength},
			wantErr: true,
		},
	}
	for _, tc := range tests {
		got, err := DropBasicOffsetTable.transform(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: got error %v, want error %v", tc.name, err, tc.wantErr)
		}
		if !tc.wantErr && !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDropGroupLengths(t *testing.T) {
	tests := []struct {
		tag  DataElementTag
		keep bool
	}{
		{NewTag(0x0008, 0x0000), false},
		{FileMetaInformationGroupLengthTag, false},
		{PatientNameTag, true},
	}
	for _, tc := range tests {
		got, err := DropGroupLengths.transform(&DataElement{Tag: tc.tag})
		if err != nil {
			t.Fatalf("transform(%v) => %v", tc.tag, err)
		}
		if (got != nil) != tc.keep {
			t.Fatalf("%v: got %v, want kept %v", tc.tag, got, tc.keep)
		}
	}
}
