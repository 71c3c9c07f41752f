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
	"reflect"
	"testing"
)

// imageDataSet returns a Data Set with the Image Pixel attributes of a rows x columns image
func imageDataSet(t *testing.T, rows, columns, samples, bits uint16, pi string, pixels any) *DataSet {
	t.Helper()
	elements := map[DataElementTag]any{
		RowsTag:                      []uint16{rows},
		ColumnsTag:                   []uint16{columns},
		SamplesPerPixelTag:           []uint16{samples},
		BitsAllocatedTag:             []uint16{bits},
		BitsStoredTag:                []uint16{bits},
		PhotometricInterpretationTag: []string{pi},
	}
	if pixels != nil {
		elements[PixelDataTag] = pixels
	}
	return mustDataSet(t, elements)
}

func TestNewImageGeometry(t *testing.T) {
	ds := imageDataSet(t, 4, 2, 3, 8, "RGB", nil)
	ds.Put(&DataElement{Tag: NumberOfFramesTag, VR: ISVR, ValueField: NewStrings(ISVR, "5")})
	ds.Put(&DataElement{Tag: PlanarConfigurationTag, VR: USVR, ValueField: NewNumbers[uint16](1)})
	got, err := NewImageGeometry(ds)
	if err != nil {
		t.Fatalf("NewImageGeometry(_) => %v", err)
	}
	want := &ImageGeometry{Rows: 4, Columns: 2, SamplesPerPixel: 3, BitsAllocated: 8, BitsStored: 8,
		PlanarConfiguration: 1, PhotometricInterpretation: "RGB", NumberOfFrames: 5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	ds.Remove(ColumnsTag)
	if _, err := NewImageGeometry(ds); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("got %v without Columns, want %v", err, ErrInvalidValue)
	}
}

func TestUncompressedFrameSize_Native(t *testing.T) {
	tests := []struct {
		name          string
		ds            *DataSet
		ignoreSamples bool
		want          uint32
	}{
		{
			name: "RGB",
			ds:   imageDataSet(t, 256, 256, 3, 8, "RGB", nil),
			want: 196608,
		},
		{
			name: "subsampled YBR_FULL_422",
			ds:   imageDataSet(t, 256, 256, 3, 8, "YBR_FULL_422", NewNumbers(make([]uint16, 65536)...)),
			want: 131072,
		},
		{
			name: "YBR_FULL_422 stored at full resolution",
			ds:   imageDataSet(t, 256, 256, 3, 8, "YBR_FULL_422", NewNumbers(make([]uint16, 98304)...)),
			want: 196608,
		},
		{
			name: "YBR_FULL_422 without pixel data",
			ds:   imageDataSet(t, 256, 256, 3, 8, "YBR_FULL_422", nil),
			want: 196608,
		},
		{
			name: "samples per pixel disagreeing with RGB",
			ds:   imageDataSet(t, 256, 256, 1, 8, "RGB", nil),
			want: 65536,
		},
		{
			name:          "samples per pixel ignored",
			ds:            imageDataSet(t, 256, 256, 1, 8, "RGB", nil),
			ignoreSamples: true,
			want:          196608,
		},
		{
			name: "16-bit monochrome",
			ds:   imageDataSet(t, 10, 10, 1, 16, "MONOCHROME2", nil),
			want: 200,
		},
		{
			name: "1-bit overlay",
			ds:   imageDataSet(t, 3, 3, 1, 1, "MONOCHROME2", nil),
			want: 2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := UncompressedFrameSize(tc.ds, explicitVRLittleEndian, tc.ignoreSamples, nil)
			if err != nil {
				t.Fatalf("UncompressedFrameSize(_) => %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestUncompressedFrameSize_Encapsulated(t *testing.T) {
	jpegBaseline := lookupTransferSyntax(JPEGBaselineUID)
	ds := imageDataSet(t, 256, 256, 3, 8, "YBR_FULL_422", NewPixelSequence([]byte{0xFF, 0xD8}))

	tests := []struct {
		name      string
		frameSize uint32
		want      uint32
	}{
		{"codec size", 1234, 1234},
		{"codec without size", 0, 196608},
	}
	for _, tc := range tests {
		r := NewCodecRegistry()
		c := &fakeCodec{name: "fake", uids: []string{JPEGBaselineUID}, frameSize: tc.frameSize}
		if err := r.Register(JPEGBaselineUID, c); err != nil {
			t.Fatalf("Register(_) => %v", err)
		}
		got, err := UncompressedFrameSize(ds, jpegBaseline, false, r)
		if err != nil {
			t.Fatalf("%s: UncompressedFrameSize(_) => %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}

	if _, err := UncompressedFrameSize(ds, jpegBaseline, false, NewCodecRegistry()); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("got %v without codec, want %v", err, ErrInvalidValue)
	}
	if _, err := UncompressedFrameSize(ds, jpegBaseline, false, nil); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("got %v with the empty default registry, want %v", err, ErrInvalidValue)
	}
}

func TestUncompressedFrameSize_Errors(t *testing.T) {
	noRows := imageDataSet(t, 4, 4, 1, 8, "MONOCHROME2", nil)
	noRows.Remove(RowsTag)
	storedExceedsAllocated := imageDataSet(t, 4, 4, 1, 8, "MONOCHROME2", nil)
	storedExceedsAllocated.Put(&DataElement{Tag: BitsStoredTag, VR: USVR, ValueField: NewNumbers[uint16](12)})

	for _, ds := range []*DataSet{noRows, storedExceedsAllocated} {
		if _, err := UncompressedFrameSize(ds, explicitVRLittleEndian, false, nil); !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("got %v, want %v", err, ErrInvalidValue)
		}
	}
}

func TestDecodeFrame_Native(t *testing.T) {
	tests := []struct {
		name   string
		ds     *DataSet
		syntax *TransferSyntax
		frame  int
		want   []byte
	}{
		{
			name:   "8-bit bytes",
			ds:     imageDataSet(t, 2, 2, 1, 8, "MONOCHROME2", []byte{1, 2, 3, 4, 5, 6, 7, 8}),
			syntax: explicitVRLittleEndian,
			frame:  1,
			want:   []byte{5, 6, 7, 8},
		},
		{
			name:   "16-bit words little endian",
			ds:     imageDataSet(t, 1, 2, 1, 16, "MONOCHROME2", NewNumbers[uint16](0x0102, 0x0304)),
			syntax: explicitVRLittleEndian,
			want:   []byte{0x02, 0x01, 0x04, 0x03},
		},
		{
			name:   "16-bit words big endian",
			ds:     imageDataSet(t, 1, 2, 1, 16, "MONOCHROME2", NewNumbers[uint16](0x0102, 0x0304)),
			syntax: explicitVRBigEndian,
			want:   []byte{0x01, 0x02, 0x03, 0x04},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.ds.Put(&DataElement{Tag: NumberOfFramesTag, VR: ISVR, ValueField: NewStrings(ISVR, "2")})
			if tc.frame == 0 {
				tc.ds.Remove(NumberOfFramesTag)
			}
			got, err := DecodeFrame(tc.ds, tc.syntax, tc.frame, nil)
			if err != nil {
				t.Fatalf("DecodeFrame(_) => %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecodeFrame_Errors(t *testing.T) {
	ds := imageDataSet(t, 2, 2, 1, 8, "MONOCHROME2", []byte{1, 2, 3})
	if _, err := DecodeFrame(ds, explicitVRLittleEndian, 0, nil); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("got %v for truncated pixel data, want %v", err, ErrInvalidValue)
	}
	if _, err := DecodeFrame(ds, explicitVRLittleEndian, 1, nil); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("got %v for a missing frame, want %v", err, ErrIndexOutOfRange)
	}

	ds.Remove(PixelDataTag)
	if _, err := DecodeFrame(ds, explicitVRLittleEndian, 0, nil); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("got %v without pixel data, want %v", err, ErrInvalidValue)
	}

	ds.Put(&DataElement{Tag: PixelDataTag, VR: OBVR, ValueField: NewPixelSequence([]byte{1})})
	if _, err := DecodeFrame(ds, lookupTransferSyntax(JPEG2000UID), 0, NewCodecRegistry()); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("got %v without codec, want %v", err, ErrInvalidValue)
	}
}
