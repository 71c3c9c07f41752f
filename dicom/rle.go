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
	"encoding/binary"
	"fmt"
)

const (
	rleHeaderSize  = 64
	rleMaxSegments = 15
)

// RLECodec decodes RLE Lossless pixel data
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#chapter_G
type RLECodec struct{}

// Name is "RLE Lossless"
func (RLECodec) Name() string {
	return "RLE Lossless"
}

// CanHandle is true for the RLE Lossless transfer syntax
func (RLECodec) CanHandle(syntax *TransferSyntax) bool {
	return syntax.UID == RLELosslessUID
}

// DecodedBitsAllocated requires bitsAllocated to be a multiple of 8, as each byte of a sample is
// stored in its own segment
func (RLECodec) DecodedBitsAllocated(bitsAllocated, bitsStored uint16) (uint16, bool) {
	if bitsAllocated == 0 || bitsAllocated%8 != 0 || bitsStored > bitsAllocated {
		return 0, false
	}
	return bitsAllocated, true
}

// UncompressedFrameSize is the number of segments of the frame times the number of pixels
func (RLECodec) UncompressedFrameSize(g *ImageGeometry, frame []byte) (uint32, error) {
	offsets, err := rleSegmentOffsets(frame)
	if err != nil {
		return 0, err
	}
	return uint32(len(offsets)) * uint32(g.Rows) * uint32(g.Columns), nil
}

// DecodeFragment decodes the segments of frame. Samples are written little endian, interleaved
// unless the Planar Configuration is 1.
func (RLECodec) DecodeFragment(g *ImageGeometry, frame []byte) ([]byte, error) {
	offsets, err := rleSegmentOffsets(frame)
	if err != nil {
		return nil, err
	}
	bytesPerSample := int(g.BitsAllocated / 8)
	samples := int(g.SamplesPerPixel)
	if samples == 0 {
		samples = 1
	}
	if bytesPerSample == 0 || len(offsets) != samples*bytesPerSample {
		return nil, fmt.Errorf("%d RLE segments for %d samples of %d bits: %w", len(offsets),
			samples, g.BitsAllocated, ErrInvalidValue)
	}

	pixels := int(g.Rows) * int(g.Columns)
	out := make([]byte, pixels*len(offsets))
	for s, start := range offsets {
		end := uint32(len(frame))
		if s+1 < len(offsets) {
			end = offsets[s+1]
		}
		if start > end || end > uint32(len(frame)) {
			return nil, fmt.Errorf("RLE segment %d spans bytes %d to %d of %d: %w", s, start, end,
				len(frame), ErrInvalidValue)
		}
		plane, err := decodePackBits(frame[start:end], pixels)
		if err != nil {
			return nil, fmt.Errorf("RLE segment %d: %w", s, err)
		}

		// segments hold the most significant byte of a sample first
		sample, b := s/bytesPerSample, bytesPerSample-1-s%bytesPerSample
		for p, v := range plane {
			var i int
			if g.PlanarConfiguration == 1 {
				i = (sample*pixels+p)*bytesPerSample + b
			} else {
				i = (p*samples+sample)*bytesPerSample + b
			}
			out[i] = v
		}
	}
	return out, nil
}

// rleSegmentOffsets reads the RLE header: the number of segments followed by 15 segment offsets
func rleSegmentOffsets(frame []byte) ([]uint32, error) {
	if len(frame) < rleHeaderSize {
		return nil, fmt.Errorf("RLE frame of %d bytes has no header: %w", len(frame), ErrInvalidValue)
	}
	n := binary.LittleEndian.Uint32(frame)
	if n == 0 || n > rleMaxSegments {
		return nil, fmt.Errorf("%d RLE segments: %w", n, ErrInvalidValue)
	}
	offsets := make([]uint32, n)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(frame[4+4*i:])
	}
	return offsets, nil
}

// decodePackBits decodes a PackBits segment into n bytes. A header byte h of 0 to 127 copies the
// next h+1 bytes, -1 to -127 repeats the next byte 1-h times and -128 is skipped.
func decodePackBits(data []byte, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for i := 0; i < len(data) && len(out) < n; {
		h := int8(data[i])
		i++
		switch {
		case h >= 0:
			count := int(h) + 1
			if i+count > len(data) {
				return nil, fmt.Errorf("literal run of %d bytes at %d overruns the segment: %w", count,
					i, ErrInvalidValue)
			}
			out = append(out, data[i:i+count]...)
			i += count
		case h != -128:
			if i >= len(data) {
				return nil, fmt.Errorf("replicate run at %d has no byte: %w", i, ErrInvalidValue)
			}
			for j := 0; j < 1-int(h); j++ {
				out = append(out, data[i])
			}
			i++
		}
	}
	if len(out) < n {
		return nil, fmt.Errorf("decoded %d of %d bytes: %w", len(out), n, ErrInvalidValue)
	}
	return out[:n], nil
}
