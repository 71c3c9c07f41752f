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
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
)

// JPEGCodec decodes JPEG pixel data. The geometry of every JPEG process is read from the frame
// header, decoding is limited to the 8-bit DCT processes.
type JPEGCodec struct{}

// Name is "JPEG"
func (JPEGCodec) Name() string {
	return "JPEG"
}

// CanHandle is true for the JPEG baseline, extended and lossless transfer syntaxes
func (JPEGCodec) CanHandle(syntax *TransferSyntax) bool {
	switch syntax.UID {
	case JPEGBaselineUID, JPEGExtendedUID, JPEGLosslessUID, JPEGLosslessSV1UID:
		return true
	}
	return false
}

// DecodedBitsAllocated requires bitsAllocated to be a multiple of 8. Samples of more than 8 bits
// are decoded into 16 bits.
func (JPEGCodec) DecodedBitsAllocated(bitsAllocated, bitsStored uint16) (uint16, bool) {
	if bitsAllocated == 0 || bitsAllocated%8 != 0 || bitsStored > 16 {
		return 0, false
	}
	if bitsStored > 8 && bitsAllocated == 8 {
		return 16, true
	}
	return bitsAllocated, true
}

// jpegFrameHeader holds the fields of a Start Of Frame segment
type jpegFrameHeader struct {
	marker     byte
	precision  int
	height     int
	width      int
	components int
}

// readJPEGFrameHeader scans the markers of a JPEG stream up to the first Start Of Frame segment
func readJPEGFrameHeader(b []byte) (*jpegFrameHeader, error) {
	if len(b) < 2 || b[0] != 0xFF || b[1] != 0xD8 {
		return nil, fmt.Errorf("no JPEG start of image marker: %w", ErrInvalidValue)
	}
	for i := 2; i+4 <= len(b); {
		if b[i] != 0xFF {
			return nil, fmt.Errorf("expected JPEG marker at %d: %w", i, ErrInvalidValue)
		}
		marker := b[i+1]
		if marker == 0xFF { // fill byte
			i++
			continue
		}
		length := int(binary.BigEndian.Uint16(b[i+2:]))
		segment := b[i+4:]
		if length < 2 || len(segment) < length-2 {
			return nil, fmt.Errorf("JPEG segment %X of length %d overruns the frame: %w", marker,
				length, ErrInvalidValue)
		}
		segment = segment[:length-2]

		// SOF0 to SOF15 except DHT (C4), JPG (C8) and DAC (CC)
		if marker >= 0xC0 && marker <= 0xCF && marker != 0xC4 && marker != 0xC8 && marker != 0xCC {
			return parseJPEGFrameHeader(marker, segment)
		}
		i += 2 + length
	}
	return nil, fmt.Errorf("no JPEG start of frame marker: %w", ErrInvalidValue)
}

func parseJPEGFrameHeader(marker byte, segment []byte) (*jpegFrameHeader, error) {
	if len(segment) < 6 {
		return nil, fmt.Errorf("JPEG frame header of %d bytes: %w", len(segment), ErrInvalidValue)
	}
	h := &jpegFrameHeader{
		marker:     marker,
		precision:  int(segment[0]),
		height:     int(binary.BigEndian.Uint16(segment[1:])),
		width:      int(binary.BigEndian.Uint16(segment[3:])),
		components: int(segment[5]),
	}
	if len(segment) < 6+3*h.components {
		return nil, fmt.Errorf("JPEG frame header of %d bytes for %d components: %w", len(segment),
			h.components, ErrInvalidValue)
	}
	return h, nil
}

// UncompressedFrameSize is the size of the frame decoded to full resolution, whatever the chroma
// subsampling of the compressed frame
func (JPEGCodec) UncompressedFrameSize(g *ImageGeometry, frame []byte) (uint32, error) {
	h, err := readJPEGFrameHeader(frame)
	if err != nil {
		return 0, err
	}
	bytesPerSample := 1
	if h.precision > 8 {
		bytesPerSample = 2
	}
	return uint32(h.width * h.height * h.components * bytesPerSample), nil
}

// DecodeFragment decodes 8-bit baseline and extended JPEG frames into interleaved samples. Color
// frames are converted to RGB.
func (JPEGCodec) DecodeFragment(g *ImageGeometry, frame []byte) ([]byte, error) {
	h, err := readJPEGFrameHeader(frame)
	if err != nil {
		return nil, err
	}
	if h.precision != 8 || (h.marker != 0xC0 && h.marker != 0xC1) {
		return nil, fmt.Errorf("JPEG process SOF%d with %d-bit precision is not supported: %w",
			h.marker-0xC0, h.precision, ErrInvalidValue)
	}

	img, err := jpeg.Decode(bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("decoding JPEG frame: %v", err)
	}
	bounds := img.Bounds()
	if gray, ok := img.(*image.Gray); ok {
		out := make([]byte, 0, bounds.Dx()*bounds.Dy())
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			out = append(out, gray.Pix[gray.PixOffset(bounds.Min.X, y):gray.PixOffset(bounds.Max.X, y)]...)
		}
		return out, nil
	}

	out := make([]byte, 0, 3*bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			out = append(out, c.R, c.G, c.B)
		}
	}
	return out, nil
}
