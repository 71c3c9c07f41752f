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
	"fmt"
	"math"
)

// ImageGeometry holds the Image Pixel attributes describing the frames of Pixel Data
// http://dicom.nema.org/medical/dicom/current/output/html/part03.html#sect_C.7.6.3
type ImageGeometry struct {
	Rows                      uint16
	Columns                   uint16
	SamplesPerPixel           uint16
	BitsAllocated             uint16
	BitsStored                uint16
	PixelRepresentation       uint16
	PlanarConfiguration       uint16
	PhotometricInterpretation string
	NumberOfFrames            int
}

// NewImageGeometry reads the image geometry of ds. Rows, Columns and Bits Allocated are required.
func NewImageGeometry(ds *DataSet) (*ImageGeometry, error) {
	g := &ImageGeometry{NumberOfFrames: 1}
	for _, attr := range []struct {
		tag DataElementTag
		v   *uint16
	}{
		{RowsTag, &g.Rows},
		{ColumnsTag, &g.Columns},
		{BitsAllocatedTag, &g.BitsAllocated},
	} {
		v, ok := ds.GetUint16(attr.tag)
		if !ok {
			return nil, fmt.Errorf("missing %v: %w", attr.tag, ErrInvalidValue)
		}
		*attr.v = v
	}

	var ok bool
	if g.BitsStored, ok = ds.GetUint16(BitsStoredTag); !ok {
		g.BitsStored = g.BitsAllocated
	}
	g.SamplesPerPixel, _ = ds.GetUint16(SamplesPerPixelTag)
	g.PixelRepresentation, _ = ds.GetUint16(PixelRepresentationTag)
	g.PlanarConfiguration, _ = ds.GetUint16(PlanarConfigurationTag)
	g.PhotometricInterpretation, _ = ds.GetString(PhotometricInterpretationTag)
	if e, ok := ds.Get(NumberOfFramesTag); ok {
		if n, err := e.IntValue(); err == nil && n > 0 {
			g.NumberOfFrames = int(n)
		}
	}
	return g, nil
}

// frameSize returns the number of bytes of a frame with samples samples per pixel of
// bitsAllocated bits each
func (g *ImageGeometry) frameSize(samples, bitsAllocated uint16) uint64 {
	bits := uint64(g.Rows) * uint64(g.Columns) * uint64(samples) * uint64(bitsAllocated)
	return (bits + 7) / 8
}

// photometricSamples returns the number of samples per pixel implied by the photometric
// interpretation, 0 if unknown
func photometricSamples(pi string) uint16 {
	switch pi {
	case "MONOCHROME1", "MONOCHROME2", "PALETTE COLOR":
		return 1
	case "RGB", "HSV", "YBR_FULL", "YBR_FULL_422", "YBR_PARTIAL_422", "YBR_PARTIAL_420", "YBR_ICT",
		"YBR_RCT":
		return 3
	case "ARGB", "CMYK":
		return 4
	}
	return 0
}

// isHorizontallySubsampled is true for the photometric interpretations storing two chroma samples
// per two pixels
func isHorizontallySubsampled(pi string) bool {
	return pi == "YBR_FULL_422" || pi == "YBR_PARTIAL_422"
}

// UncompressedFrameSize returns the number of bytes of one decoded frame of the Pixel Data of ds,
// stored in the given transfer syntax. When ignoreSamplesPerPixel is set, the samples per pixel
// implied by the photometric interpretation replace Samples per Pixel.
//
// The declared attributes may disagree with the stored pixels about chroma subsampling. Native
// YBR_FULL_422 pixel data whose size is that of subsampled frames yields the subsampled size, and
// for encapsulated pixel data the size derived by the codec from the compressed frame wins.
// Encapsulated pixel data without a codec in registry, or a nil registry and no codec in
// DefaultCodecRegistry, is an ErrInvalidValue.
func UncompressedFrameSize(ds *DataSet, syntax *TransferSyntax, ignoreSamplesPerPixel bool,
	registry *CodecRegistry) (uint32, error) {
	g, err := NewImageGeometry(ds)
	if err != nil {
		return 0, err
	}

	var codec Codec
	bitsAllocated, ok := DefaultDecodedBitsAllocated(g.BitsAllocated, g.BitsStored)
	if syntax.Encapsulated {
		if codec, err = lookupCodec(syntax, registry); err != nil {
			return 0, err
		}
		bitsAllocated, ok = codec.DecodedBitsAllocated(g.BitsAllocated, g.BitsStored)
	}
	if !ok {
		return 0, fmt.Errorf("bits allocated %d with bits stored %d: %w", g.BitsAllocated,
			g.BitsStored, ErrInvalidValue)
	}

	samples := g.SamplesPerPixel
	if ignoreSamplesPerPixel || samples == 0 {
		if s := photometricSamples(g.PhotometricInterpretation); s > 0 {
			samples = s
		}
	}
	if samples == 0 {
		samples = 1
	}
	size := g.frameSize(samples, bitsAllocated)

	switch {
	case codec != nil:
		if frame := firstEncapsulatedFrame(ds, g); frame != nil {
			actual, err := codec.UncompressedFrameSize(g, frame)
			if err != nil {
				return 0, fmt.Errorf("%s: %w", codec.Name(), err)
			}
			if actual > 0 {
				size = uint64(actual)
			}
		}
	case samples == 3 && isHorizontallySubsampled(g.PhotometricInterpretation):
		subsampled := g.frameSize(2, bitsAllocated)
		if actual, ok := nativeFrameLength(ds, g); ok && actual == subsampled {
			size = subsampled
		}
	}

	if size > math.MaxUint32 {
		return 0, fmt.Errorf("frame of %d bytes: %w", size, ErrInvalidValue)
	}
	return uint32(size), nil
}

func lookupCodec(syntax *TransferSyntax, registry *CodecRegistry) (Codec, error) {
	if registry == nil {
		registry = DefaultCodecRegistry
	}
	codec, ok := registry.Lookup(syntax)
	if !ok {
		return nil, fmt.Errorf("no codec registered for %v: %w", syntax, ErrInvalidValue)
	}
	return codec, nil
}

func firstEncapsulatedFrame(ds *DataSet, g *ImageGeometry) []byte {
	e, ok := ds.Get(PixelDataTag)
	if !ok {
		return nil
	}
	ps, ok := e.ValueField.(*PixelSequence)
	if !ok {
		return nil
	}
	frames, err := ps.Frames(g.NumberOfFrames)
	if err != nil || len(frames) == 0 {
		return nil
	}
	return frames[0]
}

// nativeFrameLength returns the number of bytes of native Pixel Data per frame
func nativeFrameLength(ds *DataSet, g *ImageGeometry) (uint64, bool) {
	e, ok := ds.Get(PixelDataTag)
	if !ok {
		return 0, false
	}
	var n int64
	switch v := e.ValueField.(type) {
	case *Bytes:
		n = int64(len(v.Data))
	case binaryValue:
		n = v.byteLength()
	default:
		return 0, false
	}
	return uint64(n) / uint64(g.NumberOfFrames), true
}

// DecodeFrame returns the native pixel data of the given frame of ds, stored in the given transfer
// syntax. Encapsulated frames are decoded by the codec found in registry, DefaultCodecRegistry if
// nil.
func DecodeFrame(ds *DataSet, syntax *TransferSyntax, frame int, registry *CodecRegistry) ([]byte, error) {
	g, err := NewImageGeometry(ds)
	if err != nil {
		return nil, err
	}
	if frame < 0 || frame >= g.NumberOfFrames {
		return nil, fmt.Errorf("frame %d of %d: %w", frame, g.NumberOfFrames, ErrIndexOutOfRange)
	}
	e, ok := ds.Get(PixelDataTag)
	if !ok {
		return nil, fmt.Errorf("missing %v: %w", PixelDataTag, ErrInvalidValue)
	}

	if ps, ok := e.ValueField.(*PixelSequence); ok {
		codec, err := lookupCodec(syntax, registry)
		if err != nil {
			return nil, err
		}
		frames, err := ps.Frames(g.NumberOfFrames)
		if err != nil {
			return nil, err
		}
		return codec.DecodeFragment(g, frames[frame])
	}

	var pixels []byte
	switch v := e.ValueField.(type) {
	case *Bytes:
		pixels = v.Data
	case binaryValue:
		if pixels, err = v.encode(syntax.ByteOrder); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("pixel data of type %T: %w", e.ValueField, ErrInvalidValue)
	}
	size, err := UncompressedFrameSize(ds, syntax, false, registry)
	if err != nil {
		return nil, err
	}
	start, end := uint64(frame)*uint64(size), uint64(frame+1)*uint64(size)
	if end > uint64(len(pixels)) {
		return nil, fmt.Errorf("frame %d ends at byte %d of %d bytes of pixel data: %w", frame, end,
			len(pixels), ErrInvalidValue)
	}
	return pixels[start:end], nil
}
