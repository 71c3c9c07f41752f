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
	"math"
)

// list of transfer syntaxes obtained from
// http://dicom.nema.org/medical/dicom/current/output/html/part06.html#chapter_A
const (
	// ImplicitVRLittleEndianUID is the Implicit VR Little Endian UID
	ImplicitVRLittleEndianUID = "1.2.840.10008.1.2"
	// ExplicitVRLittleEndianUID is the Explicit VR Little Endian UID
	ExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1"
	// ExplicitVRBigEndianUID is the Explicit VR Big Endian UID
	ExplicitVRBigEndianUID = "1.2.840.10008.1.2.2"
	// DeflatedExplicitVRLittleEndianUID is the Deflated Explicit VR Little Endian UID
	DeflatedExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1.99"
	// JPEGBaselineUID is the JPEG Baseline (Process 1) transfer syntax UID
	JPEGBaselineUID = "1.2.840.10008.1.2.4.50"
	// JPEGExtendedUID is the JPEG Extended (Process 2 & 4) transfer syntax UID
	JPEGExtendedUID = "1.2.840.10008.1.2.4.51"
	// JPEGLosslessUID is the JPEG Lossless, Non-Hierarchical (Process 14) transfer syntax UID
	JPEGLosslessUID = "1.2.840.10008.1.2.4.57"
	// JPEGLosslessSV1UID is the JPEG Lossless, First-Order Prediction (Process 14, SV1) UID
	JPEGLosslessSV1UID = "1.2.840.10008.1.2.4.70"
	// JPEGLSLosslessUID is the JPEG-LS Lossless transfer syntax UID
	JPEGLSLosslessUID = "1.2.840.10008.1.2.4.80"
	// JPEGLSNearLosslessUID is the JPEG-LS Lossy (Near-Lossless) transfer syntax UID
	JPEGLSNearLosslessUID = "1.2.840.10008.1.2.4.81"
	// JPEG2000LosslessUID is the JPEG 2000 Image Compression (Lossless Only) transfer syntax UID
	JPEG2000LosslessUID = "1.2.840.10008.1.2.4.90"
	// JPEG2000UID is the JPEG 2000 Image Compression transfer syntax UID
	JPEG2000UID = "1.2.840.10008.1.2.4.91"
	// MPEG2MainProfileUID is the MPEG2 Main Profile / Main Level transfer syntax UID
	MPEG2MainProfileUID = "1.2.840.10008.1.2.4.100"
	// MPEG4HighProfileUID is the MPEG-4 AVC/H.264 High Profile / Level 4.1 transfer syntax UID
	MPEG4HighProfileUID = "1.2.840.10008.1.2.4.102"
	// HEVCMainProfileUID is the HEVC/H.265 Main Profile / Level 5.1 transfer syntax UID
	HEVCMainProfileUID = "1.2.840.10008.1.2.4.107"
	// RLELosslessUID is the RLE Lossless transfer syntax UID
	RLELosslessUID = "1.2.840.10008.1.2.5"
)

const (
	vrSize  = 2
	tagSize = 4
)

// TransferSyntax describes how a Data Set is encoded: byte order, explicit or implicit VR and
// whether Pixel Data is encapsulated (compressed) or native.
type TransferSyntax struct {
	UID       string
	Name      string
	ByteOrder binary.ByteOrder
	// ExplicitVR is true if every element header carries its VR
	ExplicitVR bool
	// Encapsulated is true if Pixel Data is stored as a sequence of fragments
	Encapsulated bool
	// Lossy is true for lossy compression
	Lossy bool
	// Deflated is true if the Data Set following the File Meta Information is deflate compressed
	Deflated bool
}

func (s *TransferSyntax) String() string {
	if s.Name == "" {
		return s.UID
	}
	return s.Name
}

var (
	implicitVRLittleEndian = &TransferSyntax{UID: ImplicitVRLittleEndianUID,
		Name: "Implicit VR Little Endian", ByteOrder: binary.LittleEndian}
	explicitVRLittleEndian = &TransferSyntax{UID: ExplicitVRLittleEndianUID,
		Name: "Explicit VR Little Endian", ByteOrder: binary.LittleEndian, ExplicitVR: true}
	explicitVRBigEndian = &TransferSyntax{UID: ExplicitVRBigEndianUID,
		Name: "Explicit VR Big Endian", ByteOrder: binary.BigEndian, ExplicitVR: true}
	deflatedExplicitVRLittleEndian = &TransferSyntax{UID: DeflatedExplicitVRLittleEndianUID,
		Name: "Deflated Explicit VR Little Endian", ByteOrder: binary.LittleEndian, ExplicitVR: true,
		Deflated: true}
)

func encapsulatedSyntax(uid, name string, lossy bool) *TransferSyntax {
	return &TransferSyntax{UID: uid, Name: name, ByteOrder: binary.LittleEndian, ExplicitVR: true,
		Encapsulated: true, Lossy: lossy}
}

var transferSyntaxes = map[string]*TransferSyntax{}

func init() {
	for _, s := range []*TransferSyntax{
		implicitVRLittleEndian,
		explicitVRLittleEndian,
		explicitVRBigEndian,
		deflatedExplicitVRLittleEndian,
		encapsulatedSyntax(JPEGBaselineUID, "JPEG Baseline", true),
		encapsulatedSyntax(JPEGExtendedUID, "JPEG Extended", true),
		encapsulatedSyntax(JPEGLosslessUID, "JPEG Lossless", false),
		encapsulatedSyntax(JPEGLosslessSV1UID, "JPEG Lossless SV1", false),
		encapsulatedSyntax(JPEGLSLosslessUID, "JPEG-LS Lossless", false),
		encapsulatedSyntax(JPEGLSNearLosslessUID, "JPEG-LS Near Lossless", true),
		encapsulatedSyntax(JPEG2000LosslessUID, "JPEG 2000 Lossless", false),
		encapsulatedSyntax(JPEG2000UID, "JPEG 2000", true),
		encapsulatedSyntax(MPEG2MainProfileUID, "MPEG2 Main Profile", true),
		encapsulatedSyntax(MPEG4HighProfileUID, "MPEG-4 AVC/H.264 High Profile", true),
		encapsulatedSyntax(HEVCMainProfileUID, "HEVC/H.265 Main Profile", true),
		encapsulatedSyntax(RLELosslessUID, "RLE Lossless", false),
	} {
		transferSyntaxes[s.UID] = s
	}
}

// LookupTransferSyntax returns the known transfer syntax with the given UID
func LookupTransferSyntax(uid string) (*TransferSyntax, bool) {
	s, ok := transferSyntaxes[uid]
	return s, ok
}

// lookupTransferSyntax returns the transfer syntax with the given UID. Any other syntax is
// explicit VR little endian with encapsulated pixel data according to PS3.5 A.4
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
func lookupTransferSyntax(uid string) *TransferSyntax {
	if s, ok := transferSyntaxes[uid]; ok {
		return s
	}
	return encapsulatedSyntax(uid, "", true)
}

// headerSize returns the number of bytes preceding the value field of an element with the given VR
func (s *TransferSyntax) headerSize(vr *VR) uint32 {
	if !s.ExplicitVR {
		return tagSize + 4 /*length*/
	}
	if vr.longLength {
		return tagSize + vrSize + 2 /*reserved*/ + 4 /*32-bit length*/
	}
	return tagSize + vrSize + 2 /*16-bit length*/
}

// readVR reads the VR of an explicit VR element header. A VR code that is not a standard VR is
// returned as UN together with false; its length is read from a 32-bit field.
func (s *TransferSyntax) readVR(dr *dcmReader) (*VR, string, bool, error) {
	name, err := dr.String(vrSize)
	if err != nil {
		return nil, "", false, fmt.Errorf("reading vr: %v", err)
	}
	vr, ok := LookupVR(name)
	if !ok || vr.IsPseudo() {
		return UNVR, name, false, nil
	}
	return vr, name, true, nil
}

// readValueLength reads the length field of an element header. For explicit VR, lengths are
// stored in a 32 bit field or a 16 bit field depending on the VR type:
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.2
func (s *TransferSyntax) readValueLength(dr *dcmReader, vr *VR) (uint32, error) {
	if !s.ExplicitVR {
		return dr.UInt32(s.ByteOrder)
	}
	if vr.longLength {
		if _, err := dr.UInt16(s.ByteOrder); err != nil {
			return 0, fmt.Errorf("reading reserved field: %v", err)
		}
		length, err := dr.UInt32(s.ByteOrder)
		if err != nil {
			return 0, fmt.Errorf("reading 32 bit length: %v", err)
		}
		return length, nil
	}

	length, err := dr.UInt16(s.ByteOrder)
	if err != nil {
		return 0, fmt.Errorf("reading 16 bit length: %v", err)
	}
	return uint32(length), nil
}

func (s *TransferSyntax) writeVR(dw *dcmWriter, vr *VR) error {
	if !s.ExplicitVR {
		// implicit VR does not write VRs
		return nil
	}
	return dw.String(vr.Name)
}

func (s *TransferSyntax) writeValueLength(dw *dcmWriter, vr *VR, valueFieldLength uint32) error {
	if !s.ExplicitVR {
		return dw.UInt32(s.ByteOrder, valueFieldLength)
	}
	if vr.longLength {
		if err := dw.UInt16(s.ByteOrder, 0); err != nil {
			return fmt.Errorf("writing reserved field: %v", err)
		}
		if err := dw.UInt32(s.ByteOrder, valueFieldLength); err != nil {
			return fmt.Errorf("writing 32 bit length: %v", err)
		}
		return nil
	}

	if valueFieldLength > math.MaxUint16 {
		return fmt.Errorf("%v value length %d exceeds unsigned 16-bit length: %w", vr,
			valueFieldLength, ErrValueConstraint)
	}
	if err := dw.UInt16(s.ByteOrder, uint16(valueFieldLength)); err != nil {
		return fmt.Errorf("writing 16 bit length: %v", err)
	}
	return nil
}
