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
)

// vrKind is to group common encodings together
type vrKind int

const (
	// byteStringVR is for value fields interpreted as text restricted to the default repertoire
	byteStringVR vrKind = iota

	// charStringVR is for text value fields whose bytes depend on the Specific Character Set
	charStringVR

	// numberBinaryVR is for value fields that are parsed as binary numbers
	numberBinaryVR

	// bulkDataVR groups sequences of binary numbers or raw bytes (OB, OD, OF, OL, OV, OW, UN)
	bulkDataVR

	// sequenceVR is for VR: SQ
	sequenceVR

	// tagVR is for tags. Distinct from numberBinaryVR since each half is encoded separately
	tagVR

	// pseudoVR is for dictionary-only VRs that must be resolved before a value can be read
	pseudoVR
)

// UndefinedLength as specified
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.1
const UndefinedLength = 0xffffffff

// VR models the DICOM Value representations (VR)
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
type VR struct {
	// Name represents the 2-character VR Code
	Name string

	kind vrKind

	// maxLength is the maximum byte length of one value, 0 when only bounded by the length field
	maxLength int

	// padding is the byte appended to reach an even length
	padding byte

	// delimited is true if the backslash separates multiple values
	delimited bool

	// size is the byte size of a single binary value
	size int

	// longLength is true if explicit VR encodes the length in a reserved-prefixed 32-bit field
	longLength bool
}

func (vr *VR) String() string {
	if vr == nil {
		return "<nil>"
	}
	return vr.Name
}

// IsString is true for the byte string and character string VRs
func (vr *VR) IsString() bool {
	return vr.kind == byteStringVR || vr.kind == charStringVR
}

// IsCharacterSetAware is true for VRs whose values are affected by Specific Character Set (0008,0005)
func (vr *VR) IsCharacterSetAware() bool {
	return vr.kind == charStringVR
}

// IsPseudo is true for VRs that only appear in the data dictionary (e.g. "xs", "ox")
func (vr *VR) IsPseudo() bool {
	return vr.kind == pseudoVR
}

var vrLookupMap = map[string]*VR{}

func newVR(vr *VR) *VR {
	vrLookupMap[vr.Name] = vr
	return vr
}

func lookupVRByName(name string) (*VR, error) {
	r, ok := vrLookupMap[name]
	if !ok {
		return nil, fmt.Errorf("unknown vr name: %q", name)
	}
	return r, nil
}

// LookupVR returns the VR with the given 2-character code, including dictionary pseudo VRs
func LookupVR(name string) (*VR, bool) {
	r, ok := vrLookupMap[name]
	return r, ok
}

// VR list obtained from
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_6.2
var (
	// text restricted to the default character repertoire
	AEVR = newVR(&VR{Name: "AE", kind: byteStringVR, maxLength: 16, padding: ' ', delimited: true})
	ASVR = newVR(&VR{Name: "AS", kind: byteStringVR, maxLength: 4, padding: ' ', delimited: true})
	CSVR = newVR(&VR{Name: "CS", kind: byteStringVR, maxLength: 16, padding: ' ', delimited: true})
	DAVR = newVR(&VR{Name: "DA", kind: byteStringVR, maxLength: 8, padding: ' ', delimited: true})
	DTVR = newVR(&VR{Name: "DT", kind: byteStringVR, maxLength: 26, padding: ' ', delimited: true})
	TMVR = newVR(&VR{Name: "TM", kind: byteStringVR, maxLength: 14, padding: ' ', delimited: true})
	DSVR = newVR(&VR{Name: "DS", kind: byteStringVR, maxLength: 16, padding: ' ', delimited: true})
	ISVR = newVR(&VR{Name: "IS", kind: byteStringVR, maxLength: 12, padding: ' ', delimited: true})
	UIVR = newVR(&VR{Name: "UI", kind: byteStringVR, maxLength: 64, padding: 0x00, delimited: true})
	URVR = newVR(&VR{Name: "UR", kind: byteStringVR, padding: ' ', longLength: true})

	// text in the Specific Character Set
	LOVR = newVR(&VR{Name: "LO", kind: charStringVR, maxLength: 64, padding: ' ', delimited: true})
	LTVR = newVR(&VR{Name: "LT", kind: charStringVR, maxLength: 10240, padding: ' '})
	PNVR = newVR(&VR{Name: "PN", kind: charStringVR, maxLength: 64, padding: ' ', delimited: true})
	SHVR = newVR(&VR{Name: "SH", kind: charStringVR, maxLength: 16, padding: ' ', delimited: true})
	STVR = newVR(&VR{Name: "ST", kind: charStringVR, maxLength: 1024, padding: ' '})
	UCVR = newVR(&VR{Name: "UC", kind: charStringVR, padding: ' ', delimited: true, longLength: true})
	UTVR = newVR(&VR{Name: "UT", kind: charStringVR, padding: ' ', longLength: true})

	// binary numbers
	SSVR = newVR(&VR{Name: "SS", kind: numberBinaryVR, size: 2})
	USVR = newVR(&VR{Name: "US", kind: numberBinaryVR, size: 2})
	SLVR = newVR(&VR{Name: "SL", kind: numberBinaryVR, size: 4})
	ULVR = newVR(&VR{Name: "UL", kind: numberBinaryVR, size: 4})
	SVVR = newVR(&VR{Name: "SV", kind: numberBinaryVR, size: 8, longLength: true})
	UVVR = newVR(&VR{Name: "UV", kind: numberBinaryVR, size: 8, longLength: true})
	FLVR = newVR(&VR{Name: "FL", kind: numberBinaryVR, size: 4})
	FDVR = newVR(&VR{Name: "FD", kind: numberBinaryVR, size: 8})

	// large binary sequences
	OBVR = newVR(&VR{Name: "OB", kind: bulkDataVR, size: 1, longLength: true})
	ODVR = newVR(&VR{Name: "OD", kind: bulkDataVR, size: 8, longLength: true})
	OFVR = newVR(&VR{Name: "OF", kind: bulkDataVR, size: 4, longLength: true})
	OLVR = newVR(&VR{Name: "OL", kind: bulkDataVR, size: 4, longLength: true})
	OVVR = newVR(&VR{Name: "OV", kind: bulkDataVR, size: 8, longLength: true})
	OWVR = newVR(&VR{Name: "OW", kind: bulkDataVR, size: 2, longLength: true})

	// unknown
	UNVR = newVR(&VR{Name: "UN", kind: bulkDataVR, size: 1, longLength: true})

	// attribute tag
	ATVR = newVR(&VR{Name: "AT", kind: tagVR, size: 4})

	// sequence
	SQVR = newVR(&VR{Name: "SQ", kind: sequenceVR, longLength: true})
)

// Pseudo VRs used by the data dictionary for attributes whose VR depends on context
var (
	// US or SS depending on Pixel Representation
	XSVR = newVR(&VR{Name: "xs", kind: pseudoVR})
	// OB or OW
	OXVR = newVR(&VR{Name: "ox", kind: pseudoVR})
	// pixel data, OB or OW depending on the transfer syntax
	PXVR = newVR(&VR{Name: "px", kind: pseudoVR})
	// US, SS or OW (lookup table data)
	LTPseudoVR = newVR(&VR{Name: "lt", kind: pseudoVR})
	// UL used as an offset pointer
	UPVR = newVR(&VR{Name: "up", kind: pseudoVR})
	// no VR: items and delimitation items
	NAVR = newVR(&VR{Name: "na", kind: pseudoVR})
)

// resolvePseudoVR maps a dictionary pseudo VR to the VR used to decode a value. signed reports
// whether the enclosing data set declares signed pixel data, encapsulated whether the value is
// encapsulated pixel data and length is the value length of the element being read.
func resolvePseudoVR(vr *VR, signed, encapsulated bool, length uint32) *VR {
	switch vr {
	case XSVR:
		if signed {
			return SSVR
		}
		return USVR
	case LTPseudoVR:
		if length > 2 && length != UndefinedLength {
			return OWVR
		}
		if signed {
			return SSVR
		}
		return USVR
	case OXVR:
		return OWVR
	case PXVR:
		if encapsulated {
			return OBVR
		}
		return OWVR
	case UPVR:
		return ULVR
	case NAVR:
		return UNVR
	}
	return vr
}
