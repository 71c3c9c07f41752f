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

// Value is the value field of a DataElement. The set of implementations is closed:
//
//	*ByteString     for AE, AS, CS, DA, DS, DT, IS, LO, LT, PN, SH, ST, TM, UC, UI, UR, UT
//	*Numbers[T]     for SS, US, SL, UL, SV, UV, FL, FD, OW, OF, OD, OL, OV and AT
//	*Bytes          for OB and UN
//	*Sequence       for SQ
//	*PixelSequence  for encapsulated Pixel Data
type Value interface {
	// VM returns the value multiplicity
	VM() int

	isValue()
}

// Bytes holds the value of OB and UN data elements
type Bytes struct {
	Data []byte
}

// NewBytes returns a Bytes holding b
func NewBytes(b []byte) *Bytes {
	return &Bytes{b}
}

// VM is 1 for non-empty values
func (b *Bytes) VM() int {
	if len(b.Data) == 0 {
		return 0
	}
	return 1
}

func (*Bytes) isValue() {}

func (b *Bytes) String() string {
	if len(b.Data) > 16 {
		return fmt.Sprintf("[% X ...] (%d bytes)", b.Data[:16], len(b.Data))
	}
	return fmt.Sprintf("[% X]", b.Data)
}

// newEmptyValue returns the empty value matching vr
func newEmptyValue(vr *VR) (Value, error) {
	switch vr {
	case SSVR:
		return &Numbers[int16]{}, nil
	case USVR, OWVR:
		return &Numbers[uint16]{}, nil
	case SLVR:
		return &Numbers[int32]{}, nil
	case ULVR, OLVR:
		return &Numbers[uint32]{}, nil
	case SVVR:
		return &Numbers[int64]{}, nil
	case UVVR, OVVR:
		return &Numbers[uint64]{}, nil
	case FLVR, OFVR:
		return &Numbers[float32]{}, nil
	case FDVR, ODVR:
		return &Numbers[float64]{}, nil
	case ATVR:
		return &Numbers[DataElementTag]{}, nil
	case OBVR, UNVR:
		return &Bytes{}, nil
	case SQVR:
		return &Sequence{}, nil
	}
	if vr.IsString() {
		return NewByteString(vr, nil), nil
	}
	return nil, fmt.Errorf("no value type for vr %v", vr)
}

// decodeValue interprets the bytes of a value field according to vr
func decodeValue(vr *VR, b []byte, order binary.ByteOrder, cs *CharacterSet) (Value, int, error) {
	switch vr {
	case SSVR:
		return decodeNumbers[int16](b, order)
	case USVR, OWVR:
		return decodeNumbers[uint16](b, order)
	case SLVR:
		return decodeNumbers[int32](b, order)
	case ULVR, OLVR:
		return decodeNumbers[uint32](b, order)
	case SVVR:
		return decodeNumbers[int64](b, order)
	case UVVR, OVVR:
		return decodeNumbers[uint64](b, order)
	case FLVR, OFVR:
		return decodeNumbers[float32](b, order)
	case FDVR, ODVR:
		return decodeNumbers[float64](b, order)
	case ATVR:
		v, rest := decodeTags(b, order)
		return v, rest, nil
	case OBVR, UNVR:
		return &Bytes{b}, 0, nil
	}
	if vr.IsString() {
		s := NewByteString(vr, b)
		s.SetCharacterSet(cs)
		return s, 0, nil
	}
	return nil, 0, fmt.Errorf("cannot decode value of vr %v", vr)
}
