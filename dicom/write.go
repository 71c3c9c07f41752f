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

// lengthMode decides whether sequences and items are written with defined lengths or ended by
// delimitation items
type lengthMode int

const (
	// preserveLengths keeps undefined lengths of sequences and items read as undefined
	preserveLengths lengthMode = iota
	definedLengths
	undefinedLengths
)

// undefined reports whether a sequence or item whose length was read as length is written with
// undefined length
func (m lengthMode) undefined(length uint32) bool {
	return m == undefinedLengths || m == preserveLengths && length == UndefinedLength
}

// binaryValue is implemented by the binary number values
type binaryValue interface {
	byteLength() int64
	encode(order binary.ByteOrder) ([]byte, error)
}

// calculateElementLength returns the number of bytes elem occupies when written in syntax,
// including its header and any delimitation items
func calculateElementLength(elem *DataElement, syntax *TransferSyntax, mode lengthMode) (uint32, error) {
	n, err := elementSize(elem, syntax, mode)
	if err != nil {
		return 0, err
	}
	if n >= UndefinedLength {
		return 0, fmt.Errorf("%v encodes to %d bytes: %w", elem.Tag, n, ErrValueConstraint)
	}
	return uint32(n), nil
}

func elementSize(elem *DataElement, syntax *TransferSyntax, mode lengthMode) (int64, error) {
	_, n, err := valueSize(elem, syntax, mode)
	if err != nil {
		return 0, err
	}
	return int64(syntax.headerSize(elem.VR)) + n, nil
}

// valueSize returns the value length field of elem and the number of bytes of its value field.
// Lengths are computed bottom-up: the length of a sequence is the sum of the sizes of its items.
func valueSize(elem *DataElement, syntax *TransferSyntax, mode lengthMode) (uint32, int64, error) {
	var n int64
	switch v := elem.ValueField.(type) {
	case nil:
		return 0, 0, nil
	case *ByteString:
		n = v.paddedLength()
	case *Bytes:
		n = int64(len(v.Data) + len(v.Data)%2)
	case binaryValue:
		n = v.byteLength()
	case *PixelSequence:
		// encapsulated pixel data is always of undefined length
		return UndefinedLength, v.encapsulatedLength(), nil
	case *Sequence:
		return sequenceSize(v, syntax, mode, mode.undefined(elem.ValueLength))
	default:
		return 0, 0, fmt.Errorf("unexpected ValueField type %T", elem.ValueField)
	}

	if n >= UndefinedLength {
		return 0, 0, fmt.Errorf("%v value of %d bytes exceeds the 32-bit length: %w", elem.Tag, n,
			ErrValueConstraint)
	}
	return uint32(n), n, nil
}

func sequenceSize(seq *Sequence, syntax *TransferSyntax, mode lengthMode, undefined bool) (uint32, int64, error) {
	var n int64
	for _, item := range seq.Items {
		_, size, err := itemSize(item, syntax, mode)
		if err != nil {
			return 0, 0, fmt.Errorf("calculating sequence item length: %v", err)
		}
		n += size
	}

	if undefined {
		return UndefinedLength, n + tagSize + 4 /*delimiter*/, nil
	}
	if n >= UndefinedLength {
		return 0, 0, fmt.Errorf("sequence of %d bytes exceeds the 32-bit length: %w", n,
			ErrValueConstraint)
	}
	return uint32(n), n, nil
}

// itemSize returns the item length field of item and the number of bytes of the item including
// its header and delimiter
func itemSize(item *DataSet, syntax *TransferSyntax, mode lengthMode) (uint32, int64, error) {
	var n int64
	for _, elem := range item.Elements {
		size, err := elementSize(elem, syntax, mode)
		if err != nil {
			return 0, 0, fmt.Errorf("calculating data set element length: %v", err)
		}
		n += size
	}

	if mode.undefined(item.Length) {
		return UndefinedLength, tagSize + 4 + n + tagSize + 4, nil
	}
	if n >= UndefinedLength {
		return 0, 0, fmt.Errorf("item of %d bytes exceeds the 32-bit length: %w", n, ErrValueConstraint)
	}
	return uint32(n), tagSize + 4 + n, nil
}

// encoder writes Data Sets in a transfer syntax
type encoder struct {
	dw     *dcmWriter
	syntax *TransferSyntax
	mode   lengthMode
}

func (e *encoder) writeDataSet(ds *DataSet) error {
	for _, elem := range ds.SortedElements() {
		if err := e.writeElement(elem); err != nil {
			return fmt.Errorf("writing data element %v: %w", elem.Tag, err)
		}
	}
	return nil
}

func (e *encoder) writeElement(elem *DataElement) error {
	if elem.VR == nil || elem.VR.IsPseudo() {
		return fmt.Errorf("cannot write %v with VR %v: %w", elem.Tag, elem.VR, ErrInvalidValue)
	}
	length, _, err := valueSize(elem, e.syntax, e.mode)
	if err != nil {
		return fmt.Errorf("calculating value length: %w", err)
	}

	if err := e.dw.Tag(e.syntax.ByteOrder, elem.Tag); err != nil {
		return fmt.Errorf("writing tag: %v", err)
	}
	if err := e.syntax.writeVR(e.dw, elem.VR); err != nil {
		return fmt.Errorf("writing VR: %v", err)
	}
	if err := e.syntax.writeValueLength(e.dw, elem.VR, length); err != nil {
		return fmt.Errorf("writing length: %w", err)
	}
	if err := e.writeValue(elem.ValueField, length); err != nil {
		return fmt.Errorf("writing value: %w", err)
	}
	return nil
}

func (e *encoder) writeValue(value Value, length uint32) error {
	order := e.syntax.ByteOrder
	switch v := value.(type) {
	case nil:
		return nil
	case *ByteString:
		return e.dw.Bytes(v.encode())
	case *Bytes:
		if err := e.dw.Bytes(v.Data); err != nil {
			return err
		}
		if len(v.Data)%2 == 1 {
			return e.dw.Bytes([]byte{0x00})
		}
		return nil
	case binaryValue:
		b, err := v.encode(order)
		if err != nil {
			return err
		}
		return e.dw.Bytes(b)
	case *PixelSequence:
		return writeEncapsulatedFormat(e.dw, order, v.Fragments)
	case *Sequence:
		return e.writeSequence(v, length)
	}
	return fmt.Errorf("unknown value type %T", value)
}

func (e *encoder) writeSequence(seq *Sequence, length uint32) error {
	order := e.syntax.ByteOrder
	for _, item := range seq.Items {
		itemLength, _, err := itemSize(item, e.syntax, e.mode)
		if err != nil {
			return err
		}
		if err := e.dw.ItemHeader(order, ItemTag, itemLength); err != nil {
			return err
		}
		if err := e.writeDataSet(item); err != nil {
			return fmt.Errorf("writing sequence item: %w", err)
		}
		if itemLength == UndefinedLength {
			if err := e.dw.Delimiter(order, ItemDelimitationItemTag); err != nil {
				return err
			}
		}
	}

	if length == UndefinedLength {
		return e.dw.Delimiter(order, SequenceDelimitationItemTag)
	}
	return nil
}
