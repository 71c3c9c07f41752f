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
	"unsafe"
)

// Number is the constraint satisfied by the element types of Numbers
type Number interface {
	~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// Numbers holds the values of binary numeric data elements. Every index addresses one value.
type Numbers[T Number] struct {
	Values []T

	// trailing holds the bytes of a value field that follow the last complete value. They are
	// written back unchanged.
	trailing []byte
}

// NewNumbers returns a Numbers holding v
func NewNumbers[T Number](v ...T) *Numbers[T] {
	return &Numbers[T]{Values: v}
}

// Trailing returns the bytes of the value field that do not form a complete value
func (n *Numbers[T]) Trailing() []byte {
	return n.trailing
}

// VM returns the number of values
func (n *Numbers[T]) VM() int {
	return len(n.Values)
}

func (*Numbers[T]) isValue() {}

// GetAt returns the value at index i
func (n *Numbers[T]) GetAt(i int) (T, error) {
	if i < 0 || i >= len(n.Values) {
		var zero T
		return zero, fmt.Errorf("getting value %d of %d: %w", i, len(n.Values), ErrIndexOutOfRange)
	}
	return n.Values[i], nil
}

// PutAt sets the value at index i. Putting beyond the last value extends the values, filling the
// gap with zero.
func (n *Numbers[T]) PutAt(i int, v T) error {
	if i < 0 {
		return fmt.Errorf("putting value %d: %w", i, ErrIndexOutOfRange)
	}
	if i >= len(n.Values) {
		n.Values = append(n.Values, make([]T, i+1-len(n.Values))...)
	}
	n.Values[i] = v
	return nil
}

// size returns the encoded byte size of one value
func (n *Numbers[T]) size() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func (n *Numbers[T]) byteLength() int64 {
	return int64(len(n.Values)*n.size() + len(n.trailing))
}

func (n *Numbers[T]) encode(order binary.ByteOrder) ([]byte, error) {
	if tags, ok := any(n).(*Numbers[DataElementTag]); ok {
		// attribute tags are encoded as group then element, each in the byte order of the syntax
		buf := make([]byte, 4*len(tags.Values))
		for i, t := range tags.Values {
			order.PutUint16(buf[4*i:], t.GroupNumber())
			order.PutUint16(buf[4*i+2:], t.ElementNumber())
		}
		return append(buf, n.trailing...), nil
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, order, n.Values); err != nil {
		return nil, fmt.Errorf("binary.Write(_, _, _) => %v", err)
	}
	buf.Write(n.trailing)
	return buf.Bytes(), nil
}

// decodeNumbers decodes every complete value of b. Trailing bytes that do not form a complete
// value are kept on the result and their count is returned as the second value.
func decodeNumbers[T Number](b []byte, order binary.ByteOrder) (*Numbers[T], int, error) {
	n := &Numbers[T]{}
	count := len(b) / n.size()
	n.Values = make([]T, count)
	if err := binary.Read(bytes.NewReader(b[:count*n.size()]), order, n.Values); err != nil {
		return nil, 0, fmt.Errorf("binary.Read(_, _, _) => %v", err)
	}
	if rest := b[count*n.size():]; len(rest) > 0 {
		n.trailing = append([]byte{}, rest...)
	}
	return n, len(n.trailing), nil
}

func decodeTags(b []byte, order binary.ByteOrder) (*Numbers[DataElementTag], int) {
	n := &Numbers[DataElementTag]{Values: make([]DataElementTag, len(b)/4)}
	for i := range n.Values {
		n.Values[i] = NewTag(order.Uint16(b[4*i:]), order.Uint16(b[4*i+2:]))
	}
	if rest := b[4*len(n.Values):]; len(rest) > 0 {
		n.trailing = append([]byte{}, rest...)
	}
	return n, len(n.trailing)
}
