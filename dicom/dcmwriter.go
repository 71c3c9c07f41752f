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
	"io"
)

// dcmWriter is a wrapper around io.Writer with convenience methods for writing tags, numbers and
// the headers of items and delimiters. It counts the bytes written.
type dcmWriter struct {
	w       io.Writer
	written int64
}

func newDcmWriter(w io.Writer) *dcmWriter {
	return &dcmWriter{w: w}
}

func (dw *dcmWriter) Write(b []byte) (int, error) {
	n, err := dw.w.Write(b)
	dw.written += int64(n)
	return n, err
}

func (dw *dcmWriter) Tag(order binary.ByteOrder, tag DataElementTag) error {
	if err := dw.UInt16(order, tag.GroupNumber()); err != nil {
		return err
	}
	return dw.UInt16(order, tag.ElementNumber())
}

// ItemHeader writes the tag and 32-bit length of an item or delimitation item. These have no VR in
// every transfer syntax.
func (dw *dcmWriter) ItemHeader(order binary.ByteOrder, tag DataElementTag, length uint32) error {
	if err := dw.Tag(order, tag); err != nil {
		return fmt.Errorf("writing %v tag: %v", tag, err)
	}
	if err := dw.UInt32(order, length); err != nil {
		return fmt.Errorf("writing %v length: %v", tag, err)
	}
	return nil
}

func (dw *dcmWriter) Delimiter(order binary.ByteOrder, tag DataElementTag) error {
	return dw.ItemHeader(order, tag, 0)
}

func (dw *dcmWriter) UInt16(order binary.ByteOrder, v uint16) error {
	buf := make([]byte, 2)
	order.PutUint16(buf, v)
	return dw.Bytes(buf)
}

func (dw *dcmWriter) UInt32(order binary.ByteOrder, v uint32) error {
	buf := make([]byte, 4)
	order.PutUint32(buf, v)
	return dw.Bytes(buf)
}

func (dw *dcmWriter) String(s string) error {
	_, err := dw.Write([]byte(s))
	return err
}

func (dw *dcmWriter) Bytes(b []byte) error {
	_, err := dw.Write(b)
	return err
}
