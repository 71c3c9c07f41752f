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
	"errors"
	"fmt"
	"io"
)

// errLimitExceeded is returned by dcmReader when a read would cross the end of the innermost
// bounded container
var errLimitExceeded = errors.New("read crosses the end of the enclosing container")

// maxPreallocatedValue is the largest value read into a buffer allocated up front. Larger values
// are read as the bytes arrive.
const maxPreallocatedValue = 1 << 20

// dcmReader is a wrapper around io.Reader, providing convenience methods for
// parsing tags, numbers, strings. It keeps a stack of container ends (absolute offsets) so that
// no read crosses the end of the sequence or item being parsed.
type dcmReader struct {
	cr     *countReader
	limits []int64
}

func newDcmReader(r io.Reader) *dcmReader {
	return &dcmReader{cr: &countReader{r, 0}}
}

// Offset returns the number of bytes consumed from the input stream
func (dr *dcmReader) Offset() int64 {
	return dr.cr.bytesRead
}

// PushLimit bounds all following reads to the next n bytes until the matching PopLimit. It fails
// if the new bound would cross the end of the innermost container already pushed.
func (dr *dcmReader) PushLimit(n int64) error {
	end := dr.cr.bytesRead + n
	if len(dr.limits) > 0 && end > dr.limits[len(dr.limits)-1] {
		return fmt.Errorf("length %d overruns the %d bytes remaining: %w", n, dr.Remaining(),
			errLimitExceeded)
	}
	dr.limits = append(dr.limits, end)
	return nil
}

// PopLimit removes the innermost bound
func (dr *dcmReader) PopLimit() {
	dr.limits = dr.limits[:len(dr.limits)-1]
}

// Remaining returns the number of bytes left in the innermost container, or -1 when reads are
// only bounded by the input stream.
func (dr *dcmReader) Remaining() int64 {
	if len(dr.limits) == 0 {
		return -1
	}
	return dr.limits[len(dr.limits)-1] - dr.cr.bytesRead
}

func (dr *dcmReader) checkLimit(n int64) error {
	if r := dr.Remaining(); r >= 0 && n > r {
		if r == 0 {
			return io.EOF
		}
		return errLimitExceeded
	}
	return nil
}

func (dr *dcmReader) Tag(order binary.ByteOrder) (DataElementTag, error) {
	b, err := dr.Bytes(4)
	if err != nil {
		return 0, err
	}
	return NewTag(order.Uint16(b), order.Uint16(b[2:])), nil
}

// Skip advances the input stream by n bytes
func (dr *dcmReader) Skip(n int64) error {
	if err := dr.checkLimit(n); err != nil {
		return err
	}
	got, err := io.CopyN(io.Discard, dr.cr, n)
	if err == io.EOF && got > 0 {
		return io.ErrUnexpectedEOF
	}
	return err
}

// String returns a string of length n from the input stream
func (dr *dcmReader) String(n int64) (string, error) {
	b, err := dr.Bytes(n)
	return string(b), err
}

// Bytes returns a byte array of size n from the input stream. Reaching the end of the input before
// any byte is read is io.EOF, afterwards io.ErrUnexpectedEOF.
func (dr *dcmReader) Bytes(n int64) ([]byte, error) {
	if err := dr.checkLimit(n); err != nil {
		return nil, err
	}
	if n <= maxPreallocatedValue {
		b := make([]byte, n)
		if _, err := io.ReadFull(dr.cr, b); err != nil {
			return nil, err
		}
		return b, nil
	}

	// a corrupt length must not allocate more than the stream holds
	b, err := io.ReadAll(io.LimitReader(dr.cr, n))
	switch {
	case err != nil:
		return nil, err
	case len(b) == 0:
		return nil, io.EOF
	case int64(len(b)) < n:
		return nil, io.ErrUnexpectedEOF
	}
	return b, nil
}

// UInt32 returns a uint32 from the input stream
func (dr *dcmReader) UInt32(byteOrder binary.ByteOrder) (uint32, error) {
	b, err := dr.Bytes(4)
	if err != nil {
		return 0, err
	}
	return byteOrder.Uint32(b), nil
}

// UInt16 returns a uint16 from the input stream
func (dr *dcmReader) UInt16(byteOrder binary.ByteOrder) (uint16, error) {
	b, err := dr.Bytes(2)
	if err != nil {
		return 0, err
	}
	return byteOrder.Uint16(b), nil
}

// countReader is an io.Reader that counts how many bytes read
type countReader struct {
	r         io.Reader
	bytesRead int64 // number of bytes read
}

func (cr *countReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.bytesRead += int64(n)
	return n, err
}
