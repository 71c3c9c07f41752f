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
	"errors"
	"fmt"
)

var (
	// ErrCorruptStructure is returned (wrapped in a *StructureError) when the byte stream does not
	// describe a well formed Data Set: malformed lengths, disagreeing delimiters, lengths
	// overrunning their container or missing delimiters at the end of the stream.
	ErrCorruptStructure = errors.New("corrupt data set structure")

	// ErrValueConstraint is returned (wrapped in a *ValueError) when a value violates the
	// constraints of its VR or of its dictionary entry.
	ErrValueConstraint = errors.New("value constraint violation")

	// ErrInvalidValue is returned when a computation cannot be carried out on the given values,
	// for example when no codec is registered for a compressed transfer syntax.
	ErrInvalidValue = errors.New("invalid value")

	// ErrIndexOutOfRange is returned when reading a value beyond the value multiplicity.
	ErrIndexOutOfRange = errors.New("value index out of range")
)

// StructureError describes where in the byte stream a corrupt structure was found.
type StructureError struct {
	// Tag of the element, item or delimiter being parsed
	Tag DataElementTag
	// Depth is the sequence nesting level, 0 for the top level Data Set
	Depth int
	// Offset is the number of bytes of the stream preceding the offending header
	Offset int64
	Err    error
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%v at offset %d depth %d: %v: %v", e.Tag, e.Offset, e.Depth,
		ErrCorruptStructure, e.Err)
}

func (e *StructureError) Unwrap() []error {
	return []error{ErrCorruptStructure, e.Err}
}

// ValueError describes a value constraint violation.
type ValueError struct {
	Tag    DataElementTag
	VR     *VR
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%v %v: %v: %s", e.Tag, e.VR, ErrValueConstraint, e.Reason)
}

func (e *ValueError) Unwrap() error {
	return ErrValueConstraint
}
