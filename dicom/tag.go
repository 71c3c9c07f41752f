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

import "fmt"

// DataElementTag is a unique identifier for a Data Element composed of an unordered pair
// of numbers called the group number and the element number as specified in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_3.10.
//
// The least significant 16 bits is the element number. The most significant 16 bits is the group
// number. Ordering DataElementTags numerically orders them by (group, element), which is the
// order Data Elements appear in a Data Set.
type DataElementTag uint32

// NewTag returns the DataElementTag (group,element)
func NewTag(group, element uint16) DataElementTag {
	return DataElementTag(uint32(group)<<16 | uint32(element))
}

// GroupNumber returns the group number component of the DataElementTag
func (t DataElementTag) GroupNumber() uint16 {
	return uint16(t >> 16)
}

// ElementNumber returns the element number component of the DataElementTag
func (t DataElementTag) ElementNumber() uint16 {
	return uint16(t & 0xFFFF)
}

// IsMetaElement is true if and only if the Data Element is a file meta information element
func (t DataElementTag) IsMetaElement() bool {
	return t.GroupNumber() == 0x0002
}

// IsGroupLength is true for the group length elements (gggg,0000)
func (t DataElementTag) IsGroupLength() bool {
	return t.ElementNumber() == 0
}

// IsPrivate is true for tags in an odd group. Groups 0001, 0003, 0005, 0007 and FFFF are not
// allowed to be used as private groups, so they are excluded.
func (t DataElementTag) IsPrivate() bool {
	g := t.GroupNumber()
	return g%2 == 1 && g > 0x0007 && g != 0xFFFF
}

// IsPrivateCreator is true for the private creator elements (gggg,0010-00FF) which reserve a
// block of elements within a private group.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.8.1
func (t DataElementTag) IsPrivateCreator() bool {
	e := t.ElementNumber()
	return t.IsPrivate() && e >= 0x0010 && e <= 0x00FF
}

// IsPrivateElement is true for elements (gggg,xxyy) that live in a block reserved by a private
// creator.
func (t DataElementTag) IsPrivateElement() bool {
	return t.IsPrivate() && t.ElementNumber() >= 0x1000
}

// PrivateCreatorTag returns the private creator element (gggg,00xx) reserving the block of the
// private element (gggg,xxyy). The second return value is false for tags that are not private
// elements.
func (t DataElementTag) PrivateCreatorTag() (DataElementTag, bool) {
	if !t.IsPrivateElement() {
		return 0, false
	}
	return NewTag(t.GroupNumber(), t.ElementNumber()>>8), true
}

func (t DataElementTag) String() string {
	return fmt.Sprintf("(%04X,%04X)", t.GroupNumber(), t.ElementNumber())
}
