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
	"sort"
	"strconv"
	"strings"
)

// DataElement models a DICOM Data Element as defined in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1
type DataElement struct {
	Tag DataElementTag

	// Value Representation
	VR *VR

	// ValueField represents the field within a Data Element that contains its value(s)
	ValueField Value

	// ValueLength is the length of the value field as read from the stream. It is equal to
	// UndefinedLength (0xFFFFFFFF) for sequences and encapsulated pixel data ended by a delimiter:
	// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.1.1
	ValueLength uint32
}

func (e *DataElement) String() string {
	return e.string(0)
}

func (e *DataElement) string(indentLvl int) string {
	indent := strings.Repeat(">", indentLvl)
	if seq, ok := e.ValueField.(*Sequence); ok {
		return fmt.Sprintf("%s%v %v #%d %s", indent, e.Tag, e.VR, e.ValueLength, seq.string(indentLvl))
	}
	return fmt.Sprintf("%s%v %v #%d %v", indent, e.Tag, e.VR, e.ValueLength, e.ValueField)
}

// IntValue returns the first value of the element as an int64. The element must hold binary
// integers or an Integer String.
func (e *DataElement) IntValue() (int64, error) {
	switch v := e.ValueField.(type) {
	case *Numbers[int16]:
		return firstInt(v)
	case *Numbers[uint16]:
		return firstInt(v)
	case *Numbers[int32]:
		return firstInt(v)
	case *Numbers[uint32]:
		return firstInt(v)
	case *Numbers[int64]:
		return firstInt(v)
	case *ByteString:
		s, err := v.GetValueAt(0, true)
		if err != nil {
			return 0, err
		}
		n, err := strconv.ParseInt(strings.TrimPrefix(s, "+"), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing %q: %w", s, ErrInvalidValue)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%v has no integer value: %w", e.Tag, ErrInvalidValue)
}

func firstInt[T ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64](n *Numbers[T]) (int64, error) {
	v, err := n.GetAt(0)
	return int64(v), err
}

// StringValue returns the first normalized value of a string element
func (e *DataElement) StringValue() (string, error) {
	s, ok := e.ValueField.(*ByteString)
	if !ok {
		return "", fmt.Errorf("%v has no string value: %w", e.Tag, ErrInvalidValue)
	}
	return s.GetValueAt(0, true)
}

// DataSet represents a DICOM Data Set (or a Sequence Item)
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#chapter_7
type DataSet struct {
	// Elements is a map of DataElement tags to *DataElement
	Elements map[DataElementTag]*DataElement

	// Length is the item length read from the stream, UndefinedLength for items ended by an
	// Item Delimitation Item and for top level Data Sets.
	Length uint32

	// inherited is the character set of the enclosing Data Set
	inherited *CharacterSet
}

// NewDataSet returns a DataSet holding elements with the VRs of the standard dictionary. The
// values may be Values or slices ([]string, []uint16, []int32, ...) converted to the Value type
// of the VR.
func NewDataSet(elements map[DataElementTag]any) (*DataSet, error) {
	dict := StandardDictionary()
	ds := &DataSet{Elements: map[DataElementTag]*DataElement{}, Length: UndefinedLength}
	for tag, v := range elements {
		vr := resolvePseudoVR(dict.lookupVR(tag, ""), false, false, 0)
		value, err := toValue(vr, v)
		if err != nil {
			return nil, fmt.Errorf("element %v: %v", tag, err)
		}
		ds.Put(&DataElement{Tag: tag, VR: vr, ValueField: value})
	}
	return ds, nil
}

func toValue(vr *VR, v any) (Value, error) {
	switch v := v.(type) {
	case Value:
		return v, nil
	case []string:
		if !vr.IsString() {
			break
		}
		return NewStrings(vr, v...), nil
	case []byte:
		return NewBytes(v), nil
	case []int16:
		return NewNumbers(v...), nil
	case []uint16:
		return NewNumbers(v...), nil
	case []int32:
		return NewNumbers(v...), nil
	case []uint32:
		return NewNumbers(v...), nil
	case []int64:
		return NewNumbers(v...), nil
	case []uint64:
		return NewNumbers(v...), nil
	case []float32:
		return NewNumbers(v...), nil
	case []float64:
		return NewNumbers(v...), nil
	case []DataElementTag:
		return NewNumbers(v...), nil
	case []*DataSet:
		return &Sequence{Items: v}, nil
	}
	return nil, fmt.Errorf("cannot hold %T in %v", v, vr)
}

// Put adds elem to the Data Set, replacing any element with the same tag. Character string values
// are interpreted in the character set of the Data Set; putting Specific Character Set changes it
// for every character string value of the Data Set and of its items.
func (ds *DataSet) Put(elem *DataElement) {
	if ds.Elements == nil {
		ds.Elements = map[DataElementTag]*DataElement{}
	}
	ds.Elements[elem.Tag] = elem

	if elem.Tag == SpecificCharacterSetTag {
		ds.propagateCharacterSet()
		return
	}
	ds.applyCharacterSet(elem, ds.CharacterSet())
}

// Get returns the element with the given tag
func (ds *DataSet) Get(tag DataElementTag) (*DataElement, bool) {
	e, ok := ds.Elements[tag]
	return e, ok
}

// Remove deletes the element with the given tag
func (ds *DataSet) Remove(tag DataElementTag) {
	delete(ds.Elements, tag)
	if tag == SpecificCharacterSetTag {
		ds.propagateCharacterSet()
	}
}

// CharacterSet returns the character set in effect for the Data Set: its own Specific Character
// Set, else the one of the enclosing Data Set, else the default repertoire. An unknown defined
// term falls back to the default repertoire.
func (ds *DataSet) CharacterSet() *CharacterSet {
	if e, ok := ds.Elements[SpecificCharacterSetTag]; ok {
		if s, ok := e.ValueField.(*ByteString); ok {
			if cs, err := NewCharacterSet(s.Strings(true)...); err == nil {
				return cs
			}
		}
	}
	if ds.inherited != nil {
		return ds.inherited
	}
	return DefaultCharacterSet
}

func (ds *DataSet) setInheritedCharacterSet(cs *CharacterSet) {
	ds.inherited = cs
	ds.propagateCharacterSet()
}

func (ds *DataSet) propagateCharacterSet() {
	cs := ds.CharacterSet()
	for _, elem := range ds.Elements {
		ds.applyCharacterSet(elem, cs)
	}
}

func (ds *DataSet) applyCharacterSet(elem *DataElement, cs *CharacterSet) {
	switch v := elem.ValueField.(type) {
	case *ByteString:
		if v.VR().IsCharacterSetAware() {
			v.SetCharacterSet(cs)
		}
	case *Sequence:
		for _, item := range v.Items {
			item.setInheritedCharacterSet(cs)
		}
	}
}

// PrivateCreator returns the private creator reserving the block of the private element tag, or
// the empty string if tag is not a private element or its creator is not in the Data Set.
func (ds *DataSet) PrivateCreator(tag DataElementTag) string {
	creatorTag, ok := tag.PrivateCreatorTag()
	if !ok {
		return ""
	}
	e, ok := ds.Elements[creatorTag]
	if !ok {
		return ""
	}
	creator, err := e.StringValue()
	if err != nil {
		return ""
	}
	return creator
}

// SortedTags returns the tags of the Data Set in ascending order, the order elements are encoded
func (ds *DataSet) SortedTags() []DataElementTag {
	tags := make([]DataElementTag, 0, len(ds.Elements))
	for tag := range ds.Elements {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		return tags[i] < tags[j]
	})
	return tags
}

// SortedElements returns the elements of the Data Set in ascending tag order
func (ds *DataSet) SortedElements() []*DataElement {
	elems := make([]*DataElement, 0, len(ds.Elements))
	for _, tag := range ds.SortedTags() {
		elems = append(elems, ds.Elements[tag])
	}
	return elems
}

// MetaElements returns a DataSet holding the File Meta Information elements (group 0002)
func (ds *DataSet) MetaElements() *DataSet {
	meta := &DataSet{Elements: map[DataElementTag]*DataElement{}}
	for tag, elem := range ds.Elements {
		if tag.IsMetaElement() {
			meta.Elements[tag] = elem
		}
	}
	return meta
}

// Merge puts every element of other into ds, replacing elements with the same tag, and returns ds
func (ds *DataSet) Merge(other *DataSet) *DataSet {
	for _, elem := range other.SortedElements() {
		ds.Put(elem)
	}
	return ds
}

// GetUint16 returns the first value of a US or SS element
func (ds *DataSet) GetUint16(tag DataElementTag) (uint16, bool) {
	e, ok := ds.Elements[tag]
	if !ok {
		return 0, false
	}
	switch v := e.ValueField.(type) {
	case *Numbers[uint16]:
		n, err := v.GetAt(0)
		return n, err == nil
	case *Numbers[int16]:
		n, err := v.GetAt(0)
		return uint16(n), err == nil
	}
	return 0, false
}

// GetString returns the first normalized value of a string element
func (ds *DataSet) GetString(tag DataElementTag) (string, bool) {
	e, ok := ds.Elements[tag]
	if !ok {
		return "", false
	}
	s, err := e.StringValue()
	return s, err == nil
}

func (ds *DataSet) string(indentLvl int) string {
	lines := make([]string, 0, len(ds.Elements))
	for _, elem := range ds.SortedElements() {
		lines = append(lines, elem.string(indentLvl))
	}
	return strings.Join(lines, "\n")
}
