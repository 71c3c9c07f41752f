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
	"strings"
)

// Sequence models a DICOM sequence. Each item of the sequence is a DataSet.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_7.5
type Sequence struct {
	Items []*DataSet
}

// VM is the number of items
func (seq *Sequence) VM() int {
	return len(seq.Items)
}

func (*Sequence) isValue() {}

func (seq *Sequence) String() string {
	return seq.string(0)
}

func (seq *Sequence) string(indentLvl int) string {
	lines := make([]string, 0)
	for _, obj := range seq.Items {
		lines = append(lines, obj.string(indentLvl+1))
	}
	return "\n" + strings.Join(lines, "\n")
}

func (seq *Sequence) append(dataSet *DataSet) {
	seq.Items = append(seq.Items, dataSet)
}

// readSequence reads the items of a sequence whose value field starts at the current position.
// A sequence of defined length ends when its bytes are consumed; a sequence of undefined length
// ends at the Sequence Delimitation Item.
func (p *parser) readSequence(tag DataElementTag, length uint32, cs *CharacterSet) (*Sequence, error) {
	seq := &Sequence{}
	undefined := length == UndefinedLength
	if !undefined {
		if err := p.pushLimit(tag, length); err != nil {
			return seq, err
		}
		defer p.dr.PopLimit()
	}

	p.depth++
	defer func() { p.depth-- }()

	for {
		if !undefined && p.dr.Remaining() == 0 {
			return seq, nil
		}

		offset := p.dr.Offset()
		itemTag, err := p.dr.Tag(p.syntax.ByteOrder)
		if err != nil {
			if undefined {
				return seq, p.structureError(tag, offset,
					"missing sequence delimitation item: %v", err)
			}
			return seq, p.structureError(tag, offset, "reading item tag: %v", err)
		}
		itemLength, err := p.dr.UInt32(p.syntax.ByteOrder)
		if err != nil {
			return seq, p.structureError(itemTag, offset, "reading item length: %v", err)
		}

		switch itemTag {
		case ItemTag:
		case SequenceDelimitationItemTag:
			if !undefined {
				return seq, p.structureError(itemTag, offset,
					"sequence delimitation item in sequence of defined length")
			}
			if itemLength != 0 {
				return seq, p.structureError(itemTag, offset,
					"sequence delimitation item with length %d, want 0", itemLength)
			}
			return seq, nil
		case ItemDelimitationItemTag:
			return seq, p.structureError(itemTag, offset,
				"item delimitation item where an item or sequence delimitation item is required")
		default:
			return seq, p.structureError(itemTag, offset, "unexpected tag in sequence %v", tag)
		}

		item := &DataSet{Elements: map[DataElementTag]*DataElement{}, Length: itemLength, inherited: cs}
		seq.append(item)
		if err := p.readItem(item, offset); err != nil {
			return seq, err
		}
	}
}
