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
)

// PixelSequence represents image pixel data (7FE0,0010) in encapsulated format as described in
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4. The first fragment
// is the Basic Offset Table, empty when the table is absent.
type PixelSequence struct {
	Fragments [][]byte
}

// NewPixelSequence returns a PixelSequence with an empty offset table holding one fragment per
// frame
func NewPixelSequence(frames ...[]byte) *PixelSequence {
	return &PixelSequence{append([][]byte{{}}, frames...)}
}

// VM is always 1
func (ps *PixelSequence) VM() int {
	return 1
}

func (*PixelSequence) isValue() {}

func (ps *PixelSequence) String() string {
	return fmt.Sprintf("(%d fragments)", len(ps.Fragments))
}

// OffsetTable returns the frame offsets of the Basic Offset Table. The offsets are relative to the
// first byte of the item tag of the first fragment following the table.
func (ps *PixelSequence) OffsetTable() ([]uint32, error) {
	if len(ps.Fragments) == 0 {
		return nil, fmt.Errorf("no basic offset table item: %w", ErrInvalidValue)
	}
	table := ps.Fragments[0]
	if len(table)%4 != 0 {
		return nil, fmt.Errorf("basic offset table of %d bytes is not a multiple of 4: %w",
			len(table), ErrInvalidValue)
	}
	offsets := make([]uint32, len(table)/4)
	for i := range offsets {
		offsets[i] = binary.LittleEndian.Uint32(table[4*i:])
	}
	return offsets, nil
}

// PixelFragments returns the fragments following the Basic Offset Table
func (ps *PixelSequence) PixelFragments() [][]byte {
	if len(ps.Fragments) == 0 {
		return nil
	}
	return ps.Fragments[1:]
}

// Frames groups the fragments into numberOfFrames frames. Without an offset table, a single frame
// is made of every fragment and multiple frames require one fragment per frame.
func (ps *PixelSequence) Frames(numberOfFrames int) ([][]byte, error) {
	offsets, err := ps.OffsetTable()
	if err != nil {
		return nil, err
	}
	fragments := ps.PixelFragments()

	if len(offsets) == 0 {
		switch {
		case numberOfFrames <= 1:
			return [][]byte{bytes.Join(fragments, nil)}, nil
		case numberOfFrames == len(fragments):
			return fragments, nil
		}
		return nil, fmt.Errorf("%d fragments cannot be grouped into %d frames without an offset "+
			"table: %w", len(fragments), numberOfFrames, ErrInvalidValue)
	}
	if numberOfFrames > 0 && len(offsets) != numberOfFrames {
		return nil, fmt.Errorf("offset table has %d entries for %d frames: %w", len(offsets),
			numberOfFrames, ErrInvalidValue)
	}

	frames := make([][]byte, len(offsets))
	pos := uint32(0)
	frame := -1
	for _, f := range fragments {
		for frame+1 < len(offsets) && offsets[frame+1] <= pos {
			frame++
		}
		if frame < 0 || offsets[frame] > pos {
			return nil, fmt.Errorf("fragment at offset %d does not start a frame: %w", pos,
				ErrInvalidValue)
		}
		frames[frame] = append(frames[frame], f...)
		pos += tagSize + 4 /*length*/ + uint32(len(f))
	}
	return frames, nil
}

// readPixelSequence reads the fragments of encapsulated pixel data up to the Sequence Delimitation
// Item
func (p *parser) readPixelSequence(tag DataElementTag) (*PixelSequence, error) {
	ps := &PixelSequence{}
	p.depth++
	defer func() { p.depth-- }()

	for {
		offset := p.dr.Offset()
		itemTag, err := p.dr.Tag(p.syntax.ByteOrder)
		if err != nil {
			return ps, p.structureError(tag, offset, "missing sequence delimitation item: %v", err)
		}
		length, err := p.dr.UInt32(p.syntax.ByteOrder)
		if err != nil {
			return ps, p.structureError(itemTag, offset, "reading fragment length: %v", err)
		}

		switch itemTag {
		case SequenceDelimitationItemTag:
			if length != 0 {
				return ps, p.structureError(itemTag, offset,
					"sequence delimitation item with length %d, want 0", length)
			}
			return ps, nil
		case ItemTag:
		default:
			return ps, p.structureError(itemTag, offset, "invalid item tag in encapsulated pixel data")
		}

		if length == UndefinedLength {
			return ps, p.structureError(itemTag, offset, "expected fragment to be of explicit length")
		}
		if r := p.dr.Remaining(); r >= 0 && int64(length) > r {
			return ps, p.structureError(itemTag, offset,
				"fragment length %d overruns the %d bytes remaining", length, r)
		}
		fragment, err := p.dr.Bytes(int64(length))
		if err != nil {
			return ps, p.structureError(itemTag, offset, "reading fragment: %v", err)
		}
		ps.Fragments = append(ps.Fragments, fragment)
	}
}

// encapsulatedLength returns the value length of ps when encoded with defined length. Encapsulated
// pixel data is always written with undefined length; this is the number of bytes up to and
// including the Sequence Delimitation Item.
func (ps *PixelSequence) encapsulatedLength() int64 {
	n := int64(tagSize + 4)
	if len(ps.Fragments) == 0 {
		// the empty offset table item written in place of missing fragments
		return n + tagSize + 4
	}
	for _, f := range ps.Fragments {
		n += tagSize + 4 + int64(len(f)) + int64(len(f)%2)
	}
	return n
}

// writeEncapsulatedFormat writes the fragments in the encapsulated format. The first fragment is
// assumed to be the basic offset table. Odd length fragments are padded with a zero byte.
func writeEncapsulatedFormat(dw *dcmWriter, order binary.ByteOrder, fragments [][]byte) error {
	if len(fragments) == 0 {
		// the offset table item is mandatory even when empty
		fragments = [][]byte{{}}
	}
	for _, fragment := range fragments {
		if err := dw.Tag(order, ItemTag); err != nil {
			return fmt.Errorf("writing fragment tag: %v", err)
		}
		padded := fragment
		if len(fragment)%2 == 1 {
			padded = append(append([]byte{}, fragment...), 0x00)
		}
		if err := dw.UInt32(order, uint32(len(padded))); err != nil {
			return fmt.Errorf("writing fragment length: %v", err)
		}
		if err := dw.Bytes(padded); err != nil {
			return fmt.Errorf("writing fragment: %v", err)
		}
	}

	if err := dw.Delimiter(order, SequenceDelimitationItemTag); err != nil {
		return fmt.Errorf("writing fragment delimitation tag: %v", err)
	}
	return nil
}
