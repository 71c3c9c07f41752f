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
	"io"
)

// parseState is the position of the parser within the Data Set being read
type parseState int

const (
	atElementHeader parseState = iota
	atValue
	atItemDelimiter
	atSequenceDelimiter
	done
)

// elementHeader holds the fields of an element header preceding the value field
type elementHeader struct {
	tag      DataElementTag
	vr       *VR
	streamVR *VR
	length   uint32
	offset   int64
}

// parser reads Data Sets from a byte stream. Sequences and items are read recursively; depth is
// the nesting level of the Data Set being read, 0 for the top level.
type parser struct {
	dr     *dcmReader
	syntax *TransferSyntax
	cfg    *parseConfig
	depth  int

	// violations collects value constraint violations when checking strictly
	violations []error
}

func newParser(dr *dcmReader, syntax *TransferSyntax, cfg *parseConfig) *parser {
	return &parser{dr: dr, syntax: syntax, cfg: cfg}
}

func (p *parser) structureError(tag DataElementTag, offset int64, format string, args ...any) error {
	return &StructureError{Tag: tag, Depth: p.depth, Offset: offset, Err: fmt.Errorf(format, args...)}
}

// pushLimit bounds the parser to the next length bytes, failing if they overrun the enclosing
// container
func (p *parser) pushLimit(tag DataElementTag, length uint32) error {
	if err := p.dr.PushLimit(int64(length)); err != nil {
		return p.structureError(tag, p.dr.Offset(), "%v", err)
	}
	return nil
}

// readDataSet reads elements into ds until the end of its container: the end of the stream for the
// top level Data Set, the Item Delimitation Item or the end of the item's bytes for items.
func (p *parser) readDataSet(ds *DataSet) error {
	for {
		elem, err := p.nextElement(ds)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := p.collect(ds, elem); err != nil {
			return err
		}
	}
}

// readItem reads the elements of an item whose header has been read
func (p *parser) readItem(item *DataSet, offset int64) error {
	if item.Length != UndefinedLength {
		if err := p.pushLimit(ItemTag, item.Length); err != nil {
			return err
		}
		defer p.dr.PopLimit()
	}
	return p.readDataSet(item)
}

// collect applies the transforms to elem, checks its value and puts it into ds
func (p *parser) collect(ds *DataSet, elem *DataElement) error {
	elem, err := applyTransforms(elem, p.cfg.transforms)
	if err != nil {
		return err
	}
	if elem == nil {
		return nil
	}
	p.checkValue(ds, elem)
	ds.Put(elem)
	return nil
}

func applyTransforms(elem *DataElement, transforms []Transform) (*DataElement, error) {
	var err error
	for i, t := range transforms {
		elem, err = t(elem)
		if err != nil {
			return nil, fmt.Errorf("applying option %v: %v", i, err)
		}
		if elem == nil { // option wants to filter this element out
			return nil, nil
		}
	}
	return elem, nil
}

func (p *parser) checkValue(ds *DataSet, elem *DataElement) {
	err := checkElement(elem, p.cfg.dict, ds.PrivateCreator(elem.Tag))
	if err == nil {
		return
	}
	if p.cfg.strict {
		p.violations = append(p.violations, err)
		return
	}
	for _, e := range flattenErrors(err) {
		p.cfg.logger.Warn().Err(e).Stringer("tag", elem.Tag).Stringer("vr", elem.VR).
			Int("depth", p.depth).Msg("value constraint violation")
	}
}

// violation returns the joined value constraint violations found while checking strictly
func (p *parser) violation() error {
	return errors.Join(p.violations...)
}

// nextElement reads the next element of ds. It returns io.EOF when the container of ds ends.
func (p *parser) nextElement(ds *DataSet) (*DataElement, error) {
	state := atElementHeader
	var h elementHeader
	for {
		switch state {
		case atElementHeader:
			var err error
			if h, state, err = p.readHeader(ds); err != nil {
				return nil, err
			}
		case atValue:
			return p.readValue(ds, h)
		case atItemDelimiter:
			if err := p.endItem(ds, h); err != nil {
				return nil, err
			}
			state = done
		case atSequenceDelimiter:
			return nil, p.structureError(h.tag, h.offset,
				"sequence delimitation item where an element or item delimitation item is required")
		case done:
			return nil, io.EOF
		}
	}
}

// readHeader reads the tag, VR and length of the next element and returns the state following it
func (p *parser) readHeader(ds *DataSet) (elementHeader, parseState, error) {
	h := elementHeader{offset: p.dr.Offset()}
	undefinedItem := p.depth > 0 && ds.Length == UndefinedLength
	if p.dr.Remaining() == 0 {
		if undefinedItem {
			return h, done, p.structureError(ItemTag, h.offset,
				"missing item delimitation item at the end of the enclosing container")
		}
		return h, done, nil
	}

	var err error
	h.tag, err = p.dr.Tag(p.syntax.ByteOrder)
	switch {
	case err == io.EOF && !undefinedItem:
		return h, done, nil
	case err == io.EOF || errors.Is(err, errLimitExceeded) && undefinedItem:
		return h, done, p.structureError(ItemTag, h.offset, "missing item delimitation item: %v", err)
	case err != nil:
		return h, done, p.structureError(h.tag, h.offset, "reading tag: %v", err)
	}

	switch h.tag {
	case ItemDelimitationItemTag, SequenceDelimitationItemTag:
		// delimiters have no VR and a 32 bit length in every transfer syntax
		if h.length, err = p.dr.UInt32(p.syntax.ByteOrder); err != nil {
			return h, done, p.structureError(h.tag, h.offset, "reading delimiter length: %v", err)
		}
		if h.tag == ItemDelimitationItemTag {
			return h, atItemDelimiter, nil
		}
		return h, atSequenceDelimiter, nil
	case ItemTag:
		return h, done, p.structureError(h.tag, h.offset, "item outside of a sequence")
	}

	if err := p.readVRAndLength(ds, &h); err != nil {
		return h, done, err
	}
	return h, atValue, nil
}

func (p *parser) readVRAndLength(ds *DataSet, h *elementHeader) error {
	creator := ""
	if h.tag.IsPrivateElement() {
		creator = ds.PrivateCreator(h.tag)
	}
	dictVR := p.cfg.dict.lookupVR(h.tag, creator)

	var err error
	if !p.syntax.ExplicitVR {
		if h.length, err = p.syntax.readValueLength(p.dr, dictVR); err != nil {
			return p.structureError(h.tag, h.offset, "reading length: %v", err)
		}
		h.vr = p.resolvePseudoVR(ds, h.tag, dictVR, h.length)
		return nil
	}

	streamVR, name, known, err := p.syntax.readVR(p.dr)
	if err != nil {
		return p.structureError(h.tag, h.offset, "%v", err)
	}
	if !known {
		p.cfg.logger.Warn().Stringer("tag", h.tag).Str("vr", name).
			Msg("unknown VR code, reading value as UN")
	}
	// the length field layout follows the VR in the stream
	if h.length, err = p.syntax.readValueLength(p.dr, streamVR); err != nil {
		return p.structureError(h.tag, h.offset, "reading length: %v", err)
	}
	h.streamVR = streamVR
	h.vr = p.resolveVRMismatch(h.tag, streamVR, p.resolvePseudoVR(ds, h.tag, dictVR, h.length), dictVR)
	return nil
}

func (p *parser) resolvePseudoVR(ds *DataSet, tag DataElementTag, vr *VR, length uint32) *VR {
	if !vr.IsPseudo() {
		return vr
	}
	signed := false
	if rep, ok := ds.GetUint16(PixelRepresentationTag); ok {
		signed = rep == 1
	}
	encapsulated := tag == PixelDataTag && length == UndefinedLength
	return resolvePseudoVR(vr, signed, encapsulated, length)
}

// pseudoCandidates lists the VRs a pseudo VR of the dictionary stands for
var pseudoCandidates = map[*VR][]*VR{
	XSVR:       {USVR, SSVR},
	OXVR:       {OBVR, OWVR},
	PXVR:       {OBVR, OWVR},
	LTPseudoVR: {USVR, SSVR, OWVR},
	UPVR:       {ULVR},
}

// resolveVRMismatch applies the VR mismatch policy. dictVR is the VR of the dictionary entry and
// resolved the same VR with any pseudo VR resolved for this element.
func (p *parser) resolveVRMismatch(tag DataElementTag, streamVR, resolved, dictVR *VR) *VR {
	if resolved == UNVR || resolved == streamVR || dictVR == NAVR {
		return streamVR
	}
	for _, vr := range pseudoCandidates[dictVR] {
		if vr == streamVR {
			return streamVR
		}
	}

	chosen := streamVR
	switch p.cfg.policy {
	case PreferDictionaryVR:
		chosen = resolved
	case PreferDictionaryVRForUN:
		if streamVR == UNVR {
			chosen = resolved
		}
	}
	p.cfg.logger.Debug().Stringer("tag", tag).Stringer("stream", streamVR).
		Stringer("dictionary", resolved).Stringer("policy", p.cfg.policy).Stringer("chosen", chosen).
		Msg("VR mismatch")
	return chosen
}

// readValue reads the value field described by h
func (p *parser) readValue(ds *DataSet, h elementHeader) (*DataElement, error) {
	elem := &DataElement{Tag: h.tag, VR: h.vr, ValueLength: h.length}

	// UN holding a sequence is encoded in implicit VR little endian (PS3.5 6.2.2)
	unSequence := h.vr == SQVR && h.streamVR == UNVR ||
		h.vr == UNVR && h.length == UndefinedLength
	if unSequence {
		elem.VR = SQVR
		prev := p.syntax
		p.syntax = implicitVRLittleEndian
		defer func() { p.syntax = prev }()
	}

	switch {
	case elem.VR == SQVR:
		seq, err := p.readSequence(h.tag, h.length, ds.CharacterSet())
		elem.ValueField = seq
		return elem, err
	case h.length == UndefinedLength && h.tag == PixelDataTag && (h.vr == OBVR || h.vr == OWVR):
		ps, err := p.readPixelSequence(h.tag)
		elem.ValueField = ps
		return elem, err
	case h.length == UndefinedLength:
		return nil, p.structureError(h.tag, h.offset, "undefined length for VR %v", h.vr)
	}

	if r := p.dr.Remaining(); r >= 0 && int64(h.length) > r {
		return nil, p.structureError(h.tag, h.offset,
			"value length %d overruns the %d bytes remaining in the enclosing container", h.length, r)
	}
	b, err := p.dr.Bytes(int64(h.length))
	if err != nil {
		return nil, p.structureError(h.tag, h.offset, "reading value of length %d: truncated: %v",
			h.length, err)
	}

	value, rest, err := decodeValue(h.vr, b, p.syntax.ByteOrder, ds.CharacterSet())
	if err != nil {
		return nil, p.structureError(h.tag, h.offset, "%v", err)
	}
	if rest != 0 {
		p.cfg.logger.Warn().Stringer("tag", h.tag).Stringer("vr", h.vr).Uint32("length", h.length).
			Msg("value length is not a multiple of the value size, keeping trailing bytes")
	}
	elem.ValueField = value
	return elem, nil
}

// endItem validates an Item Delimitation Item ending ds
func (p *parser) endItem(ds *DataSet, h elementHeader) error {
	switch {
	case p.depth == 0:
		return p.structureError(h.tag, h.offset, "item delimitation item outside of an item")
	case ds.Length != UndefinedLength:
		return p.structureError(h.tag, h.offset, "item delimitation item in item of defined length")
	case h.length != 0:
		return p.structureError(h.tag, h.offset, "item delimitation item with length %d, want 0",
			h.length)
	}
	return nil
}
