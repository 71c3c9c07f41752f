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
	"compress/flate"
	"fmt"
	"io"
)

// DataElementIterator represents an iterator over a DataSet's DataElements
type DataElementIterator interface {
	// NextElement returns the next DataElement in the DataSet. If there is no next DataElement, the
	// error io.EOF is returned. Sequences and encapsulated pixel data are read completely before
	// being returned. Elements removed by a transform option are skipped.
	NextElement() (*DataElement, error)

	// Close discards all remaining DataElements in the iterator
	Close() error

	// TransferSyntax returns the transfer syntax of the DataSet
	TransferSyntax() *TransferSyntax

	parser() *parser
}

// NewDataElementIterator creates a DataElementIterator from a DICOM file. The File Meta Information
// elements are returned first, followed by the elements of the DataSet in the transfer syntax
// declared by the meta elements. The implementation returned will consume input from the
// io.Reader given as needed.
func NewDataElementIterator(r io.Reader, opts ...ParseOption) (DataElementIterator, error) {
	cfg := newParseConfig(opts)
	dr := newDcmReader(r)
	if err := readDicomSignature(dr); err != nil {
		return nil, err
	}

	p := newParser(dr, metaSyntax, cfg)
	meta, err := readMetaElements(p)
	if err != nil {
		return nil, fmt.Errorf("reading meta header: %w", err)
	}

	syntax, err := findSyntax(meta)
	if err != nil {
		return nil, fmt.Errorf("finding transfer syntax: %v", err)
	}
	cfg.logger.Debug().Stringer("syntax", syntax).Msg("transfer syntax of the data set")

	it := newDataSetIterator(p, syntax)
	it.meta = meta.SortedElements()
	if syntax.Deflated {
		rc := flate.NewReader(dr.cr.r)
		dr.cr.r = rc
		it.closer = rc
	}
	return it, nil
}

// newDataSetIterator returns an iterator over the elements of a DataSet without File Meta
// Information, read by p in the given syntax
func newDataSetIterator(p *parser, syntax *TransferSyntax) *dataElementIterator {
	p.syntax = syntax
	if !syntax.ExplicitVR && !p.cfg.dict.HasEntries() {
		p.cfg.logger.Warn().Stringer("syntax", syntax).
			Msg("dictionary has no entries, implicit VR elements are read as UN")
	}
	return &dataElementIterator{
		p: p,
		context: &DataSet{
			Elements:  map[DataElementTag]*DataElement{},
			Length:    UndefinedLength,
			inherited: p.cfg.charset,
		},
	}
}

type dataElementIterator struct {
	p *parser

	// meta holds the File Meta Information elements not yet returned
	meta []*DataElement

	// context holds the elements the parser needs to interpret the following elements: the
	// Specific Character Set, the Pixel Representation and the private creators
	context *DataSet

	closer io.Closer
	empty  bool
}

func (it *dataElementIterator) NextElement() (*DataElement, error) {
	if len(it.meta) > 0 {
		elem := it.meta[0]
		it.meta = it.meta[1:]
		return elem, nil
	}

	for !it.empty {
		elem, err := it.p.nextElement(it.context)
		if err == io.EOF {
			it.empty = true
			break
		}
		if err != nil {
			it.empty = true
			return nil, err
		}

		elem, err = applyTransforms(elem, it.p.cfg.transforms)
		if err != nil {
			it.empty = true
			return nil, err
		}
		if elem == nil {
			continue
		}
		it.p.checkValue(it.context, elem)
		it.remember(elem)
		return elem, nil
	}
	return nil, io.EOF
}

// remember keeps elem in the context if it changes how the following elements are read
func (it *dataElementIterator) remember(elem *DataElement) {
	if elem.Tag == SpecificCharacterSetTag || elem.Tag == PixelRepresentationTag ||
		elem.Tag.IsPrivateCreator() {
		it.context.Put(elem)
	}
}

func (it *dataElementIterator) TransferSyntax() *TransferSyntax {
	return it.p.syntax
}

func (it *dataElementIterator) parser() *parser {
	return it.p
}

func (it *dataElementIterator) Close() error {
	// empty the iterator
	for _, err := it.NextElement(); err != io.EOF; _, err = it.NextElement() {
		if err != nil {
			return fmt.Errorf("unexpected error closing iterator: %v", err)
		}
	}
	if it.closer != nil {
		return it.closer.Close()
	}
	return nil
}
