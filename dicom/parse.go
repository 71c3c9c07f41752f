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
	"errors"
	"fmt"
	"io"
	"os"
)

// Parse parses a DICOM file represented as an io.Reader, returning the DataSet holding the File
// Meta Information and the elements of the file, after applying the transform options
// sequentially in the order given to each DataElement.
//
// When the byte stream is corrupt, the returned error wraps ErrCorruptStructure and the DataSet
// holds every element parsed before the corrupt one. With WithCheckValues(true), the value
// constraint violations of the whole file are returned joined in the error, alongside the
// complete DataSet.
func Parse(r io.Reader, opts ...ParseOption) (*DataSet, error) {
	iter, err := NewDataElementIterator(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating new data element iterator: %w", err)
	}
	defer iter.Close()

	return CollectDataElements(iter)
}

// ParseFile parses the DICOM file at path
func ParseFile(path string, opts ...ParseOption) (*DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, opts...)
}

// ParseDataSet parses a Data Set without preamble and File Meta Information, as exchanged over the
// network. The transfer syntax is given by WithTransferSyntax and defaults to Implicit VR Little
// Endian.
func ParseDataSet(r io.Reader, opts ...ParseOption) (*DataSet, error) {
	cfg := newParseConfig(opts)
	syntax := cfg.syntax
	if syntax == nil {
		syntax = implicitVRLittleEndian
	}
	if syntax.Deflated {
		rc := flate.NewReader(r)
		defer rc.Close()
		r = rc
	}
	iter := newDataSetIterator(newParser(newDcmReader(r), syntax, cfg), syntax)
	return CollectDataElements(iter)
}

// CollectDataElements returns the DataSet defined by the elements in the DataElementIterator.
// On a parse error, the elements collected so far are returned with the error.
func CollectDataElements(iter DataElementIterator) (*DataSet, error) {
	p := iter.parser()
	ds := &DataSet{
		Elements:  map[DataElementTag]*DataElement{},
		Length:    UndefinedLength,
		inherited: p.cfg.charset,
	}

	for elem, err := iter.NextElement(); err != io.EOF; elem, err = iter.NextElement() {
		if err != nil {
			return ds, errors.Join(err, p.violation())
		}
		ds.Put(elem)
	}
	return ds, p.violation()
}
