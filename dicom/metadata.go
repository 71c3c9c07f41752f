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
)

const (
	preambleLength = 128
	magic          = "DICM"
)

// metaSyntax is the transfer syntax of the File Meta Information
// http://dicom.nema.org/medical/dicom/current/output/html/part10.html#sect_7.1
var metaSyntax = explicitVRLittleEndian

func readDicomSignature(r *dcmReader) error {
	if err := r.Skip(preambleLength); err != nil {
		return fmt.Errorf("skipping preamble: %v", err)
	}

	signature, err := r.String(4)
	if err != nil {
		return fmt.Errorf("reading DICOM signature: %v", err)
	}

	if signature != magic {
		return fmt.Errorf("wrong DICOM signature: %q", signature)
	}

	return nil
}

// readMetaElements reads the File Meta Information group with p, whose syntax must be metaSyntax.
// The first element must be the File Meta Information Group Length, which bounds the rest of the
// group.
func readMetaElements(p *parser) (*DataSet, error) {
	meta := &DataSet{Elements: map[DataElementTag]*DataElement{}, Length: UndefinedLength}

	first, err := p.nextElement(meta)
	if err != nil {
		return nil, fmt.Errorf("parsing FileMetaInformationGroupLength element: %w", err)
	}
	if first.Tag != FileMetaInformationGroupLengthTag {
		return nil, fmt.Errorf("first meta element is %v, want FileMetaInformationGroupLength %v",
			first.Tag, FileMetaInformationGroupLengthTag)
	}
	groupLength, ok := first.ValueField.(*Numbers[uint32])
	if !ok || groupLength.VM() != 1 {
		return nil, fmt.Errorf("wrong type for FileMetaInformationGroupLength. Got %v, want 1 UL",
			first.ValueField)
	}
	if err := p.collect(meta, first); err != nil {
		return nil, err
	}

	if err := p.pushLimit(FileMetaInformationGroupLengthTag, groupLength.Values[0]); err != nil {
		return nil, err
	}
	defer p.dr.PopLimit()
	if err := p.readDataSet(meta); err != nil {
		return meta, fmt.Errorf("reading the file meta elements: %w", err)
	}
	return meta, nil
}

func findSyntax(meta *DataSet) (*TransferSyntax, error) {
	uid, ok := meta.GetString(TransferSyntaxUIDTag)
	if !ok {
		return nil, fmt.Errorf("transfer syntax not found")
	}
	return lookupTransferSyntax(uid), nil
}

// createMetaGroupLengthElement returns the File Meta Information Group Length of the meta elements
// of ds, excluding any group length already present
func createMetaGroupLengthElement(ds *DataSet) (*DataElement, error) {
	var length uint32
	for _, elem := range ds.MetaElements().SortedElements() {
		if elem.Tag == FileMetaInformationGroupLengthTag {
			continue
		}
		elemLength, err := calculateElementLength(elem, metaSyntax, definedLengths)
		if err != nil {
			return nil, fmt.Errorf("calculating length of %v: %v", elem.Tag, err)
		}
		length += elemLength
	}
	return &DataElement{FileMetaInformationGroupLengthTag, ULVR, NewNumbers(length), 4}, nil
}
