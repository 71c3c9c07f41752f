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

// DataElementWriter writes DataElements one at a time
type DataElementWriter interface {
	WriteElement(element *DataElement) error

	// Close flushes the elements written. It does not close the underlying io.Writer.
	Close() error
}

var errExpectedMetaHeader = fmt.Errorf("expected header to only contain file meta elements, " +
	"use DataSet.MetaElements to filter DataSet")

// NewDataElementWriter writes the DICOM preamble, signature, and meta header to w and returns a
// DataElementWriter that writes DataElements in the transfer syntax specified by the header.
// The options are applied in the order given to all DataElements including File Meta Elements
// before being written to w. The File Meta Information Group Length is always re-calculated.
func NewDataElementWriter(w io.Writer, header *DataSet, opts ...ConstructOption) (DataElementWriter, error) {
	for tag := range header.Elements {
		if !tag.IsMetaElement() {
			return nil, errExpectedMetaHeader
		}
	}
	cfg := newWriteConfig(opts)

	// Process meta header elements before re-calculating the FileMetaInformationGroupLength in case
	// an option modifies the length of a DataElement.
	meta, err := cfg.prepareDataSet(header)
	if err != nil {
		return nil, fmt.Errorf("processing meta elements: %w", err)
	}
	syntax, err := findSyntax(meta)
	if err != nil {
		return nil, fmt.Errorf("getting transfer syntax from header: %v", err)
	}

	dw := newDcmWriter(w)
	if err := writeDicomSignature(dw); err != nil {
		return nil, err
	}

	// The FileMetaInformationGroupLength element is a critical component of the Meta Header. It
	// stores how long the meta header is. Thus, we need to re-calculate it properly.
	groupLength, err := createMetaGroupLengthElement(meta)
	if err != nil {
		return nil, fmt.Errorf("creating meta group length element: %v", err)
	}
	meta.Elements[FileMetaInformationGroupLengthTag] = groupLength

	// Meta elements are always written in the Explicit VR Little Endian syntax in ascending order.
	metaEncoder := &encoder{dw, metaSyntax, definedLengths}
	if err := metaEncoder.writeDataSet(meta); err != nil {
		return nil, fmt.Errorf("writing meta elements: %w", err)
	}
	cfg.logger.Debug().Stringer("syntax", syntax).Int64("bytes", dw.written).
		Msg("wrote file meta information")

	return newDataElementWriter(dw, syntax, cfg), nil
}

// WriteDataSet writes the elements of ds without preamble and File Meta Information in the
// transfer syntax with the given UID, the inverse of ParseDataSet. Meta elements in ds are
// skipped.
func WriteDataSet(w io.Writer, ds *DataSet, uid string, opts ...ConstructOption) error {
	dew := newDataElementWriter(newDcmWriter(w), lookupTransferSyntax(uid), newWriteConfig(opts))
	if err := writeElements(dew, ds); err != nil {
		return err
	}
	return dew.Close()
}

func writeElements(dew *dataElementWriter, ds *DataSet) error {
	for _, elem := range ds.SortedElements() {
		if elem.Tag.IsMetaElement() {
			continue
		}
		if err := dew.writeElement(ds, elem); err != nil {
			return err
		}
	}
	return nil
}

type dataElementWriter struct {
	enc *encoder
	cfg *writeConfig

	// context holds the elements written that change how following elements are written
	context *DataSet
	flate   *flate.Writer
}

func newDataElementWriter(dw *dcmWriter, syntax *TransferSyntax, cfg *writeConfig) *dataElementWriter {
	dew := &dataElementWriter{
		enc:     &encoder{dw, syntax, cfg.mode},
		cfg:     cfg,
		context: &DataSet{Elements: map[DataElementTag]*DataElement{}, Length: UndefinedLength},
	}
	if syntax.Deflated {
		// flate.NewWriter only fails for an invalid compression level
		dew.flate, _ = flate.NewWriter(dw.w, flate.DefaultCompression)
		dw.w = dew.flate
	}
	return dew
}

func (dew *dataElementWriter) WriteElement(element *DataElement) error {
	return dew.writeElement(dew.context, element)
}

// writeElement writes element of ds. Private creators and the Pixel Representation of ds decide
// missing VRs.
func (dew *dataElementWriter) writeElement(ds *DataSet, element *DataElement) error {
	element, err := dew.cfg.prepareElement(ds, element)
	if err != nil || element == nil {
		return err
	}
	if element.Tag == PixelRepresentationTag || element.Tag.IsPrivateCreator() {
		dew.context.Elements[element.Tag] = element
	}
	return dew.enc.writeElement(element)
}

func (dew *dataElementWriter) Close() error {
	if dew.flate != nil {
		if err := dew.flate.Close(); err != nil {
			return fmt.Errorf("flushing deflated data set: %v", err)
		}
	}
	dew.cfg.logger.Debug().Int64("bytes", dew.enc.dw.written).Msg("wrote data set")
	return nil
}

func writeDicomSignature(dw *dcmWriter) error {
	if err := dw.Bytes(make([]byte, preambleLength)); err != nil {
		return fmt.Errorf("writing DICOM preamble: %v", err)
	}

	if err := dw.String(magic); err != nil {
		return fmt.Errorf("writing DICOM signature: %v", err)
	}

	return nil
}
