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
	"github.com/rs/zerolog"
)

// ConstructOption configures how the Construct function behaves
type ConstructOption struct {
	transform Transform
	configure func(*writeConfig)
}

type writeConfig struct {
	dict       *Dictionary
	mode       lengthMode
	check      bool
	strict     bool
	logger     zerolog.Logger
	transforms []Transform
}

func newWriteConfig(opts []ConstructOption) *writeConfig {
	cfg := &writeConfig{mode: preserveLengths, logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt.configure != nil {
			opt.configure(cfg)
		}
		if opt.transform != nil {
			cfg.transforms = append(cfg.transforms, opt.transform)
		}
	}
	if cfg.dict == nil {
		cfg.dict = StandardDictionary()
	}
	return cfg
}

// ConstructOptionWithTransform returns a construct option that applies the given transformation to
// each DataElement before it is written to the DICOM file. For sequence DataElements, the transform
// is applied to the parent DataElement first before being applied to its children
// (i.e. the transform is applied to DataElements in pre-order). If the transform returns a nil
// DataElement, the element is not written.
//
// After all the ConstructOptions are applied to a DataElement, the length of the DataElement is
// re-calculated and VRs added from the DICOM data dictionary if the DataElement has a nil VR.
func ConstructOptionWithTransform(transform func(element *DataElement) (*DataElement, error)) ConstructOption {
	return ConstructOption{transform: transform}
}

// ExplicitLengths ensures all sequences and sequence items are written with explicit length.
// Encapsulated pixel data is always written with undefined length.
var ExplicitLengths = ConstructOption{configure: func(c *writeConfig) {
	c.mode = definedLengths
}}

// UndefinedLengths ensures all sequences and sequence items are written with undefined length.
var UndefinedLengths = ConstructOption{configure: func(c *writeConfig) {
	c.mode = undefinedLengths
}}

// PreserveLengths writes sequences and items with undefined length if their ValueLength or Length
// is UndefinedLength, as set when parsed from a stream, and with explicit length otherwise. It is
// the default, so that a parsed DataSet is written back with the same delimitation items.
var PreserveLengths = ConstructOption{configure: func(c *writeConfig) {
	c.mode = preserveLengths
}}

// WithWriteCheckValues checks the values of the elements being written. When strict, the first
// value constraint violation aborts writing. Otherwise violations are logged at warn level. Values
// are not checked by default.
func WithWriteCheckValues(strict bool) ConstructOption {
	return ConstructOption{configure: func(c *writeConfig) {
		c.check = true
		c.strict = strict
	}}
}

// WithWriteLogger sets the logger used while writing. Nothing is logged by default.
func WithWriteLogger(logger zerolog.Logger) ConstructOption {
	return ConstructOption{configure: func(c *writeConfig) {
		c.logger = logger
	}}
}

// WithWriteDictionary fills missing VRs and checks values with dict instead of the standard
// dictionary
func WithWriteDictionary(dict *Dictionary) ConstructOption {
	return ConstructOption{configure: func(c *writeConfig) {
		c.dict = dict
	}}
}

// prepareDataSet returns a copy of ds with the transforms applied to every element, missing VRs
// filled in from the dictionary and values checked. ds is not modified.
func (c *writeConfig) prepareDataSet(ds *DataSet) (*DataSet, error) {
	out := &DataSet{
		Elements:  make(map[DataElementTag]*DataElement, len(ds.Elements)),
		Length:    ds.Length,
		inherited: ds.inherited,
	}
	for _, elem := range ds.SortedElements() {
		prepared, err := c.prepareElement(ds, elem)
		if err != nil {
			return nil, err
		}
		if prepared != nil {
			out.Elements[prepared.Tag] = prepared
		}
	}
	return out, nil
}

func (c *writeConfig) prepareElement(ds *DataSet, elem *DataElement) (*DataElement, error) {
	elem, err := applyTransforms(elem, c.transforms)
	if err != nil || elem == nil {
		return nil, err
	}

	vr := elem.VR
	if vr == nil || vr.IsPseudo() {
		if vr == nil {
			vr = c.dict.lookupVR(elem.Tag, ds.PrivateCreator(elem.Tag))
		}
		rep, _ := ds.GetUint16(PixelRepresentationTag)
		_, encapsulated := elem.ValueField.(*PixelSequence)
		vr = resolvePseudoVR(vr, rep == 1, encapsulated, 0)
	}
	out := &DataElement{elem.Tag, vr, elem.ValueField, elem.ValueLength}

	if seq, ok := elem.ValueField.(*Sequence); ok {
		items := make([]*DataSet, 0, len(seq.Items))
		for _, item := range seq.Items {
			prepared, err := c.prepareDataSet(item)
			if err != nil {
				return nil, err
			}
			items = append(items, prepared)
		}
		out.ValueField = &Sequence{Items: items}
	}

	if c.check {
		if err := checkElement(out, c.dict, ds.PrivateCreator(out.Tag)); err != nil {
			if c.strict {
				return nil, err
			}
			for _, e := range flattenErrors(err) {
				c.logger.Warn().Err(e).Stringer("tag", out.Tag).Stringer("vr", out.VR).
					Msg("writing value violating its constraints")
			}
		}
	}
	return out, nil
}
