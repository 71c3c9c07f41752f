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

	"github.com/rs/zerolog"
)

// VRMismatchPolicy decides which VR is used when the VR of an explicit VR element disagrees with
// the VR of its dictionary entry.
type VRMismatchPolicy int

const (
	// PreferDataSetVR keeps the VR found in the stream
	PreferDataSetVR VRMismatchPolicy = iota
	// PreferDictionaryVR uses the dictionary VR whenever the tag is known
	PreferDictionaryVR
	// PreferDictionaryVRForUN uses the dictionary VR only for elements encoded as UN
	PreferDictionaryVRForUN
)

func (p VRMismatchPolicy) String() string {
	switch p {
	case PreferDataSetVR:
		return "PreferDataSetVR"
	case PreferDictionaryVR:
		return "PreferDictionaryVR"
	case PreferDictionaryVRForUN:
		return "PreferDictionaryVRForUN"
	}
	return fmt.Sprintf("VRMismatchPolicy(%d)", int(p))
}

// Transform describes a transformation applied to a DataElement
type Transform func(*DataElement) (*DataElement, error)

// ParseOption configures the behavior of the Parse function.
type ParseOption struct {
	transform Transform
	configure func(*parseConfig)
}

type parseConfig struct {
	dict       *Dictionary
	policy     VRMismatchPolicy
	strict     bool
	charset    *CharacterSet
	syntax     *TransferSyntax
	logger     zerolog.Logger
	transforms []Transform
}

func newParseConfig(opts []ParseOption) *parseConfig {
	cfg := &parseConfig{policy: PreferDataSetVR, logger: zerolog.Nop()}
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

// WithTransform returns a ParseOption that applies the given transformation to each DataElement in
// the DICOM file in the order encountered. For DataElements that contain a sequence, the transform
// is applied to nested DataElements first (i.e. transform is called on DataElements in post-order).
// If the transform returns an error, Parse will stop parsing and return an error.
// If no error is returned and a non-nil DataElement is returned, this DataElement will be added to
// the returned DataSet of Parse. If a nil DataElement is returned, this DataElement will be
// excluded from the DataSet returned from Parse.
func WithTransform(t Transform) ParseOption {
	return ParseOption{transform: t}
}

// WithDictionary resolves VRs with dict instead of the standard dictionary
func WithDictionary(dict *Dictionary) ParseOption {
	return ParseOption{configure: func(c *parseConfig) {
		c.dict = dict
	}}
}

// WithVRPolicy sets how disagreeing stream and dictionary VRs are resolved. The default is
// PreferDataSetVR.
func WithVRPolicy(policy VRMismatchPolicy) ParseOption {
	return ParseOption{configure: func(c *parseConfig) {
		c.policy = policy
	}}
}

// WithCheckValues sets how value constraint violations found while parsing are handled. When
// strict, Parse returns every violation joined in its error after parsing the whole Data Set.
// Otherwise violations are logged at warn level, which is the default.
func WithCheckValues(strict bool) ParseOption {
	return ParseOption{configure: func(c *parseConfig) {
		c.strict = strict
	}}
}

// WithCharacterSet sets the character set of Data Sets without Specific Character Set
func WithCharacterSet(cs *CharacterSet) ParseOption {
	return ParseOption{configure: func(c *parseConfig) {
		c.charset = cs
	}}
}

// WithTransferSyntax sets the transfer syntax of a Data Set stream without File Meta Information.
// It is required by ParseDataSet and ignored by Parse.
func WithTransferSyntax(uid string) ParseOption {
	return ParseOption{configure: func(c *parseConfig) {
		c.syntax = lookupTransferSyntax(uid)
	}}
}

// WithLogger sets the logger used while parsing. Nothing is logged by default.
func WithLogger(logger zerolog.Logger) ParseOption {
	return ParseOption{configure: func(c *parseConfig) {
		c.logger = logger
	}}
}

// DropGroupLengths will exclude all group length elements (gggg,0000) from the returned DataSet
var DropGroupLengths = WithTransform(func(element *DataElement) (*DataElement, error) {
	if element.Tag.IsGroupLength() {
		return nil, nil
	}
	return element, nil
})

// DropBasicOffsetTable will empty the basic offset table fragment of pixel data encoded using
// the encapsulated (compressed) format. For more information on the offset table and encapsulated
// formats please see http://dicom.nema.org/medical/dicom/current/output/html/part05.html#sect_A.4
var DropBasicOffsetTable = WithTransform(func(element *DataElement) (*DataElement, error) {
	if ps, ok := element.ValueField.(*PixelSequence); ok && element.Tag == PixelDataTag {
		if len(ps.Fragments) == 0 {
			return nil, fmt.Errorf("discarding offset table: no offset table item")
		}
		ps.Fragments[0] = []byte{}
	}
	return element, nil
})
