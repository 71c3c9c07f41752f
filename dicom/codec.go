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
	"sync"

	"github.com/elliotchance/orderedmap/v3"
)

// Codec decodes the encapsulated pixel data of compressed transfer syntaxes
type Codec interface {
	// Name returns a human-readable name
	Name() string

	// CanHandle reports whether the codec decodes pixel data of the transfer syntax
	CanHandle(syntax *TransferSyntax) bool

	// DecodedBitsAllocated returns the Bits Allocated of decoded frames of pixel data with the given
	// Bits Allocated and Bits Stored, or false if the codec cannot decode such pixel data.
	DecodedBitsAllocated(bitsAllocated, bitsStored uint16) (uint16, bool)

	// UncompressedFrameSize returns the number of bytes of the decoded frame, derived from the
	// geometry found in the compressed frame. It returns 0 if the frame does not tell.
	UncompressedFrameSize(g *ImageGeometry, frame []byte) (uint32, error)

	// DecodeFragment decodes the compressed bytes of one frame into native pixel data
	DecodeFragment(g *ImageGeometry, frame []byte) ([]byte, error)
}

// DefaultDecodedBitsAllocated is the decoded Bits Allocated of pixel data without a codec
// override: bitsAllocated, unless bitsStored exceeds it.
func DefaultDecodedBitsAllocated(bitsAllocated, bitsStored uint16) (uint16, bool) {
	if bitsStored > bitsAllocated {
		return 0, false
	}
	return bitsAllocated, true
}

// CodecRegistry holds the codecs registered for transfer syntaxes. Lookups may run concurrently;
// Register and Unregister exclude them while they modify the registry.
type CodecRegistry struct {
	mu sync.RWMutex
	// codecs by transfer syntax UID, in registration order
	codecs *orderedmap.OrderedMap[string, Codec]
}

// NewCodecRegistry returns an empty registry
func NewCodecRegistry() *CodecRegistry {
	return &CodecRegistry{codecs: orderedmap.NewOrderedMap[string, Codec]()}
}

// DefaultCodecRegistry is the registry used when no other is given. It is empty until the hosting
// application registers codecs, for example with RegisterBuiltinCodecs.
var DefaultCodecRegistry = NewCodecRegistry()

// Register makes codec decode pixel data in the transfer syntax with the given UID, replacing any
// codec registered for it
func (r *CodecRegistry) Register(uid string, codec Codec) error {
	if !codec.CanHandle(lookupTransferSyntax(uid)) {
		return fmt.Errorf("codec %s cannot handle transfer syntax %s: %w", codec.Name(), uid,
			ErrInvalidValue)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs.Set(uid, codec)
	return nil
}

// Unregister removes the codec registered for the transfer syntax with the given UID. It reports
// whether a codec was registered.
func (r *CodecRegistry) Unregister(uid string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.codecs.Delete(uid)
}

// Lookup returns the codec registered for the transfer syntax. A syntax without a codec registered
// for its UID is given to the first codec registered that can handle it.
func (r *CodecRegistry) Lookup(syntax *TransferSyntax) (Codec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.codecs.Get(syntax.UID); ok {
		return c, true
	}
	for c := range r.codecs.Values() {
		if c.CanHandle(syntax) {
			return c, true
		}
	}
	return nil, false
}

// UIDs returns the transfer syntax UIDs with a registered codec in registration order
func (r *CodecRegistry) UIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	uids := make([]string, 0, r.codecs.Len())
	for uid := range r.codecs.Keys() {
		uids = append(uids, uid)
	}
	return uids
}

// RegisterBuiltinCodecs registers the RLE Lossless and JPEG codecs of this package with r
func RegisterBuiltinCodecs(r *CodecRegistry) error {
	rle := RLECodec{}
	if err := r.Register(RLELosslessUID, rle); err != nil {
		return err
	}
	jpeg := JPEGCodec{}
	for _, uid := range []string{JPEGBaselineUID, JPEGExtendedUID, JPEGLosslessUID, JPEGLosslessSV1UID} {
		if err := r.Register(uid, jpeg); err != nil {
			return err
		}
	}
	return nil
}

// UnregisterBuiltinCodecs removes the codecs registered by RegisterBuiltinCodecs from r
func UnregisterBuiltinCodecs(r *CodecRegistry) {
	for _, uid := range []string{RLELosslessUID, JPEGBaselineUID, JPEGExtendedUID, JPEGLosslessUID,
		JPEGLosslessSV1UID} {
		r.Unregister(uid)
	}
}
