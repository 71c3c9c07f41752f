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
	"testing"
)

func TestLookupVR(t *testing.T) {
	for _, name := range []string{"AE", "LO", "PN", "UN", "SQ", "OW", "SV", "UV", "xs", "ox"} {
		vr, ok := LookupVR(name)
		if !ok {
			t.Fatalf("LookupVR(%q) found nothing", name)
		}
		if vr.Name != name {
			t.Fatalf("got %v, want %v", vr.Name, name)
		}
	}
	if _, ok := LookupVR("ZZ"); ok {
		t.Fatalf("LookupVR(%q) found a VR", "ZZ")
	}
}

func TestVR_Kinds(t *testing.T) {
	tests := []struct {
		vr           *VR
		str, charset bool
		pseudo       bool
	}{
		{AEVR, true, false, false},
		{UIVR, true, false, false},
		{PNVR, true, true, false},
		{UTVR, true, true, false},
		{USVR, false, false, false},
		{OBVR, false, false, false},
		{SQVR, false, false, false},
		{XSVR, false, false, true},
	}
	for _, tc := range tests {
		if got := tc.vr.IsString(); got != tc.str {
			t.Fatalf("%v.IsString() = %v, want %v", tc.vr, got, tc.str)
		}
		if got := tc.vr.IsCharacterSetAware(); got != tc.charset {
			t.Fatalf("%v.IsCharacterSetAware() = %v, want %v", tc.vr, got, tc.charset)
		}
		if got := tc.vr.IsPseudo(); got != tc.pseudo {
			t.Fatalf("%v.IsPseudo() = %v, want %v", tc.vr, got, tc.pseudo)
		}
	}
}

func TestResolvePseudoVR(t *testing.T) {
	tests := []struct {
		vr           *VR
		signed       bool
		encapsulated bool
		length       uint32
		want         *VR
	}{
		{XSVR, false, false, 2, USVR},
		{XSVR, true, false, 2, SSVR},
		{OXVR, false, false, 8, OWVR},
		{PXVR, false, false, 8, OWVR},
		{PXVR, false, true, UndefinedLength, OBVR},
		{LTPseudoVR, true, false, 2, SSVR},
		{LTPseudoVR, false, false, 512, OWVR},
		{UPVR, false, false, 4, ULVR},
		{NAVR, false, false, 0, UNVR},
		{PNVR, true, true, 4, PNVR},
	}
	for _, tc := range tests {
		got := resolvePseudoVR(tc.vr, tc.signed, tc.encapsulated, tc.length)
		if got != tc.want {
			t.Fatalf("resolvePseudoVR(%v, %v, %v, %d) = %v, want %v", tc.vr, tc.signed,
				tc.encapsulated, tc.length, got, tc.want)
		}
	}
}
