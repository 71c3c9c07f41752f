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
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestStandardDictionary_FindEntry(t *testing.T) {
	dict := StandardDictionary()
	tests := []struct {
		name    string
		tag     DataElementTag
		creator string
		want    string
		vr      *VR
	}{
		{"normal entry", PatientNameTag, "", "PatientName", PNVR},
		{"meta element", TransferSyntaxUIDTag, "", "TransferSyntaxUID", UIVR},
		{"repeating even group", NewTag(0x6002, 0x3000), "", "OverlayData", OXVR},
		{"repeating group length", NewTag(0x0010, 0x0000), "", "GenericGroupLength", ULVR},
		{"private creator range", NewTag(0x0029, 0x0010), "", "PrivateCreator", LOVR},
		{"private element", NewTag(0x0029, 0x1010), "SIEMENS CSA HEADER", "CSAImageHeaderInfo", OBVR},
		{"private element in another block", NewTag(0x0029, 0x2210), "SIEMENS CSA HEADER",
			"CSAImageHeaderInfo", OBVR},
		{"pixel data", PixelDataTag, "", "PixelData", PXVR},
		{"item", ItemTag, "", "Item", NAVR},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, ok := dict.FindEntry(tc.tag, tc.creator)
			if !ok {
				t.Fatalf("FindEntry(%v, %q) found nothing", tc.tag, tc.creator)
			}
			if e.Name != tc.want || e.VR != tc.vr {
				t.Fatalf("got %v %v, want %v %v", e.Name, e.VR, tc.want, tc.vr)
			}
		})
	}
}

func TestStandardDictionary_FindEntry_NotFound(t *testing.T) {
	dict := StandardDictionary()
	tests := []struct {
		tag     DataElementTag
		creator string
	}{
		// overlays only repeat in even groups
		{NewTag(0x6001, 0x3000), ""},
		// private elements need their creator
		{NewTag(0x0029, 0x1010), ""},
		{NewTag(0x0029, 0x1010), "UNKNOWN CREATOR"},
		{NewTag(0x0010, 0x9999), ""},
	}
	for _, tc := range tests {
		if e, ok := dict.FindEntry(tc.tag, tc.creator); ok {
			t.Fatalf("FindEntry(%v, %q) = %v, want nothing", tc.tag, tc.creator, e)
		}
		if vr := dict.lookupVR(tc.tag, tc.creator); vr != UNVR {
			t.Fatalf("lookupVR(%v, %q) = %v, want %v", tc.tag, tc.creator, vr, UNVR)
		}
	}
}

func TestStandardDictionary_Loaded(t *testing.T) {
	dict := StandardDictionary()
	if !dict.IsLoaded() || !dict.HasEntries() {
		t.Fatalf("expected the standard dictionary to be loaded")
	}
	if dict != StandardDictionary() {
		t.Fatalf("expected the standard dictionary to be shared")
	}
	if got := dict.NumberOfNormalEntries() + dict.NumberOfRepeatingEntries(); got != dict.NumberOfEntries() {
		t.Fatalf("got %d normal and repeating entries, want %d", got, dict.NumberOfEntries())
	}
	e, ok := dict.FindEntryByName("LengthToEnd")
	if !ok || !e.Retired() {
		t.Fatalf("expected LengthToEnd to be a retired entry, got %v", e)
	}
}

func TestDictionary_StandardEntries(t *testing.T) {
	dict := StandardDictionary()
	entries := dict.StandardEntries()
	if len(entries) == 0 {
		t.Fatalf("expected standard entries")
	}
	private := 0
	for _, e := range entries {
		if e.IsPrivate() {
			t.Fatalf("unexpected private entry %v", e)
		}
	}
	for _, e := range []string{"FullFidelity", "NumberOfCellsInDetector", "CSAImageHeaderType",
		"CSAImageHeaderInfo", "CSASeriesHeaderInfo"} {
		if _, ok := dict.FindEntryByName(e); ok {
			private++
		}
	}
	if got, want := len(entries), dict.NumberOfEntries()-private; got != want {
		t.Fatalf("got %d standard entries, want %d", got, want)
	}
	// normal entries come first, in the order they were added
	if entries[0].Tag != ItemTag {
		t.Fatalf("got first entry %v, want %v", entries[0], ItemTag)
	}
}

func TestNewDictionary_Skeleton(t *testing.T) {
	dict := NewDictionary(zerolog.Nop())
	if got := dict.NumberOfEntries(); got != 4 {
		t.Fatalf("got %d entries, want 4", got)
	}
	if got := dict.NumberOfRepeatingEntries(); got != 1 {
		t.Fatalf("got %d repeating entries, want 1", got)
	}
	if dict.HasEntries() {
		t.Fatalf("expected a skeleton dictionary to have no entries")
	}
	if dict.IsLoaded() {
		t.Fatalf("expected a skeleton dictionary not to be loaded")
	}
	for _, tag := range []DataElementTag{ItemTag, ItemDelimitationItemTag, SequenceDelimitationItemTag,
		NewTag(0x0008, 0x0000)} {
		if _, ok := dict.FindEntry(tag, ""); !ok {
			t.Fatalf("expected skeleton entry for %v", tag)
		}
	}

	dict.Clear()
	if got := dict.NumberOfEntries(); got != 0 {
		t.Fatalf("got %d entries after Clear, want 0", got)
	}
}

func TestDictionary_Load(t *testing.T) {
	const source = "# test dictionary\n" +
		"(0011,0010)\tLO\tGoodName\t1\tTEST\n" +
		"(0011,00\tLO\tBadTag\n" +
		"(0011,0011)\tZZ\tBadVR\n" +
		"\n" +
		"(0011,0012)\tUS\tTriplet\t3\n" +
		"(0011,0013)\tDS\tBadVM\t3-1\n" +
		"(7001-o-7FFF,0020)\tCS\tOddRange\t1-n\n" +
		"(0013,\"ACME 1.0\",01)\tSH\tAcmeName\t1\tACME\n"

	dict := NewDictionary(zerolog.Nop())
	err := dict.Load(strings.NewReader(source), "test.dic")
	if err == nil {
		t.Fatalf("expected errors for the malformed lines")
	}
	var lineErr *DictionaryLineError
	if !errors.As(err, &lineErr) {
		t.Fatalf("expected a *DictionaryLineError, got %v", err)
	}
	if lineErr.Source != "test.dic" || lineErr.Line != 3 {
		t.Fatalf("got %v:%d, want test.dic:3", lineErr.Source, lineErr.Line)
	}
	if got := len(flattenErrors(err)); got != 3 {
		t.Fatalf("got %d line errors, want 3: %v", got, err)
	}
	if dict.IsLoaded() {
		t.Fatalf("expected a dictionary loaded with errors not to be loaded")
	}

	e, ok := dict.FindEntryByName("GoodName")
	if !ok || e.Tag != NewTag(0x0011, 0x0010) || e.VR != LOVR || e.Version != "TEST" {
		t.Fatalf("got %v, want (0011,0010) LO GoodName", e)
	}
	if e, ok := dict.FindEntry(NewTag(0x0011, 0x0012), ""); !ok || e.VM() != "3" || e.Version != "DICOM" {
		t.Fatalf("got %v, want Triplet with VM 3", e)
	}
	if e, ok := dict.FindEntry(NewTag(0x7003, 0x0020), ""); !ok || e.Name != "OddRange" {
		t.Fatalf("got %v, want OddRange", e)
	}
	if _, ok := dict.FindEntry(NewTag(0x7002, 0x0020), ""); ok {
		t.Fatalf("expected even group to be excluded from the odd range")
	}
	if e, ok := dict.FindEntry(NewTag(0x0013, 0x1101), "ACME 1.0"); !ok || e.Name != "AcmeName" {
		t.Fatalf("got %v, want AcmeName", e)
	}

	if err := dict.Load(strings.NewReader("(0011,0014)\tUL\tAnother\n"), "ok.dic"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dict.IsLoaded() {
		t.Fatalf("expected a dictionary loaded without errors to be loaded")
	}
}

func TestDictionary_AddEntry_Replaces(t *testing.T) {
	dict := NewDictionary(zerolog.Nop())
	tag := NewTag(0x0011, 0x0010)
	dict.AddEntry(&DictEntry{Tag: tag, UpperTag: tag, VR: LOVR, Name: "Old", VMMin: 1, VMMax: 1})
	dict.AddEntry(&DictEntry{Tag: tag, UpperTag: tag, VR: SHVR, Name: "New", VMMin: 1, VMMax: 1})

	if got := dict.NumberOfEntries(); got != 5 {
		t.Fatalf("got %d entries, want 5", got)
	}
	if _, ok := dict.FindEntryByName("Old"); ok {
		t.Fatalf("expected the replaced entry to be gone")
	}
	e, ok := dict.FindEntry(tag, "")
	if !ok || e.Name != "New" || e.VR != SHVR {
		t.Fatalf("got %v, want New SH", e)
	}
	if e.VMMultipleOf != 1 {
		t.Fatalf("got VMMultipleOf %d, want 1", e.VMMultipleOf)
	}
}

func TestDictionary_Reload(t *testing.T) {
	dict := NewDictionary(zerolog.Nop())
	if err := dict.Reload(true, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dict.HasEntries() || !dict.IsLoaded() {
		t.Fatalf("expected the builtin dictionary to be loaded")
	}
	if got, want := dict.NumberOfEntries(), StandardDictionary().NumberOfEntries(); got != want {
		t.Fatalf("got %d entries, want %d", got, want)
	}

	if err := dict.Reload(false, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dict.HasEntries() {
		t.Fatalf("expected only the skeleton after reload without sources")
	}
}

func TestDictionary_LoadExternal(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.dic")
	second := filepath.Join(dir, "second.dic")
	if err := os.WriteFile(first, []byte("(0011,0010)\tLO\tFirst\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, []byte("(0011,0011)\tLO\tSecond\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(DictionaryPathEnv, strings.Join([]string{first, second}, string(os.PathListSeparator)))

	dict := NewDictionary(zerolog.Nop())
	if err := dict.LoadExternal(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"First", "Second"} {
		if _, ok := dict.FindEntryByName(name); !ok {
			t.Fatalf("expected entry %v to be loaded", name)
		}
	}

	t.Setenv(DictionaryPathEnv, filepath.Join(dir, "missing.dic"))
	if err := dict.LoadExternal(); err == nil {
		t.Fatalf("expected an error for a missing dictionary file")
	}
}

func TestDictionary_ConcurrentUse(t *testing.T) {
	dict := NewDictionary(zerolog.Nop())
	if err := dict.LoadBuiltin(); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			tag := NewTag(0x0011, uint16(0x0010+i))
			dict.AddEntry(&DictEntry{Tag: tag, UpperTag: tag, VR: LOVR, Name: tag.String(), VMMin: 1, VMMax: 1})
		}(i)
		go func() {
			defer wg.Done()
			if _, ok := dict.FindEntry(PatientNameTag, ""); !ok {
				t.Errorf("expected PatientName to be found")
			}
		}()
	}
	wg.Wait()
}

func TestParseVMField(t *testing.T) {
	tests := []struct {
		in                         string
		wantMin, wantMax, multiple int
		wantErr                    bool
	}{
		{"1", 1, 1, 1, false},
		{"3", 3, 3, 1, false},
		{"1-3", 1, 3, 1, false},
		{"1-n", 1, VariableVM, 1, false},
		{"n", 1, VariableVM, 1, false},
		{"2-2n", 2, VariableVM, 2, false},
		{"3n", 3, VariableVM, 3, false},
		{" 1 - N ", 1, VariableVM, 1, false},
		{"3-1", 0, 0, 0, true},
		{"x", 0, 0, 0, true},
		{"1-xn", 0, 0, 0, true},
	}
	for _, tc := range tests {
		gotMin, gotMax, gotMultiple, err := parseVMField(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("parseVMField(%q) error = %v, want error %v", tc.in, err, tc.wantErr)
		}
		if gotMin != tc.wantMin || gotMax != tc.wantMax || gotMultiple != tc.multiple {
			t.Fatalf("parseVMField(%q) = %d, %d, %d, want %d, %d, %d", tc.in, gotMin, gotMax,
				gotMultiple, tc.wantMin, tc.wantMax, tc.multiple)
		}
	}
}

func TestDictEntry_VM(t *testing.T) {
	tests := []struct {
		notation string
		allowed  []int
		denied   []int
	}{
		{"1", []int{1}, []int{0, 2}},
		{"1-3", []int{1, 2, 3}, []int{0, 4}},
		{"1-n", []int{1, 2, 100}, []int{0}},
		{"2-2n", []int{2, 4, 6}, []int{0, 1, 3, 5}},
		{"3-3n", []int{3, 6}, []int{4, 5}},
	}
	for _, tc := range tests {
		vmMin, vmMax, multiple, err := parseVMField(tc.notation)
		if err != nil {
			t.Fatal(err)
		}
		e := &DictEntry{VMMin: vmMin, VMMax: vmMax, VMMultipleOf: multiple}
		if got := e.VM(); got != tc.notation {
			t.Fatalf("got %v, want %v", got, tc.notation)
		}
		for _, vm := range tc.allowed {
			if !e.AllowsVM(vm) {
				t.Fatalf("%v should allow VM %d", tc.notation, vm)
			}
		}
		for _, vm := range tc.denied {
			if e.AllowsVM(vm) {
				t.Fatalf("%v should not allow VM %d", tc.notation, vm)
			}
		}
	}
}
