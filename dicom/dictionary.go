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

//go:generate go run ../cmd/dcmtaggen -dict dicom.dic -out tags.go

import (
	"fmt"
	"strings"
	"sync"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/rs/zerolog"
)

// VariableVM is the DictEntry.VMMax of entries with unbounded value multiplicity ("1-n")
const VariableVM = -1

// RangeRestriction restricts the group or element numbers matched by a repeating DictEntry
type RangeRestriction int

const (
	// RangeUnspecified matches every number within the range
	RangeUnspecified RangeRestriction = iota
	// RangeEven matches even numbers within the range
	RangeEven
	// RangeOdd matches odd numbers within the range
	RangeOdd
)

func (r RangeRestriction) allows(n uint16) bool {
	switch r {
	case RangeEven:
		return n%2 == 0
	case RangeOdd:
		return n%2 == 1
	}
	return true
}

func (r RangeRestriction) String() string {
	switch r {
	case RangeEven:
		return "e"
	case RangeOdd:
		return "o"
	}
	return "u"
}

// DictEntry describes a Data Element or a range of Data Elements in the data dictionary.
// A normal entry has Tag == UpperTag. A repeating entry matches every tag whose group lies in
// [Tag.GroupNumber(), UpperTag.GroupNumber()] and whose element lies in
// [Tag.ElementNumber(), UpperTag.ElementNumber()], subject to the range restrictions.
type DictEntry struct {
	Tag      DataElementTag
	UpperTag DataElementTag

	GroupRestriction   RangeRestriction
	ElementRestriction RangeRestriction

	VR   *VR
	Name string

	VMMin        int
	VMMax        int
	VMMultipleOf int

	// PrivateCreator is empty for standard entries. For private entries the element number only
	// holds the low byte (yy of (gggg,xxyy)).
	PrivateCreator string

	// Version is the source of the entry, e.g. "DICOM", "DICOM/retired" or a vendor name
	Version string
}

// IsRepeating is true if the entry matches a range of tags
func (e *DictEntry) IsRepeating() bool {
	return e.Tag != e.UpperTag
}

// IsPrivate is true if the entry belongs to a private creator
func (e *DictEntry) IsPrivate() bool {
	return e.PrivateCreator != ""
}

// Retired is true if the entry has been retired from the standard
func (e *DictEntry) Retired() bool {
	return strings.HasSuffix(strings.ToLower(e.Version), "retired")
}

// VM returns the value multiplicity in the notation of the standard, e.g. "1", "1-n", "2-2n"
func (e *DictEntry) VM() string {
	switch {
	case e.VMMax == VariableVM && e.VMMultipleOf > 1:
		return fmt.Sprintf("%d-%dn", e.VMMin, e.VMMultipleOf)
	case e.VMMax == VariableVM:
		return fmt.Sprintf("%d-n", e.VMMin)
	case e.VMMin == e.VMMax:
		return fmt.Sprintf("%d", e.VMMin)
	}
	return fmt.Sprintf("%d-%d", e.VMMin, e.VMMax)
}

// AllowsVM is true if vm satisfies the value multiplicity of the entry
func (e *DictEntry) AllowsVM(vm int) bool {
	if vm < e.VMMin {
		return false
	}
	if e.VMMax != VariableVM && vm > e.VMMax {
		return false
	}
	if e.VMMultipleOf > 1 && vm%e.VMMultipleOf != 0 {
		return false
	}
	return true
}

// contains is true if the (group, element) of tag is within the ranges of the entry
func (e *DictEntry) contains(tag DataElementTag) bool {
	g, el := tag.GroupNumber(), tag.ElementNumber()
	if g < e.Tag.GroupNumber() || g > e.UpperTag.GroupNumber() || !e.GroupRestriction.allows(g) {
		return false
	}
	return el >= e.Tag.ElementNumber() && el <= e.UpperTag.ElementNumber() &&
		e.ElementRestriction.allows(el)
}

// sameRange is true if both entries cover the same tags for the same private creator
func (e *DictEntry) sameRange(o *DictEntry) bool {
	return e.Tag == o.Tag && e.UpperTag == o.UpperTag && e.GroupRestriction == o.GroupRestriction &&
		e.ElementRestriction == o.ElementRestriction && e.PrivateCreator == o.PrivateCreator
}

func (e *DictEntry) String() string {
	tag := e.Tag.String()
	if e.IsRepeating() {
		tag = fmt.Sprintf("(%04X-%v-%04X,%04X-%v-%04X)",
			e.Tag.GroupNumber(), e.GroupRestriction, e.UpperTag.GroupNumber(),
			e.Tag.ElementNumber(), e.ElementRestriction, e.UpperTag.ElementNumber())
	}
	if e.IsPrivate() {
		tag = fmt.Sprintf("(%04X,%q,%02X)", e.Tag.GroupNumber(), e.PrivateCreator, e.Tag.ElementNumber())
	}
	return fmt.Sprintf("%s\t%v\t%s\t%s\t%s", tag, e.VR, e.Name, e.VM(), e.Version)
}

type dictKey struct {
	tag     DataElementTag
	creator string
}

// privateKey maps the private element (gggg,xxyy) to the key (gggg,00yy) private entries are
// stored under.
func privateKey(tag DataElementTag, creator string) dictKey {
	return dictKey{NewTag(tag.GroupNumber(), tag.ElementNumber()&0x00FF), creator}
}

// Dictionary maps tags to their DictEntry. A Dictionary is safe for concurrent use: any number of
// lookups may run in parallel while mutations (AddEntry, Clear, Load) exclude all lookups for
// their duration.
type Dictionary struct {
	mu sync.RWMutex

	normal    *orderedmap.OrderedMap[dictKey, *DictEntry]
	repeating []*DictEntry
	names     map[string]*DictEntry

	skeletonCount int
	loaded        bool

	logger zerolog.Logger
}

// NewDictionary returns a Dictionary holding only the skeleton entries: the generic group
// length, Item, Item Delimitation Item and Sequence Delimitation Item.
func NewDictionary(logger zerolog.Logger) *Dictionary {
	d := &Dictionary{logger: logger}
	d.reset()
	d.loadSkeleton()
	return d
}

func (d *Dictionary) reset() {
	d.normal = orderedmap.NewOrderedMap[dictKey, *DictEntry]()
	d.repeating = nil
	d.names = map[string]*DictEntry{}
	d.skeletonCount = 0
	d.loaded = false
}

func (d *Dictionary) loadSkeleton() {
	skeleton := []*DictEntry{
		{Tag: NewTag(0x0000, 0x0000), UpperTag: NewTag(0xFFFF, 0x0000), VR: ULVR,
			Name: "GenericGroupLength", VMMin: 1, VMMax: 1, VMMultipleOf: 1, Version: "GENERIC"},
		{Tag: ItemTag, UpperTag: ItemTag, VR: NAVR,
			Name: "Item", VMMin: 1, VMMax: 1, VMMultipleOf: 1, Version: "DICOM"},
		{Tag: ItemDelimitationItemTag, UpperTag: ItemDelimitationItemTag, VR: NAVR,
			Name: "ItemDelimitationItem", VMMin: 1, VMMax: 1, VMMultipleOf: 1, Version: "DICOM"},
		{Tag: SequenceDelimitationItemTag, UpperTag: SequenceDelimitationItemTag, VR: NAVR,
			Name: "SequenceDelimitationItem", VMMin: 1, VMMax: 1, VMMultipleOf: 1, Version: "DICOM"},
	}
	for _, e := range skeleton {
		d.addEntry(e)
	}
	d.skeletonCount = len(skeleton)
}

// AddEntry inserts e, replacing any entry with the same tag (or range) and private creator
func (d *Dictionary) AddEntry(e *DictEntry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.addEntry(e)
}

func (d *Dictionary) addEntry(e *DictEntry) {
	if e.VMMultipleOf == 0 {
		e.VMMultipleOf = 1
	}
	if e.IsPrivate() && !e.IsRepeating() {
		e.Tag = privateKey(e.Tag, e.PrivateCreator).tag
		e.UpperTag = e.Tag
	}

	var replaced *DictEntry
	if e.IsRepeating() {
		for i, old := range d.repeating {
			if old.sameRange(e) {
				replaced, d.repeating[i] = old, e
				break
			}
		}
		if replaced == nil {
			d.repeating = append(d.repeating, e)
		}
	} else {
		key := dictKey{e.Tag, e.PrivateCreator}
		replaced, _ = d.normal.Get(key)
		d.normal.Set(key, e)
	}

	if replaced != nil && d.names[replaced.Name] == replaced {
		delete(d.names, replaced.Name)
	}
	d.names[e.Name] = e
}

// FindEntry returns the entry describing tag. For private elements the private creator reserving
// the block of the element must be given, otherwise creator must be empty. Normal entries are
// searched before repeating entries.
func (d *Dictionary) FindEntry(tag DataElementTag, creator string) (*DictEntry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	key := dictKey{tag, ""}
	if creator != "" {
		key = privateKey(tag, creator)
	}
	if e, ok := d.normal.Get(key); ok {
		return e, true
	}

	for _, e := range d.repeating {
		if e.PrivateCreator != creator {
			continue
		}
		if creator != "" {
			if e.contains(key.tag) {
				return e, true
			}
			continue
		}
		if e.contains(tag) {
			return e, true
		}
	}
	return nil, false
}

// FindEntryByName returns the entry with the given keyword
func (d *Dictionary) FindEntryByName(name string) (*DictEntry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.names[name]
	return e, ok
}

// Clear removes every entry including the skeleton entries
func (d *Dictionary) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

// IsLoaded is true if the last source loaded into the dictionary was read without errors
func (d *Dictionary) IsLoaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// NumberOfEntries returns the total number of normal and repeating entries
func (d *Dictionary) NumberOfEntries() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.normal.Len() + len(d.repeating)
}

// NumberOfNormalEntries returns the number of entries matching exactly one tag
func (d *Dictionary) NumberOfNormalEntries() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.normal.Len()
}

// NumberOfRepeatingEntries returns the number of entries matching a range of tags
func (d *Dictionary) NumberOfRepeatingEntries() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.repeating)
}

// HasEntries is true if the dictionary holds more than the skeleton entries. Parsing implicit VR
// Data Sets requires a dictionary with entries.
func (d *Dictionary) HasEntries() bool {
	return d.NumberOfEntries() > d.skeletonEntries()
}

func (d *Dictionary) skeletonEntries() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.skeletonCount
}

// StandardEntries returns the non-private entries, normal entries first, each group in the order
// they were added.
func (d *Dictionary) StandardEntries() []*DictEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var ret []*DictEntry
	for e := range d.normal.Values() {
		if !e.IsPrivate() {
			ret = append(ret, e)
		}
	}
	for _, e := range d.repeating {
		if !e.IsPrivate() {
			ret = append(ret, e)
		}
	}
	return ret
}

// lookupVR returns the dictionary VR of tag, or UN if the tag is unknown
func (d *Dictionary) lookupVR(tag DataElementTag, creator string) *VR {
	if e, ok := d.FindEntry(tag, creator); ok {
		return e.VR
	}
	return UNVR
}

var (
	standardDictionary     *Dictionary
	standardDictionaryOnce sync.Once
)

// StandardDictionary returns the shared Dictionary holding the skeleton, the built in data
// dictionary and any external dictionaries named by DCMDICTPATH. It is built on first use.
func StandardDictionary() *Dictionary {
	standardDictionaryOnce.Do(func() {
		standardDictionary = NewDictionary(zerolog.Nop())
		if err := standardDictionary.LoadBuiltin(); err != nil {
			standardDictionary.logger.Error().Err(err).Msg("loading builtin dictionary")
		}
		if err := standardDictionary.LoadExternal(); err != nil {
			standardDictionary.logger.Error().Err(err).Msg("loading external dictionaries")
		}
	})
	return standardDictionary
}
