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
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

var defaultCharacterRepertoire encoding.Encoding = charmap.Windows1252

const (
	backslash = 0x5C
	esc       = 0x1B
)

// lookupLabelByTerm is a mapping of specific character set defined terms to golang charset labels.
// See link below for list of character set defined terms.
// http://dicom.nema.org/medical/dicom/current/output/chtml/part02/sect_D.6.2.html
var lookupLabelByTerm = map[string]string{
	"ISO_IR 6":   "us-ascii",
	"ISO_IR 100": "iso-ir-100",
	"ISO_IR 101": "iso-ir-101",
	"ISO_IR 109": "iso-ir-109",
	"ISO_IR 110": "iso-ir-110",
	"ISO_IR 144": "iso-ir-144",
	"ISO_IR 127": "iso-ir-127",
	"ISO_IR 126": "iso-ir-126",
	"ISO_IR 138": "iso-ir-138",
	"ISO_IR 148": "iso-ir-148",
	"ISO_IR 203": "iso-8859-15",
	"ISO_IR 13":  "shift-jis",
	"ISO_IR 166": "tis-620",
	"ISO_IR 192": "utf-8",
	"GB18030":    "gb18030",
	"GBK":        "gbk",

	"ISO 2022 IR 6":   "us-ascii",
	"ISO 2022 IR 100": "iso-ir-100",
	"ISO 2022 IR 101": "iso-ir-101",
	"ISO 2022 IR 109": "iso-ir-109",
	"ISO 2022 IR 110": "iso-ir-110",
	"ISO 2022 IR 144": "iso-ir-144",
	"ISO 2022 IR 127": "iso-ir-127",
	"ISO 2022 IR 126": "iso-ir-126",
	"ISO 2022 IR 138": "iso-ir-138",
	"ISO 2022 IR 148": "iso-ir-148",
	"ISO 2022 IR 203": "iso-8859-15",
	"ISO 2022 IR 13":  "shift-jis",
	"ISO 2022 IR 166": "tis-620",
	"ISO 2022 IR 87":  "iso-2022-jp",
	"ISO 2022 IR 159": "iso-2022-jp",
	"ISO 2022 IR 149": "iso-ir-149",
	"ISO 2022 IR 58":  "gb2312",
}

func lookupEncoding(term string) (encoding.Encoding, error) {
	label, ok := lookupLabelByTerm[term]
	if !ok {
		return nil, fmt.Errorf("specific character set defined term not found: %v", term)
	}

	// charset.Lookup escapes unsupported code points as HTML when encoding, so only its canonical
	// name is kept and the encoding itself comes from the index
	if _, name := charset.Lookup(label); name != "" {
		label = name
	}
	coding, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("missing encoding for label %q: %v", label, err)
	}
	return coding, nil
}

// delimiterScheme describes how bytes of a character string must be walked to find the value
// delimiter 0x5C.
type delimiterScheme int

const (
	// every 0x5C is a delimiter
	singleByteScheme delimiterScheme = iota
	// GB18030 and GBK: 0x5C can be the trailing byte of a 2-byte code point
	gbScheme
	// ISO 2022 code extensions: 0x5C inside a 2-byte G0 set or JIS X 0201 Roman is not a delimiter
	iso2022Scheme
)

// g0Set is the character set designated to G0 by the most recent ISO 2022 escape sequence.
type g0Set int

const (
	g0ASCII g0Set = iota
	g0JISRoman
	g0TwoByte
)

// iso2022Escape describes the effect of one escape sequence from PS3.3 C.12.1.1.2.
type iso2022Escape struct {
	g0 g0Set
	// g1 is true when the escape designates a set to G1 rather than G0
	g1       bool
	encoding encoding.Encoding
}

var iso2022Escapes = map[string]iso2022Escape{
	"\x1b(B":  {g0: g0ASCII},
	"\x1b(J":  {g0: g0JISRoman, encoding: japanese.ISO2022JP},
	"\x1b$B":  {g0: g0TwoByte, encoding: japanese.ISO2022JP},
	"\x1b$@":  {g0: g0TwoByte, encoding: japanese.ISO2022JP},
	"\x1b$(D": {g0: g0TwoByte, encoding: japanese.ISO2022JP},
	"\x1b)I":  {g1: true, encoding: japanese.ShiftJIS},
	"\x1b$)C": {g1: true, encoding: korean.EUCKR},
	"\x1b$)A": {g1: true, encoding: simplifiedchinese.GBK},
	"\x1b-A":  {g1: true, encoding: charmap.ISO8859_1},
	"\x1b-B":  {g1: true, encoding: charmap.ISO8859_2},
	"\x1b-C":  {g1: true, encoding: charmap.ISO8859_3},
	"\x1b-D":  {g1: true, encoding: charmap.ISO8859_4},
	"\x1b-F":  {g1: true, encoding: charmap.ISO8859_7},
	"\x1b-G":  {g1: true, encoding: charmap.ISO8859_6},
	"\x1b-H":  {g1: true, encoding: charmap.ISO8859_8},
	"\x1b-L":  {g1: true, encoding: charmap.ISO8859_5},
	"\x1b-M":  {g1: true, encoding: charmap.ISO8859_9},
	"\x1b-T":  {g1: true, encoding: charmap.Windows874},
	"\x1b-b":  {g1: true, encoding: charmap.ISO8859_15},
}

// matchEscape returns the escape sequence starting at b[0] and its length, or 0 if the bytes do
// not start with a known escape sequence.
func matchEscape(b []byte) (iso2022Escape, int) {
	for _, n := range []int{4, 3} {
		if len(b) < n {
			continue
		}
		if e, ok := iso2022Escapes[string(b[:n])]; ok {
			return e, n
		}
	}
	return iso2022Escape{}, 0
}

// CharacterSet models the value of Specific Character Set (0008,0005). It determines how the bytes
// of the character string VRs (SH, LO, ST, LT, PN, UC, UT) are split into values and decoded.
// http://dicom.nema.org/medical/dicom/current/output/html/part05.html#chapter_6
type CharacterSet struct {
	// Terms are the defined terms in the order given by the Data Set. An empty first term
	// stands for the default character repertoire.
	Terms []string

	scheme    delimiterScheme
	encodings []encoding.Encoding
}

// DefaultCharacterSet is the default character repertoire (ISO IR 6) used when a Data Set does not
// contain Specific Character Set.
var DefaultCharacterSet = &CharacterSet{Terms: []string{""}, scheme: singleByteScheme,
	encodings: []encoding.Encoding{defaultCharacterRepertoire}}

// NewCharacterSet returns the CharacterSet defined by the values of Specific Character Set.
// Unknown defined terms are an error.
func NewCharacterSet(terms ...string) (*CharacterSet, error) {
	if len(terms) == 0 || (len(terms) == 1 && strings.TrimSpace(terms[0]) == "") {
		return DefaultCharacterSet, nil
	}

	cs := &CharacterSet{scheme: singleByteScheme}
	for i, t := range terms {
		t = strings.TrimSpace(t)
		cs.Terms = append(cs.Terms, t)
		if t == "" {
			if i != 0 {
				return nil, fmt.Errorf("empty defined term at position %d", i)
			}
			cs.encodings = append(cs.encodings, defaultCharacterRepertoire)
			continue
		}
		enc, err := lookupEncoding(t)
		if err != nil {
			return nil, err
		}
		cs.encodings = append(cs.encodings, enc)

		switch {
		case t == "GB18030" || t == "GBK":
			cs.scheme = gbScheme
		case strings.HasPrefix(t, "ISO 2022"):
			cs.scheme = iso2022Scheme
		}
	}
	if len(cs.Terms) > 1 {
		// multiple values always imply code extensions
		cs.scheme = iso2022Scheme
	}
	return cs, nil
}

// ParseCharacterSet returns the CharacterSet for the raw value of Specific Character Set.
func ParseCharacterSet(raw []byte) (*CharacterSet, error) {
	parts := strings.Split(string(raw), "\\")
	return NewCharacterSet(parts...)
}

func (cs *CharacterSet) String() string {
	return strings.Join(cs.Terms, "\\")
}

// Encoding returns the encoding of the first defined term
func (cs *CharacterSet) Encoding() encoding.Encoding {
	return cs.encodings[0]
}

// isDefault is true for the default character repertoire
func (cs *CharacterSet) isDefault() bool {
	return cs == nil || (len(cs.Terms) == 1 && cs.Terms[0] == "")
}

// delimiters returns the positions of every value delimiter in b. The walk never stops at NUL
// bytes.
func (cs *CharacterSet) delimiters(b []byte) []int {
	scheme := singleByteScheme
	if cs != nil {
		scheme = cs.scheme
	}

	var positions []int
	switch scheme {
	case gbScheme:
		for i := 0; i < len(b); {
			c := b[i]
			if c >= 0x81 && c <= 0xFE && i+1 < len(b) {
				if next := b[i+1]; next >= 0x30 && next <= 0x39 {
					// four byte sequence: lead, digit, lead, digit
					i += 4
				} else {
					i += 2
				}
				continue
			}
			if c == backslash {
				positions = append(positions, i)
			}
			i++
		}
	case iso2022Scheme:
		g0 := g0ASCII
		for i := 0; i < len(b); {
			c := b[i]
			if c == esc {
				if e, n := matchEscape(b[i:]); n > 0 {
					if !e.g1 {
						g0 = e.g0
					}
					i += n
					continue
				}
			}
			switch g0 {
			case g0TwoByte:
				if c >= 0x21 && c <= 0x7E {
					i += 2
					continue
				}
			case g0JISRoman:
				// 0x5C is the Yen sign in JIS X 0201 Roman
				i++
				continue
			}
			if c == backslash {
				positions = append(positions, i)
			}
			i++
		}
	default:
		for i, c := range b {
			if c == backslash {
				positions = append(positions, i)
			}
		}
	}
	return positions
}

// split returns the values of b separated by the delimiters found by a character set aware walk.
// An empty b has no values.
func (cs *CharacterSet) split(b []byte) [][]byte {
	if len(b) == 0 {
		return nil
	}
	var values [][]byte
	start := 0
	for _, pos := range cs.delimiters(b) {
		values = append(values, b[start:pos])
		start = pos + 1
	}
	return append(values, b[start:])
}

// Decode converts b from this character set to UTF-8.
func (cs *CharacterSet) Decode(b []byte) (string, error) {
	if cs.isDefault() {
		return decodeWith(defaultCharacterRepertoire, b)
	}
	if cs.scheme != iso2022Scheme {
		return decodeWith(cs.Encoding(), b)
	}
	return cs.decodeISO2022(b)
}

// decodeISO2022 decodes each run of bytes with the set designated by the escape sequence preceding
// the run. Bytes with the high bit set are decoded with the current G1 set.
func (cs *CharacterSet) decodeISO2022(b []byte) (string, error) {
	var g1 encoding.Encoding = defaultCharacterRepertoire
	if t := cs.Terms[0]; t != "" && t != "ISO 2022 IR 6" {
		g1 = cs.encodings[0]
	}
	var (
		sb     strings.Builder
		g0     = iso2022Escape{g0: g0ASCII}
		g0Seq  string
		runBeg int
	)
	flush := func(run []byte) error {
		if len(run) == 0 {
			return nil
		}
		var (
			s   string
			err error
		)
		if g0.g0 == g0ASCII {
			s, err = decodeWith(g1, run)
		} else {
			s, err = decodeWith(g0.encoding, append([]byte(g0Seq), run...))
		}
		if err != nil {
			return err
		}
		sb.WriteString(s)
		return nil
	}

	for i := 0; i < len(b); {
		if b[i] != esc {
			i++
			continue
		}
		e, n := matchEscape(b[i:])
		if n == 0 {
			i++
			continue
		}
		if err := flush(b[runBeg:i]); err != nil {
			return "", err
		}
		if e.g1 {
			g1 = e.encoding
		} else {
			g0, g0Seq = e, string(b[i:i+n])
		}
		i += n
		runBeg = i
	}
	if err := flush(b[runBeg:]); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Encode converts the UTF-8 string s to this character set. Only the first defined term is used
// to encode.
func (cs *CharacterSet) Encode(s string) ([]byte, error) {
	if cs.isDefault() {
		return []byte(s), nil
	}
	enc := cs.Encoding()
	if enc == unicode.UTF8 {
		return []byte(s), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %q in %v: %v", s, cs, err)
	}
	return out, nil
}

func decodeWith(enc encoding.Encoding, b []byte) (string, error) {
	if enc == nil || enc == unicode.UTF8 {
		return string(bytes.ToValidUTF8(b, []byte("�"))), nil
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding: %v", err)
	}
	return string(out), nil
}
