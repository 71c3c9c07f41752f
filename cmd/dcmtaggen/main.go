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

// dcmtaggen freezes a data dictionary into Go constants, one DataElementTag per standard entry.
//
// Usage:
//
//	dcmtaggen -dict dicom.dic -out tags.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"os"
	"sort"

	"github.com/rs/zerolog"

	"github.com/googlecloudplatform/go-dicom-codec/dicom"
)

var (
	dictFlag    = flag.String("dict", "dicom.dic", "data dictionary source to read")
	outFlag     = flag.String("out", "tags.go", "Go file to write")
	packageFlag = flag.String("package", "dicom", "package name of the generated file")
	verboseFlag = flag.Bool("v", false, "log every generated constant")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *verboseFlag {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	dict := dicom.NewDictionary(logger)
	if err := dict.LoadFile(*dictFlag); err != nil {
		// malformed lines were skipped, the remaining entries are still usable
		logger.Warn().Err(err).Str("dict", *dictFlag).Msg("dictionary loaded with errors")
	}

	src, err := generate(dict.StandardEntries(), *packageFlag, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("generating tags")
	}
	if err := os.WriteFile(*outFlag, src, 0o644); err != nil {
		logger.Fatal().Err(err).Str("out", *outFlag).Msg("writing tags")
	}
	logger.Info().Str("out", *outFlag).Int("entries", dict.NumberOfEntries()).Msg("wrote tags")
}

func generate(entries []*dicom.DictEntry, pkg string, logger zerolog.Logger) ([]byte, error) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Tag < entries[j].Tag
	})

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by dcmtaggen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)
	fmt.Fprintf(&buf, "// Tags of the data dictionary. Repeating entries are named by the first tag of their range.\n")
	fmt.Fprintf(&buf, "const (\n")

	seen := map[string]bool{}
	for _, e := range entries {
		name := e.Name + "Tag"
		if seen[name] {
			logger.Warn().Str("name", e.Name).Stringer("tag", e.Tag).Msg("skipping duplicate name")
			continue
		}
		seen[name] = true
		logger.Debug().Str("name", name).Stringer("tag", e.Tag).Msg("constant")
		fmt.Fprintf(&buf, "\t%s DataElementTag = 0x%08X\n", name, uint32(e.Tag))
	}
	fmt.Fprintf(&buf, ")\n")

	return format.Source(buf.Bytes())
}
