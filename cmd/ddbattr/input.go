// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	formatAuto = "auto"
	formatJSON = "json"
	formatYAML = "yaml"
)

var inputFormats = []string{formatAuto, formatJSON, formatYAML}

const stdinName = "-"

// source is a named stream of documents.
type source struct {
	name string
	r    io.Reader
}

// openSources opens every path in |paths|. No paths, or the path "-", reads stdin. The returned func closes the files.
func openSources(paths []string) ([]source, func(), error) {
	if len(paths) == 0 {
		paths = []string{stdinName}
	}

	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	sources := make([]source, 0, len(paths))
	for _, path := range paths {
		if path == stdinName {
			sources = append(sources, source{name: "stdin", r: os.Stdin})
			continue
		}

		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, errors.Wrapf(err, "failed to open %s", path)
		}
		files = append(files, f)
		sources = append(sources, source{name: path, r: f})
	}

	return sources, closeAll, nil
}

// resolveFormat picks the document format of |name| when |format| is auto. Unrecognized names and stdin are read as
// JSON.
func resolveFormat(format, name string) string {
	if format != formatAuto {
		return format
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

// readDocuments decodes each document in |src| and calls |cb| with it. JSON numbers are kept as json.Number so their
// text reaches the encoder unchanged.
func readDocuments(src source, format string, cb func(doc interface{}) error) error {
	next, err := documentDecoder(src.r, resolveFormat(format, src.name))
	if err != nil {
		return err
	}

	for n := 1; ; n++ {
		var doc interface{}
		err := next(&doc)
		if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrapf(err, "%s: failed to read document %d", src.name, n)
		}

		if doc == nil {
			continue
		}

		if err := cb(doc); err != nil {
			return errors.Wrapf(err, "%s: document %d", src.name, n)
		}
	}
}

func documentDecoder(r io.Reader, format string) (func(v interface{}) error, error) {
	switch format {
	case formatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		return dec.Decode, nil
	case formatYAML:
		return yaml.NewDecoder(r).Decode, nil
	default:
		return nil, errors.Errorf("unknown input format '%s'", format)
	}
}
