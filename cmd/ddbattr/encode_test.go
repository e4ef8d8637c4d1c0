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
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/ddbattr/libraries/utils/config"
	"github.com/dolthub/ddbattr/store/attrval"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (bc *bufferCloser) Close() error {
	bc.closed = true
	return nil
}

func testSettings(t *testing.T, overrides ...string) *config.Settings {
	s, err := loadSettings("", overrides)
	require.NoError(t, err)
	return s
}

func TestRunEncode(t *testing.T) {
	sources := []source{
		{name: "a.json", r: strings.NewReader(`{"pk": "a", "amount": 1.50, "tags": ["x"]}`)},
		{name: "b.yaml", r: strings.NewReader("pk: b\nnested:\n  ok: true\n  gone: null\n")},
	}

	out := &bufferCloser{}
	err := runEncode(context.Background(), testSettings(t), &encodeOpts{format: formatAuto}, sources, out)
	require.NoError(t, err)
	assert.True(t, out.closed)
	assert.JSONEq(t, `{"Items": [
		{"pk": {"S": "a"}, "amount": {"N": "1.50"}, "tags": {"L": [{"S": "x"}]}},
		{"pk": {"S": "b"}, "nested": {"M": {"ok": {"BOOL": true}, "gone": {"NULL": true}}}}
	]}`, out.String())
}

func TestRunEncodeLines(t *testing.T) {
	sources := []source{{name: "a.json", r: strings.NewReader(`{"n": 1} {"n": 2}`)}}

	out := &bufferCloser{}
	err := runEncode(context.Background(), testSettings(t, "output_format=lines"), &encodeOpts{format: formatAuto}, sources, out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"n": {"N": "1"}}`, lines[0])
	assert.JSONEq(t, `{"n": {"N": "2"}}`, lines[1])
}

func TestRunEncodeValues(t *testing.T) {
	sources := []source{{name: "a.json", r: strings.NewReader(`"s" 7 [1, "two"]`)}}

	out := &bufferCloser{}
	err := runEncode(context.Background(), testSettings(t), &encodeOpts{format: formatAuto, values: true}, sources, out)
	require.NoError(t, err)
	assert.True(t, out.closed)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"S": "s"}`, lines[0])
	assert.JSONEq(t, `{"N": "7"}`, lines[1])
	assert.JSONEq(t, `{"L": [{"N": "1"}, {"S": "two"}]}`, lines[2])
}

func TestRunEncodeNotAnItem(t *testing.T) {
	sources := []source{{name: "a.json", r: strings.NewReader(`{"n": 1} 7`)}}

	out := &bufferCloser{}
	err := runEncode(context.Background(), testSettings(t), &encodeOpts{format: formatAuto}, sources, out)
	require.Error(t, err)
	assert.True(t, isKind(err, attrval.ErrNotAnItem), "%v", err)
	assert.Contains(t, err.Error(), "a.json: document 2")
}

func TestRunEncodeMaxDepth(t *testing.T) {
	sources := []source{{name: "a.json", r: strings.NewReader(`{"a": {"b": {"c": {"d": 1}}}}`)}}

	out := &bufferCloser{}
	err := runEncode(context.Background(), testSettings(t, "max_depth=2"), &encodeOpts{format: formatAuto}, sources, out)
	assert.True(t, isKind(err, attrval.ErrMaxDepthExceeded), "%v", err)
}

func TestLoadSettingsOverrides(t *testing.T) {
	s := testSettings(t, "table=t", "retries=1")
	assert.Equal(t, "t", s.Table)
	assert.Equal(t, 1, s.Retries)
	assert.Equal(t, attrval.Opt{TagName: "dynamodbav", MaxDepth: 256}, encoderOpt(s))

	_, err := loadSettings("", []string{"nope"})
	assert.Error(t, err)

	_, err = loadSettings("", []string{"colour=blue"})
	assert.True(t, isKind(err, config.ErrUnknownSetting))
}
