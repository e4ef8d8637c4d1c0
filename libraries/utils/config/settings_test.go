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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, &Settings{
		TagName:      "dynamodbav",
		MaxDepth:     256,
		Retries:      5,
		OutputFormat: OutputItems,
	}, s)
}

func TestNewSettings(t *testing.T) {
	s, err := NewSettings([]byte(`
region: eu-west-1
table: accounts
max_depth: -1
output_format: lines
metrics_labels:
  env: test
`))
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", s.Region)
	assert.Equal(t, "accounts", s.Table)
	assert.Equal(t, "dynamodbav", s.TagName)
	assert.Equal(t, 0, s.EncoderMaxDepth())
	assert.Equal(t, 5, s.Retries)
	assert.Equal(t, OutputLines, s.OutputFormat)
	assert.Equal(t, map[string]string{"env": "test"}, s.MetricsLabels)

	_, err = NewSettings([]byte("not_a_setting: 1\n"))
	assert.Error(t, err)

	_, err = NewSettings([]byte("output_format: csv\n"))
	assert.True(t, ErrInvalidSetting.Is(err))
}

func TestNewSettingsKeepsExplicitZeros(t *testing.T) {
	s, err := NewSettings([]byte("retries: 0\nmax_depth: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Retries)
	assert.Equal(t, 0, s.MaxDepth)
	assert.Equal(t, 0, s.EncoderMaxDepth())
	assert.Equal(t, "dynamodbav", s.TagName)

	fromFlags, err := DefaultSettings()
	require.NoError(t, err)
	require.NoError(t, fromFlags.ApplyOverrides(NewMapConfig(map[string]string{RetriesKey: "0", MaxDepthKey: "0"})))
	assert.Equal(t, s.Retries, fromFlags.Retries)
	assert.Equal(t, s.EncoderMaxDepth(), fromFlags.EncoderMaxDepth())

	s, err = NewSettings([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, 5, s.Retries)
	assert.Equal(t, 256, s.MaxDepth)
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ddbattr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: http://localhost:8000\nretries: 2\n"), 0644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", s.Endpoint)
	assert.Equal(t, 2, s.Retries)
	assert.Equal(t, 256, s.EncoderMaxDepth())

	_, err = LoadSettings(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	s, err := DefaultSettings()
	require.NoError(t, err)

	err = s.ApplyOverrides(NewMapConfig(map[string]string{
		RegionKey:                  "us-east-2",
		TableKey:                   "items",
		RetriesKey:                 "0",
		MaxDepthKey:                "10",
		TagNameKey:                 "json",
		MetricsLabelPrefix + "app": "ddbattr",
	}))
	require.NoError(t, err)
	assert.Equal(t, "us-east-2", s.Region)
	assert.Equal(t, "items", s.Table)
	assert.Equal(t, 0, s.Retries)
	assert.Equal(t, 10, s.MaxDepth)
	assert.Equal(t, "json", s.TagName)
	assert.Equal(t, map[string]string{"app": "ddbattr"}, s.MetricsLabels)

	err = s.ApplyOverrides(NewMapConfig(map[string]string{"colour": "blue"}))
	assert.True(t, ErrUnknownSetting.Is(err))

	err = s.ApplyOverrides(NewMapConfig(map[string]string{RetriesKey: "many"}))
	assert.True(t, ErrInvalidSetting.Is(err))

	err = s.ApplyOverrides(NewMapConfig(map[string]string{RetriesKey: "-3"}))
	assert.True(t, ErrInvalidSetting.Is(err))
}
