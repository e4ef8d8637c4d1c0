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
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v2"
)

const (
	RegionKey       = "region"
	ProfileKey      = "profile"
	EndpointKey     = "endpoint"
	TableKey        = "table"
	TagNameKey      = "tag_name"
	MaxDepthKey     = "max_depth"
	RetriesKey      = "retries"
	OutputFormatKey = "output_format"

	// MetricsLabelPrefix prefixes override keys that set a constant metrics label, as in "metrics_labels.env=prod".
	MetricsLabelPrefix = "metrics_labels."
)

const (
	OutputItems = "items"
	OutputLines = "lines"
)

var ErrUnknownSetting = errors.NewKind("unknown setting %q")
var ErrInvalidSetting = errors.NewKind("invalid value %q for setting %q")

// Settings configures the ddbattr command. It is read from a yaml file and then overridden by command line parameters.
type Settings struct {
	Region   string `yaml:"region,omitempty"`
	Profile  string `yaml:"profile,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Table    string `yaml:"table,omitempty"`

	TagName string `yaml:"tag_name" default:"dynamodbav"`
	// MaxDepth bounds the nesting of encoded documents. Zero or negative values disable the check.
	MaxDepth int `yaml:"max_depth" default:"256"`

	Retries      int    `yaml:"retries" default:"5"`
	OutputFormat string `yaml:"output_format" default:"items"`

	MetricsLabels map[string]string `yaml:"metrics_labels,omitempty"`
}

// DefaultSettings returns Settings with every default filled in.
func DefaultSettings() (*Settings, error) {
	s := &Settings{}
	if err := defaults.Set(s); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSettings parses yaml settings over the defaults, so values given in |data|, zeros included, win.
func NewSettings(data []byte) (*Settings, error) {
	var s Settings
	if err := defaults.Set(&s); err != nil {
		return nil, err
	}

	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, err
	}

	return &s, s.Validate()
}

// LoadSettings reads the settings file at |path|. An empty path returns the defaults.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file '%s': %w", path, err)
	}

	s, err := NewSettings(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings file '%s': %w", path, err)
	}

	return s, nil
}

// ApplyOverrides sets every parameter of |cfg| on |s|.
func (s *Settings) ApplyOverrides(cfg ReadableConfig) error {
	var err error
	cfg.Iter(func(k, v string) (stop bool) {
		err = s.set(k, v)
		return err != nil
	})

	if err != nil {
		return err
	}

	return s.Validate()
}

func (s *Settings) set(k, v string) error {
	switch k {
	case RegionKey:
		s.Region = v
	case ProfileKey:
		s.Profile = v
	case EndpointKey:
		s.Endpoint = v
	case TableKey:
		s.Table = v
	case TagNameKey:
		s.TagName = v
	case OutputFormatKey:
		s.OutputFormat = v
	case MaxDepthKey, RetriesKey:
		n, err := strconv.Atoi(v)
		if err != nil {
			return ErrInvalidSetting.New(v, k)
		}
		if k == MaxDepthKey {
			s.MaxDepth = n
		} else {
			s.Retries = n
		}
	default:
		name, ok := strings.CutPrefix(k, MetricsLabelPrefix)
		if !ok || name == "" {
			return ErrUnknownSetting.New(k)
		}
		if s.MetricsLabels == nil {
			s.MetricsLabels = make(map[string]string)
		}
		s.MetricsLabels[name] = v
	}

	return nil
}

// Validate checks values that cannot be used.
func (s *Settings) Validate() error {
	if s.Retries < 0 {
		return ErrInvalidSetting.New(strconv.Itoa(s.Retries), RetriesKey)
	}

	switch s.OutputFormat {
	case OutputItems, OutputLines:
	default:
		return ErrInvalidSetting.New(s.OutputFormat, OutputFormatKey)
	}

	return nil
}

// EncoderMaxDepth returns MaxDepth in the form the encoder expects, where 0 means unlimited.
func (s *Settings) EncoderMaxDepth() int {
	if s.MaxDepth < 0 {
		return 0
	}
	return s.MaxDepth
}

func (s *Settings) String() string {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "Failed to marshal as yaml: " + err.Error()
	}
	return string(data)
}
