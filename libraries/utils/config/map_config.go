// Copyright 2019 Liquidata, Inc.
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
	"sort"
	"strings"

	"gopkg.in/src-d/go-errors.v1"
)

var ErrMalformedParam = errors.NewKind("malformed parameter %q, expected key=value")

// MapConfig is an in memory config, used for command line overrides and tests. Values are not persisted anywhere.
type MapConfig struct {
	properties map[string]string
}

var _ WritableConfig = (*MapConfig)(nil)

// NewMapConfig creates a config from a map.
func NewMapConfig(properties map[string]string) *MapConfig {
	if properties == nil {
		properties = make(map[string]string)
	}
	return &MapConfig{properties}
}

// ParseKeyValues creates a config from "key=value" pairs. Later pairs override earlier ones with the same key.
func ParseKeyValues(pairs []string) (*MapConfig, error) {
	mc := NewMapConfig(nil)
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, ErrMalformedParam.New(pair)
		}
		mc.properties[k] = v
	}

	return mc, nil
}

// GetString retrieves a value for a given key.
func (mc *MapConfig) GetString(k string) (string, error) {
	if val, ok := mc.properties[k]; ok {
		return val, nil
	}

	return "", ErrConfigParamNotFound
}

// SetStrings sets the values for a map of updates.
func (mc *MapConfig) SetStrings(updates map[string]string) error {
	for k, v := range updates {
		mc.properties[k] = v
	}

	return nil
}

// Iter visits parameters in key order until all have been visited or |cb| returns true.
func (mc *MapConfig) Iter(cb func(string, string) (stop bool)) {
	keys := make([]string, 0, len(mc.properties))
	for k := range mc.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if cb(k, mc.properties[k]) {
			break
		}
	}
}

// Unset removes parameters from the config.
func (mc *MapConfig) Unset(params []string) error {
	for _, param := range params {
		delete(mc.properties, param)
	}

	return nil
}

// Size returns the number of properties contained within the config.
func (mc *MapConfig) Size() int {
	return len(mc.properties)
}
