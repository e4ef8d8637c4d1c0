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

import "errors"

// ErrConfigParamNotFound is returned when a requested parameter is not set.
var ErrConfigParamNotFound = errors.New("param not found")

// ReadableConfig is a string-keyed view of configuration parameters.
type ReadableConfig interface {
	// GetString retrieves a value for a given key.
	GetString(key string) (string, error)

	// Iter calls |cb| for each parameter until all have been visited or |cb| returns true.
	Iter(cb func(string, string) (stop bool))

	// Size returns the number of parameters.
	Size() int
}

// WritableConfig is a ReadableConfig that can be modified.
type WritableConfig interface {
	ReadableConfig

	// SetStrings sets the values for a map of updates.
	SetStrings(updates map[string]string) error

	// Unset removes parameters.
	Unset(params []string) error
}

// GetStringOrDefault returns the value of |key| in |cfg|, or |def| when it is not set.
func GetStringOrDefault(cfg ReadableConfig, key, def string) string {
	if cfg == nil {
		return def
	}

	val, err := cfg.GetString(key)
	if err != nil {
		return def
	}

	return val
}
