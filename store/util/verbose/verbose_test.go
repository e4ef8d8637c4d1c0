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

package verbose

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	defer func() {
		SetVerbose(false)
		SetQuiet(false)
	}()

	assert.Equal(t, logrus.InfoLevel, Logger.GetLevel())

	SetVerbose(true)
	assert.True(t, Verbose())
	assert.Equal(t, logrus.DebugLevel, Logger.GetLevel())

	SetQuiet(true)
	assert.True(t, Quiet())
	assert.Equal(t, logrus.ErrorLevel, Logger.GetLevel())
}

func TestLog(t *testing.T) {
	buf := &bytes.Buffer{}
	out := Logger.Out
	Logger.SetOutput(buf)
	defer func() {
		Logger.SetOutput(out)
		SetVerbose(false)
	}()

	Log("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Log("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}
