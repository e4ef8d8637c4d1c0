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
//
// This file incorporates work covered by the following copyright and
// permission notice:
//
// Copyright 2016 Attic Labs, Inc. All rights reserved.
// Licensed under the Apache License, version 2.0:
// http://www.apache.org/licenses/LICENSE-2.0

package verbose

import (
	"github.com/sirupsen/logrus"
)

var (
	verbose bool
	quiet   bool
)

// Logger is the logger the command writes to. Its level follows the verbose and quiet flags.
var Logger = logrus.New()

func init() {
	Logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	applyLevel()
}

// Verbose returns True if the verbose flag was set
func Verbose() bool {
	return verbose
}

func SetVerbose(v bool) {
	verbose = v
	applyLevel()
}

// Quiet returns True if the quiet flag was set
func Quiet() bool {
	return quiet
}

func SetQuiet(q bool) {
	quiet = q
	applyLevel()
}

// Log logs at debug level, so it is only shown when Verbose() returns true.
func Log(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
}

func applyLevel() {
	switch {
	case quiet:
		Logger.SetLevel(logrus.ErrorLevel)
	case verbose:
		Logger.SetLevel(logrus.DebugLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}
}
