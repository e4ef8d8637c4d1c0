// Copyright 2019 Dolthub, Inc.
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

// ddbattr encodes JSON and YAML documents as DynamoDB attribute values and writes them out as DynamoDB JSON or
// directly to a table.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/attic-labs/kingpin"
	"github.com/pkg/errors"

	"github.com/dolthub/ddbattr/libraries/utils/config"
	"github.com/dolthub/ddbattr/store/attrval"
	"github.com/dolthub/ddbattr/store/util/verbose"
)

// handler runs a parsed command with the resolved settings.
type handler func(ctx context.Context, s *config.Settings) error

type command func(app *kingpin.Application) (*kingpin.CmdClause, handler)

var commands = []command{
	encodeCommand,
	putCommand,
}

func main() {
	kingpin.EnableFileExpansion = false
	app := kingpin.New("ddbattr", "Encodes documents as DynamoDB attribute values.")
	app.HelpFlag.Short('h')

	// global flags
	verboseVal := app.Flag("verbose", "show more").Short('v').Bool()
	quietVal := app.Flag("quiet", "show only errors").Short('q').Bool()
	settingsPath := app.Flag("config", "path of a yaml settings file").Short('c').String()
	overrides := app.Flag("set", "'<key>=<value>' overrides a setting, may be repeated").Strings()

	handlers := map[string]handler{}
	for _, cmdFunction := range commands {
		cmd, h := cmdFunction(app)
		handlers[cmd.FullCommand()] = h
	}

	input := kingpin.MustParse(app.Parse(os.Args[1:]))

	verbose.SetVerbose(*verboseVal)
	verbose.SetQuiet(*quietVal)

	s, err := loadSettings(*settingsPath, *overrides)
	if err != nil {
		verbose.Logger.Fatal(err)
	}
	verbose.Log("settings:\n%s", s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := handlers[input](ctx, s); err != nil {
		verbose.Logger.Error(err)
		stop()
		os.Exit(1)
	}
}

func loadSettings(path string, overrides []string) (*config.Settings, error) {
	s, err := config.LoadSettings(path)
	if err != nil {
		return nil, err
	}

	mc, err := config.ParseKeyValues(overrides)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --set")
	}

	if err := s.ApplyOverrides(mc); err != nil {
		return nil, errors.Wrap(err, "invalid --set")
	}

	return s, nil
}

func encoderOpt(s *config.Settings) attrval.Opt {
	return attrval.Opt{TagName: s.TagName, MaxDepth: s.EncoderMaxDepth()}
}
