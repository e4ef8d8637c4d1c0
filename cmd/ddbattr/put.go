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
	"context"

	"github.com/attic-labs/kingpin"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dolthub/ddbattr/libraries/utils/config"
	"github.com/dolthub/ddbattr/store/attrval"
	"github.com/dolthub/ddbattr/store/txn"
	"github.com/dolthub/ddbattr/store/util/verbose"
)

type putOpts struct {
	format      string
	table       string
	condition   string
	names       map[string]string
	batchSize   int
	metricsFile string
	paths       []string
}

func putCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	opts := &putOpts{names: map[string]string{}}

	cmd := app.Command("put", `Encodes documents and writes them to a DynamoDB table in transactions
Documents are grouped into transactions of --batch items. Each transaction is written completely or not at all. With no
files, documents are read from stdin.
`)
	cmd.Flag("format", "input format, detected from the file extension when auto").Default(formatAuto).EnumVar(&opts.format, inputFormats...)
	cmd.Flag("table", "table to write to, overrides the table setting").StringVar(&opts.table)
	cmd.Flag("condition", "condition expression every put must satisfy, e.g. 'attribute_not_exists(pk)'").StringVar(&opts.condition)
	cmd.Flag("name", "'<placeholder>=<attribute>' expression attribute name, may be repeated").StringMapVar(&opts.names)
	cmd.Flag("batch", "documents per transaction").Default("25").IntVar(&opts.batchSize)
	cmd.Flag("metrics-file", "write transaction metrics to this file in the prometheus text format").StringVar(&opts.metricsFile)
	cmd.Arg("files", "documents to write").StringsVar(&opts.paths)

	return cmd, func(ctx context.Context, s *config.Settings) error {
		client, err := newDynamoClient(ctx, s)
		if err != nil {
			return err
		}

		sources, closeSources, err := openSources(opts.paths)
		if err != nil {
			return err
		}
		defer closeSources()

		reg := prometheus.NewRegistry()
		metrics := txn.NewMetrics(reg, s.MetricsLabels)

		err = runPut(ctx, s, opts, sources, txn.NewWriter(client, s.Retries, verbose.Logger, metrics))

		if opts.metricsFile != "" {
			if mErr := prometheus.WriteToTextfile(opts.metricsFile, reg); mErr != nil {
				verbose.Logger.Warnf("failed to write metrics: %v", mErr)
			}
		}

		return err
	}
}

func newDynamoClient(ctx context.Context, s *config.Settings) (*dynamodb.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if s.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(s.Region))
	}
	if s.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(s.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load aws config")
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
		}
	}), nil
}

func runPut(ctx context.Context, s *config.Settings, opts *putOpts, sources []source, wr *txn.Writer) error {
	table := opts.table
	if table == "" {
		table = s.Table
	}
	if table == "" {
		return errors.New("no table given, use --table or the table setting")
	}

	batchSize := opts.batchSize
	if batchSize <= 0 || batchSize > txn.MaxTransactItems {
		return errors.Errorf("--batch must be between 1 and %d", txn.MaxTransactItems)
	}

	expr := txn.Expr{Condition: opts.condition}
	if len(opts.names) > 0 {
		expr.Names = opts.names
	}

	opt := encoderOpt(s)
	b := txn.NewWriteBuilder(opt)
	var items, batches int
	var size uint64

	flush := func() error {
		if b.Len() == 0 {
			return nil
		}

		n := b.Len()
		if err := wr.Commit(ctx, b); err != nil {
			return errors.Wrapf(err, "transaction %s failed", b.Token())
		}

		items += n
		batches++
		verbose.Log("committed transaction %s with %d items", b.Token(), n)
		b = txn.NewWriteBuilder(opt)
		return nil
	}

	for _, src := range sources {
		err := readDocuments(src, opts.format, func(doc interface{}) error {
			item, err := attrval.MarshalItemOpt(doc, opt)
			if err != nil {
				return err
			}

			itemBytes, err := itemSize(item)
			if err != nil {
				return err
			}
			size += itemBytes

			if err := b.Put(table, item, expr); err != nil {
				return err
			}

			if b.Len() >= batchSize {
				return flush()
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	if err := flush(); err != nil {
		return err
	}

	verbose.Logger.Infof("wrote %d items (%s) to %s in %d transactions", items, humanize.Bytes(size), table, batches)
	return nil
}
