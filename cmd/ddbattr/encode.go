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
	"bufio"
	"context"
	"io"
	"os"

	"github.com/attic-labs/kingpin"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dustin/go-humanize"

	"github.com/dolthub/ddbattr/libraries/utils/config"
	"github.com/dolthub/ddbattr/store/attrval"
	"github.com/dolthub/ddbattr/store/ddbjson"
	"github.com/dolthub/ddbattr/store/util/verbose"
)

type encodeOpts struct {
	format string
	values bool
	paths  []string
}

func encodeCommand(app *kingpin.Application) (*kingpin.CmdClause, handler) {
	opts := &encodeOpts{}

	cmd := app.Command("encode", `Encodes documents and prints them as DynamoDB JSON
Every document must be an object unless --values is given. With no files, documents are read from stdin.
`)
	cmd.Flag("format", "input format, detected from the file extension when auto").Default(formatAuto).EnumVar(&opts.format, inputFormats...)
	cmd.Flag("values", "print each document as a single attribute value, one per line").BoolVar(&opts.values)
	cmd.Arg("files", "documents to encode").StringsVar(&opts.paths)

	return cmd, func(ctx context.Context, s *config.Settings) error {
		sources, closeSources, err := openSources(opts.paths)
		if err != nil {
			return err
		}
		defer closeSources()

		return runEncode(ctx, s, opts, sources, nopWriteCloser{os.Stdout})
	}
}

func runEncode(ctx context.Context, s *config.Settings, opts *encodeOpts, sources []source, out io.WriteCloser) error {
	if opts.values {
		return encodeValues(ctx, s, opts, sources, out)
	}

	var wr *ddbjson.ItemWriter
	if s.OutputFormat == config.OutputLines {
		wr = ddbjson.NewItemLinesWriter(out)
	} else {
		wr = ddbjson.NewItemWriter(out)
	}

	var total uint64
	opt := encoderOpt(s)
	for _, src := range sources {
		err := readDocuments(src, opts.format, func(doc interface{}) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			item, err := attrval.MarshalItemOpt(doc, opt)
			if err != nil {
				return err
			}

			size, err := itemSize(item)
			if err != nil {
				return err
			}
			total += size

			return wr.WriteItem(item)
		})
		if err != nil {
			wr.Close()
			return err
		}
	}

	verbose.Log("encoded %d items, %s", wr.ItemsWritten(), humanize.Bytes(total))
	return wr.Close()
}

func encodeValues(ctx context.Context, s *config.Settings, opts *encodeOpts, sources []source, out io.WriteCloser) error {
	bWr := bufio.NewWriter(out)
	opt := encoderOpt(s)
	for _, src := range sources {
		err := readDocuments(src, opts.format, func(doc interface{}) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			av, err := attrval.MarshalOpt(doc, opt)
			if err != nil {
				return err
			}

			data, err := ddbjson.Marshal(av)
			if err != nil {
				return err
			}

			if _, err := bWr.Write(data); err != nil {
				return err
			}
			return bWr.WriteByte('\n')
		})
		if err != nil {
			out.Close()
			return err
		}
	}

	if err := bWr.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// itemSize approximates the stored size of |item| by the length of its DynamoDB JSON.
func itemSize(item map[string]types.AttributeValue) (uint64, error) {
	data, err := ddbjson.MarshalItem(item)
	if err != nil {
		return 0, err
	}
	return uint64(len(data)), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}
