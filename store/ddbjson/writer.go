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

package ddbjson

import (
	"bufio"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const itemsHeader = `{"Items": [`
const itemsFooter = `]}`

var WriteBufSize = 256 * 1024

// ItemWriter writes items to a stream as DynamoDB JSON.
type ItemWriter struct {
	closer       io.Closer
	header       string
	footer       string
	separator    string
	bWr          *bufio.Writer
	itemsWritten int
}

// NewItemWriter returns a writer that encodes items as a single JSON object with a single key: "Items", which is a
// slice of all items, the shape of a DynamoDB Scan response. To customize the output use |NewItemWriterWithHeader|.
func NewItemWriter(wr io.WriteCloser) *ItemWriter {
	return NewItemWriterWithHeader(wr, itemsHeader, itemsFooter, ",")
}

// NewItemLinesWriter returns a writer that emits one item per line.
func NewItemLinesWriter(wr io.WriteCloser) *ItemWriter {
	return NewItemWriterWithHeader(wr, "", "\n", "\n")
}

func NewItemWriterWithHeader(wr io.WriteCloser, header, footer, separator string) *ItemWriter {
	return &ItemWriter{
		closer:    wr,
		header:    header,
		footer:    footer,
		separator: separator,
		bWr:       bufio.NewWriterSize(wr, WriteBufSize),
	}
}

// WriteItem writes a single item.
func (w *ItemWriter) WriteItem(item map[string]types.AttributeValue) error {
	data, err := MarshalItem(item)
	if err != nil {
		return err
	}

	if w.itemsWritten == 0 {
		if _, err := w.bWr.WriteString(w.header); err != nil {
			return err
		}
	} else {
		if _, err := w.bWr.WriteString(w.separator); err != nil {
			return err
		}
	}

	if _, err := w.bWr.Write(data); err != nil {
		return err
	}
	w.itemsWritten++

	return nil
}

// ItemsWritten returns the number of items written so far.
func (w *ItemWriter) ItemsWritten() int {
	return w.itemsWritten
}

// Close writes the footer, flushes and closes the underlying writer. A writer without a header that wrote no items
// writes nothing at all.
func (w *ItemWriter) Close() error {
	if w.closer == nil {
		return errors.New("already closed")
	}

	if w.itemsWritten > 0 || w.header != "" {
		if w.itemsWritten == 0 {
			if _, err := w.bWr.WriteString(w.header); err != nil {
				return err
			}
		}

		if _, err := w.bWr.WriteString(w.footer); err != nil {
			return err
		}
	}

	if err := w.bWr.Flush(); err != nil {
		return err
	}

	err := w.closer.Close()
	w.closer = nil
	return err
}
