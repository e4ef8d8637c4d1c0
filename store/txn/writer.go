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

package txn

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// DefaultRetries is the number of times a transaction is resubmitted after a retryable failure.
const DefaultRetries = 5

// TransactWriteAPI is the part of the DynamoDB client Writer uses.
type TransactWriteAPI interface {
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

var _ TransactWriteAPI = (*dynamodb.Client)(nil)

// Writer submits transactions, resubmitting them with the same client request token when DynamoDB reports a
// conflict or throttling.
type Writer struct {
	client     TransactWriteAPI
	retries    uint64
	lgr        *logrus.Entry
	metrics    *Metrics
	newBackOff func() backoff.BackOff
}

// NewWriter returns a Writer. A nil |lgr| logs to the standard logrus logger and a nil |metrics| records nothing.
func NewWriter(client TransactWriteAPI, retries int, lgr *logrus.Logger, metrics *Metrics) *Writer {
	if lgr == nil {
		lgr = logrus.StandardLogger()
	}
	if retries < 0 {
		retries = 0
	}

	return &Writer{
		client:  client,
		retries: uint64(retries),
		lgr:     lgr.WithField("component", "txn"),
		metrics: metrics,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Commit builds the transaction accumulated in |b| and submits it.
func (w *Writer) Commit(ctx context.Context, b *WriteBuilder) error {
	in, err := b.Build()
	if err != nil {
		return err
	}

	lgr := w.lgr.WithFields(logrus.Fields{
		"token":   aws.ToString(in.ClientRequestToken),
		"actions": len(in.TransactItems),
	})

	attempt := 0
	op := func() error {
		attempt++
		start := time.Now()
		_, err := w.client.TransactWriteItems(ctx, in)
		if err == nil {
			w.metrics.observeAttempt(start, outcomeSuccess)
			return nil
		}

		if !isRetryable(err) {
			w.metrics.observeAttempt(start, outcomePermanent)
			return backoff.Permanent(err)
		}

		w.metrics.observeAttempt(start, outcomeRetryable)
		lgr.WithField("attempt", attempt).Debugf("retrying transaction: %v", err)
		return err
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(w.newBackOff(), w.retries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		lgr.WithField("attempts", attempt).Warnf("transaction failed: %v", err)
		return err
	}

	w.metrics.observeCommit(len(in.TransactItems))
	lgr.WithField("attempts", attempt).Debug("transaction committed")
	return nil
}

// isRetryable returns true for failures that can succeed when the same request is resubmitted.
func isRetryable(err error) bool {
	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		for _, reason := range canceled.CancellationReasons {
			switch aws.ToString(reason.Code) {
			case "", "None", "TransactionConflict", "ThrottlingError", "ProvisionedThroughputExceeded":
			default:
				return false
			}
		}
		return true
	}

	var conflict *types.TransactionConflictException
	var inProgress *types.TransactionInProgressException
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var internal *types.InternalServerError
	return errors.As(err, &conflict) ||
		errors.As(err, &inProgress) ||
		errors.As(err, &throughput) ||
		errors.As(err, &limit) ||
		errors.As(err, &internal)
}
