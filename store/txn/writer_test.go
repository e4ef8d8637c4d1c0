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
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dolthub/ddbattr/store/attrval"
)

type fakeTransactDDB struct {
	t      *testing.T
	errs   []error
	inputs []*dynamodb.TransactWriteItemsInput
}

func (f *fakeTransactDDB) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.inputs = append(f.inputs, params)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func newTestWriter(client TransactWriteAPI, retries int, metrics *Metrics) *Writer {
	lgr := logrus.New()
	lgr.SetLevel(logrus.PanicLevel)
	w := NewWriter(client, retries, lgr, metrics)
	w.newBackOff = func() backoff.BackOff {
		return &backoff.ZeroBackOff{}
	}
	return w
}

func twoDeletes(t *testing.T) *WriteBuilder {
	b := NewWriteBuilder(attrval.Opt{})
	require.NoError(t, b.Delete("t", accountKey{ID: "1"}, Expr{}))
	require.NoError(t, b.Delete("t", accountKey{ID: "2"}, Expr{}))
	return b
}

func canceled(codes ...string) error {
	reasons := make([]types.CancellationReason, len(codes))
	for i, code := range codes {
		reasons[i] = types.CancellationReason{Code: aws.String(code)}
	}
	return &types.TransactionCanceledException{Message: aws.String("canceled"), CancellationReasons: reasons}
}

func TestCommit(t *testing.T) {
	ddb := &fakeTransactDDB{t: t}
	m := NewMetrics(prometheus.NewRegistry(), nil)
	w := newTestWriter(ddb, DefaultRetries, m)

	b := twoDeletes(t)
	require.NoError(t, w.Commit(context.Background(), b))
	require.Len(t, ddb.inputs, 1)
	assert.Equal(t, b.Token(), aws.ToString(ddb.inputs[0].ClientRequestToken))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cntAttempts.WithLabelValues(outcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cntItems))
}

func TestCommitRetriesWithSameToken(t *testing.T) {
	ddb := &fakeTransactDDB{t: t, errs: []error{
		canceled("None", "TransactionConflict"),
		&types.ProvisionedThroughputExceededException{},
		errors.Wrap(&types.InternalServerError{}, "wrapped"),
	}}
	m := NewMetrics(nil, nil)
	w := newTestWriter(ddb, DefaultRetries, m)

	require.NoError(t, w.Commit(context.Background(), twoDeletes(t)))
	require.Len(t, ddb.inputs, 4)
	for _, in := range ddb.inputs[1:] {
		assert.Equal(t, ddb.inputs[0].ClientRequestToken, in.ClientRequestToken)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.cntAttempts.WithLabelValues(outcomeRetryable)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cntAttempts.WithLabelValues(outcomeSuccess)))
}

func TestCommitPermanentFailure(t *testing.T) {
	failed := canceled("None", "ConditionalCheckFailed")
	ddb := &fakeTransactDDB{t: t, errs: []error{failed}}
	m := NewMetrics(nil, nil)
	w := newTestWriter(ddb, DefaultRetries, m)

	err := w.Commit(context.Background(), twoDeletes(t))
	assert.Equal(t, failed, err)
	assert.Len(t, ddb.inputs, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cntAttempts.WithLabelValues(outcomePermanent)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.cntItems))
}

func TestCommitGivesUp(t *testing.T) {
	errs := make([]error, 10)
	for i := range errs {
		errs[i] = &types.TransactionConflictException{}
	}
	ddb := &fakeTransactDDB{t: t, errs: errs}
	w := newTestWriter(ddb, 2, nil)

	err := w.Commit(context.Background(), twoDeletes(t))
	require.Error(t, err)
	assert.Len(t, ddb.inputs, 3)
}

func TestCommitBuildError(t *testing.T) {
	ddb := &fakeTransactDDB{t: t}
	w := newTestWriter(ddb, DefaultRetries, nil)

	err := w.Commit(context.Background(), NewWriteBuilder(attrval.Opt{}))
	assert.True(t, ErrEmptyTransaction.Is(err))
	assert.Empty(t, ddb.inputs)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err       error
		retryable bool
	}{
		{canceled(), true},
		{canceled("", "None", "ThrottlingError", "ProvisionedThroughputExceeded"), true},
		{canceled("TransactionConflict", "ValidationError"), false},
		{canceled("ConditionalCheckFailed"), false},
		{&types.TransactionConflictException{}, true},
		{&types.TransactionInProgressException{}, true},
		{&types.RequestLimitExceeded{}, true},
		{errors.Wrap(&types.ProvisionedThroughputExceededException{}, "put"), true},
		{&types.ConditionalCheckFailedException{}, false},
		{&types.ResourceNotFoundException{}, false},
		{errors.New("boom"), false},
	}

	for _, test := range tests {
		assert.Equal(t, test.retryable, isRetryable(test.err), "%v", test.err)
	}
}
