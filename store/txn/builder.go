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

// Package txn assembles DynamoDB transactional writes out of Go values and submits them.
package txn

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/ddbattr/store/attrval"
)

// MaxTransactItems is the largest number of actions DynamoDB accepts in one TransactWriteItems call.
const MaxTransactItems = 100

var ErrEmptyTransaction = errors.NewKind("transaction has no actions")
var ErrTooManyItems = errors.NewKind("transaction has %d actions, at most %d are allowed")
var ErrMissingTable = errors.NewKind("%s action is missing a table name")
var ErrMissingExpression = errors.NewKind("%s action requires a %s expression")

// Expr holds the expressions attached to a single transaction action. Values are encoded with attrval, so they may be
// any value attrval.Marshal accepts.
type Expr struct {
	Condition string
	Update    string
	Names     map[string]string
	Values    map[string]interface{}
}

// WriteBuilder accumulates the actions of one TransactWriteItems request. It is not safe for concurrent use.
type WriteBuilder struct {
	opt   attrval.Opt
	items []types.TransactWriteItem
	token string
}

// NewWriteBuilder returns an empty builder. |opt| controls how items, keys and expression values are encoded.
func NewWriteBuilder(opt attrval.Opt) *WriteBuilder {
	return &WriteBuilder{opt: opt, token: uuid.NewString()}
}

// Len returns the number of actions added so far.
func (b *WriteBuilder) Len() int {
	return len(b.items)
}

// Token returns the client request token sent with the transaction. Resubmitting a transaction with the same token
// is idempotent for ten minutes.
func (b *WriteBuilder) Token() string {
	return b.token
}

// Put adds an action writing |item| to |table|.
func (b *WriteBuilder) Put(table string, item interface{}, expr Expr) error {
	if table == "" {
		return ErrMissingTable.New("put")
	}

	encoded, err := attrval.MarshalItemOpt(item, b.opt)
	if err != nil {
		return err
	}

	values, err := b.encodeValues(expr.Values)
	if err != nil {
		return err
	}

	b.items = append(b.items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:                 aws.String(table),
			Item:                      encoded,
			ConditionExpression:       optString(expr.Condition),
			ExpressionAttributeNames:  expr.Names,
			ExpressionAttributeValues: values,
		},
	})
	return nil
}

// Delete adds an action deleting the item identified by |key| from |table|.
func (b *WriteBuilder) Delete(table string, key interface{}, expr Expr) error {
	if table == "" {
		return ErrMissingTable.New("delete")
	}

	encodedKey, values, err := b.encodeKeyAndValues(key, expr)
	if err != nil {
		return err
	}

	b.items = append(b.items, types.TransactWriteItem{
		Delete: &types.Delete{
			TableName:                 aws.String(table),
			Key:                       encodedKey,
			ConditionExpression:       optString(expr.Condition),
			ExpressionAttributeNames:  expr.Names,
			ExpressionAttributeValues: values,
		},
	})
	return nil
}

// Update adds an action applying |expr.Update| to the item identified by |key|.
func (b *WriteBuilder) Update(table string, key interface{}, expr Expr) error {
	if table == "" {
		return ErrMissingTable.New("update")
	}
	if expr.Update == "" {
		return ErrMissingExpression.New("update", "update")
	}

	encodedKey, values, err := b.encodeKeyAndValues(key, expr)
	if err != nil {
		return err
	}

	b.items = append(b.items, types.TransactWriteItem{
		Update: &types.Update{
			TableName:                 aws.String(table),
			Key:                       encodedKey,
			UpdateExpression:          aws.String(expr.Update),
			ConditionExpression:       optString(expr.Condition),
			ExpressionAttributeNames:  expr.Names,
			ExpressionAttributeValues: values,
		},
	})
	return nil
}

// ConditionCheck adds an action that fails the transaction unless |expr.Condition| holds for the item identified by
// |key|.
func (b *WriteBuilder) ConditionCheck(table string, key interface{}, expr Expr) error {
	if table == "" {
		return ErrMissingTable.New("condition check")
	}
	if expr.Condition == "" {
		return ErrMissingExpression.New("condition check", "condition")
	}

	encodedKey, values, err := b.encodeKeyAndValues(key, expr)
	if err != nil {
		return err
	}

	b.items = append(b.items, types.TransactWriteItem{
		ConditionCheck: &types.ConditionCheck{
			TableName:                 aws.String(table),
			Key:                       encodedKey,
			ConditionExpression:       aws.String(expr.Condition),
			ExpressionAttributeNames:  expr.Names,
			ExpressionAttributeValues: values,
		},
	})
	return nil
}

// Build returns the request for the accumulated actions.
func (b *WriteBuilder) Build() (*dynamodb.TransactWriteItemsInput, error) {
	if len(b.items) == 0 {
		return nil, ErrEmptyTransaction.New()
	}
	if len(b.items) > MaxTransactItems {
		return nil, ErrTooManyItems.New(len(b.items), MaxTransactItems)
	}

	items := make([]types.TransactWriteItem, len(b.items))
	copy(items, b.items)

	return &dynamodb.TransactWriteItemsInput{
		TransactItems:      items,
		ClientRequestToken: aws.String(b.token),
	}, nil
}

func (b *WriteBuilder) encodeKeyAndValues(key interface{}, expr Expr) (map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	encodedKey, err := attrval.MarshalItemOpt(key, b.opt)
	if err != nil {
		return nil, nil, err
	}

	values, err := b.encodeValues(expr.Values)
	if err != nil {
		return nil, nil, err
	}

	return encodedKey, values, nil
}

func (b *WriteBuilder) encodeValues(values map[string]interface{}) (map[string]types.AttributeValue, error) {
	if len(values) == 0 {
		return nil, nil
	}

	encoded := make(map[string]types.AttributeValue, len(values))
	for k, v := range values {
		av, err := attrval.MarshalOpt(v, b.opt)
		if err != nil {
			return nil, err
		}
		encoded[k] = av
	}

	return encoded, nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
