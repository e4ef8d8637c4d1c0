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

package attrval

import (
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

const (
	// DateTimeLayout is the layout zone-less date times are rendered with.
	DateTimeLayout = "2006-01-02T15:04:05.000000000"

	// TimeLayout is the layout zoned timestamps are rendered with. The offset is always explicit, UTC renders as
	// +00:00.
	TimeLayout = "2006-01-02T15:04:05.000000000-07:00"
)

// FromString returns an S node holding |s| verbatim. The empty string is a valid value.
func FromString(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

// FromNullableString returns an S node for |s|, or a NULL node when |s| is nil. The NULL node is how an absent string
// is represented on the wire and is distinct from FromString("").
func FromNullableString(s *string) types.AttributeValue {
	if s == nil {
		return nullNode()
	}
	return FromString(*s)
}

// FromBool returns a BOOL node.
func FromBool(b bool) types.AttributeValue {
	return &types.AttributeValueMemberBOOL{Value: b}
}

// FromInt returns an N node holding the base 10 rendering of |i|.
func FromInt(i int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(i, 10)}
}

// FromUint returns an N node holding the base 10 rendering of |u|.
func FromUint(u uint64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatUint(u, 10)}
}

// FromFloat32 returns an N node holding the shortest text that parses back to |f| at 32 bit precision.
func FromFloat32(f float32) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(float64(f), 'g', -1, 32)}
}

// FromFloat64 returns an N node holding the shortest text that parses back to |f|.
func FromFloat64(f float64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatFloat(f, 'g', -1, 64)}
}

// FromDecimal returns an N node holding the exact decimal rendering of |d|.
func FromDecimal(d decimal.Decimal) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: d.String()}
}

// FromDateTime returns an S node holding |dt| in extended ISO-8601 form with nanosecond precision and no zone.
func FromDateTime(dt civil.DateTime) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: dt.In(time.UTC).Format(DateTimeLayout)}
}

// FromTime returns an S node holding |t| in extended ISO-8601 form with nanosecond precision and its zone offset.
func FromTime(t time.Time) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: t.Format(TimeLayout)}
}

// FromKeyedNodes wraps already encoded attributes into an M node. A nil map produces an empty M node.
func FromKeyedNodes(m map[string]types.AttributeValue) types.AttributeValue {
	if m == nil {
		m = map[string]types.AttributeValue{}
	}
	return &types.AttributeValueMemberM{Value: m}
}

func nullNode() types.AttributeValue {
	return &types.AttributeValueMemberNULL{Value: true}
}

// AsString returns the text of an S node.
func AsString(av types.AttributeValue) (string, bool) {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value, true
	}
	return "", false
}

// AsNumber returns the decimal text of an N node.
func AsNumber(av types.AttributeValue) (string, bool) {
	if n, ok := av.(*types.AttributeValueMemberN); ok {
		return n.Value, true
	}
	return "", false
}

// AsBool returns the value of a BOOL node.
func AsBool(av types.AttributeValue) (bool, bool) {
	if b, ok := av.(*types.AttributeValueMemberBOOL); ok {
		return b.Value, true
	}
	return false, false
}

// AsList returns the elements of an L node.
func AsList(av types.AttributeValue) ([]types.AttributeValue, bool) {
	if l, ok := av.(*types.AttributeValueMemberL); ok {
		return l.Value, true
	}
	return nil, false
}

// AsMap returns the attributes of an M node.
func AsMap(av types.AttributeValue) (map[string]types.AttributeValue, bool) {
	if m, ok := av.(*types.AttributeValueMemberM); ok {
		return m.Value, true
	}
	return nil, false
}

// IsNull returns true if |av| is a NULL node.
func IsNull(av types.AttributeValue) bool {
	n, ok := av.(*types.AttributeValueMemberNULL)
	return ok && n.Value
}
