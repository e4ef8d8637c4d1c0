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

// Package ddbjson reads and writes attribute values in DynamoDB JSON, the representation used by the DynamoDB wire
// protocol and the AWS CLI, where every value is an object with a single type descriptor key such as {"S": "text"}.
package ddbjson

import (
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"gopkg.in/src-d/go-errors.v1"
)

var ErrUnknownAttributeType = errors.NewKind("cannot render attribute value of type %s")
var ErrMalformedJSON = errors.NewKind("malformed DynamoDB JSON: %s")

// Marshal renders |av| as DynamoDB JSON.
func Marshal(av types.AttributeValue) ([]byte, error) {
	jv, err := toJSONValue(av)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jv)
}

// MarshalItem renders the attributes of an item as a DynamoDB JSON object keyed by attribute name.
func MarshalItem(item map[string]types.AttributeValue) ([]byte, error) {
	jv, err := itemToJSONValue(item)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jv)
}

func itemToJSONValue(item map[string]types.AttributeValue) (map[string]interface{}, error) {
	obj := make(map[string]interface{}, len(item))
	for k, av := range item {
		jv, err := toJSONValue(av)
		if err != nil {
			return nil, err
		}
		obj[k] = jv
	}
	return obj, nil
}

func toJSONValue(av types.AttributeValue) (interface{}, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return map[string]interface{}{"S": v.Value}, nil
	case *types.AttributeValueMemberN:
		return map[string]interface{}{"N": v.Value}, nil
	case *types.AttributeValueMemberBOOL:
		return map[string]interface{}{"BOOL": v.Value}, nil
	case *types.AttributeValueMemberNULL:
		return map[string]interface{}{"NULL": v.Value}, nil
	case *types.AttributeValueMemberB:
		return map[string]interface{}{"B": v.Value}, nil
	case *types.AttributeValueMemberSS:
		return map[string]interface{}{"SS": v.Value}, nil
	case *types.AttributeValueMemberNS:
		return map[string]interface{}{"NS": v.Value}, nil
	case *types.AttributeValueMemberBS:
		return map[string]interface{}{"BS": v.Value}, nil
	case *types.AttributeValueMemberL:
		l := make([]interface{}, len(v.Value))
		for i, elem := range v.Value {
			jv, err := toJSONValue(elem)
			if err != nil {
				return nil, err
			}
			l[i] = jv
		}
		return map[string]interface{}{"L": l}, nil
	case *types.AttributeValueMemberM:
		obj, err := itemToJSONValue(v.Value)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"M": obj}, nil
	}

	return nil, ErrUnknownAttributeType.New(fmt.Sprintf("%T", av))
}

// Unmarshal parses a single DynamoDB JSON attribute value.
func Unmarshal(data []byte) (types.AttributeValue, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformedJSON.New("invalid json")
	}
	return fromResult(gjson.ParseBytes(data))
}

// UnmarshalItem parses a DynamoDB JSON object keyed by attribute name.
func UnmarshalItem(data []byte) (map[string]types.AttributeValue, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformedJSON.New("invalid json")
	}

	r := gjson.ParseBytes(data)
	if !r.IsObject() {
		return nil, ErrMalformedJSON.New("item must be an object")
	}
	return itemFromResult(r)
}

func itemFromResult(r gjson.Result) (map[string]types.AttributeValue, error) {
	item := map[string]types.AttributeValue{}

	var err error
	r.ForEach(func(k, v gjson.Result) bool {
		var av types.AttributeValue
		av, err = fromResult(v)
		if err != nil {
			return false
		}
		item[k.String()] = av
		return true
	})

	if err != nil {
		return nil, err
	}
	return item, nil
}

func fromResult(r gjson.Result) (types.AttributeValue, error) {
	if !r.IsObject() {
		return nil, ErrMalformedJSON.New("attribute value must be an object: " + r.Raw)
	}

	var desc string
	var val gjson.Result
	count := 0
	r.ForEach(func(k, v gjson.Result) bool {
		desc, val = k.String(), v
		count++
		return true
	})

	if count != 1 {
		return nil, ErrMalformedJSON.New("attribute value must have exactly one type descriptor: " + r.Raw)
	}

	switch desc {
	case "S":
		if val.Type != gjson.String {
			break
		}
		return &types.AttributeValueMemberS{Value: val.String()}, nil
	case "N":
		if val.Type != gjson.String {
			break
		}
		return &types.AttributeValueMemberN{Value: val.String()}, nil
	case "BOOL":
		if val.Type != gjson.True && val.Type != gjson.False {
			break
		}
		return &types.AttributeValueMemberBOOL{Value: val.Bool()}, nil
	case "NULL":
		if val.Type != gjson.True {
			break
		}
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case "B":
		if val.Type != gjson.String {
			break
		}
		bs, err := base64.StdEncoding.DecodeString(val.String())
		if err != nil {
			return nil, ErrMalformedJSON.Wrap(err, "B")
		}
		return &types.AttributeValueMemberB{Value: bs}, nil
	case "SS", "NS":
		strs, ok := stringArray(val)
		if !ok {
			break
		}
		if desc == "SS" {
			return &types.AttributeValueMemberSS{Value: strs}, nil
		}
		return &types.AttributeValueMemberNS{Value: strs}, nil
	case "BS":
		strs, ok := stringArray(val)
		if !ok {
			break
		}
		bss := make([][]byte, len(strs))
		for i, str := range strs {
			bs, err := base64.StdEncoding.DecodeString(str)
			if err != nil {
				return nil, ErrMalformedJSON.Wrap(err, "BS")
			}
			bss[i] = bs
		}
		return &types.AttributeValueMemberBS{Value: bss}, nil
	case "L":
		if !val.IsArray() {
			break
		}
		elems := val.Array()
		l := make([]types.AttributeValue, len(elems))
		for i, elem := range elems {
			av, err := fromResult(elem)
			if err != nil {
				return nil, err
			}
			l[i] = av
		}
		return &types.AttributeValueMemberL{Value: l}, nil
	case "M":
		if !val.IsObject() {
			break
		}
		m, err := itemFromResult(val)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	default:
		return nil, ErrMalformedJSON.New("unknown type descriptor " + desc)
	}

	return nil, ErrMalformedJSON.New(fmt.Sprintf("invalid %s value %s", desc, val.Raw))
}

func stringArray(r gjson.Result) ([]string, bool) {
	if !r.IsArray() {
		return nil, false
	}

	elems := r.Array()
	strs := make([]string, len(elems))
	for i, elem := range elems {
		if elem.Type != gjson.String {
			return nil, false
		}
		strs[i] = elem.String()
	}
	return strs, true
}
