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

// Package attrval encodes Go values as DynamoDB attribute values. The mapping between Go values and attribute values
// is described in the documentation for the Marshal function.
package attrval

import (
	"encoding"
	"encoding/json"
	"reflect"
	"sort"
	"time"

	"cloud.google.com/go/civil"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Opt holds the options of MarshalOpt. The zero value is valid.
type Opt struct {
	// TagName is the struct tag key holding attribute names and options. Defaults to DefaultTagName.
	TagName string

	// MaxDepth limits how deeply values may nest. Zero means no limit.
	MaxDepth int
}

func (opt Opt) tagName() string {
	if opt.TagName == "" {
		return DefaultTagName
	}
	return opt.TagName
}

// Marshaler is implemented by types that encode themselves.
type Marshaler interface {
	// MarshalAttributeValue returns the attribute value encoding of the receiver. A nil result with a nil error is
	// reported as an error.
	MarshalAttributeValue() (types.AttributeValue, error)
}

// FieldReader is implemented by composite values that enumerate their own fields instead of having their exported
// struct fields read through reflection. ReadFields calls |fn| once per field. An error returned by |fn| must be
// returned unchanged.
type FieldReader interface {
	ReadFields(fn func(name string, value interface{}) error) error
}

// Marshal converts a Go value to a DynamoDB attribute value.
//
// Marshal classifies v by its runtime type and traverses it recursively:
//
// Strings are encoded as S. Booleans are encoded as BOOL. Integers of every width, float32, float64,
// decimal.Decimal and json.Number are encoded as N holding text that parses back to the same value.
//
// time.Time values are encoded as S in extended ISO-8601 form with nanosecond precision and an explicit offset.
// civil.DateTime values are encoded the same way without an offset. Other types implementing
// encoding.TextMarshaler are encoded as S holding their text.
//
// Slices and arrays are encoded as L, preserving order. A nil slice encodes as an empty L.
//
// Structs are encoded as M. Each exported field becomes an attribute named after the field unless the field's tag
// says otherwise:
//
//	// Field is ignored.
//	Field int `dynamodbav:"-"`
//
//	// Field appears as attribute "myName".
//	Field int `dynamodbav:"myName"`
//
//	// Field is left out when it holds its zero value.
//	Field int `dynamodbav:",omitempty"`
//
// Embedded structs are encoded as an attribute named after the embedded type; their fields are not promoted.
// Maps with string keys and values implementing FieldReader are also encoded as M.
//
// Nil pointers, nil interfaces and an untyped nil are encoded as NULL. Attribute values are copied over without
// change and values implementing Marshaler encode themselves. A Marshaler or FieldReader with a pointer receiver is
// only found on addressable values: slice elements, and fields or elements reached through a pointer. Pass a pointer
// to the root value to have its own pointer methods used.
//
// Channels, functions, complex numbers and maps whose keys are not strings cannot be encoded; attempting to do so
// returns ErrUnsupportedValueKind. Values that refer back to themselves return ErrCyclicValue.
func Marshal(v interface{}) (types.AttributeValue, error) {
	return MarshalOpt(v, Opt{})
}

// MarshalOpt is like Marshal but with additional options.
func MarshalOpt(v interface{}, opt Opt) (types.AttributeValue, error) {
	e := &encoder{opt: opt}
	return e.encode(reflect.ValueOf(v), 0)
}

// MarshalItem encodes |v| and returns the attributes of the resulting M node, which is what DynamoDB accepts as an
// item or key.
func MarshalItem(v interface{}) (map[string]types.AttributeValue, error) {
	return MarshalItemOpt(v, Opt{})
}

// MarshalItemOpt is like MarshalItem but with additional options.
func MarshalItemOpt(v interface{}, opt Opt) (map[string]types.AttributeValue, error) {
	av, err := MarshalOpt(v, opt)
	if err != nil {
		return nil, err
	}

	m, ok := AsMap(av)
	if !ok {
		return nil, ErrNotAnItem.New(reflect.TypeOf(v), av)
	}

	return m, nil
}

type valueKind int

const (
	unsupportedKind valueKind = iota
	absentKind
	nodeKind
	marshalerKind
	indirectKind
	addressableKind
	stringKind
	boolKind
	intKind
	uintKind
	float32Kind
	float64Kind
	decimalKind
	numberTextKind
	dateTimeKind
	timeKind
	textKind
	sequenceKind
	mapKind
	structKind
	fieldReaderKind
)

var (
	attributeValueType = reflect.TypeOf((*types.AttributeValue)(nil)).Elem()
	marshalerType      = reflect.TypeOf((*Marshaler)(nil)).Elem()
	fieldReaderType    = reflect.TypeOf((*FieldReader)(nil)).Elem()
	textMarshalerType  = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	timeType           = reflect.TypeOf(time.Time{})
	dateTimeType       = reflect.TypeOf(civil.DateTime{})
	decimalType        = reflect.TypeOf(decimal.Decimal{})
	jsonNumberType     = reflect.TypeOf(json.Number(""))
)

// classify decides how |v| is encoded from its runtime type alone.
func classify(v reflect.Value) valueKind {
	if !v.IsValid() {
		return absentKind
	}

	t := v.Type()
	switch t.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return absentKind
		}
		return indirectKind
	case reflect.Ptr:
		if v.IsNil() {
			return absentKind
		}
	}

	switch {
	case t.Implements(attributeValueType):
		return nodeKind
	case t.Implements(marshalerType):
		return marshalerKind
	case t.Implements(fieldReaderType):
		return fieldReaderKind
	}

	if t.Kind() != reflect.Ptr && v.CanAddr() {
		pt := reflect.PointerTo(t)
		if pt.Implements(marshalerType) || pt.Implements(fieldReaderType) {
			return addressableKind
		}
	}

	switch t {
	case timeType:
		return timeKind
	case dateTimeType:
		return dateTimeKind
	case decimalType:
		return decimalKind
	case jsonNumberType:
		return numberTextKind
	}

	if t.Kind() == reflect.Ptr {
		if t.Implements(textMarshalerType) && !isScalarStruct(t.Elem()) {
			return textKind
		}
		return indirectKind
	}

	if t.Implements(textMarshalerType) {
		return textKind
	}

	switch t.Kind() {
	case reflect.Bool:
		return boolKind
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intKind
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintKind
	case reflect.Float32:
		return float32Kind
	case reflect.Float64:
		return float64Kind
	case reflect.String:
		return stringKind
	case reflect.Slice, reflect.Array:
		return sequenceKind
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return mapKind
		}
	case reflect.Struct:
		return structKind
	}

	return unsupportedKind
}

func isScalarStruct(t reflect.Type) bool {
	return t == timeType || t == dateTimeType || t == decimalType
}

// seenKey identifies a reference on the current encoding path. The type is part of the key since a struct and its
// first field share an address.
type seenKey struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type encoder struct {
	opt  Opt
	seen map[seenKey]struct{}
}

func (e *encoder) encode(v reflect.Value, depth int) (types.AttributeValue, error) {
	if e.opt.MaxDepth > 0 && depth > e.opt.MaxDepth {
		return nil, ErrMaxDepthExceeded.New(e.opt.MaxDepth)
	}

	switch classify(v) {
	case absentKind:
		return nullNode(), nil
	case nodeKind:
		return v.Interface().(types.AttributeValue), nil
	case marshalerKind:
		return encodeMarshaler(v)
	case indirectKind:
		return e.encodeIndirect(v, depth)
	case addressableKind:
		return e.encode(v.Addr(), depth)
	case stringKind:
		return FromString(v.String()), nil
	case boolKind:
		return FromBool(v.Bool()), nil
	case intKind:
		return FromInt(v.Int()), nil
	case uintKind:
		return FromUint(v.Uint()), nil
	case float32Kind:
		return FromFloat32(float32(v.Float())), nil
	case float64Kind:
		return FromFloat64(v.Float()), nil
	case decimalKind:
		return FromDecimal(v.Interface().(decimal.Decimal)), nil
	case numberTextKind:
		return &types.AttributeValueMemberN{Value: v.String()}, nil
	case dateTimeKind:
		return FromDateTime(v.Interface().(civil.DateTime)), nil
	case timeKind:
		return FromTime(v.Interface().(time.Time)), nil
	case textKind:
		return encodeText(v)
	case sequenceKind:
		return e.encodeSequence(v, depth)
	case mapKind:
		return e.encodeMap(v, depth)
	case structKind:
		return e.encodeStruct(v, depth)
	case fieldReaderKind:
		return e.encodeFieldReader(v, depth)
	}

	return nil, ErrUnsupportedValueKind.New(v.Type())
}

func (e *encoder) encodeIndirect(v reflect.Value, depth int) (types.AttributeValue, error) {
	if v.Kind() == reflect.Interface {
		return e.encode(v.Elem(), depth)
	}

	key := seenKey{ptr: v.Pointer(), typ: v.Type()}
	if err := e.enter(key); err != nil {
		return nil, err
	}
	defer e.leave(key)

	return e.encode(v.Elem(), depth)
}

func (e *encoder) enter(key seenKey) error {
	if _, ok := e.seen[key]; ok {
		return ErrCyclicValue.New(key.typ)
	}
	if e.seen == nil {
		e.seen = map[seenKey]struct{}{}
	}
	e.seen[key] = struct{}{}
	return nil
}

func (e *encoder) leave(key seenKey) {
	delete(e.seen, key)
}

func encodeMarshaler(v reflect.Value) (types.AttributeValue, error) {
	av, err := v.Interface().(Marshaler).MarshalAttributeValue()
	if err != nil {
		return nil, ErrMarshalerFailed.Wrap(err, v.Type())
	}
	if av == nil {
		return nil, ErrMarshalerFailed.New(v.Type())
	}
	return av, nil
}

func encodeText(v reflect.Value) (types.AttributeValue, error) {
	text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return nil, ErrMarshalerFailed.Wrap(err, v.Type())
	}
	return FromString(string(text)), nil
}

func (e *encoder) encodeSequence(v reflect.Value, depth int) (types.AttributeValue, error) {
	if v.Kind() == reflect.Slice && v.Len() > 0 {
		key := seenKey{ptr: v.Pointer(), typ: v.Type(), len: v.Len()}
		if err := e.enter(key); err != nil {
			return nil, err
		}
		defer e.leave(key)
	}

	l := make([]types.AttributeValue, v.Len())
	for i := 0; i < v.Len(); i++ {
		av, err := e.encode(v.Index(i), depth+1)
		if err != nil {
			return nil, err
		}
		l[i] = av
	}

	return &types.AttributeValueMemberL{Value: l}, nil
}

func (e *encoder) encodeMap(v reflect.Value, depth int) (types.AttributeValue, error) {
	if v.IsNil() {
		return FromKeyedNodes(nil), nil
	}

	key := seenKey{ptr: v.Pointer(), typ: v.Type()}
	if err := e.enter(key); err != nil {
		return nil, err
	}
	defer e.leave(key)

	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})

	m := make(map[string]types.AttributeValue, len(keys))
	for _, k := range keys {
		av, err := e.encode(v.MapIndex(k), depth+1)
		if err != nil {
			return nil, err
		}
		m[k.String()] = av
	}

	return &types.AttributeValueMemberM{Value: m}, nil
}

func (e *encoder) encodeStruct(v reflect.Value, depth int) (types.AttributeValue, error) {
	t := v.Type()
	tagName := e.opt.tagName()

	m := make(map[string]types.AttributeValue, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		tags := getTags(f, tagName)
		if tags.skip {
			continue
		}

		fv := v.Field(i)
		if tags.omitEmpty && fv.IsZero() {
			continue
		}

		if _, ok := m[tags.name]; ok {
			return nil, ErrDuplicateFieldName.New(tags.name, t)
		}

		av, err := e.encode(fv, depth+1)
		if err != nil {
			return nil, err
		}
		m[tags.name] = av
	}

	return &types.AttributeValueMemberM{Value: m}, nil
}

func (e *encoder) encodeFieldReader(v reflect.Value, depth int) (types.AttributeValue, error) {
	m := map[string]types.AttributeValue{}

	var encodeErr error
	err := v.Interface().(FieldReader).ReadFields(func(name string, value interface{}) error {
		if _, ok := m[name]; ok {
			encodeErr = ErrDuplicateFieldName.New(name, v.Type())
			return encodeErr
		}

		av, err := e.encode(reflect.ValueOf(value), depth+1)
		if err != nil {
			encodeErr = err
			return err
		}

		m[name] = av
		return nil
	})

	if encodeErr != nil {
		return nil, encodeErr
	}
	if err != nil {
		return nil, &FieldReadError{Type: v.Type(), Err: err}
	}

	return &types.AttributeValueMemberM{Value: m}, nil
}
