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
	"fmt"
	"reflect"

	"gopkg.in/src-d/go-errors.v1"
)

// ErrUnsupportedValueKind is returned when a value is neither one of the recognized scalar kinds, a sequence nor a
// composite. The argument is the runtime type of the offending value.
var ErrUnsupportedValueKind = errors.NewKind("unsupported value kind: %s")


// ErrCyclicValue is returned when a pointer, map or slice is reached again while it is still being encoded.
var ErrCyclicValue = errors.NewKind("cyclic value detected: %s refers back to itself")

// ErrMaxDepthExceeded is returned when the value nests deeper than Opt.MaxDepth.
var ErrMaxDepthExceeded = errors.NewKind("value nesting exceeds the maximum depth of %d")

// ErrMarshalerFailed wraps the error returned by a Marshaler implementation.
var ErrMarshalerFailed = errors.NewKind("%s.MarshalAttributeValue failed")

// ErrNotAnItem is returned by MarshalItem when the value does not encode to a map node.
var ErrNotAnItem = errors.NewKind("value of type %s does not encode to an item, got %T")

// ErrDuplicateFieldName is returned when two fields of one composite resolve to the same attribute name.
var ErrDuplicateFieldName = errors.NewKind("duplicate attribute name %q in %s")

// FieldReadError is returned when a FieldReader fails while its fields are being enumerated. The reader's error is
// available through Unwrap, so errors.Is and errors.As see it unchanged.
type FieldReadError struct {
	Type reflect.Type
	Err  error
}

func (e *FieldReadError) Error() string {
	return fmt.Sprintf("failed to read fields of %s: %v", e.Type, e.Err)
}

func (e *FieldReadError) Unwrap() error {
	return e.Err
}
