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

package attrval

import (
	"reflect"
	"strings"
)

// DefaultTagName is the struct tag key read when Opt.TagName is empty.
const DefaultTagName = "dynamodbav"

type attrTags struct {
	name      string
	skip      bool
	omitEmpty bool
}

func getTags(f reflect.StructField, key string) attrTags {
	tag := f.Tag.Get(key)
	if tag == "-" {
		return attrTags{skip: true}
	}

	name, opts, _ := strings.Cut(tag, ",")
	tags := attrTags{name: name}
	if tags.name == "" {
		tags.name = f.Name
	}

	for _, opt := range strings.Split(opts, ",") {
		switch strings.TrimSpace(opt) {
		case "omitempty":
			tags.omitEmpty = true
		}
	}

	return tags
}
