/*
 * Copyright 2025 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sqlite

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yorkie-team/folio/api/types"
)

// structuredKey is the key objects and arrays are wrapped under, as extended
// JSON only represents documents at the top level.
const structuredKey = "v"

// encodeStructured encodes an object or an array as canonical extended JSON.
// Unlike plain JSON it keeps int64, double and datetime values apart, so
// structured values read back with the types they were written with. Keys
// are sorted so that equal values encode to equal text.
func encodeStructured(v interface{}) (string, error) {
	data, err := bson.MarshalExtJSON(bson.D{{Key: structuredKey, Value: toBSON(v)}}, true, false)
	if err != nil {
		return "", fmt.Errorf("encode %T: %w", v, err)
	}
	return string(data), nil
}

// decodeStructured decodes the text of an object or an array column. Text
// written as plain JSON is decoded with its numbers kept as json.Number.
func decodeStructured(text string) (interface{}, error) {
	var doc bson.D
	if err := bson.UnmarshalExtJSON([]byte(text), true, &doc); err == nil &&
		len(doc) == 1 && doc[0].Key == structuredKey {
		return fromBSON(doc[0].Value), nil
	}

	var v interface{}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode %q: %w", text, err)
	}
	return v, nil
}

func toBSON(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return sortedDoc(val)
	case types.Record:
		return sortedDoc(val)
	case []interface{}:
		arr := make(bson.A, len(val))
		for i, e := range val {
			arr[i] = toBSON(e)
		}
		return arr
	case time.Time:
		return primitive.NewDateTimeFromTime(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		f, _ := val.Float64()
		return f
	default:
		return v
	}
}

func sortedDoc(m map[string]interface{}) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: toBSON(m[k])})
	}
	return doc
}

func fromBSON(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.D:
		m := make(map[string]interface{}, len(val))
		for _, e := range val {
			m[e.Key] = fromBSON(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]interface{}, len(val))
		for k, e := range val {
			m[k] = fromBSON(e)
		}
		return m
	case primitive.A:
		s := make([]interface{}, len(val))
		for i, e := range val {
			s[i] = fromBSON(e)
		}
		return s
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, e := range val {
			s[i] = fromBSON(e)
		}
		return s
	case primitive.DateTime:
		return val.Time().UTC()
	case time.Time:
		return val.UTC()
	case int32:
		return int64(val)
	default:
		return v
	}
}
