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

package query

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/yorkie-team/folio/api/types"
)

// TimePrecision is the precision timestamps are kept at. It is the finest
// precision every backend can store.
const TimePrecision = time.Millisecond

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Coerce converts the given value into the canonical Go type of the column:
// time.Time for timestamps, int64 for integers, float64 for numbers, bool for
// booleans, map[string]interface{} for objects and []interface{} for arrays.
// Structured values given as JSON text are decoded.
func Coerce(col *types.Field, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	var v interface{}
	var ok bool
	switch {
	case col.IsTimestamp():
		v, ok = toTime(value)
	case col.Type == types.FieldTypeInteger:
		v, ok = toInt(value)
	case col.Type == types.FieldTypeNumber:
		v, ok = toFloat(value)
	case col.Type == types.FieldTypeBoolean:
		v, ok = toBool(value)
	case col.Type == types.FieldTypeObject:
		v, ok = toObject(value)
	case col.Type == types.FieldTypeArray:
		v, ok = toArray(value)
	default:
		v, ok = value.(string)
	}

	if !ok {
		return nil, fmt.Errorf("%s: %v (%T) is not %s: %w", col.Name, value, value, col.Type, ErrInvalidValue)
	}
	return v, nil
}

// FormatTime formats the given time in a fixed width layout whose
// lexicographic order is chronological.
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(TimePrecision).Format("2006-01-02T15:04:05.000Z")
}

func toTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Truncate(TimePrecision), true
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC().Truncate(TimePrecision), true
			}
		}
	case int64:
		return time.UnixMilli(v).UTC(), true
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	}
	return time.Time{}, false
}

func toInt(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float32:
		return toInt(float64(v))
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		i, err := v.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		return i, err == nil
	}
	return 0, false
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

func toBool(value interface{}) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int:
		return v != 0, true
	case int32:
		return v != 0, true
	case int64:
		return v != 0, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	}
	return false, false
}

func toObject(value interface{}) (map[string]interface{}, bool) {
	switch v := value.(type) {
	case map[string]interface{}:
		return normalizeMap(v), true
	case types.Record:
		return normalizeMap(v), true
	case string:
		var m map[string]interface{}
		if err := decodeJSON(v, &m); err != nil || m == nil {
			return nil, false
		}
		return normalizeMap(m), true
	case []byte:
		return toObject(string(v))
	}
	return nil, false
}

func toArray(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []byte:
		return toArray(string(v))
	case string:
		var s []interface{}
		if err := decodeJSON(v, &s); err != nil || s == nil {
			return nil, false
		}
		return normalizeSlice(s), true
	}

	if s, ok := normalizeValue(value).([]interface{}); ok {
		return s, true
	}
	return nil, false
}

// decodeJSON decodes the given JSON text keeping numbers as json.Number so
// that integers above 2^53 survive.
func decodeJSON(text string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	return dec.Decode(v)
}

// normalizeValue converts a value nested in an object or an array into its
// canonical type: int64 for integers, float64 for other numbers, UTC
// time.Time at TimePrecision for timestamps, map[string]interface{} for
// objects and []interface{} for arrays. The result shares nothing with the
// given value.
func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil, string, bool, int64, float64:
		return v
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case float32:
		return float64(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case time.Time:
		return v.UTC().Truncate(TimePrecision)
	case map[string]interface{}:
		return normalizeMap(v)
	case types.Record:
		return normalizeMap(v)
	case []interface{}:
		return normalizeSlice(v)
	case []byte:
		return string(v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalizeValue(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return value
		}
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalizeValue(iter.Value().Interface())
		}
		return out
	}
	return value
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeSlice(s []interface{}) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = normalizeValue(v)
	}
	return out
}
