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

package types

import (
	"time"
)

// Record is a row of a collection keyed by logical, camel case names.
type Record map[string]interface{}

// ID returns the backend assigned identifier of the record.
func (r Record) ID() string {
	return r.String(FieldID)
}

// DocumentID returns the document identifier of the record.
func (r Record) DocumentID() string {
	return r.String(FieldDocumentID)
}

// Locale returns the locale of the record.
func (r Record) Locale() string {
	return r.String(FieldLocale)
}

// Status returns the status of the record.
func (r Record) Status() Status {
	return Status(r.String(FieldStatus))
}

// String returns the value of the given key if it is a string.
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Int returns the value of the given key as int64 if it is numeric.
func (r Record) Int(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Time returns the value of the given key if it is a time.
func (r Record) Time(key string) time.Time {
	if t, ok := r[key].(time.Time); ok {
		return t
	}
	return time.Time{}
}

// Merge returns a copy of the record overlaid with the given record.
func (r Record) Merge(other Record) Record {
	merged := r.DeepCopy()
	for k, v := range other.DeepCopy() {
		merged[k] = v
	}
	return merged
}

// Without returns a copy of the record without the given keys.
func (r Record) Without(keys ...string) Record {
	rec := r.DeepCopy()
	for _, k := range keys {
		delete(rec, k)
	}
	return rec
}

// DeepCopy returns a deep copy of the record. Nested maps and slices are
// copied too.
func (r Record) DeepCopy() Record {
	if r == nil {
		return nil
	}

	clone := make(Record, len(r))
	for k, v := range r {
		clone[k] = deepCopyValue(v)
	}
	return clone
}

func deepCopyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case Record:
		return val.DeepCopy()
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, e := range val {
			m[k] = deepCopyValue(e)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, e := range val {
			s[i] = deepCopyValue(e)
		}
		return s
	default:
		return v
	}
}
