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
	"reflect"
	"sort"
	"strings"
	"time"
)

// Match evaluates the condition against a row holding canonical values. It
// is the evaluator of backends without a native query language.
func Match(cond Condition, row map[string]interface{}) bool {
	switch c := cond.(type) {
	case nil:
		return true
	case *Field:
		return matchField(c, row[c.Name])
	case And:
		for _, sub := range c {
			if !Match(sub, row) {
				return false
			}
		}
		return true
	case Or:
		for _, sub := range c {
			if Match(sub, row) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func matchField(f *Field, value interface{}) bool {
	switch f.Op {
	case OpEq:
		return value != nil && Equal(value, f.Value)
	case OpNe:
		return value == nil || !Equal(value, f.Value)
	case OpGt, OpGte, OpLt, OpLte:
		if value == nil || f.Value == nil {
			return false
		}
		cmp, ok := Compare(value, f.Value)
		if !ok {
			return false
		}
		switch f.Op {
		case OpGt:
			return cmp > 0
		case OpGte:
			return cmp >= 0
		case OpLt:
			return cmp < 0
		default:
			return cmp <= 0
		}
	case OpIn:
		if value == nil {
			return false
		}
		for _, e := range toList(f.Value) {
			if Equal(value, e) {
				return true
			}
		}
		return false
	case OpNin:
		if value == nil {
			return true
		}
		for _, e := range toList(f.Value) {
			if Equal(value, e) {
				return false
			}
		}
		return true
	case OpRegex, OpILike:
		s, ok := value.(string)
		pattern, pok := f.Value.(string)
		return ok && pok && strings.Contains(strings.ToLower(s), strings.ToLower(pattern))
	case OpLike:
		s, ok := value.(string)
		pattern, pok := f.Value.(string)
		return ok && pok && strings.Contains(s, pattern)
	case OpNull:
		return (value == nil) == truthy(f.Value)
	case OpExists:
		return (value != nil) == truthy(f.Value)
	default:
		return false
	}
}

func truthy(v interface{}) bool {
	b, ok := toBool(v)
	return ok && b
}

// Equal reports whether two canonical values are equal. Numbers of different
// Go types compare by value.
func Equal(a, b interface{}) bool {
	if cmp, ok := Compare(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(a, b)
}

// Compare orders two canonical values of the same kind. It reports false when
// the values are not comparable. nil sorts before everything.
func Compare(a, b interface{}) (int, bool) {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0, true
		case a == nil:
			return -1, true
		default:
			return 1, true
		}
	}

	if af, ok := toFloatStrict(a); ok {
		bf, ok := toFloatStrict(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(av, bv), true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		}
		return 1, true
	}

	return 0, false
}

func toFloatStrict(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// SortRows sorts rows by the given sort fields in place.
func SortRows(rows []map[string]interface{}, sorts []SortField) {
	if len(sorts) == 0 {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, s := range sorts {
			cmp, _ := Compare(rows[i][s.Field], rows[j][s.Field])
			if cmp == 0 {
				continue
			}
			if s.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

// Window returns the rows in the window of the given offset and limit. A
// limit of 0 means no limit.
func Window[T any](rows []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// Project returns a copy of the row holding only the given keys. An empty
// projection keeps every key.
func Project(row map[string]interface{}, keys []string) map[string]interface{} {
	if len(keys) == 0 {
		return row
	}
	projected := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		if v, ok := row[k]; ok {
			projected[k] = v
		}
	}
	return projected
}
