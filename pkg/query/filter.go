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

// Package query provides the declarative query engine: a Mongo style filter
// language, a chainable builder and the field mapping and coercion rules every
// storage backend shares.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/errors"
)

var (
	// ErrInvalidFilter is returned when a filter is malformed, e.g. when $or
	// is not given a list of filters.
	ErrInvalidFilter = errors.InvalidArgument("invalid filter").WithCode("ErrInvalidFilter")

	// ErrUnknownField is returned when a filter, sort or projection names a
	// field the collection does not have.
	ErrUnknownField = errors.InvalidArgument("unknown field").WithCode("ErrUnknownField")

	// ErrInvalidValue is returned when a value cannot be coerced into the type
	// of its field.
	ErrInvalidValue = errors.InvalidArgument("invalid value").WithCode("ErrInvalidValue")
)

// Filter maps field names either to a literal, meaning equality, or to an
// operator object such as {"$gte": 5}. The keys $and and $or hold lists of
// sub-filters.
type Filter map[string]interface{}

// Op is a field level operator of the filter language.
type Op int

// The operators of the filter language.
const (
	OpEq Op = iota
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpNin
	OpRegex
	OpLike
	OpILike
	OpNull
	OpExists
)

var opsByName = map[string]Op{
	"$eq":     OpEq,
	"$ne":     OpNe,
	"$gt":     OpGt,
	"$gte":    OpGte,
	"$lt":     OpLt,
	"$lte":    OpLte,
	"$in":     OpIn,
	"$nin":    OpNin,
	"$regex":  OpRegex,
	"$like":   OpLike,
	"$ilike":  OpILike,
	"$null":   OpNull,
	"$exists": OpExists,
}

// String returns the operator as written in a filter.
func (o Op) String() string {
	for name, op := range opsByName {
		if op == o {
			return name
		}
	}
	return fmt.Sprintf("$op(%d)", int(o))
}

// Condition is a node of a parsed filter: a *Field, an And or an Or.
type Condition interface {
	isCondition()
}

// Field is a predicate on a single field.
type Field struct {
	Name  string
	Op    Op
	Value interface{}
}

// And matches when every condition matches. An empty And matches everything.
type And []Condition

// Or matches when any condition matches. An empty Or matches nothing.
type Or []Condition

func (*Field) isCondition() {}
func (And) isCondition()    {}
func (Or) isCondition()     {}

// Parse parses the given filter into a condition tree. Keys are visited in
// sorted order so that compiled queries are deterministic. Unknown operators
// are ignored.
func Parse(filter Filter) (Condition, error) {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	and := And{}
	for _, key := range keys {
		value := filter[key]
		switch key {
		case "$and", "$or":
			subs, err := parseList(key, value)
			if err != nil {
				return nil, err
			}
			if key == "$and" {
				and = append(and, And(subs))
			} else {
				and = append(and, Or(subs))
			}
		default:
			if strings.HasPrefix(key, "$") {
				continue
			}
			and = append(and, parseField(key, value)...)
		}
	}

	return and, nil
}

func parseList(key string, value interface{}) ([]Condition, error) {
	var filters []Filter
	switch v := value.(type) {
	case []Filter:
		filters = v
	case []map[string]interface{}:
		for _, f := range v {
			filters = append(filters, f)
		}
	case []interface{}:
		for _, e := range v {
			f, ok := asFilter(e)
			if !ok {
				return nil, fmt.Errorf("%s expects filters, got %T: %w", key, e, ErrInvalidFilter)
			}
			filters = append(filters, f)
		}
	default:
		return nil, fmt.Errorf("%s expects a list, got %T: %w", key, value, ErrInvalidFilter)
	}

	conds := make([]Condition, 0, len(filters))
	for _, f := range filters {
		cond, err := Parse(f)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

func parseField(name string, value interface{}) []Condition {
	ops, ok := asFilter(value)
	if !ok || !isOperatorObject(ops) {
		if value == nil {
			return []Condition{&Field{Name: name, Op: OpNull, Value: true}}
		}
		return []Condition{&Field{Name: name, Op: OpEq, Value: value}}
	}

	keys := make([]string, 0, len(ops))
	for k := range ops {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var conds []Condition
	for _, k := range keys {
		op, known := opsByName[k]
		if !known {
			continue
		}

		v := ops[k]
		switch op {
		case OpEq:
			if v == nil {
				op, v = OpNull, true
			}
		case OpNe:
			if v == nil {
				op, v = OpNull, false
			}
		case OpIn, OpNin:
			v = toList(v)
		}
		conds = append(conds, &Field{Name: name, Op: op, Value: v})
	}
	return conds
}

func asFilter(v interface{}) (Filter, bool) {
	switch f := v.(type) {
	case Filter:
		return f, true
	case map[string]interface{}:
		return f, true
	case types.Record:
		return Filter(f), true
	}
	return nil, false
}

// isOperatorObject returns whether every key of the object is an operator.
// Objects without operator keys are literal values of object fields.
func isOperatorObject(f Filter) bool {
	if len(f) == 0 {
		return false
	}
	for k := range f {
		if !strings.HasPrefix(k, "$") {
			return false
		}
	}
	return true
}

func toList(v interface{}) []interface{} {
	switch list := v.(type) {
	case []interface{}:
		return list
	case []string:
		out := make([]interface{}, len(list))
		for i, e := range list {
			out[i] = e
		}
		return out
	case []int:
		out := make([]interface{}, len(list))
		for i, e := range list {
			out[i] = e
		}
		return out
	case []int64:
		out := make([]interface{}, len(list))
		for i, e := range list {
			out[i] = e
		}
		return out
	case []float64:
		out := make([]interface{}, len(list))
		for i, e := range list {
			out[i] = e
		}
		return out
	}
	return []interface{}{v}
}

// Walk calls fn for every field predicate of the condition, returning the
// first error.
func Walk(cond Condition, fn func(f *Field) error) error {
	switch c := cond.(type) {
	case nil:
		return nil
	case *Field:
		return fn(c)
	case And:
		for _, sub := range c {
			if err := Walk(sub, fn); err != nil {
				return err
			}
		}
	case Or:
		for _, sub := range c {
			if err := Walk(sub, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
