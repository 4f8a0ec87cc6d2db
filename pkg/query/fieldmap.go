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
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/yorkie-team/folio/api/types"
)

// FieldMap maps the logical, camel case names of a collection to the
// physical, snake case names its backends store. It is built once per
// collection.
type FieldMap struct {
	collection *types.Collection
	columns    map[string]*types.Field
	physical   map[string]string
	logical    map[string]string
}

// fieldMaps holds the FieldMap of every collection seen by FieldMapOf.
// Collections are read-only once registered, so a map never goes stale.
var fieldMaps sync.Map

// FieldMapOf returns the FieldMap of the given collection, building it on
// the first call only.
func FieldMapOf(coll *types.Collection) *FieldMap {
	if m, ok := fieldMaps.Load(coll); ok {
		return m.(*FieldMap)
	}
	m, _ := fieldMaps.LoadOrStore(coll, NewFieldMap(coll))
	return m.(*FieldMap)
}

// NewFieldMap creates a FieldMap of the given collection.
func NewFieldMap(coll *types.Collection) *FieldMap {
	m := &FieldMap{
		collection: coll,
		columns:    make(map[string]*types.Field),
		physical:   make(map[string]string),
		logical:    make(map[string]string),
	}

	for _, col := range coll.Columns() {
		name := ToSnake(col.Name)
		m.columns[name] = col
		m.physical[col.Name] = name
		m.logical[name] = col.Name
	}

	return m
}

// Collection returns the collection of the map.
func (m *FieldMap) Collection() *types.Collection {
	return m.collection
}

// Resolve returns the physical name of the given key. The converted name is
// tried first and then the key as written, so both documentId and
// document_id resolve to document_id.
func (m *FieldMap) Resolve(key string) (string, error) {
	if name, ok := m.physical[key]; ok {
		return name, nil
	}
	if _, ok := m.columns[key]; ok {
		return key, nil
	}
	return "", fmt.Errorf("%s.%s: %w", m.collection.Name, key, ErrUnknownField)
}

// Physical returns the physical name of a known logical name.
func (m *FieldMap) Physical(logical string) string {
	if name, ok := m.physical[logical]; ok {
		return name
	}
	return ToSnake(logical)
}

// Logical returns the logical name of a physical name.
func (m *FieldMap) Logical(physical string) string {
	if name, ok := m.logical[physical]; ok {
		return name
	}
	return ToCamel(physical)
}

// Column returns the column of the given physical name, or nil.
func (m *FieldMap) Column(physical string) *types.Field {
	return m.columns[physical]
}

// PhysicalColumns returns the physical names of every column in the order
// of Collection.Columns.
func (m *FieldMap) PhysicalColumns() []string {
	cols := m.collection.Columns()
	names := make([]string, 0, len(cols))
	for _, col := range cols {
		names = append(names, m.physical[col.Name])
	}
	return names
}

// Normalize turns a physical row into a record: names are converted back to
// logical ones and values are coerced to the types of their columns. Null
// values and keys that are not columns of the collection are dropped.
func (m *FieldMap) Normalize(row map[string]interface{}) (types.Record, error) {
	rec := make(types.Record, len(row))
	for name, value := range row {
		col := m.columns[name]
		if col == nil || value == nil {
			continue
		}

		v, err := Coerce(col, value)
		if err != nil {
			return nil, fmt.Errorf("normalize %s.%s: %w", m.collection.Name, col.Name, err)
		}
		rec[col.Name] = v
	}
	return rec, nil
}

// ToSnake converts a camel case name into snake case, e.g. publishedAt into
// published_at.
func ToSnake(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))) && runes[i-1] != '_' {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ToCamel converts a snake case name into camel case, e.g. published_at into
// publishedAt.
func ToCamel(name string) string {
	parts := strings.Split(name, "_")
	var sb strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			sb.WriteString(p)
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]))
		sb.WriteString(p[1:])
	}
	return sb.String()
}
