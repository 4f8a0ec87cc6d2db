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
	"context"
	"fmt"
	"strings"

	"github.com/yorkie-team/folio/api/types"
)

// SortField is a field to sort by and its direction.
type SortField struct {
	Field string
	Desc  bool
}

// Asc returns an ascending sort on the given field.
func Asc(field string) SortField {
	return SortField{Field: field}
}

// Desc returns a descending sort on the given field.
func Desc(field string) SortField {
	return SortField{Field: field, Desc: true}
}

// ParseSort parses a comma separated sort expression such as
// "-createdAt,name", where a leading minus means descending.
func ParseSort(expr string) []SortField {
	var sorts []SortField
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.HasPrefix(part, "-"):
			sorts = append(sorts, Desc(part[1:]))
		default:
			sorts = append(sorts, Asc(strings.TrimPrefix(part, "+")))
		}
	}
	return sorts
}

// Spec is a resolved query: every name in it is physical and every operand
// is coerced to the type of its column. Backends compile it into their native
// query language.
type Spec struct {
	Filter     Condition
	Sort       []SortField
	Limit      int
	Offset     int
	Projection []string
}

// Executor runs resolved queries. Records it returns are normalized.
type Executor interface {
	Select(ctx context.Context, spec *Spec) ([]types.Record, error)
	Count(ctx context.Context, spec *Spec) (int64, error)
}

// Page is the result of Builder.Paginate.
type Page struct {
	Data  []types.Record `json:"data" yaml:"data"`
	Total int64          `json:"total" yaml:"total"`
	Limit int            `json:"limit,omitempty" yaml:"limit,omitempty"`
	Page  *int           `json:"page,omitempty" yaml:"page,omitempty"`
}

// Builder builds a query over a collection. Builders are not safe for
// concurrent use and are meant to be used for a single call.
type Builder struct {
	executor Executor
	fields   *FieldMap

	filters    []Filter
	sorts      []SortField
	limit      int
	skip       int
	skipSet    bool
	projection []string
	locale     string
	version    string
}

// NewBuilder creates a builder bound to the collection of the given map.
func NewBuilder(executor Executor, fields *FieldMap) *Builder {
	return &Builder{
		executor: executor,
		fields:   fields,
	}
}

// Where adds the given filter to the query.
func (b *Builder) Where(filter Filter) *Builder {
	if len(filter) > 0 {
		b.filters = append(b.filters, filter)
	}
	return b
}

// And adds the given filter to the query. Every filter must match.
func (b *Builder) And(filter Filter) *Builder {
	return b.Where(filter)
}

// Or adds a condition matching when any of the given filters matches.
func (b *Builder) Or(filters ...Filter) *Builder {
	if len(filters) > 0 {
		b.filters = append(b.filters, Filter{"$or": filters})
	}
	return b
}

// Sort appends the given sort fields.
func (b *Builder) Sort(sorts ...SortField) *Builder {
	b.sorts = append(b.sorts, sorts...)
	return b
}

// Limit sets the maximum number of records to return.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

// Skip sets the number of records to skip.
func (b *Builder) Skip(n int) *Builder {
	b.skip = n
	b.skipSet = true
	return b
}

// Select restricts the fields of the returned records. The identifier is
// always returned.
func (b *Builder) Select(fields ...string) *Builder {
	b.projection = append(b.projection, fields...)
	return b
}

// Locale scopes the query to the given locale when the collection is
// localized.
func (b *Builder) Locale(locale string) *Builder {
	b.locale = locale
	return b
}

// Version scopes the query to the given status. Any other value is a
// version identifier the caller resolves, and adds no condition.
func (b *Builder) Version(version string) *Builder {
	b.version = version
	return b
}

// Build resolves the query into a Spec.
func (b *Builder) Build() (*Spec, error) {
	coll := b.fields.Collection()
	if b.limit < 0 {
		return nil, fmt.Errorf("limit %d: %w", b.limit, ErrInvalidFilter)
	}
	if b.skip < 0 {
		return nil, fmt.Errorf("skip %d: %w", b.skip, ErrInvalidFilter)
	}

	and := And{}
	for _, f := range b.filters {
		cond, err := Parse(f)
		if err != nil {
			return nil, err
		}
		and = append(and, cond)
	}
	if b.locale != "" && coll.HasLocale() {
		and = append(and, &Field{Name: types.FieldLocale, Op: OpEq, Value: b.locale})
	}
	if status := types.Status(b.version); status.IsValid() && coll.HasStatus() {
		and = append(and, &Field{Name: types.FieldStatus, Op: OpEq, Value: string(status)})
	}

	filter, err := b.resolve(and)
	if err != nil {
		return nil, err
	}

	spec := &Spec{Filter: filter, Limit: b.limit, Offset: b.skip}
	for _, s := range b.sorts {
		name, err := b.fields.Resolve(s.Field)
		if err != nil {
			return nil, err
		}
		spec.Sort = append(spec.Sort, SortField{Field: name, Desc: s.Desc})
	}
	if len(b.projection) > 0 {
		id := b.fields.Physical(types.FieldID)
		spec.Projection = append(spec.Projection, id)
		for _, p := range b.projection {
			name, err := b.fields.Resolve(p)
			if err != nil {
				return nil, err
			}
			if name != id {
				spec.Projection = append(spec.Projection, name)
			}
		}
	}

	return spec, nil
}

func (b *Builder) resolve(cond Condition) (Condition, error) {
	switch c := cond.(type) {
	case *Field:
		name, err := b.fields.Resolve(c.Name)
		if err != nil {
			return nil, err
		}
		value, err := coerceOperand(b.fields.Column(name), c.Op, c.Value)
		if err != nil {
			return nil, err
		}
		return &Field{Name: name, Op: c.Op, Value: value}, nil
	case And:
		resolved := make(And, 0, len(c))
		for _, sub := range c {
			r, err := b.resolve(sub)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, r)
		}
		return resolved, nil
	case Or:
		resolved := make(Or, 0, len(c))
		for _, sub := range c {
			r, err := b.resolve(sub)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, r)
		}
		return resolved, nil
	}
	return cond, nil
}

func coerceOperand(col *types.Field, op Op, value interface{}) (interface{}, error) {
	switch op {
	case OpNull, OpExists:
		b, ok := toBool(value)
		if !ok {
			return nil, fmt.Errorf("%s %s expects a boolean: %w", col.Name, op, ErrInvalidFilter)
		}
		return b, nil
	case OpRegex, OpLike, OpILike:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%s %s expects a string: %w", col.Name, op, ErrInvalidFilter)
		}
		return s, nil
	case OpIn, OpNin:
		list := toList(value)
		coerced := make([]interface{}, 0, len(list))
		for _, e := range list {
			v, err := Coerce(col, e)
			if err != nil {
				return nil, err
			}
			coerced = append(coerced, v)
		}
		return coerced, nil
	default:
		return Coerce(col, value)
	}
}

// Exec runs the query and returns the matching records.
func (b *Builder) Exec(ctx context.Context) ([]types.Record, error) {
	spec, err := b.Build()
	if err != nil {
		return nil, err
	}
	return b.executor.Select(ctx, spec)
}

// ExecOne runs the query with a limit of 1 and returns the first record, or
// nil when nothing matches.
func (b *Builder) ExecOne(ctx context.Context) (types.Record, error) {
	spec, err := b.Build()
	if err != nil {
		return nil, err
	}
	spec.Limit = 1

	records, err := b.executor.Select(ctx, spec)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Count returns the number of matching records, ignoring limit and skip.
func (b *Builder) Count(ctx context.Context) (int64, error) {
	spec, err := b.Build()
	if err != nil {
		return 0, err
	}
	spec.Limit, spec.Offset, spec.Sort, spec.Projection = 0, 0, nil, nil
	return b.executor.Count(ctx, spec)
}

// Exists returns whether at least one record matches.
func (b *Builder) Exists(ctx context.Context) (bool, error) {
	count, err := b.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Paginate runs the query and returns a page of records with the total
// number of matching records. Page is set only when both limit and skip are.
func (b *Builder) Paginate(ctx context.Context) (*Page, error) {
	data, err := b.Exec(ctx)
	if err != nil {
		return nil, err
	}
	total, err := b.Count(ctx)
	if err != nil {
		return nil, err
	}

	page := &Page{Data: data, Total: total, Limit: b.limit}
	if b.limit > 0 && b.skipSet {
		n := b.skip/b.limit + 1
		page.Page = &n
	}
	return page, nil
}
