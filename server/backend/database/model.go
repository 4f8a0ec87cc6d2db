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

package database

import (
	"context"
	"fmt"
	gotime "time"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/errors"
	"github.com/yorkie-team/folio/pkg/query"
)

// Model is the storage contract of a single collection. Lookups return nil
// when nothing matches. Query maps used by FindOne, FindMany, Update and
// Delete are exact-match filters.
type Model interface {
	// Collection returns the collection of this model.
	Collection() *types.Collection

	// Create inserts a new record built from the given data.
	Create(ctx context.Context, data types.Record) (types.Record, error)

	// FindByID returns the record of the given identifier.
	FindByID(ctx context.Context, id string) (types.Record, error)

	// Find returns every record.
	Find(ctx context.Context) ([]types.Record, error)

	// FindOne returns the first record matching the given query.
	FindOne(ctx context.Context, q types.Record) (types.Record, error)

	// FindMany returns every record matching the given query.
	FindMany(ctx context.Context, q types.Record) ([]types.Record, error)

	// Update applies the given patch to the first record matching the given
	// query and returns the updated record.
	Update(ctx context.Context, q types.Record, patch types.Record) (types.Record, error)

	// Delete deletes every record matching the given query and reports
	// whether at least one was deleted.
	Delete(ctx context.Context, q types.Record) (bool, error)

	// Query returns a fresh builder bound to this collection.
	Query() *query.Builder

	// WithLocale returns a copy of this model whose operations are scoped to
	// the given locale when the collection is localized.
	WithLocale(locale string) Model

	// WithStatus returns a copy of this model whose operations are scoped to
	// the given status when the collection has a status column.
	WithStatus(status types.Status) Model
}

type model struct {
	db     Database
	coll   *types.Collection
	fields *query.FieldMap

	locale string
	status types.Status
}

// NewModel creates a Model of the given collection over the given database.
func NewModel(db Database, coll *types.Collection) Model {
	return &model{
		db:     db,
		coll:   coll,
		fields: query.FieldMapOf(coll),
	}
}

func (m *model) Collection() *types.Collection {
	return m.coll
}

func (m *model) WithLocale(locale string) Model {
	copied := *m
	copied.locale = locale
	return &copied
}

func (m *model) WithStatus(status types.Status) Model {
	copied := *m
	copied.status = status
	return &copied
}

func (m *model) Query() *query.Builder {
	return query.NewBuilder(m, m.fields).
		Locale(m.locale).
		Version(string(m.status))
}

// Select runs the given query and normalizes the rows. It makes the model a
// query.Executor.
func (m *model) Select(ctx context.Context, spec *query.Spec) ([]types.Record, error) {
	rows, err := m.db.Select(ctx, m.coll, spec)
	if err != nil {
		return nil, m.translate("select", err)
	}

	records := make([]types.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := m.fields.Normalize(row)
		if err != nil {
			return nil, &DatabaseError{Collection: m.coll.Name, Op: "select", Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Count counts the rows matching the given query.
func (m *model) Count(ctx context.Context, spec *query.Spec) (int64, error) {
	count, err := m.db.Count(ctx, m.coll, spec)
	if err != nil {
		return 0, m.translate("count", err)
	}
	return count, nil
}

func (m *model) Create(ctx context.Context, data types.Record) (types.Record, error) {
	if _, ok := data[types.FieldID]; ok {
		return nil, &ValidationError{Collection: m.coll.Name, Fields: []string{types.FieldID}, Reason: ReasonNotWritable}
	}

	rec := data.DeepCopy()
	if m.locale != "" && m.coll.HasLocale() && rec[types.FieldLocale] == nil {
		rec[types.FieldLocale] = m.locale
	}
	if m.status != "" && m.coll.HasStatus() && rec[types.FieldStatus] == nil {
		rec[types.FieldStatus] = string(m.status)
	}
	now := gotime.Now()
	for _, name := range []string{types.FieldCreatedAt, types.FieldUpdatedAt} {
		if m.coll.Column(name) != nil && rec[name] == nil {
			rec[name] = now
		}
	}

	row, err := m.toRow(rec)
	if err != nil {
		return nil, err
	}

	id, err := m.db.Insert(ctx, m.coll, row)
	if err != nil {
		return nil, m.translate("insert", err)
	}
	row[m.fields.Physical(types.FieldID)] = id

	return m.normalize("insert", row)
}

func (m *model) FindByID(ctx context.Context, id string) (types.Record, error) {
	return m.FindOne(ctx, types.Record{types.FieldID: id})
}

func (m *model) Find(ctx context.Context) ([]types.Record, error) {
	return m.Query().Exec(ctx)
}

func (m *model) FindOne(ctx context.Context, q types.Record) (types.Record, error) {
	return m.Query().Where(query.Filter(q)).ExecOne(ctx)
}

func (m *model) FindMany(ctx context.Context, q types.Record) ([]types.Record, error) {
	return m.Query().Where(query.Filter(q)).Exec(ctx)
}

func (m *model) Update(ctx context.Context, q types.Record, patch types.Record) (types.Record, error) {
	if _, ok := patch[types.FieldID]; ok {
		return nil, &ValidationError{Collection: m.coll.Name, Fields: []string{types.FieldID}, Reason: ReasonNotWritable}
	}

	target, err := m.FindOne(ctx, q)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("update %s %v: %w", m.coll.Name, map[string]interface{}(q), ErrDocumentNotFound)
	}

	rec := target.Merge(patch)
	id := rec.ID()
	delete(rec, types.FieldID)
	if m.coll.Column(types.FieldUpdatedAt) != nil && patch[types.FieldUpdatedAt] == nil {
		rec[types.FieldUpdatedAt] = gotime.Now()
	}

	row, err := m.toRow(rec)
	if err != nil {
		return nil, err
	}
	if err := m.db.Replace(ctx, m.coll, id, row); err != nil {
		return nil, m.translate("replace", err)
	}
	row[m.fields.Physical(types.FieldID)] = id

	return m.normalize("replace", row)
}

func (m *model) Delete(ctx context.Context, q types.Record) (bool, error) {
	records, err := m.Query().Where(query.Filter(q)).Select(types.FieldID).Exec(ctx)
	if err != nil {
		return false, err
	}
	if len(records) == 0 {
		return false, nil
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID())
	}

	deleted, err := m.db.Delete(ctx, m.coll, ids)
	if err != nil {
		return false, m.translate("delete", err)
	}
	return deleted > 0, nil
}

// toRow resolves the names of the given record and coerces its values into a
// physical row, checking that every required column has a value.
func (m *model) toRow(rec types.Record) (Row, error) {
	row := make(Row, len(rec))
	for key, value := range rec {
		name, err := m.fields.Resolve(key)
		if err != nil {
			return nil, &ValidationError{Collection: m.coll.Name, Fields: []string{key}, Reason: ReasonUnknown}
		}
		if name == m.fields.Physical(types.FieldID) {
			return nil, &ValidationError{Collection: m.coll.Name, Fields: []string{types.FieldID}, Reason: ReasonNotWritable}
		}

		v, err := query.Coerce(m.fields.Column(name), value)
		if err != nil {
			return nil, &ValidationError{Collection: m.coll.Name, Fields: []string{key}, Reason: ReasonInvalid}
		}
		row[name] = v
	}

	for _, col := range m.coll.Columns() {
		if col.Required && row[m.fields.Physical(col.Name)] == nil {
			return nil, &ValidationError{Collection: m.coll.Name, Fields: []string{col.Name}, Reason: ReasonRequired}
		}
	}

	return row, nil
}

func (m *model) normalize(op string, row Row) (types.Record, error) {
	rec, err := m.fields.Normalize(row)
	if err != nil {
		return nil, &DatabaseError{Collection: m.coll.Name, Op: op, Err: err}
	}
	return rec, nil
}

// translate turns an error of the database into one of the three categories
// of the contract. Constraint violations get logical field names.
func (m *model) translate(op string, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		fields := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, m.fields.Logical(f))
		}
		return &ValidationError{Collection: m.coll.Name, Fields: fields, Reason: verr.Reason}
	}
	if errors.Is(err, ErrDocumentNotFound) {
		return err
	}

	var dberr *DatabaseError
	if errors.As(err, &dberr) {
		return err
	}
	return &DatabaseError{Collection: m.coll.Name, Op: op, Err: err}
}

// EnsureModel ensures the storage of the given collection and returns its
// model.
func EnsureModel(ctx context.Context, db Database, coll *types.Collection) (Model, error) {
	if err := db.EnsureCollection(ctx, coll); err != nil {
		var dberr *DatabaseError
		if errors.As(err, &dberr) {
			return nil, err
		}
		return nil, &DatabaseError{Collection: coll.Name, Op: "ensure", Err: err}
	}
	return NewModel(db, coll), nil
}
