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

// Package sqlite implements the database interface using SQLite. Each
// collection is a table whose columns are the snake case names of its fields.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/xid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/query"
	"github.com/yorkie-team/folio/server/backend/database"
	"github.com/yorkie-team/folio/server/logging"
)

// DB is a database backed by SQLite.
type DB struct {
	config *Config
	db     *sql.DB
}

// Dial opens the database of the given configuration.
func Dial(conf *Config) (*DB, error) {
	db, err := sql.Open("sqlite", conf.DSN())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", conf.Path, err)
	}

	// Every connection to ":memory:" opens its own database.
	if conf.IsMemory() {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w: %w", conf.Path, database.ErrUnavailable, err)
	}

	logging.DefaultLogger().Infof("SQLite opened: %s", conf.Path)

	return &DB{
		config: conf,
		db:     db,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

// EnsureCollection creates the table of the given collection, adds columns
// missing from an existing table and creates its unique indexes.
func (d *DB) EnsureCollection(ctx context.Context, coll *types.Collection) error {
	fields := query.FieldMapOf(coll)
	table := quote(coll.Name)

	var defs []string
	for _, col := range coll.Columns() {
		defs = append(defs, columnDef(fields, col))
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
	if _, err := d.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", coll.Name, err)
	}

	existing, err := d.tableColumns(ctx, coll.Name)
	if err != nil {
		return err
	}
	for _, col := range coll.Columns() {
		name := fields.Physical(col.Name)
		if existing[name] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, quote(name), columnType(col))
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add column %s.%s: %w", coll.Name, name, err)
		}
	}

	for _, key := range coll.UniqueKeys() {
		var cols []string
		for _, name := range key {
			cols = append(cols, fields.Physical(name))
		}
		index := coll.Name + "_" + strings.Join(cols, "_") + "_key"

		quoted := make([]string, 0, len(cols))
		for _, c := range cols {
			quoted = append(quoted, quote(c))
		}
		stmt := fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)",
			quote(index), table, strings.Join(quoted, ", "),
		)
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index %s: %w", index, err)
		}
	}

	return nil
}

func columnDef(fields *query.FieldMap, col *types.Field) string {
	def := quote(fields.Physical(col.Name)) + " " + columnType(col)
	if col.Name == types.FieldID {
		return def + " PRIMARY KEY"
	}
	if col.Required {
		def += " NOT NULL"
	}
	return def
}

func (d *DB) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("table info %s: %w", table, err)
		}
		columns[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	return columns, nil
}

// Insert inserts the given row and returns its identifier.
func (d *DB) Insert(ctx context.Context, coll *types.Collection, row database.Row) (string, error) {
	id := xid.New().String()

	names := sortedKeys(row)
	cols := []string{quote(types.FieldID)}
	placeholders := []string{"?"}
	args := []interface{}{id}
	for _, name := range names {
		v, err := encode(row[name])
		if err != nil {
			return "", err
		}
		cols = append(cols, quote(name))
		placeholders = append(placeholders, "?")
		args = append(args, v)
	}

	stmt := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quote(coll.Name), strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return "", translate(coll.Name, "insert", err)
	}

	return id, nil
}

// Replace replaces every column of the row of the given identifier. Columns
// missing from the row are set to NULL.
func (d *DB) Replace(ctx context.Context, coll *types.Collection, id string, row database.Row) error {
	fields := query.FieldMapOf(coll)

	var sets []string
	var args []interface{}
	for _, name := range fields.PhysicalColumns() {
		if name == types.FieldID {
			continue
		}
		v, err := encode(row[name])
		if err != nil {
			return err
		}
		sets = append(sets, quote(name)+" = ?")
		args = append(args, v)
	}
	args = append(args, id)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", quote(coll.Name), strings.Join(sets, ", "), quote(types.FieldID))
	result, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return translate(coll.Name, "replace", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("replace %s of %s: %w", id, coll.Name, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s of %s: %w", id, coll.Name, database.ErrDocumentNotFound)
	}

	return nil
}

// Select returns the rows matching the given query.
func (d *DB) Select(ctx context.Context, coll *types.Collection, spec *query.Spec) ([]database.Row, error) {
	fields := query.FieldMapOf(coll)
	columns := spec.Projection
	if len(columns) == 0 {
		columns = fields.PhysicalColumns()
	}
	quoted := make([]string, 0, len(columns))
	for _, c := range columns {
		quoted = append(quoted, quote(c))
	}

	c := &compiler{}
	where, err := c.compile(spec.Filter)
	if err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(quoted, ", "), quote(coll.Name), where)
	stmt += orderBy(spec.Sort)
	if spec.Limit > 0 || spec.Offset > 0 {
		limit := spec.Limit
		if limit <= 0 {
			limit = -1
		}
		stmt += " LIMIT ? OFFSET ?"
		c.args = append(c.args, limit, spec.Offset)
	}

	rows, err := d.db.QueryContext(ctx, stmt, c.args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", coll.Name, err)
	}
	defer func() { _ = rows.Close() }()

	var result []database.Row
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", coll.Name, err)
		}

		row := make(database.Row, len(columns))
		for i, name := range columns {
			if values[i] == nil {
				continue
			}
			v, err := decode(fields.Column(name), values[i])
			if err != nil {
				return nil, fmt.Errorf("scan %s.%s: %w", coll.Name, name, err)
			}
			row[name] = v
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select %s: %w", coll.Name, err)
	}

	return result, nil
}

// Count returns the number of rows matching the filter of the given query.
func (d *DB) Count(ctx context.Context, coll *types.Collection, spec *query.Spec) (int64, error) {
	c := &compiler{}
	where, err := c.compile(spec.Filter)
	if err != nil {
		return 0, err
	}

	var count int64
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", quote(coll.Name), where)
	if err := d.db.QueryRowContext(ctx, stmt, c.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", coll.Name, err)
	}
	return count, nil
}

// Delete deletes the rows of the given identifiers.
func (d *DB) Delete(ctx context.Context, coll *types.Collection, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}

	stmt := fmt.Sprintf(
		"DELETE FROM %s WHERE %s IN (%s)",
		quote(coll.Name), quote(types.FieldID), strings.Join(placeholders, ", "),
	)
	result, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", coll.Name, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", coll.Name, err)
	}
	return deleted, nil
}

// translate turns a violated unique index into a validation error naming
// the columns of the index.
func translate(table, op string, err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return database.NewUniqueViolation(table, uniqueColumns(sqliteErr.Error())...)
	}
	return fmt.Errorf("%s %s: %w", op, table, err)
}

// uniqueColumns extracts the columns from a message such as
// "UNIQUE constraint failed: cats.document_id, cats.locale (2067)".
func uniqueColumns(msg string) []string {
	const marker = "UNIQUE constraint failed: "
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return nil
	}
	msg = msg[idx+len(marker):]
	if end := strings.Index(msg, " ("); end >= 0 {
		msg = msg[:end]
	}

	var columns []string
	for _, part := range strings.Split(msg, ",") {
		part = strings.TrimSpace(part)
		if dot := strings.LastIndex(part, "."); dot >= 0 {
			part = part[dot+1:]
		}
		if part != "" {
			columns = append(columns, part)
		}
	}
	return columns
}

func sortedKeys(row database.Row) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
