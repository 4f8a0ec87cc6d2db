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

// Package memory implements the database interface using in-memory database.
package memory

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-memdb"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/query"
	"github.com/yorkie-team/folio/server/backend/database"
)

// ErrCollectionNotEnsured is returned when a collection is used before
// EnsureCollection.
var ErrCollectionNotEnsured = fmt.Errorf("collection not ensured")

// collectionRecord is the stored form of an ensured collection. Its unique
// keys are physical names.
type collectionRecord struct {
	Name   string
	Unique [][]string
}

// rowRecord is the stored form of a row.
type rowRecord struct {
	ID         string
	Collection string
	Fields     database.Row
}

// DB is an in-memory database for testing or temporarily.
type DB struct {
	db *memdb.MemDB
}

// New returns a new in-memory database.
func New() (*DB, error) {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}

	return &DB{
		db: memDB,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return nil
}

// EnsureCollection registers the given collection and its unique keys.
func (d *DB) EnsureCollection(_ context.Context, coll *types.Collection) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	fields := query.FieldMapOf(coll)
	record := &collectionRecord{Name: coll.Name}
	for _, key := range coll.UniqueKeys() {
		var physical []string
		for _, name := range key {
			physical = append(physical, fields.Physical(name))
		}
		record.Unique = append(record.Unique, physical)
	}

	if err := txn.Insert(tblCollections, record); err != nil {
		return fmt.Errorf("ensure collection %s: %w", coll.Name, err)
	}
	txn.Commit()

	return nil
}

// Insert inserts the given row and returns its identifier.
func (d *DB) Insert(_ context.Context, coll *types.Collection, row database.Row) (string, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	// NOTE(hackerwins): go-memdb does not check the uniqueness of secondary
	// indexes, so the unique keys are checked in the write transaction.
	// https://github.com/hashicorp/go-memdb/issues/7#issuecomment-270427642
	if err := d.checkUnique(txn, coll.Name, "", row); err != nil {
		return "", err
	}

	record := &rowRecord{
		ID:         newID(),
		Collection: coll.Name,
		Fields:     copyRow(row),
	}
	if err := txn.Insert(tblRows, record); err != nil {
		return "", fmt.Errorf("insert %s: %w", coll.Name, err)
	}
	txn.Commit()

	return record.ID, nil
}

// Replace replaces every column of the row of the given identifier.
func (d *DB) Replace(_ context.Context, coll *types.Collection, id string, row database.Row) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblRows, "collection_id", coll.Name, id)
	if err != nil {
		return fmt.Errorf("find %s of %s: %w", id, coll.Name, err)
	}
	if raw == nil {
		return fmt.Errorf("%s of %s: %w", id, coll.Name, database.ErrDocumentNotFound)
	}

	if err := d.checkUnique(txn, coll.Name, id, row); err != nil {
		return err
	}

	record := &rowRecord{
		ID:         id,
		Collection: coll.Name,
		Fields:     copyRow(row),
	}
	if err := txn.Insert(tblRows, record); err != nil {
		return fmt.Errorf("replace %s of %s: %w", id, coll.Name, err)
	}
	txn.Commit()

	return nil
}

// Select returns the rows matching the given query.
func (d *DB) Select(_ context.Context, coll *types.Collection, spec *query.Spec) ([]database.Row, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	rows, err := d.matching(txn, coll.Name, spec.Filter)
	if err != nil {
		return nil, err
	}
	query.SortRows(rows, spec.Sort)

	var result []database.Row
	for _, row := range query.Window(rows, spec.Offset, spec.Limit) {
		result = append(result, query.Project(row, spec.Projection))
	}
	return result, nil
}

// Count returns the number of rows matching the filter of the given query.
func (d *DB) Count(_ context.Context, coll *types.Collection, spec *query.Spec) (int64, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	rows, err := d.matching(txn, coll.Name, spec.Filter)
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// Delete deletes the rows of the given identifiers.
func (d *DB) Delete(_ context.Context, coll *types.Collection, ids []string) (int64, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	var deleted int64
	for _, id := range ids {
		raw, err := txn.First(tblRows, "collection_id", coll.Name, id)
		if err != nil {
			return 0, fmt.Errorf("find %s of %s: %w", id, coll.Name, err)
		}
		if raw == nil {
			continue
		}
		if err := txn.Delete(tblRows, raw); err != nil {
			return 0, fmt.Errorf("delete %s of %s: %w", id, coll.Name, err)
		}
		deleted++
	}
	txn.Commit()

	return deleted, nil
}

// matching returns copies of the rows of the collection matching the given
// condition, with their identifiers.
func (d *DB) matching(txn *memdb.Txn, collection string, cond query.Condition) ([]database.Row, error) {
	if _, err := d.findCollection(txn, collection); err != nil {
		return nil, err
	}

	iter, err := txn.Get(tblRows, "collection", collection)
	if err != nil {
		return nil, fmt.Errorf("fetch rows of %s: %w", collection, err)
	}

	var rows []database.Row
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		record := raw.(*rowRecord)
		row := copyRow(record.Fields)
		row[types.FieldID] = record.ID
		if query.Match(cond, row) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (d *DB) findCollection(txn *memdb.Txn, collection string) (*collectionRecord, error) {
	raw, err := txn.First(tblCollections, "id", collection)
	if err != nil {
		return nil, fmt.Errorf("find collection %s: %w", collection, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", collection, ErrCollectionNotEnsured)
	}
	return raw.(*collectionRecord), nil
}

// checkUnique checks that no other row of the collection has the same values
// on a unique key. Keys having a null value are not checked.
func (d *DB) checkUnique(txn *memdb.Txn, collection, id string, row database.Row) error {
	record, err := d.findCollection(txn, collection)
	if err != nil {
		return err
	}
	if len(record.Unique) == 0 {
		return nil
	}

	iter, err := txn.Get(tblRows, "collection", collection)
	if err != nil {
		return fmt.Errorf("fetch rows of %s: %w", collection, err)
	}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		other := raw.(*rowRecord)
		if other.ID == id {
			continue
		}
		for _, key := range record.Unique {
			if sameKey(key, row, other.Fields) {
				return database.NewUniqueViolation(collection, key...)
			}
		}
	}
	return nil
}

func sameKey(key []string, a, b database.Row) bool {
	for _, name := range key {
		if a[name] == nil || b[name] == nil || !query.Equal(a[name], b[name]) {
			return false
		}
	}
	return true
}

// copyRow returns a deep copy of the given row.
// NOTE(hackerwins): When retrieving objects from go-memdb, references to
// the stored objects are returned instead of new objects. This can cause
// problems when directly modifying loaded objects. So, we need to DeepCopy.
func copyRow(row database.Row) database.Row {
	return database.Row(types.Record(row).DeepCopy())
}

func newID() string {
	return primitive.NewObjectID().Hex()
}
