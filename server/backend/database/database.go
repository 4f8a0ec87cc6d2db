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

// Package database provides the storage contract of the content store: the
// physical Database every backend implements and the Model every caller uses.
package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/errors"
	"github.com/yorkie-team/folio/pkg/query"
)

var (
	// ErrDocumentNotFound is returned when no record matches the target of an
	// operation that requires one.
	ErrDocumentNotFound = errors.NotFound("document not found").WithCode("ErrDocumentNotFound")

	// ErrValidation is returned when a write violates a uniqueness or a field
	// constraint. Use errors.As with *ValidationError to get the fields.
	ErrValidation = errors.InvalidArgument("validation failed").WithCode("ErrValidation")

	// ErrDatabase is returned when the storage fails for any other reason.
	// Use errors.As with *DatabaseError to get the collection and operation.
	ErrDatabase = errors.Internal("database error").WithCode("ErrDatabase")

	// ErrUnavailable is returned when the database cannot be reached when it
	// is dialed.
	ErrUnavailable = errors.Unavailable("database unavailable").WithCode("ErrDatabaseUnavailable")
)

// Reasons of a ValidationError.
const (
	ReasonUnique      = "unique"
	ReasonRequired    = "required"
	ReasonUnknown     = "unknown field"
	ReasonInvalid     = "invalid value"
	ReasonNotWritable = "not writable"
)

// ValidationError is a constraint violation detected at the storage boundary.
type ValidationError struct {
	Collection string
	Fields     []string
	Reason     string
}

// NewUniqueViolation creates a ValidationError for a violated uniqueness
// constraint over the given fields.
func NewUniqueViolation(collection string, fields ...string) *ValidationError {
	return &ValidationError{Collection: collection, Fields: fields, Reason: ReasonUnique}
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %s", ErrValidation, e.Collection, strings.Join(e.Fields, ","), e.Reason)
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// DatabaseError is a storage failure that is not a constraint violation.
type DatabaseError struct {
	Collection string
	Op         string
	Err        error
}

// Error returns the error message.
func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrDatabase, e.Op, e.Collection, e.Err)
}

// Unwrap returns ErrDatabase and the cause.
func (e *DatabaseError) Unwrap() []error {
	return []error{ErrDatabase, e.Err}
}

// Row is a physical row: keys are physical names and values are canonical Go
// values as produced by query.Coerce.
type Row = map[string]interface{}

// Database represents the physical storage of collections. Implementations
// report violated uniqueness constraints with NewUniqueViolation, naming the
// physical fields, and return ErrDocumentNotFound from Replace when the row
// is missing.
type Database interface {
	// Close all resources of this database.
	Close() error

	// EnsureCollection creates the storage of the given collection and its
	// unique indexes if they do not exist.
	EnsureCollection(ctx context.Context, coll *types.Collection) error

	// Insert inserts the given row and returns its identifier.
	Insert(ctx context.Context, coll *types.Collection, row Row) (string, error)

	// Replace replaces every column of the row of the given identifier.
	Replace(ctx context.Context, coll *types.Collection, id string, row Row) error

	// Select returns the rows matching the given query.
	Select(ctx context.Context, coll *types.Collection, spec *query.Spec) ([]Row, error)

	// Count returns the number of rows matching the filter of the given query.
	Count(ctx context.Context, coll *types.Collection, spec *query.Spec) (int64, error)

	// Delete deletes the rows of the given identifiers and returns how many
	// were deleted.
	Delete(ctx context.Context, coll *types.Collection, ids []string) (int64, error)
}
