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

// Package documents provides the lifecycle of documents: locale records in
// draft and published statuses, and the version history recording every value
// they have held.
package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/errors"
	"github.com/yorkie-team/folio/pkg/query"
	"github.com/yorkie-team/folio/server/backend"
	"github.com/yorkie-team/folio/server/backend/database"
	"github.com/yorkie-team/folio/server/backend/history"
	"github.com/yorkie-team/folio/server/logging"
)

var (
	// ErrDraftNotFound is returned when publishing a locale without a draft.
	ErrDraftNotFound = errors.NotFound("draft not found").WithCode("ErrDraftNotFound")

	// ErrVersioningDisabled is returned when publishing or restoring a
	// document of a collection that is not versioned.
	ErrVersioningDisabled = errors.FailedPrecond("versioning disabled").WithCode("ErrVersioningDisabled")
)

// ListOptions are the options of List.
type ListOptions struct {
	// Locale is the locale of the records. Default is the default locale.
	Locale string

	// Status is the status of the records. Empty matches every status.
	Status types.Status

	// Filter is an additional filter on the records.
	Filter query.Filter

	// Sort is the order of the records. Default is the insertion order.
	Sort []query.SortField

	Limit int
	Skip  int
}

// List returns the records of the given collection.
func List(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	opts ListOptions,
) ([]types.Record, error) {
	model, _, err := resolve(be, collection, opts.Locale)
	if err != nil {
		return nil, err
	}

	q := model.Query().Version(string(opts.Status)).Sort(opts.Sort...)
	if opts.Filter != nil {
		q = q.Where(opts.Filter)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Skip > 0 {
		q = q.Skip(opts.Skip)
	}
	return q.Exec(ctx)
}

// FindOptions are the options of FindByDocumentID.
type FindOptions struct {
	// Locale is the locale of the record. Default is the default locale.
	Locale string

	// Status is the status of the record. When empty, the draft is returned
	// if it exists and the published record otherwise.
	Status types.Status
}

// FindByDocumentID returns the record of the given document. It returns nil
// when the record does not exist.
func FindByDocumentID(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	documentID string,
	opts FindOptions,
) (types.Record, error) {
	model, _, err := resolve(be, collection, opts.Locale)
	if err != nil {
		return nil, err
	}

	return model.Query().
		Where(query.Filter{types.FieldDocumentID: documentID}).
		Version(string(opts.Status)).
		Sort(query.Asc(types.FieldStatus)).
		ExecOne(ctx)
}

// FindDraft returns the draft of the given locale of the document.
func FindDraft(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	documentID string,
	locale string,
) (types.Record, error) {
	return FindByDocumentID(ctx, be, collection, documentID, FindOptions{
		Locale: locale,
		Status: types.StatusDraft,
	})
}

// FindPublished returns the published record of the given locale of the
// document.
func FindPublished(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	documentID string,
	locale string,
) (types.Record, error) {
	return FindByDocumentID(ctx, be, collection, documentID, FindOptions{
		Locale: locale,
		Status: types.StatusPublished,
	})
}

// CreateOptions are the options of Create.
type CreateOptions struct {
	// Locale is the locale of the first draft. Default is the default locale.
	Locale string

	// CreatedBy is the actor creating the document.
	CreatedBy string
}

// Create creates a new document whose draft holds the given data.
func Create(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	data types.Record,
	opts CreateOptions,
) (rec types.Record, err error) {
	defer observe(be, collection, "create", time.Now(), &err)

	model, locale, err := resolve(be, collection, opts.Locale)
	if err != nil {
		return nil, err
	}
	coll := model.Collection()
	if err := checkWritable(coll, data); err != nil {
		return nil, err
	}

	draft := data.DeepCopy()
	draft[types.FieldDocumentID] = uuid.New().String()
	draft[types.FieldStatus] = string(types.StatusDraft)
	if opts.CreatedBy != "" {
		draft[types.FieldCreatedBy] = opts.CreatedBy
		draft[types.FieldUpdatedBy] = opts.CreatedBy
	}

	rec, err = model.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	if err := recordVersion(ctx, be, coll, rec, locale, types.StatusDraft, opts.CreatedBy, ""); err != nil {
		return nil, err
	}

	return rec, nil
}

// UpdateOptions are the options of Update.
type UpdateOptions struct {
	// Locale is the locale of the record. Default is the default locale.
	Locale string

	// Status is the status of the record. Default is draft.
	Status types.Status

	// UpdatedBy is the actor updating the record.
	UpdatedBy string
}

// Update applies the given data to a record of the document. It returns
// ErrDocumentNotFound when the record does not exist.
func Update(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	documentID string,
	data types.Record,
	opts UpdateOptions,
) (rec types.Record, err error) {
	defer observe(be, collection, "update", time.Now(), &err)

	model, locale, err := resolve(be, collection, opts.Locale)
	if err != nil {
		return nil, err
	}
	coll := model.Collection()
	if err := checkWritable(coll, data); err != nil {
		return nil, err
	}

	status := opts.Status
	if status == "" {
		status = types.StatusDraft
	}

	patch := data.DeepCopy()
	if opts.UpdatedBy != "" {
		patch[types.FieldUpdatedBy] = opts.UpdatedBy
	}

	rec, err = model.WithStatus(status).Update(ctx, types.Record{types.FieldDocumentID: documentID}, patch)
	if err != nil {
		return nil, err
	}

	if err := recordVersion(ctx, be, coll, rec, locale, status, opts.UpdatedBy, ""); err != nil {
		return nil, err
	}

	return rec, nil
}

// Delete deletes every record of the document. The history of the document
// is kept. It reports whether a record was deleted.
func Delete(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	documentID string,
) (deleted bool, err error) {
	defer observe(be, collection, "delete", time.Now(), &err)

	model, err := be.Model(collection)
	if err != nil {
		return false, err
	}

	return model.Delete(ctx, types.Record{types.FieldDocumentID: documentID})
}

// resolve returns the model of the given collection scoped to the locale of
// the operation, and the locale. Collections that are not localized always
// use their default locale.
func resolve(be *backend.Backend, collection, locale string) (database.Model, string, error) {
	model, err := be.Model(collection)
	if err != nil {
		return nil, "", err
	}

	coll := model.Collection()
	if !coll.Localized {
		locale = ""
	}
	locale = be.Locale(coll, locale)
	return model.WithLocale(locale), locale, nil
}

// checkWritable checks that the given data does not hold columns managed by
// the store.
func checkWritable(coll *types.Collection, data types.Record) error {
	for key := range data {
		if types.IsReservedField(key) {
			return &database.ValidationError{
				Collection: coll.Name,
				Fields:     []string{key},
				Reason:     database.ReasonNotWritable,
			}
		}
	}
	return nil
}

// fullData returns the value of every field of the collection in the given
// record, nil for the missing ones, so that applying it overwrites a record.
func fullData(coll *types.Collection, data types.Record) types.Record {
	full := types.Record{}
	for _, f := range coll.Fields {
		full[f.Name] = data[f.Name]
	}
	return full
}

// recordVersion records a snapshot of the given record when the collection
// is versioned. The record is already written, so a failure leaves it
// without a snapshot; the failure is logged with the coordinates of the
// document and returned.
func recordVersion(
	ctx context.Context,
	be *backend.Backend,
	coll *types.Collection,
	rec types.Record,
	locale string,
	status types.Status,
	actor string,
	notes string,
) error {
	if !coll.Versioned {
		return nil
	}

	documentID := rec.DocumentID()
	if _, err := be.History.CreateVersion(ctx, history.CreateParams{
		DocumentID: documentID,
		Collection: coll.Name,
		Locale:     locale,
		Data:       coll.DataOf(rec),
		Status:     status,
		CreatedBy:  actor,
		Notes:      notes,
	}); err != nil {
		logging.From(ctx).
			With(logging.DocumentFields(coll.Name, documentID, locale)...).
			Errorf("record written without snapshot: %v", err)
		be.Metrics.AddSnapshotFailures(coll.Name)
		return fmt.Errorf("record version of %s: %w", documentID, err)
	}
	return nil
}

func observe(be *backend.Backend, collection, operation string, start time.Time, err *error) {
	be.Metrics.ObserveDocumentOperation(collection, operation, *err, time.Since(start))
}
