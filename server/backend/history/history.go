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

// Package history provides the version history of documents: numbered,
// immutable snapshots of every value a locale of a document has held.
package history

import (
	"context"
	"fmt"

	"github.com/rs/xid"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/errors"
	"github.com/yorkie-team/folio/pkg/query"
	"github.com/yorkie-team/folio/server/backend/database"
	"github.com/yorkie-team/folio/server/backend/settings"
	"github.com/yorkie-team/folio/server/logging"
	"github.com/yorkie-team/folio/server/profiling/prometheus"
)

// CollectionName is the name of the system collection holding snapshots.
const CollectionName = "versions"

// maxCreateAttempts is the number of times CreateVersion reads the latest
// version number again after a collision.
const maxCreateAttempts = 3

// Names of the fields of the versions collection.
const (
	fieldVersionID      = "versionId"
	fieldDocumentID     = "documentId"
	fieldCollectionName = "collectionName"
	fieldLocale         = "locale"
	fieldVersionNumber  = "versionNumber"
	fieldStatus         = "status"
	fieldData           = "data"
	fieldCreatedAt      = "createdAt"
	fieldCreatedBy      = "createdBy"
	fieldNotes          = "notes"
)

// Collection is the schema of the versions system collection.
var Collection = &types.Collection{
	Name:   CollectionName,
	System: true,
	Fields: []*types.Field{
		{Name: fieldVersionID, Type: types.FieldTypeString, Required: true, Unique: true},
		{Name: fieldDocumentID, Type: types.FieldTypeString, Required: true},
		{Name: fieldCollectionName, Type: types.FieldTypeString, Required: true},
		{Name: fieldLocale, Type: types.FieldTypeString, Required: true},
		{Name: fieldVersionNumber, Type: types.FieldTypeInteger, Required: true},
		{Name: fieldStatus, Type: types.FieldTypeString, Required: true},
		{Name: fieldData, Type: types.FieldTypeObject},
		{Name: fieldCreatedAt, Type: types.FieldTypeDate},
		{Name: fieldCreatedBy, Type: types.FieldTypeString},
		{Name: fieldNotes, Type: types.FieldTypeString},
	},
	Unique: [][]string{
		{fieldDocumentID, fieldCollectionName, fieldLocale, fieldVersionNumber},
	},
}

// CreateParams are the parameters of CreateVersion.
type CreateParams struct {
	DocumentID string
	Collection string
	Locale     string
	Data       types.Record
	Status     types.Status
	CreatedBy  string
	Notes      string
}

// Store stores the snapshots of documents.
type Store struct {
	model    database.Model
	settings settings.Provider
	metrics  *prometheus.Metrics
}

// New creates a Store over the given database. The settings provide the
// number of snapshots kept per document and locale.
func New(
	ctx context.Context,
	db database.Database,
	provider settings.Provider,
	metrics *prometheus.Metrics,
) (*Store, error) {
	model, err := database.EnsureModel(ctx, db, Collection)
	if err != nil {
		return nil, err
	}

	return &Store{
		model:    model,
		settings: provider,
		metrics:  metrics,
	}, nil
}

// CreateVersion records a snapshot numbered after the latest one of the
// document and locale, and then deletes the oldest snapshots exceeding the
// retention. A concurrent writer taking the same number makes it read the
// latest number again.
func (s *Store) CreateVersion(ctx context.Context, params CreateParams) (*types.Snapshot, error) {
	locale := params.Locale
	if locale == "" {
		locale = types.DefaultLocale
	}
	status := params.Status
	if status == "" {
		status = types.StatusDraft
	}
	ctx = logging.WithDocument(ctx, params.Collection, params.DocumentID, locale)

	var lastErr error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		latest, err := s.FindLatestVersion(ctx, params.DocumentID, params.Collection, locale, "")
		if err != nil {
			return nil, err
		}
		number := int64(1)
		if latest != nil {
			number = latest.VersionNumber + 1
		}

		data := types.Record{}
		if params.Data != nil {
			data = params.Data.DeepCopy()
		}
		rec := types.Record{
			fieldVersionID:      xid.New().String(),
			fieldDocumentID:     params.DocumentID,
			fieldCollectionName: params.Collection,
			fieldLocale:         locale,
			fieldVersionNumber:  number,
			fieldStatus:         string(status),
			fieldData:           data,
		}
		if params.CreatedBy != "" {
			rec[fieldCreatedBy] = params.CreatedBy
		}
		if params.Notes != "" {
			rec[fieldNotes] = params.Notes
		}

		created, err := s.model.Create(ctx, rec)
		if err != nil {
			if isCollision(err) {
				lastErr = err
				s.metrics.AddVersionRetries(params.Collection)
				continue
			}
			return nil, err
		}

		s.metrics.AddVersionsCreated(params.Collection)
		s.enforceRetention(ctx, params.DocumentID, params.Collection, locale)

		return toSnapshot(created), nil
	}

	return nil, fmt.Errorf("create version %d times: %w", maxCreateAttempts, lastErr)
}

func isCollision(err error) bool {
	var verr *database.ValidationError
	return errors.As(err, &verr) && verr.Reason == database.ReasonUnique
}

// enforceRetention deletes the oldest snapshots of the given document and
// locale beyond the configured maximum. Failures are only logged.
func (s *Store) enforceRetention(ctx context.Context, documentID, collection, locale string) {
	logger := logging.From(ctx)

	conf, err := s.settings.Get(ctx)
	if err != nil {
		logger.Warnf("retention skipped: get settings: %v", err)
		return
	}
	maxVersions := conf.MaxVersions
	if maxVersions <= 0 {
		maxVersions = settings.DefaultMaxVersions
	}

	filter := query.Filter{
		fieldDocumentID:     documentID,
		fieldCollectionName: collection,
		fieldLocale:         locale,
	}
	count, err := s.model.Query().Where(filter).Count(ctx)
	if err != nil {
		logger.Warnf("retention skipped: count versions: %v", err)
		return
	}
	if count <= int64(maxVersions) {
		return
	}

	excess := int(count) - maxVersions
	oldest, err := s.model.Query().
		Where(filter).
		Sort(query.Asc(fieldVersionNumber)).
		Limit(excess).
		Select(fieldVersionNumber).
		Exec(ctx)
	if err != nil {
		logger.Warnf("retention skipped: find oldest versions: %v", err)
		return
	}
	if len(oldest) == 0 {
		return
	}

	cutoff := oldest[len(oldest)-1].Int(fieldVersionNumber)
	evict := query.Filter{
		fieldDocumentID:     documentID,
		fieldCollectionName: collection,
		fieldLocale:         locale,
		fieldVersionNumber:  query.Filter{"$lte": cutoff},
	}
	if _, err := s.model.Delete(ctx, types.Record(evict)); err != nil {
		logger.Warnf("retention failed: delete versions up to %d: %v", cutoff, err)
		return
	}

	s.metrics.AddVersionsEvicted(collection, len(oldest))
	logger.Debugf("retention deleted %d versions up to %d", len(oldest), cutoff)
}

// FindVersions returns the snapshots of every locale of the given document,
// newest first.
func (s *Store) FindVersions(ctx context.Context, documentID, collection string) ([]*types.Snapshot, error) {
	return s.findMany(ctx, query.Filter{
		fieldDocumentID:     documentID,
		fieldCollectionName: collection,
	}, query.Desc(fieldCreatedAt), query.Desc(fieldVersionNumber))
}

// FindVersionsByLocale returns the snapshots of a locale of the given
// document, newest first.
func (s *Store) FindVersionsByLocale(
	ctx context.Context,
	documentID, collection, locale string,
) ([]*types.Snapshot, error) {
	return s.findMany(ctx, query.Filter{
		fieldDocumentID:     documentID,
		fieldCollectionName: collection,
		fieldLocale:         locale,
	}, query.Desc(fieldVersionNumber))
}

func (s *Store) findMany(
	ctx context.Context,
	filter query.Filter,
	sorts ...query.SortField,
) ([]*types.Snapshot, error) {
	records, err := s.model.Query().Where(filter).Sort(sorts...).Exec(ctx)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*types.Snapshot, 0, len(records))
	for _, rec := range records {
		snapshots = append(snapshots, toSnapshot(rec))
	}
	return snapshots, nil
}

// FindVersionByID returns the snapshot of the given version identifier.
func (s *Store) FindVersionByID(ctx context.Context, versionID string) (*types.Snapshot, error) {
	return s.findOne(ctx, query.Filter{fieldVersionID: versionID})
}

// FindVersionByNumber returns the snapshot of the given number.
func (s *Store) FindVersionByNumber(
	ctx context.Context,
	documentID, collection, locale string,
	number int64,
) (*types.Snapshot, error) {
	return s.findOne(ctx, query.Filter{
		fieldDocumentID:     documentID,
		fieldCollectionName: collection,
		fieldLocale:         locale,
		fieldVersionNumber:  number,
	})
}

// FindLatestVersion returns the snapshot with the highest number of a locale
// of the given document. An empty status matches any status.
func (s *Store) FindLatestVersion(
	ctx context.Context,
	documentID, collection, locale string,
	status types.Status,
) (*types.Snapshot, error) {
	filter := query.Filter{
		fieldDocumentID:     documentID,
		fieldCollectionName: collection,
		fieldLocale:         locale,
	}
	if status != "" {
		filter[fieldStatus] = string(status)
	}

	rec, err := s.model.Query().
		Where(filter).
		Sort(query.Desc(fieldVersionNumber)).
		ExecOne(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return toSnapshot(rec), nil
}

func (s *Store) findOne(ctx context.Context, filter query.Filter) (*types.Snapshot, error) {
	rec, err := s.model.Query().Where(filter).ExecOne(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return toSnapshot(rec), nil
}

// UpdateVersionStatus sets the status of the given snapshot. It returns nil
// when the snapshot does not exist or when the update fails.
func (s *Store) UpdateVersionStatus(
	ctx context.Context,
	versionID string,
	status types.Status,
) (*types.Snapshot, error) {
	rec, err := s.model.Update(
		ctx,
		types.Record{fieldVersionID: versionID},
		types.Record{fieldStatus: string(status)},
	)
	if err != nil {
		if !errors.Is(err, database.ErrDocumentNotFound) {
			logging.From(ctx).Warnf("update status of version %s to %s: %v", versionID, status, err)
		}
		return nil, nil
	}
	return toSnapshot(rec), nil
}

// PublishVersion moves a draft snapshot to published. Snapshots in any other
// status are left as they are and nil is returned.
func (s *Store) PublishVersion(ctx context.Context, versionID string) (*types.Snapshot, error) {
	return s.transition(ctx, versionID, types.StatusPublished)
}

// ArchiveVersion moves a draft or published snapshot to archived.
func (s *Store) ArchiveVersion(ctx context.Context, versionID string) (*types.Snapshot, error) {
	return s.transition(ctx, versionID, types.StatusArchived)
}

func (s *Store) transition(ctx context.Context, versionID string, to types.Status) (*types.Snapshot, error) {
	snapshot, err := s.FindVersionByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil || !snapshot.Status.CanTransitionTo(to) {
		return nil, nil
	}
	return s.UpdateVersionStatus(ctx, versionID, to)
}

// DeleteVersion deletes the given snapshot and reports whether it existed.
func (s *Store) DeleteVersion(ctx context.Context, versionID string) (bool, error) {
	return s.model.Delete(ctx, types.Record{fieldVersionID: versionID})
}

func toSnapshot(rec types.Record) *types.Snapshot {
	snapshot := &types.Snapshot{
		ID:            rec.ID(),
		VersionID:     rec.String(fieldVersionID),
		DocumentID:    rec.String(fieldDocumentID),
		Collection:    rec.String(fieldCollectionName),
		Locale:        rec.String(fieldLocale),
		VersionNumber: rec.Int(fieldVersionNumber),
		Status:        types.Status(rec.String(fieldStatus)),
		CreatedAt:     rec.Time(fieldCreatedAt),
		CreatedBy:     rec.String(fieldCreatedBy),
		Notes:         rec.String(fieldNotes),
		Data:          types.Record{},
	}

	switch data := rec[fieldData].(type) {
	case map[string]interface{}:
		snapshot.Data = types.Record(data)
	case types.Record:
		snapshot.Data = data
	}
	return snapshot
}
