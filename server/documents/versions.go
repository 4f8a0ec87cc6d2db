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

package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/server/backend"
)

// RestoreOptions are the options of RestoreVersion.
type RestoreOptions struct {
	// RestoredBy is the actor restoring the version.
	RestoredBy string
}

// RestoreVersion overwrites the draft of a locale of the document with the
// data of the given version, creating the draft when it does not exist, and
// records the result as a new version. The published record is left as it
// is. It returns nil when the version does not exist.
func RestoreVersion(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	documentID string,
	locale string,
	versionNumber int64,
	opts RestoreOptions,
) (rec types.Record, err error) {
	defer observe(be, collection, "restore", time.Now(), &err)

	model, locale, err := resolve(be, collection, locale)
	if err != nil {
		return nil, err
	}
	coll := model.Collection()
	if !coll.Versioned {
		return nil, fmt.Errorf("restore %s of %s: %w", documentID, coll.Name, ErrVersioningDisabled)
	}

	snapshot, err := be.History.FindVersionByNumber(ctx, documentID, coll.Name, locale, versionNumber)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, nil
	}

	data := fullData(coll, snapshot.Data)
	if opts.RestoredBy != "" {
		data[types.FieldUpdatedBy] = opts.RestoredBy
	}

	byDocument := types.Record{types.FieldDocumentID: documentID}
	drafts := model.WithStatus(types.StatusDraft)
	draft, err := drafts.FindOne(ctx, byDocument)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		data[types.FieldDocumentID] = documentID
		if opts.RestoredBy != "" {
			data[types.FieldCreatedBy] = opts.RestoredBy
		}
		rec, err = drafts.Create(ctx, data)
	} else {
		rec, err = drafts.Update(ctx, byDocument, data)
	}
	if err != nil {
		return nil, err
	}

	notes := fmt.Sprintf("Restored from version %d", versionNumber)
	if err := recordVersion(ctx, be, coll, rec, locale, types.StatusDraft, opts.RestoredBy, notes); err != nil {
		return nil, err
	}

	return rec, nil
}

// ListVersions returns the versions of a locale of the document, newest
// first. An empty locale returns the versions of every locale.
func ListVersions(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	documentID string,
	locale string,
) ([]*types.Snapshot, error) {
	coll, err := be.Registry.Get(collection)
	if err != nil {
		return nil, err
	}

	if locale == "" || !coll.Localized {
		return be.History.FindVersions(ctx, documentID, coll.Name)
	}
	return be.History.FindVersionsByLocale(ctx, documentID, coll.Name, locale)
}
