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
	"github.com/yorkie-team/folio/pkg/query"
	"github.com/yorkie-team/folio/server/backend"
	"github.com/yorkie-team/folio/server/backend/database"
)

// AddLocaleOptions are the options of AddLocale.
type AddLocaleOptions struct {
	// CreatedBy is the actor adding the locale.
	CreatedBy string
}

// AddLocale creates the draft of a new locale of an existing document. It
// returns ErrDocumentNotFound when the document has no record, and a
// ValidationError when the locale already has a draft.
func AddLocale(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	documentID string,
	locale string,
	data types.Record,
	opts AddLocaleOptions,
) (rec types.Record, err error) {
	defer observe(be, collection, "add_locale", time.Now(), &err)

	model, locale, err := resolve(be, collection, locale)
	if err != nil {
		return nil, err
	}
	coll := model.Collection()
	if err := checkWritable(coll, data); err != nil {
		return nil, err
	}

	base, err := be.Model(collection)
	if err != nil {
		return nil, err
	}
	existing, err := base.FindOne(ctx, types.Record{types.FieldDocumentID: documentID})
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("add locale %s to %s of %s: %w", locale, documentID, coll.Name, database.ErrDocumentNotFound)
	}

	draft := data.DeepCopy()
	draft[types.FieldDocumentID] = documentID
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

// DeleteLocale deletes the draft and the published record of a locale of the
// document. The history of the locale is kept. It reports whether a record
// was deleted.
func DeleteLocale(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	documentID string,
	locale string,
) (deleted bool, err error) {
	defer observe(be, collection, "delete_locale", time.Now(), &err)

	model, _, err := resolve(be, collection, locale)
	if err != nil {
		return false, err
	}

	return model.Delete(ctx, types.Record{types.FieldDocumentID: documentID})
}

// GetLocaleStatuses returns which statuses exist for each locale of the
// document.
func GetLocaleStatuses(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	documentID string,
) (map[string]*types.LocaleStatus, error) {
	model, err := be.Model(collection)
	if err != nil {
		return nil, err
	}
	coll := model.Collection()

	fields := []string{types.FieldStatus}
	if coll.HasLocale() {
		fields = append(fields, types.FieldLocale)
	}
	records, err := model.Query().
		Where(query.Filter{types.FieldDocumentID: documentID}).
		Select(fields...).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make(map[string]*types.LocaleStatus)
	for _, rec := range records {
		locale := be.Locale(coll, rec.Locale())
		status, ok := statuses[locale]
		if !ok {
			status = &types.LocaleStatus{}
			statuses[locale] = status
		}

		switch rec.Status() {
		case types.StatusDraft:
			status.HasDraft = true
		case types.StatusPublished:
			status.HasPublished = true
		}
	}
	return statuses, nil
}
