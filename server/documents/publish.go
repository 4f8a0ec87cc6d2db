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

// PublishOptions are the options of Publish.
type PublishOptions struct {
	// Locale is the locale to publish. Default is the default locale.
	Locale string

	// PublishedBy is the actor publishing the locale.
	PublishedBy string
}

// Publish copies the draft of a locale of the document into its published
// record, creating the published record when it does not exist. It returns
// ErrDraftNotFound when the locale has no draft.
func Publish(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	documentID string,
	opts PublishOptions,
) (rec types.Record, err error) {
	defer observe(be, collection, "publish", time.Now(), &err)

	model, locale, err := resolve(be, collection, opts.Locale)
	if err != nil {
		return nil, err
	}
	coll := model.Collection()
	if !coll.Versioned {
		return nil, fmt.Errorf("publish %s of %s: %w", documentID, coll.Name, ErrVersioningDisabled)
	}

	byDocument := types.Record{types.FieldDocumentID: documentID}
	draft, err := model.WithStatus(types.StatusDraft).FindOne(ctx, byDocument)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, fmt.Errorf("publish %s of %s in %s: %w", documentID, coll.Name, locale, ErrDraftNotFound)
	}

	published := model.WithStatus(types.StatusPublished)
	current, err := published.FindOne(ctx, byDocument)
	if err != nil {
		return nil, err
	}

	data := fullData(coll, draft)
	if opts.PublishedBy != "" {
		data[types.FieldPublishedBy] = opts.PublishedBy
		data[types.FieldUpdatedBy] = opts.PublishedBy
	}

	if current == nil {
		data[types.FieldDocumentID] = documentID
		if createdBy := draft.String(types.FieldCreatedBy); createdBy != "" {
			data[types.FieldCreatedBy] = createdBy
		}
		rec, err = published.Create(ctx, data)
	} else {
		rec, err = published.Update(ctx, byDocument, data)
	}
	if err != nil {
		return nil, err
	}

	if err := recordVersion(ctx, be, coll, rec, locale, types.StatusPublished, opts.PublishedBy, ""); err != nil {
		return nil, err
	}

	return rec, nil
}

// Unpublish deletes the published record of a locale of the document. The
// draft is kept. It reports whether a record was deleted.
func Unpublish(
	ctx context.Context,
	be *backend.Backend,
	collection string,
	documentID string,
	locale string,
) (deleted bool, err error) {
	defer observe(be, collection, "unpublish", time.Now(), &err)

	model, _, err := resolve(be, collection, locale)
	if err != nil {
		return false, err
	}
	if !model.Collection().Versioned {
		return false, fmt.Errorf("unpublish %s of %s: %w", documentID, collection, ErrVersioningDisabled)
	}

	return model.WithStatus(types.StatusPublished).Delete(ctx, types.Record{
		types.FieldDocumentID: documentID,
	})
}
