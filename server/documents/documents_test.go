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

package documents_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/query"
	"github.com/yorkie-team/folio/server/backend"
	"github.com/yorkie-team/folio/server/backend/database"
	"github.com/yorkie-team/folio/server/backend/database/sqlite"
	"github.com/yorkie-team/folio/server/backend/registry"
	"github.com/yorkie-team/folio/server/documents"
	"github.com/yorkie-team/folio/test/helper"
)

const (
	cats  = "cats"
	pages = "pages"
)

func testBackends(t *testing.T) map[string]func(t *testing.T) *backend.Backend {
	return map[string]func(t *testing.T) *backend.Backend{
		"memory": func(t *testing.T) *backend.Backend {
			return helper.TestBackend(t)
		},
		"sqlite": func(t *testing.T) *backend.Backend {
			db, err := sqlite.Dial(&sqlite.Config{Path: sqlite.MemoryPath, BusyTimeout: helper.SQLiteBusyTimeout})
			require.NoError(t, err)
			return helper.TestBackendWithDB(t, db)
		},
	}
}

func TestMiloScenario(t *testing.T) {
	for name, newBackend := range testBackends(t) {
		t.Run(name+" test", func(t *testing.T) {
			ctx := context.Background()
			be := newBackend(t)

			// 01. Create the document with a draft.
			created, err := documents.Create(ctx, be, cats, types.Record{"name": "Milo"}, documents.CreateOptions{
				CreatedBy: "user-1",
			})
			require.NoError(t, err)
			docID := created.DocumentID()
			assert.NotEmpty(t, docID)
			assert.Equal(t, types.DefaultLocale, created.Locale())
			assert.Equal(t, types.StatusDraft, created.Status())

			draft, err := documents.FindDraft(ctx, be, cats, docID, "")
			require.NoError(t, err)
			assert.Equal(t, "Milo", draft["name"])

			// 02. Publish the draft.
			published, err := documents.Publish(ctx, be, cats, docID, documents.PublishOptions{PublishedBy: "editor"})
			require.NoError(t, err)
			assert.Equal(t, "editor", published[types.FieldPublishedBy])

			found, err := documents.FindPublished(ctx, be, cats, docID, "")
			require.NoError(t, err)
			assert.Equal(t, "Milo", found["name"])

			// 03. Update the draft.
			_, err = documents.Update(ctx, be, cats, docID, types.Record{"name": "Milo II"}, documents.UpdateOptions{})
			require.NoError(t, err)

			// 04. Restore the first version.
			restored, err := documents.RestoreVersion(ctx, be, cats, docID, "", 1, documents.RestoreOptions{
				RestoredBy: "user-2",
			})
			require.NoError(t, err)
			require.NotNil(t, restored)

			draft, err = documents.FindDraft(ctx, be, cats, docID, "")
			require.NoError(t, err)
			assert.Equal(t, "Milo", draft["name"])
			assert.Equal(t, "user-2", draft[types.FieldUpdatedBy])

			found, err = documents.FindPublished(ctx, be, cats, docID, "")
			require.NoError(t, err)
			assert.Equal(t, "Milo", found["name"])

			// 05. Check the history.
			versions, err := documents.ListVersions(ctx, be, cats, docID, types.DefaultLocale)
			require.NoError(t, err)
			require.Len(t, versions, 4)
			assert.Equal(t, int64(4), versions[0].VersionNumber)
			assert.Equal(t, types.StatusDraft, versions[0].Status)
			assert.Equal(t, "Restored from version 1", versions[0].Notes)
			assert.Equal(t, "Milo", versions[0].Data["name"])
			assert.Equal(t, "Milo II", versions[1].Data["name"])
			assert.Equal(t, types.StatusPublished, versions[2].Status)
			assert.Equal(t, types.StatusDraft, versions[3].Status)
		})
	}
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	be := helper.TestBackend(t)

	t.Run("publish overwrites published record test", func(t *testing.T) {
		created, err := documents.Create(ctx, be, cats, types.Record{"name": "Kkami", "age": 3}, documents.CreateOptions{})
		require.NoError(t, err)
		docID := created.DocumentID()

		_, err = documents.Publish(ctx, be, cats, docID, documents.PublishOptions{})
		require.NoError(t, err)

		_, err = documents.Update(ctx, be, cats, docID, types.Record{"name": "Kkami II", "age": nil}, documents.UpdateOptions{})
		require.NoError(t, err)
		_, err = documents.Publish(ctx, be, cats, docID, documents.PublishOptions{})
		require.NoError(t, err)

		published, err := documents.FindPublished(ctx, be, cats, docID, "")
		require.NoError(t, err)
		assert.Equal(t, "Kkami II", published["name"])
		assert.Nil(t, published["age"])

		records, err := documents.List(ctx, be, cats, documents.ListOptions{
			Status: types.StatusPublished,
			Filter: query.Filter{types.FieldDocumentID: docID},
		})
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("publish without draft test", func(t *testing.T) {
		_, err := documents.Publish(ctx, be, cats, "missing", documents.PublishOptions{})
		assert.ErrorIs(t, err, documents.ErrDraftNotFound)
	})

	t.Run("unpublish test", func(t *testing.T) {
		created, err := documents.Create(ctx, be, cats, types.Record{"name": "Nabi"}, documents.CreateOptions{})
		require.NoError(t, err)
		docID := created.DocumentID()
		_, err = documents.Publish(ctx, be, cats, docID, documents.PublishOptions{})
		require.NoError(t, err)

		deleted, err := documents.Unpublish(ctx, be, cats, docID, "")
		assert.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = documents.Unpublish(ctx, be, cats, docID, "")
		assert.NoError(t, err)
		assert.False(t, deleted)

		draft, err := documents.FindDraft(ctx, be, cats, docID, "")
		assert.NoError(t, err)
		assert.NotNil(t, draft)
	})

	t.Run("versioning disabled test", func(t *testing.T) {
		created, err := documents.Create(ctx, be, pages, types.Record{"title": "About"}, documents.CreateOptions{})
		require.NoError(t, err)
		docID := created.DocumentID()

		_, err = documents.Publish(ctx, be, pages, docID, documents.PublishOptions{})
		assert.ErrorIs(t, err, documents.ErrVersioningDisabled)

		_, err = documents.Unpublish(ctx, be, pages, docID, "")
		assert.ErrorIs(t, err, documents.ErrVersioningDisabled)

		_, err = documents.RestoreVersion(ctx, be, pages, docID, "", 1, documents.RestoreOptions{})
		assert.ErrorIs(t, err, documents.ErrVersioningDisabled)

		versions, err := documents.ListVersions(ctx, be, pages, docID, "")
		assert.NoError(t, err)
		assert.Empty(t, versions)
	})
}

func TestLocales(t *testing.T) {
	ctx := context.Background()
	be := helper.TestBackend(t)

	created, err := documents.Create(ctx, be, cats, types.Record{"name": "Milo"}, documents.CreateOptions{})
	require.NoError(t, err)
	docID := created.DocumentID()
	_, err = documents.Publish(ctx, be, cats, docID, documents.PublishOptions{})
	require.NoError(t, err)

	t.Run("add locale test", func(t *testing.T) {
		rec, err := documents.AddLocale(ctx, be, cats, docID, "fr", types.Record{"name": "Milou"}, documents.AddLocaleOptions{})
		require.NoError(t, err)
		assert.Equal(t, "fr", rec.Locale())

		_, err = documents.AddLocale(ctx, be, cats, docID, "fr", types.Record{"name": "Milou"}, documents.AddLocaleOptions{})
		assert.ErrorIs(t, err, database.ErrValidation)

		draft, err := documents.FindDraft(ctx, be, cats, docID, "fr")
		require.NoError(t, err)
		assert.Equal(t, "Milou", draft["name"])

		versions, err := documents.ListVersions(ctx, be, cats, docID, "fr")
		require.NoError(t, err)
		require.Len(t, versions, 1)
		assert.Equal(t, int64(1), versions[0].VersionNumber)
	})

	t.Run("add locale to missing document test", func(t *testing.T) {
		_, err := documents.AddLocale(ctx, be, cats, "missing", "fr", types.Record{"name": "Milou"}, documents.AddLocaleOptions{})
		assert.ErrorIs(t, err, database.ErrDocumentNotFound)
	})

	t.Run("locale statuses test", func(t *testing.T) {
		statuses, err := documents.GetLocaleStatuses(ctx, be, cats, docID)
		require.NoError(t, err)
		assert.Equal(t, map[string]*types.LocaleStatus{
			"en": {HasDraft: true, HasPublished: true},
			"fr": {HasDraft: true},
		}, statuses)
	})

	t.Run("delete locale keeps other locales test", func(t *testing.T) {
		deleted, err := documents.DeleteLocale(ctx, be, cats, docID, "fr")
		require.NoError(t, err)
		assert.True(t, deleted)

		statuses, err := documents.GetLocaleStatuses(ctx, be, cats, docID)
		require.NoError(t, err)
		assert.Equal(t, map[string]*types.LocaleStatus{
			"en": {HasDraft: true, HasPublished: true},
		}, statuses)

		versions, err := documents.ListVersions(ctx, be, cats, docID, "fr")
		require.NoError(t, err)
		assert.Len(t, versions, 1)
	})

	t.Run("locale of collection without i18n test", func(t *testing.T) {
		created, err := documents.Create(ctx, be, pages, types.Record{"title": "About"}, documents.CreateOptions{
			Locale: "fr",
		})
		require.NoError(t, err)

		statuses, err := documents.GetLocaleStatuses(ctx, be, pages, created.DocumentID())
		require.NoError(t, err)
		assert.Equal(t, map[string]*types.LocaleStatus{
			"ko": {HasDraft: true},
		}, statuses)

		found, err := documents.FindDraft(ctx, be, pages, created.DocumentID(), "de")
		require.NoError(t, err)
		assert.Equal(t, "About", found["title"])
	})
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	be := helper.TestBackend(t)

	t.Run("idempotent delete test", func(t *testing.T) {
		created, err := documents.Create(ctx, be, cats, types.Record{"name": "Milo"}, documents.CreateOptions{})
		require.NoError(t, err)
		docID := created.DocumentID()
		_, err = documents.AddLocale(ctx, be, cats, docID, "fr", types.Record{"name": "Milou"}, documents.AddLocaleOptions{})
		require.NoError(t, err)

		deleted, err := documents.Delete(ctx, be, cats, docID)
		assert.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = documents.Delete(ctx, be, cats, docID)
		assert.NoError(t, err)
		assert.False(t, deleted)

		statuses, err := documents.GetLocaleStatuses(ctx, be, cats, docID)
		assert.NoError(t, err)
		assert.Empty(t, statuses)

		versions, err := documents.ListVersions(ctx, be, cats, docID, "")
		assert.NoError(t, err)
		assert.Len(t, versions, 2)
	})

	t.Run("update missing record test", func(t *testing.T) {
		_, err := documents.Update(ctx, be, cats, "missing", types.Record{"name": "Milo"}, documents.UpdateOptions{})
		assert.ErrorIs(t, err, database.ErrDocumentNotFound)

		created, err := documents.Create(ctx, be, cats, types.Record{"name": "Milo"}, documents.CreateOptions{})
		require.NoError(t, err)
		_, err = documents.Update(ctx, be, cats, created.DocumentID(), types.Record{"name": "Milo"}, documents.UpdateOptions{
			Status: types.StatusPublished,
		})
		assert.ErrorIs(t, err, database.ErrDocumentNotFound)
	})

	t.Run("unique field test", func(t *testing.T) {
		_, err := documents.Create(ctx, be, cats, types.Record{"name": "Milo", "slug": "milo"}, documents.CreateOptions{})
		require.NoError(t, err)

		_, err = documents.Create(ctx, be, cats, types.Record{"name": "Milo", "slug": "milo"}, documents.CreateOptions{})
		var verr *database.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "slug")
		assert.Equal(t, database.ReasonUnique, verr.Reason)

		_, err = documents.Create(ctx, be, cats, types.Record{"name": "Milo", "slug": "milo"}, documents.CreateOptions{
			Locale: "fr",
		})
		assert.NoError(t, err)
	})

	t.Run("reserved field test", func(t *testing.T) {
		_, err := documents.Create(ctx, be, cats, types.Record{"name": "Milo", "status": "published"}, documents.CreateOptions{})
		assert.ErrorIs(t, err, database.ErrValidation)

		_, err = documents.Create(ctx, be, cats, types.Record{"name": "Milo", "color": "black"}, documents.CreateOptions{})
		assert.ErrorIs(t, err, database.ErrValidation)
	})

	t.Run("find missing record test", func(t *testing.T) {
		rec, err := documents.FindByDocumentID(ctx, be, cats, "missing", documents.FindOptions{})
		assert.NoError(t, err)
		assert.Nil(t, rec)

		rec, err = documents.RestoreVersion(ctx, be, cats, "missing", "", 1, documents.RestoreOptions{})
		assert.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("unknown collection test", func(t *testing.T) {
		_, err := documents.List(ctx, be, "dogs", documents.ListOptions{})
		assert.ErrorIs(t, err, registry.ErrCollectionNotFound)
	})

	t.Run("list test", func(t *testing.T) {
		for _, name := range []string{"Coco", "Bori", "Dubu"} {
			_, err := documents.Create(ctx, be, cats, types.Record{"name": name, "age": 2}, documents.CreateOptions{
				Locale: "de",
			})
			require.NoError(t, err)
		}

		records, err := documents.List(ctx, be, cats, documents.ListOptions{
			Locale: "de",
			Status: types.StatusDraft,
			Filter: query.Filter{"age": query.Filter{"$gte": 2}},
			Sort:   []query.SortField{query.Asc("name")},
			Limit:  2,
		})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Bori", records[0]["name"])
		assert.Equal(t, "Coco", records[1]["name"])
	})
}
