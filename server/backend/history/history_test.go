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

package history_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/server/backend/database"
	"github.com/yorkie-team/folio/server/backend/database/memory"
	"github.com/yorkie-team/folio/server/backend/database/sqlite"
	"github.com/yorkie-team/folio/server/backend/history"
	"github.com/yorkie-team/folio/server/backend/settings"
)

const (
	articles = "articles"
	docID    = "doc-1"
)

func newStore(t *testing.T, db database.Database, maxVersions int) *history.Store {
	store, err := history.New(
		context.Background(),
		db,
		settings.NewStatic(&settings.Settings{MaxVersions: maxVersions}),
		nil,
	)
	require.NoError(t, err)
	return store
}

func newMemoryDB(t *testing.T) database.Database {
	db, err := memory.New()
	require.NoError(t, err)
	return db
}

func newSQLiteDB(t *testing.T) database.Database {
	db, err := sqlite.Dial(&sqlite.Config{Path: sqlite.MemoryPath, BusyTimeout: "5s"})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})
	return db
}

// testDBs returns the constructors of the databases the store runs over.
func testDBs() map[string]func(t *testing.T) database.Database {
	return map[string]func(t *testing.T) database.Database{
		"memory": newMemoryDB,
		"sqlite": newSQLiteDB,
	}
}

func create(t *testing.T, store *history.Store, locale string, data types.Record) *types.Snapshot {
	snapshot, err := store.CreateVersion(context.Background(), history.CreateParams{
		DocumentID: docID,
		Collection: articles,
		Locale:     locale,
		Data:       data,
		Status:     types.StatusDraft,
	})
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	return snapshot
}

type failingProvider struct{}

func (failingProvider) Get(context.Context) (*settings.Settings, error) {
	return nil, errors.New("settings unavailable")
}

// collidingDB reports a unique violation for the first inserts.
type collidingDB struct {
	database.Database
	collisions int
}

func (d *collidingDB) Insert(ctx context.Context, coll *types.Collection, row database.Row) (string, error) {
	if coll.Name == history.CollectionName && d.collisions > 0 {
		d.collisions--
		return "", database.NewUniqueViolation(coll.Name, "document_id", "collection_name", "locale", "version_number")
	}
	return d.Database.Insert(ctx, coll, row)
}

// racingDB stores a competing snapshot with the same number right before
// the first inserts, the way a concurrent writer would, so the insert hits
// the unique index of the database.
type racingDB struct {
	database.Database
	races int
}

func (d *racingDB) Insert(ctx context.Context, coll *types.Collection, row database.Row) (string, error) {
	if coll.Name == history.CollectionName && d.races > 0 {
		d.races--
		competing := make(database.Row, len(row))
		for k, v := range row {
			competing[k] = v
		}
		competing["version_id"] = "competing-" + row["version_id"].(string)
		if _, err := d.Database.Insert(ctx, coll, competing); err != nil {
			return "", err
		}
	}
	return d.Database.Insert(ctx, coll, row)
}

func TestCreateVersion(t *testing.T) {
	ctx := context.Background()

	for name, newDB := range testDBs() {
		t.Run(name+" test", func(t *testing.T) {
			t.Run("version numbers increase per locale test", func(t *testing.T) {
				store := newStore(t, newDB(t), 10)

				v1 := create(t, store, "en", types.Record{"title": "Hello"})
				v2 := create(t, store, "en", types.Record{"title": "Hello!"})
				fr := create(t, store, "fr", types.Record{"title": "Bonjour"})

				assert.Equal(t, int64(1), v1.VersionNumber)
				assert.Equal(t, int64(2), v2.VersionNumber)
				assert.Equal(t, int64(1), fr.VersionNumber)
				assert.NotEqual(t, v1.VersionID, v2.VersionID)
				assert.Equal(t, "Hello!", v2.Data["title"])
				assert.Equal(t, types.StatusDraft, v2.Status)
				assert.False(t, v2.CreatedAt.IsZero())
			})

			t.Run("snapshot data keeps its types test", func(t *testing.T) {
				store := newStore(t, newDB(t), 10)
				adoptedAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
				data := types.Record{
					"title":     "Tank",
					"adoptedAt": adoptedAt,
					"chip":      int64(9007199254740993),
					"tags":      []interface{}{int64(1), "calm"},
				}

				created := create(t, store, "en", data)
				found, err := store.FindVersionByID(ctx, created.VersionID)
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, map[string]interface{}(data), map[string]interface{}(found.Data))
			})

			t.Run("default locale and status test", func(t *testing.T) {
				store := newStore(t, newDB(t), 10)

				snapshot, err := store.CreateVersion(ctx, history.CreateParams{
					DocumentID: docID,
					Collection: articles,
					Data:       types.Record{"title": "Hello"},
					Notes:      "first",
					CreatedBy:  "user-1",
				})
				require.NoError(t, err)
				assert.Equal(t, types.DefaultLocale, snapshot.Locale)
				assert.Equal(t, types.StatusDraft, snapshot.Status)
				assert.Equal(t, "first", snapshot.Notes)
				assert.Equal(t, "user-1", snapshot.CreatedBy)
			})

			t.Run("retention test", func(t *testing.T) {
				store := newStore(t, newDB(t), 3)

				for i := 0; i < 5; i++ {
					create(t, store, "en", types.Record{"title": "Hello"})
				}
				other := create(t, store, "fr", types.Record{"title": "Bonjour"})

				versions, err := store.FindVersionsByLocale(ctx, docID, articles, "en")
				require.NoError(t, err)
				require.Len(t, versions, 3)
				assert.Equal(t, int64(5), versions[0].VersionNumber)
				assert.Equal(t, int64(4), versions[1].VersionNumber)
				assert.Equal(t, int64(3), versions[2].VersionNumber)

				next := create(t, store, "en", types.Record{"title": "Hello"})
				assert.Equal(t, int64(6), next.VersionNumber)

				found, err := store.FindVersionByID(ctx, other.VersionID)
				require.NoError(t, err)
				assert.NotNil(t, found)
			})

			t.Run("retention failure does not fail create test", func(t *testing.T) {
				store, err := history.New(ctx, newDB(t), failingProvider{}, nil)
				require.NoError(t, err)

				snapshot, err := store.CreateVersion(ctx, history.CreateParams{
					DocumentID: docID,
					Collection: articles,
					Locale:     "en",
				})
				assert.NoError(t, err)
				assert.Equal(t, int64(1), snapshot.VersionNumber)
			})

			t.Run("collision is retried test", func(t *testing.T) {
				db := &collidingDB{Database: newDB(t), collisions: 2}
				store := newStore(t, db, 10)

				snapshot := create(t, store, "en", types.Record{"title": "Hello"})
				assert.Equal(t, int64(1), snapshot.VersionNumber)
			})

			t.Run("collision gives up after attempts test", func(t *testing.T) {
				db := &collidingDB{Database: newDB(t), collisions: 3}
				store := newStore(t, db, 10)

				_, err := store.CreateVersion(ctx, history.CreateParams{
					DocumentID: docID,
					Collection: articles,
					Locale:     "en",
				})
				assert.ErrorIs(t, err, database.ErrValidation)
			})

			t.Run("concurrent writer is retried test", func(t *testing.T) {
				db := &racingDB{Database: newDB(t), races: 2}
				store := newStore(t, db, 10)

				snapshot := create(t, store, "en", types.Record{"title": "Hello"})
				assert.Equal(t, int64(3), snapshot.VersionNumber)

				versions, err := store.FindVersionsByLocale(ctx, docID, articles, "en")
				require.NoError(t, err)
				assert.Len(t, versions, 3)
			})

			t.Run("concurrent writer gives up after attempts test", func(t *testing.T) {
				db := &racingDB{Database: newDB(t), races: 3}
				store := newStore(t, db, 10)

				_, err := store.CreateVersion(ctx, history.CreateParams{
					DocumentID: docID,
					Collection: articles,
					Locale:     "en",
				})
				assert.ErrorIs(t, err, database.ErrValidation)
			})
		})
	}
}

func TestFindVersions(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, newMemoryDB(t), 10)

	create(t, store, "en", types.Record{"title": "v1"})
	create(t, store, "en", types.Record{"title": "v2"})
	create(t, store, "fr", types.Record{"title": "v1 fr"})

	t.Run("find versions of every locale test", func(t *testing.T) {
		versions, err := store.FindVersions(ctx, docID, articles)
		require.NoError(t, err)
		assert.Len(t, versions, 3)
	})

	t.Run("find version by number test", func(t *testing.T) {
		snapshot, err := store.FindVersionByNumber(ctx, docID, articles, "en", 2)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Equal(t, "v2", snapshot.Data["title"])

		snapshot, err = store.FindVersionByNumber(ctx, docID, articles, "en", 9)
		assert.NoError(t, err)
		assert.Nil(t, snapshot)
	})

	t.Run("find latest version test", func(t *testing.T) {
		snapshot, err := store.FindLatestVersion(ctx, docID, articles, "en", "")
		require.NoError(t, err)
		assert.Equal(t, int64(2), snapshot.VersionNumber)

		snapshot, err = store.FindLatestVersion(ctx, docID, articles, "en", types.StatusPublished)
		assert.NoError(t, err)
		assert.Nil(t, snapshot)

		snapshot, err = store.FindLatestVersion(ctx, "missing", articles, "en", "")
		assert.NoError(t, err)
		assert.Nil(t, snapshot)
	})

	t.Run("find version by unknown id test", func(t *testing.T) {
		snapshot, err := store.FindVersionByID(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, snapshot)
	})
}

func TestVersionStatus(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, newMemoryDB(t), 10)

	t.Run("publish and archive test", func(t *testing.T) {
		snapshot := create(t, store, "en", types.Record{"title": "Hello"})

		published, err := store.PublishVersion(ctx, snapshot.VersionID)
		require.NoError(t, err)
		require.NotNil(t, published)
		assert.Equal(t, types.StatusPublished, published.Status)

		again, err := store.PublishVersion(ctx, snapshot.VersionID)
		assert.NoError(t, err)
		assert.Nil(t, again)

		archived, err := store.ArchiveVersion(ctx, snapshot.VersionID)
		require.NoError(t, err)
		require.NotNil(t, archived)
		assert.Equal(t, types.StatusArchived, archived.Status)

		archivedAgain, err := store.ArchiveVersion(ctx, snapshot.VersionID)
		assert.NoError(t, err)
		assert.Nil(t, archivedAgain)

		republished, err := store.PublishVersion(ctx, snapshot.VersionID)
		assert.NoError(t, err)
		assert.Nil(t, republished)
	})

	t.Run("archive draft test", func(t *testing.T) {
		snapshot := create(t, store, "en", types.Record{"title": "Hello"})

		archived, err := store.ArchiveVersion(ctx, snapshot.VersionID)
		require.NoError(t, err)
		assert.Equal(t, types.StatusArchived, archived.Status)
	})

	t.Run("update status of missing version test", func(t *testing.T) {
		snapshot, err := store.UpdateVersionStatus(ctx, "missing", types.StatusPublished)
		assert.NoError(t, err)
		assert.Nil(t, snapshot)
	})

	t.Run("delete version test", func(t *testing.T) {
		snapshot := create(t, store, "en", types.Record{"title": "Hello"})

		deleted, err := store.DeleteVersion(ctx, snapshot.VersionID)
		assert.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = store.DeleteVersion(ctx, snapshot.VersionID)
		assert.NoError(t, err)
		assert.False(t, deleted)
	})
}
