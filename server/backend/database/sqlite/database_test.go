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

package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/errors"
	"github.com/yorkie-team/folio/server/backend/database"
	"github.com/yorkie-team/folio/server/backend/database/sqlite"
	"github.com/yorkie-team/folio/server/backend/database/testcases"
)

func TestDB(t *testing.T) {
	db, err := sqlite.Dial(&sqlite.Config{Path: sqlite.MemoryPath, BusyTimeout: "5s"})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, db.Close())
	}()

	t.Run("RunCreateAndFind test", func(t *testing.T) {
		testcases.RunCreateAndFindTest(t, db)
	})

	t.Run("RunUnique test", func(t *testing.T) {
		testcases.RunUniqueTest(t, db)
	})

	t.Run("RunUpdateAndDelete test", func(t *testing.T) {
		testcases.RunUpdateAndDeleteTest(t, db)
	})

	t.Run("RunQuery test", func(t *testing.T) {
		testcases.RunQueryTest(t, db)
	})

	t.Run("RunSystemCollection test", func(t *testing.T) {
		testcases.RunSystemCollectionTest(t, db)
	})
}

func TestDial(t *testing.T) {
	t.Run("unreachable database test", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "folio.db")
		_, err := sqlite.Dial(&sqlite.Config{Path: path, BusyTimeout: "1s"})
		assert.ErrorIs(t, err, database.ErrUnavailable)
		assert.True(t, errors.IsServerError(err))
	})
}

func TestSchemaEvolution(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "folio.db")

	db, err := sqlite.Dial(&sqlite.Config{Path: path, BusyTimeout: "5s"})
	require.NoError(t, err)

	posts := &types.Collection{Name: "posts", Fields: []*types.Field{
		{Name: "title", Type: types.FieldTypeString},
	}}
	m, err := database.EnsureModel(ctx, db, posts)
	require.NoError(t, err)
	_, err = m.Create(ctx, types.Record{"documentId": "post-1", "status": "draft", "title": "Hello"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = sqlite.Dial(&sqlite.Config{Path: path, BusyTimeout: "5s"})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, db.Close())
	}()

	posts.Fields = append(posts.Fields, &types.Field{Name: "publishedAt", Type: types.FieldTypeDate})
	m, err = database.EnsureModel(ctx, db, posts)
	require.NoError(t, err)

	rec, err := m.FindOne(ctx, types.Record{"documentId": "post-1"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", rec["title"])
	assert.NotContains(t, rec, "publishedAt")

	updated, err := m.Update(ctx, types.Record{"documentId": "post-1"}, types.Record{"publishedAt": "2024-05-01T00:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, 2024, updated.Time("publishedAt").Year())
}

func TestConfig(t *testing.T) {
	t.Run("validate test", func(t *testing.T) {
		config := &sqlite.Config{Path: "folio.db", BusyTimeout: "5s"}
		assert.NoError(t, config.Validate())
		assert.Equal(t, "folio.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", config.DSN())

		config.BusyTimeout = "5"
		assert.Error(t, config.Validate())

		config = &sqlite.Config{BusyTimeout: "5s"}
		assert.Error(t, config.Validate())

		config = &sqlite.Config{Path: sqlite.MemoryPath, BusyTimeout: "1s"}
		assert.True(t, config.IsMemory())
		assert.Equal(t, ":memory:?_pragma=busy_timeout(1000)", config.DSN())
	})
}
