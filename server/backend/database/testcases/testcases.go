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

// Package testcases contains testcases for database. It is used by database
// implementations to test their own implementations with the same testcases.
package testcases

import (
	"context"
	"errors"
	"testing"
	gotime "time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/query"
	"github.com/yorkie-team/folio/server/backend/database"
)

// newCats returns a localized collection of cats with the given name.
func newCats(name string) *types.Collection {
	return &types.Collection{
		Name:      name,
		Localized: true,
		Versioned: true,
		Fields: []*types.Field{
			{Name: "name", Type: types.FieldTypeString, Required: true},
			{Name: "slug", Type: types.FieldTypeString, Unique: true},
			{Name: "age", Type: types.FieldTypeInteger},
			{Name: "weight", Type: types.FieldTypeNumber},
			{Name: "indoor", Type: types.FieldTypeBoolean},
			{Name: "adoptedAt", Type: types.FieldTypeDate},
			{Name: "meta", Type: types.FieldTypeObject},
			{Name: "tags", Type: types.FieldTypeArray},
		},
	}
}

func ensure(t *testing.T, db database.Database, coll *types.Collection) database.Model {
	m, err := database.EnsureModel(context.Background(), db, coll)
	require.NoError(t, err)
	return m
}

func assertValidation(t *testing.T, err error, reason string, fields ...string) {
	var verr *database.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	assert.ErrorIs(t, err, database.ErrValidation)
	assert.Equal(t, reason, verr.Reason)
	if len(fields) > 0 {
		assert.Equal(t, fields, verr.Fields)
	}
}

// RunCreateAndFindTest runs the create and find tests for the given db.
func RunCreateAndFindTest(t *testing.T, db database.Database) {
	ctx := context.Background()
	cats := ensure(t, db, newCats("cats_create"))
	adoptedAt := gotime.Date(2024, 5, 1, 10, 0, 0, 0, gotime.UTC)

	t.Run("create and find by id test", func(t *testing.T) {
		created, err := cats.Create(ctx, types.Record{
			"documentId": "cat-1",
			"locale":     "en",
			"status":     "draft",
			"name":       "Milo",
			"age":        3,
			"weight":     4.5,
			"indoor":     true,
			"adoptedAt":  adoptedAt,
			"meta":       map[string]interface{}{"color": "black", "toys": []interface{}{"ball"}},
			"tags":       []interface{}{"small", "calm"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID())
		assert.IsType(t, gotime.Time{}, created["createdAt"])

		found, err := cats.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, "Milo", found["name"])
		assert.Equal(t, int64(3), found["age"])
		assert.Equal(t, 4.5, found["weight"])
		assert.Equal(t, true, found["indoor"])
		assert.Equal(t, adoptedAt, found["adoptedAt"])
		assert.Equal(t, map[string]interface{}{"color": "black", "toys": []interface{}{"ball"}}, found["meta"])
		assert.Equal(t, []interface{}{"small", "calm"}, found["tags"])
		assert.IsType(t, gotime.Time{}, found["createdAt"])
		assert.IsType(t, gotime.Time{}, found["updatedAt"])
		assert.Equal(t, created["createdAt"], found["createdAt"])
	})

	t.Run("structured values keep their types test", func(t *testing.T) {
		big := int64(9007199254740993)
		at := gotime.Date(2024, 1, 2, 3, 4, 5, 0, gotime.UTC)
		created, err := cats.Create(ctx, types.Record{
			"documentId": "cat-big",
			"locale":     "en",
			"status":     "draft",
			"name":       "Tank",
			"meta": map[string]interface{}{
				"chip":      big,
				"ratio":     2.0,
				"adoptedAt": at,
				"vet":       map[string]interface{}{"visits": 4},
			},
			"tags": []interface{}{big, 1.5, at, "calm"},
		})
		require.NoError(t, err)

		found, err := cats.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"chip":      big,
			"ratio":     2.0,
			"adoptedAt": at,
			"vet":       map[string]interface{}{"visits": int64(4)},
		}, found["meta"])
		assert.Equal(t, []interface{}{big, 1.5, at, "calm"}, found["tags"])
		assert.Equal(t, created["meta"], found["meta"])
		assert.Equal(t, created["tags"], found["tags"])
	})

	t.Run("find missing test", func(t *testing.T) {
		found, err := cats.FindByID(ctx, "000000000000000000000000")
		assert.NoError(t, err)
		assert.Nil(t, found)

		found, err = cats.FindOne(ctx, types.Record{"documentId": "cat-missing"})
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("id is not writable test", func(t *testing.T) {
		_, err := cats.Create(ctx, types.Record{"id": "x", "documentId": "cat-2", "locale": "en", "status": "draft", "name": "Nabi"})
		assertValidation(t, err, database.ReasonNotWritable, "id")
	})

	t.Run("unknown and required field test", func(t *testing.T) {
		_, err := cats.Create(ctx, types.Record{"documentId": "cat-2", "locale": "en", "status": "draft", "name": "Nabi", "color": "white"})
		assertValidation(t, err, database.ReasonUnknown, "color")

		_, err = cats.Create(ctx, types.Record{"documentId": "cat-2", "locale": "en", "status": "draft"})
		assertValidation(t, err, database.ReasonRequired, "name")

		_, err = cats.Create(ctx, types.Record{"documentId": "cat-2", "locale": "en", "status": "draft", "name": "Nabi", "age": "old"})
		assertValidation(t, err, database.ReasonInvalid, "age")
	})

	t.Run("ambient locale and status test", func(t *testing.T) {
		scoped := cats.WithLocale("fr").WithStatus(types.StatusPublished)
		created, err := scoped.Create(ctx, types.Record{"documentId": "cat-3", "name": "Minou"})
		require.NoError(t, err)
		assert.Equal(t, "fr", created.Locale())
		assert.Equal(t, types.StatusPublished, created.Status())

		found, err := scoped.FindOne(ctx, types.Record{"documentId": "cat-3"})
		require.NoError(t, err)
		assert.Equal(t, created.ID(), found.ID())

		found, err = cats.WithLocale("en").FindOne(ctx, types.Record{"documentId": "cat-3"})
		require.NoError(t, err)
		assert.Nil(t, found)

		found, err = cats.WithStatus(types.StatusDraft).FindOne(ctx, types.Record{"documentId": "cat-3"})
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

// RunUniqueTest runs the uniqueness tests for the given db.
func RunUniqueTest(t *testing.T, db database.Database) {
	ctx := context.Background()
	cats := ensure(t, db, newCats("cats_unique"))

	draft := types.Record{"documentId": "cat-1", "locale": "en", "status": "draft", "name": "Milo", "slug": "milo"}
	_, err := cats.Create(ctx, draft)
	require.NoError(t, err)

	t.Run("second draft of a locale test", func(t *testing.T) {
		_, err := cats.Create(ctx, draft.Merge(types.Record{"slug": "milo-2"}))
		assertValidation(t, err, database.ReasonUnique, "documentId", "locale", "status")
	})

	t.Run("other status and locale test", func(t *testing.T) {
		_, err := cats.Create(ctx, draft.Merge(types.Record{"status": "published"}))
		assert.NoError(t, err)

		_, err = cats.Create(ctx, draft.Merge(types.Record{"locale": "fr"}))
		assert.NoError(t, err)

		count, err := cats.Query().Where(query.Filter{"documentId": "cat-1"}).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("unique field test", func(t *testing.T) {
		_, err := cats.Create(ctx, types.Record{"documentId": "cat-2", "locale": "en", "status": "draft", "name": "Other", "slug": "milo"})
		assertValidation(t, err, database.ReasonUnique, "slug", "locale", "status")

		_, err = cats.Create(ctx, types.Record{"documentId": "cat-2", "locale": "en", "status": "draft", "name": "Other"})
		assert.NoError(t, err)
		_, err = cats.Create(ctx, types.Record{"documentId": "cat-3", "locale": "en", "status": "draft", "name": "Another"})
		assert.NoError(t, err)
	})

	t.Run("unique violation on update test", func(t *testing.T) {
		_, err := cats.Update(ctx, types.Record{"documentId": "cat-2", "locale": "en", "status": "draft"}, types.Record{"slug": "milo"})
		assertValidation(t, err, database.ReasonUnique, "slug", "locale", "status")
	})
}

// RunUpdateAndDeleteTest runs the update and delete tests for the given db.
func RunUpdateAndDeleteTest(t *testing.T, db database.Database) {
	ctx := context.Background()
	cats := ensure(t, db, newCats("cats_update"))

	created, err := cats.Create(ctx, types.Record{"documentId": "cat-1", "locale": "en", "status": "draft", "name": "Milo", "age": 3})
	require.NoError(t, err)

	t.Run("update test", func(t *testing.T) {
		updated, err := cats.Update(ctx, types.Record{"documentId": "cat-1"}, types.Record{"name": "Milo II", "updatedBy": "kim"})
		require.NoError(t, err)
		assert.Equal(t, created.ID(), updated.ID())
		assert.Equal(t, "Milo II", updated["name"])
		assert.Equal(t, int64(3), updated["age"])
		assert.Equal(t, "kim", updated["updatedBy"])
		assert.Equal(t, created["createdAt"], updated["createdAt"])

		found, err := cats.FindByID(ctx, created.ID())
		require.NoError(t, err)
		assert.Equal(t, "Milo II", found["name"])
	})

	t.Run("update missing test", func(t *testing.T) {
		_, err := cats.Update(ctx, types.Record{"documentId": "cat-missing"}, types.Record{"name": "Ghost"})
		assert.ErrorIs(t, err, database.ErrDocumentNotFound)

		_, err = cats.Update(ctx, types.Record{"documentId": "cat-1"}, types.Record{"id": "other"})
		assertValidation(t, err, database.ReasonNotWritable, "id")
	})

	t.Run("delete test", func(t *testing.T) {
		for _, locale := range []string{"fr", "ko"} {
			_, err := cats.Create(ctx, types.Record{"documentId": "cat-1", "locale": locale, "status": "draft", "name": "Milo"})
			require.NoError(t, err)
		}

		deleted, err := cats.Delete(ctx, types.Record{"documentId": "cat-1", "locale": "ko"})
		require.NoError(t, err)
		assert.True(t, deleted)

		records, err := cats.FindMany(ctx, types.Record{"documentId": "cat-1"})
		require.NoError(t, err)
		assert.Len(t, records, 2)

		deleted, err = cats.Delete(ctx, types.Record{"documentId": "cat-1"})
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = cats.Delete(ctx, types.Record{"documentId": "cat-1"})
		require.NoError(t, err)
		assert.False(t, deleted)

		records, err = cats.Find(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 0)
	})
}

// RunQueryTest runs the query engine tests for the given db.
func RunQueryTest(t *testing.T, db database.Database) {
	ctx := context.Background()
	cats := ensure(t, db, newCats("cats_query"))

	names := []string{"Milo", "Nabi", "Coco", "Luna", "Momo", "Bori", "Kkami", "Duri", "Nuri", "Tori", "Haru", "Mimi"}
	for i, name := range names {
		age := i + 1
		status := types.StatusDraft
		if age%2 == 0 {
			status = types.StatusPublished
		}
		locale := "en"
		if age > 10 {
			locale = "fr"
		}
		rec := types.Record{
			"documentId": name,
			"locale":     locale,
			"status":     string(status),
			"name":       name,
			"age":        age,
			"weight":     float64(age) / 2,
			"adoptedAt":  gotime.Date(2020, 1, age, 0, 0, 0, 0, gotime.UTC),
		}
		if age == 1 {
			rec["indoor"] = true
			rec["tags"] = []interface{}{"black"}
		}
		_, err := cats.Create(ctx, rec)
		require.NoError(t, err)
	}

	agesOf := func(records []types.Record) []int64 {
		var ages []int64
		for _, rec := range records {
			ages = append(ages, rec.Int("age"))
		}
		return ages
	}

	t.Run("range test", func(t *testing.T) {
		records, err := cats.Query().
			Where(query.Filter{"age": query.Filter{"$gte": 5, "$lt": 10}}).
			Sort(query.Asc("age")).
			Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{5, 6, 7, 8, 9}, agesOf(records))

		records, err = cats.Query().
			Where(query.Filter{"adoptedAt": query.Filter{"$gt": "2020-01-10T00:00:00Z"}}).
			Sort(query.Desc("adoptedAt")).
			Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{12, 11}, agesOf(records))

		records, err = cats.Query().
			Where(query.Filter{"weight": query.Filter{"$lte": 1.0}}).
			Sort(query.Asc("weight")).
			Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, agesOf(records))
	})

	t.Run("or and unknown operator test", func(t *testing.T) {
		count, err := cats.Query().Where(query.Filter{"$or": []interface{}{
			map[string]interface{}{"status": "draft"},
			map[string]interface{}{"status": "published"},
		}}).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(12), count)

		records, err := cats.Query().
			Where(query.Filter{"age": query.Filter{"$lte": 2, "$near": 1}}).
			Sort(query.Asc("age")).
			Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, agesOf(records))

		records, err = cats.Query().
			Where(query.Filter{"$and": []query.Filter{
				{"age": query.Filter{"$gt": 3}},
				{"$or": []query.Filter{{"name": "Luna"}, {"name": "Mimi"}, {"name": "Milo"}}},
			}}).
			Sort(query.Asc("age")).
			Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 12}, agesOf(records))
	})

	t.Run("set and null test", func(t *testing.T) {
		records, err := cats.Query().Where(query.Filter{"name": query.Filter{"$in": []string{"Milo", "Coco"}}}).Sort(query.Asc("age")).Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 3}, agesOf(records))

		count, err := cats.Query().Where(query.Filter{"age": query.Filter{"$nin": []int{1, 2, 3}}}).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(9), count)

		count, err = cats.Query().Where(query.Filter{"indoor": query.Filter{"$null": true}}).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(11), count)

		count, err = cats.Query().Where(query.Filter{"indoor": query.Filter{"$exists": true}}).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = cats.Query().Where(query.Filter{"indoor": query.Filter{"$ne": true}}).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(11), count)

		count, err = cats.Query().Where(query.Filter{"tags": []interface{}{"black"}}).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("string match test", func(t *testing.T) {
		count, err := cats.Query().Where(query.Filter{"name": query.Filter{"$like": "Mi"}}).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = cats.Query().Where(query.Filter{"name": query.Filter{"$like": "mi"}}).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = cats.Query().Where(query.Filter{"name": query.Filter{"$ilike": "mi"}}).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		count, err = cats.Query().Where(query.Filter{"name": query.Filter{"$regex": "RI"}}).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("scope test", func(t *testing.T) {
		count, err := cats.Query().Locale("fr").Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		count, err = cats.WithLocale("en").WithStatus(types.StatusPublished).Query().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)

		records, err := cats.Query().Version("published").Locale("en").Sort(query.Asc("age")).Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{2, 4, 6, 8, 10}, agesOf(records))
	})

	t.Run("paginate and select test", func(t *testing.T) {
		page, err := cats.Query().Sort(query.Asc("age")).Limit(5).Skip(10).Paginate(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{11, 12}, agesOf(page.Data))
		assert.Equal(t, int64(12), page.Total)
		require.NotNil(t, page.Page)
		assert.Equal(t, 3, *page.Page)

		rec, err := cats.Query().Where(query.Filter{"age": 1}).Select("name").ExecOne(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Milo", rec["name"])
		assert.NotEmpty(t, rec.ID())
		assert.NotContains(t, rec, "age")

		exists, err := cats.Query().Where(query.Filter{"document_id": "Milo"}).Exists(ctx)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("invalid query test", func(t *testing.T) {
		_, err := cats.Query().Where(query.Filter{"color": "black"}).Exec(ctx)
		assert.ErrorIs(t, err, query.ErrUnknownField)

		_, err = cats.Query().Where(query.Filter{"$or": map[string]interface{}{"age": 1}}).Exec(ctx)
		assert.ErrorIs(t, err, query.ErrInvalidFilter)
	})
}

// RunSystemCollectionTest runs the tests of a collection without locale and
// status columns for the given db.
func RunSystemCollectionTest(t *testing.T, db database.Database) {
	ctx := context.Background()
	versions := ensure(t, db, &types.Collection{
		Name:      "versions_test",
		System:    true,
		Localized: true,
		Fields: []*types.Field{
			{Name: "documentId", Type: types.FieldTypeString, Required: true},
			{Name: "locale", Type: types.FieldTypeString, Required: true},
			{Name: "versionNumber", Type: types.FieldTypeInteger, Required: true},
			{Name: "status", Type: types.FieldTypeString},
			{Name: "data", Type: types.FieldTypeObject},
			{Name: "createdAt", Type: types.FieldTypeDate},
		},
		Unique: [][]string{{"documentId", "locale", "versionNumber"}},
	})

	for i := 1; i <= 3; i++ {
		_, err := versions.Create(ctx, types.Record{
			"documentId":    "cat-1",
			"locale":        "en",
			"versionNumber": i,
			"status":        "draft",
			"data":          map[string]interface{}{"name": "Milo"},
		})
		require.NoError(t, err)
	}

	t.Run("composite unique key test", func(t *testing.T) {
		_, err := versions.Create(ctx, types.Record{"documentId": "cat-1", "locale": "en", "versionNumber": 2})
		assertValidation(t, err, database.ReasonUnique, "documentId", "locale", "versionNumber")

		_, err = versions.Create(ctx, types.Record{"documentId": "cat-1", "locale": "fr", "versionNumber": 2})
		assert.NoError(t, err)
	})

	t.Run("ambient scope is ignored test", func(t *testing.T) {
		records, err := versions.WithLocale("fr").WithStatus(types.StatusPublished).FindMany(ctx, types.Record{"locale": "en"})
		require.NoError(t, err)
		assert.Len(t, records, 3)

		latest, err := versions.Query().
			Where(query.Filter{"documentId": "cat-1", "locale": "en"}).
			Sort(query.Desc("versionNumber")).
			ExecOne(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), latest.Int("versionNumber"))
		assert.Equal(t, map[string]interface{}{"name": "Milo"}, latest["data"])
		assert.IsType(t, gotime.Time{}, latest["createdAt"])
	})
}
