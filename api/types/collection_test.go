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

package types_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/folio/api/types"
)

func TestCollection(t *testing.T) {
	cats := &types.Collection{
		Name:      "cats",
		Localized: true,
		Versioned: true,
		Fields: []*types.Field{
			{Name: "name", Type: types.FieldTypeString, Required: true},
			{Name: "slug", Type: types.FieldTypeString, Unique: true},
			{Name: "age", Type: types.FieldTypeInteger},
		},
	}

	t.Run("validate test", func(t *testing.T) {
		assert.NoError(t, cats.Validate())

		invalid := &types.Collection{Name: "Cats"}
		assert.Error(t, invalid.Validate())

		reserved := &types.Collection{Name: "dogs", Fields: []*types.Field{
			{Name: "status", Type: types.FieldTypeString},
		}}
		assert.ErrorIs(t, reserved.Validate(), types.ErrReservedField)

		duplicated := &types.Collection{Name: "dogs", Fields: []*types.Field{
			{Name: "name", Type: types.FieldTypeString},
			{Name: "name", Type: types.FieldTypeInteger},
		}}
		assert.ErrorIs(t, duplicated.Validate(), types.ErrDuplicateField)

		unknownType := &types.Collection{Name: "dogs", Fields: []*types.Field{
			{Name: "name", Type: "text"},
		}}
		assert.Error(t, unknownType.Validate())
	})

	t.Run("columns test", func(t *testing.T) {
		var names []string
		for _, col := range cats.Columns() {
			names = append(names, col.Name)
		}
		assert.Equal(t, []string{
			"id", "documentId", "locale", "status", "createdAt", "updatedAt",
			"createdBy", "updatedBy", "publishedBy", "name", "slug", "age",
		}, names)

		assert.True(t, cats.Column("createdAt").IsTimestamp())
		assert.Nil(t, cats.Column("unknown"))
	})

	t.Run("unique keys test", func(t *testing.T) {
		assert.Equal(t, [][]string{
			{"documentId", "locale", "status"},
			{"slug", "locale", "status"},
		}, cats.UniqueKeys())

		plain := &types.Collection{Name: "tags"}
		assert.False(t, plain.HasLocale())
		assert.Equal(t, [][]string{{"documentId", "status"}}, plain.UniqueKeys())
	})

	t.Run("system collection test", func(t *testing.T) {
		versions := &types.Collection{
			Name:      "versions",
			System:    true,
			Localized: true,
			Fields: []*types.Field{
				{Name: "documentId", Type: types.FieldTypeString},
				{Name: "locale", Type: types.FieldTypeString},
			},
			Unique: [][]string{{"documentId", "locale"}},
		}
		assert.NoError(t, versions.Validate())
		assert.False(t, versions.HasLocale())
		assert.False(t, versions.HasStatus())
		assert.Len(t, versions.Columns(), 3)
		assert.Equal(t, [][]string{{"documentId", "locale"}}, versions.UniqueKeys())
	})

	t.Run("data of test", func(t *testing.T) {
		rec := types.Record{"id": "1", "documentId": "doc", "name": "Milo", "age": int64(3)}
		assert.Equal(t, types.Record{"name": "Milo", "age": int64(3)}, cats.DataOf(rec))
	})

	t.Run("locale fallback test", func(t *testing.T) {
		assert.Equal(t, "fr", cats.LocaleOr("fr", "en"))
		assert.Equal(t, "en", cats.LocaleOr("", "en"))
		assert.Equal(t, "ko", (&types.Collection{DefaultLocale: "ko"}).LocaleOr("", "en"))
		assert.Equal(t, types.DefaultLocale, cats.LocaleOr("", ""))
	})
}

func TestStatus(t *testing.T) {
	t.Run("parse test", func(t *testing.T) {
		status, err := types.ParseStatus("published")
		assert.NoError(t, err)
		assert.Equal(t, types.StatusPublished, status)

		_, err = types.ParseStatus("deleted")
		assert.True(t, errors.Is(err, types.ErrInvalidStatus))
	})

	t.Run("transition test", func(t *testing.T) {
		assert.True(t, types.StatusDraft.CanTransitionTo(types.StatusPublished))
		assert.True(t, types.StatusDraft.CanTransitionTo(types.StatusArchived))
		assert.True(t, types.StatusPublished.CanTransitionTo(types.StatusArchived))
		assert.False(t, types.StatusPublished.CanTransitionTo(types.StatusDraft))
		assert.False(t, types.StatusArchived.CanTransitionTo(types.StatusDraft))
		assert.False(t, types.StatusArchived.CanTransitionTo(types.StatusPublished))
	})
}

func TestRecord(t *testing.T) {
	rec := types.Record{
		"name": "Milo",
		"tags": []interface{}{"a", "b"},
		"meta": map[string]interface{}{"color": "black"},
	}

	clone := rec.DeepCopy()
	clone["tags"].([]interface{})[0] = "z"
	clone["meta"].(map[string]interface{})["color"] = "white"
	assert.Equal(t, "a", rec["tags"].([]interface{})[0])
	assert.Equal(t, "black", rec["meta"].(map[string]interface{})["color"])

	merged := rec.Merge(types.Record{"name": "Milo II"})
	assert.Equal(t, "Milo II", merged.String("name"))
	assert.Equal(t, "Milo", rec.String("name"))

	assert.NotContains(t, rec.Without("name"), "name")
	assert.Equal(t, int64(3), types.Record{"n": 3}.Int("n"))
}
