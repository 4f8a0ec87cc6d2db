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

package mongo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yorkie-team/folio/pkg/query"
)

func TestEncoder(t *testing.T) {
	t.Run("compile field test", func(t *testing.T) {
		assert.Equal(t, bson.M{"name": "Milo"}, compileFilter(&query.Field{
			Name: "name", Op: query.OpEq, Value: "Milo",
		}))
		assert.Equal(t, bson.M{"age": bson.M{"$gte": int64(3)}}, compileFilter(&query.Field{
			Name: "age", Op: query.OpGte, Value: int64(3),
		}))
		assert.Equal(t, bson.M{"name": nil}, compileFilter(&query.Field{
			Name: "name", Op: query.OpNull, Value: true,
		}))
		assert.Equal(t, bson.M{"name": bson.M{"$ne": nil}}, compileFilter(&query.Field{
			Name: "name", Op: query.OpExists, Value: true,
		}))
		assert.Equal(t,
			bson.M{"name": bson.M{"$regex": primitive.Regex{Pattern: `a\.b`, Options: "i"}}},
			compileFilter(&query.Field{Name: "name", Op: query.OpILike, Value: "a.b"}),
		)
		assert.Equal(t,
			bson.M{"name": bson.M{"$regex": primitive.Regex{Pattern: "mi"}}},
			compileFilter(&query.Field{Name: "name", Op: query.OpLike, Value: "mi"}),
		)
	})

	t.Run("compile id test", func(t *testing.T) {
		id := primitive.NewObjectID()
		assert.Equal(t, bson.M{idKey: id}, compileFilter(&query.Field{
			Name: "id", Op: query.OpEq, Value: id.Hex(),
		}))
		assert.Equal(t, bson.M{idKey: primitive.NilObjectID}, compileFilter(&query.Field{
			Name: "id", Op: query.OpEq, Value: "not-an-object-id",
		}))
		assert.Equal(t, bson.M{idKey: bson.M{"$in": bson.A{id}}}, compileFilter(&query.Field{
			Name: "id", Op: query.OpIn, Value: []interface{}{id.Hex()},
		}))
	})

	t.Run("compile logical test", func(t *testing.T) {
		assert.Equal(t, bson.M{}, compileFilter(nil))
		assert.Equal(t, bson.M{}, compileFilter(query.And{}))
		assert.Equal(t, bson.M{idKey: bson.M{"$exists": false}}, compileFilter(query.Or{}))
		assert.Equal(t, bson.M{"$or": bson.A{
			bson.M{"a": int64(1)},
			bson.M{"b": int64(2)},
		}}, compileFilter(query.Or{
			&query.Field{Name: "a", Op: query.OpEq, Value: int64(1)},
			&query.Field{Name: "b", Op: query.OpEq, Value: int64(2)},
		}))
	})

	t.Run("compile sort test", func(t *testing.T) {
		assert.Equal(t, bson.D{{Key: idKey, Value: 1}}, compileSort(nil))
		assert.Equal(t, bson.D{
			{Key: "created_at", Value: -1},
			{Key: idKey, Value: 1},
		}, compileSort([]query.SortField{query.Desc("created_at")}))
		assert.Equal(t, bson.D{{Key: idKey, Value: -1}}, compileSort([]query.SortField{query.Desc("id")}))
	})

	t.Run("encode and decode row test", func(t *testing.T) {
		now := time.Date(2025, 1, 2, 3, 4, 5, 6000000, time.UTC)
		doc := encodeRow(map[string]interface{}{"id": "x", "name": "Milo", "slug": nil})
		assert.Equal(t, bson.M{"name": "Milo"}, doc)

		id := primitive.NewObjectID()
		row := decodeRow(bson.M{
			idKey:   id,
			"at":    primitive.NewDateTimeFromTime(now),
			"age":   int32(3),
			"meta":  primitive.D{{Key: "color", Value: "black"}},
			"tags":  primitive.A{"cute", int32(1)},
			"ratio": 1.5,
		})
		assert.Equal(t, id.Hex(), row["id"])
		assert.Equal(t, now, row["at"])
		assert.Equal(t, int64(3), row["age"])
		assert.Equal(t, map[string]interface{}{"color": "black"}, row["meta"])
		assert.Equal(t, []interface{}{"cute", int64(1)}, row["tags"])
		assert.Equal(t, 1.5, row["ratio"])
	})
}

func TestIndexes(t *testing.T) {
	t.Run("index name test", func(t *testing.T) {
		cols := []string{"document_id", "locale", "status"}
		name := indexName(cols)
		assert.Equal(t, "uniq__document_id__locale__status", name)
		assert.Equal(t, cols, indexColumns(name))
		assert.Nil(t, indexColumns("document_id_1"))
	})

	t.Run("duplicated columns test", func(t *testing.T) {
		err := errors.New(`E11000 duplicate key error collection: folio.cats index: ` +
			`uniq__slug__locale__status dup key: { slug: "milo" }`)
		assert.Equal(t, []string{"slug", "locale", "status"}, duplicatedColumns(err))
		assert.Nil(t, duplicatedColumns(errors.New("connection refused")))
	})
}
