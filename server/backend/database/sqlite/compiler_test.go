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

package sqlite

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/folio/pkg/query"
)

func TestCompiler(t *testing.T) {
	t.Run("compile test", func(t *testing.T) {
		cond := query.And{
			&query.Field{Name: "age", Op: query.OpGte, Value: int64(5)},
			&query.Field{Name: "age", Op: query.OpLt, Value: int64(10)},
			query.Or{
				&query.Field{Name: "status", Op: query.OpEq, Value: "draft"},
				&query.Field{Name: "name", Op: query.OpILike, Value: "mi"},
			},
			&query.Field{Name: "indoor", Op: query.OpExists, Value: false},
			&query.Field{Name: "tags", Op: query.OpNin, Value: []interface{}{"a"}},
		}

		c := &compiler{}
		where, err := c.compile(cond)
		assert.NoError(t, err)
		assert.Equal(t,
			`("age" >= ?) AND ("age" < ?) AND (("status" = ?) OR (instr(lower("name"), lower(?)) > 0)) `+
				`AND ("indoor" IS NULL) AND (("tags" IS NULL OR "tags" NOT IN (?)))`,
			where,
		)
		assert.Equal(t, []interface{}{int64(5), int64(10), "draft", "mi", "a"}, c.args)
	})

	t.Run("empty combinators test", func(t *testing.T) {
		c := &compiler{}
		where, err := c.compile(query.Or{})
		assert.NoError(t, err)
		assert.Equal(t, "0", where)

		where, err = c.compile(&query.Field{Name: "age", Op: query.OpIn, Value: []interface{}{}})
		assert.NoError(t, err)
		assert.Equal(t, "0", where)

		where, err = c.compile(nil)
		assert.NoError(t, err)
		assert.Equal(t, "1", where)
	})

	t.Run("unique columns test", func(t *testing.T) {
		assert.Equal(t,
			[]string{"document_id", "locale", "status"},
			uniqueColumns("constraint failed: UNIQUE constraint failed: cats.document_id, cats.locale, cats.status (2067)"),
		)
		assert.Nil(t, uniqueColumns("disk I/O error"))
	})

	t.Run("quote test", func(t *testing.T) {
		assert.Equal(t, `"blog-posts"`, quote("blog-posts"))
		assert.Equal(t, `"a""b"`, quote(`a"b`))
	})

	t.Run("structured codec test", func(t *testing.T) {
		at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		value := map[string]interface{}{
			"chip": int64(9007199254740993),
			"at":   at,
			"list": []interface{}{1.5, "a", map[string]interface{}{"n": int64(1)}},
		}

		text, err := encodeStructured(value)
		require.NoError(t, err)
		again, err := encodeStructured(value)
		require.NoError(t, err)
		assert.Equal(t, text, again)

		decoded, err := decodeStructured(text)
		require.NoError(t, err)
		assert.Equal(t, value, decoded)
	})

	t.Run("plain json is still decoded test", func(t *testing.T) {
		decoded, err := decodeStructured(`["a",9007199254740993]`)
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"a", json.Number("9007199254740993")}, decoded)

		_, err = decodeStructured(`{"broken"`)
		assert.Error(t, err)
	})
}
