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

package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/query"
	"github.com/yorkie-team/folio/server/backend/database/memory"
	"github.com/yorkie-team/folio/server/backend/database/testcases"
)

func TestDB(t *testing.T) {
	db, err := memory.New()
	assert.NoError(t, err)

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

	t.Run("collection not ensured test", func(t *testing.T) {
		coll := &types.Collection{Name: "unknown"}
		_, err := db.Insert(context.Background(), coll, map[string]interface{}{"document_id": "x"})
		assert.ErrorIs(t, err, memory.ErrCollectionNotEnsured)

		_, err = db.Select(context.Background(), coll, &query.Spec{})
		assert.ErrorIs(t, err, memory.ErrCollectionNotEnsured)
	})
}
