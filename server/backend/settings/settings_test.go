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

package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/folio/server/backend/database/memory"
	"github.com/yorkie-team/folio/server/backend/settings"
)

func TestStatic(t *testing.T) {
	t.Run("defaults test", func(t *testing.T) {
		s, err := settings.NewStatic(nil).Get(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, settings.DefaultMaxVersions, s.MaxVersions)
		assert.True(t, s.DraftsEnabled)
	})

	t.Run("fallback of max versions test", func(t *testing.T) {
		s, err := settings.NewStatic(&settings.Settings{AutoPublish: true}).Get(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, settings.DefaultMaxVersions, s.MaxVersions)
		assert.True(t, s.AutoPublish)
	})

	t.Run("returned settings are copies test", func(t *testing.T) {
		provider := settings.NewStatic(&settings.Settings{MaxVersions: 3})
		s, err := provider.Get(context.Background())
		require.NoError(t, err)
		s.MaxVersions = 100

		s, err = provider.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, s.MaxVersions)
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	db, err := memory.New()
	require.NoError(t, err)

	store, err := settings.NewStore(ctx, db, &settings.Settings{MaxVersions: 5})
	require.NoError(t, err)

	t.Run("fallback to defaults test", func(t *testing.T) {
		s, err := store.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 5, s.MaxVersions)
	})

	t.Run("save and get test", func(t *testing.T) {
		assert.NoError(t, store.Save(ctx, &settings.Settings{MaxVersions: 2, RequireApproval: true}))
		s, err := store.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 2, s.MaxVersions)
		assert.True(t, s.RequireApproval)

		assert.NoError(t, store.Save(ctx, &settings.Settings{MaxVersions: 7}))
		s, err = store.Get(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 7, s.MaxVersions)
		assert.False(t, s.RequireApproval)
	})

	t.Run("cached settings are copies test", func(t *testing.T) {
		s, err := store.Get(ctx)
		require.NoError(t, err)
		s.MaxVersions = 100

		s, err = store.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7, s.MaxVersions)
	})

	t.Run("invalid max versions test", func(t *testing.T) {
		assert.ErrorIs(t, store.Save(ctx, &settings.Settings{}), settings.ErrInvalidMaxVersions)
	})
}
