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

package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yorkie-team/folio/server/backend"
)

func TestConfig(t *testing.T) {
	t.Run("validate test", func(t *testing.T) {
		validConf := *backend.NewConfig()
		assert.NoError(t, validConf.Validate())

		conf1 := validConf
		conf1.DefaultLocale = "English"
		assert.Error(t, conf1.Validate())

		conf2 := validConf
		conf2.MaxVersions = 0
		assert.Error(t, conf2.Validate())

		conf3 := validConf
		conf3.DefaultLocale = "pt-BR"
		assert.NoError(t, conf3.Validate())
	})

	t.Run("settings test", func(t *testing.T) {
		conf := backend.NewConfig()
		conf.MaxVersions = 3
		conf.AutoPublish = true

		s := conf.Settings()
		assert.Equal(t, 3, s.MaxVersions)
		assert.True(t, s.AutoPublish)
		assert.True(t, s.DraftsEnabled)
	})
}
