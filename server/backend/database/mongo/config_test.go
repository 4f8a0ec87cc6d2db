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

package mongo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/folio/server/backend/database/mongo"
)

func TestConfig(t *testing.T) {
	valid := func() *mongo.Config {
		return &mongo.Config{
			ConnectionURI:     "mongodb://localhost:27017",
			Database:          "folio",
			ConnectionTimeout: "5s",
			PingTimeout:       "5s",
		}
	}

	t.Run("validate test", func(t *testing.T) {
		assert.NoError(t, valid().Validate())

		conf := valid()
		conf.ConnectionURI = ""
		assert.ErrorIs(t, conf.Validate(), mongo.ErrEmptyConnectionURI)

		conf = valid()
		conf.Database = ""
		assert.ErrorIs(t, conf.Validate(), mongo.ErrEmptyDatabase)

		conf = valid()
		conf.ConnectionTimeout = "5"
		assert.Error(t, conf.Validate())

		conf = valid()
		conf.PingTimeout = "5"
		assert.Error(t, conf.Validate())

		// The threshold is only parsed while monitoring is enabled.
		conf = valid()
		conf.MonitoringSlowQueryThreshold = "100"
		assert.NoError(t, conf.Validate())
		conf.MonitoringEnabled = true
		assert.Error(t, conf.Validate())
	})

	t.Run("monitor config test", func(t *testing.T) {
		conf := valid()
		monitor, err := conf.MonitorConfig()
		require.NoError(t, err)
		assert.False(t, monitor.Enabled)

		conf.MonitoringEnabled = true
		conf.MonitoringSlowQueryThreshold = "100ms"
		monitor, err = conf.MonitorConfig()
		require.NoError(t, err)
		assert.True(t, monitor.Enabled)
		assert.Equal(t, 100*time.Millisecond, monitor.SlowQueryThreshold)
	})
}
