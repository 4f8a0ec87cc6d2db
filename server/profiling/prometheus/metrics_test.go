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

package prometheus_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/folio/server/profiling/prometheus"
)

func TestMetrics(t *testing.T) {
	t.Run("record test", func(t *testing.T) {
		metrics, err := prometheus.NewMetrics()
		require.NoError(t, err)

		metrics.ObserveDocumentOperation("articles", "create", nil, time.Millisecond)
		metrics.ObserveDocumentOperation("articles", "create", errors.New("fail"), time.Millisecond)
		metrics.AddVersionsCreated("articles")
		metrics.AddVersionsEvicted("articles", 3)

		count, err := testutil.GatherAndCount(
			metrics.Registry(),
			"folio_documents_operations_total",
			"folio_history_versions_created_total",
			"folio_history_versions_evicted_total",
		)
		assert.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("nil metrics test", func(t *testing.T) {
		var metrics *prometheus.Metrics
		assert.NotPanics(t, func() {
			metrics.ObserveDocumentOperation("articles", "create", nil, time.Millisecond)
			metrics.AddVersionsCreated("articles")
			metrics.AddVersionsEvicted("articles", 1)
			metrics.AddVersionRetries("articles")
			metrics.AddSnapshotFailures("articles")
		})
	})
}
