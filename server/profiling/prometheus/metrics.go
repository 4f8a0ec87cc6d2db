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

// Package prometheus provides a Prometheus metrics exporter.
package prometheus

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/yorkie-team/folio/internal/version"
)

const (
	namespace       = "folio"
	collectionLabel = "collection"
	operationLabel  = "operation"
	resultLabel     = "result"

	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics manages the metric information that Folio is trying to measure.
// Every method is a no-op on a nil Metrics.
type Metrics struct {
	registry *prometheus.Registry

	serverVersion *prometheus.GaugeVec

	documentOperationsTotal  *prometheus.CounterVec
	documentOperationSeconds *prometheus.HistogramVec

	versionsCreatedTotal  *prometheus.CounterVec
	versionsEvictedTotal  *prometheus.CounterVec
	versionRetriesTotal   *prometheus.CounterVec
	snapshotFailuresTotal *prometheus.CounterVec
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	metrics := &Metrics{
		registry: reg,
		serverVersion: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "version",
			Help:      "Which version is running. 1 for 'server_version' label with current version.",
		}, []string{"server_version"}),
		documentOperationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "operations_total",
			Help:      "The total count of document lifecycle operations.",
		}, []string{
			collectionLabel,
			operationLabel,
			resultLabel,
		}),
		documentOperationSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "operation_seconds",
			Help:      "The response time of document lifecycle operations.",
		}, []string{operationLabel}),
		versionsCreatedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "versions_created_total",
			Help:      "The total count of version snapshots created.",
		}, []string{collectionLabel}),
		versionsEvictedTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "versions_evicted_total",
			Help:      "The total count of version snapshots deleted by retention.",
		}, []string{collectionLabel}),
		versionRetriesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "version_number_retries_total",
			Help:      "The total count of version number collisions retried.",
		}, []string{collectionLabel}),
		snapshotFailuresTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "snapshot_failures_total",
			Help:      "The total count of snapshots that failed after their record was written.",
		}, []string{collectionLabel}),
	}

	metrics.serverVersion.With(prometheus.Labels{
		"server_version": version.Version,
	}).Set(1)

	return metrics, nil
}

// ObserveDocumentOperation records the result and the duration of a document
// lifecycle operation.
func (m *Metrics) ObserveDocumentOperation(collection, operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}

	result := resultSuccess
	if err != nil {
		result = resultFailure
	}
	m.documentOperationsTotal.With(prometheus.Labels{
		collectionLabel: collection,
		operationLabel:  operation,
		resultLabel:     result,
	}).Inc()
	m.documentOperationSeconds.With(prometheus.Labels{
		operationLabel: operation,
	}).Observe(duration.Seconds())
}

// AddVersionsCreated adds the number of snapshots created.
func (m *Metrics) AddVersionsCreated(collection string) {
	if m == nil {
		return
	}
	m.versionsCreatedTotal.With(prometheus.Labels{
		collectionLabel: collection,
	}).Inc()
}

// AddVersionsEvicted adds the number of snapshots deleted by retention.
func (m *Metrics) AddVersionsEvicted(collection string, count int) {
	if m == nil {
		return
	}
	m.versionsEvictedTotal.With(prometheus.Labels{
		collectionLabel: collection,
	}).Add(float64(count))
}

// AddVersionRetries adds a version number collision that was retried.
func (m *Metrics) AddVersionRetries(collection string) {
	if m == nil {
		return
	}
	m.versionRetriesTotal.With(prometheus.Labels{
		collectionLabel: collection,
	}).Inc()
}

// AddSnapshotFailures adds a snapshot that failed after its record was
// written.
func (m *Metrics) AddSnapshotFailures(collection string) {
	if m == nil {
		return
	}
	m.snapshotFailuresTotal.With(prometheus.Labels{
		collectionLabel: collection,
	}).Inc()
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
