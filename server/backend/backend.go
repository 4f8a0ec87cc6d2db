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

// Package backend provides the backend implementation of Folio.
// This package is responsible for managing the database, the collection
// schemas, the settings and the version history.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/server/backend/database"
	memdb "github.com/yorkie-team/folio/server/backend/database/memory"
	"github.com/yorkie-team/folio/server/backend/database/mongo"
	"github.com/yorkie-team/folio/server/backend/database/sqlite"
	"github.com/yorkie-team/folio/server/backend/history"
	"github.com/yorkie-team/folio/server/backend/registry"
	"github.com/yorkie-team/folio/server/backend/settings"
	"github.com/yorkie-team/folio/server/logging"
	"github.com/yorkie-team/folio/server/profiling/prometheus"
)

// Backend manages Folio's backend such as Database, Registry and History.
type Backend struct {
	Config *Config

	// DB is the database instance.
	DB database.Database
	// Registry holds the schemas of the content collections.
	Registry *registry.Registry
	// Settings provides the settings of the version history.
	Settings settings.Provider
	// History stores the snapshots of documents.
	History *history.Store

	// Metrics is used to expose metrics.
	Metrics *prometheus.Metrics
}

// New creates a new instance of Backend. The database is MongoDB when its
// configuration is given, SQLite when its configuration is given, and memory
// otherwise.
func New(
	conf *Config,
	sqliteConf *sqlite.Config,
	mongoConf *mongo.Config,
	collections []*types.Collection,
	metrics *prometheus.Metrics,
) (*Backend, error) {
	// 01. Create the database instance.
	var db database.Database
	var err error
	dbInfo := "memory"
	switch {
	case mongoConf != nil:
		db, err = mongo.Dial(mongoConf)
		dbInfo = mongoConf.ConnectionURI
	case sqliteConf != nil:
		db, err = sqlite.Dial(sqliteConf)
		dbInfo = "sqlite " + sqliteConf.Path
	default:
		db, err = memdb.New()
	}
	if err != nil {
		return nil, err
	}

	be, err := NewWithDB(context.Background(), conf, db, collections, metrics)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.DefaultLogger().Warnf("close database: %v", closeErr)
		}
		return nil, err
	}

	logging.DefaultLogger().Infof("backend created: db: %s", dbInfo)
	return be, nil
}

// NewWithDB creates a new instance of Backend over the given database.
func NewWithDB(
	ctx context.Context,
	conf *Config,
	db database.Database,
	collections []*types.Collection,
	metrics *prometheus.Metrics,
) (*Backend, error) {
	// 01. Build the registry and ensure the storage of its collections.
	reg, err := registry.New(collections...)
	if err != nil {
		return nil, err
	}
	for _, coll := range reg.List() {
		if _, err := database.EnsureModel(ctx, db, coll); err != nil {
			return nil, err
		}
	}

	// 02. Create the settings provider. Persisted settings fall back to the
	// config while nothing is stored.
	var provider settings.Provider = settings.NewStatic(conf.Settings())
	if conf.PersistSettings {
		store, err := settings.NewStore(ctx, db, conf.Settings())
		if err != nil {
			return nil, err
		}
		provider = store
	}

	// 03. Create the version history.
	store, err := history.New(ctx, db, provider, metrics)
	if err != nil {
		return nil, err
	}

	return &Backend{
		Config:   conf,
		DB:       db,
		Registry: reg,
		Settings: provider,
		History:  store,
		Metrics:  metrics,
	}, nil
}

// Model returns the model of the given collection.
func (b *Backend) Model(collection string) (database.Model, error) {
	coll, err := b.Registry.Get(collection)
	if err != nil {
		return nil, err
	}
	return database.NewModel(b.DB, coll), nil
}

// Locale resolves the locale of an operation on the given collection: the
// given locale, the default locale of the collection and then the default
// locale of the backend.
func (b *Backend) Locale(coll *types.Collection, locale string) string {
	return coll.LocaleOr(locale, b.Config.DefaultLocale)
}

// Shutdown closes all resources of this instance.
func (b *Backend) Shutdown() error {
	var errs []error

	if err := b.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logging.DefaultLogger().Infof("backend stopped")
	return nil
}
