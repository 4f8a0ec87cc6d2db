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

// Package helper provides helper functions for testing.
package helper

import (
	"context"
	"fmt"
	"testing"
	gotime "time"

	"github.com/stretchr/testify/require"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/server"
	"github.com/yorkie-team/folio/server/backend"
	"github.com/yorkie-team/folio/server/backend/database"
	"github.com/yorkie-team/folio/server/backend/database/memory"
	"github.com/yorkie-team/folio/server/backend/database/mongo"
	"github.com/yorkie-team/folio/server/backend/database/sqlite"
	"github.com/yorkie-team/folio/server/profiling"
)

var testStartedAt int64

// Below are the values of the Folio config used in the test.
var (
	ProfilingPort = 11102

	MaxVersions = 10

	MongoConnectionURI     = "mongodb://localhost:27017"
	MongoConnectionTimeout = "5s"
	MongoPingTimeout       = "5s"

	SQLiteBusyTimeout = "5s"
)

func init() {
	testStartedAt = gotime.Now().Unix()
}

// TestDBName returns the name of test database with timestamp.
// timestamp is set only once on first call.
func TestDBName() string {
	return fmt.Sprintf("test-%s-%d", server.DefaultMongoDatabase, testStartedAt)
}

// CatsCollection returns a localized and versioned collection of cats.
func CatsCollection() *types.Collection {
	return &types.Collection{
		Name:      "cats",
		Localized: true,
		Versioned: true,
		Fields: []*types.Field{
			{Name: "name", Type: types.FieldTypeString, Required: true},
			{Name: "slug", Type: types.FieldTypeString, Unique: true},
			{Name: "age", Type: types.FieldTypeInteger},
			{Name: "adoptedAt", Type: types.FieldTypeDate},
			{Name: "tags", Type: types.FieldTypeArray},
		},
	}
}

// PagesCollection returns a collection that is neither localized nor
// versioned.
func PagesCollection() *types.Collection {
	return &types.Collection{
		Name:          "pages",
		DefaultLocale: "ko",
		Fields: []*types.Field{
			{Name: "title", Type: types.FieldTypeString, Required: true},
			{Name: "body", Type: types.FieldTypeString},
		},
	}
}

// TestCollections returns the collections used in the test.
func TestCollections() []*types.Collection {
	return []*types.Collection{CatsCollection(), PagesCollection()}
}

// TestBackendConfig returns the backend config used in the test.
func TestBackendConfig() *backend.Config {
	conf := backend.NewConfig()
	conf.MaxVersions = MaxVersions
	return conf
}

// TestBackend returns a backend over a memory database holding the test
// collections.
func TestBackend(t testing.TB) *backend.Backend {
	db, err := memory.New()
	require.NoError(t, err)

	return TestBackendWithDB(t, db)
}

// TestBackendWithDB returns a backend over the given database holding the
// test collections.
func TestBackendWithDB(t testing.TB, db database.Database) *backend.Backend {
	be, err := backend.NewWithDB(
		context.Background(),
		TestBackendConfig(),
		db,
		TestCollections(),
		nil,
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, be.Shutdown())
	})
	return be
}

var portOffset = 0

// TestConfig returns config for creating Folio instance.
func TestConfig() *server.Config {
	portOffset += 100
	return &server.Config{
		Profiling: &profiling.Config{
			Port: ProfilingPort + portOffset,
		},
		Backend: TestBackendConfig(),
		Database: &server.DatabaseConfig{
			Type: server.DatabaseTypeMemory,
		},
		SQLite: &sqlite.Config{
			Path:        sqlite.MemoryPath,
			BusyTimeout: SQLiteBusyTimeout,
		},
		Mongo: &mongo.Config{
			ConnectionURI:     MongoConnectionURI,
			ConnectionTimeout: MongoConnectionTimeout,
			PingTimeout:       MongoPingTimeout,
			Database:          TestDBName(),
		},
		Collections: TestCollections(),
	}
}
