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

package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/internal/validation"
	"github.com/yorkie-team/folio/server/backend"
	"github.com/yorkie-team/folio/server/backend/database/mongo"
	"github.com/yorkie-team/folio/server/backend/database/sqlite"
	"github.com/yorkie-team/folio/server/backend/settings"
	"github.com/yorkie-team/folio/server/profiling"
)

// Below are the values of the default values of Folio config.
const (
	DefaultProfilingPort = 8081

	DefaultDatabaseType = DatabaseTypeMemory

	DefaultSQLitePath        = "folio.db"
	DefaultSQLiteBusyTimeout = 5 * time.Second

	DefaultMongoConnectionURI                = "mongodb://localhost:27017"
	DefaultMongoConnectionTimeout            = 5 * time.Second
	DefaultMongoPingTimeout                  = 5 * time.Second
	DefaultMongoDatabase                     = "folio"
	DefaultMongoMonitoringSlowQueryThreshold = 100 * time.Millisecond

	DefaultLocale      = types.DefaultLocale
	DefaultMaxVersions = settings.DefaultMaxVersions
)

// Types of the databases a backend can use.
const (
	DatabaseTypeMemory = "memory"
	DatabaseTypeSQLite = "sqlite"
	DatabaseTypeMongo  = "mongo"
)

var (
	// ErrNoCollections is returned when the config declares no collection.
	ErrNoCollections = errors.New("no collections declared")

	// ErrMissingSection is returned when the backend or database section
	// of the config is missing.
	ErrMissingSection = errors.New("missing backend or database section")
)

// DatabaseConfig selects the database of the backend.
type DatabaseConfig struct {
	// Type is the type of the database: memory, sqlite or mongo.
	Type string `yaml:"Type" validate:"required,oneof=memory sqlite mongo"`
}

// Config is the configuration for creating a Folio instance.
type Config struct {
	Profiling   *profiling.Config   `yaml:"Profiling"`
	Backend     *backend.Config     `yaml:"Backend"`
	Database    *DatabaseConfig     `yaml:"Database"`
	SQLite      *sqlite.Config      `yaml:"SQLite"`
	Mongo       *mongo.Config       `yaml:"Mongo"`
	Collections []*types.Collection `yaml:"Collections"`
}

// NewConfig returns a Config struct that contains reasonable defaults
// for most of the configurations.
func NewConfig() *Config {
	return newConfig(DefaultProfilingPort)
}

// NewConfigFromFile returns a Config struct for the given conf file.
func NewConfigFromFile(path string) (*Config, error) {
	conf := &Config{}
	bytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(bytes, conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	conf.ensureDefaultValue()
	return conf, nil
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if c.Profiling != nil {
		if err := c.Profiling.Validate(); err != nil {
			return err
		}
	}

	if c.Backend == nil || c.Database == nil {
		return ErrMissingSection
	}

	if err := c.Backend.Validate(); err != nil {
		return err
	}

	if err := validation.ValidateStruct(c.Database); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	switch c.Database.Type {
	case DatabaseTypeSQLite:
		if err := c.SQLite.Validate(); err != nil {
			return err
		}
	case DatabaseTypeMongo:
		if err := c.Mongo.Validate(); err != nil {
			return err
		}
	}

	if len(c.Collections) == 0 {
		return ErrNoCollections
	}
	for _, coll := range c.Collections {
		if err := coll.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// SQLiteConfig returns the SQLite config when the database is SQLite.
func (c *Config) SQLiteConfig() *sqlite.Config {
	if c.Database.Type != DatabaseTypeSQLite {
		return nil
	}
	return c.SQLite
}

// MongoConfig returns the MongoDB config when the database is MongoDB.
func (c *Config) MongoConfig() *mongo.Config {
	if c.Database.Type != DatabaseTypeMongo {
		return nil
	}
	return c.Mongo
}

// ensureDefaultValue sets the value of the option to which the default value
// should be applied when the user does not input it.
func (c *Config) ensureDefaultValue() {
	if c.Profiling != nil && c.Profiling.Port == 0 {
		c.Profiling.Port = DefaultProfilingPort
	}

	if c.Backend == nil {
		c.Backend = backend.NewConfig()
	}
	if c.Backend.DefaultLocale == "" {
		c.Backend.DefaultLocale = DefaultLocale
	}
	if c.Backend.MaxVersions == 0 {
		c.Backend.MaxVersions = DefaultMaxVersions
	}

	if c.Database == nil {
		c.Database = &DatabaseConfig{}
	}
	if c.Database.Type == "" {
		c.Database.Type = DefaultDatabaseType
	}

	if c.Database.Type == DatabaseTypeSQLite && c.SQLite == nil {
		c.SQLite = &sqlite.Config{}
	}
	if c.SQLite != nil {
		if c.SQLite.Path == "" {
			c.SQLite.Path = DefaultSQLitePath
		}
		if c.SQLite.BusyTimeout == "" {
			c.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout.String()
		}
	}

	if c.Database.Type == DatabaseTypeMongo && c.Mongo == nil {
		c.Mongo = &mongo.Config{}
	}
	if c.Mongo != nil {
		if c.Mongo.ConnectionURI == "" {
			c.Mongo.ConnectionURI = DefaultMongoConnectionURI
		}

		if c.Mongo.ConnectionTimeout == "" {
			c.Mongo.ConnectionTimeout = DefaultMongoConnectionTimeout.String()
		}

		if c.Mongo.Database == "" {
			c.Mongo.Database = DefaultMongoDatabase
		}

		if c.Mongo.PingTimeout == "" {
			c.Mongo.PingTimeout = DefaultMongoPingTimeout.String()
		}

		if c.Mongo.MonitoringEnabled {
			if c.Mongo.MonitoringSlowQueryThreshold == "" {
				c.Mongo.MonitoringSlowQueryThreshold = DefaultMongoMonitoringSlowQueryThreshold.String()
			}
		}
	}
}

func newConfig(profilingPort int) *Config {
	return &Config{
		Profiling: &profiling.Config{
			Port: profilingPort,
		},
		Backend: backend.NewConfig(),
		Database: &DatabaseConfig{
			Type: DefaultDatabaseType,
		},
	}
}
