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

// Package settings provides the settings that control how documents are
// versioned.
package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/cache"
	"github.com/yorkie-team/folio/server/backend/database"
)

// DefaultMaxVersions is the number of snapshots kept per document and locale
// when no setting is given.
const DefaultMaxVersions = 10

// CollectionName is the name of the system collection the Store persists
// settings in.
const CollectionName = "settings"

// globalKey is the key of the row holding the settings of the backend.
const globalKey = "global"

// CacheTTL is how long the Store serves settings without reading them again.
// Settings saved by another process are seen after at most this long.
const CacheTTL = 5 * time.Second

// Settings are the settings of the version history.
type Settings struct {
	// MaxVersions is the number of snapshots kept per document and locale.
	MaxVersions int `yaml:"MaxVersions" json:"maxVersions"`

	// DraftsEnabled is whether documents are created as drafts.
	DraftsEnabled bool `yaml:"DraftsEnabled" json:"draftsEnabled"`

	// RequireApproval is whether publishing requires an approval.
	RequireApproval bool `yaml:"RequireApproval" json:"requireApproval"`

	// AutoPublish is whether drafts are published as soon as they are saved.
	AutoPublish bool `yaml:"AutoPublish" json:"autoPublish"`
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{
		MaxVersions:   DefaultMaxVersions,
		DraftsEnabled: true,
	}
}

// Provider provides the current settings.
type Provider interface {
	// Get returns the current settings.
	Get(ctx context.Context) (*Settings, error)
}

// Static is a Provider returning fixed settings.
type Static struct {
	settings *Settings
}

// NewStatic creates a Provider returning the given settings. Missing values
// fall back to the defaults.
func NewStatic(settings *Settings) *Static {
	if settings == nil {
		settings = Default()
	}
	copied := *settings
	if copied.MaxVersions <= 0 {
		copied.MaxVersions = DefaultMaxVersions
	}
	return &Static{settings: &copied}
}

// Get returns a copy of the settings.
func (s *Static) Get(_ context.Context) (*Settings, error) {
	copied := *s.settings
	return &copied, nil
}

// Collection is the schema of the settings system collection.
var Collection = &types.Collection{
	Name:   CollectionName,
	System: true,
	Fields: []*types.Field{
		{Name: "key", Type: types.FieldTypeString, Required: true, Unique: true},
		{Name: "maxVersions", Type: types.FieldTypeInteger},
		{Name: "draftsEnabled", Type: types.FieldTypeBoolean},
		{Name: "requireApproval", Type: types.FieldTypeBoolean},
		{Name: "autoPublish", Type: types.FieldTypeBoolean},
		{Name: "updatedAt", Type: types.FieldTypeDate},
	},
}

// Store is a Provider reading the settings persisted in the settings system
// collection. It falls back to the given defaults while nothing is stored.
type Store struct {
	model    database.Model
	defaults *Settings
	cache    *cache.LRU[string, *Settings]
}

// NewStore creates a Store over the given database.
func NewStore(ctx context.Context, db database.Database, defaults *Settings) (*Store, error) {
	model, err := database.EnsureModel(ctx, db, Collection)
	if err != nil {
		return nil, err
	}

	lru, err := cache.NewLRU[string, *Settings]("settings", 1, CacheTTL)
	if err != nil {
		return nil, err
	}

	return &Store{
		model:    model,
		defaults: NewStatic(defaults).settings,
		cache:    lru,
	}, nil
}

// Get returns the stored settings.
func (s *Store) Get(ctx context.Context) (*Settings, error) {
	if cached, ok := s.cache.Get(globalKey); ok {
		copied := *cached
		return &copied, nil
	}

	settings, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Add(globalKey, settings)
	copied := *settings
	return &copied, nil
}

func (s *Store) load(ctx context.Context) (*Settings, error) {
	rec, err := s.model.FindOne(ctx, types.Record{"key": globalKey})
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings := *s.defaults
	if rec == nil {
		return &settings, nil
	}

	if n := rec.Int("maxVersions"); n > 0 {
		settings.MaxVersions = int(n)
	}
	if v, ok := rec["draftsEnabled"].(bool); ok {
		settings.DraftsEnabled = v
	}
	if v, ok := rec["requireApproval"].(bool); ok {
		settings.RequireApproval = v
	}
	if v, ok := rec["autoPublish"].(bool); ok {
		settings.AutoPublish = v
	}
	return &settings, nil
}

// Save stores the given settings.
func (s *Store) Save(ctx context.Context, settings *Settings) error {
	if settings.MaxVersions <= 0 {
		return fmt.Errorf("max versions %d: %w", settings.MaxVersions, ErrInvalidMaxVersions)
	}

	patch := types.Record{
		"maxVersions":     int64(settings.MaxVersions),
		"draftsEnabled":   settings.DraftsEnabled,
		"requireApproval": settings.RequireApproval,
		"autoPublish":     settings.AutoPublish,
		"updatedAt":       time.Now(),
	}
	defer s.cache.Remove(globalKey)

	rec, err := s.model.FindOne(ctx, types.Record{"key": globalKey})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if rec == nil {
		patch["key"] = globalKey
		if _, err := s.model.Create(ctx, patch); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		return nil
	}

	if _, err := s.model.Update(ctx, types.Record{"key": globalKey}, patch); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// ErrInvalidMaxVersions is returned when saving a non-positive number of
// versions to keep.
var ErrInvalidMaxVersions = fmt.Errorf("max versions must be positive")
