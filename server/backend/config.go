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

package backend

import (
	"fmt"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/internal/validation"
	"github.com/yorkie-team/folio/server/backend/settings"
)

// Config is the configuration for creating a Backend instance.
type Config struct {
	// DefaultLocale is the locale used when neither the caller nor the
	// collection specifies one. Default is "en".
	DefaultLocale string `yaml:"DefaultLocale" validate:"required,locale"`

	// MaxVersions is the number of snapshots kept per document and locale.
	// Default is 10.
	MaxVersions int `yaml:"MaxVersions" validate:"gte=1"`

	// DraftsEnabled is whether documents are created as drafts.
	DraftsEnabled bool `yaml:"DraftsEnabled"`

	// RequireApproval is whether publishing requires an approval.
	RequireApproval bool `yaml:"RequireApproval"`

	// AutoPublish is whether drafts are published as soon as they are saved.
	AutoPublish bool `yaml:"AutoPublish"`

	// PersistSettings is whether the settings are read from the settings
	// collection of the database, falling back to this config.
	PersistSettings bool `yaml:"PersistSettings"`
}

// NewConfig returns a Config with the default values.
func NewConfig() *Config {
	return &Config{
		DefaultLocale: types.DefaultLocale,
		MaxVersions:   settings.DefaultMaxVersions,
		DraftsEnabled: true,
	}
}

// Validate validates this config.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("backend: %w", err)
	}

	return nil
}

// Settings returns the settings given by this config.
func (c *Config) Settings() *settings.Settings {
	return &settings.Settings{
		MaxVersions:     c.MaxVersions,
		DraftsEnabled:   c.DraftsEnabled,
		RequireApproval: c.RequireApproval,
		AutoPublish:     c.AutoPublish,
	}
}
