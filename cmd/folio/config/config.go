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

// Package config provides the configuration shared by the commands of the
// Folio CLI.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/server"
	"github.com/yorkie-team/folio/server/backend"
	"github.com/yorkie-team/folio/server/logging"
)

var (
	// ConfPath is the path of the server config describing the database
	// and the collections.
	ConfPath string
	// LogLevel is the log level of the CLI.
	LogLevel string
	// Output is the output format: "" for a table, json or yaml.
	Output string
)

var (
	// ErrUnknownOutput is returned when the output format is not supported.
	ErrUnknownOutput = errors.New("unknown output format")

	// ErrInvalidData is returned when the given data is not an object.
	ErrInvalidData = errors.New("data must be an object")
)

// Preload validates the flags shared by the commands.
func Preload(_ *cobra.Command, _ []string) error {
	if LogLevel != "" {
		if err := logging.SetLogLevel(LogLevel); err != nil {
			return err
		}
	}

	switch Output {
	case "", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("%s: %w", Output, ErrUnknownOutput)
	}
}

// LoadConfig loads the server config from ConfPath.
func LoadConfig() (*server.Config, error) {
	if ConfPath == "" {
		return nil, errors.New("config is required: --config")
	}

	conf, err := server.NewConfigFromFile(ConfPath)
	if err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// OpenBackend opens the backend described by the server config. The caller
// must shut it down.
func OpenBackend() (*backend.Backend, error) {
	conf, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	return backend.New(
		conf.Backend,
		conf.SQLiteConfig(),
		conf.MongoConfig(),
		conf.Collections,
		nil,
	)
}

// ParseData parses the data of a document given as a YAML or JSON object.
func ParseData(data string) (types.Record, error) {
	if strings.TrimSpace(data) == "" {
		return types.Record{}, nil
	}

	var parsed interface{}
	if err := yaml.Unmarshal([]byte(data), &parsed); err != nil {
		return nil, fmt.Errorf("parse data: %w", err)
	}

	m, ok := parsed.(map[string]interface{})
	if !ok {
		return nil, ErrInvalidData
	}
	return m, nil
}
