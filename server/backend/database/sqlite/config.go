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

package sqlite

import (
	"fmt"
	"time"
)

// MemoryPath is the path of an in-memory database.
const MemoryPath = ":memory:"

// Config is the configuration for creating a DB instance.
type Config struct {
	// Path is the path of the database file, or ":memory:".
	Path string `yaml:"Path"`

	// BusyTimeout is how long a connection waits for a lock held by another
	// connection.
	BusyTimeout string `yaml:"BusyTimeout"`
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf(`invalid argument "" for "--sqlite-path" flag: path is required`)
	}

	if _, err := time.ParseDuration(c.BusyTimeout); err != nil {
		return fmt.Errorf(
			`invalid argument "%s" for "--sqlite-busy-timeout" flag: %w`,
			c.BusyTimeout,
			err,
		)
	}

	return nil
}

// IsMemory returns whether the database lives in memory.
func (c *Config) IsMemory() bool {
	return c.Path == MemoryPath
}

// DSN returns the data source name of the database.
func (c *Config) DSN() string {
	timeout, err := time.ParseDuration(c.BusyTimeout)
	if err != nil {
		timeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", c.Path, timeout.Milliseconds())
	if !c.IsMemory() {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	return dsn
}
