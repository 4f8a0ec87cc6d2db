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

package mongo

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyConnectionURI is returned when no connection URI is given.
	ErrEmptyConnectionURI = errors.New("connection URI is required")

	// ErrEmptyDatabase is returned when no database name is given.
	ErrEmptyDatabase = errors.New("database name is required")
)

// Config is the configuration for creating a Client instance.
type Config struct {
	ConnectionTimeout string `yaml:"ConnectionTimeout"`
	ConnectionURI     string `yaml:"ConnectionURI"`
	Database          string `yaml:"Database"`
	PingTimeout       string `yaml:"PingTimeout"`

	// MonitoringEnabled enables logging of the commands sent to MongoDB.
	MonitoringEnabled bool `yaml:"MonitoringEnabled"`

	// MonitoringSlowQueryThreshold is the duration above which a command is
	// logged as slow.
	MonitoringSlowQueryThreshold string `yaml:"MonitoringSlowQueryThreshold"`
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if c.ConnectionURI == "" {
		return fmt.Errorf(`invalid argument for "--mongo-connection-uri" flag: %w`, ErrEmptyConnectionURI)
	}
	if c.Database == "" {
		return fmt.Errorf(`invalid argument for "--mongo-database" flag: %w`, ErrEmptyDatabase)
	}

	if _, err := c.ParseConnectionTimeout(); err != nil {
		return fmt.Errorf(`invalid argument "%s" for "--mongo-connection-timeout" flag: %w`, c.ConnectionTimeout, err)
	}
	if _, err := c.ParsePingTimeout(); err != nil {
		return fmt.Errorf(`invalid argument "%s" for "--mongo-ping-timeout" flag: %w`, c.PingTimeout, err)
	}
	if _, err := c.MonitorConfig(); err != nil {
		return fmt.Errorf(
			`invalid argument "%s" for "--mongo-slow-query-threshold" flag: %w`,
			c.MonitoringSlowQueryThreshold,
			err,
		)
	}

	return nil
}

// ParseConnectionTimeout returns the connection timeout.
func (c *Config) ParseConnectionTimeout() (time.Duration, error) {
	return time.ParseDuration(c.ConnectionTimeout)
}

// ParsePingTimeout returns the ping timeout.
func (c *Config) ParsePingTimeout() (time.Duration, error) {
	return time.ParseDuration(c.PingTimeout)
}

// MonitorConfig returns the configuration of the command monitor.
func (c *Config) MonitorConfig() (*MonitorConfig, error) {
	conf := &MonitorConfig{Enabled: c.MonitoringEnabled}
	if !c.MonitoringEnabled || c.MonitoringSlowQueryThreshold == "" {
		return conf, nil
	}

	threshold, err := time.ParseDuration(c.MonitoringSlowQueryThreshold)
	if err != nil {
		return nil, err
	}
	conf.SlowQueryThreshold = threshold
	return conf, nil
}
