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

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yorkie-team/folio/cmd/folio/config"
	"github.com/yorkie-team/folio/server"
	"github.com/yorkie-team/folio/server/backend/database/mongo"
	"github.com/yorkie-team/folio/server/backend/database/sqlite"
	"github.com/yorkie-team/folio/server/logging"
)

var (
	gracefulTimeout = 10 * time.Second
)

var (
	flagLogLevel string

	sqlitePath        string
	sqliteBusyTimeout time.Duration

	mongoConnectionURI     string
	mongoConnectionTimeout time.Duration
	mongoDatabase          string
	mongoPingTimeout       time.Duration

	conf = server.NewConfig()
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server [options]",
		Short: "Start Folio server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sqlitePath != "" {
				conf.Database.Type = server.DatabaseTypeSQLite
				conf.SQLite = &sqlite.Config{
					Path:        sqlitePath,
					BusyTimeout: sqliteBusyTimeout.String(),
				}
			}

			if mongoConnectionURI != "" {
				conf.Database.Type = server.DatabaseTypeMongo
				conf.Mongo = &mongo.Config{
					ConnectionURI:     mongoConnectionURI,
					ConnectionTimeout: mongoConnectionTimeout.String(),
					Database:          mongoDatabase,
					PingTimeout:       mongoPingTimeout.String(),
				}
			}

			// If config file is given, command-line arguments will be overwritten.
			if config.ConfPath != "" {
				parsed, err := server.NewConfigFromFile(config.ConfPath)
				if err != nil {
					return err
				}
				conf = parsed
			}

			if err := logging.SetLogLevel(flagLogLevel); err != nil {
				return err
			}

			f, err := server.New(conf)
			if err != nil {
				return err
			}

			if err := f.Start(); err != nil {
				return err
			}

			if code := handleSignal(f); code != 0 {
				return fmt.Errorf("exit code: %d", code)
			}

			return nil
		},
	}
}

func handleSignal(r *server.Folio) int {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	var sig os.Signal
	select {
	case s := <-sigCh:
		sig = s
	case <-r.ShutdownCh():
		// folio is already shutdown
		return 0
	}

	graceful := false
	if sig == syscall.SIGINT || sig == syscall.SIGTERM {
		graceful = true
	}

	gracefulCh := make(chan struct{})
	go func() {
		if err := r.Shutdown(graceful); err != nil {
			return
		}
		close(gracefulCh)
	}()

	select {
	case <-sigCh:
		return 1
	case <-time.After(gracefulTimeout):
		return 1
	case <-gracefulCh:
		return 0
	}
}

func init() {
	cmd := newServerCmd()
	cmd.Flags().StringVar(
		&flagLogLevel,
		"server-log-level",
		"info",
		"Log level of the server: debug, info, warn, error, panic, fatal",
	)
	cmd.Flags().IntVar(
		&conf.Profiling.Port,
		"profiling-port",
		server.DefaultProfilingPort,
		"Profiling port",
	)
	cmd.Flags().BoolVar(
		&conf.Profiling.EnablePprof,
		"enable-pprof",
		false,
		"Enable runtime profiling data via HTTP server.",
	)
	cmd.Flags().StringVar(
		&conf.Backend.DefaultLocale,
		"backend-default-locale",
		server.DefaultLocale,
		"The locale used when neither the request nor the collection specifies one.",
	)
	cmd.Flags().IntVar(
		&conf.Backend.MaxVersions,
		"backend-max-versions",
		server.DefaultMaxVersions,
		"The number of versions kept per document and locale.",
	)
	cmd.Flags().BoolVar(
		&conf.Backend.PersistSettings,
		"backend-persist-settings",
		false,
		"Whether to read the settings from the settings collection of the database.",
	)
	cmd.Flags().StringVar(
		&sqlitePath,
		"sqlite-path",
		"",
		"SQLite's database file path",
	)
	cmd.Flags().DurationVar(
		&sqliteBusyTimeout,
		"sqlite-busy-timeout",
		server.DefaultSQLiteBusyTimeout,
		"SQLite's busy timeout",
	)
	cmd.Flags().StringVar(
		&mongoConnectionURI,
		"mongo-connection-uri",
		"",
		"MongoDB's connection URI",
	)
	cmd.Flags().DurationVar(
		&mongoConnectionTimeout,
		"mongo-connection-timeout",
		server.DefaultMongoConnectionTimeout,
		"Mongo DB's connection timeout",
	)
	cmd.Flags().StringVar(
		&mongoDatabase,
		"mongo-database",
		server.DefaultMongoDatabase,
		"Folio's database name in MongoDB",
	)
	cmd.Flags().DurationVar(
		&mongoPingTimeout,
		"mongo-ping-timeout",
		server.DefaultMongoPingTimeout,
		"Mongo DB's ping timeout",
	)

	rootCmd.AddCommand(cmd)
}
