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

// Package main is the entry point of the Folio CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/yorkie-team/folio/cmd/folio/config"
	"github.com/yorkie-team/folio/cmd/folio/document"
	"github.com/yorkie-team/folio/cmd/folio/history"
	"github.com/yorkie-team/folio/pkg/errors"
)

// Exit codes of the CLI.
const (
	exitCodeError       = 1
	exitCodeClientError = 2
	exitCodeServerError = 3
)

var rootCmd = &cobra.Command{
	Use:          "folio",
	Short:        "Content store with locales, drafts and version history",
	SilenceUsage: true,
}

// Run executes CLI.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		return exitCode(err)
	}

	return 0
}

// exitCode returns the exit code of a command failing with the given error.
// Bad input exits with a code apart from a failing database so that scripts
// can tell whether a retry makes sense.
func exitCode(err error) int {
	switch {
	case errors.IsClientError(err):
		return exitCodeClientError
	case errors.IsServerError(err):
		return exitCodeServerError
	default:
		return exitCodeError
	}
}

func init() {
	rootCmd.AddCommand(document.SubCmd)
	rootCmd.AddCommand(history.SubCmd)
	rootCmd.PersistentFlags().StringVarP(&config.ConfPath, "config", "c", "", "Config path")
	rootCmd.PersistentFlags().StringVarP(
		&config.LogLevel,
		"log-level",
		"l",
		"warn",
		"Log level: debug, info, warn, error, panic, fatal",
	)
	rootCmd.PersistentFlags().StringVarP(&config.Output, "output", "o", "", "One of 'yaml' or 'json'.")
}
