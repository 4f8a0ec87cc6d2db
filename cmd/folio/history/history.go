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

// Package history provides the history command of the Folio CLI.
package history

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/yorkie-team/folio/cmd/folio/config"
	"github.com/yorkie-team/folio/server/backend"
	"github.com/yorkie-team/folio/server/logging"
)

var (
	// SubCmd represents the history command.
	SubCmd = &cobra.Command{
		Use:   "history",
		Short: "Manage the versions of documents",
	}
)

// withBackend opens the backend for the duration of fn.
func withBackend(fn func(ctx context.Context, be *backend.Backend) error) error {
	be, err := config.OpenBackend()
	if err != nil {
		return err
	}
	defer func() {
		if err := be.Shutdown(); err != nil {
			logging.DefaultLogger().Warnf("shutdown backend: %v", err)
		}
	}()

	return fn(context.Background(), be)
}
