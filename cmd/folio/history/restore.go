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

package history

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/cmd/folio/config"
	"github.com/yorkie-team/folio/server/backend"
	"github.com/yorkie-team/folio/server/documents"
)

var (
	restoreLocale string
	restoreBy     string
)

// ErrVersionNotFound is returned when the version to restore does not exist.
var ErrVersionNotFound = errors.New("version not found")

func newRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "restore [collection] [document id] [version number]",
		Short:   "Restore the draft of a locale of the document from a version",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return errors.New("collection, document id and version number are required")
			}
			collection, documentID := args[0], args[1]
			versionNumber, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("parse version number %q: %w", args[2], err)
			}

			return withBackend(func(ctx context.Context, be *backend.Backend) error {
				rec, err := documents.RestoreVersion(
					ctx,
					be,
					collection,
					documentID,
					restoreLocale,
					versionNumber,
					documents.RestoreOptions{RestoredBy: restoreBy},
				)
				if err != nil {
					return err
				}
				if rec == nil {
					return fmt.Errorf("restore %d of %s: %w", versionNumber, documentID, ErrVersionNotFound)
				}

				coll, err := be.Registry.Get(collection)
				if err != nil {
					return err
				}
				return config.PrintRecords(cmd, coll, []types.Record{rec})
			})
		},
	}
}

func init() {
	cmd := newRestoreCommand()
	cmd.Flags().StringVar(
		&restoreLocale,
		"locale",
		"",
		"The locale to restore",
	)
	cmd.Flags().StringVar(
		&restoreBy,
		"by",
		"",
		"The actor restoring the version",
	)
	SubCmd.AddCommand(cmd)
}
