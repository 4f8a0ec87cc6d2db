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

	"github.com/spf13/cobra"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/cmd/folio/config"
	"github.com/yorkie-team/folio/server/backend"
)

// ErrTransitionRejected is returned when the version does not exist or its
// status cannot move to the requested one.
var ErrTransitionRejected = errors.New("version not found or transition not allowed")

// newStatusCommand returns a command moving a version to the given status.
func newStatusCommand(to types.Status, short string) *cobra.Command {
	return &cobra.Command{
		Use:     fmt.Sprintf("%s [version id]", verbOf(to)),
		Short:   short,
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("version id is required")
			}
			versionID := args[0]

			return withBackend(func(ctx context.Context, be *backend.Backend) error {
				var snapshot *types.Snapshot
				var err error
				if to == types.StatusPublished {
					snapshot, err = be.History.PublishVersion(ctx, versionID)
				} else {
					snapshot, err = be.History.ArchiveVersion(ctx, versionID)
				}
				if err != nil {
					return err
				}
				if snapshot == nil {
					return fmt.Errorf("%s %s: %w", verbOf(to), versionID, ErrTransitionRejected)
				}

				return config.PrintSnapshots(cmd, []*types.Snapshot{snapshot})
			})
		},
	}
}

func verbOf(status types.Status) string {
	if status == types.StatusPublished {
		return "publish"
	}
	return "archive"
}

func init() {
	SubCmd.AddCommand(newStatusCommand(types.StatusPublished, "Mark the version as published"))
	SubCmd.AddCommand(newStatusCommand(types.StatusArchived, "Mark the version as archived"))
}
