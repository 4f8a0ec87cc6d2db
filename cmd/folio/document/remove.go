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

package document

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/yorkie-team/folio/cmd/folio/config"
	"github.com/yorkie-team/folio/server/backend"
	"github.com/yorkie-team/folio/server/documents"
)

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm [collection] [document id]",
		Aliases: []string{"delete"},
		Short:   "Delete every record of the document",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("collection and document id are required")
			}
			collection, documentID := args[0], args[1]

			return withBackend(func(ctx context.Context, be *backend.Backend) error {
				deleted, err := documents.Delete(ctx, be, collection, documentID)
				if err != nil {
					return err
				}

				if deleted {
					cmd.Printf("deleted %s\n", documentID)
				} else {
					cmd.Printf("%s does not exist\n", documentID)
				}
				return nil
			})
		},
	}
}

func init() {
	SubCmd.AddCommand(newRemoveCommand())
}
