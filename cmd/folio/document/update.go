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

var (
	updateLocale string
	updateStatus string
	updateData   string
	updateBy     string
)

func newUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "update [collection] [document id]",
		Short:   "Update a locale record of the document",
		Example: `folio document update articles 5f0c... --data '{"title": "Hi"}' --config folio.yml`,
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("collection and document id are required")
			}
			collection, documentID := args[0], args[1]

			status, err := parseStatus(updateStatus)
			if err != nil {
				return err
			}

			data, err := config.ParseData(updateData)
			if err != nil {
				return err
			}

			return withBackend(func(ctx context.Context, be *backend.Backend) error {
				rec, err := documents.Update(ctx, be, collection, documentID, data, documents.UpdateOptions{
					Locale:    updateLocale,
					Status:    status,
					UpdatedBy: updateBy,
				})
				if err != nil {
					return err
				}

				return printRecord(cmd, be, collection, rec)
			})
		},
	}
}

func init() {
	cmd := newUpdateCommand()
	cmd.Flags().StringVar(
		&updateLocale,
		"locale",
		"",
		"The locale of the record",
	)
	cmd.Flags().StringVar(
		&updateStatus,
		"status",
		"",
		"The status of the record: draft or published (default draft)",
	)
	cmd.Flags().StringVar(
		&updateData,
		"data",
		"",
		"The fields to update as a JSON or YAML object",
	)
	cmd.Flags().StringVar(
		&updateBy,
		"by",
		"",
		"The actor updating the record",
	)
	SubCmd.AddCommand(cmd)
}
