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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yorkie-team/folio/cmd/folio/config"
	"github.com/yorkie-team/folio/server/backend"
	"github.com/yorkie-team/folio/server/backend/database"
	"github.com/yorkie-team/folio/server/documents"
)

var (
	getLocale string
	getStatus string
)

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get [collection] [document id]",
		Short:   "Get a locale record of the document",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("collection and document id are required")
			}
			collection, documentID := args[0], args[1]

			status, err := parseStatus(getStatus)
			if err != nil {
				return err
			}

			return withBackend(func(ctx context.Context, be *backend.Backend) error {
				rec, err := documents.FindByDocumentID(ctx, be, collection, documentID, documents.FindOptions{
					Locale: getLocale,
					Status: status,
				})
				if err != nil {
					return err
				}
				if rec == nil {
					return fmt.Errorf("get %s of %s: %w", documentID, collection, database.ErrDocumentNotFound)
				}

				return printRecord(cmd, be, collection, rec)
			})
		},
	}
}

func init() {
	cmd := newGetCommand()
	cmd.Flags().StringVar(
		&getLocale,
		"locale",
		"",
		"The locale of the record",
	)
	cmd.Flags().StringVar(
		&getStatus,
		"status",
		"",
		"The status of the record: draft or published. The draft is preferred when omitted",
	)
	SubCmd.AddCommand(cmd)
}
