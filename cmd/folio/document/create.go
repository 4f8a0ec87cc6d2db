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
	createLocale string
	createData   string
	createBy     string
)

func newCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "create [collection]",
		Short:   "Create a new document whose draft holds the given data",
		Example: `folio document create articles --data '{"title": "Hello"}' --config folio.yml`,
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("collection is required")
			}
			collection := args[0]

			data, err := config.ParseData(createData)
			if err != nil {
				return err
			}

			return withBackend(func(ctx context.Context, be *backend.Backend) error {
				rec, err := documents.Create(ctx, be, collection, data, documents.CreateOptions{
					Locale:    createLocale,
					CreatedBy: createBy,
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
	cmd := newCreateCommand()
	cmd.Flags().StringVar(
		&createLocale,
		"locale",
		"",
		"The locale of the first draft",
	)
	cmd.Flags().StringVar(
		&createData,
		"data",
		"",
		"The data of the document as a JSON or YAML object",
	)
	cmd.Flags().StringVar(
		&createBy,
		"by",
		"",
		"The actor creating the document",
	)
	SubCmd.AddCommand(cmd)
}
