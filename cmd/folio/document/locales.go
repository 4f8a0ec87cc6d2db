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
	addLocaleData string
	addLocaleBy   string
)

func newLocalesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "locales [collection] [document id]",
		Short:   "List the locales of the document and their statuses",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("collection and document id are required")
			}
			collection, documentID := args[0], args[1]

			return withBackend(func(ctx context.Context, be *backend.Backend) error {
				statuses, err := documents.GetLocaleStatuses(ctx, be, collection, documentID)
				if err != nil {
					return err
				}

				return config.PrintLocaleStatuses(cmd, statuses)
			})
		},
	}
}

func newAddLocaleCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "add-locale [collection] [document id] [locale]",
		Short:   "Create the draft of a new locale of the document",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return errors.New("collection, document id and locale are required")
			}
			collection, documentID, locale := args[0], args[1], args[2]

			data, err := config.ParseData(addLocaleData)
			if err != nil {
				return err
			}

			return withBackend(func(ctx context.Context, be *backend.Backend) error {
				rec, err := documents.AddLocale(ctx, be, collection, documentID, locale, data, documents.AddLocaleOptions{
					CreatedBy: addLocaleBy,
				})
				if err != nil {
					return err
				}

				return printRecord(cmd, be, collection, rec)
			})
		},
	}
}

func newDeleteLocaleCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete-locale [collection] [document id] [locale]",
		Short:   "Delete the records of a locale of the document",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				return errors.New("collection, document id and locale are required")
			}
			collection, documentID, locale := args[0], args[1], args[2]

			return withBackend(func(ctx context.Context, be *backend.Backend) error {
				deleted, err := documents.DeleteLocale(ctx, be, collection, documentID, locale)
				if err != nil {
					return err
				}

				if deleted {
					cmd.Printf("deleted %s of %s\n", locale, documentID)
				} else {
					cmd.Printf("%s of %s does not exist\n", locale, documentID)
				}
				return nil
			})
		},
	}
}

func init() {
	SubCmd.AddCommand(newLocalesCommand())

	cmd := newAddLocaleCommand()
	cmd.Flags().StringVar(
		&addLocaleData,
		"data",
		"",
		"The data of the locale as a JSON or YAML object",
	)
	cmd.Flags().StringVar(
		&addLocaleBy,
		"by",
		"",
		"The actor adding the locale",
	)
	SubCmd.AddCommand(cmd)

	SubCmd.AddCommand(newDeleteLocaleCommand())
}
