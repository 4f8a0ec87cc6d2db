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
	publishLocale string
	publishBy     string

	unpublishLocale string
)

func newPublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "publish [collection] [document id]",
		Short:   "Publish the draft of a locale of the document",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("collection and document id are required")
			}
			collection, documentID := args[0], args[1]

			return withBackend(func(ctx context.Context, be *backend.Backend) error {
				rec, err := documents.Publish(ctx, be, collection, documentID, documents.PublishOptions{
					Locale:      publishLocale,
					PublishedBy: publishBy,
				})
				if err != nil {
					return err
				}

				return printRecord(cmd, be, collection, rec)
			})
		},
	}
}

func newUnpublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "unpublish [collection] [document id]",
		Short:   "Remove the published record of a locale of the document",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("collection and document id are required")
			}
			collection, documentID := args[0], args[1]

			return withBackend(func(ctx context.Context, be *backend.Backend) error {
				deleted, err := documents.Unpublish(ctx, be, collection, documentID, unpublishLocale)
				if err != nil {
					return err
				}

				if deleted {
					cmd.Printf("unpublished %s\n", documentID)
				} else {
					cmd.Printf("%s is not published\n", documentID)
				}
				return nil
			})
		},
	}
}

func init() {
	cmd := newPublishCommand()
	cmd.Flags().StringVar(
		&publishLocale,
		"locale",
		"",
		"The locale to publish",
	)
	cmd.Flags().StringVar(
		&publishBy,
		"by",
		"",
		"The actor publishing the locale",
	)
	SubCmd.AddCommand(cmd)

	cmd = newUnpublishCommand()
	cmd.Flags().StringVar(
		&unpublishLocale,
		"locale",
		"",
		"The locale to unpublish",
	)
	SubCmd.AddCommand(cmd)
}
