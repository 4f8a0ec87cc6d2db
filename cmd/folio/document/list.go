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
	"github.com/yorkie-team/folio/pkg/query"
	"github.com/yorkie-team/folio/server/backend"
	"github.com/yorkie-team/folio/server/documents"
)

var (
	listLocale string
	listStatus string
	listFilter string
	listSort   []string
	listLimit  int
	listSkip   int
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls [collection]",
		Short:   "List the documents of the collection",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("collection is required")
			}
			collection := args[0]

			status, err := parseStatus(listStatus)
			if err != nil {
				return err
			}

			filter, err := config.ParseData(listFilter)
			if err != nil {
				return err
			}

			return withBackend(func(ctx context.Context, be *backend.Backend) error {
				coll, err := be.Registry.Get(collection)
				if err != nil {
					return err
				}

				records, err := documents.List(ctx, be, collection, documents.ListOptions{
					Locale: listLocale,
					Status: status,
					Filter: query.Filter(filter),
					Sort:   parseSort(listSort),
					Limit:  listLimit,
					Skip:   listSkip,
				})
				if err != nil {
					return err
				}

				return config.PrintRecords(cmd, coll, records)
			})
		},
	}
}

// parseSort parses sort keys such as "name" and "-createdAt", where the
// leading minus sorts in descending order.
func parseSort(keys []string) []query.SortField {
	var fields []query.SortField
	for _, key := range keys {
		if len(key) > 1 && key[0] == '-' {
			fields = append(fields, query.Desc(key[1:]))
			continue
		}
		fields = append(fields, query.Asc(key))
	}
	return fields
}

func init() {
	cmd := newListCommand()
	cmd.Flags().StringVar(
		&listLocale,
		"locale",
		"",
		"The locale of the records",
	)
	cmd.Flags().StringVar(
		&listStatus,
		"status",
		"",
		"The status of the records: draft or published",
	)
	cmd.Flags().StringVar(
		&listFilter,
		"filter",
		"",
		`The filter of the records, e.g. '{"age": {"$gte": 3}}'`,
	)
	cmd.Flags().StringSliceVar(
		&listSort,
		"sort",
		nil,
		"The sort keys of the records, e.g. -createdAt",
	)
	cmd.Flags().IntVar(
		&listLimit,
		"limit",
		0,
		"The maximum number of records to output",
	)
	cmd.Flags().IntVar(
		&listSkip,
		"skip",
		0,
		"The number of records to skip",
	)
	SubCmd.AddCommand(cmd)
}
