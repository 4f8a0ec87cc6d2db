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

package main

import (
	"runtime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/cmd/folio/config"
	"github.com/yorkie-team/folio/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print the version number of Folio",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			detail := &types.VersionDetail{
				FolioVersion: version.Version,
				GitCommit:    version.GitCommit,
				GoVersion:    runtime.Version(),
				BuildDate:    version.BuildDate,
			}

			return config.Print(cmd, detail, func(tw table.Writer) {
				tw.AppendRow(table.Row{"Folio:", detail.FolioVersion})
				tw.AppendRow(table.Row{"Git Commit:", detail.GitCommit})
				tw.AppendRow(table.Row{"Go:", detail.GoVersion})
				tw.AppendRow(table.Row{"Build Date:", detail.BuildDate})
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
