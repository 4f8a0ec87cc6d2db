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

package config

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yorkie-team/folio/api/types"
)

// Print prints the given value in the output format. render renders the
// value as a table when no format is given.
func Print(cmd *cobra.Command, value interface{}, render func(tw table.Writer)) error {
	switch Output {
	case "":
		tw := table.NewWriter()
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
		tw.Style().Options.SeparateFooter = false
		tw.Style().Options.SeparateHeader = false
		tw.Style().Options.SeparateRows = false
		render(tw)
		cmd.Printf("%s\n", tw.Render())
	case "json":
		jsonOutput, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		cmd.Println(string(jsonOutput))
	case "yaml":
		yamlOutput, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		cmd.Println(string(yamlOutput))
	default:
		return fmt.Errorf("%s: %w", Output, ErrUnknownOutput)
	}

	return nil
}

// PrintRecords prints the records of the given collection.
func PrintRecords(cmd *cobra.Command, coll *types.Collection, records []types.Record) error {
	return Print(cmd, records, func(tw table.Writer) {
		tw.AppendHeader(table.Row{
			"DOCUMENT ID",
			"LOCALE",
			"STATUS",
			"UPDATED AT",
			"DATA",
		})
		for _, rec := range records {
			tw.AppendRow(table.Row{
				rec.DocumentID(),
				rec.Locale(),
				statusText(rec.Status()),
				formatTime(rec.Time(types.FieldUpdatedAt)),
				formatData(coll.DataOf(rec)),
			})
		}
	})
}

// PrintSnapshots prints the given versions.
func PrintSnapshots(cmd *cobra.Command, snapshots []*types.Snapshot) error {
	return Print(cmd, snapshots, func(tw table.Writer) {
		tw.AppendHeader(table.Row{
			"VERSION",
			"VERSION ID",
			"LOCALE",
			"STATUS",
			"CREATED AT",
			"CREATED BY",
			"NOTES",
		})
		for _, s := range snapshots {
			tw.AppendRow(table.Row{
				s.VersionNumber,
				s.VersionID,
				s.Locale,
				statusText(s.Status),
				formatTime(s.CreatedAt),
				s.CreatedBy,
				s.Notes,
			})
		}
	})
}

// PrintLocaleStatuses prints the statuses of the locales of a document.
func PrintLocaleStatuses(cmd *cobra.Command, statuses map[string]*types.LocaleStatus) error {
	return Print(cmd, statuses, func(tw table.Writer) {
		tw.AppendHeader(table.Row{"LOCALE", "DRAFT", "PUBLISHED"})

		locales := make([]string, 0, len(statuses))
		for locale := range statuses {
			locales = append(locales, locale)
		}
		sort.Strings(locales)

		for _, locale := range locales {
			tw.AppendRow(table.Row{
				locale,
				statuses[locale].HasDraft,
				statuses[locale].HasPublished,
			})
		}
	})
}

var statusColors = map[types.Status]*color.Color{
	types.StatusDraft:     color.New(color.FgYellow),
	types.StatusPublished: color.New(color.FgGreen),
	types.StatusArchived:  color.New(color.FgHiBlack),
}

// statusText colors the given status when the output is a terminal.
func statusText(status types.Status) string {
	if c, ok := statusColors[status]; ok {
		return c.Sprint(status)
	}
	return string(status)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatData(data types.Record) string {
	bytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprintf("%v", map[string]interface{}(data))
	}
	return string(bytes)
}
