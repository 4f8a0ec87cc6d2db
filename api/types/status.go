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

package types

import (
	"fmt"
)

// Status is the status of a locale record or of a version snapshot.
type Status string

const (
	// StatusDraft is the status of a record that is being edited.
	StatusDraft Status = "draft"

	// StatusPublished is the status of a record that is visible to readers.
	StatusPublished Status = "published"

	// StatusArchived is the terminal status of a version snapshot. Locale
	// records are never archived.
	StatusArchived Status = "archived"
)

// ErrInvalidStatus is returned when the given string is not a known status.
var ErrInvalidStatus = fmt.Errorf("invalid status")

// ParseStatus parses the given string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("parse %q: %w", s, ErrInvalidStatus)
	}
	return status, nil
}

// IsValid returns whether the status is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// CanTransitionTo returns whether a snapshot in this status may move to the
// given status. Snapshots never go back to draft and archived is terminal.
func (s Status) CanTransitionTo(to Status) bool {
	switch s {
	case StatusDraft:
		return to == StatusPublished || to == StatusArchived
	case StatusPublished:
		return to == StatusArchived
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// LocaleStatus reports which status rows exist for a locale of a document.
type LocaleStatus struct {
	HasDraft     bool `json:"hasDraft" yaml:"hasDraft"`
	HasPublished bool `json:"hasPublished" yaml:"hasPublished"`
}
