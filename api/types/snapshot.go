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
	"time"
)

// Snapshot is an immutable history entry capturing the data of a locale of a
// document at a point in time.
type Snapshot struct {
	// ID is the backend assigned identifier of the row.
	ID string `json:"id" yaml:"id"`

	// VersionID is the globally unique identifier of the snapshot.
	VersionID string `json:"versionId" yaml:"versionId"`

	// DocumentID is the document the snapshot belongs to.
	DocumentID string `json:"documentId" yaml:"documentId"`

	// Collection is the collection of the document.
	Collection string `json:"collectionName" yaml:"collectionName"`

	// Locale is the locale the snapshot was taken from.
	Locale string `json:"locale" yaml:"locale"`

	// VersionNumber increases monotonically per document, collection and
	// locale, starting at 1.
	VersionNumber int64 `json:"versionNumber" yaml:"versionNumber"`

	// Status is the status recorded for the snapshot.
	Status Status `json:"status" yaml:"status"`

	// Data is the full copy of the record's fields at snapshot time.
	Data Record `json:"data" yaml:"data"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	CreatedBy string    `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}
