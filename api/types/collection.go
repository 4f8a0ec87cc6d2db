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
	"strings"

	"github.com/yorkie-team/folio/internal/validation"
)

// FieldType is the type of the value stored in a field.
type FieldType string

const (
	// FieldTypeString is a text field.
	FieldTypeString FieldType = "string"

	// FieldTypeNumber is a floating point field.
	FieldTypeNumber FieldType = "number"

	// FieldTypeInteger is an integral field.
	FieldTypeInteger FieldType = "integer"

	// FieldTypeBoolean is a boolean field.
	FieldTypeBoolean FieldType = "boolean"

	// FieldTypeDate is a timestamp field. Values are always returned as
	// time.Time.
	FieldTypeDate FieldType = "date"

	// FieldTypeObject is a structured field holding a map.
	FieldTypeObject FieldType = "object"

	// FieldTypeArray is a structured field holding a list.
	FieldTypeArray FieldType = "array"
)

// Names of the columns every content collection carries besides its fields.
const (
	FieldID          = "id"
	FieldDocumentID  = "documentId"
	FieldLocale      = "locale"
	FieldStatus      = "status"
	FieldCreatedAt   = "createdAt"
	FieldUpdatedAt   = "updatedAt"
	FieldCreatedBy   = "createdBy"
	FieldUpdatedBy   = "updatedBy"
	FieldPublishedBy = "publishedBy"
)

// DefaultLocale is the locale used when neither the caller nor the collection
// specifies one.
const DefaultLocale = "en"

// Field is a field declared by a collection schema.
type Field struct {
	Name     string    `yaml:"name" json:"name" validate:"required,field_name"`
	Type     FieldType `yaml:"type" json:"type" validate:"required,oneof=string number integer boolean date object array"`
	Unique   bool      `yaml:"unique" json:"unique,omitempty"`
	Required bool      `yaml:"required" json:"required,omitempty"`
}

// IsTimestamp returns whether the values of this field are coerced into
// time.Time. Fields typed date and fields whose name ends with "At" are.
func (f *Field) IsTimestamp() bool {
	return f.Type == FieldTypeDate || IsTimestampName(f.Name)
}

// IsTimestampName returns whether the given logical name follows the
// timestamp naming convention, e.g. publishedAt.
func IsTimestampName(name string) bool {
	return len(name) > 2 && strings.HasSuffix(name, "At")
}

// Collection is the schema of a named group of documents.
type Collection struct {
	// Name is the name of the collection. It is also the table name in
	// relational backends.
	Name string `yaml:"name" json:"name" validate:"required,slug"`

	// Fields are the data fields of the collection.
	Fields []*Field `yaml:"fields" json:"fields" validate:"dive"`

	// Localized is whether the documents of this collection have one record
	// per locale.
	Localized bool `yaml:"localized" json:"localized"`

	// Versioned is whether snapshots are recorded for the documents of this
	// collection and whether they can be published.
	Versioned bool `yaml:"versioned" json:"versioned"`

	// DefaultLocale is the locale used when the caller omits one.
	DefaultLocale string `yaml:"defaultLocale" json:"defaultLocale,omitempty" validate:"omitempty,locale"`

	// System marks internal collections such as versions and settings. They
	// carry neither locale nor status columns and their fields are the whole
	// row.
	System bool `yaml:"-" json:"system,omitempty"`

	// Unique lists composite uniqueness constraints of a system collection.
	Unique [][]string `yaml:"-" json:"unique,omitempty"`
}

// Validate validates the collection schema.
func (c *Collection) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("collection %s: %w", c.Name, err)
	}

	seen := make(map[string]bool)
	for _, f := range c.Fields {
		if seen[f.Name] {
			return fmt.Errorf("collection %s: field %s: %w", c.Name, f.Name, ErrDuplicateField)
		}
		seen[f.Name] = true

		if !c.System && IsReservedField(f.Name) {
			return fmt.Errorf("collection %s: field %s: %w", c.Name, f.Name, ErrReservedField)
		}
	}

	for _, key := range c.Unique {
		for _, name := range key {
			if c.Column(name) == nil {
				return fmt.Errorf("collection %s: unique key %v: %w", c.Name, key, ErrUnknownUniqueField)
			}
		}
	}

	return nil
}

var (
	// ErrDuplicateField is returned when a schema declares a field twice.
	ErrDuplicateField = fmt.Errorf("duplicate field")

	// ErrReservedField is returned when a schema declares a field that
	// collides with a column managed by the store.
	ErrReservedField = fmt.Errorf("reserved field")

	// ErrUnknownUniqueField is returned when a composite unique key names a
	// column the collection does not have.
	ErrUnknownUniqueField = fmt.Errorf("unknown field in unique key")
)

// IsReservedField returns whether the given name is managed by the store.
func IsReservedField(name string) bool {
	switch name {
	case FieldID, FieldDocumentID, FieldLocale, FieldStatus,
		FieldCreatedAt, FieldUpdatedAt, FieldCreatedBy, FieldUpdatedBy, FieldPublishedBy:
		return true
	}
	return false
}

// HasLocale returns whether the records of this collection carry a locale
// column.
func (c *Collection) HasLocale() bool {
	return !c.System && c.Localized
}

// HasStatus returns whether the records of this collection carry a status
// column.
func (c *Collection) HasStatus() bool {
	return !c.System
}

// LocaleOr returns the given locale, falling back to the collection default
// and then to the given fallback.
func (c *Collection) LocaleOr(locale, fallback string) string {
	if locale != "" {
		return locale
	}
	if c.DefaultLocale != "" {
		return c.DefaultLocale
	}
	if fallback != "" {
		return fallback
	}
	return DefaultLocale
}

// Columns returns every column of the collection in a stable order: the
// identifier, the columns managed by the store and then the data fields.
func (c *Collection) Columns() []*Field {
	columns := []*Field{{Name: FieldID, Type: FieldTypeString}}
	if c.System {
		return append(columns, c.Fields...)
	}

	columns = append(columns, &Field{Name: FieldDocumentID, Type: FieldTypeString, Required: true})
	if c.HasLocale() {
		columns = append(columns, &Field{Name: FieldLocale, Type: FieldTypeString, Required: true})
	}
	columns = append(columns,
		&Field{Name: FieldStatus, Type: FieldTypeString, Required: true},
		&Field{Name: FieldCreatedAt, Type: FieldTypeDate},
		&Field{Name: FieldUpdatedAt, Type: FieldTypeDate},
		&Field{Name: FieldCreatedBy, Type: FieldTypeString},
		&Field{Name: FieldUpdatedBy, Type: FieldTypeString},
		&Field{Name: FieldPublishedBy, Type: FieldTypeString},
	)
	return append(columns, c.Fields...)
}

// Column returns the column of the given logical name, or nil.
func (c *Collection) Column(name string) *Field {
	for _, col := range c.Columns() {
		if col.Name == name {
			return col
		}
	}
	return nil
}

// UniqueKeys returns the uniqueness constraints of the collection. Content
// collections allow one record per document, locale and status, and scope
// unique fields to a locale and a status so that a published copy does not
// collide with its draft.
func (c *Collection) UniqueKeys() [][]string {
	var keys [][]string
	if !c.System {
		key := []string{FieldDocumentID}
		if c.HasLocale() {
			key = append(key, FieldLocale)
		}
		keys = append(keys, append(key, FieldStatus))
	}

	for _, f := range c.Fields {
		if !f.Unique {
			continue
		}
		key := []string{f.Name}
		if c.HasLocale() {
			key = append(key, FieldLocale)
		}
		if c.HasStatus() {
			key = append(key, FieldStatus)
		}
		keys = append(keys, key)
	}

	return append(keys, c.Unique...)
}

// DataOf returns the data part of the given record: the subset of its keys
// declared as fields of the collection.
func (c *Collection) DataOf(record Record) Record {
	data := Record{}
	for _, f := range c.Fields {
		if v, ok := record[f.Name]; ok {
			data[f.Name] = v
		}
	}
	return data
}
