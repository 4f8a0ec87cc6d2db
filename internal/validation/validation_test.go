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

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidation(t *testing.T) {
	t.Run("ValidateValue test", func(t *testing.T) {
		assert.NoError(t, ValidateValue("cats", "required,slug"))
		assert.NoError(t, ValidateValue("blog_posts", "required,slug"))

		err := ValidateValue("Cats", "required,slug")
		assert.Equal(t, "slug", err.(Violation).Tag)

		err = ValidateValue("1cats", "required,slug")
		assert.Equal(t, "slug", err.(Violation).Tag)

		assert.NoError(t, ValidateValue("publishedAt", "field_name"))
		err = ValidateValue("published_at", "field_name")
		assert.Equal(t, "field_name", err.(Violation).Tag)

		assert.NoError(t, ValidateValue("en", "locale"))
		assert.NoError(t, ValidateValue("pt-BR", "locale"))
		err = ValidateValue("english language", "locale")
		assert.Equal(t, "locale", err.(Violation).Tag)

		assert.NoError(t, ValidateValue("1h30m", "duration"))
		err = ValidateValue("one hour", "duration")
		assert.Equal(t, "duration", err.(Violation).Tag)
	})

	t.Run("ValidateStruct test", func(t *testing.T) {
		type Collection struct {
			Name   string `validate:"required,slug"`
			Locale string `validate:"omitempty,locale"`
		}

		err := ValidateStruct(Collection{Name: "Bad Name", Locale: "english"})
		structError := err.(*StructError)
		assert.Len(t, structError.Violations, 2)
		assert.Equal(t, []string{"Collection.Name", "Collection.Locale"}, structError.Fields())

		assert.NoError(t, ValidateStruct(Collection{Name: "cats", Locale: "en"}))
	})
}
