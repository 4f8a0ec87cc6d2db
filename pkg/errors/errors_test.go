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

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name   string
		code   StatusCode
		want   string
		client bool
		server bool
	}{
		{"InvalidArgument", ErrCodeInvalidArgument, "invalid_argument", true, false},
		{"NotFound", ErrCodeNotFound, "not_found", true, false},
		{"AlreadyExists", ErrCodeAlreadyExists, "already_exists", true, false},
		{"FailedPrecondition", ErrCodeFailedPrecondition, "failed_precondition", true, false},
		{"Internal", ErrCodeInternal, "internal", false, true},
		{"Unavailable", ErrCodeUnavailable, "unavailable", false, true},
		{"Unknown", StatusCode(999), "code_999", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.String())
			assert.Equal(t, tt.client, tt.code.IsClientError())
			assert.Equal(t, tt.server, tt.code.IsServerError())
		})
	}
}

func TestStatusError(t *testing.T) {
	t.Run("wrapped status test", func(t *testing.T) {
		errNotFound := NotFound("document not found").WithCode("ErrDocumentNotFound")
		wrapped := fmt.Errorf("%s: %w", "cats/cat-1", errNotFound)

		assert.True(t, Is(wrapped, errNotFound))
		assert.Equal(t, ErrCodeNotFound, StatusOf(wrapped))
		assert.Equal(t, "ErrDocumentNotFound", CodeOf(wrapped))
		assert.True(t, IsClientError(wrapped))
		assert.False(t, IsServerError(wrapped))
		assert.Equal(t, "cats/cat-1: document not found", wrapped.Error())
	})

	t.Run("plain error test", func(t *testing.T) {
		assert.Equal(t, StatusCode(0), StatusOf(New("plain")))
		assert.Equal(t, StatusCode(0), StatusOf(nil))
		assert.Equal(t, "", CodeOf(New("plain")))
	})

	t.Run("joined error test", func(t *testing.T) {
		err := Join(Internal("database error"), New("connection reset"))
		assert.True(t, IsStatus(err, ErrCodeInternal))
		assert.True(t, IsServerError(err))
	})
}
