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

package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/query"
)

// quote quotes the given identifier.
func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// columnType returns the storage class of the given field.
func columnType(f *types.Field) string {
	switch {
	case f.Type == types.FieldTypeInteger || f.Type == types.FieldTypeBoolean:
		return "INTEGER"
	case f.Type == types.FieldTypeNumber:
		return "REAL"
	default:
		return "TEXT"
	}
}

// encode converts a canonical value into a value SQLite can bind. Times are
// stored as fixed width text so that they compare chronologically, and
// structured values as extended JSON text.
func encode(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return query.FormatTime(val), nil
	case bool:
		if val {
			return int64(1), nil
		}
		return int64(0), nil
	case map[string]interface{}, []interface{}:
		return encodeStructured(val)
	default:
		return v, nil
	}
}

// decode converts a value scanned from the given column back into a value
// the column can be coerced from. Objects and arrays are decoded from their
// extended JSON text.
func decode(col *types.Field, v interface{}) (interface{}, error) {
	if col == nil || (col.Type != types.FieldTypeObject && col.Type != types.FieldTypeArray) {
		return v, nil
	}

	switch text := v.(type) {
	case string:
		return decodeStructured(text)
	case []byte:
		return decodeStructured(string(text))
	default:
		return v, nil
	}
}

// compiler compiles conditions into a WHERE clause with bound arguments.
type compiler struct {
	args []interface{}
}

func (c *compiler) bind(v interface{}) (string, error) {
	encoded, err := encode(v)
	if err != nil {
		return "", err
	}
	c.args = append(c.args, encoded)
	return "?", nil
}

func (c *compiler) compile(cond query.Condition) (string, error) {
	switch cd := cond.(type) {
	case nil:
		return "1", nil
	case *query.Field:
		return c.compileField(cd)
	case query.And:
		return c.join(cd, " AND ", "1")
	case query.Or:
		return c.join(cd, " OR ", "0")
	default:
		return "", fmt.Errorf("compile %T: %w", cond, query.ErrInvalidFilter)
	}
}

func (c *compiler) join(conds []query.Condition, sep, empty string) (string, error) {
	if len(conds) == 0 {
		return empty, nil
	}

	parts := make([]string, 0, len(conds))
	for _, sub := range conds {
		clause, err := c.compile(sub)
		if err != nil {
			return "", err
		}
		parts = append(parts, "("+clause+")")
	}
	return strings.Join(parts, sep), nil
}

func (c *compiler) compileField(f *query.Field) (string, error) {
	col := quote(f.Name)

	switch f.Op {
	case query.OpEq, query.OpNe, query.OpGt, query.OpGte, query.OpLt, query.OpLte:
		arg, err := c.bind(f.Value)
		if err != nil {
			return "", err
		}
		switch f.Op {
		case query.OpEq:
			return col + " = " + arg, nil
		case query.OpNe:
			return fmt.Sprintf("(%s IS NULL OR %s != %s)", col, col, arg), nil
		case query.OpGt:
			return col + " > " + arg, nil
		case query.OpGte:
			return col + " >= " + arg, nil
		case query.OpLt:
			return col + " < " + arg, nil
		default:
			return col + " <= " + arg, nil
		}
	case query.OpIn, query.OpNin:
		list, _ := f.Value.([]interface{})
		if len(list) == 0 {
			if f.Op == query.OpIn {
				return "0", nil
			}
			return "1", nil
		}
		placeholders := make([]string, 0, len(list))
		for _, v := range list {
			arg, err := c.bind(v)
			if err != nil {
				return "", err
			}
			placeholders = append(placeholders, arg)
		}
		in := strings.Join(placeholders, ", ")
		if f.Op == query.OpIn {
			return fmt.Sprintf("%s IN (%s)", col, in), nil
		}
		return fmt.Sprintf("(%s IS NULL OR %s NOT IN (%s))", col, col, in), nil
	case query.OpLike:
		arg, err := c.bind(f.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("instr(%s, %s) > 0", col, arg), nil
	case query.OpRegex, query.OpILike:
		arg, err := c.bind(f.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("instr(lower(%s), lower(%s)) > 0", col, arg), nil
	case query.OpNull, query.OpExists:
		isNull, _ := f.Value.(bool)
		if f.Op == query.OpExists {
			isNull = !isNull
		}
		if isNull {
			return col + " IS NULL", nil
		}
		return col + " IS NOT NULL", nil
	default:
		return "", fmt.Errorf("compile %s: %w", f.Op, query.ErrInvalidFilter)
	}
}

// orderBy compiles the given sort fields. Rows are ordered by insertion when
// no sort is given.
func orderBy(sorts []query.SortField) string {
	if len(sorts) == 0 {
		return " ORDER BY rowid"
	}

	parts := make([]string, 0, len(sorts)+1)
	for _, s := range sorts {
		if s.Desc {
			parts = append(parts, quote(s.Field)+" DESC")
		} else {
			parts = append(parts, quote(s.Field)+" ASC")
		}
	}
	parts = append(parts, "rowid")
	return " ORDER BY " + strings.Join(parts, ", ")
}
