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

package mongo

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/query"
)

// idKey is the key of the identifier in MongoDB documents.
const idKey = "_id"

// encodeID converts the given identifier into an ObjectID. Identifiers that
// are not ObjectIDs map to NilObjectID, which no document has.
func encodeID(id interface{}) primitive.ObjectID {
	s, ok := id.(string)
	if !ok {
		return primitive.NilObjectID
	}
	objectID, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID
	}
	return objectID
}

// fieldKey returns the key of the given physical name in documents.
func fieldKey(name string) string {
	if name == types.FieldID {
		return idKey
	}
	return name
}

// compileFilter compiles the given condition into a MongoDB filter.
func compileFilter(cond query.Condition) bson.M {
	switch c := cond.(type) {
	case nil:
		return bson.M{}
	case *query.Field:
		return compileField(c)
	case query.And:
		if len(c) == 0 {
			return bson.M{}
		}
		subs := make(bson.A, 0, len(c))
		for _, sub := range c {
			subs = append(subs, compileFilter(sub))
		}
		return bson.M{"$and": subs}
	case query.Or:
		if len(c) == 0 {
			return bson.M{idKey: bson.M{"$exists": false}}
		}
		subs := make(bson.A, 0, len(c))
		for _, sub := range c {
			subs = append(subs, compileFilter(sub))
		}
		return bson.M{"$or": subs}
	default:
		return bson.M{idKey: bson.M{"$exists": false}}
	}
}

func compileField(f *query.Field) bson.M {
	key := fieldKey(f.Name)
	value := f.Value
	if key == idKey {
		value = encodeIDOperand(f.Op, value)
	}

	switch f.Op {
	case query.OpEq:
		return bson.M{key: value}
	case query.OpNe:
		return bson.M{key: bson.M{"$ne": value}}
	case query.OpGt:
		return bson.M{key: bson.M{"$gt": value}}
	case query.OpGte:
		return bson.M{key: bson.M{"$gte": value}}
	case query.OpLt:
		return bson.M{key: bson.M{"$lt": value}}
	case query.OpLte:
		return bson.M{key: bson.M{"$lte": value}}
	case query.OpIn:
		return bson.M{key: bson.M{"$in": value}}
	case query.OpNin:
		return bson.M{key: bson.M{"$nin": value}}
	case query.OpLike:
		return bson.M{key: bson.M{"$regex": primitive.Regex{Pattern: quoteMeta(value)}}}
	case query.OpRegex, query.OpILike:
		return bson.M{key: bson.M{"$regex": primitive.Regex{Pattern: quoteMeta(value), Options: "i"}}}
	case query.OpNull, query.OpExists:
		isNull, _ := value.(bool)
		if f.Op == query.OpExists {
			isNull = !isNull
		}
		if isNull {
			return bson.M{key: nil}
		}
		return bson.M{key: bson.M{"$ne": nil}}
	default:
		return bson.M{idKey: bson.M{"$exists": false}}
	}
}

func encodeIDOperand(op query.Op, value interface{}) interface{} {
	switch op {
	case query.OpIn, query.OpNin:
		list, _ := value.([]interface{})
		ids := make(bson.A, 0, len(list))
		for _, v := range list {
			ids = append(ids, encodeID(v))
		}
		return ids
	case query.OpNull, query.OpExists:
		return value
	default:
		return encodeID(value)
	}
}

// quoteMeta turns a substring into a pattern matching it literally.
func quoteMeta(v interface{}) string {
	s, _ := v.(string)
	return regexp.QuoteMeta(s)
}

// compileSort compiles the given sort fields. Documents are ordered by their
// identifiers when sort fields are equal.
func compileSort(sorts []query.SortField) bson.D {
	sort := bson.D{}
	hasID := false
	for _, s := range sorts {
		key := fieldKey(s.Field)
		hasID = hasID || key == idKey
		dir := 1
		if s.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: key, Value: dir})
	}
	if !hasID {
		sort = append(sort, bson.E{Key: idKey, Value: 1})
	}
	return sort
}

// compileProjection compiles the given projection.
func compileProjection(fields []string) bson.M {
	if len(fields) == 0 {
		return nil
	}
	projection := bson.M{}
	for _, f := range fields {
		projection[fieldKey(f)] = 1
	}
	return projection
}

// encodeRow converts a row into a document. Null values are not stored so
// that partial unique indexes ignore them.
func encodeRow(row map[string]interface{}) bson.M {
	doc := bson.M{}
	for k, v := range row {
		if v == nil || k == types.FieldID {
			continue
		}
		doc[k] = v
	}
	return doc
}

// decodeRow converts a document into a row holding canonical values.
func decodeRow(doc bson.M) map[string]interface{} {
	row := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if k == idKey {
			k = types.FieldID
		}
		row[k] = toNative(v)
	}
	return row
}

// toNative converts the values decoded by the driver into canonical values.
func toNative(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC()
	case time.Time:
		return val.UTC()
	case int32:
		return int64(val)
	case primitive.D:
		m := make(map[string]interface{}, len(val))
		for _, e := range val {
			m[e.Key] = toNative(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]interface{}, len(val))
		for k, e := range val {
			m[k] = toNative(e)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, e := range val {
			m[k] = toNative(e)
		}
		return m
	case primitive.A:
		s := make([]interface{}, len(val))
		for i, e := range val {
			s[i] = toNative(e)
		}
		return s
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, e := range val {
			s[i] = toNative(e)
		}
		return s
	default:
		return v
	}
}
