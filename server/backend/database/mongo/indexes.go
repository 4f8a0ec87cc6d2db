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
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/query"
)

const (
	// uniqueIndexPrefix is the prefix of the names of unique indexes.
	uniqueIndexPrefix = "uniq"

	// indexNameSeparator separates the columns in the names of indexes.
	indexNameSeparator = "__"
)

// dupKeyIndexPattern finds the index name in duplicate key errors.
var dupKeyIndexPattern = regexp.MustCompile(`index: (\S+) dup key`)

type collectionInfo struct {
	name    string
	indexes []mongo.IndexModel
}

// collectionInfoOf returns the indexes of the given collection. Unique
// indexes only cover documents holding every column of the key, so missing
// values never conflict.
func collectionInfoOf(coll *types.Collection) collectionInfo {
	fields := query.FieldMapOf(coll)

	info := collectionInfo{name: coll.Name}
	for _, key := range coll.UniqueKeys() {
		keys := bson.D{}
		partial := bson.M{}
		var cols []string
		for _, name := range key {
			col := fieldKey(fields.Physical(name))
			cols = append(cols, col)
			keys = append(keys, bson.E{Key: col, Value: 1})
			partial[col] = bson.M{"$exists": true}
		}

		info.indexes = append(info.indexes, mongo.IndexModel{
			Keys: keys,
			Options: options.Index().
				SetName(indexName(cols)).
				SetUnique(true).
				SetPartialFilterExpression(partial),
		})
	}
	return info
}

// indexName returns the name of the unique index on the given columns.
func indexName(cols []string) string {
	return uniqueIndexPrefix + indexNameSeparator + strings.Join(cols, indexNameSeparator)
}

// indexColumns returns the columns of the unique index of the given name.
func indexColumns(name string) []string {
	if !strings.HasPrefix(name, uniqueIndexPrefix+indexNameSeparator) {
		return nil
	}
	cols := strings.Split(strings.TrimPrefix(name, uniqueIndexPrefix+indexNameSeparator), indexNameSeparator)
	for i, col := range cols {
		if col == idKey {
			cols[i] = types.FieldID
		}
	}
	return cols
}

// duplicatedColumns returns the columns of the unique index violated by the
// given error.
func duplicatedColumns(err error) []string {
	matches := dupKeyIndexPattern.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return nil
	}
	return indexColumns(matches[1])
}

// ensureIndexes creates the unique indexes of the given collection.
func ensureIndexes(ctx context.Context, db *mongo.Database, coll *types.Collection) error {
	info := collectionInfoOf(coll)
	if len(info.indexes) == 0 {
		return nil
	}

	if _, err := db.Collection(info.name).Indexes().CreateMany(
		ctx,
		info.indexes,
	); err != nil {
		return fmt.Errorf("create indexes of %s: %w", info.name, err)
	}
	return nil
}
