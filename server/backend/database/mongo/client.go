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

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/query"
	"github.com/yorkie-team/folio/server/backend/database"
	"github.com/yorkie-team/folio/server/logging"
)

// Client is a client that connects to Mongo DB and reads or saves rows.
type Client struct {
	config *Config
	client *mongo.Client
}

// Dial creates an instance of Client and dials the given MongoDB.
func Dial(conf *Config) (*Client, error) {
	connectionTimeout, err := conf.ParseConnectionTimeout()
	if err != nil {
		return nil, fmt.Errorf("parse connection timeout: %w", err)
	}
	pingTimeout, err := conf.ParsePingTimeout()
	if err != nil {
		return nil, fmt.Errorf("parse ping timeout: %w", err)
	}
	monitorConf, err := conf.MonitorConfig()
	if err != nil {
		return nil, fmt.Errorf("parse slow query threshold: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(conf.ConnectionURI).
		SetRegistry(NewRegistry())
	if monitor := newCommandMonitor(monitorConf); monitor != nil {
		clientOptions.SetMonitor(monitor)
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	ctxPing, cancelPing := context.WithTimeout(ctx, pingTimeout)
	defer cancelPing()

	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w: %w", database.ErrUnavailable, err)
	}

	logging.DefaultLogger().Infof("MongoDB connected, URI: %s, DB: %s", conf.ConnectionURI, conf.Database)

	return &Client{
		config: conf,
		client: client,
	}, nil
}

// Close all resources of this client.
func (c *Client) Close() error {
	if err := c.client.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("close mongo client: %w", err)
	}

	return nil
}

func (c *Client) collection(name string) *mongo.Collection {
	return c.client.Database(c.config.Database).Collection(name)
}

// EnsureCollection creates the unique indexes of the given collection.
// MongoDB creates collections on the first write.
func (c *Client) EnsureCollection(ctx context.Context, coll *types.Collection) error {
	return ensureIndexes(ctx, c.client.Database(c.config.Database), coll)
}

// Insert inserts the given row and returns its identifier.
func (c *Client) Insert(ctx context.Context, coll *types.Collection, row database.Row) (string, error) {
	id := primitive.NewObjectID()

	doc := encodeRow(row)
	doc[idKey] = id
	if _, err := c.collection(coll.Name).InsertOne(ctx, doc); err != nil {
		return "", translate(coll.Name, "insert", err)
	}

	return id.Hex(), nil
}

// Replace replaces every column of the row of the given identifier.
func (c *Client) Replace(ctx context.Context, coll *types.Collection, id string, row database.Row) error {
	result, err := c.collection(coll.Name).ReplaceOne(ctx, bson.M{
		idKey: encodeID(id),
	}, encodeRow(row))
	if err != nil {
		return translate(coll.Name, "replace", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s of %s: %w", id, coll.Name, database.ErrDocumentNotFound)
	}

	return nil
}

// Select returns the rows matching the given query.
func (c *Client) Select(ctx context.Context, coll *types.Collection, spec *query.Spec) ([]database.Row, error) {
	opts := options.Find().SetSort(compileSort(spec.Sort))
	if spec.Limit > 0 {
		opts.SetLimit(int64(spec.Limit))
	}
	if spec.Offset > 0 {
		opts.SetSkip(int64(spec.Offset))
	}
	if projection := compileProjection(spec.Projection); projection != nil {
		opts.SetProjection(projection)
	}

	cursor, err := c.collection(coll.Name).Find(ctx, compileFilter(spec.Filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name, err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", coll.Name, err)
	}

	rows := make([]database.Row, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, decodeRow(doc))
	}
	return rows, nil
}

// Count returns the number of rows matching the filter of the given query.
func (c *Client) Count(ctx context.Context, coll *types.Collection, spec *query.Spec) (int64, error) {
	count, err := c.collection(coll.Name).CountDocuments(ctx, compileFilter(spec.Filter))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", coll.Name, err)
	}
	return count, nil
}

// Delete deletes the rows of the given identifiers.
func (c *Client) Delete(ctx context.Context, coll *types.Collection, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	objectIDs := make(bson.A, 0, len(ids))
	for _, id := range ids {
		objectIDs = append(objectIDs, encodeID(id))
	}

	result, err := c.collection(coll.Name).DeleteMany(ctx, bson.M{
		idKey: bson.M{"$in": objectIDs},
	})
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", coll.Name, err)
	}
	return result.DeletedCount, nil
}

// translate converts duplicate key errors into validation errors.
func translate(collection, op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return database.NewUniqueViolation(collection, duplicatedColumns(err)...)
	}
	return fmt.Errorf("%s %s: %w", op, collection, err)
}
