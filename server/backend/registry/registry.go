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

// Package registry holds the schemas of the collections served by a backend.
package registry

import (
	"fmt"
	"sort"

	"github.com/yorkie-team/folio/api/types"
	"github.com/yorkie-team/folio/pkg/errors"
	"github.com/yorkie-team/folio/server/backend/history"
	"github.com/yorkie-team/folio/server/backend/settings"
)

var (
	// ErrCollectionNotFound is returned when the collection is not registered.
	ErrCollectionNotFound = errors.NotFound("collection not found").WithCode("ErrCollectionNotFound")

	// ErrCollectionAlreadyExists is returned when a collection is registered
	// twice.
	ErrCollectionAlreadyExists = errors.AlreadyExists("collection already exists").WithCode("ErrCollectionAlreadyExists")

	// ErrReservedCollection is returned when a collection takes the name of
	// a system collection.
	ErrReservedCollection = errors.InvalidArgument("collection name is reserved").WithCode("ErrReservedCollection")
)

// reservedNames are the names of the system collections sharing the
// database with the content collections.
var reservedNames = map[string]bool{
	history.CollectionName:  true,
	settings.CollectionName: true,
}

// Registry is the set of collection schemas known to a backend. It is built
// at startup and read-only afterwards.
type Registry struct {
	collections map[string]*types.Collection
}

// New creates a registry holding the given collections.
func New(collections ...*types.Collection) (*Registry, error) {
	r := &Registry{collections: make(map[string]*types.Collection)}
	for _, coll := range collections {
		if err := r.register(coll); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(coll *types.Collection) error {
	if err := coll.Validate(); err != nil {
		return err
	}
	if reservedNames[coll.Name] {
		return fmt.Errorf("%s: %w", coll.Name, ErrReservedCollection)
	}
	if _, ok := r.collections[coll.Name]; ok {
		return fmt.Errorf("%s: %w", coll.Name, ErrCollectionAlreadyExists)
	}

	r.collections[coll.Name] = coll
	return nil
}

// Get returns the collection of the given name.
func (r *Registry) Get(name string) (*types.Collection, error) {
	coll, ok := r.collections[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrCollectionNotFound)
	}
	return coll, nil
}

// List returns the registered collections ordered by name.
func (r *Registry) List() []*types.Collection {
	collections := make([]*types.Collection, 0, len(r.collections))
	for _, coll := range r.collections {
		collections = append(collections, coll)
	}
	sort.Slice(collections, func(i, j int) bool {
		return collections[i].Name < collections[j].Name
	})
	return collections
}
