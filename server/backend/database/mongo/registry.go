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
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonoptions"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var (
	tString = reflect.TypeOf("")
	tTime   = reflect.TypeOf(time.Time{})
	tMap    = reflect.TypeOf(map[string]interface{}{})
	tSlice  = reflect.TypeOf([]interface{}{})
)

// NewRegistry returns a new registry decoding the values of rows into the
// canonical Go types: object ids into hex strings, datetimes into UTC times,
// documents into maps and arrays into slices.
func NewRegistry() *bsoncodec.Registry {
	rb := bsoncodec.NewRegistryBuilder()

	bsoncodec.DefaultValueEncoders{}.RegisterDefaultEncoders(rb)
	bsoncodec.DefaultValueDecoders{}.RegisterDefaultDecoders(rb)
	bson.PrimitiveCodecs{}.RegisterPrimitiveCodecs(rb)

	// Register the decoder for ObjectID
	rb.RegisterTypeMapEntry(bsontype.ObjectID, tString)
	rb.RegisterTypeDecoder(
		tString,
		bsoncodec.NewStringCodec(bsonoptions.StringCodec().SetDecodeObjectIDAsHex(true)),
	)

	// Register the decoder for DateTime
	rb.RegisterTypeMapEntry(bsontype.DateTime, tTime)
	rb.RegisterTypeDecoder(
		tTime,
		bsoncodec.NewTimeCodec(bsonoptions.TimeCodec().SetUseLocalTimeZone(false)),
	)

	rb.RegisterTypeMapEntry(bsontype.EmbeddedDocument, tMap)
	rb.RegisterTypeMapEntry(bsontype.Array, tSlice)

	return rb.Build()
}
