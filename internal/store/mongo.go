package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store over a MongoDB database, one Mongo collection
// per store collection. Records use string UUIDs as _id.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// EnsureIndex creates a non-unique ascending index on field. Errors are
// returned so callers can decide whether a missing index is fatal.
func (m *MongoStore) EnsureIndex(ctx context.Context, collection, field string) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}, Options: options.Index().SetName(field + "_1")}
	_, err := m.db.Collection(collection).Indexes().CreateOne(ctx, idx)
	return err
}

func (m *MongoStore) Insert(ctx context.Context, collection string, fields Fields, opts ...InsertOption) (string, error) {
	o := applyInsertOptions(opts)
	id := uuid.NewString()
	doc := bson.M{"_id": id}
	for k, v := range fields {
		doc[k] = v
	}
	if o.timestampField != "" {
		// Mongo keeps millisecond precision; truncate so reads match what was written.
		doc[o.timestampField] = time.Now().UTC().Truncate(time.Millisecond)
	}
	if _, err := m.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (m *MongoStore) Query(ctx context.Context, collection, field string, value interface{}) ([]Record, error) {
	cur, err := m.db.Collection(collection).Find(ctx, bson.M{field: value})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Record{}
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, toRecord(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoStore) GetByID(ctx context.Context, collection, id string) (Record, bool, error) {
	var doc bson.M
	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return toRecord(doc), true, nil
}

func (m *MongoStore) UpdateFields(ctx context.Context, collection, id string, fields Fields) error {
	res, err := m.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoStore) Delete(ctx context.Context, collection, id string) error {
	res, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// toRecord converts a decoded document into a Record, mapping BSON-specific
// value types back to plain Go values.
func toRecord(doc bson.M) Record {
	rec := Record{Fields: make(Fields, len(doc))}
	for k, v := range doc {
		if k == "_id" {
			switch id := v.(type) {
			case string:
				rec.ID = id
			case primitive.ObjectID:
				rec.ID = id.Hex()
			}
			continue
		}
		switch tv := v.(type) {
		case primitive.DateTime:
			rec.Fields[k] = tv.Time().UTC()
		default:
			rec.Fields[k] = v
		}
	}
	return rec
}
