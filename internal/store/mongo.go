package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoStore maps every table onto a MongoDB collection of the configured database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore wraps an already connected client.
func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database)}
}

func (s *MongoStore) CreateTable(ctx context.Context, name string) error {
	if err := ValidateTable(name); err != nil {
		return err
	}
	names, err := s.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return mongoErr("list collections", err)
	}
	if len(names) > 0 {
		return nil
	}
	if err := s.db.CreateCollection(ctx, name); err != nil {
		var cmdErr mongo.CommandError
		// NamespaceExists: another process created it in between.
		if errors.As(err, &cmdErr) && cmdErr.Code == 48 {
			return nil
		}
		return mongoErr("create collection", err)
	}
	return nil
}

func (s *MongoStore) Insert(ctx context.Context, table string, record Record) error {
	if err := ValidateTable(table); err != nil {
		return err
	}
	if _, err := s.db.Collection(table).InsertOne(ctx, bson.M(record.Clone())); err != nil {
		return mongoErr("insert", err)
	}
	return nil
}

func (s *MongoStore) Find(ctx context.Context, table string, filter Filter) ([]Record, error) {
	if err := checkQuery(table, filter); err != nil {
		return nil, err
	}
	opts := options.Find().
		SetProjection(bson.M{"_id": 0}).
		SetSort(bson.D{{Key: "$natural", Value: 1}})

	cur, err := s.db.Collection(table).Find(ctx, toBSON(filter), opts)
	if err != nil {
		return nil, mongoErr("find", err)
	}
	defer cur.Close(ctx)

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mongoErr("decode", err)
	}
	out := make([]Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, Record(doc))
	}
	return out, nil
}

func (s *MongoStore) FindOne(ctx context.Context, table string, filter Filter) (Record, error) {
	if err := checkQuery(table, filter); err != nil {
		return nil, err
	}
	opts := options.FindOne().
		SetProjection(bson.M{"_id": 0}).
		SetSort(bson.D{{Key: "$natural", Value: 1}})

	var doc bson.M
	err := s.db.Collection(table).FindOne(ctx, toBSON(filter), opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, mongoErr("find one", err)
	}
	return Record(doc), nil
}

func (s *MongoStore) Update(ctx context.Context, table string, filter Filter, patch Record) (int64, error) {
	if err := checkQuery(table, filter); err != nil {
		return 0, err
	}
	if len(patch) == 0 {
		n, err := s.db.Collection(table).CountDocuments(ctx, toBSON(filter))
		if err != nil {
			return 0, mongoErr("count", err)
		}
		return n, nil
	}
	res, err := s.db.Collection(table).UpdateMany(ctx, toBSON(filter), bson.M{"$set": bson.M(patch)})
	if err != nil {
		return 0, mongoErr("update", err)
	}
	return res.MatchedCount, nil
}

func (s *MongoStore) Delete(ctx context.Context, table string, filter Filter) (int64, error) {
	if err := checkQuery(table, filter); err != nil {
		return 0, err
	}
	res, err := s.db.Collection(table).DeleteMany(ctx, toBSON(filter))
	if err != nil {
		return 0, mongoErr("delete", err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) DeleteOne(ctx context.Context, table string, filter Filter) (int64, error) {
	if err := checkQuery(table, filter); err != nil {
		return 0, err
	}
	res, err := s.db.Collection(table).DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return 0, mongoErr("delete one", err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureUniqueIndex creates a unique index on field. Used for account emails.
// Documents lacking the field are left out of the index.
func (s *MongoStore) EnsureUniqueIndex(ctx context.Context, table, field string) error {
	if err := checkQuery(table, Filter{field: ""}); err != nil {
		return err
	}
	_, err := s.db.Collection(table).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{field: bson.M{"$exists": true}}),
	})
	if err != nil {
		return mongoErr("create index", err)
	}
	return nil
}

// toBSON turns equality terms into a query. Plain {k: v} would also match
// arrays holding v, so array fields are excluded explicitly.
func toBSON(filter Filter) bson.M {
	out := make(bson.M, len(filter))
	for k, v := range filter {
		out[k] = bson.M{"$eq": v, "$not": bson.M{"$type": "array"}}
	}
	return out
}

func mongoErr(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("mongo %s: %w", op, ErrDuplicate)
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return unavailable(op, err)
	}
	return fmt.Errorf("mongo %s: %w", op, err)
}
