package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lodgeroll/membership/internal/core/domain"
	"github.com/lodgeroll/membership/internal/pkg/docmap"
)

// MongoDB error codes that mean the caller lacks rights.
const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
)

// Store implements ports.DocumentStore with the native MongoDB driver.
// Store-assigned ids are ObjectIDs (returned as hex); keys supplied through
// SetDocumentByKey are kept as string _id values.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) QueryCollection(ctx context.Context, collection, orderBy string) ([]domain.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: orderBy, Value: 1}})
	return s.find(ctx, "query", collection, opts)
}

func (s *Store) GetAll(ctx context.Context, collection string) ([]domain.Document, error) {
	return s.find(ctx, "get_all", collection, options.Find())
}

func (s *Store) find(ctx context.Context, op, collection string, opts *options.FindOptions) ([]domain.Document, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, storeError(op, collection, err)
	}
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, storeError(op, collection, err)
	}

	out := make([]domain.Document, 0, len(raw))
	for _, m := range raw {
		out = append(out, fromMongo(m))
	}
	return out, nil
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (domain.Document, error) {
	var m bson.M
	if err := s.db.Collection(collection).FindOne(ctx, idFilter(id)).Decode(&m); err != nil {
		return nil, storeError("get", collection, err)
	}
	return fromMongo(m), nil
}

func (s *Store) CreateDocument(ctx context.Context, collection string, data domain.Document) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, withoutID(data))
	if err != nil {
		return "", storeError("create", collection, err)
	}
	return idString(res.InsertedID), nil
}

func (s *Store) UpdateDocument(ctx context.Context, collection, id string, partial domain.Document) error {
	fields := withoutID(partial)
	coll := s.db.Collection(collection)
	if len(fields) == 0 {
		// $set refuses an empty document; only confirm existence.
		if err := coll.FindOne(ctx, idFilter(id)).Err(); err != nil {
			return storeError("update", collection, err)
		}
		return nil
	}

	res, err := coll.UpdateOne(ctx, idFilter(id), bson.M{"$set": fields})
	if err != nil {
		return storeError("update", collection, err)
	}
	if res.MatchedCount == 0 {
		return domain.NewStoreError("update", collection, domain.StoreNotFound, fmt.Errorf("id %q", id))
	}
	return nil
}

func (s *Store) SetDocumentByKey(ctx context.Context, collection, key string, data domain.Document) error {
	_, err := s.db.Collection(collection).ReplaceOne(ctx,
		bson.M{"_id": key},
		withoutID(data),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return storeError("set", collection, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return storeError("ping", "", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

// EnsureIndexes creates the indexes the directory and ledger read paths rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := s.db.Collection(domain.CollectionUsers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "display_name", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}
	if _, err := s.db.Collection(domain.CollectionEvents).Indexes().CreateOne(ctx,
		mongo.IndexModel{Keys: bson.D{{Key: "date", Value: 1}}},
	); err != nil {
		return fmt.Errorf("events indexes: %w", err)
	}
	if _, err := s.db.Collection(domain.CollectionAttendance).Indexes().CreateOne(ctx,
		mongo.IndexModel{Keys: bson.D{{Key: "event_id", Value: 1}}},
	); err != nil {
		return fmt.Errorf("attendance indexes: %w", err)
	}
	return nil
}

// idFilter matches either an ObjectID or a string _id, since both forms live
// side by side (store-assigned vs caller-supplied keys).
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	}
	return fmt.Sprint(v)
}

func fromMongo(m bson.M) domain.Document {
	doc := make(domain.Document, len(m))
	for k, v := range m {
		if k == "_id" {
			doc[docmap.IDField] = idString(v)
			continue
		}
		doc[k] = v
	}
	return doc
}

func withoutID(doc domain.Document) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		if k == docmap.IDField || k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}

// storeError classifies a driver error into the store error taxonomy.
func storeError(op, collection string, err error) error {
	kind := domain.StoreNetwork
	var se mongo.ServerError
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		kind = domain.StoreNotFound
	case errors.As(err, &se) && (se.HasErrorCode(codeUnauthorized) || se.HasErrorCode(codeAuthenticationFailed)):
		kind = domain.StorePermissionDenied
	}
	return domain.NewStoreError(op, collection, kind, err)
}
