package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suspensionlab/seedtools/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is a store.Store backed by MongoDB. Each collection maps to a MongoDB collection and document IDs are stored in _id.
// Batches run in multi-document transactions, which need a replica set or sharded cluster.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database

	// Now resolves ServerTimestamp placeholders. MongoDB has no server-side equivalent for replacement documents.
	Now func() time.Time
}

// NewStore connects to uri and verifies the connection.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, &store.SetupError{Backend: "mongo", Err: fmt.Errorf("no connection URI given")}
	}
	if database == "" {
		return nil, &store.SetupError{Backend: "mongo", Err: fmt.Errorf("no database name given")}
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &store.SetupError{Backend: "mongo", Err: err}
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, &store.SetupError{Backend: "mongo", Err: err}
	}
	return &Store{Client: client, DB: client.Database(database), Now: time.Now}, nil
}

// Commit applies ops in one transaction, attempted once.
func (s *Store) Commit(ctx context.Context, ops []store.Op) error {
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return err
		}
	}

	session, err := s.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	now := s.now()
	return mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}
		for _, op := range ops {
			if err := s.apply(sc, op, now); err != nil {
				sc.AbortTransaction(context.Background())
				return err
			}
		}
		return sc.CommitTransaction(sc)
	})
}

func (s *Store) apply(ctx context.Context, op store.Op, now time.Time) error {
	col := s.DB.Collection(op.Collection)
	switch op.Kind {
	case store.Set:
		id := op.ID
		if id == "" {
			id = primitive.NewObjectID().Hex()
		}
		_, err := col.ReplaceOne(ctx, bson.M{"_id": id}, document(op.Payload, now), options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to set %s/%s: %w", op.Collection, id, err)
		}
	case store.Delete:
		_, err := col.DeleteOne(ctx, bson.M{"_id": op.ID})
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", op.Path(), err)
		}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	var doc bson.M
	err := s.DB.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.DocumentNotFound(collection + "/" + id)
	}
	if err != nil {
		return nil, err
	}
	delete(doc, "_id")
	return fromBSON(doc), nil
}

func (s *Store) Set(ctx context.Context, collection, id string, payload map[string]interface{}) error {
	return s.apply(ctx, store.SetOp(collection, id, payload), s.now())
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	return s.apply(ctx, store.DeleteOp(collection, id), s.now())
}

func (s *Store) ListIDs(ctx context.Context, collection string) ([]string, error) {
	cur, err := s.DB.Collection(collection).Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("ListIDs: failed to query %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	ids := make([]string, 0)
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("ListIDs: failed to decode document ID in %s: %w", collection, err)
		}
		ids = append(ids, row.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("ListIDs: cursor failed on %s: %w", collection, err)
	}
	return ids, nil
}

func (s *Store) Close() error {
	return s.Client.Disconnect(context.Background())
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func document(payload map[string]interface{}, now time.Time) bson.M {
	return bson.M(store.MapServerTimestamps(payload, func() interface{} { return now }))
}

// fromBSON converts driver-specific nested types back into plain maps and Go times.
func fromBSON(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		switch vv := v.(type) {
		case bson.M:
			out[k] = fromBSON(vv)
		case map[string]interface{}:
			out[k] = fromBSON(vv)
		case bson.D:
			out[k] = fromBSON(vv.Map())
		case primitive.DateTime:
			out[k] = vv.Time()
		default:
			out[k] = vv
		}
	}
	return out
}
