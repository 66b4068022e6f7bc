package firestore

import (
	"context"
	"fmt"

	fs "cloud.google.com/go/firestore"
	"github.com/suspensionlab/seedtools/internal/store"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store is a store.Store backed by Cloud Firestore.
type Store struct {
	Client *fs.Client
}

// NewStore connects to the given project and database. An empty database means the default database.
func NewStore(ctx context.Context, projectID, databaseID string) (*Store, error) {
	if projectID == "" {
		return nil, &store.SetupError{Backend: "firestore", Err: fmt.Errorf("no project ID given")}
	}
	var client *fs.Client
	var err error
	if databaseID == "" || databaseID == fs.DefaultDatabaseID {
		client, err = fs.NewClient(ctx, projectID)
	} else {
		client, err = fs.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, &store.SetupError{Backend: "firestore", Err: err}
	}
	return &Store{Client: client}, nil
}

func (s *Store) ref(op store.Op) *fs.DocumentRef {
	col := s.Client.Collection(op.Collection)
	if op.ID == "" {
		return col.NewDoc()
	}
	return col.Doc(op.ID)
}

// Commit applies ops in a single transaction. Firestore caps a transaction at 500 writes.
// The transaction is attempted once: retrying is left to the caller.
func (s *Store) Commit(ctx context.Context, ops []store.Op) error {
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return err
		}
	}
	return s.Client.RunTransaction(ctx, func(c context.Context, t *fs.Transaction) error {
		for _, op := range ops {
			var err error
			switch op.Kind {
			case store.Set:
				err = t.Set(s.ref(op), fields(op.Payload))
			case store.Delete:
				err = t.Delete(s.ref(op))
			}
			if err != nil {
				return err
			}
		}
		return nil
	}, fs.MaxAttempts(1))
}

// Get returns the fields of a document.
func (s *Store) Get(ctx context.Context, collection, id string) (map[string]interface{}, error) {
	snap, err := s.Client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, store.DocumentNotFound(collection + "/" + id)
	}
	if err != nil {
		return nil, err
	}
	return snap.Data(), nil
}

func (s *Store) Set(ctx context.Context, collection, id string, payload map[string]interface{}) error {
	_, err := s.ref(store.SetOp(collection, id, payload)).Set(ctx, fields(payload))
	return err
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.Client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

// ListIDs pages through every document reference in the collection, including documents that only hold subcollections.
func (s *Store) ListIDs(ctx context.Context, collection string) ([]string, error) {
	ids := make([]string, 0)
	iter := s.Client.Collection(collection).DocumentRefs(ctx)
	for {
		ref, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListIDs: failed iterating %s: %w", collection, err)
		}
		ids = append(ids, ref.ID)
	}
	return ids, nil
}

func (s *Store) Close() error {
	return s.Client.Close()
}

func fields(payload map[string]interface{}) map[string]interface{} {
	return store.MapServerTimestamps(payload, func() interface{} { return fs.ServerTimestamp })
}
