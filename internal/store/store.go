package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the write operations a Store can apply.
type Kind int

const (
	// Set creates or overwrites a document.
	Set Kind = iota
	// Delete removes a document. Deleting an absent document is a no-op.
	Delete
)

func (k Kind) String() string {
	switch k {
	case Set:
		return "set"
	case Delete:
		return "delete"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type sentinel int

// ServerTimestamp is a payload value placeholder that backends replace with their own commit time.
const ServerTimestamp sentinel = 1

func (s sentinel) String() string {
	return "ServerTimestamp"
}

// Op is a single logical write against a named document in a named collection.
type Op struct {
	Kind       Kind
	Collection string

	// ID is the document identifier. An empty ID on a Set asks the store to generate one.
	ID string

	// Payload holds the document fields for a Set. It is ignored for a Delete.
	Payload map[string]interface{}
}

// SetOp builds a Set operation.
func SetOp(collection, id string, payload map[string]interface{}) Op {
	return Op{Kind: Set, Collection: collection, ID: id, Payload: payload}
}

// DeleteOp builds a Delete operation.
func DeleteOp(collection, id string) Op {
	return Op{Kind: Delete, Collection: collection, ID: id}
}

// Path returns the slash-separated document path, or the collection path with a trailing slash if the ID is not yet known.
func (o Op) Path() string {
	return o.Collection + "/" + o.ID
}

func (o Op) String() string {
	if o.Kind == Delete {
		return fmt.Sprintf("%s %s", o.Kind, o.Path())
	}
	keys := make([]string, 0, len(o.Payload))
	for k := range o.Payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s %s {%s}", o.Kind, o.Path(), strings.Join(keys, ", "))
}

// Validate reports whether the operation can be submitted to a store.
func (o Op) Validate() error {
	if o.Collection == "" {
		return fmt.Errorf("%s: collection is empty", o.Kind)
	}
	switch o.Kind {
	case Set:
		if o.Payload == nil {
			return fmt.Errorf("%s %s: payload is nil", o.Kind, o.Path())
		}
	case Delete:
		if o.ID == "" {
			return fmt.Errorf("%s %s: document ID is empty", o.Kind, o.Path())
		}
	default:
		return fmt.Errorf("unknown operation kind %d", int(o.Kind))
	}
	return nil
}

// Committer applies a group of operations atomically: either all of them are applied or none are.
type Committer interface {
	Commit(ctx context.Context, ops []Op) error
}

// Lister enumerates the identifiers of every document in a collection.
type Lister interface {
	ListIDs(ctx context.Context, collection string) ([]string, error)
}

// Store is a remote document database scoped to a single seeding run.
type Store interface {
	Committer
	Lister

	// Get returns the fields of a document, or a DocumentNotFound error if it does not exist.
	Get(ctx context.Context, collection, id string) (map[string]interface{}, error)
	// Set creates or overwrites a single document outside of any batch.
	Set(ctx context.Context, collection, id string, payload map[string]interface{}) error
	// Delete removes a single document outside of any batch.
	Delete(ctx context.Context, collection, id string) error

	// Close releases the connection to the store.
	Close() error
}

// DocumentNotFound is returned by Store.Get for absent documents.
type DocumentNotFound string

func (e DocumentNotFound) Error() string {
	return fmt.Sprintf("document %s not found", string(e))
}

// SetupError is returned when a store connection cannot be established.
type SetupError struct {
	Backend string
	Err     error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("unable to set up %s store: %v", e.Backend, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
