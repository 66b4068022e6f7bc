// Package metadata maintains the version document that describes a seeded collection.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/suspensionlab/seedtools/internal/store"
)

// METADATA_COLLECTION holds one document per versioned collection, keyed by the collection name.
const METADATA_COLLECTION = "metadata"

// DefaultUpdatedBy is recorded as the author of metadata written by the seed tools.
const DefaultUpdatedBy = "seed_script"

// Version describes one seeding of a collection.
type Version struct {
	Version int
	Total   int

	// LastUpdated is set by the store when the document is written.
	LastUpdated time.Time

	Checksum      string
	SourceFile    string
	SourceCreated time.Time
}

// Updater reads and writes the metadata document of a single collection.
// Writes bypass batching: the document is written alone, after the data, and is not atomic with it.
type Updater struct {
	Store      store.Store
	Collection string

	// CountField names the field holding the record count, e.g. "totalProducts".
	CountField  string
	UpdatedBy   string
	Description string
}

// NewUpdater returns an Updater for the metadata of collection.
func NewUpdater(s store.Store, collection, countField, description string) *Updater {
	return &Updater{
		Store:       s,
		Collection:  collection,
		CountField:  countField,
		UpdatedBy:   DefaultUpdatedBy,
		Description: description,
	}
}

func toInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	}
	return 0, false
}

// Read returns the stored metadata, or nil if there is none.
func (u *Updater) Read(ctx context.Context) (*Version, error) {
	doc, err := u.Store.Get(ctx, METADATA_COLLECTION, u.Collection)
	var nf store.DocumentNotFound
	if errors.As(err, &nf) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Read: failed to get metadata for %s: %w", u.Collection, err)
	}

	var v Version
	v.Version, _ = toInt(doc["version"])
	v.Total, _ = toInt(doc[u.CountField])
	v.LastUpdated, _ = doc["lastUpdated"].(time.Time)
	v.Checksum, _ = doc["sourceChecksum"].(string)
	v.SourceFile, _ = doc["sourceFile"].(string)
	v.SourceCreated, _ = doc["sourceCreated"].(time.Time)
	return &v, nil
}

// Current returns the stored version number, or 0 if the collection has never been versioned.
func (u *Updater) Current(ctx context.Context) (int, error) {
	v, err := u.Read(ctx)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	return v.Version, nil
}

// Fields returns the metadata document payload for v.
func (u *Updater) Fields(v Version) map[string]interface{} {
	m := map[string]interface{}{
		"version":     v.Version,
		u.CountField:  v.Total,
		"lastUpdated": store.ServerTimestamp,
		"updatedBy":   u.UpdatedBy,
		"description": u.Description,
	}
	if v.Checksum != "" {
		m["sourceChecksum"] = v.Checksum
	}
	if v.SourceFile != "" {
		m["sourceFile"] = v.SourceFile
	}
	if !v.SourceCreated.IsZero() {
		m["sourceCreated"] = v.SourceCreated
	}
	return m
}

// Write replaces the metadata document.
func (u *Updater) Write(ctx context.Context, v Version) error {
	if err := u.Store.Set(ctx, METADATA_COLLECTION, u.Collection, u.Fields(v)); err != nil {
		return fmt.Errorf("Write: failed to set metadata for %s: %w", u.Collection, err)
	}
	log.Printf("Wrote %s/%s: version %d, %s %d", METADATA_COLLECTION, u.Collection, v.Version, u.CountField, v.Total)
	return nil
}

// Delete removes the metadata document. Deleting absent metadata is not an error.
func (u *Updater) Delete(ctx context.Context) error {
	if err := u.Store.Delete(ctx, METADATA_COLLECTION, u.Collection); err != nil {
		return fmt.Errorf("Delete: failed to delete metadata for %s: %w", u.Collection, err)
	}
	log.Printf("Deleted %s/%s", METADATA_COLLECTION, u.Collection)
	return nil
}
