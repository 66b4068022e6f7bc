package backend

import (
	"context"
	"fmt"

	fs "cloud.google.com/go/firestore"
	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
	"github.com/suspensionlab/seedtools/internal/firestore"
	"github.com/suspensionlab/seedtools/internal/mongo"
	"github.com/suspensionlab/seedtools/internal/store"
)

// Vars supplies the interpolated defaults used by Flags.
var Vars = kong.Vars{
	"detect_project_id":   fs.DetectProjectID,
	"default_database_id": fs.DefaultDatabaseID,
}

// Flags selects and configures the document store for a run.
type Flags struct {
	Backend       string `help:"Document store backend." enum:"firestore,mongo" default:"firestore"`
	ProjectID     string `help:"GCP project ID. Detected from credentials if not given." env:"GCP_PROJECT" default:"${detect_project_id}"`
	Database      string `help:"Firestore database ID." env:"FIRESTORE_DATABASE" default:"${default_database_id}"`
	MongoURI      string `help:"MongoDB connection URI." env:"MONGODB_URI"`
	MongoDatabase string `help:"MongoDB database name." env:"MONGODB_DATABASE" default:"suspension"`
}

// Open connects to the configured store. The caller owns the returned store and must Close it.
func (f Flags) Open(ctx context.Context) (store.Store, error) {
	switch f.Backend {
	case "", "firestore":
		log.Printf("Connecting to Firestore project %s, database %s", f.ProjectID, f.Database)
		s, err := firestore.NewStore(ctx, f.ProjectID, f.Database)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "mongo":
		log.Printf("Connecting to MongoDB database %s", f.MongoDatabase)
		s, err := mongo.NewStore(ctx, f.MongoURI, f.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, &store.SetupError{Backend: f.Backend, Err: fmt.Errorf("unknown backend")}
}
