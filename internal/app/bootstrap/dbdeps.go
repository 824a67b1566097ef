// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/remindhub/internal/app/store/docstore"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Docs is always set; the Mongo client and database are nil when the
// memory backend is selected.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Docs          docstore.Store
}
