package mongo

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/lodgeroll/membership/internal/core/ports"
	"github.com/lodgeroll/membership/internal/infrastructure/db/storetest"
)

// Runs only against a live deployment, e.g.
// MONGO_URI=mongodb://localhost:27017 go test ./internal/infrastructure/db/mongo/
func TestStore_Contract(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	storetest.Run(t, func(t *testing.T) ports.DocumentStore {
		s, err := Open(context.Background(), Config{URI: uri, Database: "lodge_test_" + uuid.NewString()[:8]})
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		t.Cleanup(func() {
			_ = s.db.Drop(context.Background())
			_ = s.Close(context.Background())
		})
		if err := s.EnsureIndexes(context.Background()); err != nil {
			t.Fatalf("indexes: %v", err)
		}
		return s
	})
}
