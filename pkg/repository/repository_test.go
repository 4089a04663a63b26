package repository_test

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"github.com/vanerisk/vane/pkg/repository/firestore"
	"github.com/vanerisk/vane/pkg/repository/memory"
	"github.com/vanerisk/vane/pkg/repository/postgres"
)

func newMemoryRepository(t *testing.T) interfaces.Repository {
	t.Helper()
	return memory.New()
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

// Postgres tests share one database, so every test uses fresh random ids.
func newPostgresRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	repo, err := postgres.New(ctx, dsn)
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Migrate(ctx)).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

var backends = []struct {
	name    string
	newRepo func(t *testing.T) interfaces.Repository
}{
	{"Memory", newMemoryRepository},
	{"Firestore", newFirestoreRepository},
	{"Postgres", newPostgresRepository},
}

func forEachBackend(t *testing.T, run func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			run(t, b.newRepo)
		})
	}
}

var seq atomic.Int64

// uniq returns a numeric value of at most ten digits, unique within the test process.
func uniq() string {
	return fmt.Sprintf("%d%04d", time.Now().UnixNano()%1_000_000, seq.Add(1)%10_000)
}
