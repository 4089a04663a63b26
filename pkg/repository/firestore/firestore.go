package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/interfaces"
	"google.golang.org/api/iterator"
)

// Collection names without prefix. They are also used by the index migration.
const (
	CollectionCompanies  = "companies"
	CollectionFilings    = "filings"
	CollectionRisks      = "risks"
	CollectionThemes     = "themes"
	CollectionBenchmarks = "benchmarks"
	CollectionProfiles   = "profiles"
	CollectionWatches    = "watches"
)

// Firestore `in` queries accept at most 30 values.
const inQueryLimit = 30

type Firestore struct {
	client *firestore.Client
	store  *store

	company   *companyRepository
	filing    *filingRepository
	risk      *riskRepository
	theme     *themeRepository
	benchmark *benchmarkRepository
	profile   *profileRepository
	watch     *watchRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prepends prefix and an underscore to every collection name.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.store.prefix = prefix
	}
}

// New connects to the given Firestore database. An empty databaseID selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	s := &store{client: client}
	f := &Firestore{
		client:    client,
		store:     s,
		company:   &companyRepository{store: s},
		filing:    &filingRepository{store: s},
		risk:      &riskRepository{store: s},
		theme:     &themeRepository{store: s},
		benchmark: &benchmarkRepository{store: s},
		profile:   &profileRepository{store: s},
		watch:     &watchRepository{store: s},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Company() interfaces.CompanyRepository {
	return f.company
}

func (f *Firestore) Filing() interfaces.FilingRepository {
	return f.filing
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *Firestore) Theme() interfaces.ThemeRepository {
	return f.theme
}

func (f *Firestore) Benchmark() interfaces.BenchmarkRepository {
	return f.benchmark
}

func (f *Firestore) Profile() interfaces.ProfileRepository {
	return f.profile
}

func (f *Firestore) Watch() interfaces.WatchRepository {
	return f.watch
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// store is shared by the entity repositories so the prefix option applies to all of them.
type store struct {
	client *firestore.Client
	prefix string
}

func (s *store) collection(name string) *firestore.CollectionRef {
	if s.prefix != "" {
		return s.client.Collection(s.prefix + "_" + name)
	}
	return s.client.Collection(name)
}

// collectDocs decodes every document of iter into T.
func collectDocs[T any](iter *firestore.DocumentIterator) ([]*T, error) {
	defer iter.Stop()

	var result []*T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents")
		}

		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, goerr.Wrap(err, "failed to decode document", goerr.V("doc_id", doc.Ref.ID))
		}
		result = append(result, &v)
	}
	return result, nil
}

// bulkSet writes docs in batches. The writer splits requests at the service limit.
func (s *store) bulkSet(ctx context.Context, col *firestore.CollectionRef, docs map[string]any) error {
	if len(docs) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	defer bw.End()

	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for id, doc := range docs {
		job, err := bw.Set(col.Doc(id), doc)
		if err != nil {
			return goerr.Wrap(err, "failed to add Set operation to bulk writer", goerr.V("doc_id", id))
		}
		jobs = append(jobs, job)
	}
	bw.Flush()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "bulk write failed")
		}
	}
	return nil
}

func (s *store) bulkDelete(ctx context.Context, refs []*firestore.DocumentRef) error {
	if len(refs) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	defer bw.End()

	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bw.Delete(ref)
		if err != nil {
			return goerr.Wrap(err, "failed to add Delete operation to bulk writer", goerr.V("doc_id", ref.ID))
		}
		jobs = append(jobs, job)
	}
	bw.Flush()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "bulk delete failed")
		}
	}
	return nil
}

func chunks[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size])
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
