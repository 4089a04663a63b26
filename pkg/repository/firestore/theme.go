package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type themeDocument struct {
	ID          string `firestore:"theme_id"`
	Name        string `firestore:"theme_name"`
	Description string `firestore:"description"`
}

type themeRepository struct {
	*store
}

func (r *themeRepository) Get(ctx context.Context, id types.ThemeID) (*model.Theme, error) {
	snap, err := r.collection(CollectionThemes).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "theme not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get theme", goerr.V("id", id))
	}

	var doc themeDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode theme", goerr.V("id", id))
	}
	return &model.Theme{ID: types.ThemeID(doc.ID), Name: doc.Name, Description: doc.Description}, nil
}

func (r *themeRepository) List(ctx context.Context) ([]*model.Theme, error) {
	docs, err := collectDocs[themeDocument](r.collection(CollectionThemes).OrderBy("theme_id", firestore.Asc).Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list themes")
	}

	result := make([]*model.Theme, len(docs))
	for i, doc := range docs {
		result[i] = &model.Theme{ID: types.ThemeID(doc.ID), Name: doc.Name, Description: doc.Description}
	}
	return result, nil
}

func (r *themeRepository) Put(ctx context.Context, theme *model.Theme) error {
	doc := &themeDocument{ID: string(theme.ID), Name: theme.Name, Description: theme.Description}
	if _, err := r.collection(CollectionThemes).Doc(string(theme.ID)).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put theme", goerr.V("id", theme.ID))
	}
	return nil
}

type benchmarkDocument struct {
	SICCode int64  `firestore:"sic_code"`
	ThemeID string `firestore:"theme_id"`
}

type benchmarkRepository struct {
	*store
}

func (r *benchmarkRepository) ListThemeIDs(ctx context.Context, sic types.SICCode) ([]types.ThemeID, error) {
	q := r.collection(CollectionBenchmarks).Where("sic_code", "==", int64(sic))
	docs, err := collectDocs[benchmarkDocument](q.Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list benchmarks", goerr.V("sic_code", sic))
	}

	result := make([]types.ThemeID, len(docs))
	for i, doc := range docs {
		result[i] = types.ThemeID(doc.ThemeID)
	}
	return result, nil
}

func (r *benchmarkRepository) Put(ctx context.Context, b *model.IndustryBenchmark) error {
	docID := fmt.Sprintf("%d_%s", b.SICCode, b.ThemeID)
	doc := &benchmarkDocument{SICCode: int64(b.SICCode), ThemeID: string(b.ThemeID)}
	if _, err := r.collection(CollectionBenchmarks).Doc(docID).Set(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to put benchmark", goerr.V("sic_code", b.SICCode), goerr.V("theme_id", b.ThemeID))
	}
	return nil
}
