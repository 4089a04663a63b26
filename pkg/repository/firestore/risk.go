package firestore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
	"google.golang.org/api/iterator"
)

type riskDocument struct {
	ID              string    `firestore:"risk_id"`
	AccessionNumber string    `firestore:"accession_number"`
	Title           string    `firestore:"risk_title"`
	Summary         string    `firestore:"risk_summary"`
	VerbatimQuote   string    `firestore:"verbatim_quote"`
	Category        string    `firestore:"category"`
	Severity        string    `firestore:"severity"`
	ThemeID         string    `firestore:"theme_id"`
	Position        int64     `firestore:"position"`
	CreatedAt       time.Time `firestore:"created_at"`
}

func riskToDocument(r *model.Risk) *riskDocument {
	return &riskDocument{
		ID:              r.ID,
		AccessionNumber: string(r.AccessionNumber),
		Title:           r.Title,
		Summary:         r.Summary,
		VerbatimQuote:   r.VerbatimQuote,
		Category:        r.Category,
		Severity:        r.Severity.String(),
		ThemeID:         string(r.ThemeID),
		Position:        int64(r.Position),
		CreatedAt:       r.CreatedAt,
	}
}

func riskToModel(doc *riskDocument) *model.Risk {
	return &model.Risk{
		ID:              doc.ID,
		AccessionNumber: types.AccessionNumber(doc.AccessionNumber),
		Title:           doc.Title,
		Summary:         doc.Summary,
		VerbatimQuote:   doc.VerbatimQuote,
		Category:        doc.Category,
		Severity:        types.ParseSeverity(doc.Severity),
		ThemeID:         types.ThemeID(doc.ThemeID),
		Position:        int(doc.Position),
		CreatedAt:       doc.CreatedAt,
	}
}

type riskRepository struct {
	*store
}

func (r *riskRepository) ListByFilings(ctx context.Context, accessions []types.AccessionNumber) ([]*model.Risk, error) {
	order := make(map[types.AccessionNumber]int, len(accessions))
	keys := make([]string, 0, len(accessions))
	for i, acc := range accessions {
		if _, dup := order[acc]; dup {
			continue
		}
		order[acc] = i
		keys = append(keys, string(acc))
	}

	var result []*model.Risk
	for _, batch := range chunks(keys, inQueryLimit) {
		q := r.collection(CollectionRisks).Where("accession_number", "in", batch)
		docs, err := collectDocs[riskDocument](q.Documents(ctx))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list risks by filings", goerr.V("accessions", batch))
		}
		for _, doc := range docs {
			result = append(result, riskToModel(doc))
		}
	}

	slices.SortFunc(result, func(a, b *model.Risk) int {
		return cmp.Or(
			cmp.Compare(order[a.AccessionNumber], order[b.AccessionNumber]),
			cmp.Compare(a.Position, b.Position),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return result, nil
}

func (r *riskRepository) ListByTheme(ctx context.Context, themeID types.ThemeID, limit int) ([]*model.Risk, error) {
	q := r.collection(CollectionRisks).
		Where("theme_id", "==", string(themeID)).
		OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	docs, err := collectDocs[riskDocument](q.Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks by theme", goerr.V("theme_id", themeID))
	}

	result := make([]*model.Risk, len(docs))
	for i, doc := range docs {
		result[i] = riskToModel(doc)
	}
	return result, nil
}

func (r *riskRepository) ListThemeIDs(ctx context.Context) ([]types.ThemeID, error) {
	iter := r.collection(CollectionRisks).Select("theme_id").Documents(ctx)
	defer iter.Stop()

	seen := make(map[types.ThemeID]struct{})
	var result []types.ThemeID
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risk themes")
		}

		raw, err := doc.DataAt("theme_id")
		if err != nil {
			continue
		}
		s, ok := raw.(string)
		if !ok || s == "" {
			continue
		}
		id := types.ThemeID(s)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	slices.Sort(result)
	return result, nil
}

func (r *riskRepository) PutMany(ctx context.Context, risks []*model.Risk) error {
	docs := make(map[string]any, len(risks))
	for _, risk := range risks {
		docs[risk.ID] = riskToDocument(risk)
	}
	if err := r.bulkSet(ctx, r.collection(CollectionRisks), docs); err != nil {
		return goerr.Wrap(err, "failed to put risks", goerr.V("count", len(risks)))
	}
	return nil
}
