package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type companyDocument struct {
	CIK     string `firestore:"cik"`
	Name    string `firestore:"name"`
	Ticker  string `firestore:"ticker"`
	SICCode int64  `firestore:"sic_code"`
}

func companyToDocument(c *model.Company) *companyDocument {
	return &companyDocument{
		CIK:     string(c.CIK),
		Name:    c.Name,
		Ticker:  c.Ticker,
		SICCode: int64(c.SICCode),
	}
}

func companyToModel(doc *companyDocument) *model.Company {
	return &model.Company{
		CIK:     types.CIK(doc.CIK),
		Name:    doc.Name,
		Ticker:  doc.Ticker,
		SICCode: types.SICCode(doc.SICCode),
	}
}

type companyRepository struct {
	*store
}

func (r *companyRepository) Get(ctx context.Context, cik types.CIK) (*model.Company, error) {
	snap, err := r.collection(CollectionCompanies).Doc(string(cik)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "company not found", goerr.V("cik", cik))
		}
		return nil, goerr.Wrap(err, "failed to get company", goerr.V("cik", cik))
	}

	var doc companyDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode company", goerr.V("cik", cik))
	}
	return companyToModel(&doc), nil
}

func (r *companyRepository) GetMany(ctx context.Context, ciks []types.CIK) ([]*model.Company, error) {
	if len(ciks) == 0 {
		return []*model.Company{}, nil
	}

	col := r.collection(CollectionCompanies)
	refs := make([]*firestore.DocumentRef, len(ciks))
	for i, cik := range ciks {
		refs[i] = col.Doc(string(cik))
	}

	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get companies", goerr.V("ciks", ciks))
	}

	result := make([]*model.Company, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var doc companyDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode company", goerr.V("doc_id", snap.Ref.ID))
		}
		result = append(result, companyToModel(&doc))
	}
	return result, nil
}

func (r *companyRepository) Put(ctx context.Context, company *model.Company) error {
	if _, err := r.collection(CollectionCompanies).Doc(string(company.CIK)).Set(ctx, companyToDocument(company)); err != nil {
		return goerr.Wrap(err, "failed to put company", goerr.V("cik", company.CIK))
	}
	return nil
}
