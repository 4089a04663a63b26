package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

type filingDocument struct {
	AccessionNumber string    `firestore:"accession_number"`
	CIK             string    `firestore:"cik"`
	FilingDate      time.Time `firestore:"filing_date"`
	FormType        string    `firestore:"form_type"`
	FiscalPeriod    string    `firestore:"fiscal_period"`
	SecURL          string    `firestore:"sec_url"`
}

func filingToDocument(f *model.Filing) *filingDocument {
	return &filingDocument{
		AccessionNumber: string(f.AccessionNumber),
		CIK:             string(f.CIK),
		FilingDate:      f.FilingDate,
		FormType:        f.FormType,
		FiscalPeriod:    f.FiscalPeriod,
		SecURL:          f.SecURL,
	}
}

func filingToModel(doc *filingDocument) *model.Filing {
	return &model.Filing{
		AccessionNumber: types.AccessionNumber(doc.AccessionNumber),
		CIK:             types.CIK(doc.CIK),
		FilingDate:      doc.FilingDate,
		FormType:        doc.FormType,
		FiscalPeriod:    doc.FiscalPeriod,
		SecURL:          doc.SecURL,
	}
}

type filingRepository struct {
	*store
}

func (r *filingRepository) ListByCompany(ctx context.Context, cik types.CIK, formType string, limit int) ([]*model.Filing, error) {
	q := r.collection(CollectionFilings).
		Where("cik", "==", string(cik)).
		Where("form_type", "==", formType).
		OrderBy("filing_date", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	docs, err := collectDocs[filingDocument](q.Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list filings", goerr.V("cik", cik), goerr.V("form_type", formType))
	}

	result := make([]*model.Filing, len(docs))
	for i, doc := range docs {
		result[i] = filingToModel(doc)
	}
	return result, nil
}

func (r *filingRepository) GetMany(ctx context.Context, accessions []types.AccessionNumber) ([]*model.Filing, error) {
	if len(accessions) == 0 {
		return []*model.Filing{}, nil
	}

	col := r.collection(CollectionFilings)
	refs := make([]*firestore.DocumentRef, len(accessions))
	for i, acc := range accessions {
		refs[i] = col.Doc(string(acc))
	}

	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get filings")
	}

	result := make([]*model.Filing, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var doc filingDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode filing", goerr.V("doc_id", snap.Ref.ID))
		}
		result = append(result, filingToModel(&doc))
	}
	return result, nil
}

func (r *filingRepository) Put(ctx context.Context, filing *model.Filing) error {
	ref := r.collection(CollectionFilings).Doc(string(filing.AccessionNumber))
	if _, err := ref.Set(ctx, filingToDocument(filing)); err != nil {
		return goerr.Wrap(err, "failed to put filing", goerr.V("accession_number", filing.AccessionNumber))
	}
	return nil
}
