package firestore

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type profileDocument struct {
	ID                   string    `firestore:"id"`
	Email                string    `firestore:"email"`
	Name                 string    `firestore:"name"`
	Plan                 string    `firestore:"plan"`
	StripeCustomerID     string    `firestore:"stripe_customer_id"`
	StripeSubscriptionID string    `firestore:"stripe_subscription_id"`
	CreatedAt            time.Time `firestore:"created_at"`
	UpdatedAt            time.Time `firestore:"updated_at"`
}

func profileToDocument(p *model.Profile) *profileDocument {
	return &profileDocument{
		ID:                   string(p.ID),
		Email:                p.Email,
		Name:                 p.Name,
		Plan:                 string(p.Plan),
		StripeCustomerID:     p.StripeCustomerID,
		StripeSubscriptionID: p.StripeSubscriptionID,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func profileToModel(doc *profileDocument) *model.Profile {
	return &model.Profile{
		ID:                   types.UserID(doc.ID),
		Email:                doc.Email,
		Name:                 doc.Name,
		Plan:                 types.PlanID(doc.Plan),
		StripeCustomerID:     doc.StripeCustomerID,
		StripeSubscriptionID: doc.StripeSubscriptionID,
		CreatedAt:            doc.CreatedAt,
		UpdatedAt:            doc.UpdatedAt,
	}
}

type profileRepository struct {
	*store
}

func (r *profileRepository) Get(ctx context.Context, id types.UserID) (*model.Profile, error) {
	snap, err := r.collection(CollectionProfiles).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V("id", id))
	}

	var doc profileDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode profile", goerr.V("id", id))
	}
	return profileToModel(&doc), nil
}

func (r *profileRepository) GetByCustomerID(ctx context.Context, customerID string) (*model.Profile, error) {
	if customerID == "" {
		return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("customer_id", customerID))
	}

	q := r.collection(CollectionProfiles).Where("stripe_customer_id", "==", customerID).Limit(1)
	docs, err := collectDocs[profileDocument](q.Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query profile", goerr.V("customer_id", customerID))
	}
	if len(docs) == 0 {
		return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("customer_id", customerID))
	}
	return profileToModel(docs[0]), nil
}

func (r *profileRepository) Put(ctx context.Context, profile *model.Profile) error {
	if _, err := r.collection(CollectionProfiles).Doc(string(profile.ID)).Set(ctx, profileToDocument(profile)); err != nil {
		return goerr.Wrap(err, "failed to put profile", goerr.V("id", profile.ID))
	}
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, id types.UserID) error {
	ref := r.collection(CollectionProfiles).Doc(string(id))
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "profile not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check profile existence", goerr.V("id", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete profile", goerr.V("id", id))
	}
	return nil
}
