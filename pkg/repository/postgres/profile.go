package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

const profileColumns = `id, email, COALESCE(name, ''), plan, COALESCE(stripe_customer_id, ''),
	COALESCE(stripe_subscription_id, ''), created_at, updated_at`

type profileRepository struct {
	db db
}

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Plan, &p.StripeCustomerID,
		&p.StripeSubscriptionID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Get(ctx context.Context, id types.UserID) (*model.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, string(id)))
	if err != nil {
		if isNoRows(err) {
			return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V("id", id))
	}
	return p, nil
}

func (r *profileRepository) GetByCustomerID(ctx context.Context, customerID string) (*model.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE stripe_customer_id = $1`, customerID))
	if err != nil {
		if isNoRows(err) {
			return nil, goerr.Wrap(ErrNotFound, "profile not found", goerr.V("customer_id", customerID))
		}
		return nil, goerr.Wrap(err, "failed to get profile", goerr.V("customer_id", customerID))
	}
	return p, nil
}

func (r *profileRepository) Put(ctx context.Context, p *model.Profile) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO profiles (id, email, name, plan, stripe_customer_id, stripe_subscription_id, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, plan = EXCLUDED.plan,
		    stripe_customer_id = EXCLUDED.stripe_customer_id,
		    stripe_subscription_id = EXCLUDED.stripe_subscription_id,
		    updated_at = EXCLUDED.updated_at
	`, string(p.ID), p.Email, p.Name, string(p.Plan.Normalize()), p.StripeCustomerID,
		p.StripeSubscriptionID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return goerr.Wrap(err, "failed to put profile", goerr.V("id", p.ID))
	}
	return nil
}

func (r *profileRepository) Delete(ctx context.Context, id types.UserID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, string(id))
	if err != nil {
		return goerr.Wrap(err, "failed to delete profile", goerr.V("id", id))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(ErrNotFound, "profile not found", goerr.V("id", id))
	}
	return nil
}
