package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
)

type watchRepository struct {
	db db
}

func scanWatch(row pgx.Row) (*model.Watch, error) {
	var w model.Watch
	if err := row.Scan(&w.ID, &w.UserID, &w.CIK, &w.CreatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *watchRepository) Create(ctx context.Context, w *model.Watch) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_watches (id, user_id, cik, created_at) VALUES ($1, $2, $3, $4)`,
		string(w.ID), string(w.UserID), string(w.CIK), w.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return goerr.Wrap(ErrAlreadyExists, "company already watched",
				goerr.V("user_id", w.UserID), goerr.V("cik", w.CIK))
		}
		return goerr.Wrap(err, "failed to create watch", goerr.V("id", w.ID))
	}
	return nil
}

func (r *watchRepository) Get(ctx context.Context, userID types.UserID, id types.WatchID) (*model.Watch, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(ErrNotFound, "watch not found", goerr.V("id", id), goerr.V("user_id", userID))
	}

	w, err := scanWatch(r.db.QueryRow(ctx,
		`SELECT id::text, user_id, cik, created_at FROM user_watches WHERE id = $1 AND user_id = $2`,
		string(id), string(userID)))
	if err != nil {
		if isNoRows(err) {
			return nil, goerr.Wrap(ErrNotFound, "watch not found", goerr.V("id", id), goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to get watch", goerr.V("id", id))
	}
	return w, nil
}

func (r *watchRepository) List(ctx context.Context, userID types.UserID) ([]*model.Watch, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id::text, user_id, cik, created_at FROM user_watches WHERE user_id = $1 ORDER BY created_at DESC, id`,
		string(userID))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query watches", goerr.V("user_id", userID))
	}

	watches, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Watch, error) {
		return scanWatch(row)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan watches", goerr.V("user_id", userID))
	}
	return watches, nil
}

func (r *watchRepository) Delete(ctx context.Context, userID types.UserID, id types.WatchID) error {
	if err := id.Validate(); err != nil {
		return goerr.Wrap(ErrNotFound, "watch not found", goerr.V("id", id), goerr.V("user_id", userID))
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM user_watches WHERE id = $1 AND user_id = $2`, string(id), string(userID))
	if err != nil {
		return goerr.Wrap(err, "failed to delete watch", goerr.V("id", id))
	}
	if tag.RowsAffected() == 0 {
		return goerr.Wrap(ErrNotFound, "watch not found", goerr.V("id", id), goerr.V("user_id", userID))
	}
	return nil
}

func (r *watchRepository) DeleteAll(ctx context.Context, userID types.UserID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM user_watches WHERE user_id = $1`, string(userID)); err != nil {
		return goerr.Wrap(err, "failed to delete watches", goerr.V("user_id", userID))
	}
	return nil
}
