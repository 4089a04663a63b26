package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/vanerisk/vane/pkg/domain/model"
	"github.com/vanerisk/vane/pkg/domain/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type watchDocument struct {
	ID        string    `firestore:"id"`
	UserID    string    `firestore:"user_id"`
	CIK       string    `firestore:"cik"`
	CreatedAt time.Time `firestore:"created_at"`
}

func watchToModel(doc *watchDocument) *model.Watch {
	return &model.Watch{
		ID:        types.WatchID(doc.ID),
		UserID:    types.UserID(doc.UserID),
		CIK:       types.CIK(doc.CIK),
		CreatedAt: doc.CreatedAt,
	}
}

type watchRepository struct {
	*store
}

// Create stores the watch in a transaction so a user cannot watch the same company twice.
func (r *watchRepository) Create(ctx context.Context, watch *model.Watch) error {
	col := r.collection(CollectionWatches)
	dupQuery := col.Where("user_id", "==", string(watch.UserID)).Where("cik", "==", string(watch.CIK)).Limit(1)
	doc := &watchDocument{
		ID:        string(watch.ID),
		UserID:    string(watch.UserID),
		CIK:       string(watch.CIK),
		CreatedAt: watch.CreatedAt,
	}

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(dupQuery).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to check existing watch")
		}
		if len(existing) > 0 {
			return goerr.Wrap(ErrAlreadyExists, "company already watched",
				goerr.V("user_id", watch.UserID), goerr.V("cik", watch.CIK))
		}
		return tx.Create(col.Doc(doc.ID), doc)
	})
	if err != nil {
		return goerr.Wrap(err, "failed to create watch", goerr.V("id", watch.ID))
	}
	return nil
}

func (r *watchRepository) Get(ctx context.Context, userID types.UserID, id types.WatchID) (*model.Watch, error) {
	snap, err := r.collection(CollectionWatches).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "watch not found", goerr.V("id", id), goerr.V("user_id", userID))
		}
		return nil, goerr.Wrap(err, "failed to get watch", goerr.V("id", id))
	}

	var doc watchDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode watch", goerr.V("id", id))
	}
	if doc.UserID != string(userID) {
		return nil, goerr.Wrap(ErrNotFound, "watch not found", goerr.V("id", id), goerr.V("user_id", userID))
	}
	return watchToModel(&doc), nil
}

func (r *watchRepository) List(ctx context.Context, userID types.UserID) ([]*model.Watch, error) {
	q := r.collection(CollectionWatches).
		Where("user_id", "==", string(userID)).
		OrderBy("created_at", firestore.Desc)

	docs, err := collectDocs[watchDocument](q.Documents(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list watches", goerr.V("user_id", userID))
	}

	result := make([]*model.Watch, len(docs))
	for i, doc := range docs {
		result[i] = watchToModel(doc)
	}
	return result, nil
}

func (r *watchRepository) Delete(ctx context.Context, userID types.UserID, id types.WatchID) error {
	if _, err := r.Get(ctx, userID, id); err != nil {
		return err
	}
	if _, err := r.collection(CollectionWatches).Doc(string(id)).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete watch", goerr.V("id", id))
	}
	return nil
}

func (r *watchRepository) DeleteAll(ctx context.Context, userID types.UserID) error {
	snaps, err := r.collection(CollectionWatches).Where("user_id", "==", string(userID)).Select().Documents(ctx).GetAll()
	if err != nil {
		return goerr.Wrap(err, "failed to list watches for deletion", goerr.V("user_id", userID))
	}

	refs := make([]*firestore.DocumentRef, len(snaps))
	for i, snap := range snaps {
		refs[i] = snap.Ref
	}
	if err := r.bulkDelete(ctx, refs); err != nil {
		return goerr.Wrap(err, "failed to delete watches", goerr.V("user_id", userID))
	}
	return nil
}
