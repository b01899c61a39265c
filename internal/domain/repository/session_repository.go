package repository

import (
	"context"
	"fmt"

	"github.com/Roja8626/tech-mock/internal/common"
	"github.com/Roja8626/tech-mock/internal/domain/model"
)

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindByID(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

type collectionSessionRepository struct {
	sessions *Collection[model.Session]
}

func NewSessionRepository(store CollectionStore) SessionRepository {
	return &collectionSessionRepository{sessions: NewCollection[model.Session](store, KeySessions)}
}

// Create stores the session and drops every session that has expired by the
// new session's CreatedAt.
func (r *collectionSessionRepository) Create(ctx context.Context, session *model.Session) error {
	return r.sessions.Update(ctx, func(sessions []model.Session) ([]model.Session, error) {
		kept := sessions[:0]
		for _, s := range sessions {
			if !s.Expired(session.CreatedAt) {
				kept = append(kept, s)
			}
		}
		return append(kept, *session), nil
	})
}

func (r *collectionSessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	sessions, err := r.sessions.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("collectionSessionRepository.FindByID: %w", err)
	}
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], nil
		}
	}
	return nil, common.ErrNotFound
}

// Delete is a no-op for unknown ids.
func (r *collectionSessionRepository) Delete(ctx context.Context, id string) error {
	return r.sessions.Update(ctx, func(sessions []model.Session) ([]model.Session, error) {
		kept := sessions[:0]
		for _, s := range sessions {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		return kept, nil
	})
}
