package repository

import (
	"context"
	"fmt"

	"github.com/Roja8626/tech-mock/internal/common"
	"github.com/Roja8626/tech-mock/internal/domain/model"
)

type AttemptRepository interface {
	Create(ctx context.Context, attempt *model.Attempt) error
	// Take removes the attempt and returns it. A second Take of the same id
	// returns common.ErrNotFound, so each attempt can be submitted once.
	Take(ctx context.Context, id string) (*model.Attempt, error)
	FindByID(ctx context.Context, id string) (*model.Attempt, error)
}

type collectionAttemptRepository struct {
	attempts *Collection[model.Attempt]
}

func NewAttemptRepository(store CollectionStore) AttemptRepository {
	return &collectionAttemptRepository{attempts: NewCollection[model.Attempt](store, KeyAttempts)}
}

// Create stores the attempt. Abandoned attempts that expired before the new
// attempt's CreatedAt are dropped in the same write.
func (r *collectionAttemptRepository) Create(ctx context.Context, attempt *model.Attempt) error {
	return r.attempts.Update(ctx, func(attempts []model.Attempt) ([]model.Attempt, error) {
		kept := attempts[:0]
		for _, a := range attempts {
			if !a.Expired(attempt.CreatedAt) {
				kept = append(kept, a)
			}
		}
		return append(kept, *attempt), nil
	})
}

func (r *collectionAttemptRepository) Take(ctx context.Context, id string) (*model.Attempt, error) {
	var taken *model.Attempt
	err := r.attempts.Update(ctx, func(attempts []model.Attempt) ([]model.Attempt, error) {
		for i := range attempts {
			if attempts[i].ID == id {
				a := attempts[i]
				taken = &a
				return append(attempts[:i], attempts[i+1:]...), nil
			}
		}
		return nil, common.ErrNotFound
	})
	if err != nil {
		return nil, fmt.Errorf("collectionAttemptRepository.Take: %w", err)
	}
	return taken, nil
}

func (r *collectionAttemptRepository) FindByID(ctx context.Context, id string) (*model.Attempt, error) {
	attempts, err := r.attempts.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("collectionAttemptRepository.FindByID: %w", err)
	}
	for i := range attempts {
		if attempts[i].ID == id {
			return &attempts[i], nil
		}
	}
	return nil, common.ErrNotFound
}
