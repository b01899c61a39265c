package repository

import (
	"context"
	"fmt"

	"github.com/Roja8626/tech-mock/internal/common"
	"github.com/Roja8626/tech-mock/internal/domain/model"
)

type ResultRepository interface {
	Create(ctx context.Context, result *model.TestResult) error
	// ListByUser returns the user's results in the order they were stored.
	ListByUser(ctx context.Context, userID string) ([]model.TestResult, error)
	FindByID(ctx context.Context, id string) (*model.TestResult, error)
}

type collectionResultRepository struct {
	results *Collection[model.TestResult]
}

func NewResultRepository(store CollectionStore) ResultRepository {
	return &collectionResultRepository{results: NewCollection[model.TestResult](store, KeyResults)}
}

func (r *collectionResultRepository) Create(ctx context.Context, result *model.TestResult) error {
	return r.results.Update(ctx, func(results []model.TestResult) ([]model.TestResult, error) {
		return append(results, *result), nil
	})
}

func (r *collectionResultRepository) ListByUser(ctx context.Context, userID string) ([]model.TestResult, error) {
	results, err := r.results.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("collectionResultRepository.ListByUser: %w", err)
	}
	out := make([]model.TestResult, 0)
	for _, res := range results {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *collectionResultRepository) FindByID(ctx context.Context, id string) (*model.TestResult, error) {
	results, err := r.results.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("collectionResultRepository.FindByID: %w", err)
	}
	for i := range results {
		if results[i].ID == id {
			return &results[i], nil
		}
	}
	return nil, common.ErrNotFound
}
