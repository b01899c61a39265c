package repository

import (
	"context"
	"fmt"

	"github.com/Roja8626/tech-mock/internal/common"
	"github.com/Roja8626/tech-mock/internal/domain/model"
)

type QuestionRepository interface {
	// List returns the stored bank and whether the bank was ever written.
	List(ctx context.Context) ([]model.Question, bool, error)
	// ListOrSeed writes seed if the bank was never written, then returns the bank.
	ListOrSeed(ctx context.Context, seed []model.Question) ([]model.Question, error)
	FindByID(ctx context.Context, id string) (*model.Question, error)
	Append(ctx context.Context, qs []model.Question) error
	ReplaceAll(ctx context.Context, qs []model.Question) error
	// Delete removes the first question with the given id and reports whether one matched.
	Delete(ctx context.Context, id string) (bool, error)
}

type collectionQuestionRepository struct {
	questions *Collection[model.Question]
}

func NewQuestionRepository(store CollectionStore) QuestionRepository {
	return &collectionQuestionRepository{questions: NewCollection[model.Question](store, KeyQuestions)}
}

func (r *collectionQuestionRepository) List(ctx context.Context) ([]model.Question, bool, error) {
	qs, exists, err := r.questions.ReadExisting(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("collectionQuestionRepository.List: %w", err)
	}
	return qs, exists, nil
}

func (r *collectionQuestionRepository) ListOrSeed(ctx context.Context, seed []model.Question) ([]model.Question, error) {
	qs, err := r.questions.InitIfAbsent(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("collectionQuestionRepository.ListOrSeed: %w", err)
	}
	return qs, nil
}

func (r *collectionQuestionRepository) FindByID(ctx context.Context, id string) (*model.Question, error) {
	qs, err := r.questions.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("collectionQuestionRepository.FindByID: %w", err)
	}
	for i := range qs {
		if qs[i].ID == id {
			return &qs[i], nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *collectionQuestionRepository) Append(ctx context.Context, qs []model.Question) error {
	return r.questions.Update(ctx, func(existing []model.Question) ([]model.Question, error) {
		return append(existing, qs...), nil
	})
}

func (r *collectionQuestionRepository) ReplaceAll(ctx context.Context, qs []model.Question) error {
	return r.questions.Write(ctx, qs)
}

func (r *collectionQuestionRepository) Delete(ctx context.Context, id string) (bool, error) {
	removed := false
	err := r.questions.Update(ctx, func(existing []model.Question) ([]model.Question, error) {
		for i := range existing {
			if existing[i].ID == id {
				removed = true
				return append(existing[:i], existing[i+1:]...), nil
			}
		}
		return existing, nil
	})
	if err != nil {
		return false, fmt.Errorf("collectionQuestionRepository.Delete: %w", err)
	}
	return removed, nil
}
