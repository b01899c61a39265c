package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Roja8626/tech-mock/internal/common"
	"github.com/Roja8626/tech-mock/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type collectionUserRepository struct {
	users *Collection[model.User]
}

func NewUserRepository(store CollectionStore) UserRepository {
	return &collectionUserRepository{users: NewCollection[model.User](store, KeyUsers)}
}

// Create appends the user. Emails are not unique: a second registration with
// the same address adds another record and FindByEmail keeps returning the first.
func (r *collectionUserRepository) Create(ctx context.Context, user *model.User) error {
	return r.users.Update(ctx, func(users []model.User) ([]model.User, error) {
		return append(users, *user), nil
	})
}

// FindByEmail returns the first user whose email matches ignoring case.
func (r *collectionUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	users, err := r.users.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("collectionUserRepository.FindByEmail: %w", err)
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *collectionUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	users, err := r.users.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("collectionUserRepository.FindByID: %w", err)
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, common.ErrNotFound
}
