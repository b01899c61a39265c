package repository

import (
	"context"
	"fmt"

	"github.com/Roja8626/tech-mock/internal/common"

	bolt "go.etcd.io/bbolt"
)

var collectionsBucket = []byte("collections")

type boltCollectionStore struct {
	db *bolt.DB
}

func NewBoltCollectionStore(db *bolt.DB) (CollectionStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(collectionsBucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("boltCollectionStore: create bucket: %w", err)
	}
	return &boltCollectionStore{db: db}, nil
}

func (s *boltCollectionStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(collectionsBucket).Get([]byte(key))
		if v == nil {
			return common.ErrNotFound
		}
		// v is only valid inside the transaction
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *boltCollectionStore) Set(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(collectionsBucket).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("boltCollectionStore.Set: %w", err)
	}
	return nil
}
