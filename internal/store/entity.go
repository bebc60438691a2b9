package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic CRUD operations for any domain type.
type Entity[T any] struct {
	store   *Store
	prefix  string
	indexes []Index[T]
}

// Index defines a unique secondary index on an entity.
type Index[T any] struct {
	name            string
	keyGen          func(*T) []string
	lookupTransform func(string) string // Optional transformation for lookups
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string) *Entity[T] {
	return &Entity[T]{
		store:   s,
		prefix:  prefix,
		indexes: make([]Index[T], 0),
	}
}

// WithIndex adds a unique secondary index to the entity.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:   name,
		keyGen: keyGen,
	})
	return e
}

// WithIndexTransform adds a unique secondary index with lookup transformation.
// The lookupTransform function is applied to search values before index
// lookup, enabling case-insensitive searches.
func (e *Entity[T]) WithIndexTransform(name string, keyGen func(*T) []string, lookupTransform func(string) string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{
		name:            name,
		keyGen:          keyGen,
		lookupTransform: lookupTransform,
	})
	return e
}

func (e *Entity[T]) indexKey(idx Index[T], value string) []byte {
	return []byte(e.prefix + "idx:" + idx.name + ":" + value)
}

// Create creates a new entity with the given ID.
// Returns ErrAlreadyExists if the ID or any unique index value is taken.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(e.prefix + id)

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing key: %w", err)
		}

		// Check for index conflicts before writing anything.
		for _, idx := range e.indexes {
			for _, indexValue := range idx.keyGen(entity) {
				_, err := txn.Get(e.indexKey(idx, indexValue))
				if err == nil {
					return fmt.Errorf("index %s conflict on key %s: %w", idx.name, indexValue, ErrAlreadyExists)
				}
				if !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("failed to check index key: %w", err)
				}
			}
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		for _, idx := range e.indexes {
			for _, indexValue := range idx.keyGen(entity) {
				if err := txn.Set(e.indexKey(idx, indexValue), []byte(id)); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			}
		}

		return nil
	})
}

// Get retrieves an entity by ID.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entity T
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(e.prefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return &entity, nil
}

// GetByIndex retrieves an entity by secondary index.
// If the index has a lookup transform, it is applied to value first.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transformedValue := value
	var found Index[T]
	for _, idx := range e.indexes {
		if idx.name == indexName {
			found = idx
			if idx.lookupTransform != nil {
				transformedValue = idx.lookupTransform(value)
			}
			break
		}
	}
	if found.name == "" {
		return nil, fmt.Errorf("unknown index %q", indexName)
	}

	var id string
	err := e.store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(e.indexKey(found, transformedValue))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return e.Get(ctx, id)
}

// Update updates an existing entity, maintaining its index keys.
// Returns ErrNotFound if the entity does not exist, and ErrAlreadyExists
// if a changed index value collides with another entity.
func (e *Entity[T]) Update(ctx context.Context, id string, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(e.prefix + id)

	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return e.store.db.Update(func(txn *badger.Txn) error {
		var oldEntity T
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get existing key: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &oldEntity)
		}); err != nil {
			return fmt.Errorf("failed to unmarshal old entity: %w", err)
		}

		for _, idx := range e.indexes {
			oldKeys := make(map[string]bool)
			for _, k := range idx.keyGen(&oldEntity) {
				oldKeys[k] = true
			}

			// New values must not collide with another entity's index keys.
			for _, indexValue := range idx.keyGen(entity) {
				if oldKeys[indexValue] {
					continue
				}
				_, err := txn.Get(e.indexKey(idx, indexValue))
				if err == nil {
					return fmt.Errorf("index %s conflict on key %s: %w", idx.name, indexValue, ErrAlreadyExists)
				}
				if !errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("failed to check index key: %w", err)
				}
			}

			for k := range oldKeys {
				if err := txn.Delete(e.indexKey(idx, k)); err != nil {
					return fmt.Errorf("failed to delete old index key: %w", err)
				}
			}
		}

		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("failed to set key: %w", err)
		}

		for _, idx := range e.indexes {
			for _, indexValue := range idx.keyGen(entity) {
				if err := txn.Set(e.indexKey(idx, indexValue), []byte(id)); err != nil {
					return fmt.Errorf("failed to set index key: %w", err)
				}
			}
		}

		return nil
	})
}

// Delete deletes an entity by ID along with its index keys.
// Idempotent - deleting a missing entity is not an error.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key := []byte(e.prefix + id)

	return e.store.db.Update(func(txn *badger.Txn) error {
		var entity T
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get key: %w", err)
		}

		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entity)
		}); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}

		for _, idx := range e.indexes {
			for _, indexValue := range idx.keyGen(&entity) {
				if err := txn.Delete(e.indexKey(idx, indexValue)); err != nil {
					return fmt.Errorf("failed to delete index key: %w", err)
				}
			}
		}

		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}

		return nil
	})
}

// List returns an iterator over all entities.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		e.store.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.Prefix = []byte(e.prefix)
			opts.PrefetchValues = true

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek([]byte(e.prefix)); it.ValidForPrefix([]byte(e.prefix)); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				// Skip index keys.
				key := string(it.Item().Key())
				if strings.HasPrefix(key[len(e.prefix):], "idx:") {
					continue
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})
				if err != nil {
					yield(nil, err)
					return err
				}

				if !yield(&entity, nil) {
					return nil // Consumer stopped early
				}
			}

			return nil
		})
	}
}
