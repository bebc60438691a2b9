package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookbookapp/bookbook-server/internal/domain"
	"github.com/bookbookapp/bookbook-server/internal/normalize"
)

const (
	categoryPrefix       = "category:"
	categoryByNamePrefix = "category:idx:name:"
	categorySeqKey       = "seq:categories"
)

func categoryKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%06d", categoryPrefix, id))
}

// EnsureCategory returns the category with the given name, creating it
// if necessary. Name matching is case- and width-insensitive.
func (s *Store) EnsureCategory(ctx context.Context, name string) (*domain.Category, error) {
	if existing, err := s.GetCategoryByName(ctx, name); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	id, err := s.nextID([]byte(categorySeqKey))
	if err != nil {
		return nil, fmt.Errorf("assign category id: %w", err)
	}

	category := &domain.Category{ID: id, Name: name}
	err = s.db.Update(func(txn *badger.Txn) error {
		nameKey := []byte(categoryByNamePrefix + normalize.Fold(name))
		// A racing EnsureCategory may have won; reuse its row.
		if item, err := txn.Get(nameKey); err == nil {
			var existingID int64
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &existingID)
			}); err != nil {
				return err
			}
			row, err := txn.Get(categoryKey(existingID))
			if err != nil {
				return err
			}
			return row.Value(func(val []byte) error {
				return json.Unmarshal(val, category)
			})
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(category)
		if err != nil {
			return fmt.Errorf("marshal category: %w", err)
		}
		if err := txn.Set(categoryKey(id), data); err != nil {
			return err
		}
		idData, err := json.Marshal(id)
		if err != nil {
			return err
		}
		return txn.Set(nameKey, idData)
	})
	if err != nil {
		return nil, fmt.Errorf("ensure category %q: %w", name, err)
	}
	return category, nil
}

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var category domain.Category
	err := s.get(categoryKey(id), &category)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return &category, nil
}

// GetCategoryByName retrieves a category by its unique name.
func (s *Store) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var id int64
	err := s.get([]byte(categoryByNamePrefix+normalize.Fold(name)), &id)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category by name %q: %w", name, err)
	}
	return s.GetCategory(ctx, id)
}

// ListCategories returns all categories ordered by id.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(categoryPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(categoryPrefix)); it.ValidForPrefix([]byte(categoryPrefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if len(it.Item().Key()) != len(categoryPrefix)+6 {
				continue
			}

			var category domain.Category
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &category)
			}); err != nil {
				return fmt.Errorf("unmarshal category: %w", err)
			}
			categories = append(categories, category)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}
