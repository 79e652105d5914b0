package ledger

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

const maxCategoryNameLength = 20

// Registry resolves owner scoped categories by name and removes them once
// nothing references them.
type Registry struct {
	repo  Repository
	newID func() (string, error)
}

func NewRegistry(repo Repository) *Registry {
	return &Registry{repo: repo, newID: newID}
}

// ResolveOrCreate returns the owner's category with the normalized name,
// creating it when absent. A concurrent creator winning the unique index is
// resolved by reading its row.
func (r *Registry) ResolveOrCreate(ctx context.Context, ownerID, name string) (*Category, error) {
	normalized := Normalize(name)
	if normalized == "" {
		return nil, invalid("new_category", "category name is required")
	}
	if utf8.RuneCountInString(normalized) > maxCategoryNameLength {
		return nil, invalid("new_category", fmt.Sprintf("category name must be at most %d characters", maxCategoryNameLength))
	}

	existing, err := r.repo.GetCategoryByName(ctx, ownerID, normalized)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	id, err := r.newID()
	if err != nil {
		return nil, err
	}

	category := Category{
		ID:      id,
		OwnerID: ownerID,
		Name:    normalized,
	}
	if err := r.repo.CreateCategory(ctx, &category); err != nil {
		if !errors.Is(err, ErrCategoryNameTaken) {
			return nil, err
		}

		winner, err := r.repo.GetCategoryByName(ctx, ownerID, normalized)
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, ErrConflict
		}
		if err != nil {
			return nil, err
		}
		return winner, nil
	}

	return &category, nil
}

// Get looks up a caller supplied category reference. Unknown and foreign
// categories are reported the same way.
func (r *Registry) Get(ctx context.Context, ownerID, categoryID string) (*Category, error) {
	if !isID(categoryID) {
		return nil, invalid("category_id", "select a valid category")
	}
	category, err := r.repo.GetCategoryByID(ctx, ownerID, categoryID)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil, invalid("category_id", "select a valid category")
		}
		return nil, err
	}
	return category, nil
}

// DeleteIfOrphaned deletes the category when none of its owner's records
// reference it and reports whether it was deleted.
func (r *Registry) DeleteIfOrphaned(ctx context.Context, category Category) (bool, error) {
	count, err := r.repo.CountRecordsByCategoryID(ctx, category.OwnerID, category.ID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	return r.repo.DeleteCategory(ctx, category.OwnerID, category.ID)
}
