package ledger

import (
	"context"
	"strings"
	"time"
)

const defaultCategoriesCacheTTL = 5 * time.Minute

// Service composes the registry and the ledger. Every mutating call runs in a
// single repository transaction and leaves no orphaned category behind.
type Service struct {
	repo     Repository
	cache    CategoriesCache
	cacheTTL time.Duration
	newID    func() (string, error)
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return NewServiceWithCache(repo, nil, 0)
}

func NewServiceWithCache(repo Repository, cache CategoriesCache, ttl time.Duration) *Service {
	if cache == nil {
		cache = noopCategoriesCache{}
	}
	if ttl <= 0 {
		ttl = defaultCategoriesCacheTTL
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		newID:    newID,
		now:      time.Now,
	}
}

func (s *Service) registry(repo Repository) *Registry {
	return &Registry{repo: repo, newID: s.newID}
}

func (s *Service) ledger(repo Repository) *Ledger {
	return &Ledger{repo: repo, newID: s.newID, now: s.now}
}

func (s *Service) CreateRecord(ctx context.Context, input CreateRecordInput) (*Record, error) {
	var created *Record
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		category, err := s.resolveCategory(ctx, tx, input.OwnerID, input.CategoryID, input.NewCategoryName)
		if err != nil {
			return err
		}

		created, err = s.ledger(tx).Create(ctx, input.OwnerID, input.RecordFields, category)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteByOwnerID(input.OwnerID)
	return created, nil
}

func (s *Service) UpdateRecord(ctx context.Context, input UpdateRecordInput) (*Record, error) {
	var updated *Record
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		category, err := s.resolveCategory(ctx, tx, input.OwnerID, input.CategoryID, input.NewCategoryName)
		if err != nil {
			return err
		}

		var previous Record
		updated, previous, err = s.ledger(tx).Update(ctx, input.ID, input.OwnerID, input.RecordFields, category)
		if err != nil {
			return err
		}

		if previous.CategoryID == nil || sameCategory(previous.CategoryID, updated.CategoryID) {
			return nil
		}
		_, err = s.registry(tx).DeleteIfOrphaned(ctx, Category{ID: *previous.CategoryID, OwnerID: input.OwnerID})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteByOwnerID(input.OwnerID)
	return updated, nil
}

func (s *Service) DeleteRecord(ctx context.Context, ownerID, recordID string) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		removed, err := s.ledger(tx).Delete(ctx, recordID, ownerID)
		if err != nil {
			return err
		}

		if removed.CategoryID == nil {
			return nil
		}
		_, err = s.registry(tx).DeleteIfOrphaned(ctx, Category{ID: *removed.CategoryID, OwnerID: ownerID})
		return err
	})
	if err != nil {
		return err
	}

	s.cache.DeleteByOwnerID(ownerID)
	return nil
}

// Purge deletes all of the owner's records and then every category they had.
func (s *Service) Purge(ctx context.Context, ownerID string) (PurgeResult, error) {
	var result PurgeResult
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		result = PurgeResult{}

		categories, err := tx.ListCategories(ctx, ownerID)
		if err != nil {
			return err
		}

		result.RecordsDeleted, err = s.ledger(tx).Purge(ctx, ownerID)
		if err != nil {
			return err
		}

		registry := s.registry(tx)
		for _, category := range categories {
			deleted, err := registry.DeleteIfOrphaned(ctx, category)
			if err != nil {
				return err
			}
			if deleted {
				result.CategoriesDeleted++
			}
		}
		return nil
	})
	if err != nil {
		return PurgeResult{}, err
	}

	s.cache.DeleteByOwnerID(ownerID)
	return result, nil
}

func (s *Service) ListRecords(ctx context.Context, ownerID string, key SortKey, descending bool) ([]Record, error) {
	return s.ledger(s.repo).List(ctx, ownerID, key, descending)
}

func (s *Service) GetRecord(ctx context.Context, ownerID, recordID string) (*Record, error) {
	return s.ledger(s.repo).Get(ctx, ownerID, recordID)
}

func (s *Service) ListCategories(ctx context.Context, ownerID string) ([]Category, error) {
	if cached, ok := s.cache.GetByOwnerID(ownerID); ok {
		return cached, nil
	}

	generation := s.cache.Generation(ownerID)
	categories, err := s.repo.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	s.cache.SetByOwnerID(ownerID, generation, categories, s.cacheTTL)
	return categories, nil
}

// Summary is recomputed from the current record set on every call.
func (s *Service) Summary(ctx context.Context, ownerID string) (Summary, error) {
	records, err := s.repo.ListRecords(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records), nil
}

// resolveCategory prefers a new category name over an existing reference.
func (s *Service) resolveCategory(ctx context.Context, tx Repository, ownerID string, categoryID *string, newName string) (*Category, error) {
	registry := s.registry(tx)
	if strings.TrimSpace(newName) != "" {
		return registry.ResolveOrCreate(ctx, ownerID, newName)
	}
	if categoryID == nil || strings.TrimSpace(*categoryID) == "" {
		return nil, nil
	}
	return registry.Get(ctx, ownerID, strings.TrimSpace(*categoryID))
}

func sameCategory(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
