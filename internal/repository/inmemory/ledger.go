package inmemory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"expense-ledger-go/internal/domain/ledger"
)

// LedgerStore is a map backed ledger.Repository. Transactions are serialized
// and run against the live state; a failing transaction restores the snapshot
// taken when it started.
type LedgerStore struct {
	mu    sync.Mutex
	state *ledgerState
}

type ledgerState struct {
	records    map[string]ledger.Record
	categories map[string]ledger.Category
}

func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		state: &ledgerState{
			records:    make(map[string]ledger.Record),
			categories: make(map[string]ledger.Category),
		},
	}
}

func (s *LedgerStore) Transaction(ctx context.Context, fn func(ledger.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.transaction(ctx, fn)
}

func (s *LedgerStore) ListRecords(ctx context.Context, ownerID string) ([]ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ListRecords(ctx, ownerID)
}

func (s *LedgerStore) GetRecordByID(ctx context.Context, ownerID, recordID string) (*ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetRecordByID(ctx, ownerID, recordID)
}

func (s *LedgerStore) CreateRecord(ctx context.Context, record *ledger.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateRecord(ctx, record)
}

func (s *LedgerStore) UpdateRecord(ctx context.Context, record *ledger.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpdateRecord(ctx, record)
}

func (s *LedgerStore) DeleteRecord(ctx context.Context, ownerID, recordID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DeleteRecord(ctx, ownerID, recordID)
}

func (s *LedgerStore) DeleteRecordsByOwner(ctx context.Context, ownerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DeleteRecordsByOwner(ctx, ownerID)
}

func (s *LedgerStore) CountRecordsByCategoryID(ctx context.Context, ownerID, categoryID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CountRecordsByCategoryID(ctx, ownerID, categoryID)
}

func (s *LedgerStore) ListCategories(ctx context.Context, ownerID string) ([]ledger.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ListCategories(ctx, ownerID)
}

func (s *LedgerStore) GetCategoryByID(ctx context.Context, ownerID, categoryID string) (*ledger.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetCategoryByID(ctx, ownerID, categoryID)
}

func (s *LedgerStore) GetCategoryByName(ctx context.Context, ownerID, name string) (*ledger.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetCategoryByName(ctx, ownerID, name)
}

func (s *LedgerStore) CreateCategory(ctx context.Context, category *ledger.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateCategory(ctx, category)
}

func (s *LedgerStore) DeleteCategory(ctx context.Context, ownerID, categoryID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DeleteCategory(ctx, ownerID, categoryID)
}

// transaction is also used for nested transactions; the caller holds the lock.
func (st *ledgerState) transaction(_ context.Context, fn func(ledger.Repository) error) error {
	records := maps.Clone(st.records)
	categories := maps.Clone(st.categories)

	if err := fn(st); err != nil {
		st.records = records
		st.categories = categories
		return err
	}
	return nil
}

func (st *ledgerState) Transaction(ctx context.Context, fn func(ledger.Repository) error) error {
	return st.transaction(ctx, fn)
}

func (st *ledgerState) ListRecords(_ context.Context, ownerID string) ([]ledger.Record, error) {
	records := make([]ledger.Record, 0)
	for _, record := range st.records {
		if record.OwnerID == ownerID {
			records = append(records, st.attach(record))
		}
	}
	slices.SortFunc(records, func(a, b ledger.Record) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return records, nil
}

func (st *ledgerState) GetRecordByID(_ context.Context, ownerID, recordID string) (*ledger.Record, error) {
	record, ok := st.records[recordID]
	if !ok || record.OwnerID != ownerID {
		return nil, ledger.ErrRecordNotFound
	}
	attached := st.attach(record)
	return &attached, nil
}

func (st *ledgerState) CreateRecord(_ context.Context, record *ledger.Record) error {
	if _, exists := st.records[record.ID]; exists {
		return ledger.ErrConflict
	}
	if err := st.checkCategoryRef(record); err != nil {
		return err
	}
	st.records[record.ID] = detach(*record)
	return nil
}

func (st *ledgerState) UpdateRecord(_ context.Context, record *ledger.Record) error {
	stored, ok := st.records[record.ID]
	if !ok || stored.OwnerID != record.OwnerID {
		return ledger.ErrRecordNotFound
	}
	if err := st.checkCategoryRef(record); err != nil {
		return err
	}

	stored.Kind = record.Kind
	stored.Date = record.Date
	stored.Item = record.Item
	stored.Quantity = record.Quantity
	stored.Cost = record.Cost
	stored.CategoryID = record.CategoryID
	stored.UpdatedAt = record.UpdatedAt
	st.records[record.ID] = detach(stored)
	return nil
}

func (st *ledgerState) DeleteRecord(_ context.Context, ownerID, recordID string) (bool, error) {
	record, ok := st.records[recordID]
	if !ok || record.OwnerID != ownerID {
		return false, nil
	}
	delete(st.records, recordID)
	return true, nil
}

func (st *ledgerState) DeleteRecordsByOwner(_ context.Context, ownerID string) (int64, error) {
	var deleted int64
	for id, record := range st.records {
		if record.OwnerID == ownerID {
			delete(st.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (st *ledgerState) CountRecordsByCategoryID(_ context.Context, ownerID, categoryID string) (int64, error) {
	var count int64
	for _, record := range st.records {
		if record.OwnerID == ownerID && record.CategoryID != nil && *record.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (st *ledgerState) ListCategories(_ context.Context, ownerID string) ([]ledger.Category, error) {
	categories := make([]ledger.Category, 0)
	for _, category := range st.categories {
		if category.OwnerID == ownerID {
			categories = append(categories, category)
		}
	}
	slices.SortFunc(categories, func(a, b ledger.Category) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return categories, nil
}

func (st *ledgerState) GetCategoryByID(_ context.Context, ownerID, categoryID string) (*ledger.Category, error) {
	category, ok := st.categories[categoryID]
	if !ok || category.OwnerID != ownerID {
		return nil, ledger.ErrCategoryNotFound
	}
	return &category, nil
}

func (st *ledgerState) GetCategoryByName(_ context.Context, ownerID, name string) (*ledger.Category, error) {
	for _, category := range st.categories {
		if category.OwnerID == ownerID && category.Name == name {
			return &category, nil
		}
	}
	return nil, ledger.ErrCategoryNotFound
}

func (st *ledgerState) CreateCategory(_ context.Context, category *ledger.Category) error {
	if _, exists := st.categories[category.ID]; exists {
		return ledger.ErrConflict
	}
	for _, existing := range st.categories {
		if existing.OwnerID == category.OwnerID && existing.Name == category.Name {
			return ledger.ErrCategoryNameTaken
		}
	}
	st.categories[category.ID] = *category
	return nil
}

// DeleteCategory refuses to delete a category that records still reference,
// like the foreign key of the SQL schema.
func (st *ledgerState) DeleteCategory(ctx context.Context, ownerID, categoryID string) (bool, error) {
	category, ok := st.categories[categoryID]
	if !ok || category.OwnerID != ownerID {
		return false, nil
	}
	count, err := st.CountRecordsByCategoryID(ctx, ownerID, categoryID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, ledger.ErrConflict
	}
	delete(st.categories, categoryID)
	return true, nil
}

func (st *ledgerState) checkCategoryRef(record *ledger.Record) error {
	if record.CategoryID == nil {
		return nil
	}
	category, ok := st.categories[*record.CategoryID]
	if !ok || category.OwnerID != record.OwnerID {
		return ledger.ErrCategoryNotFound
	}
	return nil
}

func (st *ledgerState) attach(record ledger.Record) ledger.Record {
	record.Category = nil
	if record.CategoryID == nil {
		return record
	}
	categoryID := *record.CategoryID
	record.CategoryID = &categoryID
	if category, ok := st.categories[categoryID]; ok {
		record.Category = &category
	}
	return record
}

func detach(record ledger.Record) ledger.Record {
	record.Category = nil
	if record.CategoryID != nil {
		categoryID := *record.CategoryID
		record.CategoryID = &categoryID
	}
	return record
}
