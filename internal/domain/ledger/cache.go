package ledger

import "time"

// CategoriesCache holds each owner's category list. DeleteByOwnerID starts a
// new generation; SetByOwnerID only stores a list read during the current
// one, so a slow reader cannot restore a list that a mutation invalidated.
type CategoriesCache interface {
	GetByOwnerID(ownerID string) ([]Category, bool)
	Generation(ownerID string) uint64
	SetByOwnerID(ownerID string, generation uint64, categories []Category, ttl time.Duration) bool
	DeleteByOwnerID(ownerID string)
}

type noopCategoriesCache struct{}

func (noopCategoriesCache) GetByOwnerID(string) ([]Category, bool) {
	return nil, false
}

func (noopCategoriesCache) Generation(string) uint64 {
	return 0
}

func (noopCategoriesCache) SetByOwnerID(string, uint64, []Category, time.Duration) bool {
	return false
}

func (noopCategoriesCache) DeleteByOwnerID(string) {}
