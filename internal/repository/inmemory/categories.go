package inmemory

import (
	"sync"
	"time"

	"expense-ledger-go/internal/domain/ledger"
)

// CategoriesCache keeps each owner's category list until its TTL passes or
// the owner mutates the ledger.
type CategoriesCache struct {
	mu          sync.RWMutex
	items       map[string]categoriesItem
	generations map[string]uint64
	now         func() time.Time
}

type categoriesItem struct {
	value     []ledger.Category
	expiresAt time.Time
}

func NewCategoriesCache() *CategoriesCache {
	return &CategoriesCache{
		items:       make(map[string]categoriesItem),
		generations: make(map[string]uint64),
		now:         time.Now,
	}
}

func (c *CategoriesCache) GetByOwnerID(ownerID string) ([]ledger.Category, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[ownerID]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[ownerID]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, ownerID)
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneCategories(item.value), true
}

func (c *CategoriesCache) Generation(ownerID string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations[ownerID]
}

// SetByOwnerID stores categories read at generation. It reports false and
// stores nothing when the owner was invalidated since then.
func (c *CategoriesCache) SetByOwnerID(ownerID string, generation uint64, categories []ledger.Category, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generations[ownerID] != generation {
		return false
	}
	if ttl <= 0 {
		delete(c.items, ownerID)
		return false
	}

	c.items[ownerID] = categoriesItem{
		value:     cloneCategories(categories),
		expiresAt: c.now().Add(ttl),
	}
	return true
}

func (c *CategoriesCache) DeleteByOwnerID(ownerID string) {
	c.mu.Lock()
	delete(c.items, ownerID)
	c.generations[ownerID]++
	c.mu.Unlock()
}

func cloneCategories(categories []ledger.Category) []ledger.Category {
	if categories == nil {
		return nil
	}
	cloned := make([]ledger.Category, len(categories))
	copy(cloned, categories)
	return cloned
}
