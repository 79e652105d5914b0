package ledger

import "context"

// Repository is the owner scoped storage port. Records returned by the List
// and Get methods carry their Category when CategoryID is set.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListRecords(ctx context.Context, ownerID string) ([]Record, error)
	GetRecordByID(ctx context.Context, ownerID, recordID string) (*Record, error)
	CreateRecord(ctx context.Context, record *Record) error
	UpdateRecord(ctx context.Context, record *Record) error
	DeleteRecord(ctx context.Context, ownerID, recordID string) (bool, error)
	DeleteRecordsByOwner(ctx context.Context, ownerID string) (int64, error)
	CountRecordsByCategoryID(ctx context.Context, ownerID, categoryID string) (int64, error)
	ListCategories(ctx context.Context, ownerID string) ([]Category, error)
	GetCategoryByID(ctx context.Context, ownerID, categoryID string) (*Category, error)
	GetCategoryByName(ctx context.Context, ownerID, name string) (*Category, error)
	CreateCategory(ctx context.Context, category *Category) error
	DeleteCategory(ctx context.Context, ownerID, categoryID string) (bool, error)
}
