package ledger

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	ledgerdomain "expense-ledger-go/internal/domain/ledger"
)

// GormRepository stores the ledger through gorm. It is used with PostgreSQL
// and with SQLite.
type GormRepository struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(ledgerdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) ListRecords(ctx context.Context, ownerID string) ([]ledgerdomain.Record, error) {
	var records []ledgerdomain.Record
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("owner_id = ?", ownerID).
		Order("id asc").
		Find(&records).Error; err != nil {
		return nil, err
	}

	for i := range records {
		normalizeRecord(&records[i])
	}
	return records, nil
}

func (r *GormRepository) GetRecordByID(ctx context.Context, ownerID, recordID string) (*ledgerdomain.Record, error) {
	var record ledgerdomain.Record
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("owner_id = ? AND id = ?", ownerID, recordID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || isInvalidID(err) {
			return nil, ledgerdomain.ErrRecordNotFound
		}
		return nil, err
	}

	normalizeRecord(&record)
	return &record, nil
}

func (r *GormRepository) CreateRecord(ctx context.Context, record *ledgerdomain.Record) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err):
		return ledgerdomain.ErrCategoryNotFound
	case isUniqueViolation(err):
		return ledgerdomain.ErrConflict
	}
	return err
}

func (r *GormRepository) UpdateRecord(ctx context.Context, record *ledgerdomain.Record) error {
	result := r.db.WithContext(ctx).
		Model(&ledgerdomain.Record{}).
		Where("id = ? AND owner_id = ?", record.ID, record.OwnerID).
		Updates(map[string]interface{}{
			"type":        record.Kind,
			"date":        record.Date,
			"item":        record.Item,
			"quantity":    record.Quantity,
			"cost":        record.Cost,
			"category_id": record.CategoryID,
			"updated_at":  record.UpdatedAt,
		})
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return ledgerdomain.ErrCategoryNotFound
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledgerdomain.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepository) DeleteRecord(ctx context.Context, ownerID, recordID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&ledgerdomain.Record{}, "owner_id = ? AND id = ?", ownerID, recordID)
	if result.Error != nil && isInvalidID(result.Error) {
		return false, nil
	}
	return result.RowsAffected > 0, result.Error
}

func (r *GormRepository) DeleteRecordsByOwner(ctx context.Context, ownerID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&ledgerdomain.Record{})
	return result.RowsAffected, result.Error
}

func (r *GormRepository) CountRecordsByCategoryID(ctx context.Context, ownerID, categoryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ledgerdomain.Record{}).
		Where("owner_id = ? AND category_id = ?", ownerID, categoryID).
		Count(&count).Error
	return count, err
}

func (r *GormRepository) ListCategories(ctx context.Context, ownerID string) ([]ledgerdomain.Category, error) {
	var categories []ledgerdomain.Category
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name asc, id asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormRepository) GetCategoryByID(ctx context.Context, ownerID, categoryID string) (*ledgerdomain.Category, error) {
	return r.findCategory(ctx, "owner_id = ? AND id = ?", ownerID, categoryID)
}

func (r *GormRepository) GetCategoryByName(ctx context.Context, ownerID, name string) (*ledgerdomain.Category, error) {
	return r.findCategory(ctx, "owner_id = ? AND name = ?", ownerID, name)
}

func (r *GormRepository) findCategory(ctx context.Context, query string, args ...interface{}) (*ledgerdomain.Category, error) {
	var category ledgerdomain.Category
	if err := r.db.WithContext(ctx).Where(query, args...).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || isInvalidID(err) {
			return nil, ledgerdomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts inside a nested transaction so that a unique
// violation only rolls back to the savepoint and the caller's transaction
// stays usable for the follow-up lookup.
func (r *GormRepository) CreateCategory(ctx context.Context, category *ledgerdomain.Category) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(category).Error
	})
	if err != nil && isUniqueViolation(err) {
		return ledgerdomain.ErrCategoryNameTaken
	}
	return err
}

func (r *GormRepository) DeleteCategory(ctx context.Context, ownerID, categoryID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&ledgerdomain.Category{}, "owner_id = ? AND id = ?", ownerID, categoryID)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return false, ledgerdomain.ErrConflict
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// normalizeRecord drops the driver's time zone from the calendar date.
func normalizeRecord(record *ledgerdomain.Record) {
	year, month, day := record.Date.Date()
	record.Date = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	if record.CategoryID == nil {
		record.Category = nil
	}
}

const (
	pgUniqueViolation           = "23505"
	pgForeignKeyViolation       = "23503"
	pgInvalidTextRepresentation = "22P02"
)

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || hasPgCode(err, pgUniqueViolation) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) || hasPgCode(err, pgForeignKeyViolation) {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// isInvalidID reports a malformed uuid literal rejected by PostgreSQL. Such
// an id cannot match any row.
func isInvalidID(err error) bool {
	return hasPgCode(err, pgInvalidTextRepresentation)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
