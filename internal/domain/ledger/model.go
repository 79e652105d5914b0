package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindExpense Kind = "Expense"
	KindIncome  Kind = "Income"
)

// ParseKind accepts the kind names case-insensitively.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "expense":
		return KindExpense, nil
	case "income":
		return KindIncome, nil
	}
	return "", invalid("type", "type must be Expense or Income")
}

type Record struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	OwnerID    string          `gorm:"index;not null"`
	Kind       Kind            `gorm:"column:type;size:10;not null"`
	Date       time.Time       `gorm:"type:date;not null"`
	Item       string          `gorm:"size:20;not null"`
	Quantity   string          `gorm:"size:20;not null"`
	Cost       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	CategoryID *string         `gorm:"type:uuid;index"`
	Category   *Category       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

// CategoryName returns the category name or "" when the record is uncategorized.
func (r Record) CategoryName() string {
	if r.Category == nil {
		return ""
	}
	return r.Category.Name
}

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	OwnerID   string    `gorm:"uniqueIndex:idx_categories_owner_name;not null"`
	Name      string    `gorm:"uniqueIndex:idx_categories_owner_name;size:20;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// RecordFields are the user editable attributes of a record.
type RecordFields struct {
	Kind     Kind
	Date     time.Time
	Item     string
	Quantity string
	Cost     decimal.Decimal
}

type CreateRecordInput struct {
	OwnerID string
	RecordFields
	CategoryID      *string
	NewCategoryName string
}

type UpdateRecordInput struct {
	ID      string
	OwnerID string
	RecordFields
	CategoryID      *string
	NewCategoryName string
}

type PurgeResult struct {
	RecordsDeleted    int64
	CategoriesDeleted int64
}

const UncategorizedName = "Uncategorized"

type CategoryTotal struct {
	Name string
	Net  decimal.Decimal
}

type Summary struct {
	NetBalance   decimal.Decimal
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	RecordCount  int
	ByCategory   []CategoryTotal
}
