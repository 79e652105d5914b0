package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxItemLength     = 20
	maxQuantityLength = 20
	costPlaces        = 2
)

// Costs are stored as numeric(10,2).
var maxCost = decimal.New(1, 8)

// Ledger is the record set of every owner. Each call is scoped by an explicit
// owner and never reveals records of other owners.
type Ledger struct {
	repo  Repository
	newID func() (string, error)
	now   func() time.Time
}

func NewLedger(repo Repository) *Ledger {
	return &Ledger{
		repo:  repo,
		newID: newID,
		now:   time.Now,
	}
}

func (l *Ledger) Create(ctx context.Context, ownerID string, fields RecordFields, category *Category) (*Record, error) {
	fields, err := validateFields(fields)
	if err != nil {
		return nil, err
	}
	if err := checkCategoryOwner(ownerID, category); err != nil {
		return nil, err
	}

	id, err := l.newID()
	if err != nil {
		return nil, err
	}

	now := l.now().UTC()
	record := Record{
		ID:        id,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyFields(&record, fields, category)

	if err := l.repo.CreateRecord(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Update replaces the editable fields of the owner's record and returns the
// updated record together with its state before the change.
func (l *Ledger) Update(ctx context.Context, recordID, ownerID string, fields RecordFields, category *Category) (*Record, Record, error) {
	fields, err := validateFields(fields)
	if err != nil {
		return nil, Record{}, err
	}
	if err := checkCategoryOwner(ownerID, category); err != nil {
		return nil, Record{}, err
	}

	if !isID(recordID) {
		return nil, Record{}, ErrRecordNotFound
	}
	record, err := l.repo.GetRecordByID(ctx, ownerID, recordID)
	if err != nil {
		return nil, Record{}, err
	}
	previous := *record

	applyFields(record, fields, category)
	record.UpdatedAt = l.now().UTC()

	if err := l.repo.UpdateRecord(ctx, record); err != nil {
		return nil, Record{}, err
	}
	return record, previous, nil
}

// Delete removes the owner's record and returns it as it was stored.
func (l *Ledger) Delete(ctx context.Context, recordID, ownerID string) (*Record, error) {
	if !isID(recordID) {
		return nil, ErrRecordNotFound
	}
	record, err := l.repo.GetRecordByID(ctx, ownerID, recordID)
	if err != nil {
		return nil, err
	}

	deleted, err := l.repo.DeleteRecord(ctx, ownerID, recordID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

func (l *Ledger) Get(ctx context.Context, ownerID, recordID string) (*Record, error) {
	if !isID(recordID) {
		return nil, ErrRecordNotFound
	}
	return l.repo.GetRecordByID(ctx, ownerID, recordID)
}

// List returns the owner's records ordered by key. Ties keep identity order.
func (l *Ledger) List(ctx context.Context, ownerID string, key SortKey, descending bool) ([]Record, error) {
	if !key.valid() {
		return nil, invalid("sort", fmt.Sprintf("unknown sort key %q", key))
	}

	records, err := l.repo.ListRecords(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	sortRecords(records, key, descending)
	return records, nil
}

func (l *Ledger) Purge(ctx context.Context, ownerID string) (int64, error) {
	return l.repo.DeleteRecordsByOwner(ctx, ownerID)
}

func validateFields(fields RecordFields) (RecordFields, error) {
	if fields.Kind != KindExpense && fields.Kind != KindIncome {
		return fields, invalid("type", "type must be Expense or Income")
	}

	if fields.Date.IsZero() {
		return fields, invalid("date", "date is required")
	}
	fields.Date = toDate(fields.Date)

	fields.Item = Normalize(fields.Item)
	if fields.Item == "" {
		return fields, invalid("item", "item is required")
	}
	if utf8.RuneCountInString(fields.Item) > maxItemLength {
		return fields, invalid("item", fmt.Sprintf("item must be at most %d characters", maxItemLength))
	}

	fields.Quantity = strings.TrimSpace(fields.Quantity)
	if fields.Quantity == "" {
		return fields, invalid("quantity", "quantity is required")
	}
	if utf8.RuneCountInString(fields.Quantity) > maxQuantityLength {
		return fields, invalid("quantity", fmt.Sprintf("quantity must be at most %d characters", maxQuantityLength))
	}

	if fields.Cost.IsNegative() {
		return fields, invalid("cost", "cost must not be negative")
	}
	if !fields.Cost.Equal(fields.Cost.Round(costPlaces)) {
		return fields, invalid("cost", "cost must have at most 2 decimal places")
	}
	if fields.Cost.GreaterThanOrEqual(maxCost) {
		return fields, invalid("cost", "cost is too large")
	}

	return fields, nil
}

func checkCategoryOwner(ownerID string, category *Category) error {
	if category != nil && category.OwnerID != ownerID {
		return invalid("category_id", "select a valid category")
	}
	return nil
}

func applyFields(record *Record, fields RecordFields, category *Category) {
	record.Kind = fields.Kind
	record.Date = fields.Date
	record.Item = fields.Item
	record.Quantity = fields.Quantity
	record.Cost = fields.Cost

	if category == nil {
		record.CategoryID = nil
		record.Category = nil
		return
	}
	categoryID := category.ID
	attached := *category
	record.CategoryID = &categoryID
	record.Category = &attached
}

func toDate(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// isID reports whether value is a canonical UUID, the only identifier form
// the stores hold. Anything else cannot name an existing row.
func isID(value string) bool {
	return len(value) == 36 && uuid.Validate(value) == nil
}

// newID returns a time ordered UUID so identity order follows creation order.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
