package repository

import (
	"context"

	"kantocollect/internal/model"

	"gorm.io/gorm"
)

// TitleCount is one row of the grouped quantity sum.
type TitleCount struct {
	ListingTitle string
	BuyerName    *string
	QuantitySold int
}

// TitleRow is one (title, buyer, quantity) tuple loaded for in-memory
// normalization at report time.
type TitleRow struct {
	ListingTitle string
	BuyerName    *string
	QuantitySold int
}

type TransactionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, t *model.Transaction) error
	ExistsByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (bool, error)
	// SumByTitle is the exact-mode aggregation: sum quantity grouped by
	// stored title (and optionally buyer), ordered by title.
	SumByTitle(ctx context.Context, groupByBuyer, includeNonSales bool) ([]TitleCount, error)
	// ListTitles loads every qualifying row for query-time normalization.
	ListTitles(ctx context.Context, includeNonSales bool) ([]TitleRow, error)
	ListAll(ctx context.Context) ([]model.Transaction, error)
	UpdateQuantity(ctx context.Context, tx *gorm.DB, id uint, quantity int) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) DB() *gorm.DB { return r.db }

func (r *transactionRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Transaction) error {
	return tx.WithContext(ctx).Create(t).Error
}

// ExistsByOrderID reads through the caller's transaction so dedup sees rows
// written earlier in the same batch.
func (r *transactionRepo) ExistsByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&model.Transaction{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}

func (r *transactionRepo) SumByTitle(ctx context.Context, groupByBuyer, includeNonSales bool) ([]TitleCount, error) {
	var rows []TitleCount

	cols := "listing_title, SUM(quantity_sold) AS quantity_sold"
	group := "listing_title"
	if groupByBuyer {
		cols += ", buyer_name"
		group += ", buyer_name"
	}

	q := r.db.WithContext(ctx).Model(&model.Transaction{}).Select(cols)
	if !includeNonSales {
		q = q.Where("is_sale = ?", true)
	}
	err := q.Group(group).Order("listing_title").Scan(&rows).Error
	return rows, err
}

func (r *transactionRepo) ListTitles(ctx context.Context, includeNonSales bool) ([]TitleRow, error) {
	var rows []TitleRow
	q := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("listing_title, buyer_name, quantity_sold")
	if !includeNonSales {
		q = q.Where("is_sale = ?", true)
	}
	err := q.Scan(&rows).Error
	return rows, err
}

func (r *transactionRepo) ListAll(ctx context.Context) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).Find(&txs).Error
	return txs, err
}

func (r *transactionRepo) UpdateQuantity(ctx context.Context, tx *gorm.DB, id uint, quantity int) error {
	return tx.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", id).
		Update("quantity_sold", quantity).Error
}

func (r *transactionRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).Delete(&model.Transaction{}, id).Error
}
