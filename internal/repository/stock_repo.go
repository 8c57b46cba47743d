package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopstock/internal/models"
)

type StockRepo interface {
	Get(ctx context.Context, productID int64) (*models.StockRecord, error)
	// Ensure creates the zero-quantity row if the product has none yet.
	Ensure(ctx context.Context, productID int64) error
	// ApplyDelta adds delta unconditionally; quantity may go negative.
	ApplyDelta(ctx context.Context, productID int64, delta int64) error
	// TryDecrement subtracts qty only while enough stock remains. The guard
	// and the write are one statement, so concurrent checkouts serialize on
	// the row and cannot oversell.
	TryDecrement(ctx context.Context, productID int64, qty int64) (bool, error)
	ListBelow(ctx context.Context, threshold int64) ([]models.StockRecord, error)
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepo(db *gorm.DB) StockRepo { return &stockRepo{db: db} }

func (r *stockRepo) Get(ctx context.Context, productID int64) (*models.StockRecord, error) {
	var rec models.StockRecord
	err := r.db.WithContext(ctx).First(&rec, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rec, err
}

func (r *stockRepo) Ensure(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "product_id"}}, DoNothing: true}).
		Create(&models.StockRecord{ProductID: productID}).Error
}

func (r *stockRepo) ApplyDelta(ctx context.Context, productID int64, delta int64) error {
	return r.db.WithContext(ctx).Exec(`
UPDATE stock_records
SET quantity = quantity + @delta,
    updated_at = now()
WHERE product_id = @pid
`, map[string]any{
		"pid":   productID,
		"delta": delta,
	}).Error
}

func (r *stockRepo) TryDecrement(ctx context.Context, productID int64, qty int64) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE stock_records
SET quantity = quantity - @q,
    updated_at = now()
WHERE product_id = @pid
  AND quantity >= @q
`, map[string]any{
		"pid": productID,
		"q":   qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *stockRepo) ListBelow(ctx context.Context, threshold int64) ([]models.StockRecord, error) {
	var recs []models.StockRecord
	err := r.db.WithContext(ctx).
		Where("quantity < ?", threshold).
		Order("quantity ASC").
		Preload("Product").
		Find(&recs).Error
	return recs, err
}
