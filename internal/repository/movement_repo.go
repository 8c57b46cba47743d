package repository

import (
	"context"

	"gorm.io/gorm"

	"shopstock/internal/models"
)

type MovementRepo interface {
	Create(ctx context.Context, m *models.StockMovement) error
	ListByProduct(ctx context.Context, productID int64, limit int) ([]models.StockMovement, error)
	SumDeltas(ctx context.Context, productID int64) (int64, error)
}

type movementRepo struct{ db *gorm.DB }

func NewMovementRepo(db *gorm.DB) MovementRepo { return &movementRepo{db: db} }

func (r *movementRepo) Create(ctx context.Context, m *models.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movementRepo) ListByProduct(ctx context.Context, productID int64, limit int) ([]models.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []models.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Preload("Actor").
		Find(&list).Error
	return list, err
}

func (r *movementRepo) SumDeltas(ctx context.Context, productID int64) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&models.StockMovement{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error
	return sum, err
}
