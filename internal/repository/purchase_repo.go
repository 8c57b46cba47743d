package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"shopstock/internal/models"
)

type PurchaseListFilter struct {
	SupplierID *int64
	State      *models.PurchaseState
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

type PurchaseRepo interface {
	Create(ctx context.Context, p *models.Purchase) error
	GetByID(ctx context.Context, id int64) (*models.Purchase, error)
	TryTransition(ctx context.Context, id int64, from, to models.PurchaseState, receivedAt *time.Time) (bool, error)
	List(ctx context.Context, f PurchaseListFilter) ([]models.Purchase, int64, error)
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepo(db *gorm.DB) PurchaseRepo { return &purchaseRepo{db: db} }

func (r *purchaseRepo) Create(ctx context.Context, p *models.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) GetByID(ctx context.Context, id int64) (*models.Purchase, error) {
	var p models.Purchase
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items").Preload("Items.Product").
		First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

// TryTransition guards the state flip with the expected current state, so a
// purchase that was already received or cancelled stays as it is.
func (r *purchaseRepo) TryTransition(ctx context.Context, id int64, from, to models.PurchaseState, receivedAt *time.Time) (bool, error) {
	upd := map[string]any{"state": to}
	if receivedAt != nil {
		upd["received_at"] = receivedAt
	}
	res := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("id = ? AND state = ?", id, from).
		Updates(upd)
	return res.RowsAffected > 0, res.Error
}

func (r *purchaseRepo) List(ctx context.Context, f PurchaseListFilter) ([]models.Purchase, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Purchase{})

	if f.SupplierID != nil {
		q = q.Where("supplier_id = ?", *f.SupplierID)
	}
	if f.State != nil {
		q = q.Where("state = ?", *f.State)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at <= ?", *f.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	var list []models.Purchase
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Preload("Supplier").Find(&list).Error
	return list, total, err
}
