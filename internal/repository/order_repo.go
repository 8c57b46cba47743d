package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopstock/internal/models"
)

type OrderListFilter struct {
	UserID   *uuid.UUID
	State    *models.OrderState
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	GetByIDForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.Order, error)
	TryTransition(ctx context.Context, id int64, from, to models.OrderState, confirmedAt *time.Time) (bool, error)
	List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").Preload("Lines.Product").
		First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) GetByIDForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").Preload("Lines.Product").
		First(&ord, "id = ? AND user_id = ?", id, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

// TryTransition flips the order state in a single guarded statement. Like
// StockRepo.TryDecrement it reports false instead of failing when the row is
// no longer in the expected state, so concurrent confirm/cancel attempts
// cannot both win.
func (r *orderRepo) TryTransition(ctx context.Context, id int64, from, to models.OrderState, confirmedAt *time.Time) (bool, error) {
	upd := map[string]any{"state": to}
	if confirmedAt != nil {
		upd["confirmed_at"] = confirmedAt
	}
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND state = ?", id, from).
		Updates(upd)
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepo) List(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})

	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
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

	var list []models.Order
	err := q.Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Preload("Lines").Find(&list).Error
	return list, total, err
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	var list []models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Preload("Lines").Preload("Lines.Product").
		Find(&list).Error
	return list, err
}
