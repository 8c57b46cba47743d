package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopstock/internal/models"
)

type CartRepo interface {
	// GetActive returns the user's ACTIVE cart without lines, nil if none.
	GetActive(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	// GetActiveWithLines preloads lines with product, line of business and stock.
	GetActiveWithLines(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	// EnsureActive returns the ACTIVE cart, creating one when absent.
	EnsureActive(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	MarkCompleted(ctx context.Context, cartID int64) error

	FindLine(ctx context.Context, cartID, productID int64) (*models.CartLine, error)
	CreateLine(ctx context.Context, line *models.CartLine) error
	UpdateLine(ctx context.Context, lineID int64, fields map[string]any) error
	DeleteLine(ctx context.Context, cartID, productID int64) error
	DeleteLines(ctx context.Context, cartID int64) error
	ListLines(ctx context.Context, cartID int64) ([]models.CartLine, error)
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

func (r *cartRepo) GetActive(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		First(&cart, "user_id = ? AND state = ?", userID, models.CartStateActive).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cart, err
}

func (r *cartRepo) GetActiveWithLines(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("cart_lines.created_at ASC") }).
		Preload("Lines.Product").
		Preload("Lines.Product.ProductLine").
		Preload("Lines.Product.Stock").
		First(&cart, "user_id = ? AND state = ?", userID, models.CartStateActive).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cart, err
}

func (r *cartRepo) EnsureActive(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, models.CartStateActive).
		FirstOrCreate(&cart, models.Cart{UserID: userID, State: models.CartStateActive}).Error
	return &cart, err
}

func (r *cartRepo) MarkCompleted(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("state", models.CartStateCompleted).Error
}

func (r *cartRepo) FindLine(ctx context.Context, cartID, productID int64) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		First(&line, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &line, err
}

func (r *cartRepo) CreateLine(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *cartRepo) UpdateLine(ctx context.Context, lineID int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.CartLine{}).Where("id = ?", lineID).Updates(fields).Error
}

func (r *cartRepo) DeleteLine(ctx context.Context, cartID, productID int64) error {
	return r.db.WithContext(ctx).
		Delete(&models.CartLine{}, "cart_id = ? AND product_id = ?", cartID, productID).Error
}

func (r *cartRepo) DeleteLines(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).Delete(&models.CartLine{}, "cart_id = ?", cartID).Error
}

func (r *cartRepo) ListLines(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&lines).Error
	return lines, err
}
