package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shopstock/internal/models"
)

type SupplierRepo interface {
	Create(ctx context.Context, s *models.Supplier) error
	GetByID(ctx context.Context, id int64) (*models.Supplier, error)
	GetByName(ctx context.Context, name string) (*models.Supplier, error)
	List(ctx context.Context) ([]models.Supplier, error)
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepo(db *gorm.DB) SupplierRepo { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *models.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) GetByID(ctx context.Context, id int64) (*models.Supplier, error) {
	var s models.Supplier
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *supplierRepo) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	var s models.Supplier
	err := r.db.WithContext(ctx).First(&s, "lower(name) = lower(?)", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &s, err
}

func (r *supplierRepo) List(ctx context.Context) ([]models.Supplier, error) {
	var list []models.Supplier
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}
