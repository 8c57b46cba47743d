package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"shopstock/internal/models"
)

type ProductLineRepo interface {
	Create(ctx context.Context, pl *models.ProductLine) error
	GetByID(ctx context.Context, id int64) (*models.ProductLine, error)
	List(ctx context.Context) ([]models.ProductLine, error)
}

type productLineRepo struct{ db *gorm.DB }

func NewProductLineRepo(db *gorm.DB) ProductLineRepo { return &productLineRepo{db: db} }

func (r *productLineRepo) Create(ctx context.Context, pl *models.ProductLine) error {
	return r.db.WithContext(ctx).Create(pl).Error
}

func (r *productLineRepo) GetByID(ctx context.Context, id int64) (*models.ProductLine, error) {
	var pl models.ProductLine
	err := r.db.WithContext(ctx).First(&pl, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &pl, err
}

func (r *productLineRepo) List(ctx context.Context) ([]models.ProductLine, error) {
	var list []models.ProductLine
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}
