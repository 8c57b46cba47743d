package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"shopstock/internal/models"
	"shopstock/internal/repository"
)

// CatalogService covers the minimum product surface the core needs: SKUs,
// prices, activity flags, product lines, suppliers. Stock rows are
// provisioned here at product creation.
type CatalogService interface {
	CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error)

	CreateProductLine(ctx context.Context, name string, discountPercent decimal.Decimal) (*models.ProductLine, error)
	ListProductLines(ctx context.Context) ([]models.ProductLine, error)

	CreateSupplier(ctx context.Context, name string) (*models.Supplier, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
}

type ProductInput struct {
	SKU           string
	Name          string
	Description   string
	Price         decimal.Decimal
	IsActive      bool
	ProductLineID *int64
}

type ProductPatch struct {
	SKU           *string
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	IsActive      *bool
	ProductLineID *int64
}

type ProductListFilter struct {
	Query      string
	OnlyActive bool
	Limit      int
	Offset     int
}

type catalogService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewCatalogService(repo *repository.Repository) CatalogService {
	return &catalogService{repo: repo, now: time.Now}
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	now := s.now()
	p := &models.Product{
		SKU:           strings.TrimSpace(in.SKU),
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		IsActive:      in.IsActive,
		ProductLineID: in.ProductLineID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.repo.WithTx(func(tx *repository.Repository) error {
		if existing, err := tx.Products.GetBySKU(ctx, p.SKU); err != nil {
			return err
		} else if existing != nil {
			return ErrSKUAlreadyExists
		}
		if err := tx.Products.Create(ctx, p); err != nil {
			return err
		}
		// Stock row exists from day one, so the ledger never has to deal
		// with a missing record on the hot path.
		return tx.Stock.Ensure(ctx, p.ID)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id int64, patch ProductPatch) (*models.Product, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	fields := map[string]any{}
	if patch.SKU != nil {
		sku := strings.TrimSpace(*patch.SKU)
		if existing, err := s.repo.Products.GetBySKU(ctx, sku); err != nil {
			return nil, err
		} else if existing != nil && existing.ID != p.ID {
			return nil, ErrSKUAlreadyExists
		}
		fields["sku"] = sku
	}
	if patch.Name != nil {
		fields["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		fields["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}
	if patch.ProductLineID != nil {
		fields["product_line_id"] = *patch.ProductLineID
	}
	if len(fields) == 0 {
		return p, nil
	}
	fields["updated_at"] = s.now()

	if err := s.repo.Products.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.Products.GetByID(ctx, id)
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *catalogService) ListProducts(ctx context.Context, f ProductListFilter) ([]models.Product, int64, error) {
	return s.repo.Products.List(ctx, repository.ProductListFilter{
		Query:      f.Query,
		OnlyActive: f.OnlyActive,
		Limit:      f.Limit,
		Offset:     f.Offset,
	})
}

func (s *catalogService) CreateProductLine(ctx context.Context, name string, discountPercent decimal.Decimal) (*models.ProductLine, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	pl := &models.ProductLine{
		Name:            strings.TrimSpace(name),
		DiscountPercent: discountPercent,
		CreatedAt:       s.now(),
	}
	if err := s.repo.ProductLines.Create(ctx, pl); err != nil {
		return nil, err
	}
	return pl, nil
}

func (s *catalogService) ListProductLines(ctx context.Context) ([]models.ProductLine, error) {
	return s.repo.ProductLines.List(ctx)
}

func (s *catalogService) CreateSupplier(ctx context.Context, name string) (*models.Supplier, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	sup := &models.Supplier{Name: strings.TrimSpace(name), CreatedAt: s.now()}
	if err := s.repo.Suppliers.Create(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.repo.Suppliers.List(ctx)
}
