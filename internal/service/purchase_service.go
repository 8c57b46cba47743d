package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"shopstock/internal/models"
	"shopstock/internal/repository"
)

// PurchaseService records supplier purchases. Stock is received into the
// ledger when the purchase is registered; reception/cancellation only move
// the document state (cancellation compensates the ledger).
type PurchaseService interface {
	RegisterPurchase(ctx context.Context, supplierID int64, items []PurchaseItemInput) (*models.Purchase, error)
	GetPurchase(ctx context.Context, id int64) (*models.Purchase, error)
	ListPurchases(ctx context.Context, f PurchaseListFilter) ([]models.Purchase, int64, error)
	ConfirmReception(ctx context.Context, id int64) (*models.Purchase, error)
	CancelPurchase(ctx context.Context, id int64) (*models.Purchase, error)
}

type PurchaseItemInput struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
}

type PurchaseListFilter struct {
	SupplierID *int64
	State      *models.PurchaseState
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

type purchaseService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewPurchaseService(repo *repository.Repository) PurchaseService {
	return &purchaseService{repo: repo, now: time.Now}
}

func (s *purchaseService) RegisterPurchase(ctx context.Context, supplierID int64, items []PurchaseItemInput) (*models.Purchase, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	sup, err := s.repo.Suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, ErrSupplierNotFound
	}

	now := s.now()
	total := decimal.Zero
	rows := make([]models.PurchaseItem, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		p, err := s.repo.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, ErrProductNotFound
		}
		sub := it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
		total = total.Add(sub)
		rows = append(rows, models.PurchaseItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  sub,
			CreatedAt: now,
		})
	}

	purchase := &models.Purchase{
		SupplierID: supplierID,
		CreatedBy:  actor,
		State:      models.PurchaseStateDraft,
		Total:      total,
		Items:      rows,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.repo.WithTx(func(tx *repository.Repository) error {
		if err := tx.Purchases.Create(ctx, purchase); err != nil {
			return err
		}
		ref := fmt.Sprintf("purchase #%d", purchase.ID)
		for _, it := range purchase.Items {
			if err := applyMovement(ctx, tx, now, it.ProductID, it.Quantity, models.MovementPurchase, ref, actor, false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Purchases.GetByID(ctx, purchase.ID)
}

func (s *purchaseService) GetPurchase(ctx context.Context, id int64) (*models.Purchase, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	p, err := s.repo.Purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPurchaseNotFound
	}
	return p, nil
}

func (s *purchaseService) ListPurchases(ctx context.Context, f PurchaseListFilter) ([]models.Purchase, int64, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, 0, err
	}
	return s.repo.Purchases.List(ctx, repository.PurchaseListFilter{
		SupplierID: f.SupplierID,
		State:      f.State,
		DateFrom:   f.DateFrom,
		DateTo:     f.DateTo,
		Limit:      f.Limit,
		Offset:     f.Offset,
	})
}

func (s *purchaseService) ConfirmReception(ctx context.Context, id int64) (*models.Purchase, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	p, err := s.repo.Purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPurchaseNotFound
	}

	now := s.now()
	ok, err := s.repo.Purchases.TryTransition(ctx, id, models.PurchaseStateDraft, models.PurchaseStateReceived, &now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPurchaseNotDraft
	}
	return s.repo.Purchases.GetByID(ctx, id)
}

// CancelPurchase backs the received quantities out again with adjustment
// movements so the ledger still reconciles after the cancellation.
func (s *purchaseService) CancelPurchase(ctx context.Context, id int64) (*models.Purchase, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Purchases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPurchaseNotFound
	}

	now := s.now()
	ref := fmt.Sprintf("purchase #%d cancelled", p.ID)
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		ok, err := tx.Purchases.TryTransition(ctx, p.ID, models.PurchaseStateDraft, models.PurchaseStateCancelled, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPurchaseNotDraft
		}
		for _, it := range p.Items {
			if err := applyMovement(ctx, tx, now, it.ProductID, -it.Quantity, models.MovementAdjustment, ref, actor, false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Purchases.GetByID(ctx, id)
}
