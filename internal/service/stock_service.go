package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shopstock/internal/models"
	"shopstock/internal/repository"
)

// StockService is the ledger: the authoritative on-hand quantity per product
// plus the append-only movement history explaining it.
type StockService interface {
	AdjustStock(ctx context.Context, productID, delta int64, kind models.MovementKind, reference string) (*models.StockRecord, error)
	VerifyStock(ctx context.Context, productID, required int64) error
	GetStock(ctx context.Context, productID int64) (StockInfo, error)
	ListLowStock(ctx context.Context, threshold int64) ([]models.StockRecord, error)
	ListMovements(ctx context.Context, productID int64, limit int) ([]models.StockMovement, error)
}

type StockInfo struct {
	ProductID int64
	Quantity  int64
	Available bool
}

const defaultLowStockThreshold = 10

type stockService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewStockService(repo *repository.Repository) StockService {
	return &stockService{repo: repo, now: time.Now}
}

// applyMovement mutates the stock record and appends the matching ledger
// entry inside the caller's transaction. Guarded deltas refuse to take the
// quantity below zero; unguarded ones (manual adjustments) may.
func applyMovement(ctx context.Context, tx *repository.Repository, now time.Time,
	productID, delta int64, kind models.MovementKind, reference string, actor uuid.UUID, guarded bool) error {

	if err := tx.Stock.Ensure(ctx, productID); err != nil {
		return err
	}

	if guarded && delta < 0 {
		ok, err := tx.Stock.TryDecrement(ctx, productID, -delta)
		if err != nil {
			return err
		}
		if !ok {
			return insufficientStock(productID)
		}
	} else {
		if err := tx.Stock.ApplyDelta(ctx, productID, delta); err != nil {
			return err
		}
	}

	return tx.Movements.Create(ctx, &models.StockMovement{
		ProductID: productID,
		Delta:     delta,
		Kind:      kind,
		Reference: reference,
		CreatedBy: actor,
		CreatedAt: now,
	})
}

func validKind(k models.MovementKind) bool {
	switch k {
	case models.MovementPurchase, models.MovementSale, models.MovementAdjustment, models.MovementReturn:
		return true
	}
	return false
}

func (s *stockService) AdjustStock(ctx context.Context, productID, delta int64, kind models.MovementKind, reference string) (*models.StockRecord, error) {
	actor, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, ErrInvalidDelta
	}
	if !validKind(kind) {
		return nil, ErrInvalidKind
	}

	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	now := s.now()
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		return applyMovement(ctx, tx, now, productID, delta, kind, reference, actor, false)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.Stock.Get(ctx, productID)
}

func (s *stockService) VerifyStock(ctx context.Context, productID, required int64) error {
	if _, _, err := requireAuth(ctx); err != nil {
		return err
	}
	if required <= 0 {
		return ErrInvalidQuantity
	}

	rec, err := s.repo.Stock.Get(ctx, productID)
	if err != nil {
		return err
	}
	if rec == nil || rec.Quantity < required {
		return insufficientStock(productID)
	}
	return nil
}

func (s *stockService) GetStock(ctx context.Context, productID int64) (StockInfo, error) {
	rec, err := s.repo.Stock.Get(ctx, productID)
	if err != nil {
		return StockInfo{}, err
	}
	if rec == nil {
		// No record means zero on hand, not an error.
		return StockInfo{ProductID: productID}, nil
	}
	return StockInfo{
		ProductID: rec.ProductID,
		Quantity:  rec.Quantity,
		Available: rec.Quantity > 0,
	}, nil
}

func (s *stockService) ListLowStock(ctx context.Context, threshold int64) ([]models.StockRecord, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if threshold <= 0 {
		threshold = defaultLowStockThreshold
	}
	return s.repo.Stock.ListBelow(ctx, threshold)
}

func (s *stockService) ListMovements(ctx context.Context, productID int64, limit int) ([]models.StockMovement, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.repo.Movements.ListByProduct(ctx, productID, limit)
}
