package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"shopstock/internal/models"
	"shopstock/internal/repository"
)

// CartService manages the per-user staging basket. The acting user comes
// from the request context; prices are frozen at add time, never re-read
// from the catalog.
type CartService interface {
	UpsertLine(ctx context.Context, productID, quantity int64, unitPrice decimal.Decimal) error
	SetLineQuantity(ctx context.Context, productID, quantity int64) (*CartView, error)
	RemoveLine(ctx context.Context, productID int64) error
	Clear(ctx context.Context) error
	GetCart(ctx context.Context) (*CartView, error)
	Summary(ctx context.Context) (CartSummary, error)
}

type CartLineView struct {
	ProductID       int64
	SKU             string
	Name            string
	Quantity        int64
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountedPrice decimal.Decimal
	GrossSubtotal   decimal.Decimal // before discount
	Subtotal        decimal.Decimal // after discount
	Discount        decimal.Decimal
	StockOnHand     int64 // display only, not a reservation
}

type CartView struct {
	CartID        int64
	State         models.CartState
	Lines         []CartLineView
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	Total         decimal.Decimal
	ItemCount     int
	UnitCount     int64
}

type CartSummary struct {
	Exists    bool
	CartID    int64
	ItemCount int
	UnitCount int64
	Total     decimal.Decimal
}

type cartService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewCartService(repo *repository.Repository) CartService {
	return &cartService{repo: repo, now: time.Now}
}

func (s *cartService) UpsertLine(ctx context.Context, productID, quantity int64, unitPrice decimal.Decimal) error {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}
	if !p.IsActive {
		return ErrInactiveProduct
	}

	now := s.now()
	return s.repo.WithTx(func(tx *repository.Repository) error {
		cart, err := tx.Carts.EnsureActive(ctx, userID)
		if err != nil {
			return err
		}

		if quantity == 0 {
			return tx.Carts.DeleteLine(ctx, cart.ID, productID)
		}

		line, err := tx.Carts.FindLine(ctx, cart.ID, productID)
		if err != nil {
			return err
		}
		if line == nil {
			return tx.Carts.CreateLine(ctx, &models.CartLine{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				UnitPrice: unitPrice,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		// The supplied price wins over the stored one.
		return tx.Carts.UpdateLine(ctx, line.ID, map[string]any{
			"quantity":   quantity,
			"unit_price": unitPrice,
			"updated_at": now,
		})
	})
}

func (s *cartService) SetLineQuantity(ctx context.Context, productID, quantity int64) (*CartView, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.repo.Carts.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrLineNotFound
	}

	line, err := s.repo.Carts.FindLine(ctx, cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, ErrLineNotFound
	}

	// Quantity only; the frozen unit price stays.
	err = s.repo.Carts.UpdateLine(ctx, line.ID, map[string]any{
		"quantity":   quantity,
		"updated_at": s.now(),
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx)
}

func (s *cartService) RemoveLine(ctx context.Context, productID int64) error {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	cart, err := s.repo.Carts.GetActive(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	return s.repo.Carts.DeleteLine(ctx, cart.ID, productID)
}

func (s *cartService) Clear(ctx context.Context) error {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	cart, err := s.repo.Carts.GetActive(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	return s.repo.Carts.DeleteLines(ctx, cart.ID)
}

func (s *cartService) GetCart(ctx context.Context) (*CartView, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.Carts.GetActiveWithLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, nil
	}

	view := &CartView{
		CartID:        cart.ID,
		State:         cart.State,
		Lines:         make([]CartLineView, 0, len(cart.Lines)),
		Subtotal:      decimal.Zero,
		TotalDiscount: decimal.Zero,
	}

	hundred := decimal.NewFromInt(100)
	for _, line := range cart.Lines {
		lv := CartLineView{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
		if line.Product != nil {
			lv.SKU = line.Product.SKU
			lv.Name = line.Product.Name
			if line.Product.ProductLine != nil {
				lv.DiscountPercent = line.Product.ProductLine.DiscountPercent
			}
			if line.Product.Stock != nil {
				lv.StockOnHand = line.Product.Stock.Quantity
			}
		}

		lv.DiscountedPrice = line.UnitPrice
		if lv.DiscountPercent.IsPositive() {
			off := line.UnitPrice.Mul(lv.DiscountPercent).Div(hundred)
			lv.DiscountedPrice = line.UnitPrice.Sub(off).Round(2)
		}

		qty := decimal.NewFromInt(line.Quantity)
		lv.GrossSubtotal = line.UnitPrice.Mul(qty)
		lv.Subtotal = lv.DiscountedPrice.Mul(qty)
		lv.Discount = lv.GrossSubtotal.Sub(lv.Subtotal)

		view.Subtotal = view.Subtotal.Add(lv.Subtotal)
		view.TotalDiscount = view.TotalDiscount.Add(lv.Discount)
		view.UnitCount += line.Quantity
		view.Lines = append(view.Lines, lv)
	}

	view.ItemCount = len(view.Lines)
	view.Total = view.Subtotal
	return view, nil
}

func (s *cartService) Summary(ctx context.Context) (CartSummary, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return CartSummary{}, err
	}

	cart, err := s.repo.Carts.GetActive(ctx, userID)
	if err != nil {
		return CartSummary{}, err
	}
	if cart == nil {
		return CartSummary{Total: decimal.Zero}, nil
	}

	lines, err := s.repo.Carts.ListLines(ctx, cart.ID)
	if err != nil {
		return CartSummary{}, err
	}

	sum := CartSummary{Exists: true, CartID: cart.ID, ItemCount: len(lines), Total: decimal.Zero}
	for _, line := range lines {
		sum.UnitCount += line.Quantity
		sum.Total = sum.Total.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
	}
	return sum, nil
}
