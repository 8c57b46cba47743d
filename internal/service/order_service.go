package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopstock/internal/models"
	"shopstock/internal/repository"
)

// OrderService turns cart lines or a submitted item list into a committed
// order, never overselling stock and never committing partially.
type OrderService interface {
	CreateOrderFromCart(ctx context.Context) (*models.Order, error)
	CreateOrderDirect(ctx context.Context, items []OrderItemInput) (*models.Order, error)
	ConfirmOrder(ctx context.Context, orderID int64) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID int64) (*models.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*models.Order, error)
	ListOrders(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error)
	ListUserOrders(ctx context.Context, limit int) ([]models.Order, error)
}

// OrderItemInput is one line of a direct order. A nil UnitPrice takes the
// product's current catalog price.
type OrderItemInput struct {
	ProductID int64
	Quantity  int64
	UnitPrice *decimal.Decimal
}

type OrderListFilter struct {
	State    *models.OrderState
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

type orderService struct {
	repo   *repository.Repository
	events EventBus
	now    func() time.Time
}

func NewOrderService(repo *repository.Repository, events EventBus) OrderService {
	return &orderService{repo: repo, events: events, now: time.Now}
}

// commitOrder is the shared commit algorithm: validate every line against
// current stock, create the order and its lines, decrement the ledger with
// sale movements, and complete the source cart, all inside one transaction.
// The guarded decrement re-checks availability, so two concurrent checkouts
// for the same product cannot both pass.
func commitOrder(ctx context.Context, tx *repository.Repository, now time.Time,
	userID uuid.UUID, state models.OrderState, lines []models.OrderLine, fromCart *models.Cart) (*models.Order, error) {

	var short []int64
	for _, line := range lines {
		rec, err := tx.Stock.Get(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if rec == nil || rec.Quantity < line.Quantity {
			short = append(short, line.ProductID)
		}
	}
	if len(short) > 0 {
		return nil, insufficientStock(short...)
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal)
	}

	order := &models.Order{
		UserID:    userID,
		State:     state,
		Total:     total,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if state == models.OrderStateConfirmed {
		order.ConfirmedAt = &now
	}
	if err := tx.Orders.Create(ctx, order); err != nil {
		return nil, err
	}

	for i := range lines {
		lines[i].OrderID = order.ID
		lines[i].CreatedAt = now
	}
	if err := tx.OrderLns.BulkCreate(ctx, lines); err != nil {
		return nil, err
	}

	ref := fmt.Sprintf("order #%d", order.ID)
	for _, line := range lines {
		if err := applyMovement(ctx, tx, now, line.ProductID, -line.Quantity, models.MovementSale, ref, userID, true); err != nil {
			return nil, err
		}
	}

	if fromCart != nil {
		if err := tx.Carts.DeleteLines(ctx, fromCart.ID); err != nil {
			return nil, err
		}
		if err := tx.Carts.MarkCompleted(ctx, fromCart.ID); err != nil {
			return nil, err
		}
	}

	order.Lines = lines
	return order, nil
}

// CreateOrderFromCart checks out the active cart. Orders from this path are
// committed already confirmed; the direct path below starts them pending.
func (s *orderService) CreateOrderFromCart(ctx context.Context) (*models.Order, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.Carts.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrEmptyCart
	}
	cartLines, err := s.repo.Carts.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(cartLines) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]models.OrderLine, 0, len(cartLines))
	for _, cl := range cartLines {
		lines = append(lines, models.OrderLine{
			ProductID: cl.ProductID,
			Quantity:  cl.Quantity,
			UnitPrice: cl.UnitPrice,
			Subtotal:  cl.UnitPrice.Mul(decimal.NewFromInt(cl.Quantity)),
		})
	}

	now := s.now()
	var order *models.Order
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		order, err = commitOrder(ctx, tx, now, userID, models.OrderStateConfirmed, lines, cart)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, order)
	return order, nil
}

func (s *orderService) CreateOrderDirect(ctx context.Context, items []OrderItemInput) (*models.Order, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		ids = append(ids, it.ProductID)
	}
	products, err := s.repo.Products.BatchGetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]models.OrderLine, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, ErrProductNotFound
		}
		if !p.IsActive {
			return nil, ErrInactiveProduct
		}
		price := p.Price
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		lines = append(lines, models.OrderLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: price,
			Subtotal:  price.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}

	now := s.now()
	var order *models.Order
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		order, err = commitOrder(ctx, tx, now, userID, models.OrderStatePending, lines, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, order)
	return order, nil
}

func (s *orderService) ConfirmOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	ord, err := s.repo.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	now := s.now()
	ok, err := s.repo.Orders.TryTransition(ctx, orderID, models.OrderStatePending, models.OrderStateConfirmed, &now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOrderNotPending
	}
	return s.repo.Orders.GetByID(ctx, orderID)
}

// CancelOrder compensates a pending order: the state flip, then one return
// movement per line, all in one transaction. The guarded flip runs first so
// two racing cancellations cannot both credit the stock back.
func (s *orderService) CancelOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	ord, err := s.repo.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	if role != models.RoleAdmin && ord.UserID != userID {
		return nil, ErrForbidden
	}

	now := s.now()
	ref := fmt.Sprintf("order #%d cancelled", ord.ID)
	err = s.repo.WithTx(func(tx *repository.Repository) error {
		ok, err := tx.Orders.TryTransition(ctx, ord.ID, models.OrderStatePending, models.OrderStateCancelled, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderNotCancellable
		}
		for _, line := range ord.Lines {
			if err := applyMovement(ctx, tx, now, line.ProductID, line.Quantity, models.MovementReturn, ref, userID, false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.PublishOrderCancelled(ctx, OrderCancelledEvent{
			OrderID:     ord.ID,
			UserID:      ord.UserID,
			CancelledAt: now,
		})
	}

	return s.repo.Orders.GetByID(ctx, orderID)
}

func (s *orderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}

	var ord *models.Order
	if role == models.RoleAdmin {
		ord, err = s.repo.Orders.GetByID(ctx, orderID)
	} else {
		ord, err = s.repo.Orders.GetByIDForUser(ctx, orderID, userID)
	}
	if err != nil {
		return nil, err
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *orderService) ListOrders(ctx context.Context, f OrderListFilter) ([]models.Order, int64, error) {
	userID, role, err := requireAuth(ctx)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.OrderListFilter{
		State:    f.State,
		DateFrom: f.DateFrom,
		DateTo:   f.DateTo,
		Limit:    f.Limit,
		Offset:   f.Offset,
	}
	if role != models.RoleAdmin {
		filter.UserID = &userID
	}
	return s.repo.Orders.List(ctx, filter)
}

func (s *orderService) ListUserOrders(ctx context.Context, limit int) ([]models.Order, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Orders.ListByUser(ctx, userID, limit)
}

func (s *orderService) publishCreated(ctx context.Context, order *models.Order) {
	if s.events == nil {
		return
	}
	evLines := make([]OrderLineEvent, 0, len(order.Lines))
	for _, line := range order.Lines {
		evLines = append(evLines, OrderLineEvent{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}
	_ = s.events.PublishOrderCreated(ctx, OrderCreatedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		State:     order.State,
		Total:     order.Total,
		Lines:     evLines,
		CreatedAt: order.CreatedAt,
	})
}
