package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"shopstock/internal/models"
	"shopstock/internal/repository"
	"shopstock/internal/service"
)

// Mocks mirror the repository interfaces with overridable function fields;
// unset fields fall back to a no-op success.

type MockUserRepo struct {
	CreateFunc        func(ctx context.Context, u *models.User) error
	GetByEmailFunc    func(ctx context.Context, email string) (*models.User, error)
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*models.User, error)
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
}

func (m *MockUserRepo) Create(ctx context.Context, u *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

type MockProductRepo struct {
	CreateFunc        func(ctx context.Context, p *models.Product) error
	GetByIDFunc       func(ctx context.Context, id int64) (*models.Product, error)
	GetBySKUFunc      func(ctx context.Context, sku string) (*models.Product, error)
	BatchGetByIDsFunc func(ctx context.Context, ids []int64) ([]models.Product, error)
	ListFunc          func(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error)
	UpdateFieldsFunc  func(ctx context.Context, id int64, fields map[string]any) error
}

func (m *MockProductRepo) Create(ctx context.Context, p *models.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepo) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	if m.GetBySKUFunc != nil {
		return m.GetBySKUFunc(ctx, sku)
	}
	return nil, nil
}

func (m *MockProductRepo) BatchGetByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if m.BatchGetByIDsFunc != nil {
		return m.BatchGetByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockProductRepo) List(ctx context.Context, f repository.ProductListFilter) ([]models.Product, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockProductRepo) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, id, fields)
	}
	return nil
}

type MockProductLineRepo struct {
	CreateFunc  func(ctx context.Context, pl *models.ProductLine) error
	GetByIDFunc func(ctx context.Context, id int64) (*models.ProductLine, error)
	ListFunc    func(ctx context.Context) ([]models.ProductLine, error)
}

func (m *MockProductLineRepo) Create(ctx context.Context, pl *models.ProductLine) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, pl)
	}
	return nil
}

func (m *MockProductLineRepo) GetByID(ctx context.Context, id int64) (*models.ProductLine, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductLineRepo) List(ctx context.Context) ([]models.ProductLine, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

type MockSupplierRepo struct {
	CreateFunc    func(ctx context.Context, s *models.Supplier) error
	GetByIDFunc   func(ctx context.Context, id int64) (*models.Supplier, error)
	GetByNameFunc func(ctx context.Context, name string) (*models.Supplier, error)
	ListFunc      func(ctx context.Context) ([]models.Supplier, error)
}

func (m *MockSupplierRepo) Create(ctx context.Context, s *models.Supplier) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	return nil
}

func (m *MockSupplierRepo) GetByID(ctx context.Context, id int64) (*models.Supplier, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockSupplierRepo) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockSupplierRepo) List(ctx context.Context) ([]models.Supplier, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

type MockStockRepo struct {
	GetFunc          func(ctx context.Context, productID int64) (*models.StockRecord, error)
	EnsureFunc       func(ctx context.Context, productID int64) error
	ApplyDeltaFunc   func(ctx context.Context, productID int64, delta int64) error
	TryDecrementFunc func(ctx context.Context, productID int64, qty int64) (bool, error)
	ListBelowFunc    func(ctx context.Context, threshold int64) ([]models.StockRecord, error)
}

func (m *MockStockRepo) Get(ctx context.Context, productID int64) (*models.StockRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, productID)
	}
	return nil, nil
}

func (m *MockStockRepo) Ensure(ctx context.Context, productID int64) error {
	if m.EnsureFunc != nil {
		return m.EnsureFunc(ctx, productID)
	}
	return nil
}

func (m *MockStockRepo) ApplyDelta(ctx context.Context, productID int64, delta int64) error {
	if m.ApplyDeltaFunc != nil {
		return m.ApplyDeltaFunc(ctx, productID, delta)
	}
	return nil
}

func (m *MockStockRepo) TryDecrement(ctx context.Context, productID int64, qty int64) (bool, error) {
	if m.TryDecrementFunc != nil {
		return m.TryDecrementFunc(ctx, productID, qty)
	}
	return true, nil
}

func (m *MockStockRepo) ListBelow(ctx context.Context, threshold int64) ([]models.StockRecord, error) {
	if m.ListBelowFunc != nil {
		return m.ListBelowFunc(ctx, threshold)
	}
	return nil, nil
}

type MockMovementRepo struct {
	CreateFunc        func(ctx context.Context, mv *models.StockMovement) error
	ListByProductFunc func(ctx context.Context, productID int64, limit int) ([]models.StockMovement, error)
	SumDeltasFunc     func(ctx context.Context, productID int64) (int64, error)
}

func (m *MockMovementRepo) Create(ctx context.Context, mv *models.StockMovement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, mv)
	}
	return nil
}

func (m *MockMovementRepo) ListByProduct(ctx context.Context, productID int64, limit int) ([]models.StockMovement, error) {
	if m.ListByProductFunc != nil {
		return m.ListByProductFunc(ctx, productID, limit)
	}
	return nil, nil
}

func (m *MockMovementRepo) SumDeltas(ctx context.Context, productID int64) (int64, error) {
	if m.SumDeltasFunc != nil {
		return m.SumDeltasFunc(ctx, productID)
	}
	return 0, nil
}

type MockCartRepo struct {
	GetActiveFunc          func(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetActiveWithLinesFunc func(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	EnsureActiveFunc       func(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	MarkCompletedFunc      func(ctx context.Context, cartID int64) error
	FindLineFunc           func(ctx context.Context, cartID, productID int64) (*models.CartLine, error)
	CreateLineFunc         func(ctx context.Context, line *models.CartLine) error
	UpdateLineFunc         func(ctx context.Context, lineID int64, fields map[string]any) error
	DeleteLineFunc         func(ctx context.Context, cartID, productID int64) error
	DeleteLinesFunc        func(ctx context.Context, cartID int64) error
	ListLinesFunc          func(ctx context.Context, cartID int64) ([]models.CartLine, error)
}

func (m *MockCartRepo) GetActive(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if m.GetActiveFunc != nil {
		return m.GetActiveFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockCartRepo) GetActiveWithLines(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if m.GetActiveWithLinesFunc != nil {
		return m.GetActiveWithLinesFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockCartRepo) EnsureActive(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if m.EnsureActiveFunc != nil {
		return m.EnsureActiveFunc(ctx, userID)
	}
	return &models.Cart{ID: 1, UserID: userID, State: models.CartStateActive}, nil
}

func (m *MockCartRepo) MarkCompleted(ctx context.Context, cartID int64) error {
	if m.MarkCompletedFunc != nil {
		return m.MarkCompletedFunc(ctx, cartID)
	}
	return nil
}

func (m *MockCartRepo) FindLine(ctx context.Context, cartID, productID int64) (*models.CartLine, error) {
	if m.FindLineFunc != nil {
		return m.FindLineFunc(ctx, cartID, productID)
	}
	return nil, nil
}

func (m *MockCartRepo) CreateLine(ctx context.Context, line *models.CartLine) error {
	if m.CreateLineFunc != nil {
		return m.CreateLineFunc(ctx, line)
	}
	return nil
}

func (m *MockCartRepo) UpdateLine(ctx context.Context, lineID int64, fields map[string]any) error {
	if m.UpdateLineFunc != nil {
		return m.UpdateLineFunc(ctx, lineID, fields)
	}
	return nil
}

func (m *MockCartRepo) DeleteLine(ctx context.Context, cartID, productID int64) error {
	if m.DeleteLineFunc != nil {
		return m.DeleteLineFunc(ctx, cartID, productID)
	}
	return nil
}

func (m *MockCartRepo) DeleteLines(ctx context.Context, cartID int64) error {
	if m.DeleteLinesFunc != nil {
		return m.DeleteLinesFunc(ctx, cartID)
	}
	return nil
}

func (m *MockCartRepo) ListLines(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	if m.ListLinesFunc != nil {
		return m.ListLinesFunc(ctx, cartID)
	}
	return nil, nil
}

type MockOrderRepo struct {
	CreateFunc         func(ctx context.Context, o *models.Order) error
	GetByIDFunc        func(ctx context.Context, id int64) (*models.Order, error)
	GetByIDForUserFunc func(ctx context.Context, id int64, userID uuid.UUID) (*models.Order, error)
	TryTransitionFunc  func(ctx context.Context, id int64, from, to models.OrderState, confirmedAt *time.Time) (bool, error)
	ListFunc           func(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error)
	ListByUserFunc     func(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error)
}

func (m *MockOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	o.ID = 1
	return nil
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockOrderRepo) GetByIDForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.Order, error) {
	if m.GetByIDForUserFunc != nil {
		return m.GetByIDForUserFunc(ctx, id, userID)
	}
	return nil, nil
}

func (m *MockOrderRepo) TryTransition(ctx context.Context, id int64, from, to models.OrderState, confirmedAt *time.Time) (bool, error) {
	if m.TryTransitionFunc != nil {
		return m.TryTransitionFunc(ctx, id, from, to, confirmedAt)
	}
	return true, nil
}

func (m *MockOrderRepo) List(ctx context.Context, f repository.OrderListFilter) ([]models.Order, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

func (m *MockOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit)
	}
	return nil, nil
}

type MockOrderLineRepo struct {
	BulkCreateFunc  func(ctx context.Context, lines []models.OrderLine) error
	ListByOrderFunc func(ctx context.Context, orderID int64) ([]models.OrderLine, error)
}

func (m *MockOrderLineRepo) BulkCreate(ctx context.Context, lines []models.OrderLine) error {
	if m.BulkCreateFunc != nil {
		return m.BulkCreateFunc(ctx, lines)
	}
	return nil
}

func (m *MockOrderLineRepo) ListByOrder(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	if m.ListByOrderFunc != nil {
		return m.ListByOrderFunc(ctx, orderID)
	}
	return nil, nil
}

type MockPurchaseRepo struct {
	CreateFunc        func(ctx context.Context, p *models.Purchase) error
	GetByIDFunc       func(ctx context.Context, id int64) (*models.Purchase, error)
	TryTransitionFunc func(ctx context.Context, id int64, from, to models.PurchaseState, receivedAt *time.Time) (bool, error)
	ListFunc          func(ctx context.Context, f repository.PurchaseListFilter) ([]models.Purchase, int64, error)
}

func (m *MockPurchaseRepo) Create(ctx context.Context, p *models.Purchase) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	p.ID = 1
	return nil
}

func (m *MockPurchaseRepo) GetByID(ctx context.Context, id int64) (*models.Purchase, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockPurchaseRepo) TryTransition(ctx context.Context, id int64, from, to models.PurchaseState, receivedAt *time.Time) (bool, error) {
	if m.TryTransitionFunc != nil {
		return m.TryTransitionFunc(ctx, id, from, to, receivedAt)
	}
	return true, nil
}

func (m *MockPurchaseRepo) List(ctx context.Context, f repository.PurchaseListFilter) ([]models.Purchase, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, f)
	}
	return nil, 0, nil
}

type MockEventBus struct {
	PublishOrderCreatedFunc   func(ctx context.Context, ev service.OrderCreatedEvent) error
	PublishOrderCancelledFunc func(ctx context.Context, ev service.OrderCancelledEvent) error
}

func (m *MockEventBus) PublishOrderCreated(ctx context.Context, ev service.OrderCreatedEvent) error {
	if m.PublishOrderCreatedFunc != nil {
		return m.PublishOrderCreatedFunc(ctx, ev)
	}
	return nil
}

func (m *MockEventBus) PublishOrderCancelled(ctx context.Context, ev service.OrderCancelledEvent) error {
	if m.PublishOrderCancelledFunc != nil {
		return m.PublishOrderCancelledFunc(ctx, ev)
	}
	return nil
}

// fakeStock is a mutex-guarded in-memory stock store. Concurrency tests run
// real goroutines against it, so TryDecrement must serialize like the
// single-statement SQL guard does.
type fakeStock struct {
	mu  sync.Mutex
	qty map[int64]int64
}

func newFakeStock(initial map[int64]int64) *fakeStock {
	qty := make(map[int64]int64, len(initial))
	for id, q := range initial {
		qty[id] = q
	}
	return &fakeStock{qty: qty}
}

func (f *fakeStock) quantity(productID int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.qty[productID]
}

func (f *fakeStock) Get(ctx context.Context, productID int64) (*models.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.qty[productID]
	if !ok {
		return nil, nil
	}
	return &models.StockRecord{ProductID: productID, Quantity: q}, nil
}

func (f *fakeStock) Ensure(ctx context.Context, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.qty[productID]; !ok {
		f.qty[productID] = 0
	}
	return nil
}

func (f *fakeStock) ApplyDelta(ctx context.Context, productID int64, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.qty[productID] += delta
	return nil
}

func (f *fakeStock) TryDecrement(ctx context.Context, productID int64, qty int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.qty[productID] < qty {
		return false, nil
	}
	f.qty[productID] -= qty
	return true, nil
}

func (f *fakeStock) ListBelow(ctx context.Context, threshold int64) ([]models.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.StockRecord
	for id, q := range f.qty {
		if q < threshold {
			out = append(out, models.StockRecord{ProductID: id, Quantity: q})
		}
	}
	return out, nil
}

// fakeMovements appends ledger entries under a mutex so concurrent checkouts
// can record in parallel.
type fakeMovements struct {
	mu      sync.Mutex
	entries []models.StockMovement
}

func (f *fakeMovements) Create(ctx context.Context, m *models.StockMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *m)
	return nil
}

func (f *fakeMovements) ListByProduct(ctx context.Context, productID int64, limit int) ([]models.StockMovement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.StockMovement
	for _, m := range f.entries {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMovements) SumDeltas(ctx context.Context, productID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, m := range f.entries {
		if m.ProductID == productID {
			sum += m.Delta
		}
	}
	return sum, nil
}

func (f *fakeMovements) byKind(productID int64, kind models.MovementKind) []models.StockMovement {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.StockMovement
	for _, m := range f.entries {
		if m.ProductID == productID && m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// fakeOrders is a stateful order store for transaction and concurrency
// tests. TryTransition is a compare-and-swap under the mutex, matching the
// guarded one-statement update the real repository issues.
type fakeOrders struct {
	mu     sync.Mutex
	orders map[int64]models.Order
	nextID int64
}

func newFakeOrders(seed ...models.Order) *fakeOrders {
	f := &fakeOrders{orders: make(map[int64]models.Order)}
	for _, o := range seed {
		f.orders[o.ID] = o
		if o.ID > f.nextID {
			f.nextID = o.ID
		}
	}
	return f
}

func (f *fakeOrders) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *fakeOrders) state(id int64) models.OrderState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id].State
}

func (f *fakeOrders) Create(ctx context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	o.ID = f.nextID
	f.orders[o.ID] = *o
	return nil
}

func (f *fakeOrders) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (f *fakeOrders) GetByIDForUser(ctx context.Context, id int64, userID uuid.UUID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.UserID != userID {
		return nil, nil
	}
	return &o, nil
}

func (f *fakeOrders) TryTransition(ctx context.Context, id int64, from, to models.OrderState, confirmedAt *time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.State != from {
		return false, nil
	}
	o.State = to
	if confirmedAt != nil {
		o.ConfirmedAt = confirmedAt
	}
	f.orders[id] = o
	return true, nil
}

func (f *fakeOrders) List(ctx context.Context, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrders) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// fakeOrderLines collects created order lines.
type fakeOrderLines struct {
	mu    sync.Mutex
	lines []models.OrderLine
}

func (f *fakeOrderLines) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lines)
}

func (f *fakeOrderLines) BulkCreate(ctx context.Context, lines []models.OrderLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, lines...)
	return nil
}

func (f *fakeOrderLines) ListByOrder(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.OrderLine
	for _, l := range f.lines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}

// fakeCarts holds a single cart with its lines and an injectable completion
// failure, enough to drive a checkout through the cart steps.
type fakeCarts struct {
	mu          sync.Mutex
	cart        models.Cart
	lines       []models.CartLine
	completeErr error
}

func newFakeCarts(cart models.Cart, lines []models.CartLine) *fakeCarts {
	return &fakeCarts{cart: cart, lines: lines}
}

func (f *fakeCarts) cartState() models.CartState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cart.State
}

func (f *fakeCarts) lineCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lines)
}

func (f *fakeCarts) GetActive(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cart.UserID != userID || f.cart.State != models.CartStateActive {
		return nil, nil
	}
	c := f.cart
	return &c, nil
}

func (f *fakeCarts) GetActiveWithLines(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	c, err := f.GetActive(ctx, userID)
	if c == nil || err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c.Lines = append([]models.CartLine(nil), f.lines...)
	return c, nil
}

func (f *fakeCarts) EnsureActive(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.cart
	return &c, nil
}

func (f *fakeCarts) MarkCompleted(ctx context.Context, cartID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return f.completeErr
	}
	f.cart.State = models.CartStateCompleted
	return nil
}

func (f *fakeCarts) FindLine(ctx context.Context, cartID, productID int64) (*models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lines {
		if l.CartID == cartID && l.ProductID == productID {
			line := l
			return &line, nil
		}
	}
	return nil, nil
}

func (f *fakeCarts) CreateLine(ctx context.Context, line *models.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, *line)
	return nil
}

func (f *fakeCarts) UpdateLine(ctx context.Context, lineID int64, fields map[string]any) error {
	return nil
}

func (f *fakeCarts) DeleteLine(ctx context.Context, cartID, productID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.lines[:0]
	for _, l := range f.lines {
		if !(l.CartID == cartID && l.ProductID == productID) {
			kept = append(kept, l)
		}
	}
	f.lines = kept
	return nil
}

func (f *fakeCarts) DeleteLines(ctx context.Context, cartID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = nil
	return nil
}

func (f *fakeCarts) ListLines(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CartLine(nil), f.lines...), nil
}

// memStore is implemented by the stateful fakes so a test transactor can
// snapshot them before the callback and restore them when it fails.
type memStore interface {
	snapshot() any
	restore(snap any)
}

func (f *fakeStock) snapshot() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	qty := make(map[int64]int64, len(f.qty))
	for id, q := range f.qty {
		qty[id] = q
	}
	return qty
}

func (f *fakeStock) restore(snap any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.qty = snap.(map[int64]int64)
}

func (f *fakeMovements) snapshot() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.StockMovement(nil), f.entries...)
}

func (f *fakeMovements) restore(snap any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = snap.([]models.StockMovement)
}

type ordersSnap struct {
	orders map[int64]models.Order
	nextID int64
}

func (f *fakeOrders) snapshot() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	orders := make(map[int64]models.Order, len(f.orders))
	for id, o := range f.orders {
		orders[id] = o
	}
	return ordersSnap{orders: orders, nextID: f.nextID}
}

func (f *fakeOrders) restore(snap any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := snap.(ordersSnap)
	f.orders = s.orders
	f.nextID = s.nextID
}

func (f *fakeOrderLines) snapshot() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.OrderLine(nil), f.lines...)
}

func (f *fakeOrderLines) restore(snap any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = snap.([]models.OrderLine)
}

type cartsSnap struct {
	cart  models.Cart
	lines []models.CartLine
}

func (f *fakeCarts) snapshot() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cartsSnap{cart: f.cart, lines: append([]models.CartLine(nil), f.lines...)}
}

func (f *fakeCarts) restore(snap any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := snap.(cartsSnap)
	f.cart = s.cart
	f.lines = s.lines
}

// withRollback installs a transactor that snapshots the given stores and
// restores them when the callback fails, the way a database rollback leaves
// no trace of the aborted writes.
func withRollback(repo *repository.Repository, stores ...memStore) {
	repo.Transactor = func(fn func(tx *repository.Repository) error) error {
		snaps := make([]any, len(stores))
		for i, s := range stores {
			snaps[i] = s.snapshot()
		}
		if err := fn(repo); err != nil {
			for i, s := range stores {
				s.restore(snaps[i])
			}
			return err
		}
		return nil
	}
}

// testRepo assembles a repository over default mocks. Without a DB handle
// WithTx runs the callback against the same stores, which is what the
// service tests want.
func testRepo() *repository.Repository {
	return &repository.Repository{
		Users:        &MockUserRepo{},
		Products:     &MockProductRepo{},
		ProductLines: &MockProductLineRepo{},
		Suppliers:    &MockSupplierRepo{},
		Stock:        &MockStockRepo{},
		Movements:    &MockMovementRepo{},
		Carts:        &MockCartRepo{},
		Orders:       &MockOrderRepo{},
		OrderLns:     &MockOrderLineRepo{},
		Purchases:    &MockPurchaseRepo{},
	}
}

func customerCtx(uid uuid.UUID) context.Context {
	ctx := service.WithUserID(context.Background(), uid)
	return service.WithRole(ctx, models.RoleCustomer)
}

func adminCtx(uid uuid.UUID) context.Context {
	ctx := service.WithUserID(context.Background(), uid)
	return service.WithRole(ctx, models.RoleAdmin)
}
