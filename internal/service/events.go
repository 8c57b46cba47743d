package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shopstock/internal/models"
)

type OrderLineEvent struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderCreatedEvent struct {
	OrderID   int64             `json:"order_id"`
	UserID    uuid.UUID         `json:"user_id"`
	State     models.OrderState `json:"state"`
	Total     decimal.Decimal   `json:"total"`
	Lines     []OrderLineEvent  `json:"lines"`
	CreatedAt time.Time         `json:"created_at"`
}

type OrderCancelledEvent struct {
	OrderID     int64     `json:"order_id"`
	UserID      uuid.UUID `json:"user_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// EventBus is optional; a nil bus means events are skipped.
type EventBus interface {
	PublishOrderCreated(ctx context.Context, ev OrderCreatedEvent) error
	PublishOrderCancelled(ctx context.Context, ev OrderCancelledEvent) error
}
