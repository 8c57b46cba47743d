package http

import (
	"time"

	"github.com/shopspring/decimal"
)

// BaseError is the wire error envelope: machine code + readable message.
type BaseError struct {
	Code     string  `json:"code"`
	Message  string  `json:"message"`
	Details  string  `json:"details,omitempty"`
	Products []int64 `json:"products,omitempty"` // set for insufficient-stock rejections
}

func newError(code, msg string) BaseError {
	return BaseError{Code: code, Message: msg}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken      string     `json:"access_token"`
	ExpiresAt        time.Time  `json:"expires_at"`
	RefreshToken     string     `json:"refresh_token,omitempty"`
	RefreshExpiresAt *time.Time `json:"refresh_expires_at,omitempty"`
	User             UserDTO    `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UserDTO struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type ProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	IsActive      *bool           `json:"is_active"`
	ProductLineID *int64          `json:"product_line_id"`
}

type ProductPatchRequest struct {
	SKU           *string          `json:"sku"`
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	IsActive      *bool            `json:"is_active"`
	ProductLineID *int64           `json:"product_line_id"`
}

type ProductLineRequest struct {
	Name            string          `json:"name" binding:"required"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

type SupplierRequest struct {
	Name string `json:"name" binding:"required"`
}

type CartLineRequest struct {
	ProductID int64           `json:"product_id" binding:"required"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type SetQuantityRequest struct {
	Quantity int64 `json:"quantity" binding:"required"`
}

type OrderItemRequest struct {
	ProductID int64            `json:"product_id" binding:"required"`
	Quantity  int64            `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required"`
}

type AdjustStockRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Delta     int64  `json:"delta" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
	Reference string `json:"reference"`
}

type VerifyStockItem struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int64 `json:"quantity" binding:"required"`
}

type VerifyStockRequest struct {
	Items []VerifyStockItem `json:"items" binding:"required"`
}

type VerifyStockResult struct {
	ProductID int64  `json:"product_id"`
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}

type PurchaseItemRequest struct {
	ProductID int64           `json:"product_id" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreatePurchaseRequest struct {
	SupplierID int64                 `json:"supplier_id" binding:"required"`
	Items      []PurchaseItemRequest `json:"items" binding:"required"`
}
