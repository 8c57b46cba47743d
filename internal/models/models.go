package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer Role = "ROLE_CUSTOMER"
	RoleAdmin    Role = "ROLE_ADMIN"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text;not null"`
	FullName     string    `gorm:"type:text;not null"`
	Role         Role      `gorm:"type:text;not null;default:'ROLE_CUSTOMER'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

// ProductLine groups products under a line of business; its discount
// percentage feeds the cart's display pricing.
type ProductLine struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	Name            string          `gorm:"type:text;not null;uniqueIndex"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (ProductLine) TableName() string { return "product_lines" }

type Product struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	SKU           string          `gorm:"type:text;not null"`
	Name          string          `gorm:"type:text;not null"`
	Description   string          `gorm:"type:text"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true"`
	ProductLineID *int64          `gorm:"index"`

	ProductLine *ProductLine `gorm:"foreignKey:ProductLineID"`
	Stock       *StockRecord `gorm:"foreignKey:ProductID"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Product) TableName() string { return "products" }

// StockRecord is the authoritative on-hand quantity, one row per product.
// Mutated only through the ledger's movement application.
type StockRecord struct {
	ProductID int64 `gorm:"primaryKey"`
	Quantity  int64 `gorm:"not null;default:0"`

	Product *Product `gorm:"foreignKey:ProductID"`

	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (StockRecord) TableName() string { return "stock_records" }

type MovementKind string

const (
	MovementPurchase   MovementKind = "PURCHASE"
	MovementSale       MovementKind = "SALE"
	MovementAdjustment MovementKind = "ADJUSTMENT"
	MovementReturn     MovementKind = "RETURN"
)

// StockMovement is an append-only ledger entry; rows are never updated or
// deleted. The sum of deltas per product reconciles with its StockRecord.
type StockMovement struct {
	ID        int64        `gorm:"primaryKey;autoIncrement"`
	ProductID int64        `gorm:"not null;index:ix_stock_movements_product_created,priority:1"`
	Delta     int64        `gorm:"not null"`
	Kind      MovementKind `gorm:"type:text;not null"`
	Reference string       `gorm:"type:text"`
	CreatedBy uuid.UUID    `gorm:"type:uuid;not null;index"`

	Actor *User `gorm:"foreignKey:CreatedBy"`

	CreatedAt time.Time `gorm:"not null;default:now();index:ix_stock_movements_product_created,priority:2,sort:desc"`
}

func (StockMovement) TableName() string { return "stock_movements" }

type CartState string

const (
	CartStateActive    CartState = "ACTIVE"
	CartStateCompleted CartState = "COMPLETED"
)

// Cart is the per-user staging area; at most one ACTIVE cart per user
// (partial unique index created in migrate).
type Cart struct {
	ID     int64     `gorm:"primaryKey;autoIncrement"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	State  CartState `gorm:"type:text;not null;default:'ACTIVE';index"`

	Lines []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Cart) TableName() string { return "carts" }

type CartLine struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	CartID    int64           `gorm:"not null;index;uniqueIndex:ux_cart_lines_cart_product"`
	ProductID int64           `gorm:"not null;uniqueIndex:ux_cart_lines_cart_product"`
	Quantity  int64           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"` // frozen at add time

	Product *Product `gorm:"foreignKey:ProductID"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (CartLine) TableName() string { return "cart_lines" }

type OrderState string

const (
	OrderStatePending   OrderState = "PENDING"
	OrderStateConfirmed OrderState = "CONFIRMED"
	OrderStateCancelled OrderState = "CANCELLED"
)

type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	State       OrderState      `gorm:"type:text;not null;default:'PENDING';index"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ConfirmedAt *time.Time

	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Order) TableName() string { return "orders" }

type OrderLine struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"not null;index;uniqueIndex:ux_order_lines_order_product"`
	ProductID int64           `gorm:"not null;uniqueIndex:ux_order_lines_order_product"`
	Quantity  int64           `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderLine) TableName() string { return "order_lines" }

type Supplier struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:text;not null;uniqueIndex"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Supplier) TableName() string { return "suppliers" }

type PurchaseState string

const (
	PurchaseStateDraft     PurchaseState = "DRAFT"
	PurchaseStateReceived  PurchaseState = "RECEIVED"
	PurchaseStateCancelled PurchaseState = "CANCELLED"
)

type Purchase struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	SupplierID int64           `gorm:"not null;index"`
	CreatedBy  uuid.UUID       `gorm:"type:uuid;not null;index"`
	State      PurchaseState   `gorm:"type:text;not null;default:'DRAFT';index"`
	Total      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ReceivedAt *time.Time

	Supplier *Supplier      `gorm:"foreignKey:SupplierID"`
	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Purchase) TableName() string { return "purchases" }

type PurchaseItem struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	PurchaseID int64           `gorm:"not null;index;uniqueIndex:ux_purchase_items_purchase_product"`
	ProductID  int64           `gorm:"not null;uniqueIndex:ux_purchase_items_purchase_product"`
	Quantity   int64           `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Subtotal   decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (PurchaseItem) TableName() string { return "purchase_items" }
