package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrProductNotFound  = errors.New("product not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrSKUAlreadyExists = errors.New("sku already exists")
	ErrInactiveProduct  = errors.New("product is inactive")

	ErrInvalidQuantity = errors.New("quantity must be > 0")
	ErrInvalidDelta    = errors.New("delta must be non-zero")
	ErrInvalidKind     = errors.New("unknown movement kind")

	ErrEmptyCart    = errors.New("cart is empty")
	ErrLineNotFound = errors.New("product not found in cart")

	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotCancellable = errors.New("only pending orders can be cancelled")
	ErrOrderNotPending     = errors.New("order is not pending")
	ErrEmptyItems          = errors.New("empty items")

	ErrPurchaseNotFound       = errors.New("purchase not found")
	ErrPurchaseNotDraft       = errors.New("only draft purchases can be modified")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInvalidRefreshToken    = errors.New("invalid or revoked refresh token")
)

// InsufficientStockError reports every product that failed the availability
// check, so a checkout rejection can name all offending lines at once.
type InsufficientStockError struct {
	ProductIDs []int64
}

func (e *InsufficientStockError) Error() string {
	ids := make([]string, 0, len(e.ProductIDs))
	sorted := append([]int64(nil), e.ProductIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, id := range sorted {
		ids = append(ids, fmt.Sprintf("%d", id))
	}
	return "insufficient stock for product(s) " + strings.Join(ids, ", ")
}

func insufficientStock(productIDs ...int64) *InsufficientStockError {
	return &InsufficientStockError{ProductIDs: productIDs}
}

// IsInsufficientStock reports whether err is (or wraps) a stock shortage.
func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}
