package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopstock/internal/service"
)

// writeError maps service errors onto the wire: business-rule and not-found
// failures become 4xx with a machine code, anything unrecognized is a 500.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var ise *service.InsufficientStockError
	if errors.As(err, &ise) {
		e := newError("insufficient_stock", ise.Error())
		e.Products = ise.ProductIDs
		c.JSON(http.StatusConflict, e)
		return
	}

	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, newError("unauthorized", err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, newError("forbidden", err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, newError("invalid_credentials", err.Error()))
	case errors.Is(err, service.ErrInvalidRefreshToken):
		c.JSON(http.StatusUnauthorized, newError("invalid_refresh_token", err.Error()))
	case errors.Is(err, service.ErrEmailAlreadyRegistered),
		errors.Is(err, service.ErrSKUAlreadyExists):
		c.JSON(http.StatusConflict, newError("conflict", err.Error()))
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrSupplierNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrPurchaseNotFound),
		errors.Is(err, service.ErrLineNotFound):
		c.JSON(http.StatusNotFound, newError("not_found", err.Error()))
	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidDelta),
		errors.Is(err, service.ErrInvalidKind),
		errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrInactiveProduct):
		c.JSON(http.StatusBadRequest, newError("validation_error", err.Error()))
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusUnprocessableEntity, newError("empty_cart", err.Error()))
	case errors.Is(err, service.ErrOrderNotCancellable),
		errors.Is(err, service.ErrOrderNotPending),
		errors.Is(err, service.ErrPurchaseNotDraft):
		c.JSON(http.StatusUnprocessableEntity, newError("invalid_state", err.Error()))
	default:
		log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, newError("internal_error", "internal server error"))
	}
}

func badRequest(c *gin.Context, err error) {
	e := newError("validation_error", "invalid request body")
	e.Details = err.Error()
	c.JSON(http.StatusBadRequest, e)
}
