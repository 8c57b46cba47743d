package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopstock/internal/models"
	"shopstock/internal/service"
)

type StockHandler struct {
	svc service.StockService
	log *zap.Logger
}

func NewStockHandler(svc service.StockService, log *zap.Logger) *StockHandler {
	return &StockHandler{svc: svc, log: log}
}

func (h *StockHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	info, err := h.svc.GetStock(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product_id": info.ProductID,
		"quantity":   info.Quantity,
		"available":  info.Available,
	})
}

// Verify answers availability per item without touching the ledger;
// unavailable items are reported, not rejected.
func (h *StockHandler) Verify(c *gin.Context) {
	var req VerifyStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	results := make([]VerifyStockResult, 0, len(req.Items))
	for _, it := range req.Items {
		res := VerifyStockResult{ProductID: it.ProductID, Available: true}
		if err := h.svc.VerifyStock(c.Request.Context(), it.ProductID, it.Quantity); err != nil {
			if service.IsInsufficientStock(err) {
				res.Available = false
				res.Message = "insufficient stock"
			} else {
				writeError(c, h.log, err)
				return
			}
		}
		results = append(results, res)
	}
	c.JSON(http.StatusOK, gin.H{"items": results})
}

func (h *StockHandler) Adjust(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rec, err := h.svc.AdjustStock(c.Request.Context(), req.ProductID, req.Delta, models.MovementKind(req.Kind), req.Reference)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *StockHandler) ListLow(c *gin.Context) {
	threshold, _ := strconv.ParseInt(c.DefaultQuery("threshold", "0"), 10, 64)
	records, err := h.svc.ListLowStock(c.Request.Context(), threshold)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}

func (h *StockHandler) Movements(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	movements, err := h.svc.ListMovements(c.Request.Context(), id, limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements})
}
