package dto

import (
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockReceiptRequest body para POST /api/stock/receipts.
type StockReceiptRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	BranchID  *string `json:"branchId,omitempty"`
	Quantity  int64   `json:"quantity" validate:"gt=0"`
}

// StockResponse stock de un producto en una ubicación (branchId null = bodega central).
type StockResponse struct {
	ProductID string    `json:"productId"`
	BranchID  *string   `json:"branchId"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ToStockResponse mapea la entidad.
func ToStockResponse(s *entity.Stock) StockResponse {
	return StockResponse{ProductID: s.ProductID, BranchID: s.BranchID, Quantity: s.Quantity, UpdatedAt: s.UpdatedAt}
}
