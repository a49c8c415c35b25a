package dto

import (
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// SendTransferRequest body para POST /api/transfers.
type SendTransferRequest struct {
	FromBranchID *string `json:"fromBranchId,omitempty"`
	ToBranchID   string  `json:"toBranchId" validate:"required"`
	ProductID    string  `json:"productId" validate:"required"`
	Quantity     int64   `json:"quantity" validate:"gt=0"`
	Notes        string  `json:"notes,omitempty" validate:"max=500"`
}

// TransferResponse representación pública de un traslado.
type TransferResponse struct {
	ID             string     `json:"id"`
	TransferNumber string     `json:"transferNumber"`
	FromBranchID   *string    `json:"fromBranchId"`
	ToBranchID     string     `json:"toBranchId"`
	ProductID      string     `json:"productId"`
	Quantity       int64      `json:"quantity"`
	Status         string     `json:"status"`
	SentAt         time.Time  `json:"sentAt"`
	ReceivedAt     *time.Time `json:"receivedAt"`
	Notes          string     `json:"notes"`
}

// TransferListResponse listado paginado de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ToTransferResponse mapea la entidad a la respuesta HTTP.
func ToTransferResponse(t *entity.Transfer) TransferResponse {
	return TransferResponse{
		ID:             t.ID,
		TransferNumber: t.TransferNumber,
		FromBranchID:   t.FromBranchID,
		ToBranchID:     t.ToBranchID,
		ProductID:      t.ProductID,
		Quantity:       t.Quantity,
		Status:         string(t.Status),
		SentAt:         t.SentAt,
		ReceivedAt:     t.ReceivedAt,
		Notes:          t.Notes,
	}
}
