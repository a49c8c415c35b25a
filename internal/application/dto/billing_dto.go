package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/reconciliation"
)

// LineItemRequest línea de factura o devolución. UnitPrice es puntero para distinguir un precio
// ausente (rechazado) de un precio 0.
type LineItemRequest struct {
	ProductID string           `json:"productId" validate:"required"`
	Quantity  int64            `json:"quantity" validate:"gt=0"`
	UnitPrice *decimal.Decimal `json:"unitPrice" validate:"required"`
}

func (it LineItemRequest) price() decimal.Decimal {
	if it.UnitPrice == nil {
		return decimal.Zero
	}
	return *it.UnitPrice
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	ID       string            `json:"id,omitempty" validate:"max=64"`
	Kind     string            `json:"kind" validate:"required,oneof=purchase sale"`
	BranchID *string           `json:"branchId,omitempty"`
	Items    []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceResponse factura registrada.
type InvoiceResponse struct {
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	BranchID  *string            `json:"branchId"`
	Items     []LineItemResponse `json:"items"`
	CreatedAt time.Time          `json:"createdAt"`
}

// LineItemResponse línea de factura o devolución en respuestas.
type LineItemResponse struct {
	ProductID string          `json:"productId"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// CreateReturnRequest body para POST /api/returns.
type CreateReturnRequest struct {
	ParentInvoiceID string            `json:"parentInvoiceId" validate:"required"`
	Items           []LineItemRequest `json:"items" validate:"required,min=1,dive"`
	Reason          string            `json:"reason,omitempty" validate:"max=500"`
}

// ReturnResponse devolución registrada.
type ReturnResponse struct {
	ID              string             `json:"id"`
	ParentInvoiceID string             `json:"parentInvoiceId"`
	Items           []LineItemResponse `json:"items"`
	Status          string             `json:"status"`
	Reason          string             `json:"reason"`
	CreatedAt       time.Time          `json:"createdAt"`
	ReviewedAt      *time.Time         `json:"reviewedAt"`
}

// NetTotalLine línea conciliada de GET /invoices/{id}/net-total.
type NetTotalLine struct {
	ProductID         string          `json:"productId"`
	OriginalQuantity  int64           `json:"originalQuantity"`
	ReturnedQuantity  int64           `json:"returnedQuantity"`
	RemainingQuantity int64           `json:"remainingQuantity"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	RemainingValue    decimal.Decimal `json:"remainingValue"`
}

// NetTotalResponse total neto de la factura. OriginalTotal se expone para que quien contabilice
// decida explícitamente qué cifra usar.
type NetTotalResponse struct {
	InvoiceID       string          `json:"invoiceId"`
	OriginalTotal   decimal.Decimal `json:"originalTotal"`
	NetTotal        decimal.Decimal `json:"netTotal"`
	CountedStatuses []string        `json:"countedStatuses"`
	Lines           []NetTotalLine  `json:"lines"`
}

// ToInvoiceLines convierte las líneas del request a entidades.
func ToInvoiceLines(items []LineItemRequest) []entity.InvoiceLine {
	out := make([]entity.InvoiceLine, 0, len(items))
	for _, it := range items {
		out = append(out, entity.InvoiceLine{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.price()})
	}
	return out
}

// ToReturnLines convierte las líneas del request a entidades.
func ToReturnLines(items []LineItemRequest) []entity.ReturnLine {
	out := make([]entity.ReturnLine, 0, len(items))
	for _, it := range items {
		out = append(out, entity.ReturnLine{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.price()})
	}
	return out
}

// ToInvoiceResponse mapea la factura.
func ToInvoiceResponse(inv *entity.Invoice) InvoiceResponse {
	items := make([]LineItemResponse, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		items = append(items, LineItemResponse{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return InvoiceResponse{ID: inv.ID, Kind: string(inv.Kind), BranchID: inv.BranchID, Items: items, CreatedAt: inv.CreatedAt}
}

// ToReturnResponse mapea la devolución.
func ToReturnResponse(r *entity.ReturnRecord) ReturnResponse {
	items := make([]LineItemResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		items = append(items, LineItemResponse{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return ReturnResponse{
		ID:              r.ID,
		ParentInvoiceID: r.ParentInvoiceID,
		Items:           items,
		Status:          string(r.Status),
		Reason:          r.Reason,
		CreatedAt:       r.CreatedAt,
		ReviewedAt:      r.ReviewedAt,
	}
}

// ToNetTotalResponse mapea el resultado de la conciliación.
func ToNetTotalResponse(res *reconciliation.Result, p reconciliation.Policy) *NetTotalResponse {
	lines := res.Lines()
	out := &NetTotalResponse{
		InvoiceID:       res.InvoiceID,
		OriginalTotal:   res.OriginalTotal(),
		NetTotal:        res.NetTotal(),
		CountedStatuses: make([]string, 0, 3),
		Lines:           make([]NetTotalLine, 0, len(lines)),
	}
	for _, s := range p.Statuses() {
		out.CountedStatuses = append(out.CountedStatuses, string(s))
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, NetTotalLine{
			ProductID:         l.ProductID,
			OriginalQuantity:  l.OriginalQuantity,
			ReturnedQuantity:  l.ReturnedQuantity,
			RemainingQuantity: l.RemainingQuantity,
			UnitPrice:         l.UnitPrice,
			RemainingValue:    l.RemainingValue,
		})
	}
	return out
}
