package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// ReturnStatus estado de revisión de una devolución.
type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "pending"
	ReturnStatusApproved ReturnStatus = "approved"
	ReturnStatusRejected ReturnStatus = "rejected"
)

// ParseReturnStatus valida un estado de devolución recibido como texto.
func ParseReturnStatus(s string) (ReturnStatus, error) {
	switch ReturnStatus(s) {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRejected:
		return ReturnStatus(s), nil
	}
	return "", fmt.Errorf("%w: estado de devolución %q", domain.ErrInvalidInput, s)
}

// ReturnRecord devolución (parcial o total) registrada contra una factura.
type ReturnRecord struct {
	ID              string
	ParentInvoiceID string
	Lines           []ReturnLine
	Status          ReturnStatus
	Reason          string
	CreatedAt       time.Time
	ReviewedAt      *time.Time
	CreatedBy       string
}

// ReturnLine línea devuelta. UnitPrice se conserva como se registró pero no interviene en la conciliación.
type ReturnLine struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Review aplica la transición pending → approved|rejected.
func (r *ReturnRecord) Review(to ReturnStatus, at time.Time) error {
	if r.Status != ReturnStatusPending {
		return domain.ErrInvalidState
	}
	if to != ReturnStatusApproved && to != ReturnStatusRejected {
		return domain.ErrInvalidInput
	}
	r.Status = to
	r.ReviewedAt = &at
	return nil
}
