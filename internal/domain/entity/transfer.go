package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// TransferStatus estado del ciclo de vida de un traslado entre sucursales.
type TransferStatus string

// Estados posibles. sent es el inicial, received el terminal; no existe "cancelled":
// un traslado enviado solo se abandona eliminándolo.
const (
	TransferStatusSent     TransferStatus = "sent"
	TransferStatusReceived TransferStatus = "received"
)

// ParseTransferStatus valida un estado recibido como texto (filtros HTTP, filas de BD).
func ParseTransferStatus(s string) (TransferStatus, error) {
	switch TransferStatus(s) {
	case TransferStatusSent, TransferStatusReceived:
		return TransferStatus(s), nil
	}
	return "", fmt.Errorf("%w: estado de traslado %q", domain.ErrInvalidInput, s)
}

// Transfer registra el movimiento de stock de una sucursal (o bodega central) a otra.
// Quantity es inmutable después de la creación.
type Transfer struct {
	ID             string
	TransferNumber string
	FromBranchID   *string // nil = bodega central
	ToBranchID     string
	ProductID      string
	Quantity       int64
	Status         TransferStatus
	SentAt         time.Time
	ReceivedAt     *time.Time
	Notes          string
	CreatedBy      string
}

// SentTransfer es un traslado que se sabe en estado sent. Solo este tipo expone la transición a received.
type SentTransfer struct {
	t Transfer
}

// AsSent devuelve la vista "enviado" del traslado o ErrInvalidState si ya fue recibido.
func (t *Transfer) AsSent() (SentTransfer, error) {
	if t.Status != TransferStatusSent {
		return SentTransfer{}, domain.ErrInvalidState
	}
	return SentTransfer{t: *t}, nil
}

// Transfer devuelve una copia del traslado subyacente.
func (s SentTransfer) Transfer() Transfer { return s.t }

// Receive produce el traslado recibido. No hay transición inversa.
func (s SentTransfer) Receive(at time.Time) Transfer {
	out := s.t
	out.Status = TransferStatusReceived
	out.ReceivedAt = &at
	return out
}

// SourceKey clave de stock de la sucursal origen.
func (t *Transfer) SourceKey() string { return BranchKey(t.FromBranchID) }
