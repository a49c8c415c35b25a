package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ReturnRepository indexa devoluciones por factura padre.
type ReturnRepository interface {
	Create(ctx context.Context, r *entity.ReturnRecord) error
	GetByID(ctx context.Context, id string) (*entity.ReturnRecord, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ReturnRecord, error)
	// ListByInvoice devuelve todas las devoluciones de la factura en orden de creación.
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.ReturnRecord, error)
	// UpdateStatus persiste el resultado de ReturnRecord.Review.
	UpdateStatus(ctx context.Context, r *entity.ReturnRecord) error
}
