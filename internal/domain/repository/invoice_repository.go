package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia de facturas (cabecera + líneas).
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate bloquea la cabecera para serializar devoluciones concurrentes.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
}
