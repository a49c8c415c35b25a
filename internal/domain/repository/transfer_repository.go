package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// TransferFilter filtros de listado de traslados. BranchID coincide con origen o destino;
// Central selecciona los que salen de la bodega central y excluye BranchID.
type TransferFilter struct {
	BranchID  *string
	Central   bool
	ProductID string
	Status    entity.TransferStatus
	Limit     int
	Offset    int
}

// TransferRepository define el puerto de persistencia de traslados.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.Transfer) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	// MarkReceived pasa a received solo si sigue en sent; si no, domain.ErrInvalidState.
	MarkReceived(ctx context.Context, id string, receivedAt time.Time) error
	// DeleteSent elimina el traslado solo si sigue en sent; si no, domain.ErrInvalidState.
	DeleteSent(ctx context.Context, id string) error
	List(ctx context.Context, f TransferFilter) ([]*entity.Transfer, error)
}
