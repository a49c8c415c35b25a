package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// El descuento de stock y el registro del traslado se confirman o se revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		transferRepo repository.TransferRepository,
	) error) error
}

// NumberSequence entrega el siguiente consecutivo para el número legible de traslado.
// Puede dejar huecos (un envío rechazado consume su número).
type NumberSequence interface {
	Next(ctx context.Context) (int64, error)
}
