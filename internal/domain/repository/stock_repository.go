package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockRepository es el puerto del almacén autoritativo de stock por producto y sucursal.
// branchKey usa entity.BranchKey (vacío = bodega central).
// Las mutaciones son atómicas en el almacenamiento: nadie lee-modifica-escribe la cantidad.
type StockRepository interface {
	// Decrement resta qty si y solo si la cantidad actual >= qty; de lo contrario domain.ErrInsufficientStock.
	Decrement(ctx context.Context, productID, branchKey string, qty int64) (int64, error)
	// Increment suma qty (crea la fila si no existe) y devuelve la nueva cantidad.
	Increment(ctx context.Context, productID, branchKey string, qty int64) (int64, error)
	// Get devuelve el stock actual; cantidad 0 si no hay fila.
	Get(ctx context.Context, productID, branchKey string) (*entity.Stock, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error)
}
