package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Decrement descuenta en una sola sentencia condicional; la fila queda bloqueada hasta el fin de la tx.
// Sin fila o con cantidad insuficiente no hay RETURNING y se responde ErrInsufficientStock.
func (r *StockRepo) Decrement(ctx context.Context, productID, branchKey string, qty int64) (int64, error) {
	query := `
		UPDATE stock SET quantity = quantity - $3, updated_at = now()
		WHERE product_id = $1 AND branch_id = $2 AND quantity >= $3
		RETURNING quantity`
	var left int64
	err := r.q.QueryRow(ctx, query, productID, branchKey, qty).Scan(&left)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isCheckViolation(err) {
			return 0, domain.ErrInsufficientStock
		}
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	return left, nil
}

// Increment suma qty creando la fila si no existe.
func (r *StockRepo) Increment(ctx context.Context, productID, branchKey string, qty int64) (int64, error) {
	query := `
		INSERT INTO stock (product_id, branch_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, branch_id)
		DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING quantity`
	var total int64
	if err := r.q.QueryRow(ctx, query, productID, branchKey, qty).Scan(&total); err != nil {
		if isOutOfRange(err) {
			return 0, fmt.Errorf("%w: la cantidad excede el máximo permitido", domain.ErrInvalidInput)
		}
		return 0, fmt.Errorf("increment stock: %w", err)
	}
	return total, nil
}

// Get obtiene el stock actual de un producto en una sucursal; cantidad 0 si no hay fila.
func (r *StockRepo) Get(ctx context.Context, productID, branchKey string) (*entity.Stock, error) {
	query := `
		SELECT product_id, branch_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND branch_id = $2`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, branchKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID, BranchID: entity.BranchFromKey(branchKey)}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// ListByProduct stock del producto en todas las ubicaciones.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error) {
	query := `
		SELECT product_id, branch_id, quantity, updated_at
		FROM stock WHERE product_id = $1
		ORDER BY branch_id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var list []*entity.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	var key string
	if err := row.Scan(&s.ProductID, &key, &s.Quantity, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.BranchID = entity.BranchFromKey(key)
	return &s, nil
}
