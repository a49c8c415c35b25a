package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
)

var _ inventory.NumberSequence = (*TransferSequence)(nil)

// TransferSequence consecutivo de traslados con la secuencia transfer_number_seq.
// nextval no participa del rollback: un envío rechazado deja un hueco.
type TransferSequence struct {
	pool *pgxpool.Pool
}

func NewTransferSequence(pool *pgxpool.Pool) *TransferSequence {
	return &TransferSequence{pool: pool}
}

func (s *TransferSequence) Next(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT nextval('transfer_number_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("nextval transfer_number_seq: %w", err)
	}
	return n, nil
}
