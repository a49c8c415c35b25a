package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de TransferRepository sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, transfer_number, from_branch_id, to_branch_id, product_id, quantity,
		status, sent_at, received_at, notes, created_by`

// Create inserta el traslado.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TransferNumber, t.FromBranchID, t.ToBranchID, t.ProductID, t.Quantity,
		string(t.Status), t.SentAt, t.ReceivedAt, t.Notes, t.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de traslado %s", domain.ErrDuplicate, t.TransferNumber)
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del traslado (SELECT FOR UPDATE).
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransferRepo) get(ctx context.Context, query, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// MarkReceived sent -> received. La condición sobre status hace que solo una recepción gane.
func (r *TransferRepo) MarkReceived(ctx context.Context, id string, receivedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE transfers SET status = 'received', received_at = $2
		WHERE id = $1 AND status = 'sent'`, id, receivedAt)
	if err != nil {
		return fmt.Errorf("mark received: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// DeleteSent elimina el traslado solo si sigue en sent.
func (r *TransferRepo) DeleteSent(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM transfers WHERE id = $1 AND status = 'sent'`, id)
	if err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

// List traslados filtrados, más recientes primero.
func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Central {
		where = append(where, "from_branch_id IS NULL")
	} else if f.BranchID != nil {
		p := arg(*f.BranchID)
		where = append(where, fmt.Sprintf("(from_branch_id = %s OR to_branch_id = %s)", p, p))
	}
	if f.ProductID != "" {
		where = append(where, "product_id = "+arg(f.ProductID))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(string(f.Status)))
	}

	query := `SELECT ` + transferColumns + ` FROM transfers`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY sent_at DESC, transfer_number DESC LIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	var status string
	err := row.Scan(
		&t.ID, &t.TransferNumber, &t.FromBranchID, &t.ToBranchID, &t.ProductID, &t.Quantity,
		&status, &t.SentAt, &t.ReceivedAt, &t.Notes, &t.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TransferStatus(status)
	return &t, nil
}
