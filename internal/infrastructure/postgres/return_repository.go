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

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo implementación de ReturnRepository sobre PostgreSQL (devolución + líneas).
type ReturnRepo struct {
	q Querier
}

// NewReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReturnRepository(q Querier) *ReturnRepo {
	return &ReturnRepo{q: q}
}

const returnColumns = `id, parent_invoice_id, status, reason, created_at, reviewed_at, created_by`

// Create inserta la devolución y sus líneas.
func (r *ReturnRepo) Create(ctx context.Context, rec *entity.ReturnRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO returns (`+returnColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.ParentInvoiceID, string(rec.Status), rec.Reason, rec.CreatedAt, rec.ReviewedAt, rec.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert return: %w", err)
	}
	for i, l := range rec.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO return_lines (return_id, line_no, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			rec.ID, i+1, l.ProductID, l.Quantity, l.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert return line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ReturnRepo) GetByID(ctx context.Context, id string) (*entity.ReturnRecord, error) {
	return r.getOne(ctx, `SELECT `+returnColumns+` FROM returns WHERE id = $1`, id)
}

// GetForUpdate bloquea la devolución (SELECT FOR UPDATE).
func (r *ReturnRepo) GetForUpdate(ctx context.Context, id string) (*entity.ReturnRecord, error) {
	return r.getOne(ctx, `SELECT `+returnColumns+` FROM returns WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReturnRepo) getOne(ctx context.Context, query, id string) (*entity.ReturnRecord, error) {
	rec, err := scanReturn(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	lines, err := r.linesFor(ctx, []string{rec.ID})
	if err != nil {
		return nil, err
	}
	rec.Lines = lines[rec.ID]
	return rec, nil
}

// ListByInvoice devoluciones de la factura en orden de creación (seq).
func (r *ReturnRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.ReturnRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+returnColumns+` FROM returns
		WHERE parent_invoice_id = $1
		ORDER BY seq`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	var (
		list []*entity.ReturnRecord
		ids  []string
	)
	for rows.Next() {
		rec, err := scanReturn(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan return: %w", err)
		}
		list = append(list, rec)
		ids = append(ids, rec.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, rec := range list {
		rec.Lines = lines[rec.ID]
	}
	return list, nil
}

// UpdateStatus persiste status y reviewed_at. Solo se actualiza desde pending.
func (r *ReturnRepo) UpdateStatus(ctx context.Context, rec *entity.ReturnRecord) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE returns SET status = $2, reviewed_at = $3
		WHERE id = $1 AND status = 'pending'`,
		rec.ID, string(rec.Status), rec.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("update return status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

func (r *ReturnRepo) linesFor(ctx context.Context, ids []string) (map[string][]entity.ReturnLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT return_id, product_id, quantity, unit_price
		FROM return_lines WHERE return_id = ANY($1::uuid[])
		ORDER BY return_id, line_no`, ids)
	if err != nil {
		return nil, fmt.Errorf("list return lines: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.ReturnLine, len(ids))
	for rows.Next() {
		var id string
		var l entity.ReturnLine
		if err := rows.Scan(&id, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan return line: %w", err)
		}
		out[id] = append(out[id], l)
	}
	return out, rows.Err()
}

func scanReturn(row pgx.Row) (*entity.ReturnRecord, error) {
	var rec entity.ReturnRecord
	var status string
	err := row.Scan(&rec.ID, &rec.ParentInvoiceID, &status, &rec.Reason, &rec.CreatedAt, &rec.ReviewedAt, &rec.CreatedBy)
	if err != nil {
		return nil, err
	}
	rec.Status = entity.ReturnStatus(status)
	return &rec, nil
}
