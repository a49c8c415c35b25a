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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository sobre PostgreSQL (cabecera + líneas).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create inserta cabecera y líneas. Debe llamarse dentro de una tx para que sea atómico.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (id, kind, branch_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5)`,
		inv.ID, string(inv.Kind), inv.BranchID, inv.CreatedAt, inv.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la factura %s ya existe", domain.ErrDuplicate, inv.ID)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	for i, l := range inv.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO invoice_lines (invoice_id, line_no, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			inv.ID, i+1, l.ProductID, l.Quantity, l.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `
		SELECT id, kind, branch_id, created_at, created_by
		FROM invoices WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE).
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `
		SELECT id, kind, branch_id, created_at, created_by
		FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) get(ctx context.Context, query, id string) (*entity.Invoice, error) {
	var inv entity.Invoice
	var kind string
	err := r.q.QueryRow(ctx, query, id).Scan(&inv.ID, &kind, &inv.BranchID, &inv.CreatedAt, &inv.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.Kind = entity.InvoiceKind(kind)

	rows, err := r.q.Query(ctx, `
		SELECT product_id, quantity, unit_price
		FROM invoice_lines WHERE invoice_id = $1
		ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		inv.Lines = append(inv.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &inv, nil
}
