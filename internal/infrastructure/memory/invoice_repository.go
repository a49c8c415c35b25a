package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas en memoria. Las líneas se copian al guardar y al leer.
type InvoiceRepo struct {
	s  *Store
	tx *state
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.s.view(r.tx, func(st *state) error {
		if _, ok := st.invoices[inv.ID]; ok {
			return fmt.Errorf("%w: la factura %s ya existe", domain.ErrDuplicate, inv.ID)
		}
		c := *inv
		c.Lines = append([]entity.InvoiceLine(nil), inv.Lines...)
		st.invoices[inv.ID] = c
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.s.view(r.tx, func(st *state) error {
		if inv, ok := st.invoices[id]; ok {
			inv.Lines = append([]entity.InvoiceLine(nil), inv.Lines...)
			out = &inv
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}
