package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.ReturnRepository = (*ReturnRepo)(nil)

// ReturnRepo devoluciones en memoria indexadas por factura.
type ReturnRepo struct {
	s  *Store
	tx *state
}

func copyReturn(rec entity.ReturnRecord) *entity.ReturnRecord {
	rec.Lines = append([]entity.ReturnLine(nil), rec.Lines...)
	if rec.ReviewedAt != nil {
		at := *rec.ReviewedAt
		rec.ReviewedAt = &at
	}
	return &rec
}

func (r *ReturnRepo) Create(_ context.Context, rec *entity.ReturnRecord) error {
	return r.s.view(r.tx, func(st *state) error {
		if _, ok := st.returns[rec.ID]; ok {
			return domain.ErrDuplicate
		}
		st.returns[rec.ID] = *copyReturn(*rec)
		st.returnsByInvoice[rec.ParentInvoiceID] = append(st.returnsByInvoice[rec.ParentInvoiceID], rec.ID)
		return nil
	})
}

func (r *ReturnRepo) GetByID(_ context.Context, id string) (*entity.ReturnRecord, error) {
	var out *entity.ReturnRecord
	err := r.s.view(r.tx, func(st *state) error {
		if rec, ok := st.returns[id]; ok {
			out = copyReturn(rec)
		}
		return nil
	})
	return out, err
}

func (r *ReturnRepo) GetForUpdate(ctx context.Context, id string) (*entity.ReturnRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *ReturnRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.ReturnRecord, error) {
	var list []*entity.ReturnRecord
	err := r.s.view(r.tx, func(st *state) error {
		for _, id := range st.returnsByInvoice[invoiceID] {
			list = append(list, copyReturn(st.returns[id]))
		}
		return nil
	})
	return list, err
}

func (r *ReturnRepo) UpdateStatus(_ context.Context, rec *entity.ReturnRecord) error {
	return r.s.view(r.tx, func(st *state) error {
		cur, ok := st.returns[rec.ID]
		if !ok || cur.Status != entity.ReturnStatusPending {
			return domain.ErrInvalidState
		}
		cur.Status = rec.Status
		cur.ReviewedAt = rec.ReviewedAt
		st.returns[rec.ID] = *copyReturn(cur)
		return nil
	})
}
