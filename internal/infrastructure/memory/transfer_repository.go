package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados en memoria.
type TransferRepo struct {
	s  *Store
	tx *state
}

func (r *TransferRepo) Create(_ context.Context, t *entity.Transfer) error {
	return r.s.view(r.tx, func(st *state) error {
		if _, ok := st.transfers[t.ID]; ok {
			return domain.ErrDuplicate
		}
		st.transfers[t.ID] = *t
		return nil
	})
}

func (r *TransferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.s.view(r.tx, func(st *state) error {
		if t, ok := st.transfers[id]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

// GetForUpdate dentro de Run el mutex del Store ya serializa la transacción.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, id)
}

func (r *TransferRepo) MarkReceived(_ context.Context, id string, receivedAt time.Time) error {
	return r.s.view(r.tx, func(st *state) error {
		t, ok := st.transfers[id]
		if !ok || t.Status != entity.TransferStatusSent {
			return domain.ErrInvalidState
		}
		at := receivedAt
		t.Status = entity.TransferStatusReceived
		t.ReceivedAt = &at
		st.transfers[id] = t
		return nil
	})
}

func (r *TransferRepo) DeleteSent(_ context.Context, id string) error {
	return r.s.view(r.tx, func(st *state) error {
		t, ok := st.transfers[id]
		if !ok || t.Status != entity.TransferStatusSent {
			return domain.ErrInvalidState
		}
		delete(st.transfers, id)
		return nil
	})
}

func (r *TransferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	var list []*entity.Transfer
	err := r.s.view(r.tx, func(st *state) error {
		for _, t := range st.transfers {
			if !matches(t, f) {
				continue
			}
			t := t
			list = append(list, &t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].SentAt.Equal(list[j].SentAt) {
			return list[i].SentAt.After(list[j].SentAt)
		}
		return list[i].TransferNumber > list[j].TransferNumber
	})
	if f.Offset >= len(list) {
		return nil, nil
	}
	list = list[f.Offset:]
	if f.Limit > 0 && f.Limit < len(list) {
		list = list[:f.Limit]
	}
	return list, nil
}

func matches(t entity.Transfer, f repository.TransferFilter) bool {
	if f.Central && t.FromBranchID != nil {
		return false
	}
	if !f.Central && f.BranchID != nil {
		from := t.FromBranchID != nil && *t.FromBranchID == *f.BranchID
		if !from && t.ToBranchID != *f.BranchID {
			return false
		}
	}
	if f.ProductID != "" && t.ProductID != f.ProductID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}
