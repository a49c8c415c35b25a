package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo stock en memoria.
type StockRepo struct {
	s  *Store
	tx *state
}

func (r *StockRepo) Decrement(_ context.Context, productID, branchKey string, qty int64) (int64, error) {
	var left int64
	err := r.s.view(r.tx, func(st *state) error {
		k := stockKey{productID, branchKey}
		cur, ok := st.stock[k]
		if !ok || cur.Quantity < qty {
			return domain.ErrInsufficientStock
		}
		cur.Quantity -= qty
		cur.UpdatedAt = r.s.clock()
		st.stock[k] = cur
		left = cur.Quantity
		return nil
	})
	return left, err
}

func (r *StockRepo) Increment(_ context.Context, productID, branchKey string, qty int64) (int64, error) {
	var total int64
	err := r.s.view(r.tx, func(st *state) error {
		k := stockKey{productID, branchKey}
		cur, ok := st.stock[k]
		if !ok {
			cur = entity.Stock{ProductID: productID, BranchID: entity.BranchFromKey(branchKey)}
		}
		next, err := entity.AddQuantity(cur.Quantity, qty)
		if err != nil {
			return err
		}
		cur.Quantity = next
		cur.UpdatedAt = r.s.clock()
		st.stock[k] = cur
		total = cur.Quantity
		return nil
	})
	return total, err
}

func (r *StockRepo) Get(_ context.Context, productID, branchKey string) (*entity.Stock, error) {
	var out entity.Stock
	err := r.s.view(r.tx, func(st *state) error {
		cur, ok := st.stock[stockKey{productID, branchKey}]
		if !ok {
			cur = entity.Stock{ProductID: productID, BranchID: entity.BranchFromKey(branchKey)}
		}
		out = cur
		return nil
	})
	return &out, err
}

func (r *StockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Stock, error) {
	var list []*entity.Stock
	err := r.s.view(r.tx, func(st *state) error {
		for k, v := range st.stock {
			if k.productID == productID {
				v := v
				list = append(list, &v)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		return entity.BranchKey(list[i].BranchID) < entity.BranchKey(list[j].BranchID)
	})
	return list, err
}
