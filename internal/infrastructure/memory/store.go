// Package memory implementa los repositorios y el TxRunner en memoria.
// Un mutex serializa las transacciones; cada una trabaja sobre una copia del estado
// que solo se publica si la función termina sin error.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/billing"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)
var _ billing.BillingTxRunner = (*Store)(nil)
var _ inventory.NumberSequence = (*Store)(nil)

type stockKey struct {
	productID string
	branchKey string
}

type state struct {
	stock     map[stockKey]entity.Stock
	transfers map[string]entity.Transfer
	invoices  map[string]entity.Invoice
	returns   map[string]entity.ReturnRecord
	// orden de creación de devoluciones por factura
	returnsByInvoice map[string][]string
}

func newState() *state {
	return &state{
		stock:            map[stockKey]entity.Stock{},
		transfers:        map[string]entity.Transfer{},
		invoices:         map[string]entity.Invoice{},
		returns:          map[string]entity.ReturnRecord{},
		returnsByInvoice: map[string][]string{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.transfers {
		c.transfers[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.returns {
		c.returns[k] = v
	}
	for k, v := range s.returnsByInvoice {
		c.returnsByInvoice[k] = append([]string(nil), v...)
	}
	return c
}

// Store almacenamiento en memoria. Seguro para uso concurrente.
type Store struct {
	mu    sync.Mutex
	st    *state
	seq   int64
	clock func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), clock: time.Now}
}

// Run ejecuta fn con repos de stock y traslados sobre una copia; confirma solo si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	transferRepo repository.TransferRepository,
) error) error {
	return s.inTx(ctx, func(tx *state) error {
		return fn(&StockRepo{s: s, tx: tx}, &TransferRepo{s: s, tx: tx})
	})
}

// RunBilling ejecuta fn con repos de facturas y devoluciones.
func (s *Store) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	returnRepo repository.ReturnRepository,
) error) error {
	return s.inTx(ctx, func(tx *state) error {
		return fn(&InvoiceRepo{s: s, tx: tx}, &ReturnRepo{s: s, tx: tx})
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()
	if err := fn(tx); err != nil {
		return err
	}
	s.st = tx
	return nil
}

// view ejecuta fn sobre tx si se está dentro de una transacción; si no, toma el lock sobre el estado publicado.
func (s *Store) view(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Next consecutivo de traslados.
func (s *Store) Next(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, nil
}

// Stocks repositorio de stock fuera de transacción.
func (s *Store) Stocks() *StockRepo { return &StockRepo{s: s} }

// Transfers repositorio de traslados fuera de transacción.
func (s *Store) Transfers() *TransferRepo { return &TransferRepo{s: s} }

// Invoices repositorio de facturas fuera de transacción.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

// Returns repositorio de devoluciones fuera de transacción.
func (s *Store) Returns() *ReturnRepo { return &ReturnRepo{s: s} }
