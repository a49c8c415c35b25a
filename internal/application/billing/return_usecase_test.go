package billing_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/billing"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/reconciliation"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memory.Store
	invoices *billing.InvoiceUseCase
	returns  *billing.ReturnUseCase
	recon    *billing.ReconciliationUseCase
}

func newFixture(t *testing.T, policy reconciliation.Policy) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		store:    store,
		invoices: billing.NewInvoiceUseCase(store, store.Invoices(), zerolog.Nop()),
		returns:  billing.NewReturnUseCase(store, store.Invoices(), store.Returns(), policy, zerolog.Nop()),
		recon:    billing.NewReconciliationUseCase(store.Invoices(), store.Returns(), policy),
	}
}

// invoice10 factura #10: 10 unidades del producto 5 a 100.
func (f *fixture) invoice10(t *testing.T) {
	t.Helper()
	_, err := f.invoices.Create(context.Background(), billing.CreateInvoiceInput{
		ID:    "10",
		Kind:  entity.InvoiceKindPurchase,
		Lines: []entity.InvoiceLine{{ProductID: "5", Quantity: 10, UnitPrice: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)
}

func returnInput(qty int64) billing.RecordReturnInput {
	return billing.RecordReturnInput{
		ParentInvoiceID: "10",
		Lines:           []entity.ReturnLine{{ProductID: "5", Quantity: qty, UnitPrice: decimal.NewFromInt(100)}},
		Reason:          "averiado",
		UserID:          "u1",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoice_CreateValidaYDuplicado(t *testing.T) {
	f := newFixture(t, reconciliation.DefaultPolicy())
	ctx := context.Background()
	f.invoice10(t)

	_, err := f.invoices.Create(ctx, billing.CreateInvoiceInput{
		ID: "10", Kind: entity.InvoiceKindSale,
		Lines: []entity.InvoiceLine{{ProductID: "5", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	bad := []billing.CreateInvoiceInput{
		{Kind: "credit", Lines: []entity.InvoiceLine{{ProductID: "5", Quantity: 1}}},
		{Kind: entity.InvoiceKindSale},
		{Kind: entity.InvoiceKindSale, Lines: []entity.InvoiceLine{{ProductID: "5", Quantity: 0}}},
		{Kind: entity.InvoiceKindSale, Lines: []entity.InvoiceLine{{ProductID: "5", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}},
	}
	for _, in := range bad {
		_, err := f.invoices.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	inv, err := f.invoices.Create(ctx, billing.CreateInvoiceInput{
		Kind: entity.InvoiceKindSale, Lines: []entity.InvoiceLine{{ProductID: "9", Quantity: 2, UnitPrice: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, inv.ID, "sin id se genera uno")

	_, err = f.invoices.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Devoluciones y total neto
// ──────────────────────────────────────────────────────────────────────────────

func TestReturns_ParcialTotalYSobreDevolucion(t *testing.T) {
	f := newFixture(t, reconciliation.DefaultPolicy())
	ctx := context.Background()
	f.invoice10(t)

	r1, err := f.returns.RecordReturn(ctx, returnInput(4))
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusPending, r1.Status)

	net, err := f.recon.NetTotal(ctx, "10")
	require.NoError(t, err)
	require.Len(t, net.Lines, 1)
	assert.Equal(t, int64(6), net.Lines[0].RemainingQuantity)
	assert.True(t, net.NetTotal.Equal(decimal.NewFromInt(600)))
	assert.True(t, net.OriginalTotal.Equal(decimal.NewFromInt(1000)))

	_, err = f.returns.RecordReturn(ctx, returnInput(6))
	require.NoError(t, err)

	net, err = f.recon.NetTotal(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, int64(0), net.Lines[0].RemainingQuantity)
	assert.True(t, net.NetTotal.IsZero())

	_, err = f.returns.RecordReturn(ctx, returnInput(1))
	assert.ErrorIs(t, err, domain.ErrOverReturn)

	list, err := f.returns.ReturnsFor(ctx, "10")
	require.NoError(t, err)
	require.Len(t, list, 2, "la devolución rechazada no se registra")
	assert.Equal(t, r1.ID, list[0].ID)
}

func TestReturns_LineasDelMismoProductoSeSuman(t *testing.T) {
	f := newFixture(t, reconciliation.DefaultPolicy())
	f.invoice10(t)

	in := returnInput(6)
	in.Lines = append(in.Lines, entity.ReturnLine{ProductID: "5", Quantity: 5})
	_, err := f.returns.RecordReturn(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrOverReturn)
}

func TestReturns_FacturaInexistenteYValidacion(t *testing.T) {
	f := newFixture(t, reconciliation.DefaultPolicy())
	ctx := context.Background()

	_, err := f.returns.RecordReturn(ctx, returnInput(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.returns.ReturnsFor(ctx, "10")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.recon.NetTotal(ctx, "10")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.invoice10(t)
	_, err = f.returns.RecordReturn(ctx, returnInput(0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.returns.RecordReturn(ctx, billing.RecordReturnInput{ParentInvoiceID: "10"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReturns_ConcurrentesNoSuperanLoFacturado(t *testing.T) {
	f := newFixture(t, reconciliation.DefaultPolicy())
	f.invoice10(t)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.returns.RecordReturn(context.Background(), returnInput(3))
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrOverReturn)
		}
	}
	assert.Equal(t, 3, ok, "3*3 <= 10 < 4*3")
}

// ──────────────────────────────────────────────────────────────────────────────
// Revisión de devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func TestReview_SoloDesdePendiente(t *testing.T) {
	f := newFixture(t, reconciliation.DefaultPolicy())
	ctx := context.Background()
	f.invoice10(t)

	r, err := f.returns.RecordReturn(ctx, returnInput(2))
	require.NoError(t, err)

	got, err := f.returns.Approve(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReturnStatusApproved, got.Status)
	assert.NotNil(t, got.ReviewedAt)

	_, err = f.returns.Reject(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.returns.Approve(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReview_PoliticaSoloAprobadas(t *testing.T) {
	f := newFixture(t, reconciliation.NewPolicy(entity.ReturnStatusApproved))
	ctx := context.Background()
	f.invoice10(t)

	// con solo aprobadas contando, dos pendientes de 6 se aceptan
	a, err := f.returns.RecordReturn(ctx, returnInput(6))
	require.NoError(t, err)
	b, err := f.returns.RecordReturn(ctx, returnInput(6))
	require.NoError(t, err)

	net, err := f.recon.NetTotal(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, []string{"approved"}, net.CountedStatuses)
	assert.True(t, net.NetTotal.Equal(decimal.NewFromInt(1000)))

	_, err = f.returns.Approve(ctx, a.ID)
	require.NoError(t, err)
	_, err = f.returns.Approve(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrOverReturn, "aprobar la segunda excedería lo facturado")

	_, err = f.returns.Reject(ctx, b.ID)
	require.NoError(t, err)

	net, err = f.recon.NetTotal(ctx, "10")
	require.NoError(t, err)
	assert.True(t, net.NetTotal.Equal(decimal.NewFromInt(400)))
}
