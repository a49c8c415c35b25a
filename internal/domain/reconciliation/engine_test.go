package reconciliation_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/reconciliation"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func purchase10() *entity.Invoice {
	return &entity.Invoice{
		ID:   "10",
		Kind: entity.InvoiceKindPurchase,
		Lines: []entity.InvoiceLine{
			{ProductID: "5", Quantity: 10, UnitPrice: decimal.NewFromInt(100)},
		},
	}
}

func returnOf(id, invoiceID, productID string, qty int64, status entity.ReturnStatus) *entity.ReturnRecord {
	return &entity.ReturnRecord{
		ID:              id,
		ParentInvoiceID: invoiceID,
		Status:          status,
		Lines: []entity.ReturnLine{
			{ProductID: productID, Quantity: qty, UnitPrice: decimal.NewFromInt(1)},
		},
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de devolución sobre la factura #10
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_SinDevoluciones(t *testing.T) {
	res := reconciliation.Reconcile(purchase10(), nil, reconciliation.DefaultPolicy())

	assert.Equal(t, int64(10), res.RemainingQuantity("5"))
	assert.True(t, res.NetTotal().Equal(dec("1000")))
	assert.True(t, res.OriginalTotal().Equal(res.NetTotal()))
}

func TestReconcile_DevolucionParcial(t *testing.T) {
	returns := []*entity.ReturnRecord{returnOf("r1", "10", "5", 4, entity.ReturnStatusPending)}
	res := reconciliation.Reconcile(purchase10(), returns, reconciliation.DefaultPolicy())

	assert.Equal(t, int64(6), res.RemainingQuantity("5"))
	assert.True(t, res.RemainingLineValue("5").Equal(dec("600")), "valor restante = 6 * 100")
	assert.True(t, res.NetTotal().Equal(dec("600")))
	assert.True(t, res.OriginalTotal().Equal(dec("1000")))
}

func TestReconcile_DevolucionTotalYSobreDevolucion(t *testing.T) {
	returns := []*entity.ReturnRecord{
		returnOf("r1", "10", "5", 4, entity.ReturnStatusPending),
		returnOf("r2", "10", "5", 6, entity.ReturnStatusPending),
	}
	res := reconciliation.Reconcile(purchase10(), returns, reconciliation.DefaultPolicy())

	assert.Equal(t, int64(0), res.RemainingQuantity("5"))
	assert.True(t, res.NetTotal().IsZero())

	err := res.CheckReturn(map[string]int64{"5": 1})
	assert.ErrorIs(t, err, domain.ErrOverReturn, "una unidad más excede lo facturado")
}

func TestReconcile_PrecioDeLaFacturaNoDeLaDevolucion(t *testing.T) {
	r := returnOf("r1", "10", "5", 1, entity.ReturnStatusApproved)
	r.Lines[0].UnitPrice = dec("999.99")

	res := reconciliation.Reconcile(purchase10(), []*entity.ReturnRecord{r}, reconciliation.DefaultPolicy())

	assert.True(t, res.RemainingLineValue("5").Equal(dec("900")))
}

func TestReconcile_ProductoDuplicadoSeSuma(t *testing.T) {
	inv := &entity.Invoice{
		ID: "20",
		Lines: []entity.InvoiceLine{
			{ProductID: "5", Quantity: 3, UnitPrice: dec("12.50")},
			{ProductID: "7", Quantity: 2, UnitPrice: dec("4")},
			{ProductID: "5", Quantity: 2, UnitPrice: dec("12.50")},
		},
	}
	returns := []*entity.ReturnRecord{returnOf("r1", "20", "5", 1, entity.ReturnStatusPending)}
	res := reconciliation.Reconcile(inv, returns, reconciliation.DefaultPolicy())

	lines := res.Lines()
	require.Len(t, lines, 2, "una línea conciliada por producto distinto")
	assert.Equal(t, "5", lines[0].ProductID, "orden de primera aparición")
	assert.Equal(t, int64(5), lines[0].OriginalQuantity)
	assert.Equal(t, int64(1), lines[0].ReturnedQuantity)
	assert.Equal(t, int64(4), lines[0].RemainingQuantity)
	assert.True(t, res.NetTotal().Equal(dec("58")), "4*12.50 + 2*4")
}

func TestReconcile_OriginalTotalUsaElPrecioDeCadaLinea(t *testing.T) {
	inv := &entity.Invoice{
		ID: "21",
		Lines: []entity.InvoiceLine{
			{ProductID: "5", Quantity: 2, UnitPrice: dec("10")},
			{ProductID: "5", Quantity: 3, UnitPrice: dec("12")},
		},
	}
	res := reconciliation.Reconcile(inv, nil, reconciliation.DefaultPolicy())

	assert.True(t, res.OriginalTotal().Equal(dec("56")), "2*10 + 3*12, got %s", res.OriginalTotal())
	assert.True(t, res.NetTotal().Equal(dec("50")), "el valor restante usa el precio de la primera línea")
}

func TestRequestedByProduct_SaturaSinDesbordar(t *testing.T) {
	req := reconciliation.RequestedByProduct([]entity.ReturnLine{
		{ProductID: "5", Quantity: math.MaxInt64},
		{ProductID: "5", Quantity: 5},
	})
	assert.Equal(t, int64(math.MaxInt64), req["5"])

	res := reconciliation.Reconcile(purchase10(), nil, reconciliation.DefaultPolicy())
	assert.ErrorIs(t, res.CheckReturn(req), domain.ErrOverReturn)
}

func TestReconcile_IgnoraDevolucionesDeOtraFacturaYProductosAjenos(t *testing.T) {
	returns := []*entity.ReturnRecord{
		returnOf("r1", "11", "5", 3, entity.ReturnStatusPending),
		returnOf("r2", "10", "99", 3, entity.ReturnStatusPending),
	}
	res := reconciliation.Reconcile(purchase10(), returns, reconciliation.DefaultPolicy())

	assert.Equal(t, int64(10), res.RemainingQuantity("5"))
	assert.Equal(t, int64(0), res.RemainingQuantity("99"))
	assert.ErrorIs(t, res.CheckReturn(map[string]int64{"99": 1}), domain.ErrOverReturn)
}

func TestReconcile_Idempotente(t *testing.T) {
	inv := purchase10()
	returns := []*entity.ReturnRecord{returnOf("r1", "10", "5", 4, entity.ReturnStatusPending)}

	a := reconciliation.Reconcile(inv, returns, reconciliation.DefaultPolicy())
	b := reconciliation.Reconcile(inv, returns, reconciliation.DefaultPolicy())

	assert.True(t, a.NetTotal().Equal(b.NetTotal()))
	assert.Equal(t, a.Lines(), b.Lines())
}

// ──────────────────────────────────────────────────────────────────────────────
// Política de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestPolicy_SoloAprobadas(t *testing.T) {
	returns := []*entity.ReturnRecord{
		returnOf("r1", "10", "5", 4, entity.ReturnStatusPending),
		returnOf("r2", "10", "5", 2, entity.ReturnStatusApproved),
		returnOf("r3", "10", "5", 1, entity.ReturnStatusRejected),
	}

	all := reconciliation.Reconcile(purchase10(), returns, reconciliation.DefaultPolicy())
	approved := reconciliation.Reconcile(purchase10(), returns, reconciliation.NewPolicy(entity.ReturnStatusApproved))

	assert.Equal(t, int64(3), all.RemainingQuantity("5"))
	assert.Equal(t, int64(8), approved.RemainingQuantity("5"))
}

func TestParsePolicy(t *testing.T) {
	p, err := reconciliation.ParsePolicy(" Approved , pending")
	require.NoError(t, err)
	assert.Equal(t, []entity.ReturnStatus{entity.ReturnStatusPending, entity.ReturnStatusApproved}, p.Statuses())

	def, err := reconciliation.ParsePolicy("")
	require.NoError(t, err)
	assert.Len(t, def.Statuses(), 3)

	_, err = reconciliation.ParsePolicy("approved,cancelled")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Índice
// ──────────────────────────────────────────────────────────────────────────────

func TestIndex_ConciliaVariasFacturas(t *testing.T) {
	other := &entity.Invoice{ID: "11", Lines: []entity.InvoiceLine{{ProductID: "5", Quantity: 3, UnitPrice: dec("2")}}}
	ix := reconciliation.NewIndex(
		[]*entity.Invoice{purchase10(), other},
		[]*entity.ReturnRecord{
			returnOf("r1", "10", "5", 4, entity.ReturnStatusPending),
			returnOf("r2", "11", "5", 1, entity.ReturnStatusPending),
			returnOf("r3", "10", "5", 1, entity.ReturnStatusPending),
		},
	)

	assert.Len(t, ix.ReturnsFor("10"), 2)
	assert.Equal(t, "r3", ix.ReturnsFor("10")[1].ID, "conserva el orden de creación")

	r10, err := ix.Reconcile("10", reconciliation.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, int64(5), r10.RemainingQuantity("5"))

	r11, err := ix.Reconcile("11", reconciliation.DefaultPolicy())
	require.NoError(t, err)
	assert.True(t, r11.NetTotal().Equal(dec("4")))

	_, err = ix.Reconcile("404", reconciliation.DefaultPolicy())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
