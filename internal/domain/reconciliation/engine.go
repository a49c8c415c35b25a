// Package reconciliation calcula la cantidad y el valor netos de una factura después de sus devoluciones.
// Cálculo puro sobre datos ya cargados: no hace I/O y no persiste resultados.
//
//	Restante(p)      = Original(p) - Σ devuelto(p)   (solo devoluciones contadas por la Policy)
//	ValorRestante(p) = Restante(p) * PrecioUnitario(p)   (precio de la factura, nunca el de la devolución)
//	TotalNeto        = Σ ValorRestante(p) por cada producto distinto
package reconciliation

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// Line resultado conciliado de un producto de la factura.
type Line struct {
	ProductID         string
	OriginalQuantity  int64
	ReturnedQuantity  int64
	RemainingQuantity int64
	UnitPrice         decimal.Decimal
	RemainingValue    decimal.Decimal
}

// Result conciliación de una factura. Se construye una vez por consulta con Reconcile.
type Result struct {
	InvoiceID     string
	lines         []Line
	byProduct     map[string]int
	originalTotal decimal.Decimal
}

// Reconcile cruza las líneas de la factura con sus devoluciones.
// Las líneas se agrupan por producto en orden de primera aparición; el precio unitario
// es el de la primera línea del producto. Devoluciones de otra factura se ignoran.
func Reconcile(inv *entity.Invoice, returns []*entity.ReturnRecord, p Policy) *Result {
	res := &Result{InvoiceID: inv.ID, byProduct: make(map[string]int, len(inv.Lines)), originalTotal: decimal.Zero}
	for _, l := range inv.Lines {
		res.originalTotal = res.originalTotal.Add(decimal.NewFromInt(l.Quantity).Mul(l.UnitPrice))
		i, ok := res.byProduct[l.ProductID]
		if !ok {
			i = len(res.lines)
			res.byProduct[l.ProductID] = i
			res.lines = append(res.lines, Line{ProductID: l.ProductID, UnitPrice: l.UnitPrice})
		}
		res.lines[i].OriginalQuantity = addSat(res.lines[i].OriginalQuantity, l.Quantity)
	}

	for _, r := range returns {
		if r.ParentInvoiceID != inv.ID || !p.Counts(r.Status) {
			continue
		}
		for _, rl := range r.Lines {
			// Productos que no están en la factura no pueden descontar nada.
			if i, ok := res.byProduct[rl.ProductID]; ok {
				res.lines[i].ReturnedQuantity = addSat(res.lines[i].ReturnedQuantity, rl.Quantity)
			}
		}
	}

	for i := range res.lines {
		l := &res.lines[i]
		l.RemainingQuantity = l.OriginalQuantity - l.ReturnedQuantity
		l.RemainingValue = decimal.NewFromInt(l.RemainingQuantity).Mul(l.UnitPrice)
	}
	return res
}

// RemainingQuantity cantidad pendiente del producto; 0 si no está en la factura.
func (r *Result) RemainingQuantity(productID string) int64 {
	if i, ok := r.byProduct[productID]; ok {
		return r.lines[i].RemainingQuantity
	}
	return 0
}

// RemainingLineValue valor pendiente del producto al precio de la factura.
func (r *Result) RemainingLineValue(productID string) decimal.Decimal {
	if i, ok := r.byProduct[productID]; ok {
		return r.lines[i].RemainingValue
	}
	return decimal.Zero
}

// NetTotal total de la factura descontando devoluciones.
func (r *Result) NetTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range r.lines {
		total = total.Add(l.RemainingValue)
	}
	return total
}

// OriginalTotal total facturado: Σ cantidad × precio de cada línea de la factura, tal como se registró.
func (r *Result) OriginalTotal() decimal.Decimal {
	return r.originalTotal
}

// Lines copia de las líneas conciliadas.
func (r *Result) Lines() []Line {
	out := make([]Line, len(r.lines))
	copy(out, r.lines)
	return out
}

// CheckReturn verifica que las cantidades solicitadas (por producto) no superen lo pendiente.
func (r *Result) CheckReturn(requested map[string]int64) error {
	for productID, qty := range requested {
		if remaining := r.RemainingQuantity(productID); qty > remaining {
			return fmt.Errorf("%w: producto %s solicitado %d, pendiente %d", domain.ErrOverReturn, productID, qty, remaining)
		}
	}
	return nil
}

// RequestedByProduct suma las cantidades de una devolución por producto.
func RequestedByProduct(lines []entity.ReturnLine) map[string]int64 {
	out := make(map[string]int64, len(lines))
	for _, l := range lines {
		out[l.ProductID] = addSat(out[l.ProductID], l.Quantity)
	}
	return out
}

// addSat suma cantidades positivas saturando en math.MaxInt64.
func addSat(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
