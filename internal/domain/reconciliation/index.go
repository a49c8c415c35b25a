package reconciliation

import (
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// Index arena de facturas por id con un multimapa factura → devoluciones.
// Se arma una vez por petición para conciliar varias facturas sin recorrer todas las devoluciones cada vez.
type Index struct {
	invoices map[string]*entity.Invoice
	returns  map[string][]*entity.ReturnRecord
}

// NewIndex indexa facturas y devoluciones. Las devoluciones conservan el orden recibido.
func NewIndex(invoices []*entity.Invoice, returns []*entity.ReturnRecord) *Index {
	ix := &Index{
		invoices: make(map[string]*entity.Invoice, len(invoices)),
		returns:  make(map[string][]*entity.ReturnRecord),
	}
	for _, inv := range invoices {
		ix.invoices[inv.ID] = inv
	}
	for _, r := range returns {
		ix.returns[r.ParentInvoiceID] = append(ix.returns[r.ParentInvoiceID], r)
	}
	return ix
}

// ReturnsFor devoluciones indexadas para la factura.
func (ix *Index) ReturnsFor(invoiceID string) []*entity.ReturnRecord {
	return ix.returns[invoiceID]
}

// Reconcile concilia una factura del índice; domain.ErrNotFound si no está.
func (ix *Index) Reconcile(invoiceID string, p Policy) (*Result, error) {
	inv, ok := ix.invoices[invoiceID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return Reconcile(inv, ix.returns[invoiceID], p), nil
}
