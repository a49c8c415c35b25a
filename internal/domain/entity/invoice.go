package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceKind tipo de factura. Compras y ventas son estructuralmente iguales para la conciliación.
type InvoiceKind string

const (
	InvoiceKindPurchase InvoiceKind = "purchase"
	InvoiceKindSale     InvoiceKind = "sale"
)

// Invoice factura de compra o venta. Inmutable una vez creada: las devoluciones no la reescriben.
type Invoice struct {
	ID        string
	Kind      InvoiceKind
	BranchID  *string
	Lines     []InvoiceLine
	CreatedAt time.Time
	CreatedBy string
}

// InvoiceLine línea de detalle de una factura. Un mismo producto puede aparecer en varias líneas.
type InvoiceLine struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}
