package billing

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos de facturas y devoluciones.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		returnRepo repository.ReturnRepository,
	) error) error
}
