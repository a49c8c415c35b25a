package billing

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/reconciliation"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ReconciliationUseCase calcula bajo demanda el total neto de una factura (original menos devoluciones).
// El resultado no se persiste.
type ReconciliationUseCase struct {
	invoiceRepo repository.InvoiceRepository
	returnRepo  repository.ReturnRepository
	policy      reconciliation.Policy
}

// NewReconciliationUseCase construye el caso de uso.
func NewReconciliationUseCase(
	invoiceRepo repository.InvoiceRepository,
	returnRepo repository.ReturnRepository,
	policy reconciliation.Policy,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{invoiceRepo: invoiceRepo, returnRepo: returnRepo, policy: policy}
}

// Reconcile carga la factura y sus devoluciones y devuelve el resultado de la conciliación.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, invoiceID string) (*reconciliation.Result, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	returns, err := uc.returnRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	ix := reconciliation.NewIndex([]*entity.Invoice{inv}, returns)
	return ix.Reconcile(invoiceID, uc.policy)
}

// NetTotal respuesta de GET /invoices/{id}/net-total.
func (uc *ReconciliationUseCase) NetTotal(ctx context.Context, invoiceID string) (*dto.NetTotalResponse, error) {
	res, err := uc.Reconcile(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return dto.ToNetTotalResponse(res, uc.policy), nil
}
