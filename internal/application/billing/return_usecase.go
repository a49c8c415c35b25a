package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/reconciliation"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ReturnUseCase registra devoluciones contra facturas. No modifica la factura ni el stock.
type ReturnUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	returnRepo  repository.ReturnRepository
	policy      reconciliation.Policy
	log         zerolog.Logger
	now         func() time.Time
}

// NewReturnUseCase construye el caso de uso. policy define qué devoluciones cuentan para el tope por producto.
func NewReturnUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	returnRepo repository.ReturnRepository,
	policy reconciliation.Policy,
	log zerolog.Logger,
) *ReturnUseCase {
	return &ReturnUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		returnRepo:  returnRepo,
		policy:      policy,
		log:         log.With().Str("component", "returns").Logger(),
		now:         time.Now,
	}
}

// RecordReturnInput entrada para registrar una devolución.
type RecordReturnInput struct {
	ParentInvoiceID string
	Lines           []entity.ReturnLine
	Reason          string
	UserID          string
}

func (in RecordReturnInput) validate() error {
	if strings.TrimSpace(in.ParentInvoiceID) == "" {
		return fmt.Errorf("%w: parentInvoiceId es requerido", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: la devolución requiere al menos una línea", domain.ErrInvalidInput)
	}
	perProduct := make(map[string]int64, len(in.Lines))
	for i, l := range in.Lines {
		if strings.TrimSpace(l.ProductID) == "" || l.Quantity <= 0 || l.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: línea %d inválida", domain.ErrInvalidInput, i+1)
		}
		sum, err := entity.AddQuantity(perProduct[l.ProductID], l.Quantity)
		if err != nil {
			return fmt.Errorf("línea %d: %w", i+1, err)
		}
		perProduct[l.ProductID] = sum
	}
	return nil
}

// RecordReturn agrega una devolución pendiente. La factura se bloquea durante la transacción para que
// dos devoluciones simultáneas no superen juntas la cantidad facturada.
func (uc *ReturnUseCase) RecordReturn(ctx context.Context, in RecordReturnInput) (*entity.ReturnRecord, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	rec := &entity.ReturnRecord{
		ID:              uuid.New().String(),
		ParentInvoiceID: in.ParentInvoiceID,
		Lines:           append([]entity.ReturnLine(nil), in.Lines...),
		Status:          entity.ReturnStatusPending,
		Reason:          strings.TrimSpace(in.Reason),
		CreatedAt:       uc.now(),
		CreatedBy:       in.UserID,
	}

	err := uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, returnRepo repository.ReturnRepository) error {
		inv, err := invoiceRepo.GetForUpdate(ctx, rec.ParentInvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		existing, err := returnRepo.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}
		res := reconciliation.Reconcile(inv, existing, uc.policy)
		if err := res.CheckReturn(reconciliation.RequestedByProduct(rec.Lines)); err != nil {
			return err
		}
		return returnRepo.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("return_id", rec.ID).Str("invoice_id", rec.ParentInvoiceID).Int("lines", len(rec.Lines)).Msg("devolución registrada")
	return rec, nil
}

// ReturnsFor todas las devoluciones de la factura en orden de creación.
func (uc *ReturnUseCase) ReturnsFor(ctx context.Context, invoiceID string) ([]*entity.ReturnRecord, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return uc.returnRepo.ListByInvoice(ctx, invoiceID)
}

// Approve aprueba una devolución pendiente.
func (uc *ReturnUseCase) Approve(ctx context.Context, id string) (*entity.ReturnRecord, error) {
	return uc.review(ctx, id, entity.ReturnStatusApproved)
}

// Reject rechaza una devolución pendiente.
func (uc *ReturnUseCase) Reject(ctx context.Context, id string) (*entity.ReturnRecord, error) {
	return uc.review(ctx, id, entity.ReturnStatusRejected)
}

// review aplica pending → to. Si el nuevo estado empieza a contar para la política, vuelve a verificar el tope.
func (uc *ReturnUseCase) review(ctx context.Context, id string, to entity.ReturnStatus) (*entity.ReturnRecord, error) {
	var out *entity.ReturnRecord
	err := uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, returnRepo repository.ReturnRepository) error {
		rec, err := returnRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if rec.Status != entity.ReturnStatusPending {
			return domain.ErrInvalidState
		}
		if !uc.policy.Counts(rec.Status) && uc.policy.Counts(to) {
			inv, err := invoiceRepo.GetForUpdate(ctx, rec.ParentInvoiceID)
			if err != nil {
				return err
			}
			if inv == nil {
				return domain.ErrNotFound
			}
			existing, err := returnRepo.ListByInvoice(ctx, inv.ID)
			if err != nil {
				return err
			}
			res := reconciliation.Reconcile(inv, existing, uc.policy)
			if err := res.CheckReturn(reconciliation.RequestedByProduct(rec.Lines)); err != nil {
				return err
			}
		}
		if err := rec.Review(to, uc.now()); err != nil {
			return err
		}
		out = rec
		return returnRepo.UpdateStatus(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("return_id", out.ID).Str("status", string(out.Status)).Msg("devolución revisada")
	return out, nil
}
