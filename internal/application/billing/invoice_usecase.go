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
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// InvoiceUseCase registro de facturas de compra y venta. Es la frontera de captura:
// aquí se rechazan cantidades no positivas y precios negativos para que la conciliación no tenga que hacerlo.
type InvoiceUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(txRunner BillingTxRunner, invoiceRepo repository.InvoiceRepository, log zerolog.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		log:         log.With().Str("component", "invoices").Logger(),
		now:         time.Now,
	}
}

// CreateInvoiceInput entrada para registrar una factura. ID vacío = se genera un UUID.
type CreateInvoiceInput struct {
	ID       string
	Kind     entity.InvoiceKind
	BranchID *string
	Lines    []entity.InvoiceLine
	UserID   string
}

func (in CreateInvoiceInput) validate() error {
	if in.Kind != entity.InvoiceKindPurchase && in.Kind != entity.InvoiceKindSale {
		return fmt.Errorf("%w: kind debe ser purchase o sale", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: la factura requiere al menos una línea", domain.ErrInvalidInput)
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

// Create registra la factura con sus líneas en una transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, in CreateInvoiceInput) (*entity.Invoice, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	inv := &entity.Invoice{
		ID:        strings.TrimSpace(in.ID),
		Kind:      in.Kind,
		BranchID:  entity.NormalizeBranch(in.BranchID),
		Lines:     append([]entity.InvoiceLine(nil), in.Lines...),
		CreatedAt: uc.now(),
		CreatedBy: in.UserID,
	}
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	err := uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository, _ repository.ReturnRepository) error {
		return invoiceRepo.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", inv.ID).Str("kind", string(inv.Kind)).Int("lines", len(inv.Lines)).Msg("factura registrada")
	return inv, nil
}

// GetByID obtiene una factura; domain.ErrNotFound si no existe.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}
