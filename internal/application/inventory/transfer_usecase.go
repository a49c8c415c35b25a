package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TransferUseCase libro de traslados entre sucursales: envío, recepción y eliminación de envíos.
// Toda validación de stock se hace aquí dentro de la transacción; la verificación del cliente es solo orientativa.
type TransferUseCase struct {
	txRunner     TxRunner
	transferRepo repository.TransferRepository
	sequence     NumberSequence
	log          zerolog.Logger
	now          func() time.Time
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	transferRepo repository.TransferRepository,
	sequence NumberSequence,
	log zerolog.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		transferRepo: transferRepo,
		sequence:     sequence,
		log:          log.With().Str("component", "transfers").Logger(),
		now:          time.Now,
	}
}

// SendInput entrada para enviar stock. FromBranchID nil = bodega central.
type SendInput struct {
	FromBranchID *string
	ToBranchID   string
	ProductID    string
	Quantity     int64
	Notes        string
	UserID       string
}

// FormatTransferNumber número legible del traslado (TR-000042).
func FormatTransferNumber(n int64) string {
	return fmt.Sprintf("TR-%06d", n)
}

func (in SendInput) validate() error {
	if strings.TrimSpace(in.ProductID) == "" || entity.NormalizeBranch(&in.ToBranchID) == nil {
		return fmt.Errorf("%w: productId y toBranchId son requeridos; el destino no puede ser la bodega central", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if from := entity.NormalizeBranch(in.FromBranchID); from != nil && *from == strings.TrimSpace(in.ToBranchID) {
		return fmt.Errorf("%w: origen y destino son la misma sucursal", domain.ErrInvalidInput)
	}
	return nil
}

// Send descuenta el stock de origen y registra el traslado en estado sent, en una sola transacción.
// Con stock insuficiente no se crea el traslado ni se toca el stock.
func (uc *TransferUseCase) Send(ctx context.Context, in SendInput) (*entity.Transfer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	n, err := uc.sequence.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("transfer number: %w", err)
	}

	t := &entity.Transfer{
		ID:             uuid.New().String(),
		TransferNumber: FormatTransferNumber(n),
		FromBranchID:   entity.NormalizeBranch(in.FromBranchID),
		ToBranchID:     strings.TrimSpace(in.ToBranchID),
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		Status:         entity.TransferStatusSent,
		SentAt:         uc.now(),
		Notes:          strings.TrimSpace(in.Notes),
		CreatedBy:      in.UserID,
	}

	var remaining int64
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		transferRepo repository.TransferRepository,
	) error {
		left, err := stockRepo.Decrement(ctx, t.ProductID, t.SourceKey(), t.Quantity)
		if err != nil {
			return err
		}
		remaining = left
		return transferRepo.Create(ctx, t)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.log.Warn().
				Str("product_id", t.ProductID).
				Str("from_branch", t.SourceKey()).
				Int64("quantity", t.Quantity).
				Msg("envío rechazado por stock insuficiente")
		}
		return nil, err
	}

	uc.log.Info().
		Str("transfer_id", t.ID).
		Str("transfer_number", t.TransferNumber).
		Str("product_id", t.ProductID).
		Int64("quantity", t.Quantity).
		Int64("source_stock", remaining).
		Msg("traslado enviado")
	return t, nil
}

// Receive acredita el stock en destino y marca el traslado como recibido.
// Un segundo Receive falla con ErrInvalidState: el destino se acredita una sola vez.
func (uc *TransferUseCase) Receive(ctx context.Context, id string) (*entity.Transfer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidInput
	}
	var out entity.Transfer
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		transferRepo repository.TransferRepository,
	) error {
		t, err := transferRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		sent, err := t.AsSent()
		if err != nil {
			return err
		}
		received := sent.Receive(uc.now())
		if _, err := stockRepo.Increment(ctx, received.ProductID, received.ToBranchID, received.Quantity); err != nil {
			return err
		}
		if err := transferRepo.MarkReceived(ctx, received.ID, *received.ReceivedAt); err != nil {
			return err
		}
		out = received
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("transfer_id", out.ID).
		Str("to_branch", out.ToBranchID).
		Int64("quantity", out.Quantity).
		Msg("traslado recibido")
	return &out, nil
}

// DeleteSent revierte el descuento del origen y elimina un traslado aún no recibido.
func (uc *TransferUseCase) DeleteSent(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidInput
	}
	var deleted *entity.Transfer
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		transferRepo repository.TransferRepository,
	) error {
		t, err := transferRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if _, err := t.AsSent(); err != nil {
			return err
		}
		if _, err := stockRepo.Increment(ctx, t.ProductID, t.SourceKey(), t.Quantity); err != nil {
			return err
		}
		deleted = t
		return transferRepo.DeleteSent(ctx, t.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().
		Str("transfer_id", deleted.ID).
		Str("from_branch", deleted.SourceKey()).
		Int64("quantity", deleted.Quantity).
		Msg("traslado eliminado, stock de origen restituido")
	return nil
}

// GetByID obtiene un traslado; domain.ErrNotFound si no existe.
func (uc *TransferUseCase) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	t, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// List lista traslados con filtros y paginación (límite por defecto 20, máximo 100).
func (uc *TransferUseCase) List(ctx context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.transferRepo.List(ctx, f)
}
