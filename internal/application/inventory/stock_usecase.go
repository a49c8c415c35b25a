package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// StockUseCase lectura de stock y entradas de mercancía (siempre vía Increment, nunca escritura directa).
type StockUseCase struct {
	stockRepo repository.StockRepository
	log       zerolog.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(stockRepo repository.StockRepository, log zerolog.Logger) *StockUseCase {
	return &StockUseCase{stockRepo: stockRepo, log: log.With().Str("component", "stock").Logger()}
}

// Get stock actual de un producto en una sucursal (nil = bodega central).
func (uc *StockUseCase) Get(ctx context.Context, productID string, branchID *string) (*entity.Stock, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.Get(ctx, productID, entity.BranchKey(entity.NormalizeBranch(branchID)))
}

// ListByProduct stock del producto en todas las ubicaciones.
func (uc *StockUseCase) ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.ListByProduct(ctx, productID)
}

// Receipt registra una entrada de mercancía y devuelve el stock resultante.
func (uc *StockUseCase) Receipt(ctx context.Context, productID string, branchID *string, qty int64) (*entity.Stock, error) {
	if strings.TrimSpace(productID) == "" || qty <= 0 {
		return nil, fmt.Errorf("%w: productId y quantity > 0 son requeridos", domain.ErrInvalidInput)
	}
	branchID = entity.NormalizeBranch(branchID)
	key := entity.BranchKey(branchID)
	newQty, err := uc.stockRepo.Increment(ctx, productID, key, qty)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", productID).Str("branch", key).Int64("quantity", qty).Int64("stock", newQty).Msg("entrada de stock")
	return &entity.Stock{ProductID: productID, BranchID: branchID, Quantity: newQty}, nil
}
