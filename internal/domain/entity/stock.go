package entity

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// CentralBranchKey clave de almacenamiento de la bodega central (branchId nulo).
const CentralBranchKey = ""

// CentralBranchAlias nombre con el que los clientes se refieren a la bodega central.
const CentralBranchAlias = "central"

// Stock representa la cantidad disponible de un producto en una sucursal (o en la bodega central).
type Stock struct {
	ProductID string
	BranchID  *string // nil = bodega central
	Quantity  int64
	UpdatedAt time.Time
}

// BranchKey convierte un branchId opcional en la clave usada por el almacén de stock.
func BranchKey(branchID *string) string {
	if branchID == nil {
		return CentralBranchKey
	}
	return *branchID
}

// BranchFromKey es la inversa de BranchKey.
func BranchFromKey(key string) *string {
	if key == CentralBranchKey {
		return nil
	}
	k := key
	return &k
}

// NormalizeBranch lleva "", "central" y nil a nil (bodega central); el resto se devuelve recortado.
func NormalizeBranch(branchID *string) *string {
	if branchID == nil {
		return nil
	}
	b := strings.TrimSpace(*branchID)
	if b == CentralBranchKey || strings.EqualFold(b, CentralBranchAlias) {
		return nil
	}
	return &b
}

// AddQuantity suma cantidades no negativas sin desbordar int64.
func AddQuantity(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, fmt.Errorf("%w: la cantidad excede el máximo permitido", domain.ErrInvalidInput)
	}
	return a + b, nil
}
