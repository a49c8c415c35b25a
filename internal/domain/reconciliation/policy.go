package reconciliation

import (
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// Policy decide qué estados de devolución descuentan cantidad de la factura.
// El valor cero no cuenta ninguna devolución; usar DefaultPolicy o NewPolicy.
type Policy struct {
	counted map[entity.ReturnStatus]bool
}

// DefaultPolicy cuenta toda devolución registrada sin importar su estado.
func DefaultPolicy() Policy {
	return NewPolicy(entity.ReturnStatusPending, entity.ReturnStatusApproved, entity.ReturnStatusRejected)
}

// NewPolicy cuenta solo los estados indicados.
func NewPolicy(statuses ...entity.ReturnStatus) Policy {
	p := Policy{counted: make(map[entity.ReturnStatus]bool, len(statuses))}
	for _, s := range statuses {
		p.counted[s] = true
	}
	return p
}

// ParsePolicy interpreta una lista separada por comas ("pending,approved"). Vacío = DefaultPolicy.
func ParsePolicy(csv string) (Policy, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return DefaultPolicy(), nil
	}
	var statuses []entity.ReturnStatus
	for _, part := range strings.Split(csv, ",") {
		s, err := entity.ParseReturnStatus(strings.ToLower(strings.TrimSpace(part)))
		if err != nil {
			return Policy{}, fmt.Errorf("política de devoluciones: %w", err)
		}
		statuses = append(statuses, s)
	}
	if len(statuses) == 0 {
		return Policy{}, domain.ErrInvalidInput
	}
	return NewPolicy(statuses...), nil
}

// Counts indica si una devolución con ese estado descuenta de la factura.
func (p Policy) Counts(s entity.ReturnStatus) bool {
	return p.counted[s]
}

// Statuses devuelve los estados contados en orden estable.
func (p Policy) Statuses() []entity.ReturnStatus {
	out := make([]entity.ReturnStatus, 0, len(p.counted))
	for _, s := range []entity.ReturnStatus{entity.ReturnStatusPending, entity.ReturnStatusApproved, entity.ReturnStatusRejected} {
		if p.counted[s] {
			out = append(out, s)
		}
	}
	return out
}
