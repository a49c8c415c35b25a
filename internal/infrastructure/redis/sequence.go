package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
)

// TransferNumberKey clave del contador de traslados.
const TransferNumberKey = "stock-ledger:transfer-number"

var _ inventory.NumberSequence = (*TransferSequence)(nil)

// TransferSequence consecutivo de traslados con INCR (atómico entre instancias).
type TransferSequence struct {
	rdb goredis.Cmdable
	key string
}

// NewTransferSequence key vacío = TransferNumberKey.
func NewTransferSequence(rdb goredis.Cmdable, key string) *TransferSequence {
	if key == "" {
		key = TransferNumberKey
	}
	return &TransferSequence{rdb: rdb, key: key}
}

// Next incrementa y devuelve el contador.
func (s *TransferSequence) Next(ctx context.Context) (int64, error) {
	n, err := s.rdb.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", s.key, err)
	}
	return n, nil
}
