package redis_test

import (
	"context"
	"errors"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraredis "github.com/jhoicas/stock-ledger-api/internal/infrastructure/redis"
)

// fakeIncr solo implementa INCR; el resto de Cmdable queda sin implementar.
type fakeIncr struct {
	goredis.Cmdable
	counters map[string]int64
	err      error
}

func (f *fakeIncr) Incr(ctx context.Context, key string) *goredis.IntCmd {
	cmd := goredis.NewIntCmd(ctx, "incr", key)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.counters[key]++
	cmd.SetVal(f.counters[key])
	return cmd
}

func TestTransferSequence_Incrementa(t *testing.T) {
	fake := &fakeIncr{counters: map[string]int64{}}
	seq := infraredis.NewTransferSequence(fake, "")

	a, err := seq.Next(context.Background())
	require.NoError(t, err)
	b, err := seq.Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), a)
	assert.Equal(t, int64(2), b)
	assert.Equal(t, int64(2), fake.counters[infraredis.TransferNumberKey])
}

func TestTransferSequence_Error(t *testing.T) {
	seq := infraredis.NewTransferSequence(&fakeIncr{err: errors.New("conn refused")}, "k")
	_, err := seq.Next(context.Background())
	assert.ErrorContains(t, err, "redis incr k")
}
