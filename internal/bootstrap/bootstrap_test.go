package bootstrap_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/bootstrap"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

func memoryConfig() *config.Config {
	return &config.Config{Storage: config.StorageConfig{Driver: "memory"}}
}

func TestBuild_Memoria(t *testing.T) {
	c, err := bootstrap.Build(context.Background(), memoryConfig(), logger.New(logger.Config{Out: io.Discard}))
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	_, err = c.StockUC.Receipt(ctx, "5", nil, 3)
	require.NoError(t, err)

	tr, err := c.TransferUC.Send(ctx, inventory.SendInput{ToBranchID: "117", ProductID: "5", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "TR-000001", tr.TransferNumber)

	_, err = c.TransferUC.Send(ctx, inventory.SendInput{ToBranchID: "117", ProductID: "5", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestBuild_PoliticaInvalida(t *testing.T) {
	cfg := memoryConfig()
	cfg.Returns.CountedStatuses = "approved,archived"

	_, err := bootstrap.Build(context.Background(), cfg, logger.Nop())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
