// Package bootstrap arma repositorios y casos de uso según la configuración (postgres o memoria).
// Lo comparten cmd/api y cmd/stockctl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger-api/internal/application/billing"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/reconciliation"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/stock-ledger-api/internal/infrastructure/redis"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// Container casos de uso listos para los handlers o la CLI.
type Container struct {
	Policy           reconciliation.Policy
	TransferUC       *inventory.TransferUseCase
	StockUC          *inventory.StockUseCase
	InvoiceUC        *billing.InvoiceUseCase
	ReturnUC         *billing.ReturnUseCase
	ReconciliationUC *billing.ReconciliationUseCase

	pool  *pgxpool.Pool
	redis *goredis.Client
}

type storage struct {
	stock     repository.StockRepository
	transfers repository.TransferRepository
	invoices  repository.InvoiceRepository
	returns   repository.ReturnRepository
	tx        interface {
		inventory.TxRunner
		billing.BillingTxRunner
	}
	sequence inventory.NumberSequence
}

// Build abre las conexiones necesarias y construye los casos de uso.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	policy, err := reconciliation.ParsePolicy(cfg.Returns.CountedStatuses)
	if err != nil {
		return nil, fmt.Errorf("RETURNS_COUNTED_STATUSES: %w", err)
	}
	c := &Container{Policy: policy}

	var st storage
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		st = storage{
			stock: store.Stocks(), transfers: store.Transfers(),
			invoices: store.Invoices(), returns: store.Returns(),
			tx: store, sequence: store,
		}
		log.Warn().Msg("almacenamiento en memoria: los datos no persisten")
	default:
		if cfg.DB.MigrateOnStart {
			if err := Migrate(cfg.DB, func(m *postgres.Migrator) error { return m.Up() }); err != nil {
				return nil, err
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c.pool = pool
		st = storage{
			stock:     postgres.NewStockRepository(pool),
			transfers: postgres.NewTransferRepository(pool),
			invoices:  postgres.NewInvoiceRepository(pool),
			returns:   postgres.NewReturnRepository(pool),
			tx:        postgres.NewTxRunner(pool),
			sequence:  postgres.NewTransferSequence(pool),
		}
	}

	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.redis = rdb
		st.sequence = infraredis.NewTransferSequence(rdb, "")
		log.Info().Str("addr", cfg.Redis.Addr).Msg("consecutivo de traslados en Redis")
	}

	zl := log.Zerolog()
	c.TransferUC = inventory.NewTransferUseCase(st.tx, st.transfers, st.sequence, zl)
	c.StockUC = inventory.NewStockUseCase(st.stock, zl)
	c.InvoiceUC = billing.NewInvoiceUseCase(st.tx, st.invoices, zl)
	c.ReturnUC = billing.NewReturnUseCase(st.tx, st.invoices, st.returns, policy, zl)
	c.ReconciliationUC = billing.NewReconciliationUseCase(st.invoices, st.returns, policy)
	return c, nil
}

// Close libera pool y cliente Redis.
func (c *Container) Close() {
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.pool != nil {
		c.pool.Close()
	}
}

// Migrate abre el migrador, ejecuta fn y lo cierra.
func Migrate(cfg config.DBConfig, fn func(m *postgres.Migrator) error) error {
	m, err := postgres.NewMigrator(cfg.ConnectionString())
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return fn(m)
}
