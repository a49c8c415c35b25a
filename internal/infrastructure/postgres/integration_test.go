package postgres_test

import (
	"context"
	"errors"
	"math"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/billing"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/reconciliation"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
)

// Estas pruebas corren contra una base real: TEST_DATABASE_URL=postgres://... go test ./internal/infrastructure/postgres/
// Sin la variable se omiten.

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}

	m, err := postgres.NewMigrator(dsn)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 30})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE stock, transfers, return_lines, returns, invoice_lines, invoices`)
	require.NoError(t, err)
	return pool
}

func strp(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_DecrementCondicional(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewStockRepository(pool)

	_, err := repo.Decrement(ctx, "5", "117", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "sin fila no hay stock")

	_, err = repo.Increment(ctx, "5", "117", 3)
	require.NoError(t, err)
	_, err = repo.Decrement(ctx, "5", "117", 4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	left, err := repo.Decrement(ctx, "5", "117", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), left)
}

func TestStock_IncrementFueraDeRango(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewStockRepository(pool)

	_, err := repo.Increment(ctx, "5", "", math.MaxInt64)
	require.NoError(t, err)
	_, err = repo.Increment(ctx, "5", "", 2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	s, err := repo.Get(ctx, "5", "")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), s.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfers_EnviosConcurrentesNoSobregiran(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	stock := postgres.NewStockRepository(pool)
	uc := inventory.NewTransferUseCase(postgres.NewTxRunner(pool), postgres.NewTransferRepository(pool),
		postgres.NewTransferSequence(pool), zerolog.Nop())

	_, err := stock.Increment(ctx, "5", "117", 10)
	require.NoError(t, err)

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Send(ctx, inventory.SendInput{FromBranchID: strp("117"), ToBranchID: "3", ProductID: "5", Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 10, rejected)
	s, err := stock.Get(ctx, "5", "117")
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.Quantity)
}

func TestTransfers_TransicionesGuardadas(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := postgres.NewTransferRepository(pool)

	tr := &entity.Transfer{
		ID: uuid.New().String(), TransferNumber: "TR-900001", ToBranchID: "3", ProductID: "5",
		Quantity: 2, Status: entity.TransferStatusSent, SentAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, tr))

	dup := *tr
	dup.ID = uuid.New().String()
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrDuplicate)

	require.NoError(t, repo.MarkReceived(ctx, tr.ID, time.Now()))
	assert.ErrorIs(t, repo.MarkReceived(ctx, tr.ID, time.Now()), domain.ErrInvalidState)
	assert.ErrorIs(t, repo.DeleteSent(ctx, tr.ID), domain.ErrInvalidState)

	got, err := repo.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.TransferStatusReceived, got.Status)
	assert.Nil(t, got.FromBranchID)

	list, err := repo.List(ctx, repository.TransferFilter{Central: true, Limit: 20})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, tr.ID, list[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func TestReturns_ConcurrentesRespetanElTope(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool)
	invoices := postgres.NewInvoiceRepository(pool)
	returns := postgres.NewReturnRepository(pool)
	policy := reconciliation.DefaultPolicy()

	_, err := billing.NewInvoiceUseCase(runner, invoices, zerolog.Nop()).Create(ctx, billing.CreateInvoiceInput{
		ID: "10", Kind: entity.InvoiceKindPurchase,
		Lines: []entity.InvoiceLine{{ProductID: "5", Quantity: 10, UnitPrice: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)

	uc := billing.NewReturnUseCase(runner, invoices, returns, policy, zerolog.Nop())
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.RecordReturn(ctx, billing.RecordReturnInput{
				ParentInvoiceID: "10",
				Lines:           []entity.ReturnLine{{ProductID: "5", Quantity: 3, UnitPrice: decimal.NewFromInt(100)}},
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrOverReturn)
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok, "3 devoluciones de 3 caben en 10")
	net, err := billing.NewReconciliationUseCase(invoices, returns, policy).Reconcile(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, int64(1), net.RemainingQuantity("5"))
	assert.True(t, net.NetTotal().Equal(decimal.NewFromInt(100)))
}
