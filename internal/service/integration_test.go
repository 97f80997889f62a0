//go:build integration

package service

// integration_test.go
// Store-level tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/service/... -v
//
// The unit suite simulates the two store guards with in-memory fakes; these
// tests exercise them for real: the partial unique index that arbitrates
// racing session starts, and the guarded atomic increments that keep
// concurrent payments lost-update free.

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SakshamGunj/pos-sub001/internal/dto"
	"github.com/SakshamGunj/pos-sub001/internal/infra"
	"github.com/SakshamGunj/pos-sub001/internal/model"
	"github.com/SakshamGunj/pos-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

type storeEnv struct {
	db        *gorm.DB
	rdb       *redis.Client
	sessions  repository.SessionRepository
	txs       repository.TransactionRepository
	orders    repository.OrderRepository
	menuItems repository.MenuItemRepository
}

func setupStore(t *testing.T) *storeEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("ledger_test"),
		tcPostgres.WithUsername("ledger"),
		tcPostgres.WithPassword("ledger"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := infra.NewDatabase(pgURL)
	require.NoError(t, err)
	// Applying the schema a second time must be a no-op.
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(rdURL)
	require.NoError(t, err)

	return &storeEnv{
		db:        db,
		rdb:       rdb,
		sessions:  repository.NewSessionRepository(db),
		txs:       repository.NewTransactionRepository(db),
		orders:    repository.NewOrderRepository(db),
		menuItems: repository.NewMenuItemRepository(db),
	}
}

// The partial unique index must let exactly one of N racing starts through,
// and the losers must surface as a conflict, not a raw store error.
func TestStoreArbitratesRacingSessionStarts(t *testing.T) {
	env := setupStore(t)
	svc := NewSessionService(env.sessions, env.rdb)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Start(context.Background(), "terminal")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrSessionConflict):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, n-1, lost)

	count, err := env.sessions.CountActive(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Even a direct insert bypassing the service hits the index.
	err = env.sessions.Create(context.Background(), &model.Session{
		UserID:    "backdoor",
		StartTime: time.Now().UTC(),
		IsActive:  true,
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestStoreConcurrentPaymentsDoNotLoseUpdates(t *testing.T) {
	env := setupStore(t)
	sessSvc := NewSessionService(env.sessions, env.rdb)
	paySvc := NewPaymentService(env.sessions, env.txs, env.orders, NewInventoryService(env.menuItems), nil)

	started, err := sessSvc.Start(context.Background(), "u1")
	require.NoError(t, err)
	id := uuid.MustParse(started.ID)

	const n = 50
	amount := decimal.NewFromInt(7)
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := paySvc.RecordPayment(context.Background(), dto.RecordPaymentRequest{
				OrderID:       "ord-race",
				Amount:        amount,
				PaymentMethod: "UPI",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	sess, err := env.sessions.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, sess.UpiTotal.Equal(decimal.NewFromInt(n*7)), "upi total %s", sess.UpiTotal)
	assert.True(t, sess.TotalRevenue.Equal(decimal.NewFromInt(n*7)), "total revenue %s", sess.TotalRevenue)

	txns, err := env.txs.FindBySession(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, txns, n)
}

// A payment on a seeded order deducts real stock and leaves an audit trail;
// closing the shift freezes the accumulators in the store.
func TestStorePaymentDeductsStockAndCloseFreezesTotals(t *testing.T) {
	env := setupStore(t)
	ctx := context.Background()

	item := &model.MenuItem{Name: "Espresso", Price: decimal.NewFromInt(3), StockQuantity: 10, Available: true}
	require.NoError(t, env.db.Create(item).Error)
	order := &model.Order{ID: "ord-7", Status: "open"}
	require.NoError(t, env.db.Create(order).Error)
	require.NoError(t, env.db.Create(&model.OrderItem{OrderID: "ord-7", MenuItemID: item.ID, Quantity: 3}).Error)

	sessSvc := NewSessionService(env.sessions, env.rdb)
	paySvc := NewPaymentService(env.sessions, env.txs, env.orders, NewInventoryService(env.menuItems), nil)

	started, err := sessSvc.Start(ctx, "u1")
	require.NoError(t, err)

	_, err = paySvc.RecordPayment(ctx, dto.RecordPaymentRequest{
		OrderID:       "ord-7",
		Amount:        decimal.NewFromInt(9),
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	reloaded, err := env.menuItems.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.StockQuantity)

	movements, total, err := env.menuItems.ListMovements(ctx, item.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, movements, 1)
	assert.Equal(t, -3, movements[0].Quantity)

	notes := "integration shift"
	closed, err := sessSvc.End(ctx, dto.EndSessionRequest{Notes: &notes})
	require.NoError(t, err)
	assert.False(t, closed.IsActive)
	assert.Equal(t, started.ID, closed.ID)
	assert.Equal(t, "9", closed.Totals.Cash.String())
	assert.Equal(t, "9", closed.Totals.Total.String())

	// Closed sessions reject further payments at the store guard too.
	_, err = paySvc.RecordPayment(ctx, dto.RecordPaymentRequest{
		OrderID:       "ord-7",
		Amount:        decimal.NewFromInt(1),
		PaymentMethod: "CASH",
	})
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestStoreActiveHintFollowsLifecycle(t *testing.T) {
	env := setupStore(t)
	ctx := context.Background()
	svc := NewSessionService(env.sessions, env.rdb)

	hint, err := svc.ActiveHint(ctx)
	require.NoError(t, err)
	assert.Nil(t, hint)

	started, err := svc.Start(ctx, "u1")
	require.NoError(t, err)

	hint, err = svc.ActiveHint(ctx)
	require.NoError(t, err)
	require.NotNil(t, hint)
	assert.Equal(t, started.ID, *hint)

	_, err = svc.End(ctx, dto.EndSessionRequest{})
	require.NoError(t, err)

	hint, err = svc.ActiveHint(ctx)
	require.NoError(t, err)
	assert.Nil(t, hint)
}
