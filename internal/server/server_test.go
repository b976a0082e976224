package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/finkeeper/internal/client/api"
	"github.com/iudanet/finkeeper/internal/config"
	"github.com/iudanet/finkeeper/internal/models"
	"github.com/iudanet/finkeeper/internal/optimistic"
	"github.com/iudanet/finkeeper/internal/server/storage/sqldb"
	pkgapi "github.com/iudanet/finkeeper/pkg/api"
)

func setupTestServer(t *testing.T, cfg config.Server) string {
	t.Helper()

	store, err := sqldb.New(context.Background(), ":memory:")
	require.NoError(t, err)

	srv := New(cfg, slog.New(slog.DiscardHandler), store, store, "test")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
		_ = store.Close()
	})

	return ts.URL
}

func expenseInput(merchant string, amount int64) pkgapi.ExpenseInput {
	return pkgapi.ExpenseInput{
		Date:     time.Now().UTC().Truncate(24 * time.Hour),
		Amount:   decimal.NewFromInt(amount),
		Currency: "USD",
		Category: "Food",
		Merchant: merchant,
	}
}

func TestServer_Health(t *testing.T) {
	url := setupTestServer(t, config.DefaultServer())

	resp, err := api.NewClient(url, "").Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
}

func TestServer_ClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := api.NewClient(setupTestServer(t, config.DefaultServer()), "alice")

	created, err := client.Expenses().Create(ctx, expenseInput("Coffee", 5))
	require.NoError(t, err)
	assert.Equal(t, "alice", created.UserID)
	assert.False(t, optimistic.IsTempID(created.ID))

	created.Merchant = "Tea"
	updated, err := client.Expenses().Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Tea", updated.Merchant)

	items, err := client.Expenses().List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Tea", items[0].Merchant)

	require.NoError(t, client.Expenses().Delete(ctx, created.ID))

	err = client.Expenses().Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, api.IsNotFound(err))

	_, err = client.Expenses().Create(ctx, expenseInput("Broken", 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error (400)")
}

func TestServer_MissingUser(t *testing.T) {
	client := api.NewClient(setupTestServer(t, config.DefaultServer()), "")

	_, err := client.Categories().List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestServer_Synchronizer(t *testing.T) {
	ctx := context.Background()
	client := api.NewClient(setupTestServer(t, config.DefaultServer()), "alice")

	recorder := &optimistic.Recorder{}
	expenses := optimistic.New[models.Expense, pkgapi.ExpenseInput](client.Expenses(), optimistic.Options[models.Expense, pkgapi.ExpenseInput]{
		Name:     "Expense",
		Notifier: recorder,
		Placeholder: func(tempID string, in pkgapi.ExpenseInput) models.Expense {
			return models.NewExpense(tempID, models.OptimisticOwner, in, time.Now())
		},
	})

	created, err := expenses.Create(ctx, expenseInput("Coffee", 5))
	require.NoError(t, err)
	assert.Equal(t, "alice", created.UserID)

	all := expenses.Store().All()
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
	assert.Zero(t, expenses.Store().PendingCount())

	require.NoError(t, expenses.Delete(ctx, created.ID))
	require.NoError(t, expenses.Refresh(ctx))
	assert.Zero(t, expenses.Store().Len())

	titles := make([]string, 0)
	for _, n := range recorder.Notifications() {
		titles = append(titles, n.Title)
	}
	assert.Contains(t, titles, "Expense added")
}

func TestServer_RateLimit(t *testing.T) {
	cfg := config.DefaultServer()
	cfg.RateLimit.Requests = 2
	client := api.NewClient(setupTestServer(t, cfg), "alice")

	ctx := context.Background()
	_, err := client.Bills().List(ctx)
	require.NoError(t, err)
	_, err = client.Bills().List(ctx)
	require.NoError(t, err)

	_, err = client.Bills().List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestServer_RunShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := config.DefaultServer()
	cfg.HTTP.Addr = addr

	store, err := sqldb.New(context.Background(), ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	srv := New(cfg, slog.New(slog.DiscardHandler), store, store, "test")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/v1/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
