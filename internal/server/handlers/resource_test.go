package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/finkeeper/internal/models"
	"github.com/iudanet/finkeeper/internal/server/storage/sqldb"
	"github.com/iudanet/finkeeper/pkg/api"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type testServer struct {
	mux   *http.ServeMux
	store *sqldb.Storage
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqldb.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	logger := setupTestLogger()
	mux := http.NewServeMux()

	clock := func() time.Time { return testNow }
	expenses := NewResourceHandler(logger, store, ExpenseResource())
	expenses.now = clock
	expenses.Register(mux)

	NewResourceHandler(logger, store, CategoryResource()).Register(mux)

	budgets := NewResourceHandler(logger, store, BudgetResource(store, clock))
	budgets.now = clock
	budgets.Register(mux)

	return &testServer{mux: mux, store: store}
}

func (s *testServer) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req = req.WithContext(WithUserID(req.Context(), userID))
	}

	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func coffee() api.ExpenseInput {
	return api.ExpenseInput{
		Date:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:   decimal.NewFromInt(5),
		Currency: "USD",
		Category: "Food",
		Merchant: "Coffee",
	}
}

func TestResourceHandler_Create(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/expenses", "u1", coffee())
	require.Equal(t, http.StatusCreated, w.Code)

	created := decodeBody[models.Expense](t, w)
	assert.NotEmpty(t, created.ID)
	assert.NotContains(t, created.ID, "temp-")
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, models.KindExpense, created.Kind)
	assert.True(t, testNow.Equal(created.CreatedAt))
	assert.True(t, created.Amount.Equal(decimal.NewFromInt(5)))

	rec, err := s.store.Get(context.Background(), "u1", api.ResourceExpenses, created.ID)
	require.NoError(t, err)
	assert.Contains(t, string(rec.Payload), "Coffee")
}

func TestResourceHandler_CreateErrors(t *testing.T) {
	s := setupTestServer(t)

	invalid := coffee()
	invalid.Amount = decimal.NewFromInt(-1)

	tests := []struct {
		body     any
		name     string
		userID   string
		wantCode string
		status   int
	}{
		{
			name:     "validation failed",
			body:     invalid,
			userID:   "u1",
			status:   http.StatusBadRequest,
			wantCode: api.ErrCodeValidationFailed,
		},
		{
			name:     "malformed json",
			body:     `{"amount":`,
			userID:   "u1",
			status:   http.StatusBadRequest,
			wantCode: api.ErrCodeInvalidJSON,
		},
		{
			name:     "missing user",
			body:     coffee(),
			status:   http.StatusUnauthorized,
			wantCode: api.ErrCodeMissingUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/v1/expenses", tt.userID, tt.body)
			assert.Equal(t, tt.status, w.Code)

			errResp := decodeBody[api.ErrorResponse](t, w)
			assert.Equal(t, tt.wantCode, errResp.Error)
			assert.NotEmpty(t, errResp.Message)
		})
	}
}

func TestResourceHandler_ListScopedByUser(t *testing.T) {
	s := setupTestServer(t)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/expenses", "u1", coffee()).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/expenses", "u2", coffee()).Code)

	w := s.do(t, http.MethodGet, "/api/v1/expenses", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decodeBody[[]models.Expense](t, w)
	require.Len(t, items, 1)
	assert.Equal(t, "u1", items[0].UserID)

	w = s.do(t, http.MethodGet, "/api/v1/categories", "u3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestResourceHandler_Update(t *testing.T) {
	s := setupTestServer(t)

	created := decodeBody[models.Expense](t, s.do(t, http.MethodPost, "/api/v1/expenses", "u1", coffee()))

	edited := created
	edited.Merchant = "Tea"
	edited.UserID = "someone-else"
	edited.CreatedAt = time.Time{}

	w := s.do(t, http.MethodPut, "/api/v1/expenses/"+created.ID, "u1", edited)
	require.Equal(t, http.StatusOK, w.Code)

	updated := decodeBody[models.Expense](t, w)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Tea", updated.Merchant)
	assert.Equal(t, "u1", updated.UserID, "owner comes from the stored record")
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	w = s.do(t, http.MethodPut, "/api/v1/expenses/missing", "u1", edited)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/api/v1/expenses/"+created.ID, "u2", edited)
	assert.Equal(t, http.StatusNotFound, w.Code, "other users cannot touch the record")

	edited.Amount = decimal.Zero
	w = s.do(t, http.MethodPut, "/api/v1/expenses/"+created.ID, "u1", edited)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResourceHandler_Delete(t *testing.T) {
	s := setupTestServer(t)

	created := decodeBody[models.Expense](t, s.do(t, http.MethodPost, "/api/v1/expenses", "u1", coffee()))

	w := s.do(t, http.MethodDelete, "/api/v1/expenses/"+created.ID, "u1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/expenses/"+created.ID, "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, api.ErrCodeNotFound, decodeBody[api.ErrorResponse](t, w).Error)
}

func TestResourceHandler_MethodNotAllowed(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodPatch, "/api/v1/expenses", "u1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestBudgetResource_ComputesUsage(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/budgets", "u1", api.BudgetInput{
		Amount:   decimal.NewFromInt(100),
		Category: "Food",
		Period:   "monthly",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	budget := decodeBody[models.Budget](t, w)
	assert.Equal(t, models.BudgetOnTrack, budget.Status)
	assert.True(t, budget.Remaining.Equal(decimal.NewFromInt(100)))

	grocer := coffee()
	grocer.Amount = decimal.NewFromInt(85)
	grocer.Merchant = "Grocer"
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/expenses", "u1", grocer).Code)

	lastMonth := coffee()
	lastMonth.Date = time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/v1/expenses", "u1", lastMonth).Code)

	w = s.do(t, http.MethodGet, "/api/v1/budgets", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	budgets := decodeBody[[]models.Budget](t, w)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].Spent.Equal(decimal.NewFromInt(85)), "got %s", budgets[0].Spent)
	assert.True(t, budgets[0].Remaining.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, models.BudgetWarning, budgets[0].Status)
}
