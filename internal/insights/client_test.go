package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/finkeeper/internal/models"
	"github.com/iudanet/finkeeper/internal/report"
)

func completion(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func newTestClient(url string) *Client {
	return NewClient(Config{BaseURL: url, APIKey: "test-key", RetryDelay: 0}, nil)
}

func TestFinancialInsights_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "Total expenses: 250.00")

		completion(t, w, "```json\n[{\"type\":\"spending\",\"priority\":\"high\",\"title\":\"Food\",\"description\":\"D\",\"recommendation\":\"R\"}]\n```")
	}))
	defer server.Close()

	got := newTestClient(server.URL).FinancialInsights(context.Background(), Snapshot{
		Summary: report.Summary{Expenses: decimal.NewFromInt(250)},
	})

	require.Len(t, got, 1)
	assert.False(t, IsFallback(got))
	assert.Equal(t, "Food", got[0].Title)
}

func TestFinancialInsights_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		case 2:
			completion(t, w, "not json at all")
		default:
			completion(t, w, `{"insights":[{"type":"saving","priority":"low","title":"T","description":"D","recommendation":"R"}]}`)
		}
	}))
	defer server.Close()

	got := newTestClient(server.URL).FinancialInsights(context.Background(), Snapshot{})

	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, got, 1)
	assert.Equal(t, TypeSaving, got[0].Type)
}

func TestFinancialInsights_FallbackAfterAllAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		completion(t, w, "Sorry, I can only answer in prose.")
	}))
	defer server.Close()

	got := newTestClient(server.URL).FinancialInsights(context.Background(), Snapshot{})

	assert.Equal(t, int32(DefaultMaxAttempts), calls.Load())
	require.Len(t, got, 1)
	assert.Equal(t, TypeGeneral, got[0].Type)
	assert.True(t, IsFallback(got))
	assert.Contains(t, got[0].Description, ReasonMalformed)
}

func TestFinancialInsights_EmptyBody(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	got := newTestClient(server.URL).FinancialInsights(context.Background(), Snapshot{})

	assert.Equal(t, int32(3), calls.Load())
	assert.True(t, IsFallback(got))
	assert.Contains(t, got[0].Description, "empty response")
}

func TestFinancialInsights_TimeoutDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(Config{BaseURL: server.URL, APIKey: "k", Timeout: 50 * time.Millisecond}, nil)
	got := client.FinancialInsights(context.Background(), Snapshot{})

	assert.Equal(t, int32(1), calls.Load())
	require.Len(t, got, 1)
	assert.Equal(t, TypeGeneral, got[0].Type)
	assert.Contains(t, got[0].Description, "timed out")
}

func TestFinancialInsights_NoAPIKey(t *testing.T) {
	got := NewClient(Config{}, nil).FinancialInsights(context.Background(), Snapshot{})
	assert.True(t, IsFallback(got))
	assert.Contains(t, got[0].Description, "API key")
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(Snapshot{
		Summary: report.Summary{
			From:     time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
			To:       time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
			Income:   decimal.NewFromInt(1000),
			Expenses: decimal.NewFromInt(400),
			Net:      decimal.NewFromInt(600),
			Categories: []report.CategoryTotal{
				{Category: "Food", Amount: decimal.NewFromInt(400), Share: decimal.NewFromInt(100), Count: 3},
			},
		},
		Budgets: []models.Budget{
			{Category: "Food", Period: models.PeriodMonthly, Amount: decimal.NewFromInt(300), Spent: decimal.NewFromInt(400), Status: models.BudgetExceeded},
		},
		Upcoming: []report.Event{
			{Date: time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC), Bill: models.Bill{Name: "Netflix", Amount: decimal.NewFromInt(15)}},
		},
	})

	assert.Contains(t, prompt, "Period: 2026-10-01 to 2026-11-01")
	assert.Contains(t, prompt, "- Food: 400.00 (100.0%, 3 transactions)")
	assert.Contains(t, prompt, "spent 400.00 of 300.00, status exceeded")
	assert.Contains(t, prompt, "- Netflix: 15.00 due 2026-11-03")
}
