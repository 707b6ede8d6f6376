package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinly/coinly/internal/apperror"
	"github.com/coinly/coinly/internal/model"
	"github.com/coinly/coinly/pkg/datetime"
)

// countingTokens hands out a distinct token per call.
type countingTokens struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingTokens) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	c.calls++
	return fmt.Sprintf("token-%d", c.calls), nil
}

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Type   string
	Body   []byte
}

func newRecordingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Auth:   r.Header.Get("Authorization"),
			Type:   r.Header.Get("Content-Type"),
			Body:   body,
		})
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func TestFinanceClient_CategoriesIsUnauthenticated(t *testing.T) {
	t.Parallel()

	srv, reqs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"INCOME":["SALARY"],"EXPENSE":["RENT","FOOD"]}`))
	})
	tokens := &countingTokens{}
	client := NewFinanceClient(srv.URL+"/api/finance/", nil, tokens)

	cats, err := client.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"SALARY"}, cats.Income)
	assert.Equal(t, []string{"RENT", "FOOD"}, cats.Expense)

	require.Len(t, *reqs, 1)
	assert.Equal(t, "/api/finance/categories", (*reqs)[0].Path)
	assert.Empty(t, (*reqs)[0].Auth)
	assert.Zero(t, tokens.calls)
}

func TestFinanceClient_FreshTokenPerCall(t *testing.T) {
	t.Parallel()

	srv, reqs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"u1","currentBalance":100,"isSetupComplete":true,"transactions":[],"goals":[]}`))
	})
	client := NewFinanceClient(srv.URL, nil, &countingTokens{})

	for i := 0; i < 2; i++ {
		data, err := client.Dashboard(context.Background())
		require.NoError(t, err)
		assert.True(t, data.IsSetupComplete)
		assert.True(t, data.CurrentBalance.Equal(decimal.NewFromInt(100)))
	}

	require.Len(t, *reqs, 2)
	assert.Equal(t, "Bearer token-1", (*reqs)[0].Auth)
	assert.Equal(t, "Bearer token-2", (*reqs)[1].Auth)
}

func TestFinanceClient_Setup(t *testing.T) {
	t.Parallel()

	srv, reqs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	client := NewFinanceClient(srv.URL, nil, &countingTokens{})

	draft := model.NewSetupDraft()
	draft.CurrentBalance = decimal.NewFromInt(5000)
	draft.Goals[0].Title = "Laptop"
	draft.Goals[0].TargetAmount = decimal.NewFromInt(80000)
	draft.Goals[0].EndDate = datetime.NewDate(2026, time.June, 30)

	require.NoError(t, client.Setup(context.Background(), draft))

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/setup", got.Path)
	assert.Equal(t, "application/json", got.Type)
	assert.Equal(t, "Bearer token-1", got.Auth)

	var body map[string]any
	require.NoError(t, json.Unmarshal(got.Body, &body))
	assert.Equal(t, float64(5000), body["currentBalance"])
	goal := body["goals"].([]any)[0].(map[string]any)
	assert.Equal(t, "2026-06-30T00:00:00Z", goal["endDate"])
}

func TestFinanceClient_CreateTransaction(t *testing.T) {
	t.Parallel()

	srv, reqs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	client := NewFinanceClient(srv.URL, nil, &countingTokens{})

	form := model.TransactionForm{
		Type:     model.TransactionTypeIncome,
		Category: "SALARY",
		Amount:   decimal.RequireFromString("1200.50"),
	}
	require.NoError(t, client.CreateTransaction(context.Background(), form))

	require.Len(t, *reqs, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal((*reqs)[0].Body, &body))
	assert.Equal(t, "INCOME", body["type"])
	assert.Equal(t, "SALARY", body["category"])
	assert.Equal(t, 1200.5, body["amount"])
}

func TestFinanceClient_DeleteTransactionEscapesID(t *testing.T) {
	t.Parallel()

	srv, reqs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	client := NewFinanceClient(srv.URL, nil, &countingTokens{})

	require.NoError(t, client.DeleteTransaction(context.Background(), "a/b c"))
	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodDelete, (*reqs)[0].Method)
	assert.Equal(t, "/transactions/a%2Fb%20c", (*reqs)[0].Path)
}

func TestFinanceClient_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, apperror.ErrUnauthenticated},
		{"not found", http.StatusNotFound, apperror.ErrNotFound},
		{"bad request", http.StatusBadRequest, apperror.ErrBadRequest},
		{"server error", http.StatusInternalServerError, apperror.ErrRemote},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv, _ := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			client := NewFinanceClient(srv.URL, nil, &countingTokens{})

			_, err := client.Dashboard(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.status, apperror.GetStatusCode(err))
			assert.Equal(t, "API call failed: "+http.StatusText(tt.status), apperror.GetMessage(err))
		})
	}
}

func TestFinanceClient_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewFinanceClient(url, nil, &countingTokens{})
	_, err := client.Categories(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrTransport)
}

func TestFinanceClient_TokenFailureSendsNothing(t *testing.T) {
	t.Parallel()

	srv, reqs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {})
	client := NewFinanceClient(srv.URL, nil, &countingTokens{err: apperror.ErrUnauthenticated})

	err := client.DeleteTransaction(context.Background(), "t1")
	assert.True(t, errors.Is(err, apperror.ErrUnauthenticated))
	assert.Empty(t, *reqs)
}

func TestBlogClient(t *testing.T) {
	t.Parallel()

	srv, reqs := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`[{"_id":"b1","title":"Budgeting 101","content":"<p>Hi</p>","author":"Asha"}]`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	client := NewBlogClient(srv.URL+"/api/blogs", nil, &countingTokens{})

	blogs, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, "b1", blogs[0].ID)

	require.NoError(t, client.Create(context.Background(), model.BlogInput{Title: "T", Content: "C"}))

	require.Len(t, *reqs, 2)
	assert.Equal(t, "/api/blogs", (*reqs)[0].Path)
	assert.Empty(t, (*reqs)[0].Auth)
	assert.Equal(t, "Bearer token-1", (*reqs)[1].Auth)
	assert.JSONEq(t, `{"title":"T","content":"C"}`, string((*reqs)[1].Body))
}
