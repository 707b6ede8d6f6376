package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/coinly/coinly/internal/model"
)

// FinanceClient talks to the Finance API. Every authenticated call mints its own token.
type FinanceClient struct {
	restClient
}

// NewFinanceClient creates a client rooted at baseURL (for example http://localhost:5000/api/finance).
// A nil httpClient uses http.DefaultClient, which has no request timeout.
func NewFinanceClient(baseURL string, httpClient *http.Client, tokens TokenSource) *FinanceClient {
	return &FinanceClient{restClient: newRESTClient(baseURL, httpClient, tokens)}
}

// Categories fetches the category taxonomy. It does not require authentication.
func (c *FinanceClient) Categories(ctx context.Context) (*model.Categories, error) {
	var cats model.Categories
	if err := c.do(ctx, http.MethodGet, "/categories", false, nil, &cats); err != nil {
		return nil, err
	}
	return &cats, nil
}

// Dashboard fetches the signed-in user's full profile.
func (c *FinanceClient) Dashboard(ctx context.Context) (*model.UserData, error) {
	var data model.UserData
	if err := c.do(ctx, http.MethodGet, "/dashboard", true, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Setup submits the first-time setup draft.
func (c *FinanceClient) Setup(ctx context.Context, draft model.SetupDraft) error {
	return c.do(ctx, http.MethodPost, "/setup", true, draft.Payload(), nil)
}

// CreateTransaction records a new transaction from the form.
func (c *FinanceClient) CreateTransaction(ctx context.Context, form model.TransactionForm) error {
	return c.do(ctx, http.MethodPost, "/transactions", true, form, nil)
}

// DeleteTransaction removes the transaction with id.
func (c *FinanceClient) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+url.PathEscape(id), true, nil, nil)
}
