package apiclient

import (
	"context"
	"net/http"

	"github.com/coinly/coinly/internal/model"
)

// BlogClient talks to the Blog API.
type BlogClient struct {
	restClient
}

func NewBlogClient(baseURL string, httpClient *http.Client, tokens TokenSource) *BlogClient {
	return &BlogClient{restClient: newRESTClient(baseURL, httpClient, tokens)}
}

// List fetches all posts. It does not require authentication.
func (c *BlogClient) List(ctx context.Context) ([]model.Blog, error) {
	var blogs []model.Blog
	if err := c.do(ctx, http.MethodGet, "", false, nil, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// Create publishes a post as the signed-in user.
func (c *BlogClient) Create(ctx context.Context, input model.BlogInput) error {
	return c.do(ctx, http.MethodPost, "", true, input, nil)
}
