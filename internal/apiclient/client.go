// Package apiclient contains thin REST clients for the Finance and Blog APIs.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/coinly/coinly/internal/apperror"
	"github.com/coinly/coinly/internal/logger"
)

// TokenSource mints a bearer token for a single request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// restClient holds the request plumbing shared by the Finance and Blog clients.
type restClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func newRESTClient(baseURL string, httpClient *http.Client, tokens TokenSource) restClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return restClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// do sends one request. When authed is set a fresh token is minted for it.
// A non-nil out receives the decoded JSON body; otherwise the body is discarded.
func (c restClient) do(ctx context.Context, method, path string, authed bool, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		if c.tokens == nil {
			return apperror.ErrUnauthenticated
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("minting token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.Transport(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		appErr := apperror.FromStatus(resp.StatusCode, statusText(resp.Status))
		logger.FromContext(ctx).Debug("api call failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return appErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// statusText strips the numeric code from "404 Not Found".
func statusText(status string) string {
	if _, text, ok := strings.Cut(status, " "); ok {
		return text
	}
	return status
}
