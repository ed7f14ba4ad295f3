// Package service talks to the customer-analysis backend.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"customer-insights/internal/config"

	"github.com/google/uuid"
)

const (
	pathHealth   = "/health"
	pathLogin    = "/api/v1/auth/login"
	pathRegister = "/api/v1/auth/register"
	pathUpload   = "/api/v1/data-ingestion/upload-csv-excel/"
)

const msgNetwork = "Could not connect to the server. Check your connection."

// Backend is the API client. It holds no session; callers pass one to the
// privileged calls.
type Backend struct {
	baseURL string
	client  *http.Client
}

// NewBackend builds a client for cfg. A nil client gets a fresh one using
// cfg.Timeout.
func NewBackend(cfg config.BackendConfig, client *http.Client) *Backend {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Backend{baseURL: cfg.BaseURL, client: client}
}

func (b *Backend) BaseURL() string { return b.baseURL }

type response struct {
	status int
	body   []byte
}

func (r response) ok() bool { return r.status >= 200 && r.status < 300 }

func (b *Backend) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// do sends req and reads the whole body. Transport failures come back as a
// KindNetwork *Error.
func (b *Backend) do(op string, req *http.Request) (response, error) {
	resp, err := b.client.Do(req)
	if err != nil {
		slog.Warn("backend request failed", "op", op, "url", req.URL.String(), "request_id", req.Header.Get("X-Request-ID"), "err", err)
		return response{}, &Error{Kind: KindNetwork, Op: op, Message: msgNetwork, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, &Error{Kind: KindNetwork, Op: op, Message: msgNetwork, Err: fmt.Errorf("read body: %w", err)}
	}
	slog.Debug("backend response", "op", op, "status", resp.StatusCode, "bytes", len(data), "request_id", req.Header.Get("X-Request-ID"))
	return response{status: resp.StatusCode, body: data}, nil
}

// logBody keeps raw error bodies out of user messages but in the log.
func logBody(op string, r response) {
	slog.Warn("backend error body", "op", op, "status", r.status, "body", truncate(string(r.body), 512))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
