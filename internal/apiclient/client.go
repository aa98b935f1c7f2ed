// Package apiclient calls the accounting REST API: accounts, categories and
// transactions.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pkt.systems/pslog"
	"pkt.systems/tally/schema"
)

const defaultTimeout = 10 * time.Second

// Options tune a Client.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client is a typed client for the consumed endpoints.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// New returns a client for the API rooted at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return nil, errors.New("api base url is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("api base url %q has no host", baseURL)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: parsed, http: httpClient}, nil
}

// Accounts lists all accounts.
func (c *Client) Accounts(ctx context.Context) ([]schema.Account, error) {
	var out []schema.Account
	if err := c.list(ctx, "/api/accounts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAccount deletes the account with id and returns the server message.
func (c *Client) DeleteAccount(ctx context.Context, id int64) (string, error) {
	if err := schema.ValidateID(id); err != nil {
		return "", err
	}
	return c.mutate(ctx, http.MethodDelete, "/api/accounts/delete", schema.RecordRef{ID: id})
}

// Categories lists all categories.
func (c *Client) Categories(ctx context.Context) ([]schema.Category, error) {
	var out []schema.Category
	if err := c.list(ctx, "/api/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category. The server assigns the id.
func (c *Client) CreateCategory(ctx context.Context, input schema.CategoryInput) (string, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return "", fmt.Errorf("%w: category name is required", schema.ErrInvalidRequest)
	}
	input.ID = 0
	return c.mutate(ctx, http.MethodPost, "/api/categories/create", input)
}

// DeleteCategory deletes the category with id.
func (c *Client) DeleteCategory(ctx context.Context, id int64) (string, error) {
	if err := schema.ValidateID(id); err != nil {
		return "", err
	}
	return c.mutate(ctx, http.MethodDelete, "/api/categories/delete", schema.RecordRef{ID: id})
}

// Transactions lists all transactions.
func (c *Client) Transactions(ctx context.Context) ([]schema.Transaction, error) {
	var out []schema.Transaction
	if err := c.list(ctx, "/api/transactions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTransaction deletes the transaction with id.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) (string, error) {
	if err := schema.ValidateID(id); err != nil {
		return "", err
	}
	return c.mutate(ctx, http.MethodDelete, "/api/transactions/delete", schema.RecordRef{ID: id})
}

// Overview fetches the three lists concurrently. The first failure cancels
// the remaining requests.
func (c *Client) Overview(ctx context.Context) (schema.Overview, error) {
	var out schema.Overview
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := c.Accounts(ctx)
		out.Accounts = accounts
		return err
	})
	g.Go(func() error {
		categories, err := c.Categories(ctx)
		out.Categories = categories
		return err
	})
	g.Go(func() error {
		transactions, err := c.Transactions(ctx)
		out.Transactions = transactions
		return err
	})
	if err := g.Wait(); err != nil {
		return schema.Overview{}, err
	}
	return out, nil
}

func (c *Client) list(ctx context.Context, endpoint string, out any) error {
	status, body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return statusError(ctx, endpoint, status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) mutate(ctx context.Context, method, endpoint string, payload any) (string, error) {
	status, body, err := c.do(ctx, method, endpoint, payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", statusError(ctx, endpoint, status, body)
	}
	env, ok := parseEnvelope(body)
	if !ok {
		pslog.Ctx(ctx).Info("api request succeeded", "endpoint", endpoint, "body", string(body))
		return "", nil
	}
	pslog.Ctx(ctx).Info("api request succeeded", "endpoint", endpoint, "message", env.Success)
	return env.Success, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(data)
	}
	reqURL := *c.baseURL
	reqURL.Path = path.Join("/", reqURL.Path, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			pslog.Ctx(ctx).Error("api request failed", "endpoint", endpoint, "err", err)
		}
		return 0, nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer func() { _ = res.Body.Close() }()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read %s: %w", endpoint, err)
	}
	return res.StatusCode, data, nil
}
