// Package gateway is the HTTP/JSON client for the account-of-record service.
// Deadlines, retries and circuit-breaking belong to the account service side
// of this boundary; the client only classifies failures.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bancario/transaction-service/internal/domain"
)

// Client talks to the account service under a fixed base URL, e.g.
// http://account-service:8080.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// GetByID fetches the full account snapshot.
func (c *Client) GetByID(ctx context.Context, accountID string) (domain.Account, error) {
	var account domain.Account
	err := c.do(ctx, http.MethodGet, "/accounts/"+accountID, nil, &account)
	return account, err
}

// GetByNumber fetches the full account snapshot by account number.
func (c *Client) GetByNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	var account domain.Account
	err := c.do(ctx, http.MethodGet, "/accounts/by-number/"+accountNumber, nil, &account)
	return account, err
}

// UpdateBalance replaces the whole account snapshot. Callers must always send
// every field; the account service treats the body as the new state.
func (c *Client) UpdateBalance(ctx context.Context, accountID string, snapshot domain.Account) (domain.Account, error) {
	var updated domain.Account
	err := c.do(ctx, http.MethodPut, "/accounts/"+accountID+"/update-balance", snapshot, &updated)
	return updated, err
}

// GetTransactionStatus fetches the lightweight pricing view.
func (c *Client) GetTransactionStatus(ctx context.Context, accountID string) (domain.PricingStatus, error) {
	var status domain.PricingStatus
	err := c.do(ctx, http.MethodGet, "/accounts/"+accountID+"/transaction-status", nil, &status)
	return status, err
}

// IncrementTransactionCounter bumps the monthly counter atomically on the
// account service. No response body.
func (c *Client) IncrementTransactionCounter(ctx context.Context, accountID string) error {
	return c.do(ctx, http.MethodPatch, "/accounts/"+accountID+"/increment-transactions", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return domain.Wrap(domain.KindInternal, err, "failed to marshal request for %s", path)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domain.Wrap(domain.KindInternal, err, "failed to build request for %s", path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Wrap(domain.KindServiceUnavailable, err, "account service unreachable on %s %s", method, path)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.E(domain.KindNotFound, "account service returned 404 for %s", path)
	case resp.StatusCode >= http.StatusInternalServerError:
		return domain.E(domain.KindServiceUnavailable, "account service returned %d for %s %s", resp.StatusCode, method, path)
	case resp.StatusCode >= http.StatusBadRequest:
		return domain.E(domain.KindValidation, "account service rejected %s %s with %d: %s",
			method, path, resp.StatusCode, readBody(resp.Body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.Wrap(domain.KindInternal, err, "failed to decode response from %s", path)
	}
	return nil
}

func readBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return fmt.Sprintf("<unreadable body: %v>", err)
	}
	return string(b)
}
