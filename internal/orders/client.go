package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/printly/storefront/pkg/httpclient"
	"github.com/printly/storefront/pkg/pagination"
)

// Doer abstracts the HTTP client so that a circuit-breaker wrapped client
// can be swapped in.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client talks to the order API. Order creation is not idempotent, so the
// underlying HTTP client must never retry; wire it with a single-attempt
// configuration.
type Client struct {
	baseURL string
	http    Doer
}

// NewClient creates an order API client rooted at baseURL.
func NewClient(baseURL string, doer Doer) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
	}
}

// Create submits a new order. The payload's status is forced to PENDING;
// the order API owns all later transitions.
func (c *Client) Create(ctx context.Context, payload Payload) (*Order, error) {
	payload.Status = StatusPending

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("order api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, "order api")
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}
	return &order, nil
}

// List fetches a page of orders.
func (c *Client) List(ctx context.Context, params pagination.Params) ([]Order, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(params.Offset))
	q.Set("limit", strconv.Itoa(params.PerPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create orders request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("order api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "order api")
	}

	var list []Order
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode orders response: %w", err)
	}
	return list, nil
}
