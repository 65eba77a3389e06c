package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/printly/storefront/internal/cart"
	"github.com/printly/storefront/pkg/httpclient"
	"github.com/printly/storefront/pkg/pagination"
)

// Doer abstracts the HTTP client so that a circuit-breaker wrapped client
// can be swapped in.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client talks to the product API. Reads are idempotent, so it is safe to
// sit behind a retrying client.
type Client struct {
	baseURL string
	http    Doer
}

// NewClient creates a product API client rooted at baseURL.
func NewClient(baseURL string, doer Doer) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    doer,
	}
}

// List fetches one page of the catalog.
func (c *Client) List(ctx context.Context, params pagination.Params) ([]cart.Product, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(params.Offset))
	q.Set("limit", strconv.Itoa(params.PerPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create products request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("product api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "product api")
	}

	var products []cart.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products response: %w", err)
	}
	return products, nil
}

// Get fetches one product by ID.
func (c *Client) Get(ctx context.Context, id string) (*cart.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/products/"+url.PathEscape(id), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create product request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("product api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "product api")
	}

	var product cart.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("decode product response: %w", err)
	}
	return &product, nil
}

// FilterByTag keeps products whose tag titles contain the given substring,
// case-insensitively. The upstream API has no tag query, so filtering
// happens here after the page is fetched.
func FilterByTag(products []cart.Product, tag string) []cart.Product {
	if tag == "" {
		return products
	}
	filtered := make([]cart.Product, 0, len(products))
	for _, p := range products {
		if p.HasTag(tag) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
