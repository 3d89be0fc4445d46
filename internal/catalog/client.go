package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const fetchTimeout = 5 * time.Second

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type Product struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Image  string  `json:"image"`
	Price  float64 `json:"price"`
	Rating Rating  `json:"rating"`
}

// Valid reports whether a fetched payload carries every required field.
// Incomplete payloads are treated as not-found.
func (p *Product) Valid() bool {
	return p.ID != 0 && p.Title != "" && p.Image != "" && p.Price != 0
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// FetchAll lists every catalog product. Transport failures and timeouts are
// absorbed: the fixed fallback set is returned instead, never an error.
func (c *Client) FetchAll(ctx context.Context) []Product {
	var products []Product
	if err := c.getJSON(ctx, c.baseURL+"/products", &products); err != nil {
		slog.Warn("catalog unavailable, serving fallback products", "error", err)
		return FallbackProducts()
	}
	return products
}

// FetchOne resolves a single product. It returns nil when the product cannot
// be confirmed: transport failure, timeout, non-2xx status or a payload with
// missing required fields. Callers on the favorites path must treat nil as
// "product not found".
func (c *Client) FetchOne(ctx context.Context, id int) *Product {
	var product Product
	if err := c.getJSON(ctx, fmt.Sprintf("%s/products/%d", c.baseURL, id), &product); err != nil {
		slog.Warn("catalog fetch failed", "product_id", id, "error", err)
		return nil
	}
	if !product.Valid() {
		slog.Warn("catalog returned incomplete product", "product_id", id)
		return nil
	}
	return &product
}

func (c *Client) getJSON(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog responded with status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
