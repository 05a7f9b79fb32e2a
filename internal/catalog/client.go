// Package catalog fetches the product list from the remote catalog
// service. The service is read-only and unauthenticated; any non-2xx
// status, transport failure or parse failure surfaces as *NetworkError.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Product is a single catalog record. Price and image are optional in
// the upstream payload; the renderer substitutes fallbacks when absent.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

// productWire mirrors the upstream JSON, which identifies records by
// either "_id" or "id" depending on the backing store.
type productWire struct {
	MongoID     string   `json:"_id"`
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
}

// UnmarshalJSON accepts both identifier spellings.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw productWire
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id := raw.ID
	if id == "" {
		id = raw.MongoID
	}
	*p = Product{
		ID:          id,
		Name:        raw.Name,
		Description: raw.Description,
		Price:       raw.Price,
		ImageURL:    raw.ImageURL,
	}
	return nil
}

// NetworkError reports a failed catalog fetch. Status is zero for
// transport and decode failures.
type NetworkError struct {
	Status  int
	Message string
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog request failed: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("catalog request failed: %s", e.Message)
}

// Client is an HTTP client for the catalog service.
type Client struct {
	endpoint string
	http     *http.Client
	logger   zerolog.Logger
}

// NewClient creates a catalog client against the given endpoint.
func NewClient(endpoint string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// FetchProducts performs a single GET against the catalog endpoint.
// No retries; the caller decides whether and when to try again.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &NetworkError{Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &NetworkError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, &NetworkError{Message: fmt.Sprintf("decode response: %v", err)}
	}

	c.logger.Debug().
		Int("count", len(products)).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("Fetched product catalog")

	return products, nil
}
