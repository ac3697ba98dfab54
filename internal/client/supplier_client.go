package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"commerce-platform/internal/config"
	"commerce-platform/internal/domain"
)

var (
	// ErrSupplierNotFound is returned when the supplier service answers 404.
	ErrSupplierNotFound = errors.New("supplier not found")
	// ErrUpstream covers every other non-2xx answer and transport failure.
	ErrUpstream = errors.New("supplier service request failed")
)

// SupplierClient fetches supplier records from the supplier service.
type SupplierClient interface {
	GetSupplier(ctx context.Context, id int64, token string) (*domain.Supplier, error)
}

type supplierClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSupplierClient creates a supplier client. The configured timeout bounds
// the single lookup attempt; there is no retry.
func NewSupplierClient(cfg config.SupplierConfig) SupplierClient {
	return &supplierClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// GetSupplier issues an authenticated GET for one supplier. The caller's
// bearer token is passed explicitly rather than read from ambient context.
func (c *supplierClient) GetSupplier(ctx context.Context, id int64, token string) (*domain.Supplier, error) {
	url := fmt.Sprintf("%s/api/proveedores/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build supplier request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrSupplierNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var supplier domain.Supplier
	if err := json.NewDecoder(resp.Body).Decode(&supplier); err != nil {
		return nil, fmt.Errorf("failed to decode supplier response: %w", err)
	}

	return &supplier, nil
}
