// internal/domain/region/client.go
package region

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/your-org/storefront-api/internal/config"
)

// Region is one administrative area at any level
type Region struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Client looks up Indonesian administrative regions from the external
// regions API: provinces, regencies, districts and villages by parent code.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a region lookup client
func NewClient(cfg *config.RegionsConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.BaseURL,
	}
}

type listResponse struct {
	Data []Region `json:"data"`
}

func (c *Client) fetch(ctx context.Context, path string) ([]Region, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("region lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("region API returned status %d", resp.StatusCode)
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode region response: %w", err)
	}
	return list.Data, nil
}

// Provinces lists all provinces
func (c *Client) Provinces(ctx context.Context) ([]Region, error) {
	return c.fetch(ctx, "/provinces.json")
}

// Regencies lists the regencies of a province
func (c *Client) Regencies(ctx context.Context, provinceCode string) ([]Region, error) {
	if provinceCode == "" {
		return nil, fmt.Errorf("province code is required")
	}
	return c.fetch(ctx, fmt.Sprintf("/regencies/%s.json", provinceCode))
}

// Districts lists the districts of a regency
func (c *Client) Districts(ctx context.Context, regencyCode string) ([]Region, error) {
	if regencyCode == "" {
		return nil, fmt.Errorf("regency code is required")
	}
	return c.fetch(ctx, fmt.Sprintf("/districts/%s.json", regencyCode))
}

// Villages lists the villages of a district, with postal codes when the
// API provides them.
func (c *Client) Villages(ctx context.Context, districtCode string) ([]Region, error) {
	if districtCode == "" {
		return nil, fmt.Errorf("district code is required")
	}
	return c.fetch(ctx, fmt.Sprintf("/villages/%s.json", districtCode))
}
