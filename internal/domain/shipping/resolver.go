// internal/domain/shipping/resolver.go
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-api/internal/config"
)

// FallbackStore supplies static rates when the live API cannot
type FallbackStore interface {
	StaticRates(carriers []string) ([]StaticRate, error)
}

// Resolver looks up shipping rates from the external rates API and falls
// back to the static rate table. Resolve never returns an error for live
// lookup failures: a degraded answer beats a blocked checkout.
type Resolver struct {
	httpClient *http.Client
	config     *config.ShippingConfig
	store      FallbackStore
	logger     *logrus.Logger
}

// NewResolver creates a shipping rate resolver
func NewResolver(cfg *config.ShippingConfig, store FallbackStore, logger *logrus.Logger) *Resolver {
	return &Resolver{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		config:     cfg,
		store:      store,
		logger:     logger,
	}
}

// NormalizeCarrierKey canonicalizes a carrier name for matching: the
// trailing "Express" suffix is dropped and the result lowercased, so
// "JNE Express" and "jne" compare equal.
func NormalizeCarrierKey(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, "Express")
	name = strings.TrimSuffix(name, "express")
	return strings.ToLower(strings.TrimSpace(name))
}

// apiRateRequest mirrors the rates API request body
type apiRateRequest struct {
	OriginAreaID      string    `json:"origin_area_id,omitempty"`
	DestinationAreaID string    `json:"destination_area_id,omitempty"`
	DestinationPostal string    `json:"destination_postal_code,omitempty"`
	Couriers          string    `json:"couriers"`
	Items             []apiItem `json:"items"`
}

type apiItem struct {
	Name     string `json:"name,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
	Value    int64  `json:"value,omitempty"`
	Weight   int    `json:"weight"`
}

// apiRateResponse mirrors the rates API response body
type apiRateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Pricing []struct {
		Company            string `json:"company"`
		CourierServiceName string `json:"courier_service_name"`
		Price              int64  `json:"price"`
	} `json:"pricing"`
}

// Resolve returns one rate per requested carrier: the cheapest live quote
// whose company matches the carrier, or the static rate when no live quote
// is available.
func (r *Resolver) Resolve(ctx context.Context, req *RateRequest) ([]Rate, error) {
	if len(req.Carriers) == 0 {
		return nil, fmt.Errorf("at least one carrier is required")
	}

	live, err := r.fetchLiveRates(ctx, req)
	if err != nil {
		r.logger.WithError(err).Warn("live rate lookup failed, using static rates")
		live = nil
	}

	rates := make([]Rate, 0, len(req.Carriers))
	missing := make([]string, 0)

	for _, carrier := range req.Carriers {
		if rate, ok := cheapestMatch(live, carrier); ok {
			rates = append(rates, rate)
		} else {
			missing = append(missing, carrier)
		}
	}

	if len(missing) > 0 {
		fallback, err := r.store.StaticRates(missing)
		if err != nil {
			r.logger.WithError(err).Error("static rate lookup failed")
		} else {
			for _, sr := range fallback {
				rates = append(rates, Rate{
					Carrier:  sr.Carrier,
					Label:    sr.Label,
					Price:    sr.Price,
					Fallback: true,
				})
			}
		}
	}

	return rates, nil
}

// cheapestMatch finds the lowest-priced live quote whose company contains
// the normalized carrier key, case-insensitively.
func cheapestMatch(live *apiRateResponse, carrier string) (Rate, bool) {
	if live == nil {
		return Rate{}, false
	}

	key := NormalizeCarrierKey(carrier)
	if key == "" {
		return Rate{}, false
	}

	var best Rate
	found := false
	for _, p := range live.Pricing {
		if !strings.Contains(strings.ToLower(p.Company), key) {
			continue
		}
		if !found || p.Price < best.Price {
			best = Rate{
				Carrier: key,
				Label:   p.Company,
				Service: p.CourierServiceName,
				Price:   p.Price,
			}
			found = true
		}
	}

	return best, found
}

// buildItems maps the request's parcel lines for the rates API, keeping
// name, quantity and declared value per line. Requests without line detail
// fall back to a single aggregate-weight item.
func buildItems(req *RateRequest) []apiItem {
	if len(req.Items) > 0 {
		items := make([]apiItem, len(req.Items))
		for i, it := range req.Items {
			weight := it.Weight
			if weight <= 0 {
				weight = 200
			}
			items[i] = apiItem{
				Name:     it.Name,
				Quantity: it.Quantity,
				Value:    it.Value,
				Weight:   weight,
			}
		}
		return items
	}

	weight := req.WeightGrams
	if weight <= 0 {
		weight = 200
	}
	return []apiItem{{Weight: weight}}
}

func (r *Resolver) fetchLiveRates(ctx context.Context, req *RateRequest) (*apiRateResponse, error) {
	couriers := make([]string, len(req.Carriers))
	for i, c := range req.Carriers {
		couriers[i] = NormalizeCarrierKey(c)
	}

	body := apiRateRequest{
		OriginAreaID:      req.OriginAreaID,
		DestinationAreaID: req.DestinationAreaID,
		DestinationPostal: req.PostalCode,
		Couriers:          strings.Join(couriers, ","),
		Items:             buildItems(req),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.config.RatesURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", r.config.APIKey)

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("rates API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates API returned status %d", resp.StatusCode)
	}

	var apiResp apiRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}

	if !apiResp.Success && len(apiResp.Pricing) == 0 {
		return nil, fmt.Errorf("rates API error: %s", apiResp.Message)
	}

	return &apiResp, nil
}
