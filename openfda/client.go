// Package openfda provides a client for the FDA drug/NDC product registry.
// The primary path is the paginated openFDA JSON API; a bulk product-file
// download exists as a fallback for building the full NDC table when the
// API is unavailable.
package openfda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/logging"
)

// DefaultBaseURL is the public openFDA endpoint.
const DefaultBaseURL = "https://api.fda.gov"

// MaxPageSize is the largest page the API serves per request.
const MaxPageSize = 1000

// ActiveIngredient is one active ingredient of a product.
type ActiveIngredient struct {
	Name     string `json:"name"`
	Strength string `json:"strength"`
}

// Packaging is one package entry under a product.
type Packaging struct {
	PackageNDC string `json:"package_ndc"`
}

// Product is one product record from the NDC directory.
type Product struct {
	ProductNDC        string             `json:"product_ndc"`
	Packaging         []Packaging        `json:"packaging"`
	BrandName         string             `json:"brand_name"`
	GenericName       string             `json:"generic_name"`
	DosageForm        string             `json:"dosage_form"`
	Route             []string           `json:"route"`
	LabelerName       string             `json:"labeler_name"`
	ActiveIngredients []ActiveIngredient `json:"active_ingredients"`
	ProductType       string             `json:"product_type"`
}

// NDC returns the product's best identifier: the product NDC, falling back
// to the first package NDC.
func (p Product) NDC() string {
	if ndc := strings.TrimSpace(p.ProductNDC); ndc != "" {
		return ndc
	}
	if len(p.Packaging) > 0 {
		return strings.TrimSpace(p.Packaging[0].PackageNDC)
	}
	return ""
}

// Description builds the product's human-readable summary line:
// name - dosage form (route).
func (p Product) Description() string {
	desc := p.BrandName
	if desc == "" {
		desc = p.GenericName
	}
	if desc == "" {
		desc = "Unknown Product"
	}
	if p.DosageForm != "" {
		desc += " - " + p.DosageForm
	}
	if len(p.Route) > 0 {
		desc += " (" + strings.Join(p.Route, ", ") + ")"
	}
	return desc
}

// Client talks to the openFDA drug/ndc API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the given base URL. An empty baseURL uses
// the public openFDA endpoint.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type ndcResponse struct {
	Meta struct {
		Results struct {
			Total int `json:"total"`
		} `json:"results"`
	} `json:"meta"`
	Results []Product `json:"results"`
}

func (c *Client) fetch(ctx context.Context, skip, limit int) (*ndcResponse, error) {
	query := url.Values{
		"skip":  {strconv.Itoa(skip)},
		"limit": {strconv.Itoa(limit)},
	}
	u := c.baseURL + "/drug/ndc.json?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build NDC directory request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("NDC directory request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("NDC directory returned status %d", resp.StatusCode)
	}

	var decoded ndcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode NDC directory response: %w", err)
	}

	return &decoded, nil
}

// Products fetches one page of the NDC directory. limit is clamped to the
// API's per-request maximum.
func (c *Client) Products(ctx context.Context, skip, limit int) ([]Product, error) {
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	resp, err := c.fetch(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Total probes how many product records the directory currently holds.
func (c *Client) Total(ctx context.Context) (int, error) {
	resp, err := c.fetch(ctx, 0, 1)
	if err != nil {
		return 0, err
	}
	return resp.Meta.Results.Total, nil
}
