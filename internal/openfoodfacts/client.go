// Package openfoodfacts talks to the OpenFoodFacts product database and
// normalizes its responses into the catalog's fixed detail shape.
//
// Both lookups distinguish two non-success outcomes: a transport-level
// failure (returned as a non-nil error) and a graceful "no result"
// (nil details, nil error) covering non-200 responses, undecodable bodies
// and empty result sets. Callers that don't care about the difference can
// treat both as absence; enrichment relies on it to report 502 vs 404.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"inventory-catalog-service/internal/config"
	"inventory-catalog-service/internal/domain"
)

// detailFields limits barcode lookups to the fields we actually store.
const detailFields = "product_name,brands,ingredients_text,image_url,quantity,categories_tags"

// searchPageSize bounds the candidate page pulled for a name search.
const searchPageSize = 25

// Lookuper is the lookup surface the catalog service depends on.
type Lookuper interface {
	FetchByBarcode(ctx context.Context, barcode string) (*domain.ExternalDetails, error)
	FetchByName(ctx context.Context, name string) (*domain.ExternalDetails, error)
}

// Client performs lookups against OpenFoodFacts.
type Client struct {
	productBaseURL string
	searchBaseURL  string
	httpClient     *http.Client
}

// NewClient creates a Client from the lookup configuration. The timeout
// bounds every outbound call; there are no retries.
func NewClient(cfg config.LookupConfig) *Client {
	return &Client{
		productBaseURL: strings.TrimRight(cfg.ProductBaseURL, "/"),
		searchBaseURL:  strings.TrimRight(cfg.SearchBaseURL, "/"),
		httpClient:     &http.Client{Timeout: cfg.Timeout},
	}
}

// externalProduct mirrors just the upstream fields we project; everything
// else in the payload is ignored by the decoder.
type externalProduct struct {
	ProductName     *string  `json:"product_name"`
	Brands          *string  `json:"brands"`
	IngredientsText *string  `json:"ingredients_text"`
	ImageURL        *string  `json:"image_url"`
	Quantity        *string  `json:"quantity"`
	CategoriesTags  []string `json:"categories_tags"`
}

func (p *externalProduct) toDetails() *domain.ExternalDetails {
	return &domain.ExternalDetails{
		ProductName:     p.ProductName,
		Brands:          p.Brands,
		IngredientsText: p.IngredientsText,
		ImageURL:        p.ImageURL,
		Quantity:        p.Quantity,
		CategoriesTags:  p.CategoriesTags,
	}
}

// FetchByBarcode looks up a product by its exact barcode.
func (c *Client) FetchByBarcode(ctx context.Context, barcode string) (*domain.ExternalDetails, error) {
	u := fmt.Sprintf("%s/product/%s?fields=%s", c.productBaseURL, url.PathEscape(barcode), detailFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("openfoodfacts: building barcode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openfoodfacts: barcode lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithFields(log.Fields{"barcode": barcode, "status": resp.StatusCode}).Debug("barcode lookup returned non-200")
		return nil, nil
	}

	var payload struct {
		Product *externalProduct `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.WithError(err).WithField("barcode", barcode).Debug("barcode lookup body not decodable")
		return nil, nil
	}
	if payload.Product == nil {
		return nil, nil
	}

	return payload.Product.toDetails(), nil
}

// FetchByName runs a keyword search and picks the best candidate.
//
// Selection policy, in order: skip candidates with blank names; take the
// first whose name contains the query as a case-insensitive substring;
// otherwise fall back to the first candidate that has a name at all.
func (c *Client) FetchByName(ctx context.Context, name string) (*domain.ExternalDetails, error) {
	// The v2 search endpoint is flaky for plain keyword queries, so we use
	// the classic CGI one.
	params := url.Values{
		"search_terms":  {name},
		"search_simple": {"1"},
		"action":        {"process"},
		"json":          {"1"},
		"page_size":     {fmt.Sprint(searchPageSize)},
	}
	u := fmt.Sprintf("%s/cgi/search.pl?%s", c.searchBaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("openfoodfacts: building search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openfoodfacts: name search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithFields(log.Fields{"name": name, "status": resp.StatusCode}).Debug("name search returned non-200")
		return nil, nil
	}

	var payload struct {
		Products []externalProduct `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.WithError(err).WithField("name", name).Debug("name search body not decodable")
		return nil, nil
	}

	best := selectCandidate(payload.Products, name)
	if best == nil {
		return nil, nil
	}
	return best.toDetails(), nil
}

// selectCandidate applies the name-search selection policy over a candidate
// page. Returns nil when no candidate has a non-blank name.
func selectCandidate(candidates []externalProduct, query string) *externalProduct {
	q := strings.ToLower(strings.TrimSpace(query))

	var best *externalProduct
	for i := range candidates {
		cand := &candidates[i]
		pname := ""
		if cand.ProductName != nil {
			pname = strings.TrimSpace(*cand.ProductName)
		}
		if pname == "" {
			continue
		}
		if q != "" && strings.Contains(strings.ToLower(pname), q) {
			return cand
		}
		if best == nil {
			best = cand
		}
	}
	return best
}
