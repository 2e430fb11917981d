package openfoodfacts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-catalog-service/internal/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.LookupConfig{
		ProductBaseURL: serverURL,
		SearchBaseURL:  serverURL,
		Timeout:        2 * time.Second,
	})
}

func TestFetchByBarcode_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product/3017624010701", r.URL.Path)
		assert.Equal(t, detailFields, r.URL.Query().Get("fields"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": "3017624010701",
			"status": 1,
			"product": {
				"product_name": "Nutella",
				"brands": "Ferrero",
				"ingredients_text": "Sugar, palm oil, hazelnuts",
				"image_url": "https://images.example/nutella.jpg",
				"quantity": "400 g",
				"categories_tags": ["en:spreads", "en:hazelnut-spreads"],
				"nutriscore_grade": "e",
				"ecoscore_data": {"irrelevant": true}
			}
		}`))
	}))
	defer server.Close()

	details, err := newTestClient(server.URL).FetchByBarcode(context.Background(), "3017624010701")
	require.NoError(t, err)
	require.NotNil(t, details)

	require.NotNil(t, details.ProductName)
	assert.Equal(t, "Nutella", *details.ProductName)
	require.NotNil(t, details.Brands)
	assert.Equal(t, "Ferrero", *details.Brands)
	require.NotNil(t, details.Quantity)
	assert.Equal(t, "400 g", *details.Quantity)
	assert.Equal(t, []string{"en:spreads", "en:hazelnut-spreads"}, details.CategoriesTags)

	// Upstream extras never leak past the normalized projection.
	m := details.AsMap()
	assert.Len(t, m, 6)
	assert.NotContains(t, m, "nutriscore_grade")
}

func TestFetchByBarcode_Non200IsNoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":0}`, http.StatusNotFound)
	}))
	defer server.Close()

	details, err := newTestClient(server.URL).FetchByBarcode(context.Background(), "000")
	require.NoError(t, err)
	assert.Nil(t, details)
}

func TestFetchByBarcode_MissingProductIsNoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 0, "status_verbose": "product not found"}`))
	}))
	defer server.Close()

	details, err := newTestClient(server.URL).FetchByBarcode(context.Background(), "000")
	require.NoError(t, err)
	assert.Nil(t, details)
}

func TestFetchByBarcode_MalformedBodyIsNoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer server.Close()

	details, err := newTestClient(server.URL).FetchByBarcode(context.Background(), "000")
	require.NoError(t, err)
	assert.Nil(t, details)
}

func TestFetchByBarcode_TransportFailureIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	details, err := newTestClient(server.URL).FetchByBarcode(context.Background(), "000")
	assert.Error(t, err)
	assert.Nil(t, details)
}

func TestFetchByName_SendsSearchParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cgi/search.pl", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "chocolate", q.Get("search_terms"))
		assert.Equal(t, "1", q.Get("search_simple"))
		assert.Equal(t, "process", q.Get("action"))
		assert.Equal(t, "1", q.Get("json"))
		assert.Equal(t, "25", q.Get("page_size"))

		w.Write([]byte(`{"products": [{"product_name": "Milk Chocolate"}]}`))
	}))
	defer server.Close()

	details, err := newTestClient(server.URL).FetchByName(context.Background(), "chocolate")
	require.NoError(t, err)
	require.NotNil(t, details)
	assert.Equal(t, "Milk Chocolate", *details.ProductName)
}

func TestFetchByName_TransportFailureIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	details, err := newTestClient(server.URL).FetchByName(context.Background(), "anything")
	assert.Error(t, err)
	assert.Nil(t, details)
}

func TestSelectCandidate(t *testing.T) {
	name := func(s string) externalProduct { return externalProduct{ProductName: &s} }
	blank := externalProduct{}

	tests := []struct {
		testName   string
		candidates []externalProduct
		query      string
		want       string // "" means no selection
	}{
		{
			testName:   "substring match preferred",
			candidates: []externalProduct{name("Milk Chocolate"), name("Dark Chocolate Bar")},
			query:      "chocolate",
			want:       "Milk Chocolate",
		},
		{
			testName:   "case-insensitive substring",
			candidates: []externalProduct{name("dark roast"), name("NUTELLA Spread")},
			query:      "nutella",
			want:       "NUTELLA Spread",
		},
		{
			testName:   "no substring falls back to first named",
			candidates: []externalProduct{name("Apple Pie")},
			query:      "xyz",
			want:       "Apple Pie",
		},
		{
			testName:   "blank names skipped before matching",
			candidates: []externalProduct{blank, name("   "), name("Granola")},
			query:      "granola",
			want:       "Granola",
		},
		{
			testName:   "blank names skipped for fallback too",
			candidates: []externalProduct{blank, name("Rice Cakes")},
			query:      "zzz",
			want:       "Rice Cakes",
		},
		{
			testName:   "all blank yields nothing",
			candidates: []externalProduct{blank, name("  ")},
			query:      "milk",
			want:       "",
		},
		{
			testName:   "empty candidate list yields nothing",
			candidates: nil,
			query:      "milk",
			want:       "",
		},
		{
			testName:   "query trimmed before matching",
			candidates: []externalProduct{name("Oat Milk")},
			query:      "  oat milk  ",
			want:       "Oat Milk",
		},
	}

	for _, tc := range tests {
		t.Run(tc.testName, func(t *testing.T) {
			got := selectCandidate(tc.candidates, tc.query)
			if tc.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.NotNil(t, got.ProductName)
			assert.Equal(t, tc.want, *got.ProductName)
		})
	}
}

func TestFetchByName_EmptyProductsIsNoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products": []}`))
	}))
	defer server.Close()

	details, err := newTestClient(server.URL).FetchByName(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Nil(t, details)
}
