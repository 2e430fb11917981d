package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"inventory-catalog-service/internal/catalog"
	"inventory-catalog-service/internal/domain"
	"inventory-catalog-service/internal/store"
)

// CatalogService is the service surface the HTTP handlers depend on.
type CatalogService interface {
	List(ctx context.Context) []domain.Product
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, patch store.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, barcode, name string) (*domain.ExternalDetails, error)
	Enrich(ctx context.Context, id int64) (*domain.Product, error)
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	service  CatalogService
	validate *validator.Validate
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(service CatalogService) *HTTPHandler {
	return &HTTPHandler{
		service:  service,
		validate: validator.New(),
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.WithError(err).Error("failed to encode JSON response")
		}
	}
}

// --- Handlers ---

func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.service.List(r.Context())
	respondWithJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	product, err := h.service.Get(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
		} else {
			log.WithError(err).WithField("id", productID).Error("get product failed")
			respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		}
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

// ProductCreateInput defines the expected input for creating a product.
// Price and stock are pointers so "omitted" (defaults to 0) can be told
// apart from an explicit zero; negatives are rejected.
type ProductCreateInput struct {
	Name    string                 `json:"name" validate:"required,max=255"`
	Barcode *string                `json:"barcode" validate:"omitempty,max=64"`
	Price   *float64               `json:"price" validate:"omitempty,gte=0"`
	Stock   *int                   `json:"stock" validate:"omitempty,gte=0"`
	Details map[string]interface{} `json:"details"`
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			respondWithError(w, http.StatusBadRequest, "No input data provided")
		} else {
			respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		}
		return
	}
	defer r.Body.Close()

	if input.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Product name is required")
		return
	}
	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	product := &domain.Product{
		Name:    input.Name,
		Barcode: input.Barcode,
		Details: input.Details,
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if product.Details == nil {
		product.Details = map[string]interface{}{}
	}

	created, err := h.service.Create(r.Context(), product)
	if err != nil {
		if errors.Is(err, store.ErrNameRequired) {
			respondWithError(w, http.StatusBadRequest, "Product name is required")
		} else {
			log.WithError(err).Error("create product failed")
			respondWithError(w, http.StatusInternalServerError, "Failed to create product")
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// ProductUpdateInput defines the expected input for a partial update.
// Only fields present in the body are applied; unrecognized fields are
// ignored silently.
type ProductUpdateInput struct {
	Name    *string                 `json:"name" validate:"omitempty,min=1,max=255"`
	Barcode *string                 `json:"barcode" validate:"omitempty,max=64"`
	Price   *float64                `json:"price" validate:"omitempty,gte=0"`
	Stock   *int                    `json:"stock" validate:"omitempty,gte=0"`
	Details *map[string]interface{} `json:"details"`
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	var input ProductUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			respondWithError(w, http.StatusBadRequest, "No input data provided")
		} else {
			respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		}
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	patch := store.ProductPatch{
		Name:    input.Name,
		Price:   input.Price,
		Stock:   input.Stock,
		Details: input.Details,
	}
	if input.Barcode != nil {
		patch.Barcode = &input.Barcode
	}
	if patch.IsZero() {
		respondWithError(w, http.StatusBadRequest, "Provide at least one field to update")
		return
	}

	updated, err := h.service.Update(r.Context(), productID, patch)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
		} else {
			log.WithError(err).WithField("id", productID).Error("update product failed")
			respondWithError(w, http.StatusInternalServerError, "Failed to update product")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), productID); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Product not found")
		} else {
			log.WithError(err).WithField("id", productID).Error("delete product failed")
			respondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// SearchProducts performs an external lookup only; nothing is persisted.
func (h *HTTPHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	barcode := r.URL.Query().Get("barcode")
	name := r.URL.Query().Get("name")

	details, err := h.service.Search(r.Context(), barcode, name)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrSearchParams):
			respondWithError(w, http.StatusBadRequest, "Provide a barcode or a name to search")
		case errors.Is(err, catalog.ErrExternalNotFound):
			respondWithError(w, http.StatusNotFound, "No external product found")
		default:
			log.WithError(err).Error("search failed")
			respondWithError(w, http.StatusInternalServerError, "Search failed")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, details)
}

func (h *HTTPHandler) EnrichProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(w, r)
	if !ok {
		return
	}

	product, err := h.service.Enrich(r.Context(), productID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			respondWithError(w, http.StatusNotFound, "Product not found")
		case errors.Is(err, catalog.ErrBarcodeMissing):
			respondWithError(w, http.StatusBadRequest, "Product has no barcode to enrich with")
		case errors.Is(err, catalog.ErrExternalNotFound):
			respondWithError(w, http.StatusNotFound, "No external product found for barcode")
		case errors.Is(err, catalog.ErrExternalUnavailable):
			respondWithError(w, http.StatusBadGateway, "External product lookup failed")
		default:
			log.WithError(err).WithField("id", productID).Error("enrich product failed")
			respondWithError(w, http.StatusInternalServerError, "Failed to enrich product")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, product)
}

func parseProductID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "productID")
	productID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || productID <= 0 {
		respondWithError(w, http.StatusNotFound, "Product not found")
		return 0, false
	}
	return productID, true
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		// Registered before the {productID} subtree so "search" is not
		// treated as an id.
		r.Get("/search", h.SearchProducts)

		r.Route("/{productID}", func(r chi.Router) {
			r.Get("/", h.GetProductByID)
			r.Patch("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
			r.Patch("/enrich", h.EnrichProduct)
		})
	})
}
