package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/toyverse/storefront/internal/core/domain"
	"github.com/toyverse/storefront/internal/core/port"
)

// GET v1/products?query=&category= (200 OK)
// GET v1/products/featured (200 OK)
// GET v1/products/trending (200 OK, 204 No content)
// GET v1/products/{id} (200 OK, 400 Bad request, 404 Not found)
// GET v1/categories (200 OK)

type ProductsHandler struct {
	provider port.ProductsProvider
}

func RegisterProducts(mux *http.ServeMux, provider port.ProductsProvider) {
	h := ProductsHandler{provider}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/featured", h.GetFeatured)
	mux.HandleFunc("GET /v1/products/trending", h.GetTrending)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/categories", h.GetCategories)
}

func (h ProductsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProducts"

	query := r.URL.Query().Get("query")
	category := r.URL.Query().Get("category")

	ps := h.provider.FilterProducts(query, category)
	writeJSON(w, op, toProductViews(ps))
}

func (h ProductsHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetFeatured"

	ps := h.provider.FeaturedProducts()
	writeJSON(w, op, toProductViews(ps))
}

func (h ProductsHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetTrending"
	log := slog.With("op", op)

	ps, err := h.provider.TrendingProducts(r.Context())
	if err != nil {
		http.Error(w, "trending unavailable", http.StatusServiceUnavailable)
		log.Error("failed to read activity", "err", err)
		return
	}

	if len(ps) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, op, toProductViews(ps))
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"
	log := slog.With("op", op)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	p, err := h.provider.Product(id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to read product", http.StatusInternalServerError)
		log.Error("failed to read product", "err", err)
		return
	}
	writeJSON(w, op, toProductView(p))
}

func (h ProductsHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetCategories"
	writeJSON(w, op, h.provider.Categories())
}

func writeJSON(w http.ResponseWriter, op string, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}
