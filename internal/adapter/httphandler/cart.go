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

// GET    v1/cart (200 OK)
// POST   v1/cart/items JSON {"id" int} (201 Created, 400, 404, 409 Conflict)
// PATCH  v1/cart/items/{id} JSON {"quantity" int} (200 OK, 400)
// DELETE v1/cart/items/{id} (204 No content, 400)
// POST   v1/cart/open, v1/cart/close (204 No content)

type CartHandler struct {
	cart     port.CartOperator
	products port.ProductsProvider
}

func RegisterCart(
	mux *http.ServeMux,
	cart port.CartOperator,
	products port.ProductsProvider,
) {
	h := CartHandler{cart, products}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("PATCH /v1/cart/items/{id}", h.PatchItem)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.DeleteItem)
	mux.HandleFunc("POST /v1/cart/open", h.PostOpen)
	mux.HandleFunc("POST /v1/cart/close", h.PostClose)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	writeJSON(w, op, h.cartView())
}

// PostItem adds one unit of the referenced product. Stock is
// enforced here, not in the cart store: an out-of-stock product
// answers 409 and the cart stays unchanged.
func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var body AddCartItem
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	p, err := h.products.Product(body.ID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to read product", http.StatusInternalServerError)
		log.Error("failed to read product", "err", err)
		return
	}

	if !p.InStock {
		http.Error(w, "product is out of stock", http.StatusConflict)
		return
	}

	if err := h.cart.AddItem(r.Context(), p); err != nil {
		http.Error(w, "failed to add item", http.StatusInternalServerError)
		log.Error("failed to add item", "err", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(h.cartView()); err != nil {
		log.Error("failed to write response body", "err", err)
		return
	}
	log.Info("item added", "id", p.ID)
}

func (h CartHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PatchItem"
	log := slog.With("op", op)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	var body UpdateCartItem
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	if err := h.cart.UpdateQuantity(r.Context(), id, body.Quantity); err != nil {
		http.Error(w, "failed to update item", http.StatusInternalServerError)
		log.Error("failed to update item", "err", err)
		return
	}
	writeJSON(w, op, h.cartView())
}

func (h CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.DeleteItem"
	log := slog.With("op", op)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	if err := h.cart.RemoveItem(r.Context(), id); err != nil {
		http.Error(w, "failed to remove item", http.StatusInternalServerError)
		log.Error("failed to remove item", "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) PostOpen(w http.ResponseWriter, r *http.Request) {
	h.cart.OpenCart()
	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) PostClose(w http.ResponseWriter, r *http.Request) {
	h.cart.CloseCart()
	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) cartView() CartView {
	items := h.cart.Items()

	v := CartView{
		Items:      make([]CartItem, len(items)),
		TotalItems: h.cart.TotalItems(),
		Subtotal:   h.cart.Subtotal(),
		IsOpen:     h.cart.IsOpen(),
	}
	for i, it := range items {
		v.Items[i] = toCartItemView(it)
	}
	return v
}
