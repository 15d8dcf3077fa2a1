package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
)

type CartHandler struct {
	Carts    *cart.Registry
	Catalog  *catalog.Service
	Checkout *checkout.Service
	Log      *slog.Logger
}

type AddItemReq struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
}

func (h *CartHandler) Register(r chi.Router) {
	r.Get("/carts/{cartID}", h.get)
	r.Delete("/carts/{cartID}", h.clear)
	r.Post("/carts/{cartID}/items", h.addItem)
	r.Delete("/carts/{cartID}/items/{productID}", h.removeItem)
	r.Post("/carts/{cartID}/checkout", h.checkout)
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	c := h.Carts.Get(r.Context(), chi.URLParam(r, "cartID"))
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing productId"})
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	ctx, cancel := readCtx(r)
	defer cancel()

	res := h.Catalog.ByID(ctx, req.ProductID)
	w.Header().Set(HeaderCatalogSource, string(res.Origin))
	if res.Failed() {
		writeError(w, res.Err)
		return
	}

	cartID := chi.URLParam(r, "cartID")
	c := h.Carts.Get(ctx, cartID)
	err := c.Add(ctx, res.Value, qty)
	if errors.Is(err, cart.ErrQuantity) {
		writeError(w, err)
		return
	}
	h.warn(cartID, err)
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	c := h.Carts.Get(r.Context(), cartID)
	h.warn(cartID, c.Remove(r.Context(), chi.URLParam(r, "productID")))
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	c := h.Carts.Get(r.Context(), cartID)
	h.warn(cartID, c.Clear(r.Context()))
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (h *CartHandler) checkout(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	c := h.Carts.Get(r.Context(), cartID)
	writeJSON(w, http.StatusOK, h.Checkout.Checkout(cartID, c.Items()))
}

// warn logs a failed snapshot write; the in-memory cart stays authoritative.
func (h *CartHandler) warn(cartID string, err error) {
	if err != nil && h.Log != nil {
		h.Log.Warn("cart snapshot not persisted", "cart_id", cartID, "err", err)
	}
}
