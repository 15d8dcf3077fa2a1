package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-storefront/internal/catalog"
)

type CatalogHandler struct {
	Catalog *catalog.Service
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/products", h.search)
	r.Get("/products/featured", h.featured)
	r.Get("/products/random/{count}", h.random)
	r.Get("/products/stats", h.stats)
	r.Get("/products/{id}", h.byID)
	r.Get("/categories", h.categories)

	r.Post("/products", h.create)
	r.Patch("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
}

// ParseFilters reads the catalog filters from a query string. Values that do
// not parse are ignored and fall back to their defaults.
func ParseFilters(q url.Values) catalog.Filters {
	f := catalog.Filters{
		Q:        strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
		Order:    catalog.Order(strings.ToUpper(q.Get("order"))),
		Page:     atoi(q.Get("page")),
		Limit:    atoi(q.Get("limit")),
		MinPrice: price(q.Get("minPrice")),
		MaxPrice: price(q.Get("maxPrice")),
	}
	return f.Normalize()
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func price(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func readCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}

func (h *CatalogHandler) search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := readCtx(r)
	defer cancel()
	writeResult(w, http.StatusOK, h.Catalog.Search(ctx, ParseFilters(r.URL.Query())))
}

func (h *CatalogHandler) featured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := readCtx(r)
	defer cancel()
	writeResult(w, http.StatusOK, h.Catalog.Featured(ctx, atoi(r.URL.Query().Get("limit"))))
}

func (h *CatalogHandler) random(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(chi.URLParam(r, "count"))
	if err != nil || count < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid count"})
		return
	}
	ctx, cancel := readCtx(r)
	defer cancel()
	writeResult(w, http.StatusOK, h.Catalog.Random(ctx, count))
}

func (h *CatalogHandler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := readCtx(r)
	defer cancel()
	writeResult(w, http.StatusOK, h.Catalog.Stats(ctx))
}

func (h *CatalogHandler) byID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := readCtx(r)
	defer cancel()
	writeResult(w, http.StatusOK, h.Catalog.ByID(ctx, chi.URLParam(r, "id")))
}

func (h *CatalogHandler) categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := readCtx(r)
	defer cancel()
	writeResult(w, http.StatusOK, h.Catalog.Categories(ctx))
}

func (h *CatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := readCtx(r)
	defer cancel()
	writeResult(w, http.StatusCreated, h.Catalog.Create(ctx, in))
}

func (h *CatalogHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch catalog.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := readCtx(r)
	defer cancel()
	writeResult(w, http.StatusOK, h.Catalog.Update(ctx, chi.URLParam(r, "id"), patch))
}

func (h *CatalogHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := readCtx(r)
	defer cancel()
	res := h.Catalog.Delete(ctx, chi.URLParam(r, "id"))
	w.Header().Set(HeaderCatalogSource, string(res.Origin))
	if res.Failed() {
		writeError(w, res.Err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
