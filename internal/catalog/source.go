package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ariefcatur/go-storefront/internal/remote"
)

// Source is the remote catalog.
type Source interface {
	Search(ctx context.Context, f Filters) (Page, error)
	Get(ctx context.Context, id string) (Product, error)
	Random(ctx context.Context, count int) ([]Product, error)
	Stats(ctx context.Context) (Stats, error)
	Categories(ctx context.Context) ([]string, error)

	Create(ctx context.Context, in ProductInput) (Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (Product, error)
	Delete(ctx context.Context, id string) error
}

// HTTPSource talks to the remote /api/product endpoints.
type HTTPSource struct {
	c *remote.Client
}

func NewHTTPSource(c *remote.Client) *HTTPSource {
	return &HTTPSource{c: c}
}

func (s *HTTPSource) Search(ctx context.Context, f Filters) (Page, error) {
	var p Page
	err := s.c.Get(ctx, "/api/product", f.Values(), &p)
	return p, err
}

func (s *HTTPSource) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	err := s.c.Get(ctx, "/api/product/"+url.PathEscape(id), nil, &p)
	return p, err
}

func (s *HTTPSource) Random(ctx context.Context, count int) ([]Product, error) {
	var ps []Product
	err := s.c.Get(ctx, "/api/product/random/"+strconv.Itoa(count), nil, &ps)
	return ps, err
}

func (s *HTTPSource) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.c.Get(ctx, "/api/product/stats", nil, &st)
	return st, err
}

func (s *HTTPSource) Categories(ctx context.Context) ([]string, error) {
	var cs []string
	err := s.c.Get(ctx, "/api/categories", nil, &cs)
	return cs, err
}

func (s *HTTPSource) Create(ctx context.Context, in ProductInput) (Product, error) {
	var p Product
	err := s.c.Do(ctx, http.MethodPost, "/api/product", in, &p)
	return p, err
}

func (s *HTTPSource) Update(ctx context.Context, id string, patch ProductPatch) (Product, error) {
	var p Product
	err := s.c.Do(ctx, http.MethodPatch, "/api/product/"+url.PathEscape(id), patch, &p)
	return p, err
}

func (s *HTTPSource) Delete(ctx context.Context, id string) error {
	return s.c.Do(ctx, http.MethodDelete, "/api/product/"+url.PathEscape(id), nil, nil)
}
