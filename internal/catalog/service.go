package catalog

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-faster/errors"

	"github.com/ariefcatur/go-storefront/internal/events"
)

var errMalformed = errors.New("malformed remote response")

// Service answers catalog reads from the remote source and silently falls back
// to the local dataset when the remote cannot be used. One remote attempt is
// made per call.
type Service struct {
	source Source
	data   *Dataset
	cache  Cache
	events *events.Emitter
	log    *slog.Logger
}

type Option func(*Service)

func WithCache(c Cache) Option { return func(s *Service) { s.cache = c } }

func WithEvents(e *events.Emitter) Option { return func(s *Service) { s.events = e } }

func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.log = l } }

// NewService builds the service. A nil source runs the catalog offline on data.
func NewService(source Source, data *Dataset, opts ...Option) *Service {
	s := &Service{source: source, data: data, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	if s.data == nil {
		s.data = NewDataset(Seed())
	}
	return s
}

func (s *Service) Search(ctx context.Context, f Filters) Result[Page] {
	f = f.Normalize()
	return read(ctx, s, "search", SearchKey(f),
		func(ctx context.Context) (Page, error) {
			p, err := s.source.Search(ctx, f)
			if err == nil && (p.Docs == nil || p.Limit < 1 || p.Page < 1) {
				err = errMalformed
			}
			return p, err
		},
		func() (Page, error) { return s.data.Search(f), nil },
	)
}

func (s *Service) ByID(ctx context.Context, id string) Result[Product] {
	return read(ctx, s, "by_id", productKey(id),
		func(ctx context.Context) (Product, error) {
			p, err := s.source.Get(ctx, id)
			if err == nil && p.ID == "" {
				err = errMalformed
			}
			return p, err
		},
		func() (Product, error) {
			p, found, ok := s.data.Get(id)
			if !ok {
				return p, ErrEmptyDataset
			}
			if !found {
				s.log.Debug("unknown product id, substituting default", "id", id, "substitute", p.ID)
			}
			return p, nil
		},
	)
}

// Featured returns at most limit featured products. The remote has no
// featured endpoint, so the first remote page is filtered here.
func (s *Service) Featured(ctx context.Context, limit int) Result[[]Product] {
	if limit < 1 {
		limit = DefaultLimit
	}
	return read(ctx, s, "featured", featuredKey(limit),
		func(ctx context.Context) ([]Product, error) {
			p, err := s.source.Search(ctx, Filters{Order: OrderDESC, Page: 1, Limit: limit})
			if err != nil {
				return nil, err
			}
			if p.Docs == nil {
				return nil, errMalformed
			}
			out := make([]Product, 0, len(p.Docs))
			for _, d := range p.Docs {
				if d.Featured {
					out = append(out, d)
				}
			}
			return out, nil
		},
		func() ([]Product, error) { return s.data.Featured(limit), nil },
	)
}

// Random samples count products. Results are never cached.
func (s *Service) Random(ctx context.Context, count int) Result[[]Product] {
	if count < 0 {
		count = 0
	}
	return read(ctx, s, "random", "",
		func(ctx context.Context) ([]Product, error) {
			ps, err := s.source.Random(ctx, count)
			if err == nil && ps == nil {
				err = errMalformed
			}
			return ps, err
		},
		func() ([]Product, error) { return s.data.Random(count), nil },
	)
}

func (s *Service) Stats(ctx context.Context) Result[Stats] {
	return read(ctx, s, "stats", "",
		func(ctx context.Context) (Stats, error) { return s.source.Stats(ctx) },
		func() (Stats, error) { return s.data.Stats(), nil },
	)
}

func (s *Service) Categories(ctx context.Context) Result[[]string] {
	return read(ctx, s, "categories", "",
		func(ctx context.Context) ([]string, error) {
			cs, err := s.source.Categories(ctx)
			if err == nil && cs == nil {
				err = errMalformed
			}
			return cs, err
		},
		func() ([]string, error) { return s.data.Categories(), nil },
	)
}

// read runs the cache -> remote -> fallback chain. An empty key skips the cache.
func read[T any](ctx context.Context, s *Service, op, key string, fetch func(context.Context) (T, error), fallback func() (T, error)) Result[T] {
	if key != "" && s.cache != nil {
		if b, err := s.cache.Get(ctx, key); err == nil {
			var v T
			if err := json.Unmarshal(b, &v); err == nil {
				return Result[T]{Value: v, Origin: OriginCache}
			}
		}
	}

	remoteErr := ErrNoRemote
	if s.source != nil {
		v, err := fetch(ctx)
		if err == nil {
			if key != "" && s.cache != nil {
				s.store(ctx, key, v)
			}
			return Result[T]{Value: v, Origin: OriginRemote}
		}
		remoteErr = errors.Wrap(err, op)
		s.log.Warn("remote catalog unavailable, using fallback", "op", op, "err", err)
	}

	v, err := fallback()
	if err != nil {
		return Result[T]{Value: v, Origin: OriginFailed, Err: err}
	}
	return Result[T]{Value: v, Origin: OriginFallback, Err: remoteErr}
}

func (s *Service) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b); err != nil {
		s.log.Debug("catalog cache write failed", "key", key, "err", err)
	}
}

// Invalidate drops every cached catalog entry.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, CacheKeyPrefix); err != nil {
		s.log.Warn("catalog cache invalidation failed", "err", err)
	}
}
