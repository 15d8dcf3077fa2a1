// Package invalidator drops cached catalog responses when a product changes.
package invalidator

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-faster/errors"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/events"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
)

type Purger interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

type Deduper interface {
	Seen(ctx context.Context, id string) (bool, error)
	Mark(ctx context.Context, id string) error
}

type Service struct {
	Cache Purger
	Dedup Deduper
	Log   *slog.Logger
}

// HandleProductChanged is installed as the consumer handler. An event is
// marked as processed only after the purge succeeded; a failed purge returns
// an error and the consumer retries it before committing the offset.
func (s *Service) HandleProductChanged(ctx context.Context, m kafkago.Message) error {
	// 1) decode envelope
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		s.Log.Warn("skip undecodable event", "offset", m.Offset, "err", err)
		return nil
	}
	if env.EventType != events.EventProductChanged {
		return nil
	}

	// 2) dedup via Redis (event_id)
	if seen, err := s.Dedup.Seen(ctx, env.EventID); err != nil {
		s.Log.Warn("dedup lookup failed, purging anyway", "event_id", env.EventID, "err", err)
	} else if seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[events.ProductChangedPayload](env.Payload)
	if err != nil {
		s.Log.Warn("skip malformed payload", "event_id", env.EventID, "err", err)
		return nil
	}

	// 3) purge every cached page; a single product can appear in any of them
	if err := s.Cache.DeletePrefix(ctx, catalog.CacheKeyPrefix); err != nil {
		return errors.Wrapf(err, "purge catalog cache for %s", p.ProductID)
	}
	s.Log.Info("catalog cache purged", "product_id", p.ProductID, "action", p.Action, "event_id", env.EventID)

	if err := s.Dedup.Mark(ctx, env.EventID); err != nil {
		s.Log.Warn("dedup mark failed", "event_id", env.EventID, "err", err)
	}
	return nil
}
