package catalog

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/ariefcatur/go-storefront/internal/events"
)

// Create, Update and Delete try the remote first and apply the change to the
// fallback dataset when the remote cannot be reached.

func (s *Service) Create(ctx context.Context, in ProductInput) Result[Product] {
	if err := in.Validate(); err != nil {
		return Result[Product]{Origin: OriginFailed, Err: err}
	}
	remoteErr := ErrNoRemote
	if s.source != nil {
		p, err := s.source.Create(ctx, in)
		if err == nil {
			s.changed(ctx, p.ID, events.ActionCreated, false)
			return Result[Product]{Value: p, Origin: OriginRemote}
		}
		s.log.Warn("remote create failed, applying locally", "err", err)
		remoteErr = errors.Wrap(err, "create")
	}
	p := s.data.Create(in)
	s.changed(ctx, p.ID, events.ActionCreated, true)
	return Result[Product]{Value: p, Origin: OriginFallback, Err: remoteErr}
}

func (s *Service) Update(ctx context.Context, id string, patch ProductPatch) Result[Product] {
	if id == "" {
		return Result[Product]{Origin: OriginFailed, Err: errors.Wrap(ErrInvalidArgument, "id is required")}
	}
	if err := patch.Validate(); err != nil {
		return Result[Product]{Origin: OriginFailed, Err: err}
	}
	remoteErr := ErrNoRemote
	if s.source != nil {
		p, err := s.source.Update(ctx, id, patch)
		if err == nil {
			s.changed(ctx, id, events.ActionUpdated, false)
			return Result[Product]{Value: p, Origin: OriginRemote}
		}
		s.log.Warn("remote update failed, applying locally", "id", id, "err", err)
		remoteErr = errors.Wrap(err, "update")
	}
	p, ok := s.data.Update(id, patch)
	if !ok {
		return Result[Product]{Origin: OriginFailed, Err: errors.Wrapf(ErrNotFound, "update %s", id)}
	}
	s.changed(ctx, id, events.ActionUpdated, true)
	return Result[Product]{Value: p, Origin: OriginFallback, Err: remoteErr}
}

func (s *Service) Delete(ctx context.Context, id string) Result[string] {
	if id == "" {
		return Result[string]{Origin: OriginFailed, Err: errors.Wrap(ErrInvalidArgument, "id is required")}
	}
	remoteErr := ErrNoRemote
	if s.source != nil {
		err := s.source.Delete(ctx, id)
		if err == nil {
			s.changed(ctx, id, events.ActionDeleted, false)
			return Result[string]{Value: id, Origin: OriginRemote}
		}
		s.log.Warn("remote delete failed, applying locally", "id", id, "err", err)
		remoteErr = errors.Wrap(err, "delete")
	}
	// deleting an unknown id locally is a no-op
	if s.data.Delete(id) {
		s.changed(ctx, id, events.ActionDeleted, true)
	}
	return Result[string]{Value: id, Origin: OriginFallback, Err: remoteErr}
}

func (s *Service) changed(ctx context.Context, id, action string, local bool) {
	s.Invalidate(ctx)
	s.events.Emit(events.TopicProductChanged, events.EventProductChanged, id,
		events.ProductChangedPayload{ProductID: id, Action: action, Local: local})
}
