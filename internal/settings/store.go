package settings

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/snapshot"
)

// ErrNoRemote is reported for every read of a Load without a collaborator.
var ErrNoRemote = errors.New("settings: no remote configured")

// Store owns the in-memory settings. Reads never block on the remote; writes
// are applied locally first and synced afterwards.
type Store struct {
	mu   sync.RWMutex
	cur  SiteSettings
	subs []func(SiteSettings)

	persistMu sync.Mutex
	snap      snapshot.Store
	remote    Remote
	events    *events.Emitter
	log       *slog.Logger
}

type Option func(*Store)

func WithEvents(e *events.Emitter) Option { return func(s *Store) { s.events = e } }

func WithLogger(l *slog.Logger) Option { return func(s *Store) { s.log = l } }

// NewStore starts from Defaults overlaid with the local snapshot, if any.
// A nil remote keeps the store local-only.
func NewStore(ctx context.Context, snap snapshot.Store, r Remote, opts ...Option) *Store {
	s := &Store{cur: Defaults(), snap: snap, remote: r, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}

	b, err := snap.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
	case err != nil:
		s.log.Warn("settings snapshot unreadable, using defaults", "err", err)
	default:
		var p SettingsPatch
		if err := json.Unmarshal(b, &p); err != nil {
			s.log.Warn("settings snapshot corrupt, using defaults", "err", err)
			break
		}
		s.cur = p.Merge(s.cur)
	}
	return s
}

func (s *Store) Current() SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Subscribe registers fn to receive the settings after every change.
func (s *Store) Subscribe(fn func(SiteSettings)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

type LoadResult struct {
	Settings   SiteSettings
	SiteErr    error
	ContactErr error
	FooterErr  error
}

// Synced reports whether all three sections came from the remote.
func (r LoadResult) Synced() bool {
	return r.SiteErr == nil && r.ContactErr == nil && r.FooterErr == nil
}

// Load reads the site, contact and footer sections concurrently and merges
// whatever succeeded once all three have settled. Failed sections keep their
// last-known value. The result is persisted either way.
func (s *Store) Load(ctx context.Context) LoadResult {
	var (
		site    SettingsPatch
		contact *ContactChannel
		footer  *Footer
		res     LoadResult
	)

	if s.remote == nil {
		res.SiteErr, res.ContactErr, res.FooterErr = ErrNoRemote, ErrNoRemote, ErrNoRemote
	} else {
		// Each read records its own error so one failure never cancels the others.
		var g errgroup.Group
		g.Go(func() error {
			site, res.SiteErr = s.remote.FetchSite(ctx)
			return nil
		})
		g.Go(func() error {
			contact, res.ContactErr = s.remote.FetchContact(ctx)
			return nil
		})
		g.Go(func() error {
			footer, res.FooterErr = s.remote.FetchFooter(ctx)
			return nil
		})
		_ = g.Wait()
	}

	for _, e := range []struct {
		section string
		err     error
	}{{"site", res.SiteErr}, {"contact", res.ContactErr}, {"footer", res.FooterErr}} {
		if e.err != nil && !errors.Is(e.err, ErrNoRemote) {
			s.log.Warn("settings read failed, keeping last known value", "section", e.section, "err", e.err)
		}
	}

	res.Settings = s.update(func(cur SiteSettings) SiteSettings {
		if res.SiteErr == nil {
			cur = site.Merge(cur)
		}
		if res.ContactErr == nil && contact != nil {
			cur.Contact = *contact
		}
		if res.FooterErr == nil && footer != nil {
			cur.Footer = *footer
		}
		return cur
	})
	s.persist(ctx)
	return res
}

type SaveResult struct {
	Settings  SiteSettings
	Synced    bool
	RemoteErr error
}

// Save shallow-merges p into the current settings. The new value is visible to
// readers before the remote write is attempted, and a failed remote write
// leaves it in place.
func (s *Store) Save(ctx context.Context, p SettingsPatch) SaveResult {
	next := s.update(p.Merge)

	var err error
	if s.remote != nil {
		err = s.remote.UpdateSite(ctx, next)
	} else {
		err = ErrNoRemote
	}
	return s.finish(ctx, "site", next, err)
}

// SaveFooter merges p into the footer only, keeping footer keys p leaves out.
func (s *Store) SaveFooter(ctx context.Context, p FooterPatch) SaveResult {
	next := s.update(func(cur SiteSettings) SiteSettings { return MergeFooter(cur, p) })

	var err error
	if s.remote != nil {
		err = s.remote.UpdateFooter(ctx, next.Footer)
	} else {
		err = ErrNoRemote
	}
	return s.finish(ctx, "footer", next, err)
}

func (s *Store) finish(ctx context.Context, section string, next SiteSettings, remoteErr error) SaveResult {
	if remoteErr != nil && !errors.Is(remoteErr, ErrNoRemote) {
		s.log.Warn("settings remote write failed, keeping local value", "section", section, "err", remoteErr)
	}
	s.persist(ctx)
	s.events.Emit(events.TopicSettingsSaved, events.EventSettingsSaved, section,
		events.SettingsSavedPayload{Section: section, Synced: remoteErr == nil})
	return SaveResult{Settings: next, Synced: remoteErr == nil, RemoteErr: remoteErr}
}

func (s *Store) update(fn func(SiteSettings) SiteSettings) SiteSettings {
	s.mu.Lock()
	s.cur = fn(s.cur)
	next := s.cur
	subs := append([]func(SiteSettings){}, s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub(next)
	}
	return next
}

// persistTimeout bounds a snapshot write, which is detached from the caller's
// deadline.
const persistTimeout = 5 * time.Second

// persist writes the latest in-memory value; concurrent writers are
// serialized so the snapshot ends on the last write.
func (s *Store) persist(ctx context.Context) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	b, err := json.Marshal(s.Current())
	if err != nil {
		s.log.Error("encode settings snapshot", "err", err)
		return
	}
	if err := s.snap.Put(ctx, StorageKey, b); err != nil {
		s.log.Warn("persist settings snapshot", "err", err)
	}
}
