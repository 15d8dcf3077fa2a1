package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront/internal/logx"
	"github.com/ariefcatur/go-storefront/internal/remote"
	"github.com/ariefcatur/go-storefront/internal/snapshot"
)

func ptr[T any](v T) *T { return &v }

type fakeRemote struct {
	mu sync.Mutex

	site    SettingsPatch
	contact *ContactChannel
	footer  *Footer

	siteErr, contactErr, footerErr error
	writeErr                       error

	// block, if set, holds every fetch until it is closed.
	block    chan struct{}
	inFlight int
	maxSeen  int

	sites   []SiteSettings
	footers []Footer
}

func (f *fakeRemote) enter() {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeRemote) FetchSite(context.Context) (SettingsPatch, error) {
	f.enter()
	return f.site, f.siteErr
}

func (f *fakeRemote) FetchContact(context.Context) (*ContactChannel, error) {
	f.enter()
	return f.contact, f.contactErr
}

func (f *fakeRemote) FetchFooter(context.Context) (*Footer, error) {
	f.enter()
	return f.footer, f.footerErr
}

func (f *fakeRemote) UpdateSite(_ context.Context, s SiteSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sites = append(f.sites, s)
	return f.writeErr
}

func (f *fakeRemote) UpdateFooter(_ context.Context, ft Footer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.footers = append(f.footers, ft)
	return f.writeErr
}

func persisted(t *testing.T, store snapshot.Store) SiteSettings {
	t.Helper()
	b, err := store.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	var s SiteSettings
	require.NoError(t, json.Unmarshal(b, &s))
	return s
}

func TestPatchMergeIsShallow(t *testing.T) {
	cur := Defaults()
	cur.Footer = Footer{Address: "Calle 1", Email: "a@b.c"}

	got := SettingsPatch{
		SiteName: ptr("Shop"),
		Footer:   &Footer{Note: "new"},
	}.Merge(cur)

	assert.Equal(t, "Shop", got.SiteName)
	assert.Equal(t, cur.Colors, got.Colors)
	assert.Equal(t, cur.Contact, got.Contact)
	assert.Equal(t, Footer{Note: "new"}, got.Footer)
}

func TestFooterMergeKeepsAbsentKeys(t *testing.T) {
	cur := Defaults()
	cur.Footer = Footer{Address: "Calle 1", Email: "a@b.c"}

	got := MergeFooter(cur, FooterPatch{Note: ptr("Open 9-18")})

	assert.Equal(t, Footer{Address: "Calle 1", Email: "a@b.c", Note: "Open 9-18"}, got.Footer)
	assert.Equal(t, cur.SiteName, got.SiteName)
}

func TestNewStoreFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	mem := snapshot.NewMemory()
	require.NoError(t, mem.Put(ctx, StorageKey, []byte("{broken")))

	s := NewStore(ctx, mem, nil, WithLogger(logx.Discard()))

	assert.Equal(t, Defaults(), s.Current())
	assert.Equal(t, Defaults(), NewStore(ctx, snapshot.NewMemory(), nil).Current())
}

func TestNewStoreOverlaysSnapshot(t *testing.T) {
	ctx := context.Background()
	mem := snapshot.NewMemory()
	require.NoError(t, mem.Put(ctx, StorageKey, []byte(`{"siteName":"Saved"}`)))

	s := NewStore(ctx, mem, nil, WithLogger(logx.Discard()))

	assert.Equal(t, "Saved", s.Current().SiteName)
	assert.Equal(t, Defaults().Contact, s.Current().Contact)
}

func TestLoadMergesSuccessfulSubset(t *testing.T) {
	ctx := context.Background()
	mem := snapshot.NewMemory()
	r := &fakeRemote{
		site:       SettingsPatch{SiteName: ptr("Remote Shop")},
		contactErr: errors.New("timeout"),
		footer:     &Footer{Email: "hi@shop.test"},
	}
	s := NewStore(ctx, mem, r, WithLogger(logx.Discard()))

	res := s.Load(ctx)

	assert.False(t, res.Synced())
	assert.Error(t, res.ContactErr)
	assert.Equal(t, "Remote Shop", res.Settings.SiteName)
	assert.Equal(t, Defaults().Contact, res.Settings.Contact)
	assert.Equal(t, Footer{Email: "hi@shop.test"}, res.Settings.Footer)
	assert.Equal(t, res.Settings, s.Current())
	assert.Equal(t, res.Settings, persisted(t, mem))
}

func TestLoadAllFailedStillPersists(t *testing.T) {
	ctx := context.Background()
	mem := snapshot.NewMemory()
	boom := errors.New("down")
	r := &fakeRemote{siteErr: boom, contactErr: boom, footerErr: boom}
	s := NewStore(ctx, mem, r, WithLogger(logx.Discard()))

	res := s.Load(ctx)

	assert.Equal(t, Defaults(), res.Settings)
	assert.Equal(t, Defaults(), persisted(t, mem))
}

func TestLoadWithoutRemote(t *testing.T) {
	ctx := context.Background()
	mem := snapshot.NewMemory()
	s := NewStore(ctx, mem, nil, WithLogger(logx.Discard()))

	res := s.Load(ctx)

	assert.ErrorIs(t, res.SiteErr, ErrNoRemote)
	assert.Equal(t, Defaults(), persisted(t, mem))
}

func TestLoadIssuesReadsConcurrently(t *testing.T) {
	ctx := context.Background()
	r := &fakeRemote{block: make(chan struct{})}
	s := NewStore(ctx, snapshot.NewMemory(), r, WithLogger(logx.Discard()))

	done := make(chan LoadResult)
	go func() { done <- s.Load(ctx) }()

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.inFlight == 3
	}, time.Second, 5*time.Millisecond)
	select {
	case <-done:
		t.Fatal("load merged before all reads settled")
	default:
	}

	close(r.block)
	res := <-done
	assert.True(t, res.Synced())
	assert.Equal(t, 3, r.maxSeen)
}

func TestSaveIsOptimistic(t *testing.T) {
	ctx := context.Background()
	mem := snapshot.NewMemory()
	r := &fakeRemote{writeErr: errors.New("503")}
	s := NewStore(ctx, mem, r, WithLogger(logx.Discard()))
	var seen []string
	s.Subscribe(func(st SiteSettings) { seen = append(seen, st.SiteName) })

	res := s.Save(ctx, SettingsPatch{SiteName: ptr("New Name")})

	assert.False(t, res.Synced)
	assert.Error(t, res.RemoteErr)
	assert.Equal(t, "New Name", s.Current().SiteName)
	assert.Equal(t, "New Name", persisted(t, mem).SiteName)
	assert.Equal(t, []string{"New Name"}, seen)
	require.Len(t, r.sites, 1)
	assert.Equal(t, "New Name", r.sites[0].SiteName)
}

func TestSaveFooterMergesDeeper(t *testing.T) {
	ctx := context.Background()
	mem := snapshot.NewMemory()
	r := &fakeRemote{}
	s := NewStore(ctx, mem, r, WithLogger(logx.Discard()))
	s.Save(ctx, SettingsPatch{Footer: &Footer{Address: "Calle 1", Email: "a@b.c"}})

	res := s.SaveFooter(ctx, FooterPatch{Email: ptr("new@b.c")})

	assert.True(t, res.Synced)
	want := Footer{Address: "Calle 1", Email: "new@b.c"}
	assert.Equal(t, want, s.Current().Footer)
	assert.Equal(t, want, persisted(t, mem).Footer)
	assert.Equal(t, []Footer{want}, r.footers)
}

func TestSaveWithoutRemoteStaysLocal(t *testing.T) {
	ctx := context.Background()
	mem := snapshot.NewMemory()
	s := NewStore(ctx, mem, nil, WithLogger(logx.Discard()))

	res := s.Save(ctx, SettingsPatch{Colors: &Colors{Primary: "#000000"}})

	assert.ErrorIs(t, res.RemoteErr, ErrNoRemote)
	assert.Equal(t, "#000000", persisted(t, mem).Colors.Primary)
}

func TestHTTPRemote(t *testing.T) {
	var patched map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/site/settings":
			_, _ = w.Write([]byte(`{"siteName":"Remote","colors":{"primary":"#111111"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/user/contact":
			_, _ = w.Write([]byte(`{"phone":"549","greeting":"Hey","endOfMessage":"Bye"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/site/footer":
			_, _ = w.Write([]byte(`null`))
		case r.Method == http.MethodPatch && r.URL.Path == "/api/site/footer":
			_ = json.NewDecoder(r.Body).Decode(&patched)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	r := NewHTTPRemote(remote.New(srv.URL, "", 0), "/api/user/contact")
	ctx := context.Background()

	site, err := r.FetchSite(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Remote", *site.SiteName)
	assert.Nil(t, site.Contact)

	contact, err := r.FetchContact(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ContactChannel{Phone: "549", Greeting: "Hey", EndOfMessage: "Bye"}, contact)

	footer, err := r.FetchFooter(ctx)
	require.NoError(t, err)
	assert.Nil(t, footer)

	require.NoError(t, r.UpdateFooter(ctx, Footer{Email: "x@y.z"}))
	assert.Equal(t, map[string]any{"email": "x@y.z"}, patched)

	assert.Error(t, r.UpdateSite(ctx, Defaults()))
}

// hungRemote blocks every call until the caller's context is done.
type hungRemote struct{}

func (hungRemote) FetchSite(ctx context.Context) (SettingsPatch, error) {
	<-ctx.Done()
	return SettingsPatch{}, ctx.Err()
}

func (hungRemote) FetchContact(ctx context.Context) (*ContactChannel, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (hungRemote) FetchFooter(ctx context.Context) (*Footer, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (hungRemote) UpdateSite(ctx context.Context, _ SiteSettings) error {
	<-ctx.Done()
	return ctx.Err()
}

func (hungRemote) UpdateFooter(ctx context.Context, _ Footer) error {
	<-ctx.Done()
	return ctx.Err()
}

// deadlineStore refuses writes on a finished context, as a database driver does.
type deadlineStore struct{ *snapshot.Memory }

func (d deadlineStore) Put(ctx context.Context, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.Memory.Put(ctx, key, body)
}

func shortCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	t.Cleanup(cancel)
	return ctx
}

func TestPersistOutlivesRemoteDeadline(t *testing.T) {
	t.Run("save", func(t *testing.T) {
		mem := deadlineStore{snapshot.NewMemory()}
		s := NewStore(context.Background(), mem, hungRemote{}, WithLogger(logx.Discard()))

		res := s.Save(shortCtx(t), SettingsPatch{SiteName: ptr("Offline Shop")})

		assert.ErrorIs(t, res.RemoteErr, context.DeadlineExceeded)
		assert.Equal(t, "Offline Shop", persisted(t, mem).SiteName)
	})

	t.Run("save footer", func(t *testing.T) {
		mem := deadlineStore{snapshot.NewMemory()}
		s := NewStore(context.Background(), mem, hungRemote{}, WithLogger(logx.Discard()))

		res := s.SaveFooter(shortCtx(t), FooterPatch{Email: ptr("a@b.c")})

		assert.False(t, res.Synced)
		assert.Equal(t, "a@b.c", persisted(t, mem).Footer.Email)
	})

	t.Run("load", func(t *testing.T) {
		mem := deadlineStore{snapshot.NewMemory()}
		s := NewStore(context.Background(), mem, hungRemote{}, WithLogger(logx.Discard()))

		res := s.Load(shortCtx(t))

		assert.ErrorIs(t, res.FooterErr, context.DeadlineExceeded)
		assert.Equal(t, Defaults(), persisted(t, mem))
	})
}
