package settings

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"

	"github.com/ariefcatur/go-storefront/internal/remote"
)

// Remote is the settings collaborator. Nil sections returned by the Fetch
// methods mean "keep the current value".
type Remote interface {
	FetchSite(ctx context.Context) (SettingsPatch, error)
	FetchContact(ctx context.Context) (*ContactChannel, error)
	FetchFooter(ctx context.Context) (*Footer, error)
	UpdateSite(ctx context.Context, s SiteSettings) error
	UpdateFooter(ctx context.Context, f Footer) error
}

const (
	sitePath   = "/api/site/settings"
	footerPath = "/api/site/footer"
)

type HTTPRemote struct {
	c           *remote.Client
	contactPath string
}

func NewHTTPRemote(c *remote.Client, contactPath string) *HTTPRemote {
	return &HTTPRemote{c: c, contactPath: contactPath}
}

func (r *HTTPRemote) FetchSite(ctx context.Context) (SettingsPatch, error) {
	var p SettingsPatch
	if err := r.c.Get(ctx, sitePath, nil, &p); err != nil {
		return SettingsPatch{}, errors.Wrap(err, "fetch site settings")
	}
	return p, nil
}

func (r *HTTPRemote) FetchContact(ctx context.Context) (*ContactChannel, error) {
	var ch *ContactChannel
	if err := r.c.Get(ctx, r.contactPath, nil, &ch); err != nil {
		return nil, errors.Wrap(err, "fetch contact settings")
	}
	return ch, nil
}

func (r *HTTPRemote) FetchFooter(ctx context.Context) (*Footer, error) {
	var f *Footer
	if err := r.c.Get(ctx, footerPath, nil, &f); err != nil {
		return nil, errors.Wrap(err, "fetch footer")
	}
	return f, nil
}

func (r *HTTPRemote) UpdateSite(ctx context.Context, s SiteSettings) error {
	return errors.Wrap(r.c.Do(ctx, http.MethodPatch, sitePath, s, nil), "update site settings")
}

func (r *HTTPRemote) UpdateFooter(ctx context.Context, f Footer) error {
	return errors.Wrap(r.c.Do(ctx, http.MethodPatch, footerPath, f, nil), "update footer")
}
