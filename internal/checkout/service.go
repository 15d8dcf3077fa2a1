package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/settings"
)

type SettingsReader interface {
	Current() settings.SiteSettings
}

type Link struct {
	URL        string          `json:"url"`
	Message    string          `json:"message"`
	TotalItems int             `json:"totalItems"`
	Total      decimal.Decimal `json:"total"`
}

type Service struct {
	settings SettingsReader
	events   *events.Emitter
}

func NewService(s SettingsReader, e *events.Emitter) *Service {
	return &Service{settings: s, events: e}
}

// Checkout composes the link for a cart with the current settings. Only
// non-empty carts are announced downstream.
func (s *Service) Checkout(cartID string, items []cart.Item) Link {
	st := s.settings.Current()
	l := Link{
		URL:        Compose(items, st),
		Message:    Message(items, st),
		TotalItems: cart.TotalItems(items),
		Total:      cart.TotalPrice(items),
	}
	if len(items) > 0 {
		s.events.Emit(events.TopicCheckoutComposed, events.EventCheckoutComposed, cartID,
			events.CheckoutComposedPayload{
				CartID:     cartID,
				Lines:      len(items),
				TotalItems: l.TotalItems,
				Total:      l.Total.StringFixed(2),
			})
	}
	return l
}
