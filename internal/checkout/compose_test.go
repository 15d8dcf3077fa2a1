package checkout

import (
	"net/url"
	"strings"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/logx"
	"github.com/ariefcatur/go-storefront/internal/settings"
)

func item(id, name, price string, qty int) cart.Item {
	return cart.Item{
		Product:  catalog.Product{ID: id, Name: name, Price: decimal.RequireFromString(price)},
		Quantity: qty,
	}
}

func shopSettings(phone string) settings.SiteSettings {
	s := settings.Defaults()
	s.Contact.Phone = phone
	s.Contact.Greeting = "Hi!"
	s.Contact.EndOfMessage = "Thanks"
	return s
}

func TestMessageFormat(t *testing.T) {
	items := []cart.Item{item("p1", "Mug", "10", 2), item("p2", "Tea", "5", 1)}

	got := Message(items, shopSettings("5491100000000"))

	want := strings.Join([]string{
		"Hi!",
		"",
		"• Mug x2 — $20.00",
		"• Tea x1 — $5.00",
		"",
		"Total: $25.00",
		"",
		"Thanks",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestComposeEncodesMessage(t *testing.T) {
	items := []cart.Item{item("p1", "Mug", "10", 2), item("p2", "Tea", "5", 1)}

	link := Compose(items, shopSettings("5491100000000"))

	require.True(t, strings.HasPrefix(link, "https://wa.me/5491100000000?text="))
	assert.NotContains(t, link, "+")
	assert.NotContains(t, link, " ")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("text"), "Total: $25.00")
}

func TestComposeIsDeterministic(t *testing.T) {
	items := []cart.Item{item("p1", "Set de vasos", "24.5", 3)}
	s := settings.Defaults()

	assert.Equal(t, Compose(items, s), Compose(items, s))
}

func TestComposeWithoutPhone(t *testing.T) {
	link := Compose(nil, shopSettings(""))

	assert.True(t, strings.HasPrefix(link, "https://wa.me/?text="))
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Hi!\n\n\nTotal: $0.00\n\nThanks", u.Query().Get("text"))
}

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a b", "a%20b"},
		{"1+1=2", "1%2B1%3D2"},
		{"it's (ok)!*~-_.", "it's%20(ok)!*~-_."},
		{"x\ny", "x%0Ay"},
		{"¡Hola! •", "%C2%A1Hola!%20%E2%80%A2"},
		{"$&/?#", "%24%26%2F%3F%23"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, encodeURIComponent(tt.in), tt.in)
	}
}

type recorder struct{ topics []string }

func (r *recorder) Publish(topic string, _, _ []byte, _ ...kafkago.Header) {
	r.topics = append(r.topics, topic)
}

type fixedSettings settings.SiteSettings

func (f fixedSettings) Current() settings.SiteSettings { return settings.SiteSettings(f) }

func TestServiceCheckout(t *testing.T) {
	rec := &recorder{}
	svc := NewService(fixedSettings(shopSettings("123")), events.NewEmitter(rec, "test", logx.Discard()))
	items := []cart.Item{item("p1", "Mug", "10", 2), item("p2", "Tea", "5", 1)}

	l := svc.Checkout("c1", items)

	assert.Equal(t, Compose(items, shopSettings("123")), l.URL)
	assert.Equal(t, 3, l.TotalItems)
	assert.Equal(t, "25.00", l.Total.StringFixed(2))
	assert.Equal(t, []string{events.TopicCheckoutComposed}, rec.topics)

	svc.Checkout("c2", nil)
	assert.Len(t, rec.topics, 1)
}
