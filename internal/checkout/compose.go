// Package checkout turns a cart into a messaging deep-link carrying the order
// summary.
package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-storefront/internal/cart"
	"github.com/ariefcatur/go-storefront/internal/settings"
)

// BaseURL is the deep-link prefix; the phone number follows it directly.
const BaseURL = "https://wa.me/"

// Message renders the order summary. It is a pure function of its inputs.
func Message(items []cart.Item, s settings.SiteSettings) string {
	lines := make([]string, 0, len(items)+6)
	lines = append(lines, s.Contact.Greeting, "")

	total := decimal.Zero
	for _, it := range items {
		line := it.LineTotal()
		total = total.Add(line)
		lines = append(lines, fmt.Sprintf("• %s x%d — $%s", it.Product.Name, it.Quantity, line.StringFixed(2)))
	}

	lines = append(lines,
		"",
		"Total: $"+total.StringFixed(2),
		"",
		s.Contact.EndOfMessage,
	)
	return strings.Join(lines, "\n")
}

// Compose returns the deep-link for items. An empty phone number yields a
// link without a recipient.
func Compose(items []cart.Item, s settings.SiteSettings) string {
	return BaseURL + s.Contact.Phone + "?text=" + encodeURIComponent(Message(items, s))
}

// encodeURIComponent escapes everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ),
// which is what messaging clients expect in the text parameter.
func encodeURIComponent(s string) string {
	return uriComponentFixer.Replace(url.QueryEscape(s))
}

var uriComponentFixer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)
