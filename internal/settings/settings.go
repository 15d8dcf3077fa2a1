// Package settings holds the site-wide configuration consumed by checkout and
// the storefront chrome.
package settings

// StorageKey is the snapshot key of the merged settings.
const StorageKey = "app_settings_v1"

type Colors struct {
	Primary string `json:"primary"`
}

// ContactChannel is the messaging contact used for checkout links.
type ContactChannel struct {
	Phone        string `json:"phone"`
	Greeting     string `json:"greeting"`
	EndOfMessage string `json:"endOfMessage"`
}

type Footer struct {
	Address string `json:"address,omitempty"`
	Email   string `json:"email,omitempty"`
	Note    string `json:"note,omitempty"`
}

type SiteSettings struct {
	SiteName string         `json:"siteName"`
	Colors   Colors         `json:"colors"`
	Contact  ContactChannel `json:"whatsapp"`
	Footer   Footer         `json:"footer"`
}

func Defaults() SiteSettings {
	return SiteSettings{
		SiteName: "Mi Tienda",
		Colors:   Colors{Primary: "#0ea5e9"},
		Contact: ContactChannel{
			Greeting:     "¡Hola! Me gustaría realizar el siguiente pedido:",
			EndOfMessage: "Por favor, confirma disponibilidad y forma de pago. ¡Gracias!",
		},
	}
}

// SettingsPatch is a partial SiteSettings. Present fields replace the
// current value wholesale.
type SettingsPatch struct {
	SiteName *string         `json:"siteName,omitempty"`
	Colors   *Colors         `json:"colors,omitempty"`
	Contact  *ContactChannel `json:"whatsapp,omitempty"`
	Footer   *Footer         `json:"footer,omitempty"`
}

func (p SettingsPatch) Merge(s SiteSettings) SiteSettings {
	if p.SiteName != nil {
		s.SiteName = *p.SiteName
	}
	if p.Colors != nil {
		s.Colors = *p.Colors
	}
	if p.Contact != nil {
		s.Contact = *p.Contact
	}
	if p.Footer != nil {
		s.Footer = *p.Footer
	}
	return s
}

// FooterPatch merges key by key; absent keys keep their current value.
type FooterPatch struct {
	Address *string `json:"address,omitempty"`
	Email   *string `json:"email,omitempty"`
	Note    *string `json:"note,omitempty"`
}

func (p FooterPatch) Merge(f Footer) Footer {
	if p.Address != nil {
		f.Address = *p.Address
	}
	if p.Email != nil {
		f.Email = *p.Email
	}
	if p.Note != nil {
		f.Note = *p.Note
	}
	return f
}

// MergeFooter applies p to the footer of s and leaves the rest untouched.
func MergeFooter(s SiteSettings, p FooterPatch) SiteSettings {
	s.Footer = p.Merge(s.Footer)
	return s
}
