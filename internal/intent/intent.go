// Package intent classifies free-text chat input into one of the
// widget's recognized commands using keyword matching.
package intent

import (
	"strings"

	"swanchat/internal/i18n"
)

type Kind string

const (
	KindProduct        Kind = "product"
	KindContact        Kind = "contact"
	KindEnquiry        Kind = "enquiry"
	KindCatalog        Kind = "catalog"
	KindSupport        Kind = "support"
	KindLanguageMenu   Kind = "language_menu"
	KindLanguageSwitch Kind = "language_switch"
	KindUnrecognized   Kind = "unrecognized"
)

// Intent is the classified purpose of a user utterance.
// Language is set only for KindLanguageSwitch.
type Intent struct {
	Kind     Kind
	Language string
}

// rules are checked in order; the first match wins. Multiple keywords
// can co-occur in one utterance ("do your products come with support?"),
// so the order is load-bearing and must not be rearranged.
var rules = []struct {
	kind     Kind
	keywords []string
}{
	{KindProduct, []string{"product", "producto", "produit"}},
	{KindContact, []string{"contact", "contacto"}},
	{KindEnquiry, []string{"enquiry", "inquiry", "consulta", "demande"}},
	{KindCatalog, []string{"catalog", "catálogo", "catalogue"}},
	{KindSupport, []string{"support", "soporte"}},
	{KindLanguageMenu, []string{"language", "idioma", "langue"}},
}

// Classify performs keyword heuristics on a user message.
// Input is lowercased before matching; there is no real language
// understanding here.
func Classify(message string) Intent {
	m := strings.ToLower(strings.TrimSpace(message))
	if m == "" {
		return Intent{Kind: KindUnrecognized}
	}

	for _, rule := range rules {
		if containsAny(m, rule.keywords) {
			return Intent{Kind: rule.kind}
		}
	}

	// A bare language code switches the active language
	if i18n.IsSupported(m) {
		return Intent{Kind: KindLanguageSwitch, Language: m}
	}

	return Intent{Kind: KindUnrecognized}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
