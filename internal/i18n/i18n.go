// Package i18n holds the static localized string tables for the chat
// widget and resolves visitor language codes against the supported set.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Supported language codes
const (
	LangEnglish = "en"
	LangSpanish = "es"
	LangFrench  = "fr"
)

// Strings is the fixed set of UI strings a language table provides.
// Templates use {name}, {email}, {language} and {error} placeholders.
type Strings struct {
	Welcome          string
	NotUnderstood    string
	ProductIntro     string
	ContactInfo      string
	DownloadCatalog  string
	SupportTeam      string
	EnquiryRequest   string
	EnquirySubmitted string
	LanguageMenu     string
	LanguageChanged  string
	FetchFailed      string
	NoProducts       string
	LoadingProducts  string
}

var tables = map[string]Strings{
	LangEnglish: {
		Welcome:          "Hello! How can I assist you today? You can type 'Product' to see our product list, 'Contact' to get our details, 'Enquiry' to submit a request, 'Catalog' to download our catalog, or 'Support' to speak with an agent.",
		NotUnderstood:    "I'm not sure I understand. You can type 'Product', 'Contact', 'Enquiry', 'Catalog', or 'Support' to get started.",
		ProductIntro:     "Here are some of our popular products:",
		ContactInfo:      "Contact Information",
		DownloadCatalog:  "Download our SwanSorter catalog",
		SupportTeam:      "Connect with our support team",
		EnquiryRequest:   "I'd like to submit an enquiry.",
		EnquirySubmitted: "Thank you, {name}! Your enquiry has been submitted. Our team will contact you shortly at {email}.",
		LanguageMenu:     "You can change the language to: English (en), Spanish (es), or French (fr). Type 'en', 'es', or 'fr' to change.",
		LanguageChanged:  "Language changed to {language}.",
		FetchFailed:      "Sorry, I couldn't fetch the products. Please try again later. (Error: {error})",
		NoProducts:       "We don't have any products to show right now. Please check back soon.",
		LoadingProducts:  "Loading products...",
	},
	LangSpanish: {
		Welcome:          "¡Hola! ¿Cómo puedo ayudarte hoy? Escribe 'Producto' para ver nuestra lista de productos, 'Contacto' para obtener nuestros detalles, 'Consulta' para enviar una solicitud, 'Catálogo' para descargar nuestro catálogo o 'Soporte' para hablar con un agente.",
		NotUnderstood:    "No estoy seguro de entender. Puedes escribir 'Producto', 'Contacto', 'Consulta', 'Catálogo' o 'Soporte' para comenzar.",
		ProductIntro:     "Aquí tienes algunos de nuestros productos populares:",
		ContactInfo:      "Información de Contacto",
		DownloadCatalog:  "Descarga nuestro catálogo SwanSorter",
		SupportTeam:      "Conecta con nuestro equipo de soporte",
		EnquiryRequest:   "Me gustaría enviar una consulta.",
		EnquirySubmitted: "¡Gracias, {name}! Tu consulta ha sido enviada. Nuestro equipo te contactará pronto en {email}.",
		LanguageMenu:     "Puedes cambiar el idioma a: English (en), Spanish (es) o French (fr). Escribe 'en', 'es' o 'fr' para cambiar.",
		LanguageChanged:  "Idioma cambiado a {language}.",
		FetchFailed:      "Lo siento, no pude obtener los productos. Inténtalo de nuevo más tarde. (Error: {error})",
		NoProducts:       "No tenemos productos para mostrar en este momento. Vuelve pronto.",
		LoadingProducts:  "Cargando productos...",
	},
	LangFrench: {
		Welcome:          "Bonjour! Comment puis-je vous aider aujourd'hui? Tapez 'Produit' pour voir notre liste de produits, 'Contact' pour obtenir nos coordonnées, 'Demande' pour soumettre une requête, 'Catalogue' pour télécharger notre catalogue, ou 'Support' pour parler avec notre équipe.",
		NotUnderstood:    "Je ne suis pas sûr de comprendre. Vous pouvez taper 'Produit', 'Contact', 'Demande', 'Catalogue', ou 'Support' pour commencer.",
		ProductIntro:     "Voici quelques-uns de nos produits populaires :",
		ContactInfo:      "Informations de Contact",
		DownloadCatalog:  "Téléchargez notre catalogue SwanSorter",
		SupportTeam:      "Contactez notre équipe de support",
		EnquiryRequest:   "Je souhaite soumettre une demande.",
		EnquirySubmitted: "Merci, {name}! Votre demande a été soumise. Notre équipe vous contactera bientôt à {email}.",
		LanguageMenu:     "Vous pouvez changer la langue en : English (en), Spanish (es) ou French (fr). Tapez 'en', 'es' ou 'fr' pour changer.",
		LanguageChanged:  "Langue changée en {language}.",
		FetchFailed:      "Désolé, je n'ai pas pu récupérer les produits. Veuillez réessayer plus tard. (Erreur: {error})",
		NoProducts:       "Nous n'avons aucun produit à afficher pour le moment. Revenez bientôt.",
		LoadingProducts:  "Chargement des produits...",
	},
}

var displayNames = map[string]string{
	LangEnglish: "English",
	LangSpanish: "Spanish",
	LangFrench:  "French",
}

var (
	supportedCodes = []string{LangEnglish, LangSpanish, LangFrench}
	matcher        = language.NewMatcher([]language.Tag{
		language.English,
		language.Spanish,
		language.French,
	})
)

// Supported returns the supported language codes in display order.
func Supported() []string {
	codes := make([]string, len(supportedCodes))
	copy(codes, supportedCodes)
	return codes
}

// IsSupported reports whether code is one of the supported languages.
func IsSupported(code string) bool {
	_, ok := tables[code]
	return ok
}

// Name returns the display name of a supported language code.
func Name(code string) string {
	if name, ok := displayNames[code]; ok {
		return name
	}
	return displayNames[LangEnglish]
}

// Resolve maps an arbitrary BCP 47 language code to the closest
// supported code, falling back to English.
func Resolve(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return LangEnglish
	}
	if IsSupported(code) {
		return code
	}
	tag, err := language.Parse(code)
	if err != nil {
		return LangEnglish
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return LangEnglish
	}
	return supportedCodes[index]
}

// Lookup returns the string table for a language code, falling back to
// English for unknown codes.
func Lookup(code string) Strings {
	if table, ok := tables[code]; ok {
		return table
	}
	return tables[LangEnglish]
}

// Format interpolates template placeholders of the form {key}.
func Format(template string, args map[string]string) string {
	pairs := make([]string, 0, len(args)*2)
	for key, value := range args {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
