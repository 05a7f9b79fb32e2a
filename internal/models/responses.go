package models

import (
	"time"

	"swanchat/internal/catalog"
	"swanchat/internal/chat"
	"swanchat/internal/enquiry"
)

// HealthResponse represents a basic health check response
// @Description Health check response
type HealthResponse struct {
	Status    string    `json:"status" example:"healthy"`                 // Health status
	Timestamp time.Time `json:"timestamp" example:"2023-01-01T00:00:00Z"` // Timestamp of the check
	Version   string    `json:"version" example:"1.0.0"`                  // Application version
}

// ErrorResponse is the generic error payload
// @Description Error payload
type ErrorResponse struct {
	Error string `json:"error" example:"session not found"` // Error message
}

// CreateSessionRequest starts a chat session for a visitor
// @Description Session creation payload
type CreateSessionRequest struct {
	VisitorID string `json:"visitor_id" example:"b47ac10b-58cc-4372-a567-0e02b2c3d479"` // Optional stable visitor id, used to restore the language preference
}

// SessionResponse is the full snapshot of a chat session
// @Description Session snapshot payload
type SessionResponse struct {
	SessionID string            `json:"session_id"`     // Session identifier
	VisitorID string            `json:"visitor_id"`     // Visitor identifier to keep for future sessions
	State     chat.State        `json:"state"`          // Transient widget flags
	Messages  []chat.Message    `json:"messages"`       // Transcript in display order
	Products  []catalog.Product `json:"products"`       // Last successful catalog fetch result
	Form      *FormSnapshot     `json:"form,omitempty"` // Enquiry draft, present while the form is open
}

// FormSnapshot is the enquiry draft with its validation errors
// @Description Enquiry form snapshot
type FormSnapshot struct {
	Fields enquiry.Form      `json:"fields"` // Current field values
	Errors map[string]string `json:"errors"` // Field name to error message
}

// SubmitMessageRequest carries one chat utterance
// @Description Chat message payload
type SubmitMessageRequest struct {
	Text string `json:"text" example:"show me your products"` // Raw user input
}

// PanelRequest toggles the widget panel
// @Description Panel state payload; omitted fields are left unchanged
type PanelRequest struct {
	Open  *bool `json:"open,omitempty"`  // Open or close the panel
	Large *bool `json:"large,omitempty"` // Switch between compact and expanded sizes
}

// LanguageRequest switches the session language
// @Description Language selection payload
type LanguageRequest struct {
	Language string `json:"language" example:"es"` // One of en, es, fr
}

// EnquiryFieldRequest edits one enquiry form field
// @Description Enquiry field edit payload
type EnquiryFieldRequest struct {
	Field string `json:"field" example:"email"`           // One of name, email, phone, message
	Value string `json:"value" example:"ada@example.com"` // New field value
}

// EnquiryErrorsResponse reports enquiry validation failures
// @Description Enquiry validation errors
type EnquiryErrorsResponse struct {
	Errors map[string]string `json:"errors"` // Field name to error message
}

// WidgetConfigResponse is the static configuration the renderer needs
// @Description Widget configuration payload
type WidgetConfigResponse struct {
	ContactPhone  string   `json:"contact_phone" example:"+1 (555) 123-4567"`                    // Phone number for contact cards
	ContactEmail  string   `json:"contact_email" example:"support@swansorter.com"`               // Email for contact cards
	WhatsAppURL   string   `json:"whatsapp_url" example:"https://wa.me/15551234567"`             // Live chat link for support cards
	CatalogPDFURL string   `json:"catalog_pdf_url" example:"https://swansorter.com/catalog.pdf"` // Download link for catalog cards
	Languages     []string `json:"languages" example:"en,es,fr"`                                 // Supported language codes
}
