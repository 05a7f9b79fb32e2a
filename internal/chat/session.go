// Package chat implements the conversation session: the transcript,
// the transient widget state, and the intent-dispatch loop that turns
// a submitted utterance into appended messages and side effects.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"swanchat/internal/catalog"
	"swanchat/internal/enquiry"
	"swanchat/internal/i18n"
	"swanchat/internal/intent"
	"swanchat/internal/langstore"
	"swanchat/internal/lead"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const subscriberBuffer = 32

var (
	// ErrEmptyInput rejects submissions that are empty after trimming.
	ErrEmptyInput = errors.New("input is empty")
	// ErrBusy rejects a submission while another one is still being
	// processed. The input is dropped, not queued.
	ErrBusy = errors.New("a submission is already being processed")
	// ErrSessionDisposed rejects operations on a torn-down session.
	ErrSessionDisposed = errors.New("session has been disposed")
	// ErrNoEnquiryForm rejects enquiry operations while no form is open.
	ErrNoEnquiryForm = errors.New("no enquiry form is open")
	// ErrUnknownField rejects edits to a field the form does not have.
	ErrUnknownField = errors.New("unknown enquiry form field")
	// ErrUnsupportedLanguage rejects language codes outside en/es/fr.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// CatalogClient is the product catalog boundary consumed by sessions.
type CatalogClient interface {
	FetchProducts(ctx context.Context) ([]catalog.Product, error)
}

// Options configures a session. Zero-value delays and a nil scheduler
// fall back to production defaults.
type Options struct {
	Catalog       CatalogClient
	Leads         lead.Sink
	Languages     langstore.Store
	Scheduler     Scheduler
	ResponseDelay time.Duration // simulated bot "thinking" window
	WelcomeDelay  time.Duration // delay before the welcome message
	FetchTimeout  time.Duration // per-fetch catalog deadline
	Logger        zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Scheduler == nil {
		o.Scheduler = NewScheduler()
	}
	if o.ResponseDelay == 0 {
		o.ResponseDelay = 1500 * time.Millisecond
	}
	if o.WelcomeDelay == 0 {
		o.WelcomeDelay = time.Second
	}
	if o.FetchTimeout == 0 {
		o.FetchTimeout = 10 * time.Second
	}
	if o.Languages == nil {
		o.Languages = langstore.NewMemoryStore()
	}
	return o
}

// Session owns one widget instance's conversational and UI state.
// All mutations run under the session mutex; timer and fetch
// completions re-enter through it, which stands in for the UI event
// queue of the embedded widget.
type Session struct {
	ID        string
	VisitorID string

	mu              sync.Mutex
	messages        []Message
	form            enquiry.Form
	formErrors      map[string]string
	isOpen          bool
	isLarge         bool
	isTyping        bool
	isProcessing    bool
	showForm        bool
	language        string
	products        []catalog.Product
	loadingProducts bool
	welcomed        bool
	disposed        bool
	lastActive      time.Time

	subscribers map[chan Event]struct{}

	opts   Options
	logger zerolog.Logger
}

// NewSession creates a session for a visitor, restoring the visitor's
// persisted language preference (defaulting to English).
func NewSession(visitorID string, opts Options) *Session {
	opts = opts.withDefaults()
	if visitorID == "" {
		visitorID = uuid.New().String()
	}

	language := i18n.LangEnglish
	if saved, err := opts.Languages.Get(visitorID); err != nil {
		opts.Logger.Warn().Err(err).Str("visitor_id", visitorID).Msg("Failed to read language preference")
	} else if saved != "" {
		language = i18n.Resolve(saved)
	}

	s := &Session{
		ID:          uuid.New().String(),
		VisitorID:   visitorID,
		language:    language,
		subscribers: make(map[chan Event]struct{}),
		lastActive:  time.Now(),
		opts:        opts,
	}
	s.logger = opts.Logger.With().Str("session_id", s.ID).Logger()
	return s
}

// SetOpen opens or closes the panel. The first open with an empty
// transcript schedules the delayed welcome message. Closing cancels
// nothing; in-flight timers and fetches still complete against the
// live session.
func (s *Session) SetOpen(open bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrSessionDisposed
	}
	s.touch()

	s.isOpen = open
	if open && !s.welcomed && len(s.messages) == 0 {
		s.welcomed = true
		s.isTyping = true
		s.opts.Scheduler.AfterFunc(s.opts.WelcomeDelay, s.deliverWelcome)
	}
	s.notifyState()
	return nil
}

func (s *Session) deliverWelcome() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.isTyping = false
	s.append(MessageBot, i18n.Lookup(s.language).Welcome)
	s.notifyState()
}

// SetLarge switches between the compact and expanded panel sizes.
func (s *Session) SetLarge(large bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrSessionDisposed
	}
	s.touch()
	s.isLarge = large
	s.notifyState()
	return nil
}

// Submit runs one submission cycle: echo the raw text as a user
// message immediately, then resolve the classified intent after the
// simulated response delay. Empty input and overlapping submissions
// are rejected without touching the transcript.
func (s *Session) Submit(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrSessionDisposed
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}
	if s.isProcessing {
		return ErrBusy
	}
	s.touch()

	s.append(MessageUser, text)
	s.isProcessing = true
	s.isTyping = true
	s.notifyState()

	it := intent.Classify(text)
	s.opts.Scheduler.AfterFunc(s.opts.ResponseDelay, func() { s.respond(it) })
	return nil
}

// respond applies the intent's effect once the simulated delay fires.
func (s *Session) respond(it intent.Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.isTyping = false
	s.isProcessing = false

	table := i18n.Lookup(s.language)
	switch it.Kind {
	case intent.KindProduct:
		s.append(MessageProduct, table.ProductIntro)
		s.startProductFetch()
	case intent.KindContact:
		s.append(MessageContact, table.ContactInfo)
	case intent.KindEnquiry:
		// The form is an overlay, not a transcript entry
		s.showForm = true
		s.form = enquiry.Form{}
		s.formErrors = nil
	case intent.KindCatalog:
		s.append(MessageCatalog, table.DownloadCatalog)
	case intent.KindSupport:
		s.append(MessageSupport, table.SupportTeam)
	case intent.KindLanguageMenu:
		s.append(MessageBot, table.LanguageMenu)
	case intent.KindLanguageSwitch:
		s.switchLanguage(it.Language)
		confirmation := i18n.Format(i18n.Lookup(it.Language).LanguageChanged, map[string]string{
			"language": i18n.Name(it.Language),
		})
		s.append(MessageBot, confirmation)
	default:
		s.append(MessageBot, table.NotUnderstood)
	}
	s.notifyState()
}

// startProductFetch invalidates the product cache and fetches fresh
// data. The fetch resolves independently of the submission cycle, so
// the loading indicator can outlast it. Callers hold s.mu.
func (s *Session) startProductFetch() {
	if s.loadingProducts || s.opts.Catalog == nil {
		return
	}
	s.loadingProducts = true

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.FetchTimeout)
		defer cancel()
		products, err := s.opts.Catalog.FetchProducts(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.disposed {
			return
		}
		s.loadingProducts = false
		if err != nil {
			s.logger.Warn().Err(err).Msg("Catalog fetch failed")
			failure := i18n.Format(i18n.Lookup(s.language).FetchFailed, map[string]string{
				"error": err.Error(),
			})
			s.append(MessageBot, failure)
			s.notifyState()
			return
		}
		// An empty list is a valid result, rendered as "no products"
		s.products = products
		s.notifyState()
	}()
}

// UpdateEnquiryField edits one form field and clears that field's
// validation error, independent of any later full validation.
func (s *Session) UpdateEnquiryField(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrSessionDisposed
	}
	if !s.showForm {
		return ErrNoEnquiryForm
	}
	s.touch()

	switch field {
	case enquiry.FieldName:
		s.form.Name = value
	case enquiry.FieldEmail:
		s.form.Email = value
	case enquiry.FieldPhone:
		s.form.Phone = value
	case enquiry.FieldMessage:
		s.form.Message = value
	default:
		return ErrUnknownField
	}
	delete(s.formErrors, field)
	return nil
}

// SubmitEnquiry validates the draft form. Validation failures are
// returned per field and keep the form open; on success the summary
// and delayed confirmation messages are appended, the form resets and
// hides, and the lead goes to the external sink.
func (s *Session) SubmitEnquiry() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return nil, ErrSessionDisposed
	}
	if !s.showForm {
		return nil, ErrNoEnquiryForm
	}
	if s.isProcessing {
		return nil, ErrBusy
	}
	s.touch()

	if fieldErrors := enquiry.Validate(s.form); len(fieldErrors) > 0 {
		s.formErrors = fieldErrors
		return fieldErrors, nil
	}

	form := s.form
	language := s.language
	table := i18n.Lookup(language)

	s.append(MessageUser, table.EnquiryRequest)
	s.isProcessing = true
	s.isTyping = true

	s.form = enquiry.Form{}
	s.formErrors = nil
	s.showForm = false
	s.notifyState()

	s.opts.Scheduler.AfterFunc(s.opts.ResponseDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.disposed {
			return
		}
		s.isTyping = false
		s.isProcessing = false
		confirmation := i18n.Format(table.EnquirySubmitted, map[string]string{
			"name":  form.Name,
			"email": form.Email,
		})
		s.append(MessageBot, confirmation)
		s.notifyState()
	})

	if s.opts.Leads != nil {
		l := lead.Lead{
			Name:        form.Name,
			Email:       form.Email,
			Phone:       form.Phone,
			Message:     form.Message,
			Language:    language,
			SessionID:   s.ID,
			SubmittedAt: time.Now().UTC(),
		}
		logger := s.logger
		sink := s.opts.Leads
		go func() {
			if err := sink.Submit(context.Background(), l); err != nil {
				logger.Error().Err(err).Str("email", l.Email).Msg("Failed to deliver lead")
			}
		}()
	}

	return nil, nil
}

// CancelEnquiry discards the draft form and hides the overlay.
func (s *Session) CancelEnquiry() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrSessionDisposed
	}
	s.touch()
	s.form = enquiry.Form{}
	s.formErrors = nil
	s.showForm = false
	s.notifyState()
	return nil
}

// SetLanguage switches the active language from outside the chat (the
// header dropdown). While only the welcome message exists, it is
// rewritten in the new language so the first-time greeting matches.
func (s *Session) SetLanguage(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrSessionDisposed
	}
	if !i18n.IsSupported(code) {
		return ErrUnsupportedLanguage
	}
	s.touch()

	s.switchLanguage(code)
	if len(s.messages) == 1 && s.messages[0].Type == MessageBot {
		s.messages = []Message{newMessage(MessageBot, i18n.Lookup(code).Welcome)}
		s.notifyMessage(s.messages[0])
	}
	s.notifyState()
	return nil
}

// switchLanguage updates the active language and persists the
// preference. Callers hold s.mu.
func (s *Session) switchLanguage(code string) {
	s.language = code
	if err := s.opts.Languages.Set(s.VisitorID, code); err != nil {
		s.logger.Warn().Err(err).Str("language", code).Msg("Failed to persist language preference")
	}
}

// Dispose tears the session down. Late timer and fetch completions
// become no-ops, and all subscriber channels close.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.disposed = true
	for ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = make(map[chan Event]struct{})
}

// State returns a snapshot of the transient flags.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		IsOpen:            s.isOpen,
		IsLarge:           s.isLarge,
		IsTyping:          s.isTyping,
		IsProcessing:      s.isProcessing,
		ShowEnquiryForm:   s.showForm,
		IsLoadingProducts: s.loadingProducts,
		Language:          s.language,
	}
}

// Messages returns a copy of the transcript in insertion order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := make([]Message, len(s.messages))
	copy(messages, s.messages)
	return messages
}

// Products returns a copy of the last successful catalog fetch result.
func (s *Session) Products() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make([]catalog.Product, len(s.products))
	copy(products, s.products)
	return products
}

// Form returns the current enquiry draft and its validation errors.
func (s *Session) Form() (enquiry.Form, map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fieldErrors := make(map[string]string, len(s.formErrors))
	for field, message := range s.formErrors {
		fieldErrors[field] = message
	}
	return s.form, fieldErrors
}

// LastActive reports when the session last saw visitor activity.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Disposed reports whether the session has been torn down.
func (s *Session) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

func (s *Session) append(t MessageType, content string) {
	m := newMessage(t, content)
	s.messages = append(s.messages, m)
	s.notifyMessage(m)
}

func (s *Session) touch() {
	s.lastActive = time.Now()
}
