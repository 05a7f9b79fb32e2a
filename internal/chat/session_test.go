package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"swanchat/internal/catalog"
	"swanchat/internal/enquiry"
	"swanchat/internal/i18n"
	"swanchat/internal/langstore"
	"swanchat/internal/lead"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualScheduler collects scheduled callbacks so tests can run the
// state machine synchronously.
type manualScheduler struct {
	mu    sync.Mutex
	queue []func()
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, f)
}

// Fire runs every pending callback in scheduling order.
func (s *manualScheduler) Fire() {
	s.mu.Lock()
	pending := s.queue
	s.queue = nil
	s.mu.Unlock()
	for _, f := range pending {
		f()
	}
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// fakeCatalog serves canned products or a canned error. Fetches block
// until the gate closes when one is set.
type fakeCatalog struct {
	mu       sync.Mutex
	products []catalog.Product
	err      error
	gate     chan struct{}
	calls    int
}

func (f *fakeCatalog) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	f.mu.Lock()
	gate := f.gate
	f.calls++
	products, err := f.products, f.err
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (f *fakeCatalog) set(products []catalog.Product, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = products
	f.err = err
}

type captureSink struct {
	mu    sync.Mutex
	leads []lead.Lead
}

func (s *captureSink) Submit(ctx context.Context, l lead.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, l)
	return nil
}

func (s *captureSink) all() []lead.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]lead.Lead(nil), s.leads...)
}

type sessionFixture struct {
	session   *Session
	scheduler *manualScheduler
	catalog   *fakeCatalog
	sink      *captureSink
	store     *langstore.MemoryStore
}

func newFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		scheduler: &manualScheduler{},
		catalog:   &fakeCatalog{},
		sink:      &captureSink{},
		store:     langstore.NewMemoryStore(),
	}
	f.session = NewSession("visitor-1", Options{
		Catalog:   f.catalog,
		Leads:     f.sink,
		Languages: f.store,
		Scheduler: f.scheduler,
		Logger:    zerolog.Nop(),
	})
	t.Cleanup(f.session.Dispose)
	return f
}

func messageTypes(messages []Message) []MessageType {
	types := make([]MessageType, len(messages))
	for i, m := range messages {
		types[i] = m.Type
	}
	return types
}

func TestSession_WelcomeBootstrap(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.SetOpen(true))
	assert.True(t, f.session.State().IsTyping)
	assert.Empty(t, f.session.Messages())

	f.scheduler.Fire()

	messages := f.session.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, MessageBot, messages[0].Type)
	assert.Contains(t, messages[0].Content, "Product")
	assert.False(t, f.session.State().IsTyping)

	// Reopening does not schedule a second welcome
	require.NoError(t, f.session.SetOpen(false))
	require.NoError(t, f.session.SetOpen(true))
	assert.Zero(t, f.scheduler.Pending())
	assert.Len(t, f.session.Messages(), 1)
}

func TestSession_PanelToggleDoesNotTouchTranscript(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.session.SetOpen(true))
	f.scheduler.Fire()

	before := len(f.session.Messages())
	require.NoError(t, f.session.SetOpen(false))
	require.NoError(t, f.session.SetOpen(true))
	require.NoError(t, f.session.SetLarge(true))
	require.NoError(t, f.session.SetLarge(false))
	assert.Len(t, f.session.Messages(), before)
}

func TestSession_SubmitEchoAndResponse(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		responseType  MessageType
		wantSubstring string
	}{
		{
			name:          "product intent",
			input:         "show me your products",
			responseType:  MessageProduct,
			wantSubstring: "popular products",
		},
		{
			name:          "contact intent",
			input:         "contact details please",
			responseType:  MessageContact,
			wantSubstring: "Contact",
		},
		{
			name:          "catalog intent",
			input:         "catalog",
			responseType:  MessageCatalog,
			wantSubstring: "catalog",
		},
		{
			name:          "support intent",
			input:         "I need support",
			responseType:  MessageSupport,
			wantSubstring: "support team",
		},
		{
			name:          "language menu",
			input:         "change language",
			responseType:  MessageBot,
			wantSubstring: "'en', 'es', or 'fr'",
		},
		{
			name:          "unrecognized input",
			input:         "tell me a joke",
			responseType:  MessageBot,
			wantSubstring: "'Product', 'Contact', 'Enquiry', 'Catalog', or 'Support'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			require.NoError(t, f.session.Submit(tt.input))

			// The echo is immediate and carries the raw text
			messages := f.session.Messages()
			require.Len(t, messages, 1)
			assert.Equal(t, MessageUser, messages[0].Type)
			assert.Equal(t, tt.input, messages[0].Content)

			state := f.session.State()
			assert.True(t, state.IsProcessing)
			assert.True(t, state.IsTyping)

			f.scheduler.Fire()

			messages = f.session.Messages()
			require.Len(t, messages, 2)
			assert.Equal(t, []MessageType{MessageUser, tt.responseType}, messageTypes(messages))
			assert.Contains(t, messages[1].Content, tt.wantSubstring)

			state = f.session.State()
			assert.False(t, state.IsProcessing)
			assert.False(t, state.IsTyping)
		})
	}
}

func TestSession_Submit_EmptyInput(t *testing.T) {
	f := newFixture(t)

	for _, input := range []string{"", "   ", "\t\n "} {
		err := f.session.Submit(input)
		assert.ErrorIs(t, err, ErrEmptyInput, "input %q", input)
	}

	assert.Empty(t, f.session.Messages())
	assert.False(t, f.session.State().IsProcessing)
}

func TestSession_Submit_WhileProcessing(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.Submit("hello"))
	require.Len(t, f.session.Messages(), 1)

	// A second submission during the delay window is dropped
	err := f.session.Submit("second message")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Len(t, f.session.Messages(), 1)

	f.scheduler.Fire()

	// The cycle completes and new submissions work again
	require.NoError(t, f.session.Submit("third message"))
	assert.Len(t, f.session.Messages(), 3)
}

func TestSession_ProductFetchSuccess(t *testing.T) {
	f := newFixture(t)
	price := 499.99
	f.catalog.set([]catalog.Product{
		{ID: "p1", Name: "SwanSorter Pro", Price: &price},
		{ID: "p2", Name: "SwanSorter Lite"},
	}, nil)

	require.NoError(t, f.session.Submit("product"))
	f.scheduler.Fire()

	// The intro message and loading flag land in the submission cycle
	assert.True(t, f.session.State().IsLoadingProducts)

	require.Eventually(t, func() bool {
		return !f.session.State().IsLoadingProducts
	}, time.Second, 5*time.Millisecond)

	products := f.session.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "p1", products[0].ID)

	// No extra message on success
	assert.Len(t, f.session.Messages(), 2)
}

func TestSession_ProductFetchEmptyListIsNotAnError(t *testing.T) {
	f := newFixture(t)
	f.catalog.set([]catalog.Product{}, nil)

	require.NoError(t, f.session.Submit("product"))
	f.scheduler.Fire()

	require.Eventually(t, func() bool {
		return !f.session.State().IsLoadingProducts
	}, time.Second, 5*time.Millisecond)

	assert.Empty(t, f.session.Products())
	assert.Len(t, f.session.Messages(), 2)
}

func TestSession_ProductFetchFailure(t *testing.T) {
	f := newFixture(t)

	// Seed the cache with a successful fetch first
	f.catalog.set([]catalog.Product{{ID: "p1", Name: "SwanSorter Pro"}}, nil)
	require.NoError(t, f.session.Submit("product"))
	f.scheduler.Fire()
	require.Eventually(t, func() bool {
		return len(f.session.Products()) == 1
	}, time.Second, 5*time.Millisecond)

	// Now fail the next fetch
	f.catalog.set(nil, &catalog.NetworkError{Status: 503, Message: "Service Unavailable"})
	require.NoError(t, f.session.Submit("product again"))
	f.scheduler.Fire()

	require.Eventually(t, func() bool {
		return len(f.session.Messages()) == 5
	}, time.Second, 5*time.Millisecond)

	// Exactly one bot message reports the failure
	messages := f.session.Messages()
	last := messages[len(messages)-1]
	assert.Equal(t, MessageBot, last.Type)
	assert.Contains(t, last.Content, "503")

	// The previous products survive untouched
	assert.False(t, f.session.State().IsLoadingProducts)
	products := f.session.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}

func TestSession_NoOverlappingProductFetch(t *testing.T) {
	f := newFixture(t)
	gate := make(chan struct{})
	f.catalog.gate = gate
	f.catalog.set([]catalog.Product{{ID: "p1"}}, nil)

	require.NoError(t, f.session.Submit("product"))
	f.scheduler.Fire()
	assert.True(t, f.session.State().IsLoadingProducts)

	// A second product intent while the fetch is outstanding does not
	// start another request
	require.NoError(t, f.session.Submit("product please"))
	f.scheduler.Fire()

	close(gate)
	require.Eventually(t, func() bool {
		return !f.session.State().IsLoadingProducts
	}, time.Second, 5*time.Millisecond)

	f.catalog.mu.Lock()
	calls := f.catalog.calls
	f.catalog.mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestSession_EnquiryRoundTrip(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.Submit("I'd like to make an enquiry"))
	f.scheduler.Fire()

	state := f.session.State()
	assert.True(t, state.ShowEnquiryForm)
	// The form is an overlay: no transcript entry for opening it
	assert.Len(t, f.session.Messages(), 1)

	require.NoError(t, f.session.UpdateEnquiryField(enquiry.FieldName, "Ada Lovelace"))
	require.NoError(t, f.session.UpdateEnquiryField(enquiry.FieldEmail, "ada@example.com"))
	require.NoError(t, f.session.UpdateEnquiryField(enquiry.FieldPhone, "5551234567"))
	require.NoError(t, f.session.UpdateEnquiryField(enquiry.FieldMessage, "Tell me about the Pro model"))

	fieldErrors, err := f.session.SubmitEnquiry()
	require.NoError(t, err)
	assert.Empty(t, fieldErrors)

	// User summary appended immediately, form cleared and hidden
	messages := f.session.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, MessageUser, messages[1].Type)

	state = f.session.State()
	assert.False(t, state.ShowEnquiryForm)
	form, _ := f.session.Form()
	assert.Equal(t, enquiry.Form{}, form)

	f.scheduler.Fire()

	// Confirmation interpolates name and email
	messages = f.session.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, MessageBot, messages[2].Type)
	assert.Contains(t, messages[2].Content, "Ada Lovelace")
	assert.Contains(t, messages[2].Content, "ada@example.com")

	// The lead reaches the external sink
	require.Eventually(t, func() bool {
		return len(f.sink.all()) == 1
	}, time.Second, 5*time.Millisecond)
	submitted := f.sink.all()[0]
	assert.Equal(t, "Ada Lovelace", submitted.Name)
	assert.Equal(t, "ada@example.com", submitted.Email)
	assert.Equal(t, "5551234567", submitted.Phone)
}

func TestSession_EnquiryValidationKeepsFormOpen(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.Submit("enquiry"))
	f.scheduler.Fire()
	transcriptLen := len(f.session.Messages())

	fieldErrors, err := f.session.SubmitEnquiry()
	require.NoError(t, err)
	assert.Len(t, fieldErrors, 3)
	assert.Contains(t, fieldErrors, enquiry.FieldName)
	assert.Contains(t, fieldErrors, enquiry.FieldEmail)
	assert.Contains(t, fieldErrors, enquiry.FieldMessage)

	// Form stays visible, transcript untouched
	assert.True(t, f.session.State().ShowEnquiryForm)
	assert.Len(t, f.session.Messages(), transcriptLen)

	// Editing a field clears only that field's error
	require.NoError(t, f.session.UpdateEnquiryField(enquiry.FieldName, "Ada"))
	_, remaining := f.session.Form()
	assert.NotContains(t, remaining, enquiry.FieldName)
	assert.Contains(t, remaining, enquiry.FieldEmail)
	assert.Contains(t, remaining, enquiry.FieldMessage)
}

func TestSession_EnquiryFieldEdits(t *testing.T) {
	f := newFixture(t)

	// No form open yet
	err := f.session.UpdateEnquiryField(enquiry.FieldName, "Ada")
	assert.ErrorIs(t, err, ErrNoEnquiryForm)

	require.NoError(t, f.session.Submit("enquiry"))
	f.scheduler.Fire()

	err = f.session.UpdateEnquiryField("favorite_color", "green")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSession_CancelEnquiry(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.Submit("enquiry"))
	f.scheduler.Fire()
	require.NoError(t, f.session.UpdateEnquiryField(enquiry.FieldName, "Ada"))

	require.NoError(t, f.session.CancelEnquiry())

	state := f.session.State()
	assert.False(t, state.ShowEnquiryForm)
	form, fieldErrors := f.session.Form()
	assert.Equal(t, enquiry.Form{}, form)
	assert.Empty(t, fieldErrors)
}

func TestSession_LanguageSwitchViaChat(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.Submit("es"))
	f.scheduler.Fire()

	messages := f.session.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, MessageBot, messages[1].Type)
	assert.Contains(t, messages[1].Content, "Spanish")

	assert.Equal(t, "es", f.session.State().Language)

	// The preference is persisted for the visitor
	saved, err := f.store.Get("visitor-1")
	require.NoError(t, err)
	assert.Equal(t, "es", saved)

	// Later localized strings come from the Spanish table
	require.NoError(t, f.session.Submit("no entiendo nada de esto"))
	f.scheduler.Fire()
	messages = f.session.Messages()
	fallback := messages[len(messages)-1]
	assert.Contains(t, fallback.Content, "'Producto', 'Contacto', 'Consulta'")
}

func TestSession_SetLanguageRewritesLoneWelcome(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.SetOpen(true))
	f.scheduler.Fire()
	require.Len(t, f.session.Messages(), 1)

	require.NoError(t, f.session.SetLanguage("fr"))

	messages := f.session.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, i18n.Lookup("fr").Welcome, messages[0].Content)
	assert.Equal(t, "fr", f.session.State().Language)

	// With more than the welcome in the transcript, nothing is rewritten
	require.NoError(t, f.session.Submit("bonjour"))
	f.scheduler.Fire()
	transcriptLen := len(f.session.Messages())
	require.NoError(t, f.session.SetLanguage("en"))
	assert.Len(t, f.session.Messages(), transcriptLen)
}

func TestSession_SetLanguageRejectsUnsupported(t *testing.T) {
	f := newFixture(t)
	err := f.session.SetLanguage("de")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Equal(t, "en", f.session.State().Language)
}

func TestSession_RestoresPersistedLanguage(t *testing.T) {
	store := langstore.NewMemoryStore()
	require.NoError(t, store.Set("returning-visitor", "fr"))

	session := NewSession("returning-visitor", Options{
		Languages: store,
		Scheduler: &manualScheduler{},
		Logger:    zerolog.Nop(),
	})
	defer session.Dispose()

	assert.Equal(t, "fr", session.State().Language)
}

func TestSession_DisposeIgnoresLateCompletions(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.session.Submit("hello"))
	require.Len(t, f.session.Messages(), 1)

	f.session.Dispose()

	// The response timer fires after teardown and must not append
	f.scheduler.Fire()
	assert.Len(t, f.session.Messages(), 1)

	err := f.session.Submit("anyone there?")
	assert.ErrorIs(t, err, ErrSessionDisposed)
}

func TestSession_DisposeIgnoresLateFetch(t *testing.T) {
	f := newFixture(t)
	gate := make(chan struct{})
	f.catalog.gate = gate
	f.catalog.set([]catalog.Product{{ID: "p1"}}, nil)

	require.NoError(t, f.session.Submit("product"))
	f.scheduler.Fire()

	f.session.Dispose()
	close(gate)

	// Give the fetch goroutine a moment to resolve against the
	// disposed session
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, f.session.Products())
}

func TestSession_SubscriberReceivesEvents(t *testing.T) {
	f := newFixture(t)

	events, cancel := f.session.Subscribe()
	defer cancel()

	require.NoError(t, f.session.Submit("hello"))
	f.scheduler.Fire()

	var messageEvents, stateEvents int
	for drained := false; !drained; {
		select {
		case e := <-events:
			switch e.Type {
			case EventMessage:
				messageEvents++
			case EventState:
				stateEvents++
			}
		default:
			drained = true
		}
	}

	// One echo plus one response, with state flips around them
	assert.Equal(t, 2, messageEvents)
	assert.GreaterOrEqual(t, stateEvents, 2)
}

func TestSession_DisposeClosesSubscribers(t *testing.T) {
	f := newFixture(t)
	events, cancel := f.session.Subscribe()
	defer cancel()

	f.session.Dispose()

	_, open := <-events
	assert.False(t, open)
}
