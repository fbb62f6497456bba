// Package session holds the state of one studio page: the flyer form, what
// is visible, the buttons and the results of the last operations. Every
// mutation happens under the session mutex; backend calls run outside it.
package session

import (
	"context"
	"html/template"
	"sync"
	"time"

	"github.com/sanathboddhula/real-estate-AI-marketer/flyerapi"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/debounce"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/events"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/form"
	"github.com/sanathboddhula/real-estate-AI-marketer/internal/render"
)

// Backend is the flyer API. *flyerapi.Client satisfies it.
type Backend interface {
	LookupProperty(ctx context.Context, address string) (*flyerapi.PropertyData, error)
	ParseListing(ctx context.Context, listingURL string) (*flyerapi.PropertyData, error)
	GenerateFlyer(ctx context.Context, in flyerapi.FlyerRequest) (*flyerapi.GenerationResult, error)
	GenerateContent(ctx context.Context, ep flyerapi.Endpoint, address string) (*flyerapi.AIResult, error)
	EmailFlyer(ctx context.Context, in flyerapi.EmailRequest) (*flyerapi.EmailResult, error)
}

// LookupCache sits in front of background lookups. fetch is called on a
// cache miss.
type LookupCache interface {
	Lookup(ctx context.Context, address string, fetch func(context.Context) (*flyerapi.PropertyData, error)) (*flyerapi.PropertyData, error)
}

type Options struct {
	Backend Backend
	// Cache and Events are optional.
	Cache  LookupCache
	Events events.Publisher
	// Scheduler drives the lookup debouncer; nil uses the wall clock.
	Scheduler debounce.Scheduler

	Debounce        time.Duration
	MinLookupLength int
	RequestTimeout  time.Duration
	GenerateTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = time.Second
	}
	if o.MinLookupLength <= 0 {
		o.MinLookupLength = 10
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 30 * time.Second
	}
	if o.GenerateTimeout <= 0 {
		o.GenerateTimeout = 120 * time.Second
	}
	return o
}

// Visibility flags are independent of each other.
type Visibility struct {
	Loading         bool `json:"loading"`
	AIStatus        bool `json:"ai_status"`
	Error           bool `json:"error"`
	Results         bool `json:"results"`
	PropertyDisplay bool `json:"property_display"`
	AIResults       bool `json:"ai_results"`
}

type SubmitState string

const (
	Idle       SubmitState = "idle"
	Submitting SubmitState = "submitting"
	Succeeded  SubmitState = "success"
	Failed     SubmitState = "failed"
)

// Notice is a one-off message for the user, the equivalent of an alert.
type Notice struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

type Session struct {
	id        string
	opts      Options
	debouncer *debounce.Debouncer
	ctx       context.Context
	cancel    context.CancelFunc

	mu       sync.Mutex
	form     *form.State
	vis      Visibility
	controls map[ControlID]*Control
	notice   *Notice
	errText  string

	loaded      *flyerapi.PropertyData
	importEpoch uint64

	submitState SubmitState
	lastSubmit  SubmitState
	image       string
	flyerPath   string
	insights    render.Insights

	aiTitle  string
	sections []render.Section

	propertyInfo template.HTML
	results      template.HTML
	aiResults    template.HTML

	lastSeen time.Time
}

// New creates a session. Close releases its timer and background work.
func New(id string, opts Options) *Session {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:          id,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		form:        form.New(),
		controls:    make(map[ControlID]*Control, len(controlOrder)),
		submitState: Idle,
		lastSubmit:  Idle,
		lastSeen:    time.Now(),
	}
	for _, id := range controlOrder {
		s.controls[id] = &Control{ID: id, Label: defaultLabels[id]}
	}
	s.debouncer = debounce.New(opts.Debounce, opts.Scheduler, s.lookup)
	return s
}

func (s *Session) ID() string { return s.id }

// Close cancels the pending lookup and any in-flight background request.
func (s *Session) Close() {
	s.debouncer.Stop()
	s.cancel()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// View is a snapshot of everything the page shows.
type View struct {
	SessionID    string           `json:"session_id"`
	Form         form.Snapshot    `json:"form"`
	Visibility   Visibility       `json:"visibility"`
	Controls     []Control        `json:"controls"`
	Notice       *Notice          `json:"notice,omitempty"`
	ErrorText    string           `json:"error_text,omitempty"`
	SubmitState  SubmitState      `json:"submit_state"`
	LastSubmit   SubmitState      `json:"last_submit"`
	PropertyInfo template.HTML    `json:"property_info,omitempty"`
	Image        string           `json:"image,omitempty"`
	FlyerPath    string           `json:"flyer_path,omitempty"`
	Insights     *render.Insights `json:"insights,omitempty"`
	Results      template.HTML    `json:"results,omitempty"`
	AITitle      string           `json:"ai_title,omitempty"`
	Sections     []render.Section `json:"sections,omitempty"`
	AIResults    template.HTML    `json:"ai_results,omitempty"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		SessionID:    s.id,
		Form:         s.form.Snapshot(),
		Visibility:   s.vis,
		Controls:     make([]Control, 0, len(controlOrder)),
		ErrorText:    s.errText,
		SubmitState:  s.submitState,
		LastSubmit:   s.lastSubmit,
		PropertyInfo: s.propertyInfo,
		Image:        s.image,
		FlyerPath:    s.flyerPath,
		Results:      s.results,
		AITitle:      s.aiTitle,
		Sections:     append([]render.Section(nil), s.sections...),
		AIResults:    s.aiResults,
	}
	for _, id := range controlOrder {
		v.Controls = append(v.Controls, *s.controls[id])
	}
	if s.notice != nil {
		n := *s.notice
		v.Notice = &n
	}
	if !s.insights.Empty() {
		in := s.insights
		v.Insights = &in
	}
	return v
}

// Control returns the current state of one button.
func (s *Session) Control(id ControlID) (Control, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.controls[id]
	if !ok {
		return Control{}, false
	}
	return *c, true
}

// DismissNotice clears the pending notice once the page has shown it.
func (s *Session) DismissNotice() {
	s.mu.Lock()
	s.notice = nil
	s.mu.Unlock()
}

// setNotice requires s.mu.
func (s *Session) setNotice(level, text string) {
	s.notice = &Notice{Level: level, Text: text}
}
