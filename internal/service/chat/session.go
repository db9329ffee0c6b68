package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iachat/chat-widget/internal/model/chat"
)

// DefaultTypingDelay paces successful replies so the typing indicator is visible.
const DefaultTypingDelay = time.Second

// ErrRequestInFlight is returned when a turn is sent while the previous one is still loading.
var ErrRequestInFlight = errors.New("a chat request is already in flight")

// Transport delivers one chat request to the remote API.
type Transport interface {
	Send(ctx context.Context, req chat.Request) (chat.Response, error)
}

// TransportFunc adapts a plain function to Transport.
type TransportFunc func(ctx context.Context, req chat.Request) (chat.Response, error)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, req chat.Request) (chat.Response, error) {
	return f(ctx, req)
}

// State is a point-in-time copy of the controller state.
type State struct {
	Identity chat.Identity
	Messages []chat.Turn
	Loading  bool
	IsTyping bool
}

// Option customises a Session.
type Option func(*Session)

// WithTypingDelay overrides the artificial delay applied before successful replies.
func WithTypingDelay(d time.Duration) Option {
	return func(s *Session) { s.typingDelay = d }
}

// WithClock overrides the time source used for turn timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the logger used for swallowed request failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// Session owns one message log and drives a single request per user turn.
type Session struct {
	transport   Transport
	typingDelay time.Duration
	now         func() time.Time
	logger      zerolog.Logger

	mu         sync.Mutex
	started    bool
	identity   chat.Identity
	generation uint64
	messages   []chat.Turn
	loading    bool
	typing     bool

	listenerMu   sync.Mutex
	listeners    map[int]func(State)
	nextListener int
}

// NewSession builds an idle controller. Call Start before sending turns.
func NewSession(transport Transport, opts ...Option) *Session {
	s := &Session{
		transport:   transport,
		typingDelay: DefaultTypingDelay,
		now:         time.Now,
		logger:      log.Logger,
		listeners:   make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start seeds the log with a greeting for the company and clears the busy flags.
// Replies still in flight for a previous identity are discarded when they land.
func (s *Session) Start(company, companyID string) {
	id := chat.Identity{Company: company, CompanyID: companyID}

	s.mu.Lock()
	s.started = true
	s.identity = id
	s.generation++
	s.messages = []chat.Turn{chat.NewTurn(chat.RoleAssistant, id.Greeting(), s.now())}
	s.loading = false
	s.typing = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// Reset restarts the session only when the identity actually changed.
// It reports whether a restart happened.
func (s *Session) Reset(company, companyID string) bool {
	s.mu.Lock()
	same := s.started && s.identity.Same(chat.Identity{Company: company, CompanyID: companyID})
	s.mu.Unlock()
	if same {
		return false
	}
	s.Start(company, companyID)
	return true
}

// SendMessage appends the user turn, calls the chat API and appends the reply.
//
// Transport failures never surface here: they become a fixed assistant turn.
// The only error is ErrRequestInFlight, returned without touching the log.
// Callers are expected to reject blank input before calling.
func (s *Session) SendMessage(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrRequestInFlight
	}
	gen := s.generation
	id := s.identity
	sentAt := s.now()
	s.messages = append(s.messages, chat.NewTurn(chat.RoleUser, text, sentAt))
	s.loading = true
	s.typing = true
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)

	resp, err := s.transport.Send(ctx, chat.NewRequest(id, text, sentAt))
	if err != nil {
		s.logger.Error().Err(err).Str("companyId", id.CompanyID).Msg("chat request failed")
		s.complete(gen, ErrorReply)
		return nil
	}

	if !resp.Success {
		s.logger.Warn().
			Str("companyId", id.CompanyID).
			Str("error", resp.Error).
			Msg("chat API flagged the reply as unsuccessful, rendering it anyway")
	}

	s.pause(ctx)
	s.complete(gen, ComposeReply(resp))
	return nil
}

// Clear empties the log without seeding a new greeting.
func (s *Session) Clear() {
	s.mu.Lock()
	s.messages = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// State returns a copy of the current controller state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Messages returns a copy of the message log.
func (s *Session) Messages() []chat.Turn {
	return s.State().Messages
}

// Loading reports whether a request is outstanding.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsTyping reports whether the typing indicator should be shown.
func (s *Session) IsTyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned function removes the listener.
func (s *Session) Subscribe(fn func(State)) func() {
	s.listenerMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

// complete appends the assistant turn and releases the busy flags,
// unless the session was restarted while the request was outstanding.
func (s *Session) complete(gen uint64, content string) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug().Msg("dropping reply for a restarted session")
		return
	}
	s.typing = false
	s.messages = append(s.messages, chat.NewTurn(chat.RoleAssistant, content, s.now()))
	s.loading = false
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Session) pause(ctx context.Context) {
	if s.typingDelay <= 0 {
		return
	}
	timer := time.NewTimer(s.typingDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (s *Session) snapshotLocked() State {
	messages := make([]chat.Turn, len(s.messages))
	copy(messages, s.messages)
	return State{
		Identity: s.identity,
		Messages: messages,
		Loading:  s.loading,
		IsTyping: s.typing,
	}
}

func (s *Session) notify(state State) {
	s.listenerMu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
