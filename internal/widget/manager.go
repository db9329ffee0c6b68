// Package widget is the embedding surface of the chat widget: configuration
// layering, the single mounted widget per page and its styling.
package widget

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	chatservice "github.com/iachat/chat-widget/internal/service/chat"
)

// ErrEmptyMessage is returned by Mount.Send for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// TransportFactory builds the chat transport for a resolved endpoint.
type TransportFactory func(endpoint string) chatservice.Transport

// ManagerOption customises a Manager.
type ManagerOption func(*Manager)

// WithTransportFactory replaces the default HTTP transport.
func WithTransportFactory(fn TransportFactory) ManagerOption {
	return func(m *Manager) { m.newTransport = fn }
}

// WithSessionOptions forwards options to every session the manager starts.
func WithSessionOptions(opts ...chatservice.Option) ManagerOption {
	return func(m *Manager) { m.sessionOpts = append(m.sessionOpts, opts...) }
}

// WithLogger sets the manager logger.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// Manager owns at most one mounted widget.
type Manager struct {
	origin       string
	newTransport TransportFactory
	sessionOpts  []chatservice.Option
	logger       zerolog.Logger

	mu    sync.Mutex
	mount *Mount
}

// NewManager creates a manager for a page served from origin.
func NewManager(origin string, opts ...ManagerOption) *Manager {
	m := &Manager{
		origin: origin,
		newTransport: func(endpoint string) chatservice.Transport {
			return chatservice.NewHTTPTransport(endpoint, nil)
		},
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init mounts the widget. Configuration is layered explicit > dataset > defaults.
// When a widget is already mounted nothing changes: the existing mount is
// returned and a warning is logged.
func (m *Manager) Init(explicit Config, dataset map[string]string) *Mount {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mount != nil {
		m.logger.Warn().Str("container", ContainerID).Msg("IA Chat Widget ya está inicializado")
		return m.mount
	}

	cfg := Merge(explicit, ConfigFromDataset(dataset), Defaults())
	endpoint := chatservice.Endpoint(cfg.APIURL, m.origin)
	session := chatservice.NewSession(m.newTransport(endpoint), m.sessionOpts...)
	session.Start(cfg.Company, cfg.CompanyID)

	m.mount = &Mount{
		ID:       uuid.NewString(),
		Config:   cfg,
		Endpoint: endpoint,
		Session:  session,
	}
	m.logger.Info().
		Str("mount", m.mount.ID).
		Str("company", cfg.Company).
		Str("endpoint", endpoint).
		Msg("widget mounted")
	return m.mount
}

// Destroy unmounts the widget. It is safe to call when nothing is mounted.
func (m *Manager) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.mount == nil {
		return
	}
	m.logger.Info().Str("mount", m.mount.ID).Msg("widget destroyed")
	m.mount = nil
}

// Current returns the mounted widget, or nil.
func (m *Manager) Current() *Mount {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mount
}

// Mount is one mounted widget: merged config plus its chat session.
type Mount struct {
	ID       string
	Config   Config
	Endpoint string
	Session  *chatservice.Session

	mu   sync.Mutex
	open bool
}

// Toggle opens or closes the chat window and reports the new state.
func (mt *Mount) Toggle() bool {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.open = !mt.open
	return mt.open
}

// Close hides the chat window.
func (mt *Mount) Close() {
	mt.mu.Lock()
	mt.open = false
	mt.mu.Unlock()
}

// IsOpen reports whether the chat window is shown.
func (mt *Mount) IsOpen() bool {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	return mt.open
}

// Send applies the input gate of the chat window before handing the text to
// the session: blank input and input while loading are refused.
func (mt *Mount) Send(ctx context.Context, input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyMessage
	}
	if mt.Session.Loading() {
		return chatservice.ErrRequestInFlight
	}
	return mt.Session.SendMessage(ctx, input)
}
