package workflow

import (
	"errors"
	"sync"

	"freight-posting/services/routecheck"

	"github.com/google/uuid"
)

// ErrSessionNotFound means the workflow id is unknown or already closed.
var ErrSessionNotFound = errors.New("workflow session not found")

// Deps are the shared collaborators every workflow instance uses. NewRoute
// is a factory because each session owns its own debounced validator.
type Deps struct {
	Posts     PostGateway
	Wallets   WalletGateway
	Contracts ContractGateway
	Geocoder  routecheck.Geocoder
	NewRoute  func() RouteValidator
}

// Manager tracks live workflow sessions by id. One user may run several
// sessions, but each session edits exactly one draft.
type Manager struct {
	mu       sync.RWMutex
	deps     Deps
	sessions map[string]*Orchestrator
}

func NewManager(deps Deps) *Manager {
	return &Manager{
		deps:     deps,
		sessions: make(map[string]*Orchestrator),
	}
}

// Start opens a new workflow session. A non-empty resumePostID resumes the
// activation of an existing post at the step its status dictates.
func (m *Manager) Start(userID uint, actor string, resumePostID string, resumeStep Step) (string, *Orchestrator, error) {
	cfg := Config{
		UserID:       userID,
		Actor:        actor,
		Posts:        m.deps.Posts,
		Wallets:      m.deps.Wallets,
		Contracts:    m.deps.Contracts,
		Geocoder:     m.deps.Geocoder,
		ResumePostID: resumePostID,
		ResumeStep:   resumeStep,
	}
	if m.deps.NewRoute != nil {
		cfg.Route = m.deps.NewRoute()
	}

	o := New(cfg)
	if resumePostID != "" {
		if err := o.Hydrate(); err != nil {
			o.Close()
			return "", nil, err
		}
	}

	id := uuid.New().String()
	m.mu.Lock()
	m.sessions[id] = o
	m.mu.Unlock()
	return id, o, nil
}

// Get returns the live session for id.
func (m *Manager) Get(id string) (*Orchestrator, error) {
	m.mu.RLock()
	o, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return o, nil
}

// Close tears down one session. Committed posts and payments stay committed.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	o, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	o.Close()
	return nil
}

// CloseAll tears down every live session, for server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, o := range m.sessions {
		o.Close()
		delete(m.sessions, id)
	}
}
