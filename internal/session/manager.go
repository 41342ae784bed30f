package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	CookieName = "funkos_session"

	// DefaultTTL is the inactivity window after which a session expires.
	DefaultTTL = 30 * time.Minute

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Manager binds states to requests through the session cookie and
// serializes updates of the same session.
type Manager struct {
	store  Store
	ttl    time.Duration
	secure bool

	mu    sync.Mutex
	locks map[string]*idLock
}

type idLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(store Store, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl, secure: secure, locks: make(map[string]*idLock)}
}

// Current returns the request's session state, or a fresh one when the
// request has no live session. It never creates a session.
func (m *Manager) Current(ctx context.Context, r *http.Request) (*State, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return New(), nil
	}
	s, ok, err := m.store.Load(ctx, c.Value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return New(), nil
	}
	return s, nil
}

// Update applies fn to the request's session under the session lock and
// saves it, starting a new session (and setting the cookie) when needed.
func (m *Manager) Update(ctx context.Context, w http.ResponseWriter, r *http.Request, fn func(*State)) (*State, error) {
	id := ""
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		id = c.Value
	}

	if id != "" {
		unlock := m.lock(id)
		defer unlock()
	}

	var s *State
	if id != "" {
		loaded, ok, err := m.store.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			s = loaded
		}
	}
	if s == nil {
		newID, err := generateID()
		if err != nil {
			return nil, fmt.Errorf("session create: %w", err)
		}
		id = newID
		s = New()
	}

	fn(s)
	if err := m.store.Save(ctx, id, s, m.ttl); err != nil {
		return nil, err
	}
	m.setCookie(w, id, int(m.ttl.Seconds()))
	return s, nil
}

// Destroy removes the session and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	unlock := m.lock(c.Value)
	defer unlock()
	if err := m.store.Delete(ctx, c.Value); err != nil {
		return err
	}
	m.setCookie(w, "", -1)
	return nil
}

func (m *Manager) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &idLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
