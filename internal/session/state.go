// Package session tracks per-browser-session login state, keyed by a
// random id carried in a cookie. State lives in a Store, never in globals.
package session

import (
	"encoding/json"
	"time"
)

// State is the mutable login record of one session.
type State struct {
	logged     bool
	loginCount int
	lastLogin  *time.Time
}

// New returns the state of a session that has not logged in yet.
func New() *State { return &State{} }

func (s *State) Logged() bool { return s.logged }

func (s *State) LoginCount() int { return s.loginCount }

// LastLogin reports the last login time, if any.
func (s *State) LastLogin() (time.Time, bool) {
	if s.lastLogin == nil {
		return time.Time{}, false
	}
	return *s.lastLogin, true
}

func (s *State) SetLogged(v bool) { s.logged = v }

func (s *State) SetLastLogin(t time.Time) {
	t = t.UTC()
	s.lastLogin = &t
}

func (s *State) IncrementLoginCount() { s.loginCount++ }

type stateJSON struct {
	Logged     bool       `json:"logged"`
	LoginCount int        `json:"loginCount"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{Logged: s.logged, LoginCount: s.loginCount, LastLogin: s.lastLogin})
}

func (s *State) UnmarshalJSON(b []byte) error {
	var v stateJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	s.logged, s.loginCount, s.lastLogin = v.Logged, v.LoginCount, v.LastLogin
	return nil
}
