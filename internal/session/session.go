// Package session holds the acting user and the editing guard as an
// explicit object passed to whoever needs it, instead of ambient globals.
// That keeps the engine and pollers testable with a session of their own.
package session

import (
	"crypto/subtle"
	"sync"

	"github.com/renovadesk/renova/internal/common"
	"github.com/renovadesk/renova/internal/model"
)

// Session tracks who is logged in and whether an edit is in progress.
type Session struct {
	mu            sync.RWMutex
	user          model.User
	authenticated bool
	editing       bool
}

// New creates an unauthenticated session.
func New() *Session {
	return &Session{}
}

// Login validates credentials against the given user list. Only Active users
// participate. Failure leaves the session untouched.
func (s *Session) Login(users []model.User, username, password string) error {
	for _, u := range users {
		if !u.IsActive() || u.Username != username {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(u.PasswordSecret), []byte(password)) == 1 {
			s.mu.Lock()
			s.user = u
			s.authenticated = true
			s.mu.Unlock()
			return nil
		}
		break
	}
	return common.NewUserError("usuário ou senha incorretos", common.ErrAuthFailed)
}

// Resume restores an authenticated session for a previously logged-in
// username, typically from the local cache after a restart. It reports
// whether the username still resolves to an Active user.
func (s *Session) Resume(users []model.User, username string) bool {
	if username == "" {
		return false
	}
	for _, u := range users {
		if u.IsActive() && u.Username == username {
			s.mu.Lock()
			s.user = u
			s.authenticated = true
			s.mu.Unlock()
			return true
		}
	}
	return false
}

// Logout clears the session.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = model.User{}
	s.authenticated = false
}

// User returns the acting user and whether anyone is logged in.
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.authenticated
}

// SetEditing flips the editing guard. Pollers consult Editing before each
// tick and suspend refreshes while it is set.
func (s *Session) SetEditing(editing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = editing
}

// Editing reports whether an edit is in progress.
func (s *Session) Editing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editing
}
