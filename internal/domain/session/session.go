// Package session holds the storefront's thin authentication state: a user
// id and user type persisted to durable storage so a reload still reflects
// the logged-in identity. There is no token refresh or expiry: the session
// is authenticated for as long as the durable markers exist, a deliberate
// simplification for a low-assurance storefront.
package session

import (
	"context"
	"strings"

	"github.com/go-faster/errors"

	"github.com/gmoliveira/pizzaria-storefront/internal/storage/kv"
)

// UserType distinguishes the two UI branches the storefront renders.
type UserType string

const (
	UserTypeCustomer UserType = "CUSTOMER"
	UserTypeEmployee UserType = "EMPLOYEE"
)

// ErrUnknownUserType is returned for an unrecognized user type marker.
var ErrUnknownUserType = errors.New("unknown user type")

// ParseUserType normalizes a user type, accepting both canonical forms and
// the backend's Portuguese spellings.
func ParseUserType(s string) (UserType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CUSTOMER", "CLIENTE":
		return UserTypeCustomer, nil
	case "EMPLOYEE", "FUNCIONARIO":
		return UserTypeEmployee, nil
	default:
		return "", errors.Wrapf(ErrUnknownUserType, "%q", s)
	}
}

// Session is the authenticated identity for one storefront session. The zero
// value is the unauthenticated session.
type Session struct {
	UserID        string
	UserType      UserType
	Authenticated bool
}

// Manager owns the session lifecycle: restore from durable storage, set on
// login, clear on logout. Sessions are never partially updated: login writes
// all markers or none, logout clears everything unconditionally.
type Manager struct {
	kv kv.Store
}

// NewManager returns a Manager over the given key-value store.
func NewManager(store kv.Store) *Manager {
	return &Manager{kv: store}
}

func userIDKey(sessionID string) string   { return "session:" + sessionID + ":user_id" }
func userTypeKey(sessionID string) string { return "session:" + sessionID + ":user_type" }

// Current restores the session from durable storage. Missing or unreadable
// markers yield the unauthenticated session, never an error: an anonymous
// visitor is a valid state.
func (m *Manager) Current(ctx context.Context, sessionID string) Session {
	id, err := m.kv.Get(ctx, userIDKey(sessionID))
	if err != nil || len(id) == 0 {
		return Session{}
	}
	rawType, err := m.kv.Get(ctx, userTypeKey(sessionID))
	if err != nil {
		return Session{}
	}
	ut, err := ParseUserType(string(rawType))
	if err != nil {
		return Session{}
	}
	return Session{UserID: string(id), UserType: ut, Authenticated: true}
}

// Login persists the identity returned by a successful backend login and
// returns the resulting session. If the second marker cannot be written the
// first is rolled back so the session never ends up half-authenticated.
func (m *Manager) Login(ctx context.Context, sessionID, userID string, userType UserType) (Session, error) {
	if err := m.kv.Set(ctx, userIDKey(sessionID), []byte(userID)); err != nil {
		return Session{}, errors.Wrap(err, "persist user id")
	}
	if err := m.kv.Set(ctx, userTypeKey(sessionID), []byte(userType)); err != nil {
		_ = m.kv.Delete(ctx, userIDKey(sessionID))
		return Session{}, errors.Wrap(err, "persist user type")
	}
	return Session{UserID: userID, UserType: userType, Authenticated: true}, nil
}

// Logout clears both markers unconditionally. No backend round-trip is
// required to invalidate the session.
func (m *Manager) Logout(ctx context.Context, sessionID string) {
	_ = m.kv.Delete(ctx, userIDKey(sessionID))
	_ = m.kv.Delete(ctx, userTypeKey(sessionID))
}
