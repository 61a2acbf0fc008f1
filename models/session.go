// File: models/session.go
package models

// SessionState is where a visitor sits in the simulated game-client login.
type SessionState int

const (
	StateAnonymous SessionState = iota
	StatePending
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StatePending:
		return "pending"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// MarshalText lets the state appear by name in JSON.
func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Profile is the cosmetic identity shown after the simulated login.
type Profile struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Session is a snapshot of one visitor's login state.
// Profile is non-nil exactly when State is StateAuthenticated.
type Session struct {
	State   SessionState `json:"state"`
	Profile *Profile     `json:"profile,omitempty"`
}

// Pending reports whether a login is in flight.
func (s Session) Pending() bool { return s.State == StatePending }

// Authenticated reports whether a profile is present.
func (s Session) Authenticated() bool { return s.State == StateAuthenticated && s.Profile != nil }
