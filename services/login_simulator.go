// File: services/login_simulator.go
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"zerosync-web/logger"
	"zerosync-web/models"
)

var (
	// ErrLoginPending is returned when a login is triggered while one is in flight.
	ErrLoginPending = errors.New("login already pending")
	// ErrAlreadyAuthenticated is returned when an authenticated visitor triggers login.
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	// ErrNotPending is returned when cancelling with no login in flight.
	ErrNotPending = errors.New("no pending login")
)

// DefaultProfile is the fixed identity every simulated login produces.
var DefaultProfile = models.Profile{
	Name:   "Citizen_Sync",
	Avatar: "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?auto=format&fit=crop&q=80&w=100&h=100",
}

// SessionNotifier is told whenever a visitor's session changes state.
type SessionNotifier interface {
	NotifySession(visitorID string, session models.Session)
}

// LoginSimulatorInterface is the session state machine as the controllers see it.
type LoginSimulatorInterface interface {
	BeginLogin(visitorID string) (<-chan models.Profile, error)
	CancelLogin(visitorID string) error
	Logout(visitorID string)
	Session(visitorID string) models.Session
	Touch(visitorID string)
}

type visitorState struct {
	session  models.Session
	cancel   context.CancelFunc
	attempt  int
	lastSeen time.Time
}

// LoginSimulator runs the cosmetic "login with game client" flow:
// anonymous → pending → authenticated after a fixed delay, with no
// verification and no failure path. State lives in memory only.
type LoginSimulator struct {
	mu       sync.Mutex
	root     context.Context
	visitors map[string]*visitorState
	delay    time.Duration
	profile  models.Profile
	notifier SessionNotifier
	now      func() time.Time
}

var _ LoginSimulatorInterface = (*LoginSimulator)(nil)

// NewLoginSimulator creates a simulator whose pending logins are cancelled
// when root is done. notifier may be nil.
func NewLoginSimulator(root context.Context, delay time.Duration, notifier SessionNotifier) *LoginSimulator {
	return &LoginSimulator{
		root:     root,
		visitors: make(map[string]*visitorState),
		delay:    delay,
		profile:  DefaultProfile,
		notifier: notifier,
		now:      time.Now,
	}
}

// SetNotifier swaps the notifier; main wires the websocket hub after both exist.
func (s *LoginSimulator) SetNotifier(n SessionNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// BeginLogin moves the visitor to pending and starts the delay. The returned
// channel receives the profile once authenticated and is then closed; it is
// closed without a value if the attempt is cancelled.
func (s *LoginSimulator) BeginLogin(visitorID string) (<-chan models.Profile, error) {
	s.mu.Lock()
	v := s.visitorLocked(visitorID)
	switch v.session.State {
	case models.StatePending:
		s.mu.Unlock()
		return nil, ErrLoginPending
	case models.StateAuthenticated:
		s.mu.Unlock()
		return nil, ErrAlreadyAuthenticated
	}

	ctx, cancel := context.WithCancel(s.root)
	v.attempt++
	attempt := v.attempt
	v.cancel = cancel
	v.session = models.Session{State: models.StatePending}
	notifier := s.notifier
	s.mu.Unlock()

	logger.Info.Printf("[BeginLogin] visitor=%s attempt=%d pending for %v", visitorID, attempt, s.delay)
	notify(notifier, visitorID, models.Session{State: models.StatePending})

	result := make(chan models.Profile, 1)
	go s.complete(ctx, visitorID, attempt, result)
	return result, nil
}

// complete waits out the delay, then authenticates unless the attempt was
// cancelled or superseded in the meantime.
func (s *LoginSimulator) complete(ctx context.Context, visitorID string, attempt int, result chan<- models.Profile) {
	defer close(result)

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.mu.Lock()
		v, ok := s.visitors[visitorID]
		reverted := ok && v.attempt == attempt && v.session.State == models.StatePending
		if reverted {
			v.session = models.Session{State: models.StateAnonymous}
			v.cancel = nil
		}
		notifier := s.notifier
		s.mu.Unlock()
		if reverted {
			logger.Info.Printf("[complete] visitor=%s attempt=%d cancelled: %v", visitorID, attempt, ctx.Err())
			notify(notifier, visitorID, models.Session{State: models.StateAnonymous})
		}
		return
	case <-timer.C:
	}

	s.mu.Lock()
	v, ok := s.visitors[visitorID]
	if !ok || v.attempt != attempt || v.session.State != models.StatePending {
		s.mu.Unlock()
		logger.Debug.Printf("[complete] visitor=%s attempt=%d superseded", visitorID, attempt)
		return
	}
	profile := s.profile
	v.session = models.Session{State: models.StateAuthenticated, Profile: &profile}
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	notifier := s.notifier
	s.mu.Unlock()

	logger.Info.Printf("[complete] visitor=%s authenticated as %s", visitorID, profile.Name)
	notify(notifier, visitorID, models.Session{State: models.StateAuthenticated, Profile: &profile})
	result <- profile
}

// CancelLogin aborts a pending login and returns the visitor to anonymous.
func (s *LoginSimulator) CancelLogin(visitorID string) error {
	s.mu.Lock()
	v, ok := s.visitors[visitorID]
	if !ok || v.session.State != models.StatePending {
		s.mu.Unlock()
		return ErrNotPending
	}
	s.resetLocked(v)
	notifier := s.notifier
	s.mu.Unlock()

	logger.Info.Printf("[CancelLogin] visitor=%s pending login cancelled", visitorID)
	notify(notifier, visitorID, models.Session{State: models.StateAnonymous})
	return nil
}

// Logout clears the session immediately. Safe to call in any state.
func (s *LoginSimulator) Logout(visitorID string) {
	s.mu.Lock()
	v, ok := s.visitors[visitorID]
	if !ok || v.session.State == models.StateAnonymous {
		s.mu.Unlock()
		return
	}
	s.resetLocked(v)
	notifier := s.notifier
	s.mu.Unlock()

	logger.Info.Printf("[Logout] visitor=%s logged out", visitorID)
	notify(notifier, visitorID, models.Session{State: models.StateAnonymous})
}

// Session returns a snapshot; unknown visitors are anonymous.
func (s *LoginSimulator) Session(visitorID string) models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[visitorID]
	if !ok {
		return models.Session{State: models.StateAnonymous}
	}
	snapshot := models.Session{State: v.session.State}
	if v.session.Profile != nil {
		p := *v.session.Profile
		snapshot.Profile = &p
	}
	return snapshot
}

// Touch records activity for a tracked visitor.
func (s *LoginSimulator) Touch(visitorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.visitors[visitorID]; ok {
		v.lastSeen = s.now()
	}
}

// Sweep forgets visitors idle for longer than idle, cancelling any pending
// login they still hold. It returns how many were removed.
func (s *LoginSimulator) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, v := range s.visitors {
		if s.now().Sub(v.lastSeen) > idle {
			if v.cancel != nil {
				v.cancel()
			}
			delete(s.visitors, id)
			removed++
		}
	}
	if removed > 0 {
		logger.Info.Printf("[Sweep] removed %d idle visitors (timeout=%v)", removed, idle)
	}
	return removed
}

// ActiveVisitors is the number of visitors with tracked state.
func (s *LoginSimulator) ActiveVisitors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visitors)
}

func (s *LoginSimulator) visitorLocked(visitorID string) *visitorState {
	v, ok := s.visitors[visitorID]
	if !ok {
		v = &visitorState{}
		s.visitors[visitorID] = v
	}
	v.lastSeen = s.now()
	return v
}

// resetLocked returns v to anonymous and invalidates any running attempt.
func (s *LoginSimulator) resetLocked(v *visitorState) {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.attempt++
	v.session = models.Session{State: models.StateAnonymous}
}

func notify(n SessionNotifier, visitorID string, session models.Session) {
	if n != nil {
		n.NotifySession(visitorID, session)
	}
}
