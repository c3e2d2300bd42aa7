// Package authstate holds the client-side view of "who is logged in": a
// single observable store fed by the session endpoints, plus the route
// guard that turns its snapshots into access decisions.
package authstate

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mephub/mephub/internal/client"
)

// SessionAPI is the slice of the API client the store depends on
type SessionAPI interface {
	CheckAuth(ctx context.Context) (*client.CheckAuthResult, error)
	Login(ctx context.Context, email, password string) (*client.User, error)
	Register(ctx context.Context, username, email, password string) (*client.User, error)
	Logout(ctx context.Context) error
}

// Snapshot is an immutable view of the session state. IsAuthenticated is
// true exactly when User is non-nil; Loading is true only until the initial
// auth check resolves and never again after that.
type Snapshot struct {
	User            *client.User
	IsAuthenticated bool
	Loading         bool
}

// Result is the outcome of a Login or Register call. On failure Message
// holds the server's message when it sent one, else the operation default.
type Result struct {
	Success bool
	User    *client.User
	Message string
}

// Store is the single source of truth for the logged-in identity. Construct
// one instance at startup and pass it to whatever needs it; there is
// deliberately no package-level instance.
type Store struct {
	api    SessionAPI
	logger zerolog.Logger

	mu          sync.Mutex
	snap        Snapshot
	seq         uint64
	startOnce   sync.Once
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

// New creates a store in the Initializing state (Loading true, no user)
func New(api SessionAPI, logger zerolog.Logger) *Store {
	return &Store{
		api:         api,
		logger:      logger,
		snap:        Snapshot{Loading: true},
		subscribers: map[int]func(Snapshot){},
	}
}

// Snapshot returns the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn to run on every state change and returns an
// unsubscribe function. fn is called outside the store's lock.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Start runs the initial auth check, exactly once. Any failure resolves to
// the anonymous state; the terminal step flips Loading to false and nothing
// ever flips it back.
func (s *Store) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		seq := s.begin()

		result, err := s.api.CheckAuth(ctx)

		s.apply(seq, func(snap *Snapshot) {
			if err == nil && result.IsAuthenticated && result.User != nil {
				snap.User = result.User
				snap.IsAuthenticated = true
			} else {
				snap.User = nil
				snap.IsAuthenticated = false
			}
			snap.Loading = false
		})
		if err != nil {
			s.logger.Debug().Err(err).Msg("Auth check failed, treating as anonymous")
		}
	})
}

// Login authenticates and, on success, installs the returned user. Failures
// never reach the caller as errors; they come back in the Result.
func (s *Store) Login(ctx context.Context, email, password string) Result {
	seq := s.begin()

	user, err := s.api.Login(ctx, email, password)
	if err != nil {
		return Result{Success: false, Message: failureMessage(err, "Login failed")}
	}

	s.apply(seq, func(snap *Snapshot) {
		snap.User = user
		snap.IsAuthenticated = true
	})
	return Result{Success: true, User: user}
}

// Register creates an account and, on success, installs the returned user
func (s *Store) Register(ctx context.Context, username, email, password string) Result {
	seq := s.begin()

	user, err := s.api.Register(ctx, username, email, password)
	if err != nil {
		return Result{Success: false, Message: failureMessage(err, "Registration failed")}
	}

	s.apply(seq, func(snap *Snapshot) {
		snap.User = user
		snap.IsAuthenticated = true
	})
	return Result{Success: true, User: user}
}

// Logout clears the client state unconditionally. The server call is best
// effort: a dead server cannot keep this client logged in, and the session
// row still expires on its own.
func (s *Store) Logout(ctx context.Context) {
	seq := s.begin()

	err := s.api.Logout(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Server logout failed, clearing local session anyway")
	}

	s.apply(seq, func(snap *Snapshot) {
		snap.User = nil
		snap.IsAuthenticated = false
	})
}

// begin stamps a mutation attempt with the next sequence number
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// apply installs a mutation unless a newer one has started since seq was
// taken, in which case the stale response is dropped on the floor. This
// keeps a slow login from resurrecting a session the user already ended.
func (s *Store) apply(seq uint64, mutate func(*Snapshot)) bool {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		s.logger.Debug().Uint64("seq", seq).Msg("Discarding stale session mutation")
		return false
	}

	mutate(&s.snap)
	snap := s.snap
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return true
}

// failureMessage prefers the server-provided message over the operation's
// default wording
func failureMessage(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
