package authstate

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mephub/mephub/internal/client"
)

// fakeAPI scripts the session endpoints per test
type fakeAPI struct {
	checkAuthFn func(ctx context.Context) (*client.CheckAuthResult, error)
	loginFn     func(ctx context.Context, email, password string) (*client.User, error)
	registerFn  func(ctx context.Context, username, email, password string) (*client.User, error)
	logoutFn    func(ctx context.Context) error
}

func (f *fakeAPI) CheckAuth(ctx context.Context) (*client.CheckAuthResult, error) {
	if f.checkAuthFn != nil {
		return f.checkAuthFn(ctx)
	}
	return &client.CheckAuthResult{IsAuthenticated: false}, nil
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*client.User, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return nil, errors.New("login not scripted")
}

func (f *fakeAPI) Register(ctx context.Context, username, email, password string) (*client.User, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, username, email, password)
	}
	return nil, errors.New("register not scripted")
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	if f.logoutFn != nil {
		return f.logoutFn(ctx)
	}
	return nil
}

func adminUser() *client.User {
	return &client.User{ID: "u1", Username: "kamal", Email: "kamal@example.lk", UserType: client.UserTypeAdmin}
}

// checkInvariant asserts IsAuthenticated tracks User exactly
func checkInvariant(t *testing.T, snap Snapshot) {
	t.Helper()
	if snap.IsAuthenticated != (snap.User != nil) {
		t.Fatalf("invariant violated: isAuthenticated=%v user=%v", snap.IsAuthenticated, snap.User)
	}
}

func TestInitialStateIsInitializing(t *testing.T) {
	s := New(&fakeAPI{}, zerolog.Nop())

	snap := s.Snapshot()
	if !snap.Loading {
		t.Error("expected loading before Start")
	}
	if snap.User != nil || snap.IsAuthenticated {
		t.Error("expected anonymous fields before Start")
	}
	checkInvariant(t, snap)
}

func TestStartResolvesAnonymous(t *testing.T) {
	tests := []struct {
		name string
		fn   func(ctx context.Context) (*client.CheckAuthResult, error)
	}{
		{
			name: "server says unauthenticated",
			fn: func(ctx context.Context) (*client.CheckAuthResult, error) {
				return &client.CheckAuthResult{IsAuthenticated: false}, nil
			},
		},
		{
			name: "network error",
			fn: func(ctx context.Context) (*client.CheckAuthResult, error) {
				return nil, errors.New("connection refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeAPI{checkAuthFn: tt.fn}, zerolog.Nop())
			s.Start(context.Background())

			snap := s.Snapshot()
			if snap.Loading {
				t.Error("loading should be false after Start")
			}
			if snap.User != nil || snap.IsAuthenticated {
				t.Error("expected anonymous state")
			}
			checkInvariant(t, snap)
		})
	}
}

func TestStartResolvesAuthenticated(t *testing.T) {
	s := New(&fakeAPI{
		checkAuthFn: func(ctx context.Context) (*client.CheckAuthResult, error) {
			return &client.CheckAuthResult{IsAuthenticated: true, User: adminUser()}, nil
		},
	}, zerolog.Nop())
	s.Start(context.Background())

	snap := s.Snapshot()
	if snap.Loading {
		t.Error("loading should be false")
	}
	if !snap.IsAuthenticated || snap.User == nil {
		t.Fatal("expected authenticated state")
	}
	if snap.User.UserType != client.UserTypeAdmin {
		t.Errorf("user type = %q", snap.User.UserType)
	}
	checkInvariant(t, snap)
}

func TestStartRunsOnceAndLoadingNeverReturns(t *testing.T) {
	calls := 0
	s := New(&fakeAPI{
		checkAuthFn: func(ctx context.Context) (*client.CheckAuthResult, error) {
			calls++
			return &client.CheckAuthResult{IsAuthenticated: false}, nil
		},
		loginFn: func(ctx context.Context, email, password string) (*client.User, error) {
			return adminUser(), nil
		},
	}, zerolog.Nop())

	loadingFlips := 0
	s.Subscribe(func(snap Snapshot) {
		if !snap.Loading {
			return
		}
		loadingFlips++
	})

	s.Start(context.Background())
	s.Start(context.Background())
	s.Login(context.Background(), "kamal@example.lk", "password123")
	s.Logout(context.Background())

	if calls != 1 {
		t.Errorf("checkAuth ran %d times, want 1", calls)
	}
	if loadingFlips != 0 {
		t.Error("loading went back to true after resolving")
	}
	if s.Snapshot().Loading {
		t.Error("loading still true")
	}
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	s := New(&fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (*client.User, error) {
			return nil, &client.APIError{StatusCode: 401, Message: "Invalid credentials"}
		},
	}, zerolog.Nop())
	s.Start(context.Background())

	before := s.Snapshot()
	result := s.Login(context.Background(), "a@b.com", "wrong")

	if result.Success {
		t.Fatal("expected failure result")
	}
	if result.Message != "Invalid credentials" {
		t.Errorf("message = %q, want server message", result.Message)
	}
	if s.Snapshot() != before {
		t.Error("failed login mutated state")
	}
}

func TestLoginFailureDefaultMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"network error", errors.New("connection refused"), "Login failed"},
		{"non-2xx without message", &client.APIError{StatusCode: 500}, "Login failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeAPI{
				loginFn: func(ctx context.Context, email, password string) (*client.User, error) {
					return nil, tt.err
				},
			}, zerolog.Nop())

			result := s.Login(context.Background(), "a@b.com", "pw")
			if result.Success || result.Message != tt.want {
				t.Errorf("result = %+v, want failure with %q", result, tt.want)
			}
		})
	}
}

func TestLoginSuccessSetsUser(t *testing.T) {
	user := &client.User{ID: "1", UserType: client.UserTypeUser}
	s := New(&fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (*client.User, error) {
			return user, nil
		},
	}, zerolog.Nop())
	s.Start(context.Background())

	result := s.Login(context.Background(), "a@b.com", "correct")
	if !result.Success || result.User != user {
		t.Fatalf("result = %+v", result)
	}

	snap := s.Snapshot()
	if snap.User != user || !snap.IsAuthenticated {
		t.Error("store did not install the logged-in user")
	}
	checkInvariant(t, snap)
}

func TestRegisterDefaultMessage(t *testing.T) {
	s := New(&fakeAPI{
		registerFn: func(ctx context.Context, username, email, password string) (*client.User, error) {
			return nil, &client.APIError{StatusCode: 500}
		},
	}, zerolog.Nop())

	result := s.Register(context.Background(), "kamal", "a@b.com", "pw")
	if result.Success || result.Message != "Registration failed" {
		t.Errorf("result = %+v", result)
	}
}

func TestLogoutAlwaysClears(t *testing.T) {
	tests := []struct {
		name     string
		logoutFn func(ctx context.Context) error
	}{
		{"server acknowledges", func(ctx context.Context) error { return nil }},
		{"server unreachable", func(ctx context.Context) error { return errors.New("connection refused") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeAPI{
				checkAuthFn: func(ctx context.Context) (*client.CheckAuthResult, error) {
					return &client.CheckAuthResult{IsAuthenticated: true, User: adminUser()}, nil
				},
				logoutFn: tt.logoutFn,
			}, zerolog.Nop())
			s.Start(context.Background())

			s.Logout(context.Background())

			snap := s.Snapshot()
			if snap.User != nil || snap.IsAuthenticated {
				t.Error("logout left authenticated state behind")
			}
			checkInvariant(t, snap)

			decision := Decide(snap, false, "/member")
			if decision.Action != ActionRedirect {
				t.Error("guard should redirect after logout")
			}
		})
	}
}

func TestStaleLoginCannotResurrectSession(t *testing.T) {
	loginStarted := make(chan struct{})
	releaseLogin := make(chan struct{})

	s := New(&fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (*client.User, error) {
			close(loginStarted)
			<-releaseLogin
			return adminUser(), nil
		},
	}, zerolog.Nop())
	s.Start(context.Background())

	done := make(chan Result)
	go func() {
		done <- s.Login(context.Background(), "kamal@example.lk", "password123")
	}()

	// Log out while the login request is still in flight, then let the
	// login response land
	<-loginStarted
	s.Logout(context.Background())
	close(releaseLogin)
	<-done

	snap := s.Snapshot()
	if snap.User != nil || snap.IsAuthenticated {
		t.Error("stale login response resurrected a logged-out session")
	}
	checkInvariant(t, snap)
}

func TestSubscribersSeeEveryChange(t *testing.T) {
	s := New(&fakeAPI{
		loginFn: func(ctx context.Context, email, password string) (*client.User, error) {
			return adminUser(), nil
		},
	}, zerolog.Nop())

	var seen []Snapshot
	unsubscribe := s.Subscribe(func(snap Snapshot) {
		seen = append(seen, snap)
	})

	s.Start(context.Background())
	s.Login(context.Background(), "kamal@example.lk", "password123")

	if len(seen) != 2 {
		t.Fatalf("saw %d notifications, want 2", len(seen))
	}
	for _, snap := range seen {
		checkInvariant(t, snap)
	}
	if seen[0].Loading || seen[0].IsAuthenticated {
		t.Error("first notification should be resolved anonymous state")
	}
	if !seen[1].IsAuthenticated {
		t.Error("second notification should be authenticated state")
	}

	unsubscribe()
	s.Logout(context.Background())
	if len(seen) != 2 {
		t.Error("unsubscribed observer was notified")
	}
}
