package authstate

import (
	"testing"

	"github.com/mephub/mephub/internal/client"
)

func TestDecide(t *testing.T) {
	admin := &client.User{ID: "a1", UserType: client.UserTypeAdmin}
	member := &client.User{ID: "m1", UserType: client.UserTypeUser}
	unknown := &client.User{ID: "x1", UserType: "superuser"}

	tests := []struct {
		name       string
		snap       Snapshot
		adminOnly  bool
		path       string
		wantAction Action
		wantTarget string
	}{
		{
			name:       "loading suppresses any decision",
			snap:       Snapshot{Loading: true},
			adminOnly:  true,
			path:       "/admin/projects",
			wantAction: ActionPending,
		},
		{
			name:       "anonymous redirects to login with return path",
			snap:       Snapshot{},
			path:       "/admin/projects",
			wantAction: ActionRedirect,
			wantTarget: "/login?redirect=%2Fadmin%2Fprojects",
		},
		{
			name:       "anonymous without path still reaches login",
			snap:       Snapshot{},
			wantAction: ActionRedirect,
			wantTarget: "/login",
		},
		{
			name:       "member allowed into member area",
			snap:       Snapshot{User: member, IsAuthenticated: true},
			path:       "/member",
			wantAction: ActionAllow,
		},
		{
			name:       "member bounced from admin area to home",
			snap:       Snapshot{User: member, IsAuthenticated: true},
			adminOnly:  true,
			path:       "/admin/projects",
			wantAction: ActionRedirect,
			wantTarget: "/",
		},
		{
			name:       "admin allowed into admin area",
			snap:       Snapshot{User: admin, IsAuthenticated: true},
			adminOnly:  true,
			path:       "/admin/projects",
			wantAction: ActionAllow,
		},
		{
			name:       "unknown role never passes admin gate",
			snap:       Snapshot{User: unknown, IsAuthenticated: true},
			adminOnly:  true,
			path:       "/admin/projects",
			wantAction: ActionRedirect,
			wantTarget: "/",
		},
		{
			name:       "unknown role still counts as authenticated",
			snap:       Snapshot{User: unknown, IsAuthenticated: true},
			path:       "/member",
			wantAction: ActionAllow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.snap, tt.adminOnly, tt.path)
			if got.Action != tt.wantAction {
				t.Fatalf("action = %v, want %v", got.Action, tt.wantAction)
			}
			if got.Target != tt.wantTarget {
				t.Errorf("target = %q, want %q", got.Target, tt.wantTarget)
			}
		})
	}
}
