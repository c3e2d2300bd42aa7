package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginKeepsSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "mephub_session", Value: "abc123", Path: "/"})
		json.NewEncoder(w).Encode(map[string]string{
			"id": "u1", "email": "kamal@example.lk", "userType": "admin",
		})
	})
	mux.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("mephub_session")
		if err != nil || cookie.Value != "abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Authentication required"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "u1", "email": "kamal@example.lk"})
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	c, err := New(ts.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	user, err := c.Login(context.Background(), "kamal@example.lk", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !user.IsAdmin() {
		t.Errorf("expected admin user, got %q", user.UserType)
	}

	// The jar should replay the cookie on the next call
	me, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if me.Email != "kamal@example.lk" {
		t.Errorf("unexpected email %q", me.Email)
	}
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"})
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = c.Login(context.Background(), "kamal@example.lk", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", apiErr.StatusCode)
	}
	if apiErr.Message != "Invalid email or password" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestAPIErrorWithoutMessageBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c, _ := New(ts.URL)

	err := c.Logout(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "" {
		t.Errorf("expected empty message, got %q", apiErr.Message)
	}
}

func TestCheckAuthAnonymous(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"isAuthenticated": false})
	}))
	defer ts.Close()

	c, _ := New(ts.URL)

	result, err := c.CheckAuth(context.Background())
	if err != nil {
		t.Fatalf("check-auth failed: %v", err)
	}
	if result.IsAuthenticated {
		t.Error("expected unauthenticated result")
	}
	if result.User != nil {
		t.Error("expected nil user")
	}
}

func TestListListingsRoutes(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]Listing{{ID: "p1", Name: "Harbour Tower", Slug: "harbour-tower"}})
	}))
	defer ts.Close()

	c, _ := New(ts.URL)

	listings, err := c.ListListings(context.Background(), "projects", false)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if gotPath != "/projects" {
		t.Errorf("path = %q, want /projects", gotPath)
	}
	if len(listings) != 1 || listings[0].Slug != "harbour-tower" {
		t.Errorf("unexpected listings: %+v", listings)
	}

	if _, err := c.ListListings(context.Background(), "projects", true); err != nil {
		t.Fatalf("admin list failed: %v", err)
	}
	if gotPath != "/admin/projects" {
		t.Errorf("path = %q, want /admin/projects", gotPath)
	}
}
