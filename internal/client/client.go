package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// UserType discriminates the two account roles the API issues
type UserType string

const (
	UserTypeAdmin UserType = "admin"
	UserTypeUser  UserType = "user"
)

// User is the account record returned by the auth endpoints
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	UserType  UserType  `json:"userType"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// CheckAuthResult is the response of GET /users/check-auth
type CheckAuthResult struct {
	IsAuthenticated bool  `json:"isAuthenticated"`
	User            *User `json:"user,omitempty"`
}

// Listing carries the fields shared by every directory category
type Listing struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	City        string `json:"city"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Published   bool   `json:"published"`
}

// ContactRequest is the body of POST /contact
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// APIError is a non-2xx response, carrying the server's message field when
// the body had one
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// Client talks to the MEP Hub API. Session continuity lives entirely in the
// cookie jar; the client never holds a token itself. No retries, no
// timeouts beyond the HTTP client default, failures return to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client with an in-memory cookie jar
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return NewWithJar(baseURL, jar), nil
}

// NewWithJar creates a client over a caller-supplied jar, letting CLI
// invocations restore a persisted session cookie
func NewWithJar(baseURL string, jar http.CookieJar) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// do sends a JSON request with the session cookie attached and decodes the
// response into out (if non-nil). Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody struct {
			Message string `json:"message"`
			Err     string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			if errBody.Message != "" {
				apiErr.Message = errBody.Message
			} else {
				apiErr.Message = errBody.Err
			}
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// CheckAuth asks the server whether the current cookie still names a live
// session. Always 200 for a reachable server, authenticated or not.
func (c *Client) CheckAuth(ctx context.Context) (*CheckAuthResult, error) {
	var result CheckAuthResult
	if err := c.do(ctx, http.MethodGet, "/users/check-auth", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login authenticates with email and password; the server sets the session
// cookie on the response and the jar keeps it
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/users/login", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates an account and logs it in
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/users/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout destroys the server-side session and expires the cookie
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/users/logout", nil, nil)
}

// Me returns the account behind the current session
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListListings returns a category's listings. With admin true the request
// goes through the admin route and includes unpublished records.
func (c *Client) ListListings(ctx context.Context, category string, admin bool) ([]Listing, error) {
	path := "/" + category
	if admin {
		path = "/admin/" + category
	}
	var listings []Listing
	if err := c.do(ctx, http.MethodGet, path, nil, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// GetListing fetches one listing by id or slug
func (c *Client) GetListing(ctx context.Context, category, idOrSlug string) (*Listing, error) {
	var listing Listing
	if err := c.do(ctx, http.MethodGet, "/"+category+"/"+idOrSlug, nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// CreateListing creates a listing through the admin API. Fields beyond the
// shared set pass through untouched.
func (c *Client) CreateListing(ctx context.Context, category string, fields map[string]interface{}) (*Listing, error) {
	var listing Listing
	if err := c.do(ctx, http.MethodPost, "/admin/"+category, fields, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// DeleteListing removes a listing through the admin API
func (c *Client) DeleteListing(ctx context.Context, category, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/"+category+"/"+id, nil, nil)
}

// SubmitContact sends a message through the public contact form
func (c *Client) SubmitContact(ctx context.Context, req ContactRequest) error {
	return c.do(ctx, http.MethodPost, "/contact", req, nil)
}
