package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mephub/mephub/internal/config"
	"github.com/mephub/mephub/internal/directory"
	"github.com/mephub/mephub/internal/models"
	"github.com/mephub/mephub/internal/sitemap"
)

// newTestServer builds a Server against an in-memory database, without the
// task queue (enqueues are skipped when the client is nil)
func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := ensureSiteConfig(db, zerolog.Nop()); err != nil {
		t.Fatalf("failed to ensure site config: %v", err)
	}

	directoryService := directory.NewService(db, zerolog.Nop())

	s := &Server{
		db:        db,
		config:    &config.Config{Server: config.ServerConfig{SitemapPath: t.TempDir() + "/sitemap.xml", CORSOrigin: "http://localhost:5173"}},
		logger:    zerolog.Nop(),
		validator: validator.New(),

		directoryService: directoryService,
		sitemapGenerator: sitemap.NewGenerator(directoryService, zerolog.Nop()),
		version:          "test",
	}
	s.setupRouter()
	return s
}

// testClient wraps an httptest server with a cookie-jar client, standing in
// for a browser that carries the session cookie automatically
type testClient struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
}

func newTestClient(t *testing.T, s *Server) *testClient {
	t.Helper()

	ts := httptest.NewServer(s.router)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}

	return &testClient{
		t:      t,
		server: ts,
		http:   &http.Client{Jar: jar},
	}
}

// do sends a JSON request and decodes the JSON response into out (if non-nil)
func (tc *testClient) do(method, path string, body interface{}, out interface{}) *http.Response {
	tc.t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			tc.t.Fatalf("failed to marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, tc.server.URL+path, reqBody)
	if err != nil {
		tc.t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := tc.http.Do(req)
	if err != nil {
		tc.t.Fatalf("request failed: %v", err)
	}
	tc.t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			tc.t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp
}

// registerUser registers an account through the API and returns its detail
func (tc *testClient) registerUser(username, email, password string) UserDetail {
	tc.t.Helper()

	var user UserDetail
	resp := tc.do(http.MethodPost, "/users/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &user)
	if resp.StatusCode != http.StatusCreated {
		tc.t.Fatalf("register returned status %d", resp.StatusCode)
	}
	return user
}
