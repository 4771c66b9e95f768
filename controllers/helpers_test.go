package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"portfolio/media"
	"portfolio/realtime"
	"portfolio/services"
	"portfolio/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type testServer struct {
	router    *gin.Engine
	hub       *realtime.Hub
	uploadDir string
	tmpDir    string
}

func newTestServer(t *testing.T, opts services.ContentOptions, configure ...func(d *Deps)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := log.New(io.Discard, "", 0)

	s, err := store.OpenGorm(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })

	auth, err := services.NewAuthService(s.Users(), services.AuthConfig{
		Secret:     "test-secret",
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)

	tmp := t.TempDir()
	uploads := filepath.Join(t.TempDir(), "uploads")
	ingester := media.NewLocal(media.Stager{Dir: tmp, MaxBytes: 1 << 20}, uploads, "/uploads")

	posts := services.NewPostService(s.Posts(), ingester, opts, logger)
	projects := services.NewProjectService(s.Projects(), ingester, opts, logger)
	hub := realtime.NewHub(nil, logger)
	posts.SetNotifier(hub)
	projects.SetNotifier(hub)

	deps := Deps{
		Auth:      auth,
		Posts:     posts,
		Projects:  projects,
		Hub:       hub,
		Log:       logger,
		UploadDir: uploads,
	}
	for _, fn := range configure {
		fn(&deps)
	}
	router := NewRouter(deps)
	return &testServer{router: router, hub: hub, uploadDir: uploads, tmpDir: tmp}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartRequest builds a form with the given fields and, when filename is
// non-empty, a file part named "file".
func multipartRequest(t *testing.T, method, path string, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func withCookie(req *http.Request, cookie *http.Cookie) *http.Request {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

// signup registers username and logs in, returning the session cookie.
func (s *testServer) signup(t *testing.T, username string) *http.Cookie {
	t.Helper()
	creds := map[string]string{"username": username, "password": "secret123"}
	w := s.do(jsonRequest(http.MethodPost, "/api/v1/register", creds))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(jsonRequest(http.MethodPost, "/api/v1/login", creds))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return tokenCookie(t, w)
}

func tokenCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	t.Fatalf("no token cookie in response")
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(strings.NewReader(w.Body.String())).Decode(v))
}

func postFormFields(title string) map[string]string {
	return map[string]string{
		"title":    title,
		"summary":  "summary",
		"content":  "content",
		"category": `["tech"]`,
	}
}
