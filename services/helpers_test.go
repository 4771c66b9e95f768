package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"portfolio/media"
	"portfolio/realtime"
	"portfolio/store"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type fakeUploader struct {
	mu      sync.Mutex
	calls   int
	fail    bool
	deleted []string
}

func (f *fakeUploader) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeUploader) Upload(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return "", errors.New("provider unavailable")
	}
	return fmt.Sprintf("https://cdn.test/%d%s", f.calls, filepath.Ext(path)), nil
}

type recordingNotifier struct {
	events []realtime.Event
}

func (r *recordingNotifier) Publish(e realtime.Event) { r.events = append(r.events, e) }

type testEnv struct {
	store    *store.GormStore
	auth     *AuthService
	posts    *PostService
	projects *ProjectService
	uploader *fakeUploader
	tmpDir   string
}

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

// ticker returns a clock that advances one second per call.
func ticker(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Second)
		return now
	}
}

func newTestStore(t *testing.T) *store.GormStore {
	t.Helper()
	s, err := store.OpenGorm(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestEnv(t *testing.T, opts ContentOptions) *testEnv {
	t.Helper()
	s := newTestStore(t)

	auth, err := NewAuthService(s.Users(), AuthConfig{Secret: "test-secret", BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)

	tmp := t.TempDir()
	up := &fakeUploader{}
	ingester := media.NewCloud(media.Stager{Dir: tmp}, up, quietLogger())

	posts := NewPostService(s.Posts(), ingester, opts, quietLogger())
	posts.now = ticker(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	projects := NewProjectService(s.Projects(), ingester, opts, quietLogger())
	projects.now = ticker(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	return &testEnv{store: s, auth: auth, posts: posts, projects: projects, uploader: up, tmpDir: tmp}
}

// register creates a user and returns the claims its token decodes to.
func (e *testEnv) register(t *testing.T, username string) *Claims {
	t.Helper()
	ctx := context.Background()
	_, err := e.auth.Register(ctx, username, "secret123")
	require.NoError(t, err)
	token, _, err := e.auth.Login(ctx, username, "secret123")
	require.NoError(t, err)
	claims, err := e.auth.Verify(token)
	require.NoError(t, err)
	return claims
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func str(s string) *string { return &s }

func postFields(title string) *PostFields {
	return &PostFields{
		Title:    str(title),
		Summary:  str("B"),
		Content:  str("C"),
		Category: str(`["tech"]`),
	}
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}
