package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"pflegebox/internal/config"
	"pflegebox/internal/http/handlers"
	applog "pflegebox/internal/log"
	"pflegebox/internal/repos"
	"pflegebox/internal/services"
	"pflegebox/web"
)

const testAdminPassword = "Geheim123!"

type testEnv struct {
	app  *fiber.App
	deps *handlers.Deps
	auth *services.AuthService
}

func newTestEnv(t *testing.T, o handlers.AppOptions) *testEnv {
	t.Helper()
	cfg := config.Defaults()
	cfg.DBDSN = ":memory:"
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	auth, err := services.NewAuthService(testAdminPassword, "", "test-signing-secret", cfg.SessionTTL)
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	deps := handlers.NewDeps(db, cfg, auth)
	if o.Views == nil {
		o.Views = web.Engine("")
	}
	if o.AccessLog == nil {
		o.AccessLog = io.Discard
	}
	return &testEnv{app: handlers.NewApp(deps, o), deps: deps, auth: auth}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := e.app.Test(req, int((5 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// adminCookie logs in through the API and returns the session cookie.
func (e *testEnv) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	resp := e.do(t, "POST", "/api/admin/login", map[string]string{"password": testAdminPassword})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d", resp.StatusCode)
	}
	c := findCookie(resp, handlers.AdminCookie)
	if c == nil {
		t.Fatal("admin cookie missing")
	}
	return c
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// captureLogs redirects the structured log while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	w := &lockedWriter{}
	applog.SetOutput(w)
	defer applog.SetOutput(os.Stdout)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(w.buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func hasAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

const validSubmission = `{
  "customer": {
    "firstName": "Anna", "lastName": "Muller", "dob": "1950-01-01",
    "street": "Hauptstr. 1", "zip": "10115", "city": "Berlin",
    "phone": "030-1", "insuranceType": "statutory", "insuranceName": "AOK",
    "careGrade": 2, "beihilfePercent": 0
  },
  "order": {
    "monthKey": "2026-10", "total": 20.97, "budgetMax": 42,
    "items": [
      {"productId": "handschuhe", "name": "Einmalhandschuhe", "category": "Handschuhe", "unitPrice": 6.99, "quantity": 3, "size": "M"}
    ]
  }
}`

func mustUnconfiguredAuth(t *testing.T) *services.AuthService {
	t.Helper()
	a, err := services.NewAuthService("", "", "", 0)
	if err != nil {
		t.Fatal(err)
	}
	return a
}
