package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"bergambar/internal/config"
	"bergambar/internal/format"
	"bergambar/internal/http/handlers"
	"bergambar/internal/repos"
	"bergambar/internal/services"
)

// Seeded ids: 1 John (buyer, no artist profile), 2 Alice, 3 Bob, 4 Carol.
const (
	john  int64 = 1
	alice int64 = 2
)

type testApp struct {
	app   *fiber.App
	db    *sqlx.DB
	users *repos.UserRepo
}

func newEngine() *html.Engine {
	engine := html.New("../../web/templates", ".html")
	engine.AddFuncMap(format.Funcs(time.UTC, false))
	return engine
}

// newApp wires the full route table the way main does, minus static files
// and the global limiter.
func newApp(t *testing.T, seed bool) *testApp {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:", FetchTimeout: 2 * time.Second}
	db, err := repos.OpenDB(cfg.DBDSN, seed)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	app := fiber.New(fiber.Config{Views: newEngine(), ErrorHandler: handlers.ErrorHandler})
	app.Server().MaxRequestBodySize = 1 << 20
	withSession(app, authSvc)

	handlers.NewDeps(db, cfg, authSvc).Routes(app)
	return &testApp{app: app, db: db, users: userRepo}
}

func withSession(app *fiber.App, authSvc *services.AuthService) {
	app.Use(requestid.New())
	app.Use(handlers.LoadUser(authSvc))
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax", ContextKey: "csrf",
		ErrorHandler: handlers.CSRFFailed}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})
}

// signIn binds a fresh session to userID and returns its sid.
func (ta *testApp) signIn(t *testing.T, userID int64) string {
	t.Helper()
	sid := "sid-" + strings.ReplaceAll(t.Name(), "/", "-") + "-" + itoa(userID)
	if err := ta.users.BindSession(sid, userID); err != nil {
		t.Fatalf("bind session: %v", err)
	}
	return sid
}

func (ta *testApp) do(t *testing.T, req *http.Request, sid string) (*http.Response, string) {
	t.Helper()
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := ta.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (ta *testApp) get(t *testing.T, path, sid string) (*http.Response, string) {
	t.Helper()
	return ta.do(t, httptest.NewRequest("GET", path, nil), sid)
}

func (ta *testApp) getJSON(t *testing.T, path, sid string, out any) *http.Response {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("Accept", "application/json")
	resp, body := ta.do(t, req, sid)
	if err := json.Unmarshal([]byte(body), out); err != nil {
		t.Fatalf("decode %s: %v body=%s", path, err, body)
	}
	return resp
}

// csrfToken fetches a page to obtain a CSRF cookie usable for one POST.
func (ta *testApp) csrfToken(t *testing.T) string {
	t.Helper()
	resp, _ := ta.get(t, "/login", "")
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

func (ta *testApp) post(t *testing.T, path, sid string, form url.Values, accept string) (*http.Response, string) {
	t.Helper()
	tok := ta.csrfToken(t)
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", tok)
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	return ta.do(t, req, sid)
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func expectStatus(t *testing.T, resp *http.Response, body string, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected %d, got %d body=%s", want, resp.StatusCode, body)
	}
}

func expectContains(t *testing.T, body string, subs ...string) {
	t.Helper()
	for _, s := range subs {
		if !strings.Contains(body, s) {
			t.Fatalf("body missing %q; body=%s", s, body)
		}
	}
}

func expectNotContains(t *testing.T, body string, subs ...string) {
	t.Helper()
	for _, s := range subs {
		if strings.Contains(body, s) {
			t.Fatalf("body unexpectedly contains %q", s)
		}
	}
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// captureLogs swaps the standard logger output while fn runs and returns the
// JSON entries written.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
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

func findAction(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
