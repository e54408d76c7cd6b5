package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"golang.org/x/crypto/bcrypt"

	"bergambar/internal/http/handlers"
	"bergambar/internal/repos"
	"bergambar/internal/services"
)

// Seeded passwords are stored as bcrypt hashes, never plaintext.
func TestPasswordsSeededAreHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:", true)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	var hashes []string
	if err := db.Select(&hashes, `SELECT password_hash FROM users`); err != nil {
		t.Fatalf("select hashes: %v", err)
	}
	if len(hashes) == 0 {
		t.Fatal("no users seeded")
	}
	for _, h := range hashes {
		if strings.Contains(h, "Passw0rd!") {
			t.Fatalf("hash contains plaintext password")
		}
		if !strings.HasPrefix(h, "$2") {
			t.Fatalf("unexpected hash format: %s", h)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("Passw0rd!")); err != nil {
			t.Fatalf("seed hash does not validate known password: %v", err)
		}
	}
}

func TestLoginSuccessAndFail(t *testing.T) {
	ta := newApp(t, true)

	var resp *http.Response
	var body string
	entries := captureLogs(t, func() {
		resp, body = ta.post(t, "/login", "", url.Values{
			"email": {"alice@example.com"}, "password": {"wrong-password"},
		}, "")
	})
	expectStatus(t, resp, body, http.StatusUnauthorized)
	expectContains(t, body, "Invalid email or password")
	if e, ok := findAction(entries, "auth.login.fail"); !ok || e.Level != "warn" {
		t.Fatalf("expected auth.login.fail warn, got %+v", entries)
	}

	entries = captureLogs(t, func() {
		resp, body = ta.post(t, "/login", "", url.Values{
			"email": {"Alice@Example.com"}, "password": {"Passw0rd!"},
		}, "")
	})
	expectStatus(t, resp, body, http.StatusFound)
	sid := extractCookie(resp, "sid")
	if sid == "" {
		t.Fatal("no session cookie after login")
	}
	if _, ok := findAction(entries, "auth.login.success"); !ok {
		t.Fatalf("expected auth.login.success, got %+v", entries)
	}

	// The session is live: the nav greets Alice by username.
	_, body = ta.get(t, "/", sid)
	expectContains(t, body, "alice_art", "Log out")

	resp, body = ta.post(t, "/logout", sid, nil, "")
	expectStatus(t, resp, body, http.StatusFound)
	resp, body = ta.get(t, "/orders", sid)
	expectStatus(t, resp, body, http.StatusFound)
}

func TestLoginThrottle(t *testing.T) {
	db, err := repos.OpenDB(":memory:", false)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{Views: newEngine()})
	withSession(app, authSvc)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}), authH.Login)
	ta := &testApp{app: app, db: db}

	for i := 0; i < 3; i++ {
		resp, body := ta.post(t, "/login", "", url.Values{"email": {"nobody@example.com"}, "password": {"x"}}, "")
		if i < 2 {
			expectStatus(t, resp, body, http.StatusUnauthorized)
			continue
		}
		expectStatus(t, resp, body, http.StatusTooManyRequests)
	}
}

func TestRegisterStartsSession(t *testing.T) {
	ta := newApp(t, true)

	resp, body := ta.post(t, "/register", "", url.Values{
		"name": {"Dana Lee"}, "username": {"dana_lee"}, "email": {"Dana@Example.com"}, "password": {"Sup3r$ecret"},
	}, "")
	expectStatus(t, resp, body, http.StatusFound)
	sid := extractCookie(resp, "sid")
	if sid == "" {
		t.Fatal("no session cookie after register")
	}

	var email string
	if err := ta.db.Get(&email, `SELECT email FROM users WHERE username = 'dana_lee'`); err != nil {
		t.Fatal(err)
	}
	if email != "dana@example.com" {
		t.Fatalf("expected lowercased email, got %q", email)
	}

	resp, body = ta.get(t, "/partials/orders", sid)
	expectStatus(t, resp, body, http.StatusOK)
	expectContains(t, body, "No orders yet")
}

func TestRegisterRejectsBadInput(t *testing.T) {
	ta := newApp(t, true)

	cases := []struct {
		name string
		form url.Values
		want string
	}{
		{"weak password", url.Values{"name": {"Dana"}, "email": {"dana@example.com"}, "password": {"password"}}, "upper, lower, digit and symbol"},
		{"taken email", url.Values{"name": {"Dana"}, "email": {"ALICE@example.com"}, "password": {"Sup3r$ecret"}}, "already exists"},
		{"bad username", url.Values{"name": {"Dana"}, "username": {"no spaces"}, "email": {"d@example.com"}, "password": {"Sup3r$ecret"}}, "letters, digits or underscores"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := ta.post(t, "/register", "", tc.form, "")
			expectStatus(t, resp, body, http.StatusUnprocessableEntity)
			expectContains(t, body, tc.want)
			expectNotContains(t, body, "Sup3r$ecret")
		})
	}
}
