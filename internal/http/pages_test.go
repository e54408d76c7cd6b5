package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestPageRendersLoadingShell(t *testing.T) {
	ta := newApp(t, true)

	resp, body := ta.get(t, "/commissions", "")
	expectStatus(t, resp, body, http.StatusOK)
	expectContains(t, body, `data-fragment="/partials/commissions"`, `aria-busy="true"`, "card skeleton")
	// Loading shows placeholders only, never data.
	expectNotContains(t, body, "Fantasy Character Design")

	resp, body = ta.get(t, "/", "")
	expectStatus(t, resp, body, http.StatusOK)
	expectContains(t, body, "Welcome to Bergambar", "Browse Artists", `data-fragment="/partials/home"`)
}

func TestCommissionListPopulated(t *testing.T) {
	ta := newApp(t, true)

	resp, body := ta.get(t, "/partials/commissions", "")
	expectStatus(t, resp, body, http.StatusOK)
	expectContains(t, body, "Fantasy Character Design", "$250", "in progress", "Alice Johnson",
		"/static/placeholder.svg?height=300&amp;width=400")
	expectNotContains(t, body, "No commissions found")
}

// stateBlock returns the markup of the first `<div class="state kind">`.
func stateBlock(t *testing.T, body, kind string) string {
	t.Helper()
	open := `<div class="state ` + kind + `"`
	i := strings.Index(body, open)
	if i < 0 {
		t.Fatalf("no %s state in body=%s", kind, body)
	}
	j := strings.Index(body[i:], "</div>")
	if j < 0 {
		t.Fatalf("unterminated %s state", kind)
	}
	return body[i : i+j]
}

func TestListEmptyStates(t *testing.T) {
	ta := newApp(t, false)
	uid, err := ta.users.Create("Nina", "", "nina@example.com", "x")
	if err != nil {
		t.Fatal(err)
	}
	member := ta.signIn(t, uid)

	cases := []struct {
		path, sid, want, href string
	}{
		{"/partials/commissions", member, "No commissions found", `href="/commissions/create"`},
		{"/partials/commissions", "", "No commissions found", `href="/login"`},
		{"/partials/home", member, "Start by creating your first commission", `href="/commissions/create"`},
		{"/partials/home", "", "Start by creating your first commission", `href="/login"`},
		{"/partials/artists", member, "No artists found", `href="/commissions"`},
		{"/partials/artists", "", "No artists found", `href="/commissions"`},
		{"/partials/orders", member, "No orders yet", `href="/commissions"`},
		{"/partials/chat", member, "No conversations yet", `href="/artists"`},
	}
	for _, tc := range cases {
		resp, body := ta.get(t, tc.path, tc.sid)
		expectStatus(t, resp, body, http.StatusOK)
		block := stateBlock(t, body, "empty")
		expectContains(t, block, tc.want, "<a ", tc.href)
	}
}

func TestNotFoundStatesOfferAWayOut(t *testing.T) {
	ta := newApp(t, true)
	member := ta.signIn(t, john)

	cases := []struct {
		path, href string
		public     bool
	}{
		{"/partials/artists/999", `href="/artists"`, true},
		{"/partials/commissions/999", `href="/commissions"`, true},
		{"/partials/users/999", `href="/artists"`, true},
		{"/partials/orders/999", `href="/orders"`, false},
		{"/partials/chat/999", `href="/chat"`, false},
	}
	for _, tc := range cases {
		sids := []string{member}
		if tc.public {
			sids = append(sids, "")
		}
		for _, sid := range sids {
			resp, body := ta.get(t, tc.path, sid)
			expectStatus(t, resp, body, http.StatusNotFound)
			expectContains(t, stateBlock(t, body, "not-found"), "<a ", tc.href)
		}
	}
}

func TestDetailNotFound(t *testing.T) {
	ta := newApp(t, true)
	sid := ta.signIn(t, john)

	cases := []struct{ path, want string }{
		{"/partials/artists/999", "Artist Not Found"},
		{"/partials/commissions/999", "Commission Not Found"},
		{"/partials/users/999", "User Not Found"},
		{"/partials/orders/999", "Order Not Found"},
		{"/partials/chat/999", "Conversation Not Found"},
	}
	for _, tc := range cases {
		resp, body := ta.get(t, tc.path, sid)
		expectStatus(t, resp, body, http.StatusNotFound)
		expectContains(t, body, tc.want)
	}

	// A malformed id never reaches the shell.
	resp, body := ta.get(t, "/artists/abc", "")
	expectStatus(t, resp, body, http.StatusNotFound)
	expectContains(t, body, "Artist Not Found")
}

func TestArtistDetailSections(t *testing.T) {
	ta := newApp(t, true)

	resp, body := ta.get(t, "/partials/artists/1", "")
	expectStatus(t, resp, body, http.StatusOK)
	expectContains(t, body, "Alice Johnson", "Verified", "4.9", "Character Design", "$150", "illustration",
		"Recent Work", "Fantasy Character Design", "https://alice-art.com")

	// Bob has no bio.
	_, body = ta.get(t, "/partials/artists/2", "")
	expectContains(t, body, "No bio provided.")

	// An artist with no services and no work.
	if _, err := ta.db.Exec(`INSERT INTO users(id,name,email,password_hash) VALUES (9,'Eve','eve@example.com','x');
		INSERT INTO artists(id,user_id,rating) VALUES (9,9,0)`); err != nil {
		t.Fatal(err)
	}
	_, body = ta.get(t, "/partials/artists/9", "")
	expectContains(t, body, "No services available", "No recent work to display")
}

func TestOrdersFormatting(t *testing.T) {
	ta := newApp(t, true)
	sid := ta.signIn(t, john)

	resp, body := ta.get(t, "/partials/orders", sid)
	expectStatus(t, resp, body, http.StatusOK)
	expectContains(t, body, "Jan 15, 2024, 10:30 AM", "Fantasy Character Design", "Alice Johnson",
		"in progress", `href="/orders/1"`, "<td>3</td>")

	resp, body = ta.get(t, "/partials/orders/2", sid)
	expectStatus(t, resp, body, http.StatusOK)
	expectContains(t, body, "Order #2", "Jan 10, 2024, 02:20 PM", "$150")

	// Another user's order is not disclosed.
	bob := ta.signIn(t, 3)
	resp, body = ta.get(t, "/partials/orders/1", bob)
	expectStatus(t, resp, body, http.StatusNotFound)
}

func TestViewerScopedPagesRequireLogin(t *testing.T) {
	ta := newApp(t, true)
	for _, p := range []string{"/orders", "/chat", "/commissions/create", "/chat/2"} {
		resp, body := ta.get(t, p, "")
		expectStatus(t, resp, body, http.StatusFound)
		if loc := resp.Header.Get("Location"); loc != "/login" {
			t.Fatalf("%s: expected redirect to /login, got %q", p, loc)
		}
	}
	// The fragment itself settles as Failed with 401.
	resp, body := ta.get(t, "/partials/orders", "")
	expectStatus(t, resp, body, http.StatusUnauthorized)
	expectContains(t, body, "Try again")
}

func TestChatInboxAndSend(t *testing.T) {
	ta := newApp(t, true)
	sid := ta.signIn(t, john)

	resp, body := ta.get(t, "/partials/chat", sid)
	expectStatus(t, resp, body, http.StatusOK)
	expectContains(t, body, "Alice Johnson", "2 hours ago", "Bob Smith", "1 day ago", "Carol Williams", "3 days ago")

	resp, body = ta.post(t, "/chat/4", sid, url.Values{"body": {"Love it, thanks!"}}, "")
	expectStatus(t, resp, body, http.StatusFound)

	_, body = ta.get(t, "/partials/chat/4", sid)
	expectContains(t, body, "Love it, thanks!", `class="mine"`)
}

func TestUnknownRoute(t *testing.T) {
	ta := newApp(t, true)
	resp, body := ta.get(t, "/nope", "")
	expectStatus(t, resp, body, http.StatusNotFound)
	expectContains(t, body, "Page not found")
}

func TestHealthz(t *testing.T) {
	ta := newApp(t, true)
	resp, body := ta.get(t, "/healthz", "")
	expectStatus(t, resp, body, http.StatusOK)
	expectContains(t, body, `"ok":true`)
}
