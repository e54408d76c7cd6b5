package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"testing"

	"bergambar/internal/domain"
	"bergambar/internal/repos"
	"bergambar/internal/services"
)

func (ta *testApp) love(t *testing.T, sid string, id int64, form url.Values) domain.LoveResult {
	t.Helper()
	resp, body := ta.post(t, "/commissions/"+itoa(id)+"/love", sid, form, "application/json")
	expectStatus(t, resp, body, http.StatusOK)
	var res domain.LoveResult
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		t.Fatalf("decode: %v body=%s", err, body)
	}
	return res
}

func TestLoveIsIdempotent(t *testing.T) {
	ta := newApp(t, true)
	sid := ta.signIn(t, john)

	res := ta.love(t, sid, 3, url.Values{"loved": {"true"}})
	if !res.Loved || res.Count != 46 {
		t.Fatalf("expected loved with 46, got %+v", res)
	}
	// A repeated submit does not count twice.
	res = ta.love(t, sid, 3, url.Values{"loved": {"true"}})
	if !res.Loved || res.Count != 46 {
		t.Fatalf("expected loved with 46 after repeat, got %+v", res)
	}
	res = ta.love(t, sid, 3, url.Values{"loved": {"false"}})
	if res.Loved || res.Count != 45 {
		t.Fatalf("expected unloved with 45, got %+v", res)
	}
	res = ta.love(t, sid, 3, url.Values{"loved": {"false"}})
	if res.Count != 45 {
		t.Fatalf("expected 45 after repeated unlove, got %+v", res)
	}
}

func TestLoveToggleWithoutState(t *testing.T) {
	ta := newApp(t, true)
	sid := ta.signIn(t, john)

	res := ta.love(t, sid, 2, nil)
	if !res.Loved || res.Count != 19 {
		t.Fatalf("expected loved with 19, got %+v", res)
	}
	res = ta.love(t, sid, 2, nil)
	if res.Loved || res.Count != 18 {
		t.Fatalf("expected unloved with 18, got %+v", res)
	}
}

func TestLoveFormRedirectsBack(t *testing.T) {
	ta := newApp(t, true)
	sid := ta.signIn(t, john)

	resp, body := ta.post(t, "/commissions/1/love", sid, url.Values{"loved": {"true"}}, "")
	expectStatus(t, resp, body, http.StatusFound)
	if loc := resp.Header.Get("Location"); loc != "/commissions/1" {
		t.Fatalf("unexpected redirect %q", loc)
	}

	// The card now offers to take the love back.
	_, body = ta.get(t, "/partials/commissions/1", sid)
	expectContains(t, body, `name="loved" value="false"`, `aria-pressed="true"`, "33")
}

func TestLoveRequiresLogin(t *testing.T) {
	ta := newApp(t, true)

	resp, body := ta.post(t, "/commissions/1/love", "", url.Values{"loved": {"true"}}, "")
	expectStatus(t, resp, body, http.StatusFound)
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("unexpected redirect %q", loc)
	}

	resp, body = ta.post(t, "/commissions/1/love", "", url.Values{"loved": {"true"}}, "application/json")
	expectStatus(t, resp, body, http.StatusUnauthorized)
}

func TestLoveUnknownCommission(t *testing.T) {
	ta := newApp(t, true)
	sid := ta.signIn(t, john)

	resp, body := ta.post(t, "/commissions/999/love", sid, url.Values{"loved": {"true"}}, "application/json")
	expectStatus(t, resp, body, http.StatusNotFound)

	resp, body = ta.post(t, "/commissions/1/love", sid, url.Values{"loved": {"maybe"}}, "")
	expectStatus(t, resp, body, http.StatusBadRequest)
}

// Two toggles racing for the same viewer must leave the stored count in
// line with whether that viewer ends up loving the commission.
func TestConcurrentTogglesStayConsistent(t *testing.T) {
	ta := newApp(t, true)
	svc := &services.CommissionService{Repo: repos.NewCommissionRepo(ta.db)}
	ctx := context.Background()

	for round := 0; round < 10; round++ {
		var wg sync.WaitGroup
		errs := make(chan error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := svc.ToggleLove(ctx, john, 3); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Fatalf("round %d: toggle: %v", round, err)
		}

		c, err := svc.Get(ctx, 3, john)
		if err != nil {
			t.Fatal(err)
		}
		want := 45
		if c.LovedByViewer {
			want = 46
		}
		if c.LovedCount != want {
			t.Fatalf("round %d: loved_by_viewer=%v but loved_count=%d", round, c.LovedByViewer, c.LovedCount)
		}
		var rows int
		if err := ta.db.Get(&rows, `SELECT COUNT(*) FROM loves WHERE commission_id = 3`); err != nil {
			t.Fatal(err)
		}
		if rows != want-45 {
			t.Fatalf("round %d: %d love rows for count %d", round, rows, c.LovedCount)
		}
	}
}
