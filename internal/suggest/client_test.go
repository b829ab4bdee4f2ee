package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestClient(url string) *Client {
	c := NewClient(url)
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestFetchScenario(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", req.Method)
		}
		if req.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", req.URL.Path)
		}
		if req.URL.RawQuery != "query=ma" {
			t.Errorf("raw query = %q, want %q", req.URL.RawQuery, "query=ma")
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]string{"Matrix", "Mad Max"})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	titles, err := c.Fetch(context.Background(), "ma")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if !reflect.DeepEqual(titles, []string{"Matrix", "Mad Max"}) {
		t.Errorf("titles = %v, want [Matrix Mad Max]", titles)
	}
}

func TestQueryIsEncoded(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		got = req.URL.Query().Get("query")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	q := "Amélie & the 7/8 \"club\"?"
	c.Suggest(context.Background(), q)

	if got != q {
		t.Errorf("server saw query %q, want %q", got, q)
	}
}

func TestSearchURLKeepsBasePath(t *testing.T) {
	c := NewClient("http://example.test/api/")
	u, err := c.SearchURL("ma")
	if err != nil {
		t.Fatalf("SearchURL() error: %v", err)
	}
	if u != "http://example.test/api/search?query=ma" {
		t.Errorf("SearchURL() = %q", u)
	}
}

func TestSuggestFailSoft(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}},
		{"malformed json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`["Matrix",`))
		}},
		{"wrong shape", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":["Matrix"]}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			c := newTestClient(server.URL)
			titles := c.Suggest(context.Background(), "ma")
			if titles == nil || len(titles) != 0 {
				t.Errorf("Suggest() = %#v, want empty non-nil slice", titles)
			}
			if _, err := c.Fetch(context.Background(), "ma"); err == nil {
				t.Error("Fetch() should report the error")
			}
		})
	}
}

func TestFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(strings.Repeat("x", 500)))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Fetch(context.Background(), "ma")

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if se.Code != http.StatusBadGateway {
		t.Errorf("Code = %d, want 502", se.Code)
	}
	if len([]rune(se.Body)) != 200 {
		t.Errorf("Body should be truncated to 200 runes, got %d", len([]rune(se.Body)))
	}
}

func TestSuggestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := newTestClient(url)
	if titles := c.Suggest(context.Background(), "ma"); len(titles) != 0 {
		t.Errorf("Suggest() = %v, want empty", titles)
	}
}

func TestFetchNullIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer server.Close()

	titles, err := newTestClient(server.URL).Fetch(context.Background(), "ma")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if titles == nil || len(titles) != 0 {
		t.Errorf("titles = %#v, want empty slice", titles)
	}
}

func TestFetchRespectsTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	c := NewClient(server.URL, WithTimeout(50*time.Millisecond), WithRateLimit(0))
	start := time.Now()
	if _, err := c.Fetch(context.Background(), "ma"); err == nil {
		t.Error("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout was not applied")
	}
}

func TestFetchCancelledContext(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, WithRateLimit(1))
	// Spend the only token so the next call has to wait on the limiter.
	c.Fetch(context.Background(), "ma")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Fetch(ctx, "mad"); err == nil {
		t.Error("expected error for cancelled context")
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestRateLimitOption(t *testing.T) {
	c := NewClient("http://x", WithRateLimit(2))
	if c.limiter.Limit() != 2 {
		t.Errorf("Limit() = %v, want 2", c.limiter.Limit())
	}
	c = NewClient("http://x", WithRateLimit(0))
	if c.limiter.Limit() != rate.Inf {
		t.Errorf("Limit() = %v, want Inf", c.limiter.Limit())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"bad gateway upstream", 10, "bad gat..."},
		{"Amélie Amélie", 9, "Amélie..."},
		{"abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
