package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"
)

// fixtureTitles is the catalogue served by the fixture search server.
var fixtureTitles = []string{
	"Matrix",
	"Mad Max",
	"Amélie",
	"Casablanca",
	"The Godfather",
	"Taxi Driver",
}

// newSearchServer serves GET /search?query= like the movie site does: up to
// ten catalogue titles containing the query, case-insensitively, as a JSON
// array.
func newSearchServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		query := strings.ToLower(r.URL.Query().Get("query"))
		matches := []string{}
		for _, title := range fixtureTitles {
			if query != "" && strings.Contains(strings.ToLower(title), query) {
				matches = append(matches, title)
			}
			if len(matches) == 10 {
				break
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(matches)
	})
	return httptest.NewServer(mux)
}

func readSnapshot(f *os.File) string {
	if err := f.SetReadDeadline(time.Now().Add(50 * time.Millisecond)); err != nil {
		return ""
	}
	out := make([]byte, 0, 8192)
	buf := make([]byte, 4096)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil {
			break
		}
	}
	return string(out)
}
