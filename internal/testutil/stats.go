package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// ResultSet builds the body of a stats endpoint with a single table.
func ResultSet(t *testing.T, name string, headers []string, rows ...[]any) string {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"resource": strings.ToLower(name),
		"resultSets": []map[string]any{
			{"name": name, "headers": headers, "rowSet": rows},
		},
	})
	if err != nil {
		t.Fatalf("Failed to marshal the result set: %v", err)
	}

	return string(body)
}

// StatsServer is a fake stats provider answering fixed bodies per endpoint.
type StatsServer struct {
	*httptest.Server

	mu       sync.Mutex
	bodies   map[string]string
	requests map[string][]string
}

// NewStatsServer starts the fake provider, closed with the test.
// Bodies are keyed by endpoint, or by "endpoint:PerMode" when the per mode changes the answer.
// Unknown endpoints answer 404.
func NewStatsServer(t *testing.T, bodies map[string]string) *StatsServer {
	t.Helper()

	s := &StatsServer{
		bodies:   bodies,
		requests: make(map[string][]string),
	}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := strings.TrimPrefix(r.URL.Path, "/")

		s.mu.Lock()
		s.requests[endpoint] = append(s.requests[endpoint], r.URL.RawQuery)
		body, ok := s.bodies[endpoint+":"+r.URL.Query().Get("PerMode")]
		if !ok {
			body, ok = s.bodies[endpoint]
		}
		s.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(s.Server.Close)

	return s
}

// SetBody replaces the answer of an endpoint.
func (s *StatsServer) SetBody(key string, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bodies[key] = body
}

// Requests returns the raw queries received by an endpoint.
func (s *StatsServer) Requests(endpoint string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.requests[endpoint]...)
}
