package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/floatpos/pkg/observability"
	"github.com/matzehuels/floatpos/pkg/pipeline"
)

const tooltipJSON = `{
  "scene": {
    "name": "tooltip",
    "viewport": {"x": 0, "y": 0, "width": 320, "height": 240},
    "elements": {
      "button": {"rect": {"x": 140, "y": 10, "width": 40, "height": 20}},
      "tip": {"rect": {"x": 0, "y": 0, "width": 120, "height": 30}},
      "menu": {"rect": {"x": 0, "y": 0, "width": 80, "height": 30}}
    },
    "jobs": [
      {"id": "tip", "reference": "button", "floating": "tip", "placement": "top",
       "middleware": [{"offset": {"main_axis": 6}}, {"flip": {}}, {"shift": {}}]},
      {"id": "menu", "reference": "button", "floating": "menu", "placement": "right-start"}
    ]
  }
}`

const tooltipTOML = `
viewport = { x = 0, y = 0, width = 320, height = 240 }

[elements.button]
rect = { x = 140, y = 10, width = 40, height = 20 }

[elements.menu]
rect = { x = 0, y = 0, width = 80, height = 30 }

[[jobs]]
id = "menu"
reference = "button"
floating = "menu"
placement = "right-start"

[[jobs]]
id = "below"
reference = "button"
floating = "menu"
`

func newTestServer(t *testing.T, mutate func(*Config)) *httptest.Server {
	t.Helper()
	cfg := Config{Runner: pipeline.NewRunner(nil, nil, nil)}
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, contentType, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, contentType, strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestNewRequiresRunner(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error without a runner")
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("request ID %q is not a UUID", resp.Header.Get(RequestIDHeader))
	}
	body := decode[healthResponse](t, resp)
	if body.Status != "ok" || body.Version == "" {
		t.Errorf("body = %+v", body)
	}
}

func TestPositionJSON(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := post(t, ts.URL+"/v1/position", "application/json", tooltipJSON)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	res := decode[pipeline.Result](t, resp)

	tip, ok := res.Job("tip")
	if !ok {
		t.Fatal("tip missing from result")
	}
	if tip.Placement.String() != "bottom" || tip.X != 100 || tip.Y != 36 {
		t.Errorf("tip = %s (%v, %v), want bottom (100, 36)", tip.Placement, tip.X, tip.Y)
	}
	if _, ok := tip.MiddlewareData["shift"]; !ok {
		t.Error("middleware data missing from response")
	}
	if res.Stats.Jobs != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestPositionTOML(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := post(t, ts.URL+"/v1/position?job=below", "application/toml", tooltipTOML)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	res := decode[pipeline.Result](t, resp)
	if len(res.Jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(res.Jobs))
	}
	if j := res.Jobs[0]; j.ID != "below" || j.X != 120 || j.Y != 30 {
		t.Errorf("job = %s (%v, %v), want below (120, 30)", j.ID, j.X, j.Y)
	}
}

func TestPositionErrors(t *testing.T) {
	ts := newTestServer(t, func(c *Config) { c.MaxBodyBytes = 4096 })

	failing := strings.Replace(tooltipJSON, `{"flip": {}}`, `{"flip": {"boundary": 42}}`, 1)

	tests := []struct {
		name        string
		path        string
		contentType string
		body        string
		status      int
		code        string
	}{
		{"malformed json", "/v1/position", "application/json", "{", http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", "/v1/position", "application/json", `{"sceen": {}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing scene", "/v1/position", "application/json", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"invalid scene", "/v1/position", "application/json", `{"scene": {"viewport": {"width": -1}}}`, http.StatusBadRequest, "INVALID_SCENE"},
		{"bad placement", "/v1/position", "application/json", strings.Replace(tooltipJSON, `"top"`, `"middle"`, 1), http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown job", "/v1/position?job=nope", "application/toml", tooltipTOML, http.StatusNotFound, "NOT_FOUND"},
		{"bad refresh", "/v1/position?refresh=maybe", "application/toml", tooltipTOML, http.StatusBadRequest, "INVALID_INPUT"},
		{"platform failure", "/v1/position", "application/json", failing, http.StatusUnprocessableEntity, "PLATFORM_QUERY"},
		{"too large", "/v1/position", "application/json", `{"scene": {"name": "` + strings.Repeat("x", 5000) + `"}}`, http.StatusRequestEntityTooLarge, "TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+tt.path, tt.contentType, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decode[errorResponse](t, resp)
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Error.Code, tt.code, body.Error.Message)
			}
			if body.RequestID == "" {
				t.Error("error response should carry the request ID")
			}
		})
	}
}

func TestRouting(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := post(t, ts.URL+"/v1/position", "image/png", "x")
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("wrong content type: status = %d, want 415", resp.StatusCode)
	}

	get, err := http.Get(ts.URL + "/v1/position")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	get.Body.Close()
	if get.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/position: status = %d, want 405", get.StatusCode)
	}

	missing, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("GET /nope: status = %d, want 404", missing.StatusCode)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	ts := newTestServer(t, nil)
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request ID = %q, want %q", got, id)
	}

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("invalid request IDs should be replaced")
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	requests []string
	statuses []int
}

func (h *recordingHooks) OnRequest(_ context.Context, _, method, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, method+" "+path)
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	s, err := New(Config{Runner: pipeline.NewRunner(nil, nil, nil)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.requests) != 1 || hooks.requests[0] != "GET /healthz" {
		t.Errorf("requests = %v", hooks.requests)
	}
	if len(hooks.statuses) != 1 || hooks.statuses[0] != http.StatusOK {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}

func TestServeShutsDown(t *testing.T) {
	s, err := New(Config{Runner: pipeline.NewRunner(nil, nil, nil)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
