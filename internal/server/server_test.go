package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/abs/internal/config"
	"github.com/vango-dev/abs/internal/inspect"
	"github.com/vango-dev/abs/pkg/telemetry"
)

const page = `<html><body>
<section data-abs-component="Tabs"><div data-abs-component="Panel"></div></section>
<nav data-abs-component="Menu"></nav>
</body></html>`

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = config.New()
	}
	return New(Options{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func scan(t *testing.T, h http.Handler, target, body string) (*httptest.ResponseRecorder, inspect.Result) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var res inspect.Result
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("decode: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, res
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want ok", rec.Body.String())
	}
}

func TestScanDiscoversAllTags(t *testing.T) {
	s := newTestServer(t, nil)
	rec, res := scan(t, s.Handler(), "/scan?source=index.html", page)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if res.Source != "index.html" {
		t.Errorf("Source = %q", res.Source)
	}
	if res.Report.Initialized != 3 || len(res.Components) != 3 {
		t.Errorf("result = %+v", res)
	}
	if len(res.Errors) != 0 {
		t.Errorf("Errors = %v", res.Errors)
	}
}

func TestScanWithTagFilter(t *testing.T) {
	s := newTestServer(t, nil)
	_, res := scan(t, s.Handler(), "/scan?tags=Tabs,%20Panel", page)

	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], `"Menu"`) {
		t.Errorf("Errors = %v, want Menu unregistered", res.Errors)
	}
	if !res.Report.Aborted {
		t.Error("expected aborted pass")
	}
}

func TestScanBodyTooLarge(t *testing.T) {
	cfg := config.New()
	cfg.Serve.MaxBodyBytes = 16
	s := newTestServer(t, cfg)

	rec, _ := scan(t, s.Handler(), "/scan", page)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"code":"A020"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	scan(t, s.Handler(), "/scan?tags=Tabs", page)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		`abs_instances_initialized_total{tag="Tabs"} 1`,
		`abs_init_failures_total{code="A002"} 1`,
		`abs_passes_total{kind="bulk",status="aborted"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestLiveGaugeReturnsToZero(t *testing.T) {
	s := newTestServer(t, nil)
	for i := 0; i < 3; i++ {
		rec, res := scan(t, s.Handler(), "/scan", page)
		if rec.Code != http.StatusOK || res.Report.Initialized != 3 {
			t.Fatalf("scan %d: status %d, result %+v", i, rec.Code, res)
		}
	}
	// An aborted pass still leaves constructed components behind.
	scan(t, s.Handler(), "/scan?tags=Tabs", page)

	expected := `
# HELP abs_live_instances Number of component instances currently live
# TYPE abs_live_instances gauge
abs_live_instances 0
`
	if err := testutil.GatherAndCompare(s.registry, strings.NewReader(expected), "abs_live_instances"); err != nil {
		t.Error(err)
	}
}

func TestEventsStream(t *testing.T) {
	s := newTestServer(t, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/events", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.Hub().ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	resp, err := http.Post(srv.URL+"/scan?tags=Menu", "text/html",
		strings.NewReader(`<nav data-abs-component="Menu"></nav>`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var types []telemetry.EventType
	for len(types) < 2 {
		var ev telemetry.Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read: %v", err)
		}
		types = append(types, ev.Type)
	}
	if types[0] != telemetry.EventInitialized || types[1] != telemetry.EventPass {
		t.Errorf("events = %v", types)
	}
}

func TestSplitTags(t *testing.T) {
	got := splitTags(" a, b,,c ")
	if strings.Join(got, "|") != "a|b|c" {
		t.Errorf("splitTags() = %v", got)
	}
}
