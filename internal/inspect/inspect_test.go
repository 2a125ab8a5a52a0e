package inspect

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/abs/pkg/component"
	"github.com/vango-dev/abs/pkg/htmldoc"
)

const page = `<html><body>
<section data-abs-component="Tabs">
  <div data-abs-component="Panel"></div>
  <div data-abs-component="Panel"></div>
</section>
<nav data-abs-component="Menu"></nav>
</body></html>`

func quiet() component.Option {
	return component.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func parse(t *testing.T, s string) *htmldoc.Document {
	t.Helper()
	doc, err := htmldoc.ParseString(s)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return doc
}

func TestTags(t *testing.T) {
	got := Tags(parse(t, page), component.DefaultAttributeSelector)
	want := []string{"Menu", "Panel", "Tabs"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Tags() = %v, want %v", got, want)
	}
}

func TestScanAutoRegisters(t *testing.T) {
	s := NewSession("page.html", parse(t, page), nil, quiet())
	res := s.Scan(context.Background())

	if !res.OK() {
		t.Fatalf("Scan() errors = %v", res.Errors)
	}
	if res.Report.Initialized != 4 {
		t.Errorf("Initialized = %d, want 4", res.Report.Initialized)
	}

	wantTags := []string{"Tabs", "Panel", "Panel", "Menu"}
	wantDepth := []int{0, 1, 1, 0}
	for i, e := range res.Components {
		if e.Tag != wantTags[i] || e.Depth != wantDepth[i] {
			t.Errorf("Components[%d] = %+v", i, e)
		}
		if e.Phase != PhaseReady {
			t.Errorf("Components[%d].Phase = %q, want ready", i, e.Phase)
		}
	}
	if res.Components[0].Node != `<section data-abs-component="Tabs">` {
		t.Errorf("Node = %q", res.Components[0].Node)
	}
}

func TestScanReportsUnregistered(t *testing.T) {
	s := NewSession("page.html", parse(t, page), []string{"Tabs"}, quiet())
	res := s.Scan(context.Background())

	if res.OK() {
		t.Fatal("expected errors")
	}
	if !res.Report.Aborted {
		t.Error("pass should abort on the first unregistered tag")
	}
	if !errors.Is(res.Report.Errors[0], component.ErrUnregisteredTag) {
		t.Errorf("error = %v, want unregistered tag", res.Report.Errors[0])
	}
	if len(res.Errors) != 1 {
		t.Errorf("Errors = %v", res.Errors)
	}
	// The aborted pass constructed Tabs but never made it ready.
	if res.Components[0].Phase != PhaseInit {
		t.Errorf("Phase = %q, want init", res.Components[0].Phase)
	}
}

func TestScanContinueOnError(t *testing.T) {
	s := NewSession("page.html", parse(t, page), []string{"Tabs", "Menu"}, quiet(), component.WithContinueOnError(true))
	res := s.Scan(context.Background())

	if len(res.Errors) != 2 {
		t.Errorf("Errors = %v, want 2", res.Errors)
	}
	if res.Report.Initialized != 2 {
		t.Errorf("Initialized = %d, want 2", res.Report.Initialized)
	}
}

func TestStrip(t *testing.T) {
	doc := parse(t, page)
	s := NewSession("page.html", doc, nil, quiet())
	s.Scan(context.Background())

	if n := s.Strip(context.Background(), "Tabs"); n != 3 {
		t.Errorf("Strip() = %d, want 3", n)
	}
	if s.Manager.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Manager.Len())
	}

	out := doc.String()
	if strings.Contains(out, "Tabs") || strings.Contains(out, "Panel") {
		t.Errorf("stripped document still has Tabs: %s", out)
	}
	if !strings.Contains(out, `data-abs-component="Menu"`) {
		t.Errorf("Menu missing: %s", out)
	}

	for _, e := range s.Entries() {
		want := PhaseDestroyed
		if e.Tag == "Menu" {
			want = PhaseReady
		}
		if e.Phase != want {
			t.Errorf("%s phase = %q, want %q", e.Tag, e.Phase, want)
		}
	}
}
