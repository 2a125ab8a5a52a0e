package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/abs/pkg/component"
)

func TestMetricsObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"), WithSubsystem("page"),
		WithBuckets([]float64{0.001, 0.01}), WithConstLabels(prometheus.Labels{"app": "demo"}))

	m.ComponentInitialized("Tabs")
	m.ComponentInitialized("Tabs")
	m.ComponentInitialized("Menu")
	m.ComponentDestroyed("Tabs")

	if got := testutil.ToFloat64(m.initialized.WithLabelValues("Tabs")); got != 2 {
		t.Errorf("initialized{Tabs} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.destroyed.WithLabelValues("Tabs")); got != 1 {
		t.Errorf("destroyed{Tabs} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.live); got != 2 {
		t.Errorf("live = %v, want 2", got)
	}

	m.InitFailed(&component.UnregisteredTagError{Tag: "Foo"})
	m.InitFailed(errors.New("plain"))
	if got := testutil.ToFloat64(m.failures.WithLabelValues("A002")); got != 1 {
		t.Errorf("failures{A002} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("other")); got != 1 {
		t.Errorf("failures{other} = %v, want 1", got)
	}

	m.PassCompleted(component.Report{Kind: component.PassBulk}, time.Millisecond)
	m.PassCompleted(component.Report{Kind: component.PassBulk, Aborted: true, Errors: []error{errors.New("x")}}, time.Millisecond)
	m.PassCompleted(component.Report{Kind: component.PassSingle, Errors: []error{errors.New("x")}}, time.Millisecond)

	for _, tt := range []struct {
		kind, status string
	}{
		{"bulk", "ok"},
		{"bulk", "aborted"},
		{"single", "partial"},
	} {
		if got := testutil.ToFloat64(m.passes.WithLabelValues(tt.kind, tt.status)); got != 1 {
			t.Errorf("passes{%s,%s} = %v, want 1", tt.kind, tt.status, got)
		}
	}

	count, err := testutil.GatherAndCount(reg, "test_page_pass_duration_seconds")
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("pass_duration series = %d, want 2", count)
	}
}

func TestMetricsReleased(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	m.ComponentInitialized("Tabs")
	m.ComponentInitialized("Menu")
	m.ComponentInitialized("Menu")

	m.Released(0)
	if got := testutil.ToFloat64(m.live); got != 3 {
		t.Errorf("live = %v, want 3", got)
	}
	m.Released(3)
	if got := testutil.ToFloat64(m.live); got != 0 {
		t.Errorf("live = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.destroyed.WithLabelValues("Menu")); got != 0 {
		t.Errorf("destroyed{Menu} = %v, want 0", got)
	}
}

func TestMetricsDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(WithRegistry(reg))

	defer func() {
		if recover() == nil {
			t.Error("second registration should panic")
		}
	}()
	NewMetrics(WithRegistry(reg))
}
