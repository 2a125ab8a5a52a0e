package component

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Manager binds registered components to the nodes of one Document.
type Manager[N comparable] struct {
	doc         Document[N]
	opts        options
	descriptors map[string]Constructor[N]

	// live maps a tag to its components in construction order.
	live map[string][]Component[N]
}

// New creates a Manager over doc.
func New[N comparable](doc Document[N], opts ...Option) *Manager[N] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.resolve()

	return &Manager[N]{
		doc:         doc,
		opts:        o,
		descriptors: make(map[string]Constructor[N]),
		live:        make(map[string][]Component[N]),
	}
}

// AttributeSelector returns the attribute naming a node's component tag.
func (m *Manager[N]) AttributeSelector() string {
	return m.opts.selector
}

// Register binds tag to ctor. Registering a tag again replaces the constructor.
func (m *Manager[N]) Register(tag string, ctor Constructor[N]) {
	m.descriptors[tag] = ctor
	m.opts.logger.Debug("component registered", "tag", tag)
}

// RegisteredComponents returns the registered tags, sorted.
func (m *Manager[N]) RegisteredComponents() []string {
	tags := make([]string, 0, len(m.descriptors))
	for tag := range m.descriptors {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// InitAll runs a discovery pass over the whole document.
func (m *Manager[N]) InitAll() Report {
	var zero N
	return m.InitComponents(zero)
}

// InitComponents runs a discovery pass over the nodes under scope.
// A zero scope means the whole document. Nodes already bound to a live
// component are skipped, and their components are not readied again.
func (m *Manager[N]) InitComponents(scope N) Report {
	return m.InitComponentsContext(context.Background(), scope)
}

// InitComponentsContext is InitComponents with a parent context for tracing.
func (m *Manager[N]) InitComponentsContext(ctx context.Context, scope N) Report {
	start := time.Now()
	_, span := m.opts.tracer.Start(ctx, "abs.init_components",
		trace.WithAttributes(attribute.String("abs.selector", m.opts.selector)))
	defer span.End()

	nodes := m.doc.QueryAll(scope, m.opts.selector)
	report := Report{Kind: PassBulk, Discovered: len(nodes)}
	created := make([]Component[N], 0, len(nodes))

	for _, node := range nodes {
		c, err := m.construct(node)
		if err != nil {
			m.fail(&report, span, err)
			if !m.opts.continueOnError {
				report.Aborted = true
				break
			}
			continue
		}
		if c == nil {
			report.Skipped++
			continue
		}
		created = append(created, c)
	}
	report.Initialized = len(created)

	// An aborted pass never reaches the ready phase.
	if !report.Aborted {
		for _, c := range created {
			if m.tracked(c) {
				ready(c)
			}
		}
	}

	m.finish(span, report, start)
	return report
}

// InitComponent binds a component to a single node and runs Init then Ready.
func (m *Manager[N]) InitComponent(node N) Report {
	return m.InitComponentContext(context.Background(), node)
}

// InitComponentContext is InitComponent with a parent context for tracing.
func (m *Manager[N]) InitComponentContext(ctx context.Context, node N) Report {
	start := time.Now()
	_, span := m.opts.tracer.Start(ctx, "abs.init_component",
		trace.WithAttributes(attribute.String("abs.selector", m.opts.selector)))
	defer span.End()

	report := Report{Kind: PassSingle, Discovered: 1}
	c, err := m.construct(node)
	switch {
	case err != nil:
		m.fail(&report, span, err)
		report.Aborted = true
	case c == nil:
		report.Skipped = 1
	default:
		report.Initialized = 1
		ready(c)
	}

	m.finish(span, report, start)
	return report
}

// construct resolves node's tag, builds its component, calls Init and
// records it. A nil component with a nil error means node is already bound.
func (m *Manager[N]) construct(node N) (Component[N], error) {
	tag, ok := m.doc.Attr(node, m.opts.selector)
	if !ok {
		return nil, &MissingTagError{Attribute: m.opts.selector, Node: m.describe(node)}
	}
	ctor, ok := m.descriptors[tag]
	if !ok {
		return nil, &UnregisteredTagError{Tag: tag, Node: m.describe(node)}
	}
	if _, bound := m.ComponentByNode(node); bound {
		m.opts.logger.Debug("component already bound, skipping", "tag", tag, "node", m.describe(node))
		return nil, nil
	}

	c := ctor(node)
	if c == nil {
		return nil, fmt.Errorf("constructor for component %q returned nil", tag)
	}
	if in, ok := c.(Initializer); ok {
		in.Init()
	}
	m.live[tag] = append(m.live[tag], c)

	m.opts.observers.initialized(tag)
	m.opts.logger.Debug("component initialized", "tag", tag, "node", m.describe(node))
	return c, nil
}

func ready[N comparable](c Component[N]) {
	if r, ok := c.(Readier); ok {
		r.Ready()
	}
}

func (m *Manager[N]) fail(report *Report, span trace.Span, err error) {
	report.Errors = append(report.Errors, err)
	span.RecordError(err)
	m.opts.observers.failed(err)
	m.opts.logger.Error("component initialization failed",
		"error", err,
		"selector", m.opts.selector,
	)
}

func (m *Manager[N]) finish(span trace.Span, report Report, start time.Time) {
	span.SetAttributes(
		attribute.Int("abs.discovered", report.Discovered),
		attribute.Int("abs.initialized", report.Initialized),
		attribute.Int("abs.errors", len(report.Errors)),
	)
	if !report.OK() {
		span.SetStatus(codes.Error, report.Errors[0].Error())
	}

	elapsed := time.Since(start)
	m.opts.observers.passCompleted(report, elapsed)
	m.opts.logger.Debug("discovery pass completed",
		"kind", report.Kind,
		"discovered", report.Discovered,
		"initialized", report.Initialized,
		"skipped", report.Skipped,
		"aborted", report.Aborted,
		"duration", elapsed,
	)
}

// ComponentByNode returns the live component bound to node.
func (m *Manager[N]) ComponentByNode(node N) (Component[N], bool) {
	tag, ok := m.doc.Attr(node, m.opts.selector)
	if !ok {
		return nil, false
	}
	for _, c := range m.live[tag] {
		if c.Node() == node {
			return c, true
		}
	}
	return nil, false
}

// Components returns a snapshot of the live components for tag.
func (m *Manager[N]) Components(tag string) []Component[N] {
	return append([]Component[N](nil), m.live[tag]...)
}

// Len returns the number of live components.
func (m *Manager[N]) Len() int {
	n := 0
	for _, list := range m.live {
		n += len(list)
	}
	return n
}

// DestroyComponent tears c down: live components under its node first,
// then its Destroy hook, then removal of its node from the document.
// Destroying an untracked or already destroyed component is a no-op.
func (m *Manager[N]) DestroyComponent(c Component[N]) {
	m.DestroyComponentContext(context.Background(), c)
}

// DestroyComponentContext is DestroyComponent with a parent context for tracing.
func (m *Manager[N]) DestroyComponentContext(ctx context.Context, c Component[N]) {
	m.destroy(ctx, c)
}

func (m *Manager[N]) destroy(ctx context.Context, c Component[N]) bool {
	if c == nil {
		return false
	}
	tag, idx := m.locate(c)
	if idx < 0 {
		return false
	}

	ctx, span := m.opts.tracer.Start(ctx, "abs.destroy_component",
		trace.WithAttributes(attribute.String("abs.tag", tag)))
	defer span.End()

	node := c.Node()
	for _, sub := range m.doc.QueryAll(node, m.opts.selector) {
		if child, ok := m.ComponentByNode(sub); ok {
			m.destroy(ctx, child)
		}
	}

	if d, ok := c.(Destroyer); ok {
		d.Destroy()
	}
	m.doc.Remove(node)
	m.untrack(tag, c)

	m.opts.observers.destroyed(tag)
	m.opts.logger.Debug("component destroyed", "tag", tag, "node", m.describe(node))
	return true
}

// PurgeComponentsList destroys every live component whose node is no
// longer alive according to the configured LivenessMode, and returns how
// many components left the live table.
func (m *Manager[N]) PurgeComponentsList() int {
	return m.PurgeComponentsListContext(context.Background())
}

// PurgeComponentsListContext is PurgeComponentsList with a parent context for tracing.
func (m *Manager[N]) PurgeComponentsListContext(ctx context.Context) int {
	ctx, span := m.opts.tracer.Start(ctx, "abs.purge",
		trace.WithAttributes(attribute.String("abs.liveness", m.opts.liveness.String())))
	defer span.End()

	before := m.Len()
	for _, c := range m.snapshot() {
		// A parent destroyed earlier in the sweep may have taken c with it.
		if !m.tracked(c) || m.alive(c) {
			continue
		}
		m.destroy(ctx, c)
	}
	purged := before - m.Len()

	span.SetAttributes(attribute.Int("abs.destroyed", purged))
	if purged > 0 {
		m.opts.logger.Info("purged stale components", "count", purged)
	}
	return purged
}

func (m *Manager[N]) alive(c Component[N]) bool {
	node := c.Node()
	if m.opts.liveness == LivenessByIdentity {
		return m.doc.Contains(node)
	}
	tag, ok := m.doc.Attr(node, m.opts.selector)
	if !ok {
		return false
	}
	_, found := m.doc.QueryValue(m.opts.selector, tag)
	return found
}

// snapshot lists live components by sorted tag, then construction order.
func (m *Manager[N]) snapshot() []Component[N] {
	tags := make([]string, 0, len(m.live))
	for tag := range m.live {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	out := make([]Component[N], 0, m.Len())
	for _, tag := range tags {
		out = append(out, m.live[tag]...)
	}
	return out
}

// locate finds the tag list holding c. idx is -1 when c is not live.
func (m *Manager[N]) locate(c Component[N]) (tag string, idx int) {
	for t, list := range m.live {
		for i, existing := range list {
			if existing == c {
				return t, i
			}
		}
	}
	return "", -1
}

func (m *Manager[N]) tracked(c Component[N]) bool {
	_, idx := m.locate(c)
	return idx >= 0
}

func (m *Manager[N]) untrack(tag string, c Component[N]) {
	list := m.live[tag]
	for i, existing := range list {
		if existing == c {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(m.live, tag)
		return
	}
	m.live[tag] = list
}

func (m *Manager[N]) describe(node N) string {
	if d, ok := m.doc.(Describer[N]); ok {
		return d.Describe(node)
	}
	return fmt.Sprintf("%v", node)
}
