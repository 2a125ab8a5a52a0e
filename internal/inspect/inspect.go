package inspect

import (
	"context"
	"sort"

	"golang.org/x/net/html"

	"github.com/vango-dev/abs/pkg/component"
	"github.com/vango-dev/abs/pkg/htmldoc"
)

// Phase is the furthest lifecycle step an instance reached.
type Phase string

const (
	PhaseInit      Phase = "init"
	PhaseReady     Phase = "ready"
	PhaseDestroyed Phase = "destroyed"
)

// Entry describes one component instance.
type Entry struct {
	Tag   string `json:"tag"`
	Node  string `json:"node"`
	Depth int    `json:"depth"`
	Phase Phase  `json:"phase"`
}

// Result is the outcome of scanning one document.
type Result struct {
	Source     string           `json:"source"`
	Report     component.Report `json:"report"`
	Components []Entry          `json:"components"`
	Errors     []string         `json:"errors,omitempty"`
}

// OK reports whether the scan had no failures.
func (r Result) OK() bool {
	return r.Report.OK()
}

// instance records its own lifecycle into an Entry.
type instance struct {
	component.Base[*html.Node]
	entry *Entry
}

func (i *instance) Init()    { i.entry.Phase = PhaseInit }
func (i *instance) Ready()   { i.entry.Phase = PhaseReady }
func (i *instance) Destroy() { i.entry.Phase = PhaseDestroyed }

// Session ties a document to a manager whose registered components all
// record their lifecycle.
type Session struct {
	Source  string
	Doc     *htmldoc.Document
	Manager *component.Manager[*html.Node]

	entries []*Entry
}

// NewSession registers an inspector for each tag. With no tags, every tag
// present in the document is registered.
func NewSession(source string, doc *htmldoc.Document, tags []string, opts ...component.Option) *Session {
	s := &Session{
		Source:  source,
		Doc:     doc,
		Manager: component.New[*html.Node](doc, opts...),
	}
	if len(tags) == 0 {
		tags = Tags(doc, s.Manager.AttributeSelector())
	}
	for _, tag := range tags {
		s.Manager.Register(tag, s.record(tag))
	}
	return s
}

func (s *Session) record(tag string) component.Constructor[*html.Node] {
	return func(n *html.Node) component.Component[*html.Node] {
		e := &Entry{
			Tag:   tag,
			Node:  htmldoc.Describe(n),
			Depth: s.depth(n),
		}
		s.entries = append(s.entries, e)
		return &instance{Base: component.NewBase(n), entry: e}
	}
}

// depth counts the component-bearing ancestors of n.
func (s *Session) depth(n *html.Node) int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		if _, ok := s.Doc.Attr(p, s.Manager.AttributeSelector()); ok {
			d++
		}
	}
	return d
}

// Scan runs a discovery pass over the whole document.
func (s *Session) Scan(ctx context.Context) Result {
	report := s.Manager.InitComponentsContext(ctx, nil)
	return s.result(report)
}

// Strip destroys every live instance of tag, children first, and returns
// how many components were destroyed in total.
func (s *Session) Strip(ctx context.Context, tag string) int {
	before := s.Manager.Len()
	for _, c := range s.Manager.Components(tag) {
		s.Manager.DestroyComponentContext(ctx, c)
	}
	return before - s.Manager.Len()
}

// Entries returns the recorded instances in construction order.
func (s *Session) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = *e
	}
	return out
}

func (s *Session) result(report component.Report) Result {
	r := Result{
		Source:     s.Source,
		Report:     report,
		Components: s.Entries(),
	}
	for _, err := range report.Errors {
		r.Errors = append(r.Errors, err.Error())
	}
	return r
}

// Tags returns the distinct non-empty values of attr in doc, sorted.
func Tags(doc *htmldoc.Document, attr string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, n := range doc.QueryAll(nil, attr) {
		v, _ := doc.Attr(n, attr)
		if v != "" && !seen[v] {
			seen[v] = true
			tags = append(tags, v)
		}
	}
	sort.Strings(tags)
	return tags
}
