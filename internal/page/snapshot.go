package page

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrNoSnapshot is returned when a navigation target has no saved document.
var ErrNoSnapshot = errors.New("no snapshot for target")

// Snapshot replays saved HTML documents through the Page interface.
//
// Interactions are scripted with data attributes on the documents
// themselves, so a snapshot set can describe the same click-driven flows
// a live session would go through:
//
//	data-page="name"       clicking loads the named document
//	data-reveal="sel"      clicking unhides elements matching sel
//	data-dismiss="sel"     clicking hides elements matching sel
//	data-click-error="msg" clicking fails with msg
//	data-overlay           element is hidden by an Escape dispatch
//
// Elements carrying the hidden attribute, or inline display:none, or any
// such ancestor, are reported as not visible.
type Snapshot struct {
	raw     map[string]string
	cur     *goquery.Document
	curName string
}

// NewSnapshot builds a snapshot page over the given documents and loads
// the start document.
func NewSnapshot(docs map[string]string, start string) (*Snapshot, error) {
	s := &Snapshot{raw: docs}
	if err := s.load(start); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadDir builds a snapshot page from every .html file in dir, keyed by
// base filename. The "home" document is loaded first when present,
// otherwise the lexicographically first file.
func LoadDir(dir string) (*Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot dir: %w", err)
	}
	docs := make(map[string]string)
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot %s: %w", e.Name(), err)
		}
		name := strings.TrimSuffix(e.Name(), ".html")
		docs[name] = string(b)
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no .html snapshots in %s", dir)
	}
	start := "home"
	if _, ok := docs[start]; !ok {
		sort.Strings(names)
		start = names[0]
	}
	return NewSnapshot(docs, start)
}

// load parses the named document fresh, discarding any mutations made to
// the previously displayed one. This mirrors a real navigation: handles
// into the old document become stale.
func (s *Snapshot) load(name string) error {
	raw, ok := s.raw[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSnapshot, name)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to parse snapshot %s: %w", name, err)
	}
	s.cur = doc
	s.curName = name
	return nil
}

// Current returns the name of the displayed document.
func (s *Snapshot) Current() string {
	return s.curName
}

func (s *Snapshot) Navigate(url string) error {
	name := strings.TrimSuffix(url, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		if _, ok := s.raw[name]; !ok {
			name = name[i+1:]
		}
	}
	if _, ok := s.raw[name]; !ok {
		// A replay set captured from one site maps any unknown URL
		// (typically the base URL) to the home document.
		if _, home := s.raw["home"]; home {
			name = "home"
		}
	}
	return s.load(name)
}

func (s *Snapshot) Find(selector string) []Element {
	return s.split(s.cur.Find(selector))
}

func (s *Snapshot) Escape() error {
	s.cur.Find("[data-overlay]").SetAttr("hidden", "hidden")
	return nil
}

// Wait returns immediately: a static document has no asynchronous
// rendering to settle. The context is still honored so cancellation
// behaves the same as in a live run.
func (s *Snapshot) Wait(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

func (s *Snapshot) split(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, one *goquery.Selection) {
		out = append(out, &snapshotElement{sel: one, snap: s})
	})
	return out
}

type snapshotElement struct {
	sel  *goquery.Selection
	snap *Snapshot
}

func (e *snapshotElement) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

func (e *snapshotElement) HTML() string {
	h, err := e.sel.Html()
	if err != nil {
		return ""
	}
	return h
}

func (e *snapshotElement) Attr(name string) string {
	return e.sel.AttrOr(name, "")
}

func (e *snapshotElement) Visible() bool {
	if len(e.sel.Nodes) == 0 {
		return false
	}
	for n := e.sel.Nodes[0]; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		for _, a := range n.Attr {
			switch a.Key {
			case "hidden":
				return false
			case "style":
				if strings.Contains(strings.ReplaceAll(a.Val, " ", ""), "display:none") {
					return false
				}
			}
		}
	}
	return true
}

func (e *snapshotElement) Click() error {
	if msg := e.Attr("data-click-error"); msg != "" {
		return errors.New(msg)
	}
	if e.Attr("aria-expanded") == "false" {
		e.sel.SetAttr("aria-expanded", "true")
	}
	if sel := e.Attr("data-reveal"); sel != "" {
		e.snap.cur.Find(sel).RemoveAttr("hidden")
	}
	if sel := e.Attr("data-dismiss"); sel != "" {
		e.snap.cur.Find(sel).SetAttr("hidden", "hidden")
	}
	if name := e.Attr("data-page"); name != "" {
		return e.snap.load(name)
	}
	return nil
}

func (e *snapshotElement) Find(selector string) []Element {
	return e.snap.split(e.sel.Find(selector))
}
