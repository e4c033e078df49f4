package page

import (
	"context"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

// Live is the browser-backed Page implementation.
type Live struct {
	page    *rod.Page
	timeout time.Duration
}

// NewLive wraps an open rod page. timeout bounds individual navigations.
func NewLive(p *rod.Page, timeout time.Duration) *Live {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Live{page: p, timeout: timeout}
}

func (l *Live) Navigate(url string) error {
	if err := l.page.Timeout(l.timeout).Navigate(url); err != nil {
		return err
	}
	// Best effort: the site renders most content after load anyway, the
	// caller's settle delay covers the rest.
	_ = l.page.Timeout(l.timeout).WaitLoad()
	return nil
}

func (l *Live) Find(selector string) []Element {
	els, err := l.page.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &liveElement{el: el})
	}
	return out
}

func (l *Live) Escape() error {
	return l.page.Keyboard.Press(input.Escape)
}

func (l *Live) Wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

type liveElement struct {
	el *rod.Element
}

func (e *liveElement) Text() string {
	s, err := e.el.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func (e *liveElement) HTML() string {
	s, err := e.el.HTML()
	if err != nil {
		return ""
	}
	return s
}

func (e *liveElement) Attr(name string) string {
	v, err := e.el.Attribute(name)
	if err != nil || v == nil {
		return ""
	}
	return *v
}

func (e *liveElement) Visible() bool {
	v, err := e.el.Visible()
	if err != nil {
		return false
	}
	return v
}

func (e *liveElement) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *liveElement) Find(selector string) []Element {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &liveElement{el: el})
	}
	return out
}
