// Package pager implements the incremental list loader: a growing visible
// prefix over a filtered item sequence, advanced by a level-triggered
// visibility sentinel. The counter logic is pure so it can be tested apart
// from whatever drives the visibility events.
package pager

// PageSize is the number of items revealed per page, constant across the
// system.
const PageSize = 20

// Pager tracks a monotonically increasing page counter over a sequence of
// known length. The page counter starts at 1: one page is always visible.
type Pager struct {
	pageSize int
	page     int
	length   int
}

func New(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	return &Pager{pageSize: pageSize, page: 1}
}

// Reset points the pager at a new filtered sequence: page back to 1,
// length to n. Must be called whenever the upstream sequence identity
// changes (new search term or category), otherwise a shrunken sequence
// can leave stale state behind.
func (p *Pager) Reset(n int) {
	p.page = 1
	p.length = n
}

func (p *Pager) Page() int {
	return p.page
}

// HasMore reports whether items beyond the visible prefix remain.
func (p *Pager) HasMore() bool {
	return p.page*p.pageSize < p.length
}

// Advance reveals one more page. At the end it is a no-op and returns
// false.
func (p *Pager) Advance() bool {
	if !p.HasMore() {
		return false
	}
	p.page++
	return true
}

// VisibleCount returns the size of the visible prefix, capped at the
// sequence length.
func (p *Pager) VisibleCount() int {
	n := p.page * p.pageSize
	if n > p.length {
		n = p.length
	}
	return n
}

// Sentinel turns visibility events into at most one Advance per crossing.
// The contract is level-triggered: SetVisible(true) while already visible
// does nothing, but leaving and re-entering visibility retriggers. An
// in-progress flag prevents a second advance before Settle is called, so
// rapid repeated triggers at the fetch boundary collapse into one.
type Sentinel struct {
	pager    *Pager
	visible  bool
	fetching bool
}

func NewSentinel(p *Pager) *Sentinel {
	return &Sentinel{pager: p}
}

// SetVisible records a visibility change and returns true when it caused
// an advance.
func (s *Sentinel) SetVisible(v bool) bool {
	if !v {
		s.visible = false
		return false
	}
	if s.visible {
		return false
	}
	s.visible = true
	if s.fetching || !s.pager.HasMore() {
		return false
	}
	s.fetching = true
	return s.pager.Advance()
}

// Settle marks the advance as rendered, re-arming the sentinel.
func (s *Sentinel) Settle() {
	s.fetching = false
	s.visible = false
}

// Fetching reports whether an advance is awaiting Settle.
func (s *Sentinel) Fetching() bool {
	return s.fetching
}

// Reset clears the sentinel together with its pager for a new sequence.
func (s *Sentinel) Reset(n int) {
	s.pager.Reset(n)
	s.visible = false
	s.fetching = false
}
