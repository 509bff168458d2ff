package frontier

import "sync"

// Verdict is the outcome of one Next call.
type Verdict int

const (
	// Empty means the frontier had nothing to pop (or the page budget is
	// spent). Workers exit on it.
	Empty Verdict = iota
	// Requeued means the candidate lost to the new head and was pushed
	// back with its fresh score.
	Requeued
	// Stale means the popped entry names a page that is already visited.
	Stale
	// Ready means the candidate is the best page available right now.
	Ready
)

func (v Verdict) String() string {
	switch v {
	case Empty:
		return "empty"
	case Requeued:
		return "requeued"
	case Stale:
		return "stale"
	case Ready:
		return "ready"
	}
	return "unknown"
}

// Stats is a point-in-time view of the shared state.
type Stats struct {
	Visited     int
	Discovered  int
	Frontier    int
	TotalQueued int
}

// State holds the page index, domain visit log and frontier behind a single
// lock. Every exported method is one critical section; none of them block
// on I/O.
type State struct {
	mu       sync.Mutex
	pages    *Index
	domains  *DomainLog
	queue    *Queue
	visited  int
	maxPages int
}

// NewState returns empty shared state. A positive maxPages stops Next and
// Claim once that many pages have been visited.
func NewState(maxPages int) *State {
	return &State{
		pages:    NewIndex(),
		domains:  NewDomainLog(),
		queue:    NewQueue(),
		maxPages: maxPages,
	}
}

// Seed records u with no inbound links at depth 0. Seeds are not queued;
// the engine visits them directly. It reports whether a record was created.
func (s *State) Seed(u string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !IsValid(u) {
		return false
	}
	if _, ok := s.pages.get(u); ok {
		return false
	}
	p := &PageRecord{Depth: 0}
	s.pages.put(u, p)
	p.Rank = s.score(u)
	return true
}

// Discover credits incoming references to u, creating its record at depth
// if it is new, and queues a fresh entry. Visited and inadmissible URLs are
// ignored. It reports whether an entry was queued.
func (s *State) Discover(u string, incoming, depth int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discover(u, incoming, depth)
}

func (s *State) discover(u string, incoming, depth int) bool {
	if !IsValid(u) {
		return false
	}
	p, ok := s.pages.get(u)
	switch {
	case !ok:
		p = &PageRecord{Incoming: incoming, Depth: depth}
		s.pages.put(u, p)
	case p.Visited:
		return false
	default:
		p.Incoming += incoming
	}
	p.Rank = s.score(u)
	s.queue.Push(Entry{Score: p.Rank, URL: u})
	return true
}

// Next pops the frontier head and re-validates it against the new head.
// The returned entry carries the candidate's current score.
func (s *State) Next() (Entry, Verdict) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exhausted() {
		return Entry{}, Empty
	}
	e, ok := s.queue.Pop()
	if !ok {
		return Entry{}, Empty
	}
	p, ok := s.pages.get(e.URL)
	if !ok || p.Visited {
		return e, Stale
	}
	e.Score = s.score(e.URL)
	if !s.queue.Confirm(e.URL, e.Score) {
		return e, Requeued
	}
	return e, Ready
}

// Claim marks u visited and bumps its domain's visit count. It returns
// false when another worker got there first, when u was never discovered,
// or when the page budget is spent.
func (s *State) Claim(u string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pages.get(u)
	if !ok || p.Visited || s.exhausted() {
		return false
	}
	p.Visited = true
	s.domains.record(Domain(u))
	s.visited++
	return true
}

// Expand discovers every link found on the visited page u at depth+1 and
// returns u's record together with the number of entries queued.
func (s *State) Expand(u string, links []string) (PageRecord, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pages.get(u)
	if !ok {
		return PageRecord{}, 0
	}
	queued := 0
	for _, l := range links {
		if s.discover(l, 1, p.Depth+1) {
			queued++
		}
	}
	return *p, queued
}

// Page returns a copy of u's record.
func (s *State) Page(u string) (PageRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pages.get(u)
	if !ok {
		return PageRecord{}, false
	}
	return *p, true
}

// Score computes u's current relevance.
func (s *State) Score(u string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score(u)
}

// Visits returns the visit count recorded for domain.
func (s *State) Visits(domain string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.domains.Visits(domain)
}

// Len returns the number of frontier entries, stale ones included.
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Size()
}

func (s *State) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Visited:     s.visited,
		Discovered:  s.pages.Size(),
		Frontier:    s.queue.Size(),
		TotalQueued: s.queue.TotalQueued(),
	}
}

// caller holds mu
func (s *State) score(u string) int {
	incoming := 0
	if p, ok := s.pages.get(u); ok {
		incoming = p.Incoming
	}
	return Score(incoming, s.domains.Visits(Domain(u)))
}

// caller holds mu
func (s *State) exhausted() bool {
	return s.maxPages > 0 && s.visited >= s.maxPages
}
