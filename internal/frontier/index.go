package frontier

// PageRecord is the authoritative state of one discovered URL.
type PageRecord struct {
	Visited  bool
	Incoming int
	Rank     int
	Depth    int
}

// Index maps a URL to its record. Records are never removed.
type Index struct {
	pages map[string]*PageRecord
}

func NewIndex() *Index {
	return &Index{pages: make(map[string]*PageRecord)}
}

func (ix *Index) get(u string) (*PageRecord, bool) {
	p, ok := ix.pages[u]
	return p, ok
}

func (ix *Index) put(u string, p *PageRecord) {
	ix.pages[u] = p
}

// Size returns the number of discovered URLs.
func (ix *Index) Size() int { return len(ix.pages) }

// DomainLog counts visited pages per domain.
type DomainLog struct {
	visits map[string]int
}

func NewDomainLog() *DomainLog {
	return &DomainLog{visits: make(map[string]int)}
}

// Visits returns how many pages of domain have been visited.
func (d *DomainLog) Visits(domain string) int { return d.visits[domain] }

func (d *DomainLog) record(domain string) {
	d.visits[domain]++
}
