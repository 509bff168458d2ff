package storage

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Record is one crawl log entry, written once per visited page.
type Record struct {
	RunID     string    `bson:"run_id" json:"run_id"`
	URL       string    `bson:"url" json:"url"`
	Title     string    `bson:"title" json:"title"`
	Status    int       `bson:"status" json:"status"`
	Size      int       `bson:"size" json:"size"`
	Depth     int       `bson:"depth" json:"depth"`
	Score     int       `bson:"score" json:"score"`
	Links     int       `bson:"links" json:"links"`
	Worker    int       `bson:"worker" json:"worker"`
	CrawledAt time.Time `bson:"crawled_at" json:"crawled_at"`
}

// Sink receives crawl log records. Implementations must be safe for
// concurrent use.
type Sink interface {
	Write(ctx context.Context, r Record) error
	Close() error
}

// Multi fans every record out to all of its sinks.
type Multi []Sink

func (m Multi) Write(ctx context.Context, r Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Memory keeps records in a slice.
type Memory struct {
	mu      sync.Mutex
	records []Record
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Write(_ context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
	return nil
}

func (m *Memory) Close() error { return nil }

// Records returns a copy of everything written so far.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}
