package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = Record{
	RunID:     "run-1",
	URL:       "https://a.com/page",
	Title:     "A page",
	Status:    200,
	Size:      12345,
	Depth:     2,
	Score:     5001,
	Links:     7,
	Worker:    3,
	CrawledAt: time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawl.log")
	l := NewLogFile(path, 10, 1)

	require.NoError(t, l.Write(context.Background(), sample))
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"03/05/2024 02:07:09 PM \t SIZE: 12KB\tDEPTH: 2\tRANK: 5001\thttps://a.com/page\n",
		string(b))
}

func TestSQLite(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "pages.db"))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, sample))
	require.NoError(t, s.Write(ctx, sample), "duplicate page in one run is ignored")
	other := sample
	other.URL = "https://b.com/"
	require.NoError(t, s.Write(ctx, other))

	got, err := s.Pages(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, sample.URL, got[0].URL)
	assert.Equal(t, sample.Score, got[0].Score)
	assert.True(t, sample.CrawledAt.Equal(got[0].CrawledAt))
	assert.Equal(t, "https://b.com/", got[1].URL)

	none, err := s.Pages(ctx, "other-run")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMongo_NoopWithoutURI(t *testing.T) {
	m, err := NewMongo(context.Background(), "")
	require.NoError(t, err)
	assert.NoError(t, m.Write(context.Background(), sample))
	assert.NoError(t, m.Close())
}

type failingSink struct{ err error }

func (f failingSink) Write(context.Context, Record) error { return f.err }
func (f failingSink) Close() error                        { return f.err }

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	mem := NewMemory()
	m := Multi{failingSink{boom}, mem}

	err := m.Write(context.Background(), sample)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []Record{sample}, mem.Records(), "one failing sink does not starve the others")
	assert.ErrorIs(t, m.Close(), boom)

	assert.NoError(t, Multi{}.Write(context.Background(), sample))
}
