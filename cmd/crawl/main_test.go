package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focuscrawl/internal/config"
	"focuscrawl/internal/seeds"
	"focuscrawl/internal/storage"
)

func TestSeedSupplier(t *testing.T) {
	cfg := &config.Config{Seeds: config.SeedsConfig{
		SearchURL: "https://search.example/?q=%s", SearchSelector: "a", Limit: 3,
	}}

	_, err := seedSupplier(cfg, "")
	assert.Error(t, err)

	s, err := seedSupplier(cfg, "golang")
	require.NoError(t, err)
	search, ok := s.(*seeds.Search)
	require.True(t, ok)
	assert.Equal(t, 3, search.Limit)

	cfg.Seeds.File = "seeds.txt"
	s, err = seedSupplier(cfg, "golang")
	require.NoError(t, err)
	assert.Equal(t, seeds.File("seeds.txt"), s)

	cfg.Seeds.URLs = []string{"http://a.com/"}
	s, err = seedSupplier(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, seeds.Static{"http://a.com/"}, s)
}

func TestOpenSinks(t *testing.T) {
	dir := t.TempDir()
	sink, err := openSinks(context.Background(), config.OutputConfig{
		LogFile:       filepath.Join(dir, "crawl.log"),
		LogMaxSizeMB:  1,
		LogMaxBackups: 1,
		SQLitePath:    filepath.Join(dir, "pages.db"),
	})
	require.NoError(t, err)
	multi, ok := sink.(storage.Multi)
	require.True(t, ok)
	assert.Len(t, multi, 2)
	assert.NoError(t, sink.Close())

	sink, err = openSinks(context.Background(), config.OutputConfig{})
	require.NoError(t, err)
	assert.Empty(t, sink)
}
