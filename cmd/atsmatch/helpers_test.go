package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpopescu/atsmatch/internal/analysis"
	"github.com/mpopescu/atsmatch/internal/cv"
	"github.com/mpopescu/atsmatch/internal/lang"
)

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.json")
	snap := &cv.Snapshot{
		Summary: "SOC analyst",
		Skills:  []string{"siem", "python"},
	}

	require.NoError(t, saveSnapshot(path, snap))
	loaded, err := loadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := loadSnapshot(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestLoadSnapshot_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.json")
	require.NoError(t, os.WriteFile(path, []byte("{]"), 0o644))

	_, err := loadSnapshot(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadCache_MissingFileGivesEmptyCache(t *testing.T) {
	cache, err := loadCache(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestLoadCache_EmptyPathGivesEmptyCache(t *testing.T) {
	cache, err := loadCache("")
	require.NoError(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	cache := analysis.NewCache()
	a := analysis.NewAnalyzer(0).Analyze(cache, &cv.Snapshot{Skills: []string{"siem"}},
		"SOC analyst with SIEM and EDR experience", analysis.Options{})
	require.NoError(t, saveCache(path, cache))

	restored, err := loadCache(path)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Len())

	active, ok := restored.Active()
	require.True(t, ok)
	assert.Equal(t, a.Hash, active.Hash)
	assert.Equal(t, a.Keywords, active.Keywords)
}

func TestLoadCache_CorruptStateRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"jobs": "not-a-map"}`), 0o644))

	_, err := loadCache(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to restore state")
}

func TestResolveJobText_RequiresExactlyOneSource(t *testing.T) {
	_, err := resolveJobText(context.Background(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either --job or --job-url")

	_, err = resolveJobText(context.Background(), "jd.txt", "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestResolveJobText_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("SOC analyst\r\nwith SIEM"), 0o644))

	text, err := resolveJobText(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, "SOC analyst\nwith SIEM", text)
}

func TestMergedConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := mergedConfig("")
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.MaxKeywords)
	assert.Equal(t, ":8080", cfg.ServerAddr)
}

func TestMergedConfig_FileValuesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"max_keywords": 25, "language": "ro"}`), 0o644))

	cfg, err := mergedConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.MaxKeywords)
	assert.Equal(t, string(lang.RO), cfg.Language)
}

func TestMergedConfig_InvalidConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"language": "de"}`), 0o644))

	_, err := mergedConfig(path)
	require.Error(t, err)
}
