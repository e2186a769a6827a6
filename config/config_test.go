package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, int64(32), cfg.MaxUploadMB)
	assert.Equal(t, 1000, cfg.Chunker.Size)
	assert.Equal(t, 200, cfg.Chunker.OverlapRunes())
	assert.Equal(t, "gpt-4o-mini", cfg.Models.Chat)
	assert.Equal(t, "text-embedding-3-small", cfg.Models.Embed)
	assert.Equal(t, 4, cfg.Retrieval.TopK)
	assert.Zero(t, cfg.Retrieval.MinScore)
}

func TestLoad_File(t *testing.T) {
	raw := `
addr: ":9000"
database_dsn: "postgres://localhost/docqa"
max_upload_mb: 8
chunker:
  size: 500
  overlap: 50
models:
  chat: claude-3-5-sonnet
  embed: ollama/nomic-embed-text
retrieval:
  top_k: 6
  min_score: 0.25
`
	path := filepath.Join(t.TempDir(), "docqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "postgres://localhost/docqa", cfg.DatabaseDSN)
	assert.Equal(t, int64(8), cfg.MaxUploadMB)
	assert.Equal(t, 500, cfg.Chunker.Size)
	assert.Equal(t, 50, cfg.Chunker.OverlapRunes())
	assert.Equal(t, "claude-3-5-sonnet", cfg.Models.Chat)
	assert.Equal(t, "ollama/nomic-embed-text", cfg.Models.Embed)
	assert.Equal(t, 6, cfg.Retrieval.TopK)
	assert.Equal(t, 0.25, cfg.Retrieval.MinScore)
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":3000\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, 1000, cfg.Chunker.Size)
	assert.Equal(t, "gpt-4o-mini", cfg.Models.Chat)
}

func TestLoad_ExplicitZeroOverlap(t *testing.T) {
	raw := `
chunker:
  size: 400
  overlap: 0
`
	path := filepath.Join(t.TempDir(), "docqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Chunker.Size)
	assert.Equal(t, 0, cfg.Chunker.OverlapRunes())
}

func TestLoad_NegativeOverlapClamped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker:\n  overlap: -5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Chunker.OverlapRunes())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
