package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubenschmidt/go-docqa/core"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("report.pdf"))
	assert.True(t, Supported("notes.TXT"))
	assert.True(t, Supported("contract.docx"))
	assert.True(t, Supported("readme.md"))
	assert.False(t, Supported("image.png"))
	assert.False(t, Supported("archive.zip"))
	assert.False(t, Supported("noextension"))
}

func TestLoad_PlainText(t *testing.T) {
	path := writeTemp(t, "notes.txt", "  Hello, document.\n")

	doc, err := Load(path, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", doc.Name)
	assert.Equal(t, "Hello, document.", doc.Text)
}

func TestLoad_Markdown(t *testing.T) {
	path := writeTemp(t, "readme.md", "# Title\n\nSome body text.")

	doc, err := Load(path, "readme.md")
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "Some body text.")
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeTemp(t, "data.csv", "a,b,c")

	_, err := Load(path, "data.csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnsupportedFormat))
}

func TestLoad_EmptyDocument(t *testing.T) {
	path := writeTemp(t, "empty.txt", "   \n\t\n")

	_, err := Load(path, "empty.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrEmptyDocument))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"), "nope.txt")
	require.Error(t, err)
}

func TestLoad_NameDecidesParser(t *testing.T) {
	// Uploads are spooled to temp files; the original filename picks the
	// parser regardless of the temp path.
	path := writeTemp(t, "upload-12345", "plain contents")

	doc, err := Load(path, "original.txt")
	require.NoError(t, err)
	assert.Equal(t, "original.txt", doc.Name)
	assert.Equal(t, "plain contents", doc.Text)
}
