package web

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ServesIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docqa")
	assert.Contains(t, rec.Body.String(), "upload-form")
}

func TestEmbeddedAssetsPresent(t *testing.T) {
	_, err := fs.Stat(staticFS, "index.html")
	require.NoError(t, err)
}
