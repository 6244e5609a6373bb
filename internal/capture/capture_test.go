package capture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	c := New("http://127.0.0.1:9222", "https://broker.example", t.TempDir(), 0)
	c.now = func() time.Time { return time.Date(2025, 7, 1, 9, 5, 3, 0, time.UTC) }

	assert.Equal(t, "portfolio_20250701_090503.png", c.filename())
	assert.Equal(t, 30*time.Second, c.Timeout)
}

func TestCaptureFailsWithoutBrowser(t *testing.T) {
	// Answers like a web server, not like a DevTools endpoint.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL, "about:blank", t.TempDir(), 2*time.Second)
	path, err := c.Capture(context.Background())
	require.Error(t, err)
	assert.Empty(t, path)
}
