package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `<html>
<head><title>Job</title><script>trackVisit();</script></head>
<body>
  <nav>Home | Jobs | About</nav>
  <div class="cookie-banner">We use cookies</div>
  <div class="job-description">
    <h1>SOC Analyst</h1>
    <p>Monitor SIEM alerts and run incident response.</p>
  </div>
  <footer>Copyright 2026</footer>
</body>
</html>`

func TestFromURL_ExtractsPostingText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer srv.Close()

	res, err := FromURL(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Text, "SOC Analyst")
	assert.Contains(t, res.Text, "Monitor SIEM alerts")
	assert.NotContains(t, res.Text, "cookies")
	assert.NotContains(t, res.Text, "Copyright")
	assert.NotContains(t, res.Text, "trackVisit")
}

func TestFromURL_SetsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer srv.Close()

	_, err := FromURL(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, got)
}

func TestFromURL_NonOKStatusReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	res, err := FromURL(context.Background(), srv.URL, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	var ie *Error
	require.ErrorAs(t, err, &ie)
	assert.Contains(t, ie.Message, "404")
}

func TestFromURL_InvalidURLRejected(t *testing.T) {
	_, err := FromURL(context.Background(), "not-a-url", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	text, err := ExtractMainText(`<html><body><p>Plain posting text.</p></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "Plain posting text.", text)
}

func TestExtractMainText_PrefersPostingContainer(t *testing.T) {
	html := `<html><body>
	  <div class="sidebar">Related jobs</div>
	  <main><p>Main requirement list.</p></main>
	</body></html>`

	text, err := ExtractMainText(html)
	require.NoError(t, err)
	assert.Equal(t, "Main requirement list.", text)
	assert.NotContains(t, text, "Related jobs")
}
