package browser

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const tabPage = `<!DOCTYPE html>
<html>
<body style="height: 3000px">
  <button onclick="showTab('results-tab')">Results</button>
  <button onclick="showTab('payback-tab')">Payback</button>
  <div id="results-tab">results</div>
  <div id="payback-tab" hidden>payback</div>
  <script>
    function showTab(id) {
      for (const el of document.querySelectorAll('div')) el.hidden = el.id !== id;
    }
  </script>
</body>
</html>`

func newTabServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(tabPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}
