package httpmw

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cwrk-planet/epanel/pkg/httputil"
	"github.com/cwrk-planet/epanel/pkg/logger"

	"github.com/stretchr/testify/require"
)

func TestRequestLogger_LevelsAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger.Init(logger.Config{Env: logger.EnvDev, Backend: logger.BackendStd, Output: &buf})

	h := httputil.MiddlewareRequestID(WithRequestLoggerCtx(RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(httputil.HeaderRequestID, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), r)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "level=INFO")
	require.Contains(t, lines[0], "req_id=req-1")
	require.Contains(t, lines[0], "status=200")
	require.Contains(t, lines[0], "bytes=2")
	require.Contains(t, lines[1], "level=WARN")
	require.Contains(t, lines[1], "status=404")
	require.Contains(t, lines[1], "path=/missing")
}

func TestStatusWriter_HijackUnsupported(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}
	_, _, err := sw.Hijack()
	require.Error(t, err)
}
