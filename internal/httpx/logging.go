package httpx

import (
	"net/http"
	"time"

	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

// LoggingTransport logs HTTP requests and responses when the context logger is verbose.
type LoggingTransport struct {
	base http.RoundTripper
}

func NewLoggingTransport(base http.RoundTripper) *LoggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &LoggingTransport{base: base}
}

func (l *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	logger := logging.FromContext(ctx)
	if !logger.Verbose() {
		return l.base.RoundTrip(req)
	}

	logger.DebugHTTP("%s %s", req.Method, req.URL.Redacted())
	start := time.Now()

	resp, err := l.base.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		logger.DebugHTTP("%s %s failed: %v (took %v)", req.Method, req.URL.Redacted(), err, elapsed)
		return nil, err
	}

	logger.DebugHTTP("%s %s -> %d (took %v)", req.Method, req.URL.Redacted(), resp.StatusCode, elapsed)
	return resp, nil
}
