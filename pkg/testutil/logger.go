package testutil

import (
	"io"
	"log/slog"
	"net/http"

	"agrotrace/pkg/requestcontext"
)

// Logger returns a logger that discards everything. Services require a
// logger; tests rarely want the output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithCorrelationID stamps a correlation ID onto the request context, the
// way the middleware would for real traffic.
func WithCorrelationID(req *http.Request, id string) *http.Request {
	return req.WithContext(requestcontext.WithCorrelationID(req.Context(), id))
}
