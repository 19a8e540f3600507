package httpadapter

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// Caller-supplied ids longer than this are replaced with a minted one.
const maxRequestIDLength = 64

type requestIDContextKey struct{}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}

// requestIDMiddleware tags each request with an id, honoring a usable
// client-supplied X-Request-Id and minting one otherwise. The id is echoed
// back in the response header.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		r = r.WithContext(context.WithValue(r.Context(), requestIDContextKey{}, id))
		w.Header().Set(requestIDHeader, id)

		next.ServeHTTP(w, r)
	})
}

// accessLogMiddleware writes one structured line per request, including the
// response size so document downloads are visible in the log.
func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		trace := &responseTrace{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(trace, r)

		level := slog.LevelInfo
		switch {
		case trace.status >= 500:
			level = slog.LevelError
		case trace.status >= 400:
			level = slog.LevelWarn
		}

		slog.Log(r.Context(), level, "http_request",
			"request_id", requestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", trace.status,
			"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
			"bytes", trace.written,
			"remote_addr", clientAddr(r),
			"user_agent", r.UserAgent(),
		)
	})
}

func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// responseTrace records the status and body size of a response. Flush is
// forwarded so file downloads keep streaming through the wrapper.
type responseTrace struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *responseTrace) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTrace) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

func (w *responseTrace) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
