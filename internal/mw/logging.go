package mw

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/sessionkit/sessionkit-go/internal/httpx"
	"github.com/sessionkit/sessionkit-go/internal/trace"
)

type LogOpts struct {
	SkipPaths     []string
	RedactHeaders []string
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions
}

// Logger emits a one-line summary per request; 4xx/5xx additionally get a
// header dump with credential values redacted.
func Logger(opts LogOpts) func(http.Handler) http.Handler {
	redact := make([]string, len(opts.RedactHeaders))
	for i, h := range opts.RedactHeaders {
		redact[i] = strings.ToLower(h)
	}
	if !slices.Contains(redact, "authorization") {
		redact = append(redact, "authorization")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPreflight(r) || slices.Contains(opts.SkipPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := httpx.NewRecorder(w)
			next.ServeHTTP(rec, r)
			dur := time.Since(start)

			slog.Info("req",
				"trace", trace.From(r.Context()),
				"m", r.Method,
				"path", r.URL.Path,
				"status", rec.Status,
				"ms", dur.Milliseconds(),
				"bytes", rec.Bytes,
			)

			if rec.Status >= 400 {
				h := map[string]string{}
				for k, vv := range r.Header {
					if len(vv) == 0 {
						continue
					}
					vl := vv[0]
					if slices.Contains(redact, strings.ToLower(k)) {
						vl = "***redacted***"
					}
					h[k] = vl
				}
				slog.Error("req_detail",
					"trace", trace.From(r.Context()),
					"m", r.Method, "path", r.URL.Path,
					"status", rec.Status, "ms", dur.Milliseconds(),
					"headers", h,
				)
			}
		})
	}
}
