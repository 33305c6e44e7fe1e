package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/http/apierr"
)

// Recoverer recovers from panics, logs the panic with a stack trace and
// answers 500 when the connection allows it.
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						// the client response is aborted on purpose, keep unwinding
						panic(rvr)
					}

					log.ErrorContext(r.Context(), "panic while serving request",
						slog.String("method", r.Method),
						slog.String("route", routePattern(r)),
						slog.Any("recover", rvr),
						slog.String("stack", string(debug.Stack())))

					if r.Header.Get("Connection") != "Upgrade" {
						//nolint:errcheck
						apierr.Write(w, apierr.InternalServerErr)
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
