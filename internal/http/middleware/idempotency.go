package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/tuanvumaihuynh/perfume-inventory/internal/actor"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/perfume-inventory/internal/storage/cache"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency rejects a repeated Idempotency-Key of the same user with
// DUPLICATE_SUBMISSION. A key whose request failed or panicked is released
// so the client can retry with it. Requests without the header, or a nil store,
// pass through.
func Idempotency(store cache.IdempotencyStore, logger *slog.Logger, onError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if store == nil || key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			if userID, ok := actor.FromContext(ctx); ok {
				key = userID.String() + ":" + key
			}

			reserved, err := store.Reserve(ctx, key)
			if err != nil {
				// fail open
				logger.WarnContext(ctx, "idempotency store unavailable", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}
			if !reserved {
				onError(w, r, apperr.DuplicateSubmissionErr)
				return
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			completed := false
			// runs while a panic unwinds as well, Recoverer answers it afterwards
			defer func() {
				if completed && ww.Status() < http.StatusBadRequest {
					return
				}
				if err := store.Release(context.WithoutCancel(ctx), key); err != nil {
					logger.WarnContext(ctx, "release idempotency key", slog.Any("error", err))
				}
			}()

			next.ServeHTTP(ww, r)
			completed = true
		})
	}
}
