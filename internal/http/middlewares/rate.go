package middlewares

import (
	"net/http"
	"strconv"

	"github.com/dropDatabas3/kurso/internal/http/errors"
	"github.com/dropDatabas3/kurso/internal/observability/logger"
	"github.com/dropDatabas3/kurso/internal/rate"
)

// WithRateLimit limita requests por IP usando el limiter configurado.
// Si el limiter falla (redis caído), deja pasar: disponibilidad antes que
// límite estricto en el flujo de login.
func WithRateLimit(l rate.Limiter) Middleware {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := l.Allow(r.Context(), ClientIP(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !res.Allowed {
				if secs := int(res.RetryAfter.Seconds()); secs > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				errors.WriteError(w, errors.ErrRateLimited)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
