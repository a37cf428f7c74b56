package middlewares

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"github.com/dropDatabas3/kurso/internal/auth/session"
	"github.com/dropDatabas3/kurso/internal/http/errors"
)

// WithSession decodifica la cookie de sesión una sola vez por request y
// la inyecta en el contexto. Una cookie ausente, vencida o adulterada deja
// el contexto sin sesión, sin error: el request sigue como anónimo y cada
// ruta decide si eso alcanza.
func WithSession(codec *session.Codec, cookies *session.CookieStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := cookies.Load(r); ok {
				if sess := codec.Verify(token); sess != nil {
					r = r.WithContext(withSession(r.Context(), sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession corta con 401 si el request no trae sesión válida.
// Debe aplicarse después de WithSession.
func RequireSession() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetSession(r.Context()) == nil {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdminKey protege rutas administrativas con una API key estática.
// Comparación en tiempo constante.
func RequireAdminKey(key string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				errors.WriteError(w, errors.ErrForbidden)
				return
			}
			got := r.Header.Get("X-Admin-API-Key")
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				errors.WriteError(w, errors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extrae la IP del cliente, respetando X-Forwarded-For si existe.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
