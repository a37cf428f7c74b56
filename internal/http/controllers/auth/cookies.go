package auth

import (
	"net/http"
	"time"
)

// Cookies del intento de login. Viven solo lo que dura el intento y van
// scoped al path de auth para que no viajen en cada request.
const (
	stateCookie    = "login_state"
	verifierCookie = "login_verifier"
	attemptPath    = "/v1/auth"
)

func (c *Controller) setAttemptCookies(w http.ResponseWriter, state, verifier string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	for name, value := range map[string]string{stateCookie: state, verifierCookie: verifier} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     attemptPath,
			MaxAge:   maxAge,
			HttpOnly: true,
			Secure:   c.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (c *Controller) clearAttemptCookies(w http.ResponseWriter) {
	for _, name := range []string{stateCookie, verifierCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     attemptPath,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   c.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func attemptCookie(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
