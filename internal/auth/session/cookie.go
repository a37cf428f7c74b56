package session

import (
	"net/http"
	"strings"
	"time"
)

// CookieStore persiste el token opaco en una cookie HTTP. Nunca inspecciona
// el contenido del token: es puro transporte, desacoplado del Codec para que
// el esquema de firma pueda cambiar sin tocar esta capa.
type CookieStore struct {
	Name     string // default "session"
	Domain   string // opcional
	SameSite string // "", "lax", "strict", "none"; default Lax
	Secure   bool   // true en prod (https)
}

// parseSameSite convierte el string de config a http.SameSite.
// Acepta: "", "lax", "strict", "none" (case-insensitive). Default: Lax.
func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (cs *CookieStore) name() string {
	if cs.Name == "" {
		return "session"
	}
	return cs.Name
}

// Persist setea la cookie de sesión con flags de seguridad y expiración
// explícita igual al ExpiresAt de la sesión.
func (cs *CookieStore) Persist(w http.ResponseWriter, token string, expiresAt time.Time) {
	c := &http.Cookie{
		Name:     cs.name(),
		Value:    token,
		Path:     "/",
		Expires:  expiresAt.UTC(),
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Secure:   cs.Secure,
		HttpOnly: true,
		SameSite: parseSameSite(cs.SameSite),
	}
	if cs.Domain != "" {
		c.Domain = cs.Domain
	}
	http.SetCookie(w, c)
}

// Load lee el token de la cookie. Ausencia no es error: retorna "" y false.
func (cs *CookieStore) Load(r *http.Request) (string, bool) {
	c, err := r.Cookie(cs.name())
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Clear expira la cookie inmediatamente (Expires en el pasado, MaxAge -1)
// para que el user-agent la sobreescriba.
func (cs *CookieStore) Clear(w http.ResponseWriter) {
	c := &http.Cookie{
		Name:     cs.name(),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		Secure:   cs.Secure,
		HttpOnly: true,
		SameSite: parseSameSite(cs.SameSite),
	}
	if cs.Domain != "" {
		c.Domain = cs.Domain
	}
	http.SetCookie(w, c)
}
