// Package auth expone los endpoints del flujo de login y de la sesión.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/kurso/internal/auth/flow"
	"github.com/dropDatabas3/kurso/internal/auth/provider"
	"github.com/dropDatabas3/kurso/internal/auth/session"
	dto "github.com/dropDatabas3/kurso/internal/http/dto/auth"
	apperrors "github.com/dropDatabas3/kurso/internal/http/errors"
	"github.com/dropDatabas3/kurso/internal/http/helpers"
	"github.com/dropDatabas3/kurso/internal/http/middlewares"
	"github.com/dropDatabas3/kurso/internal/http/services/progress"
	"github.com/dropDatabas3/kurso/internal/metrics"
	"github.com/dropDatabas3/kurso/internal/observability/logger"
)

// Deps contiene las dependencias del controller.
type Deps struct {
	Flow     *flow.Service
	Provider provider.Exchanger
	Cookies  *session.CookieStore
	Progress *progress.Service

	// AfterLoginURL es adonde vuelve el browser al terminar el callback.
	AfterLoginURL string
	Secure        bool
}

type Controller struct {
	flow       *flow.Service
	provider   provider.Exchanger
	cookies    *session.CookieStore
	progress   *progress.Service
	afterLogin string
	secure     bool
}

func New(d Deps) *Controller {
	after := d.AfterLoginURL
	if after == "" {
		after = "/"
	}
	return &Controller{
		flow:       d.Flow,
		provider:   d.Provider,
		cookies:    d.Cookies,
		progress:   d.Progress,
		afterLogin: after,
		secure:     d.Secure,
	}
}

// Login inicia el flujo: genera el intento, guarda state y verifier en
// cookies HttpOnly y redirige al proveedor.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	res, err := c.flow.Start(r.Context())
	if err != nil {
		apperrors.WriteError(w, apperrors.ErrInternalServerError.WithCause(err))
		return
	}

	c.setAttemptCookies(w, res.State, res.CodeVerifier, res.TTL)
	http.Redirect(w, r, res.RedirectURL, http.StatusFound)
}

// Callback procesa la vuelta del proveedor: valida, canjea el código una
// sola vez, emite la sesión y redirige al frontend.
func (c *Controller) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	res, err := c.flow.Callback(r.Context(), flow.CallbackRequest{
		State:         q.Get("state"),
		Code:          q.Get("code"),
		ProviderError: q.Get("error"),
		CookieState:   attemptCookie(r, stateCookie),
		CodeVerifier:  attemptCookie(r, verifierCookie),
	})

	// El intento queda consumido pase lo que pase.
	c.clearAttemptCookies(w)

	if err != nil {
		c.writeFlowError(w, r, err)
		return
	}

	metrics.RecordLogin("ok")
	c.cookies.Persist(w, res.Token, res.ExpiresAt)
	http.Redirect(w, r, c.afterLogin, http.StatusFound)
}

// Token: variante SPA del callback. El cliente guardó state y verifier por
// su cuenta, validó el state él mismo y acá canjea código por sesión.
func (c *Controller) Token(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Code == "" || req.CodeVerifier == "" {
		apperrors.WriteError(w, apperrors.ErrBadRequest.WithDetail("code y code_verifier son requeridos"))
		return
	}

	res, err := c.flow.Exchange(r.Context(), req.Code, req.CodeVerifier)
	if err != nil {
		c.writeFlowError(w, r, err)
		return
	}

	metrics.RecordLogin("ok")
	c.cookies.Persist(w, res.Token, res.ExpiresAt)
	helpers.WriteJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: res.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(res.ExpiresAt).Seconds()),
	})
}

// UserInfo proxya la identidad del proveedor para un access token dado.
// El frontend nunca habla con el proveedor directamente.
func (c *Controller) UserInfo(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
	if token == "" {
		apperrors.WriteError(w, apperrors.ErrUnauthorized)
		return
	}

	id, err := c.provider.FetchIdentity(r.Context(), token)
	if err != nil {
		c.writeFlowError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.UserInfoResponse{
		ExternalID:  id.ExternalID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Grade:       id.Grade,
		Active:      id.Active,
	})
}

// Logout descarta la cookie de sesión. El token en sí no se puede revocar
// (sesiones stateless); expira solo a los 7 días.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	c.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me devuelve la sesión vigente más los puntos acumulados.
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	sess := middlewares.GetSession(r.Context())
	if sess == nil {
		apperrors.WriteError(w, apperrors.ErrUnauthorized)
		return
	}

	points, err := c.progress.Points(r.Context(), sess.UserID)
	if err != nil {
		logger.From(r.Context()).Warn("points lookup failed", logger.Err(err))
	}

	helpers.WriteJSON(w, http.StatusOK, dto.MeResponse{
		UserID:      sess.UserID,
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		Grade:       sess.Grade,
		Role:        sess.Role,
		Points:      points,
		ExpiresAt:   sess.ExpiresAt,
	})
}

// writeFlowError mapea los errores del flujo a la taxonomía HTTP pública.
func (c *Controller) writeFlowError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.From(r.Context())

	var upstream *provider.UpstreamError
	switch {
	case errors.Is(err, flow.ErrStateMismatch):
		metrics.RecordLogin("invalid")
		apperrors.WriteError(w, apperrors.ErrStateMismatch)
	case errors.Is(err, flow.ErrMissingCode), errors.Is(err, flow.ErrMissingAttempt), errors.Is(err, flow.ErrReplayed):
		metrics.RecordLogin("invalid")
		apperrors.WriteError(w, apperrors.ErrBadRequest.WithCause(err))
	case errors.Is(err, flow.ErrProviderDenied):
		metrics.RecordLogin("denied")
		apperrors.WriteError(w, apperrors.ErrBadRequest.WithDetail("el proveedor rechazó la autorización"))
	case errors.Is(err, provider.ErrIdentityIncomplete):
		metrics.RecordLogin("upstream_error")
		log.Error("identity payload incomplete", logger.Err(err))
		apperrors.WriteError(w, apperrors.ErrUpstreamProvider.WithDetail("la identidad recibida está incompleta"))
	case errors.As(err, &upstream):
		metrics.RecordLogin("upstream_error")
		log.Error("provider upstream failure", logger.Err(err))
		apperrors.WriteError(w, apperrors.ErrUpstreamProvider)
	default:
		metrics.RecordLogin("upstream_error")
		log.Error("login flow failed", logger.Err(err))
		apperrors.WriteError(w, apperrors.ErrInternalServerError.WithCause(err))
	}
}
