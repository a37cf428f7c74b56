// Package router arma el árbol de rutas de la API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/kurso/internal/auth/session"
	adminctrl "github.com/dropDatabas3/kurso/internal/http/controllers/admin"
	authctrl "github.com/dropDatabas3/kurso/internal/http/controllers/auth"
	catalogctrl "github.com/dropDatabas3/kurso/internal/http/controllers/catalog"
	healthctrl "github.com/dropDatabas3/kurso/internal/http/controllers/health"
	mw "github.com/dropDatabas3/kurso/internal/http/middlewares"
	"github.com/dropDatabas3/kurso/internal/metrics"
	"github.com/dropDatabas3/kurso/internal/rate"
)

// Deps contiene todo lo que el router necesita para registrar rutas.
type Deps struct {
	Auth    *authctrl.Controller
	Catalog *catalogctrl.Controller
	Admin   *adminctrl.Controller
	Health  *healthctrl.Controller

	SessionCodec   *session.Codec
	SessionCookies *session.CookieStore
	LoginLimiter   rate.Limiter
	AdminKey       string
	MetricsHandler http.Handler
}

// New construye el handler raíz con la cadena de middlewares globales y
// todas las rutas registradas.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	withSession := mw.WithSession(d.SessionCodec, d.SessionCookies)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			loginLimited := mw.WithRateLimit(d.LoginLimiter)

			r.Method(http.MethodGet, "/login", loginLimited(http.HandlerFunc(d.Auth.Login)))
			r.Get("/callback", d.Auth.Callback)
			r.Method(http.MethodPost, "/token", loginLimited(http.HandlerFunc(d.Auth.Token)))
			r.Get("/userinfo", d.Auth.UserInfo)
			r.Post("/logout", d.Auth.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(withSession)

			// Lectura pública: el playback decide adentro según sesión.
			r.Get("/courses", d.Catalog.ListCourses)
			r.Get("/courses/{slug}", d.Catalog.CourseDetail)
			r.Get("/lessons/{id}/playback", d.Catalog.LessonPlayback)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireSession())

				r.Get("/me", d.Auth.Me)
				r.Post("/lessons/{id}/complete", d.Catalog.CompleteLesson)
				r.Post("/quizzes/{id}/submit", d.Catalog.SubmitQuiz)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.RequireAdminKey(d.AdminKey))

			r.Get("/courses", d.Admin.ListCourses)
			r.Post("/courses", d.Admin.CreateCourse)
			r.Put("/courses/{id}", d.Admin.UpdateCourse)
			r.Delete("/courses/{id}", d.Admin.DeleteCourse)

			r.Post("/modules", d.Admin.CreateModule)
			r.Post("/lessons", d.Admin.CreateLesson)
			r.Put("/lessons/{id}", d.Admin.UpdateLesson)
			r.Post("/quizzes", d.Admin.CreateQuiz)
		})
	})

	r.Get("/healthz", d.Health.Healthz)
	r.Get("/readyz", d.Health.Readyz)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	// Cadena global: lo primero que ve el request es el request id; el
	// recover queda adentro del logging para que el 500 también se loguee.
	return mw.Chain(r,
		mw.WithRequestID(),
		metrics.WithHTTP,
		mw.WithLogging(),
		mw.WithRecover(),
		mw.WithSecurityHeaders(),
	)
}
