// Package catalog expone el catálogo público y las acciones de progreso.
package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/kurso/internal/http/dto/catalog"
	apperrors "github.com/dropDatabas3/kurso/internal/http/errors"
	"github.com/dropDatabas3/kurso/internal/http/helpers"
	"github.com/dropDatabas3/kurso/internal/http/middlewares"
	catalogsvc "github.com/dropDatabas3/kurso/internal/http/services/catalog"
	playbacksvc "github.com/dropDatabas3/kurso/internal/http/services/playback"
	progresssvc "github.com/dropDatabas3/kurso/internal/http/services/progress"
)

type Deps struct {
	Catalog  *catalogsvc.Service
	Playback *playbacksvc.Service
	Progress *progresssvc.Service
}

type Controller struct {
	catalog  *catalogsvc.Service
	playback *playbacksvc.Service
	progress *progresssvc.Service
}

func New(d Deps) *Controller {
	return &Controller{catalog: d.Catalog, playback: d.Playback, progress: d.Progress}
}

// ListCourses: GET /v1/courses — solo publicados, acceso anónimo.
func (c *Controller) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := c.catalog.ListCourses(r.Context(), false)
	if err != nil {
		apperrors.WriteError(w, apperrors.ErrInternalServerError.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, courses)
}

// CourseDetail: GET /v1/courses/{slug} — con progreso si hay sesión.
func (c *Controller) CourseDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		apperrors.WriteError(w, apperrors.ErrInvalidParameter)
		return
	}

	userID := ""
	if sess := middlewares.GetSession(r.Context()); sess != nil {
		userID = sess.UserID
	}

	detail, err := c.catalog.CourseDetail(r.Context(), slug, userID)
	if err != nil {
		if errors.Is(err, catalogsvc.ErrCourseNotFound) {
			apperrors.WriteError(w, apperrors.ErrNotFound)
			return
		}
		apperrors.WriteError(w, apperrors.ErrInternalServerError.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, detail)
}

// LessonPlayback: GET /v1/lessons/{id}/playback — acá vive la puerta de
// entitlement. Anónimo solo pasa en lecciones free preview.
func (c *Controller) LessonPlayback(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "id")
	if lessonID == "" {
		apperrors.WriteError(w, apperrors.ErrInvalidParameter)
		return
	}

	sess := middlewares.GetSession(r.Context())
	pb, err := c.playback.Playback(r.Context(), sess, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, playbacksvc.ErrLessonNotFound):
			apperrors.WriteError(w, apperrors.ErrNotFound)
		case errors.Is(err, playbacksvc.ErrDenied):
			if sess == nil {
				apperrors.WriteError(w, apperrors.ErrUnauthorized)
				return
			}
			apperrors.WriteError(w, apperrors.ErrUpgradeRequired)
		default:
			apperrors.WriteError(w, apperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}
	helpers.WriteJSON(w, http.StatusOK, pb)
}

// CompleteLesson: POST /v1/lessons/{id}/complete — requiere sesión.
func (c *Controller) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	sess := middlewares.GetSession(r.Context())
	if sess == nil {
		apperrors.WriteError(w, apperrors.ErrUnauthorized)
		return
	}

	lessonID := chi.URLParam(r, "id")
	if err := c.progress.CompleteLesson(r.Context(), sess.UserID, lessonID); err != nil {
		if errors.Is(err, progresssvc.ErrLessonNotFound) {
			apperrors.WriteError(w, apperrors.ErrNotFound)
			return
		}
		apperrors.WriteError(w, apperrors.ErrInternalServerError.WithCause(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitQuiz: POST /v1/quizzes/{id}/submit — requiere sesión.
func (c *Controller) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	sess := middlewares.GetSession(r.Context())
	if sess == nil {
		apperrors.WriteError(w, apperrors.ErrUnauthorized)
		return
	}

	var sub dto.QuizSubmission
	if !helpers.ReadJSON(w, r, &sub) {
		return
	}
	if sub.Score < 0 || sub.Score > 100 {
		apperrors.WriteError(w, apperrors.ErrBadRequest.WithDetail("score debe estar entre 0 y 100"))
		return
	}

	quizID := chi.URLParam(r, "id")
	res, err := c.progress.SubmitQuiz(r.Context(), sess.UserID, quizID, sub)
	if err != nil {
		if errors.Is(err, progresssvc.ErrQuizNotFound) {
			apperrors.WriteError(w, apperrors.ErrNotFound)
			return
		}
		apperrors.WriteError(w, apperrors.ErrInternalServerError.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}
