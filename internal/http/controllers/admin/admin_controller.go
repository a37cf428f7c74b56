// Package admin expone el CRUD del catálogo. Todas las rutas van detrás
// de la API key administrativa.
package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/kurso/internal/http/dto/catalog"
	apperrors "github.com/dropDatabas3/kurso/internal/http/errors"
	"github.com/dropDatabas3/kurso/internal/http/helpers"
	"github.com/dropDatabas3/kurso/internal/store"
	"github.com/dropDatabas3/kurso/internal/validation"
)

type Controller struct {
	store store.Store
}

func New(st store.Store) *Controller {
	return &Controller{store: st}
}

// ListCourses incluye los no publicados.
func (c *Controller) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := c.store.ListCourses(r.Context(), false)
	if err != nil {
		apperrors.WriteError(w, apperrors.ErrInternalServerError.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, courses)
}

func (c *Controller) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertCourse
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Slug == "" || req.Title == "" {
		apperrors.WriteError(w, apperrors.ErrBadRequest.WithDetail("slug y title son requeridos"))
		return
	}
	if !validation.ValidSlug(req.Slug) {
		apperrors.WriteError(w, apperrors.ErrBadRequest.WithDetail("slug inválido: minúsculas, dígitos y guiones"))
		return
	}

	course, err := c.store.CreateCourse(r.Context(), store.Course{
		Slug:      req.Slug,
		Title:     req.Title,
		Summary:   req.Summary,
		Published: req.Published,
	})
	if err != nil {
		apperrors.WriteError(w, apperrors.ErrInternalServerError.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, course)
}

func (c *Controller) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertCourse
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if !validation.ValidSlug(req.Slug) {
		apperrors.WriteError(w, apperrors.ErrBadRequest.WithDetail("slug inválido: minúsculas, dígitos y guiones"))
		return
	}

	course, err := c.store.UpdateCourse(r.Context(), store.Course{
		ID:        chi.URLParam(r, "id"),
		Slug:      req.Slug,
		Title:     req.Title,
		Summary:   req.Summary,
		Published: req.Published,
	})
	if err != nil {
		c.writeStoreError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, course)
}

func (c *Controller) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := c.store.DeleteCourse(r.Context(), chi.URLParam(r, "id")); err != nil {
		c.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) CreateModule(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertModule
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.CourseID == "" || req.Title == "" {
		apperrors.WriteError(w, apperrors.ErrBadRequest.WithDetail("course_id y title son requeridos"))
		return
	}

	mod, err := c.store.CreateModule(r.Context(), store.Module{
		CourseID: req.CourseID,
		Title:    req.Title,
		Position: req.Position,
	})
	if err != nil {
		c.writeStoreError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, mod)
}

func (c *Controller) CreateLesson(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertLesson
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.ModuleID == "" || req.Title == "" {
		apperrors.WriteError(w, apperrors.ErrBadRequest.WithDetail("module_id y title son requeridos"))
		return
	}
	if req.VideoProvider != store.VideoCloudflare && req.VideoProvider != store.VideoVimeo {
		apperrors.WriteError(w, apperrors.ErrBadRequest.WithDetail("video_provider debe ser cloudflare o vimeo"))
		return
	}

	lesson, err := c.store.CreateLesson(r.Context(), store.Lesson{
		ModuleID:      req.ModuleID,
		Title:         req.Title,
		Position:      req.Position,
		AccessTier:    req.AccessTier,
		FreePreview:   req.FreePreview,
		VideoProvider: req.VideoProvider,
		VideoRef:      req.VideoRef,
	})
	if err != nil {
		c.writeStoreError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, lesson)
}

func (c *Controller) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertLesson
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	lesson, err := c.store.UpdateLesson(r.Context(), store.Lesson{
		ID:            chi.URLParam(r, "id"),
		Title:         req.Title,
		Position:      req.Position,
		AccessTier:    req.AccessTier,
		FreePreview:   req.FreePreview,
		VideoProvider: req.VideoProvider,
		VideoRef:      req.VideoRef,
	})
	if err != nil {
		c.writeStoreError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, lesson)
}

func (c *Controller) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertQuiz
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.LessonID == "" {
		apperrors.WriteError(w, apperrors.ErrBadRequest.WithDetail("lesson_id es requerido"))
		return
	}
	if req.PassScore < 0 || req.PassScore > 100 {
		apperrors.WriteError(w, apperrors.ErrBadRequest.WithDetail("pass_score debe estar entre 0 y 100"))
		return
	}

	quiz, err := c.store.CreateQuiz(r.Context(), store.Quiz{
		LessonID:  req.LessonID,
		Title:     req.Title,
		PassScore: req.PassScore,
		Points:    req.Points,
	})
	if err != nil {
		c.writeStoreError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, quiz)
}

func (c *Controller) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		apperrors.WriteError(w, apperrors.ErrNotFound)
		return
	}
	apperrors.WriteError(w, apperrors.ErrInternalServerError.WithCause(err))
}
