// Package catalog arma las vistas del catálogo a partir del store.
package catalog

import (
	"context"
	"errors"
	"fmt"

	dto "github.com/dropDatabas3/kurso/internal/http/dto/catalog"
	"github.com/dropDatabas3/kurso/internal/observability/logger"
	"github.com/dropDatabas3/kurso/internal/store"
)

// ErrCourseNotFound: el slug no corresponde a ningún curso publicado.
var ErrCourseNotFound = errors.New("catalog: course not found")

// Service expone el catálogo de lectura.
type Service struct {
	store store.Store
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

// ListCourses devuelve los cursos publicados. includeUnpublished es para
// las rutas admin.
func (s *Service) ListCourses(ctx context.Context, includeUnpublished bool) ([]dto.Course, error) {
	courses, err := s.store.ListCourses(ctx, !includeUnpublished)
	if err != nil {
		return nil, fmt.Errorf("catalog: list courses: %w", err)
	}

	out := make([]dto.Course, 0, len(courses))
	for _, c := range courses {
		out = append(out, toCourseDTO(c))
	}
	return out, nil
}

// CourseDetail arma el curso completo: módulos ordenados con sus lecciones.
// Si userID no es vacío, marca las lecciones ya completadas.
func (s *Service) CourseDetail(ctx context.Context, slug, userID string) (*dto.CourseDetail, error) {
	course, err := s.store.GetCourseBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("catalog: get course: %w", err)
	}
	if !course.Published {
		return nil, ErrCourseNotFound
	}

	modules, err := s.store.ListModules(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list modules: %w", err)
	}

	completed := map[string]bool{}
	if userID != "" {
		ids, err := s.store.CompletedLessons(ctx, userID, course.ID)
		if err != nil {
			// La vista sigue sirviendo sin el progreso.
			logger.From(ctx).Warn("completed lessons lookup failed", logger.Err(err))
		}
		for _, id := range ids {
			completed[id] = true
		}
	}

	detail := &dto.CourseDetail{Course: toCourseDTO(course)}
	for _, m := range modules {
		lessons, err := s.store.ListLessons(ctx, m.ID)
		if err != nil {
			return nil, fmt.Errorf("catalog: list lessons: %w", err)
		}
		mod := dto.Module{ID: m.ID, Title: m.Title, Position: m.Position}
		for _, l := range lessons {
			mod.Lessons = append(mod.Lessons, dto.Lesson{
				ID:          l.ID,
				Title:       l.Title,
				Position:    l.Position,
				FreePreview: l.FreePreview,
				Completed:   completed[l.ID],
			})
		}
		detail.Modules = append(detail.Modules, mod)
	}
	return detail, nil
}

func toCourseDTO(c store.Course) dto.Course {
	return dto.Course{
		ID:        c.ID,
		Slug:      c.Slug,
		Title:     c.Title,
		Summary:   c.Summary,
		Published: c.Published,
		CreatedAt: c.CreatedAt,
	}
}
