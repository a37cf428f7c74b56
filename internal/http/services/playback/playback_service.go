// Package playback es la puerta de acceso a los videos: toda reproducción
// pasa por el chequeo de entitlement antes de tocar al proveedor.
package playback

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/kurso/internal/auth/entitle"
	"github.com/dropDatabas3/kurso/internal/auth/session"
	"github.com/dropDatabas3/kurso/internal/metrics"
	"github.com/dropDatabas3/kurso/internal/observability/logger"
	"github.com/dropDatabas3/kurso/internal/store"
	"github.com/dropDatabas3/kurso/internal/video"
)

var (
	// ErrLessonNotFound: la lección no existe.
	ErrLessonNotFound = errors.New("playback: lesson not found")

	// ErrDenied: el grade de la sesión no alcanza para esta lección.
	ErrDenied = errors.New("playback: access denied")
)

// Service decide y emite playback.
type Service struct {
	store   store.Catalog
	minters video.Registry
}

func New(st store.Catalog, minters video.Registry) *Service {
	return &Service{store: st, minters: minters}
}

// Playback aplica el chequeo de acceso y emite el descriptor del video.
// sess puede ser nil (anónimo): solo pasa si la lección es free preview.
func (s *Service) Playback(ctx context.Context, sess *session.Session, lessonID string) (*video.Playback, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("playback"), logger.LessonID(lessonID))

	lesson, err := s.store.GetLesson(ctx, lessonID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("playback: get lesson: %w", err)
	}

	grade := ""
	if sess != nil {
		grade = sess.Grade
	}
	if d := entitle.CanAccess(grade, lesson.FreePreview); !d.Allowed {
		metrics.RecordEntitlementDenial()
		log.Info("playback denied", logger.Grade(grade))
		return nil, fmt.Errorf("%w: %s", ErrDenied, d.Reason)
	}

	pb, err := s.minters.Playback(ctx, lesson.VideoProvider, lesson.VideoRef)
	if err != nil {
		log.Error("playback mint failed", logger.Provider(lesson.VideoProvider), logger.Err(err))
		return nil, fmt.Errorf("playback: mint: %w", err)
	}

	metrics.RecordPlaybackToken(lesson.VideoProvider)
	return pb, nil
}
