// Package progress registra avance: lecciones completadas y quizzes.
package progress

import (
	"context"
	"errors"
	"fmt"

	dto "github.com/dropDatabas3/kurso/internal/http/dto/catalog"
	"github.com/dropDatabas3/kurso/internal/metrics"
	"github.com/dropDatabas3/kurso/internal/observability/logger"
	"github.com/dropDatabas3/kurso/internal/store"
)

var (
	ErrLessonNotFound = errors.New("progress: lesson not found")
	ErrQuizNotFound   = errors.New("progress: quiz not found")
)

type Service struct {
	store store.Store
}

func New(st store.Store) *Service {
	return &Service{store: st}
}

// CompleteLesson marca la lección como vista. Idempotente.
func (s *Service) CompleteLesson(ctx context.Context, userID, lessonID string) error {
	if _, err := s.store.GetLesson(ctx, lessonID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrLessonNotFound
		}
		return fmt.Errorf("progress: get lesson: %w", err)
	}
	if err := s.store.MarkLessonComplete(ctx, userID, lessonID); err != nil {
		return fmt.Errorf("progress: mark complete: %w", err)
	}
	return nil
}

// SubmitQuiz evalúa el intento. Los puntos se otorgan una sola vez por
// (usuario, quiz), sin importar cuántas veces vuelva a aprobar.
func (s *Service) SubmitQuiz(ctx context.Context, userID, quizID string, sub dto.QuizSubmission) (*dto.QuizResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("progress"), logger.QuizID(quizID))

	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("progress: get quiz: %w", err)
	}

	if sub.Score < quiz.PassScore {
		return &dto.QuizResult{Passed: false}, nil
	}

	first, err := s.store.AwardQuizPass(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("progress: award pass: %w", err)
	}

	res := &dto.QuizResult{Passed: true, FirstPass: first}
	if first {
		res.PointsAwarded = quiz.Points
		metrics.RecordQuizAward()
		log.Info("quiz passed", logger.UserID(userID), logger.Int("points", quiz.Points))
	}
	return res, nil
}

// Points devuelve el total acumulado del usuario.
func (s *Service) Points(ctx context.Context, userID string) (int, error) {
	return s.store.PointsFor(ctx, userID)
}
