package pg

import (
	"context"
)

func (s *Store) MarkLessonComplete(ctx context.Context, userID, lessonID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO lesson_completions (user_id, lesson_id, completed_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, lesson_id) DO NOTHING
	`, userID, lessonID)
	return err
}

// AwardQuizPass relies on the UNIQUE (user_id, quiz_id) constraint: the
// conditional insert either lands a new row (first pass) or is a no-op,
// so two concurrent submissions can never both see first=true.
func (s *Store) AwardQuizPass(ctx context.Context, userID, quizID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO quiz_passes (user_id, quiz_id, passed_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, quiz_id) DO NOTHING
	`, userID, quizID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) PointsFor(ctx context.Context, userID string) (int, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(q.points), 0)
		FROM quiz_passes p
		JOIN quizzes q ON q.id = p.quiz_id
		WHERE p.user_id = $1
	`, userID)

	var pts int
	if err := row.Scan(&pts); err != nil {
		return 0, err
	}
	return pts, nil
}

func (s *Store) CompletedLessons(ctx context.Context, userID, courseID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.lesson_id
		FROM lesson_completions c
		JOIN lessons l ON l.id = c.lesson_id
		JOIN modules m ON m.id = l.module_id
		WHERE c.user_id = $1 AND m.course_id = $2
	`, userID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
