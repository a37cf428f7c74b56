package pg

import (
	"context"
	"errors"

	"github.com/dropDatabas3/kurso/internal/store"
	"github.com/jackc/pgx/v5"
)

func (s *Store) ListCourses(ctx context.Context, publishedOnly bool) ([]store.Course, error) {
	q := `SELECT id, slug, title, summary, published, created_at, updated_at FROM courses`
	if publishedOnly {
		q += ` WHERE published`
	}
	q += ` ORDER BY title`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Course
	for rows.Next() {
		var c store.Course
		if err := rows.Scan(&c.ID, &c.Slug, &c.Title, &c.Summary, &c.Published, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCourseBySlug(ctx context.Context, slug string) (store.Course, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, slug, title, summary, published, created_at, updated_at
		FROM courses WHERE lower(slug) = lower($1)
	`, slug)

	var c store.Course
	if err := row.Scan(&c.ID, &c.Slug, &c.Title, &c.Summary, &c.Published, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Course{}, store.ErrNotFound
		}
		return store.Course{}, err
	}
	return c, nil
}

func (s *Store) CreateCourse(ctx context.Context, c store.Course) (store.Course, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO courses (id, slug, title, summary, published, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, now(), now())
		RETURNING id, created_at, updated_at
	`, c.Slug, c.Title, c.Summary, c.Published)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return store.Course{}, err
	}
	return c, nil
}

func (s *Store) UpdateCourse(ctx context.Context, c store.Course) (store.Course, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE courses
		SET slug = $2, title = $3, summary = $4, published = $5, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, c.ID, c.Slug, c.Title, c.Summary, c.Published)
	if err := row.Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Course{}, store.ErrNotFound
		}
		return store.Course{}, err
	}
	return c, nil
}

func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListModules(ctx context.Context, courseID string) ([]store.Module, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, course_id, title, position FROM modules
		WHERE course_id = $1 ORDER BY position
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Module
	for rows.Next() {
		var m store.Module
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Position); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) CreateModule(ctx context.Context, m store.Module) (store.Module, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO modules (id, course_id, title, position)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id
	`, m.CourseID, m.Title, m.Position)
	if err := row.Scan(&m.ID); err != nil {
		return store.Module{}, err
	}
	return m, nil
}

func (s *Store) ListLessons(ctx context.Context, moduleID string) ([]store.Lesson, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, module_id, title, position, access_tier, free_preview,
		       video_provider, video_ref, created_at
		FROM lessons WHERE module_id = $1 ORDER BY position
	`, moduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Lesson
	for rows.Next() {
		var l store.Lesson
		if err := rows.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Position, &l.AccessTier,
			&l.FreePreview, &l.VideoProvider, &l.VideoRef, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) GetLesson(ctx context.Context, id string) (store.Lesson, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, module_id, title, position, access_tier, free_preview,
		       video_provider, video_ref, created_at
		FROM lessons WHERE id = $1
	`, id)

	var l store.Lesson
	if err := row.Scan(&l.ID, &l.ModuleID, &l.Title, &l.Position, &l.AccessTier,
		&l.FreePreview, &l.VideoProvider, &l.VideoRef, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Lesson{}, store.ErrNotFound
		}
		return store.Lesson{}, err
	}
	return l, nil
}

func (s *Store) CreateLesson(ctx context.Context, l store.Lesson) (store.Lesson, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO lessons (id, module_id, title, position, access_tier, free_preview,
		                     video_provider, video_ref, created_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id, created_at
	`, l.ModuleID, l.Title, l.Position, l.AccessTier, l.FreePreview, l.VideoProvider, l.VideoRef)
	if err := row.Scan(&l.ID, &l.CreatedAt); err != nil {
		return store.Lesson{}, err
	}
	return l, nil
}

func (s *Store) UpdateLesson(ctx context.Context, l store.Lesson) (store.Lesson, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE lessons
		SET title = $2, position = $3, access_tier = $4, free_preview = $5,
		    video_provider = $6, video_ref = $7
		WHERE id = $1
		RETURNING module_id, created_at
	`, l.ID, l.Title, l.Position, l.AccessTier, l.FreePreview, l.VideoProvider, l.VideoRef)
	if err := row.Scan(&l.ModuleID, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Lesson{}, store.ErrNotFound
		}
		return store.Lesson{}, err
	}
	return l, nil
}

func (s *Store) GetQuiz(ctx context.Context, id string) (store.Quiz, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, lesson_id, title, pass_score, points FROM quizzes WHERE id = $1
	`, id)

	var q store.Quiz
	if err := row.Scan(&q.ID, &q.LessonID, &q.Title, &q.PassScore, &q.Points); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Quiz{}, store.ErrNotFound
		}
		return store.Quiz{}, err
	}
	return q, nil
}

func (s *Store) CreateQuiz(ctx context.Context, q store.Quiz) (store.Quiz, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO quizzes (id, lesson_id, title, pass_score, points)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id
	`, q.LessonID, q.Title, q.PassScore, q.Points)
	if err := row.Scan(&q.ID); err != nil {
		return store.Quiz{}, err
	}
	return q, nil
}
