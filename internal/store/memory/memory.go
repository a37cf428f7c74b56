// Package memory implements store.Store in-process. Used for development
// and as the reference implementation in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dropDatabas3/kurso/internal/store"
	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	usersByID  map[string]store.User
	usersByExt map[string]string // externalID -> id

	courses map[string]store.Course
	modules map[string]store.Module
	lessons map[string]store.Lesson
	quizzes map[string]store.Quiz

	completions map[string]map[string]bool // userID -> lessonID
	passes      map[string]map[string]bool // userID -> quizID

	now func() time.Time
}

func New() *Store {
	return &Store{
		usersByID:   map[string]store.User{},
		usersByExt:  map[string]string{},
		courses:     map[string]store.Course{},
		modules:     map[string]store.Module{},
		lessons:     map[string]store.Lesson{},
		quizzes:     map[string]store.Quiz{},
		completions: map[string]map[string]bool{},
		passes:      map[string]map[string]bool{},
		now:         time.Now,
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }
func (s *Store) Close()                         {}

// ---- Users ----

func (s *Store) UpsertUserByExternalID(ctx context.Context, u store.User) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if id, ok := s.usersByExt[u.ExternalID]; ok {
		existing := s.usersByID[id]
		existing.Email = u.Email
		existing.DisplayName = u.DisplayName
		existing.Grade = u.Grade
		existing.UpdatedAt = now
		s.usersByID[id] = existing
		return existing, nil
	}

	u.ID = uuid.NewString()
	if u.Role == "" {
		u.Role = "user"
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	s.usersByID[u.ID] = u
	s.usersByExt[u.ExternalID] = u.ID
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.usersByID[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

// ---- Catalog ----

func (s *Store) ListCourses(ctx context.Context, publishedOnly bool) ([]store.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if publishedOnly && !c.Published {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *Store) GetCourseBySlug(ctx context.Context, slug string) (store.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.courses {
		if strings.EqualFold(c.Slug, slug) {
			return c, nil
		}
	}
	return store.Course{}, store.ErrNotFound
}

func (s *Store) CreateCourse(ctx context.Context, c store.Course) (store.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.NewString()
	c.CreatedAt = s.now().UTC()
	c.UpdatedAt = c.CreatedAt
	s.courses[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCourse(ctx context.Context, c store.Course) (store.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.courses[c.ID]
	if !ok {
		return store.Course{}, store.ErrNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = s.now().UTC()
	s.courses[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *Store) ListModules(ctx context.Context, courseID string) ([]store.Module, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.Module
	for _, m := range s.modules {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *Store) CreateModule(ctx context.Context, m store.Module) (store.Module, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[m.CourseID]; !ok {
		return store.Module{}, store.ErrNotFound
	}
	m.ID = uuid.NewString()
	s.modules[m.ID] = m
	return m, nil
}

func (s *Store) ListLessons(ctx context.Context, moduleID string) ([]store.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.Lesson
	for _, l := range s.lessons {
		if l.ModuleID == moduleID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *Store) GetLesson(ctx context.Context, id string) (store.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lessons[id]
	if !ok {
		return store.Lesson{}, store.ErrNotFound
	}
	return l, nil
}

func (s *Store) CreateLesson(ctx context.Context, l store.Lesson) (store.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.modules[l.ModuleID]; !ok {
		return store.Lesson{}, store.ErrNotFound
	}
	l.ID = uuid.NewString()
	l.CreatedAt = s.now().UTC()
	s.lessons[l.ID] = l
	return l, nil
}

func (s *Store) UpdateLesson(ctx context.Context, l store.Lesson) (store.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.lessons[l.ID]
	if !ok {
		return store.Lesson{}, store.ErrNotFound
	}
	l.CreatedAt = existing.CreatedAt
	s.lessons[l.ID] = l
	return l, nil
}

func (s *Store) GetQuiz(ctx context.Context, id string) (store.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quizzes[id]
	if !ok {
		return store.Quiz{}, store.ErrNotFound
	}
	return q, nil
}

func (s *Store) CreateQuiz(ctx context.Context, q store.Quiz) (store.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lessons[q.LessonID]; !ok {
		return store.Quiz{}, store.ErrNotFound
	}
	q.ID = uuid.NewString()
	s.quizzes[q.ID] = q
	return q, nil
}

// ---- Progress ----

func (s *Store) MarkLessonComplete(ctx context.Context, userID, lessonID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lessons[lessonID]; !ok {
		return store.ErrNotFound
	}
	if s.completions[userID] == nil {
		s.completions[userID] = map[string]bool{}
	}
	s.completions[userID][lessonID] = true
	return nil
}

// AwardQuizPass: the first-pass check and the insert happen under one lock,
// mirroring the conditional-insert semantics of the postgres store.
func (s *Store) AwardQuizPass(ctx context.Context, userID, quizID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[quizID]; !ok {
		return false, store.ErrNotFound
	}
	if s.passes[userID] == nil {
		s.passes[userID] = map[string]bool{}
	}
	if s.passes[userID][quizID] {
		return false, nil
	}
	s.passes[userID][quizID] = true
	return true, nil
}

func (s *Store) PointsFor(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for quizID := range s.passes[userID] {
		total += s.quizzes[quizID].Points
	}
	return total, nil
}

func (s *Store) CompletedLessons(ctx context.Context, userID, courseID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	moduleIDs := map[string]bool{}
	for _, m := range s.modules {
		if m.CourseID == courseID {
			moduleIDs[m.ID] = true
		}
	}

	var out []string
	for lessonID := range s.completions[userID] {
		if l, ok := s.lessons[lessonID]; ok && moduleIDs[l.ModuleID] {
			out = append(out, lessonID)
		}
	}
	sort.Strings(out)
	return out, nil
}
