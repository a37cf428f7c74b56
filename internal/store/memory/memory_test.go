package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dropDatabas3/kurso/internal/store"
)

func TestUpsertUserByExternalID(t *testing.T) {
	s := New()
	ctx := context.Background()

	u1, err := s.UpsertUserByExternalID(ctx, store.User{
		ExternalID:  "pat-123",
		Email:       "ana@example.com",
		DisplayName: "Ana",
		Grade:       "plus",
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if u1.ID == "" {
		t.Fatal("expected generated id")
	}

	u2, err := s.UpsertUserByExternalID(ctx, store.User{
		ExternalID: "pat-123",
		Email:      "ana@example.com",
		Grade:      "free",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if u2.ID != u1.ID {
		t.Fatalf("same external id must keep the same user: %s != %s", u2.ID, u1.ID)
	}
	if u2.Grade != "free" {
		t.Fatalf("grade not refreshed: %q", u2.Grade)
	}
}

func TestGetUserNotFound(t *testing.T) {
	s := New()
	if _, err := s.GetUser(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCourseBySlugCaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()

	c, err := s.CreateCourse(ctx, store.Course{Slug: "go-basico", Title: "Go Básico", Published: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetCourseBySlug(ctx, "GO-Basico")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("slug lookup returned wrong course")
	}
}

func TestListCoursesPublishedOnly(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.CreateCourse(ctx, store.Course{Slug: "a", Title: "A", Published: true})
	s.CreateCourse(ctx, store.Course{Slug: "b", Title: "B", Published: false})

	all, err := s.ListCourses(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 courses, got %d", len(all))
	}

	pub, err := s.ListCourses(ctx, true)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(pub) != 1 || pub[0].Slug != "a" {
		t.Fatalf("published filter broken: %+v", pub)
	}
}

func TestMarkLessonCompleteIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	c, _ := s.CreateCourse(ctx, store.Course{Slug: "c", Title: "C", Published: true})
	m, _ := s.CreateModule(ctx, store.Module{CourseID: c.ID, Title: "M", Position: 1})
	l, _ := s.CreateLesson(ctx, store.Lesson{ModuleID: m.ID, Title: "L", Position: 1})

	for i := 0; i < 3; i++ {
		if err := s.MarkLessonComplete(ctx, "u1", l.ID); err != nil {
			t.Fatalf("mark #%d: %v", i, err)
		}
	}

	done, err := s.CompletedLessons(ctx, "u1", c.ID)
	if err != nil {
		t.Fatalf("completed: %v", err)
	}
	if len(done) != 1 || done[0] != l.ID {
		t.Fatalf("want exactly one completion, got %v", done)
	}
}

func TestAwardQuizPassFirstOnly(t *testing.T) {
	s := New()
	ctx := context.Background()

	c, _ := s.CreateCourse(ctx, store.Course{Slug: "c", Title: "C"})
	m, _ := s.CreateModule(ctx, store.Module{CourseID: c.ID, Title: "M"})
	l, _ := s.CreateLesson(ctx, store.Lesson{ModuleID: m.ID, Title: "L"})
	q, _ := s.CreateQuiz(ctx, store.Quiz{LessonID: l.ID, Title: "Q", PassScore: 70, Points: 10})

	first, err := s.AwardQuizPass(ctx, "u1", q.ID)
	if err != nil || !first {
		t.Fatalf("first pass: first=%v err=%v", first, err)
	}
	again, err := s.AwardQuizPass(ctx, "u1", q.ID)
	if err != nil || again {
		t.Fatalf("repeat pass must not award again: first=%v err=%v", again, err)
	}

	pts, err := s.PointsFor(ctx, "u1")
	if err != nil {
		t.Fatalf("points: %v", err)
	}
	if pts != 10 {
		t.Fatalf("want 10 points, got %d", pts)
	}
}

func TestAwardQuizPassConcurrentSingleAward(t *testing.T) {
	s := New()
	ctx := context.Background()

	c, _ := s.CreateCourse(ctx, store.Course{Slug: "c", Title: "C"})
	m, _ := s.CreateModule(ctx, store.Module{CourseID: c.ID, Title: "M"})
	l, _ := s.CreateLesson(ctx, store.Lesson{ModuleID: m.ID, Title: "L"})
	q, _ := s.CreateQuiz(ctx, store.Quiz{LessonID: l.ID, Title: "Q", Points: 5})

	const n = 32
	var wg sync.WaitGroup
	firsts := make(chan bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			first, err := s.AwardQuizPass(ctx, "u1", q.ID)
			if err != nil {
				t.Errorf("award: %v", err)
				return
			}
			firsts <- first
		}()
	}
	wg.Wait()
	close(firsts)

	count := 0
	for f := range firsts {
		if f {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("exactly one submission must be first, got %d", count)
	}

	pts, _ := s.PointsFor(ctx, "u1")
	if pts != 5 {
		t.Fatalf("points must be awarded once: got %d", pts)
	}
}

func TestDeleteCourseNotFound(t *testing.T) {
	s := New()
	if err := s.DeleteCourse(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
