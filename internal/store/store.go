// Package store defines the persistence contracts for the catalog, users
// and progress tracking, with postgres and in-memory implementations.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound distinguishes "no rows" from a failed query. Lookups return
// it instead of a zero value so callers never confuse absence with failure.
var ErrNotFound = errors.New("store: not found")

// User is the long-lived user record, denormalized from the identity
// provider at each login. Failure to sync it never blocks a login.
type User struct {
	ID          string
	ExternalID  string
	Email       string
	DisplayName string
	Role        string // "user" | "admin"
	Grade       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Course groups modules. Only published courses are listed publicly.
type Course struct {
	ID        string
	Slug      string
	Title     string
	Summary   string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Module groups lessons inside a course, ordered by Position.
type Module struct {
	ID       string
	CourseID string
	Title    string
	Position int
}

// Video providers a lesson can be hosted on.
const (
	VideoCloudflare = "cloudflare"
	VideoVimeo      = "vimeo"
)

// Lesson is the gated resource. FreePreview bypasses entitlement entirely;
// VideoRef is what the playback-token collaborator signs for.
type Lesson struct {
	ID            string
	ModuleID      string
	Title         string
	Position      int
	AccessTier    string
	FreePreview   bool
	VideoProvider string // "cloudflare" | "vimeo"
	VideoRef      string
	CreatedAt     time.Time
}

// Quiz belongs to a lesson. PassScore is the minimum percentage to pass.
type Quiz struct {
	ID        string
	LessonID  string
	Title     string
	PassScore int
	Points    int
}

// Users persistence.
type Users interface {
	// UpsertUserByExternalID creates or refreshes the user keyed by the
	// provider's stable uid, returning the stored record.
	UpsertUserByExternalID(ctx context.Context, u User) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
}

// Catalog persistence.
type Catalog interface {
	ListCourses(ctx context.Context, publishedOnly bool) ([]Course, error)
	GetCourseBySlug(ctx context.Context, slug string) (Course, error)
	CreateCourse(ctx context.Context, c Course) (Course, error)
	UpdateCourse(ctx context.Context, c Course) (Course, error)
	DeleteCourse(ctx context.Context, id string) error

	ListModules(ctx context.Context, courseID string) ([]Module, error)
	CreateModule(ctx context.Context, m Module) (Module, error)

	ListLessons(ctx context.Context, moduleID string) ([]Lesson, error)
	GetLesson(ctx context.Context, id string) (Lesson, error)
	CreateLesson(ctx context.Context, l Lesson) (Lesson, error)
	UpdateLesson(ctx context.Context, l Lesson) (Lesson, error)

	GetQuiz(ctx context.Context, id string) (Quiz, error)
	CreateQuiz(ctx context.Context, q Quiz) (Quiz, error)
}

// Progress persistence.
type Progress interface {
	// MarkLessonComplete is idempotent per (user, lesson).
	MarkLessonComplete(ctx context.Context, userID, lessonID string) error

	// AwardQuizPass records a pass and reports whether this was the FIRST
	// pass for (user, quiz). Points are granted only on the first pass, and
	// the check-and-insert is a single atomic operation: concurrent
	// submissions never double-award.
	AwardQuizPass(ctx context.Context, userID, quizID string) (first bool, err error)

	// PointsFor returns the accumulated quiz points for a user.
	PointsFor(ctx context.Context, userID string) (int, error)

	// CompletedLessons returns the ids of lessons the user completed within
	// the given course.
	CompletedLessons(ctx context.Context, userID, courseID string) ([]string, error)
}

// Store is the full persistence surface the services are wired with.
type Store interface {
	Users
	Catalog
	Progress

	Ping(ctx context.Context) error
	Close()
}
