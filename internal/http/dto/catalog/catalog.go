// Package catalog contiene los DTOs del catálogo de cursos.
package catalog

import "time"

type Course struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary,omitempty"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}

type Module struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Position int      `json:"position"`
	Lessons  []Lesson `json:"lessons,omitempty"`
}

// Lesson nunca expone la referencia del video: eso sale solo por el
// endpoint de playback, después del chequeo de acceso.
type Lesson struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Position    int    `json:"position"`
	FreePreview bool   `json:"free_preview"`
	Completed   bool   `json:"completed,omitempty"`
}

type CourseDetail struct {
	Course
	Modules []Module `json:"modules"`
}

// QuizSubmission: intento de quiz del alumno.
type QuizSubmission struct {
	Score int `json:"score"`
}

// QuizResult: resultado del intento. PointsAwarded solo en la primera
// aprobación; los reintentos aprueban pero no suman.
type QuizResult struct {
	Passed        bool `json:"passed"`
	FirstPass     bool `json:"first_pass"`
	PointsAwarded int  `json:"points_awarded"`
}

// UpsertCourse / UpsertModule / UpsertLesson / UpsertQuiz: payloads admin.
type UpsertCourse struct {
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Published bool   `json:"published"`
}

type UpsertModule struct {
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

type UpsertLesson struct {
	ModuleID      string `json:"module_id"`
	Title         string `json:"title"`
	Position      int    `json:"position"`
	AccessTier    string `json:"access_tier"`
	FreePreview   bool   `json:"free_preview"`
	VideoProvider string `json:"video_provider"`
	VideoRef      string `json:"video_ref"`
}

type UpsertQuiz struct {
	LessonID  string `json:"lesson_id"`
	Title     string `json:"title"`
	PassScore int    `json:"pass_score"`
	Points    int    `json:"points"`
}
