package logger

import (
	"time"

	"go.uber.org/zap"
)

// HTTP fields.

// RequestID field for the request id.
func RequestID(v string) zap.Field { return zap.String("request_id", v) }

// Method field for the HTTP method.
func Method(v string) zap.Field { return zap.String("method", v) }

// Path field for the request path.
func Path(v string) zap.Field { return zap.String("path", v) }

// Status field for the HTTP status code.
func Status(v int) zap.Field { return zap.Int("status", v) }

// Duration field for the request duration.
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// DurationMs field for the request duration in milliseconds.
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

// Bytes field for the response size.
func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

// ClientIP field for the client IP.
func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// Domain fields.

// UserID field for the viewer's user id.
func UserID(v string) zap.Field { return zap.String("user_id", v) }

// Email field (use sparingly in prod).
func Email(v string) zap.Field { return zap.String("email", v) }

// Grade field for the viewer's subscription grade.
func Grade(v string) zap.Field { return zap.String("grade", v) }

// CourseID field.
func CourseID(v string) zap.Field { return zap.String("course_id", v) }

// LessonID field.
func LessonID(v string) zap.Field { return zap.String("lesson_id", v) }

// QuizID field.
func QuizID(v string) zap.Field { return zap.String("quiz_id", v) }

// Provider field for the video or identity provider name.
func Provider(v string) zap.Field { return zap.String("provider", v) }

// System fields.

// Component field for the emitting component/module.
func Component(v string) zap.Field { return zap.String("component", v) }

// Layer field: handler, service, store.
func Layer(v string) zap.Field { return zap.String("layer", v) }

// Op field for the current operation.
func Op(v string) zap.Field { return zap.String("op", v) }

// Err field for an error.
func Err(err error) zap.Field { return zap.Error(err) }

// Generic fields.

// String generic string field.
func String(key, v string) zap.Field { return zap.String(key, v) }

// Int generic int field.
func Int(key string, v int) zap.Field { return zap.Int(key, v) }

// Bool generic bool field.
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }

// Any generic field for arbitrary values.
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
