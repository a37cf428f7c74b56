// Package logger provides a singleton Zap logger with context-based scoping.
//
// Initialization (once, in main.go):
//
//	logger.Init(logger.Config{
//	    Env:   os.Getenv("APP_ENV"),   // "dev" or "prod"
//	    Level: os.Getenv("LOG_LEVEL"), // "debug", "info", "warn", "error"
//	})
//	defer logger.Sync()
//
// In handlers/services (with context):
//
//	log := logger.From(ctx)
//	log.Info("playback granted", logger.UserID(uid), logger.LessonID(lid))
//
// Without context (fallback to the singleton):
//
//	logger.L().Info("service started")
package logger
