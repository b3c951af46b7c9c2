// Package logger provides structured logging using Zap.
package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
)

// Init initializes the global logger for the given environment.
// "production" uses a JSON encoder, "test" discards everything and any other
// value uses a human-readable console encoder. Only the first call has effect.
func Init(env string) {
	mu.Lock()
	defer mu.Unlock()
	if sugar != nil {
		return
	}
	sugar = build(env)
}

func build(env string) *zap.SugaredLogger {
	var base *zap.Logger
	var err error

	switch env {
	case "production":
		base, err = zap.NewProduction()
	case "test":
		base = zap.NewNop()
	default:
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		base = zap.NewNop()
	}
	return base.Sugar()
}

// Get returns the global sugared logger.
// If Init has not been called, it initializes a development logger.
func Get() *zap.SugaredLogger {
	mu.RLock()
	l := sugar
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init("development")
	return Get()
}

// Replace swaps the global logger and returns a function restoring the
// previous one.
func Replace(l *zap.Logger) func() {
	mu.Lock()
	prev := sugar
	sugar = l.Sugar()
	mu.Unlock()
	return func() {
		mu.Lock()
		sugar = prev
		mu.Unlock()
	}
}

// Sync flushes any buffered log entries. Call this before application exit.
func Sync() {
	mu.RLock()
	l := sugar
	mu.RUnlock()
	if l != nil {
		_ = l.Sync()
	}
}
