// Package service holds the application services behind each dashboard
// view. Services validate input, apply business rules and call ports; they
// never touch SQL, HTTP or the filesystem directly.
package service

import (
	"time"

	"github.com/google/uuid"
)

// Logger is the structured logger services write to
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

func newID() string {
	return uuid.NewString()
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
