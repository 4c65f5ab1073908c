// Package logging provides the shared structured logger. All engine
// packages log through this facade so log configuration lives in one
// place rather than in ambient per-package state.
package logging

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

func logger() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "partview",
		})
		if os.Getenv("PARTVIEW_DEBUG") != "" {
			singleton.SetLevel(log.DebugLevel)
		}
	})
	return singleton
}

// Debug logs at debug level with key-value pairs.
func Debug(msg string, kv ...interface{}) { logger().Debug(msg, kv...) }

// Info logs at info level with key-value pairs.
func Info(msg string, kv ...interface{}) { logger().Info(msg, kv...) }

// Warn logs at warn level with key-value pairs.
func Warn(msg string, kv ...interface{}) { logger().Warn(msg, kv...) }

// Error logs at error level with key-value pairs.
func Error(msg string, kv ...interface{}) { logger().Error(msg, kv...) }
