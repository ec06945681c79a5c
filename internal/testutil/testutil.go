// Package testutil contains utilities for testing.
package testutil

import (
	"strings"
	"sync"
	"testing"

	"github.com/starquake/quizdb/internal/logging"
)

// TestWriter is an io.Writer that forwards writes to tb.Log.
// It is thread-safe and ensures logs are captured by the test runner.
type TestWriter struct {
	tb testing.TB
	mu sync.Mutex
}

// NewTestWriter creates a new TestWriter that forwards writes to tb.Log.
func NewTestWriter(tb testing.TB) *TestWriter {
	tb.Helper()

	return &TestWriter{tb: tb}
}

// Write forwards writes to tb.Log.
func (w *TestWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// tb.Log adds its own newline.
	w.tb.Logf("%s", strings.TrimSuffix(string(p), "\n"))

	return len(p), nil
}

// Logger returns a debug level logger that writes to the test log.
func Logger(tb testing.TB) *logging.Logger {
	tb.Helper()

	return logging.NewLoggerWithLevel(NewTestWriter(tb), logging.LevelDebug)
}
