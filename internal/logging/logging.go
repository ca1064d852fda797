// Package logging sets up the process-wide structured logger, using slog
// fields for each pipeline stage (compile started, test reached, test
// finished) and a colorized tint handler for terminal output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a slog.Logger writing colorized, leveled output to w (os.Stdout
// if nil).
func New(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	handler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
	return slog.New(handler)
}
