// Package logging sets up the structured logger shared by the TyDOS commands.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a colored logger writing to w. The console of the shell uses stdout,
// so w should be stderr to keep both apart.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	)
}
