package search

import "log/slog"

// ProgressEvent is a transient notification emitted while a run executes.
// Percent is in [0,100] and never decreases within one run.
type ProgressEvent struct {
	Message string  `json:"message"`
	Percent float64 `json:"percent"`
}

// ProgressFunc receives progress events. A nil ProgressFunc is valid and
// silently discards events, keeping the engine free of any UI dependency.
type ProgressFunc func(ProgressEvent)

// LogProgress returns a ProgressFunc that writes events to the given logger
// at debug level. Hosts that have no interactive display use this.
func LogProgress(logger *slog.Logger) ProgressFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ev ProgressEvent) {
		logger.Debug("search progress", "message", ev.Message, "percent", ev.Percent)
	}
}

func (f ProgressFunc) emit(message string, percent float64) {
	if f == nil {
		return
	}
	f(ProgressEvent{Message: message, Percent: percent})
}
