package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBackend    = "backend"
	KeyApp        = "application_id"
	KeyTask       = "task_id"
	KeyCompany    = "company"
	KeyOperation  = "operation"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Backend(name string) slog.Attr    { return slog.String(KeyBackend, name) }
func Application(id string) slog.Attr  { return slog.String(KeyApp, id) }
func Task(id string) slog.Attr         { return slog.String(KeyTask, id) }
func Company(name string) slog.Attr    { return slog.String(KeyCompany, name) }
func Operation(name string) slog.Attr  { return slog.String(KeyOperation, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
