package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// BackupVersion is the version tag every backup carries. Restore rejects
// anything else wholesale.
const BackupVersion = "1.0"

// BackupFile is the versioned export of the entire state.
type BackupFile struct {
	Version   string    `json:"version"`
	CreatedAt string    `json:"createdAt"`
	Data      *AppState `json:"data,omitempty"`
}

var (
	// ErrBackupVersion marks a backup whose version tag does not match.
	ErrBackupVersion = errors.New("unsupported backup version")
	// ErrBackupData marks a backup without a data payload.
	ErrBackupData = errors.New("backup has no data payload")
)

// Validate reports whether the backup can be restored.
func (b *BackupFile) Validate() error {
	if b == nil || b.Version != BackupVersion {
		return ErrBackupVersion
	}
	if b.Data == nil {
		return ErrBackupData
	}
	return nil
}

// BuildBackup wraps a snapshot of the state in the versioned backup format.
func BuildBackup(state *AppState, now time.Time) *BackupFile {
	return &BackupFile{
		Version:   BackupVersion,
		CreatedAt: Timestamp(now),
		Data:      state.Clone(),
	}
}

// RestoreBackup turns a backup into a usable state. Any validation failure
// yields the full default state, never a partial merge. On success the
// collections are taken as-is (nil becomes empty) and settings are merged
// over defaults so fields missing from older backups get sane values.
func RestoreBackup(backup *BackupFile) *AppState {
	if err := backup.Validate(); err != nil {
		return DefaultState()
	}
	return NormalizeState(backup.Data)
}

// NormalizeState returns a cleaned copy of a state that came from outside
// the process: persisted data or a backup payload. Unknown enum values in
// settings fall back to defaults rather than propagating.
func NormalizeState(state *AppState) *AppState {
	out := state.Clone()
	if out.Applications == nil {
		out.Applications = []JobApplication{}
	}
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	out.Settings = mergeSettings(out.Settings)
	return out
}

func mergeSettings(in Settings) Settings {
	out := DefaultSettings()
	if in.Theme.Valid() {
		out.Theme = in.Theme
	}
	if in.Sort.Valid() {
		out.Sort = in.Sort
	}
	if in.FilterStatus == FilterStatusAll || Status(in.FilterStatus).Valid() {
		out.FilterStatus = in.FilterStatus
	}
	if in.FilterRange.Valid() {
		out.FilterRange = in.FilterRange
	}
	out.Search = in.Search
	out.WeeklyGoal = ClampWeeklyGoal(in.WeeklyGoal)
	return out
}

// EncodeBackup writes the backup as indented JSON, the user-facing export
// format.
func EncodeBackup(w io.Writer, backup *BackupFile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(backup); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return nil
}

// DecodeBackup parses a user-supplied backup document. Parse errors surface
// to the caller; importing never touches state on failure.
func DecodeBackup(r io.Reader) (*BackupFile, error) {
	var backup BackupFile
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return nil, fmt.Errorf("parse backup: %w", err)
	}
	return &backup, nil
}
