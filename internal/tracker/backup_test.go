package tracker

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *AppState {
	app := NewApplication(ApplicationPatch{Company: strptr("ACME"), Position: strptr("Engineer")}, testNow)
	task := NewTask(TaskPatch{ApplicationID: strptr(app.ID), Title: strptr("Follow up")}, testNow)
	settings := DefaultSettings()
	settings.Theme = ThemeLight
	settings.WeeklyGoal = 8
	return &AppState{
		Applications: []JobApplication{app},
		Tasks:        []Task{task},
		Settings:     settings,
	}
}

func TestBuildBackup(t *testing.T) {
	state := sampleState()
	backup := BuildBackup(state, testNow)

	assert.Equal(t, BackupVersion, backup.Version)
	assert.Equal(t, Timestamp(testNow), backup.CreatedAt)
	require.NotNil(t, backup.Data)

	// the backup holds a snapshot, not the live collections
	backup.Data.Applications[0].Company = "mutated"
	assert.Equal(t, "ACME", state.Applications[0].Company)
}

func TestRestoreBackupRoundTrip(t *testing.T) {
	state := sampleState()
	restored := RestoreBackup(BuildBackup(state, testNow))

	assert.Equal(t, state, restored)
}

func TestRestoreBackupInvalidYieldsDefaults(t *testing.T) {
	cases := map[string]*BackupFile{
		"nil":             nil,
		"missing data":    {Version: BackupVersion, CreatedAt: Timestamp(testNow)},
		"wrong version":   {Version: "2.0", CreatedAt: Timestamp(testNow), Data: sampleState()},
		"empty version":   {Data: sampleState()},
	}
	for name, backup := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, DefaultState(), RestoreBackup(backup), "restore is all-or-nothing")
		})
	}
}

func TestRestoreBackupRepairsCollections(t *testing.T) {
	backup := &BackupFile{
		Version:   BackupVersion,
		CreatedAt: Timestamp(testNow),
		Data:      &AppState{Settings: DefaultSettings()},
	}

	restored := RestoreBackup(backup)

	assert.NotNil(t, restored.Applications)
	assert.NotNil(t, restored.Tasks)
	assert.Empty(t, restored.Applications)
}

func TestRestoreBackupMergesSettingsOverDefaults(t *testing.T) {
	// an older backup without newer settings fields
	backup := &BackupFile{
		Version: BackupVersion,
		Data: &AppState{
			Settings: Settings{Theme: ThemeLight},
		},
	}

	restored := RestoreBackup(backup)

	assert.Equal(t, ThemeLight, restored.Settings.Theme)
	assert.Equal(t, SortByCreated, restored.Settings.Sort)
	assert.Equal(t, FilterStatusAll, restored.Settings.FilterStatus)
	assert.Equal(t, RangeAll, restored.Settings.FilterRange)
	assert.Equal(t, DefaultWeeklyGoal, restored.Settings.WeeklyGoal)
}

func TestRestoreBackupClampsWeeklyGoal(t *testing.T) {
	backup := BuildBackup(sampleState(), testNow)
	backup.Data.Settings.WeeklyGoal = 99

	assert.Equal(t, 30, RestoreBackup(backup).Settings.WeeklyGoal)

	backup.Data.Settings.WeeklyGoal = -3
	assert.Equal(t, 1, RestoreBackup(backup).Settings.WeeklyGoal)
}

func TestRestoreBackupSanitizesUnknownEnums(t *testing.T) {
	backup := BuildBackup(sampleState(), testNow)
	backup.Data.Settings.Theme = "sepia"
	backup.Data.Settings.Sort = "chaos"
	backup.Data.Settings.FilterRange = "2d"

	restored := RestoreBackup(backup)

	assert.Equal(t, ThemeDark, restored.Settings.Theme)
	assert.Equal(t, SortByCreated, restored.Settings.Sort)
	assert.Equal(t, RangeAll, restored.Settings.FilterRange)
}

func TestEncodeDecodeBackup(t *testing.T) {
	backup := BuildBackup(sampleState(), testNow)

	var buf bytes.Buffer
	require.NoError(t, EncodeBackup(&buf, backup))
	assert.Contains(t, buf.String(), `"version": "1.0"`)

	decoded, err := DecodeBackup(&buf)
	require.NoError(t, err)
	assert.Equal(t, backup, decoded)
}

func TestDecodeBackupBadJSON(t *testing.T) {
	_, err := DecodeBackup(strings.NewReader("{nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse backup")
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, (&BackupFile{Version: "0.9", Data: sampleState()}).Validate(), ErrBackupVersion)
	assert.ErrorIs(t, (&BackupFile{Version: BackupVersion}).Validate(), ErrBackupData)
	assert.NoError(t, BuildBackup(sampleState(), testNow).Validate())
}
