package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask(TaskPatch{}, testNow)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, UnassignedApplication, task.ApplicationID)
	assert.Equal(t, TaskTypeTask, task.Type)
	assert.False(t, task.Done)
	assert.Empty(t, task.CompletedAt)
}

func TestNewTaskPatchWins(t *testing.T) {
	typ := TaskTypeInterview
	task := NewTask(TaskPatch{
		ApplicationID: strptr("app-1"),
		Title:         strptr("Phone screen"),
		Type:          &typ,
	}, testNow)

	assert.Equal(t, "app-1", task.ApplicationID)
	assert.Equal(t, "Phone screen", task.Title)
	assert.Equal(t, TaskTypeInterview, task.Type)
}

func TestUpdateTaskCompletionStampsCompletedAt(t *testing.T) {
	task := NewTask(TaskPatch{Title: strptr("Follow up")}, testNow)
	tasks := []Task{task}

	later := testNow.Add(2 * time.Hour)
	tasks = UpdateTask(tasks, task.ID, TaskPatch{
		Done:           boolPtr(true),
		CompletionNote: strptr("sent mail"),
	}, later)

	require.True(t, tasks[0].Done)
	assert.Equal(t, Timestamp(later), tasks[0].CompletedAt)
	assert.Equal(t, "sent mail", tasks[0].CompletionNote)
}

func TestUpdateTaskReopeningClearsCompletion(t *testing.T) {
	task := NewTask(TaskPatch{}, testNow)
	tasks := UpdateTask([]Task{task}, task.ID, TaskPatch{
		Done:           boolPtr(true),
		CompletionNote: strptr("done")}, testNow)
	tasks = UpdateTask(tasks, task.ID, TaskPatch{Done: boolPtr(false)}, testNow)

	assert.False(t, tasks[0].Done)
	assert.Empty(t, tasks[0].CompletedAt, "completedAt is only meaningful while done")
	assert.Empty(t, tasks[0].CompletionNote)
}

func TestUpdateTaskCompletionNoteIgnoredWhileOpen(t *testing.T) {
	task := NewTask(TaskPatch{}, testNow)
	tasks := UpdateTask([]Task{task}, task.ID, TaskPatch{CompletionNote: strptr("early")}, testNow)

	assert.Empty(t, tasks[0].CompletionNote)
}

func TestUpdateTaskUnknownIDIsNoOp(t *testing.T) {
	task := NewTask(TaskPatch{}, testNow)
	tasks := []Task{task}

	assert.Equal(t, tasks, UpdateTask(tasks, "missing", TaskPatch{Title: strptr("X")}, testNow))
}

func TestDeleteTasksForApplication(t *testing.T) {
	linked := NewTask(TaskPatch{ApplicationID: strptr("app-1")}, testNow)
	other := NewTask(TaskPatch{ApplicationID: strptr("app-2")}, testNow)
	loose := NewTask(TaskPatch{}, testNow)
	tasks := []Task{linked, other, loose}

	remaining := DeleteTasksForApplication(tasks, "app-1")

	require.Len(t, remaining, 2)
	assert.Equal(t, other.ID, remaining[0].ID)
	assert.Equal(t, loose.ID, remaining[1].ID)
}

func TestTaskNormalizeBlankApplicationID(t *testing.T) {
	task := NewTask(TaskPatch{ApplicationID: strptr("   ")}, testNow)
	assert.Equal(t, UnassignedApplication, task.ApplicationID)
}
