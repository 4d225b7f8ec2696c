package tracker

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskPatch is a partial Task; see ApplicationPatch for merge semantics.
type TaskPatch struct {
	ApplicationID  *string   `json:"applicationId"`
	Title          *string   `json:"title"`
	DueDate        *string   `json:"dueDate"`
	Done           *bool     `json:"done"`
	Type           *TaskType `json:"type"`
	CompletionNote *string   `json:"completionNote"`
}

// NewTask builds a task with a fresh random id, stamped from now. Tasks
// default to the unassigned application sentinel and the plain task type.
func NewTask(patch TaskPatch, now time.Time) Task {
	ts := Timestamp(now)
	task := Task{
		ID:            uuid.NewString(),
		ApplicationID: UnassignedApplication,
		Type:          TaskTypeTask,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
	task.apply(patch, now)
	task.normalize()
	return task
}

// AddTask prepends task to the list.
func AddTask(tasks []Task, task Task) []Task {
	out := make([]Task, 0, len(tasks)+1)
	out = append(out, task)
	return append(out, tasks...)
}

// UpdateTask merges patch over the task with the given id and refreshes its
// updatedAt. Completing a task stamps completedAt; reopening it clears both
// completedAt and the completion note. An unknown id is a no-op.
func UpdateTask(tasks []Task, id string, patch TaskPatch, now time.Time) []Task {
	idx := -1
	for i := range tasks {
		if tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return tasks
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	task := out[idx]
	task.apply(patch, now)
	task.normalize()
	task.UpdatedAt = Timestamp(now)
	out[idx] = task
	return out
}

// DeleteTask removes the task with the given id.
func DeleteTask(tasks []Task, id string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID != id {
			out = append(out, task)
		}
	}
	return out
}

// DeleteTasksForApplication removes every task referencing applicationID.
// The store calls this in the same update as the application delete so the
// two are observed atomically.
func DeleteTasksForApplication(tasks []Task, applicationID string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ApplicationID != applicationID {
			out = append(out, task)
		}
	}
	return out
}

func (t *Task) apply(patch TaskPatch, now time.Time) {
	if patch.ApplicationID != nil {
		t.ApplicationID = *patch.ApplicationID
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.Type != nil && patch.Type.Valid() {
		t.Type = *patch.Type
	}
	if patch.CompletionNote != nil {
		t.CompletionNote = *patch.CompletionNote
	}
	if patch.Done != nil && *patch.Done != t.Done {
		t.Done = *patch.Done
		if t.Done {
			t.CompletedAt = Timestamp(now)
		}
	}
	if !t.Done {
		t.CompletedAt = ""
		t.CompletionNote = ""
	}
}

func (t *Task) normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.DueDate = strings.TrimSpace(t.DueDate)
	t.CompletionNote = strings.TrimSpace(t.CompletionNote)
	if strings.TrimSpace(t.ApplicationID) == "" {
		t.ApplicationID = UnassignedApplication
	}
}
