package domain_test

import (
	"testing"
	"time"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("Success: defaults to Medium and Not Started", func(t *testing.T) {
		task, err := domain.NewTask(1, "  Lab report ", "Physics", due, "")

		require.NoError(t, err)
		assert.Equal(t, "Lab report", task.Title)
		assert.Equal(t, domain.PriorityMedium, task.Priority)
		assert.Equal(t, domain.TaskNotStarted, task.Status)
		assert.False(t, task.IsCompleted)
	})

	t.Run("Error: missing title", func(t *testing.T) {
		_, err := domain.NewTask(1, " ", "", due, domain.PriorityLow)
		assert.Equal(t, domain.ErrTaskTitleEmpty, err)
	})

	t.Run("Error: missing due date", func(t *testing.T) {
		_, err := domain.NewTask(1, "Essay", "", time.Time{}, domain.PriorityLow)
		assert.Equal(t, domain.ErrTaskDueDateMissing, err)
	})

	t.Run("Error: unknown priority", func(t *testing.T) {
		_, err := domain.NewTask(1, "Essay", "", due, "Urgent")
		assert.Equal(t, domain.ErrInvalidTaskPriority, err)
	})
}

func TestTask_CompletionFollowsStatus(t *testing.T) {
	task, err := domain.NewTask(1, "Essay", "History", time.Now(), domain.PriorityHigh)
	require.NoError(t, err)

	require.NoError(t, task.SetStatus(domain.TaskInProgress))
	assert.False(t, task.IsCompleted)

	require.NoError(t, task.SetStatus(domain.TaskDone))
	assert.True(t, task.IsCompleted)

	task.SetCompleted(false)
	assert.Equal(t, domain.TaskNotStarted, task.Status)
	assert.False(t, task.IsCompleted)

	task.SetCompleted(true)
	assert.Equal(t, domain.TaskDone, task.Status)

	assert.Equal(t, domain.ErrInvalidTaskStatus, task.SetStatus("Blocked"))
	assert.Equal(t, domain.TaskDone, task.Status)
}

func TestTask_SetCompletedFalseKeepsInProgress(t *testing.T) {
	task, _ := domain.NewTask(1, "Essay", "", time.Now(), "")
	_ = task.SetStatus(domain.TaskInProgress)

	task.SetCompleted(false)

	assert.Equal(t, domain.TaskInProgress, task.Status)
}

func TestTask_DueOn(t *testing.T) {
	rome := time.FixedZone("UTC+01:00", 3600)
	// 23:30 UTC on the 9th is already the 10th in Rome
	task := domain.Task{DueDate: time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)}

	assert.True(t, task.DueOn(time.Date(2026, 3, 10, 12, 0, 0, 0, rome), rome))
	assert.False(t, task.DueOn(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), time.UTC))
}

func TestNextTaskID(t *testing.T) {
	assert.Equal(t, 1, domain.NextTaskID(nil))
	assert.Equal(t, 8, domain.NextTaskID([]domain.Task{{ID: 3}, {ID: 7}, {ID: 2}}))
}
