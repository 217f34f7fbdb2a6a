package projections

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/taskboardhq/taskboard-api/internal/models"
)

func durationPtr(d time.Duration) *time.Duration {
	return &d
}

func TestComputeTaskTimeMeta(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil task", func(t *testing.T) {
		assert.Nil(t, ComputeTaskTimeMeta(nil, now))
	})

	t.Run("endAt wins over dueDate", func(t *testing.T) {
		due := now.Add(time.Hour)
		end := now.Add(2 * time.Hour)
		task := &models.Task{Status: models.TaskStatusTodo, DueDate: &due, EndAt: &end}

		meta := ComputeTaskTimeMeta(task, now)
		assert.Equal(t, &end, meta.End)
		assert.Equal(t, 2*time.Hour, *meta.TimeLeft)
	})

	t.Run("in window between start and end", func(t *testing.T) {
		start := now.Add(-time.Hour)
		end := now.Add(time.Hour)
		task := &models.Task{Status: models.TaskStatusTodo, StartAt: &start, DueDate: &end}

		meta := ComputeTaskTimeMeta(task, now)
		assert.True(t, meta.InWindow)
		assert.False(t, meta.IsOverdue)
		assert.False(t, meta.IsDisabled)
	})

	t.Run("no bounds means always in window", func(t *testing.T) {
		task := &models.Task{Status: models.TaskStatusTodo}
		meta := ComputeTaskTimeMeta(task, now)
		assert.True(t, meta.InWindow)
		assert.Nil(t, meta.TimeLeft)
	})

	t.Run("past due is overdue and disabled", func(t *testing.T) {
		due := now.Add(-time.Minute)
		task := &models.Task{Status: models.TaskStatusInProgress, DueDate: &due}

		meta := ComputeTaskTimeMeta(task, now)
		assert.True(t, meta.IsOverdue)
		assert.True(t, meta.IsDisabled)
		assert.False(t, meta.InWindow)
	})

	t.Run("done is never overdue", func(t *testing.T) {
		due := now.Add(-time.Minute)
		task := &models.Task{Status: models.TaskStatusDone, DueDate: &due}

		meta := ComputeTaskTimeMeta(task, now)
		assert.False(t, meta.IsOverdue)
		assert.True(t, meta.IsDisabled)
	})

	t.Run("blocked is disabled", func(t *testing.T) {
		task := &models.Task{Status: models.TaskStatusBlocked}
		assert.True(t, ComputeTaskTimeMeta(task, now).IsDisabled)
	})

	t.Run("pure over repeated calls", func(t *testing.T) {
		due := now.Add(time.Hour)
		task := &models.Task{Status: models.TaskStatusTodo, DueDate: &due}

		first := ComputeTaskTimeMeta(task, now)
		second := ComputeTaskTimeMeta(task, now)
		assert.Equal(t, first, second)
	})
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		in   *time.Duration
		want string
	}{
		{"nil", nil, "—"},
		{"zero", durationPtr(0), "0s"},
		{"negative", durationPtr(-time.Minute), "0s"},
		{"seconds only", durationPtr(42 * time.Second), "42s"},
		{"two largest units", durationPtr(25*time.Hour + time.Minute + time.Second), "1d 1h"},
		{"skips zero units", durationPtr(24*time.Hour + 30*time.Second), "1d 30s"},
		{"minutes and seconds", durationPtr(90 * time.Second), "1m 30s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestGroupTasksByStatus(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Status: models.TaskStatusDone},
		{ID: "2", Status: models.TaskStatusTodo},
		{ID: "3", Status: models.TaskStatusDone},
		{ID: "4", Status: models.TaskStatusBlocked},
	}

	groups := GroupTasksByStatus(tasks)

	// bucket order follows first occurrence, not a fixed priority
	assert.Equal(t, []models.TaskStatus{
		models.TaskStatusDone,
		models.TaskStatusTodo,
		models.TaskStatusBlocked,
	}, groups.Statuses)

	assert.Len(t, groups.Grouped[models.TaskStatusDone], 2)
	assert.Len(t, groups.Grouped[models.TaskStatusTodo], 1)
	assert.Len(t, groups.Grouped[models.TaskStatusBlocked], 1)
}

func TestGroupTasksByStatusEmpty(t *testing.T) {
	groups := GroupTasksByStatus(nil)
	assert.Empty(t, groups.Statuses)
	assert.Empty(t, groups.Grouped)
}
