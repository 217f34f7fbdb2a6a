// Package projections holds pure derivations over the task snapshot:
// time-window metadata and status grouping. Nothing here touches storage,
// and every function is deterministic in its inputs; callers re-invoke
// ComputeTaskTimeMeta with a fresh clock tick instead of caching results.
package projections

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskboardhq/taskboard-api/internal/models"
)

// TimeMeta describes where a task sits relative to its scheduling window
// at a given instant.
type TimeMeta struct {
	Start      *time.Time     `json:"start"`
	End        *time.Time     `json:"end"`
	TimeLeft   *time.Duration `json:"msLeft"`
	InWindow   bool           `json:"inWindow"`
	IsOverdue  bool           `json:"isOverdue"`
	IsDisabled bool           `json:"isDisabled"`
}

// ComputeTaskTimeMeta derives the task's time metadata at instant now.
// The effective end is endAt when present, falling back to dueDate. A done
// task is never overdue.
func ComputeTaskTimeMeta(task *models.Task, now time.Time) *TimeMeta {
	if task == nil {
		return nil
	}

	start := task.StartAt
	end := task.EndAt
	if end == nil {
		end = task.DueDate
	}

	inWindow := (start == nil || !now.Before(*start)) && (end == nil || !now.After(*end))

	var timeLeft *time.Duration
	if end != nil {
		d := end.Sub(now)
		timeLeft = &d
	}

	isOverdue := end != nil && now.After(*end) && task.Status != models.TaskStatusDone
	isDisabled := task.Status == models.TaskStatusDone ||
		task.Status == models.TaskStatusBlocked ||
		isOverdue

	return &TimeMeta{
		Start:      start,
		End:        end,
		TimeLeft:   timeLeft,
		InWindow:   inWindow,
		IsOverdue:  isOverdue,
		IsDisabled: isDisabled,
	}
}

// FormatDuration renders a remaining duration as the two largest non-zero
// units, largest first ("1d 1h", "30m"). A nil duration renders as "—" and
// anything non-positive as "0s".
func FormatDuration(d *time.Duration) string {
	if d == nil {
		return "—"
	}
	if *d <= 0 {
		return "0s"
	}

	s := int64(*d / time.Second)
	days := s / 86400
	hours := (s % 86400) / 3600
	minutes := (s % 3600) / 60
	seconds := s % 60

	parts := make([]string, 0, 2)
	for _, u := range []struct {
		v     int64
		label string
	}{
		{days, "d"},
		{hours, "h"},
		{minutes, "m"},
		{seconds, "s"},
	} {
		if u.v == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d%s", u.v, u.label))
		if len(parts) == 2 {
			break
		}
	}
	return strings.Join(parts, " ")
}

// StatusGroups buckets tasks by status. Statuses preserves first-occurrence
// order of the input list, not a fixed priority order.
type StatusGroups struct {
	Statuses []models.TaskStatus                 `json:"statuses"`
	Grouped  map[models.TaskStatus][]models.Task `json:"grouped"`
}

// GroupTasksByStatus buckets tasks by their status field.
func GroupTasksByStatus(tasks []models.Task) StatusGroups {
	groups := StatusGroups{
		Grouped: make(map[models.TaskStatus][]models.Task),
	}
	for _, t := range tasks {
		if _, ok := groups.Grouped[t.Status]; !ok {
			groups.Statuses = append(groups.Statuses, t.Status)
		}
		groups.Grouped[t.Status] = append(groups.Grouped[t.Status], t)
	}
	return groups
}
