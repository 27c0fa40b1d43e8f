package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrTaskTitleEmpty      = errors.New("task title cannot be empty")
	ErrTaskDueDateMissing  = errors.New("task due date is required")
	ErrInvalidTaskStatus   = errors.New("invalid task status (must be Not Started, In Progress or Done)")
	ErrInvalidTaskPriority = errors.New("invalid task priority (must be Low, Medium or High)")
	ErrTaskNotFound        = errors.New("task not found")
)

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "Not Started"
	TaskInProgress TaskStatus = "In Progress"
	TaskDone       TaskStatus = "Done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

type Task struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Subject     string       `json:"subject"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     time.Time    `json:"due_date"`
	IsCompleted bool         `json:"is_completed"`
	CreatedAt   time.Time    `json:"created_at"`
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskNotStarted, TaskInProgress, TaskDone:
		return TaskStatus(s), nil
	}
	return "", ErrInvalidTaskStatus
}

func ParseTaskPriority(s string) (TaskPriority, error) {
	switch TaskPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return TaskPriority(s), nil
	}
	return "", ErrInvalidTaskPriority
}

func NewTask(id int, title, subject string, due time.Time, priority TaskPriority) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTaskTitleEmpty
	}
	if due.IsZero() {
		return nil, ErrTaskDueDateMissing
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if _, err := ParseTaskPriority(string(priority)); err != nil {
		return nil, err
	}

	return &Task{
		ID:        id,
		Title:     title,
		Subject:   strings.TrimSpace(subject),
		Status:    TaskNotStarted,
		Priority:  priority,
		DueDate:   due.UTC(),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SetStatus keeps IsCompleted in step with the status.
func (t *Task) SetStatus(status TaskStatus) error {
	if _, err := ParseTaskStatus(string(status)); err != nil {
		return err
	}
	t.Status = status
	t.IsCompleted = status == TaskDone
	return nil
}

func (t *Task) SetCompleted(done bool) {
	if done {
		t.Status = TaskDone
	} else if t.Status == TaskDone {
		t.Status = TaskNotStarted
	}
	t.IsCompleted = done
}

// DueOn reports whether the task is due on the calendar day of day, both read
// in loc.
func (t *Task) DueOn(day time.Time, loc *time.Location) bool {
	return CalendarDate(t.DueDate.In(loc)).Equal(CalendarDate(day.In(loc)))
}

// nextID returns one more than the largest id, or 1 for an empty list.
func nextID[T any](items []T, id func(T) int) int {
	highest := 0
	for _, it := range items {
		if v := id(it); v > highest {
			highest = v
		}
	}
	return highest + 1
}

func NextTaskID(tasks []Task) int {
	return nextID(tasks, func(t Task) int { return t.ID })
}
