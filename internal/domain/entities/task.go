package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus defines the lifecycle states of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// IsValid checks if the task status is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskPriority defines task priority levels
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// IsValid checks if the task priority is valid
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// ParseTaskPriority normalizes a free-form priority string to the canonical
// enum value. Matching is case-insensitive; anything unrecognized falls back
// to MEDIUM.
func ParseTaskPriority(raw string) TaskPriority {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return TaskPriorityLow
	case "high":
		return TaskPriorityHigh
	case "medium":
		return TaskPriorityMedium
	default:
		return TaskPriorityMedium
	}
}

// TaskTitleMaxLen is the column limit for task titles. Longer AI-generated
// titles are truncated, not rejected.
const TaskTitleMaxLen = 255

// Task is an actionable item derived from a transcript
type Task struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title        string       `json:"title" gorm:"type:varchar(255);not null"`
	Description  string       `json:"description" gorm:"type:text"`
	Status       TaskStatus   `json:"status" gorm:"type:varchar(20);default:'PENDING';not null"`
	Priority     TaskPriority `json:"priority" gorm:"type:varchar(20);default:'MEDIUM';not null"`
	AssignedTeam Team         `json:"assigned_team" gorm:"type:varchar(50);not null"`
	Tags         string       `json:"tags,omitempty" gorm:"type:varchar(500)"`
	TranscriptID uuid.UUID    `json:"transcript_id" gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty" gorm:"type:timestamp"`
}

// TableName specifies the table name for GORM
func (Task) TableName() string {
	return "tasks"
}

// NewTask creates a task owned by a transcript with default status
func NewTask(transcriptID uuid.UUID, title string) *Task {
	now := time.Now()
	return &Task{
		ID:           uuid.New(),
		Title:        title,
		Status:       TaskStatusPending,
		Priority:     TaskPriorityMedium,
		AssignedTeam: TeamGeneral,
		TranscriptID: transcriptID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SetStatus transitions the task and stamps completion time when the new
// status is COMPLETED. Moving away from COMPLETED clears the stamp.
func (t *Task) SetStatus(status TaskStatus) {
	t.Status = status
	if status == TaskStatusCompleted {
		now := time.Now()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}

// Validate validates task data
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrInvalidTitle
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if !t.AssignedTeam.IsValid() {
		return ErrInvalidTeam
	}
	return nil
}
