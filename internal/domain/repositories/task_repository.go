package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ashboi005/insight-ai/internal/domain/entities"
)

// TaskFilters narrows task listings. Nil fields are ignored. Search matches
// title, description, and tags case-insensitively.
type TaskFilters struct {
	TranscriptID *uuid.UUID
	Team         *entities.Team
	Status       *entities.TaskStatus
	Priority     *entities.TaskPriority
	Search       string
	Limit        int
	Offset       int
}

// TaskRepository defines the interface for task data access. Aggregation
// methods accept an optional team to scope the counts; nil means all teams.
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *entities.Task) error

	// CreateBatch inserts all tasks in one transaction
	CreateBatch(ctx context.Context, tasks []*entities.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)

	// FindByTranscript returns all tasks derived from a transcript
	FindByTranscript(ctx context.Context, transcriptID uuid.UUID) ([]*entities.Task, error)

	// List returns tasks matching the filters, newest first
	List(ctx context.Context, filters TaskFilters) ([]*entities.Task, error)

	// ListRecent returns the most recently updated tasks
	ListRecent(ctx context.Context, limit int, team *entities.Team) ([]*entities.Task, error)

	// Update updates a task
	Update(ctx context.Context, task *entities.Task) error

	// Delete deletes a task
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByTranscript deletes all tasks derived from a transcript
	DeleteByTranscript(ctx context.Context, transcriptID uuid.UUID) error

	// CountByStatus returns task counts grouped by status
	CountByStatus(ctx context.Context, team *entities.Team) (map[entities.TaskStatus]int64, error)

	// CountByPriority returns task counts grouped by priority
	CountByPriority(ctx context.Context, team *entities.Team) (map[entities.TaskPriority]int64, error)

	// CountByTeamStatus returns task counts grouped by team and status
	CountByTeamStatus(ctx context.Context) (map[entities.Team]map[entities.TaskStatus]int64, error)

	// CountCompletedSince counts tasks completed on or after the given time
	CountCompletedSince(ctx context.Context, since time.Time, team *entities.Team) (int64, error)
}
