package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ashboi005/insight-ai/internal/domain/entities"
	"github.com/ashboi005/insight-ai/internal/domain/repositories"
)

// TaskRepository implements the task repository interface using GORM
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *entities.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// CreateBatch inserts all tasks in one transaction
func (r *TaskRepository) CreateBatch(ctx context.Context, tasks []*entities.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(tasks).Error; err != nil {
		return fmt.Errorf("failed to create tasks: %w", err)
	}
	return nil
}

// FindByID finds a task by ID
func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	var task entities.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}
	return &task, nil
}

// FindByTranscript returns all tasks derived from a transcript
func (r *TaskRepository) FindByTranscript(ctx context.Context, transcriptID uuid.UUID) ([]*entities.Task, error) {
	var tasks []*entities.Task
	if err := r.db.WithContext(ctx).
		Where("transcript_id = ?", transcriptID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks by transcript: %w", err)
	}
	return tasks, nil
}

// List returns tasks matching the filters, newest first
func (r *TaskRepository) List(ctx context.Context, filters repositories.TaskFilters) ([]*entities.Task, error) {
	query := r.db.WithContext(ctx).Model(&entities.Task{})

	if filters.TranscriptID != nil {
		query = query.Where("transcript_id = ?", *filters.TranscriptID)
	}
	if filters.Team != nil {
		query = query.Where("assigned_team = ?", *filters.Team)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Priority != nil {
		query = query.Where("priority = ?", *filters.Priority)
	}
	if filters.Search != "" {
		like := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR tags ILIKE ?", like, like, like)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var tasks []*entities.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update updates a task
func (r *TaskRepository) Update(ctx context.Context, task *entities.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// Delete deletes a task
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&entities.Task{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// DeleteByTranscript deletes all tasks derived from a transcript
func (r *TaskRepository) DeleteByTranscript(ctx context.Context, transcriptID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("transcript_id = ?", transcriptID).
		Delete(&entities.Task{}).Error; err != nil {
		return fmt.Errorf("failed to delete tasks by transcript: %w", err)
	}
	return nil
}

// ListRecent returns the most recently updated tasks
func (r *TaskRepository) ListRecent(ctx context.Context, limit int, team *entities.Team) ([]*entities.Task, error) {
	query := r.db.WithContext(ctx).Model(&entities.Task{})
	if team != nil {
		query = query.Where("assigned_team = ?", *team)
	}

	var tasks []*entities.Task
	if err := query.Order("updated_at DESC").Limit(limit).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent tasks: %w", err)
	}
	return tasks, nil
}

// statusCount is a scan target for grouped counts
type statusCount struct {
	Key   string
	Count int64
}

// CountByStatus returns task counts grouped by status
func (r *TaskRepository) CountByStatus(ctx context.Context, team *entities.Team) (map[entities.TaskStatus]int64, error) {
	rows, err := r.groupCount(ctx, "status", team)
	if err != nil {
		return nil, err
	}
	counts := make(map[entities.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[entities.TaskStatus(row.Key)] = row.Count
	}
	return counts, nil
}

// CountByPriority returns task counts grouped by priority
func (r *TaskRepository) CountByPriority(ctx context.Context, team *entities.Team) (map[entities.TaskPriority]int64, error) {
	rows, err := r.groupCount(ctx, "priority", team)
	if err != nil {
		return nil, err
	}
	counts := make(map[entities.TaskPriority]int64, len(rows))
	for _, row := range rows {
		counts[entities.TaskPriority(row.Key)] = row.Count
	}
	return counts, nil
}

func (r *TaskRepository) groupCount(ctx context.Context, column string, team *entities.Team) ([]statusCount, error) {
	query := r.db.WithContext(ctx).Model(&entities.Task{})
	if team != nil {
		query = query.Where("assigned_team = ?", *team)
	}

	var rows []statusCount
	if err := query.
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count tasks by %s: %w", column, err)
	}
	return rows, nil
}

// teamStatusCount is a scan target for the team/status cross-tabulation
type teamStatusCount struct {
	Team   string
	Status string
	Count  int64
}

// CountByTeamStatus returns task counts grouped by team and status
func (r *TaskRepository) CountByTeamStatus(ctx context.Context) (map[entities.Team]map[entities.TaskStatus]int64, error) {
	var rows []teamStatusCount
	if err := r.db.WithContext(ctx).
		Model(&entities.Task{}).
		Select("assigned_team AS team, status, COUNT(*) AS count").
		Group("assigned_team, status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count tasks by team and status: %w", err)
	}

	counts := make(map[entities.Team]map[entities.TaskStatus]int64)
	for _, row := range rows {
		team := entities.Team(row.Team)
		if counts[team] == nil {
			counts[team] = make(map[entities.TaskStatus]int64)
		}
		counts[team][entities.TaskStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// CountCompletedSince counts tasks completed on or after the given time
func (r *TaskRepository) CountCompletedSince(ctx context.Context, since time.Time, team *entities.Team) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entities.Task{}).
		Where("status = ? AND completed_at >= ?", entities.TaskStatusCompleted, since)
	if team != nil {
		query = query.Where("assigned_team = ?", *team)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	return count, nil
}
