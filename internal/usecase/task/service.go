package task

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ashboi005/insight-ai/errors"
	"github.com/ashboi005/insight-ai/internal/domain/entities"
	"github.com/ashboi005/insight-ai/internal/domain/repositories"
)

const (
	analyticsCacheKey = "analytics:tasks"
	analyticsCacheTTL = 5 * time.Minute
)

// Cache is the caching surface for analytics results. All operations are
// best-effort: cache failures degrade to database reads.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Service handles task management and analytics
type Service struct {
	taskRepo       repositories.TaskRepository
	transcriptRepo repositories.TranscriptRepository
	cache          Cache
	logger         *zap.Logger
}

// NewService creates a new task service. cache may be nil.
func NewService(
	taskRepo repositories.TaskRepository,
	transcriptRepo repositories.TranscriptRepository,
	cache Cache,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		taskRepo:       taskRepo,
		transcriptRepo: transcriptRepo,
		cache:          cache,
		logger:         logger,
	}
}

// Get returns a task by ID
func (s *Service) Get(ctx context.Context, taskID uuid.UUID) (*entities.Task, error) {
	return s.findTask(ctx, taskID)
}

// List returns tasks matching the filters
func (s *Service) List(ctx context.Context, filters repositories.TaskFilters) ([]*entities.Task, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 20
	}
	tasks, err := s.taskRepo.List(ctx, filters)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list tasks", err)
	}
	return tasks, nil
}

// UpdateInput carries optional field updates; nil fields are left unchanged
type UpdateInput struct {
	Title        *string
	Description  *string
	Priority     *entities.TaskPriority
	AssignedTeam *entities.Team
	Tags         *string
}

// Update applies partial updates to a task
func (s *Service) Update(ctx context.Context, taskID uuid.UUID, input UpdateInput) (*entities.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.AssignedTeam != nil {
		task.AssignedTeam = *input.AssignedTeam
	}
	if input.Tags != nil {
		task.Tags = *input.Tags
	}

	if err := task.Validate(); err != nil {
		return nil, errors.ErrInvalidArgument(err.Error())
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, errors.ErrDBQueryFailed("update task", err)
	}

	s.InvalidateAnalytics(ctx)
	return task, nil
}

// SetStatus transitions a task's lifecycle state
func (s *Service) SetStatus(ctx context.Context, taskID uuid.UUID, status entities.TaskStatus) (*entities.Task, error) {
	if !status.IsValid() {
		return nil, errors.ErrInvalidArgument("invalid task status")
	}

	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	task.SetStatus(status)
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, errors.ErrDBQueryFailed("update task status", err)
	}

	s.logger.Info("task status updated",
		zap.String("task_id", taskID.String()),
		zap.String("status", string(status)),
	)
	s.InvalidateAnalytics(ctx)
	return task, nil
}

// Delete removes a task
func (s *Service) Delete(ctx context.Context, taskID uuid.UUID) error {
	if _, err := s.findTask(ctx, taskID); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return errors.ErrDBQueryFailed("delete task", err)
	}
	s.InvalidateAnalytics(ctx)
	return nil
}

// TeamStat summarizes one team's share of the workload
type TeamStat struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}

// Analytics aggregates task counts across statuses, teams, and priorities
type Analytics struct {
	TotalTasks         int64                           `json:"total_tasks"`
	ByStatus           map[entities.TaskStatus]int64   `json:"by_status"`
	ByPriority         map[entities.TaskPriority]int64 `json:"by_priority"`
	Teams              map[entities.Team]TeamStat      `json:"teams"`
	CompletionRate     float64                         `json:"completion_rate"`
	CompletedLast7Days int64                           `json:"completed_last_7_days"`
	RecentTasks        []*entities.Task                `json:"recent_tasks"`
}

// GetAnalytics computes task analytics. The unscoped snapshot is served from
// cache when fresh; team-scoped requests always hit the database so a single
// cache key covers invalidation.
func (s *Service) GetAnalytics(ctx context.Context, team *entities.Team) (*Analytics, error) {
	if s.cache != nil && team == nil {
		if cached, ok, err := s.cache.Get(ctx, analyticsCacheKey); err != nil {
			s.logger.Warn("analytics cache read failed", zap.Error(err))
		} else if ok {
			var analytics Analytics
			if err := json.Unmarshal([]byte(cached), &analytics); err == nil {
				return &analytics, nil
			}
		}
	}

	analytics, err := s.computeAnalytics(ctx, team)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && team == nil {
		if data, err := json.Marshal(analytics); err == nil {
			if err := s.cache.Set(ctx, analyticsCacheKey, string(data), analyticsCacheTTL); err != nil {
				s.logger.Warn("analytics cache write failed", zap.Error(err))
			}
		}
	}
	return analytics, nil
}

func (s *Service) computeAnalytics(ctx context.Context, team *entities.Team) (*Analytics, error) {
	byStatus, err := s.taskRepo.CountByStatus(ctx, team)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("count tasks by status", err)
	}
	byPriority, err := s.taskRepo.CountByPriority(ctx, team)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("count tasks by priority", err)
	}
	byTeamStatus, err := s.taskRepo.CountByTeamStatus(ctx)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("count tasks by team", err)
	}
	completedRecently, err := s.taskRepo.CountCompletedSince(ctx, time.Now().AddDate(0, 0, -7), team)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("count recently completed tasks", err)
	}
	recent, err := s.taskRepo.ListRecent(ctx, 10, team)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list recent tasks", err)
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	rate := 0.0
	if total > 0 {
		rate = float64(byStatus[entities.TaskStatusCompleted]) / float64(total)
	}

	teams := make(map[entities.Team]TeamStat, len(byTeamStatus))
	for t, statuses := range byTeamStatus {
		if team != nil && t != *team {
			continue
		}
		teams[t] = newTeamStat(statuses)
	}

	return &Analytics{
		TotalTasks:         total,
		ByStatus:           byStatus,
		ByPriority:         byPriority,
		Teams:              teams,
		CompletionRate:     rate,
		CompletedLast7Days: completedRecently,
		RecentTasks:        recent,
	}, nil
}

func newTeamStat(statuses map[entities.TaskStatus]int64) TeamStat {
	stat := TeamStat{Completed: statuses[entities.TaskStatusCompleted]}
	for _, count := range statuses {
		stat.Total += count
	}
	if stat.Total > 0 {
		stat.CompletionRate = float64(stat.Completed) / float64(stat.Total)
	}
	return stat
}

// Dashboard summarizes recent activity for the landing view
type Dashboard struct {
	TotalTranscripts  int64                  `json:"total_transcripts"`
	TotalTasks        int64                  `json:"total_tasks"`
	PendingTasks      int64                  `json:"pending_tasks"`
	InProgressTasks   int64                  `json:"in_progress_tasks"`
	CompletedTasks    int64                  `json:"completed_tasks"`
	RecentTranscripts []*entities.Transcript `json:"recent_transcripts"`
}

// GetDashboard assembles the dashboard summary. A non-nil team scopes the
// task counts; transcripts are not team-owned and stay global.
func (s *Service) GetDashboard(ctx context.Context, team *entities.Team) (*Dashboard, error) {
	transcriptCount, err := s.transcriptRepo.Count(ctx)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("count transcripts", err)
	}
	byStatus, err := s.taskRepo.CountByStatus(ctx, team)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("count tasks by status", err)
	}
	recent, err := s.transcriptRepo.List(ctx, 5, 0)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list recent transcripts", err)
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	return &Dashboard{
		TotalTranscripts:  transcriptCount,
		TotalTasks:        total,
		PendingTasks:      byStatus[entities.TaskStatusPending],
		InProgressTasks:   byStatus[entities.TaskStatusInProgress],
		CompletedTasks:    byStatus[entities.TaskStatusCompleted],
		RecentTranscripts: recent,
	}, nil
}

func (s *Service) findTask(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrTaskNotFound) {
			return nil, errors.ErrNotFound("Task")
		}
		return nil, errors.ErrDBQueryFailed("find task", err)
	}
	return task, nil
}

// InvalidateAnalytics drops the cached analytics snapshot. Every task
// mutation must call it, including task writes driven by the transcript
// pipeline.
func (s *Service) InvalidateAnalytics(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, analyticsCacheKey); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.Error(err))
	}
}
