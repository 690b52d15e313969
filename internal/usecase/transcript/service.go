package transcript

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/ashboi005/insight-ai/errors"
	"github.com/ashboi005/insight-ai/internal/domain/entities"
	"github.com/ashboi005/insight-ai/internal/domain/repositories"
	"github.com/ashboi005/insight-ai/internal/usecase/extraction"
)

// ObjectStore is the object storage surface the service needs. Archival is
// best-effort: a storage failure never blocks transcript creation.
type ObjectStore interface {
	UploadText(ctx context.Context, objectName, content string) error
	DownloadText(ctx context.Context, objectName string) (string, error)
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	Remove(ctx context.Context, objectName string) error
	ObjectName(userID, transcriptID uuid.UUID, originalFilename string) string
}

// downloadURLExpiry bounds how long a presigned archive link stays valid
const downloadURLExpiry = 15 * time.Minute

// TaskExtractor runs the transcript-to-task pipeline
type TaskExtractor interface {
	Extract(ctx context.Context, content, title string) (*extraction.Result, error)
}

// AnalyticsInvalidator drops cached task aggregates. The transcript service
// creates and deletes tasks in bulk, so it must invalidate the same snapshot
// the task service maintains.
type AnalyticsInvalidator interface {
	InvalidateAnalytics(ctx context.Context)
}

// Service orchestrates transcript persistence, file archival, and AI
// enrichment
type Service struct {
	transcriptRepo repositories.TranscriptRepository
	taskRepo       repositories.TaskRepository
	extractor      TaskExtractor
	store          ObjectStore
	analytics      AnalyticsInvalidator
	logger         *zap.Logger
}

// NewService creates a new transcript service. store and analytics may be nil
// when object storage or analytics caching is not configured.
func NewService(
	transcriptRepo repositories.TranscriptRepository,
	taskRepo repositories.TaskRepository,
	extractor TaskExtractor,
	store ObjectStore,
	analytics AnalyticsInvalidator,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		transcriptRepo: transcriptRepo,
		taskRepo:       taskRepo,
		extractor:      extractor,
		store:          store,
		analytics:      analytics,
		logger:         logger,
	}
}

// WithTasks pairs a transcript with its derived tasks
type WithTasks struct {
	Transcript *entities.Transcript
	Tasks      []*entities.Task
}

// Create stores a transcript and enriches it with AI-derived tasks, summary,
// and sentiment. Enrichment failures are logged, not returned: the transcript
// is always persisted.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, title, content string) (*WithTasks, error) {
	if title == "" || content == "" {
		return nil, errors.ErrInvalidArgument("title and content are required")
	}

	transcript := entities.NewTranscript(title, content, userID)
	tasks := s.enrich(ctx, transcript)

	if err := s.transcriptRepo.Create(ctx, transcript); err != nil {
		return nil, errors.ErrDBQueryFailed("create transcript", err)
	}
	if err := s.taskRepo.CreateBatch(ctx, tasks); err != nil {
		return nil, errors.ErrDBQueryFailed("create tasks", err)
	}
	if len(tasks) > 0 {
		s.invalidateAnalytics(ctx)
	}

	s.logger.Info("transcript created",
		zap.String("transcript_id", transcript.ID.String()),
		zap.Int("tasks", len(tasks)),
	)
	return &WithTasks{Transcript: transcript, Tasks: tasks}, nil
}

// Upload stores an uploaded transcript file: archive the original in object
// storage (best-effort), then run the same enrichment path as Create.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, title, filename string, content []byte) (*WithTasks, error) {
	if title == "" || len(content) == 0 {
		return nil, errors.ErrInvalidArgument("title and file content are required")
	}

	transcript := entities.NewTranscript(title, string(content), userID)
	transcript.OriginalFilename = filename
	transcript.FileSize = int64(len(content))

	if s.store != nil {
		objectName := s.store.ObjectName(userID, transcript.ID, filename)
		if err := s.store.UploadText(ctx, objectName, string(content)); err != nil {
			s.logger.Warn("transcript file archival failed",
				zap.String("transcript_id", transcript.ID.String()),
				zap.Error(err),
			)
		} else {
			transcript.StorageObject = objectName
		}
	}

	tasks := s.enrich(ctx, transcript)

	if err := s.transcriptRepo.Create(ctx, transcript); err != nil {
		return nil, errors.ErrDBQueryFailed("create transcript", err)
	}
	if err := s.taskRepo.CreateBatch(ctx, tasks); err != nil {
		return nil, errors.ErrDBQueryFailed("create tasks", err)
	}
	if len(tasks) > 0 {
		s.invalidateAnalytics(ctx)
	}

	s.logger.Info("transcript uploaded",
		zap.String("transcript_id", transcript.ID.String()),
		zap.String("filename", filename),
		zap.Int("tasks", len(tasks)),
	)
	return &WithTasks{Transcript: transcript, Tasks: tasks}, nil
}

// GenerateTasks re-runs extraction on an existing transcript, replacing its
// tasks. Unlike Create, extraction failures are returned to the caller since
// the request's only purpose is enrichment.
func (s *Service) GenerateTasks(ctx context.Context, transcriptID uuid.UUID) (*WithTasks, error) {
	transcript, err := s.findTranscript(ctx, transcriptID)
	if err != nil {
		return nil, err
	}

	result, err := s.extractor.Extract(ctx, transcript.Content, transcript.Title)
	if err != nil {
		return nil, mapExtractionError(err)
	}

	transcript.Summary = result.Summary
	transcript.Sentiment = result.Sentiment
	transcript.RawExtraction = datatypes.JSON(result.RawJSON)

	tasks := buildTasks(transcript.ID, result.Tasks)

	if err := s.taskRepo.DeleteByTranscript(ctx, transcriptID); err != nil {
		return nil, errors.ErrDBQueryFailed("delete tasks", err)
	}
	if err := s.taskRepo.CreateBatch(ctx, tasks); err != nil {
		return nil, errors.ErrDBQueryFailed("create tasks", err)
	}
	if err := s.transcriptRepo.Update(ctx, transcript); err != nil {
		return nil, errors.ErrDBQueryFailed("update transcript", err)
	}
	s.invalidateAnalytics(ctx)

	s.logger.Info("tasks regenerated",
		zap.String("transcript_id", transcriptID.String()),
		zap.Int("tasks", len(tasks)),
	)
	return &WithTasks{Transcript: transcript, Tasks: tasks}, nil
}

// UpdateInput carries optional transcript field updates; nil fields are left
// unchanged
type UpdateInput struct {
	Title   *string
	Content *string
}

// Update edits a transcript's title or content. Only the creator or an admin
// may edit. Changing the content does not re-run extraction; callers use
// GenerateTasks for that.
func (s *Service) Update(ctx context.Context, transcriptID uuid.UUID, requester *entities.User, input UpdateInput) (*entities.Transcript, error) {
	transcript, err := s.findTranscript(ctx, transcriptID)
	if err != nil {
		return nil, err
	}

	if transcript.CreatedByID != requester.ID && !requester.IsAdmin() {
		return nil, errors.ErrPermissionDenied("update transcript")
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, errors.ErrInvalidArgument("title cannot be empty")
		}
		transcript.Title = *input.Title
	}
	if input.Content != nil {
		if *input.Content == "" {
			return nil, errors.ErrInvalidArgument("content cannot be empty")
		}
		transcript.Content = *input.Content
	}

	if err := s.transcriptRepo.Update(ctx, transcript); err != nil {
		return nil, errors.ErrDBQueryFailed("update transcript", err)
	}
	return transcript, nil
}

// Tasks returns the tasks derived from a transcript
func (s *Service) Tasks(ctx context.Context, transcriptID uuid.UUID) ([]*entities.Task, error) {
	if _, err := s.findTranscript(ctx, transcriptID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.FindByTranscript(ctx, transcriptID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("find tasks", err)
	}
	return tasks, nil
}

// Get returns a transcript with its tasks
func (s *Service) Get(ctx context.Context, transcriptID uuid.UUID) (*WithTasks, error) {
	transcript, err := s.findTranscript(ctx, transcriptID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.FindByTranscript(ctx, transcriptID)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("find tasks", err)
	}
	return &WithTasks{Transcript: transcript, Tasks: tasks}, nil
}

// List returns transcripts, scoped to a user unless userID is nil
func (s *Service) List(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*entities.Transcript, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var (
		transcripts []*entities.Transcript
		err         error
	)
	if userID != nil {
		transcripts, err = s.transcriptRepo.ListByUser(ctx, *userID, limit, offset)
	} else {
		transcripts, err = s.transcriptRepo.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list transcripts", err)
	}
	return transcripts, nil
}

// Delete removes a transcript, its tasks, and its archived file. Only the
// creator or an admin may delete.
func (s *Service) Delete(ctx context.Context, transcriptID uuid.UUID, requester *entities.User) error {
	transcript, err := s.findTranscript(ctx, transcriptID)
	if err != nil {
		return err
	}

	if transcript.CreatedByID != requester.ID && !requester.IsAdmin() {
		return errors.ErrPermissionDenied("delete transcript")
	}

	if s.store != nil && transcript.HasStoredFile() {
		if err := s.store.Remove(ctx, transcript.StorageObject); err != nil {
			s.logger.Warn("failed to remove archived transcript file",
				zap.String("transcript_id", transcriptID.String()),
				zap.Error(err),
			)
		}
	}

	if err := s.transcriptRepo.Delete(ctx, transcriptID); err != nil {
		return errors.ErrDBQueryFailed("delete transcript", err)
	}
	// The delete cascades to the transcript's tasks
	s.invalidateAnalytics(ctx)

	s.logger.Info("transcript deleted", zap.String("transcript_id", transcriptID.String()))
	return nil
}

// Download returns the archived file content and its original filename
func (s *Service) Download(ctx context.Context, transcriptID uuid.UUID) (string, string, error) {
	transcript, err := s.findTranscript(ctx, transcriptID)
	if err != nil {
		return "", "", err
	}
	if s.store == nil || !transcript.HasStoredFile() {
		return "", "", errors.ErrNotFound("transcript file")
	}

	content, err := s.store.DownloadText(ctx, transcript.StorageObject)
	if err != nil {
		return "", "", errors.ErrStorageFailed("download", err)
	}

	filename := transcript.OriginalFilename
	if filename == "" {
		filename = transcript.Title + ".txt"
	}
	return content, filename, nil
}

// DownloadURL returns a presigned link to the archived file plus the link's
// lifetime. Clients fetch the object directly from storage.
func (s *Service) DownloadURL(ctx context.Context, transcriptID uuid.UUID) (string, time.Duration, error) {
	transcript, err := s.findTranscript(ctx, transcriptID)
	if err != nil {
		return "", 0, err
	}
	if s.store == nil || !transcript.HasStoredFile() {
		return "", 0, errors.ErrNotFound("transcript file")
	}

	url, err := s.store.GetFileURL(ctx, transcript.StorageObject, downloadURLExpiry)
	if err != nil {
		return "", 0, errors.ErrStorageFailed("presign", err)
	}
	return url, downloadURLExpiry, nil
}

// enrich runs extraction and attaches the result to the transcript. On
// failure the transcript keeps empty AI fields and the error is logged.
func (s *Service) enrich(ctx context.Context, transcript *entities.Transcript) []*entities.Task {
	result, err := s.extractor.Extract(ctx, transcript.Content, transcript.Title)
	if err != nil {
		s.logger.Error("AI enrichment failed, storing transcript without tasks",
			zap.String("transcript_id", transcript.ID.String()),
			zap.Error(err),
		)
		return nil
	}

	transcript.Summary = result.Summary
	transcript.Sentiment = result.Sentiment
	transcript.RawExtraction = datatypes.JSON(result.RawJSON)
	return buildTasks(transcript.ID, result.Tasks)
}

func (s *Service) invalidateAnalytics(ctx context.Context) {
	if s.analytics != nil {
		s.analytics.InvalidateAnalytics(ctx)
	}
}

func (s *Service) findTranscript(ctx context.Context, id uuid.UUID) (*entities.Transcript, error) {
	transcript, err := s.transcriptRepo.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, entities.ErrTranscriptNotFound) {
			return nil, errors.ErrNotFound("Transcript")
		}
		return nil, errors.ErrDBQueryFailed("find transcript", err)
	}
	return transcript, nil
}

// buildTasks converts extracted task candidates into persistable entities
func buildTasks(transcriptID uuid.UUID, extracted []extraction.ExtractedTask) []*entities.Task {
	tasks := make([]*entities.Task, 0, len(extracted))
	for _, et := range extracted {
		task := entities.NewTask(transcriptID, et.Title)
		task.Description = et.Description
		task.Priority = et.Priority
		task.AssignedTeam = et.AssignedTeam
		task.Tags = et.Tags
		tasks = append(tasks, task)
	}
	return tasks
}

// mapExtractionError translates pipeline sentinels into transport-ready
// errors
func mapExtractionError(err error) error {
	switch {
	case stdErrors.Is(err, extraction.ErrModelUnavailable):
		return errors.ErrAIServiceUnavailable("text generation")
	case stdErrors.Is(err, extraction.ErrModelResponseEmpty):
		return errors.ErrAIResponseUnparseable(err)
	case stdErrors.Is(err, extraction.ErrNoJSONFound), stdErrors.Is(err, extraction.ErrInvalidJSON):
		return errors.ErrAIResponseUnparseable(err)
	default:
		return errors.ErrAIExtractionFailed(err)
	}
}
