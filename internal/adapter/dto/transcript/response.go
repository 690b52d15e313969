package transcript

import (
	"time"

	"github.com/ashboi005/insight-ai/internal/adapter/dto/task"
	"github.com/ashboi005/insight-ai/internal/domain/entities"
)

// Response represents a transcript in API responses
type Response struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content,omitempty"`
	Summary          string    `json:"summary,omitempty"`
	Sentiment        string    `json:"sentiment,omitempty"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	FileSize         int64     `json:"file_size,omitempty"`
	HasStoredFile    bool      `json:"has_stored_file"`
	CreatedByID      string    `json:"created_by_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewResponse maps a transcript entity to its response shape. includeContent
// controls whether the full transcript text is embedded (list views omit it).
func NewResponse(t *entities.Transcript, includeContent bool) *Response {
	resp := &Response{
		ID:               t.ID.String(),
		Title:            t.Title,
		Summary:          t.Summary,
		Sentiment:        t.Sentiment,
		OriginalFilename: t.OriginalFilename,
		FileSize:         t.FileSize,
		HasStoredFile:    t.HasStoredFile(),
		CreatedByID:      t.CreatedByID.String(),
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if includeContent {
		resp.Content = t.Content
	}
	return resp
}

// DetailResponse pairs a transcript with its derived tasks
type DetailResponse struct {
	Transcript *Response        `json:"transcript"`
	Tasks      []*task.Response `json:"tasks"`
}

// NewDetailResponse maps a transcript and its tasks
func NewDetailResponse(t *entities.Transcript, tasks []*entities.Task, includeContent bool) *DetailResponse {
	return &DetailResponse{
		Transcript: NewResponse(t, includeContent),
		Tasks:      task.NewResponseList(tasks),
	}
}

// NewResponseList maps a slice of transcripts without content
func NewResponseList(transcripts []*entities.Transcript) []*Response {
	responses := make([]*Response, 0, len(transcripts))
	for _, t := range transcripts {
		responses = append(responses, NewResponse(t, false))
	}
	return responses
}
