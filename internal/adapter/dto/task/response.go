package task

import (
	"time"

	"github.com/ashboi005/insight-ai/internal/domain/entities"
)

// Response represents a task in API responses
type Response struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	AssignedTeam string     `json:"assigned_team"`
	Tags         string     `json:"tags,omitempty"`
	TranscriptID string     `json:"transcript_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// NewResponse maps a task entity to its response shape
func NewResponse(t *entities.Task) *Response {
	return &Response{
		ID:           t.ID.String(),
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		AssignedTeam: string(t.AssignedTeam),
		Tags:         t.Tags,
		TranscriptID: t.TranscriptID.String(),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		CompletedAt:  t.CompletedAt,
	}
}

// NewResponseList maps a slice of task entities
func NewResponseList(tasks []*entities.Task) []*Response {
	responses := make([]*Response, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, NewResponse(t))
	}
	return responses
}
