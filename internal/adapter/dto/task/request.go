package task

// UpdateRequest represents a partial task update. Omitted fields are left
// unchanged.
type UpdateRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description  *string `json:"description,omitempty"`
	Priority     *string `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssignedTeam *string `json:"assigned_team,omitempty" validate:"omitempty,team"`
	Tags         *string `json:"tags,omitempty" validate:"omitempty,max=500"`
}

// UpdateStatusRequest represents a task status transition
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
}

// ListRequest represents the query parameters for listing tasks
type ListRequest struct {
	TranscriptID string `query:"transcript_id"`
	Team         string `query:"team"`
	Status       string `query:"status"`
	Priority     string `query:"priority"`
	Search       string `query:"search"`
	Limit        int    `query:"limit"`
	Offset       int    `query:"offset"`
}
