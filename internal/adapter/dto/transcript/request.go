package transcript

// CreateRequest represents the request to create a transcript from raw text
type CreateRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=255"`
	Content string `json:"content" validate:"required,min=1"`
}

// UpdateRequest represents a partial transcript update. Omitted fields are
// left unchanged.
type UpdateRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Content *string `json:"content,omitempty" validate:"omitempty,min=1"`
}

// ListRequest represents the query parameters for listing transcripts
type ListRequest struct {
	Mine   bool `query:"mine"`
	Limit  int  `query:"limit"`
	Offset int  `query:"offset"`
}
