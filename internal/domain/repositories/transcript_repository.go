package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ashboi005/insight-ai/internal/domain/entities"
)

// TranscriptRepository defines the interface for transcript data access
type TranscriptRepository interface {
	// Create creates a new transcript
	Create(ctx context.Context, transcript *entities.Transcript) error

	// FindByID finds a transcript by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Transcript, error)

	// Update updates a transcript
	Update(ctx context.Context, transcript *entities.Transcript) error

	// Delete deletes a transcript and its tasks
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns transcripts newest first
	List(ctx context.Context, limit, offset int) ([]*entities.Transcript, error)

	// ListByUser returns transcripts created by a user, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Transcript, error)

	// Count returns the total number of transcripts
	Count(ctx context.Context) (int64, error)
}
