package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ashboi005/insight-ai/internal/domain/entities"
)

// TranscriptRepository implements the transcript repository interface using GORM
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Create creates a new transcript
func (r *TranscriptRepository) Create(ctx context.Context, transcript *entities.Transcript) error {
	if err := r.db.WithContext(ctx).Create(transcript).Error; err != nil {
		return fmt.Errorf("failed to create transcript: %w", err)
	}
	return nil
}

// FindByID finds a transcript by ID
func (r *TranscriptRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Transcript, error) {
	var transcript entities.Transcript
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&transcript).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrTranscriptNotFound
		}
		return nil, fmt.Errorf("failed to find transcript by ID: %w", err)
	}
	return &transcript, nil
}

// Update updates a transcript
func (r *TranscriptRepository) Update(ctx context.Context, transcript *entities.Transcript) error {
	if err := r.db.WithContext(ctx).Save(transcript).Error; err != nil {
		return fmt.Errorf("failed to update transcript: %w", err)
	}
	return nil
}

// Delete deletes a transcript and its tasks in one transaction
func (r *TranscriptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transcript_id = ?", id).Delete(&entities.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Transcript{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete transcript: %w", err)
	}
	return nil
}

// List returns transcripts newest first
func (r *TranscriptRepository) List(ctx context.Context, limit, offset int) ([]*entities.Transcript, error) {
	var transcripts []*entities.Transcript
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transcripts).Error; err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	return transcripts, nil
}

// ListByUser returns transcripts created by a user, newest first
func (r *TranscriptRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Transcript, error) {
	var transcripts []*entities.Transcript
	if err := r.db.WithContext(ctx).
		Where("created_by_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&transcripts).Error; err != nil {
		return nil, fmt.Errorf("failed to list transcripts by user: %w", err)
	}
	return transcripts, nil
}

// Count returns the total number of transcripts
func (r *TranscriptRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Transcript{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count transcripts: %w", err)
	}
	return count, nil
}
