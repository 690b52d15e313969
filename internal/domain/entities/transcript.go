package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Transcript is the stored meeting transcript model. Summary and Sentiment
// are filled in by AI enrichment and stay empty when enrichment fails.
type Transcript struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title            string         `json:"title" gorm:"type:varchar(255);not null"`
	Content          string         `json:"content" gorm:"type:text;not null"`
	Summary          string         `json:"summary,omitempty" gorm:"type:text"`
	Sentiment        string         `json:"sentiment,omitempty" gorm:"type:text"`
	OriginalFilename string         `json:"original_filename,omitempty" gorm:"type:varchar(255)"`
	StorageObject    string         `json:"storage_object,omitempty" gorm:"type:varchar(500)"`
	FileSize         int64          `json:"file_size,omitempty"`
	RawExtraction    datatypes.JSON `json:"raw_extraction,omitempty" gorm:"type:jsonb"`
	CreatedByID      uuid.UUID      `json:"created_by_id" gorm:"type:uuid;not null;index"`
	CreatedAt        time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a new transcript owned by a user
func NewTranscript(title, content string, createdBy uuid.UUID) *Transcript {
	now := time.Now()
	return &Transcript{
		ID:          uuid.New(),
		Title:       title,
		Content:     content,
		CreatedByID: createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// HasStoredFile reports whether an archived copy exists in object storage.
func (t *Transcript) HasStoredFile() bool {
	return t.StorageObject != ""
}
