package model

import (
	"time"

	"github.com/google/uuid"
)

type StoredFile struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Content     []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func (StoredFile) TableName() string { return "files" }

// FileMeta is the stored-file row without its content.
type FileMeta struct {
	ID          uuid.UUID
	Name        string
	Size        int64
	ContentType string
	CreatedAt   time.Time
}
