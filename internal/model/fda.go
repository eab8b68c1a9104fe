package model

import (
	"time"

	"github.com/google/uuid"
)

type FDA struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Number    string    `json:"number"`
	IsOpen    bool      `json:"is_open"`
	CreatedAt time.Time `json:"created_at"`
}

func (FDA) TableName() string { return "fdas" }

type FDAWithItems struct {
	FDA
	Items []Item `json:"items"`
}
