package model

import (
	"time"

	"gorm.io/datatypes"
)

// PermissionRecord stores the capability tags granted to one user, keyed by email.
type PermissionRecord struct {
	Email     string                      `json:"email" gorm:"primaryKey"`
	Modules   datatypes.JSONSlice[string] `json:"modules"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (PermissionRecord) TableName() string { return "permissions" }
