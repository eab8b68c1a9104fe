package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	AuditCreateFDA        = "CRIAR FDA"
	AuditSaveItem         = "GRAVAR ITEM"
	AuditUpdateItem       = "ATUALIZAR ITEM"
	AuditChangeStatus     = "ALTERAR STATUS"
	AuditDeleteItem       = "EXCLUIR ITEM"
	AuditChangePermission = "ALTERAR PERMISSAO"
	AuditCreateUser       = "CRIAR USUARIO"
	AuditDownloadFile     = "DOWNLOAD ARQUIVO"
)

// AuditEntry is append-only: it is never updated or deleted once written.
type AuditEntry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	User      string    `json:"user" gorm:"column:user_email"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func (AuditEntry) TableName() string { return "audit_logs" }
