package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shipstore/lma-finance/internal/model"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// GetPermission returns gorm.ErrRecordNotFound when the user has no record yet.
func (r *PermissionRepository) GetPermission(ctx context.Context, email string) (*model.PermissionRecord, error) {
	var record model.PermissionRecord
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// SavePermission upserts the full tag list of one user.
func (r *PermissionRepository) SavePermission(ctx context.Context, record model.PermissionRecord) error {
	record.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"modules", "updated_at"}),
	}).Create(&record).Error
}

func (r *PermissionRepository) ListPermissions(ctx context.Context) ([]model.PermissionRecord, error) {
	var records []model.PermissionRecord
	if err := r.db.WithContext(ctx).Order("email ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
