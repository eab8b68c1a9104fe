package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipstore/lma-finance/internal/model"
)

type FDARepository struct {
	db *gorm.DB
}

func NewFDARepository(db *gorm.DB) *FDARepository {
	return &FDARepository{db: db}
}

func (r *FDARepository) CreateFDA(ctx context.Context, fda *model.FDA) error {
	if fda.ID == uuid.Nil {
		fda.ID = uuid.New()
	}
	if fda.CreatedAt.IsZero() {
		fda.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(fda).Error
}

func (r *FDARepository) CountFDAs(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.FDA{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *FDARepository) GetFDA(ctx context.Context, id uuid.UUID) (*model.FDA, error) {
	var fda model.FDA
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, number, is_open, created_at
		FROM fdas
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&fda).Error; err != nil {
		return nil, err
	}
	if fda.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &fda, nil
}

func (r *FDARepository) ListFDAs(ctx context.Context) ([]model.FDA, error) {
	var rows []model.FDA
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, number, is_open, created_at
		FROM fdas
		ORDER BY number DESC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *FDARepository) UpdateFDANumber(ctx context.Context, id uuid.UUID, number string) error {
	return r.exec(ctx, `UPDATE fdas SET number = ? WHERE id = ?`, number, id)
}

func (r *FDARepository) SetFDAOpen(ctx context.Context, id uuid.UUID, open bool) error {
	return r.exec(ctx, `UPDATE fdas SET is_open = ? WHERE id = ?`, open, id)
}

func (r *FDARepository) exec(ctx context.Context, query string, args ...interface{}) error {
	res := r.db.WithContext(ctx).Exec(query, args...)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
