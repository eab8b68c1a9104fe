package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipstore/lma-finance/internal/model"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) CreateFile(ctx context.Context, file *model.StoredFile) error {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepository) GetFile(ctx context.Context, id uuid.UUID) (*model.StoredFile, error) {
	var file model.StoredFile
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// FileMetas loads metadata of the given files without their content. Missing
// ids are simply absent from the result.
func (r *FileRepository) FileMetas(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.FileMeta, error) {
	result := make(map[uuid.UUID]model.FileMeta, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var rows []model.FileMeta
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, size, content_type, created_at
		FROM files
		WHERE id IN ?
	`, ids).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ID] = row
	}
	return result, nil
}
