package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shipstore/lma-finance/internal/model"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) CreateItem(ctx context.Context, item *model.Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ItemRepository) GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// SaveItem replaces the mutable portion of the item. fda_id and created_at
// are never rewritten.
func (r *ItemRepository) SaveItem(ctx context.Context, item *model.Item) error {
	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", item.ID).
		Select("*").
		Omit("id", "fda_id", "created_at").
		Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateItemStatus writes the status together with the three stage dates.
func (r *ItemRepository) UpdateItemStatus(ctx context.Context, item *model.Item) error {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE items
		SET
			status = ?,
			provisioned_on = ?,
			approved_on = ?,
			paid_on = ?,
			updated_at = NOW()
		WHERE id = ?
	`, item.Status, item.ProvisionedOn, item.ApprovedOn, item.PaidOn, item.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ItemRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(`DELETE FROM items WHERE id = ?`, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListItems returns every item with the reference number of its FDA.
func (r *ItemRepository) ListItems(ctx context.Context) ([]model.ItemWithFDA, error) {
	var rows []model.ItemWithFDA
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			i.*,
			COALESCE(f.number, 'N/A') AS fda_number
		FROM items i
		LEFT JOIN fdas f ON f.id = i.fda_id
		ORDER BY i.created_at ASC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ItemRepository) ListItemsByFDA(ctx context.Context, fdaIDs []uuid.UUID) ([]model.Item, error) {
	if len(fdaIDs) == 0 {
		return []model.Item{}, nil
	}
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("fda_id IN ?", fdaIDs).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// LatestByCounterparty returns the most recent item registered for a
// counterparty, used to prefill banking details.
func (r *ItemRepository) LatestByCounterparty(ctx context.Context, counterparty string) (*model.Item, error) {
	var item model.Item
	err := r.db.WithContext(ctx).
		Where("counterparty = ?", counterparty).
		Order("created_at DESC").
		Take(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) DistinctCounterparties(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "counterparty")
}

func (r *ItemRepository) DistinctVessels(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "vessel")
}

func (r *ItemRepository) distinct(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Distinct(column).
		Where(column+" <> ''").
		Order(column+" ASC").
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}
