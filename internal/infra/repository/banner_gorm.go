package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type BannerGormRepository struct {
	db *gorm.DB
}

func NewBannerGormRepository(db *gorm.DB) *BannerGormRepository {
	return &BannerGormRepository{db: db}
}

func (r *BannerGormRepository) List(ctx context.Context, activeOnly bool) ([]model.Banner, error) {
	q := r.db.WithContext(ctx).Model(&model.Banner{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var list []model.Banner
	if err := q.Order("sort_order asc").Order("id asc").Find(&list).Error; err != nil {
		return []model.Banner{}, err
	}
	return list, nil
}

func (r *BannerGormRepository) FindByID(ctx context.Context, id int64) (model.Banner, error) {
	var b model.Banner
	err := r.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Banner{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Banner{}, err
	}
	return b, nil
}

func (r *BannerGormRepository) Create(ctx context.Context, b model.Banner) (model.Banner, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Banner{}, err
	}
	return b, nil
}

func (r *BannerGormRepository) Update(ctx context.Context, b model.Banner) error {
	res := r.db.WithContext(ctx).Model(&model.Banner{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"image_url":  b.ImageURL,
			"alt":        b.Alt,
			"title":      b.Title,
			"subtitle":   b.Subtitle,
			"href":       b.Href,
			"sort_order": b.SortOrder,
			"is_active":  b.IsActive,
			"product_id": b.ProductID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *BannerGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Banner{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
