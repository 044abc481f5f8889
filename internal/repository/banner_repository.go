package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type BannerRepository interface {
	// activeOnly=trueなら公開中のみ
	List(ctx context.Context, activeOnly bool) ([]model.Banner, error)
	FindByID(ctx context.Context, id int64) (model.Banner, error)
	Create(ctx context.Context, b model.Banner) (model.Banner, error)
	Update(ctx context.Context, b model.Banner) error
	Delete(ctx context.Context, id int64) error
}
