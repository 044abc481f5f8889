package usecase

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type BannerUsecase struct {
	banners repo.BannerRepository
}

func NewBannerUsecase(banners repo.BannerRepository) *BannerUsecase {
	return &BannerUsecase{banners: banners}
}

type BannerInput struct {
	ImageURL  string
	Alt       string
	Title     string
	Subtitle  string
	Href      string
	SortOrder int
	IsActive  bool
	ProductID *int64
}

// トップページ用（公開中のみ、並び順）
func (u *BannerUsecase) ListActive(ctx context.Context) ([]model.Banner, error) {
	return u.list(ctx, true)
}

func (u *BannerUsecase) AdminList(ctx context.Context) ([]model.Banner, error) {
	return u.list(ctx, false)
}

func (u *BannerUsecase) list(ctx context.Context, activeOnly bool) ([]model.Banner, error) {
	list, err := u.banners.List(ctx, activeOnly)
	if err != nil {
		return []model.Banner{}, NewPersistenceError(err)
	}
	return list, nil
}

func (u *BannerUsecase) Create(ctx context.Context, in BannerInput) (model.Banner, error) {
	b, err := in.toModel()
	if err != nil {
		return model.Banner{}, err
	}
	created, err := u.banners.Create(ctx, b)
	if err != nil {
		return model.Banner{}, NewPersistenceError(err)
	}
	return created, nil
}

func (u *BannerUsecase) Update(ctx context.Context, id int64, in BannerInput) error {
	if id <= 0 {
		return NewValidationError("invalid banner id")
	}
	b, err := in.toModel()
	if err != nil {
		return err
	}
	b.ID = id

	err = u.banners.Update(ctx, b)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("not found")
	}
	if err != nil {
		return NewPersistenceError(err)
	}
	return nil
}

func (u *BannerUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewValidationError("invalid banner id")
	}
	err := u.banners.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("not found")
	}
	if err != nil {
		return NewPersistenceError(err)
	}
	return nil
}

func (in BannerInput) toModel() (model.Banner, error) {
	url := strings.TrimSpace(in.ImageURL)
	if url == "" {
		return model.Banner{}, NewValidationError("imageUrl required")
	}
	if in.ProductID != nil && *in.ProductID <= 0 {
		return model.Banner{}, NewValidationError("invalid productId")
	}
	return model.Banner{
		ImageURL:  url,
		Alt:       strings.TrimSpace(in.Alt),
		Title:     strings.TrimSpace(in.Title),
		Subtitle:  strings.TrimSpace(in.Subtitle),
		Href:      strings.TrimSpace(in.Href),
		SortOrder: in.SortOrder,
		IsActive:  in.IsActive,
		ProductID: in.ProductID,
	}, nil
}
