package usecase

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
	products   repo.ProductRepository
}

func NewCategoryUsecase(categories repo.CategoryRepository, products repo.ProductRepository) *CategoryUsecase {
	return &CategoryUsecase{categories: categories, products: products}
}

type CategoryInput struct {
	Name string
	Slug string
}

func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	list, err := u.categories.List(ctx)
	if err != nil {
		return []model.Category{}, NewPersistenceError(err)
	}
	return list, nil
}

func (u *CategoryUsecase) GetBySlug(ctx context.Context, slug string) (model.Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return model.Category{}, NewValidationError("invalid slug")
	}
	c, err := u.categories.FindBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewNotFoundError("not found")
	}
	if err != nil {
		return model.Category{}, NewPersistenceError(err)
	}
	return c, nil
}

func (u *CategoryUsecase) Create(ctx context.Context, in CategoryInput) (model.Category, error) {
	c, err := in.toModel()
	if err != nil {
		return model.Category{}, err
	}

	created, err := u.categories.Create(ctx, c)
	if errors.Is(err, repo.ErrConflict) {
		return model.Category{}, NewConflictError("slug already exists")
	}
	if err != nil {
		return model.Category{}, NewPersistenceError(err)
	}
	return created, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, id int64, in CategoryInput) error {
	if id <= 0 {
		return NewValidationError("invalid category id")
	}
	c, err := in.toModel()
	if err != nil {
		return err
	}
	c.ID = id

	err = u.categories.Update(ctx, c)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("not found")
	}
	if errors.Is(err, repo.ErrConflict) {
		return NewConflictError("slug already exists")
	}
	if err != nil {
		return NewPersistenceError(err)
	}
	return nil
}

// 商品が残っているカテゴリは消さない
func (u *CategoryUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return NewValidationError("invalid category id")
	}

	n, err := u.products.CountByCategoryID(ctx, id)
	if err != nil {
		return NewPersistenceError(err)
	}
	if n > 0 {
		return NewConflictError("category has %d products", n)
	}

	err = u.categories.Delete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("not found")
	}
	if errors.Is(err, repo.ErrConflict) {
		return NewConflictError("category is still referenced")
	}
	if err != nil {
		return NewPersistenceError(err)
	}
	return nil
}

func (in CategoryInput) toModel() (model.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, NewValidationError("name required")
	}
	slug := normalizeSlug(in.Slug, name)
	if slug == "" {
		return model.Category{}, NewValidationError("invalid slug")
	}
	return model.Category{Name: name, Slug: slug}, nil
}
