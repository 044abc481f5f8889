package repository

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 実効価格（割引があれば割引価格）
const effectivePriceExpr = "COALESCE(products.discount_price, products.original_price)"

// 検索/カテゴリ/価格帯/フラグ/ソート/ページング付きで返す。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Product{})

	// 公開（is_active=true）かつ、削除されていないものだけ
	if !q.IncludeInactive {
		tx = tx.Where("products.is_active = ?", true)
	}

	if slug := strings.TrimSpace(q.CategorySlug); slug != "" {
		tx = tx.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", slug)
	}

	// q nameを対象
	if s := strings.TrimSpace(q.Q); s != "" {
		tx = tx.Where("products.name ILIKE ?", "%"+s+"%")
	}

	//価格帯
	if q.MinPrice != nil {
		tx = tx.Where(effectivePriceExpr+" >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where(effectivePriceExpr+" <= ?", *q.MaxPrice)
	}

	if q.Featured != nil {
		tx = tx.Where("products.is_featured = ?", *q.Featured)
	}
	if q.Recent != nil {
		tx = tx.Where("products.is_recently_added = ?", *q.Recent)
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	//sort
	switch q.Sort {
	case "price_asc":
		tx = tx.Order(effectivePriceExpr + " asc").Order("products.id asc")
	case "price_desc":
		tx = tx.Order(effectivePriceExpr + " desc").Order("products.id desc")
	case "featured":
		tx = tx.Order("products.sort_order asc").Order("products.id desc")
	default:
		tx = tx.Order("products.created_at desc").Order("products.id desc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Preload("Category").Preload("Images", orderImages).
		Offset(offset).Limit(q.Limit).Find(&products).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return products, total, nil
}

func orderImages(db *gorm.DB) *gorm.DB {
	return db.Order("product_images.sort_order asc, product_images.id asc")
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", orderImages).
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// slugで商品を取得
func (r *ProductGormRepository) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", orderImages).
		Where("slug = ?", slug).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 商品の作成（画像も一緒に作る）
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	p.Category = nil
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return model.Product{}, repo.ErrConflict
		}
		if db.IsForeignKeyViolation(err) {
			return model.Product{}, repo.ErrNotFound
		}
		if db.IsCheckViolation(err) {
			return model.Product{}, repo.ErrInvalidValue
		}
		return model.Product{}, err
	}
	return p, nil
}

// 商品の更新（画像は置き換え）。在庫はInventoryRepositoryで変える
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
			"name":              p.Name,
			"slug":              p.Slug,
			"description":       p.Description,
			"short_description": p.ShortDescription,
			"original_price":    p.OriginalPrice,
			"discount_price":    p.DiscountPrice,
			"is_active":         p.IsActive,
			"is_featured":       p.IsFeatured,
			"is_recently_added": p.IsRecentlyAdded,
			"sku":               p.SKU,
			"weight":            p.Weight,
			"dimensions":        p.Dimensions,
			"seo_title":         p.SEOTitle,
			"seo_description":   p.SEODescription,
			"seo_keywords":      p.SEOKeywords,
			"sort_order":        p.SortOrder,
			"category_id":       p.CategoryID,
		})
		if res.Error != nil {
			if db.IsUniqueViolation(res.Error) {
				return repo.ErrConflict
			}
			if db.IsForeignKeyViolation(res.Error) {
				return repo.ErrNotFound
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}

		if p.Images == nil {
			return nil
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		if len(p.Images) == 0 {
			return nil
		}
		for i := range p.Images {
			p.Images[i].ID = 0
			p.Images[i].ProductID = p.ID
		}
		return tx.Create(&p.Images).Error
	})
}

// 商品削除（論理削除。注文明細からの参照は残る）
func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// カテゴリに属する商品数（削除済みは除く）
func (r *ProductGormRepository) CountByCategoryID(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ?", categoryID).
		Count(&n).Error
	return n, err
}
