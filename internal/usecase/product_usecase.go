package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	tx          repo.TransactionManager
	productRepo repo.ProductRepository
}

// DI
func NewProductUsecase(tx repo.TransactionManager, productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{
		tx:          tx,
		productRepo: productRepo,
	}
}

// GET /api/productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Featured *bool
	Recent   *bool
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	return u.list(ctx, in, false)
}

// 管理画面用（非公開も含む）
func (u *ProductUsecase) AdminListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	return u.list(ctx, in, true)
}

func (u *ProductUsecase) list(ctx context.Context, in ListProductsInput, includeInactive bool) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewValidationError("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewValidationError("invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewValidationError("q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, NewValidationError("minPrice must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, NewValidationError("maxPrice must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return ProductListOutput{}, NewValidationError("minPrice must be <= maxPrice")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc", "featured":
	default:
		return ProductListOutput{}, NewValidationError("invalid sort")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:            in.Page,
		Limit:           in.Limit,
		Q:               strings.TrimSpace(in.Q),
		CategorySlug:    strings.TrimSpace(in.Category),
		MinPrice:        in.MinPrice,
		MaxPrice:        in.MaxPrice,
		Featured:        in.Featured,
		Recent:          in.Recent,
		Sort:            in.Sort,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		return ProductListOutput{}, NewPersistenceError(err)
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// 数字ならID、それ以外はslugとして探す
func (u *ProductUsecase) GetProductDetail(ctx context.Context, idOrSlug string) (model.Product, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return model.Product{}, NewValidationError("invalid product id")
	}

	var (
		p   model.Product
		err error
	)
	if id, perr := strconv.ParseInt(idOrSlug, 10, 64); perr == nil {
		if id <= 0 {
			return model.Product{}, NewValidationError("invalid product id")
		}
		p, err = u.productRepo.FindByID(ctx, id)
	} else {
		p, err = u.productRepo.FindBySlug(ctx, idOrSlug)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewNotFoundError("not found")
	}
	if err != nil {
		return model.Product{}, NewPersistenceError(err)
	}

	//非公開は存在しない扱い
	if !p.IsActive {
		return model.Product{}, NewNotFoundError("not found")
	}
	return p, nil
}

func (u *ProductUsecase) AdminGetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewValidationError("invalid product id")
	}
	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewNotFoundError("not found")
	}
	if err != nil {
		return model.Product{}, NewPersistenceError(err)
	}
	return p, nil
}

type AdminProductInput struct {
	Name             string
	Slug             string
	Description      string
	ShortDescription string
	OriginalPrice    decimal.Decimal
	DiscountPrice    *decimal.Decimal
	StockQuantity    *int64 // 更新時はnilなら在庫を変えない
	IsActive         bool
	IsFeatured       bool
	IsRecentlyAdded  bool
	SKU              string
	Weight           *decimal.Decimal
	Dimensions       string
	SEOTitle         string
	SEODescription   string
	SEOKeywords      string
	SortOrder        int
	CategoryID       int64
	Images           []string
}

func (in AdminProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewValidationError("name required")
	}
	if normalizeSlug(in.Slug, in.Name) == "" {
		return NewValidationError("invalid slug")
	}
	if in.OriginalPrice.IsNegative() {
		return NewValidationError("originalPrice must be >= 0")
	}
	if in.DiscountPrice != nil {
		if in.DiscountPrice.IsNegative() {
			return NewValidationError("discountPrice must be >= 0")
		}
		if in.DiscountPrice.GreaterThan(in.OriginalPrice) {
			return NewValidationError("discountPrice must be <= originalPrice")
		}
	}
	if in.StockQuantity != nil && *in.StockQuantity < 0 {
		return NewValidationError("stockQuantity must be >= 0")
	}
	if in.CategoryID <= 0 {
		return NewValidationError("categoryId required")
	}
	for _, url := range in.Images {
		if strings.TrimSpace(url) == "" {
			return NewValidationError("image url must not be empty")
		}
	}
	return nil
}

func (in AdminProductInput) toModel() model.Product {
	images := make([]model.ProductImage, 0, len(in.Images))
	for i, url := range in.Images {
		images = append(images, model.ProductImage{URL: strings.TrimSpace(url), SortOrder: i})
	}
	var stock int64
	if in.StockQuantity != nil {
		stock = *in.StockQuantity
	}
	return model.Product{
		Name:             strings.TrimSpace(in.Name),
		Slug:             normalizeSlug(in.Slug, in.Name),
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		OriginalPrice:    in.OriginalPrice,
		DiscountPrice:    in.DiscountPrice,
		StockQuantity:    stock,
		IsActive:         in.IsActive,
		IsFeatured:       in.IsFeatured,
		IsRecentlyAdded:  in.IsRecentlyAdded,
		SKU:              strings.TrimSpace(in.SKU),
		Weight:           in.Weight,
		Dimensions:       in.Dimensions,
		SEOTitle:         in.SEOTitle,
		SEODescription:   in.SEODescription,
		SEOKeywords:      in.SEOKeywords,
		SortOrder:        in.SortOrder,
		CategoryID:       in.CategoryID,
		Images:           images,
	}
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, actor string, in AdminProductInput) (model.Product, error) {
	if strings.TrimSpace(actor) == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.Create(ctx, in.toModel())
	if errors.Is(err, repo.ErrConflict) {
		return model.Product{}, NewConflictError("slug already exists")
	}
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewValidationError("category with id %d not found", in.CategoryID)
	}
	if errors.Is(err, repo.ErrInvalidValue) {
		return model.Product{}, NewValidationError("stockQuantity must be >= 0")
	}
	if err != nil {
		return model.Product{}, NewPersistenceError(err)
	}
	return p, nil
}

// 商品情報を更新する。stockQuantityが送られて値が変わったときだけ
// 在庫を書き換え、調整履歴と監査ログも残す
func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, actor string, productID int64, in AdminProductInput) error {
	if strings.TrimSpace(actor) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewValidationError("invalid product id")
	}
	if err := in.validate(); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//注文の在庫減算と競合しないよう先に行ロック
		before, err := r.Inventory().LockStock(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("not found")
		}
		if err != nil {
			return NewPersistenceError(err)
		}

		p := in.toModel()
		p.ID = productID
		err = r.Products().Update(ctx, p)
		if errors.Is(err, repo.ErrConflict) {
			return NewConflictError("slug already exists")
		}
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("product or category not found")
		}
		if err != nil {
			return NewPersistenceError(err)
		}

		if in.StockQuantity == nil || *in.StockQuantity == before {
			return nil
		}
		if err := setStock(ctx, r, productID, *in.StockQuantity); err != nil {
			return err
		}
		return recordStockChange(ctx, r, actor, productID, before, *in.StockQuantity, "product edit")
	})
}

func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, actor string, productID int64) error {
	if strings.TrimSpace(actor) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewValidationError("invalid product id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("not found")
		}
		if err != nil {
			return NewPersistenceError(err)
		}

		if err := r.Products().SoftDelete(ctx, productID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("not found")
			}
			return NewPersistenceError(err)
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			Actor:        actor,
			Action:       model.AuditActionDeleteProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   fmt.Sprintf(`{"name":%q,"slug":%q}`, p.Name, p.Slug),
			AfterJSON:    `{"deleted":true}`,
		}); err != nil {
			return NewPersistenceError(err)
		}
		return nil
	})
}

func (u *ProductUsecase) AdminUpdateInventory(ctx context.Context, actor string, productID int64, newStock int64, reason string) error {
	if strings.TrimSpace(actor) == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewValidationError("invalid product id")
	}
	if newStock < 0 {
		return NewValidationError("stock must be >= 0")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return NewValidationError("reason required")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前の在庫（before）。行ロックで注文と順番にする
		before, err := r.Inventory().LockStock(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("not found")
		}
		if err != nil {
			return NewPersistenceError(err)
		}

		//在庫の現在値を更新
		if err := setStock(ctx, r, productID, newStock); err != nil {
			return err
		}

		return recordStockChange(ctx, r, actor, productID, before, newStock, reason)
	})
}

func setStock(ctx context.Context, r repo.TxRepos, productID, newStock int64) error {
	err := r.Inventory().SetStock(ctx, productID, newStock)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("not found")
	}
	if errors.Is(err, repo.ErrInvalidValue) {
		return NewValidationError("stock must be >= 0")
	}
	if err != nil {
		return NewPersistenceError(err)
	}
	return nil
}

// 履歴（差分）と監査ログを作成
func recordStockChange(ctx context.Context, r repo.TxRepos, actor string, productID, before, after int64, reason string) error {
	if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
		ProductID: productID,
		Actor:     actor,
		Delta:     after - before,
		Reason:    reason,
	}); err != nil {
		return NewPersistenceError(err)
	}

	//「誰が」「何を」「どの対象に」「どう変えたか」を残す
	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		Actor:        actor,
		Action:       model.AuditActionUpdateStock,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
		BeforeJSON:   fmt.Sprintf(`{"stockQuantity":%d}`, before),
		AfterJSON:    fmt.Sprintf(`{"stockQuantity":%d}`, after),
	}); err != nil {
		return NewPersistenceError(err)
	}
	return nil
}
