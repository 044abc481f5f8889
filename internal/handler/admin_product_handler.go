package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 管理画面の商品フォーム
type ProductRequest struct {
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"shortDescription"`
	OriginalPrice    decimal.Decimal  `json:"originalPrice"`
	DiscountPrice    *decimal.Decimal `json:"discountPrice"`
	StockQuantity    *int64           `json:"stockQuantity"`
	IsActive         bool             `json:"isActive"`
	IsFeatured       bool             `json:"isFeatured"`
	IsRecentlyAdded  bool             `json:"isRecentlyAdded"`
	SKU              string           `json:"sku"`
	Weight           *decimal.Decimal `json:"weight"`
	Dimensions       string           `json:"dimensions"`
	SEOTitle         string           `json:"seoTitle"`
	SEODescription   string           `json:"seoDescription"`
	SEOKeywords      string           `json:"seoKeywords"`
	SortOrder        int              `json:"sortOrder"`
	CategoryID       int64            `json:"categoryId"`
	Images           []string         `json:"images"`
}

func (r ProductRequest) toInput() usecase.AdminProductInput {
	return usecase.AdminProductInput{
		Name:             r.Name,
		Slug:             r.Slug,
		Description:      r.Description,
		ShortDescription: r.ShortDescription,
		OriginalPrice:    r.OriginalPrice,
		DiscountPrice:    r.DiscountPrice,
		StockQuantity:    r.StockQuantity,
		IsActive:         r.IsActive,
		IsFeatured:       r.IsFeatured,
		IsRecentlyAdded:  r.IsRecentlyAdded,
		SKU:              r.SKU,
		Weight:           r.Weight,
		Dimensions:       r.Dimensions,
		SEOTitle:         r.SEOTitle,
		SEODescription:   r.SEODescription,
		SEOKeywords:      r.SEOKeywords,
		SortOrder:        r.SortOrder,
		CategoryID:       r.CategoryID,
		Images:           r.Images,
	}
}

// 在庫更新の入力
type InventoryUpdateRequest struct {
	StockQuantity int64  `json:"stockQuantity"`
	Reason        string `json:"reason"`
}

// /api/admin/products と /api/admin/inventory をまとめる
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// adminグループ（認証済み）に登録
func (h *AdminProductHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/products", h.listProducts)
	admin.GET("/products/:id", h.getProduct)
	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
	admin.PUT("/inventory/:id", h.updateInventory)
}

func (h *AdminProductHandler) listProducts(c echo.Context) error {
	in, err := parseListProducts(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AdminListProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) getProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	p, err := h.uc.AdminGetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return writeError(c, err)
	}

	var req ProductRequest
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.AdminCreateProduct(c.Request().Context(), actor, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req ProductRequest
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.AdminUpdateProduct(c.Request().Context(), actor, id, req.toInput()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *AdminProductHandler) updateInventory(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return writeError(c, err)
	}
	productID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req InventoryUpdateRequest
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.AdminUpdateInventory(c.Request().Context(), actor, productID, req.StockQuantity, req.Reason); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "stock updated"})
}
