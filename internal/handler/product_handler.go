package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /api/products の公開API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/products", h.list)
	api.GET("/products/:idOrSlug", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	in, err := parseListProducts(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListPublicProducts(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProductDetail(c.Request().Context(), c.Param("idOrSlug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// 公開・管理の一覧で共通のクエリ
func parseListProducts(c echo.Context) (usecase.ListProductsInput, error) {
	// page（default 1）
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return usecase.ListProductsInput{}, err
	}
	// limit（default 20）
	limit, err := queryInt(c, "limit", 20)
	if err != nil {
		return usecase.ListProductsInput{}, err
	}

	minPrice, err := queryDecimal(c, "minPrice")
	if err != nil {
		return usecase.ListProductsInput{}, err
	}
	maxPrice, err := queryDecimal(c, "maxPrice")
	if err != nil {
		return usecase.ListProductsInput{}, err
	}
	featured, err := queryBool(c, "featured")
	if err != nil {
		return usecase.ListProductsInput{}, err
	}
	recent, err := queryBool(c, "recent")
	if err != nil {
		return usecase.ListProductsInput{}, err
	}

	return usecase.ListProductsInput{
		Page:     page,
		Limit:    limit,
		Q:        c.QueryParam("q"),
		Category: c.QueryParam("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Featured: featured,
		Recent:   recent,
		Sort:     c.QueryParam("sort"),
	}, nil
}

func queryDecimal(c echo.Context, name string) (*decimal.Decimal, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, usecase.NewValidationError("invalid %s", name)
	}
	return &d, nil
}
