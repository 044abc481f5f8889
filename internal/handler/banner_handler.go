package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type BannerRequest struct {
	ImageURL  string `json:"imageUrl"`
	Alt       string `json:"alt"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Href      string `json:"href"`
	SortOrder int    `json:"sortOrder"`
	IsActive  *bool  `json:"isActive"`
	ProductID *int64 `json:"productId"`
}

func (r BannerRequest) toInput() usecase.BannerInput {
	//未指定なら公開
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return usecase.BannerInput{
		ImageURL:  r.ImageURL,
		Alt:       r.Alt,
		Title:     r.Title,
		Subtitle:  r.Subtitle,
		Href:      r.Href,
		SortOrder: r.SortOrder,
		IsActive:  active,
		ProductID: r.ProductID,
	}
}

type BannerHandler struct {
	uc *usecase.BannerUsecase
}

func NewBannerHandler(uc *usecase.BannerUsecase) *BannerHandler {
	return &BannerHandler{uc: uc}
}

func (h *BannerHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/banners", h.listActive)
}

func (h *BannerHandler) RegisterAdminRoutes(admin *echo.Group) {
	admin.GET("/banners", h.listAll)
	admin.POST("/banners", h.create)
	admin.PUT("/banners/:id", h.update)
	admin.DELETE("/banners/:id", h.delete)
}

func (h *BannerHandler) listActive(c echo.Context) error {
	list, err := h.uc.ListActive(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *BannerHandler) listAll(c echo.Context) error {
	list, err := h.uc.AdminList(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *BannerHandler) create(c echo.Context) error {
	var req BannerRequest
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}
	b, err := h.uc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BannerHandler) update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req BannerRequest
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Update(c.Request().Context(), id, req.toInput()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *BannerHandler) delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
