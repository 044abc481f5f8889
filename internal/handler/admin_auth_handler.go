package handler

import (
	"net/http"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminMeResponse struct {
	Username string `json:"username"`
}

type AdminAuthHandler struct {
	uc           *usecase.AdminAuthUsecase
	cookieSecure bool
}

func NewAdminAuthHandler(uc *usecase.AdminAuthUsecase, cookieSecure bool) *AdminAuthHandler {
	return &AdminAuthHandler{uc: uc, cookieSecure: cookieSecure}
}

// loginは認証前、logout/meは認証後のグループ
func (h *AdminAuthHandler) RegisterRoutes(api *echo.Group, admin *echo.Group) {
	api.POST("/admin/login", h.login)
	admin.POST("/logout", h.logout)
	admin.GET("/me", h.me)
}

func (h *AdminAuthHandler) login(c echo.Context) error {
	var req AdminLoginRequest
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	//JWTはHttpOnly Cookieにだけ入れる
	c.SetCookie(&http.Cookie{
		Name:     middleware.AdminSessionCookie,
		Value:    out.Token,
		Path:     "/api/admin",
		Expires:  out.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, out)
}

func (h *AdminAuthHandler) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AdminSessionCookie,
		Value:    "",
		Path:     "/api/admin",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}

func (h *AdminAuthHandler) me(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, AdminMeResponse{Username: actor})
}
