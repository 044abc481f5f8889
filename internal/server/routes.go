package server

import (
	"net/http"

	mw "storefront/internal/middleware"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", func(c echo.Context) error {
		if d.Ping != nil {
			if err := d.Ping(c.Request().Context()); err != nil {
				d.Logger.Error("health check failed", "error", err)
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	h := d.Handlers
	api := e.Group("/api")

	//公開
	h.Checkout.RegisterRoutes(api)
	h.Product.RegisterRoutes(api)
	h.Category.RegisterRoutes(api)
	h.Banner.RegisterRoutes(api)

	//管理（Basic認証 or ログインCookie）
	admin := api.Group("/admin", mw.AdminAuth(d.Admin))
	h.AdminAuth.RegisterRoutes(api, admin)
	h.AdminProduct.RegisterRoutes(admin)
	h.AdminOrder.RegisterRoutes(admin)
	h.Category.RegisterAdminRoutes(admin)
	h.Banner.RegisterAdminRoutes(admin)
	h.AuditLog.RegisterRoutes(admin)
}
