package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain/model"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetrics_OrderPlaced(t *testing.T) {
	m := New()

	m.OrderPlaced(model.DeliveryHomeDelivery, decimal.RequireFromString("100"))
	m.OrderPlaced(model.DeliveryHomeDelivery, decimal.RequireFromString("20"))
	m.OrderPlaced(model.DeliveryPickup, decimal.RequireFromString("80"))

	body := scrape(t, m)
	assert.Contains(t, body, `storefront_orders_placed_total{delivery_option="HOME_DELIVERY"} 2`)
	assert.Contains(t, body, `storefront_orders_placed_total{delivery_option="PICKUP"} 1`)
	assert.Contains(t, body, `storefront_order_total_amount_sum{delivery_option="HOME_DELIVERY"} 120`)
}

func TestMetrics_CheckoutRejected(t *testing.T) {
	m := New()

	m.CheckoutRejected("validation")
	m.CheckoutRejected("validation")

	assert.Contains(t, scrape(t, m), `storefront_checkout_rejected_total{reason="validation"} 2`)
}

func TestMetrics_Middleware_LabelsByRoute(t *testing.T) {
	m := New()

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/products/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/12", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.Contains(t, scrape(t, m), `storefront_http_requests_total{method="GET",route="/api/products/:id",status="204"} 1`)
}
