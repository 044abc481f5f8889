package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

const orderSentMessage = "Your order has been successfully sent."

type CheckoutItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

// 送料・合計は受け取らない（サーバーで計算）
type CheckoutRequest struct {
	FullName       string                `json:"fullName"`
	Whatsapp       string                `json:"whatsapp"`
	DeliveryOption string                `json:"deliveryOption"`
	Items          []CheckoutItemRequest `json:"items"`
	Note           string                `json:"note,omitempty"`
}

type CheckoutResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Order   usecase.PlaceOrderOutput `json:"order"`
}

type QuoteRequest struct {
	DeliveryOption string                `json:"deliveryOption"`
	Items          []CheckoutItemRequest `json:"items"`
}

type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

func (h *CheckoutHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/checkout", h.checkout)
	api.POST("/cart/quote", h.quote)
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}

	//二重送信防止キーはヘッダーから受け取る（bodyには入れない）
	idemKey := c.Request().Header.Get("X-Idempotency-Key")

	out, err := h.uc.PlaceOrder(c.Request().Context(), usecase.PlaceOrderInput{
		FullName:       req.FullName,
		Whatsapp:       req.Whatsapp,
		DeliveryOption: req.DeliveryOption,
		Items:          toCheckoutItems(req.Items),
		Note:           req.Note,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		return writeError(c, err)
	}

	status := http.StatusCreated
	if out.Replayed {
		status = http.StatusOK
	}
	return c.JSON(status, CheckoutResponse{
		Success: true,
		Message: orderSentMessage,
		Order:   out,
	})
}

func (h *CheckoutHandler) quote(c echo.Context) error {
	var req QuoteRequest
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Quote(c.Request().Context(), usecase.QuoteInput{
		DeliveryOption: req.DeliveryOption,
		Items:          toCheckoutItems(req.Items),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func toCheckoutItems(items []CheckoutItemRequest) []usecase.CheckoutItemInput {
	out := make([]usecase.CheckoutItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, usecase.CheckoutItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}
