package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// 注文確定後に外へ知らせる（NATSなど）
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, ev OrderPlacedEvent) error
}

type OrderPlacedEvent struct {
	OrderID        int64                `json:"orderId"`
	CustomerName   string               `json:"customerName"`
	WhatsappNumber string               `json:"whatsappNumber"`
	DeliveryOption model.DeliveryOption `json:"deliveryOption"`
	DeliveryFee    decimal.Decimal      `json:"deliveryFee"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
	Items          []OrderPlacedItem    `json:"items"`
	PlacedAt       time.Time            `json:"placedAt"`
}

type OrderPlacedItem struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
}

// チェックアウトの計測
type CheckoutMetrics interface {
	OrderPlaced(option model.DeliveryOption, total decimal.Decimal)
	CheckoutRejected(reason string)
}

type nopPublisher struct{}

func (nopPublisher) PublishOrderPlaced(context.Context, OrderPlacedEvent) error { return nil }

type nopCheckoutMetrics struct{}

func (nopCheckoutMetrics) OrderPlaced(model.DeliveryOption, decimal.Decimal) {}
func (nopCheckoutMetrics) CheckoutRejected(string)                          {}

type CheckoutUsecase struct {
	tx       repo.TransactionManager
	products repo.ProductRepository
	orders   repo.OrderRepository

	publisher OrderEventPublisher
	metrics   CheckoutMetrics
	logger    *slog.Logger
}

type CheckoutOption func(*CheckoutUsecase)

func WithOrderEventPublisher(p OrderEventPublisher) CheckoutOption {
	return func(u *CheckoutUsecase) {
		if p != nil {
			u.publisher = p
		}
	}
}

func WithCheckoutMetrics(m CheckoutMetrics) CheckoutOption {
	return func(u *CheckoutUsecase) {
		if m != nil {
			u.metrics = m
		}
	}
}

func WithCheckoutLogger(l *slog.Logger) CheckoutOption {
	return func(u *CheckoutUsecase) {
		if l != nil {
			u.logger = l
		}
	}
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	products repo.ProductRepository,
	orders repo.OrderRepository,
	opts ...CheckoutOption,
) *CheckoutUsecase {
	u := &CheckoutUsecase{
		tx:        tx,
		products:  products,
		orders:    orders,
		publisher: nopPublisher{},
		metrics:   nopCheckoutMetrics{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type CheckoutItemInput struct {
	ProductID int64
	Quantity  int64
}

type PlaceOrderInput struct {
	FullName       string
	Whatsapp       string
	DeliveryOption string
	Items          []CheckoutItemInput
	Note           string
	IdempotencyKey string
}

type PlaceOrderOutput struct {
	ID             int64                `json:"id"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
	DeliveryOption model.DeliveryOption `json:"deliveryOption"`
	DeliveryFee    decimal.Decimal      `json:"deliveryFee"`

	// 同じ冪等キーで既に作られていた
	Replayed bool `json:"-"`
}

const maxIdempotencyKeyLen = 255

// PlaceOrder は注文を検証し、価格をサーバー側で計算して、
// 注文・明細の作成と在庫減算を1トランザクションで行う。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (PlaceOrderOutput, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return u.reject("validation", NewValidationError("missing fullName"))
	}
	whatsapp := strings.TrimSpace(in.Whatsapp)
	if whatsapp == "" {
		return u.reject("validation", NewValidationError("missing whatsapp"))
	}
	if len(in.Items) == 0 {
		return u.reject("validation", NewValidationError("missing items"))
	}
	option, ok := model.ParseDeliveryOption(in.DeliveryOption)
	if !ok {
		return u.reject("validation", NewValidationError("invalid delivery option"))
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > maxIdempotencyKeyLen {
		return u.reject("validation", NewValidationError("invalid idempotency key"))
	}

	// 同じキーなら同じ結果
	if key != "" {
		existing, found, err := u.orders.FindByIdempotencyKey(ctx, key)
		if err != nil {
			return u.reject("persistence", NewPersistenceError(err))
		}
		if found {
			return replayed(existing), nil
		}
	}

	var (
		out   PlaceOrderOutput
		event OrderPlacedEvent
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := priceItems(ctx, r.Products(), in.Items)
		if err != nil {
			return err
		}

		fee := option.Fee()
		subtotal := decimal.Zero
		for _, l := range lines {
			subtotal = subtotal.Add(l.LineTotal)
		}
		total := subtotal.Add(fee)

		order := model.Order{
			CustomerName:   name,
			WhatsappNumber: whatsapp,
			DeliveryOption: option,
			DeliveryFee:    fee,
			TotalPrice:     total,
			Note:           strings.TrimSpace(in.Note),
			Status:         model.OrderStatusPending,
		}
		if key != "" {
			order.IdempotencyKey = &key
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return err
			}
			return NewPersistenceError(err)
		}

		items := make([]model.OrderItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, model.OrderItem{
				ProductID:           l.ProductID,
				ProductNameSnapshot: l.Name,
				UnitPrice:           l.UnitPrice,
				Quantity:            l.Quantity,
				LineTotal:           l.LineTotal,
			})
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewPersistenceError(err)
		}

		//在庫減算（足りないなら false で全体をロールバック）
		for _, l := range lines {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, l.ProductID, l.Quantity)
			if err != nil {
				return NewPersistenceError(err)
			}
			if !ok {
				return insufficientStock(l.Name, l.available, l.Quantity)
			}
		}

		out = PlaceOrderOutput{
			ID:             orderID,
			TotalAmount:    total,
			DeliveryOption: option,
			DeliveryFee:    fee,
		}
		event = OrderPlacedEvent{
			OrderID:        orderID,
			CustomerName:   name,
			WhatsappNumber: whatsapp,
			DeliveryOption: option,
			DeliveryFee:    fee,
			TotalAmount:    total,
			Items:          make([]OrderPlacedItem, 0, len(lines)),
			PlacedAt:       time.Now().UTC(),
		}
		for _, l := range lines {
			event.Items = append(event.Items, OrderPlacedItem{
				ProductID: l.ProductID,
				Name:      l.Name,
				UnitPrice: l.UnitPrice,
				Quantity:  l.Quantity,
			})
		}
		return nil
	})

	if errors.Is(err, repo.ErrConflict) && key != "" {
		//同時に同じキーで作られた。ロールバック後に作られた方を返す
		existing, found, ferr := u.orders.FindByIdempotencyKey(ctx, key)
		if ferr == nil && found {
			return replayed(existing), nil
		}
		return u.reject("conflict", NewConflictError("duplicate order submission"))
	}
	if err != nil {
		if he, ok := AsHTTPError(err); ok {
			return u.reject(rejectReason(he), err)
		}
		return u.reject("persistence", NewPersistenceError(err))
	}

	u.metrics.OrderPlaced(out.DeliveryOption, out.TotalAmount)

	//通知の失敗で注文は失敗にしない
	if err := u.publisher.PublishOrderPlaced(ctx, event); err != nil {
		u.logger.Warn("publish order placed failed", "order_id", out.ID, "error", err)
	}

	return out, nil
}

type QuoteInput struct {
	DeliveryOption string
	Items          []CheckoutItemInput
}

type QuoteLine struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`

	available int64
}

type QuoteOutput struct {
	Lines          []QuoteLine          `json:"lines"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	DeliveryOption model.DeliveryOption `json:"deliveryOption"`
	DeliveryFee    decimal.Decimal      `json:"deliveryFee"`
	TotalAmount    decimal.Decimal      `json:"totalAmount"`
}

// Quote はカートの金額を計算するだけで何も書き込まない
func (u *CheckoutUsecase) Quote(ctx context.Context, in QuoteInput) (QuoteOutput, error) {
	if len(in.Items) == 0 {
		return QuoteOutput{}, NewValidationError("missing items")
	}
	option, ok := model.ParseDeliveryOption(in.DeliveryOption)
	if !ok {
		return QuoteOutput{}, NewValidationError("invalid delivery option")
	}

	lines, err := priceItems(ctx, u.products, in.Items)
	if err != nil {
		return QuoteOutput{}, err
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal)
	}
	fee := option.Fee()

	return QuoteOutput{
		Lines:          lines,
		Subtotal:       subtotal,
		DeliveryOption: option,
		DeliveryFee:    fee,
		TotalAmount:    subtotal.Add(fee),
	}, nil
}

// 商品ごとに 数量 → 存在 → 公開中 → 在庫 の順でチェックして単価を確定する。
// 同じ商品が複数行あれば1行にまとめ、合計数量で在庫を見る
func priceItems(ctx context.Context, products repo.ProductRepository, items []CheckoutItemInput) ([]QuoteLine, error) {
	lines := make([]QuoteLine, 0, len(items))
	index := make(map[int64]int, len(items))

	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, NewValidationError("invalid quantity for product with id %d", it.ProductID)
		}

		if i, ok := index[it.ProductID]; ok {
			l := &lines[i]
			requested := l.Quantity + it.Quantity
			if l.available < requested {
				return nil, insufficientStock(l.Name, l.available, requested)
			}
			l.Quantity = requested
			l.LineTotal = l.UnitPrice.Mul(decimal.NewFromInt(requested))
			continue
		}

		p, err := products.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFoundError("product with id %d not found", it.ProductID)
		}
		if err != nil {
			return nil, NewPersistenceError(err)
		}
		if !p.IsActive {
			return nil, NewValidationError("product %q is not available", p.Name)
		}
		if p.StockQuantity < it.Quantity {
			return nil, insufficientStock(p.Name, p.StockQuantity, it.Quantity)
		}

		//注文時点の価格をスナップショット
		unit := p.EffectivePrice()
		index[it.ProductID] = len(lines)
		lines = append(lines, QuoteLine{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: unit,
			Quantity:  it.Quantity,
			LineTotal: unit.Mul(decimal.NewFromInt(it.Quantity)),
			available: p.StockQuantity,
		})
	}
	return lines, nil
}

func insufficientStock(name string, available, requested int64) error {
	return NewValidationError("insufficient stock for %q: available %d, requested %d", name, available, requested)
}

func replayed(o model.Order) PlaceOrderOutput {
	return PlaceOrderOutput{
		ID:             o.ID,
		TotalAmount:    o.TotalPrice,
		DeliveryOption: o.DeliveryOption,
		DeliveryFee:    o.DeliveryFee,
		Replayed:       true,
	}
}

func (u *CheckoutUsecase) reject(reason string, err error) (PlaceOrderOutput, error) {
	u.metrics.CheckoutRejected(reason)
	return PlaceOrderOutput{}, err
}

func rejectReason(he *HTTPError) string {
	switch {
	case he.Status == http.StatusNotFound:
		return "not_found"
	case he.Status >= http.StatusInternalServerError:
		return "persistence"
	default:
		return "validation"
	}
}
