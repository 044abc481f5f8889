package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishOrderPlaced(ctx context.Context, ev usecase.OrderPlacedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type CheckoutMetricsMock struct{ mock.Mock }

func (m *CheckoutMetricsMock) OrderPlaced(option model.DeliveryOption, total decimal.Decimal) {
	m.Called(option, total)
}

func (m *CheckoutMetricsMock) CheckoutRejected(reason string) {
	m.Called(reason)
}

type checkoutDeps struct {
	tx        *TxManagerMock
	products  *ProductRepoMock
	orders    *OrderRepoMock
	items     *OrderItemRepoMock
	inventory *InventoryRepoMock
	publisher *PublisherMock
	metrics   *CheckoutMetricsMock
	uc        *usecase.CheckoutUsecase
}

func newCheckoutDeps() *checkoutDeps {
	d := &checkoutDeps{
		tx:        new(TxManagerMock),
		products:  new(ProductRepoMock),
		orders:    new(OrderRepoMock),
		items:     new(OrderItemRepoMock),
		inventory: new(InventoryRepoMock),
		publisher: new(PublisherMock),
		metrics:   new(CheckoutMetricsMock),
	}
	// トランザクション内外で同じモックを使う
	d.tx.Repos = &TxReposMock{
		orders:     d.orders,
		orderItems: d.items,
		inventory:  d.inventory,
		products:   d.products,
	}
	d.uc = usecase.NewCheckoutUsecase(d.tx, d.products, d.orders,
		usecase.WithOrderEventPublisher(d.publisher),
		usecase.WithCheckoutMetrics(d.metrics),
	)
	return d
}

// 通常50、割引40、在庫5
func productA() model.Product {
	return model.Product{
		ID:            1,
		Name:          "A",
		OriginalPrice: dec("50"),
		DiscountPrice: decPtr("40"),
		StockQuantity: 5,
		IsActive:      true,
	}
}

func validInput() usecase.PlaceOrderInput {
	return usecase.PlaceOrderInput{
		FullName:       "Jane Doe",
		Whatsapp:       "+212600000000",
		DeliveryOption: "free_pickup",
		Items:          []usecase.CheckoutItemInput{{ProductID: 1, Quantity: 2}},
	}
}

func decEq(want string) func(decimal.Decimal) bool {
	return func(got decimal.Decimal) bool { return got.Equal(dec(want)) }
}

func TestCheckoutUsecase_PlaceOrder_Pickup_UsesDiscountPrice(t *testing.T) {
	ctx := context.Background()
	d := newCheckoutDeps()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.products.On("FindByID", mock.Anything, int64(1)).Return(productA(), nil)
	d.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.CustomerName == "Jane Doe" &&
			o.WhatsappNumber == "+212600000000" &&
			o.DeliveryOption == model.DeliveryPickup &&
			o.DeliveryFee.Equal(dec("0")) &&
			o.TotalPrice.Equal(dec("80")) &&
			o.Status == model.OrderStatusPending &&
			o.IdempotencyKey == nil
	})).Return(int64(100), nil)
	d.items.On("CreateBulk", mock.Anything, int64(100), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 &&
			items[0].ProductID == 1 &&
			items[0].ProductNameSnapshot == "A" &&
			items[0].UnitPrice.Equal(dec("40")) &&
			items[0].LineTotal.Equal(dec("80")) &&
			items[0].Quantity == 2
	})).Return(nil)
	d.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(2)).Return(true, nil).Once()
	d.metrics.On("OrderPlaced", model.DeliveryPickup, mock.MatchedBy(decEq("80"))).Return()
	d.publisher.On("PublishOrderPlaced", mock.Anything, mock.MatchedBy(func(ev usecase.OrderPlacedEvent) bool {
		return ev.OrderID == 100 && len(ev.Items) == 1 && ev.TotalAmount.Equal(dec("80"))
	})).Return(nil)

	out, err := d.uc.PlaceOrder(ctx, validInput())
	require.NoError(t, err)

	assert.Equal(t, int64(100), out.ID)
	assert.True(t, out.TotalAmount.Equal(dec("80")), "total=%s", out.TotalAmount)
	assert.True(t, out.DeliveryFee.Equal(dec("0")))
	assert.Equal(t, model.DeliveryPickup, out.DeliveryOption)
	assert.False(t, out.Replayed)

	d.tx.AssertExpectations(t)
	d.orders.AssertExpectations(t)
	d.items.AssertExpectations(t)
	d.inventory.AssertNumberOfCalls(t, "DecreaseStockIfEnough", 1)
	d.publisher.AssertExpectations(t)
	d.metrics.AssertExpectations(t)
}

func TestCheckoutUsecase_PlaceOrder_HomeDelivery_AddsFee(t *testing.T) {
	ctx := context.Background()
	d := newCheckoutDeps()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.products.On("FindByID", mock.Anything, int64(1)).Return(productA(), nil)
	d.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.DeliveryOption == model.DeliveryHomeDelivery &&
			o.DeliveryFee.Equal(dec("20")) &&
			o.TotalPrice.Equal(dec("100"))
	})).Return(int64(101), nil)
	d.items.On("CreateBulk", mock.Anything, int64(101), mock.Anything).Return(nil)
	d.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(2)).Return(true, nil)
	d.metrics.On("OrderPlaced", model.DeliveryHomeDelivery, mock.Anything).Return()
	d.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(nil)

	in := validInput()
	in.DeliveryOption = "home_delivery"

	out, err := d.uc.PlaceOrder(ctx, in)
	require.NoError(t, err)
	assert.True(t, out.TotalAmount.Equal(dec("100")), "total=%s", out.TotalAmount)
	assert.True(t, out.DeliveryFee.Equal(dec("20")))
	assert.Equal(t, model.DeliveryHomeDelivery, out.DeliveryOption)
}

func TestCheckoutUsecase_PlaceOrder_SumsLinesAndUsesOriginalPriceWithoutDiscount(t *testing.T) {
	ctx := context.Background()
	d := newCheckoutDeps()

	b := model.Product{ID: 2, Name: "B", OriginalPrice: dec("12.50"), StockQuantity: 10, IsActive: true}

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.products.On("FindByID", mock.Anything, int64(1)).Return(productA(), nil)
	d.products.On("FindByID", mock.Anything, int64(2)).Return(b, nil)
	// 40*1 + 12.50*3 + 20 = 97.50
	d.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.TotalPrice.Equal(dec("97.50"))
	})).Return(int64(7), nil)
	d.items.On("CreateBulk", mock.Anything, int64(7), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 &&
			items[1].UnitPrice.Equal(dec("12.50")) &&
			items[1].LineTotal.Equal(dec("37.50"))
	})).Return(nil)
	d.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(1)).Return(true, nil)
	d.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(2), int64(3)).Return(true, nil)
	d.metrics.On("OrderPlaced", mock.Anything, mock.Anything).Return()
	d.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(nil)

	out, err := d.uc.PlaceOrder(ctx, usecase.PlaceOrderInput{
		FullName:       "Jane",
		Whatsapp:       "0600",
		DeliveryOption: "home_delivery",
		Items: []usecase.CheckoutItemInput{
			{ProductID: 1, Quantity: 1},
			{ProductID: 2, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.True(t, out.TotalAmount.Equal(dec("97.50")), "total=%s", out.TotalAmount)
	d.inventory.AssertExpectations(t)
}

func TestCheckoutUsecase_PlaceOrder_ValidationOrder(t *testing.T) {
	cases := []struct {
		name string
		in   usecase.PlaceOrderInput
		want string
	}{
		{"everything missing reports name first", usecase.PlaceOrderInput{}, "missing fullName"},
		{"blank name", usecase.PlaceOrderInput{FullName: "   ", Whatsapp: "1", DeliveryOption: "free_pickup", Items: validInput().Items}, "missing fullName"},
		{"missing whatsapp before items", usecase.PlaceOrderInput{FullName: "Jane", DeliveryOption: "bogus"}, "missing whatsapp"},
		{"missing items before option", usecase.PlaceOrderInput{FullName: "Jane", Whatsapp: "1", DeliveryOption: "bogus"}, "missing items"},
		{"unknown option", usecase.PlaceOrderInput{FullName: "Jane", Whatsapp: "1", DeliveryOption: "express", Items: validInput().Items}, "invalid delivery option"},
		{"stored enum is not accepted as input", usecase.PlaceOrderInput{FullName: "Jane", Whatsapp: "1", DeliveryOption: "PICKUP", Items: validInput().Items}, "invalid delivery option"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newCheckoutDeps()
			d.metrics.On("CheckoutRejected", "validation").Return()

			_, err := d.uc.PlaceOrder(context.Background(), tc.in)

			he, ok := usecase.AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Status)
			assert.Equal(t, tc.want, he.Message)

			d.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
			d.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		})
	}
}

func TestCheckoutUsecase_PlaceOrder_InsufficientStock_NoOrder(t *testing.T) {
	ctx := context.Background()
	d := newCheckoutDeps()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.products.On("FindByID", mock.Anything, int64(1)).Return(productA(), nil)
	d.metrics.On("CheckoutRejected", "validation").Return()

	in := validInput()
	in.Items[0].Quantity = 10

	_, err := d.uc.PlaceOrder(ctx, in)

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, `insufficient stock for "A": available 5, requested 10`, he.Message)

	d.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.items.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	d.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
	d.publisher.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything)
}

// 読み取り時は足りていたが、同時注文で先に減らされたケース
func TestCheckoutUsecase_PlaceOrder_LostStockRace_RollsBack(t *testing.T) {
	ctx := context.Background()
	d := newCheckoutDeps()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.products.On("FindByID", mock.Anything, int64(1)).Return(productA(), nil)
	d.orders.On("Create", mock.Anything, mock.Anything).Return(int64(5), nil)
	d.items.On("CreateBulk", mock.Anything, int64(5), mock.Anything).Return(nil)
	d.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(2)).Return(false, nil)
	d.metrics.On("CheckoutRejected", "validation").Return()

	_, err := d.uc.PlaceOrder(ctx, validInput())

	assertErrContains(t, err, `insufficient stock for "A"`)
	he, _ := usecase.AsHTTPError(err)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	d.publisher.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything)
	d.metrics.AssertNotCalled(t, "OrderPlaced", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_ProductNotFound(t *testing.T) {
	d := newCheckoutDeps()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.products.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)
	d.metrics.On("CheckoutRejected", "not_found").Return()

	in := validInput()
	in.Items = []usecase.CheckoutItemInput{{ProductID: 99, Quantity: 1}}

	_, err := d.uc.PlaceOrder(context.Background(), in)

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "product with id 99 not found", he.Message)
	d.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_InactiveProduct(t *testing.T) {
	d := newCheckoutDeps()

	p := productA()
	p.IsActive = false
	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.products.On("FindByID", mock.Anything, int64(1)).Return(p, nil)
	d.metrics.On("CheckoutRejected", "validation").Return()

	_, err := d.uc.PlaceOrder(context.Background(), validInput())

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, `product "A" is not available`, he.Message)
}

func TestCheckoutUsecase_PlaceOrder_NonPositiveQuantity(t *testing.T) {
	d := newCheckoutDeps()
	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.metrics.On("CheckoutRejected", "validation").Return()

	in := validInput()
	in.Items[0].Quantity = 0

	_, err := d.uc.PlaceOrder(context.Background(), in)
	assertErrContains(t, err, "invalid quantity for product with id 1")
	d.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_PersistenceError_IsGeneric500(t *testing.T) {
	d := newCheckoutDeps()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.products.On("FindByID", mock.Anything, int64(1)).Return(productA(), nil)
	d.orders.On("Create", mock.Anything, mock.Anything).Return(int64(5), nil)
	d.items.On("CreateBulk", mock.Anything, int64(5), mock.Anything).Return(errors.New("disk full"))
	d.metrics.On("CheckoutRejected", "persistence").Return()

	_, err := d.uc.PlaceOrder(context.Background(), validInput())

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.Equal(t, "internal server error", he.Message)
	assert.NotContains(t, he.Message, "disk full")
	d.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_IdempotencyKey_Replays(t *testing.T) {
	d := newCheckoutDeps()

	existing := model.Order{
		ID:             42,
		DeliveryOption: model.DeliveryPickup,
		DeliveryFee:    dec("0"),
		TotalPrice:     dec("80"),
	}
	d.orders.On("FindByIdempotencyKey", mock.Anything, "key-1").Return(existing, true, nil)

	in := validInput()
	in.IdempotencyKey = " key-1 "

	out, err := d.uc.PlaceOrder(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	assert.True(t, out.Replayed)
	assert.True(t, out.TotalAmount.Equal(dec("80")))

	d.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
	d.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_IdempotencyKey_StoredOnNewOrder(t *testing.T) {
	d := newCheckoutDeps()

	d.orders.On("FindByIdempotencyKey", mock.Anything, "key-2").Return(model.Order{}, false, nil)
	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.products.On("FindByID", mock.Anything, int64(1)).Return(productA(), nil)
	d.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.IdempotencyKey != nil && *o.IdempotencyKey == "key-2"
	})).Return(int64(8), nil)
	d.items.On("CreateBulk", mock.Anything, int64(8), mock.Anything).Return(nil)
	d.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(2)).Return(true, nil)
	d.metrics.On("OrderPlaced", mock.Anything, mock.Anything).Return()
	d.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(nil)

	in := validInput()
	in.IdempotencyKey = "key-2"

	out, err := d.uc.PlaceOrder(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(8), out.ID)
	d.orders.AssertExpectations(t)
}

// 同じキーの同時送信：後から来た方はロールバック後に既存注文を返す
func TestCheckoutUsecase_PlaceOrder_IdempotencyKey_ConcurrentDuplicate(t *testing.T) {
	d := newCheckoutDeps()

	existing := model.Order{ID: 9, DeliveryOption: model.DeliveryPickup, DeliveryFee: dec("0"), TotalPrice: dec("80")}
	d.orders.On("FindByIdempotencyKey", mock.Anything, "key-3").Return(model.Order{}, false, nil).Once()
	d.orders.On("FindByIdempotencyKey", mock.Anything, "key-3").Return(existing, true, nil).Once()
	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.products.On("FindByID", mock.Anything, int64(1)).Return(productA(), nil)
	d.orders.On("Create", mock.Anything, mock.Anything).Return(int64(0), repo.ErrConflict)

	in := validInput()
	in.IdempotencyKey = "key-3"

	out, err := d.uc.PlaceOrder(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(9), out.ID)
	assert.True(t, out.Replayed)
	d.items.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_PublishFailure_DoesNotFailOrder(t *testing.T) {
	d := newCheckoutDeps()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.products.On("FindByID", mock.Anything, int64(1)).Return(productA(), nil)
	d.orders.On("Create", mock.Anything, mock.Anything).Return(int64(3), nil)
	d.items.On("CreateBulk", mock.Anything, int64(3), mock.Anything).Return(nil)
	d.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(2)).Return(true, nil)
	d.metrics.On("OrderPlaced", mock.Anything, mock.Anything).Return()
	d.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(errors.New("nats: no servers available"))

	out, err := d.uc.PlaceOrder(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.ID)
}

func TestCheckoutUsecase_Quote(t *testing.T) {
	d := newCheckoutDeps()
	d.products.On("FindByID", mock.Anything, int64(1)).Return(productA(), nil)

	out, err := d.uc.Quote(context.Background(), usecase.QuoteInput{
		DeliveryOption: "home_delivery",
		Items:          []usecase.CheckoutItemInput{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	require.Len(t, out.Lines, 1)
	assert.True(t, out.Lines[0].UnitPrice.Equal(dec("40")))
	assert.True(t, out.Lines[0].LineTotal.Equal(dec("80")))
	assert.True(t, out.Subtotal.Equal(dec("80")))
	assert.True(t, out.DeliveryFee.Equal(dec("20")))
	assert.True(t, out.TotalAmount.Equal(dec("100")))

	// 見積もりは何も書き込まない
	d.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
	d.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_Quote_Validation(t *testing.T) {
	d := newCheckoutDeps()

	_, err := d.uc.Quote(context.Background(), usecase.QuoteInput{DeliveryOption: "free_pickup"})
	assertErrContains(t, err, "missing items")

	_, err = d.uc.Quote(context.Background(), usecase.QuoteInput{
		DeliveryOption: "drone",
		Items:          []usecase.CheckoutItemInput{{ProductID: 1, Quantity: 1}},
	})
	assertErrContains(t, err, "invalid delivery option")
}

// 同じ商品が2行: 合計6に対して在庫5
func TestCheckoutUsecase_PlaceOrder_DuplicateLines_CheckedAgainstTotal(t *testing.T) {
	ctx := context.Background()
	d := newCheckoutDeps()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.products.On("FindByID", mock.Anything, int64(1)).Return(productA(), nil)
	d.metrics.On("CheckoutRejected", "validation").Return()

	in := validInput()
	in.Items = []usecase.CheckoutItemInput{{ProductID: 1, Quantity: 3}, {ProductID: 1, Quantity: 3}}

	_, err := d.uc.PlaceOrder(ctx, in)

	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, `insufficient stock for "A": available 5, requested 6`, he.Message)

	d.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	d.inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutUsecase_PlaceOrder_DuplicateLines_MergedIntoOneItem(t *testing.T) {
	ctx := context.Background()
	d := newCheckoutDeps()

	d.tx.On("WithinTx", mock.Anything).Return(nil)
	d.products.On("FindByID", mock.Anything, int64(1)).Return(productA(), nil)
	d.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.TotalPrice.Equal(dec("120"))
	})).Return(int64(7), nil)
	d.items.On("CreateBulk", mock.Anything, int64(7), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 &&
			items[0].Quantity == 3 &&
			items[0].LineTotal.Equal(dec("120"))
	})).Return(nil)
	d.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), int64(3)).Return(true, nil).Once()
	d.metrics.On("OrderPlaced", model.DeliveryPickup, mock.MatchedBy(decEq("120"))).Return()
	d.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(nil)

	in := validInput()
	in.Items = []usecase.CheckoutItemInput{{ProductID: 1, Quantity: 2}, {ProductID: 1, Quantity: 1}}

	out, err := d.uc.PlaceOrder(ctx, in)
	require.NoError(t, err)
	assert.True(t, out.TotalAmount.Equal(dec("120")))

	d.items.AssertExpectations(t)
	d.inventory.AssertNumberOfCalls(t, "DecreaseStockIfEnough", 1)
	d.products.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestCheckoutUsecase_Quote_MergesDuplicateLines(t *testing.T) {
	d := newCheckoutDeps()
	d.products.On("FindByID", mock.Anything, int64(1)).Return(productA(), nil)

	out, err := d.uc.Quote(context.Background(), usecase.QuoteInput{
		DeliveryOption: "free_pickup",
		Items:          []usecase.CheckoutItemInput{{ProductID: 1, Quantity: 1}, {ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)
	assert.Equal(t, int64(2), out.Lines[0].Quantity)
	assert.True(t, out.Subtotal.Equal(dec("80")))
}
