package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"bistro/internal/service/order/domain"
	"bistro/internal/service/order/port"
	promotiondomain "bistro/internal/service/promotion/domain"
)

type fakeOrderRepo struct {
	orders    map[string]*domain.Order
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	if order, ok := f.orders[id]; ok {
		return order, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (f *fakeOrderRepo) FindByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	order, ok := f.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

type fakeCouponService struct {
	decision    *port.CouponDecision
	evaluateErr error
	usageErr    error
	usages      []string
}

func (f *fakeCouponService) Evaluate(_ context.Context, code string, _ float64) (*port.CouponDecision, error) {
	if f.evaluateErr != nil {
		return nil, f.evaluateErr
	}
	return f.decision, nil
}

func (f *fakeCouponService) RecordUsage(_ context.Context, code string) error {
	if f.usageErr != nil {
		return f.usageErr
	}
	f.usages = append(f.usages, code)
	return nil
}

type fakeCartService struct {
	cleared  []string
	clearErr error
}

func (f *fakeCartService) Clear(_ context.Context, userID string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = append(f.cleared, userID)
	return nil
}

type fakeProducer struct {
	events     []*domain.OrderEvent
	publishErr error
}

func (f *fakeProducer) Publish(_ context.Context, event *domain.OrderEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.events = append(f.events, event)
	return nil
}

type fakeNumberGen struct {
	seq int
	err error
}

func (f *fakeNumberGen) Next(_ context.Context, at time.Time) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.seq++
	return fmt.Sprintf("ORD-%s-%04d", at.Format("20060102"), f.seq), nil
}

type fixture struct {
	repo     *fakeOrderRepo
	coupons  *fakeCouponService
	carts    *fakeCartService
	producer *fakeProducer
	svc      *OrderApplicationService
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newFakeOrderRepo(),
		coupons:  &fakeCouponService{},
		carts:    &fakeCartService{},
		producer: &fakeProducer{},
	}
	f.svc = NewOrderApplicationService(
		f.repo, f.coupons, f.carts, f.producer, &fakeNumberGen{},
		FeePolicy{DeliveryFee: 5.00, WaiveThreshold: 50.00},
		noop.NewTracerProvider().Tracer("test"))
	return f
}

func validRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: "p-1", Name: "Margherita", Price: 8.50, Quantity: 2},
			{ProductID: "p-2", Name: "Cola", Price: 1.50, Quantity: 2},
		},
		Address: AddressRequest{
			Street:     "1 Via Roma",
			City:       "Milano",
			PostalCode: "20121",
			Phone:      "+39 02 1234567",
		},
		PaymentMethod: "card",
	}
}

func TestCreateOrder_HappyPath(t *testing.T) {
	f := newFixture()

	order, err := f.svc.CreateOrder(context.Background(), "user-1", validRequest())
	require.NoError(t, err)

	assert.Equal(t, 20.00, order.Subtotal)
	assert.Equal(t, 5.00, order.DeliveryFee, "below waive threshold")
	assert.Equal(t, 25.00, order.Total)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Regexp(t, `^ORD-\d{8}-\d{4}$`, order.Number)

	// 后续动作各执行一次。
	assert.Equal(t, []string{"user-1"}, f.carts.cleared)
	require.Len(t, f.producer.events, 1)
	assert.Equal(t, domain.EventOrderCreated, f.producer.events[0].Type)
	assert.Equal(t, order.Number, f.producer.events[0].OrderNumber)
	assert.Empty(t, f.coupons.usages, "no coupon, no usage increment")
}

func TestCreateOrder_FeeWaivedAtThreshold(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Items = []OrderItemRequest{{ProductID: "p-1", Name: "Feast", Price: 50.00, Quantity: 1}}

	order, err := f.svc.CreateOrder(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.DeliveryFee, "fee waived at the threshold, not just above it")
	assert.Equal(t, 50.00, order.Total)
}

func TestCreateOrder_WithCoupon(t *testing.T) {
	f := newFixture()
	f.coupons.decision = &port.CouponDecision{Code: "SAVE20", Discount: 4.00}
	req := validRequest()
	req.CouponCode = "save20"

	order, err := f.svc.CreateOrder(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, 4.00, order.Discount)
	assert.Equal(t, 21.00, order.Total)
	assert.Equal(t, "SAVE20", order.CouponCode)
	assert.Equal(t, []string{"SAVE20"}, f.coupons.usages)
}

func TestCreateOrder_CouponRejectionAbortsBeforePersistence(t *testing.T) {
	f := newFixture()
	f.coupons.evaluateErr = promotiondomain.ErrCouponExpired
	req := validRequest()
	req.CouponCode = "OLD10"

	_, err := f.svc.CreateOrder(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, promotiondomain.ErrCouponExpired)

	// 拒绝发生在写库之前：没有订单、没有核销、没有清车、没有事件。
	assert.Empty(t, f.repo.orders)
	assert.Empty(t, f.coupons.usages)
	assert.Empty(t, f.carts.cleared)
	assert.Empty(t, f.producer.events)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Items = nil

	_, err := f.svc.CreateOrder(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, f.repo.orders)
}

func TestCreateOrder_MissingAddress(t *testing.T) {
	f := newFixture()
	req := validRequest()
	req.Address.City = ""

	_, err := f.svc.CreateOrder(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, domain.ErrMissingAddress)
	assert.Empty(t, f.repo.orders)
}

func TestCreateOrder_FollowUpFailuresDoNotFailOrder(t *testing.T) {
	f := newFixture()
	f.coupons.decision = &port.CouponDecision{Code: "SAVE20", Discount: 4.00}
	f.coupons.usageErr = errors.New("promotion store down")
	f.carts.clearErr = errors.New("cart store down")
	f.producer.publishErr = errors.New("broker down")
	req := validRequest()
	req.CouponCode = "SAVE20"

	order, err := f.svc.CreateOrder(context.Background(), "user-1", req)
	require.NoError(t, err, "follow-up failures never fail the order")
	assert.Len(t, f.repo.orders, 1)
	assert.Equal(t, domain.StatusPending, order.Status)
}

func TestCreateOrder_SnapshotPricesAreTrusted(t *testing.T) {
	// 结算只用请求里冻结的快照价格，证明其不回读目录：
	// 这里根本没有目录可查。
	f := newFixture()
	req := validRequest()
	req.Items = []OrderItemRequest{{ProductID: "p-1", Name: "Margherita", Price: 3.99, Quantity: 1}}

	order, err := f.svc.CreateOrder(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, 3.99, order.Subtotal)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()
	order, err := f.svc.CreateOrder(context.Background(), "user-1", validRequest())
	require.NoError(t, err)
	f.producer.events = nil

	updated, err := f.svc.UpdateStatus(context.Background(), order.ID, "processing")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)

	require.Len(t, f.producer.events, 1)
	event := f.producer.events[0]
	assert.Equal(t, domain.EventOrderStatusChanged, event.Type)
	assert.Equal(t, "pending", event.PrevStatus)
	assert.Equal(t, "processing", event.Status)
}

func TestUpdateStatus_Invalid(t *testing.T) {
	f := newFixture()
	order, err := f.svc.CreateOrder(context.Background(), "user-1", validRequest())
	require.NoError(t, err)
	f.producer.events = nil

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, "shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = f.svc.UpdateStatus(context.Background(), order.ID, "delivered")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, f.producer.events, "failed transitions publish nothing")

	_, err = f.svc.UpdateStatus(context.Background(), "no-such-order", "processing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestGetOrder_ScopedToOwner(t *testing.T) {
	f := newFixture()
	order, err := f.svc.CreateOrder(context.Background(), "user-1", validRequest())
	require.NoError(t, err)

	got, err := f.svc.GetOrder(context.Background(), "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// 别人的订单表现为不存在，而不是禁止访问。
	_, err = f.svc.GetOrder(context.Background(), "user-2", order.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListOrders(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateOrder(context.Background(), "user-1", validRequest())
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(context.Background(), "user-1", validRequest())
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(context.Background(), "user-2", validRequest())
	require.NoError(t, err)

	orders, err := f.svc.ListOrders(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
