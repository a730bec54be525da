package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart      = errors.New("cannot create an order from an empty cart")
	ErrMissingAddress = errors.New("delivery address is incomplete")
	ErrInvalidTotal   = errors.New("order total must not be negative")
	ErrOrderNotFound  = errors.New("order not found")
)

// PaymentMethod 是支付方式枚举。支付本身由外部系统处理，
// 这里只记录用户的选择。
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

// Address 是结构化的配送地址，所有子字段必填。
type Address struct {
	Street     string
	City       string
	PostalCode string
	Phone      string
}

// Validate 逐字段检查地址完整性。
func (a Address) Validate() error {
	switch {
	case a.Street == "":
		return errors.Wrap(ErrMissingAddress, "street is required")
	case a.City == "":
		return errors.Wrap(ErrMissingAddress, "city is required")
	case a.PostalCode == "":
		return errors.Wrap(ErrMissingAddress, "postal code is required")
	case a.Phone == "":
		return errors.Wrap(ErrMissingAddress, "phone is required")
	}
	return nil
}

// OrderLine 与购物车行同构：创建订单时从购物车快照拷贝而来，
// 此后永远不再回读目录。订单是不可变的结算快照。
type OrderLine struct {
	ProductID string
	Name      string
	Price     float64
	Image     string
	Quantity  int
}

// Order 是订单聚合根。金额字段满足恒等式
// Total == Subtotal + DeliveryFee - Discount，由工厂函数保证。
type Order struct {
	ID     string
	Number string // 人类可读的唯一单号，如 ORD-20260831-0042
	UserID string

	Lines []OrderLine

	Subtotal    float64
	DeliveryFee float64
	Discount    float64
	Total       float64
	CouponCode  string

	Address       Address
	PaymentMethod PaymentMethod
	Status        Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComputeSubtotal 用快照价格计算行合计，保留两位小数。
func ComputeSubtotal(lines []OrderLine) float64 {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(
			decimal.NewFromFloat(lines[i].Price).
				Mul(decimal.NewFromInt(int64(lines[i].Quantity))))
	}
	f, _ := total.Round(2).Float64()
	return f
}

// NewOrder 装配一个待持久化的订单。校验行与地址，计算总额；
// 折扣经过上游的钳制后总额不应为负，这里再断言一次兜底。
func NewOrder(userID, number string, lines []OrderLine, address Address, payment PaymentMethod, deliveryFee, discount float64, couponCode string) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if payment == "" {
		payment = PaymentCash
	}

	subtotal := ComputeSubtotal(lines)
	total, _ := decimal.NewFromFloat(subtotal).
		Add(decimal.NewFromFloat(deliveryFee)).
		Sub(decimal.NewFromFloat(discount)).
		Round(2).Float64()
	if total < 0 {
		return nil, errors.Wrapf(ErrInvalidTotal, "subtotal %.2f fee %.2f discount %.2f", subtotal, deliveryFee, discount)
	}

	now := time.Now().UTC()
	return &Order{
		ID:            uuid.NewString(),
		Number:        number,
		UserID:        userID,
		Lines:         lines,
		Subtotal:      subtotal,
		DeliveryFee:   deliveryFee,
		Discount:      discount,
		Total:         total,
		CouponCode:    couponCode,
		Address:       address,
		PaymentMethod: payment,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// TransitionTo 执行一次状态流转，非法流转返回错误。
// 流转是运营侧动作；订单本体（行、金额）自创建起不再变化。
func (o *Order) TransitionTo(next Status) error {
	if !o.Status.CanTransitionTo(next) {
		return errors.Wrapf(ErrInvalidTransition, "%s -> %s", o.Status, next)
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return nil
}
