package application

// OrderItemRequest 是结算请求里的一行：携带购物车侧已经冻结的快照。
type OrderItemRequest struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int     `json:"quantity"`
}

// AddressRequest 是结算请求里的配送地址。
type AddressRequest struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

// CreateOrderRequest 是创建订单的请求体。金额一律服务端重算，
// 客户端传来的小计/折扣只作展示用途，不参与结算。
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items"`
	CouponCode    string             `json:"couponCode,omitempty"`
	Address       AddressRequest     `json:"address"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
}
