package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"bistro/internal/pkg/httpx"
	"bistro/internal/service/order/application"
	"bistro/internal/service/order/domain"
	promotiondomain "bistro/internal/service/promotion/domain"
)

var ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bistro_orders_created_total",
	Help: "Successfully created orders.",
})

// OrderHandler 封装了订单服务的 HTTP 处理器。
type OrderHandler struct {
	service *application.OrderApplicationService
}

func NewOrderHandler(service *application.OrderApplicationService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
// 状态流转是运营侧动作，由网关限制访问，不要求下单用户身份。
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", httpx.RequireUser(h.handleCreate))
	mux.HandleFunc("GET /orders", httpx.RequireUser(h.handleList))
	mux.HandleFunc("GET /orders/{id}", httpx.RequireUser(h.handleGet))
	mux.HandleFunc("PUT /orders/{id}/status", h.handleUpdateStatus)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req application.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.CreateOrder(ctx, httpx.UserID(r), &req)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	ordersCreated.Inc()
	httpx.RespondData(w, http.StatusCreated, order)
}

func (h *OrderHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	orders, err := h.service.ListOrders(ctx, httpx.UserID(r))
	if err != nil {
		respondOrderError(w, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	order, err := h.service.GetOrder(ctx, httpx.UserID(r), r.PathValue("id"))
	if err != nil {
		respondOrderError(w, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, order)
}

func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.UpdateStatus(ctx, r.PathValue("id"), req.Status)
	if err != nil {
		respondOrderError(w, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, order)
}

// respondOrderError 将领域错误映射为状态码。
// 券侧的拒绝原因原样透传给结算调用方。
func respondOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		httpx.RespondError(w, http.StatusBadRequest, "cannot create an order from an empty cart")
	case errors.Is(err, domain.ErrMissingAddress):
		httpx.RespondError(w, http.StatusBadRequest, "delivery address is incomplete")
	case errors.Is(err, domain.ErrInvalidTotal):
		httpx.RespondError(w, http.StatusBadRequest, "order total must not be negative")
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrInvalidTransition):
		httpx.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		httpx.RespondError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, promotiondomain.ErrCouponNotFound):
		httpx.RespondError(w, http.StatusNotFound, "coupon not found")
	case errors.Is(err, promotiondomain.ErrCouponInactive):
		httpx.RespondError(w, http.StatusForbidden, "this coupon is not active")
	case errors.Is(err, promotiondomain.ErrCouponNotYetValid):
		httpx.RespondError(w, http.StatusForbidden, "this coupon is not valid yet")
	case errors.Is(err, promotiondomain.ErrCouponExpired):
		httpx.RespondError(w, http.StatusForbidden, "this coupon has expired")
	case errors.Is(err, promotiondomain.ErrCouponUsageExceeded):
		httpx.RespondError(w, http.StatusForbidden, "this coupon has reached its usage limit")
	case errors.Is(err, promotiondomain.ErrCouponBelowMinimum):
		httpx.RespondError(w, http.StatusForbidden, "order subtotal does not meet the coupon minimum")
	default:
		httpx.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
