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
	"bistro/internal/service/promotion/application"
	"bistro/internal/service/promotion/domain"
)

// couponRejections 按拒绝原因统计校验失败，便于营销侧观察
// 哪类规则拦掉了最多的用户。
var couponRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bistro_coupon_rejections_total",
	Help: "Coupon validation rejections by reason.",
}, []string{"reason"})

// PromotionHandler 封装了优惠券服务的 HTTP 处理器。
type PromotionHandler struct {
	service *application.PromotionService
}

func NewPromotionHandler(service *application.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *PromotionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /coupons", h.handleListAvailable)
	mux.HandleFunc("POST /coupons/validate", h.handleValidate)
	mux.HandleFunc("POST /coupons/{code}/use", h.handleRecordUsage)

	// 管理端入口。网关层会限制这些路由只对运营可见。
	mux.HandleFunc("POST /coupons", h.handleCreate)
	mux.HandleFunc("PUT /coupons/{code}", h.handleUpdate)
	mux.HandleFunc("DELETE /coupons/{code}", h.handleDelete)
}

type validateRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

func (h *PromotionHandler) handleListAvailable(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	coupons, err := h.service.ListAvailable(ctx)
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.RespondData(w, http.StatusOK, coupons)
}

func (h *PromotionHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		httpx.RespondError(w, http.StatusBadRequest, "code is required")
		return
	}

	result, err := h.service.Evaluate(ctx, req.Code, req.Subtotal)
	if err != nil {
		respondCouponError(w, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, result)
}

func (h *PromotionHandler) handleRecordUsage(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	coupon, err := h.service.RecordUsage(ctx, r.PathValue("code"))
	if err != nil {
		respondCouponError(w, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, coupon)
}

func (h *PromotionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req application.UpsertCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coupon, err := h.service.CreateCoupon(ctx, &req)
	if err != nil {
		respondCouponError(w, err)
		return
	}
	httpx.RespondData(w, http.StatusCreated, coupon)
}

func (h *PromotionHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req application.UpsertCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	coupon, err := h.service.UpdateCoupon(ctx, r.PathValue("code"), &req)
	if err != nil {
		respondCouponError(w, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, coupon)
}

func (h *PromotionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	if err := h.service.DeleteCoupon(ctx, r.PathValue("code")); err != nil {
		respondCouponError(w, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, map[string]string{"code": domain.NormalizeCode(r.PathValue("code"))})
}

// respondCouponError 将领域错误映射为状态码。规则拒绝（过期、
// 未达门槛等）返回 403 并带上具体原因。
func respondCouponError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCouponNotFound):
		couponRejections.WithLabelValues("not_found").Inc()
		httpx.RespondError(w, http.StatusNotFound, "coupon not found")
	case errors.Is(err, domain.ErrCouponInactive):
		couponRejections.WithLabelValues("inactive").Inc()
		httpx.RespondError(w, http.StatusForbidden, "this coupon is not active")
	case errors.Is(err, domain.ErrCouponNotYetValid):
		couponRejections.WithLabelValues("not_yet_valid").Inc()
		httpx.RespondError(w, http.StatusForbidden, "this coupon is not valid yet")
	case errors.Is(err, domain.ErrCouponExpired):
		couponRejections.WithLabelValues("expired").Inc()
		httpx.RespondError(w, http.StatusForbidden, "this coupon has expired")
	case errors.Is(err, domain.ErrCouponUsageExceeded):
		couponRejections.WithLabelValues("usage_exceeded").Inc()
		httpx.RespondError(w, http.StatusForbidden, "this coupon has reached its usage limit")
	case errors.Is(err, domain.ErrCouponBelowMinimum):
		couponRejections.WithLabelValues("below_minimum").Inc()
		httpx.RespondError(w, http.StatusForbidden, "order subtotal does not meet the coupon minimum")
	case errors.Is(err, domain.ErrDuplicateCode):
		httpx.RespondError(w, http.StatusConflict, "coupon code already exists")
	case errors.Is(err, domain.ErrInvalidCoupon):
		httpx.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		httpx.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
