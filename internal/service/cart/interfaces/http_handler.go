package interfaces

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"bistro/internal/pkg/httpx"
	"bistro/internal/service/cart/application"
	"bistro/internal/service/cart/domain"
	catalogdomain "bistro/internal/service/catalog/domain"
)

// CartHandler 封装了购物车的 HTTP 处理器。
type CartHandler struct {
	service *application.CartService
}

func NewCartHandler(service *application.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。购物车路由都要求用户身份。
func (h *CartHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /cart", httpx.RequireUser(h.handleGet))
	mux.HandleFunc("POST /cart", httpx.RequireUser(h.handleAdd))
	mux.HandleFunc("PUT /cart/{lineId}", httpx.RequireUser(h.handleUpdateLine))
	mux.HandleFunc("DELETE /cart/{lineId}", httpx.RequireUser(h.handleRemoveLine))
	mux.HandleFunc("DELETE /cart", httpx.RequireUser(h.handleClear))
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	cart, err := h.service.GetOrCreate(ctx, httpx.UserID(r))
	if err != nil {
		respondCartError(w, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, cart)
}

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		httpx.RespondError(w, http.StatusBadRequest, "productId is required")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.service.AddItem(ctx, httpx.UserID(r), req.ProductID, quantity)
	if err != nil {
		respondCartError(w, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, cart)
}

func (h *CartHandler) handleUpdateLine(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	var req updateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.service.UpdateQuantity(ctx, httpx.UserID(r), r.PathValue("lineId"), req.Quantity)
	if err != nil {
		respondCartError(w, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, cart)
}

func (h *CartHandler) handleRemoveLine(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	cart, err := h.service.RemoveItem(ctx, httpx.UserID(r), r.PathValue("lineId"))
	if err != nil {
		respondCartError(w, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, cart)
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	cart, err := h.service.Clear(ctx, httpx.UserID(r))
	if err != nil {
		respondCartError(w, err)
		return
	}
	httpx.RespondData(w, http.StatusOK, cart)
}

// respondCartError 把领域错误映射为 HTTP 状态码与用户可读的原因。
func respondCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalogdomain.ErrProductNotFound):
		httpx.RespondError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, domain.ErrCartNotFound):
		httpx.RespondError(w, http.StatusNotFound, "cart not found")
	case errors.Is(err, domain.ErrLineNotFound):
		httpx.RespondError(w, http.StatusNotFound, "cart line not found")
	case errors.Is(err, domain.ErrInvalidQuantity):
		httpx.RespondError(w, http.StatusBadRequest, "quantity must be at least 1")
	default:
		httpx.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
