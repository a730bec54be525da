package interfaces

import (
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"bistro/internal/pkg/httpx"
	"bistro/internal/service/catalog/application"
	"bistro/internal/service/catalog/domain"
)

// CatalogHandler 封装了目录浏览的 HTTP 处理器。
type CatalogHandler struct {
	service *application.CatalogService
}

func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /products", h.handleList)
	mux.HandleFunc("GET /products/{ref}", h.handleGet)
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	filter := domain.ProductFilter{
		Category: domain.Category(r.URL.Query().Get("category")),
	}
	if v := r.URL.Query().Get("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}
	if v := r.URL.Query().Get("available"); v != "" {
		available := v == "true"
		filter.Available = &available
	}

	products, err := h.service.List(ctx, filter)
	if err != nil {
		httpx.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.RespondData(w, http.StatusOK, products)
}

func (h *CatalogHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	product, err := h.service.Resolve(ctx, r.PathValue("ref"))
	if err != nil {
		// 不向终端用户暴露两段式解析的细节。
		if errors.Is(err, domain.ErrProductNotFound) {
			httpx.RespondError(w, http.StatusNotFound, "product not found")
			return
		}
		httpx.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.RespondData(w, http.StatusOK, product)
}
