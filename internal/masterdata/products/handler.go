package products

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vendaflow/vendaflow/internal/platform/httpx"
	"github.com/vendaflow/vendaflow/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.deactivate)
}

type productRequest struct {
	StoreID    string  `json:"storeId" validate:"required,uuid4"`
	CategoryID *string `json:"categoryId" validate:"omitempty,uuid4"`
	Name       string  `json:"name" validate:"required"`
	Barcode    *string `json:"barcode"`
	SalePrice  int64   `json:"salePrice" validate:"gte=0"`
	CostPrice  int64   `json:"costPrice" validate:"gte=0"`
	Quantity   int64   `json:"quantity" validate:"gte=0"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	uc, _ := shared.UserFromContext(r.Context())
	out, err := h.service.List(r.Context(), shared.SearchInputFromRequest(r, uc.CompanyID))
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	uc, _ := shared.UserFromContext(r.Context())
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := h.service.Create(r.Context(), uc, CreateInput{
		StoreID:    req.StoreID,
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Barcode:    req.Barcode,
		SalePrice:  req.SalePrice,
		CostPrice:  req.CostPrice,
		Quantity:   req.Quantity,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	uc, _ := shared.UserFromContext(r.Context())
	product, err := h.service.Get(r.Context(), uc, chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	uc, _ := shared.UserFromContext(r.Context())
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	product, err := h.service.Update(r.Context(), uc, chi.URLParam(r, "id"), CreateInput{
		CategoryID: req.CategoryID,
		Name:       req.Name,
		Barcode:    req.Barcode,
		SalePrice:  req.SalePrice,
		CostPrice:  req.CostPrice,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) deactivate(w http.ResponseWriter, r *http.Request) {
	uc, _ := shared.UserFromContext(r.Context())
	if err := h.service.Deactivate(r.Context(), uc, chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Product deactivated successfully"})
}
