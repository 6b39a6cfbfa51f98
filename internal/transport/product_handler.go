package transport

import (
	"encoding/json"
	"net/http"

	"product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes. Reads require authentication;
// mutations additionally require the admin role and run the body validation
// middleware after authorization, mirroring the pipeline order.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware, bodyValidation func(http.Handler) http.Handler) {
	r.Route("/products", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.GetAll)
		r.Get("/crash", h.Crash)
		r.Get("/{id}", h.GetByID)

		// Privileged routes
		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Use(bodyValidation)
			r.Post("/", h.Add)
			r.Put("/", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// GetAll handles GET /products
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.GetAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetByID handles GET /products/{id}
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	if product == nil {
		middleware.RespondWithError(w, http.StatusNotFound, repository.ErrProductNotFound.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Add handles POST /products
func (h *ProductHandler) Add(w http.ResponseWriter, r *http.Request) {
	var dto service.ProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := h.currentActor(r)
	if err := h.productService.Add(r.Context(), &dto, actor); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product added",
		zap.String("product_id", dto.ID.String()),
		zap.String("actor", actor),
	)
	middleware.RespondWithJSON(w, http.StatusOK, dto)
}

// Update handles PUT /products
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var dto service.ProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actor := h.currentActor(r)
	if err := h.productService.Update(r.Context(), &dto, actor); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product updated",
		zap.String("product_id", dto.ID.String()),
		zap.String("actor", actor),
	)
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	actor := h.currentActor(r)
	if err := h.productService.Delete(r.Context(), id, actor); err != nil {
		middleware.RespondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product deleted",
		zap.String("product_id", id.String()),
		zap.String("actor", actor),
	)
	w.WriteHeader(http.StatusNoContent)
}

// Crash handles GET /products/crash. It exists to prove the error boundary
// turns an unhandled failure into a 500 envelope without taking the process
// down.
func (h *ProductHandler) Crash(w http.ResponseWriter, r *http.Request) {
	panic("Something went wrong!")
}

func (h *ProductHandler) currentActor(r *http.Request) string {
	actor, _ := middleware.GetUserName(r.Context())
	return actor
}
