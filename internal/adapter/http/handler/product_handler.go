package handler

import (
	"time"

	"rfid-wallet-backend/internal/adapter/http/dto"
	"rfid-wallet-backend/internal/core/domain"
	"rfid-wallet-backend/internal/core/ports"
	"rfid-wallet-backend/pkg/apperror"
	"rfid-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	products ports.ProductRepository
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products ports.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	response.OK(c, products)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:        uuid.New(),
		Name:      req.Name,
		Price:     req.Price,
		Category:  req.Category,
		Image:     req.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.products.Create(c.Request.Context(), product); err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}

	response.Created(c, product)
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}
	if product == nil {
		response.Error(c, apperror.ErrNotFound("Product"))
		return
	}

	response.OK(c, product)
}

// Update handles PUT /api/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	ctx := c.Request.Context()
	product, err := h.products.GetByID(ctx, id)
	if err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}
	if product == nil {
		response.Error(c, apperror.ErrNotFound("Product"))
		return
	}

	product.Name = req.Name
	product.Price = req.Price
	product.Category = req.Category
	product.Image = req.Image
	if err := h.products.Update(ctx, product); err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}

	response.OK(c, product)
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a valid UUID"))
		return
	}

	ctx := c.Request.Context()
	product, err := h.products.GetByID(ctx, id)
	if err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}
	if product == nil {
		response.Error(c, apperror.ErrNotFound("Product"))
		return
	}

	if err := h.products.Delete(ctx, id); err != nil {
		response.Error(c, apperror.ErrPersistence(err))
		return
	}

	response.Message(c, "Product deleted", gin.H{"id": id.String()})
}
