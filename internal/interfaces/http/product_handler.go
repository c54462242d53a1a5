package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/stefankostic/efakture/internal/application/dto"
	"github.com/stefankostic/efakture/internal/application/usecase"
)

// ProductHandler handles the product catalog endpoints (protected).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler builds the handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List returns the caller's catalog slice. Admins may filter with
// ?owner_user_id=N.
// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var ownerFilter *int64
	if raw := c.Query("owner_user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return badRequest(c, "owner_user_id must be an integer")
		}
		ownerFilter = &id
	}
	resp, err := h.uc.List(c.Context(), GetUser(c), ownerFilter)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// Create adds a catalog entry.
// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.Create(c.Context(), GetUser(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Delete removes a catalog entry.
// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "id must be an integer")
	}
	if err := h.uc.Delete(c.Context(), GetUser(c), id); err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}
