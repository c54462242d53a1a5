package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/stefankostic/efakture/internal/application/auth"
	"github.com/stefankostic/efakture/internal/application/dto"
	"github.com/stefankostic/efakture/internal/application/usecase"
)

// UserHandler handles the admin user listing, verification and the
// self-service profile endpoints (protected).
type UserHandler struct {
	uc *usecase.UserUseCase
}

// NewUserHandler builds the handler.
func NewUserHandler(uc *usecase.UserUseCase) *UserHandler {
	return &UserHandler{uc: uc}
}

// List returns all users, newest first.
// GET /api/users (admin)
func (h *UserHandler) List(c *fiber.Ctx) error {
	resp, err := h.uc.List(c.Context())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// Verify flips a company's verified flag. Omitting the body means verified=true.
// PATCH /api/users/:id/verify (admin)
func (h *UserHandler) Verify(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "id must be an integer")
	}
	in := dto.VerifyUserRequest{}
	// An empty body is allowed; default is verified=true.
	_ = c.BodyParser(&in)
	verified := true
	if in.Verified != nil {
		verified = *in.Verified
	}
	resp, err := h.uc.Verify(c.Context(), id, verified)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// Me returns the authenticated user's profile.
// GET /api/users/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user := GetUser(c)
	resp := auth.ToUserResponse(user)
	return c.JSON(resp)
}

// UpdateMe patches the authenticated user's profile.
// PATCH /api/users/me
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var in dto.UpdateMeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.UpdateMe(c.Context(), GetUser(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}
