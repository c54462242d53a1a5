package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stefankostic/efakture/internal/application/auth"
	"github.com/stefankostic/efakture/internal/application/dto"
)

// AuthHandler handles registration, login, logout and the current-user
// endpoint. Tokens are delivered in an HttpOnly cookie; the JSON body carries
// the token too for non-browser clients.
type AuthHandler struct {
	uc            *auth.UseCase
	cookieName    string
	cookieMinutes int
	secureCookie  bool
}

// NewAuthHandler builds the handler. secureCookie should be true outside
// development so the cookie only travels over TLS.
func NewAuthHandler(uc *auth.UseCase, cookieName string, cookieMinutes int, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		uc:            uc,
		cookieName:    cookieName,
		cookieMinutes: cookieMinutes,
		secureCookie:  secureCookie,
	}
}

// Register creates an account and opens a session.
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.Register(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	h.setAuthCookie(c, resp.Token)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login checks credentials and opens a session.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	h.setAuthCookie(c, resp.Token)
	return c.JSON(resp)
}

// Logout clears the session cookie.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Me returns the authenticated user.
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := GetUser(c)
	return c.JSON(h.uc.Me(c.Context(), user))
}

func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(h.cookieMinutes) * time.Minute),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}
