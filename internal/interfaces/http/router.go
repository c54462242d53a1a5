package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/stefankostic/efakture/internal/application/auth"
	"github.com/stefankostic/efakture/internal/application/invoicing"
	"github.com/stefankostic/efakture/internal/application/usecase"
	"github.com/stefankostic/efakture/internal/domain/entity"
	"github.com/stefankostic/efakture/internal/domain/repository"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC    *auth.UseCase
	UserUC    *usecase.UserUseCase
	ProductUC *usecase.ProductUseCase
	InvoiceUC *invoicing.InvoiceUseCase
	UserRepo  repository.UserRepository

	JWTSecret     string
	CookieName    string
	CookieMinutes int
	SecureCookie  bool
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	requireAuth := AuthMiddleware(deps.JWTSecret, deps.CookieName, deps.UserRepo)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.CookieName, deps.CookieMinutes, deps.SecureCookie)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Users (protected)
	users := api.Group("/users", requireAuth)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", adminOnly, userHandler.List)
	users.Get("/me", userHandler.Me)
	users.Patch("/me", userHandler.UpdateMe)
	users.Patch("/:id/verify", adminOnly, userHandler.Verify)

	// Products (protected)
	products := api.Group("/products", requireAuth)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Delete("/:id", productHandler.Delete)

	// Invoices (protected)
	invoices := api.Group("/invoices", requireAuth)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	// Registered before :id so "generate-number" is not parsed as an invoice id.
	invoices.Get("/generate-number/:recipient_pib", invoiceHandler.GenerateNumber)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)
	invoices.Post("/:id/send-email", invoiceHandler.SendEmail)
}
