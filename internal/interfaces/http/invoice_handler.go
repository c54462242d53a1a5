package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/stefankostic/efakture/internal/application/dto"
	"github.com/stefankostic/efakture/internal/application/invoicing"
	"github.com/stefankostic/efakture/internal/domain/entity"
)

// InvoiceHandler handles the invoice endpoints (protected).
type InvoiceHandler struct {
	uc *invoicing.InvoiceUseCase
}

// NewInvoiceHandler builds the handler.
func NewInvoiceHandler(uc *invoicing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create validates and persists an invoice with its items.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.Create(c.Context(), GetUser(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.InvoiceEnvelope{Invoice: *resp})
}

// List returns the invoice listing: a flat collection for admins, the
// outbound/inbound partitions for companies.
// GET /api/invoices
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	user := GetUser(c)
	if user.Role == entity.RoleAdmin {
		resp, err := h.uc.ListAll(c.Context(), user)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(resp)
	}
	resp, err := h.uc.ListForCompany(c.Context(), user)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// GetByID returns one invoice with its items.
// GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return badRequest(c, "id must be an integer")
	}
	resp, err := h.uc.Get(c.Context(), GetUser(c), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.InvoiceEnvelope{Invoice: *resp})
}

// Delete removes an invoice and its items.
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return badRequest(c, "id must be an integer")
	}
	if err := h.uc.Delete(c.Context(), GetUser(c), id); err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// UpdateStatus moves an invoice to any of the four statuses.
// PATCH /api/invoices/:id/status
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return badRequest(c, "id must be an integer")
	}
	var in dto.UpdateInvoiceStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	resp, err := h.uc.UpdateStatus(c.Context(), GetUser(c), id, in.Status)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.InvoiceEnvelope{Invoice: *resp})
}

// GenerateNumber suggests the next invoice number for the caller.
// GET /api/invoices/generate-number/:recipient_pib
func (h *InvoiceHandler) GenerateNumber(c *fiber.Ctx) error {
	resp, err := h.uc.GenerateNumber(c.Context(), GetUser(c), c.Params("recipient_pib"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(resp)
}

// DownloadPDF streams the rendered invoice.
// GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return badRequest(c, "id must be an integer")
	}
	data, filename, err := h.uc.RenderPDF(c.Context(), GetUser(c), id)
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// SendEmail renders the invoice PDF and emails it.
// POST /api/invoices/:id/send-email
func (h *InvoiceHandler) SendEmail(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return badRequest(c, "id must be an integer")
	}
	in := dto.SendInvoiceEmailRequest{}
	// The body is optional; without it the registered recipient's email is used.
	_ = c.BodyParser(&in)
	if err := h.uc.SendEmail(c.Context(), GetUser(c), id, in.Email); err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

func invoiceID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
