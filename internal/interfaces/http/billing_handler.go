package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/billing"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// BillingHandler facturas, devoluciones y total neto (protegido).
type BillingHandler struct {
	invoices *billing.InvoiceUseCase
	returns  *billing.ReturnUseCase
	recon    *billing.ReconciliationUseCase
	log      zerolog.Logger
}

// NewBillingHandler construye el handler.
func NewBillingHandler(
	invoices *billing.InvoiceUseCase,
	returns *billing.ReturnUseCase,
	recon *billing.ReconciliationUseCase,
	log zerolog.Logger,
) *BillingHandler {
	return &BillingHandler{invoices: invoices, returns: returns, recon: recon, log: log}
}

// CreateInvoice godoc
// @Summary      Registrar factura de compra o venta
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "kind, items"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *BillingHandler) CreateInvoice(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return writeError(c, h.log, err)
	}
	inv, err := h.invoices.Create(c.UserContext(), billing.CreateInvoiceInput{
		ID:       in.ID,
		Kind:     entity.InvoiceKind(in.Kind),
		BranchID: in.BranchID,
		Lines:    dto.ToInvoiceLines(in.Items),
		UserID:   GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToInvoiceResponse(inv))
}

// GetInvoice godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *BillingHandler) GetInvoice(c *fiber.Ctx) error {
	inv, err := h.invoices.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToInvoiceResponse(inv))
}

// NetTotal godoc
// @Summary      Total neto de la factura después de devoluciones
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.NetTotalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/net-total [get]
func (h *BillingHandler) NetTotal(c *fiber.Ctx) error {
	out, err := h.recon.NetTotal(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListReturns godoc
// @Summary      Devoluciones de una factura (orden de creación)
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {array}   dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/returns [get]
func (h *BillingHandler) ListReturns(c *fiber.Ctx) error {
	list, err := h.returns.ReturnsFor(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.ReturnResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ToReturnResponse(r))
	}
	return c.JSON(out)
}

// CreateReturn godoc
// @Summary      Registrar devolución parcial o total
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "parentInvoiceId, items"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *BillingHandler) CreateReturn(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.returns.RecordReturn(c.UserContext(), billing.RecordReturnInput{
		ParentInvoiceID: in.ParentInvoiceID,
		Lines:           dto.ToReturnLines(in.Items),
		Reason:          in.Reason,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToReturnResponse(rec))
}

// ApproveReturn godoc
// @Summary      Aprobar devolución pendiente
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/approve [post]
func (h *BillingHandler) ApproveReturn(c *fiber.Ctx) error {
	rec, err := h.returns.Approve(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToReturnResponse(rec))
}

// RejectReturn godoc
// @Summary      Rechazar devolución pendiente
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/reject [post]
func (h *BillingHandler) RejectReturn(c *fiber.Ctx) error {
	rec, err := h.returns.Reject(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToReturnResponse(rec))
}
