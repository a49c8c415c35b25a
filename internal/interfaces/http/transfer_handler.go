package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TransferHandler traslados entre sucursales (protegido).
type TransferHandler struct {
	uc  *inventory.TransferUseCase
	log zerolog.Logger
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *inventory.TransferUseCase, log zerolog.Logger) *TransferHandler {
	return &TransferHandler{uc: uc, log: log}
}

// Send godoc
// @Summary      Enviar stock a otra sucursal
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendTransferRequest  true  "fromBranchId (null = bodega central), toBranchId, productId, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Send(c *fiber.Ctx) error {
	var in dto.SendTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return writeError(c, h.log, err)
	}
	t, err := h.uc.Send(c.UserContext(), inventory.SendInput{
		FromBranchID: in.FromBranchID,
		ToBranchID:   in.ToBranchID,
		ProductID:    in.ProductID,
		Quantity:     in.Quantity,
		Notes:        in.Notes,
		UserID:       GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransferResponse(t))
}

// Receive godoc
// @Summary      Recibir un traslado enviado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	t, err := h.uc.Receive(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToTransferResponse(t))
}

// Delete godoc
// @Summary      Eliminar un traslado no recibido (restituye el origen)
// @Tags         transfers
// @Security     Bearer
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [delete]
func (h *TransferHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteSent(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "traslado eliminado"})
}

// GetByID godoc
// @Summary      Obtener traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToTransferResponse(t))
}

// List godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        branch_id   query  string  false  "Origen o destino; central = salidas de la bodega central"
// @Param        status      query  string  false  "sent | received"
// @Param        product_id  query  string  false  "Producto"
// @Param        limit       query  int     false  "Máximo 100"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransferListResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	page.DefaultPage()
	if page.Limit > 100 {
		page.Limit = 100
	}

	f := repository.TransferFilter{ProductID: c.Query("product_id"), Limit: page.Limit, Offset: page.Offset}
	if b := c.Query("branch_id"); b != "" {
		f.BranchID = entity.NormalizeBranch(&b)
		f.Central = f.BranchID == nil
	}
	if s := c.Query("status"); s != "" {
		st, err := entity.ParseTransferStatus(s)
		if err != nil {
			return writeError(c, h.log, err)
		}
		f.Status = st
	}

	list, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.TransferListResponse{
		Items: make([]dto.TransferResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}
	for _, t := range list {
		out.Items = append(out.Items, dto.ToTransferResponse(t))
	}
	return c.JSON(out)
}
