package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
)

// StockHandler consulta de stock y entradas de mercancía (protegido).
type StockHandler struct {
	uc  *inventory.StockUseCase
	log zerolog.Logger
}

func NewStockHandler(uc *inventory.StockUseCase, log zerolog.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// Get godoc
// @Summary      Stock de un producto
// @Description  Con branch_id devuelve una ubicación (branch_id=central para la bodega central); sin él, todas.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "Producto"
// @Param        branch_id   query  string  false  "Sucursal o 'central'"
// @Success      200  {array}   dto.StockResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	branch := c.Query("branch_id")
	if branch == "" {
		list, err := h.uc.ListByProduct(c.UserContext(), productID)
		if err != nil {
			return writeError(c, h.log, err)
		}
		out := make([]dto.StockResponse, 0, len(list))
		for _, s := range list {
			out = append(out, dto.ToStockResponse(s))
		}
		return c.JSON(out)
	}

	s, err := h.uc.Get(c.UserContext(), productID, &branch)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON([]dto.StockResponse{dto.ToStockResponse(s)})
}

// Receipt godoc
// @Summary      Entrada de mercancía
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockReceiptRequest  true  "productId, branchId (null = bodega central), quantity"
// @Success      201   {object}  dto.StockResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock/receipts [post]
func (h *StockHandler) Receipt(c *fiber.Ctx) error {
	var in dto.StockReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return writeError(c, h.log, err)
	}
	s, err := h.uc.Receipt(c.UserContext(), in.ProductID, in.BranchID, in.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockResponse(s))
}
