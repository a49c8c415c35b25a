package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/billing"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
)

// Roles que pueden revisar devoluciones.
var reviewerRoles = []string{"admin", "supervisor"}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TransferUC       *inventory.TransferUseCase
	StockUC          *inventory.StockUseCase
	InvoiceUC        *billing.InvoiceUseCase
	ReturnUC         *billing.ReturnUseCase
	ReconciliationUC *billing.ReconciliationUseCase
	JWTSecret        string
	JWTIssuer        string
	Log              zerolog.Logger
}

// Router registra las rutas de la API. Todas bajo /api requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	transferHandler := NewTransferHandler(deps.TransferUC, deps.Log)
	transfers := protected.Group("/transfers")
	transfers.Post("/", transferHandler.Send)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Delete("/:id", transferHandler.Delete)

	stockHandler := NewStockHandler(deps.StockUC, deps.Log)
	stock := protected.Group("/stock")
	stock.Get("/", stockHandler.Get)
	stock.Post("/receipts", stockHandler.Receipt)

	billingHandler := NewBillingHandler(deps.InvoiceUC, deps.ReturnUC, deps.ReconciliationUC, deps.Log)
	invoices := protected.Group("/invoices")
	invoices.Post("/", billingHandler.CreateInvoice)
	invoices.Get("/:id", billingHandler.GetInvoice)
	invoices.Get("/:id/net-total", billingHandler.NetTotal)
	invoices.Get("/:id/returns", billingHandler.ListReturns)

	returns := protected.Group("/returns")
	returns.Post("/", billingHandler.CreateReturn)
	returns.Post("/:id/approve", RequireRole(reviewerRoles...), billingHandler.ApproveReturn)
	returns.Post("/:id/reject", RequireRole(reviewerRoles...), billingHandler.RejectReturn)
}
