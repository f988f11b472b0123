package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/inventory"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/orders"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/pricing"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/receipt"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/internal/application/sales"
	"github.com/AsirMahmud/retail-management-sytstem-sub000/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC  *inventory.CatalogUseCase
	LedgerUC   *inventory.StockLedgerUseCase
	DiscountUC *pricing.DiscountUseCase
	SaleUC     *sales.SaleUseCase
	OrderUC    *orders.OrderUseCase
	ReceiptUC  *receipt.ReceiptUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	productHandler := NewProductHandler(deps.CatalogUC)
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	discountHandler := NewDiscountHandler(deps.DiscountUC)
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC)
	orderHandler := NewOrderHandler(deps.OrderUC)

	// Vitrina (público): precio vigente y creación de pedidos.
	api.Get("/products/:id/discount", discountHandler.Resolve)
	api.Get("/products/:id/price", discountHandler.Price)
	api.Post("/orders", orderHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	managers := RequireRole(jwt.RoleAdmin, jwt.RoleManager)
	staff := RequireRole(jwt.RoleAdmin, jwt.RoleManager, jwt.RoleCashier)

	// Products
	products := protected.Group("/products")
	products.Post("/", managers, productHandler.Create)
	products.Get("/", staff, productHandler.List)
	products.Get("/:id", staff, productHandler.GetByID)
	products.Get("/:id/movements", staff, inventoryHandler.ListMovements)
	products.Post("/:id/recalculate-stock", managers, inventoryHandler.RecalculateStock)

	// Inventory
	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", managers, inventoryHandler.AddMovement)
	invGroup.Get("/alerts", staff, inventoryHandler.ListAlerts)

	// Discounts
	discounts := protected.Group("/discounts")
	discounts.Post("/", managers, discountHandler.Create)
	discounts.Get("/", staff, discountHandler.List)
	discounts.Get("/:id", staff, discountHandler.GetByID)
	discounts.Put("/:id", managers, discountHandler.Update)

	// Sales
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", staff, saleHandler.Create)
	salesGroup.Get("/", staff, saleHandler.List)
	salesGroup.Get("/:id", staff, saleHandler.GetByID)
	salesGroup.Patch("/:id", staff, saleHandler.Update)
	salesGroup.Post("/:id/payments", staff, saleHandler.AddPayment)
	salesGroup.Post("/:id/due-payments", staff, saleHandler.CompleteDuePayment)
	salesGroup.Post("/:id/cancel", managers, saleHandler.Cancel)
	salesGroup.Post("/:id/returns", managers, saleHandler.ProcessReturn)
	salesGroup.Get("/:id/receipt", staff, saleHandler.DownloadReceipt)

	// Orders
	ordersGroup := protected.Group("/orders")
	ordersGroup.Get("/", staff, orderHandler.List)
	ordersGroup.Get("/:id", staff, orderHandler.GetByID)
	ordersGroup.Patch("/:id/status", staff, orderHandler.UpdateStatus)
	ordersGroup.Post("/:id/convert", managers, orderHandler.Convert)
}
