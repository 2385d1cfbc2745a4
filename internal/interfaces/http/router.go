package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
)

// Roles reconocidos en el token.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
	RoleConsulta  = "consulta"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC        *usecase.ItemUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	Movements     *inventory.MovementUseCase
	Stock         *inventory.StockUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Sequences     *inventory.SequenceUseCase
	JWTSecret     string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las escrituras además
// exigen rol admin o bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	writer := RequireRole(RoleAdmin, RoleBodeguero)

	// Unidades y materiales
	itemHandler := NewItemHandler(deps.ItemUC)
	api.Post("/units", RequireRole(RoleAdmin), itemHandler.CreateUnit)
	items := api.Group("/items")
	items.Post("/", RequireRole(RoleAdmin), itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)

	// Bodegas
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole(RoleAdmin), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Movimientos, traspasos y Kardex
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Movements)
	inv.Post("/movements", writer, inventoryHandler.CreateMovement)
	inv.Get("/movements/:id", inventoryHandler.GetMovement)
	inv.Post("/movements/:id/apply", writer, inventoryHandler.ApplyMovement)
	inv.Post("/transfers", writer, inventoryHandler.CreateTransfer)
	inv.Get("/transfers/:id", inventoryHandler.GetTransfer)
	inv.Post("/transfers/:id/apply", writer, inventoryHandler.ApplyTransfer)

	stockHandler := NewStockHandler(deps.Stock, deps.Replenishment)
	inv.Get("/stock", stockHandler.GetStock)
	inv.Get("/ledger", stockHandler.GetLedger)
	inv.Get("/ledger/replay", stockHandler.ReplayLedger)
	inv.Get("/below-minimum", stockHandler.BelowMinimum)

	// Consecutivos
	sequenceHandler := NewSequenceHandler(deps.Sequences)
	api.Post("/sequences/:name/next", writer, sequenceHandler.Next)
}
