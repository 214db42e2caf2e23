package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/produccion-api/internal/application/inventory"
	"github.com/jhoicas/produccion-api/internal/application/masterdata"
	"github.com/jhoicas/produccion-api/internal/application/procurement"
	"github.com/jhoicas/produccion-api/internal/application/production"
	"github.com/jhoicas/produccion-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger     *inventory.LedgerUseCase
	Runs       *production.RunUseCase
	Orders     *procurement.OrderUseCase
	Sales      *sales.SaleUseCase
	MasterData *masterdata.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todo /api exige Bearer Token; las escrituras además exigen rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	produccion := RequireRole(RoleAdmin, RoleProduccion)
	bodega := RequireRole(RoleAdmin, RoleBodeguero)
	ventas := RequireRole(RoleAdmin, RoleVendedor)
	admin := RequireRole(RoleAdmin)

	// Producción
	runs := api.Group("/production/runs")
	runHandler := NewProductionHandler(deps.Runs)
	runs.Post("/", produccion, runHandler.Create)
	runs.Get("/", runHandler.List)
	runs.Get("/:id", runHandler.GetByID)
	runs.Get("/:id/cost-sheet", runHandler.CostSheet)
	runs.Put("/:id/packaging", produccion, runHandler.RevisePackaging)
	runs.Delete("/:id", produccion, runHandler.Delete)

	// Compras
	orders := api.Group("/procurement/orders")
	orderHandler := NewProcurementHandler(deps.Orders)
	orders.Post("/", bodega, orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/receive", bodega, orderHandler.Receive)

	// Ventas (report antes de /:id)
	salesGroup := api.Group("/sales")
	saleHandler := NewSalesHandler(deps.Sales)
	salesGroup.Post("/", ventas, saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/report", saleHandler.Report)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/payments", ventas, saleHandler.RecordPayment)

	// Kardex
	inv := api.Group("/inventory")
	invHandler := NewInventoryHandler(deps.Ledger)
	inv.Get("/balance", invHandler.Balance)
	inv.Get("/stock-levels", invHandler.StockLevels)
	inv.Get("/movements", invHandler.Movements)
	inv.Get("/references/:kind/:number", invHandler.ByReference)
	inv.Post("/adjustments", bodega, invHandler.Adjust)
	inv.Delete("/items/:kind/:id", bodega, invHandler.DeleteItem)

	// Datos maestros
	master := api.Group("/master")
	mdHandler := NewMasterDataHandler(deps.MasterData)
	master.Post("/raw-materials", admin, mdHandler.CreateRawMaterial)
	master.Get("/raw-materials", mdHandler.ListRawMaterials)
	master.Put("/raw-materials/:id/cost", admin, mdHandler.UpdateRawMaterialCost)
	master.Post("/products", admin, mdHandler.CreateProduct)
	master.Get("/products", mdHandler.ListProducts)
	master.Get("/products/:id", mdHandler.GetProduct)
	master.Post("/partners", admin, mdHandler.CreatePartner)
	master.Get("/partners", mdHandler.ListPartners)
	master.Post("/sales-people", admin, mdHandler.CreateSalesPerson)
	master.Get("/sales-people", mdHandler.ListSalesPeople)
}
