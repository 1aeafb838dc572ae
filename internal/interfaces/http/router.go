package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kiosco-pos-api/internal/application/auth"
	"github.com/jhoicas/kiosco-pos-api/internal/application/cart"
	"github.com/jhoicas/kiosco-pos-api/internal/application/catalog"
	"github.com/jhoicas/kiosco-pos-api/internal/application/checkout"
	"github.com/jhoicas/kiosco-pos-api/internal/application/rates"
	"github.com/jhoicas/kiosco-pos-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.UseCase
	CatalogUC *catalog.UseCase
	Rates     *rates.Table
	CartStore *cart.Store
	Checkout  *checkout.Coordinator
	Sales     repository.SaleRepository
	Stock     repository.StockRepository
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo (protegido)
	catalogHandler := NewCatalogHandler(deps.CatalogUC, deps.Rates, deps.Stock)
	protected.Get("/catalog", catalogHandler.List)
	protected.Put("/catalog/:id/stock", catalogHandler.UpdateStock)

	// Tasas de cambio (protegido)
	ratesHandler := NewRatesHandler(deps.Rates)
	protected.Get("/rates", ratesHandler.Get)
	protected.Put("/rates", ratesHandler.Update)

	// Carrito (protegido, sesión por X-Session-ID)
	cartHandler := NewCartHandler(deps.CartStore, deps.CatalogUC, deps.Rates)
	cartGroup := protected.Group("/cart")
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/lines", cartHandler.AddLine)
	cartGroup.Put("/lines", cartHandler.SetQuantity)
	cartGroup.Delete("/lines", cartHandler.RemoveLine)
	cartGroup.Get("/total", cartHandler.Total)

	// Checkout (protegido)
	checkoutHandler := NewCheckoutHandler(deps.Checkout, deps.Rates)
	protected.Post("/checkout", checkoutHandler.Checkout)

	// Ventas (protegido)
	salesHandler := NewSalesHandler(deps.Sales)
	protected.Get("/sales", salesHandler.List)
}
