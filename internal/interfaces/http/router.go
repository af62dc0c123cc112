package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hospitalsr/farmacia-api/internal/application/auth"
	"github.com/hospitalsr/farmacia-api/internal/application/catalogo"
	"github.com/hospitalsr/farmacia-api/internal/application/consolidado"
	"github.com/hospitalsr/farmacia-api/internal/application/cuadre"
	"github.com/hospitalsr/farmacia-api/internal/application/ingreso"
	"github.com/hospitalsr/farmacia-api/internal/application/kardex"
	"github.com/hospitalsr/farmacia-api/internal/application/requisicion"
	"github.com/hospitalsr/farmacia-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.UseCase
	CatalogoUC    *catalogo.UseCase
	IngresoUC     *ingreso.UseCase
	Consultas     *kardex.Consultas
	RequisicionUC *requisicion.UseCase
	ConsolidadoUC *consolidado.UseCase
	CuadreUC      *cuadre.UseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo: insumos y servicios. Lectura para todos; escritura bodega/admin.
	catalogoHandler := NewCatalogoHandler(deps.CatalogoUC)
	insumos := protected.Group("/insumos")
	insumos.Post("/", RequireRole(entity.RoleBodeguero), catalogoHandler.CreateInsumo)
	insumos.Get("/", catalogoHandler.ListInsumos)
	insumos.Get("/:id", catalogoHandler.GetInsumo)
	insumos.Get("/:id/lotes", catalogoHandler.ListLotes)

	servicios := protected.Group("/servicios")
	servicios.Post("/", RequireRole(), catalogoHandler.CreateServicio) // solo admin
	servicios.Get("/", catalogoHandler.ListServicios)

	// Ingresos a bodega (bodega)
	ingresos := protected.Group("/ingresos", RequireRole(entity.RoleBodeguero))
	ingresoHandler := NewIngresoHandler(deps.IngresoUC)
	ingresos.Post("/", ingresoHandler.Registrar)

	// Kardex y saldos (lectura para todos los autenticados)
	kardexGroup := protected.Group("/kardex")
	kardexHandler := NewKardexHandler(deps.Consultas)
	kardexGroup.Get("/:insumoId", kardexHandler.GetKardex)
	kardexGroup.Get("/:insumoId/saldo", kardexHandler.GetSaldo)
	kardexGroup.Get("/:insumoId/verificar", kardexHandler.VerificarSaldo)

	// Requisiciones: solicitan los servicios; autoriza y entrega bodega.
	requisiciones := protected.Group("/requisiciones")
	requisicionHandler := NewRequisicionHandler(deps.RequisicionUC)
	requisiciones.Post("/", RequireRole(entity.RoleEnfermeria, entity.RoleTurnista), requisicionHandler.Create)
	requisiciones.Get("/", requisicionHandler.List)
	requisiciones.Get("/:id", requisicionHandler.GetByID)
	requisiciones.Post("/:id/aprobar", RequireRole(entity.RoleBodeguero), requisicionHandler.Aprobar)
	requisiciones.Post("/:id/entregar", RequireRole(entity.RoleBodeguero), requisicionHandler.Entregar)
	requisiciones.Post("/:id/rechazar", RequireRole(entity.RoleBodeguero), requisicionHandler.Rechazar)
	requisiciones.Post("/:id/anular", RequireRole(entity.RoleBodeguero), requisicionHandler.Anular)

	// Consolidados de consumo: reporta enfermería/turnista; cierra bodega.
	consolidados := protected.Group("/consolidados")
	consolidadoHandler := NewConsolidadoHandler(deps.ConsolidadoUC)
	consolidados.Post("/", RequireRole(entity.RoleEnfermeria, entity.RoleTurnista), consolidadoHandler.Create)
	consolidados.Get("/", consolidadoHandler.List)
	consolidados.Get("/:id", consolidadoHandler.GetByID)
	consolidados.Post("/:id/cerrar", RequireRole(entity.RoleBodeguero), consolidadoHandler.Cerrar)
	consolidados.Post("/:id/anular", RequireRole(entity.RoleBodeguero), consolidadoHandler.Anular)

	// Cuadres: turnista y bodega. Las rutas fijas /insumos van antes de /:id.
	cuadres := protected.Group("/cuadres", RequireRole(entity.RoleTurnista, entity.RoleBodeguero))
	cuadreHandler := NewCuadreHandler(deps.CuadreUC)
	cuadres.Post("/insumos", cuadreHandler.EnrolarInsumo)
	cuadres.Get("/insumos", cuadreHandler.ListInsumosVigilados)
	cuadres.Post("/", cuadreHandler.Iniciar)
	cuadres.Get("/", cuadreHandler.List)
	cuadres.Get("/:id", cuadreHandler.GetByID)
	cuadres.Put("/:id/conteos/:detalleId", cuadreHandler.RegistrarConteo)
	cuadres.Post("/:id/finalizar", cuadreHandler.Finalizar)
}
