package router

import (
	"time"

	"minimercado/internal/config"
	"minimercado/internal/handler"
	"minimercado/internal/middleware"
	"minimercado/internal/model"
	"minimercado/internal/repository"
	"minimercado/internal/service"
	"minimercado/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// A nil rdb disables the price cache and ticket jobs.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.APIRateLimit, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	reporteRepo, err := repository.NewReporteRepository(db)
	if err != nil {
		return nil, err
	}

	// ── Services ─────────────────────────────────────────────────────────────
	var tickets service.TicketEnqueuer
	if rdb != nil {
		tickets = worker.NewDispatcher(rdb)
	}

	authSvc := service.NewAuthService(usuarioRepo, cfg)
	usuarioSvc := service.NewUsuarioService(usuarioRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	inventarioSvc := service.NewInventarioService(productoRepo, proveedorRepo, rdb)
	cajaSvc := service.NewCajaService(cajaRepo, reporteRepo)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, clienteRepo, cajaSvc, inventarioSvc, tickets)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	consultaH := handler.NewConsultaPreciosHandler(inventarioSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc, cfg.TiendaNombre)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(cfg.LoginRateLimit), authH.Login)
		// First user bootstraps the system; afterwards an Admin token is required.
		auth.POST("/register", middleware.OptionalJWTAuth(cfg.JWTSecret), authH.Register)
		auth.POST("/validate", authH.Validate)
	}

	// Price check: no auth required
	api.GET("/inventario/precio/:codigo", consultaH.PrecioPorCodigo)

	// Protected routes
	priv := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
	{
		clientes := priv.Group("/clientes", middleware.RequireRole(model.RolCajero))
		{
			clientes.GET("", clientesH.Listar)
			clientes.POST("", clientesH.Crear)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
		}

		prov := priv.Group("/proveedores", middleware.RequireRole(model.RolAuxiliar))
		{
			prov.GET("", proveedoresH.Listar)
			prov.POST("", proveedoresH.Crear)
			prov.GET("/:id", proveedoresH.Obtener)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Eliminar)
		}

		inv := priv.Group("/inventario", middleware.RequireRole(model.RolAuxiliar))
		{
			inv.GET("/productos", inventarioH.ListarProductos)
			inv.POST("/productos", inventarioH.CrearProducto)
			inv.GET("/productos/:id", inventarioH.ObtenerProducto)
			inv.PUT("/productos/:id", inventarioH.ActualizarProducto)
			inv.DELETE("/productos/:id", inventarioH.EliminarProducto)
			inv.POST("/productos/:id/stock", inventarioH.AgregarStock)
			inv.GET("/alertas", inventarioH.Alertas)
		}

		usuarios := priv.Group("/usuarios", middleware.RequireRole(model.RolAdmin))
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("/:id", usuariosH.Obtener)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}

		ventas := priv.Group("/ventas", middleware.RequireRole(model.RolCajero))
		{
			ventas.GET("", ventasH.ListarVentas)
			ventas.POST("", ventasH.RegistrarVenta)
			ventas.GET("/:id", ventasH.ObtenerVenta)
			ventas.GET("/:id/ticket", ventasH.Ticket)
			ventas.DELETE("/:id", middleware.RequireRole(model.RolAdmin), ventasH.AnularVenta)
		}

		caja := priv.Group("/caja", middleware.RequireRole(model.RolCajero))
		{
			caja.GET("", cajaH.Listar)
			caja.GET("/actual", cajaH.Actual)
			caja.POST("/abrir", cajaH.Abrir)
			caja.POST("/cerrar", cajaH.Cerrar)
			caja.GET("/:id/resumen", cajaH.Resumen)
		}
	}

	// Swagger UI: only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, nil
}
