package router

import (
	"time"

	"integrafacturacion/internal/auth"
	"integrafacturacion/internal/config"
	"integrafacturacion/internal/handler"
	"integrafacturacion/internal/infra"
	"integrafacturacion/internal/licencia"
	"integrafacturacion/internal/middleware"
	"integrafacturacion/internal/repository"
	"integrafacturacion/internal/service"
	"integrafacturacion/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const loginPorMinuto = 10

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// Authorization lives in the services: every call carries the ActingUser, so
// routes only decide between public and authenticated.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, "api", cfg.RateLimitPerMinute, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL())
	revocacion := infra.NewRevocacionClient(cfg.RevocationURL, cfg.RevocationTimeout())
	dispatcher := worker.NewDispatcher(rdb)
	emisor := service.EmisorDesdeConfig(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	licenciaRepo := repository.NewLicenciaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	historialRepo := repository.NewHistorialPrecioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	equivalenciaRepo := repository.NewEquivalenciaRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	cuentaRepo := repository.NewCuentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	sucursalRepo := repository.NewSucursalRepository(db)
	proformaRepo := repository.NewProformaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	licenciaSvc := service.NewLicenciaService(licenciaRepo, licencia.NewSystemIdentity(), revocacion, cfg.LicenseSecret)
	authSvc := service.NewAuthService(usuarioRepo, tokens, licenciaSvc, cfg.LicenseEnforce)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo, cfg.AllowNegativeStock)
	ventaSvc := service.NewVentaService(facturaRepo, clienteRepo, cuentaRepo, cajaRepo, sucursalRepo, proformaRepo, inventarioSvc, dispatcher, emisor)
	compraSvc := service.NewCompraService(compraRepo, cuentaRepo, proveedorRepo, productoRepo, historialRepo, inventarioSvc)
	cajaSvc := service.NewCajaService(cajaRepo, facturaRepo)
	productoSvc := service.NewProductoService(productoRepo, historialRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	proformaSvc := service.NewProformaService(proformaRepo, productoRepo, clienteRepo, ventaSvc, emisor)
	xmlSvc := service.NewXMLService(proveedorRepo, productoRepo, equivalenciaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, licenciaSvc)
	licenciaH := handler.NewLicenciaHandler(licenciaSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	proformasH := handler.NewProformasHandler(proformaSvc)
	xmlH := handler.NewXMLHandler(xmlSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, revocacion))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	lic := r.Group("/licencia")
	{
		lic.GET("/mi-hardware-id", licenciaH.MiHardwareID)
		lic.POST("/activar", licenciaH.Activar)
		lic.POST("/auto-activar", licenciaH.AutoActivar)
		lic.GET("/validar-estado", licenciaH.ValidarEstado)
	}

	pub := r.Group("/auth", middleware.RateLimiter(rdb, "login", loginPorMinuto, time.Minute))
	{
		pub.POST("/login", authH.Login)
		pub.POST("/forzar-cierre", authH.ForzarCierre)
	}

	// Protected routes
	api := r.Group("", middleware.JWTAuth(tokens), middleware.SessionGuard(authSvc))
	{
		api.POST("/auth/logout", authH.Logout)
		api.POST("/auth/register", authH.Register)
		api.GET("/usuarios", authH.ListarUsuarios)

		api.POST("/ventas", ventasH.RegistrarVenta)
		api.GET("/ventas/reportes", ventasH.Reporte)
		api.GET("/ventas/imprimir/:id", ventasH.Imprimir)
		api.POST("/ventas/:id/anular", ventasH.AnularVenta)
		api.GET("/cxc", ventasH.ListarCxC)
		api.POST("/cxc/pagar", ventasH.PagarCxC)

		api.POST("/compras", comprasH.Registrar)
		api.POST("/compras/pagar", comprasH.Pagar)
		api.DELETE("/compras/:id", comprasH.Anular)
		api.GET("/cxp", comprasH.ListarCxP)

		inv := api.Group("/inventario")
		{
			inv.POST("", inventarioH.Movimiento)
			inv.GET("/kardex", inventarioH.Kardex)
			inv.POST("/produccion", inventarioH.Producir)
		}

		caja := api.Group("/caja")
		{
			caja.POST("/Abrir", cajaH.Abrir)
			caja.POST("/Cerrar", cajaH.Cerrar)
			caja.POST("/Movimiento", cajaH.Movimiento)
			caja.GET("/Historial", cajaH.Historial)
			caja.GET("/Activa", cajaH.Activa)
		}

		xml := api.Group("/xml")
		{
			xml.POST("/preprocesar", xmlH.Preprocesar)
			xml.POST("/equivalencias", xmlH.GuardarEquivalencia)
		}

		prods := api.Group("/productos")
		{
			prods.POST("", productosH.Crear)
			prods.GET("", productosH.Listar)
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.PUT("/:id", productosH.Actualizar)
			prods.PUT("/:id/receta", productosH.DefinirReceta)
			prods.GET("/:id/historial-costos", productosH.HistorialCostos)
		}

		api.POST("/clientes", clientesH.Crear)
		api.GET("/clientes", clientesH.Listar)
		api.PUT("/clientes/:id", clientesH.Actualizar)

		prov := api.Group("/proveedores")
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.ObtenerPorID)
			prov.PUT("/:id", proveedoresH.Actualizar)
		}

		api.POST("/categorias", categoriasH.Crear)
		api.GET("/categorias", categoriasH.Listar)

		prof := api.Group("/proformas")
		{
			prof.POST("", proformasH.Crear)
			prof.GET("", proformasH.Listar)
			prof.GET("/:id", proformasH.Obtener)
			prof.GET("/imprimir/:id", proformasH.Imprimir)
			prof.POST("/:id/convertir", proformasH.Convertir)
		}
	}

	// Swagger UI outside production only
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
