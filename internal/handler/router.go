package handler

import (
	"net/http"

	"voucher-console/internal/handler/api"
	"voucher-console/internal/handler/middleware"
	"voucher-console/internal/handler/web"
	"voucher-console/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Pages      *web.PageHandler
	Navigation *api.NavigationHandler
	Dashboard  *api.DashboardHandler
	Vouchers   *api.VoucherHandler
	Generator  *api.GeneratorHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, sessionMiddleware *middleware.SessionMiddleware) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, h, sessionMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, sessionMiddleware *middleware.SessionMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	engine.StaticFS("/assets", web.Assets())

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	pages := engine.Group("")
	pages.Use(sessionMiddleware.Attach())
	addRoutes(pages, []route{
		{Method: http.MethodGet, Path: "/", Handler: h.Pages.Root},
		{Method: http.MethodGet, Path: "/dashboard", Handler: h.Pages.Dashboard},
		{Method: http.MethodGet, Path: "/generate", Handler: h.Pages.Generate},
		{Method: http.MethodGet, Path: "/vouchers", Handler: h.Pages.Vouchers},
		{Method: http.MethodGet, Path: "/vouchers/print", Handler: h.Pages.Print},
	})

	apiGroup := engine.Group("/console/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/dashboard", Handler: h.Dashboard.Get},
		})

		nav := apiGroup.Group("/navigation")
		nav.Use(sessionMiddleware.Attach())
		{
			addRoutes(nav, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Navigation.Get},
				{Method: http.MethodPut, Path: "", Handler: h.Navigation.Set},
				{Method: http.MethodGet, Path: "/events", Handler: h.Navigation.Events},
			})
		}

		vouchers := apiGroup.Group("/vouchers")
		vouchers.Use(sessionMiddleware.Attach())
		{
			addRoutes(vouchers, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Vouchers.List},
				{Method: http.MethodPost, Path: "/reload", Handler: h.Vouchers.Reload},
				{Method: http.MethodPost, Path: "/selection", Handler: h.Vouchers.Select},
				{Method: http.MethodPost, Path: "/bulk-delete", Handler: h.Vouchers.BulkDelete},
				{Method: http.MethodGet, Path: "/export", Handler: h.Vouchers.Export},
				{Method: http.MethodGet, Path: "/print", Handler: h.Vouchers.Print},
				{Method: http.MethodPost, Path: "/:id/toggle", Handler: h.Vouchers.Toggle},
				{Method: http.MethodPost, Path: "/:id/copy", Handler: h.Vouchers.Copy},
				{Method: http.MethodPost, Path: "/:id/delete-request", Handler: h.Vouchers.RequestDelete},
				{Method: http.MethodPost, Path: "/:id/delete-cancel", Handler: h.Vouchers.CancelDelete},
				{Method: http.MethodDelete, Path: "/:id", Handler: h.Vouchers.Delete},
				{Method: http.MethodGet, Path: "/:id/countdown", Handler: h.Vouchers.Countdown},
			})
		}

		generator := apiGroup.Group("/generator")
		generator.Use(sessionMiddleware.Attach())
		{
			addRoutes(generator, []route{
				{Method: http.MethodGet, Path: "", Handler: h.Generator.Get},
				{Method: http.MethodPatch, Path: "", Handler: h.Generator.Update},
				{Method: http.MethodPost, Path: "/submit", Handler: h.Generator.Submit},
				{Method: http.MethodGet, Path: "/export", Handler: h.Generator.Export},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
