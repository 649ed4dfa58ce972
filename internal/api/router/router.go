package router

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BelowZeroPortfolio/school-scan-sub001/config"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/handler"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/api/middleware"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/validation"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/jwt"
	"github.com/BelowZeroPortfolio/school-scan-sub001/pkg/redis"
)

const (
	apiPrefix    = "/api/"
	staticPrefix = "/static/"
)

// routes that accept file uploads
var uploadRoutes = []string{"/students/import", "/school-years/:id/holidays"}

// Deps what the router needs besides the handlers.
type Deps struct {
	Users     middleware.SessionUserLoader
	Revoked   middleware.TokenRevocationChecker
	JWT       *jwt.Manager
	Redis     *redis.Client // nil disables rate limiting
	Templates *template.Template
	Static    http.FileSystem
	Logger    *zap.Logger
}

// Setup builds the gin engine for the admin pages and the scanner API.
func Setup(cfg *config.Config, h *handler.Handler, d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	validation.Setup()

	r := gin.New()
	r.SetHTMLTemplate(d.Templates)

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.SecurityHeaders(apiPrefix, staticPrefix))
	r.Use(middleware.CORS(apiPrefix, cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(middleware.BodyLimits{
		Form:         cfg.Server.MaxBodyBytes,
		Upload:       cfg.Server.MaxUploadBytes,
		UploadRoutes: uploadRoutes,
		APIPrefix:    apiPrefix,
	}, handler.BodyTooLarge))

	r.GET("/health", h.Health.Health)
	if d.Static != nil {
		r.StaticFS("/static", d.Static)
	}

	sessions := middleware.Sessions(&cfg.Session)
	csrf := middleware.CSRF(handler.CSRFFailure)
	r.NoRoute(sessions, handler.NotFound)

	// ── admin pages ──
	pages := r.Group("")
	pages.Use(sessions, csrf)
	{
		loginLimit := middleware.PageRateLimit(d.Redis, cfg.Auth.LoginRateLimit, cfg.Auth.LoginWindow)
		pages.GET("/login", h.Auth.LoginPage)
		pages.POST("/login", loginLimit, h.Auth.Login)
		pages.POST("/logout", h.Auth.Logout)

		authed := pages.Group("")
		authed.Use(middleware.SessionAuth(d.Users))
		registerPages(authed, h)
	}

	// ── scanner API ──
	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", middleware.RateLimit(d.Redis, cfg.Auth.LoginRateLimit, cfg.Auth.LoginWindow), h.Scan.Login)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(d.JWT, d.Revoked))
		{
			authorized.POST("/auth/logout", h.Scan.Logout)
			authorized.POST("/scans",
				middleware.RoleAuth(model.RoleAdmin, model.RoleTeacher, model.RoleOperator),
				h.Scan.Scan)
		}
	}

	return r
}

func registerPages(g *gin.RouterGroup, h *handler.Handler) {
	admin := middleware.RequireRole(model.RoleAdmin)
	reports := middleware.RequireRole(model.RoleAdmin, model.RolePrincipal)
	staff := middleware.RequireRole(model.RoleAdmin, model.RolePrincipal, model.RoleTeacher, model.RoleOperator)
	recorders := middleware.RequireRole(model.RoleAdmin, model.RoleTeacher, model.RoleOperator)

	g.GET("/", h.Dashboard.Show)

	// students
	students := g.Group("/students")
	{
		students.GET("", staff, h.Student.List)
		students.GET("/new", admin, h.Student.New)
		students.POST("", admin, h.Student.Create)
		students.POST("/import", admin, h.Student.Import)
		students.GET("/export", reports, h.Export.Students)
		students.GET("/:id/edit", admin, h.Student.Edit)
		students.POST("/:id", admin, h.Student.Update)
		students.POST("/:id/toggle-active", admin, h.Student.ToggleActive)
		students.POST("/:id/toggle-sms", admin, h.Student.ToggleSMS)
		students.GET("/:id/qr.png", h.Student.QRCode)
	}

	// classes
	classes := g.Group("/classes")
	{
		classes.GET("", reports, h.Class.List)
		classes.GET("/new", admin, h.Class.New)
		classes.POST("", admin, h.Class.Create)
		classes.GET("/:id/edit", admin, h.Class.Edit)
		classes.POST("/:id", admin, h.Class.Update)
		classes.POST("/:id/delete", admin, h.Class.Delete)
	}

	// school years
	years := g.Group("/school-years", admin)
	{
		years.GET("", h.SchoolYear.List)
		years.GET("/new", h.SchoolYear.New)
		years.POST("/new", h.SchoolYear.Create)
		years.GET("/:id/edit", h.SchoolYear.Edit)
		years.POST("/:id", h.SchoolYear.Update)
		years.POST("/:id/activate", h.SchoolYear.Activate)
		years.POST("/:id/delete", h.SchoolYear.Delete)
		years.GET("/:id/holidays", h.SchoolYear.Holidays)
		years.POST("/:id/holidays", h.SchoolYear.ImportHolidays)
	}

	// attendance
	g.GET("/attendance", h.Attendance.List)
	g.POST("/attendance", recorders, h.Attendance.Record)
	g.GET("/attendance/export", reports, h.Export.Attendance)
	g.GET("/monitoring", reports, h.Monitoring.Show)

	// administration
	g.GET("/settings", admin, h.Settings.Show)
	g.POST("/settings", admin, h.Settings.Update)
	g.GET("/logs", admin, h.Log.List)
	g.POST("/logs/purge", admin, h.Log.Purge)
	g.GET("/subscriptions", admin, h.Subscription.List)
	g.POST("/subscriptions/:id", admin, h.Subscription.Apply)

	users := g.Group("/users", admin)
	{
		users.GET("", h.User.List)
		users.GET("/new", h.User.New)
		users.POST("", h.User.Create)
		users.GET("/:id/edit", h.User.Edit)
		users.POST("/:id", h.User.Update)
		users.POST("/:id/reset-password", h.User.ResetPassword)
	}
}
