// Package router wires the console's middleware chain and routes.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/handler"
	"github.com/noah-isme/sma-admin-console/internal/middleware"
	"github.com/noah-isme/sma-admin-console/internal/models"
	"github.com/noah-isme/sma-admin-console/internal/service"
	"github.com/noah-isme/sma-admin-console/pkg/config"
	"github.com/noah-isme/sma-admin-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-admin-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-admin-console/pkg/middleware/requestid"
)

// Handlers groups every console handler.
type Handlers struct {
	Auth         *handler.AuthHandler
	Dashboard    *handler.DashboardHandler
	Accounts     *handler.AccountHandler
	Students     *handler.StudentHandler
	Teachers     *handler.TeacherHandler
	Subjects     *handler.SubjectHandler
	Schedules    *handler.ScheduleHandler
	Grades       *handler.GradeHandler
	Disciplinary *handler.DisciplinaryHandler
	Reports      *handler.ReportHandler
	Metrics      *handler.MetricsHandler
}

// Options carries what the router needs besides handlers.
type Options struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *service.MetricsService
	HTMLRender render.HTMLRender
}

var (
	staff = []models.UserType{models.UserTypeAdmin, models.UserTypeTeacher}
	admin = []models.UserType{models.UserTypeAdmin}
)

// New builds the gin engine.
func New(opts Options, h Handlers) *gin.Engine {
	cfg := opts.Config

	r := gin.New()
	r.HTMLRender = opts.HTMLRender
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger, "/health", "/ready", "/metrics"))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(opts.Metrics, "/metrics", "/docs"))
	}

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", h.Metrics.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.Use(middleware.Sessions(cfg.Session, opts.Logger))
	r.Use(middleware.LoadUser(nil))

	registerAPI(r.Group(cfg.APIPrefix), cfg, h)
	registerPages(r, h)
	return r
}

func registerAPI(api *gin.RouterGroup, cfg *config.Config, h Handlers) {
	api.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	api.Use(middleware.WithResponseMeta())
	api.Use(middleware.RequireAPIUser())

	api.GET("/subjects", h.Subjects.APIList)
	api.GET("/schedules/:id/entries/:entryId/assignment", middleware.RequireRoles(staff...), h.Schedules.APIAssignmentView)
	api.GET("/students/:id/gpa", h.Grades.APISummary)
	api.POST("/reports/exports", middleware.RequireRoles(staff...), h.Reports.APICreateExport)
	api.GET("/reports/exports/:jobId", h.Reports.APIExportStatus)
}

func registerPages(r *gin.Engine, h Handlers) {
	r.GET("/login", h.Auth.LoginForm)
	r.POST("/login", h.Auth.Login)

	pages := r.Group("/")
	pages.Use(middleware.RequireLogin("/login"))
	pages.POST("/logout", h.Auth.Logout)
	pages.GET("/", h.Dashboard.Page)

	adminOnly := middleware.RequirePageRoles("/", admin...)
	staffOnly := middleware.RequirePageRoles("/", staff...)

	accounts := pages.Group("/accounts", adminOnly)
	accounts.GET("", h.Accounts.List)
	accounts.GET("/new", h.Accounts.New)
	accounts.POST("", h.Accounts.Create)
	accounts.GET("/:id/edit", h.Accounts.Edit)
	accounts.POST("/:id", h.Accounts.Update)
	accounts.POST("/:id/delete", h.Accounts.Delete)

	students := pages.Group("/students")
	students.GET("", h.Students.List)
	students.GET("/new", adminOnly, h.Students.New)
	students.POST("", adminOnly, h.Students.Create)
	students.GET("/:id/edit", adminOnly, h.Students.Edit)
	students.POST("/:id", adminOnly, h.Students.Update)
	students.POST("/:id/delete", adminOnly, h.Students.Delete)
	students.GET("/:id/gpa", h.Grades.Summary)

	teachers := pages.Group("/teachers")
	teachers.GET("", h.Teachers.List)
	teachers.GET("/new", adminOnly, h.Teachers.New)
	teachers.POST("", adminOnly, h.Teachers.Create)
	teachers.GET("/:id/edit", adminOnly, h.Teachers.Edit)
	teachers.POST("/:id", adminOnly, h.Teachers.Update)
	teachers.POST("/:id/delete", adminOnly, h.Teachers.Delete)
	teachers.GET("/:id/subjects", h.Teachers.Subjects)
	teachers.POST("/:id/subjects", adminOnly, h.Teachers.AssignSubject)
	teachers.POST("/:id/subjects/:subjectId/delete", adminOnly, h.Teachers.UnassignSubject)

	subjects := pages.Group("/subjects")
	subjects.GET("", h.Subjects.List)
	subjects.GET("/new", adminOnly, h.Subjects.New)
	subjects.POST("", adminOnly, h.Subjects.Create)
	subjects.GET("/:id/edit", adminOnly, h.Subjects.Edit)
	subjects.POST("/:id", adminOnly, h.Subjects.Update)
	subjects.POST("/:id/delete", adminOnly, h.Subjects.Delete)

	schedules := pages.Group("/schedules", staffOnly)
	schedules.GET("", h.Schedules.List)
	schedules.GET("/new", h.Schedules.New)
	schedules.POST("", h.Schedules.Create)
	schedules.GET("/:id", h.Schedules.Show)
	schedules.POST("/:id/delete", h.Schedules.Delete)
	schedules.POST("/:id/entries", h.Schedules.AddEntry)
	schedules.POST("/:id/entries/:entryId/delete", h.Schedules.RemoveEntry)
	schedules.GET("/:id/entries/:entryId/assign", h.Schedules.AssignForm)
	schedules.POST("/:id/entries/:entryId/assign", h.Schedules.Assign)
	schedules.GET("/:id/entries/:entryId/edit", h.Schedules.EditForm)
	schedules.POST("/:id/entries/:entryId/edit", h.Schedules.UpdateEntry)

	grades := pages.Group("/grades")
	grades.GET("", h.Grades.List)
	grades.GET("/new", staffOnly, h.Grades.New)
	grades.POST("", staffOnly, h.Grades.Create)
	grades.GET("/:id/edit", staffOnly, h.Grades.Edit)
	grades.POST("/:id", staffOnly, h.Grades.Update)
	grades.POST("/:id/delete", staffOnly, h.Grades.Delete)

	disciplinary := pages.Group("/disciplinary")
	disciplinary.GET("", h.Disciplinary.List)
	disciplinary.GET("/summary/:studentNumber", h.Disciplinary.Summary)
	disciplinary.GET("/new", staffOnly, h.Disciplinary.New)
	disciplinary.POST("", staffOnly, h.Disciplinary.Create)
	disciplinary.GET("/:id/edit", staffOnly, h.Disciplinary.Edit)
	disciplinary.POST("/:id", staffOnly, h.Disciplinary.Update)
	disciplinary.POST("/:id/delete", staffOnly, h.Disciplinary.Delete)

	reports := pages.Group("/reports")
	reports.GET("", h.Reports.Index)
	reports.GET("/view", h.Reports.View)
	reports.GET("/exports", h.Reports.Jobs)
	reports.POST("/exports", staffOnly, h.Reports.Export)
	reports.GET("/download/:token", h.Reports.Download)
	reports.GET("/:kind", h.Reports.View)
}
