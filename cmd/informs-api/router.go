package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/informs-api/api/swagger"
	"github.com/noah-isme/informs-api/internal/handler"
	internalmiddleware "github.com/noah-isme/informs-api/internal/middleware"
	"github.com/noah-isme/informs-api/internal/service"
	"github.com/noah-isme/informs-api/pkg/config"
	"github.com/noah-isme/informs-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/informs-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/informs-api/pkg/middleware/requestid"
)

type routerDeps struct {
	rooms     *service.RoomService
	exams     *service.ExamService
	timeslots *service.TimeSlotService
	students  *service.StudentService
	versions  *service.VersionService
	schedules *service.ScheduleService
	reports   *service.ReportService
	exports   *service.ExportService
	auth      *service.AuthService
	metrics   *service.MetricsService
	db        *sqlx.DB
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(internalmiddleware.Metrics(deps.metrics))
	}
	r.Use(internalmiddleware.WithResponseMeta())

	ops := handler.NewMetricsHandler(deps.metrics, deps.db)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", ops.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.RequireWriteToken(deps.auth, cfg.Auth.Enabled))

	rooms := handler.NewRoomHandler(deps.rooms)
	api.GET("/rooms", rooms.List)
	api.POST("/rooms", rooms.Create)
	api.GET("/rooms/:id", rooms.Get)
	api.PUT("/rooms/:id", rooms.Update)
	api.DELETE("/rooms/:id", rooms.Delete)

	exams := handler.NewExamHandler(deps.exams)
	api.GET("/exams", exams.List)
	api.POST("/exams", exams.Create)
	api.GET("/exams/:id", exams.Get)
	api.PUT("/exams/:id", exams.Update)
	api.DELETE("/exams/:id", exams.Delete)

	schedules := api.Group("/schedules")

	timeslots := handler.NewTimeSlotHandler(deps.timeslots)
	schedules.GET("/timeslots", timeslots.List)
	schedules.POST("/timeslots", timeslots.Create)
	schedules.GET("/timeslots/:id", timeslots.Get)
	schedules.PUT("/timeslots/:id", timeslots.Update)
	schedules.DELETE("/timeslots/:id", timeslots.Delete)

	students := handler.NewStudentHandler(deps.students, deps.schedules)
	schedules.GET("/students", students.List)
	schedules.GET("/students/:id", students.Get)
	schedules.GET("/students/:id/schedule", students.Schedule)

	versions := handler.NewVersionHandler(deps.versions)
	schedules.GET("/versions", versions.List)
	schedules.POST("/versions", versions.Create)
	schedules.GET("/versions/:id", versions.Get)
	schedules.PUT("/versions/:id", versions.Update)
	schedules.DELETE("/versions/:id", versions.Delete)
	schedules.POST("/versions/:id/duplicate", versions.Duplicate)

	reports := handler.NewReportHandler(deps.reports, deps.exports)
	schedules.GET("/conflicts", reports.Conflicts)
	schedules.GET("/analytics", reports.Analytics)
	schedules.GET("/export", reports.Export)

	scheduleHandler := handler.NewScheduleHandler(deps.schedules)
	schedules.GET("", scheduleHandler.List)
	schedules.POST("", scheduleHandler.Create)
	schedules.GET("/detailed", scheduleHandler.Detailed)
	schedules.PUT("/bulk", scheduleHandler.BulkReplace)
	schedules.GET("/:id", scheduleHandler.Get)
	schedules.PUT("/:id", scheduleHandler.Update)
	schedules.DELETE("/:id", scheduleHandler.Delete)

	return r
}
