package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/unitime-api/api/swagger"
	"github.com/noah-isme/unitime-api/internal/handler"
	"github.com/noah-isme/unitime-api/internal/middleware"
	"github.com/noah-isme/unitime-api/internal/models"
	"github.com/noah-isme/unitime-api/internal/service"
	"github.com/noah-isme/unitime-api/pkg/config"
	"github.com/noah-isme/unitime-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/unitime-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/unitime-api/pkg/middleware/requestid"
)

type routeHandlers struct {
	timetables *handler.TimetableHandler
	sessions   *handler.SessionHandler
	conflicts  *handler.ConflictHandler
	venues     *handler.VenueHandler
	metrics    *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(middleware.NewTokenVerifier(cfg.JWT.Secret)))

	editors := middleware.RBAC(models.RoleHOD, models.RoleAdmin)
	admins := middleware.RBAC(models.RoleAdmin)
	readers := middleware.RBAC(models.RoleHOD, models.RoleAdmin, models.RoleLecturer)

	timetables := api.Group("/timetables")
	timetables.GET("", readers, h.timetables.List)
	timetables.POST("", editors, middleware.Audit(logr, "create", "timetable"), h.timetables.Create)
	timetables.GET("/:id", readers, h.timetables.Get)
	timetables.DELETE("/:id", editors, middleware.Audit(logr, "delete", "timetable"), h.timetables.Delete)
	timetables.POST("/:id/submit", editors, middleware.Audit(logr, "submit", "timetable"), h.timetables.Submit)
	timetables.POST("/:id/publish", admins, middleware.Audit(logr, "publish", "timetable"), h.timetables.Publish)

	timetables.GET("/:id/sessions", readers, h.sessions.List)
	timetables.POST("/:id/sessions", editors, middleware.Audit(logr, "create", "session"), h.sessions.Create)
	timetables.POST("/:id/sessions/bulk", editors, middleware.Audit(logr, "bulk_create", "session"), h.sessions.BulkCreate)
	timetables.PUT("/:id/sessions/:sessionId", editors, middleware.Audit(logr, "update", "session"), h.sessions.Update)
	timetables.DELETE("/:id/sessions/:sessionId", editors, middleware.Audit(logr, "delete", "session"), h.sessions.Delete)
	timetables.GET("/:id/availability", readers, h.sessions.Availability)

	timetables.GET("/:id/conflicts", readers, h.conflicts.Detect)
	timetables.POST("/:id/conflicts/resolve", editors, middleware.Audit(logr, "resolve", "conflict"), h.conflicts.Resolve)
	timetables.POST("/:id/conflicts/auto-resolve", editors, middleware.Audit(logr, "auto_resolve", "conflict"), h.conflicts.AutoResolve)

	master := api.Group("/master", admins)
	master.GET("/conflicts", h.conflicts.MasterDetect)
	master.POST("/conflicts/resolve", middleware.Audit(logr, "resolve", "master_conflict"), h.conflicts.MasterResolve)
	master.POST("/conflicts/auto-resolve", middleware.Audit(logr, "auto_resolve", "master_conflict"), h.conflicts.MasterAutoResolve)
	master.POST("/scan", middleware.Audit(logr, "scan", "master_conflict"), h.conflicts.MasterScan)

	venues := api.Group("/venues")
	venues.GET("", readers, h.venues.List)
	venues.GET("/free", readers, h.venues.Free)
	venues.POST("", admins, middleware.Audit(logr, "create", "venue"), h.venues.Create)

	return r
}
