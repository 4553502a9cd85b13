package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/phdstats-api/internal/handler"
	"github.com/noah-isme/phdstats-api/internal/middleware"
	"github.com/noah-isme/phdstats-api/internal/service"
	"github.com/noah-isme/phdstats-api/pkg/config"
	"github.com/noah-isme/phdstats-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/phdstats-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/phdstats-api/pkg/middleware/requestid"
)

// RouterParams groups the services exposed over HTTP.
type RouterParams struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *service.MetricsService
	Datasets *service.DatasetService
	Programs *service.ProgramService
	Exports  *service.ExportService
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(p RouterParams) *gin.Engine {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(p.Config.CORS.AllowedOrigins))
	if p.Metrics != nil {
		r.Use(middleware.Metrics(p.Metrics))
	}
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(p.Metrics, p.Datasets)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if p.Metrics != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if p.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	programs := handler.NewProgramHandler(p.Programs)
	exports := handler.NewExportHandler(p.Exports)
	datasets := handler.NewDatasetHandler(p.Datasets)

	api := r.Group(p.Config.APIPrefix)
	api.GET("/programs", programs.Search)
	api.GET("/programs/index", programs.Index)
	api.GET("/programs/summary", programs.Summary)
	api.GET("/programs/students", programs.Students)
	api.GET("/programs/snapshots", programs.Snapshots)
	api.GET("/statistics", programs.Statistics)
	api.GET("/exports", exports.Download)
	api.GET("/dataset", datasets.Status)
	api.POST("/dataset/reload", datasets.Reload)
	api.GET("/system", metricsHandler.System)

	return r
}
