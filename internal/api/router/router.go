package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"migration-console/internal/adapter/notification"
	"migration-console/internal/api/handler"
	"migration-console/internal/api/middleware"
	"migration-console/internal/core/configeditor"
	"migration-console/internal/core/pagination"
	"migration-console/internal/core/refresh"
	"migration-console/internal/core/workspace"
	"migration-console/internal/pkg/config"
	"migration-console/internal/service"
	"migration-console/internal/state"
)

// Deps 路由依赖的组件，由 main 组装
type Deps struct {
	Services    *service.Services
	Selection   *state.Selection
	Preferences *state.Preferences
	Panel       *state.Panel
	Workspace   *workspace.Workspace
	Configs     *configeditor.Manager
	Bus         *refresh.Bus
	Notifier    notification.Notifier
}

// Setup 设置路由
func Setup(cfg *config.Config, deps *Deps, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSOrigins))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger API 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	svc := deps.Services
	paginator := pagination.NewPaginator(deps.Preferences)
	feedback := handler.NewFeedback(deps.Bus, deps.Notifier, logger)

	// 初始化Handler
	projectHandler := handler.NewProjectHandler(svc.Projects, deps.Selection, feedback)
	sourceDbHandler := handler.NewSourceDbHandler(svc.SourceDbs, deps.Selection, paginator, feedback)
	targetHandler := handler.NewTargetHandler(svc.Targets, svc.Mappings, deps.Selection, paginator, feedback)
	mappingHandler := handler.NewMappingHandler(svc.Mappings, svc.SourceDbs, deps.Selection, paginator, feedback)
	waveHandler := handler.NewWaveHandler(svc.Waves, deps.Selection, paginator, feedback, logger)
	labelHandler := handler.NewLabelHandler(svc.Labels, deps.Selection, feedback)
	configHandler := handler.NewConfigEditorHandler(deps.Configs, feedback)
	operationHandler := handler.NewOperationHandler(svc.DeploymentHistory, paginator)
	taskHandler := handler.NewScheduledTaskHandler(svc.ScheduleRestore, deps.Selection, feedback)
	softwareHandler := handler.NewSoftwareHandler(svc.SoftwareLibrary, feedback)
	metadataHandler := handler.NewMetadataHandler(svc.Metadata)
	stateHandler := handler.NewStateHandler(deps.Selection, deps.Preferences, deps.Panel, deps.Workspace, paginator, svc.Projects)
	eventHandler := handler.NewEventHandler(deps.Bus, logger)

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 项目
		projects := v1.Group("/projects")
		{
			projects.GET("", projectHandler.List)
			projects.POST("", projectHandler.Create)
			projects.GET("/:id", projectHandler.Get)
			projects.PUT("/:id", projectHandler.Update)
			projects.DELETE("/:id", projectHandler.Delete)
		}

		// 源库及其配置、标签
		sourceDbs := v1.Group("/source-dbs")
		{
			sourceDbs.GET("", sourceDbHandler.List)
			sourceDbs.POST("/migvisor", sourceDbHandler.UploadMigvisor) // 导入 Migvisor 评估结果
			sourceDbs.GET("/:id", sourceDbHandler.Get)
			sourceDbs.PUT("/:id", sourceDbHandler.Update)

			sourceDbs.GET("/:id/labels", labelHandler.ListForDb)
			sourceDbs.POST("/:id/labels", labelHandler.AttachToDb)
			sourceDbs.DELETE("/:id/labels/:label_id", labelHandler.DetachFromDb)

			sourceDbs.GET("/:id/config", configHandler.Get)
			sourceDbs.POST("/:id/config/reload", configHandler.Reload)
			sourceDbs.PUT("/:id/config/draft", configHandler.Edit)
			sourceDbs.DELETE("/:id/config/draft", configHandler.Discard)
			sourceDbs.POST("/:id/config/submit", configHandler.Submit)
		}

		// 目标机
		targets := v1.Group("/targets")
		{
			targets.GET("", targetHandler.List)
			targets.POST("", targetHandler.Create)
			targets.GET("/:id", targetHandler.Get)
			targets.PUT("/:id", targetHandler.Update)
			targets.DELETE("/:id", targetHandler.Delete)
		}

		// 映射
		mappings := v1.Group("/mappings")
		{
			mappings.GET("", mappingHandler.List) // project 维度或 db_id 维度
			mappings.POST("", mappingHandler.Create)
			mappings.PUT("/:id", mappingHandler.Update)
		}

		// 波次
		waves := v1.Group("/waves")
		{
			waves.GET("", waveHandler.List)
			waves.POST("", waveHandler.Create)
			waves.GET("/:id", waveHandler.Get)
			waves.PUT("/:id", waveHandler.Update)
			waves.DELETE("/:id", waveHandler.Delete)
			waves.POST("/:id/operations", waveHandler.StartOperation)
			waves.GET("/:id/export", waveHandler.Export)
		}

		// 标签
		labels := v1.Group("/labels")
		{
			labels.GET("", labelHandler.List)
			labels.POST("", labelHandler.Create)
			labels.PUT("/:id", labelHandler.Update)
			labels.DELETE("/:id", labelHandler.Delete)
		}

		// 部署历史
		v1.GET("/operations", operationHandler.List)
		v1.GET("/operations/:id", operationHandler.Get)

		// 定时恢复任务
		tasks := v1.Group("/scheduled-tasks")
		{
			tasks.GET("", taskHandler.List)
			tasks.POST("", taskHandler.Create)
			tasks.GET("/:id", taskHandler.Get)
			tasks.PUT("/:id", taskHandler.Update)
			tasks.DELETE("/:id", taskHandler.Delete)
		}

		// 软件库
		software := v1.Group("/software-library")
		{
			software.GET("", softwareHandler.List)
			software.POST("", softwareHandler.Create)
			software.GET("/:id", softwareHandler.Get)
			software.PUT("/:id", softwareHandler.Update)
			software.DELETE("/:id", softwareHandler.Delete)
		}

		// 元数据
		v1.GET("/metadata", metadataHandler.Get)
		v1.GET("/metadata/settings", metadataHandler.Settings)
		v1.GET("/metadata/wave-steps", metadataHandler.WaveSteps)

		// 控制台本地状态
		v1.GET("/selection/project", stateHandler.GetSelection)
		v1.PUT("/selection/project", stateHandler.SelectProject)
		v1.DELETE("/selection/project", stateHandler.ClearSelection)
		v1.GET("/preferences", stateHandler.GetPreferences)
		v1.PUT("/preferences", stateHandler.UpdatePreferences)
		v1.GET("/panel", stateHandler.GetPanel)
		v1.PUT("/panel", stateHandler.OpenPanel)
		v1.DELETE("/panel", stateHandler.ClosePanel)
		v1.GET("/workspace", stateHandler.Workspace)
		v1.GET("/pagination/label", stateHandler.PaginationLabel)

		// 刷新信号与提示（SSE）
		v1.GET("/events", eventHandler.Stream)
	}

	return r
}
