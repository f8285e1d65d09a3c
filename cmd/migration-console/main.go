package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"migration-console/internal/adapter/notification"
	"migration-console/internal/api/router"
	"migration-console/internal/core/configeditor"
	"migration-console/internal/core/refresh"
	"migration-console/internal/core/workspace"
	"migration-console/internal/pkg/config"
	"migration-console/internal/pkg/database"
	"migration-console/internal/pkg/httpclient"
	"migration-console/internal/pkg/logger"
	"migration-console/internal/repository"
	"migration-console/internal/scheduler"
	"migration-console/internal/service"
	"migration-console/internal/state"

	_ "migration-console/docs" // Swagger docs
)

// @title Migration Console API
// @version 1.0
// @description 数据库迁移控制台网关
// @description 代理迁移后端的项目、源库、目标机、映射、波次等资源，并维护当前项目、界面偏好等本地状态

// @host localhost:8080
// @BasePath /

var (
	configFile = flag.String("config", "", "配置文件路径 (例如: -config=configs/config.yaml)")
	version    = flag.Bool("version", false, "显示版本信息")
)

const (
	appVersion = "1.0.0"
	appName    = "migration-console"
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s version %s\n", appName, appVersion)
		os.Exit(0)
	}

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		fmt.Println("\n使用方式:")
		fmt.Println("  1. 命令行参数指定: ./migration-console -config=configs/config.yaml")
		fmt.Println("  2. 环境变量指定:   export CONFIG_FILE=configs/config.yaml")
		fmt.Println("  3. 默认路径:       configs/config.yaml")
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Close()
	}()
	logger.Info(fmt.Sprintf("Load config file: %s of %s", configPath, getConfigSource()))
	logger.Info(fmt.Sprintf("服务 %s 启动中...", appName), zap.String("version", appVersion))

	// 本地状态库
	db, err := database.Open(&cfg.State)
	if err != nil {
		logger.Fatal("初始化状态库失败", zap.Error(err))
	}
	defer func() {
		_ = database.Close(db)
	}()
	logger.Info("状态库就绪", zap.String("driver", cfg.State.Driver))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := refresh.NewBus(logger.Named("bus"))
	prefRepo := repository.NewPreferenceRepository(db)
	selection := state.NewSelection(prefRepo, bus, logger.Named("selection"))
	preferences := state.NewPreferences(prefRepo)
	panel := state.NewPanel(bus)

	// 后端客户端与资源服务
	client, err := httpclient.New(&cfg.Backend, logger.Named("backend"))
	if err != nil {
		logger.Fatal("初始化后端客户端失败", zap.Error(err))
	}
	services := service.NewServices(client)

	// 提示：浏览器 toast + 日志，可选转发到 Lark
	notifiers := []notification.Notifier{
		notification.NewBusNotifier(bus),
		notification.NewLogNotifier(logger.Named("notify")),
	}
	if cfg.Notification.Enabled && cfg.Notification.LarkWebhook != "" {
		notifiers = append(notifiers, notification.NewLarkNotifier(cfg.Notification.LarkWebhook, true, logger.Named("lark")))
	}
	notifier := notification.NewMultiNotifier(logger.Log, notifiers...)

	ws := workspace.New(services, selection, bus, logger.Named("workspace"))
	ws.Start(ctx)

	configs := configeditor.NewManager(services.ConfigEditors, services.SourceDbs, bus, logger.Named("config"))

	// sqlite 监听文件变化；mysql 由调度器定期同步当前项目
	watchFile := cfg.State.Driver == "sqlite" && cfg.State.Watch
	if watchFile {
		watcher, err := state.NewWatcher(cfg.State.Path, selection, logger.Named("watcher"))
		if err != nil {
			logger.Warn("监听状态文件失败，其他窗口的项目切换不会同步", zap.Error(err))
		} else {
			go watcher.Run(ctx)
		}
	}

	taskScheduler := scheduler.NewScheduler(services.Waves, selection, bus, notifier, logger.Named("scheduler"))
	if err := taskScheduler.Start(&cfg.Scheduler, cfg.State.Driver == "mysql"); err != nil {
		logger.Warn("定时任务调度器启动失败", zap.Error(err))
	}

	r := router.Setup(cfg, &router.Deps{
		Services:    services,
		Selection:   selection,
		Preferences: preferences,
		Panel:       panel,
		Workspace:   ws,
		Configs:     configs,
		Bus:         bus,
		Notifier:    notifier,
	}, logger.Log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		// 请求 context 随 ctx 取消，关闭时 SSE 连接可以及时退出
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info(fmt.Sprintf("%s 服务启动成功", cfg.Server.Name),
			zap.String("address", addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("backend", cfg.Backend.BaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务正在关闭...")

	taskScheduler.Stop()
	// 结束 SSE 连接与后台订阅
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务已关闭")
}

// getConfigPath 优先级: 命令行参数 > 环境变量 > 默认路径
func getConfigPath() string {
	if *configFile != "" {
		return *configFile
	}
	if envConfig := os.Getenv("CONFIG_FILE"); envConfig != "" {
		return envConfig
	}
	return "configs/config.yaml"
}

func getConfigSource() string {
	if *configFile != "" {
		return "命令行参数"
	}
	if os.Getenv("CONFIG_FILE") != "" {
		return "环境变量"
	}
	return "默认配置"
}
