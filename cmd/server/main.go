package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atii-cms/internal/server/database"
	"atii-cms/internal/server/routes"
	"atii-cms/internal/server/services"
	"atii-cms/internal/shared/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	configFile  = flag.String("config", "configs/server.yaml", "配置文件路径")
	versionFlag = flag.Bool("version", false, "显示版本信息")
	help        = flag.Bool("help", false, "显示帮助信息")
	initDB      = flag.Bool("init", false, "初始化数据库和默认数据后退出")
)

// 这些变量可以在构建时通过-ldflags设置
var (
	version   string = "1.0.0"
	buildTime string = "unknown"
)

const (
	AppName = "ATII Backend API"

	shutdownTimeout = 10 * time.Second
)

func main() {
	flag.Parse()

	if *versionFlag {
		log.Printf("%s v%s (built at %s)", AppName, version, buildTime)
		return
	}

	if *help {
		flag.Usage()
		return
	}

	log.Printf("启动 %s v%s", AppName, version)

	// 加载配置
	cfg, err := config.LoadServerConfig(*configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	gin.SetMode(cfg.App.Mode)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	log.Printf("数据库路径: %s", cfg.Database.Path)

	if err := seed(db, cfg); err != nil {
		closeDatabase(db)
		log.Fatalf("初始化默认数据失败: %v", err)
	}

	if *initDB {
		log.Println("数据库初始化完成")
		closeDatabase(db)
		return
	}

	router := routes.SetupRoutes(cfg, db)

	server := &http.Server{
		Addr:           cfg.App.Listen,
		Handler:        router,
		ReadTimeout:    cfg.App.ReadTimeout,
		WriteTimeout:   cfg.App.WriteTimeout,
		IdleTimeout:    cfg.App.IdleTimeout,
		MaxHeaderBytes: cfg.App.MaxHeaderBytes << 20, // MB to bytes
	}

	go func() {
		log.Printf("HTTP服务器启动在 %s", cfg.App.Listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务器...")
	gracefulShutdown(server, db)
}

// seed 写入默认管理员并确保站点设置单例存在，必须在接收请求前完成
func seed(db *gorm.DB, cfg *config.ServerConfig) error {
	if err := database.Ping(db); err != nil {
		return err
	}
	if err := database.InitDefaultData(db, cfg); err != nil {
		return err
	}
	_, err := services.NewSettingsService(db).Get(context.Background())
	return err
}

// gracefulShutdown 优雅关闭服务器
func gracefulShutdown(server *http.Server, db *gorm.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP服务器关闭失败: %v", err)
	}

	closeDatabase(db)
	log.Println("服务器已关闭")
}

func closeDatabase(db *gorm.DB) {
	if err := database.Close(db); err != nil {
		log.Printf("关闭数据库连接失败: %v", err)
		return
	}
	log.Println("数据库连接已关闭")
}
