package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"xsmb-bot/internal/ai"
	"xsmb-bot/internal/cache"
	"xsmb-bot/internal/config"
	"xsmb-bot/internal/crawler"
	"xsmb-bot/internal/database"
	"xsmb-bot/internal/logger"
	"xsmb-bot/internal/scheduler"
	"xsmb-bot/internal/server"
	"xsmb-bot/internal/telegram"
)

// defaultCacheSize 内存缓存最大条目数
const defaultCacheSize = 1000

// App 应用程序主结构
type App struct {
	config      *config.Config
	store       database.Store
	memCache    *cache.MemoryCache
	crawler     *crawler.Crawler
	aiSvc       *ai.Service
	apiServer   *server.Server
	scheduler   *scheduler.Scheduler
	telegramBot *telegram.Bot
}

// NewApp 创建应用程序实例
func NewApp(configPath string) (*App, error) {
	// 加载配置
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}

	// 初始化日志
	logger.InitLogger(cfg.App.LogLevel)
	fmt.Println("🎰 启动XSMB彩票预测服务...")

	// 初始化存储，未配置数据库时使用内存存储
	var store database.Store
	if cfg.Database.Host != "" {
		mysql, err := database.NewMySQLDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %v", err)
		}
		store = mysql
		fmt.Println("✅ 数据库连接成功")
		fmt.Println("✅ 数据库表结构初始化完成")
	} else {
		store = database.NewMemoryStore()
		fmt.Println("⚠️ 未配置数据库，使用内存存储")
	}

	// 初始化缓存
	memCache := cache.NewMemoryCache(defaultCacheSize)
	fmt.Println("✅ 缓存系统初始化完成")

	// 初始化抓取器与预测服务
	crawl := crawler.NewCrawler(&cfg.Crawl, store)
	aiSvc := ai.NewService(&cfg.AI, store, memCache)

	// 初始化Telegram机器人，未配置token时不启用
	var bot *telegram.Bot
	if cfg.Telegram.Token != "" {
		bot, err = telegram.NewBot(&cfg.Telegram, store, aiSvc)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telegram bot: %v", err)
		}
		fmt.Println("✅ Telegram机器人连接成功")
	}

	// 初始化API服务与调度器
	apiServer := server.NewServer(cfg, store, crawl, aiSvc, memCache)

	var broadcaster scheduler.Broadcaster
	if bot != nil {
		broadcaster = bot
	}
	sched := scheduler.NewScheduler(crawl, aiSvc, store, broadcaster)

	app := &App{
		config:      cfg,
		store:       store,
		memCache:    memCache,
		crawler:     crawl,
		aiSvc:       aiSvc,
		apiServer:   apiServer,
		scheduler:   sched,
		telegramBot: bot,
	}

	fmt.Println("🎯 应用程序初始化完成")
	return app, nil
}

// Start 启动所有服务
func (a *App) Start() error {
	fmt.Println("🔄 启动所有服务...")

	if err := a.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %v", err)
	}

	if a.telegramBot != nil {
		a.telegramBot.Start()
	}

	// API服务在前台阻塞运行
	go func() {
		if err := a.apiServer.Start(); err != nil {
			logger.Errorf("API server error: %v", err)
		}
	}()

	fmt.Println("✅ 所有服务启动完成")
	fmt.Printf("📡 API服务监听: %s\n", a.config.Server.Listen)
	fmt.Println("⏰ 每日18:35(越南时间)自动更新开奖结果")
	fmt.Println("💡 按 Ctrl+C 停止程序")
	fmt.Println("")
	return nil
}

// Stop 停止所有服务
func (a *App) Stop() error {
	fmt.Println("🛑 正在停止应用程序...")

	a.scheduler.Stop()

	if a.telegramBot != nil {
		a.telegramBot.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.apiServer.Shutdown(ctx); err != nil {
		logger.Errorf("Failed to shut down API server: %v", err)
	}

	if err := a.store.Close(); err != nil {
		logger.Errorf("Failed to close store: %v", err)
	}

	fmt.Println("✅ 应用程序已停止")
	return nil
}

func main() {
	configPath := "configs/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	app, err := NewApp(configPath)
	if err != nil {
		fmt.Printf("❌ 初始化失败: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		fmt.Printf("❌ 启动失败: %v\n", err)
		os.Exit(1)
	}

	// 等待退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if err := app.Stop(); err != nil {
		fmt.Printf("❌ 停止时出错: %v\n", err)
		os.Exit(1)
	}
}
