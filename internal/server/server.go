package server

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	v2 "github.com/Storbiic/ETL-Automated-Tool/internal/api/v2"
	"github.com/Storbiic/ETL-Automated-Tool/internal/config"
	"github.com/Storbiic/ETL-Automated-Tool/internal/insights"
	"github.com/Storbiic/ETL-Automated-Tool/internal/session"
	"github.com/Storbiic/ETL-Automated-Tool/internal/store"
)

// Server HTTP 服务器
type Server struct {
	router   *gin.Engine
	store    *store.Store
	sessions *session.Manager
	v2       *v2.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "etltool.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sessions := session.NewManager(session.Options{
		SampleSize: cfg.ETL.SampleSize,
		Thresholds: insights.Thresholds{
			LowMatchRate:     cfg.Insights.LowMatchRate,
			HighNotFoundRate: cfg.Insights.HighNotFoundRate,
		},
	})

	v2Handler := v2.NewHandler(sqliteStore, sessions, cfg.ETL,
		filepath.Join(dataDir, "uploads"), filepath.Join(dataDir, "exports"))

	s := &Server{
		router:   gin.Default(),
		store:    sqliteStore,
		sessions: sessions,
		v2:       v2Handler,
	}

	s.setupRoutes(devMode)

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// API 路由
	api := s.router.Group("/api")
	{
		s.v2.RegisterRoutes(api)
	}

	// 健康检查
	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ETL Automation Tool API is running",
			"version": v2.Version,
		})
	})

	if devMode {
		// 开发模式：未命中的路径代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭底层存储
func (s *Server) Close() error {
	return s.store.Close()
}

// Router 获取路由（用于测试）
func (s *Server) Router() *gin.Engine {
	return s.router
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
