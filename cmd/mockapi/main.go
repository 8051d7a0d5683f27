package main

import (
	"flag"
	"os"
	"syscall"

	"github.com/petshop-next/internal/app"
	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/mockapi"

	"github.com/gin-gonic/gin"
)

// 本地开发用的模拟后端，写入演示门店与商品目录
func main() {
	var seed bool
	flag.BoolVar(&seed, "seed", true, "启动时写入演示门店与商品")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := mockapi.New(mockapi.Options{
		JWTSecret:    cfg.MockAPI.JWTSecret,
		TenantHeader: cfg.API.TenantHeader,
	})
	if seed {
		tenant := server.SeedDemo()
		logger.Infow("mockapi_seeded", "tenant_id", tenant.ID, "slug", tenant.Slug)
	}

	addr := cfg.MockAPI.Host + ":" + cfg.MockAPI.Port
	logger.Infow("mockapi_start", "addr", addr, "base_url", "http://"+addr+"/api")
	runner := app.NewRunner(app.NewHTTPService(addr, server.Handler()))
	if err := app.RunWithOptions(runner, app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}); err != nil {
		stdLog.Fatalf("模拟后端运行失败: %v", err)
	}
}
