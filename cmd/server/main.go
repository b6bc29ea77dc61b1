package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"entityoverlay/internal/app"
	"entityoverlay/internal/config"
	"entityoverlay/internal/logging"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置 Gin 模式
	gin.SetMode(cfg.Server.Mode)

	logs, closer, err := logging.Open(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("Failed to open log: %v", err)
	}
	defer closer.Close()

	a, err := app.New(cfg, logs)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	schema := a.Loader.GetSchema()
	log.Printf("Schema loaded successfully: %d object types, %d reference fields, %d blocks",
		len(schema.ObjectTypes), len(schema.LinkTypes), len(schema.Blocks))

	// 启动服务器
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Printf("API available at http://localhost%s/api/v1", addr)
	if err := a.Router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
