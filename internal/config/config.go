package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig
	Schema    SchemaConfig
	Data      DataConfig
	Log       LogConfig
	Templates TemplatesConfig
	Overlay   OverlayConfig
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        string
	Mode        string
	CORSOrigins string
}

// SchemaConfig Schema 文件配置
type SchemaConfig struct {
	FilePath string
}

// DataConfig 数据存储配置
type DataConfig struct {
	RootPath string
}

// LogConfig 日志配置
type LogConfig struct {
	Level string
	File  string
}

// TemplatesConfig 模板配置，Dir 中的模板优先于内置模板
type TemplatesConfig struct {
	Dir string
}

// OverlayConfig 浮层对话框配置
type OverlayConfig struct {
	DialogWidth  int
	DialogHeight int
}

// Load 加载配置，.env 文件不存在时忽略
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Mode:        getEnv("SERVER_MODE", "debug"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Schema: SchemaConfig{
			FilePath: getEnv("SCHEMA_FILE_PATH", "./ontology/schema.yaml"),
		},
		Data: DataConfig{
			RootPath: getEnv("DATA_ROOT_PATH", "./data"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		Templates: TemplatesConfig{
			Dir: getEnv("TEMPLATES_DIR", ""),
		},
		Overlay: OverlayConfig{
			DialogWidth:  getEnvInt("OVERLAY_DIALOG_WIDTH", 800),
			DialogHeight: getEnvInt("OVERLAY_DIALOG_HEIGHT", 0),
		},
	}

	if config.Overlay.DialogWidth < 0 || config.Overlay.DialogHeight < 0 {
		return nil, fmt.Errorf("overlay dialog size must not be negative")
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}
