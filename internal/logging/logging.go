package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Level 日志级别
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// ParseLevel 解析级别名称，无法识别时为 info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// Factory 日志通道工厂
type Factory struct {
	mu       sync.Mutex
	out      *log.Logger
	level    Level
	channels map[string]*Channel
}

// NewFactory 创建写入 w 的工厂
func NewFactory(w io.Writer, level Level) *Factory {
	return &Factory{
		out:      log.New(w, "", log.LstdFlags),
		level:    level,
		channels: make(map[string]*Channel),
	}
}

// Open 按配置打开日志，file 为空时只写标准错误
func Open(level, file string) (*Factory, io.Closer, error) {
	if file == "" {
		return NewFactory(os.Stderr, ParseLevel(level)), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return NewFactory(io.MultiWriter(os.Stderr, f), ParseLevel(level)), f, nil
}

// Get 返回命名通道
func (f *Factory) Get(name string) *Channel {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ch, ok := f.channels[name]; ok {
		return ch
	}
	ch := &Channel{name: name, factory: f}
	f.channels[name] = ch
	return ch
}

// Channel 日志通道
type Channel struct {
	name    string
	factory *Factory
}

// Error 记录错误
func (c *Channel) Error(message string, context map[string]interface{}) {
	c.log(LevelError, message, context)
}

// Warn 记录警告
func (c *Channel) Warn(message string, context map[string]interface{}) {
	c.log(LevelWarn, message, context)
}

// Info 记录信息
func (c *Channel) Info(message string, context map[string]interface{}) {
	c.log(LevelInfo, message, context)
}

// Debug 记录调试信息
func (c *Channel) Debug(message string, context map[string]interface{}) {
	c.log(LevelDebug, message, context)
}

func (c *Channel) log(level Level, message string, context map[string]interface{}) {
	if level < c.factory.level {
		return
	}
	c.factory.out.Printf("%s [%s] %s%s", levelNames[level], c.name, message, formatContext(context))
}

func formatContext(context map[string]interface{}) string {
	if len(context) == 0 {
		return ""
	}

	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, context[k])
	}
	return b.String()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
