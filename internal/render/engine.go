package render

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates
var embeddedTemplates embed.FS

// ErrTemplateNotFound 候选模板都不存在
var ErrTemplateNotFound = errors.New("template not found")

// Option 配置渲染引擎
type Option func(*config)

type config struct {
	overrideDir string
}

// WithOverrideDir 优先从磁盘目录加载模板，找不到时回退到内置模板
func WithOverrideDir(dir string) Option {
	return func(cfg *config) {
		cfg.overrideDir = strings.TrimSpace(dir)
	}
}

// Engine pongo2 模板引擎
type Engine struct {
	mu sync.RWMutex

	set         *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	overrideDir string
	defaults    fs.FS
}

// New 创建模板引擎
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	defaults, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("render: open embedded templates: %w", err)
	}

	var loaders []pongo2.TemplateLoader
	if cfg.overrideDir != "" {
		if info, err := os.Stat(cfg.overrideDir); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("render: template directory %q is not readable", cfg.overrideDir)
		}
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.overrideDir)
		if err != nil {
			return nil, fmt.Errorf("render: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	loaders = append(loaders, pongo2.NewFSLoader(defaults))

	registerFilters()

	return &Engine{
		set:         pongo2.NewSet("entityoverlay", loaders...),
		templates:   make(map[string]*pongo2.Template),
		overrideDir: cfg.overrideDir,
		defaults:    defaults,
	}, nil
}

// Render 渲染指定模板
func (e *Engine) Render(name string, data map[string]interface{}) (string, error) {
	tmpl, err := e.getTemplate(name)
	if err != nil {
		return "", err
	}

	out, err := tmpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("render: execute template %q: %w", name, err)
	}
	return out, nil
}

// RenderFirst 渲染第一个存在的模板
func (e *Engine) RenderFirst(names []string, data map[string]interface{}) (string, error) {
	for _, name := range names {
		if e.Exists(name) {
			return e.Render(name, data)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, strings.Join(names, ", "))
}

// Exists 模板是否存在于覆盖目录或内置模板中
func (e *Engine) Exists(name string) bool {
	if e.overrideDir != "" {
		if info, err := os.Stat(filepath.Join(e.overrideDir, filepath.FromSlash(name))); err == nil && !info.IsDir() {
			return true
		}
	}
	info, err := fs.Stat(e.defaults, name)
	return err == nil && !info.IsDir()
}

func (e *Engine) getTemplate(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[name]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[name]; ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("render: load template %q: %w", name, err)
	}
	e.templates[name] = tmpl
	return tmpl, nil
}
