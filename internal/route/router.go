package route

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	"entityoverlay/internal/overlay"
)

var (
	// ErrUnknownRoute 路由未注册
	ErrUnknownRoute = errors.New("route not found")
	// ErrMissingParam 缺少路由参数
	ErrMissingParam = errors.New("missing route parameter")
)

var paramPattern = regexp.MustCompile(`\{([\p{L}_][\p{L}\p{N}_]*)\}`)

// Table 命名路由表
type Table struct {
	mu     sync.RWMutex
	routes map[string]string
}

// NewTable 创建路由表
func NewTable() *Table {
	return &Table{routes: make(map[string]string)}
}

// Register 注册命名路由，pattern 形如 /article/{article}
func (t *Table) Register(name, pattern string) error {
	if name == "" {
		return fmt.Errorf("route name is required")
	}
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("route '%s': pattern must start with '/'", name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[name] = pattern
	return nil
}

// Pattern 返回路由模板
func (t *Table) Pattern(name string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	pattern, ok := t.routes[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}
	return pattern, nil
}

// ToPath 用参数生成路径
func (t *Table) ToPath(name string, params map[string]string) (string, error) {
	pattern, err := t.Pattern(name)
	if err != nil {
		return "", err
	}

	var missing []string
	path := paramPattern.ReplaceAllStringFunc(pattern, func(m string) string {
		key := m[1 : len(m)-1]
		value, ok := params[key]
		if !ok || value == "" {
			missing = append(missing, key)
			return m
		}
		return url.PathEscape(value)
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: route '%s' needs %s", ErrMissingParam, name, strings.Join(missing, ", "))
	}
	return path, nil
}

// GinPattern 把路由模板转换为 gin 的参数写法
func (t *Table) GinPattern(name string) (string, error) {
	pattern, err := t.Pattern(name)
	if err != nil {
		return "", err
	}
	return paramPattern.ReplaceAllString(pattern, ":$1"), nil
}

// Names 返回已注册的路由名
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.routes))
	for name := range t.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OverlayPattern 浮层响应路由模板
const OverlayPattern = "/entity-overlay/{method}/{entity_type_id}/{entity_id}/{view_mode}"

// NewOverlayTable 注册浮层路由和每个实体类型的规范页面路由
func NewOverlayTable(entityTypes ...string) (*Table, error) {
	t := NewTable()
	if err := t.Register(overlay.RouteOverlay, OverlayPattern); err != nil {
		return nil, err
	}
	for _, entityType := range entityTypes {
		pattern := fmt.Sprintf("/%s/{%s}", entityType, entityType)
		if err := t.Register(overlay.CanonicalRoute(entityType), pattern); err != nil {
			return nil, err
		}
	}
	return t, nil
}
