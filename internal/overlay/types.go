package overlay

import (
	"errors"
	"fmt"
	"strings"

	"entityoverlay/internal/entity"
)

var (
	// ErrEntityNotFound 脚本模式下请求的实体不存在或类型无效
	ErrEntityNotFound = errors.New("overlay entity not found")
	// ErrPlaceholderMissing 路径模板中没有占位符，属于调用方错误
	ErrPlaceholderMissing = errors.New("overlay path has no entity id placeholder")
	// ErrInvalidTransport 无法识别的传输方式
	ErrInvalidTransport = errors.New("invalid overlay transport mode")
)

// 客户端库
const (
	LibraryBehaviors = "entity_overlay/behaviors"
	LibraryCommands  = "entity_overlay/commands"
)

// TransportMode 客户端能否执行后续的异步请求
type TransportMode string

const (
	// NoScript 客户端不能执行脚本，必须得到可导航的重定向
	NoScript TransportMode = "nojs"
	// Scripted 客户端会消费片段响应
	Scripted TransportMode = "ajax"
)

// ParseTransportMode 解析路由中的 method 参数
func ParseTransportMode(method string) (TransportMode, error) {
	switch TransportMode(strings.ToLower(strings.TrimSpace(method))) {
	case NoScript:
		return NoScript, nil
	case Scripted:
		return Scripted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTransport, method)
}

// EntityRef 待渲染实体的标识
type EntityRef = entity.Ref

// OverlayRequest 一次浮层调用的意图，每个请求构造一次，不持久化
type OverlayRequest struct {
	Transport TransportMode
	Target    EntityRef
	ViewMode  string
}

// EntityStore 实体存储协作者
type EntityStore interface {
	Load(entityType, entityID string) (*entity.Entity, error)
}

// ViewRenderer 视图渲染协作者，视图模式未知时返回错误
type ViewRenderer interface {
	Render(e *entity.Entity, viewMode, locale string) (*RenderedFragment, error)
}

// RouteResolver 路由到路径的协作者
type RouteResolver interface {
	ToPath(routeName string, params map[string]string) (string, error)
}

// Logger 诊断日志协作者
type Logger interface {
	Error(message string, context map[string]interface{})
}

// RenderedFragment 渲染结果
type RenderedFragment struct {
	Markup   string
	Attached Attachments
}

// Attachments 渲染结果附带的客户端库和设置
type Attachments struct {
	Libraries []string               `json:"libraries,omitempty"`
	Settings  map[string]interface{} `json:"settings,omitempty"`
}

// Merge 合并另一组附件，库去重，设置递归合并
func (a *Attachments) Merge(other Attachments) {
	for _, lib := range other.Libraries {
		if !containsString(a.Libraries, lib) {
			a.Libraries = append(a.Libraries, lib)
		}
	}
	if len(other.Settings) > 0 {
		if a.Settings == nil {
			a.Settings = make(map[string]interface{}, len(other.Settings))
		}
		MergeSettings(a.Settings, other.Settings)
	}
}

// Empty 是否没有任何附件
func (a Attachments) Empty() bool {
	return len(a.Libraries) == 0 && len(a.Settings) == 0
}

// MergeSettings 将 src 递归合并到 dst，嵌套 map 合并，其余值以 src 为准
func MergeSettings(dst, src map[string]interface{}) {
	for key, value := range src {
		incoming, ok := value.(map[string]interface{})
		if !ok {
			dst[key] = value
			continue
		}
		existing, ok := dst[key].(map[string]interface{})
		if !ok {
			existing = make(map[string]interface{}, len(incoming))
			dst[key] = existing
		}
		MergeSettings(existing, incoming)
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
