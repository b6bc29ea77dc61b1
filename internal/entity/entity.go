package entity

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound 实体不存在
	ErrNotFound = errors.New("entity not found")
	// ErrUnknownType 实体类型未定义
	ErrUnknownType = errors.New("unknown entity type")
)

// Entity 内容实体
// 类型相关的行为（标题、路径、渲染）都由存储和渲染协作者提供，Entity 只携带类型标签和数据。
type Entity struct {
	Type      string                 `json:"entity_type"`
	Bundle    string                 `json:"bundle"`
	ID        string                 `json:"id"`
	Langcode  string                 `json:"langcode"`
	Title     string                 `json:"title"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// DefaultLangcode 未指定语言时使用
const DefaultLangcode = "und"

// Meta 记录中的保留字段
var Meta = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// FromRecord 从存储记录构造实体
// labelProperty 和 bundleProperty 为空时分别回退到 "title" 和实体类型名。
func FromRecord(entityType string, record map[string]interface{}, labelProperty, bundleProperty string) (*Entity, error) {
	id, _ := record["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("record of type '%s' has no id", entityType)
	}

	e := &Entity{
		Type:     entityType,
		ID:       id,
		Bundle:   entityType,
		Langcode: DefaultLangcode,
		Data:     make(map[string]interface{}, len(record)),
	}

	for k, v := range record {
		if Meta[k] {
			continue
		}
		e.Data[k] = v
	}

	if bundleProperty != "" {
		if b, ok := record[bundleProperty].(string); ok && b != "" {
			e.Bundle = b
		}
	}
	if lc, ok := record["langcode"].(string); ok && lc != "" {
		e.Langcode = lc
	}

	e.Title = labelOf(record, labelProperty)
	if e.Title == "" {
		e.Title = id
	}

	e.CreatedAt = parseTime(record["created_at"])
	e.UpdatedAt = parseTime(record["updated_at"])

	return e, nil
}

// Ref 返回实体标识
func (e *Entity) Ref() Ref {
	return Ref{Type: e.Type, ID: e.ID}
}

// Ref 实体标识，(Type, ID) 在存储中唯一
type Ref struct {
	Type string `json:"entity_type"`
	ID   string `json:"entity_id"`
}

func (r Ref) String() string {
	return r.Type + "/" + r.ID
}

func labelOf(record map[string]interface{}, labelProperty string) string {
	candidates := []string{"title", "name", "label"}
	if labelProperty != "" {
		candidates = append([]string{labelProperty}, candidates...)
	}
	for _, key := range candidates {
		if v, ok := record[key]; ok && v != nil {
			if s := fmt.Sprint(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func parseTime(v interface{}) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
