package dsl

import (
	"fmt"
	"sync"
)

// Loader DSL 加载器
type Loader struct {
	parser *Parser
	schema *OntologySchema
	mu     sync.RWMutex
}

// NewLoader 创建新的加载器
func NewLoader(filePath string) *Loader {
	return &Loader{
		parser: NewParser(filePath),
	}
}

// Load 加载并验证 Schema
func (l *Loader) Load() error {
	schema, err := l.parser.Parse()
	if err != nil {
		return fmt.Errorf("failed to parse schema: %w", err)
	}
	return l.LoadSchema(schema)
}

// LoadSchema 验证并使用已解析的 Schema
func (l *Loader) LoadSchema(schema *OntologySchema) error {
	if err := NewValidator(schema).Validate(); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.schema = schema
	return nil
}

// GetSchema 获取当前 Schema
func (l *Loader) GetSchema() *OntologySchema {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.schema
}

// Reload 重新加载 Schema（用于热重载）
func (l *Loader) Reload() error {
	return l.Load()
}

// GetObjectType 根据名称获取对象类型
func (l *Loader) GetObjectType(name string) (*ObjectType, error) {
	schema := l.GetSchema()
	if schema == nil {
		return nil, fmt.Errorf("schema not loaded")
	}

	for i := range schema.ObjectTypes {
		if schema.ObjectTypes[i].Name == name {
			return &schema.ObjectTypes[i], nil
		}
	}

	return nil, fmt.Errorf("object type '%s' not found", name)
}

// ListObjectTypes 列出所有对象类型
func (l *Loader) ListObjectTypes() []ObjectType {
	schema := l.GetSchema()
	if schema == nil {
		return []ObjectType{}
	}

	result := make([]ObjectType, len(schema.ObjectTypes))
	copy(result, schema.ObjectTypes)
	return result
}

// HasViewMode 对象类型是否声明了视图模式
func (l *Loader) HasViewMode(objectType, viewMode string) bool {
	ot, err := l.GetObjectType(objectType)
	if err != nil {
		return false
	}
	return ot.declaresViewMode(viewMode)
}

// ViewModeOptions 视图模式名称到标签的映射
func (l *Loader) ViewModeOptions(objectType string) map[string]string {
	options := make(map[string]string)
	ot, err := l.GetObjectType(objectType)
	if err != nil {
		return options
	}
	for _, vm := range ot.ViewModes {
		options[vm.Name] = vm.Label
	}
	return options
}

// GetDisplay 对象类型在视图模式下的字段显示，未配置时返回空显示
func (l *Loader) GetDisplay(objectType, viewMode string) Display {
	ot, err := l.GetObjectType(objectType)
	if err != nil {
		return Display{}
	}
	return ot.Displays[viewMode]
}

// GetLinkType 根据名称获取关系类型
func (l *Loader) GetLinkType(name string) (*LinkType, error) {
	schema := l.GetSchema()
	if schema == nil {
		return nil, fmt.Errorf("schema not loaded")
	}

	for i := range schema.LinkTypes {
		if schema.LinkTypes[i].Name == name {
			return &schema.LinkTypes[i], nil
		}
	}

	return nil, fmt.Errorf("link type '%s' not found", name)
}

// ListLinkTypes 列出所有关系类型
func (l *Loader) ListLinkTypes() []LinkType {
	schema := l.GetSchema()
	if schema == nil {
		return []LinkType{}
	}

	result := make([]LinkType, len(schema.LinkTypes))
	copy(result, schema.LinkTypes)
	return result
}

// GetOutgoingLinks 获取以该类型为源的引用字段
func (l *Loader) GetOutgoingLinks(objectTypeName string) []LinkType {
	var result []LinkType
	for _, lt := range l.ListLinkTypes() {
		if lt.SourceType == objectTypeName {
			result = append(result, lt)
		}
	}
	return result
}

// GetIncomingLinks 获取以该类型为目标的引用字段
func (l *Loader) GetIncomingLinks(objectTypeName string) []LinkType {
	var result []LinkType
	for _, lt := range l.ListLinkTypes() {
		if lt.TargetType == objectTypeName {
			result = append(result, lt)
		}
	}
	return result
}

// GetBlock 根据 ID 获取区块配置
func (l *Loader) GetBlock(id string) (*Block, error) {
	schema := l.GetSchema()
	if schema == nil {
		return nil, fmt.Errorf("schema not loaded")
	}

	for i := range schema.Blocks {
		if schema.Blocks[i].ID == id {
			return &schema.Blocks[i], nil
		}
	}

	return nil, fmt.Errorf("block '%s' not found", id)
}

// ListBlocks 列出所有区块
func (l *Loader) ListBlocks() []Block {
	schema := l.GetSchema()
	if schema == nil {
		return []Block{}
	}

	result := make([]Block, len(schema.Blocks))
	copy(result, schema.Blocks)
	return result
}
