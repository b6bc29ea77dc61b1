package service

import (
	"entityoverlay/internal/dsl"
	"entityoverlay/internal/formatter"
)

// SchemaService Schema 服务
type SchemaService struct {
	loader     *dsl.Loader
	formatters *formatter.Registry
}

// NewSchemaService 创建 Schema 服务
func NewSchemaService(loader *dsl.Loader, formatters *formatter.Registry) *SchemaService {
	return &SchemaService{
		loader:     loader,
		formatters: formatters,
	}
}

// FieldSummary 显示配置中一个字段的摘要
type FieldSummary struct {
	Field     string                `json:"field"`
	Formatter string                `json:"formatter"`
	Settings  dsl.FormatterSettings `json:"settings"`
	Summary   []string              `json:"summary"`
}

// GetObjectType 获取对象类型
func (s *SchemaService) GetObjectType(name string) (*dsl.ObjectType, error) {
	return s.loader.GetObjectType(name)
}

// ListObjectTypes 列出所有对象类型
func (s *SchemaService) ListObjectTypes() []dsl.ObjectType {
	return s.loader.ListObjectTypes()
}

// GetLinkType 获取引用字段
func (s *SchemaService) GetLinkType(name string) (*dsl.LinkType, error) {
	return s.loader.GetLinkType(name)
}

// ListLinkTypes 列出所有引用字段
func (s *SchemaService) ListLinkTypes() []dsl.LinkType {
	return s.loader.ListLinkTypes()
}

// GetOutgoingLinks 对象类型作为源的引用字段
func (s *SchemaService) GetOutgoingLinks(objectTypeName string) []dsl.LinkType {
	return s.loader.GetOutgoingLinks(objectTypeName)
}

// GetIncomingLinks 对象类型作为目标的引用字段
func (s *SchemaService) GetIncomingLinks(objectTypeName string) []dsl.LinkType {
	return s.loader.GetIncomingLinks(objectTypeName)
}

// ViewModeOptions 对象类型可用的视图模式
func (s *SchemaService) ViewModeOptions(objectTypeName string) (map[string]string, error) {
	if _, err := s.loader.GetObjectType(objectTypeName); err != nil {
		return nil, err
	}
	return s.loader.ViewModeOptions(objectTypeName), nil
}

// DisplaySummary 视图模式下各字段格式化器的设置摘要
func (s *SchemaService) DisplaySummary(objectTypeName, viewMode string) ([]FieldSummary, error) {
	if _, err := s.loader.GetObjectType(objectTypeName); err != nil {
		return nil, err
	}

	display := s.loader.GetDisplay(objectTypeName, viewMode)
	summaries := make([]FieldSummary, 0, len(display.Fields))
	for _, fd := range display.Fields {
		lt, err := s.loader.GetLinkType(fd.Field)
		if err != nil {
			return nil, err
		}
		f, err := s.formatters.Get(fd.Formatter)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, FieldSummary{
			Field:     fd.Field,
			Formatter: fd.Formatter,
			Settings:  fd.Settings,
			Summary:   f.Summary(fd.Settings, s.loader.ViewModeOptions(lt.TargetType)),
		})
	}
	return summaries, nil
}

// ListBlocks 列出所有区块
func (s *SchemaService) ListBlocks() []dsl.Block {
	return s.loader.ListBlocks()
}
