package dsl

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// 字段格式化器 ID
const (
	FormatterRenderedOverlay = "entity_reference_entity_overlay_view"
	FormatterOverlayLink     = "entity_reference_overlay"
)

// DefaultViewMode 每个对象类型都有的视图模式
const DefaultViewMode = "default"

// OntologySchema 表示完整的内容 Schema
type OntologySchema struct {
	Version     string       `yaml:"version"`
	Namespace   string       `yaml:"namespace,omitempty"`
	ObjectTypes []ObjectType `yaml:"object_types"`
	LinkTypes   []LinkType   `yaml:"link_types"`
	Blocks      []Block      `yaml:"blocks,omitempty"`
}

// ObjectType 表示实体类型定义
type ObjectType struct {
	Name           string             `yaml:"name" json:"name"`
	Description    string             `yaml:"description,omitempty" json:"description,omitempty"`
	LabelProperty  string             `yaml:"label_property,omitempty" json:"label_property,omitempty"`
	BundleProperty string             `yaml:"bundle_property,omitempty" json:"bundle_property,omitempty"`
	Properties     []Property         `yaml:"properties" json:"properties"`
	ViewModes      []ViewMode         `yaml:"view_modes,omitempty" json:"view_modes"`
	Displays       map[string]Display `yaml:"displays,omitempty" json:"displays,omitempty"`
}

// Property 表示属性定义
type Property struct {
	Name         string                 `yaml:"name" json:"name"`
	DataType     string                 `yaml:"data_type" json:"data_type"`
	Required     bool                   `yaml:"required" json:"required"`
	Description  string                 `yaml:"description,omitempty" json:"description,omitempty"`
	DefaultValue interface{}            `yaml:"default_value,omitempty" json:"default_value,omitempty"`
	Constraints  map[string]interface{} `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// ViewMode 视图模式，YAML 中可以只写名称
type ViewMode struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label,omitempty" json:"label"`
}

// UnmarshalYAML 支持 "teaser" 和 {name: teaser, label: Teaser} 两种写法
func (v *ViewMode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		v.Name = node.Value
		return nil
	}
	type plain ViewMode
	var p plain
	if err := node.Decode(&p); err != nil {
		return fmt.Errorf("invalid view mode: %w", err)
	}
	*v = ViewMode(p)
	return nil
}

// Display 某个视图模式下显示的引用字段
type Display struct {
	Fields []FieldDisplay `yaml:"fields" json:"fields"`
}

// FieldDisplay 引用字段的格式化器配置
type FieldDisplay struct {
	Field     string            `yaml:"field" json:"field"`
	Formatter string            `yaml:"formatter" json:"formatter"`
	Settings  FormatterSettings `yaml:"settings,omitempty" json:"settings"`
}

// FormatterSettings 格式化器设置
type FormatterSettings struct {
	ListViewMode    string `yaml:"list_view_mode,omitempty" json:"list_view_mode"`
	OverlayViewMode string `yaml:"overlay_view_mode,omitempty" json:"overlay_view_mode"`
}

// WithDefaults 填充未设置的视图模式
func (s FormatterSettings) WithDefaults() FormatterSettings {
	if s.ListViewMode == "" {
		s.ListViewMode = "teaser"
	}
	if s.OverlayViewMode == "" {
		s.OverlayViewMode = DefaultViewMode
	}
	return s
}

// LinkType 表示实体引用字段，source_type 的实体引用 target_type 的实体
type LinkType struct {
	Name        string     `yaml:"name" json:"name"`
	Label       string     `yaml:"label,omitempty" json:"label,omitempty"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	SourceType  string     `yaml:"source_type" json:"source_type"`
	TargetType  string     `yaml:"target_type" json:"target_type"`
	Cardinality string     `yaml:"cardinality" json:"cardinality"`
	Properties  []Property `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// SingleValued 每个源实体最多一个引用
func (lt LinkType) SingleValued() bool {
	return lt.Cardinality == "one-to-one" || lt.Cardinality == "many-to-one"
}

// Block 实体列表区块
type Block struct {
	ID              string `yaml:"id" json:"id"`
	Label           string `yaml:"label,omitempty" json:"label,omitempty"`
	Items           int    `yaml:"items,omitempty" json:"items"`
	ContentType     string `yaml:"content_type" json:"content_type"`
	ListViewMode    string `yaml:"list_view_mode,omitempty" json:"list_view_mode"`
	OverlayViewMode string `yaml:"overlay_view_mode,omitempty" json:"overlay_view_mode"`
	ListType        string `yaml:"list_type,omitempty" json:"list_type"`
	WrapperClass    string `yaml:"wrapper_class,omitempty" json:"wrapper_class"`
	ListClass       string `yaml:"list_class,omitempty" json:"list_class"`
	ItemClass       string `yaml:"item_class,omitempty" json:"item_class"`
}

// applyDefaults 填充 Schema 中可省略的配置
func (s *OntologySchema) applyDefaults() {
	for i := range s.ObjectTypes {
		ot := &s.ObjectTypes[i]
		if !ot.declaresViewMode(DefaultViewMode) {
			ot.ViewModes = append([]ViewMode{{Name: DefaultViewMode, Label: "Default"}}, ot.ViewModes...)
		}
		for j := range ot.ViewModes {
			if ot.ViewModes[j].Label == "" {
				ot.ViewModes[j].Label = ot.ViewModes[j].Name
			}
		}
		for mode, display := range ot.Displays {
			for j := range display.Fields {
				display.Fields[j].Settings = display.Fields[j].Settings.WithDefaults()
			}
			ot.Displays[mode] = display
		}
	}

	for i := range s.LinkTypes {
		if s.LinkTypes[i].Cardinality == "" {
			s.LinkTypes[i].Cardinality = "many-to-many"
		}
	}

	for i := range s.Blocks {
		b := &s.Blocks[i]
		if b.Items == 0 {
			b.Items = 3
		}
		if b.ListViewMode == "" {
			b.ListViewMode = "teaser"
		}
		if b.OverlayViewMode == "" {
			b.OverlayViewMode = "full"
		}
		if b.ListType == "" {
			b.ListType = "ul"
		}
		if b.ListClass == "" {
			b.ListClass = "entity_overlay"
		}
	}
}

func (ot *ObjectType) declaresViewMode(name string) bool {
	for _, vm := range ot.ViewModes {
		if vm.Name == name {
			return true
		}
	}
	return false
}
