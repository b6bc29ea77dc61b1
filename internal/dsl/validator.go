package dsl

import (
	"fmt"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[\p{L}][\p{L}\p{N}_]*$`)

// 这些名称与服务的顶层路径冲突
var reservedTypeNames = map[string]bool{
	"api":    true,
	"assets": true,
	"blocks": true,
	"health": true,
}

var validCardinalities = map[string]bool{
	"one-to-one":   true,
	"one-to-many":  true,
	"many-to-one":  true,
	"many-to-many": true,
}

var knownFormatters = map[string]bool{
	FormatterRenderedOverlay: true,
	FormatterOverlayLink:     true,
}

// Validator DSL 验证器
type Validator struct {
	schema      *OntologySchema
	objectTypes map[string]*ObjectType
	linkTypes   map[string]*LinkType
}

// NewValidator 创建新的验证器
func NewValidator(schema *OntologySchema) *Validator {
	return &Validator{
		schema: schema,
	}
}

// Validate 验证 Schema
func (v *Validator) Validate() error {
	if err := v.validateSyntax(); err != nil {
		return err
	}
	if err := v.validateSemantics(); err != nil {
		return err
	}
	if err := v.validateDisplays(); err != nil {
		return err
	}
	return v.validateBlocks()
}

// validateSyntax 语法验证
func (v *Validator) validateSyntax() error {
	if v.schema.Version == "" {
		return fmt.Errorf("version is required")
	}

	v.objectTypes = make(map[string]*ObjectType)
	for i := range v.schema.ObjectTypes {
		ot := &v.schema.ObjectTypes[i]
		if !isValidName(ot.Name) {
			return fmt.Errorf("object_types[%d]: invalid name format '%s'", i, ot.Name)
		}
		if reservedTypeNames[strings.ToLower(ot.Name)] {
			return fmt.Errorf("object_types[%d]: name '%s' is reserved", i, ot.Name)
		}
		if _, exists := v.objectTypes[ot.Name]; exists {
			return fmt.Errorf("duplicate object type name: %s", ot.Name)
		}
		v.objectTypes[ot.Name] = ot

		if err := validateProperties("object_types["+ot.Name+"]", ot.Properties); err != nil {
			return err
		}

		modes := make(map[string]bool)
		for _, vm := range ot.ViewModes {
			if !isValidName(vm.Name) {
				return fmt.Errorf("object_types[%s]: invalid view mode name '%s'", ot.Name, vm.Name)
			}
			if modes[vm.Name] {
				return fmt.Errorf("object_types[%s]: duplicate view mode '%s'", ot.Name, vm.Name)
			}
			modes[vm.Name] = true
		}
	}

	v.linkTypes = make(map[string]*LinkType)
	for i := range v.schema.LinkTypes {
		lt := &v.schema.LinkTypes[i]
		if !isValidName(lt.Name) {
			return fmt.Errorf("link_types[%d]: invalid name format '%s'", i, lt.Name)
		}
		if _, exists := v.linkTypes[lt.Name]; exists {
			return fmt.Errorf("duplicate link type name: %s", lt.Name)
		}
		v.linkTypes[lt.Name] = lt

		if lt.SourceType == "" {
			return fmt.Errorf("link_types[%s]: source_type is required", lt.Name)
		}
		if lt.TargetType == "" {
			return fmt.Errorf("link_types[%s]: target_type is required", lt.Name)
		}
		if !validCardinalities[lt.Cardinality] {
			return fmt.Errorf("link_types[%s]: invalid cardinality '%s'", lt.Name, lt.Cardinality)
		}
		if err := validateProperties("link_types["+lt.Name+"]", lt.Properties); err != nil {
			return err
		}
	}

	return nil
}

// validateSemantics 语义验证
func (v *Validator) validateSemantics() error {
	for _, lt := range v.schema.LinkTypes {
		if _, exists := v.objectTypes[lt.SourceType]; !exists {
			return fmt.Errorf("link_type '%s': source_type '%s' does not exist", lt.Name, lt.SourceType)
		}
		if _, exists := v.objectTypes[lt.TargetType]; !exists {
			return fmt.Errorf("link_type '%s': target_type '%s' does not exist", lt.Name, lt.TargetType)
		}
	}
	return nil
}

// validateDisplays 验证字段显示配置
func (v *Validator) validateDisplays() error {
	for _, ot := range v.schema.ObjectTypes {
		for mode, display := range ot.Displays {
			if !ot.declaresViewMode(mode) {
				return fmt.Errorf("object_type '%s': display for undeclared view mode '%s'", ot.Name, mode)
			}
			for _, fd := range display.Fields {
				lt, exists := v.linkTypes[fd.Field]
				if !exists {
					return fmt.Errorf("object_type '%s'.display '%s': field '%s' does not exist", ot.Name, mode, fd.Field)
				}
				if lt.SourceType != ot.Name {
					return fmt.Errorf("object_type '%s'.display '%s': field '%s' belongs to '%s'", ot.Name, mode, fd.Field, lt.SourceType)
				}
				if !knownFormatters[fd.Formatter] {
					return fmt.Errorf("object_type '%s'.display '%s': unknown formatter '%s'", ot.Name, mode, fd.Formatter)
				}
				target := v.objectTypes[lt.TargetType]
				for _, vm := range []string{fd.Settings.ListViewMode, fd.Settings.OverlayViewMode} {
					if !target.declaresViewMode(vm) {
						return fmt.Errorf("object_type '%s'.display '%s': field '%s' uses view mode '%s' not declared on '%s'",
							ot.Name, mode, fd.Field, vm, target.Name)
					}
				}
			}
		}
	}
	return nil
}

// validateBlocks 验证区块配置
func (v *Validator) validateBlocks() error {
	ids := make(map[string]bool)
	for i, b := range v.schema.Blocks {
		if !isValidName(b.ID) {
			return fmt.Errorf("blocks[%d]: invalid id '%s'", i, b.ID)
		}
		if ids[b.ID] {
			return fmt.Errorf("duplicate block id: %s", b.ID)
		}
		ids[b.ID] = true

		ot, exists := v.objectTypes[b.ContentType]
		if !exists {
			return fmt.Errorf("block '%s': content_type '%s' does not exist", b.ID, b.ContentType)
		}
		if b.Items <= 0 {
			return fmt.Errorf("block '%s': items must be > 0", b.ID)
		}
		if b.ListType != "ul" && b.ListType != "ol" {
			return fmt.Errorf("block '%s': invalid list_type '%s'", b.ID, b.ListType)
		}
		for _, vm := range []string{b.ListViewMode, b.OverlayViewMode} {
			if !ot.declaresViewMode(vm) {
				return fmt.Errorf("block '%s': view mode '%s' not declared on '%s'", b.ID, vm, ot.Name)
			}
		}
	}
	return nil
}

func validateProperties(owner string, properties []Property) error {
	names := make(map[string]bool)
	for j, prop := range properties {
		if !isValidName(prop.Name) {
			return fmt.Errorf("%s.properties[%d]: invalid name format '%s'", owner, j, prop.Name)
		}
		if names[prop.Name] {
			return fmt.Errorf("%s: duplicate property name '%s'", owner, prop.Name)
		}
		names[prop.Name] = true

		if !isValidDataType(prop.DataType) {
			return fmt.Errorf("%s.properties[%s]: invalid data_type '%s'", owner, prop.Name, prop.DataType)
		}
		if err := validateConstraints(owner, prop); err != nil {
			return err
		}
	}
	return nil
}

// validateConstraints 验证属性约束本身是否合理
func validateConstraints(owner string, prop Property) error {
	c := prop.Constraints
	if c == nil {
		return nil
	}

	minLen, hasMin := c["min_length"].(int)
	maxLen, hasMax := c["max_length"].(int)
	if (hasMin && minLen < 0) || (hasMax && maxLen < 0) {
		return fmt.Errorf("%s.property '%s': length constraints must be >= 0", owner, prop.Name)
	}
	if hasMin && hasMax && maxLen < minLen {
		return fmt.Errorf("%s.property '%s': max_length must be >= min_length", owner, prop.Name)
	}
	if pattern, ok := c["pattern"].(string); ok {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%s.property '%s': invalid regex pattern: %w", owner, prop.Name, err)
		}
	}
	return nil
}

// isValidName 检查名称格式（字母开头，字母、数字、下划线）
func isValidName(name string) bool {
	return namePattern.MatchString(name)
}

// isValidDataType 检查数据类型是否有效
func isValidDataType(dataType string) bool {
	validTypes := map[string]bool{
		"string":   true,
		"text":     true,
		"html":     true,
		"int":      true,
		"float":    true,
		"bool":     true,
		"date":     true,
		"datetime": true,
		"json":     true,
		"array":    true,
	}

	// 支持 array<type> 格式
	if strings.HasPrefix(dataType, "array<") && strings.HasSuffix(dataType, ">") {
		innerType := strings.TrimPrefix(strings.TrimSuffix(dataType, ">"), "array<")
		return isValidDataType(innerType)
	}

	return validTypes[dataType]
}
