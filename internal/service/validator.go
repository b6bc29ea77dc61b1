package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"entityoverlay/internal/dsl"
)

// ErrInvalidData 实体或引用数据不符合 Schema
var ErrInvalidData = errors.New("invalid data")

// DataValidator 按 Schema 属性定义校验数据
type DataValidator struct {
	loader *dsl.Loader
}

// NewDataValidator 创建数据验证器
func NewDataValidator(loader *dsl.Loader) *DataValidator {
	return &DataValidator{
		loader: loader,
	}
}

// ValidateEntityData 校验实体数据，缺失的属性使用默认值
func (v *DataValidator) ValidateEntityData(objectType *dsl.ObjectType, data map[string]interface{}) error {
	return validateProperties(objectType.Properties, data)
}

// ValidateReferenceData 校验引用属性
func (v *DataValidator) ValidateReferenceData(linkType *dsl.LinkType, properties map[string]interface{}) error {
	return validateProperties(linkType.Properties, properties)
}

func validateProperties(props []dsl.Property, data map[string]interface{}) error {
	for _, prop := range props {
		value, exists := data[prop.Name]
		if !exists {
			if prop.DefaultValue != nil {
				data[prop.Name] = prop.DefaultValue
				continue
			}
			if prop.Required {
				return fmt.Errorf("%w: required field '%s' is missing", ErrInvalidData, prop.Name)
			}
			continue
		}

		if err := validateType(prop.DataType, value); err != nil {
			return fmt.Errorf("%w: field '%s': %v", ErrInvalidData, prop.Name, err)
		}
		if len(prop.Constraints) > 0 {
			if err := validateConstraints(prop, value); err != nil {
				return fmt.Errorf("%w: field '%s': %v", ErrInvalidData, prop.Name, err)
			}
		}
	}
	return nil
}

// validateType 检查 JSON 解码后的值与声明类型是否一致
func validateType(dataType string, value interface{}) error {
	if strings.HasPrefix(dataType, "array<") {
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("expected array")
		}
		return nil
	}

	switch dataType {
	case "string", "text", "html":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string")
		}
	case "int":
		n, ok := number(value)
		if !ok || n != float64(int64(n)) {
			return fmt.Errorf("expected int")
		}
	case "float":
		if _, ok := number(value); !ok {
			return fmt.Errorf("expected float")
		}
	case "bool":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected bool")
		}
	case "date":
		return parseAs(value, "2006-01-02", "YYYY-MM-DD")
	case "datetime":
		return parseAs(value, time.RFC3339, "RFC3339")
	case "json":
		return nil
	default:
		return fmt.Errorf("unknown data type: %s", dataType)
	}
	return nil
}

func parseAs(value interface{}, layout, name string) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected %s string", name)
	}
	if _, err := time.Parse(layout, str); err != nil {
		return fmt.Errorf("invalid format, expected %s", name)
	}
	return nil
}

// validateConstraints 长度、范围、正则、枚举约束
func validateConstraints(prop dsl.Property, value interface{}) error {
	c := prop.Constraints

	if str, ok := value.(string); ok {
		if min, ok := number(c["min_length"]); ok && float64(len(str)) < min {
			return fmt.Errorf("length must be >= %v", min)
		}
		if max, ok := number(c["max_length"]); ok && float64(len(str)) > max {
			return fmt.Errorf("length must be <= %v", max)
		}
		if pattern, ok := c["pattern"].(string); ok {
			matched, err := regexp.MatchString(pattern, str)
			if err != nil {
				return fmt.Errorf("invalid regex pattern: %w", err)
			}
			if !matched {
				return fmt.Errorf("does not match pattern")
			}
		}
	}

	if n, ok := number(value); ok {
		if min, ok := number(c["min"]); ok && n < min {
			return fmt.Errorf("value must be >= %v", min)
		}
		if max, ok := number(c["max"]); ok && n > max {
			return fmt.Errorf("value must be <= %v", max)
		}
	}

	if enum, ok := c["enum"].([]interface{}); ok {
		for _, e := range enum {
			if fmt.Sprint(e) == fmt.Sprint(value) {
				return nil
			}
		}
		options := make([]string, len(enum))
		for i, e := range enum {
			options[i] = fmt.Sprint(e)
		}
		return fmt.Errorf("value must be one of: %s", strings.Join(options, ", "))
	}

	return nil
}

// number YAML 解析出 int，JSON 解析出 float64
func number(value interface{}) (float64, bool) {
	switch n := value.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
