package render

import (
	"regexp"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	filtersOnce sync.Once

	policyOnce sync.Once
	policy     *bluemonday.Policy

	classUnsafe = regexp.MustCompile(`[^a-z0-9_-]+`)
)

// Sanitize 清理用户提交的富文本
func Sanitize(raw string) string {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return strings.TrimSpace(policy.Sanitize(raw))
}

// ClassName 把任意字符串转换为可用的 CSS 类名
func ClassName(s string) string {
	cleaned := classUnsafe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(cleaned, "-")
}

func registerFilters() {
	filtersOnce.Do(func() {
		if !pongo2.FilterExists("sanitize") {
			_ = pongo2.RegisterFilter("sanitize", filterSanitize)
		}
		if !pongo2.FilterExists("classname") {
			_ = pongo2.RegisterFilter("classname", filterClassName)
		}
	})
}

func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsSafeValue(Sanitize(in.String())), nil
}

func filterClassName(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(ClassName(in.String())), nil
}
