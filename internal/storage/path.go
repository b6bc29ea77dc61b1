package storage

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)
	idPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// PathManager 路径管理器
type PathManager struct {
	dataRoot  string
	namespace string
}

// NewPathManager 创建路径管理器
func NewPathManager(dataRoot, namespace string) *PathManager {
	return &PathManager{
		dataRoot:  dataRoot,
		namespace: normalizeNamespace(namespace),
	}
}

// GetEntityPath 获取实体文件路径
func (pm *PathManager) GetEntityPath(entityType string, id string) string {
	return filepath.Join(pm.GetEntityDir(entityType), fmt.Sprintf("%s.json", id))
}

// GetEntityDir 获取实体目录
func (pm *PathManager) GetEntityDir(entityType string) string {
	return filepath.Join(pm.dataRoot, pm.namespace, normalizeName(entityType))
}

// GetReferencePath 获取引用文件路径
func (pm *PathManager) GetReferencePath(field string, id string) string {
	return filepath.Join(pm.GetReferenceDir(field), fmt.Sprintf("%s.json", id))
}

// GetReferenceDir 获取引用目录
func (pm *PathManager) GetReferenceDir(field string) string {
	return filepath.Join(pm.dataRoot, pm.namespace, "links", normalizeName(field))
}

// ValidID 记录 ID 只能包含字母、数字、下划线和连字符
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// normalizeNamespace 规范化命名空间
func normalizeNamespace(namespace string) string {
	if namespace == "" {
		return "default"
	}
	// 将命名空间中的点、冒号等替换为下划线
	return unsafeChars.ReplaceAllString(strings.ToLower(namespace), "_")
}

// normalizeName 规范化名称（用于文件名）
// 包含非ASCII字符的名称使用MD5哈希，纯ASCII名称转小写并替换特殊字符
func normalizeName(name string) string {
	for _, r := range name {
		if r > 127 {
			hash := md5.Sum([]byte(name))
			return hex.EncodeToString(hash[:])
		}
	}
	return unsafeChars.ReplaceAllString(strings.ToLower(name), "_")
}
