package storage

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"entityoverlay/internal/entity"
)

// timeLayout 固定长度，字符串顺序即时间顺序
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func now() string {
	return time.Now().UTC().Format(timeLayout)
}

// EntityStorage 实体存储
type EntityStorage struct {
	pathManager *PathManager
	mu          sync.RWMutex
}

// NewEntityStorage 创建实体存储
func NewEntityStorage(pathManager *PathManager) *EntityStorage {
	return &EntityStorage{
		pathManager: pathManager,
	}
}

// CreateEntity 创建实体，data 中带 id 时使用该 id，否则生成 UUID
func (s *EntityStorage) CreateEntity(entityType string, data map[string]interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, _ := data["id"].(string)
	if id == "" {
		id = uuid.New().String()
	}
	if !ValidID(id) {
		return "", fmt.Errorf("invalid entity id '%s'", id)
	}

	filePath := s.pathManager.GetEntityPath(entityType, id)
	if _, err := os.Stat(filePath); err == nil {
		return "", fmt.Errorf("entity %s/%s already exists", entityType, id)
	}

	ts := now()
	record := Record{
		"created_at": ts,
		"updated_at": ts,
	}
	for k, v := range data {
		record[k] = v
	}
	record["id"] = id

	if err := writeRecord(filePath, record); err != nil {
		return "", err
	}
	return id, nil
}

// GetEntity 获取实体记录
func (s *EntityStorage) GetEntity(entityType string, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(entityType, id)
}

func (s *EntityStorage) get(entityType string, id string) (Record, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: %s/%s", entity.ErrNotFound, entityType, id)
	}

	record, err := readRecord(s.pathManager.GetEntityPath(entityType, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", entity.ErrNotFound, entityType, id)
		}
		return nil, fmt.Errorf("failed to read entity: %w", err)
	}
	return record, nil
}

// UpdateEntity 更新实体，id 和 created_at 不可修改
func (s *EntityStorage) UpdateEntity(entityType string, id string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.get(entityType, id)
	if err != nil {
		return err
	}

	for k, v := range data {
		if k == "id" || k == "created_at" {
			continue
		}
		existing[k] = v
	}
	existing["updated_at"] = now()

	return writeRecord(s.pathManager.GetEntityPath(entityType, id), existing)
}

// DeleteEntity 删除实体
func (s *EntityStorage) DeleteEntity(entityType string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ValidID(id) {
		return fmt.Errorf("%w: %s/%s", entity.ErrNotFound, entityType, id)
	}
	if err := os.Remove(s.pathManager.GetEntityPath(entityType, id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s/%s", entity.ErrNotFound, entityType, id)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ListEntities 按创建时间倒序列出实体
func (s *EntityStorage) ListEntities(entityType string, offset, limit int) ([]Record, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := readRecords(s.pathManager.GetEntityDir(entityType))
	if err != nil {
		return nil, 0, err
	}
	sortLatestFirst(records)

	return paginate(records, offset, limit), int64(len(records)), nil
}

// SearchEntities 按字段值过滤（内存过滤）
func (s *EntityStorage) SearchEntities(entityType string, filters map[string]interface{}) ([]Record, error) {
	records, _, err := s.ListEntities(entityType, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return records, nil
	}

	var results []Record
	for _, record := range records {
		match := true
		for key, value := range filters {
			if fmt.Sprint(record[key]) != fmt.Sprint(value) {
				match = false
				break
			}
		}
		if match {
			results = append(results, record)
		}
	}
	return results, nil
}
