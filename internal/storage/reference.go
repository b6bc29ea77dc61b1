package storage

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ErrReferenceNotFound 引用不存在
var ErrReferenceNotFound = errors.New("reference not found")

// ReferenceStorage 实体引用存储，每个引用字段一个目录
type ReferenceStorage struct {
	pathManager *PathManager
	mu          sync.RWMutex
}

// NewReferenceStorage 创建引用存储
func NewReferenceStorage(pathManager *PathManager) *ReferenceStorage {
	return &ReferenceStorage{
		pathManager: pathManager,
	}
}

// CreateReference 创建引用，delta 为在源实体字段中的位置
func (s *ReferenceStorage) CreateReference(field string, sourceID, targetID string, properties map[string]interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.byField(field, "source_id", sourceID)
	if err != nil {
		return "", err
	}

	id := uuid.New().String()
	ts := now()
	record := Record{
		"delta":      len(existing),
		"created_at": ts,
		"updated_at": ts,
	}
	for k, v := range properties {
		record[k] = v
	}
	record["id"] = id
	record["source_id"] = sourceID
	record["target_id"] = targetID

	if err := writeRecord(s.pathManager.GetReferencePath(field, id), record); err != nil {
		return "", err
	}
	return id, nil
}

// GetReference 获取引用
func (s *ReferenceStorage) GetReference(field string, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !ValidID(id) {
		return nil, fmt.Errorf("%w: %s/%s", ErrReferenceNotFound, field, id)
	}
	record, err := readRecord(s.pathManager.GetReferencePath(field, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrReferenceNotFound, field, id)
		}
		return nil, fmt.Errorf("failed to read reference: %w", err)
	}
	return record, nil
}

// DeleteReference 删除引用
func (s *ReferenceStorage) DeleteReference(field string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ValidID(id) {
		return fmt.Errorf("%w: %s/%s", ErrReferenceNotFound, field, id)
	}
	if err := os.Remove(s.pathManager.GetReferencePath(field, id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s/%s", ErrReferenceNotFound, field, id)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetReferencesBySource 源实体字段中的引用，按 delta 排序
func (s *ReferenceStorage) GetReferencesBySource(field string, sourceID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byField(field, "source_id", sourceID)
}

// GetReferencesByTarget 引用了目标实体的记录
func (s *ReferenceStorage) GetReferencesByTarget(field string, targetID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byField(field, "target_id", targetID)
}

func (s *ReferenceStorage) byField(field, key, value string) ([]Record, error) {
	records, err := readRecords(s.pathManager.GetReferenceDir(field))
	if err != nil {
		return nil, err
	}

	results := make([]Record, 0, len(records))
	for _, record := range records {
		if record[key] == value {
			results = append(results, record)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		di, dj := delta(results[i]), delta(results[j])
		if di != dj {
			return di < dj
		}
		ci, _ := results[i]["created_at"].(string)
		cj, _ := results[j]["created_at"].(string)
		return ci < cj
	})
	return results, nil
}

// delta JSON 解码后数字为 float64
func delta(record Record) int {
	switch d := record["delta"].(type) {
	case float64:
		return int(d)
	case int:
		return d
	}
	return 0
}
