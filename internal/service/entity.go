package service

import (
	"errors"
	"fmt"

	"entityoverlay/internal/dsl"
	"entityoverlay/internal/entity"
	"entityoverlay/internal/overlay"
	"entityoverlay/internal/storage"
)

// ErrReservedID 与浮层路径占位符相同的实体 ID
var ErrReservedID = errors.New("reserved entity id")

// EntityService 实体服务
type EntityService struct {
	storage   *storage.EntityStorage
	loader    *dsl.Loader
	validator *DataValidator
}

// NewEntityService 创建实体服务
func NewEntityService(entityStorage *storage.EntityStorage, loader *dsl.Loader, validator *DataValidator) *EntityService {
	return &EntityService{
		storage:   entityStorage,
		loader:    loader,
		validator: validator,
	}
}

func (s *EntityService) objectType(name string) (*dsl.ObjectType, error) {
	ot, err := s.loader.GetObjectType(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnknownType, name)
	}
	return ot, nil
}

// Create 创建实体
func (s *EntityService) Create(entityType string, data map[string]interface{}) (string, error) {
	ot, err := s.objectType(entityType)
	if err != nil {
		return "", err
	}

	if id, ok := data["id"].(string); ok && id == overlay.Placeholder {
		return "", fmt.Errorf("%w: '%s'", ErrReservedID, id)
	}

	if err := s.validator.ValidateEntityData(ot, data); err != nil {
		return "", err
	}

	id, err := s.storage.CreateEntity(entityType, data)
	if err != nil {
		return "", fmt.Errorf("failed to create entity: %w", err)
	}
	return id, nil
}

// Load 加载实体，实现 overlay.EntityStore
func (s *EntityService) Load(entityType, id string) (*entity.Entity, error) {
	ot, err := s.objectType(entityType)
	if err != nil {
		return nil, err
	}

	record, err := s.storage.GetEntity(entityType, id)
	if err != nil {
		return nil, err
	}
	return entity.FromRecord(entityType, record, ot.LabelProperty, ot.BundleProperty)
}

// Update 更新实体，data 与现有数据合并后校验
func (s *EntityService) Update(entityType, id string, data map[string]interface{}) error {
	ot, err := s.objectType(entityType)
	if err != nil {
		return err
	}

	current, err := s.storage.GetEntity(entityType, id)
	if err != nil {
		return err
	}
	merged := make(map[string]interface{}, len(current)+len(data))
	for k, v := range current {
		if !entity.Meta[k] {
			merged[k] = v
		}
	}
	for k, v := range data {
		merged[k] = v
	}

	if err := s.validator.ValidateEntityData(ot, merged); err != nil {
		return err
	}
	return s.storage.UpdateEntity(entityType, id, data)
}

// Delete 删除实体
func (s *EntityService) Delete(entityType, id string) error {
	if _, err := s.objectType(entityType); err != nil {
		return err
	}
	return s.storage.DeleteEntity(entityType, id)
}

// List 按创建时间倒序列出实体，filters 非空时按字段过滤
func (s *EntityService) List(entityType string, offset, limit int, filters map[string]interface{}) ([]*entity.Entity, int64, error) {
	ot, err := s.objectType(entityType)
	if err != nil {
		return nil, 0, err
	}

	var records []storage.Record
	var total int64
	if len(filters) > 0 {
		all, err := s.storage.SearchEntities(entityType, filters)
		if err != nil {
			return nil, 0, err
		}
		total = int64(len(all))
		records = page(all, offset, limit)
	} else {
		records, total, err = s.storage.ListEntities(entityType, offset, limit)
		if err != nil {
			return nil, 0, err
		}
	}

	entities := make([]*entity.Entity, 0, len(records))
	for _, record := range records {
		e, err := entity.FromRecord(entityType, record, ot.LabelProperty, ot.BundleProperty)
		if err != nil {
			return nil, 0, err
		}
		entities = append(entities, e)
	}
	return entities, total, nil
}

func page(records []storage.Record, offset, limit int) []storage.Record {
	if offset >= len(records) {
		return []storage.Record{}
	}
	end := len(records)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return records[offset:end]
}
