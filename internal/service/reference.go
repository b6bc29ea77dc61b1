package service

import (
	"errors"
	"fmt"

	"entityoverlay/internal/dsl"
	"entityoverlay/internal/entity"
	"entityoverlay/internal/storage"
)

var (
	// ErrUnknownField 引用字段未定义
	ErrUnknownField = errors.New("unknown reference field")
	// ErrCardinality 单值字段已有引用
	ErrCardinality = errors.New("field accepts a single reference")
)

// ReferenceService 实体引用服务
type ReferenceService struct {
	storage   *storage.ReferenceStorage
	entities  *EntityService
	loader    *dsl.Loader
	validator *DataValidator
}

// NewReferenceService 创建引用服务
func NewReferenceService(referenceStorage *storage.ReferenceStorage, entities *EntityService, loader *dsl.Loader, validator *DataValidator) *ReferenceService {
	return &ReferenceService{
		storage:   referenceStorage,
		entities:  entities,
		loader:    loader,
		validator: validator,
	}
}

func (s *ReferenceService) field(name string) (*dsl.LinkType, error) {
	lt, err := s.loader.GetLinkType(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return lt, nil
}

// Create 创建引用，源实体和目标实体必须存在
func (s *ReferenceService) Create(field, sourceID, targetID string, properties map[string]interface{}) (string, error) {
	lt, err := s.field(field)
	if err != nil {
		return "", err
	}
	if sourceID == "" || targetID == "" {
		return "", fmt.Errorf("%w: source_id and target_id are required", ErrInvalidData)
	}

	if _, err := s.entities.Load(lt.SourceType, sourceID); err != nil {
		return "", fmt.Errorf("source: %w", err)
	}
	if _, err := s.entities.Load(lt.TargetType, targetID); err != nil {
		return "", fmt.Errorf("target: %w", err)
	}

	if lt.SingleValued() {
		existing, err := s.storage.GetReferencesBySource(field, sourceID)
		if err != nil {
			return "", err
		}
		if len(existing) > 0 {
			return "", fmt.Errorf("%w: %s on %s", ErrCardinality, field, sourceID)
		}
	}

	if properties == nil {
		properties = make(map[string]interface{})
	}
	if err := s.validator.ValidateReferenceData(lt, properties); err != nil {
		return "", err
	}

	id, err := s.storage.CreateReference(field, sourceID, targetID, properties)
	if err != nil {
		return "", fmt.Errorf("failed to create reference: %w", err)
	}
	return id, nil
}

// Get 获取引用
func (s *ReferenceService) Get(field, id string) (storage.Record, error) {
	if _, err := s.field(field); err != nil {
		return nil, err
	}
	return s.storage.GetReference(field, id)
}

// Delete 删除引用
func (s *ReferenceService) Delete(field, id string) error {
	if _, err := s.field(field); err != nil {
		return err
	}
	return s.storage.DeleteReference(field, id)
}

// ListBySource 源实体的引用，按 delta 排序
func (s *ReferenceService) ListBySource(field, sourceID string) ([]storage.Record, error) {
	if _, err := s.field(field); err != nil {
		return nil, err
	}
	return s.storage.GetReferencesBySource(field, sourceID)
}

// ListByTarget 指向目标实体的引用
func (s *ReferenceService) ListByTarget(field, targetID string) ([]storage.Record, error) {
	if _, err := s.field(field); err != nil {
		return nil, err
	}
	return s.storage.GetReferencesByTarget(field, targetID)
}

// ReferencedEntities 容器实体在字段中引用的实体，已删除的目标被跳过
func (s *ReferenceService) ReferencedEntities(container *entity.Entity, field dsl.LinkType) ([]*entity.Entity, error) {
	refs, err := s.storage.GetReferencesBySource(field.Name, container.ID)
	if err != nil {
		return nil, err
	}

	targets := make([]*entity.Entity, 0, len(refs))
	for _, ref := range refs {
		targetID, _ := ref["target_id"].(string)
		target, err := s.entities.Load(field.TargetType, targetID)
		if errors.Is(err, entity.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	return targets, nil
}

// DeleteForEntity 删除实体作为源或目标的所有引用
func (s *ReferenceService) DeleteForEntity(e *entity.Entity) error {
	for _, lt := range s.loader.GetOutgoingLinks(e.Type) {
		if err := s.deleteAll(lt.Name, s.storage.GetReferencesBySource, e.ID); err != nil {
			return err
		}
	}
	for _, lt := range s.loader.GetIncomingLinks(e.Type) {
		if err := s.deleteAll(lt.Name, s.storage.GetReferencesByTarget, e.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReferenceService) deleteAll(field string, find func(field, id string) ([]storage.Record, error), id string) error {
	refs, err := find(field, id)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		refID, _ := ref["id"].(string)
		if err := s.storage.DeleteReference(field, refID); err != nil && !errors.Is(err, storage.ErrReferenceNotFound) {
			return err
		}
	}
	return nil
}
