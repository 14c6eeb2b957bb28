package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/keurtrack/internal/core/inspection"
	"github.com/example/keurtrack/internal/ports/primary"
	"github.com/example/keurtrack/internal/ports/secondary"
)

// TypeServiceImpl implements the TypeService interface.
type TypeServiceImpl struct {
	typeRepo     secondary.TypeRepository
	activityRepo secondary.ActivityRepository
}

// NewTypeService creates a new TypeService with injected dependencies.
func NewTypeService(typeRepo secondary.TypeRepository, activityRepo secondary.ActivityRepository) *TypeServiceImpl {
	return &TypeServiceImpl{typeRepo: typeRepo, activityRepo: activityRepo}
}

// CreateType registers a new equipment type with its validity window.
func (s *TypeServiceImpl) CreateType(ctx context.Context, req primary.TypeRequest) (*primary.EquipmentType, error) {
	if req.Name == "" {
		return nil, inspection.Validationf("type name is required")
	}
	if req.ValidityDays < 0 {
		return nil, inspection.Validationf("validity days may not be negative")
	}
	if existing, err := s.typeRepo.GetByName(ctx, req.Name); err != nil {
		return nil, fmt.Errorf("failed to check type name: %w", err)
	} else if existing != nil {
		return nil, inspection.Validationf("type %s already exists", req.Name)
	}

	record := &secondary.TypeRecord{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		ValidityDays: req.ValidityDays,
	}
	if err := s.typeRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create type: %w", err)
	}

	logActivity(ctx, s.activityRepo, "equipment type created", req.Name, "", req.Actor)
	return s.GetType(ctx, req.Name)
}

// UpdateType updates an existing equipment type.
func (s *TypeServiceImpl) UpdateType(ctx context.Context, req primary.TypeRequest) error {
	if req.ValidityDays < 0 {
		return inspection.Validationf("validity days may not be negative")
	}
	existing, err := s.typeRepo.GetByName(ctx, req.Name)
	if err != nil {
		return fmt.Errorf("failed to load type: %w", err)
	}
	if existing == nil {
		return inspection.NotFound("equipment type", req.Name)
	}

	existing.Description = req.Description
	existing.ValidityDays = req.ValidityDays
	if err := s.typeRepo.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to update type: %w", err)
	}

	logActivity(ctx, s.activityRepo, "equipment type updated", req.Name, "", req.Actor)
	return nil
}

// GetType retrieves a type by name.
func (s *TypeServiceImpl) GetType(ctx context.Context, name string) (*primary.EquipmentType, error) {
	record, err := s.typeRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load type: %w", err)
	}
	if record == nil {
		return nil, inspection.NotFound("equipment type", name)
	}
	return recordToType(record), nil
}

// ListTypes lists all types ordered by name.
func (s *TypeServiceImpl) ListTypes(ctx context.Context) ([]*primary.EquipmentType, error) {
	records, err := s.typeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}
	types := make([]*primary.EquipmentType, len(records))
	for i, r := range records {
		types[i] = recordToType(r)
	}
	return types, nil
}

func recordToType(r *secondary.TypeRecord) *primary.EquipmentType {
	return &primary.EquipmentType{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		ValidityDays: r.ValidityDays,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// ActivityServiceImpl implements the ActivityService interface.
type ActivityServiceImpl struct {
	activityRepo secondary.ActivityRepository
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo secondary.ActivityRepository) *ActivityServiceImpl {
	return &ActivityServiceImpl{activityRepo: activityRepo}
}

// ListActivity retrieves activity entries matching the filters.
func (s *ActivityServiceImpl) ListActivity(ctx context.Context, filters primary.ActivityFilters) ([]*primary.Activity, error) {
	records, err := s.activityRepo.List(ctx, secondary.ActivityFilters{
		Search: filters.Search,
		Actor:  filters.Actor,
		Since:  filters.Since,
		Action: filters.Action,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	activities := make([]*primary.Activity, len(records))
	for i, r := range records {
		activities[i] = &primary.Activity{
			ID:        r.ID,
			Action:    r.Action,
			Name:      r.Name,
			Serial:    r.Serial,
			Actor:     r.Actor,
			CreatedAt: r.CreatedAt,
		}
	}
	return activities, nil
}

// ListActors returns the distinct actor names.
func (s *ActivityServiceImpl) ListActors(ctx context.Context) ([]string, error) {
	actors, err := s.activityRepo.DistinctActors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	return actors, nil
}
