package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/puri-adityakumar/yellow-ai/internal/store"
)

const (
	maxProjectNameLength        = 100
	maxProjectDescriptionLength = 500

	SafetyLevelStrict     = "strict"
	SafetyLevelModerate   = "moderate"
	SafetyLevelPermissive = "permissive"
)

// ProjectService owns project CRUD and validation. Every operation is scoped
// to the calling user; a project belonging to someone else behaves exactly
// like a project that does not exist.
type ProjectService struct {
	dbStore      *store.SQLiteStore
	defaultModel string
}

func NewProjectService(db *store.SQLiteStore, defaultModel string) *ProjectService {
	return &ProjectService{dbStore: db, defaultModel: defaultModel}
}

// UpdateProjectParams holds a partial update. Nil fields are left untouched.
// A description that trims to empty clears the stored value.
type UpdateProjectParams struct {
	Name        *string
	Description *string
	Settings    *store.ProjectSettings
}

func (s *ProjectService) ListProjects(userID string) ([]store.Project, error) {
	return s.dbStore.GetProjectsByUserID(userID)
}

func (s *ProjectService) CreateProject(userID, name string, description *string, settings *store.ProjectSettings) (*store.Project, error) {
	trimmedName, err := s.validateName(name)
	if err != nil {
		return nil, err
	}

	normalizedSettings, err := s.normalizeSettings(settings)
	if err != nil {
		return nil, err
	}

	desc, err := normalizeDescription(description)
	if err != nil {
		return nil, err
	}

	project, err := s.dbStore.CreateProject(userID, trimmedName, desc, normalizedSettings)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) GetProject(userID, projectID string) (*store.Project, error) {
	project, err := s.dbStore.GetProjectByID(projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}

func (s *ProjectService) UpdateProject(userID, projectID string, params UpdateProjectParams) (*store.Project, error) {
	project, err := s.GetProject(userID, projectID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		trimmedName, err := s.validateName(*params.Name)
		if err != nil {
			return nil, err
		}
		project.Name = trimmedName
	}

	if params.Description != nil {
		desc, err := normalizeDescription(params.Description)
		if err != nil {
			return nil, err
		}
		project.Description = desc
	}

	if params.Settings != nil {
		normalizedSettings, err := s.normalizeSettings(params.Settings)
		if err != nil {
			return nil, err
		}
		project.Settings = normalizedSettings
	}

	// updated_at is bumped on every write, even when no field changed.
	updated, err := s.dbStore.UpdateProject(project)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return updated, nil
}

func (s *ProjectService) DeleteProject(userID, projectID string) error {
	// Project files cascade at the storage layer; chats keep a cleared
	// project reference and survive.
	err := s.dbStore.DeleteProject(projectID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// DefaultSettings is what a project gets when created without explicit
// settings.
func (s *ProjectService) DefaultSettings() store.ProjectSettings {
	return store.ProjectSettings{
		DefaultModel: s.defaultModel,
		SafetyLevel:  SafetyLevelModerate,
	}
}

func (s *ProjectService) validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", newValidationError("Project name is required")
	}
	if len(trimmed) > maxProjectNameLength {
		return "", newValidationError("Project name must be between 1 and 100 characters")
	}
	return trimmed, nil
}

func (s *ProjectService) normalizeSettings(settings *store.ProjectSettings) (store.ProjectSettings, error) {
	if settings == nil {
		return s.DefaultSettings(), nil
	}

	normalized := *settings
	if normalized.DefaultModel == "" {
		normalized.DefaultModel = s.defaultModel
	}
	if normalized.SafetyLevel == "" {
		normalized.SafetyLevel = SafetyLevelModerate
	}
	switch normalized.SafetyLevel {
	case SafetyLevelStrict, SafetyLevelModerate, SafetyLevelPermissive:
	default:
		return store.ProjectSettings{}, newValidationError("Safety level must be strict, moderate or permissive")
	}
	return normalized, nil
}

func normalizeDescription(description *string) (*string, error) {
	if description == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil, nil // empty clears the description
	}
	if len(trimmed) > maxProjectDescriptionLength {
		return nil, newValidationError("Project description must be at most 500 characters")
	}
	return &trimmed, nil
}
