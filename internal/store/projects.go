package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

func (s *SQLiteStore) CreateProject(userID, name string, description *string, settings ProjectSettings) (*Project, error) {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project settings: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err = s.db.Exec("INSERT INTO projects (id, user_id, name, description, settings_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, userID, name, description, string(settingsJSON), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert project: %w", err)
	}

	return &Project{
		ID:          id,
		UserID:      userID,
		Name:        name,
		Description: description,
		Settings:    settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *SQLiteStore) GetProjectByID(projectID, userID string) (*Project, error) {
	row := s.db.QueryRow("SELECT id, user_id, name, description, settings_json, created_at, updated_at FROM projects WHERE id = ? AND user_id = ?",
		projectID, userID)
	project, err := scanProject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found (or owned by someone else, same thing)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (s *SQLiteStore) GetProjectsByUserID(userID string) ([]Project, error) {
	rows, err := s.db.Query("SELECT id, user_id, name, description, settings_json, created_at, updated_at FROM projects WHERE user_id = ? ORDER BY updated_at ASC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, *project)
	}
	return projects, rows.Err()
}

// UpdateProject overwrites name, description and settings for the matching
// (id, user_id) row and bumps updated_at. The returned project reflects the
// written state.
func (s *SQLiteStore) UpdateProject(project *Project) (*Project, error) {
	settingsJSON, err := json.Marshal(project.Settings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project settings: %w", err)
	}

	now := time.Now().UTC()
	res, err := s.db.Exec("UPDATE projects SET name = ?, description = ?, settings_json = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		project.Name, project.Description, string(settingsJSON), now, project.ID, project.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, ErrNotFound
	}

	updated := *project
	updated.UpdatedAt = now
	return &updated, nil
}

func (s *SQLiteStore) DeleteProject(projectID, userID string) error {
	res, err := s.db.Exec("DELETE FROM projects WHERE id = ? AND user_id = ?", projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ProjectFile methods

func (s *SQLiteStore) CreateProjectFile(file *ProjectFile) error {
	file.ID = uuid.NewString()
	file.UploadedAt = time.Now().UTC()

	_, err := s.db.Exec("INSERT INTO project_files (id, project_id, user_id, name, url, content_type, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		file.ID, file.ProjectID, file.UserID, file.Name, file.URL, file.ContentType, file.Size, file.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to insert project file: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetProjectFilesByProjectID(projectID, userID string) ([]ProjectFile, error) {
	rows, err := s.db.Query("SELECT id, project_id, user_id, name, url, content_type, size, uploaded_at FROM project_files WHERE project_id = ? AND user_id = ? ORDER BY uploaded_at ASC",
		projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query project files: %w", err)
	}
	defer rows.Close()

	files := []ProjectFile{}
	for rows.Next() {
		var f ProjectFile
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.UserID, &f.Name, &f.URL, &f.ContentType, &f.Size, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project file row: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Helpers

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*Project, error) {
	var project Project
	var description sql.NullString
	var settingsJSON string
	err := row.Scan(&project.ID, &project.UserID, &project.Name, &description, &settingsJSON, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		project.Description = &description.String
	}
	if err := json.Unmarshal([]byte(settingsJSON), &project.Settings); err != nil {
		log.Printf("Warning: failed to unmarshal settings for project %s: %v. Settings will be empty.", project.ID, err)
	}
	return &project, nil
}
