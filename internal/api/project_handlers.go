package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/puri-adityakumar/yellow-ai/internal/core"
	"github.com/puri-adityakumar/yellow-ai/internal/store"
)

type ProjectResponse struct {
	Project *store.Project `json:"project"`
	Message string         `json:"message,omitempty"`
}

func (h *APIHandler) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	projects, err := h.projectService.ListProjects(userID)
	if err != nil {
		writeServiceError(w, err, "Error listing projects for user "+userID)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]store.Project{"projects": projects})
}

type CreateProjectRequest struct {
	Name        string                 `json:"name"`
	Description *string                `json:"description,omitempty"`
	Settings    *store.ProjectSettings `json:"settings,omitempty"`
}

func (h *APIHandler) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body: "+err.Error())
		return
	}

	project, err := h.projectService.CreateProject(userID, req.Name, req.Description, req.Settings)
	if err != nil {
		writeServiceError(w, err, "Error creating project for user "+userID)
		return
	}

	writeJSON(w, http.StatusOK, ProjectResponse{
		Project: project,
		Message: "Project created successfully",
	})
}

func (h *APIHandler) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	projectID := chi.URLParam(r, "projectID")

	project, err := h.projectService.GetProject(userID, projectID)
	if err != nil {
		writeServiceError(w, err, "Error getting project "+projectID)
		return
	}
	writeJSON(w, http.StatusOK, ProjectResponse{Project: project})
}

type UpdateProjectRequest struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Settings    *store.ProjectSettings `json:"settings,omitempty"`
}

func (h *APIHandler) UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	projectID := chi.URLParam(r, "projectID")

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body: "+err.Error())
		return
	}

	project, err := h.projectService.UpdateProject(userID, projectID, core.UpdateProjectParams{
		Name:        req.Name,
		Description: req.Description,
		Settings:    req.Settings,
	})
	if err != nil {
		writeServiceError(w, err, "Error updating project "+projectID)
		return
	}

	writeJSON(w, http.StatusOK, ProjectResponse{
		Project: project,
		Message: "Project updated successfully",
	})
}

func (h *APIHandler) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	projectID := chi.URLParam(r, "projectID")

	if err := h.projectService.DeleteProject(userID, projectID); err != nil {
		writeServiceError(w, err, "Error deleting project "+projectID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted successfully"})
}

// HistoryHandler lists the user's chats with tri-state project filtering:
// no projectId parameter returns everything, the literal string "null"
// returns unassigned chats, any other value scopes to that project id. The
// body is a bare chat array, no wrapper object.
func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	var chats []store.Chat
	var err error

	projectID := r.URL.Query().Get("projectId")
	switch projectID {
	case "":
		chats, err = h.historyService.ListByUser(userID)
	case "null":
		chats, err = h.historyService.ListByUserAndProject(userID, nil)
	default:
		chats, err = h.historyService.ListByUserAndProject(userID, &projectID)
	}
	if err != nil {
		writeServiceError(w, err, "Error fetching chat history for user "+userID)
		return
	}

	writeJSON(w, http.StatusOK, chats)
}
