package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/puri-adityakumar/yellow-ai/internal/store"
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d %s): %s", e.Status, e.Kind, e.Message)
}

// APIClient talks to the yellow-ai HTTP API on behalf of one authenticated
// user.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *APIClient) ListProjects(ctx context.Context) ([]store.Project, error) {
	var resp struct {
		Projects []store.Project `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

func (c *APIClient) CreateProject(ctx context.Context, name string, description *string, settings *store.ProjectSettings) (*store.Project, error) {
	body := map[string]interface{}{"name": name}
	if description != nil {
		body["description"] = *description
	}
	if settings != nil {
		body["settings"] = settings
	}

	var resp struct {
		Project *store.Project `json:"project"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/projects", body, &resp); err != nil {
		return nil, err
	}
	return resp.Project, nil
}

func (c *APIClient) DeleteProject(ctx context.Context, projectID string) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(projectID), nil, nil)
}

// History fetches the chat list for a selection scope: ViewAllScope fetches
// everything, "" fetches unassigned chats, anything else scopes to that
// project id.
func (c *APIClient) History(ctx context.Context, scope string) ([]store.Chat, error) {
	path := "/api/history"
	switch scope {
	case ViewAllScope:
		// no filter
	case "":
		path += "?projectId=null"
	default:
		path += "?projectId=" + url.QueryEscape(scope)
	}

	var chats []store.Chat
	if err := c.do(ctx, http.MethodGet, path, nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (c *APIClient) DeleteChat(ctx context.Context, chatID string) error {
	return c.do(ctx, http.MethodDelete, "/api/chats/"+url.PathEscape(chatID), nil, nil)
}

func (c *APIClient) ReassignChat(ctx context.Context, chatID string, projectID *string) error {
	body := map[string]interface{}{
		"chatId":    chatID,
		"projectId": projectID,
	}
	return c.do(ctx, http.MethodPatch, "/api/chats", body, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Kind = "internal"
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
