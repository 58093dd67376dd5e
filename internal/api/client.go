// Package api is the HTTP client for the LoopState backend. Every backend
// operation goes through one request helper that attaches JSON headers,
// decodes the success payload and turns any non-2xx response into an
// *Error, so callers always get a value or an error and never a raw
// response. Requests are single-shot: no retry, no backoff.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loopstate/loopstate/internal/models"
)

// DefaultTimeout bounds a single request when the config does not say otherwise
const DefaultTimeout = 30 * time.Second

// Error is a non-success backend response
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Client talks to the backend REST API
type Client struct {
	baseURL string
	hc      *http.Client
	log     *zap.Logger
}

// New creates a client for the given base URL, e.g. "http://localhost:5000/api"
func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		log:     log,
	}
}

// request performs one call and decodes the response into out (when non-nil).
// body is JSON-encoded when non-nil.
func (c *Client) request(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("request done",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls the backend's {"error": "..."} text when present
func errorMessage(data []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return ""
}

// ExploreResponse is the explore endpoint's envelope
type ExploreResponse struct {
	Projects    []models.Project `json:"projects"`
	Total       int              `json:"total"`
	Pages       int              `json:"pages"`
	CurrentPage int              `json:"current_page"`
	HasNext     bool             `json:"has_next"`
	HasPrev     bool             `json:"has_prev"`
}

// ExploreProjects lists projects for the explore view. query is the
// already-encoded filter query string and may be empty.
func (c *Client) ExploreProjects(query string) (*ExploreResponse, error) {
	path := "/explore"
	if query != "" {
		path += "?" + query
	}
	var out ExploreResponse
	if err := c.request(http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProject fetches one project with nested comments, files and collaborators
func (c *Client) GetProject(id int64) (*models.Project, error) {
	var out models.Project
	if err := c.request(http.MethodGet, "/projects/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProjectRequest is the creation payload assembled by the wizard.
// The numeric fields stay in the body as explicit nulls when absent, and
// is_unlockable is always computed from the monetization mode.
type CreateProjectRequest struct {
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Genre             string          `json:"genre"`
	BPM               *int            `json:"bpm"`
	Key               string          `json:"key"`
	CreatorID         int64           `json:"creator_id"`
	CollaborationNeed models.RoleList `json:"collaboration_needs"`
	MonetizationType  string          `json:"monetization_type"`
	BountyAmount      *float64        `json:"bounty_amount"`
	BountyDeadline    string          `json:"bounty_deadline,omitempty"`
	IsUnlockable      bool            `json:"is_unlockable"`
	UnlockPrice       *float64        `json:"unlock_price"`
}

// CreateProject creates a new project
func (c *Client) CreateProject(req CreateProjectRequest) (*models.Project, error) {
	var out models.Project
	if err := c.request(http.MethodPost, "/projects", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProjectRequest carries partial project updates
type UpdateProjectRequest struct {
	Title             string          `json:"title,omitempty"`
	Description       string          `json:"description,omitempty"`
	Genre             string          `json:"genre,omitempty"`
	BPM               *int            `json:"bpm,omitempty"`
	Key               string          `json:"key,omitempty"`
	Status            string          `json:"status,omitempty"`
	CollaborationNeed models.RoleList `json:"collaboration_needs,omitempty"`
}

// UpdateProject updates an existing project
func (c *Client) UpdateProject(id int64, req UpdateProjectRequest) (*models.Project, error) {
	var out models.Project
	if err := c.request(http.MethodPut, "/projects/"+strconv.FormatInt(id, 10), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CollaborationRequest asks to join a project in a given role
type CollaborationRequest struct {
	UserID  int64  `json:"user_id"`
	Role    string `json:"role"`
	Message string `json:"message,omitempty"`
}

// RequestCollaboration sends a collaboration request for a project
func (c *Client) RequestCollaboration(projectID int64, req CollaborationRequest) (*models.Collaborator, error) {
	var out models.Collaborator
	path := fmt.Sprintf("/projects/%d/collaborate", projectID)
	if err := c.request(http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CollaboratorStatusRequest accepts or rejects a pending collaborator
type CollaboratorStatusRequest struct {
	Status                 string   `json:"status"`
	ContributionPercentage *float64 `json:"contribution_percentage,omitempty"`
}

// UpdateCollaboratorStatus accepts or rejects a collaboration request
func (c *Client) UpdateCollaboratorStatus(projectID, collaboratorID int64, req CollaboratorStatusRequest) (*models.Collaborator, error) {
	var out models.Collaborator
	path := fmt.Sprintf("/projects/%d/collaborators/%d", projectID, collaboratorID)
	if err := c.request(http.MethodPut, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetComments lists a project's comments
func (c *Client) GetComments(projectID int64) ([]models.Comment, error) {
	var out []models.Comment
	path := fmt.Sprintf("/projects/%d/comments", projectID)
	if err := c.request(http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CommentRequest is a new comment submission
type CommentRequest struct {
	Content string `json:"content"`
	UserID  int64  `json:"user_id"`
}

// AddComment posts a comment on a project
func (c *Client) AddComment(projectID int64, req CommentRequest) (*models.Comment, error) {
	var out models.Comment
	path := fmt.Sprintf("/projects/%d/comments", projectID)
	if err := c.request(http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFiles lists a project's files
func (c *Client) GetFiles(projectID int64) ([]models.ProjectFile, error) {
	var out []models.ProjectFile
	path := fmt.Sprintf("/projects/%d/files", projectID)
	if err := c.request(http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadFile sends file content as multipart form data. The content type
// is left to the multipart writer so it carries the boundary; setting a
// bare Content-Type here would break the upload.
func (c *Client) UploadFile(projectID, userID int64, filename string, content io.Reader) (*models.ProjectFile, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("read file content: %w", err)
	}
	if err := w.WriteField("project_id", strconv.FormatInt(projectID, 10)); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if err := w.WriteField("user_id", strconv.FormatInt(userID, 10)); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/files/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	var out models.ProjectFile
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BountyWinnerRequest names the winning collaborator
type BountyWinnerRequest struct {
	WinnerID int64 `json:"winner_id"`
}

// SelectBountyWinner marks a bounty project's winner and completes it
func (c *Client) SelectBountyWinner(projectID int64, req BountyWinnerRequest) (*models.Project, error) {
	var out models.Project
	path := fmt.Sprintf("/projects/%d/bounty/winner", projectID)
	if err := c.request(http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUsers lists all users
func (c *Client) GetUsers() ([]models.User, error) {
	var out []models.User
	if err := c.request(http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser fetches one user
func (c *Client) GetUser(id int64) (*models.User, error) {
	var out models.User
	if err := c.request(http.MethodGet, "/users/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser registers or upserts the identity-provider account
func (c *Client) CreateUser(user models.User) (*models.User, error) {
	var out models.User
	if err := c.request(http.MethodPost, "/users", user, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser updates a user's profile
func (c *Client) UpdateUser(id int64, user models.User) (*models.User, error) {
	var out models.User
	if err := c.request(http.MethodPut, "/users/"+strconv.FormatInt(id, 10), user, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes a user account
func (c *Client) DeleteUser(id int64) error {
	return c.request(http.MethodDelete, "/users/"+strconv.FormatInt(id, 10), nil, nil)
}
