package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/itobot/scout/internal/api/apierr"
	"github.com/itobot/scout/internal/api/request"
	"github.com/itobot/scout/internal/api/response"
	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/services/auth"
)

// Client is an HTTP client for the API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   strings.TrimSpace(token),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken updates the client's token
func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError represents an error response from the API
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorResponse wraps an API error
type ErrorResponse struct {
	Error APIError `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

var codeErrors = map[string]error{
	apierr.CodeEntryNotFound:      model.ErrEntryNotFound,
	apierr.CodeUserNotFound:       model.ErrUserNotFound,
	apierr.CodeForbidden:          model.ErrPermissionDenied,
	apierr.CodePersistenceFailed:  model.ErrPersistence,
	apierr.CodeUnauthorized:       auth.ErrInvalidSession,
	apierr.CodeInvalidCredentials: auth.ErrInvalidCredentials,
	apierr.CodeEmailInUse:         auth.ErrEmailInUse,
}

// Unwrap maps the error code back to the error the server raised, so callers
// can use errors.Is and errors.As as they would in process
func (e *APIError) Unwrap() error {
	if e.Code == apierr.CodeValidationFailed {
		return &model.ValidationError{Field: e.Field, Message: e.Message}
	}
	return codeErrors[e.Code]
}

// Do performs an HTTP request and decodes a JSON response into result
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}

	if result != nil && len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

type rawResponse struct {
	header http.Header
	body   []byte
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*rawResponse, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Check for error responses
	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Code != "" {
			errResp.Error.Status = resp.StatusCode
			return nil, &errResp.Error
		}
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return &rawResponse{header: resp.Header, body: respBody}, nil
}

// Health checks the server
func (c *Client) Health(ctx context.Context) (response.Health, error) {
	var out response.Health
	err := c.Do(ctx, http.MethodGet, "/api/v1/health", nil, &out)
	return out, err
}

// Register creates an account
func (c *Client) Register(ctx context.Context, req request.RegisterRequest) (response.AuthResponse, error) {
	var out response.AuthResponse
	err := c.Do(ctx, http.MethodPost, "/api/v1/auth/register", req, &out)
	return out, err
}

// Login exchanges credentials for a session
func (c *Client) Login(ctx context.Context, email, password string) (response.AuthResponse, error) {
	var out response.AuthResponse
	err := c.Do(ctx, http.MethodPost, "/api/v1/auth/login", request.LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

// Logout revokes the current session
func (c *Client) Logout(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
}

// Me returns the signed-in user
func (c *Client) Me(ctx context.Context) (response.User, error) {
	var out response.User
	err := c.Do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &out)
	return out, err
}

// SearchEntries lists visible entries matching term
func (c *Client) SearchEntries(ctx context.Context, term string) ([]*model.ScoutEntry, error) {
	path := "/api/v1/entries"
	if term != "" {
		path += "?q=" + url.QueryEscape(term)
	}
	var out response.EntryList
	if err := c.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return response.EntriesToModel(out.Entries), nil
}

// ListEntries lists every entry visible to the signed-in user, newest first
func (c *Client) ListEntries(ctx context.Context) ([]*model.ScoutEntry, error) {
	return c.SearchEntries(ctx, "")
}

// GetEntry fetches one entry
func (c *Client) GetEntry(ctx context.Context, id model.EntryID) (*model.ScoutEntry, error) {
	var out response.Entry
	if err := c.Do(ctx, http.MethodGet, entryPath(id), nil, &out); err != nil {
		return nil, err
	}
	return out.Model(), nil
}

// CreateEntry records a new entry; the server fills in the scout name and owner
func (c *Client) CreateEntry(ctx context.Context, draft model.EntryDraft) (model.EntryID, error) {
	req := request.CreateEntryRequest{
		TeamNumber:      draft.TeamNumber,
		MatchNumber:     draft.MatchNumber,
		TeamName:        draft.TeamName,
		DriverSkill:     draft.DriverSkill,
		AutonomousNotes: draft.AutonomousNotes,
		TeleopNotes:     draft.TeleopNotes,
		GeneralNotes:    draft.GeneralNotes,
	}
	var out response.CreatedEntry
	if err := c.Do(ctx, http.MethodPost, "/api/v1/entries", req, &out); err != nil {
		return "", err
	}
	return model.EntryID(out.ID), nil
}

// UpdateEntry merges patch into an entry
func (c *Client) UpdateEntry(ctx context.Context, id model.EntryID, patch model.EntryPatch) error {
	return c.Do(ctx, http.MethodPatch, entryPath(id), request.UpdateEntryRequestFromPatch(patch), nil)
}

// DeleteEntry removes an entry
func (c *Client) DeleteEntry(ctx context.Context, id model.EntryID) error {
	return c.Do(ctx, http.MethodDelete, entryPath(id), nil, nil)
}

// TeamName looks up the official name of a team
func (c *Client) TeamName(ctx context.Context, teamNumber string) (string, error) {
	var out response.TeamName
	err := c.Do(ctx, http.MethodGet, "/api/v1/teams/"+url.PathEscape(teamNumber)+"/name", nil, &out)
	return out.TeamName, err
}

// Teams lists the distinct teams in the visible entries
func (c *Client) Teams(ctx context.Context) (response.TeamList, error) {
	var out response.TeamList
	err := c.Do(ctx, http.MethodGet, "/api/v1/teams", nil, &out)
	return out, err
}

// TeamStats returns the aggregate of one team
func (c *Client) TeamStats(ctx context.Context, teamNumber string) (response.TeamStats, error) {
	var out response.TeamStats
	err := c.Do(ctx, http.MethodGet, "/api/v1/teams/"+url.PathEscape(teamNumber)+"/stats", nil, &out)
	return out, err
}

// Compare returns the side-by-side view of teamNumbers
func (c *Client) Compare(ctx context.Context, teamNumbers []string) (response.Comparison, error) {
	q := url.Values{"team": teamNumbers}
	var out response.Comparison
	err := c.Do(ctx, http.MethodGet, "/api/v1/teams/compare?"+q.Encode(), nil, &out)
	return out, err
}

// Summary returns the admin headline figures
func (c *Client) Summary(ctx context.Context) (response.Summary, error) {
	var out response.Summary
	err := c.Do(ctx, http.MethodGet, "/api/v1/admin/summary", nil, &out)
	return out, err
}

// Export downloads the full dataset, returning the suggested file name and the document
func (c *Client) Export(ctx context.Context) (string, []byte, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/v1/admin/export", nil)
	if err != nil {
		return "", nil, err
	}

	filename := ""
	if _, params, err := mime.ParseMediaType(resp.header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return filename, resp.body, nil
}

// Users lists every account
func (c *Client) Users(ctx context.Context) (response.UserList, error) {
	var out response.UserList
	err := c.Do(ctx, http.MethodGet, "/api/v1/admin/users", nil, &out)
	return out, err
}

// SetRole changes the role of a user
func (c *Client) SetRole(ctx context.Context, uid string, role model.Role) (response.User, error) {
	var out response.User
	err := c.Do(ctx, http.MethodPatch, "/api/v1/admin/users/"+url.PathEscape(uid)+"/role", request.SetRoleRequest{Role: string(role)}, &out)
	return out, err
}

func entryPath(id model.EntryID) string {
	return "/api/v1/entries/" + url.PathEscape(string(id))
}
