package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/validation"
)

const defaultTimeout = 30 * time.Second

// ErrNotLoggedIn is returned by calls that need a token when the session has none
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// InvalidSubmissionError lists the answers rejected before submitting
type InvalidSubmissionError struct {
	Errors []validation.ValidationError
}

func (e *InvalidSubmissionError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return "invalid submission: " + strings.Join(msgs, "; ")
}

// Client talks to the form builder API on behalf of a Session
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:5000/api
func New(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = NewMemorySession()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		session:    session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the client's session
func (c *Client) Session() *Session {
	return c.session
}

// Login signs in and stores the token in the session
func (c *Client) Login(ctx context.Context, email, password string) (*models.UserResponse, error) {
	var result struct {
		Token string              `json:"token"`
		User  models.UserResponse `json:"user"`
	}
	body := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", false, body, &result); err != nil {
		return nil, err
	}
	if err := c.session.Save(result.User, result.Token); err != nil {
		return nil, err
	}
	return &result.User, nil
}

// Logout clears the session
func (c *Client) Logout() error {
	return c.session.Clear()
}

// Me returns the signed-in user as the server sees it
func (c *Client) Me(ctx context.Context) (*models.UserResponse, error) {
	var user models.UserResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", true, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates an account; the session must belong to an admin
func (c *Client) Register(ctx context.Context, email, password string, role models.Role) error {
	body := models.RegisterRequest{Email: email, Password: password, Role: role}
	return c.do(ctx, http.MethodPost, "/auth/register", true, body, nil)
}

// ListForms returns every published form
func (c *Client) ListForms(ctx context.Context) ([]*models.Form, error) {
	var forms []*models.Form
	if err := c.do(ctx, http.MethodGet, "/forms", false, nil, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// GetForm returns a single form
func (c *Client) GetForm(ctx context.Context, id string) (*models.Form, error) {
	var form models.Form
	if err := c.do(ctx, http.MethodGet, "/forms/"+url.PathEscape(id), false, nil, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// CreateForm publishes a new form; the session must belong to an admin
func (c *Client) CreateForm(ctx context.Context, draft *models.FormDraft) (*models.Form, error) {
	var form models.Form
	if err := c.do(ctx, http.MethodPost, "/forms", true, draft, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// Submit checks the answers against the form and sends them with the
// respondent email appended. Nothing is sent when a check fails.
func (c *Client) Submit(ctx context.Context, form *models.Form, email string, values models.SubmissionData) error {
	var data models.SubmissionData
	for _, k := range values.Keys() {
		if k == models.EmailKey {
			continue
		}
		v, _ := values.Get(k)
		data.Set(k, v)
	}
	data.Set(models.EmailKey, email)

	if errs := validation.NewValidator(form).ValidateSubmission(data); len(errs) > 0 {
		return &InvalidSubmissionError{Errors: errs}
	}
	return c.do(ctx, http.MethodPost, "/forms/"+url.PathEscape(form.ID)+"/submit", false, data, nil)
}

// Submissions lists the responses to a form, optionally only those sent from email
func (c *Client) Submissions(ctx context.Context, formID, email string) ([]*models.Submission, error) {
	path := "/forms/" + url.PathEscape(formID) + "/submissions"
	if email != "" {
		path += "?email=" + url.QueryEscape(email)
	}
	var subs []*models.Submission
	if err := c.do(ctx, http.MethodGet, path, true, nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// ExportURL returns a download link carrying the token in the query string
func (c *Client) ExportURL(formID string, format models.ExportFormat) string {
	q := url.Values{}
	q.Set("token", c.session.Token())
	if format == models.ExportCSV {
		return c.baseURL + "/forms/" + url.PathEscape(formID) + "/submissions/csv?" + q.Encode()
	}
	q.Set("format", string(format))
	return c.baseURL + "/forms/" + url.PathEscape(formID) + "/submissions/export?" + q.Encode()
}

// Export downloads the submissions of a form into w
func (c *Client) Export(ctx context.Context, formID string, format models.ExportFormat, w io.Writer) error {
	if !c.session.LoggedIn() {
		return ErrNotLoggedIn
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ExportURL(formID, format), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("export request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := c.session.Token()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
		if body.Error == "" {
			body.Error = http.StatusText(resp.StatusCode)
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}
