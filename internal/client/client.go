package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coursemarket/internal/models"
)

// Client calls the marketplace API on behalf of one authenticated user.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New returns a Client for the API at baseURL that authenticates with the given ID token. A nil httpClient
// uses a client with a 30 second timeout.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

// APIError is returned when the API answers with success set to false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// CreateCourse submits a course as the current educator.
func (c *Client) CreateCourse(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	var resp struct {
		Course *models.Course `json:"course"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/educator/courses", req, &resp); err != nil {
		return nil, err
	}
	return resp.Course, nil
}

// EducatorCourses lists the courses of the current educator.
func (c *Client) EducatorCourses(ctx context.Context) ([]*models.Course, error) {
	var resp struct {
		Courses []*models.Course `json:"courses"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/educator/courses", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Courses, nil
}

// BecomeEducator grants the educator role to the current user. It takes effect with the next ID token.
func (c *Client) BecomeEducator(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/educator/update-role", nil, nil)
}

// Helpers

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling %v %v: %w", method, path, err)
	}
	defer res.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return &APIError{StatusCode: res.StatusCode, Message: http.StatusText(res.StatusCode)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	if !env.Success {
		return &APIError{StatusCode: res.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
