// Package client is a typed Go client for the homework API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/example/homework-scheduler/internal/scheduler"
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("client: homework not found")
	// ErrServerUnavailable wraps transport failures and 5xx responses.
	ErrServerUnavailable = errors.New("client: server unavailable")
)

// APIError is a non-2xx response decoded from the server's error payload.
type APIError struct {
	Status  int
	Message string
	Errors  map[string]string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("homework api: %d %s", e.Status, e.Message)
}

// Homework mirrors the server's homework payload.
type Homework struct {
	ID           string    `json:"id"`
	Subject      string    `json:"subject"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	AssignedDate time.Time `json:"assignedDate"`
	DueDate      time.Time `json:"dueDate"`
	CreatedBy    string    `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Assignment converts the payload into the detection engine's representation.
func (h Homework) Assignment() scheduler.Assignment {
	return scheduler.Assignment{
		ID:           h.ID,
		Subject:      scheduler.Subject(h.Subject),
		Title:        h.Title,
		Description:  h.Description,
		AssignedDate: h.AssignedDate,
		DueDate:      h.DueDate,
		CreatedBy:    h.CreatedBy,
	}
}

// Draft is the body accepted by Create.
type Draft struct {
	Subject      string `json:"subject"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	AssignedDate string `json:"assignedDate"`
	DueDate      string `json:"dueDate"`
	CreatedBy    string `json:"createdBy"`
}

// Warning is an advisory conflict notice.
type Warning struct {
	Type          string   `json:"type"`
	Message       string   `json:"message"`
	AffectedDates []string `json:"affectedDates,omitempty"`
}

// Saved is the response to create and update calls.
type Saved struct {
	Homework Homework  `json:"homework"`
	Warnings []Warning `json:"warnings"`
}

// ConflictCheck is the outcome of CheckConflicts. Local is set when the
// server could not be reached and the warnings were computed from a snapshot.
type ConflictCheck struct {
	Warnings []Warning `json:"warnings"`
	Local    bool      `json:"local"`
}

// Client talks to a homework server. It remembers the last successfully
// listed homeworks so conflict checks can degrade to a local computation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	mu       sync.RWMutex
	snapshot []Homework
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: DefaultHTTPClient(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}

// List fetches every homework ordered by due date and refreshes the snapshot.
func (c *Client) List(ctx context.Context) ([]Homework, error) {
	var out []Homework
	if err := c.do(ctx, http.MethodGet, "/homeworks", nil, &out); err != nil {
		return nil, err
	}
	c.SetSnapshot(out)
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (Homework, error) {
	var out Homework
	if err := c.do(ctx, http.MethodGet, "/homeworks/"+id, nil, &out); err != nil {
		return Homework{}, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, draft Draft) (Saved, error) {
	var out Saved
	if err := c.do(ctx, http.MethodPost, "/homeworks", draft, &out); err != nil {
		return Saved{}, err
	}
	return out, nil
}

// Update sends a partial update; only the keys present in fields are changed.
func (c *Client) Update(ctx context.Context, id string, fields map[string]string) (Saved, error) {
	var out Saved
	if err := c.do(ctx, http.MethodPut, "/homeworks/"+id, fields, &out); err != nil {
		return Saved{}, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/homeworks/"+id, nil, nil)
}

// CheckConflicts asks the server for warnings on dueDate. When the server is
// unreachable or answers 5xx the warnings are computed locally from the
// current snapshot instead.
func (c *Client) CheckConflicts(ctx context.Context, dueDate, excludeID string) (ConflictCheck, error) {
	dueDate = strings.TrimSpace(dueDate)
	excludeID = strings.TrimSpace(excludeID)
	body := map[string]string{"dueDate": dueDate}
	if excludeID != "" {
		body["id"] = excludeID
	}

	var warnings []Warning
	err := c.do(ctx, http.MethodPost, "/homeworks/check-conflicts", body, &warnings)
	if err == nil {
		return ConflictCheck{Warnings: warnings}, nil
	}
	if !errors.Is(err, ErrServerUnavailable) {
		return ConflictCheck{}, err
	}

	c.logger.WarnContext(ctx, "conflict check failed, using local snapshot", "error", err)
	snapshot := c.Snapshot()
	existing := make([]scheduler.Assignment, 0, len(snapshot))
	for _, hw := range snapshot {
		existing = append(existing, hw.Assignment())
	}
	local, lerr := scheduler.DetectConflicts(scheduler.Draft{DueDate: dueDate}, existing, excludeID)
	if lerr != nil {
		return ConflictCheck{}, lerr
	}
	out := make([]Warning, 0, len(local))
	for _, w := range local {
		out = append(out, Warning{Type: string(w.Kind), Message: w.Message, AffectedDates: w.AffectedDates})
	}
	return ConflictCheck{Warnings: out, Local: true}, nil
}

// Snapshot returns a copy of the last listed homeworks.
func (c *Client) Snapshot() []Homework {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Homework(nil), c.snapshot...)
}

// SetSnapshot replaces the homeworks used for local conflict checks.
func (c *Client) SetSnapshot(list []Homework) {
	c.mu.Lock()
	c.snapshot = append([]Homework(nil), list...)
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrServerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("client: decode response: %w", err)
		}
		return nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Message = payload.Message
		apiErr.Errors = payload.Errors
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %w", ErrServerUnavailable, apiErr)
	default:
		return apiErr
	}
}
