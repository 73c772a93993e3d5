package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cogniflow/internal/workflow"
)

// Client talks to the CognitiveFlow backend over HTTP. It is stateless;
// all caching and session state live in the workflow package.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the backend at baseURL. The timeout bounds
// every request; zero means no client-side timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type aiRequest struct {
	Text   string        `json:"text"`
	Mode   workflow.Mode `json:"mode"`
	Record bool          `json:"record"`
}

type aiResponse struct {
	Response   string `json:"response"`
	WorkflowID *int64 `json:"workflow_id"`
}

type replayResponse struct {
	OriginalRequest string `json:"original_request"`
	NewResponse     string `json:"new_response"`
}

// Context fetches the host's current active window snapshot.
func (c *Client) Context(ctx context.Context) (workflow.ContextSnapshot, error) {
	var snapshot workflow.ContextSnapshot
	if err := c.do(ctx, http.MethodGet, "/context", nil, &snapshot); err != nil {
		return workflow.ContextSnapshot{}, err
	}
	return snapshot, nil
}

// Workflows fetches the recorded workflow history.
func (c *Client) Workflows(ctx context.Context) ([]workflow.Record, error) {
	var records []workflow.Record
	if err := c.do(ctx, http.MethodGet, "/workflows", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Execute submits an instruction to the AI engine. The record flag is
// passed through verbatim; the backend decides whether to persist a
// workflow record.
func (c *Client) Execute(ctx context.Context, text string, mode workflow.Mode, record bool) (string, error) {
	var out aiResponse
	in := aiRequest{Text: text, Mode: mode, Record: record}
	if err := c.do(ctx, http.MethodPost, "/ai", in, &out); err != nil {
		return "", err
	}
	return out.Response, nil
}

// Replay re-runs a recorded workflow by id and returns the fresh result.
// The stored record is not modified.
func (c *Client) Replay(ctx context.Context, id int64) (string, error) {
	var out replayResponse
	path := fmt.Sprintf("/workflows/replay/%d", id)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return "", err
	}
	return out.NewResponse, nil
}

// DeleteWorkflow removes a single record from the backend.
func (c *Client) DeleteWorkflow(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/workflows/%d", id), nil, nil)
}

// DeleteAllWorkflows clears the backend's workflow history.
func (c *Client) DeleteAllWorkflows(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/workflows", nil, nil)
}

// do performs one request. Transport failures map to ErrUnreachable,
// error responses to the normalized APIError, and successful bodies are
// decoded into out when it is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", workflow.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", workflow.ErrUnreachable, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
