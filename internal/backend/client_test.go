package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cogniflow/internal/workflow"
)

func TestExecuteSendsRequestAndDecodes(t *testing.T) {
	var got struct {
		Text   string `json:"text"`
		Mode   string `json:"mode"`
		Record bool   `json:"record"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ai" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"All done.","workflow_id":12}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	response, err := client.Execute(context.Background(), "summarize this doc", workflow.ModeAnalyze, true)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if response != "All done." {
		t.Errorf("response = %q", response)
	}
	if got.Text != "summarize this doc" || got.Mode != "analyze" || !got.Record {
		t.Errorf("request payload = %+v", got)
	}
}

func TestWorkflowsDecodesRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/workflows" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":2,"text":"draft an email","mode":"create","timestamp":"2024-05-01T12:30:00Z","response":"Dear team,"},
			{"id":1,"text":"open the report","mode":"automate","timestamp":"2024-05-01T10:00:00Z","response":"opened"}
		]`))
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	records, err := client.Workflows(context.Background())
	if err != nil {
		t.Fatalf("Workflows failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != 2 || records[0].Mode != workflow.ModeCreate {
		t.Errorf("records[0] = %+v", records[0])
	}
	want := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	if !records[0].Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", records[0].Timestamp, want)
	}
}

func TestContextDecodesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/context" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"app_name":"Editor","title":"notes.md"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	snapshot, err := client.Context(context.Background())
	if err != nil {
		t.Fatalf("Context failed: %v", err)
	}
	if snapshot.AppName != "Editor" || snapshot.Title != "notes.md" {
		t.Errorf("snapshot = %+v", snapshot)
	}
}

func TestReplayNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/workflows/replay/42" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Workflow not found"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	_, err := client.Replay(context.Background(), 42)
	if !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err.Error() != "Workflow not found" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestReplayDecodesNewResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"original_request":"open the report","new_response":"opened again"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	response, err := client.Replay(context.Background(), 7)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if response != "opened again" {
		t.Errorf("response = %q", response)
	}
}

func TestDeleteWorkflowPaths(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	if err := client.DeleteWorkflow(context.Background(), 3); err != nil {
		t.Fatalf("DeleteWorkflow failed: %v", err)
	}
	if err := client.DeleteAllWorkflows(context.Background()); err != nil {
		t.Fatalf("DeleteAllWorkflows failed: %v", err)
	}

	want := []string{"/workflows/3", "/workflows"}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], p)
		}
	}
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := New(srv.URL, time.Second)
	_, err := client.Context(context.Background())
	if !errors.Is(err, workflow.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestValidationErrorJoinsMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","text"],"msg":"field required"},{"loc":["body","mode"],"msg":"invalid mode"}]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	_, err := client.Execute(context.Background(), "x", workflow.ModeAnalyze, false)
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "field required; invalid mode" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/context" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"app_name":"a","title":"b"}`))
	}))
	defer srv.Close()

	client := New(srv.URL+"/", 5*time.Second)
	if _, err := client.Context(context.Background()); err != nil {
		t.Fatalf("Context failed: %v", err)
	}
}
