package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// State is the complete observable state of one client session. It is
// mutated only through Session methods; consumers read it via Snapshot.
type State struct {
	// Busy is true while a backend-facing operation is in flight. Only
	// one such operation is allowed at a time.
	Busy bool

	// Recording indicates whether new AI actions should be persisted as
	// workflow records. Purely local; the backend decides persistence
	// based on the flag it receives with each action.
	Recording bool

	// Mode is the currently selected processing intent.
	Mode Mode

	// PendingInput is the instruction text being edited.
	PendingInput string

	// LastText is the instruction that produced LastResult.
	LastText string

	// LastResult is the most recent AI output, verbatim.
	LastResult string

	// LastRecorded indicates whether LastResult was persisted as a
	// workflow record. The presentation layer annotates unsaved results;
	// the output itself is never altered.
	LastRecorded bool

	// LastReplayed indicates LastResult came from a replay, which never
	// persists regardless of the recording flag.
	LastReplayed bool

	// LastError is the normalized message of the most recent failure, or
	// empty after a successful operation.
	LastError string

	// BackendReachable is false after a failed poll or backend call,
	// true again after any successful one.
	BackendReachable bool

	// Context is the latest observed host context. It may be stale when
	// the backend is unreachable; staleness is preferred over blanking.
	Context ContextSnapshot
}

// Session owns the cross-cutting session state and routes every
// user-initiated operation through a single in-flight gate. One instance
// exists per process.
type Session struct {
	api   API
	store *Store

	mu    sync.Mutex
	state State
}

// NewSession creates an idle session with default mode and recording off.
func NewSession(api API, store *Store) *Session {
	return &Session{
		api:   api,
		store: store,
		state: State{
			Mode:             ModeAnalyze,
			BackendReachable: true,
		},
	}
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Store returns the workflow store this session refreshes.
func (s *Session) Store() *Store {
	return s.store
}

// SetInput updates the pending instruction text. Allowed while busy.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.state.PendingInput = text
	s.mu.Unlock()
}

// SetMode selects the processing intent. Invalid modes are ignored.
func (s *Session) SetMode(mode Mode) {
	if !mode.Valid() {
		return
	}
	s.mu.Lock()
	s.state.Mode = mode
	s.mu.Unlock()
}

// CycleMode advances to the next mode and returns it.
func (s *Session) CycleMode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Mode = s.state.Mode.Next()
	return s.state.Mode
}

// ToggleRecording flips the recording flag and returns the new value.
// Purely local, allowed while busy.
func (s *Session) ToggleRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Recording = !s.state.Recording
	return s.state.Recording
}

// Reset starts a new workflow: input, result and error are cleared, mode
// and recording return to defaults. No backend contact.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.PendingInput = ""
	s.state.LastText = ""
	s.state.LastResult = ""
	s.state.LastRecorded = false
	s.state.LastReplayed = false
	s.state.LastError = ""
	s.state.Mode = ModeAnalyze
	s.state.Recording = false
}

// Execute submits the pending instruction to the AI backend in the
// selected mode, passing the recording flag verbatim. Blank input and a
// second in-flight operation are rejected without contacting the backend.
// On success with recording enabled the store is refreshed so the new
// record becomes visible; the refresh is not atomic with record creation.
func (s *Session) Execute(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.state.Busy {
		s.mu.Unlock()
		return "", ErrBusy
	}
	text := strings.TrimSpace(s.state.PendingInput)
	if text == "" {
		s.state.LastError = "enter an instruction before executing"
		s.mu.Unlock()
		return "", ErrEmptyInput
	}
	mode := s.state.Mode
	record := s.state.Recording
	s.state.Busy = true
	s.state.LastError = ""
	s.mu.Unlock()

	response, err := s.api.Execute(ctx, text, mode, record)
	if err != nil {
		s.finish(err)
		return "", err
	}

	s.mu.Lock()
	s.state.LastText = text
	s.state.LastResult = response
	s.state.LastRecorded = record
	s.state.LastReplayed = false
	s.mu.Unlock()

	if record {
		// A failed refresh keeps the previous cache; the next poll tick
		// or manual refresh will surface reachability problems.
		_ = s.store.Refresh(ctx)
	}

	s.finish(nil)
	return response, nil
}

// Replay resubmits a recorded workflow's original text and mode by id and
// returns the fresh result. It never creates a record, never mutates the
// original, and never refreshes the store. ErrNotFound is returned when
// the id no longer exists so the caller can suggest refreshing the list.
func (s *Session) Replay(ctx context.Context, id int64) (string, error) {
	if err := s.begin(); err != nil {
		return "", err
	}

	response, err := s.api.Replay(ctx, id)
	if err != nil {
		s.finish(err)
		return "", err
	}

	s.mu.Lock()
	s.state.LastResult = response
	s.state.LastRecorded = false
	s.state.LastReplayed = true
	s.mu.Unlock()

	s.finish(nil)
	return response, nil
}

// RefreshWorkflows reloads the workflow list from the backend.
func (s *Session) RefreshWorkflows(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	err := s.store.Refresh(ctx)
	s.finish(err)
	return err
}

// DeleteOne removes a single workflow from the backend and the cache.
func (s *Session) DeleteOne(ctx context.Context, id int64) error {
	if err := s.begin(); err != nil {
		return err
	}
	err := s.store.DeleteOne(ctx, id)
	s.finish(err)
	return err
}

// DeleteAll clears the entire workflow history.
func (s *Session) DeleteAll(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	err := s.store.DeleteAll(ctx)
	s.finish(err)
	return err
}

// SetContext replaces the observed host context. Called by the poller.
func (s *Session) SetContext(snapshot ContextSnapshot) {
	s.mu.Lock()
	s.state.Context = snapshot
	s.state.BackendReachable = true
	s.mu.Unlock()
}

// MarkUnreachable flips the reachability flag without clearing the last
// good snapshot: stale context is preferred over no context.
func (s *Session) MarkUnreachable() {
	s.mu.Lock()
	s.state.BackendReachable = false
	s.mu.Unlock()
}

// begin moves the session from idle to busy, rejecting a second
// in-flight operation.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Busy {
		return ErrBusy
	}
	s.state.Busy = true
	s.state.LastError = ""
	return nil
}

// finish returns the session to idle, folding err into visible state.
// Busy is always released so a failed operation can be retried.
func (s *Session) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Busy = false
	if err == nil {
		s.state.BackendReachable = true
		return
	}
	s.state.LastError = err.Error()
	if errors.Is(err, ErrUnreachable) {
		s.state.BackendReachable = false
	}
}
