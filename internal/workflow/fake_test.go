package workflow

import (
	"context"
	"sync"
	"time"
)

// fakeAPI is an in-memory stand-in for the backend used by engine tests.
type fakeAPI struct {
	mu      sync.Mutex
	records []Record
	nextID  int64

	snapshot   ContextSnapshot
	contextErr error
	executeErr error
	listErr    error
	deleteErr  error

	response string

	// executeGate and contextGate, when non-nil, block the respective
	// call until closed so tests can observe in-flight states
	// deterministically.
	executeGate chan struct{}
	contextGate chan struct{}

	executeCalls int
	contextCalls int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{nextID: 1, response: "ok"}
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.executeCalls
}

func (f *fakeAPI) polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contextCalls
}

func (f *fakeAPI) seed(records ...Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, records...)
	for _, r := range records {
		if r.ID >= f.nextID {
			f.nextID = r.ID + 1
		}
	}
}

func (f *fakeAPI) Context(_ context.Context) (ContextSnapshot, error) {
	f.mu.Lock()
	f.contextCalls++
	gate := f.contextGate
	err := f.contextErr
	snapshot := f.snapshot
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return ContextSnapshot{}, err
	}
	return snapshot, nil
}

func (f *fakeAPI) Workflows(_ context.Context) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeAPI) Execute(_ context.Context, text string, mode Mode, record bool) (string, error) {
	f.mu.Lock()
	f.executeCalls++
	gate := f.executeGate
	err := f.executeErr
	response := f.response
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return "", err
	}

	if record {
		f.mu.Lock()
		f.records = append(f.records, Record{
			ID:        f.nextID,
			Text:      text,
			Mode:      mode,
			Timestamp: time.Now(),
			Response:  response,
		})
		f.nextID++
		f.mu.Unlock()
	}
	return response, nil
}

func (f *fakeAPI) Replay(_ context.Context, id int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			return "replayed: " + r.Text, nil
		}
	}
	return "", ErrNotFound
}

func (f *fakeAPI) DeleteWorkflow(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeAPI) DeleteAllWorkflows(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.records = nil
	return nil
}
