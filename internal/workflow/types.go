package workflow

import "time"

// Mode is the processing intent attached to an AI submission. The backend
// interprets it; the client only selects and forwards it.
type Mode string

const (
	ModeAnalyze  Mode = "analyze"
	ModeCreate   Mode = "create"
	ModeAutomate Mode = "automate"
)

// Valid reports whether m is one of the modes the backend accepts.
func (m Mode) Valid() bool {
	switch m {
	case ModeAnalyze, ModeCreate, ModeAutomate:
		return true
	}
	return false
}

// Next cycles to the following mode (analyze -> create -> automate -> analyze).
func (m Mode) Next() Mode {
	switch m {
	case ModeAnalyze:
		return ModeCreate
	case ModeCreate:
		return ModeAutomate
	default:
		return ModeAnalyze
	}
}

// Record is a workflow stored by the backend: an instruction previously
// submitted to the AI engine, replayable on demand. IDs are assigned by
// the backend; the client never synthesizes one.
type Record struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Mode      Mode      `json:"mode"`
	Timestamp time.Time `json:"timestamp"`
	Response  string    `json:"response"`
}

// ContextSnapshot is the most recently observed active window on the host
// the backend runs on. It is replaced wholesale on every successful poll
// and never persisted.
type ContextSnapshot struct {
	AppName    string    `json:"app_name"`
	Title      string    `json:"title"`
	CapturedAt time.Time `json:"-"`
}
