// Package transcript records completed chat turns and research runs.
package transcript

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind tells which endpoint produced a turn.
type Kind string

const (
	KindChat     Kind = "chat"
	KindCompany  Kind = "company"
	KindProspect Kind = "prospect"
)

// Turn is one finished exchange with the server: the prompt that was sent,
// the text the assistant committed, and the tools it announced.
type Turn struct {
	ID        uuid.UUID     `json:"id"`
	SessionID string        `json:"session_id"`
	Kind      Kind          `json:"kind"`
	Prompt    string        `json:"prompt"`
	Reply     string        `json:"reply"`
	Tools     []string      `json:"tools,omitempty"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Duration  time.Duration `json:"duration"`
}

// NewTurn starts a turn with a fresh ID, stamped now.
func NewTurn(sessionID string, kind Kind, prompt string) *Turn {
	return &Turn{
		ID:        uuid.New(),
		SessionID: sessionID,
		Kind:      kind,
		Prompt:    prompt,
		CreatedAt: time.Now().UTC(),
	}
}

// Failed reports whether the turn ended with a transport or server error.
func (t *Turn) Failed() bool {
	return t.Error != ""
}

// ListOptions filters List.
type ListOptions struct {
	// SessionID restricts the result to one session when set.
	SessionID string

	// Limit caps the number of turns returned. Zero means no limit.
	Limit int
}

// Driver persists turns.
type Driver interface {
	// Put stores a turn. Storing the same ID twice is an error.
	Put(ctx context.Context, turn *Turn) error

	// Get retrieves a turn by ID. Returns NotFoundError when it doesn't exist.
	Get(ctx context.Context, id uuid.UUID) (*Turn, error)

	// List returns turns newest first.
	List(ctx context.Context, opts ListOptions) ([]*Turn, error)

	// DeleteSession removes every turn of a session and returns how many
	// were removed.
	DeleteSession(ctx context.Context, sessionID string) (int, error)

	// Close releases the store's resources.
	Close() error
}
