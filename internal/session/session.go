package session

import (
	"context"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// TTL is how long a conversation survives without activity before it is
// evicted. Eviction is lazy: expiry is checked on the next access, there is
// no background sweep.
const TTL = 24 * time.Hour

// Turn is one message in a conversation, tagged by role.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session is the per-conversation ordered history plus its last-activity
// timestamp. The first turn is always the system prompt.
type Session struct {
	Turns        []Turn    `json:"turns"`
	LastActivity time.Time `json:"last_activity"`
}

// PromptProvider returns the current system prompt used to seed new
// sessions. It is a func so a catalog refresh is picked up by the next
// session without restarting the process.
type PromptProvider func() string

// Store owns the session lifecycle.
type Store interface {
	// Get returns the session history, or nil when the conversation is
	// unknown or has expired. Absence is a normal outcome, not an error.
	Get(ctx context.Context, id string) ([]Turn, error)
	// Upsert appends a turn, creating the session (seeded with the current
	// system prompt) when absent or expired, and refreshes last activity.
	// The returned slice is a copy; callers may mutate it freely.
	Upsert(ctx context.Context, id string, turn Turn) ([]Turn, error)
	// AppendReply appends an assistant turn and refreshes last activity.
	// It is a no-op when the session is absent: a conversation expiring
	// mid-flight is tolerated, not fatal.
	AppendReply(ctx context.Context, id string, turn Turn) error
}

// Clock abstracts time.Now so TTL logic is testable without real time
// passing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

func copyTurns(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}
