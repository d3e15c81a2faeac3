package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samsaffron/msgblocks/internal/blocks"
)

// Session groups the messages of one conversation.
type Session struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name,omitempty" yaml:"name,omitempty"`
	Summary      string    `json:"summary,omitempty" yaml:"summary,omitempty"` // first user message
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
	MessageCount int       `json:"message_count" yaml:"message_count"`
}

// Message is one complete message of a session.
type Message struct {
	ID        int64       `json:"id" yaml:"id"`
	SessionID string      `json:"session_id" yaml:"session_id"`
	Role      blocks.Role `json:"role" yaml:"role"`
	Content   string      `json:"content" yaml:"content"`
	CreatedAt time.Time   `json:"created_at" yaml:"created_at"`
	Sequence  int         `json:"sequence" yaml:"sequence"`
}

// ListOptions configures session listing.
type ListOptions struct {
	Name   string // filter by name (substring match)
	Limit  int    // max results (0 = use default)
	Offset int
}

// SearchResult represents a search match.
type SearchResult struct {
	SessionID   string `json:"session_id" yaml:"session_id"`
	MessageID   int64  `json:"message_id" yaml:"message_id"`
	SessionName string `json:"session_name" yaml:"session_name"`
	Snippet     string `json:"snippet" yaml:"snippet"`
}

// NewID returns a new session id.
func NewID() string {
	return uuid.NewString()
}

// ParseRole validates a role name.
func ParseRole(s string) (blocks.Role, error) {
	switch r := blocks.Role(strings.ToLower(strings.TrimSpace(s))); r {
	case blocks.RoleSystem, blocks.RoleUser, blocks.RoleAssistant:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// TruncateSummary shortens content to a single line summary.
func TruncateSummary(content string) string {
	content = strings.TrimSpace(content)
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[:i]
	}
	const maxLen = 100
	if r := []rune(content); len(r) > maxLen {
		return string(r[:maxLen-3]) + "..."
	}
	return content
}
