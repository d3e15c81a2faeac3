// Package session stores complete messages so they can be classified and
// rendered later. It holds no classification state itself.
package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store is the interface for message persistence.
type Store interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Session, error)
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)

	AddMessage(ctx context.Context, sessionID string, msg *Message) error
	GetMessages(ctx context.Context, sessionID string, limit, offset int) ([]Message, error)

	Close() error
}

// Config holds session storage configuration.
type Config struct {
	Path     string `mapstructure:"db" yaml:"db"`               // database file, empty uses the XDG data dir
	MaxCount int    `mapstructure:"max_count" yaml:"max_count"` // keep at most N sessions (0=unlimited)
}

// GetDataDir returns the XDG data directory for msgblocks.
// Uses $XDG_DATA_HOME if set, otherwise ~/.local/share
func GetDataDir() (string, error) {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "msgblocks"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "msgblocks"), nil
}

// GetDBPath returns the database path for cfg.
func GetDBPath(cfg Config) (string, error) {
	if cfg.Path != "" {
		return os.ExpandEnv(cfg.Path), nil
	}
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "sessions.db"), nil
}
