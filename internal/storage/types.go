package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures the send-history store.
//
// Driver values:
//   - "file": dependency-free JSON Lines backend
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled. Only notification
// history is persisted; the poll watermark never is.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// SendRecord captures one attempted notification delivery.
type SendRecord struct {
	At     time.Time
	ChatID int64
	Text   string
	OK     bool
	Error  string
}
