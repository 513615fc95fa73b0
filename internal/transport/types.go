package transport

import "context"

// ChatTarget identifies a single chat on the messaging side.
// ThreadID is the forum topic id (0 when the chat has no topics).
type ChatTarget struct {
	ChatID   int64
	ThreadID int
}

type MessageRef struct {
	ChatID    int64
	ThreadID  int
	MessageID int
}

type SendOptions struct {
	ParseMode      string
	DisablePreview bool
}

// Sender is the outbound messaging port. The notifier and the logging
// Telegram sink both talk to it; this bot never receives updates.
type Sender interface {
	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)
}

// Adapter is a Sender with a lifecycle.
type Adapter interface {
	Sender
	Stop(ctx context.Context) error
}
