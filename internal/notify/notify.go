// Package notify delivers homework-status messages to the configured chat,
// suppressing consecutive duplicates so an unchanged review status is not
// re-announced every poll cycle.
package notify

import (
	"context"
	"sync"
	"time"

	"hwbot/internal/storage"
	"hwbot/internal/transport"
	"hwbot/pkg/logx"
)

type Service struct {
	sender transport.Sender
	target transport.ChatTarget
	store  storage.Store // optional send-history audit; may be nil
	log    logx.Logger

	mu   sync.Mutex
	last string // text of the most recent successful send
}

func New(sender transport.Sender, target transport.ChatTarget, store storage.Store, log logx.Logger) *Service {
	return &Service{sender: sender, target: target, store: store, log: log}
}

// Send forwards text to the chat unless it equals the last successfully sent
// message. A transport failure is logged and recorded but leaves the
// duplicate marker untouched, so the same text becomes eligible again on the
// next trigger.
func (n *Service) Send(ctx context.Context, text string) error {
	n.mu.Lock()
	dup := text == n.last
	n.mu.Unlock()
	if dup {
		n.log.Debug("duplicate notification suppressed", logx.String("text", text))
		return nil
	}

	_, err := n.sender.SendText(ctx, n.target, text, &transport.SendOptions{DisablePreview: true})
	n.audit(ctx, text, err)
	if err != nil {
		n.log.Warn("notification send failed", logx.Int64("chat_id", n.target.ChatID), logx.Err(err))
		return err
	}

	n.mu.Lock()
	n.last = text
	n.mu.Unlock()
	n.log.Debug("notification sent", logx.Int64("chat_id", n.target.ChatID))
	return nil
}

func (n *Service) audit(ctx context.Context, text string, sendErr error) {
	if n.store == nil {
		return
	}
	rec := storage.SendRecord{
		At:     time.Now(),
		ChatID: n.target.ChatID,
		Text:   text,
		OK:     sendErr == nil,
	}
	if sendErr != nil {
		rec.Error = sendErr.Error()
	}
	if err := n.store.AppendSend(ctx, rec); err != nil {
		n.log.Warn("send audit append failed", logx.Err(err))
	}
}
