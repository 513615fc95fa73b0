package notify

import (
	"context"
	"errors"
	"testing"

	"hwbot/internal/transport"
	"hwbot/pkg/logx"
)

type fakeSender struct {
	sent []string
	fail bool
}

func (f *fakeSender) SendText(ctx context.Context, to transport.ChatTarget, text string, opt *transport.SendOptions) (transport.MessageRef, error) {
	if f.fail {
		return transport.MessageRef{}, errors.New("telegram unreachable")
	}
	f.sent = append(f.sent, text)
	return transport.MessageRef{ChatID: to.ChatID, MessageID: len(f.sent)}, nil
}

func TestSendDeduplicates(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	n := New(sender, transport.ChatTarget{ChatID: 42}, nil, logx.Nop())

	if err := n.Send(context.Background(), "status changed"); err != nil {
		t.Fatalf("first Send error: %v", err)
	}
	if err := n.Send(context.Background(), "status changed"); err != nil {
		t.Fatalf("duplicate Send error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want exactly 1", len(sender.sent))
	}
}

func TestSendDifferentTextsGoThrough(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{}
	n := New(sender, transport.ChatTarget{ChatID: 42}, nil, logx.Nop())

	_ = n.Send(context.Background(), "one")
	_ = n.Send(context.Background(), "two")
	_ = n.Send(context.Background(), "one")

	if len(sender.sent) != 3 {
		t.Fatalf("sent %d messages, want 3 (dedup only suppresses consecutive repeats)", len(sender.sent))
	}
}

func TestFailedSendKeepsMessageEligible(t *testing.T) {
	t.Parallel()
	sender := &fakeSender{fail: true}
	n := New(sender, transport.ChatTarget{ChatID: 42}, nil, logx.Nop())

	if err := n.Send(context.Background(), "status changed"); err == nil {
		t.Fatal("expected send failure")
	}

	// The marker must not advance on failure: the same text is retried.
	sender.fail = false
	if err := n.Send(context.Background(), "status changed"); err != nil {
		t.Fatalf("retry Send error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
}
