package watcher

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hwbot/internal/notify"
	"hwbot/internal/practicum"
	"hwbot/internal/transport"
	"hwbot/pkg/logx"
)

type fakeFetcher struct {
	pages []any
	errs  []error
	since []int64
}

func (f *fakeFetcher) Fetch(ctx context.Context, since int64) (any, error) {
	f.since = append(f.since, since)
	i := len(f.since) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.pages) {
		return f.pages[i], nil
	}
	return f.pages[len(f.pages)-1], nil
}

type fakeNotifier struct {
	texts []string
}

func (f *fakeNotifier) Send(ctx context.Context, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

type fakeSender struct {
	sent []string
}

func (f *fakeSender) SendText(ctx context.Context, to transport.ChatTarget, text string, opt *transport.SendOptions) (transport.MessageRef, error) {
	f.sent = append(f.sent, text)
	return transport.MessageRef{}, nil
}

func mustSchedule(t *testing.T, raw string) Schedule {
	t.Helper()
	s, err := ParseSchedule(raw)
	if err != nil {
		t.Fatalf("ParseSchedule(%q) error: %v", raw, err)
	}
	return s
}

func statusPage(status string, current float64) map[string]any {
	return map[string]any{
		"homeworks": []any{
			map[string]any{"homework_name": "HW1", "status": status},
		},
		"current_date": current,
	}
}

func TestIdenticalCyclesSendOnce(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{pages: []any{statusPage("reviewing", 1000), statusPage("reviewing", 1000)}}
	sender := &fakeSender{}
	notifier := notify.New(sender, transport.ChatTarget{ChatID: 1}, nil, logx.Nop())

	w := New(fetcher, notifier, mustSchedule(t, "10m"), logx.Nop())
	w.state.Watermark = 500

	w.RunCycle(context.Background())
	w.RunCycle(context.Background())

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want exactly 1 (duplicate cycle suppressed)", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0], `"HW1"`) {
		t.Fatalf("unexpected notification text: %q", sender.sent[0])
	}
	if w.Watermark() != 1000 {
		t.Fatalf("watermark = %d, want 1000", w.Watermark())
	}
	if fetcher.since[0] != 500 || fetcher.since[1] != 1000 {
		t.Fatalf("fetch since = %v, want [500 1000]", fetcher.since)
	}
}

func TestEmptyHomeworksIsNoOp(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{pages: []any{
		map[string]any{"homeworks": []any{}, "current_date": float64(2000)},
	}}
	notifier := &fakeNotifier{}

	w := New(fetcher, notifier, mustSchedule(t, "10m"), logx.Nop())
	w.state.Watermark = 500

	w.RunCycle(context.Background())

	if len(notifier.texts) != 0 {
		t.Fatalf("sent %d messages, want 0 for empty homeworks", len(notifier.texts))
	}
	if w.Watermark() != 2000 {
		t.Fatalf("watermark = %d, want 2000", w.Watermark())
	}
}

func TestFetchFailureDoesNotAdvanceWatermark(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{
		errs:  []error{&practicum.ConnectivityError{Err: errors.New("connection refused")}},
		pages: []any{nil},
	}
	notifier := &fakeNotifier{}

	w := New(fetcher, notifier, mustSchedule(t, "10m"), logx.Nop())
	w.state.Watermark = 500

	w.RunCycle(context.Background())

	if w.Watermark() != 500 {
		t.Fatalf("watermark = %d, want 500 (unchanged on failure)", w.Watermark())
	}
	if len(notifier.texts) != 1 || !strings.HasPrefix(notifier.texts[0], "Сбой в работе программы: ") {
		t.Fatalf("expected one error notification, got %v", notifier.texts)
	}
}

func TestProtocolErrorFailsCycle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		page any
	}{
		{name: "unknown status", page: statusPage("burning", 1000)},
		{name: "missing current_date", page: map[string]any{"homeworks": []any{}}},
		{name: "non-numeric current_date", page: map[string]any{"homeworks": []any{}, "current_date": "soon"}},
		{name: "unrecognized key", page: map[string]any{
			"homeworks":    []any{map[string]any{"homework_name": "HW1", "status": "approved", "grade": "A"}},
			"current_date": float64(1000),
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{pages: []any{tt.page}}
			notifier := &fakeNotifier{}

			w := New(fetcher, notifier, mustSchedule(t, "10m"), logx.Nop())
			w.state.Watermark = 500

			w.RunCycle(context.Background())

			if w.Watermark() != 500 {
				t.Fatalf("watermark = %d, want 500 (cycle must fail)", w.Watermark())
			}
			if len(notifier.texts) != 1 || !strings.HasPrefix(notifier.texts[0], "Сбой в работе программы: ") {
				t.Fatalf("expected one error notification, got %v", notifier.texts)
			}
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{pages: []any{
		map[string]any{"homeworks": []any{}, "current_date": float64(1)},
	}}
	w := New(fetcher, &fakeNotifier{}, mustSchedule(t, "1h"), logx.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}

func TestInitialWatermarkLookback(t *testing.T) {
	t.Parallel()
	fetcher := &fakeFetcher{pages: []any{
		map[string]any{"homeworks": []any{}, "current_date": float64(1)},
	}}
	w := New(fetcher, &fakeNotifier{}, mustSchedule(t, "10m"), logx.Nop())

	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // first cycle runs, then the sleep select exits immediately
	w.Run(ctx)

	want := fixed.Add(-10 * time.Minute).Unix()
	if len(fetcher.since) != 1 || fetcher.since[0] != want {
		t.Fatalf("first fetch since = %v, want [%d]", fetcher.since, want)
	}
}
