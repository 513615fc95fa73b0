// Package watcher runs the poll loop: fetch homework statuses, validate the
// payload, render a status-change message, notify, advance the watermark,
// sleep until the next schedule point.
package watcher

import (
	"context"
	"time"

	"hwbot/internal/practicum"
	"hwbot/pkg/logx"
)

// Fetcher fetches raw homework status pages.
type Fetcher interface {
	Fetch(ctx context.Context, since int64) (any, error)
}

// Notifier forwards a message to the chat. Implementations own duplicate
// suppression and must never be relied on to fail the cycle.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// PollState is the only mutable state of the loop. It lives in memory and
// dies with the process.
type PollState struct {
	Watermark int64 // unix timestamp the next fetch requests updates from
}

type Watcher struct {
	fetcher  Fetcher
	notifier Notifier
	sched    Schedule
	log      logx.Logger

	state PollState
	now   func() time.Time
}

func New(fetcher Fetcher, notifier Notifier, sched Schedule, log logx.Logger) *Watcher {
	return &Watcher{
		fetcher:  fetcher,
		notifier: notifier,
		sched:    sched,
		log:      log,
		now:      time.Now,
	}
}

// Watermark exposes the current poll position (status reporting and tests).
func (w *Watcher) Watermark() int64 { return w.state.Watermark }

// Run drives the loop until ctx is cancelled. Cycle errors are handled
// inside; Run only ever returns on shutdown.
func (w *Watcher) Run(ctx context.Context) {
	now := w.now()
	if w.state.Watermark == 0 {
		w.state.Watermark = now.Add(-w.sched.Lookback(now)).Unix()
	}
	w.log.Info("poll loop started",
		logx.String("schedule", w.sched.String()),
		logx.Int64("watermark", w.state.Watermark))

	for {
		w.RunCycle(ctx)

		next := w.sched.Next(w.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			w.log.Info("poll loop stopped")
			return
		case <-timer.C:
		}
	}
}

// RunCycle executes one poll cycle and absorbs its errors: log with context,
// then best-effort forward the failure through the notification channel.
// Duplicate suppression applies to error texts too, so a persistent outage
// produces one chat message, not one per cycle.
func (w *Watcher) RunCycle(ctx context.Context) {
	if err := w.cycle(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		w.log.Error("poll cycle failed", logx.Err(err), logx.Int64("watermark", w.state.Watermark))
		_ = w.notifier.Send(ctx, "Сбой в работе программы: "+err.Error())
	}
}

func (w *Watcher) cycle(ctx context.Context) error {
	raw, err := w.fetcher.Fetch(ctx, w.state.Watermark)
	if err != nil {
		return err
	}
	if err := practicum.Validate(raw); err != nil {
		return err
	}
	current, err := practicum.CurrentDate(raw)
	if err != nil {
		return err
	}

	hw, ok := practicum.FirstHomework(raw)
	if !ok {
		w.log.Info("no homework updates")
		w.state.Watermark = current
		return nil
	}

	text, err := practicum.ParseStatus(hw)
	if err != nil {
		return err
	}

	// Send failures are logged by the notifier and must not fail the cycle:
	// the watermark still advances, and the message stays eligible for the
	// next status change.
	_ = w.notifier.Send(ctx, text)

	w.state.Watermark = current
	return nil
}
