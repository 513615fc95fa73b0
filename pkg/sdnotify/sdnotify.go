// Package sdnotify integrates with systemd service supervision: readiness
// notification on startup and watchdog keepalives while the poll loop runs.
// All calls are no-ops outside a systemd unit.
package sdnotify

import (
	"context"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"hwbot/pkg/logx"
)

// Ready signals READY=1. Returns whether a notification socket was present.
func Ready(log logx.Logger) bool {
	ok, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		log.Warn("sd_notify failed", logx.Err(err))
		return false
	}
	if ok {
		log.Debug("systemd readiness notified")
	}
	return ok
}

// Stopping signals STOPPING=1 (best effort).
func Stopping() {
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
}

// WatchdogLoop pings the systemd watchdog at half the configured interval
// until ctx is done. It returns immediately when WatchdogSec is not set.
func WatchdogLoop(ctx context.Context, log logx.Logger) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		log.Warn("sd_watchdog probe failed", logx.Err(err))
		return
	}
	if interval <= 0 {
		return
	}

	tick := interval / 2
	if tick < time.Second {
		tick = time.Second
	}
	log.Debug("systemd watchdog enabled", logx.Duration("interval", interval))

	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		}
	}
}
