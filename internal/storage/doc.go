// Package storage persists the notification send history so an operator can
// audit what the bot delivered (or failed to deliver) and when.
//
// It intentionally does NOT persist poll state: the watermark and the
// duplicate-suppression marker are in-memory only and reset on restart.
package storage
