// Package logx provides the structured logging service for hwbot.
//
// It is a thin layer over zerolog with three sinks: a human-readable console
// writer, an optional append-only JSON file, and an optional rate-limited
// Telegram sink that forwards warnings and errors into the notification chat.
// Sinks and levels can be swapped at runtime via Service.Apply, which is how
// config hot reload adjusts logging without restarting the poll loop.
package logx
