//go:build !sqlite
// +build !sqlite

package storage

import (
	"errors"

	"hwbot/pkg/logx"
)

// Built without the sqlite tag: keep the binary dependency-light by default
// and point operators at the file driver instead.
func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	return nil, errors.New("sqlite storage requires building with -tags sqlite (or use the file driver)")
}
