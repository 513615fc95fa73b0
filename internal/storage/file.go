package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"hwbot/pkg/logx"
)

// fileStore appends send records to <path>.sends.jsonl, one JSON object per
// line. Good enough for a single-process notifier; no compaction is needed
// because records are never read back by the program.
type fileStore struct {
	log logx.Logger

	mu   sync.Mutex
	file *os.File
}

type sendLine struct {
	At     string `json:"at"`
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}

	dir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(filepath.Base(path)))
	full := filepath.Join(dir, base+".sends.jsonl")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	log.Debug("file store opened", logx.String("path", full))
	return &fileStore{log: log, file: f}, nil
}

func (s *fileStore) AppendSend(ctx context.Context, rec SendRecord) error {
	if s == nil || s.file == nil {
		return ErrDisabled
	}
	if rec.At.IsZero() {
		rec.At = time.Now()
	}
	b, err := json.Marshal(sendLine{
		At:     rec.At.Format(time.RFC3339Nano),
		ChatID: rec.ChatID,
		Text:   rec.Text,
		OK:     rec.OK,
		Error:  rec.Error,
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.file.Write(append(b, '\n'))
	return err
}

func (s *fileStore) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
