package testutil

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"alcyxob/annual-plan/internal/notify"
)

// RecordingSink keeps every event it is given. A non-nil Err is returned
// from Notify after recording.
type RecordingSink struct {
	mu     sync.Mutex
	events []notify.Event
	Err    error
}

func (s *RecordingSink) Notify(_ context.Context, e notify.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.Err
}

func (s *RecordingSink) Events() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Event(nil), s.events...)
}

// MemoryStorage is an in-process object store. A non-nil PresignErr fails
// every presign request.
type MemoryStorage struct {
	mu         sync.Mutex
	Objects    map[string][]byte
	Types      map[string]string
	PresignErr error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Objects: map[string][]byte{}, Types: map[string]string{}}
}

func (m *MemoryStorage) PutObject(_ context.Context, key, contentType string, body io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = buf.Bytes()
	m.Types[key] = contentType
	return nil
}

func (m *MemoryStorage) GeneratePresignedDownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	return "https://objects.test/" + key + "?expires=" + expires.String(), nil
}

func (m *MemoryStorage) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	return nil
}
