package upload_test

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/dmitrymomot/streamupload/pkg/upload"
)

// memSink keeps file parts in memory, keyed by a sequential reference.
type memSink struct {
	mu      sync.Mutex
	seq     int
	objects map[string][]byte
	opened  []upload.Part
	aborted []string

	openErr  error
	writeErr error
	closeErr error
}

func newMemSink() *memSink {
	return &memSink{objects: make(map[string][]byte)}
}

func (s *memSink) Open(_ context.Context, part upload.Part) (upload.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openErr != nil {
		return nil, s.openErr
	}
	s.seq++
	s.opened = append(s.opened, part)
	return &memHandle{sink: s, ref: fmt.Sprintf("mem://%d/%s", s.seq, part.Filename)}, nil
}

// Object returns the stored bytes for a reference.
func (s *memSink) Object(ref string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[ref]
	return b, ok
}

func (s *memSink) Aborted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.aborted...)
}

func (s *memSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type memHandle struct {
	sink   *memSink
	ref    string
	buf    bytes.Buffer
	writes int
	done   bool
}

func (h *memHandle) Write(_ context.Context, p []byte) error {
	if h.done {
		return fmt.Errorf("write after close: %s", h.ref)
	}
	if h.sink.writeErr != nil {
		return h.sink.writeErr
	}
	h.writes++
	h.buf.Write(p)
	return nil
}

func (h *memHandle) Close(_ context.Context) (string, error) {
	if h.done {
		return "", fmt.Errorf("double close: %s", h.ref)
	}
	h.done = true
	if h.sink.closeErr != nil {
		return "", h.sink.closeErr
	}

	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	h.sink.objects[h.ref] = bytes.Clone(h.buf.Bytes())
	return h.ref, nil
}

func (h *memHandle) Abort(_ context.Context) error {
	if h.done {
		return fmt.Errorf("abort after close: %s", h.ref)
	}
	h.done = true

	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	h.sink.aborted = append(h.sink.aborted, h.ref)
	return nil
}
