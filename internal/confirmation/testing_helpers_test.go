package confirmation

import (
	"context"
	"sync"

	"github.com/wolfman30/leadflow/internal/llm"
	"github.com/wolfman30/leadflow/internal/notify"
)

type stubLLM struct {
	mu   sync.Mutex
	reqs []llm.Request
	text string
	err  error
}

func (s *stubLLM) Complete(_ context.Context, req llm.Request) (llm.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return llm.Response{}, s.err
	}
	return llm.Response{Text: s.text}, nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []notify.EmailMessage
	id   string
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg notify.EmailMessage) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, msg)
	return r.id, nil
}

type memoryArchiver struct {
	records []Record
	err     error
}

func (m *memoryArchiver) Archive(_ context.Context, rec Record) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}
