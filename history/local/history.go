package local

import (
	"context"
	"sync"
	"time"

	"github.com/w-h-a/docchat/history"
)

type session struct {
	turns     []history.Turn
	expiresAt time.Time
}

type localHistory struct {
	options  history.Options
	now      func() time.Time
	sessions map[string]*session
	mtx      sync.RWMutex
	done     chan struct{}
	once     sync.Once
}

func (h *localHistory) Append(ctx context.Context, sessionId string, role string, message string) error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	now := h.now()

	s, ok := h.sessions[sessionId]
	if !ok || !now.Before(s.expiresAt) {
		s = &session{}
		h.sessions[sessionId] = s
	}

	s.turns = append(s.turns, history.Turn{Role: role, Message: message})
	s.expiresAt = now.Add(h.options.TTL)

	return nil
}

func (h *localHistory) Read(ctx context.Context, sessionId string) ([]history.Turn, error) {
	h.mtx.RLock()
	defer h.mtx.RUnlock()

	s, ok := h.sessions[sessionId]
	if !ok || !h.now().Before(s.expiresAt) {
		return []history.Turn{}, nil
	}

	turns := make([]history.Turn, len(s.turns))
	copy(turns, s.turns)

	return turns, nil
}

func (h *localHistory) Close() error {
	h.once.Do(func() {
		close(h.done)
	})
	return nil
}

func (h *localHistory) sweep() {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	now := h.now()
	for id, s := range h.sessions {
		if !now.Before(s.expiresAt) {
			delete(h.sessions, id)
		}
	}
}

func (h *localHistory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.sweep()
		case <-h.done:
			return
		}
	}
}

func NewHistory(opts ...history.Option) *localHistory {
	options := history.NewOptions(opts...)

	h := &localHistory{
		options:  options,
		now:      time.Now,
		sessions: map[string]*session{},
		mtx:      sync.RWMutex{},
		done:     make(chan struct{}),
	}

	if now, ok := ClockFrom(options.Context); ok {
		h.now = now
	}

	interval := time.Minute
	if d, ok := JanitorIntervalFrom(options.Context); ok {
		interval = d
	}

	if interval > 0 {
		go h.janitor(interval)
	}

	return h
}
