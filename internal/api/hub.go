package api

import (
	"strings"
	"sync"

	"github.com/k8ika0s/bounty-ledger/internal/record"
)

// hub fans recorded completions out to stream subscribers. Subscribers are
// keyed by lower-cased player; the empty key receives everything.
type hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan record.Completion]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[chan record.Completion]struct{})}
}

func (h *Handler) getHub() *hub {
	h.hubOnce.Do(func() {
		h.hub = newHub()
	})
	return h.hub
}

func (h *hub) subscribe(player string) (chan record.Completion, func()) {
	key := streamKey(player)
	ch := make(chan record.Completion, 64)
	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[chan record.Completion]struct{})
	}
	h.subs[key][ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		if subs, ok := h.subs[key]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.subs, key)
			}
		}
		h.mu.Unlock()
		close(ch)
	}
}

// publish never blocks; a full subscriber misses the completion.
func (h *hub) publish(c record.Completion) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	keys := []string{""}
	if k := streamKey(c.Player); k != "" {
		keys = append(keys, k)
	}
	for _, key := range keys {
		for ch := range h.subs[key] {
			select {
			case ch <- c:
			default:
			}
		}
	}
}

func streamKey(player string) string {
	return strings.ToLower(strings.TrimSpace(player))
}
