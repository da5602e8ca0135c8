package preference

import "sync"

// hub fans preference changes out to per-key subscribers. Each subscriber channel holds at most
// one pending value; a slow reader only ever sees the latest one.
type hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan string
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[int]chan string)}
}

func (h *hub) subscribe(key string) (<-chan string, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan string, 1)
	if h.subs[key] == nil {
		h.subs[key] = make(map[int]chan string)
	}
	h.subs[key][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[key][id]; !ok {
				return // already closed by closeAll
			}
			delete(h.subs[key], id)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
			close(ch)
		})
	}
}

func (h *hub) publish(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[key] {
		select {
		case ch <- value:
		default:
			// replace the stale pending value
			select {
			case <-ch:
			default:
			}
			ch <- value
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key, subs := range h.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(h.subs, key)
	}
}
