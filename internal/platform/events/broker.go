// Package events provides the in-process change-notification broker the
// ledger uses to tell open views that a storage key changed. It replaces the
// storage-event listening the browser build relied on.
package events

import "sync"

// Change is one notification: a storage key and its new serialized value.
type Change struct {
	Key   string
	Value []byte
}

// Broker is a pub/sub registry keyed by storage key. Publish never blocks:
// a subscriber that falls behind misses changes instead of stalling writers.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan Change
	nextID int
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[int]chan Change)}
}

// Subscribe registers interest in changes to key. The returned cancel
// function removes the subscription and closes the channel; callers must
// invoke it when done or the subscription leaks.
func (b *Broker) Subscribe(key string, buffer int) (<-chan Change, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Change, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[key] == nil {
		b.subs[key] = make(map[int]chan Change)
	}
	b.subs[key][id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if subs, ok := b.subs[key]; ok {
			if c, ok := subs[id]; ok {
				delete(subs, id)
				close(c)
			}
			if len(subs) == 0 {
				delete(b.subs, key)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the change to every subscriber of key. Full subscriber
// buffers drop the change.
func (b *Broker) Publish(key string, value []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[key] {
		select {
		case ch <- Change{Key: key, Value: value}:
		default:
		}
	}
}
