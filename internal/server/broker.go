package server

import (
	"encoding/json"
	"sync"
)

const (
	topicSession = "session"
	topicCatalog = "catalog"
)

// Message is one encoded server-sent event.
type Message struct {
	Event string
	Data  []byte
}

// Broker is an in-process pub/sub for SSE messages, keyed by topic.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan Message]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan Message]struct{}),
	}
}

// Subscribe returns a channel that receives messages published to topic.
func (b *Broker) Subscribe(topic string) chan Message {
	ch := make(chan Message, 16)
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan Message]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the topic's subscribers.
func (b *Broker) Unsubscribe(topic string, ch chan Message) {
	b.mu.Lock()
	delete(b.subs[topic], ch)
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
	b.mu.Unlock()
}

// Publish encodes v once and sends it to every subscriber of topic.
func (b *Broker) Publish(topic, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	msg := Message{Event: event, Data: data}

	b.mu.RLock()
	for ch := range b.subs[topic] {
		select {
		case ch <- msg:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
