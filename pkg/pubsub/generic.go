package pubsub

import (
	"sync"

	"f1dashbot/pkg/model"
)

var (
	RoundFinishedPubSub = NewTypedPubSub[model.RoundFinished]()
)

type TypedPubSub[T any] struct {
	mu   sync.Mutex
	subs map[string][]chan T
}

func NewTypedPubSub[T any]() *TypedPubSub[T] {
	return &TypedPubSub[T]{
		subs: make(map[string][]chan T),
	}
}

func (ps *TypedPubSub[T]) Subscribe(topic string) <-chan T {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ch := make(chan T)
	ps.subs[topic] = append(ps.subs[topic], ch)
	return ch
}

func (ps *TypedPubSub[T]) Publish(topic string, data T) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, ch := range ps.subs[topic] {
		ch <- data
	}
}
