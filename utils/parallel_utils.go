package utils

import (
	"context"
	"fmt"
	"sort"
)

// MailKey names one directed, tagged edge between two participants
type MailKey struct {
	From, To, Tag int
}

func (k MailKey) String() string {
	return fmt.Sprintf("%d->%d[tag %d]", k.From, k.To, k.Tag)
}

type MailBox[T any] struct {
	NP           int
	MessageChans map[MailKey]chan T // One per registered edge, capacity 1
}

func NewMailBox[T any](NP int, keys ...MailKey) *MailBox[T] {
	mb := &MailBox[T]{
		NP:           NP,
		MessageChans: make(map[MailKey]chan T, len(keys)),
	}
	for _, key := range keys {
		if key.From < 0 || key.From > NP-1 || key.To < 0 || key.To > NP-1 {
			panic(fmt.Sprintf("Edge %v out of bounds for %d participants", key, NP))
		}
		if _, exists := mb.MessageChans[key]; exists {
			panic(fmt.Sprintf("Edge %v registered twice", key))
		}
		mb.MessageChans[key] = make(chan T, 1)
	}
	return mb
}

func (mb *MailBox[T]) channel(key MailKey) (ch chan T, err error) {
	var (
		exists bool
	)
	if ch, exists = mb.MessageChans[key]; !exists {
		err = fmt.Errorf("no mailbox registered for edge %v", key)
	}
	return
}

// PostMessage blocks while the previous message on the edge is unread
func (mb *MailBox[T]) PostMessage(ctx context.Context, key MailKey, msg T) (err error) {
	var (
		ch chan T
	)
	if ch, err = mb.channel(key); err != nil {
		return
	}
	select {
	case ch <- msg:
	case <-ctx.Done():
		err = fmt.Errorf("posting on edge %v: %w", key, ctx.Err())
	}
	return
}

// ReceiveMessage blocks until a message arrives on the edge or ctx is done
func (mb *MailBox[T]) ReceiveMessage(ctx context.Context, key MailKey) (msg T, err error) {
	var (
		ch chan T
	)
	if ch, err = mb.channel(key); err != nil {
		return
	}
	select {
	case msg = <-ch:
	case <-ctx.Done():
		err = fmt.Errorf("receiving on edge %v: %w", key, ctx.Err())
	}
	return
}

// Keys returns the registered edges in (From, To, Tag) order
func (mb *MailBox[T]) Keys() (keys []MailKey) {
	keys = make([]MailKey, 0, len(mb.MessageChans))
	for key := range mb.MessageChans {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Tag < b.Tag
	})
	return
}
