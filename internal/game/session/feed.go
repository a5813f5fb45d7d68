// Package session tracks the character sheets a host has open and serializes the actions
// taken on each.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/cory-johannsen/blb/internal/game/roll"
	"github.com/cory-johannsen/blb/internal/game/sheet"
)

// Feed routes roll messages to a Go channel, bridging a sheet's chat output to whatever
// the host renders them with.
type Feed struct {
	id       string
	messages chan roll.Message
	mu       sync.Mutex
	closed   bool
}

var _ sheet.ChatSink = (*Feed)(nil)

// NewFeed creates a Feed for the given character ID.
//
// Postcondition: Returns a Feed with an open channel of at least one slot.
func NewFeed(id string, bufferSize int) *Feed {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Feed{
		id:       id,
		messages: make(chan roll.Message, bufferSize),
	}
}

// ID returns the character ID the feed belongs to.
func (f *Feed) ID() string {
	return f.id
}

// Post enqueues msg without blocking.
//
// Postcondition: Returns an error if the feed is closed or its buffer is full.
func (f *Feed) Post(_ context.Context, msg roll.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return fmt.Errorf("feed %s is closed", f.id)
	}
	select {
	case f.messages <- msg:
		return nil
	default:
		return fmt.Errorf("feed %s message buffer full", f.id)
	}
}

// Messages returns the read-only message channel.
func (f *Feed) Messages() <-chan roll.Message {
	return f.messages
}

// Drain returns every message currently buffered without blocking.
func (f *Feed) Drain() []roll.Message {
	var out []roll.Message
	for {
		select {
		case msg, ok := <-f.messages:
			if !ok {
				return out
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

// Close marks the feed as closed and closes the channel.
//
// Postcondition: The channel is closed. Further Post calls return an error.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.closed {
		f.closed = true
		close(f.messages)
	}
	return nil
}

// IsClosed reports whether the feed has been closed.
func (f *Feed) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
