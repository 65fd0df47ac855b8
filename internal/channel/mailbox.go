// Package channel carries the single terminal envelope of a handshake to
// its opener and the opener's inbound messages back to the handshake.
package channel

import (
	"context"
	"errors"
	"sync"

	"github.com/AlexZinkM/wallet-connect/internal/model"
)

var (
	// ErrNoOpener is returned when the opener has gone away before delivery
	ErrNoOpener = errors.New("opener is no longer listening")

	// ErrAlreadyDelivered is returned on a second Post to the same mailbox
	ErrAlreadyDelivered = errors.New("envelope already delivered")

	// ErrAlreadySubscribed is returned when a second opener tries to attach
	ErrAlreadySubscribed = errors.New("opener already attached")

	// ErrInboxFull is returned when inbound messages are not being consumed
	ErrInboxFull = errors.New("inbound queue is full")

	// ErrClosed is returned when the mailbox was closed
	ErrClosed = errors.New("mailbox closed")
)

const inboxSize = 8

// Opener is the capability a handshake uses to reach whoever opened it.
type Opener interface {
	Post(ctx context.Context, env model.Envelope) error
}

// Mailbox is a typed single-delivery channel between one handshake and one
// opener. A Post made before the opener attaches is held until it does.
type Mailbox struct {
	mu         sync.Mutex
	delivered  bool
	subscribed bool
	detached   bool
	closed     bool

	out     chan model.Envelope
	inbound chan model.OpenerMessage
	done    chan struct{}
}

// NewMailbox creates an empty mailbox
func NewMailbox() *Mailbox {
	return &Mailbox{
		out:     make(chan model.Envelope, 1),
		inbound: make(chan model.OpenerMessage, inboxSize),
		done:    make(chan struct{}),
	}
}

// Post delivers env to the opener. It never blocks.
func (m *Mailbox) Post(_ context.Context, env model.Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.delivered {
		return ErrAlreadyDelivered
	}
	// either way there is nobody left to receive a second attempt
	m.delivered = true
	if m.detached || m.closed {
		return ErrNoOpener
	}

	m.out <- env
	return nil
}

// Subscribe attaches the opener. The returned channel yields at most one
// envelope; detach must be called when the opener goes away.
func (m *Mailbox) Subscribe() (<-chan model.Envelope, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed && len(m.out) == 0 {
		return nil, nil, ErrClosed
	}
	if m.subscribed {
		return nil, nil, ErrAlreadySubscribed
	}
	m.subscribed = true

	var once sync.Once
	detach := func() {
		once.Do(func() {
			m.mu.Lock()
			m.detached = true
			m.mu.Unlock()
		})
	}
	return m.out, detach, nil
}

// Attached reports whether an opener is currently subscribed
func (m *Mailbox) Attached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.subscribed && !m.detached
}

// Delivered reports whether the terminal envelope has been posted
func (m *Mailbox) Delivered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delivered
}

// Deliver queues an inbound message from the opener
func (m *Mailbox) Deliver(msg model.OpenerMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	select {
	case m.inbound <- msg:
		return nil
	default:
		return ErrInboxFull
	}
}

// Inbound yields messages posted by the opener
func (m *Mailbox) Inbound() <-chan model.OpenerMessage {
	return m.inbound
}

// Done is closed once the mailbox is closed
func (m *Mailbox) Done() <-chan struct{} {
	return m.done
}

// Close stops inbound traffic. A held envelope stays available for pickup.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	close(m.done)
}
