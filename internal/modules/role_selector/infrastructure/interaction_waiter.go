package infrastructure

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
)

// ErrAlreadyAwaiting is returned when something is already waiting on the same message.
var ErrAlreadyAwaiting = errors.New("already awaiting this message")

// Ensure InteractionWaiter implements ports.InteractionAwaiter.
var _ ports.InteractionAwaiter = (*InteractionWaiter)(nil)

// InteractionWaiter routes gateway events to the setup session waiting for them.
// Events that arrive while nothing waits are dropped.
type InteractionWaiter struct {
	mu         sync.Mutex
	components map[snowflake.ID]chan ports.ComponentInteraction
	replies    map[snowflake.ID]*replyWaiter
}

type replyWaiter struct {
	channelID snowflake.ID
	authorID  snowflake.ID
	ch        chan ports.MessageReply
}

// NewInteractionWaiter creates a new InteractionWaiter.
func NewInteractionWaiter() *InteractionWaiter {
	return &InteractionWaiter{
		components: make(map[snowflake.ID]chan ports.ComponentInteraction),
		replies:    make(map[snowflake.ID]*replyWaiter),
	}
}

// AwaitComponent blocks until a component interaction on messageID is delivered.
func (w *InteractionWaiter) AwaitComponent(
	ctx context.Context,
	messageID snowflake.ID,
	timeout time.Duration,
) (ports.ComponentInteraction, error) {
	w.mu.Lock()
	ch, err := w.addComponentLocked(messageID)
	w.mu.Unlock()
	if err != nil {
		return ports.ComponentInteraction{}, err
	}
	defer w.remove(messageID)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ci := <-ch:
		return ci, nil
	case <-timer.C:
		return ports.ComponentInteraction{}, ports.ErrAwaitTimeout
	case <-ctx.Done():
		return ports.ComponentInteraction{}, ctx.Err()
	}
}

// AwaitReply blocks until a reply to referencedID is delivered in channelID,
// or a component interaction on referencedID, whichever comes first.
// A zero authorID accepts replies from anyone.
func (w *InteractionWaiter) AwaitReply(
	ctx context.Context,
	channelID, referencedID, authorID snowflake.ID,
	timeout time.Duration,
) (ports.ReplyOrComponent, error) {
	waiter := &replyWaiter{
		channelID: channelID,
		authorID:  authorID,
		ch:        make(chan ports.MessageReply, 1),
	}

	w.mu.Lock()
	if _, exists := w.replies[referencedID]; exists {
		w.mu.Unlock()
		return ports.ReplyOrComponent{}, ErrAlreadyAwaiting
	}
	components, err := w.addComponentLocked(referencedID)
	if err != nil {
		w.mu.Unlock()
		return ports.ReplyOrComponent{}, err
	}
	w.replies[referencedID] = waiter
	w.mu.Unlock()

	defer w.remove(referencedID)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case reply := <-waiter.ch:
		return ports.ReplyOrComponent{Reply: &reply}, nil
	case ci := <-components:
		return ports.ReplyOrComponent{Component: &ci}, nil
	case <-timer.C:
		return ports.ReplyOrComponent{}, ports.ErrAwaitTimeout
	case <-ctx.Done():
		return ports.ReplyOrComponent{}, ctx.Err()
	}
}

func (w *InteractionWaiter) addComponentLocked(messageID snowflake.ID) (chan ports.ComponentInteraction, error) {
	if _, exists := w.components[messageID]; exists {
		return nil, ErrAlreadyAwaiting
	}
	ch := make(chan ports.ComponentInteraction, 1)
	w.components[messageID] = ch
	return ch, nil
}

// remove drops every wait registered on messageID.
func (w *InteractionWaiter) remove(messageID snowflake.ID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.components, messageID)
	delete(w.replies, messageID)
}

// DeliverComponent hands a component interaction to the session awaiting its message.
// It reports whether a waiter accepted the interaction.
func (w *InteractionWaiter) DeliverComponent(ci ports.ComponentInteraction) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	ch, ok := w.components[ci.MessageID]
	if !ok {
		return false
	}
	select {
	case ch <- ci:
		return true
	default:
		return false
	}
}

// DeliverReply hands a message reply to the session awaiting it.
// It reports whether a waiter accepted the reply.
func (w *InteractionWaiter) DeliverReply(reply ports.MessageReply) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	waiter, ok := w.replies[reply.ReferencedID]
	if !ok {
		return false
	}
	if waiter.channelID != reply.ChannelID {
		return false
	}
	if waiter.authorID != 0 && waiter.authorID != reply.AuthorID {
		return false
	}
	select {
	case waiter.ch <- reply:
		return true
	default:
		return false
	}
}

// Pending returns the number of messages with an active wait.
func (w *InteractionWaiter) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.components)
}
