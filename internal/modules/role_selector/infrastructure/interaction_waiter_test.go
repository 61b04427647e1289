package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sglre6355/zangra/internal/modules/role_selector/application/ports"
)

// waitPending polls until n messages have an active wait.
func waitPending(t *testing.T, w *InteractionWaiter, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for w.Pending() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d pending waits, got %d", n, w.Pending())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestInteractionWaiter_DeliverComponent(t *testing.T) {
	w := NewInteractionWaiter()

	type result struct {
		ci  ports.ComponentInteraction
		err error
	}
	done := make(chan result, 1)
	go func() {
		ci, err := w.AwaitComponent(context.Background(), 100, time.Minute)
		done <- result{ci, err}
	}()
	waitPending(t, w, 1)

	if w.DeliverComponent(ports.ComponentInteraction{MessageID: 999, CustomID: "rs_setup:continue"}) {
		t.Error("delivery to an unrelated message must be rejected")
	}
	if !w.DeliverComponent(ports.ComponentInteraction{MessageID: 100, CustomID: "rs_setup:continue"}) {
		t.Fatal("expected delivery to be accepted")
	}

	res := <-done
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if res.ci.CustomID != "rs_setup:continue" {
		t.Errorf("unexpected custom ID %q", res.ci.CustomID)
	}
	waitPending(t, w, 0)
}

func TestInteractionWaiter_DropsUnawaitedEvents(t *testing.T) {
	w := NewInteractionWaiter()
	if w.DeliverComponent(ports.ComponentInteraction{MessageID: 100}) {
		t.Error("expected component without waiter to be dropped")
	}
	if w.DeliverReply(ports.MessageReply{ReferencedID: 100}) {
		t.Error("expected reply without waiter to be dropped")
	}
}

func TestInteractionWaiter_ComponentTimeout(t *testing.T) {
	w := NewInteractionWaiter()
	_, err := w.AwaitComponent(context.Background(), 100, 10*time.Millisecond)
	if !errors.Is(err, ports.ErrAwaitTimeout) {
		t.Fatalf("expected ErrAwaitTimeout, got %v", err)
	}
	if w.Pending() != 0 {
		t.Error("expected waiter to be unregistered after timeout")
	}
}

func TestInteractionWaiter_ContextCancelled(t *testing.T) {
	w := NewInteractionWaiter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.AwaitComponent(ctx, 100, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	_, err = w.AwaitReply(ctx, 1, 100, 0, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestInteractionWaiter_AlreadyAwaiting(t *testing.T) {
	w := NewInteractionWaiter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _, _ = w.AwaitComponent(ctx, 100, time.Minute) }()
	waitPending(t, w, 1)

	_, err := w.AwaitComponent(context.Background(), 100, time.Minute)
	if !errors.Is(err, ErrAlreadyAwaiting) {
		t.Errorf("expected ErrAlreadyAwaiting, got %v", err)
	}
}

func TestInteractionWaiter_DeliverReply(t *testing.T) {
	const (
		channelID  = 7
		referenced = 100
		authorID   = 3
	)

	tests := []struct {
		name     string
		reply    ports.MessageReply
		accepted bool
	}{
		{
			name:     "matching reply",
			reply:    ports.MessageReply{ChannelID: channelID, ReferencedID: referenced, AuthorID: authorID, Content: "hi"},
			accepted: true,
		},
		{
			name:  "other channel",
			reply: ports.MessageReply{ChannelID: 8, ReferencedID: referenced, AuthorID: authorID},
		},
		{
			name:  "other author",
			reply: ports.MessageReply{ChannelID: channelID, ReferencedID: referenced, AuthorID: 4},
		},
		{
			name:  "other message",
			reply: ports.MessageReply{ChannelID: channelID, ReferencedID: 101, AuthorID: authorID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewInteractionWaiter()
			done := make(chan error, 1)
			go func() {
				_, err := w.AwaitReply(context.Background(), channelID, referenced, authorID, 200*time.Millisecond)
				done <- err
			}()
			waitPending(t, w, 1)

			if got := w.DeliverReply(tt.reply); got != tt.accepted {
				t.Fatalf("expected accepted=%v, got %v", tt.accepted, got)
			}

			err := <-done
			if tt.accepted && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.accepted && !errors.Is(err, ports.ErrAwaitTimeout) {
				t.Errorf("expected ErrAwaitTimeout, got %v", err)
			}
		})
	}
}

func TestInteractionWaiter_ReplyFromAnyAuthor(t *testing.T) {
	w := NewInteractionWaiter()
	done := make(chan ports.ReplyOrComponent, 1)
	go func() {
		got, _ := w.AwaitReply(context.Background(), 7, 100, 0, time.Minute)
		done <- got
	}()
	waitPending(t, w, 1)

	if !w.DeliverReply(ports.MessageReply{ChannelID: 7, ReferencedID: 100, AuthorID: 55, Content: "x"}) {
		t.Fatal("expected reply to be accepted")
	}
	got := <-done
	if got.Reply == nil || got.Reply.AuthorID != 55 {
		t.Errorf("expected a reply from author 55, got %+v", got)
	}
}

func TestInteractionWaiter_ComponentEndsReplyWait(t *testing.T) {
	w := NewInteractionWaiter()

	type result struct {
		got ports.ReplyOrComponent
		err error
	}
	done := make(chan result, 1)
	go func() {
		got, err := w.AwaitReply(context.Background(), 7, 100, 3, time.Minute)
		done <- result{got, err}
	}()
	waitPending(t, w, 1)

	if !w.DeliverComponent(ports.ComponentInteraction{MessageID: 100, UserID: 3, CustomID: "rs_setup:cancel"}) {
		t.Fatal("expected the component to end the reply wait")
	}

	res := <-done
	if res.err != nil {
		t.Fatalf("unexpected error: %v", res.err)
	}
	if res.got.Reply != nil || res.got.Component == nil || res.got.Component.CustomID != "rs_setup:cancel" {
		t.Errorf("expected the cancel click, got %+v", res.got)
	}
	waitPending(t, w, 0)
	if w.DeliverReply(ports.MessageReply{ChannelID: 7, ReferencedID: 100, AuthorID: 3}) {
		t.Error("expected the reply wait to be released")
	}
}

func TestInteractionWaiter_ReplyWaitBlocksSecondComponentWait(t *testing.T) {
	w := NewInteractionWaiter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _, _ = w.AwaitReply(ctx, 7, 100, 0, time.Minute) }()
	waitPending(t, w, 1)

	_, err := w.AwaitComponent(context.Background(), 100, time.Minute)
	if !errors.Is(err, ErrAlreadyAwaiting) {
		t.Errorf("expected ErrAlreadyAwaiting, got %v", err)
	}
}
