package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fastprodman/vcoingame/internal/session"
	"github.com/fastprodman/vcoingame/internal/vk"
)

// Source is the external update feed. Wait blocks until new events
// exist; an empty batch with a nil error is a valid outcome.
type Source interface {
	Wait(ctx context.Context) ([]vk.Update, error)
}

// SessionStore resolves users to their sessions.
type SessionStore interface {
	GetOrCreate(ctx context.Context, userID int64) (*session.Session, error)
}

// Dispatcher routes inbound updates through an ordered chain of
// pattern- and state-gated handlers. Matching is first-match-wins in
// strict registration order; non-final handlers let the chain
// continue so fall-through observers see every update.
type Dispatcher struct {
	source   Source
	sessions SessionStore

	handlers   []*MessageHandler
	membership []MembershipFunc
}

func NewDispatcher(source Source, sessions SessionStore) *Dispatcher {
	return &Dispatcher{
		source:   source,
		sessions: sessions,
	}
}

// Register appends a message handler to the chain. Registration order
// is evaluation order.
func (d *Dispatcher) Register(h *MessageHandler) {
	d.handlers = append(d.handlers, h)
}

// RegisterMembership appends a membership-change handler. Membership
// handlers have no pattern or state gate and all of them run for
// every join/leave event.
func (d *Dispatcher) RegisterMembership(fn MembershipFunc) {
	d.membership = append(d.membership, fn)
}

// Run consumes the update feed until ctx is done. Handler and feed
// errors are contained here: one bad update never takes the loop down.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := d.source.Wait(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			slog.Error("update feed wait failed", "error", err)
			continue
		}

		for _, u := range updates {
			d.Dispatch(ctx, u)
		}
	}
}

// Dispatch routes a single update through the chain.
func (d *Dispatcher) Dispatch(ctx context.Context, u vk.Update) {
	switch u.Type {
	case vk.UpdateMessageNew:
		err := d.dispatchMessage(ctx, u)
		if err != nil {
			slog.Error("dispatch message failed",
				"user_id", u.Message.FromID, "error", err)
		}

	case vk.UpdateGroupJoin, vk.UpdateGroupLeave:
		joined := u.Type == vk.UpdateGroupJoin

		for _, fn := range d.membership {
			err := fn(ctx, *u.Membership, joined)
			if err != nil {
				slog.Error("membership handler failed",
					"user_id", u.Membership.UserID, "joined", joined, "error", err)
			}
		}
	}
}

func (d *Dispatcher) dispatchMessage(ctx context.Context, u vk.Update) error {
	sess, err := d.sessions.GetOrCreate(ctx, u.Message.FromID)
	if err != nil {
		return fmt.Errorf("resolve session: %w", err)
	}

	for _, h := range d.handlers {
		if !h.allows(sess.State()) {
			continue
		}

		matches, ok := h.match(u.Message.Text)
		if !ok {
			continue
		}

		turn := &Turn{
			Update:  u,
			Text:    u.Message.Text,
			Matches: matches,
			Session: sess,
		}

		err := d.invoke(ctx, h, turn)
		if err != nil {
			slog.Error("handler failed",
				"pattern", h.pattern, "user_id", u.Message.FromID, "error", err)
		}

		if h.final {
			break
		}
	}

	return nil
}

func (d *Dispatcher) invoke(ctx context.Context, h *MessageHandler, turn *Turn) (retErr error) {
	defer func() {
		r := recover()
		if r != nil {
			retErr = fmt.Errorf("handler panic: %v", r)
		}
	}()

	err := h.action(ctx, turn)
	if err != nil {
		return err
	}

	if h.resetState {
		err := turn.Session.SetState(ctx, session.StateMenu)
		if err != nil {
			return fmt.Errorf("reset state: %w", err)
		}
	}

	return nil
}
