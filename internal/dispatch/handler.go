package dispatch

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/fastprodman/vcoingame/internal/session"
	"github.com/fastprodman/vcoingame/internal/vk"
)

// Turn is the per-invocation context of one matched message: the
// originating update, its text and regex captures, and the user's
// session. It lives only for the handler call.
type Turn struct {
	Update  vk.Update
	Text    string
	Matches []string
	Session *session.Session
}

type HandlerFunc func(ctx context.Context, turn *Turn) error

type MembershipFunc func(ctx context.Context, ev vk.MembershipEvent, joined bool) error

// Options configure a message handler. The zero value means: literal
// substring pattern, any state, final, no state reset.
type Options struct {
	// Regex treats the pattern as a regular expression; the handler
	// matches when it finds at least one match in the message text.
	Regex bool
	// Exact requires the whole text to equal the pattern instead of
	// merely containing it. Ignored when Regex is set.
	Exact bool
	// NonFinal lets the chain continue past this handler after a
	// match, so later handlers still see the update.
	NonFinal bool
	// ResetState returns the session to the menu state after the
	// handler runs successfully.
	ResetState bool
	// States the handler is eligible in; empty means any state.
	States []session.State
}

// MessageHandler is one entry of the handler chain: a pattern and
// state gate around an action.
type MessageHandler struct {
	action     HandlerFunc
	pattern    string
	re         *regexp.Regexp
	exact      bool
	final      bool
	resetState bool
	states     map[session.State]bool
}

func NewMessageHandler(pattern string, action HandlerFunc, opts Options) (*MessageHandler, error) {
	h := &MessageHandler{
		action:     action,
		pattern:    pattern,
		exact:      opts.Exact,
		final:      !opts.NonFinal,
		resetState: opts.ResetState,
		states:     make(map[session.State]bool),
	}

	if opts.Regex {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
		}

		h.re = re
	}

	if len(opts.States) == 0 {
		h.states[session.StateAll] = true
	}

	for _, st := range opts.States {
		h.states[st] = true
	}

	return h, nil
}

// MustMessageHandler is NewMessageHandler for statically known
// patterns, where a compile failure is a programming error.
func MustMessageHandler(pattern string, action HandlerFunc, opts Options) *MessageHandler {
	h, err := NewMessageHandler(pattern, action, opts)
	if err != nil {
		panic(err)
	}

	return h
}

func (h *MessageHandler) allows(state session.State) bool {
	return h.states[session.StateAll] || h.states[state]
}

// match reports whether text passes the pattern test, returning regex
// matches when the pattern is one.
func (h *MessageHandler) match(text string) ([]string, bool) {
	if h.re != nil {
		found := h.re.FindAllString(text, -1)
		return found, len(found) > 0
	}

	if h.exact {
		return nil, text == h.pattern
	}

	return nil, strings.Contains(text, h.pattern)
}
