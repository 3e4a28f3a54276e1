package vk

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// Call is a serialized API call descriptor destined for an execute
// batch. Args must be JSON-marshalable; descriptors are built through
// the typed constructors below rather than assembled ad hoc.
type Call struct {
	Method string
	Args   map[string]any
}

// Code renders the descriptor as a single execute-script statement,
// e.g. API.messages.send({"user_id":1,"message":"hi"}).
func (c Call) Code() string {
	args, err := json.Marshal(c.Args)
	if err != nil {
		// Args come from our own constructors; a marshal failure here
		// is a programming error, not runtime input.
		panic(fmt.Sprintf("marshal call args for %s: %v", c.Method, err))
	}

	return fmt.Sprintf("API.%s(%s)", c.Method, args)
}

// NewMessage builds a messages.send descriptor for a plain text reply.
func NewMessage(userID int64, text string) Call {
	return Call{
		Method: "messages.send",
		Args: map[string]any{
			"user_id":   userID,
			"message":   text,
			"random_id": rand.Int63(),
		},
	}
}
