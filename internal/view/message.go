package view

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// ActionHighlightChunks replaces the view's marks with marks for the given positions.
	ActionHighlightChunks = "highlightChunks"
	// ActionClearHighlights removes every mark from the view.
	ActionClearHighlights = "clearHighlights"
)

var (
	// ErrMalformedMessage is returned when a message is not a JSON object.
	ErrMalformedMessage = errors.New("malformed message")
	// ErrUnknownAction is returned for messages with an action the view does not handle.
	ErrUnknownAction = errors.New("unknown action")
)

// Message is an inbound request from the control surface.
type Message struct {
	Action    string `json:"action"`
	Positions []int  `json:"positions"`
}

// DecodeMessage parses a raw inbound message. A missing or non-array
// "positions" field decodes as an empty list; array entries that are not
// non-negative integers are dropped.
func DecodeMessage(data []byte) (Message, error) {
	var raw struct {
		Action    string          `json:"action"`
		Positions json.RawMessage `json:"positions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	msg := Message{Action: raw.Action, Positions: []int{}}
	var items []json.RawMessage
	if len(raw.Positions) == 0 || json.Unmarshal(raw.Positions, &items) != nil {
		return msg, nil
	}
	for _, item := range items {
		var pos *int
		if err := json.Unmarshal(item, &pos); err != nil || pos == nil || *pos < 0 {
			continue
		}
		msg.Positions = append(msg.Positions, *pos)
	}
	return msg, nil
}
