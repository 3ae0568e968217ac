package scan

import "strings"

// EventPair is one (event name, request id) pair extracted from a payload.
type EventPair struct {
	Event     string
	RequestID string
}

// ExtractEvents splits a payload into (event, request id) pairs.
//
// Two tokens is the standard form: "Event RequestID". Any other non-empty
// token count is the batch form: the first token is the event name and every
// remaining token is a request id sharing it.
//
// Corner case, preserved deliberately: a payload holding exactly one token
// (an event name with no id) yields zero pairs. There is no id to attach,
// so the line is a silent no-op rather than an error.
func ExtractEvents(payload string) []EventPair {
	tokens := strings.Fields(payload)

	if len(tokens) == 2 {
		return []EventPair{{Event: tokens[0], RequestID: tokens[1]}}
	}

	if len(tokens) < 2 {
		return nil
	}

	pairs := make([]EventPair, 0, len(tokens)-1)
	for _, id := range tokens[1:] {
		pairs = append(pairs, EventPair{Event: tokens[0], RequestID: id})
	}
	return pairs
}
