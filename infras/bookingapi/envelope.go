package bookingapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type EnvelopeKind int

const (
	EnvelopeUnknown EnvelopeKind = iota
	EnvelopeBareArray
	EnvelopeResults
	EnvelopeSlots
)

func (k EnvelopeKind) String() string {
	switch k {
	case EnvelopeBareArray:
		return "array"
	case EnvelopeResults:
		return "results"
	case EnvelopeSlots:
		return "slots"
	default:
		return "unknown"
	}
}

var ErrUnknownEnvelope = errors.New("unrecognized slot list shape")

// SlotEnvelope is one of the three shapes the slot listing endpoint answers with:
// a bare array, {"results": [...]} or {"slots": [...]}.
type SlotEnvelope struct {
	Kind  EnvelopeKind
	Slots []RawSlot
}

func (e *SlotEnvelope) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrUnknownEnvelope
	}

	switch data[0] {
	case '[':
		var slots []RawSlot
		if err := json.Unmarshal(data, &slots); err != nil {
			return fmt.Errorf("failed to decode slot array: %w", err)
		}

		e.Kind, e.Slots = EnvelopeBareArray, slots

		return nil
	case '{':
		var wrapped struct {
			Results *[]RawSlot `json:"results"`
			Slots   *[]RawSlot `json:"slots"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return fmt.Errorf("failed to decode slot envelope: %w", err)
		}

		switch {
		case wrapped.Results != nil:
			e.Kind, e.Slots = EnvelopeResults, *wrapped.Results
		case wrapped.Slots != nil:
			e.Kind, e.Slots = EnvelopeSlots, *wrapped.Slots
		default:
			return ErrUnknownEnvelope
		}

		return nil
	default:
		return ErrUnknownEnvelope
	}
}

// DecodeSlots resolves the listing envelope into a flat slice of raw slots.
func DecodeSlots(body []byte) ([]RawSlot, error) {
	var envelope SlotEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err //nolint:wrapcheck
	}

	if envelope.Slots == nil {
		return []RawSlot{}, nil
	}

	return envelope.Slots, nil
}
