package calculator

import (
	"fmt"
)

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys and
// POST /calculator/evaluate. Keys are applied first, then each rune of Input.
type KeysRequest struct {
	Keys  []string `json:"keys"`  // glyphs or aliases, e.g. ["5", "+", "3", "="]
	Input string   `json:"input"` // one key per rune, e.g. "5+3="
}

// Parse resolves the request into keys.
func (req KeysRequest) Parse() ([]Key, error) {
	keys := make([]Key, 0, len(req.Keys)+len(req.Input))
	for i, s := range req.Keys {
		k, err := ParseKey(s)
		if err != nil {
			return nil, fmt.Errorf("keys[%d]: %w", i, err)
		}
		keys = append(keys, k)
	}

	rest, err := ParseKeys(req.Input)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	return append(keys, rest...), nil
}

// StateResponse is the JSON response for all calculator endpoints.
type StateResponse struct {
	SessionID        string    `json:"session_id,omitempty"`
	Display          string    `json:"display"`
	PendingOperation string    `json:"pending_operation,omitempty"`
	Finalized        bool      `json:"finalized"`
	Finite           bool      `json:"finite"`
	Steps            []KeyStep `json:"steps,omitempty"`
}

// KeyStep records the display after one key press.
type KeyStep struct {
	Key     string `json:"key"`
	Display string `json:"display"`
}

func newStateResponse(id string, st State) StateResponse {
	return StateResponse{
		SessionID:        id,
		Display:          st.Display,
		PendingOperation: st.Pending.String(),
		Finalized:        st.Finalized,
		Finite:           st.Finite(),
	}
}
