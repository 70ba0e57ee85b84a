package platform

import (
	"encoding/json"
	"fmt"
)

// Platform list endpoints are inconsistent about their element shape: some
// return bare records, others wrap each record in a {"node": {...}} envelope
// depending on which upstream edition served the request. decodeNodeList
// accepts both and always yields the unwrapped records, so nothing past this
// boundary ever sees a wrapper.
func decodeNodeList[T any](data json.RawMessage) ([]T, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}

	out := make([]T, 0, len(elements))
	for i, element := range elements {
		var wrapper struct {
			Node json.RawMessage `json:"node"`
		}
		payload := element
		if err := json.Unmarshal(element, &wrapper); err == nil && len(wrapper.Node) > 0 {
			payload = wrapper.Node
		}

		var record T
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("failed to decode list element %d: %w", i, err)
		}
		out = append(out, record)
	}
	return out, nil
}
