package protocol

import (
	"encoding/json"
	"fmt"
)

// Known envelope keys the list Lambdas wrap their results in.
var listEnvelopeKeys = []string{"uris", "flows", "reports"}

// DecodeListPayload extracts the string array from a listResponse data
// payload. The backend is inconsistent about shape: data may arrive as a
// native JSON array, as an object wrapping the array under one of the known
// envelope keys, or as a JSON-encoded string of either. Values that decode
// but are not array-shaped yield an empty slice rather than an error.
func DecodeListPayload(data json.RawMessage) ([]string, error) {
	if len(data) == 0 {
		return []string{}, nil
	}

	raw := data

	// Double-encoded payload: the data field holds a JSON string that
	// itself contains the JSON document.
	var inner string
	if err := json.Unmarshal(raw, &inner); err == nil {
		raw = json.RawMessage(inner)
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err == nil {
		for _, key := range listEnvelopeKeys {
			v, ok := env[key]
			if !ok {
				continue
			}
			if arr, ok := stringSlice(v); ok {
				return arr, nil
			}
		}
		return []string{}, nil
	}

	if arr, ok := stringSlice(raw); ok {
		return arr, nil
	}

	var probe interface{}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("malformed list payload: %w", err)
	}
	return []string{}, nil
}

func stringSlice(raw json.RawMessage) ([]string, bool) {
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	if out == nil {
		out = []string{}
	}
	return out, true
}
