package protocol

import (
	"encoding/json"
)

// FrameType is the discriminator the endpoint dispatches on
type FrameType string

const (
	// Outbound frame types (client -> endpoint)
	TypeChat FrameType = "chat" // client -> endpoint: user chat turn
	TypeList FrameType = "list" // client -> endpoint: list query

	// Inbound event types (endpoint -> client)
	TypeStatus       FrameType = "status"       // endpoint -> client: processing acknowledgment
	TypeChunk        FrameType = "chunk"        // endpoint -> client: incremental response text
	TypeComplete     FrameType = "complete"     // endpoint -> client: chat turn finished
	TypeError        FrameType = "error"        // endpoint -> client: chat turn failed
	TypeTrace        FrameType = "trace"        // endpoint -> client: agent diagnostic data
	TypeListResponse FrameType = "listResponse" // endpoint -> client: list query result
)

// Remote list operations understood by the endpoint. The transport passes
// any operation name through unchanged; these are the ones the backend
// actually routes.
const (
	OpListS3URIs     = "listS3URIs"
	OpListFlowURIs   = "listFlowURIs"
	OpListReportURIs = "listReportURIs"
)

// Envelope carries the fields common to every frame
type Envelope struct {
	Type      FrameType `json:"type"`
	Timestamp string    `json:"timestamp,omitempty"`
}

// ChatRequest submits one user chat turn
type ChatRequest struct {
	Type      FrameType `json:"type"`
	Message   string    `json:"message"`
	SessionID string    `json:"sessionId,omitempty"`
}

// ListRequest asks the endpoint to run a named list operation
type ListRequest struct {
	Type      FrameType `json:"type"`
	Operation string    `json:"operation"`
}

// StatusEvent acknowledges that the endpoint is working on a chat turn
type StatusEvent struct {
	Envelope
	Message string `json:"message"`
}

// ChunkEvent delivers one incremental piece of the assistant's reply
type ChunkEvent struct {
	Envelope
	Content     string `json:"content"`
	ChunkNumber int    `json:"chunkNumber,omitempty"`
	TotalChunks int    `json:"totalChunks,omitempty"`
}

// CompleteEvent ends a chat turn. Content may be empty when the endpoint
// relies on the client's chunk accumulation.
type CompleteEvent struct {
	Envelope
	Content     string `json:"content,omitempty"`
	SessionID   string `json:"sessionId,omitempty"`
	TotalChunks int    `json:"totalChunks,omitempty"`
}

// ErrorEvent ends a chat turn with an upstream failure
type ErrorEvent struct {
	Envelope
	Err     string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Text returns the most descriptive error text the endpoint supplied.
func (e *ErrorEvent) Text() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != "" {
		return e.Err
	}
	return "upstream error"
}

// TraceEvent carries agent diagnostic data. Diagnostic only; clients may
// log it but nothing in the public contract depends on it.
type TraceEvent struct {
	Envelope
	Trace json.RawMessage `json:"trace,omitempty"`
}

// ListResponse is the single terminal event for a list operation
type ListResponse struct {
	Type      FrameType       `json:"type"`
	Operation string          `json:"operation"`
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Err       string          `json:"error,omitempty"`
}

// ParseEvent parses a JSON frame from the endpoint into the appropriate struct
func ParseEvent(data []byte) (interface{}, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case TypeStatus:
		var ev StatusEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, err
		}
		return &ev, nil

	case TypeChunk:
		var ev ChunkEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, err
		}
		return &ev, nil

	case TypeComplete:
		var ev CompleteEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, err
		}
		return &ev, nil

	case TypeError:
		var ev ErrorEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, err
		}
		return &ev, nil

	case TypeTrace:
		var ev TraceEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, err
		}
		return &ev, nil

	case TypeListResponse:
		var ev ListResponse
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, err
		}
		return &ev, nil

	default:
		return &env, nil
	}
}
