package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fraudlens/pkg/protocol"
)

// ConnState is the lifecycle state of the shared connection.
type ConnState int

const (
	StateClosed ConnState = iota
	StateConnecting
	StateOpen
	StateClosing
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "closed"
	}
}

const (
	defaultListTimeout   = 30 * time.Second
	defaultReconnectMax  = 5
	defaultReconnectBase = time.Second
)

// SessionStore persists the conversation continuity token across turns and
// process restarts. SetSessionID must be first-write-wins.
type SessionStore interface {
	SessionID() (string, error)
	SetSessionID(id string) error
}

// ChatHandler receives the events of one chat turn. OnChunk, OnComplete and
// OnError are mandatory; OnStatus is optional.
type ChatHandler struct {
	OnStatus   func(message string)
	OnChunk    func(delta string)
	OnComplete func(finalText, sessionID string)
	OnError    func(message string)
}

func (h ChatHandler) complete() bool {
	return h.OnChunk != nil && h.OnComplete != nil && h.OnError != nil
}

// Config holds transport settings. Zero values fall back to the production
// defaults; tests shrink the timings.
type Config struct {
	URL   string // websocket endpoint, e.g. wss://host/prod
	Token string // bearer token attached to the connection handshake

	ListTimeout   time.Duration // deadline for list operations (default 30s)
	ReconnectMax  int           // reconnect attempt budget (default 5)
	ReconnectBase time.Duration // backoff base delay (default 1s)

	Verbose bool
}

func (c Config) listTimeout() time.Duration {
	if c.ListTimeout > 0 {
		return c.ListTimeout
	}
	return defaultListTimeout
}

func (c Config) reconnectMax() int {
	if c.ReconnectMax > 0 {
		return c.ReconnectMax
	}
	return defaultReconnectMax
}

func (c Config) reconnectBase() time.Duration {
	if c.ReconnectBase > 0 {
		return c.ReconnectBase
	}
	return defaultReconnectBase
}

// Client multiplexes chat turns and list queries over one persistent
// websocket connection. Construct with New and share a single instance;
// the connection is opened lazily on first use and replaced transparently
// after abnormal closures.
type Client struct {
	cfg      Config
	sessions SessionStore

	mu           sync.Mutex
	state        ConnState
	conn         *websocket.Conn
	attempts     int // consecutive failed reconnect attempts
	closing      bool
	reconnecting bool
	pendingLists map[string]*pendingList
	chat         *pendingChat
}

// New creates a transport client. The session store may not be nil.
func New(cfg Config, sessions SessionStore) *Client {
	return &Client{
		cfg:          cfg,
		sessions:     sessions,
		state:        StateClosed,
		pendingLists: make(map[string]*pendingList),
	}
}

// State returns the current connection lifecycle state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// acquire returns the open connection, dialing a new one if needed.
func (c *Client) acquire() (*websocket.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateOpen && c.conn != nil {
		return c.conn, nil
	}
	return c.openLocked()
}

// openLocked dials the endpoint. Callers must hold c.mu.
func (c *Client) openLocked() (*websocket.Conn, error) {
	if c.cfg.URL == "" {
		return nil, ErrNoEndpoint
	}

	c.state = StateConnecting

	header := http.Header{}
	if c.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	conn, _, err := websocket.DefaultDialer.Dial(c.cfg.URL, header)
	if err != nil {
		c.state = StateClosed
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	c.conn = conn
	c.state = StateOpen
	c.attempts = 0
	c.closing = false

	go c.readPump(conn)

	return conn, nil
}

// SendChat submits one chat turn. The handler receives zero or more status
// and chunk events followed by exactly one terminal OnComplete or OnError.
// OnChunk is always called with the incremental piece only, never the
// accumulated text. SendChat returns once the frame is on the wire; chat
// turns have no deadline because the agent may legitimately work for a long
// time between status events.
func (c *Client) SendChat(text string, h ChatHandler) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	if !h.complete() {
		return ErrMissingCallback
	}

	if _, err := c.acquire(); err != nil {
		return err
	}

	sessionID, err := c.sessions.SessionID()
	if err != nil {
		// A broken local store should not block the turn; the endpoint
		// will mint a fresh session.
		log.Printf("Failed to read persisted session id: %v", err)
		sessionID = ""
	}

	c.mu.Lock()
	if c.chat != nil {
		c.mu.Unlock()
		return ErrChatInFlight
	}
	c.chat = &pendingChat{handler: h, registered: time.Now()}
	c.mu.Unlock()

	frame := &protocol.ChatRequest{
		Type:      protocol.TypeChat,
		Message:   text,
		SessionID: sessionID,
	}
	if err := c.writeJSON(frame); err != nil {
		c.mu.Lock()
		c.chat = nil
		c.mu.Unlock()
		return err
	}
	return nil
}

// SendList runs a named list operation and blocks until the matching
// listResponse arrives, the deadline elapses, or ctx is cancelled. The
// operation name is passed through unvalidated; unknown names are the
// endpoint's to reject.
func (c *Client) SendList(ctx context.Context, operation string) ([]string, error) {
	if _, err := c.acquire(); err != nil {
		return nil, err
	}

	p := &pendingList{
		operation:  operation,
		result:     make(chan listResult, 1),
		registered: time.Now(),
	}

	c.mu.Lock()
	if _, exists := c.pendingLists[operation]; exists {
		c.mu.Unlock()
		return nil, fmt.Errorf("list %s: %w", operation, ErrListInFlight)
	}
	c.pendingLists[operation] = p
	c.mu.Unlock()

	frame := &protocol.ListRequest{Type: protocol.TypeList, Operation: operation}
	if err := c.writeJSON(frame); err != nil {
		c.dropList(operation)
		return nil, err
	}

	timer := time.NewTimer(c.cfg.listTimeout())
	defer timer.Stop()

	select {
	case res := <-p.result:
		return res.uris, res.err
	case <-timer.C:
		c.dropList(operation)
		return nil, fmt.Errorf("list %s: %w", operation, ErrListTimeout)
	case <-ctx.Done():
		c.dropList(operation)
		return nil, ctx.Err()
	}
}

// Disconnect closes the connection with the normal close code and suppresses
// the reconnect policy for that closure. Idempotent; a later send reopens
// cleanly.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.closing = true
	conn := c.conn
	if conn != nil {
		c.state = StateClosing
	}
	c.mu.Unlock()

	if conn == nil {
		return
	}

	conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	conn.Close()
	// The read pump observes the closure and finishes the transition to
	// StateClosed, failing anything still outstanding.
}

// writeJSON sends one frame. gorilla/websocket allows a single concurrent
// writer, so writes serialize on the client mutex.
func (c *Client) writeJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || c.state != StateOpen {
		return ErrConnectionClosed
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) dropList(operation string) {
	c.mu.Lock()
	delete(c.pendingLists, operation)
	c.mu.Unlock()
}

// readPump reads frames until the connection dies, then runs closure
// handling. One pump per connection; a replaced connection's stale pump
// exits without touching the new state.
func (c *Client) readPump(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleClosure(conn, err)
			return
		}
		c.dispatch(data)
	}
}

// dispatch routes one inbound frame to the request it correlates to.
// Callbacks run outside the client mutex so they may call back into the
// client.
func (c *Client) dispatch(data []byte) {
	parsed, err := protocol.ParseEvent(data)
	if err != nil {
		// Correlation is best effort when the frame itself is
		// unparseable; the active chat turn is the only plausible owner.
		c.logf("Failed to parse inbound frame: %v", err)
		c.failChat("failed to parse server message")
		return
	}

	switch ev := parsed.(type) {
	case *protocol.StatusEvent:
		c.mu.Lock()
		p := c.chat
		c.mu.Unlock()
		if p != nil && p.handler.OnStatus != nil {
			p.handler.OnStatus(ev.Message)
		}

	case *protocol.ChunkEvent:
		c.mu.Lock()
		p := c.chat
		if p != nil {
			p.buf.WriteString(ev.Content)
		}
		c.mu.Unlock()
		if p == nil {
			c.logf("Discarding chunk with no active chat turn")
			return
		}
		p.handler.OnChunk(ev.Content)

	case *protocol.TraceEvent:
		c.logf("Trace event: %s", string(ev.Trace))

	case *protocol.CompleteEvent:
		c.mu.Lock()
		p := c.chat
		c.chat = nil
		c.mu.Unlock()
		if p == nil {
			c.logf("Discarding complete event with no active chat turn")
			return
		}
		if ev.SessionID != "" {
			if err := c.sessions.SetSessionID(ev.SessionID); err != nil {
				log.Printf("Failed to persist session id: %v", err)
			}
		}
		final := ev.Content
		if final == "" {
			final = p.buf.String()
		}
		p.handler.OnComplete(final, ev.SessionID)

	case *protocol.ErrorEvent:
		c.failChat(ev.Text())

	case *protocol.ListResponse:
		c.resolveList(ev)

	default:
		c.logf("Ignoring frame of unknown type %T", parsed)
	}
}

func (c *Client) resolveList(ev *protocol.ListResponse) {
	c.mu.Lock()
	p := c.pendingLists[ev.Operation]
	delete(c.pendingLists, ev.Operation)
	c.mu.Unlock()

	if p == nil {
		// Timed out or never requested; late responses are discarded.
		c.logf("Discarding listResponse for %s with no pending request", ev.Operation)
		return
	}

	if !ev.Success {
		msg := ev.Err
		if msg == "" {
			msg = "unknown error"
		}
		p.resolve(nil, &ListError{Operation: ev.Operation, Message: msg})
		return
	}

	uris, err := protocol.DecodeListPayload(ev.Data)
	if err != nil {
		p.resolve(nil, &ListError{Operation: ev.Operation, Message: err.Error()})
		return
	}
	p.resolve(uris, nil)
}

// failChat rejects the active chat turn, if any.
func (c *Client) failChat(msg string) {
	c.mu.Lock()
	p := c.chat
	c.chat = nil
	c.mu.Unlock()
	if p != nil {
		p.handler.OnError(msg)
	}
}

// handleClosure transitions to StateClosed, fails everything outstanding,
// and schedules the bounded reconnect loop for abnormal closures.
func (c *Client) handleClosure(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn {
		// A stale pump from an already-replaced connection.
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.state = StateClosed

	explicit := c.closing || websocket.IsCloseError(err, websocket.CloseNormalClosure)

	pending := c.pendingLists
	c.pendingLists = make(map[string]*pendingList)
	chat := c.chat
	c.chat = nil

	shouldReconnect := !explicit && !c.reconnecting && c.attempts < c.cfg.reconnectMax()
	if shouldReconnect {
		c.reconnecting = true
	}
	c.mu.Unlock()

	if !explicit {
		log.Printf("Connection closed unexpectedly: %v", err)
	}

	// Outstanding requests are failed rather than left hanging; a dropped
	// socket can never deliver their terminal events.
	for _, p := range pending {
		p.resolve(nil, fmt.Errorf("list %s: %w", p.operation, ErrConnectionClosed))
	}
	if chat != nil {
		chat.handler.OnError("connection closed")
	}

	if shouldReconnect {
		go c.reconnectLoop()
	}
}

// reconnectLoop is the bounded retry state machine: delay before attempt k
// is base * 2^k. The counter resets only on a successful open, so a budget
// exhausted here leaves the transport dormant until the next caller send.
func (c *Client) reconnectLoop() {
	defer func() {
		c.mu.Lock()
		c.reconnecting = false
		c.mu.Unlock()
	}()

	for {
		c.mu.Lock()
		if c.closing || c.state == StateOpen {
			c.mu.Unlock()
			return
		}
		attempt := c.attempts
		if attempt >= c.cfg.reconnectMax() {
			c.mu.Unlock()
			log.Printf("Reconnect budget exhausted after %d attempts", attempt)
			return
		}
		c.attempts++
		c.mu.Unlock()

		delay := c.cfg.reconnectBase() << uint(attempt)
		c.logf("Reconnecting in %v (attempt %d/%d)", delay, attempt+1, c.cfg.reconnectMax())
		time.Sleep(delay)

		c.mu.Lock()
		if c.closing {
			c.mu.Unlock()
			return
		}
		_, err := c.openLocked()
		c.mu.Unlock()

		if err == nil {
			return
		}
		log.Printf("Reconnect attempt %d failed: %v", attempt+1, err)
	}
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.cfg.Verbose {
		log.Printf(format, args...)
	}
}
