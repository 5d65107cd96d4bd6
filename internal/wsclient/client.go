// Package wsclient owns the single logical WebSocket connection to the
// assistant service. It serializes outbound chat content into wire
// envelopes, fans inbound envelopes out to registered observers, and
// recovers from unexpected disconnects with a bounded fixed-interval retry.
package wsclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"adchat/internal/logger"
	"adchat/pkg/chattypes"
)

// Default reconnect policy: a fixed interval, not exponential, and a hard
// attempt budget after which recovery requires an explicit Connect call.
const (
	DefaultReconnectInterval    = 5 * time.Second
	DefaultMaxReconnectAttempts = 5
)

// Options configures a Client.
type Options struct {
	// URL is the WebSocket endpoint address.
	URL string

	// ReconnectInterval is the fixed delay between retry attempts.
	// Defaults to DefaultReconnectInterval.
	ReconnectInterval time.Duration

	// MaxReconnectAttempts bounds automatic recovery. Defaults to
	// DefaultMaxReconnectAttempts.
	MaxReconnectAttempts int

	// Logger overrides the component logger.
	Logger *log.Logger
}

type messageHandler struct {
	id int
	fn func(chattypes.Envelope)
}

type connectionHandler struct {
	id int
	fn func(bool)
}

// Client maintains at most one logical connection to the endpoint.
// All exported methods are safe for concurrent use.
type Client struct {
	url                  string
	reconnectInterval    time.Duration
	maxReconnectAttempts int
	log                  *log.Logger

	mu                 sync.Mutex
	writeMu            sync.Mutex
	conn               *websocket.Conn
	closed             bool // set by Disconnect; suppresses scheduled retries
	reconnectAttempts  int
	retryTimer         *time.Timer
	nextHandlerID      int
	messageHandlers    []messageHandler
	connectionHandlers []connectionHandler
}

// New creates a Client for the given endpoint. The connection is not
// established until Connect is called.
func New(opts Options) *Client {
	if opts.ReconnectInterval <= 0 {
		opts.ReconnectInterval = DefaultReconnectInterval
	}
	if opts.MaxReconnectAttempts <= 0 {
		opts.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	l := opts.Logger
	if l == nil {
		l = logger.NewStyledLogger("WSClient")
	}
	return &Client{
		url:                  opts.URL,
		reconnectInterval:    opts.ReconnectInterval,
		maxReconnectAttempts: opts.MaxReconnectAttempts,
		log:                  l,
	}
}

// Connect establishes the transport connection. It returns once the
// transport reports open, or with an error if the dial fails. On success the
// retry counter resets and connection observers are notified with true.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return nil
	}
	c.closed = false
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	c.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}

	c.mu.Lock()
	if c.closed {
		// Disconnect raced the dial; drop the fresh connection.
		c.mu.Unlock()
		_ = conn.Close()
		return fmt.Errorf("client closed during connect")
	}
	if c.conn != nil {
		// Another Connect or a retry dial won the race; keep theirs.
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	c.conn = conn
	c.reconnectAttempts = 0
	c.mu.Unlock()

	c.log.Info("connection established", "endpoint", c.url)
	c.notifyConnection(true)
	go c.readLoop(conn)
	return nil
}

// Disconnect tears down an open connection and suppresses any pending
// scheduled retry. Safe to call when already disconnected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.closed = true
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return
	}
	c.writeMu.Lock()
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	_ = conn.Close()
}

// Send wraps content in a message envelope (role=user, time-derived ID) and
// transmits it if the transport is open. When disconnected the content is
// dropped with a diagnostic; there is no queueing of unsent messages.
func (c *Client) Send(content string) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		c.log.Warn("send dropped: not connected")
		return
	}

	env := chattypes.NewMessageEnvelope(chattypes.NewUserMessage(content))
	data, err := env.Encode()
	if err != nil {
		c.log.Error("failed to encode outbound envelope", "error", err)
		return
	}

	c.writeMu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		c.log.Warn("send failed", "error", err)
	}
}

// OnMessage registers an observer for inbound envelopes. Observers are
// notified in registration order. The returned func unregisters.
func (c *Client) OnMessage(fn func(chattypes.Envelope)) func() {
	c.mu.Lock()
	c.nextHandlerID++
	id := c.nextHandlerID
	c.messageHandlers = append(c.messageHandlers, messageHandler{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, h := range c.messageHandlers {
			if h.id == id {
				c.messageHandlers = append(c.messageHandlers[:i], c.messageHandlers[i+1:]...)
				return
			}
		}
	}
}

// OnConnectionChange registers an observer for connection-state changes.
// The returned func unregisters.
func (c *Client) OnConnectionChange(fn func(bool)) func() {
	c.mu.Lock()
	c.nextHandlerID++
	id := c.nextHandlerID
	c.connectionHandlers = append(c.connectionHandlers, connectionHandler{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, h := range c.connectionHandlers {
			if h.id == id {
				c.connectionHandlers = append(c.connectionHandlers[:i], c.connectionHandlers[i+1:]...)
				return
			}
		}
	}
}

// IsConnected reports the point-in-time transport state.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleClose(conn, err)
			return
		}
		env, err := chattypes.DecodeEnvelope(data)
		if err != nil {
			// Malformed payloads are dropped; the loop keeps serving.
			c.log.Warn("dropping malformed payload", "error", err)
			continue
		}
		c.notifyMessage(env)
	}
}

func (c *Client) handleClose(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn {
		// A newer connection already replaced this one.
		c.mu.Unlock()
		return
	}
	c.conn = nil
	closed := c.closed
	c.mu.Unlock()

	if closed {
		c.log.Debug("connection closed")
	} else {
		c.log.Warn("connection closed unexpectedly", "error", err)
	}
	c.notifyConnection(false)

	if !closed {
		c.scheduleReconnect()
	}
}

func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	if c.closed || c.conn != nil {
		c.mu.Unlock()
		return
	}
	if c.reconnectAttempts >= c.maxReconnectAttempts {
		c.mu.Unlock()
		c.log.Error("reconnect attempts exhausted; call Connect to retry",
			"attempts", c.maxReconnectAttempts)
		return
	}
	c.reconnectAttempts++
	attempt := c.reconnectAttempts
	c.retryTimer = time.AfterFunc(c.reconnectInterval, c.retryConnect)
	c.mu.Unlock()

	c.log.Info("scheduling reconnect", "attempt", attempt, "max", c.maxReconnectAttempts)
}

func (c *Client) retryConnect() {
	c.mu.Lock()
	c.retryTimer = nil
	if c.closed || c.conn != nil {
		c.mu.Unlock()
		return
	}
	attempts := c.reconnectAttempts
	c.mu.Unlock()

	if err := c.dialForRetry(); err != nil {
		c.log.Warn("reconnect attempt failed", "attempt", attempts, "error", err)
		// A failed redial counts as a close; chain the next attempt.
		c.scheduleReconnect()
	}
}

// dialForRetry reconnects without resetting the deliberately-closed flag or
// the attempt counter the way an explicit Connect would.
func (c *Client) dialForRetry() error {
	conn, _, err := websocket.DefaultDialer.DialContext(context.Background(), c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed || c.conn != nil {
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	c.conn = conn
	c.reconnectAttempts = 0
	c.mu.Unlock()

	c.log.Info("connection re-established", "endpoint", c.url)
	c.notifyConnection(true)
	go c.readLoop(conn)
	return nil
}

func (c *Client) notifyMessage(env chattypes.Envelope) {
	c.mu.Lock()
	handlers := make([]messageHandler, len(c.messageHandlers))
	copy(handlers, c.messageHandlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h.fn(env)
	}
}

func (c *Client) notifyConnection(connected bool) {
	c.mu.Lock()
	handlers := make([]connectionHandler, len(c.connectionHandlers))
	copy(handlers, c.connectionHandlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h.fn(connected)
	}
}
