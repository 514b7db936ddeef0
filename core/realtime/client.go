package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kunalbhatia18/VoxInbox-sub001/core/audio"
	"go.opentelemetry.io/otel/codes"
)

// ConnectionState is the transport connection state. Only the client mutates
// it; observers receive transitions through the state callback.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateError        ConnectionState = "error"
)

var (
	// ErrNotConnected marks a send attempted while the transport is not open.
	ErrNotConnected = errors.New("not connected to voice service")
	// ErrReconnectExhausted marks terminal connection loss; recovery requires
	// external re-initiation.
	ErrReconnectExhausted = errors.New("connection lost: reconnect attempts exhausted")
	// ErrClientClosed marks use of a client after teardown.
	ErrClientClosed = errors.New("realtime client closed")
)

// Conn is the subset of a websocket connection the client needs. The wire is
// assumed to be an ordered, reliable, message-based duplex channel.
type Conn interface {
	ReadMessage() (messageType int, data []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer opens a connection to the service endpoint.
type Dialer func(ctx context.Context, endpoint string, header http.Header) (Conn, error)

func defaultDialer(ctx context.Context, endpoint string, header http.Header) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Timer is a cancelable pending callback.
type Timer interface {
	Stop() bool
}

// TimerFunc schedules a callback after a delay. Injectable so reconnect and
// no-audio timers are testable without wall-clock waits.
type TimerFunc func(d time.Duration, f func()) Timer

func defaultTimerFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// TokenSource supplies auth headers for each (re)connect attempt. Token
// storage itself lives outside this package.
type TokenSource interface {
	AuthHeader(ctx context.Context) (http.Header, error)
}

// Client owns the persistent connection to the voice service: it serializes
// outbound control and audio messages, parses inbound messages, reconnects
// with exponential backoff, and drives the no-audio-response heuristic.
//
// The session identity is supplied externally and immutable for the life of
// the client; it is appended to the endpoint path on every attempt.
type Client struct {
	endpoint  string
	sessionID string

	dial     Dialer
	newTimer TimerFunc
	tokens   TokenSource

	policy         ReconnectPolicy
	noAudioTimeout time.Duration

	session    sessionConfig
	generation generationParams

	callbacks callbacks

	mu             sync.Mutex
	conn           Conn
	state          ConnectionState
	closed         bool
	attempts       int
	reconnectTimer Timer
	noAudioTimer   Timer
	audioReceived  bool

	baseContext context.Context
}

// NewClient creates a disconnected client for the given endpoint and session
// identity.
func NewClient(endpoint, sessionID string, opts ...Option) *Client {
	c := &Client{
		endpoint:       endpoint,
		sessionID:      sessionID,
		dial:           defaultDialer,
		newTimer:       defaultTimerFunc,
		policy:         defaultReconnectPolicy(),
		noAudioTimeout: defaultNoAudioTimeout,
		session:        defaultSessionConfig(),
		state:          StateDisconnected,
		callbacks:      noopCallbacks(),
		baseContext:    context.Background(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.generation = generationParams{
		Modalities:        []string{"audio"},
		Instructions:      c.session.Instructions,
		Voice:             c.session.Voice,
		OutputAudioFormat: "pcm16",
		Temperature:       c.session.Temperature,
		MaxOutputTokens:   c.session.MaxResponseOutputTokens,
	}

	return c
}

// State reports the current connection state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect opens the connection and starts the read loop. A no-op if the
// client is already connected or connecting.
func (c *Client) Connect(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "connect voice session")
	defer span.End()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	if c.state == StateConnected || c.state == StateConnecting {
		c.mu.Unlock()
		return nil
	}
	c.baseContext = ctx
	changed := c.setStateLocked(StateConnecting)
	c.mu.Unlock()
	if changed {
		c.callbacks.onStateChanged(StateConnecting)
	}

	header := http.Header{}
	if c.tokens != nil {
		var err error
		if header, err = c.tokens.AuthHeader(ctx); err != nil {
			err = fmt.Errorf("failed to resolve auth header: %w", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.failConnectAttempt(err)
			return err
		}
	}

	conn, err := c.dial(ctx, c.sessionURL(), header)
	if err != nil {
		err = fmt.Errorf("failed to open socket connection to voice service: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.failConnectAttempt(err)
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return ErrClientClosed
	}
	c.conn = conn
	c.attempts = 0
	stopTimerLocked(&c.reconnectTimer)
	changed = c.setStateLocked(StateConnected)
	c.mu.Unlock()
	if changed {
		c.callbacks.onStateChanged(StateConnected)
	}

	go c.readAndProcessMessages(conn)

	if err := c.sendSessionConfig(); err != nil {
		logger.Warn("failed to send session configuration", "error", err)
	}

	return nil
}

// failConnectAttempt records a transport error and schedules the next
// reconnection attempt.
func (c *Client) failConnectAttempt(err error) {
	logger.Warn("connection attempt failed", "error", err)

	c.mu.Lock()
	changed := c.setStateLocked(StateError)
	c.mu.Unlock()
	if changed {
		c.callbacks.onStateChanged(StateError)
	}

	c.attemptReconnect()
}

// Close tears the client down. No reconnection is attempted afterwards.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	stopTimerLocked(&c.reconnectTimer)
	stopTimerLocked(&c.noAudioTimer)
	conn := c.conn
	c.conn = nil
	changed := c.setStateLocked(StateDisconnected)
	c.mu.Unlock()
	if changed {
		c.callbacks.onStateChanged(StateDisconnected)
	}

	if conn != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return conn.Close()
	}
	return nil
}

// SendAudio sends one finished capture payload as the append-commit-create
// outbound sequence. The three messages are serialized atomically; if the
// transport is not connected nothing is sent.
func (c *Client) SendAudio(base64Audio string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConnected || c.conn == nil {
		return ErrNotConnected
	}

	sequence := []any{
		appendAudioMessage{Type: typeInputAudioAppend, Audio: base64Audio},
		commitMessage{Type: typeInputAudioCommit},
		responseCreateMessage{Type: typeResponseCreate, Response: c.generation},
	}
	for _, message := range sequence {
		data, err := json.Marshal(message)
		if err != nil {
			return fmt.Errorf("failed to marshal outbound message: %w", err)
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return fmt.Errorf("failed to write to voice service: %w", err)
		}
	}
	return nil
}

func (c *Client) sendSessionConfig() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(sessionUpdateMessage{Type: typeSessionUpdate, Session: c.session})
	if err != nil {
		return fmt.Errorf("failed to marshal session configuration: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write session configuration: %w", err)
	}
	return nil
}

func (c *Client) sessionURL() string {
	return strings.TrimRight(c.endpoint, "/") + "/" + url.PathEscape(c.sessionID)
}

func (c *Client) readAndProcessMessages(conn Conn) {
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(conn, err)
			return
		}
		if msgType == websocket.TextMessage {
			c.processMessage(msg)
		}
	}
}

func (c *Client) handleDisconnect(conn Conn, err error) {
	c.mu.Lock()
	if c.conn != conn {
		// A stale read loop from a previous connection.
		c.mu.Unlock()
		return
	}
	c.conn = nil
	stopTimerLocked(&c.noAudioTimer)
	clean := c.closed || websocket.IsCloseError(err, websocket.CloseNormalClosure)
	changed := c.setStateLocked(StateDisconnected)
	c.mu.Unlock()
	if changed {
		c.callbacks.onStateChanged(StateDisconnected)
	}

	if clean {
		return
	}

	logger.Warn("voice service connection closed unexpectedly", "error", err)
	c.attemptReconnect()
}

// attemptReconnect schedules the next connection attempt with exponential
// backoff, or reports terminal connection loss once the ceiling is reached.
func (c *Client) attemptReconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.attempts >= c.policy.MaxAttempts {
		changed := c.setStateLocked(StateError)
		c.mu.Unlock()
		if changed {
			c.callbacks.onStateChanged(StateError)
		}
		c.callbacks.onConnectionLost(ErrReconnectExhausted)
		return
	}
	c.attempts++
	attempt := c.attempts
	delay := c.policy.Delay(attempt)
	ctx := c.baseContext
	stopTimerLocked(&c.reconnectTimer)
	c.reconnectTimer = c.newTimer(delay, func() {
		if err := c.Connect(ctx); err != nil {
			logger.Warn("reconnect attempt failed", "attempt", attempt, "error", err)
		}
	})
	c.mu.Unlock()

	c.callbacks.onReconnecting(attempt, delay)
}

func (c *Client) processMessage(msg []byte) {
	var parsed envelope
	if err := json.Unmarshal(msg, &parsed); err != nil {
		logger.Warn("failed to unmarshal voice service message", "error", err)
		return
	}

	switch parsed.Type {
	case typeResponseAudioDelta:
		var delta audioDeltaMessage
		if err := json.Unmarshal(msg, &delta); err != nil {
			logger.Warn("failed to unmarshal audio delta", "error", err)
			return
		}
		segment, err := audio.DecodeSegment(delta.Delta, audio.WireSampleRate)
		if err != nil {
			logger.Warn("dropping malformed audio delta", "error", err)
			return
		}
		c.mu.Lock()
		c.audioReceived = true
		stopTimerLocked(&c.noAudioTimer)
		c.mu.Unlock()
		c.callbacks.onAudioDelta(segment)

	case typeResponseCreated:
		// New response: stale playback must be flushed before any of its
		// deltas are scheduled, so notify before arming the heuristic.
		c.callbacks.onResponseStarted()
		c.armNoAudioTimer()

	case typeResponseAudioDone:
		c.mu.Lock()
		stopTimerLocked(&c.noAudioTimer)
		c.mu.Unlock()
		c.callbacks.onAudioDone()

	case typeResponseDone:
		var done responseDoneMessage
		if err := json.Unmarshal(msg, &done); err != nil {
			logger.Warn("failed to unmarshal response done", "error", err)
			return
		}
		c.mu.Lock()
		stopTimerLocked(&c.noAudioTimer)
		received := c.audioReceived
		c.mu.Unlock()
		if done.Response.Status == responseStatusCompleted && !received {
			c.callbacks.onNoAudio()
		}
		c.callbacks.onResponseDone(done.Response.Status)

	case typeSystemMessage:
		var system systemMessage
		if err := json.Unmarshal(msg, &system); err != nil {
			logger.Warn("failed to unmarshal system message", "error", err)
			return
		}
		c.callbacks.onSystemMessage(system.Message)

	case typeErrorMessage:
		var serviceErr errorMessage
		if err := json.Unmarshal(msg, &serviceErr); err != nil {
			logger.Warn("failed to unmarshal error message", "error", err)
			return
		}
		c.callbacks.onServerError(serviceErr.Error.Message)

	default:
		// Unrecognized kinds are ignored.
	}
}

func (c *Client) armNoAudioTimer() {
	c.mu.Lock()
	c.audioReceived = false
	stopTimerLocked(&c.noAudioTimer)
	c.noAudioTimer = c.newTimer(c.noAudioTimeout, func() {
		c.mu.Lock()
		received := c.audioReceived
		c.noAudioTimer = nil
		c.mu.Unlock()
		if !received {
			c.callbacks.onNoAudio()
		}
	})
	c.mu.Unlock()
}

// setStateLocked updates the connection state and reports whether it changed
// so callers can emit the transition after releasing the lock.
func (c *Client) setStateLocked(state ConnectionState) bool {
	if c.state == state {
		return false
	}
	c.state = state
	return true
}

func stopTimerLocked(timer *Timer) {
	if *timer != nil {
		(*timer).Stop()
		*timer = nil
	}
}
