package chainstream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ChainStreamClient consumes a websocket feed of on-chain swap events for
// tracked wallets. It is the transport side of the transaction detector;
// parsing a frame into a SwapEvent is the consumer's job.
type ChainStreamClient struct {
	logger *zap.Logger

	wsURL        string
	dialer       *websocket.Dialer
	pingInterval time.Duration

	connMu  sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn

	msgCh   chan json.RawMessage
	errCh   chan error
	closeCh chan struct{}

	msgCount        uint64
	lastMsgUnixNano int64
}

func NewChainStreamClient(logger *zap.Logger, wsURL string, pingInterval time.Duration) *ChainStreamClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pingInterval <= 0 {
		pingInterval = 10 * time.Second
	}

	return &ChainStreamClient{
		logger:       logger,
		wsURL:        wsURL,
		dialer:       websocket.DefaultDialer,
		pingInterval: pingInterval,

		msgCh:   make(chan json.RawMessage, 1024),
		errCh:   make(chan error, 64),
		closeCh: make(chan struct{}),
	}
}

// Connect dials the swap feed and subscribes to the provided wallet addresses.
func (c *ChainStreamClient) Connect(ctx context.Context, wallets []string) error {
	c.connMu.Lock()
	alreadyConnected := c.conn != nil
	c.connMu.Unlock()
	if alreadyConnected {
		return fmt.Errorf("already connected")
	}

	conn, _, err := c.dialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial swap stream: %w", err)
	}

	c.logger.Info("swap stream dialed",
		zap.String("url", c.wsURL),
		zap.Int("wallets", len(wallets)),
	)

	conn.SetCloseHandler(func(code int, text string) error {
		c.logger.Warn("swap stream close frame received",
			zap.Int("code", code),
			zap.String("reason", text),
		)
		return nil
	})

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	sub := map[string]any{
		"type":    "subscribe",
		"wallets": wallets,
	}
	if err := c.writeJSON(sub); err != nil {
		_ = conn.Close()
		c.connMu.Lock()
		c.conn = nil
		c.connMu.Unlock()
		return fmt.Errorf("send initial subscription: %w", err)
	}

	go c.readLoop()
	go c.pingLoop()

	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-c.closeCh:
		}
	}()

	return nil
}

// SubscribeWallets adds wallets to the live subscription.
func (c *ChainStreamClient) SubscribeWallets(wallets []string) error {
	return c.sendOp("subscribe", wallets)
}

// UnsubscribeWallets removes wallets from the live subscription.
func (c *ChainStreamClient) UnsubscribeWallets(wallets []string) error {
	return c.sendOp("unsubscribe", wallets)
}

func (c *ChainStreamClient) Messages() <-chan json.RawMessage {
	return c.msgCh
}

func (c *ChainStreamClient) Errors() <-chan error {
	return c.errCh
}

// SwapEvent is a decoded swap for a tracked wallet.
type SwapEvent struct {
	EventType string  `json:"event_type"`
	Wallet    string  `json:"wallet"`
	Mint      string  `json:"mint"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"` // buy or sell
	Amount    float64 `json:"amount"`
	UsdValue  float64 `json:"usdValue"`
	PriceUsd  float64 `json:"priceUsd"`
	Timestamp int64   `json:"timestamp"`
	Signature string  `json:"signature"`
}

// ParseSwapEvent attempts to parse a JSON message as a SwapEvent.
// Returns nil if the message is not a swap event.
func ParseSwapEvent(data json.RawMessage) *SwapEvent {
	var event SwapEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil
	}
	if event.EventType != "swap" {
		return nil
	}
	return &event
}

// ParseEventType extracts just the event_type from a message for debugging.
func ParseEventType(data json.RawMessage) string {
	var m struct {
		EventType string `json:"event_type"`
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return "unknown"
	}
	if m.EventType == "" {
		return "empty"
	}
	return m.EventType
}

// StreamStats reports feed liveness.
type StreamStats struct {
	MessageCount  uint64
	LastMessageAt time.Time
}

func (c *ChainStreamClient) Stats() StreamStats {
	n := atomic.LoadUint64(&c.msgCount)
	ns := atomic.LoadInt64(&c.lastMsgUnixNano)

	var t time.Time
	if ns > 0 {
		t = time.Unix(0, ns)
	}

	return StreamStats{
		MessageCount:  n,
		LastMessageAt: t,
	}
}

func (c *ChainStreamClient) Close() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	select {
	case <-c.closeCh:
		// Already closed
	default:
		close(c.closeCh)
	}

	// Fresh channel for potential reconnection
	c.closeCh = make(chan struct{})

	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}

	return err
}

func (c *ChainStreamClient) sendOp(operation string, wallets []string) error {
	msg := map[string]any{
		"type":    operation,
		"wallets": wallets,
	}
	return c.writeJSON(msg)
}

func (c *ChainStreamClient) writeJSON(v any) error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return conn.WriteJSON(v)
}

func (c *ChainStreamClient) pingLoop() {
	t := time.NewTicker(c.pingInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			c.connMu.Lock()
			conn := c.conn
			c.connMu.Unlock()

			if conn != nil {
				c.writeMu.Lock()
				_ = conn.WriteMessage(websocket.PingMessage, nil)
				c.writeMu.Unlock()
			}

		case <-c.closeCh:
			return
		}
	}
}

func (c *ChainStreamClient) readLoop() {
	c.logger.Info("swap stream read loop started")

	for {
		select {
		case <-c.closeCh:
			c.logger.Info("swap stream read loop exiting: closed")
			return
		default:
		}

		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			return
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			c.logger.Warn("swap stream read error", zap.Error(err))
			select {
			case c.errCh <- err:
			default:
			}
			_ = c.Close()
			return
		}

		atomic.AddUint64(&c.msgCount, 1)
		atomic.StoreInt64(&c.lastMsgUnixNano, time.Now().UnixNano())

		c.emitFrame(b)
	}
}

func (c *ChainStreamClient) emitFrame(b []byte) {
	trimmed := b
	for len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\n' || trimmed[0] == '\t' || trimmed[0] == '\r') {
		trimmed = trimmed[1:]
	}

	if len(trimmed) == 0 {
		return
	}

	// The server may send a single event or a batch array.
	if trimmed[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			c.logger.Warn("swap stream bad json array frame", zap.Error(err))
			return
		}
		for _, one := range arr {
			c.forward(one)
		}
		return
	}

	c.forward(json.RawMessage(append([]byte(nil), trimmed...)))
}

func (c *ChainStreamClient) forward(msg json.RawMessage) {
	select {
	case c.msgCh <- msg:
	default:
		c.logger.Warn("dropping swap event: message channel full")
	}
}
