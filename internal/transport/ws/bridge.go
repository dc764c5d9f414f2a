// Package ws bridges tool calls over a WebSocket, for voice runtimes that
// keep one connection open for the whole call.
//
// Every frame is a JSON envelope {"type": ..., "payload": ...}:
//
//	-> {"type":"tool_call","payload":{"session_id","call_id","name","arguments"}}
//	<- {"type":"tool_result","payload":{"call_id","result"}}
//	-> {"type":"list_tools"}
//	<- {"type":"tools","payload":[...]}
//	<- {"type":"error","payload":{"message"}}
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dwikikusuma/shoping-voice/internal/tools"
	"github.com/dwikikusuma/shoping-voice/pkg/logger"
	"github.com/gorilla/websocket"
	"github.com/sashabaranov/go-openai"
)

const (
	TypeToolCall   = "tool_call"
	TypeToolResult = "tool_result"
	TypeListTools  = "list_tools"
	TypeTools      = "tools"
	TypeError      = "error"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1 << 20
	maxInFlight    = 8
)

type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ToolCall struct {
	SessionID string          `json:"session_id"`
	CallID    string          `json:"call_id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type ToolResult struct {
	CallID string       `json:"call_id"`
	Result tools.Result `json:"result"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	CallID  string `json:"call_id,omitempty"`
}

type Dispatcher interface {
	Dispatch(ctx context.Context, sessionID, name string, rawArgs []byte) tools.Result
	Definitions() ([]openai.Tool, error)
}

type Bridge struct {
	tools    Dispatcher
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewBridge(d Dispatcher, log *slog.Logger) *Bridge {
	return &Bridge{
		tools: d,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: logger.OrDefault(log),
	}
}

func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warn("websocket upgrade failed", slog.Any("err", err))
		return
	}

	c := &connection{
		conn:  conn,
		tools: b.tools,
		log:   b.log.With(slog.String("remote", r.RemoteAddr)),
		slots: make(chan struct{}, maxInFlight),
	}
	c.run(r.Context())
}

type connection struct {
	conn  *websocket.Conn
	tools Dispatcher
	log   *slog.Logger

	writeMu sync.Mutex
	wg      sync.WaitGroup
	slots   chan struct{}
}

func (c *connection) run(parent context.Context) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	defer func() {
		cancel()
		c.wg.Wait()
		c.conn.Close()
	}()

	c.log.Info("websocket connected")
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	c.wg.Add(1)
	go c.pinger(ctx)

	for {
		kind, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn("websocket read failed", slog.Any("err", err))
			}
			c.log.Info("websocket disconnected")
			return
		}
		if kind != websocket.TextMessage {
			c.sendError("", "only text frames are supported")
			continue
		}
		c.handle(ctx, msg)
	}
}

func (c *connection) handle(ctx context.Context, msg []byte) {
	var env Envelope
	if err := sonic.Unmarshal(msg, &env); err != nil {
		c.sendError("", "malformed frame: "+err.Error())
		return
	}

	switch env.Type {
	case TypeListTools:
		defs, err := c.tools.Definitions()
		if err != nil {
			c.log.Error("tool definitions failed", slog.Any("err", err))
			c.sendError("", "tool definitions unavailable")
			return
		}
		c.send(TypeTools, defs)

	case TypeToolCall:
		var call ToolCall
		if err := sonic.Unmarshal(env.Payload, &call); err != nil {
			c.sendError("", "malformed tool_call: "+err.Error())
			return
		}
		if call.Name == "" {
			c.sendError(call.CallID, "tool_call needs a name")
			return
		}

		// calls for one session serialize inside the registry, so
		// independent sessions on this connection can run side by side.
		// The slot is taken off the read loop so pongs keep flowing.
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			select {
			case c.slots <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-c.slots }()

			res := c.tools.Dispatch(ctx, call.SessionID, call.Name, arguments(call.Arguments))
			c.send(TypeToolResult, ToolResult{CallID: call.CallID, Result: res})
		}()

	default:
		c.sendError("", "unknown frame type: "+strconv.Quote(env.Type))
	}
}

// arguments accepts either a JSON object or the string-encoded object OpenAI
// puts in tool calls.
func arguments(raw json.RawMessage) []byte {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := sonic.Unmarshal(raw, &s); err == nil {
			return []byte(s)
		}
	}
	return raw
}

func (c *connection) pinger(ctx context.Context) {
	defer c.wg.Done()

	t := time.NewTicker(pingPeriod)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (c *connection) send(kind string, payload any) {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		c.log.Error("websocket encode failed", slog.String("type", kind), slog.Any("err", err))
		return
	}
	frame, err := sonic.Marshal(Envelope{Type: kind, Payload: raw})
	if err != nil {
		c.log.Error("websocket encode failed", slog.String("type", kind), slog.Any("err", err))
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.log.Warn("websocket write failed", slog.String("type", kind), slog.Any("err", err))
	}
}

func (c *connection) sendError(callID, msg string) {
	c.send(TypeError, ErrorPayload{Message: msg, CallID: callID})
}
