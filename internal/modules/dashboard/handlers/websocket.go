package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/modules/charts"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/modules/dashboard"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/modules/hover"
)

// WebSocket message types
const (
	MessageInputs    = "inputs"
	MessageHover     = "hover"
	MessageDashboard = "dashboard"
	MessageError     = "error"
)

const wsWriteTimeout = 10 * time.Second

// InboundMessage is a client to server WebSocket message. A hover message
// carries either a full Point or an Index into the latest dataset. With
// neither it resets the detail to the prompt.
type InboundMessage struct {
	Type   string            `json:"type"`
	Inputs *dashboard.Inputs `json:"inputs,omitempty"`
	Point  *hover.HoverPoint `json:"point,omitempty"`
	Index  *int              `json:"index,omitempty"`
	Trace  charts.TraceKind  `json:"trace,omitempty"`
}

// OutboundMessage is a server to client WebSocket message
type OutboundMessage struct {
	Type   string            `json:"type"`
	Result *dashboard.Result `json:"result,omitempty"`
	Detail *hover.Detail     `json:"detail,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// HandleWebSocket runs one dashboard session over a WebSocket. Every inputs
// message supersedes the computation still in flight.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// The server's read/write timeouts would otherwise cut the session short
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, h.accept)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to accept WebSocket")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "session ended")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	session := dashboard.NewSession(ctx, h.service, h.log)
	defer session.Close()

	h.log.Debug().Str("remote", r.RemoteAddr).Msg("Dashboard session opened")

	send := func(msg OutboundMessage) {
		writeCtx, writeCancel := context.WithTimeout(ctx, wsWriteTimeout)
		defer writeCancel()
		if err := wsjson.Write(writeCtx, conn, msg); err != nil {
			h.log.Debug().Err(err).Str("type", msg.Type).Msg("Failed to write WebSocket message")
		}
	}

	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				h.log.Debug().Msg("Dashboard session closed by client")
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if !errors.Is(err, context.Canceled) {
				h.log.Debug().Err(err).Msg("Dashboard session read failed")
			}
			return
		}

		if msgType != websocket.MessageText {
			send(OutboundMessage{Type: MessageError, Error: "expected a text message"})
			continue
		}

		var msg InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			send(OutboundMessage{Type: MessageError, Error: "invalid message"})
			continue
		}

		switch msg.Type {
		case MessageInputs:
			if msg.Inputs == nil {
				send(OutboundMessage{Type: MessageError, Error: "inputs message without inputs"})
				continue
			}
			session.Submit(*msg.Inputs, func(result *dashboard.Result) {
				send(OutboundMessage{Type: MessageDashboard, Result: result})
			})

		case MessageHover:
			detail := hover.Format(resolveHoverPoint(msg, session.Latest()))
			send(OutboundMessage{Type: MessageHover, Detail: &detail})

		default:
			send(OutboundMessage{Type: MessageError, Error: "unknown message type: " + msg.Type})
		}
	}
}

// resolveHoverPoint returns the explicit point, or the point at Index in the
// latest dataset
func resolveHoverPoint(msg InboundMessage, latest *dashboard.Result) *hover.HoverPoint {
	if msg.Point != nil {
		return msg.Point
	}
	if msg.Index == nil || latest == nil {
		return nil
	}

	kind := msg.Trace
	if kind == "" {
		kind = charts.TraceKindPrice
	}
	return hover.FromDataset(latest.Chart, kind, *msg.Index)
}
