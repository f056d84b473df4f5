package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/docrag/docrag-be/service"
)

const (
	TypeWebsocketPing  = "ping"
	TypeWebsocketPong  = "pong"
	TypeWebsocketQuery = "query"
	TypeWebsocketError = "error"
)

type WebsocketRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type WebsocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type QueryPayload struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
	Hybrid   bool   `json:"hybrid,omitempty"`
}

// QueryHandler exposes the question path over a WebSocket connection.
type QueryHandler struct {
	queries     *service.QueryService
	defaultTopK int
	upgrader    websocket.Upgrader
	logger      *zap.SugaredLogger
}

func NewQueryHandler(queries *service.QueryService, defaultTopK int, logger *zap.SugaredLogger) *QueryHandler {
	return &QueryHandler{
		queries:     queries,
		defaultTopK: defaultTopK,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
		logger: logger,
	}
}

func (h *QueryHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorw("upgrade error", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(64 * 1024)
	conn.SetReadDeadline(time.Now().Add(300 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(300 * time.Second))
		return nil
	})

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Errorw("read error", "error", err)
			}
			return
		}

		var req WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			h.writeError(conn, "invalid request")
			continue
		}

		switch req.Type {
		case TypeWebsocketQuery:
			var payload QueryPayload
			if err := json.Unmarshal(req.Payload, &payload); err != nil || payload.Question == "" {
				h.writeError(conn, "invalid query payload")
				continue
			}
			topK := payload.TopK
			if topK <= 0 {
				topK = h.defaultTopK
			}
			result, err := h.queries.Query(r.Context(), payload.Question, topK, payload.Hybrid)
			if err != nil {
				// The query stays retryable; the failure is surfaced as-is.
				h.logger.Errorw("query failed", "question", payload.Question, "error", err)
				h.writeError(conn, err.Error())
				continue
			}
			h.writeJSON(conn, WebsocketResponse{Type: TypeWebsocketQuery, Payload: result})
		case TypeWebsocketPing:
			h.writeJSON(conn, WebsocketResponse{Type: TypeWebsocketPong, Payload: nil})
		default:
			h.writeError(conn, "unknown message type")
		}
	}
}

func (h *QueryHandler) Health() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (h *QueryHandler) writeJSON(conn *websocket.Conn, resp WebsocketResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Errorw("write error", "error", err)
	}
}

func (h *QueryHandler) writeError(conn *websocket.Conn, msg string) {
	h.writeJSON(conn, WebsocketResponse{
		Type:    TypeWebsocketError,
		Payload: map[string]string{"message": msg},
	})
}
