package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/focalfinder/focalfinder-api/internal/middleware"
	"github.com/focalfinder/focalfinder-api/internal/pkg/errorhandler"
	"github.com/focalfinder/focalfinder-api/internal/pkg/response"
	"github.com/focalfinder/focalfinder-api/internal/pkg/validator"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
	frameTimeout   = 5 * time.Second
)

// Handler handles conversation HTTP and WebSocket requests
type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler creates conversation handler
func NewHandler(service *Service, hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				if len(allowedOrigins) == 0 || origin == "" {
					return true
				}

				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}

				log.Warn().Str("origin", origin).Msg("WebSocket origin rejected")
				return false
			},
		},
	}
}

// Start handles POST /conversations
// @Summary Create or reuse a conversation
// @Tags Conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StartConversationRequest true "Participant and optional booking"
// @Success 200 {object} response.Response{data=ConversationResponse}
// @Failure 400,401,403,404 {object} response.Response
// @Router /conversations [post]
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartConversationRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c, err := h.service.Start(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.handleError(w, r, "conversation.start", err)
		return
	}

	response.OK(w, ResponseFromEntity(c))
}

// List handles GET /conversations
// @Summary Own conversations, latest activity first
// @Tags Conversations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]SummaryResponse}
// @Router /conversations [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Internal(r.Context(), w, "conversation.list", err)
		return
	}

	response.OK(w, items)
}

// Get handles GET /conversations/{id}
// @Summary Conversation with messages
// @Tags Conversations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} response.Response{data=DetailResponse}
// @Failure 400,403,404 {object} response.Response
// @Router /conversations/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid conversation ID")
		return
	}

	detail, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.handleError(w, r, "conversation.get", err)
		return
	}

	response.OK(w, detail)
}

// SendMessage handles POST /conversations/{id}
// @Summary Send a message
// @Tags Conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param request body SendMessageRequest true "Text and/or attachment URLs"
// @Success 201 {object} response.Response{data=MessageResponse}
// @Failure 400,403,404,429 {object} response.Response
// @Router /conversations/{id} [post]
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid conversation ID")
		return
	}

	var req SendMessageRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	m, err := h.service.SendMessage(r.Context(), middleware.GetUserID(r.Context()), id, &req)
	if err != nil {
		h.handleError(w, r, "conversation.send_message", err)
		return
	}

	response.Created(w, MessageResponseFromEntity(m))
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrSameParticipant):
		response.ValidationError(w, map[string]string{"participantId": "cannot start a conversation with yourself"})
	case errors.Is(err, ErrEmptyMessage):
		response.ValidationError(w, map[string]string{"text": "text or attachments required"})
	case errors.Is(err, ErrConversationNotFound):
		response.NotFound(w, "Conversation not found")
	case errors.Is(err, ErrParticipantNotFound):
		response.NotFound(w, "Participant not found")
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrNotParticipant):
		response.Forbidden(w, "You are not a participant of this conversation")
	case errors.Is(err, ErrBookingMismatch):
		response.Forbidden(w, "Participants do not match the booking")
	case errors.Is(err, ErrRateLimited):
		response.TooManyRequests(w)
	default:
		errorhandler.Internal(r.Context(), w, op, err)
	}
}

// WebSocket handles GET /ws
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Connection{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBufferSize),
	}

	h.hub.Register(client)

	go h.wsReader(client)
	go h.wsWriter(client)
}

type clientFrame struct {
	Type           string    `json:"type"`
	ConversationID uuid.UUID `json:"conversationId"`
}

func (h *Handler) wsReader(client *Connection) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		h.hub.RefreshPresence(client.UserID)
		return nil
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", client.UserID.String()).Msg("WebSocket read error")
			}
			break
		}

		var frame clientFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			continue
		}

		switch EventType(frame.Type) {
		case EventTyping:
			ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
			if err := h.service.RelayTyping(ctx, client.UserID, frame.ConversationID); err != nil &&
				!errors.Is(err, ErrConversationNotFound) && !errors.Is(err, ErrNotParticipant) {
				log.Warn().Err(err).Str("user_id", client.UserID.String()).Msg("Typing relay failed")
			}
			cancel()
		}
	}
}

func (h *Handler) wsWriter(client *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
